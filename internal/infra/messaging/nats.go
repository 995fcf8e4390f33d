// Package messaging publishes moderation events to NATS.
package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/Anujpy12345/Scam-exposer-bot-render/internal/domain/model"
)

const subjectReports = "reports" // + .<event type>

type NATSConfig struct {
	URL           string
	Name          string
	ReconnectWait time.Duration
	MaxReconnects int
}

func DefaultNATSConfig() NATSConfig {
	return NATSConfig{
		URL:           nats.DefaultURL,
		Name:          "scam-report-bot",
		ReconnectWait: 2 * time.Second,
		MaxReconnects: -1,
	}
}

type publisher interface {
	Publish(subject string, data []byte) error
}

type NATSClient struct {
	conn   *nats.Conn
	pub    publisher
	logger *zap.Logger
}

func NewNATSClient(config NATSConfig, logger *zap.Logger) (*NATSClient, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	opts := []nats.Option{
		nats.Name(config.Name),
		nats.ReconnectWait(config.ReconnectWait),
		nats.MaxReconnects(config.MaxReconnects),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warn("nats disconnected", zap.Error(err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("nats reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
	}

	nc, err := nats.Connect(config.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	logger.Info("nats connected", zap.String("url", nc.ConnectedUrl()))

	return &NATSClient{conn: nc, pub: nc, logger: logger}, nil
}

// SubjectFor returns "reports.<type>".
func SubjectFor(eventType string) string {
	return subjectReports + "." + eventType
}

func (c *NATSClient) PublishReportEvent(_ context.Context, event model.ReportEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode report event: %w", err)
	}
	subject := SubjectFor(event.Type)
	if err := c.pub.Publish(subject, data); err != nil {
		return fmt.Errorf("nats publish %s: %w", subject, err)
	}
	return nil
}

func (c *NATSClient) Close() {
	if c.conn == nil {
		return
	}
	if err := c.conn.Drain(); err != nil {
		c.logger.Warn("nats drain", zap.Error(err))
	}
}
