// Package notify implements best-effort delivery: a failed send is counted and
// logged at debug level, then dropped. Nothing is retried.
package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/Anujpy12345/Scam-exposer-bot-render/internal/domain/model"
	"github.com/Anujpy12345/Scam-exposer-bot-render/internal/infra/metrics"
)

type Sender interface {
	Send(ctx context.Context, msg model.OutboundMessage) (int, error)
}

type Notifier struct {
	sender Sender
	logger *zap.Logger
}

func New(sender Sender, logger *zap.Logger) *Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Notifier{sender: sender, logger: logger}
}

// Deliver sends msg and discards any failure. It reports whether the
// transport accepted the message.
func (n *Notifier) Deliver(ctx context.Context, kind string, msg model.OutboundMessage) bool {
	if n == nil || n.sender == nil {
		return false
	}

	if _, err := n.sender.Send(ctx, msg); err != nil {
		metrics.DeliveriesTotal.WithLabelValues(kind, "failed").Inc()
		n.logger.Debug("best-effort delivery dropped",
			zap.String("kind", kind),
			zap.Int64("chat_id", msg.ChatID),
			zap.Error(err),
		)
		return false
	}

	metrics.DeliveriesTotal.WithLabelValues(kind, "ok").Inc()
	return true
}
