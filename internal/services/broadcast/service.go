package broadcast

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Anujpy12345/Scam-exposer-bot-render/internal/domain/model"
	"github.com/Anujpy12345/Scam-exposer-bot-render/internal/services/access"
)

var ErrEmptyMessage = errors.New("broadcast message is empty")

type Registry interface {
	Snapshot() []int64
	Count() int
}

type Notifier interface {
	Deliver(ctx context.Context, kind string, msg model.OutboundMessage) bool
}

type Service struct {
	registry Registry
	notifier Notifier
	policy   access.Policy
	workers  int
	logger   *zap.Logger
}

func NewService(registry Registry, notifier Notifier, policy access.Policy, workers int, logger *zap.Logger) *Service {
	if workers <= 0 {
		workers = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		registry: registry,
		notifier: notifier,
		policy:   policy,
		workers:  workers,
		logger:   logger,
	}
}

// Stats returns the number of registered users.
func (s *Service) Stats(actorID int64) (int, error) {
	if err := s.policy.RequireModerator(actorID); err != nil {
		return 0, err
	}
	return s.registry.Count(), nil
}

// Broadcast sends message to every user registered when the call starts and
// returns how many deliveries succeeded. Users registered mid-broadcast are
// not included. Failed deliveries are skipped.
func (s *Service) Broadcast(ctx context.Context, actorID int64, message string) (int, error) {
	if err := s.policy.RequireModerator(actorID); err != nil {
		return 0, err
	}
	if strings.TrimSpace(message) == "" {
		return 0, ErrEmptyMessage
	}

	recipients := s.registry.Snapshot()

	var sent atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for _, userID := range recipients {
		if gctx.Err() != nil {
			break
		}
		userID := userID
		g.Go(func() error {
			if s.notifier.Deliver(gctx, "broadcast", model.OutboundMessage{ChatID: userID, Text: message}) {
				sent.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()

	s.logger.Info("broadcast finished",
		zap.Int("recipients", len(recipients)),
		zap.Int64("sent", sent.Load()),
	)
	return int(sent.Load()), nil
}
