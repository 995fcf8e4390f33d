package conversation

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Anujpy12345/Scam-exposer-bot-render/internal/domain/enums"
	"github.com/Anujpy12345/Scam-exposer-bot-render/internal/domain/model"
	"github.com/Anujpy12345/Scam-exposer-bot-render/internal/ui"
)

type Registry interface {
	Add(ctx context.Context, userID int64) (bool, error)
}

type Submitter interface {
	Submit(ctx context.Context, report model.PendingReport) error
}

type Notifier interface {
	Deliver(ctx context.Context, kind string, msg model.OutboundMessage) bool
}

type Service struct {
	sessions  *Sessions
	registry  Registry
	submitter Submitter
	notifier  Notifier
	logger    *zap.Logger
	now       func() time.Time
}

func NewService(sessions *Sessions, registry Registry, submitter Submitter, notifier Notifier, logger *zap.Logger) *Service {
	if sessions == nil {
		sessions = NewSessions()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		sessions:  sessions,
		registry:  registry,
		submitter: submitter,
		notifier:  notifier,
		logger:    logger,
		now:       time.Now,
	}
}

// Start registers userID, discards any form in progress and asks for step 1.
func (s *Service) Start(ctx context.Context, userID int64) {
	if s.registry != nil {
		added, err := s.registry.Add(ctx, userID)
		if err != nil {
			s.logger.Error("persist registry", zap.Int64("user_id", userID), zap.Error(err))
		} else if added {
			s.logger.Info("user registered", zap.Int64("user_id", userID))
		}
	}

	s.sessions.Update(userID, func(Session, bool) (Session, bool) {
		return Session{Step: enums.StepAwaitingUsername}, true
	})

	s.reply(ctx, userID, ui.StartPrompt)
}

// HandleText advances the form by one step. Text from a user with no
// conversation is ignored.
func (s *Service) HandleText(ctx context.Context, userID int64, text string) {
	if text == "" {
		return
	}

	var (
		prompt    string
		completed *model.PendingReport
	)

	s.sessions.Update(userID, func(cur Session, ok bool) (Session, bool) {
		if !ok {
			return cur, false
		}

		switch cur.Step {
		case enums.StepAwaitingUsername:
			cur.Draft.ScammerIdentity = text
		case enums.StepAwaitingDescription:
			cur.Draft.Description = text
		case enums.StepAwaitingAmount:
			cur.Draft.Amount = text
		case enums.StepAwaitingProofLink:
			if !IsProofLink(text) {
				prompt = ui.InvalidProofLink
				return cur, true
			}
			cur.Draft.ProofLink = text
			completed = &model.PendingReport{
				ID:          uuid.New(),
				ReporterID:  userID,
				Draft:       cur.Draft,
				SubmittedAt: s.now().UTC(),
			}
			return Session{}, false
		default:
			s.logger.Warn("unknown conversation step", zap.Int64("user_id", userID), zap.String("step", string(cur.Step)))
			return Session{}, false
		}

		next, _ := cur.Step.Next()
		cur.Step = next
		prompt = ui.PromptFor(next)
		return cur, true
	})

	if completed != nil {
		s.submit(ctx, *completed)
		return
	}
	if prompt != "" {
		s.reply(ctx, userID, prompt)
	}
}

// Cancel drops the form in progress. It reports whether there was one.
func (s *Service) Cancel(ctx context.Context, userID int64) bool {
	if !s.sessions.Delete(userID) {
		return false
	}
	s.reply(ctx, userID, ui.CancelledNotice)
	return true
}

// State returns the current session of userID.
func (s *Service) State(userID int64) (Session, bool) {
	return s.sessions.Get(userID)
}

func (s *Service) submit(ctx context.Context, report model.PendingReport) {
	if s.submitter == nil {
		return
	}
	if err := s.submitter.Submit(ctx, report); err != nil {
		s.logger.Error("submit report",
			zap.Int64("user_id", report.ReporterID),
			zap.String("report_id", report.ID.String()),
			zap.Error(err),
		)
		s.reply(ctx, report.ReporterID, ui.SubmitFailed)
	}
}

func (s *Service) reply(ctx context.Context, userID int64, text string) {
	if s.notifier == nil {
		return
	}
	s.notifier.Deliver(ctx, "reply", model.OutboundMessage{ChatID: userID, Text: text})
}

// IsProofLink is the only validation applied to report input.
func IsProofLink(text string) bool {
	return strings.HasPrefix(text, "http") || strings.HasPrefix(text, "t.me")
}
