package moderation

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/Anujpy12345/Scam-exposer-bot-render/internal/domain/enums"
	"github.com/Anujpy12345/Scam-exposer-bot-render/internal/domain/model"
	"github.com/Anujpy12345/Scam-exposer-bot-render/internal/infra/metrics"
	"github.com/Anujpy12345/Scam-exposer-bot-render/internal/services/access"
	"github.com/Anujpy12345/Scam-exposer-bot-render/internal/ui"
)

var (
	ErrReportNotFound   = errors.New("pending report not found")
	ErrIncompleteReport = errors.New("report draft is incomplete")
	ErrNotModerator     = access.ErrForbidden
)

const (
	EventSubmitted = "submitted"
	EventApproved  = "approved"
	EventRejected  = "rejected"
)

// Messenger is the part of the chat transport whose failures moderation
// reacts to. Plain notifications go through Notifier instead.
type Messenger interface {
	Send(ctx context.Context, msg model.OutboundMessage) (int, error)
	EditText(ctx context.Context, ref model.MessageRef, text string) error
}

type Notifier interface {
	Deliver(ctx context.Context, kind string, msg model.OutboundMessage) bool
}

type EventPublisher interface {
	PublishReportEvent(ctx context.Context, event model.ReportEvent) error
}

type Config struct {
	ChannelID                 string
	EnforceModeratorDecisions bool
}

// Decision is one moderator tap on an Accept or Reject button.
type Decision struct {
	Action     enums.DecisionAction
	ReporterID int64
	ActorID    int64
	Card       model.MessageRef
	CardText   string
}

// Outcome tells the caller what to show the moderator. An empty Alert means
// the callback is acknowledged silently.
type Outcome struct {
	Alert     string
	Published bool
}

type Service struct {
	store     PendingStore
	messenger Messenger
	notifier  Notifier
	policy    access.Policy
	cfg       Config
	events    EventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

func NewService(store PendingStore, messenger Messenger, notifier Notifier, policy access.Policy, cfg Config, logger *zap.Logger) *Service {
	if store == nil {
		store = NewMemoryStore()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:     store,
		messenger: messenger,
		notifier:  notifier,
		policy:    policy,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
}

// AttachEvents turns on the moderation event stream.
func (s *Service) AttachEvents(events EventPublisher) {
	s.events = events
}

// Submit stores report, replacing any earlier one from the same reporter,
// sends the review card to the moderator and acknowledges the reporter.
func (s *Service) Submit(ctx context.Context, report model.PendingReport) error {
	if !report.Draft.Complete() {
		return ErrIncompleteReport
	}
	if err := s.store.Put(ctx, report); err != nil {
		return fmt.Errorf("store pending report: %w", err)
	}
	metrics.ReportsSubmittedTotal.Inc()

	s.sendCard(ctx, report)

	s.notifier.Deliver(ctx, "reply", model.OutboundMessage{ChatID: report.ReporterID, Text: ui.SubmittedAck})

	s.emit(ctx, model.ReportEvent{
		Type:            EventSubmitted,
		ReportID:        report.ID,
		ReporterID:      report.ReporterID,
		ScammerIdentity: report.Draft.ScammerIdentity,
		Amount:          report.Draft.Amount,
	})
	return nil
}

// sendCard delivers the review card. Telegram refuses the whole message when
// the proof URL is not a valid link, so a failed card is sent once more with
// the decision buttons only.
func (s *Service) sendCard(ctx context.Context, report model.PendingReport) {
	decisions := []model.Button{
		{Text: ui.ApproveButton, Data: EncodeDecision(enums.DecisionApprove, report.ReporterID)},
		{Text: ui.RejectButton, Data: EncodeDecision(enums.DecisionReject, report.ReporterID)},
	}
	card := model.OutboundMessage{
		ChatID:   s.policy.ModeratorID,
		Text:     ui.RenderModeratorCard(report),
		Markdown: true,
		Buttons: [][]model.Button{
			{{Text: ui.ViewProofsButton, URL: ui.ProofURL(report.Draft.ProofLink)}},
			decisions,
		},
	}
	if s.notifier.Deliver(ctx, "moderator_card", card) {
		return
	}

	card.Text = ui.RenderModeratorCardWithLink(report)
	card.Buttons = [][]model.Button{decisions}
	if s.notifier.Deliver(ctx, "moderator_card", card) {
		return
	}

	s.logger.Warn("moderator card not delivered",
		zap.Int64("moderator_id", s.policy.ModeratorID),
		zap.Int64("reporter_id", report.ReporterID),
	)
}

func (s *Service) Decide(ctx context.Context, d Decision) (Outcome, error) {
	if s.cfg.EnforceModeratorDecisions && !s.policy.IsModerator(d.ActorID) {
		metrics.DecisionsTotal.WithLabelValues(string(d.Action), "forbidden").Inc()
		s.logger.Warn("decision from non-moderator",
			zap.Int64("actor_id", d.ActorID),
			zap.Int64("reporter_id", d.ReporterID),
		)
		return Outcome{Alert: ui.NotAllowedAlert}, ErrNotModerator
	}

	switch d.Action {
	case enums.DecisionApprove:
		return s.approve(ctx, d)
	case enums.DecisionReject:
		return s.reject(ctx, d)
	default:
		return Outcome{Alert: ui.UnknownActionAlert}, fmt.Errorf("%w: unknown action %q", ErrInvalidDecision, d.Action)
	}
}

func (s *Service) approve(ctx context.Context, d Decision) (Outcome, error) {
	report, ok, err := s.store.Take(ctx, d.ReporterID)
	if err != nil {
		metrics.DecisionsTotal.WithLabelValues(string(d.Action), "error").Inc()
		return Outcome{Alert: ui.DecisionFailedAlert}, fmt.Errorf("take pending report: %w", err)
	}
	if !ok {
		metrics.DecisionsTotal.WithLabelValues(string(d.Action), "missing").Inc()
		return Outcome{Alert: ui.ReportNotFoundAlert}, ErrReportNotFound
	}

	post := s.channelPost(report)
	if _, err := s.messenger.Send(ctx, post); err != nil {
		metrics.DecisionsTotal.WithLabelValues(string(d.Action), "publish_failed").Inc()
		s.logger.Error("publish approved report",
			zap.String("channel", s.cfg.ChannelID),
			zap.Int64("reporter_id", report.ReporterID),
			zap.Error(err),
		)
		// Decisions for one reporter are serialised, so restoring here cannot
		// race a second publish.
		if err := s.store.Put(ctx, report); err != nil {
			s.logger.Error("restore pending report", zap.Int64("reporter_id", report.ReporterID), zap.Error(err))
			return Outcome{Alert: ui.DecisionFailedAlert}, fmt.Errorf("restore pending report: %w", err)
		}
		return Outcome{Alert: ui.PublishFailedAlert}, nil
	}

	s.notifier.Deliver(ctx, "decision_notice", model.OutboundMessage{ChatID: report.ReporterID, Text: ui.ApprovedNotice})
	s.markCard(ctx, d)

	metrics.DecisionsTotal.WithLabelValues(string(d.Action), "applied").Inc()
	s.emit(ctx, model.ReportEvent{
		Type:            EventApproved,
		ReportID:        report.ID,
		ReporterID:      report.ReporterID,
		ScammerIdentity: report.Draft.ScammerIdentity,
		Amount:          report.Draft.Amount,
		ActorID:         d.ActorID,
	})
	return Outcome{Published: true}, nil
}

// reject never checks that the report exists: the reporter is told and the
// card is marked either way.
func (s *Service) reject(ctx context.Context, d Decision) (Outcome, error) {
	s.notifier.Deliver(ctx, "decision_notice", model.OutboundMessage{ChatID: d.ReporterID, Text: ui.RejectedNotice})
	s.markCard(ctx, d)

	report, _, err := s.store.Take(ctx, d.ReporterID)
	if err != nil {
		s.logger.Error("drop pending report", zap.Int64("reporter_id", d.ReporterID), zap.Error(err))
	}

	metrics.DecisionsTotal.WithLabelValues(string(d.Action), "applied").Inc()
	s.emit(ctx, model.ReportEvent{
		Type:       EventRejected,
		ReportID:   report.ID,
		ReporterID: d.ReporterID,
		ActorID:    d.ActorID,
	})
	return Outcome{}, nil
}

func (s *Service) channelPost(report model.PendingReport) model.OutboundMessage {
	msg := model.OutboundMessage{
		Text:     ui.RenderChannelPost(report),
		Markdown: true,
		Buttons: [][]model.Button{
			{{Text: ui.ChannelProofsButton, URL: ui.ProofURL(report.Draft.ProofLink)}},
			{{Text: ui.ReportedByButton, URL: ui.ReporterLink(report.ReporterID)}},
		},
	}
	if id, err := strconv.ParseInt(s.cfg.ChannelID, 10, 64); err == nil {
		msg.ChatID = id
	} else {
		msg.Channel = s.cfg.ChannelID
	}
	return msg
}

func (s *Service) markCard(ctx context.Context, d Decision) {
	if d.Card.MessageID == 0 {
		return
	}
	if err := s.messenger.EditText(ctx, d.Card, ui.WithStatus(d.CardText, d.Action)); err != nil {
		s.logger.Debug("edit moderator card", zap.Int("message_id", d.Card.MessageID), zap.Error(err))
	}
}

func (s *Service) emit(ctx context.Context, event model.ReportEvent) {
	if s.events == nil {
		return
	}
	event.OccurredAt = s.now().UTC()
	if err := s.events.PublishReportEvent(ctx, event); err != nil {
		s.logger.Warn("publish report event", zap.String("type", event.Type), zap.Error(err))
	}
}
