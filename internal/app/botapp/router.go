package botapp

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/Anujpy12345/Scam-exposer-bot-render/internal/domain/model"
	"github.com/Anujpy12345/Scam-exposer-bot-render/internal/infra/metrics"
	"github.com/Anujpy12345/Scam-exposer-bot-render/internal/infra/telegram"
	"github.com/Anujpy12345/Scam-exposer-bot-render/internal/services/access"
	"github.com/Anujpy12345/Scam-exposer-bot-render/internal/services/broadcast"
	"github.com/Anujpy12345/Scam-exposer-bot-render/internal/services/moderation"
	"github.com/Anujpy12345/Scam-exposer-bot-render/internal/ui"
)

const (
	commandStart     = "start"
	commandStats     = "stats"
	commandBroadcast = "broadcast"
	commandCancel    = "cancel"
)

const (
	kindStart    = "start"
	kindText     = "text"
	kindDecision = "decision"
	kindCommand  = "command"

	kindBroadcast = "broadcast"
)

type Conversation interface {
	Start(ctx context.Context, userID int64)
	HandleText(ctx context.Context, userID int64, text string)
	Cancel(ctx context.Context, userID int64) bool
}

type Moderation interface {
	Decide(ctx context.Context, d moderation.Decision) (moderation.Outcome, error)
}

type Broadcaster interface {
	Stats(actorID int64) (int, error)
	Broadcast(ctx context.Context, actorID int64, message string) (int, error)
}

type CallbackAnswerer interface {
	AnswerCallback(ctx context.Context, callbackID, text string, alert bool) error
}

type Notifier interface {
	Deliver(ctx context.Context, kind string, msg model.OutboundMessage) bool
}

type Scheduler interface {
	Submit(ctx context.Context, key int64, kind string, run func(context.Context)) error
	Spawn(ctx context.Context, kind string, run func(context.Context)) error
}

// Router classifies inbound updates and hands each one to the scheduler
// keyed by the user whose state it touches.
type Router struct {
	conversation Conversation
	moderation   Moderation
	broadcast    Broadcaster
	answerer     CallbackAnswerer
	notifier     Notifier
	scheduler    Scheduler
	policy       access.Policy
	logger       *zap.Logger
}

func NewRouter(
	conversation Conversation,
	moderation Moderation,
	broadcaster Broadcaster,
	answerer CallbackAnswerer,
	notifier Notifier,
	scheduler Scheduler,
	policy access.Policy,
	logger *zap.Logger,
) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Router{
		conversation: conversation,
		moderation:   moderation,
		broadcast:    broadcaster,
		answerer:     answerer,
		notifier:     notifier,
		scheduler:    scheduler,
		policy:       policy,
		logger:       logger,
	}
}

func (r *Router) Handlers() telegram.Handlers {
	return telegram.Handlers{
		OnCommand:  r.OnCommand,
		OnText:     r.OnText,
		OnCallback: r.OnCallback,
	}
}

func (r *Router) OnCommand(ctx context.Context, u telegram.CommandUpdate) error {
	switch strings.ToLower(u.Command) {
	case commandStart:
		metrics.UpdatesTotal.WithLabelValues(kindStart).Inc()
		return r.scheduler.Submit(ctx, u.UserID, kindStart, func(ctx context.Context) {
			r.conversation.Start(ctx, u.UserID)
		})
	case commandCancel:
		metrics.UpdatesTotal.WithLabelValues(kindCommand).Inc()
		return r.scheduler.Submit(ctx, u.UserID, kindCommand, func(ctx context.Context) {
			r.conversation.Cancel(ctx, u.UserID)
		})
	case commandStats:
		metrics.UpdatesTotal.WithLabelValues(kindCommand).Inc()
		return r.scheduler.Submit(ctx, u.UserID, kindCommand, func(ctx context.Context) {
			r.handleStats(ctx, u)
		})
	case commandBroadcast:
		metrics.UpdatesTotal.WithLabelValues(kindCommand).Inc()
		// A broadcast can run for minutes; keep it off the moderator's keyed
		// worker so decisions and commands hashed there are not held up.
		return r.scheduler.Spawn(ctx, kindBroadcast, func(ctx context.Context) {
			r.handleBroadcast(ctx, u)
		})
	default:
		return nil
	}
}

func (r *Router) OnText(ctx context.Context, u telegram.TextUpdate) error {
	metrics.UpdatesTotal.WithLabelValues(kindText).Inc()
	return r.scheduler.Submit(ctx, u.UserID, kindText, func(ctx context.Context) {
		r.conversation.HandleText(ctx, u.UserID, u.Text)
	})
}

// OnCallback is keyed by the reporter the decision is about, so decisions on
// one report are serialised.
func (r *Router) OnCallback(ctx context.Context, u telegram.CallbackUpdate) error {
	metrics.UpdatesTotal.WithLabelValues(kindDecision).Inc()

	action, reporterID, err := moderation.ParseDecision(u.Data)
	if err != nil {
		r.logger.Debug("unparseable callback", zap.String("data", u.Data), zap.Error(err))
		r.answer(ctx, u.CallbackID, ui.UnknownActionAlert, true)
		return nil
	}

	return r.scheduler.Submit(ctx, reporterID, kindDecision, func(ctx context.Context) {
		out, err := r.moderation.Decide(ctx, moderation.Decision{
			Action:     action,
			ReporterID: reporterID,
			ActorID:    u.UserID,
			Card:       model.MessageRef{ChatID: u.ChatID, MessageID: u.MessageID},
			CardText:   u.MessageText,
		})
		if err != nil && !errors.Is(err, moderation.ErrReportNotFound) && !errors.Is(err, moderation.ErrNotModerator) {
			r.logger.Error("decide report",
				zap.String("action", string(action)),
				zap.Int64("reporter_id", reporterID),
				zap.Error(err),
			)
		}
		r.answer(ctx, u.CallbackID, out.Alert, out.Alert != "")
	})
}

func (r *Router) handleStats(ctx context.Context, u telegram.CommandUpdate) {
	total, err := r.broadcast.Stats(u.UserID)
	if err != nil {
		return
	}
	r.reply(ctx, u.ChatID, ui.RenderStats(total))
}

func (r *Router) handleBroadcast(ctx context.Context, u telegram.CommandUpdate) {
	if !r.policy.IsModerator(u.UserID) {
		return
	}

	sent, err := r.broadcast.Broadcast(ctx, u.UserID, strings.Join(strings.Fields(u.Args), " "))
	if err != nil {
		if errors.Is(err, broadcast.ErrEmptyMessage) {
			r.reply(ctx, u.ChatID, ui.BroadcastUsage)
			return
		}
		r.logger.Error("broadcast", zap.Error(err))
		return
	}
	r.reply(ctx, u.ChatID, ui.RenderBroadcastResult(sent))
}

func (r *Router) reply(ctx context.Context, chatID int64, text string) {
	r.notifier.Deliver(ctx, "reply", model.OutboundMessage{ChatID: chatID, Text: text})
}

func (r *Router) answer(ctx context.Context, callbackID, text string, alert bool) {
	if r.answerer == nil {
		return
	}
	if err := r.answerer.AnswerCallback(ctx, callbackID, text, alert); err != nil {
		r.logger.Debug("answer callback", zap.String("callback_id", callbackID), zap.Error(err))
	}
}
