package telegram

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/Anujpy12345/Scam-exposer-bot-render/internal/domain/model"
)

type Bot struct {
	api         *tgbotapi.BotAPI
	logger      *zap.Logger
	pollTimeout int
}

type CommandUpdate struct {
	ChatID   int64
	UserID   int64
	Username string
	Command  string
	Args     string
}

type TextUpdate struct {
	ChatID   int64
	UserID   int64
	Username string
	Text     string
}

type CallbackUpdate struct {
	CallbackID  string
	ChatID      int64
	UserID      int64
	Username    string
	Data        string
	MessageID   int
	MessageText string
}

type Handlers struct {
	OnCommand  func(context.Context, CommandUpdate) error
	OnText     func(context.Context, TextUpdate) error
	OnCallback func(context.Context, CallbackUpdate) error
}

func NewBot(token string, pollTimeout int, logger *zap.Logger) (*Bot, error) {
	if strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("telegram bot token is empty")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	api, err := tgbotapi.NewBotAPI(strings.TrimSpace(token))
	if err != nil {
		return nil, fmt.Errorf("create telegram bot api: %w", err)
	}

	return &Bot{
		api:         api,
		logger:      logger,
		pollTimeout: pollTimeout,
	}, nil
}

// Listen long-polls until ctx is done. Handler errors are logged and do not
// stop polling.
func (b *Bot) Listen(ctx context.Context, handlers Handlers) error {
	if b == nil || b.api == nil {
		return fmt.Errorf("telegram bot is not initialized")
	}

	timeout := b.pollTimeout
	if timeout <= 0 {
		timeout = 30
	}

	updateCfg := tgbotapi.NewUpdate(0)
	updateCfg.Timeout = timeout
	updates := b.api.GetUpdatesChan(updateCfg)
	defer b.api.StopReceivingUpdates()

	b.logger.Info("telegram polling started", zap.String("bot", b.api.Self.UserName))

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if err := dispatchUpdate(ctx, update, handlers); err != nil {
				b.logger.Error("handle telegram update", zap.Int("update_id", update.UpdateID), zap.Error(err))
			}
		}
	}
}

func dispatchUpdate(ctx context.Context, update tgbotapi.Update, handlers Handlers) error {
	if update.Message != nil && update.Message.From != nil {
		if update.Message.IsCommand() {
			if handlers.OnCommand == nil {
				return nil
			}
			return handlers.OnCommand(ctx, CommandUpdate{
				ChatID:   update.Message.Chat.ID,
				UserID:   update.Message.From.ID,
				Username: update.Message.From.UserName,
				Command:  update.Message.Command(),
				Args:     update.Message.CommandArguments(),
			})
		}

		if update.Message.Text != "" && handlers.OnText != nil {
			return handlers.OnText(ctx, TextUpdate{
				ChatID:   update.Message.Chat.ID,
				UserID:   update.Message.From.ID,
				Username: update.Message.From.UserName,
				Text:     update.Message.Text,
			})
		}
		return nil
	}

	if update.CallbackQuery != nil && update.CallbackQuery.From != nil && handlers.OnCallback != nil {
		cb := CallbackUpdate{
			CallbackID: update.CallbackQuery.ID,
			UserID:     update.CallbackQuery.From.ID,
			Username:   update.CallbackQuery.From.UserName,
			Data:       update.CallbackQuery.Data,
		}
		if msg := update.CallbackQuery.Message; msg != nil {
			cb.ChatID = msg.Chat.ID
			cb.MessageID = msg.MessageID
			cb.MessageText = msg.Text
		}
		return handlers.OnCallback(ctx, cb)
	}

	return nil
}

// Send delivers msg and returns the id of the created message. The Bot API
// client has no per-call context, so a cancelled ctx only stops calls that
// have not started.
func (b *Bot) Send(ctx context.Context, msg model.OutboundMessage) (int, error) {
	if b == nil || b.api == nil {
		return 0, fmt.Errorf("telegram bot is not initialized")
	}

	if err := ctx.Err(); err != nil {
		return 0, err
	}

	cfg, err := buildMessage(msg)
	if err != nil {
		return 0, err
	}

	sent, err := b.api.Send(cfg)
	if err != nil {
		return 0, fmt.Errorf("send telegram message: %w", err)
	}
	return sent.MessageID, nil
}

// EditText replaces the text of a sent message. Its inline keyboard is dropped.
func (b *Bot) EditText(ctx context.Context, ref model.MessageRef, text string) error {
	if b == nil || b.api == nil {
		return fmt.Errorf("telegram bot is not initialized")
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	edit := tgbotapi.NewEditMessageText(ref.ChatID, ref.MessageID, text)
	if _, err := b.api.Request(edit); err != nil {
		return fmt.Errorf("edit telegram message: %w", err)
	}
	return nil
}

func (b *Bot) AnswerCallback(ctx context.Context, callbackID, text string, alert bool) error {
	if b == nil || b.api == nil {
		return fmt.Errorf("telegram bot is not initialized")
	}
	if strings.TrimSpace(callbackID) == "" {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	cfg := tgbotapi.NewCallback(callbackID, text)
	cfg.ShowAlert = alert && text != ""
	if _, err := b.api.Request(cfg); err != nil {
		return fmt.Errorf("answer callback query: %w", err)
	}
	return nil
}

func buildMessage(msg model.OutboundMessage) (tgbotapi.MessageConfig, error) {
	var cfg tgbotapi.MessageConfig
	switch {
	case msg.ChatID != 0:
		cfg = tgbotapi.NewMessage(msg.ChatID, msg.Text)
	case strings.TrimSpace(msg.Channel) != "":
		cfg = tgbotapi.NewMessageToChannel(msg.Channel, msg.Text)
	default:
		return tgbotapi.MessageConfig{}, fmt.Errorf("chat id is required")
	}

	if msg.Markdown {
		cfg.ParseMode = tgbotapi.ModeMarkdown
	}
	if len(msg.Buttons) > 0 {
		cfg.ReplyMarkup = BuildInlineKeyboard(msg.Buttons)
	}
	return cfg, nil
}
