package botapp

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Anujpy12345/Scam-exposer-bot-render/internal/app/healthapp"
	"github.com/Anujpy12345/Scam-exposer-bot-render/internal/config"
	"github.com/Anujpy12345/Scam-exposer-bot-render/internal/infra/messaging"
	tginfra "github.com/Anujpy12345/Scam-exposer-bot-render/internal/infra/telegram"
	"github.com/Anujpy12345/Scam-exposer-bot-render/internal/services/access"
	"github.com/Anujpy12345/Scam-exposer-bot-render/internal/services/broadcast"
	"github.com/Anujpy12345/Scam-exposer-bot-render/internal/services/conversation"
	"github.com/Anujpy12345/Scam-exposer-bot-render/internal/services/moderation"
	"github.com/Anujpy12345/Scam-exposer-bot-render/internal/services/notify"
	"github.com/Anujpy12345/Scam-exposer-bot-render/internal/services/registry"
)

type App struct {
	cfg        config.Config
	logger     *zap.Logger
	backends   *backends
	nats       *messaging.NATSClient
	bot        *tginfra.Bot
	router     *Router
	dispatcher *Dispatcher
	health     *healthapp.App
}

func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	b := &backends{}
	registryStore, err := b.registryStore(ctx, cfg)
	if err != nil {
		_ = b.Close()
		return nil, fmt.Errorf("init registry store: %w", err)
	}
	pendingStore, err := b.pendingStore(ctx, cfg)
	if err != nil {
		_ = b.Close()
		return nil, fmt.Errorf("init pending store: %w", err)
	}

	users := registry.NewService(registryStore)
	if err := users.Load(ctx); err != nil {
		logger.Error("registry load failed, starting empty", zap.Error(err))
	}
	logger.Info("registry loaded",
		zap.String("backend", cfg.Registry.Backend),
		zap.Int("users", users.Count()),
	)

	bot, err := tginfra.NewBot(cfg.Bot.Token, cfg.Bot.PollTimeoutSeconds, logger)
	if err != nil {
		_ = b.Close()
		return nil, fmt.Errorf("init telegram bot: %w", err)
	}

	if cfg.Moderation.ModeratorID == 0 {
		logger.Warn("ADMIN_USER_ID is not set, moderator commands and cards are inert")
	}

	policy := access.NewPolicy(cfg.Moderation.ModeratorID)
	notifier := notify.New(bot, logger)

	moderationService := moderation.NewService(pendingStore, bot, notifier, policy, moderation.Config{
		ChannelID:                 cfg.Moderation.ChannelID,
		EnforceModeratorDecisions: cfg.Moderation.EnforceModeratorDecisions,
	}, logger)

	var natsClient *messaging.NATSClient
	if cfg.IsNATSEnabled() {
		natsCfg := messaging.DefaultNATSConfig()
		natsCfg.URL = cfg.NATS.URL
		natsCfg.Name = cfg.NATS.Name
		natsClient, err = messaging.NewNATSClient(natsCfg, logger)
		if err != nil {
			logger.Warn("nats unavailable, report events disabled", zap.Error(err))
		} else {
			moderationService.AttachEvents(natsClient)
		}
	}

	conversationService := conversation.NewService(conversation.NewSessions(), users, moderationService, notifier, logger)
	broadcastService := broadcast.NewService(users, notifier, policy, cfg.Broadcast.Workers, logger)

	dispatcher := NewDispatcher(cfg.Bot.Workers, cfg.Bot.QueueSize, logger)
	router := NewRouter(conversationService, moderationService, broadcastService, bot, notifier, dispatcher, policy, logger)

	return &App{
		cfg:        cfg,
		logger:     logger,
		backends:   b,
		nats:       natsClient,
		bot:        bot,
		router:     router,
		dispatcher: dispatcher,
		health:     healthapp.New(cfg.HTTP, users, logger),
	}, nil
}

// Run blocks until ctx is cancelled or one of the loops fails.
func (a *App) Run(ctx context.Context) error {
	a.logger.Info("bot app started")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.health.Run(gctx)
	})
	g.Go(func() error {
		return a.dispatcher.Run(gctx)
	})
	g.Go(func() error {
		return a.bot.Listen(gctx, a.router.Handlers())
	})

	err := g.Wait()
	a.logger.Info("bot app stopped")
	return err
}

func (a *App) Close() {
	if a.nats != nil {
		a.nats.Close()
	}
	if err := a.backends.Close(); err != nil {
		a.logger.Warn("close backends", zap.Error(err))
	}
}
