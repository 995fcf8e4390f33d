package healthapp

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Anujpy12345/Scam-exposer-bot-render/internal/config"
	"github.com/Anujpy12345/Scam-exposer-bot-render/internal/infra/metrics"
	httperrors "github.com/Anujpy12345/Scam-exposer-bot-render/internal/transport/http/errors"
	"github.com/Anujpy12345/Scam-exposer-bot-render/internal/transport/http/handlers"
)

// App is the liveness server. It shares nothing with the bot loop except
// the read-only user counter.
type App struct {
	cfg     config.HTTPConfig
	logger  *zap.Logger
	server  *http.Server
	handler http.Handler
}

func New(cfg config.HTTPConfig, users handlers.UserCounter, log *zap.Logger) *App {
	if log == nil {
		log = zap.NewNop()
	}

	r := chi.NewRouter()
	ApplyMiddlewares(r, log)
	RegisterRoutes(r, handlers.NewHealthHandler(users, time.Now()))

	return &App{
		cfg:     cfg,
		logger:  log,
		handler: r,
		server: &http.Server{
			Addr:         cfg.Addr,
			Handler:      r,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
	}
}

func RegisterRoutes(r chi.Router, health *handlers.HealthHandler) {
	r.NotFound(httperrors.NotFound)
	r.MethodNotAllowed(httperrors.MethodNotAllowed)

	r.Get("/", health.Root)
	r.Head("/", health.Root)
	r.Get("/healthz", health.Health)
	r.Handle("/metrics", metrics.Handler())
}

// Run serves until ctx is done, then shuts the server down within the
// configured timeout.
func (a *App) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.cfg.Addr)
	if err != nil {
		return err
	}
	return a.Serve(ctx, ln)
}

func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("health server started", zap.String("addr", ln.Addr().String()))
		errCh <- a.server.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	a.logger.Info("health server stopped")
	return nil
}

func (a *App) Handler() http.Handler {
	return a.handler
}
