package recipestreet

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/recipestreet/recipe-street/internal/config"
	"github.com/recipestreet/recipe-street/internal/events"
	"github.com/recipestreet/recipe-street/internal/lib/jwt"
	authservice "github.com/recipestreet/recipe-street/internal/services/auth"
	"github.com/recipestreet/recipe-street/internal/storage/localstore"
	"github.com/recipestreet/recipe-street/internal/storage/registry"
)

// App — собранное приложение с HTTP-сервером.
type App struct {
	server *http.Server
	logger *slog.Logger
}

// New открывает локальное хранилище и собирает все зависимости приложения.
func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	store, err := localstore.Open(cfg.StorageDir)
	if err != nil {
		return nil, err
	}

	users := registry.New(store, logger)
	jwtMaker := jwt.NewMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	authService := authservice.New(users, store, jwtMaker, logger, cfg.LoginDelay)
	reporter := events.New(cfg.URL, cfg.TimeoutWebhook, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, authService, users, jwtMaker, reporter, cfg.AdminKey)

	srv := &http.Server{
		Addr:         cfg.Address,
		Handler:      router,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его при отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		return a.server.Shutdown(timeoutCtx)
	}
}
