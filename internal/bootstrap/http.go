package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/target/storefront-admin/config"
	httpx "github.com/target/storefront-admin/internal/http"
)

const shutdownTimeout = 10 * time.Second

// BuildHTTPHandler builds the router and wraps it with the shared middleware.
// Order: Recover -> Logging -> Router.
func BuildHTTPHandler(cfg *config.AppConfig, services ServiceContainer, logger *slog.Logger) (http.Handler, error) {
	if logger == nil {
		logger = slog.Default()
	}

	router, err := httpx.NewRouter(httpx.RouterServices{
		Auth:         services.Auth,
		Guard:        services.Guard,
		Tokens:       services.Tokens,
		Remember:     services.Remember,
		Preferences:  services.Preferences,
		Messages:     services.Messages,
		TokenTTL:     cfg.Auth.TokenTTL,
		CookieDomain: cfg.HTTP.CookieDomain,
		Health:       services.Stores.Health,
		IsDev:        cfg.IsDev,
		Logger:       logger,
	})
	if err != nil {
		return nil, fmt.Errorf("build router: %w", err)
	}

	h := httpx.Logging(logger)(router)
	h = httpx.Recover(logger)(h)
	return h, nil
}

// NewHTTPServer returns a server with the application's timeouts.
func NewHTTPServer(addr string, handler http.Handler) *http.Server {
	// Guard against empty addr to avoid listening on Go default
	if addr == "" {
		addr = ":8080"
	}
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

// serveHTTP runs server until ctx is canceled, then shuts it down gracefully.
func serveHTTP(ctx context.Context, server *http.Server, logger *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	logger.Info("HTTP server stopped")
	return <-errCh
}
