package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// ShutdownTimeout bounds how long in-flight requests get once the context is
// cancelled.
const ShutdownTimeout = 5 * time.Second

// Serve listens on cfg.Address and serves until ctx is cancelled.
func Serve(ctx context.Context, logger *zap.Logger, cfg *Config, version string) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	ln, err := net.Listen("tcp", cfg.Address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.Address, err)
	}

	handler := NewHandler(logger, cfg.BodySizeBytes(), version, cfg.SessionTTLDuration())
	return ServeListener(ctx, logger, ln, handler)
}

// ServeListener serves handler on ln until ctx is cancelled, then shuts down
// gracefully. It closes ln.
func ServeListener(ctx context.Context, logger *zap.Logger, ln net.Listener, handler http.Handler) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	logger.Info("web server listening",
		zap.String("op", "server.ServeListener"),
		zap.String("address", ln.Addr().String()),
	)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("web server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down web server",
		zap.String("op", "server.ServeListener"),
	)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("web server shutdown: %w", err)
	}

	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("web server failed: %w", err)
	}
	return nil
}
