package app

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
)

// Start binds the configured address and serves until SIGINT, SIGTERM or
// SIGHUP. The returned channel is closed once a signal arrives.
func (a *App) Start() <-chan struct{} {
	l, err := net.Listen("tcp", a.httpServer.Addr)
	if err != nil {
		slog.Error("failed to bind http server", "address", a.httpServer.Addr, "error", err)
		os.Exit(1)
	}

	served := a.Serve(l)
	go func() {
		if err := <-served; err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server stopped unexpectedly", "error", err)
			os.Exit(1)
		}
	}()

	done := make(chan struct{})
	go func() {
		ctx, stop := signal.NotifyContext(a.ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
		defer stop()

		<-ctx.Done()
		slog.Info("shutdown signal received", "because", context.Cause(ctx))
		close(done)
	}()

	return done
}

// Serve runs the HTTP server on l. After Stop the returned channel yields
// http.ErrServerClosed.
func (a *App) Serve(l net.Listener) <-chan error {
	errChan := make(chan error, 1)

	slog.Info("http server listening", "address", l.Addr().String())
	go func() {
		defer close(errChan)
		errChan <- a.httpServer.Serve(l)
	}()

	return errChan
}

// Stop drains HTTP traffic first, then the background TOTP job, and closes
// the seed store, telemetry and config last.
func (a *App) Stop(ctx context.Context) {
	if err := a.httpServer.Shutdown(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to shutdown http server", "error", err)
	}

	a.cancel()
	if err := a.goroutine.Wait(); err != nil {
		slog.ErrorContext(ctx, "background jobs returned errors", "error", err)
	}
	slog.InfoContext(ctx, "background jobs finished")

	for _, closer := range a.closers {
		if err := closer.fn(ctx); err != nil {
			slog.ErrorContext(ctx, "failed to close resources", "name", closer.name, "error", err)
		}
	}
	slog.InfoContext(ctx, "application stopped")
}
