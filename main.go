package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/do/v2"

	"github.com/msomdec/recipe-box/internal/config"
	"github.com/msomdec/recipe-box/internal/di"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	injector := di.NewContainer(cfg)
	logger := do.MustInvoke[*slog.Logger](injector)

	srv, err := do.Invoke[*di.HTTPServerHandle](injector)
	if err != nil {
		logger.Error("failed to start", "error", err)
		os.Exit(1)
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	exitCode := 0
	select {
	case <-ctx.Done():
		logger.Info("shutting down server")
	case err := <-serveErr:
		logger.Error("server error", "error", err)
		exitCode = 1
	}

	if err := injector.Shutdown(); err != nil {
		logger.Error("shutdown error", "error", err)
		exitCode = 1
	}
	logger.Info("server stopped")
	os.Exit(exitCode)
}
