// Command server runs the master-data HTTP API.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/JonMunkholm/LabMaster/internal/app"
	"github.com/JonMunkholm/LabMaster/internal/config"
	"github.com/JonMunkholm/LabMaster/internal/logging"
	"github.com/JonMunkholm/LabMaster/internal/web"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Values in .env fill in whatever the environment leaves unset.
	cfg, err := config.Load(".env")
	if err != nil {
		return err
	}

	logger := logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	logger.Info("configuration loaded", "config", cfg.String())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	reg := a.Service.Registry()
	logger.Info("categories registered", "count", reg.Len(), "groups", len(reg.Groups()))
	for _, group := range reg.Groups() {
		logger.Debug("category group", "group", group, "categories", len(reg.ByGroup(group)))
	}

	server := web.NewServer(a.Service, cfg, logger)

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		<-ctx.Done()
		logger.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if status := a.Service.ImportStatus(); status.Active > 0 {
			logger.Info("waiting for imports to complete", "active", status.Active)
			if err := a.Service.WaitForImports(shutdownCtx); err != nil {
				logger.Warn("imports did not complete in time", "error", err)
			} else {
				logger.Info("all imports completed")
			}
		}

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown error", "error", err)
		}
	}()

	if err := server.Start(cfg.Server.Addr()); err != nil {
		return err
	}
	// Start returns as soon as Shutdown begins; in-flight requests still
	// need the store.
	<-shutdownDone
	logger.Info("server stopped")
	return nil
}
