package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/verdant-labs/cropscan/internal/bootstrap"
	"github.com/verdant-labs/cropscan/internal/classify"
	"github.com/verdant-labs/cropscan/internal/config"
	"github.com/verdant-labs/cropscan/internal/logging"
	"github.com/verdant-labs/cropscan/internal/server"
	"github.com/verdant-labs/cropscan/internal/vocab"
)

func main() {
	// .env is optional; missing file is not an error.
	_ = godotenv.Load()

	cfg := config.Load()
	logging.Init(cfg.Log.Format, logging.ParseLevel(cfg.Log.Level))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Best-effort model fetch. A failure means demo mode, never a dead server.
	if err := bootstrap.Ensure(ctx, cfg.Model.Path, cfg.Model.RemoteURL); err != nil {
		slog.Warn("model fetch failed, continuing without artifact", "error", err)
	}

	v := vocab.Load(cfg.Model.ClassNamesPath)
	cls := classify.New(cfg.Model.Path, cfg.Model.ORTLibPath, v,
		cfg.Model.InputWidth, cfg.Model.InputHeight)
	defer cls.Close()

	srv := server.New(cls, cfg.Server)

	slog.Info("cropscan starting",
		"addr", cfg.Server.Addr(),
		"model_loaded", cls.ModelLoaded(),
		"classes", v.Len(),
	)
	if err := srv.Run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
	slog.Info("cropscan stopped")
}
