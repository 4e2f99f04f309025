package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/14kear/hoa-portal/internal/app"
	"github.com/14kear/hoa-portal/internal/config"
	"github.com/14kear/hoa-portal/internal/lib/logger/sl"
	"github.com/14kear/hoa-portal/utils"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.MustLoad()

	log := utils.New(cfg.Env)
	if cfg.Env != utils.EnvLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	log.Info("starting voting service",
		slog.String("env", cfg.Env),
		slog.String("storage", cfg.Storage),
		slog.Int("port", cfg.HTTP.Port),
	)

	application, err := app.NewApp(log, cfg)
	if err != nil {
		log.Error("failed to init application", sl.Err(err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := application.HTTPServer.Run(); err != nil {
			if errors.Is(err, http.ErrServerClosed) {
				log.Info("HTTP server closed gracefully")
			} else {
				log.Error("failed to run HTTP server", sl.Err(err))
				stop()
			}
		}
	}()

	<-ctx.Done()

	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := application.Stop(shutdownCtx); err != nil {
		log.Error("failed to stop application", sl.Err(err))
		os.Exit(1)
	}

	log.Info("application stopped")
}
