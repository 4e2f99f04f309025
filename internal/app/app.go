package app

import (
	"context"
	"fmt"
	"log/slog"

	httpapp "github.com/14kear/hoa-portal/internal/app/http"
	"github.com/14kear/hoa-portal/internal/config"
	"github.com/14kear/hoa-portal/internal/handlers"
	"github.com/14kear/hoa-portal/internal/middleware"
	"github.com/14kear/hoa-portal/internal/repo/memory"
	"github.com/14kear/hoa-portal/internal/repo/postgres"
	"github.com/14kear/hoa-portal/internal/services"
)

// Storage is everything the services need from a backing store.
type Storage interface {
	services.PollProvider
	services.PollStorage
	services.OptionStorage
	services.Ledger
	services.ReceiptFinder
	services.VoteLister
}

type App struct {
	HTTPServer *httpapp.App
	Voting     *services.Voting
	Auditor    *services.Auditor
	Polls      *services.Polls
	closeStore func() error
}

func NewApp(log *slog.Logger, cfg *config.Config) (*App, error) {
	storage, closeStore, err := OpenStorage(cfg)
	if err != nil {
		return nil, err
	}

	a := New(log, cfg, storage)
	a.closeStore = closeStore
	return a, nil
}

// New wires services and the HTTP layer on top of an already opened store.
func New(log *slog.Logger, cfg *config.Config, storage Storage) *App {
	votingService := services.NewVoting(log, storage, storage, storage, cfg.Ledger.MaxAttempts, cfg.Ledger.RetryBackoff)
	auditor := services.NewAuditor(log, storage, storage, cfg.Audit.Workers)
	polls := services.NewPolls(log, storage, storage)

	handler := handlers.NewVotingHandler(log, votingService, auditor, polls)
	auth := middleware.NewAuthMiddleware(log, cfg.Auth.AppSecret)

	httpApp := httpapp.NewApp(log, cfg.HTTP.Port, cfg.HTTP.Timeout, cfg.HTTP.AllowedOrigins, handler, auth)

	return &App{
		HTTPServer: httpApp,
		Voting:     votingService,
		Auditor:    auditor,
		Polls:      polls,
		closeStore: func() error { return nil },
	}
}

func OpenStorage(cfg *config.Config) (Storage, func() error, error) {
	const op = "app.OpenStorage"

	switch cfg.Storage {
	case config.StorageMemory:
		return memory.New(), func() error { return nil }, nil
	case config.StoragePostgres, "":
		storage, err := postgres.New(cfg.StoragePath)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", op, err)
		}
		return storage, storage.Close, nil
	default:
		return nil, nil, fmt.Errorf("%s: unknown storage %q", op, cfg.Storage)
	}
}

func (a *App) Stop(ctx context.Context) error {
	if err := a.HTTPServer.Stop(ctx); err != nil {
		return err
	}
	return a.closeStore()
}
