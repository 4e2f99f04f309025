package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/14kear/hoa-portal/internal/app"
	"github.com/14kear/hoa-portal/internal/config"
	"github.com/14kear/hoa-portal/internal/lib/logger/sl"
	"github.com/14kear/hoa-portal/utils"
)

var openStorage = app.OpenStorage

func main() {
	var (
		pollList string
		timeout  time.Duration
	)

	flag.StringVar(&pollList, "poll", "", "comma separated poll ids, all polls when empty")
	flag.DurationVar(&timeout, "timeout", time.Minute, "audit timeout")

	cfg := config.MustLoad()
	log := utils.New(cfg.Env)

	os.Exit(run(log, cfg, pollList, timeout))
}

// run audits the selected polls and returns the process exit code. The store
// is closed on every path.
func run(log *slog.Logger, cfg *config.Config, pollList string, timeout time.Duration) int {
	storage, closeStore, err := openStorage(cfg)
	if err != nil {
		log.Error("failed to open storage", sl.Err(err))
		return 1
	}
	defer func() {
		if err := closeStore(); err != nil {
			log.Error("failed to close storage", sl.Err(err))
		}
	}()

	application := app.New(log, cfg, storage)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	ids, err := pollIDs(ctx, application, pollList)
	if err != nil {
		log.Error("failed to resolve polls", sl.Err(err))
		return 1
	}

	reports, err := application.Auditor.AuditPolls(ctx, ids)
	if err != nil {
		log.Error("audit failed", sl.Err(err))
		return 1
	}

	failed := 0
	for _, report := range reports {
		if !report.Valid {
			failed++
		}
		log.Info("poll audited",
			slog.Int64("poll_id", report.PollID),
			slog.Bool("valid", report.Valid),
			slog.Int("votes", report.TotalVotes),
			slog.String("message", report.Message),
		)
	}

	log.Info("audit finished", slog.Int("polls", len(reports)), slog.Int("failed", failed))
	if failed > 0 {
		return 1
	}
	return 0
}

func pollIDs(ctx context.Context, application *app.App, list string) ([]int64, error) {
	if strings.TrimSpace(list) == "" {
		polls, err := application.Polls.GetPolls(ctx)
		if err != nil {
			return nil, err
		}
		ids := make([]int64, 0, len(polls))
		for _, p := range polls {
			ids = append(ids, p.ID)
		}
		return ids, nil
	}

	var ids []int64
	for _, raw := range strings.Split(list, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
