package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/14kear/hoa-portal/internal/entity"
	"github.com/14kear/hoa-portal/internal/lib/chain"
	"github.com/14kear/hoa-portal/internal/lib/logger/sl"
	"github.com/14kear/hoa-portal/internal/repo"
	"golang.org/x/sync/errgroup"
)

const DefaultAuditWorkers = 4

// Auditor re-validates committed chains. It only reads, so it runs alongside
// ingestion without locking. Broken links are reported, never repaired.
type Auditor struct {
	log     *slog.Logger
	polls   PollProvider
	votes   VoteLister
	workers int
}

func NewAuditor(log *slog.Logger, polls PollProvider, votes VoteLister, workers int) *Auditor {
	if workers <= 0 {
		workers = DefaultAuditWorkers
	}
	return &Auditor{log: log, polls: polls, votes: votes, workers: workers}
}

func (a *Auditor) AuditPoll(ctx context.Context, pollID int64) (entity.IntegrityReport, error) {
	const op = "services.Auditor.AuditPoll"

	log := sl.Ctx(ctx, a.log).With(slog.String("op", op), slog.Int64("poll_id", pollID))

	if _, err := a.polls.GetPollByID(ctx, pollID); err != nil {
		if errors.Is(err, repo.ErrPollNotFound) {
			return entity.IntegrityReport{}, fmt.Errorf("%s: %w", op, ErrPollNotFound)
		}
		return entity.IntegrityReport{}, fmt.Errorf("%s: %w", op, err)
	}

	votes, err := a.votes.ListVotes(ctx, pollID)
	if err != nil {
		return entity.IntegrityReport{}, fmt.Errorf("%s: %w", op, err)
	}

	res := chain.ValidateChain(votes)
	report := entity.IntegrityReport{
		PollID:      pollID,
		Valid:       res.Valid,
		TotalVotes:  len(votes),
		BrokenLinks: res.BrokenLinks,
	}

	if res.Valid {
		report.Message = fmt.Sprintf("chain intact: %d votes verified", len(votes))
		log.Info("audit passed", slog.Int("votes", len(votes)))
		return report, nil
	}

	report.Message = fmt.Sprintf("%s: %d broken links in %d votes, manual review required",
		ErrIntegrity, len(res.BrokenLinks), len(votes))
	log.Error("audit failed",
		sl.Err(ErrIntegrity),
		slog.Int("votes", len(votes)),
		slog.Any("broken_links", res.BrokenLinks),
	)

	return report, nil
}

// AuditPolls audits every poll in ids with at most a.workers running at once.
// Reports are returned in the order of ids.
func (a *Auditor) AuditPolls(ctx context.Context, ids []int64) ([]entity.IntegrityReport, error) {
	const op = "services.Auditor.AuditPolls"

	reports := make([]entity.IntegrityReport, len(ids))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)

	for i, id := range ids {
		g.Go(func() error {
			report, err := a.AuditPoll(ctx, id)
			if err != nil {
				return err
			}
			reports[i] = report
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return reports, nil
}
