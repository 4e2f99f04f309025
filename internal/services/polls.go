package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/14kear/hoa-portal/internal/entity"
	"github.com/14kear/hoa-portal/internal/lib/logger/sl"
	"github.com/14kear/hoa-portal/internal/repo"
)

type PollStorage interface {
	SavePoll(ctx context.Context, poll entity.Poll) (int64, error)
	GetPollByID(ctx context.Context, id int64) (entity.Poll, error)
	GetPolls(ctx context.Context) ([]entity.Poll, error)
	UpdatePollStatus(ctx context.Context, id int64, from, to entity.PollStatus) error
}

type OptionStorage interface {
	SaveOption(ctx context.Context, pollID int64, text string) (int64, error)
	GetOptionsByPollID(ctx context.Context, pollID int64) ([]entity.Option, error)
}

// Polls is the administrative side of polls: drafting, adding options and
// moving a poll through draft -> active -> closed.
type Polls struct {
	log           *slog.Logger
	pollStorage   PollStorage
	optionStorage OptionStorage
	now           func() time.Time
}

type NewPoll struct {
	Title       string
	Description string
	Binding     bool
	Anonymous   bool
	ClosesAt    *time.Time
}

func NewPolls(log *slog.Logger, pollStorage PollStorage, optionStorage OptionStorage) *Polls {
	return &Polls{
		log:           log,
		pollStorage:   pollStorage,
		optionStorage: optionStorage,
		now:           time.Now,
	}
}

func (p *Polls) CreatePoll(ctx context.Context, creatorID int64, in NewPoll) (int64, error) {
	const op = "services.Polls.CreatePoll"

	log := sl.Ctx(ctx, p.log).With(slog.String("op", op), slog.Int64("creator_id", creatorID))

	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Description) == "" {
		return 0, fmt.Errorf("%s: %w: title or description is empty", op, ErrValidation)
	}
	if in.ClosesAt != nil && !in.ClosesAt.After(p.now()) {
		return 0, fmt.Errorf("%s: %w: closing time is in the past", op, ErrValidation)
	}

	pollID, err := p.pollStorage.SavePoll(ctx, entity.Poll{
		Title:       in.Title,
		Description: in.Description,
		CreatorID:   creatorID,
		Status:      entity.PollStatusDraft,
		Binding:     in.Binding,
		Anonymous:   in.Anonymous,
		ClosesAt:    in.ClosesAt,
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("poll drafted", slog.Int64("poll_id", pollID), slog.Bool("binding", in.Binding))
	return pollID, nil
}

func (p *Polls) GetPoll(ctx context.Context, id int64) (entity.Poll, error) {
	const op = "services.Polls.GetPoll"

	poll, err := p.pollStorage.GetPollByID(ctx, id)
	if err != nil {
		return entity.Poll{}, fmt.Errorf("%s: %w", op, mapPollError(err))
	}

	return poll, nil
}

func (p *Polls) GetPolls(ctx context.Context) ([]entity.Poll, error) {
	const op = "services.Polls.GetPolls"

	polls, err := p.pollStorage.GetPolls(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return polls, nil
}

func (p *Polls) AddOption(ctx context.Context, pollID int64, text string) (int64, error) {
	const op = "services.Polls.AddOption"

	if strings.TrimSpace(text) == "" {
		return 0, fmt.Errorf("%s: %w: option text is empty", op, ErrValidation)
	}

	optionID, err := p.optionStorage.SaveOption(ctx, pollID, text)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, mapPollError(err))
	}

	sl.Ctx(ctx, p.log).Info("option added", slog.String("op", op), slog.Int64("poll_id", pollID), slog.Int64("option_id", optionID))
	return optionID, nil
}

func (p *Polls) GetOptions(ctx context.Context, pollID int64) ([]entity.Option, error) {
	const op = "services.Polls.GetOptions"

	if _, err := p.pollStorage.GetPollByID(ctx, pollID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapPollError(err))
	}

	options, err := p.optionStorage.GetOptionsByPollID(ctx, pollID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return options, nil
}

// OpenPoll starts voting. A poll needs at least one option to open.
func (p *Polls) OpenPoll(ctx context.Context, pollID int64) error {
	const op = "services.Polls.OpenPoll"

	options, err := p.GetOptions(ctx, pollID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if len(options) == 0 {
		return fmt.Errorf("%s: %w: poll has no options", op, ErrValidation)
	}

	return p.transition(ctx, op, pollID, entity.PollStatusDraft, entity.PollStatusActive)
}

func (p *Polls) ClosePoll(ctx context.Context, pollID int64) error {
	const op = "services.Polls.ClosePoll"

	return p.transition(ctx, op, pollID, entity.PollStatusActive, entity.PollStatusClosed)
}

func (p *Polls) transition(ctx context.Context, op string, pollID int64, from, to entity.PollStatus) error {
	if err := p.pollStorage.UpdatePollStatus(ctx, pollID, from, to); err != nil {
		return fmt.Errorf("%s: %w", op, mapPollError(err))
	}

	sl.Ctx(ctx, p.log).Info("poll status changed", slog.String("op", op), slog.Int64("poll_id", pollID), slog.String("status", string(to)))
	return nil
}

func mapPollError(err error) error {
	switch {
	case errors.Is(err, repo.ErrPollNotFound):
		return ErrPollNotFound
	case errors.Is(err, repo.ErrOptionsLocked):
		return ErrOptionsLocked
	case errors.Is(err, repo.ErrInvalidTransition):
		return ErrTransition
	}
	return err
}
