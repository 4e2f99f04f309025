package services

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/14kear/hoa-portal/internal/entity"
	"github.com/14kear/hoa-portal/internal/lib/chain"
	"github.com/14kear/hoa-portal/internal/lib/logger/sl"
	"github.com/14kear/hoa-portal/internal/repo"
)

//go:generate mockgen -source=voting.go -destination=mocks/mocks.go -package=mocks

const (
	DefaultMaxAttempts  = 5
	DefaultRetryBackoff = 5 * time.Millisecond
)

type PollProvider interface {
	GetPollByID(ctx context.Context, id int64) (entity.Poll, error)
	GetOptionByID(ctx context.Context, id int64) (entity.Option, error)
}

// Ledger is the append side of the per-poll vote chain.
type Ledger interface {
	GetLastHash(ctx context.Context, pollID int64) (entity.ChainHead, error)
	AppendVote(ctx context.Context, vote entity.Vote, expected entity.PrevHash, onePerVoter bool) (entity.Vote, error)
	HasVoted(ctx context.Context, pollID, userID int64) (bool, error)
}

type ReceiptFinder interface {
	FindVotesByHashPrefix(ctx context.Context, pollID int64, prefix string) ([]entity.Vote, error)
	GetVoteBySeq(ctx context.Context, pollID, seq int64) (entity.Vote, error)
}

type VoteLister interface {
	ListVotes(ctx context.Context, pollID int64) ([]entity.Vote, error)
}

type Voting struct {
	log          *slog.Logger
	polls        PollProvider
	ledger       Ledger
	receipts     ReceiptFinder
	maxAttempts  int
	retryBackoff time.Duration
	now          func() time.Time
}

func NewVoting(
	log *slog.Logger,
	polls PollProvider,
	ledger Ledger,
	receipts ReceiptFinder,
	maxAttempts int,
	retryBackoff time.Duration,
) *Voting {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if retryBackoff < 0 {
		retryBackoff = DefaultRetryBackoff
	}
	return &Voting{
		log:          log,
		polls:        polls,
		ledger:       ledger,
		receipts:     receipts,
		maxAttempts:  maxAttempts,
		retryBackoff: retryBackoff,
		now:          time.Now,
	}
}

// SubmitVote validates the ballot, links it to the poll's current chain head
// and commits it. A conflicting concurrent append causes a fresh re-read of the
// head; after maxAttempts conflicts ErrLedgerContention is returned.
func (v *Voting) SubmitVote(
	ctx context.Context,
	pollID, optionID int64,
	voter entity.Identity,
	requestReceipt bool,
) (entity.Ballot, error) {
	const op = "services.Voting.SubmitVote"

	log := sl.Ctx(ctx, v.log).With(slog.String("op", op), slog.Int64("poll_id", pollID))

	poll, err := v.polls.GetPollByID(ctx, pollID)
	if err != nil {
		if errors.Is(err, repo.ErrPollNotFound) {
			return entity.Ballot{}, fmt.Errorf("%s: %w", op, ErrPollNotFound)
		}
		return entity.Ballot{}, fmt.Errorf("%s: %w", op, err)
	}

	if !poll.AcceptsVotes(v.now()) {
		log.Info("vote rejected", slog.String("status", string(poll.Status)))
		return entity.Ballot{}, fmt.Errorf("%s: %w", op, ErrPollNotOpen)
	}

	option, err := v.polls.GetOptionByID(ctx, optionID)
	if err != nil {
		if errors.Is(err, repo.ErrOptionNotFound) {
			return entity.Ballot{}, fmt.Errorf("%s: %w", op, ErrInvalidOption)
		}
		return entity.Ballot{}, fmt.Errorf("%s: %w", op, err)
	}
	if option.PollID != pollID {
		return entity.Ballot{}, fmt.Errorf("%s: %w", op, ErrInvalidOption)
	}

	if poll.Anonymous {
		voter = entity.AnonymousVoter()
	} else if voter.IsAnonymous() {
		return entity.Ballot{}, fmt.Errorf("%s: %w: poll requires an authenticated voter", op, ErrValidation)
	}

	onePerVoter := poll.Binding && !voter.IsAnonymous()
	if onePerVoter {
		userID, _ := voter.UserID()
		voted, err := v.ledger.HasVoted(ctx, pollID, userID)
		if err != nil {
			return entity.Ballot{}, fmt.Errorf("%s: %w", op, err)
		}
		if voted {
			log.Info("duplicate vote rejected")
			return entity.Ballot{}, fmt.Errorf("%s: %w", op, ErrDuplicateVote)
		}
	}

	committed, err := v.appendWithRetry(ctx, log, poll.ID, optionID, voter, onePerVoter)
	if err != nil {
		return entity.Ballot{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("vote committed", slog.Int64("seq", committed.Seq))

	ballot := entity.Ballot{PollID: pollID, Position: committed.Seq}
	if requestReceipt {
		receipt, err := chain.DeriveReceipt(committed.Hash)
		if err != nil {
			// the vote is already committed; the voter can still look it up by hash
			log.Error("failed to derive receipt", sl.Err(err), slog.Int64("vote_id", committed.ID))
			return ballot, nil
		}
		ballot.Receipt = receipt
	}

	return ballot, nil
}

func (v *Voting) appendWithRetry(
	ctx context.Context,
	log *slog.Logger,
	pollID, optionID int64,
	voter entity.Identity,
	onePerVoter bool,
) (entity.Vote, error) {
	for attempt := 1; attempt <= v.maxAttempts; attempt++ {
		head, err := v.ledger.GetLastHash(ctx, pollID)
		if err != nil {
			return entity.Vote{}, err
		}

		ts := chain.NormalizeTimestamp(v.now())
		if last := chain.NormalizeTimestamp(head.Timestamp); !head.Hash.IsGenesis() && ts.Before(last) {
			ts = last
		}

		vote := entity.Vote{
			PollID:    pollID,
			Voter:     voter,
			OptionID:  optionID,
			Timestamp: ts,
			PrevHash:  head.Hash,
			Hash:      chain.ComputeHash(voter, optionID, ts, head.Hash),
		}

		committed, err := v.ledger.AppendVote(ctx, vote, head.Hash, onePerVoter)
		switch {
		case err == nil:
			return committed, nil
		case errors.Is(err, repo.ErrAlreadyVoted):
			return entity.Vote{}, ErrDuplicateVote
		case errors.Is(err, repo.ErrOptionNotFound):
			return entity.Vote{}, ErrInvalidOption
		case !errors.Is(err, repo.ErrConflict):
			return entity.Vote{}, err
		}

		log.Debug("ledger head moved, retrying", slog.Int("attempt", attempt))

		if attempt < v.maxAttempts && v.retryBackoff > 0 {
			select {
			case <-ctx.Done():
				return entity.Vote{}, ctx.Err()
			case <-time.After(v.retryBackoff * time.Duration(attempt)):
			}
		}
	}

	log.Warn("ledger contention", slog.Int("attempts", v.maxAttempts))
	return entity.Vote{}, ErrLedgerContention
}

// VerifyReceipt answers a public proof-of-inclusion query. code is either a
// receipt code or a full vote hash. Voter identity is never part of the answer.
func (v *Voting) VerifyReceipt(ctx context.Context, pollID int64, code string) (entity.ReceiptCheck, error) {
	const op = "services.Voting.VerifyReceipt"

	log := sl.Ctx(ctx, v.log).With(slog.String("op", op), slog.Int64("poll_id", pollID))

	prefix, err := normalizeReceipt(code)
	if err != nil {
		return entity.ReceiptCheck{}, fmt.Errorf("%s: %w", op, err)
	}

	if _, err := v.polls.GetPollByID(ctx, pollID); err != nil {
		if errors.Is(err, repo.ErrPollNotFound) {
			return entity.ReceiptCheck{}, fmt.Errorf("%s: %w", op, ErrPollNotFound)
		}
		return entity.ReceiptCheck{}, fmt.Errorf("%s: %w", op, err)
	}

	votes, err := v.receipts.FindVotesByHashPrefix(ctx, pollID, prefix)
	if err != nil {
		return entity.ReceiptCheck{}, fmt.Errorf("%s: %w", op, err)
	}

	switch len(votes) {
	case 0:
		return entity.ReceiptCheck{}, fmt.Errorf("%s: %w", op, ErrReceiptNotFound)
	case 1:
	default:
		log.Warn("receipt collision", slog.Int("matches", len(votes)))
		return entity.ReceiptCheck{}, fmt.Errorf("%s: %w", op, ErrAmbiguousReceipt)
	}

	vote := votes[0]
	option, err := v.polls.GetOptionByID(ctx, vote.OptionID)
	if err != nil && !errors.Is(err, repo.ErrOptionNotFound) {
		return entity.ReceiptCheck{}, fmt.Errorf("%s: %w", op, err)
	}

	verified, err := v.verifyInclusion(ctx, vote)
	if err != nil {
		return entity.ReceiptCheck{}, fmt.Errorf("%s: %w", op, err)
	}
	if !verified {
		log.Error("receipt points at a vote that fails verification", sl.Err(ErrIntegrity), slog.Int64("vote_id", vote.ID))
	}

	return entity.ReceiptCheck{
		Verified:    verified,
		Timestamp:   vote.Timestamp.UTC(),
		OptionLabel: option.Text,
	}, nil
}

// verifyInclusion re-hashes vote and checks that its prev_hash names the vote
// committed right before it. Later votes are not examined; a full-chain check is
// the Auditor's job.
func (v *Voting) verifyInclusion(ctx context.Context, vote entity.Vote) (bool, error) {
	if !chain.VerifyLink(vote) {
		return false, nil
	}

	if vote.Seq <= 1 {
		return vote.PrevHash.IsGenesis(), nil
	}
	if vote.PrevHash.IsGenesis() {
		return false, nil
	}

	prev, err := v.receipts.GetVoteBySeq(ctx, vote.PollID, vote.Seq-1)
	if err != nil {
		if errors.Is(err, repo.ErrVoteNotFound) {
			return false, nil
		}
		return false, err
	}

	return vote.PrevHash.String() == prev.Hash && chain.VerifyLink(prev), nil
}

func normalizeReceipt(code string) (string, error) {
	code = strings.ToLower(strings.TrimSpace(code))
	if len(code) != chain.ReceiptLength && len(code) != chain.HashLength {
		return "", fmt.Errorf("%w: receipt must be %d or %d hex characters", ErrValidation, chain.ReceiptLength, chain.HashLength)
	}
	if _, err := hex.DecodeString(code); err != nil {
		return "", fmt.Errorf("%w: receipt is not hexadecimal", ErrValidation)
	}
	return code, nil
}
