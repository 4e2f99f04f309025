package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/14kear/hoa-portal/internal/entity"
	"github.com/14kear/hoa-portal/internal/repo"
	"github.com/lib/pq"
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"

	constraintPollVoters = "poll_voters_pkey"
)

const voteColumns = `id, poll_id, seq, user_id, option_id, voted_at, prev_hash, vote_hash`

func scanVote(row rowScanner) (entity.Vote, error) {
	var (
		vote     entity.Vote
		userID   sql.NullInt64
		prevHash string
	)
	err := row.Scan(&vote.ID, &vote.PollID, &vote.Seq, &userID, &vote.OptionID, &vote.Timestamp, &prevHash, &vote.Hash)
	if err != nil {
		return entity.Vote{}, err
	}
	if userID.Valid {
		vote.Voter = entity.KnownVoter(userID.Int64)
	}
	vote.PrevHash = entity.ParsePrevHash(prevHash)
	return vote, nil
}

func voterColumn(voter entity.Identity) sql.NullInt64 {
	id, ok := voter.UserID()
	return sql.NullInt64{Int64: id, Valid: ok}
}

// GetLastHash returns the newest committed link of the poll or the genesis head.
func (s *Storage) GetLastHash(ctx context.Context, pollID int64) (entity.ChainHead, error) {
	const op = "storage.postgres.GetLastHash"

	query := `SELECT seq, voted_at, vote_hash FROM votes WHERE poll_id = $1 ORDER BY seq DESC LIMIT 1`

	var (
		head entity.ChainHead
		hash string
	)
	err := s.db.QueryRowContext(ctx, query, pollID).Scan(&head.Seq, &head.Timestamp, &hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.ChainHead{Hash: entity.Genesis()}, nil
		}
		return entity.ChainHead{}, fmt.Errorf("%s: %w", op, err)
	}
	head.Hash = entity.LinkTo(hash)

	return head, nil
}

// AppendVote commits vote iff the poll's head still equals expected. The
// sequence number is assigned here. With onePerVoter set, a known voter is
// registered in poll_voters within the same transaction.
func (s *Storage) AppendVote(ctx context.Context, vote entity.Vote, expected entity.PrevHash, onePerVoter bool) (entity.Vote, error) {
	const op = "storage.postgres.AppendVote"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return entity.Vote{}, fmt.Errorf("%s: begin: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	if userID, ok := vote.Voter.UserID(); ok && onePerVoter {
		_, err := tx.ExecContext(ctx, `INSERT INTO poll_voters (poll_id, user_id) VALUES ($1, $2)`, vote.PollID, userID)
		if err != nil {
			return entity.Vote{}, fmt.Errorf("%s: %w", op, mapLedgerError(err))
		}
	}

	query := `WITH head AS (
			SELECT seq, vote_hash FROM votes WHERE poll_id = $1 ORDER BY seq DESC LIMIT 1
		)
		INSERT INTO votes (poll_id, seq, user_id, option_id, voted_at, prev_hash, vote_hash)
		SELECT $1, COALESCE((SELECT seq FROM head), 0) + 1, $2, $3, $4, $5::text, $6
		WHERE COALESCE((SELECT vote_hash FROM head), 'GENESIS') = $5::text
		RETURNING id, seq`

	err = tx.QueryRowContext(ctx, query, vote.PollID, voterColumn(vote.Voter), vote.OptionID,
		vote.Timestamp, expected.String(), vote.Hash).Scan(&vote.ID, &vote.Seq)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Vote{}, fmt.Errorf("%s: %w", op, repo.ErrConflict)
		}
		return entity.Vote{}, fmt.Errorf("%s: %w", op, mapLedgerError(err))
	}

	if err := tx.Commit(); err != nil {
		return entity.Vote{}, fmt.Errorf("%s: commit: %w", op, mapLedgerError(err))
	}

	vote.PrevHash = expected
	return vote, nil
}

func mapLedgerError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	switch pqErr.Code {
	case pqUniqueViolation:
		if pqErr.Constraint == constraintPollVoters {
			return repo.ErrAlreadyVoted
		}
		return repo.ErrConflict
	case pqForeignKeyViolation:
		return repo.ErrOptionNotFound
	}
	return err
}

// ListVotes returns every committed vote of the poll in commit order.
func (s *Storage) ListVotes(ctx context.Context, pollID int64) ([]entity.Vote, error) {
	const op = "storage.postgres.ListVotes"

	query := `SELECT ` + voteColumns + ` FROM votes WHERE poll_id = $1 ORDER BY seq`

	return s.queryVotes(ctx, op, query, pollID)
}

func (s *Storage) HasVoted(ctx context.Context, pollID, userID int64) (bool, error) {
	const op = "storage.postgres.HasVoted"

	query := `SELECT EXISTS (SELECT 1 FROM votes WHERE poll_id = $1 AND user_id = $2)`

	var exists bool
	if err := s.db.QueryRowContext(ctx, query, pollID, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return exists, nil
}

func (s *Storage) GetVoteBySeq(ctx context.Context, pollID, seq int64) (entity.Vote, error) {
	const op = "storage.postgres.GetVoteBySeq"

	query := `SELECT ` + voteColumns + ` FROM votes WHERE poll_id = $1 AND seq = $2`

	vote, err := scanVote(s.db.QueryRowContext(ctx, query, pollID, seq))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Vote{}, fmt.Errorf("%s: %w", op, repo.ErrVoteNotFound)
		}
		return entity.Vote{}, fmt.Errorf("%s: %w", op, err)
	}

	return vote, nil
}

// FindVotesByHashPrefix returns the poll's votes whose hash starts with prefix.
func (s *Storage) FindVotesByHashPrefix(ctx context.Context, pollID int64, prefix string) ([]entity.Vote, error) {
	const op = "storage.postgres.FindVotesByHashPrefix"

	query := `SELECT ` + voteColumns + ` FROM votes WHERE poll_id = $1 AND left(vote_hash, $2) = $3 ORDER BY seq`

	prefix = strings.ToLower(prefix)
	return s.queryVotes(ctx, op, query, pollID, len(prefix), prefix)
}

func (s *Storage) queryVotes(ctx context.Context, op, query string, args ...any) ([]entity.Vote, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var votes []entity.Vote
	for rows.Next() {
		vote, err := scanVote(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		votes = append(votes, vote)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows error: %w", op, err)
	}

	return votes, nil
}
