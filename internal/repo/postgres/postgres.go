package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/14kear/hoa-portal/internal/entity"
	"github.com/14kear/hoa-portal/internal/repo"
	_ "github.com/lib/pq"
)

type Storage struct {
	db *sql.DB
}

func New(postgresURL string) (*Storage, error) {
	const op = "storage.postgres.New"

	db, err := sql.Open("postgres", postgresURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{db: db}, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

const pollColumns = `id, title, description, creator_id, status, binding, anonymous, closes_at, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPoll(row rowScanner) (entity.Poll, error) {
	var (
		poll     entity.Poll
		closesAt sql.NullTime
	)
	err := row.Scan(&poll.ID, &poll.Title, &poll.Description, &poll.CreatorID, &poll.Status,
		&poll.Binding, &poll.Anonymous, &closesAt, &poll.CreatedAt, &poll.UpdatedAt)
	if err != nil {
		return entity.Poll{}, err
	}
	if closesAt.Valid {
		t := closesAt.Time
		poll.ClosesAt = &t
	}
	return poll, nil
}

func (s *Storage) SavePoll(ctx context.Context, poll entity.Poll) (int64, error) {
	const op = "storage.postgres.SavePoll"

	query := `INSERT INTO polls (title, description, creator_id, status, binding, anonymous, closes_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`

	var id int64
	err := s.db.QueryRowContext(ctx, query, poll.Title, poll.Description, poll.CreatorID, poll.Status,
		poll.Binding, poll.Anonymous, poll.ClosesAt).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func (s *Storage) GetPollByID(ctx context.Context, id int64) (entity.Poll, error) {
	const op = "storage.postgres.GetPollByID"

	query := `SELECT ` + pollColumns + ` FROM polls WHERE id = $1`

	poll, err := scanPoll(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Poll{}, fmt.Errorf("%s: %w", op, repo.ErrPollNotFound)
		}
		return entity.Poll{}, fmt.Errorf("%s: %w", op, err)
	}

	return poll, nil
}

func (s *Storage) GetPolls(ctx context.Context) ([]entity.Poll, error) {
	const op = "storage.postgres.GetPolls"

	query := `SELECT ` + pollColumns + ` FROM polls ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var polls []entity.Poll
	for rows.Next() {
		poll, err := scanPoll(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		polls = append(polls, poll)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows error: %w", op, err)
	}

	return polls, nil
}

// UpdatePollStatus moves a poll from one status to another. The update only
// applies when the poll is still in the expected status.
func (s *Storage) UpdatePollStatus(ctx context.Context, id int64, from, to entity.PollStatus) error {
	const op = "storage.postgres.UpdatePollStatus"

	const query = `UPDATE polls SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3`

	res, err := s.db.ExecContext(ctx, query, to, id, from)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := s.GetPollByID(ctx, id); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		return fmt.Errorf("%s: %w", op, repo.ErrInvalidTransition)
	}
	return nil
}

func (s *Storage) SaveOption(ctx context.Context, pollID int64, text string) (int64, error) {
	const op = "storage.postgres.SaveOption"

	query := `INSERT INTO options (poll_id, text)
		SELECT id, $2 FROM polls WHERE id = $1 AND status = 'draft'
		RETURNING id`

	var id int64
	err := s.db.QueryRowContext(ctx, query, pollID, text).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			if _, err := s.GetPollByID(ctx, pollID); err != nil {
				return 0, fmt.Errorf("%s: %w", op, err)
			}
			return 0, fmt.Errorf("%s: %w", op, repo.ErrOptionsLocked)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func (s *Storage) GetOptionByID(ctx context.Context, id int64) (entity.Option, error) {
	const op = "storage.postgres.GetOptionByID"

	query := `SELECT id, poll_id, text, created_at FROM options WHERE id = $1`

	var option entity.Option
	err := s.db.QueryRowContext(ctx, query, id).Scan(&option.ID, &option.PollID, &option.Text, &option.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Option{}, fmt.Errorf("%s: %w", op, repo.ErrOptionNotFound)
		}
		return entity.Option{}, fmt.Errorf("%s: %w", op, err)
	}

	return option, nil
}

func (s *Storage) GetOptionsByPollID(ctx context.Context, pollID int64) ([]entity.Option, error) {
	const op = "storage.postgres.GetOptionsByPollID"

	query := `SELECT id, poll_id, text, created_at FROM options WHERE poll_id = $1 ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, pollID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var options []entity.Option
	for rows.Next() {
		var option entity.Option
		if err := rows.Scan(&option.ID, &option.PollID, &option.Text, &option.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		options = append(options, option)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows error: %w", op, err)
	}

	return options, nil
}
