package repo

import "errors"

var (
	ErrPollNotFound      = errors.New("poll not found")
	ErrOptionNotFound    = errors.New("option not found")
	ErrVoteNotFound      = errors.New("vote not found")
	ErrInvalidTransition = errors.New("invalid poll status transition")
	// ErrConflict means the poll's chain head moved since it was read; nothing was written.
	ErrConflict = errors.New("ledger head changed")
	// ErrAlreadyVoted means the voter already holds a committed vote in a one-vote-per-voter poll.
	ErrAlreadyVoted = errors.New("voter already has a committed vote")
)

// ErrOptionsLocked is returned when options are added to a poll that already left draft.
var ErrOptionsLocked = errors.New("poll options are locked")
