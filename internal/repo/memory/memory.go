// Package memory is an in-process store for polls and their vote ledgers.
// Each poll's chain has its own lock, so appends to different polls never
// contend with each other.
package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/14kear/hoa-portal/internal/entity"
	"github.com/14kear/hoa-portal/internal/repo"
)

type pollChain struct {
	mu     sync.RWMutex
	votes  []entity.Vote
	voters map[int64]struct{}
}

type Storage struct {
	mu       sync.RWMutex
	polls    map[int64]entity.Poll
	options  map[int64]entity.Option
	chains   map[int64]*pollChain
	nextPoll int64
	nextOpt  int64
	nextVote int64
}

func New() *Storage {
	return &Storage{
		polls:   make(map[int64]entity.Poll),
		options: make(map[int64]entity.Option),
		chains:  make(map[int64]*pollChain),
	}
}

func (s *Storage) SavePoll(_ context.Context, poll entity.Poll) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextPoll++
	now := time.Now().UTC()
	poll.ID = s.nextPoll
	poll.CreatedAt, poll.UpdatedAt = now, now
	s.polls[poll.ID] = poll
	s.chains[poll.ID] = &pollChain{voters: make(map[int64]struct{})}

	return poll.ID, nil
}

func (s *Storage) GetPollByID(_ context.Context, id int64) (entity.Poll, error) {
	const op = "storage.memory.GetPollByID"

	s.mu.RLock()
	defer s.mu.RUnlock()

	poll, ok := s.polls[id]
	if !ok {
		return entity.Poll{}, fmt.Errorf("%s: %w", op, repo.ErrPollNotFound)
	}
	return poll, nil
}

func (s *Storage) GetPolls(_ context.Context) ([]entity.Poll, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	polls := make([]entity.Poll, 0, len(s.polls))
	for id := int64(1); id <= s.nextPoll; id++ {
		if poll, ok := s.polls[id]; ok {
			polls = append(polls, poll)
		}
	}
	return polls, nil
}

func (s *Storage) UpdatePollStatus(_ context.Context, id int64, from, to entity.PollStatus) error {
	const op = "storage.memory.UpdatePollStatus"

	s.mu.Lock()
	defer s.mu.Unlock()

	poll, ok := s.polls[id]
	if !ok {
		return fmt.Errorf("%s: %w", op, repo.ErrPollNotFound)
	}
	if poll.Status != from {
		return fmt.Errorf("%s: %w", op, repo.ErrInvalidTransition)
	}
	poll.Status = to
	poll.UpdatedAt = time.Now().UTC()
	s.polls[id] = poll

	return nil
}

func (s *Storage) SaveOption(_ context.Context, pollID int64, text string) (int64, error) {
	const op = "storage.memory.SaveOption"

	s.mu.Lock()
	defer s.mu.Unlock()

	poll, ok := s.polls[pollID]
	if !ok {
		return 0, fmt.Errorf("%s: %w", op, repo.ErrPollNotFound)
	}
	if poll.Status != entity.PollStatusDraft {
		return 0, fmt.Errorf("%s: %w", op, repo.ErrOptionsLocked)
	}

	s.nextOpt++
	s.options[s.nextOpt] = entity.Option{ID: s.nextOpt, PollID: pollID, Text: text, CreatedAt: time.Now().UTC()}

	return s.nextOpt, nil
}

func (s *Storage) GetOptionByID(_ context.Context, id int64) (entity.Option, error) {
	const op = "storage.memory.GetOptionByID"

	s.mu.RLock()
	defer s.mu.RUnlock()

	option, ok := s.options[id]
	if !ok {
		return entity.Option{}, fmt.Errorf("%s: %w", op, repo.ErrOptionNotFound)
	}
	return option, nil
}

func (s *Storage) GetOptionsByPollID(_ context.Context, pollID int64) ([]entity.Option, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var options []entity.Option
	for id := int64(1); id <= s.nextOpt; id++ {
		if option, ok := s.options[id]; ok && option.PollID == pollID {
			options = append(options, option)
		}
	}
	return options, nil
}

func (s *Storage) chain(op string, pollID int64) (*pollChain, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.chains[pollID]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, repo.ErrPollNotFound)
	}
	return c, nil
}

func (s *Storage) GetLastHash(_ context.Context, pollID int64) (entity.ChainHead, error) {
	c, err := s.chain("storage.memory.GetLastHash", pollID)
	if err != nil {
		return entity.ChainHead{}, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	if len(c.votes) == 0 {
		return entity.ChainHead{Hash: entity.Genesis()}, nil
	}
	last := c.votes[len(c.votes)-1]
	return entity.ChainHead{Hash: entity.LinkTo(last.Hash), Seq: last.Seq, Timestamp: last.Timestamp}, nil
}

func (s *Storage) AppendVote(ctx context.Context, vote entity.Vote, expected entity.PrevHash, onePerVoter bool) (entity.Vote, error) {
	const op = "storage.memory.AppendVote"

	c, err := s.chain(op, vote.PollID)
	if err != nil {
		return entity.Vote{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// a cancelled caller must not commit
	if err := ctx.Err(); err != nil {
		return entity.Vote{}, fmt.Errorf("%s: %w", op, err)
	}

	head := entity.Genesis()
	if n := len(c.votes); n > 0 {
		head = entity.LinkTo(c.votes[n-1].Hash)
	}
	if head != expected {
		return entity.Vote{}, fmt.Errorf("%s: %w", op, repo.ErrConflict)
	}

	userID, known := vote.Voter.UserID()
	if known && onePerVoter {
		if _, voted := c.voters[userID]; voted {
			return entity.Vote{}, fmt.Errorf("%s: %w", op, repo.ErrAlreadyVoted)
		}
	}

	s.mu.Lock()
	if _, ok := s.options[vote.OptionID]; !ok {
		s.mu.Unlock()
		return entity.Vote{}, fmt.Errorf("%s: %w", op, repo.ErrOptionNotFound)
	}
	s.nextVote++
	vote.ID = s.nextVote
	s.mu.Unlock()

	vote.Seq = int64(len(c.votes)) + 1
	vote.PrevHash = expected
	c.votes = append(c.votes, vote)
	if known && onePerVoter {
		c.voters[userID] = struct{}{}
	}

	return vote, nil
}

func (s *Storage) ListVotes(_ context.Context, pollID int64) ([]entity.Vote, error) {
	c, err := s.chain("storage.memory.ListVotes", pollID)
	if err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	votes := make([]entity.Vote, len(c.votes))
	copy(votes, c.votes)
	return votes, nil
}

func (s *Storage) HasVoted(_ context.Context, pollID, userID int64) (bool, error) {
	c, err := s.chain("storage.memory.HasVoted", pollID)
	if err != nil {
		return false, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, v := range c.votes {
		if id, ok := v.Voter.UserID(); ok && id == userID {
			return true, nil
		}
	}
	return false, nil
}

func (s *Storage) GetVoteBySeq(_ context.Context, pollID, seq int64) (entity.Vote, error) {
	const op = "storage.memory.GetVoteBySeq"

	c, err := s.chain(op, pollID)
	if err != nil {
		return entity.Vote{}, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	if seq < 1 || seq > int64(len(c.votes)) {
		return entity.Vote{}, fmt.Errorf("%s: %w", op, repo.ErrVoteNotFound)
	}
	return c.votes[seq-1], nil
}

func (s *Storage) FindVotesByHashPrefix(_ context.Context, pollID int64, prefix string) ([]entity.Vote, error) {
	c, err := s.chain("storage.memory.FindVotesByHashPrefix", pollID)
	if err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	prefix = strings.ToLower(prefix)
	var votes []entity.Vote
	for _, v := range c.votes {
		if strings.HasPrefix(v.Hash, prefix) {
			votes = append(votes, v)
		}
	}
	return votes, nil
}

// Tamper overwrites a committed vote in place. The ledger never does this on
// its own; it exists so audits can be exercised against a modified chain.
func (s *Storage) Tamper(pollID int64, index int, mutate func(*entity.Vote)) error {
	const op = "storage.memory.Tamper"

	c, err := s.chain(op, pollID)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if index < 0 || index >= len(c.votes) {
		return fmt.Errorf("%s: %w", op, repo.ErrVoteNotFound)
	}
	mutate(&c.votes[index])
	return nil
}
