package entity

import "time"

type PollStatus string

const (
	PollStatusDraft  PollStatus = "draft"
	PollStatusActive PollStatus = "active"
	PollStatusClosed PollStatus = "closed"
)

type Poll struct {
	ID          int64
	Title       string
	Description string
	CreatorID   int64
	Status      PollStatus
	// Binding polls accept at most one ballot per voter.
	Binding   bool
	Anonymous bool
	ClosesAt  *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AcceptsVotes reports whether the poll is active and not past its closing time.
func (p Poll) AcceptsVotes(now time.Time) bool {
	if p.Status != PollStatusActive {
		return false
	}
	return p.ClosesAt == nil || now.Before(*p.ClosesAt)
}

type Option struct {
	ID        int64
	PollID    int64
	Text      string
	CreatedAt time.Time
}
