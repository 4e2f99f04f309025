package entity

import "time"

const (
	ReasonHashMismatch   = "hash mismatch"
	ReasonInvalidGenesis = "invalid genesis link"
	ReasonChainBreak     = "chain break"
)

type BrokenLink struct {
	Index  int    `json:"index"`
	VoteID int64  `json:"vote_id"`
	Reason string `json:"reason"`
}

type IntegrityReport struct {
	PollID      int64        `json:"poll_id"`
	Valid       bool         `json:"valid"`
	TotalVotes  int          `json:"total_votes"`
	BrokenLinks []BrokenLink `json:"broken_links"`
	Message     string       `json:"message"`
}

// Ballot is what a voter gets back after a committed submission.
type Ballot struct {
	PollID   int64  `json:"poll_id"`
	Position int64  `json:"position"`
	Receipt  string `json:"receipt,omitempty"`
}

// ReceiptCheck is the public answer to a receipt lookup. It never carries voter identity.
type ReceiptCheck struct {
	Verified    bool      `json:"verified"`
	Timestamp   time.Time `json:"timestamp"`
	OptionLabel string    `json:"option_label"`
}
