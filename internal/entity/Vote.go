package entity

import (
	"strconv"
	"time"
)

// GenesisSentinel is the prev_hash of the first vote in every poll.
const GenesisSentinel = "GENESIS"

// Identity is either a known voter or an anonymous one. The zero value is anonymous.
type Identity struct {
	userID int64
	known  bool
}

func KnownVoter(userID int64) Identity {
	return Identity{userID: userID, known: true}
}

func AnonymousVoter() Identity {
	return Identity{}
}

func (i Identity) UserID() (int64, bool) {
	return i.userID, i.known
}

func (i Identity) IsAnonymous() bool {
	return !i.known
}

// Normalized is the form fed to the vote digest: the decimal id, or "" when anonymous.
func (i Identity) Normalized() string {
	if !i.known {
		return ""
	}
	return strconv.FormatInt(i.userID, 10)
}

// PrevHash references the predecessor of a vote. The zero value is the genesis link.
type PrevHash struct {
	hash string
	link bool
}

func Genesis() PrevHash {
	return PrevHash{}
}

// LinkTo references the vote with the given hash.
func LinkTo(hash string) PrevHash {
	return PrevHash{hash: hash, link: true}
}

// ParsePrevHash maps a stored prev_hash column back to its variant. Only the
// sentinel is genesis; any other value, including an empty one, is a link.
func ParsePrevHash(s string) PrevHash {
	if s == GenesisSentinel {
		return Genesis()
	}
	return LinkTo(s)
}

func (p PrevHash) IsGenesis() bool {
	return !p.link
}

func (p PrevHash) String() string {
	if !p.link {
		return GenesisSentinel
	}
	return p.hash
}

// Vote is one committed link of a poll's chain.
type Vote struct {
	ID        int64
	PollID    int64
	Seq       int64
	Voter     Identity
	OptionID  int64
	Timestamp time.Time
	PrevHash  PrevHash
	Hash      string
}

// ChainHead is the most recently committed link of a poll, or the genesis
// position when nothing has been committed yet.
type ChainHead struct {
	Hash      PrevHash
	Seq       int64
	Timestamp time.Time
}
