// Package chain computes and checks the per-poll vote hash chain.
//
// Every committed vote stores the digest of its predecessor, so any edit to a
// stored vote is detectable by recomputing digests in commit order. All
// functions here are pure and safe for concurrent use.
package chain

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/14kear/hoa-portal/internal/entity"
)

// TimestampLayout is the canonical ISO-8601 form hashed into a vote.
// Microsecond precision matches what Postgres stores in timestamptz.
const TimestampLayout = "2006-01-02T15:04:05.000000Z07:00"

const (
	HashLength    = sha256.Size * 2
	ReceiptLength = 16

	fieldSeparator = "|"
)

var ErrMalformedHash = errors.New("malformed vote hash")

// Result is the outcome of ValidateChain.
type Result struct {
	Valid       bool
	BrokenLinks []entity.BrokenLink
}

// NormalizeTimestamp drops sub-microsecond precision and moves ts to UTC.
func NormalizeTimestamp(ts time.Time) time.Time {
	return ts.UTC().Truncate(time.Microsecond)
}

func FormatTimestamp(ts time.Time) string {
	return NormalizeTimestamp(ts).Format(TimestampLayout)
}

// ComputeHash returns the lowercase hex SHA-256 of the normalized
// user id, option id, timestamp and previous hash, in that order.
func ComputeHash(voter entity.Identity, optionID int64, ts time.Time, prev entity.PrevHash) string {
	payload := strings.Join([]string{
		voter.Normalized(),
		strconv.FormatInt(optionID, 10),
		FormatTimestamp(ts),
		prev.String(),
	}, fieldSeparator)

	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}

// DeriveReceipt returns the voter-facing receipt code for a vote hash.
func DeriveReceipt(hash string) (string, error) {
	if len(hash) < ReceiptLength {
		return "", fmt.Errorf("%w: %d characters", ErrMalformedHash, len(hash))
	}
	return strings.ToUpper(hash[:ReceiptLength]), nil
}

// VerifyLink recomputes the digest of v from its stored fields.
func VerifyLink(v entity.Vote) bool {
	return ComputeHash(v.Voter, v.OptionID, v.Timestamp, v.PrevHash) == v.Hash
}

// ValidateChain checks votes in the order given. The caller must pass the
// ledger's commit order; nothing is re-sorted here.
func ValidateChain(votes []entity.Vote) Result {
	res := Result{Valid: true, BrokenLinks: []entity.BrokenLink{}}

	broken := func(i int, reason string) {
		res.Valid = false
		res.BrokenLinks = append(res.BrokenLinks, entity.BrokenLink{
			Index:  i,
			VoteID: votes[i].ID,
			Reason: reason,
		})
	}

	for i, v := range votes {
		if !VerifyLink(v) {
			broken(i, entity.ReasonHashMismatch)
		}

		if i == 0 {
			if !v.PrevHash.IsGenesis() {
				broken(i, entity.ReasonInvalidGenesis)
			}
			continue
		}

		if v.PrevHash.IsGenesis() || v.PrevHash.String() != votes[i-1].Hash {
			broken(i, entity.ReasonChainBreak)
		}
	}

	return res
}
