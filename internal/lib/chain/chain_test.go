package chain

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"
	"time"

	"github.com/14kear/hoa-portal/internal/entity"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2026, time.March, 14, 9, 30, 0, 123456789, time.UTC)

// twoVoteChain builds poll P: anonymous vote for option 10, then user 7 for option 11.
func twoVoteChain(t *testing.T) []entity.Vote {
	t.Helper()

	v1 := entity.Vote{ID: 1, PollID: 1, Seq: 1, Voter: entity.AnonymousVoter(), OptionID: 10, Timestamp: baseTime, PrevHash: entity.Genesis()}
	v1.Hash = ComputeHash(v1.Voter, v1.OptionID, v1.Timestamp, v1.PrevHash)

	v2 := entity.Vote{ID: 2, PollID: 1, Seq: 2, Voter: entity.KnownVoter(7), OptionID: 11, Timestamp: baseTime.Add(time.Second), PrevHash: entity.LinkTo(v1.Hash)}
	v2.Hash = ComputeHash(v2.Voter, v2.OptionID, v2.Timestamp, v2.PrevHash)

	return []entity.Vote{v1, v2}
}

func TestComputeHash_Format(t *testing.T) {
	h := ComputeHash(entity.KnownVoter(7), 11, baseTime, entity.Genesis())

	require.Len(t, h, HashLength)
	assert.Equal(t, strings.ToLower(h), h)
	_, err := hex.DecodeString(h)
	assert.NoError(t, err)
}

func TestComputeHash_Normalization(t *testing.T) {
	sum := sha256.Sum256([]byte("|10|2026-03-14T09:30:00.123456Z|GENESIS"))
	want := hex.EncodeToString(sum[:])

	assert.Equal(t, want, ComputeHash(entity.AnonymousVoter(), 10, baseTime, entity.Genesis()))
	// zero values are the anonymous and genesis variants
	assert.Equal(t, want, ComputeHash(entity.Identity{}, 10, baseTime, entity.PrevHash{}))
	// same instant in another zone hashes identically
	assert.Equal(t, want, ComputeHash(entity.AnonymousVoter(), 10, baseTime.In(time.FixedZone("EST", -5*3600)), entity.Genesis()))
	// "GENESIS" read back from storage is the genesis variant
	assert.Equal(t, want, ComputeHash(entity.AnonymousVoter(), 10, baseTime, entity.ParsePrevHash(entity.GenesisSentinel)))
}

func TestComputeHash_InputsMatter(t *testing.T) {
	h := ComputeHash(entity.KnownVoter(7), 11, baseTime, entity.Genesis())

	assert.NotEqual(t, h, ComputeHash(entity.KnownVoter(8), 11, baseTime, entity.Genesis()))
	assert.NotEqual(t, h, ComputeHash(entity.AnonymousVoter(), 11, baseTime, entity.Genesis()))
	assert.NotEqual(t, h, ComputeHash(entity.KnownVoter(7), 12, baseTime, entity.Genesis()))
	assert.NotEqual(t, h, ComputeHash(entity.KnownVoter(7), 11, baseTime.Add(time.Microsecond), entity.Genesis()))
	assert.NotEqual(t, h, ComputeHash(entity.KnownVoter(7), 11, baseTime, entity.LinkTo(h)))
	// the separator keeps "1","23" apart from "12","3"
	assert.NotEqual(t,
		ComputeHash(entity.KnownVoter(1), 23, baseTime, entity.Genesis()),
		ComputeHash(entity.KnownVoter(12), 3, baseTime, entity.Genesis()))
}

func TestDeriveReceipt(t *testing.T) {
	h := ComputeHash(entity.KnownVoter(7), 11, baseTime, entity.Genesis())

	r1, err := DeriveReceipt(h)
	require.NoError(t, err)
	r2, err := DeriveReceipt(h)
	require.NoError(t, err)

	assert.Len(t, r1, ReceiptLength)
	assert.Equal(t, r1, r2)
	assert.Equal(t, strings.ToUpper(h[:ReceiptLength]), r1)

	other, err := DeriveReceipt(ComputeHash(entity.KnownVoter(8), 11, baseTime, entity.Genesis()))
	require.NoError(t, err)
	assert.NotEqual(t, r1, other)
}

func TestDeriveReceipt_Malformed(t *testing.T) {
	_, err := DeriveReceipt("abc")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedHash)
}

func TestVerifyLink_RoundTrip(t *testing.T) {
	for i := 0; i < 50; i++ {
		v := entity.Vote{
			Voter:     entity.KnownVoter(gofakeit.Int64()),
			OptionID:  gofakeit.Int64(),
			Timestamp: gofakeit.Date(),
			PrevHash:  entity.LinkTo(gofakeit.Regex("[0-9a-f]{64}")),
		}
		v.Hash = ComputeHash(v.Voter, v.OptionID, v.Timestamp, v.PrevHash)

		assert.True(t, VerifyLink(v))
	}
}

func TestValidateChain_Valid(t *testing.T) {
	res := ValidateChain(twoVoteChain(t))

	assert.True(t, res.Valid)
	assert.Empty(t, res.BrokenLinks)
}

func TestValidateChain_Empty(t *testing.T) {
	res := ValidateChain(nil)

	assert.True(t, res.Valid)
	assert.Empty(t, res.BrokenLinks)
}

func TestValidateChain_TamperedOption(t *testing.T) {
	votes := twoVoteChain(t)
	votes[1].OptionID = 99

	res := ValidateChain(votes)

	assert.False(t, res.Valid)
	assert.Equal(t, []entity.BrokenLink{{Index: 1, VoteID: 2, Reason: entity.ReasonHashMismatch}}, res.BrokenLinks)
}

func TestValidateChain_ChainBreak(t *testing.T) {
	votes := twoVoteChain(t)
	votes[1].PrevHash = entity.LinkTo(strings.Repeat("ab", 32))
	// re-hash so only the link itself is wrong
	votes[1].Hash = ComputeHash(votes[1].Voter, votes[1].OptionID, votes[1].Timestamp, votes[1].PrevHash)

	res := ValidateChain(votes)

	assert.False(t, res.Valid)
	assert.Equal(t, []entity.BrokenLink{{Index: 1, VoteID: 2, Reason: entity.ReasonChainBreak}}, res.BrokenLinks)
}

func TestValidateChain_ChainBreakWithoutRehash(t *testing.T) {
	votes := twoVoteChain(t)
	votes[1].PrevHash = entity.LinkTo(strings.Repeat("ab", 32))

	res := ValidateChain(votes)

	require.False(t, res.Valid)
	assert.Equal(t, []entity.BrokenLink{
		{Index: 1, VoteID: 2, Reason: entity.ReasonHashMismatch},
		{Index: 1, VoteID: 2, Reason: entity.ReasonChainBreak},
	}, res.BrokenLinks)
}

func TestValidateChain_InvalidGenesis(t *testing.T) {
	votes := twoVoteChain(t)[:1]
	votes[0].PrevHash = entity.LinkTo(strings.Repeat("0", 64))
	votes[0].Hash = ComputeHash(votes[0].Voter, votes[0].OptionID, votes[0].Timestamp, votes[0].PrevHash)

	res := ValidateChain(votes)

	assert.False(t, res.Valid)
	assert.Equal(t, []entity.BrokenLink{{Index: 0, VoteID: 1, Reason: entity.ReasonInvalidGenesis}}, res.BrokenLinks)
}

func TestValidateChain_BlankedGenesisColumn(t *testing.T) {
	votes := twoVoteChain(t)
	votes[0].PrevHash = entity.ParsePrevHash("")

	res := ValidateChain(votes)

	assert.False(t, res.Valid)
	assert.Equal(t, []entity.BrokenLink{
		{Index: 0, VoteID: 1, Reason: entity.ReasonHashMismatch},
		{Index: 0, VoteID: 1, Reason: entity.ReasonInvalidGenesis},
	}, res.BrokenLinks)
}

func TestParsePrevHash(t *testing.T) {
	assert.True(t, entity.ParsePrevHash(entity.GenesisSentinel).IsGenesis())
	assert.Equal(t, entity.Genesis(), entity.ParsePrevHash(entity.GenesisSentinel))

	blank := entity.ParsePrevHash("")
	assert.False(t, blank.IsGenesis())
	assert.Equal(t, "", blank.String())

	hash := strings.Repeat("a", HashLength)
	assert.Equal(t, entity.LinkTo(hash), entity.ParsePrevHash(hash))
	assert.Equal(t, hash, entity.ParsePrevHash(hash).String())
}

func TestValidateChain_GenesisInTheMiddle(t *testing.T) {
	votes := twoVoteChain(t)
	votes[1].PrevHash = entity.Genesis()
	votes[1].Hash = ComputeHash(votes[1].Voter, votes[1].OptionID, votes[1].Timestamp, votes[1].PrevHash)

	res := ValidateChain(votes)

	assert.False(t, res.Valid)
	assert.Equal(t, []entity.BrokenLink{{Index: 1, VoteID: 2, Reason: entity.ReasonChainBreak}}, res.BrokenLinks)
}

func TestValidateChain_Reordered(t *testing.T) {
	votes := twoVoteChain(t)
	votes[0], votes[1] = votes[1], votes[0]

	res := ValidateChain(votes)

	assert.False(t, res.Valid)
	assert.Equal(t, []entity.BrokenLink{
		{Index: 0, VoteID: 2, Reason: entity.ReasonInvalidGenesis},
		{Index: 1, VoteID: 1, Reason: entity.ReasonChainBreak},
	}, res.BrokenLinks)
}
