package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/14kear/hoa-portal/internal/entity"
	"github.com/14kear/hoa-portal/internal/lib/chain"
	"github.com/14kear/hoa-portal/internal/repo"
	"github.com/14kear/hoa-portal/internal/services/mocks"
	"github.com/14kear/hoa-portal/utils"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildChain(pollID int64, n int) []entity.Vote {
	votes := make([]entity.Vote, 0, n)
	prev := entity.Genesis()
	ts := chain.NormalizeTimestamp(fixedNow)

	for i := 0; i < n; i++ {
		v := entity.Vote{
			ID:        int64(i + 1),
			PollID:    pollID,
			Seq:       int64(i + 1),
			Voter:     entity.KnownVoter(int64(100 + i)),
			OptionID:  10,
			Timestamp: ts.Add(time.Duration(i) * time.Second),
			PrevHash:  prev,
		}
		v.Hash = chain.ComputeHash(v.Voter, v.OptionID, v.Timestamp, v.PrevHash)
		votes = append(votes, v)
		prev = entity.LinkTo(v.Hash)
	}
	return votes
}

func newTestAuditor(ctrl *gomock.Controller) (*Auditor, *mocks.MockPollProvider, *mocks.MockVoteLister) {
	polls := mocks.NewMockPollProvider(ctrl)
	votes := mocks.NewMockVoteLister(ctrl)
	return NewAuditor(utils.NewDiscard(), polls, votes, 2), polls, votes
}

func TestAuditor_AuditPoll_Intact(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	a, polls, votes := newTestAuditor(ctrl)
	polls.EXPECT().GetPollByID(gomock.Any(), int64(1)).Return(activePoll(1, true), nil)
	votes.EXPECT().ListVotes(gomock.Any(), int64(1)).Return(buildChain(1, 3), nil)

	report, err := a.AuditPoll(context.Background(), 1)
	require.NoError(t, err)

	assert.True(t, report.Valid)
	assert.Equal(t, 3, report.TotalVotes)
	assert.Empty(t, report.BrokenLinks)
	assert.Equal(t, "chain intact: 3 votes verified", report.Message)
}

func TestAuditor_AuditPoll_EmptyChain(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	a, polls, votes := newTestAuditor(ctrl)
	polls.EXPECT().GetPollByID(gomock.Any(), int64(1)).Return(activePoll(1, true), nil)
	votes.EXPECT().ListVotes(gomock.Any(), int64(1)).Return(nil, nil)

	report, err := a.AuditPoll(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, report.Valid)
	assert.Zero(t, report.TotalVotes)
}

func TestAuditor_AuditPoll_Tampered(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	chainVotes := buildChain(1, 3)
	chainVotes[1].OptionID = 99

	a, polls, votes := newTestAuditor(ctrl)
	polls.EXPECT().GetPollByID(gomock.Any(), int64(1)).Return(activePoll(1, true), nil)
	votes.EXPECT().ListVotes(gomock.Any(), int64(1)).Return(chainVotes, nil)

	report, err := a.AuditPoll(context.Background(), 1)
	require.NoError(t, err)

	assert.False(t, report.Valid)
	require.Len(t, report.BrokenLinks, 1)
	assert.Equal(t, entity.BrokenLink{Index: 1, VoteID: 2, Reason: entity.ReasonHashMismatch}, report.BrokenLinks[0])
	assert.Contains(t, report.Message, "manual review required")
}

func TestAuditor_AuditPoll_Errors(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	a, polls, votes := newTestAuditor(ctrl)

	polls.EXPECT().GetPollByID(gomock.Any(), int64(404)).Return(entity.Poll{}, repo.ErrPollNotFound)
	_, err := a.AuditPoll(context.Background(), 404)
	assert.ErrorIs(t, err, ErrPollNotFound)

	storageErr := errors.New("read failed")
	polls.EXPECT().GetPollByID(gomock.Any(), int64(1)).Return(activePoll(1, true), nil)
	votes.EXPECT().ListVotes(gomock.Any(), int64(1)).Return(nil, storageErr)
	_, err = a.AuditPoll(context.Background(), 1)
	assert.ErrorIs(t, err, storageErr)
}

func TestAuditor_AuditPolls_KeepsOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	broken := buildChain(2, 2)
	broken[1].PrevHash = entity.Genesis()
	broken[1].Hash = chain.ComputeHash(broken[1].Voter, broken[1].OptionID, broken[1].Timestamp, broken[1].PrevHash)

	a, polls, votes := newTestAuditor(ctrl)
	for _, id := range []int64{1, 2, 3} {
		polls.EXPECT().GetPollByID(gomock.Any(), id).Return(activePoll(id, true), nil)
	}
	votes.EXPECT().ListVotes(gomock.Any(), int64(1)).Return(buildChain(1, 4), nil)
	votes.EXPECT().ListVotes(gomock.Any(), int64(2)).Return(broken, nil)
	votes.EXPECT().ListVotes(gomock.Any(), int64(3)).Return(nil, nil)

	reports, err := a.AuditPolls(context.Background(), []int64{1, 2, 3})
	require.NoError(t, err)
	require.Len(t, reports, 3)

	assert.Equal(t, int64(1), reports[0].PollID)
	assert.True(t, reports[0].Valid)

	assert.Equal(t, int64(2), reports[1].PollID)
	assert.False(t, reports[1].Valid)
	require.Len(t, reports[1].BrokenLinks, 1)
	assert.Equal(t, entity.ReasonChainBreak, reports[1].BrokenLinks[0].Reason)

	assert.Equal(t, int64(3), reports[2].PollID)
	assert.True(t, reports[2].Valid)
}
