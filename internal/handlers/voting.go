package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/14kear/hoa-portal/internal/lib/logger/sl"
	"github.com/14kear/hoa-portal/internal/middleware"
	"github.com/14kear/hoa-portal/internal/services"
	"github.com/gin-gonic/gin"
)

type VotingHandler struct {
	log     *slog.Logger
	voting  *services.Voting
	auditor *services.Auditor
	polls   *services.Polls
}

type SubmitVoteRequest struct {
	PollID         int64 `json:"poll_id" binding:"required"`
	OptionID       int64 `json:"option_id" binding:"required"`
	RequestReceipt bool  `json:"request_receipt"`
}

type CreatePollRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description" binding:"required"`
	Binding     bool       `json:"binding"`
	Anonymous   bool       `json:"anonymous"`
	ClosesAt    *time.Time `json:"closes_at"`
}

type CreateOptionRequest struct {
	Text string `json:"text" binding:"required"`
}

func NewVotingHandler(
	log *slog.Logger,
	voting *services.Voting,
	auditor *services.Auditor,
	polls *services.Polls,
) *VotingHandler {
	return &VotingHandler{log: log, voting: voting, auditor: auditor, polls: polls}
}

func (v *VotingHandler) SubmitVote(c *gin.Context) {
	var req SubmitVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	ballot, err := v.voting.SubmitVote(c.Request.Context(), req.PollID, req.OptionID, middleware.Voter(c), req.RequestReceipt)
	if err != nil {
		v.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"vote": ballot})
}

func (v *VotingHandler) VerifyReceipt(c *gin.Context) {
	pollID, ok := pollIDParam(c)
	if !ok {
		return
	}

	check, err := v.voting.VerifyReceipt(c.Request.Context(), pollID, c.Param("code"))
	if err != nil {
		if errors.Is(err, services.ErrReceiptNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"verified": false, "error": "receipt not found"})
			return
		}
		v.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, check)
}

func (v *VotingHandler) AuditPoll(c *gin.Context) {
	pollID, ok := pollIDParam(c)
	if !ok {
		return
	}

	report, err := v.auditor.AuditPoll(c.Request.Context(), pollID)
	if err != nil {
		v.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"report": report})
}

func (v *VotingHandler) CreatePoll(c *gin.Context) {
	var req CreatePollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	pollID, err := v.polls.CreatePoll(c.Request.Context(), userID, services.NewPoll{
		Title:       req.Title,
		Description: req.Description,
		Binding:     req.Binding,
		Anonymous:   req.Anonymous,
		ClosesAt:    req.ClosesAt,
	})
	if err != nil {
		v.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"poll_id": pollID})
}

func (v *VotingHandler) GetPollByID(c *gin.Context) {
	pollID, ok := pollIDParam(c)
	if !ok {
		return
	}

	poll, err := v.polls.GetPoll(c.Request.Context(), pollID)
	if err != nil {
		v.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"poll": poll})
}

func (v *VotingHandler) GetPolls(c *gin.Context) {
	polls, err := v.polls.GetPolls(c.Request.Context())
	if err != nil {
		v.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"polls": polls})
}

func (v *VotingHandler) CreateOption(c *gin.Context) {
	var req CreateOptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	pollID, ok := pollIDParam(c)
	if !ok {
		return
	}

	optionID, err := v.polls.AddOption(c.Request.Context(), pollID, req.Text)
	if err != nil {
		v.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"option_id": optionID})
}

func (v *VotingHandler) GetOptionsByPollID(c *gin.Context) {
	pollID, ok := pollIDParam(c)
	if !ok {
		return
	}

	options, err := v.polls.GetOptions(c.Request.Context(), pollID)
	if err != nil {
		v.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"options": options})
}

func (v *VotingHandler) OpenPoll(c *gin.Context) {
	pollID, ok := pollIDParam(c)
	if !ok {
		return
	}

	if err := v.polls.OpenPoll(c.Request.Context(), pollID); err != nil {
		v.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"poll_id": pollID, "status": "active"})
}

func (v *VotingHandler) ClosePoll(c *gin.Context) {
	pollID, ok := pollIDParam(c)
	if !ok {
		return
	}

	if err := v.polls.ClosePoll(c.Request.Context(), pollID); err != nil {
		v.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"poll_id": pollID, "status": "closed"})
}

func pollIDParam(c *gin.Context) (int64, bool) {
	pollID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || pollID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid poll id"})
		return 0, false
	}
	return pollID, true
}

// writeError maps service errors onto HTTP statuses. Order matters: the more
// specific validation errors wrap ErrValidation.
func (v *VotingHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrPollNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "poll not found"})
	case errors.Is(err, services.ErrPollNotOpen):
		c.JSON(http.StatusConflict, gin.H{"error": "poll is not open for voting"})
	case errors.Is(err, services.ErrDuplicateVote):
		c.JSON(http.StatusConflict, gin.H{"error": "vote already cast"})
	case errors.Is(err, services.ErrAmbiguousReceipt):
		c.JSON(http.StatusConflict, gin.H{"error": "receipt is ambiguous, use the full vote hash"})
	case errors.Is(err, services.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrLedgerContention):
		c.Header("Retry-After", "1")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "ledger busy, retry the submission"})
	default:
		sl.Ctx(c.Request.Context(), v.log).Error("request failed", sl.Err(err), slog.String("path", c.FullPath()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
