package routes

import (
	"github.com/14kear/hoa-portal/internal/handlers"
	"github.com/gin-gonic/gin"
)

func RegisterPublicRoutes(rg *gin.RouterGroup, handler *handlers.VotingHandler) {
	{
		rg.GET("/polls", handler.GetPolls)
		rg.GET("/polls/:id", handler.GetPollByID)
		rg.GET("/polls/:id/options", handler.GetOptionsByPollID)

		rg.GET("/polls/:id/receipts/:code", handler.VerifyReceipt)
	}
}

// RegisterVoterRoutes expects a middleware that resolves the voter when a token is sent.
func RegisterVoterRoutes(rg *gin.RouterGroup, handler *handlers.VotingHandler) {
	{
		rg.POST("/votes", handler.SubmitVote)
	}
}

func RegisterAdminRoutes(rg *gin.RouterGroup, handler *handlers.VotingHandler) {
	{
		rg.POST("/polls", handler.CreatePoll)
		rg.POST("/polls/:id/options", handler.CreateOption)
		rg.POST("/polls/:id/open", handler.OpenPoll)
		rg.POST("/polls/:id/close", handler.ClosePoll)

		rg.GET("/polls/:id/audit", handler.AuditPoll)
	}
}
