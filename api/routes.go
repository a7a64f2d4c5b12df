package api

import (
	"github.com/SlpAus/online-voting-backend/internal/election"
	"github.com/SlpAus/online-voting-backend/internal/results"
	"github.com/SlpAus/online-voting-backend/internal/user"
	"github.com/SlpAus/online-voting-backend/internal/vote"
	"github.com/gin-gonic/gin"
)

// SetupRoutes 注册项目的所有API路由
func SetupRoutes(router *gin.Engine) {
	api := router.Group("/api")
	{
		// 认证相关的路由组 /api/auth
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/register", user.HandleRegister)
			authRoutes.POST("/login", user.HandleLogin)
			authRoutes.GET("/profile", user.RequireAuth(), user.HandleProfile)
		}

		// 选举相关的路由组 /api/elections
		electionRoutes := api.Group("/elections")
		{
			// 投票人视角的选举列表和投票入口
			electionRoutes.GET("/voter/elections", user.RequireAuth(), user.RequireVoter(), election.HandleGetVoterElections)
			electionRoutes.POST("/:id/vote", user.RequireAuth(), user.RequireVoter(), vote.HandleSubmitVote)

			// 管理员的选举CRUD
			electionRoutes.GET("", user.RequireAuth(), user.RequireAdmin(), election.HandleGetElections)
			electionRoutes.POST("", user.RequireAuth(), user.RequireAdmin(), election.HandleCreateElection)
			electionRoutes.PUT("/:id", user.RequireAuth(), user.RequireAdmin(), election.HandleUpdateElection)
			electionRoutes.DELETE("/:id", user.RequireAuth(), user.RequireAdmin(), election.HandleDeleteElection)
		}

		// 投票与结果相关的路由组 /api/votes
		voteRoutes := api.Group("/votes")
		{
			voteRoutes.GET("", user.RequireAuth(), user.RequireAdmin(), results.HandleGetVotes)
			voteRoutes.GET("/results", user.RequireAuth(), results.HandleGetResults)
		}
	}
}
