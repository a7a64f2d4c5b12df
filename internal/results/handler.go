package results

import (
	"net/http"
	"time"

	"github.com/SlpAus/online-voting-backend/pkg/apperror"
	"github.com/gin-gonic/gin"
)

// HandleGetResults 返回全部选举的结果投影，管理员和投票人都可访问
func HandleGetResults(c *gin.Context) {
	results, err := ComputeResults(time.Now())
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

// HandleGetVotes 返回每个选举的投票流水，仅管理员可访问
func HandleGetVotes(c *gin.Context) {
	votes, err := ListVotes()
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, votes)
}
