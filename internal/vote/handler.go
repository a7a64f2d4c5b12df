package vote

import (
	"net/http"
	"strconv"

	"github.com/SlpAus/online-voting-backend/internal/user"
	"github.com/SlpAus/online-voting-backend/pkg/apperror"
	"github.com/gin-gonic/gin"
)

// VoteRequestBody 定义了前端提交投票时请求体的JSON结构
type VoteRequestBody struct {
	CandidateID uint `json:"candidateId" binding:"required"`
}

// HandleSubmitVote 处理投票人提交的投票
func HandleSubmitVote(c *gin.Context) {
	electionID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperror.Respond(c, apperror.BadRequest(apperror.CodeBadRequest, "无效的选举ID"))
		return
	}

	var body VoteRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		apperror.Respond(c, apperror.BadRequest(apperror.CodeBadRequest, "请求格式错误: "+err.Error()))
		return
	}

	id, ok := user.IdentityFromContext(c)
	if !ok {
		apperror.Respond(c, apperror.Unauthorized("未认证的请求"))
		return
	}

	if err := CastVote(uint(electionID), body.CandidateID, id.UserID); err != nil {
		apperror.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "投票成功"})
}
