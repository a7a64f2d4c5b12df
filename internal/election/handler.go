package election

import (
	"net/http"
	"strconv"
	"time"

	"github.com/SlpAus/online-voting-backend/internal/user"
	"github.com/SlpAus/online-voting-backend/pkg/apperror"
	"github.com/gin-gonic/gin"
)

// CreateElectionRequestBody 定义了创建选举请求体的JSON结构
type CreateElectionRequestBody struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description" binding:"required"`
	EndTime     time.Time `json:"endTime" binding:"required"`
	Candidates  []string  `json:"candidates" binding:"required,min=1,dive,required"`
}

// UpdateElectionRequestBody 定义了更新选举请求体的JSON结构。
// 所有字段可选，只更新出现的字段。
type UpdateElectionRequestBody struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	EndTime     *time.Time `json:"endTime"`
	Candidates  []string   `json:"candidates" binding:"omitempty,min=1,dive,required"`
}

// parseIDParam 解析路径中的选举ID
func parseIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperror.Respond(c, apperror.BadRequest(apperror.CodeBadRequest, "无效的选举ID"))
		return 0, false
	}
	return uint(id), true
}

// HandleGetElections 返回管理员视角的全部选举
func HandleGetElections(c *gin.Context) {
	elections, err := ListForAdmin()
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, elections)
}

// HandleGetVoterElections 返回投票人视角的选举列表
func HandleGetVoterElections(c *gin.Context) {
	elections, err := ListForVoter(time.Now())
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, elections)
}

// HandleCreateElection 处理创建选举请求
func HandleCreateElection(c *gin.Context) {
	var body CreateElectionRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		apperror.Respond(c, apperror.BadRequest(apperror.CodeBadRequest, "请求格式错误: "+err.Error()))
		return
	}

	id, _ := user.IdentityFromContext(c)
	created, err := CreateElection(CreateElectionInput{
		Title:       body.Title,
		Description: body.Description,
		EndTime:     body.EndTime,
		Candidates:  body.Candidates,
	}, id.UserID)
	if err != nil {
		apperror.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// HandleUpdateElection 处理更新选举请求
func HandleUpdateElection(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var body UpdateElectionRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		apperror.Respond(c, apperror.BadRequest(apperror.CodeBadRequest, "请求格式错误: "+err.Error()))
		return
	}

	updated, err := UpdateElection(id, UpdateElectionInput{
		Title:       body.Title,
		Description: body.Description,
		EndTime:     body.EndTime,
		Candidates:  body.Candidates,
	})
	if err != nil {
		apperror.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// HandleDeleteElection 处理删除选举请求
func HandleDeleteElection(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := DeleteElection(id); err != nil {
		apperror.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "选举已删除"})
}
