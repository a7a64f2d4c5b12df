package user

import (
	"net/http"

	"github.com/SlpAus/online-voting-backend/pkg/apperror"
	"github.com/gin-gonic/gin"
)

// RegisterRequestBody 定义了注册接口请求体的JSON结构
type RegisterRequestBody struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
	// Role 可选，缺省为voter
	Role string `json:"role" binding:"omitempty,oneof=admin voter"`
}

// LoginRequestBody 定义了登录接口请求体的JSON结构
type LoginRequestBody struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// HandleRegister 处理用户注册请求
func HandleRegister(c *gin.Context) {
	var body RegisterRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		apperror.Respond(c, apperror.BadRequest(apperror.CodeBadRequest, "请求格式错误: "+err.Error()))
		return
	}

	newUser, err := Register(RegisterInput{
		Name:     body.Name,
		Email:    body.Email,
		Username: body.Username,
		Password: body.Password,
		Role:     body.Role,
	})
	if err != nil {
		apperror.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "注册成功",
		"user":    newUser,
	})
}

// HandleLogin 处理用户登录请求，成功时返回令牌和用户信息
func HandleLogin(c *gin.Context) {
	var body LoginRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		apperror.Respond(c, apperror.BadRequest(apperror.CodeBadRequest, "请求格式错误: "+err.Error()))
		return
	}

	signed, u, err := Login(body.Email, body.Password)
	if err != nil {
		apperror.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": signed,
		"user":  u,
	})
}

// HandleProfile 返回当前登录用户的信息
func HandleProfile(c *gin.Context) {
	id, ok := IdentityFromContext(c)
	if !ok {
		apperror.Respond(c, apperror.Unauthorized("未认证的请求"))
		return
	}

	u, err := GetByUUID(id.UUID)
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	if u == nil {
		apperror.Respond(c, apperror.NotFound(apperror.CodeUserNotFound, "用户不存在"))
		return
	}

	c.JSON(http.StatusOK, u)
}
