package apperror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// 错误码常量，供前端做程序化判断，而不是匹配错误消息文本
const (
	CodeBadRequest        = "BAD_REQUEST"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeForbidden         = "FORBIDDEN"
	CodeInternal          = "INTERNAL_ERROR"
	CodeUserExists        = "USER_EXISTS"
	CodeUserNotFound      = "USER_NOT_FOUND"
	CodeInvalidCredential = "INVALID_CREDENTIALS"
	CodeElectionNotFound  = "ELECTION_NOT_FOUND"
	CodeCandidateNotFound = "CANDIDATE_NOT_FOUND"
	CodeElectionHasVotes  = "ELECTION_HAS_VOTES"
	CodeAlreadyVoted      = "ALREADY_VOTED"
)

// Error 是携带HTTP状态码和机器可读错误码的业务错误。
// Message是面向用户的简短描述，Code用于客户端区分错误类型。
type Error struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"error"`
}

func (e *Error) Error() string {
	return e.Message
}

// New 创建一个带状态码和错误码的业务错误
func New(status int, code, message string) *Error {
	return &Error{Status: status, Code: code, Message: message}
}

// NotFound 创建一个404错误
func NotFound(code, message string) *Error {
	return New(http.StatusNotFound, code, message)
}

// BadRequest 创建一个400错误
func BadRequest(code, message string) *Error {
	return New(http.StatusBadRequest, code, message)
}

// Conflict 创建一个409错误
func Conflict(code, message string) *Error {
	return New(http.StatusConflict, code, message)
}

// Unauthorized 创建一个401错误
func Unauthorized(message string) *Error {
	return New(http.StatusUnauthorized, CodeUnauthorized, message)
}

// Forbidden 创建一个403错误
func Forbidden(message string) *Error {
	return New(http.StatusForbidden, CodeForbidden, message)
}

// Internal 创建一个500错误，message对客户端保持笼统
func Internal(message string) *Error {
	return New(http.StatusInternalServerError, CodeInternal, message)
}

// Respond 将错误写入HTTP响应。
// 业务错误按其自带的状态码和错误码返回；
// 其他错误一律视为内部错误，细节只打印到服务端日志。
func Respond(c *gin.Context, err error) {
	var appErr *Error
	if errors.As(err, &appErr) {
		c.JSON(appErr.Status, appErr)
		return
	}

	fmt.Printf("内部错误: %v\n", err)
	c.JSON(http.StatusInternalServerError, Internal("服务器内部错误"))
}
