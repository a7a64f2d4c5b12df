package apperror

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCarriesStatusAndCode(t *testing.T) {
	err := NotFound(CodeElectionNotFound, "选举不存在")
	assert.Equal(t, http.StatusNotFound, err.Status)
	assert.Equal(t, CodeElectionNotFound, err.Code)
	assert.Equal(t, "选举不存在", err.Error())
}

func TestRespondWithAppError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Respond(c, BadRequest(CodeAlreadyVoted, "您已经在该选举中投过票了"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, CodeAlreadyVoted, body["code"])
	assert.Equal(t, "您已经在该选举中投过票了", body["error"])
}

func TestRespondWithWrappedAppError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	// errors.As应该穿透fmt.Errorf的包装
	wrapped := errors.Join(errors.New("outer"), Conflict(CodeUserExists, "邮箱或用户名已被注册"))
	Respond(c, wrapped)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRespondWithUnknownError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Respond(c, errors.New("数据库爆炸了"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, CodeInternal, body["code"])
	// 内部错误细节不能泄露给客户端
	assert.NotContains(t, body["error"], "数据库爆炸了")
}
