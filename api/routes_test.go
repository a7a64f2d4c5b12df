package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/SlpAus/online-voting-backend/internal/election"
	"github.com/SlpAus/online-voting-backend/internal/platform/config"
	"github.com/SlpAus/online-voting-backend/internal/platform/database"
	"github.com/SlpAus/online-voting-backend/internal/user"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestServer 搭建一个完整的内存测试环境：数据库、配置和全部路由
func setupTestServer(t *testing.T) *gin.Engine {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000&_txlock=immediate",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Discard,
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	database.DB = db
	database.RDB = nil
	require.NoError(t, db.AutoMigrate(&user.User{}, &election.Election{}, &election.Candidate{}, &election.VoteRecord{}))

	config.Cfg = &config.Config{
		Auth: config.AuthConfig{
			TokenSecret:      "test-secret",
			TokenExpiryHours: 1,
		},
	}

	gin.SetMode(gin.TestMode)
	r := gin.New()
	SetupRoutes(r)
	return r
}

// doJSON 发起一个JSON请求并返回响应
func doJSON(r *gin.Engine, method, path, authToken string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if authToken != "" {
		req.Header.Set("Authorization", "Bearer "+authToken)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// registerAndLogin 注册一个用户并返回其登录令牌
func registerAndLogin(t *testing.T, r *gin.Engine, name, role string) string {
	t.Helper()

	email := name + "@example.com"
	w := doJSON(r, http.MethodPost, "/api/auth/register", "", gin.H{
		"name":     name,
		"email":    email,
		"username": name,
		"password": "password123",
		"role":     role,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    email,
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

// createElectionViaAPI 以管理员身份通过API创建一个选举
func createElectionViaAPI(t *testing.T, r *gin.Engine, adminToken string, candidates []string) (uint, map[string]uint) {
	t.Helper()

	w := doJSON(r, http.MethodPost, "/api/elections", adminToken, gin.H{
		"title":       "班长选举",
		"description": "选出新一届班长",
		"endTime":     time.Now().Add(time.Hour).Format(time.RFC3339),
		"candidates":  candidates,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		ID         uint `json:"ID"`
		Candidates []struct {
			ID   uint   `json:"ID"`
			Name string `json:"name"`
		} `json:"candidates"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotZero(t, created.ID)

	candidateIDs := make(map[string]uint)
	for _, cand := range created.Candidates {
		candidateIDs[cand.Name] = cand.ID
	}
	return created.ID, candidateIDs
}

func TestEndToEndVotingScenario(t *testing.T) {
	r := setupTestServer(t)

	adminToken := registerAndLogin(t, r, "admin", "admin")
	voter1Token := registerAndLogin(t, r, "voter1", "voter")
	voter2Token := registerAndLogin(t, r, "voter2", "voter")

	electionID, candidateIDs := createElectionViaAPI(t, r, adminToken, []string{"Alice", "Bob"})
	votePath := fmt.Sprintf("/api/elections/%d/vote", electionID)

	// 两个不同的投票人各投Alice一票
	w := doJSON(r, http.MethodPost, votePath, voter1Token, gin.H{"candidateId": candidateIDs["Alice"]})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = doJSON(r, http.MethodPost, votePath, voter2Token, gin.H{"candidateId": candidateIDs["Alice"]})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// 结果：Alice 2票，Bob 0票，共2票，胜者Alice，状态ongoing
	w = doJSON(r, http.MethodGet, "/api/votes/results", voter1Token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var results []struct {
		Winner     string `json:"winner"`
		TotalVotes int    `json:"totalVotes"`
		Status     string `json:"status"`
		Candidates []struct {
			Name  string `json:"name"`
			Votes int    `json:"votes"`
		} `json:"candidates"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &results))
	require.Len(t, results, 1)
	assert.Equal(t, "Alice", results[0].Winner)
	assert.Equal(t, 2, results[0].TotalVotes)
	assert.Equal(t, "ongoing", results[0].Status)
	assert.Equal(t, 2, results[0].Candidates[0].Votes)
	assert.Equal(t, 0, results[0].Candidates[1].Votes)

	// voter1重复投票被拒绝，错误码可程序化识别
	w = doJSON(r, http.MethodPost, votePath, voter1Token, gin.H{"candidateId": candidateIDs["Bob"]})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var errResp struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
	assert.Equal(t, "ALREADY_VOTED", errResp.Code)

	// 总票数保持不变
	w = doJSON(r, http.MethodGet, "/api/votes/results", voter1Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &results))
	assert.Equal(t, 2, results[0].TotalVotes)
}

func TestVoteForMissingElectionAndCandidate(t *testing.T) {
	r := setupTestServer(t)

	adminToken := registerAndLogin(t, r, "admin", "admin")
	voterToken := registerAndLogin(t, r, "voter1", "voter")
	electionID, _ := createElectionViaAPI(t, r, adminToken, []string{"Alice", "Bob"})

	// 不存在的选举
	w := doJSON(r, http.MethodPost, "/api/elections/9999/vote", voterToken, gin.H{"candidateId": 1})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// 存在的选举里不存在的候选人
	votePath := fmt.Sprintf("/api/elections/%d/vote", electionID)
	w = doJSON(r, http.MethodPost, votePath, voterToken, gin.H{"candidateId": 9999})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// 两次失败都不能改动任何计票
	w = doJSON(r, http.MethodGet, "/api/votes/results", voterToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var results []struct {
		TotalVotes int `json:"totalVotes"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &results))
	require.Len(t, results, 1)
	assert.Zero(t, results[0].TotalVotes)
}

func TestRoleGates(t *testing.T) {
	r := setupTestServer(t)

	adminToken := registerAndLogin(t, r, "admin", "admin")
	voterToken := registerAndLogin(t, r, "voter1", "voter")

	// 投票人不能访问管理员接口
	w := doJSON(r, http.MethodGet, "/api/elections", voterToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// 管理员不能走投票人专用接口
	w = doJSON(r, http.MethodGet, "/api/elections/voter/elections", adminToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// 未认证的请求一律拒绝
	w = doJSON(r, http.MethodGet, "/api/votes/results", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestDeleteElectionRemovesItEverywhere(t *testing.T) {
	r := setupTestServer(t)

	adminToken := registerAndLogin(t, r, "admin", "admin")
	voterToken := registerAndLogin(t, r, "voter1", "voter")
	electionID, candidateIDs := createElectionViaAPI(t, r, adminToken, []string{"Alice", "Bob"})

	votePath := fmt.Sprintf("/api/elections/%d/vote", electionID)
	w := doJSON(r, http.MethodPost, votePath, voterToken, gin.H{"candidateId": candidateIDs["Alice"]})
	require.Equal(t, http.StatusOK, w.Code)

	// 删除选举
	w = doJSON(r, http.MethodDelete, fmt.Sprintf("/api/elections/%d", electionID), adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// 从管理员列表消失
	w = doJSON(r, http.MethodGet, "/api/elections", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", strings.TrimSpace(w.Body.String()))

	// 从投票人列表消失
	w = doJSON(r, http.MethodGet, "/api/elections/voter/elections", voterToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", strings.TrimSpace(w.Body.String()))

	// 从结果中消失
	w = doJSON(r, http.MethodGet, "/api/votes/results", voterToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", strings.TrimSpace(w.Body.String()))

	// 按ID再次访问得到404
	w = doJSON(r, http.MethodDelete, fmt.Sprintf("/api/elections/%d", electionID), adminToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = doJSON(r, http.MethodPost, votePath, voterToken, gin.H{"candidateId": candidateIDs["Alice"]})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRegisterValidation(t *testing.T) {
	r := setupTestServer(t)

	// 缺少字段
	w := doJSON(r, http.MethodPost, "/api/auth/register", "", gin.H{
		"name": "Alice",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// 重复注册
	registerAndLogin(t, r, "alice", "voter")
	w = doJSON(r, http.MethodPost, "/api/auth/register", "", gin.H{
		"name":     "Alice",
		"email":    "alice@example.com",
		"username": "alice",
		"password": "password123",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// 错误口令登录
	w = doJSON(r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "alice@example.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminUpdateElection(t *testing.T) {
	r := setupTestServer(t)

	adminToken := registerAndLogin(t, r, "admin", "admin")
	voterToken := registerAndLogin(t, r, "voter1", "voter")
	electionID, _ := createElectionViaAPI(t, r, adminToken, []string{"Alice", "Bob"})
	path := fmt.Sprintf("/api/elections/%d", electionID)

	// 开票前可以替换候选人列表
	w := doJSON(r, http.MethodPut, path, adminToken, gin.H{
		"title":      "新标题",
		"candidates": []string{"Carol", "Dave"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// 重新读取候选人ID后投一票
	w = doJSON(r, http.MethodGet, "/api/elections", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var elections []struct {
		Candidates []struct {
			ID   uint   `json:"ID"`
			Name string `json:"name"`
		} `json:"candidates"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &elections))
	require.Len(t, elections, 1)
	require.Len(t, elections[0].Candidates, 2)

	votePath := fmt.Sprintf("/api/elections/%d/vote", electionID)
	w = doJSON(r, http.MethodPost, votePath, voterToken, gin.H{"candidateId": elections[0].Candidates[0].ID})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// 开票后替换候选人列表被拒绝
	w = doJSON(r, http.MethodPut, path, adminToken, gin.H{
		"candidates": []string{"Eve"},
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// 不动候选人的字段更新仍然允许
	w = doJSON(r, http.MethodPut, path, adminToken, gin.H{
		"description": "更新后的描述",
	})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}
