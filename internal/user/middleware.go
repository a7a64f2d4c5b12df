package user

import (
	"strings"

	"github.com/SlpAus/online-voting-backend/internal/platform/config"
	"github.com/SlpAus/online-voting-backend/pkg/apperror"
	"github.com/SlpAus/online-voting-backend/pkg/token"
	"github.com/gin-gonic/gin"
)

// IdentityKey 是已认证用户身份在Gin上下文中的键名
const IdentityKey = "identity"

// Identity 是认证中间件写入请求上下文的用户身份。
// 身份随请求显式传递，后续处理器不读取任何全局会话状态。
type Identity struct {
	UserID uint
	UUID   string
	Name   string
	Role   string
}

// IdentityFromContext 从Gin上下文中取出当前请求的用户身份
func IdentityFromContext(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(IdentityKey)
	if !ok {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}

// RequireAuth 校验Bearer令牌并把用户身份放入Gin上下文。
// 令牌有效但用户已不存在时同样拒绝请求。
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			apperror.Respond(c, apperror.Unauthorized("缺少Authorization请求头"))
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			apperror.Respond(c, apperror.Unauthorized("Authorization请求头格式必须为 Bearer {token}"))
			c.Abort()
			return
		}

		claims, err := token.Parse(parts[1], config.Cfg.Auth.TokenSecret)
		if err != nil {
			apperror.Respond(c, apperror.Unauthorized("令牌无效或已过期"))
			c.Abort()
			return
		}

		u, err := GetByUUID(claims.Subject)
		if err != nil {
			apperror.Respond(c, err)
			c.Abort()
			return
		}
		if u == nil {
			apperror.Respond(c, apperror.Unauthorized("令牌对应的用户不存在"))
			c.Abort()
			return
		}

		c.Set(IdentityKey, Identity{
			UserID: u.ID,
			UUID:   u.UUID,
			Name:   u.Name,
			Role:   u.Role,
		})
		c.Next()
	}
}

// RequireAdmin 只放行admin角色，必须在RequireAuth之后使用
func RequireAdmin() gin.HandlerFunc {
	return requireRole(RoleAdmin)
}

// RequireVoter 只放行voter角色，必须在RequireAuth之后使用
func RequireVoter() gin.HandlerFunc {
	return requireRole(RoleVoter)
}

func requireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := IdentityFromContext(c)
		if !ok || id.Role != role {
			apperror.Respond(c, apperror.Forbidden("当前用户无权访问该接口"))
			c.Abort()
			return
		}
		c.Next()
	}
}
