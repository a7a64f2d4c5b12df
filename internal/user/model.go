package user

import (
	"gorm.io/gorm"
)

// 用户角色常量
const (
	// RoleAdmin 可以创建、修改、删除选举并查看全部数据
	RoleAdmin = "admin"
	// RoleVoter 只能浏览选举并在每个选举中投一票
	RoleVoter = "voter"
)

// User 定义了用户在SQLite数据库中的持久化模型。
type User struct {
	gorm.Model

	// UUID 是用户对外的唯一标识，会被写入登录令牌的sub声明
	UUID string `gorm:"uniqueIndex;type:varchar(36)" json:"uuid"`

	// Name 是用户的显示名称
	Name string `gorm:"not null" json:"name"`

	// Email 全局唯一，是登录凭据
	Email string `gorm:"uniqueIndex;not null" json:"email"`

	// Username 全局唯一，防止重复注册
	Username string `gorm:"uniqueIndex;not null" json:"username"`

	// PasswordHash 是bcrypt加密后的口令，永远不会出现在JSON响应中
	PasswordHash string `gorm:"not null" json:"-"`

	// Role 是用户的角色，admin或voter
	Role string `gorm:"not null;default:voter" json:"role"`
}
