package user

import (
	"errors"
	"fmt"

	"github.com/SlpAus/online-voting-backend/internal/platform/config"
	"github.com/SlpAus/online-voting-backend/internal/platform/database"
	"github.com/SlpAus/online-voting-backend/pkg/apperror"
	"github.com/SlpAus/online-voting-backend/pkg/token"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// RegisterInput 是注册服务的入参
type RegisterInput struct {
	Name     string
	Email    string
	Username string
	Password string
	Role     string
}

// Register 创建一个新用户。
// 邮箱和用户名都必须唯一，重复注册返回冲突错误。
func Register(input RegisterInput) (*User, error) {
	// 先做一次快速查询给出明确的冲突提示，
	// 数据库层的唯一索引兜底处理并发注册
	var existing User
	err := database.DB.Where("email = ? OR username = ?", input.Email, input.Username).First(&existing).Error
	if err == nil {
		return nil, apperror.Conflict(apperror.CodeUserExists, "邮箱或用户名已被注册")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("查询已有用户失败: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("无法加密口令: %w", err)
	}

	newUUID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("无法生成UUID v7: %w", err)
	}

	role := input.Role
	if role == "" {
		role = RoleVoter
	}

	newUser := User{
		UUID:         newUUID.String(),
		Name:         input.Name,
		Email:        input.Email,
		Username:     input.Username,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := database.DB.Create(&newUser).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.Conflict(apperror.CodeUserExists, "邮箱或用户名已被注册")
		}
		return nil, fmt.Errorf("无法创建用户: %w", err)
	}

	return &newUser, nil
}

// Login 校验邮箱和口令，成功后签发JWT。
// 邮箱不存在和口令错误返回同一个错误，不向调用方泄露用户是否存在。
func Login(email, password string) (string, *User, error) {
	var u User
	if err := database.DB.Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, apperror.New(401, apperror.CodeInvalidCredential, "邮箱或口令错误")
		}
		return "", nil, fmt.Errorf("查询用户失败: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", nil, apperror.New(401, apperror.CodeInvalidCredential, "邮箱或口令错误")
	}

	cfg := config.Cfg.Auth
	signed, err := token.Generate(u.UUID, u.Name, u.Role, cfg.TokenSecret, cfg.TokenExpiryHours)
	if err != nil {
		return "", nil, err
	}
	return signed, &u, nil
}

// GetByUUID 按UUID查找用户，未找到时返回(nil, nil)
func GetByUUID(uuidStr string) (*User, error) {
	var u User
	err := database.DB.Where("uuid = ?", uuidStr).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}
	return &u, nil
}
