package user

import (
	"time"
)

// 用户角色
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User 用户实体（聚合根）
// 密码以bcrypt哈希存储，领域实体不依赖GORM tag
type User struct {
	ID        uint
	Username  string
	Email     string
	Password  string // bcrypt哈希值
	Role      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewUser 创建新用户（工厂方法），hashedPassword必须是bcrypt加密后的密码
func NewUser(username, email, hashedPassword string) *User {
	now := time.Now()
	return &User{
		Username:  username,
		Email:     email,
		Password:  hashedPassword,
		Role:      RoleUser,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsAdmin 是否为管理员
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UpdateProfile 更新用户名和邮箱（空值表示不修改）
func (u *User) UpdateProfile(username, email string) {
	if username != "" {
		u.Username = username
	}
	if email != "" {
		u.Email = email
	}
	u.UpdatedAt = time.Now()
}

// SetPassword 更新密码哈希
func (u *User) SetPassword(hashedPassword string) {
	u.Password = hashedPassword
	u.UpdatedAt = time.Now()
}
