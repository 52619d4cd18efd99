package user

import (
	"context"
)

// Repository 用户仓储接口
// 邮箱、用户名唯一性由存储层唯一索引保证
type Repository interface {
	// Create 创建用户，邮箱/用户名已存在时返回ErrEmailDuplicate/ErrUsernameDuplicate
	Create(ctx context.Context, user *User) error

	// FindByID 根据ID查找用户，不存在返回ErrUserNotFound
	FindByID(ctx context.Context, id uint) (*User, error)

	// FindByEmail 根据邮箱查找用户，不存在返回ErrUserNotFound
	FindByEmail(ctx context.Context, email string) (*User, error)

	// Update 更新用户信息（唯一冲突错误同Create）
	Update(ctx context.Context, user *User) error
}
