package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/bookshop/internal/domain/user"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// userRepository 用户仓储实现（MySQL）
// 邮箱、用户名唯一性由UNIQUE索引保证，捕获Duplicate Entry转换为业务错误
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓储
func NewUserRepository(db *gorm.DB) user.Repository {
	return &userRepository{db: db}
}

// Create 创建用户
func (r *userRepository) Create(ctx context.Context, u *user.User) error {
	model := toUserModel(u)
	model.ID = 0
	if err := dbFromContext(ctx, r.db).Create(model).Error; err != nil {
		return r.translate(err, "创建用户失败")
	}

	u.ID = model.ID
	u.CreatedAt = model.CreatedAt
	u.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByID 根据ID查找用户
func (r *userRepository) FindByID(ctx context.Context, id uint) (*user.User, error) {
	var model UserModel
	if err := dbFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.WrapDB(err, "查询用户失败")
	}
	return model.toEntity(), nil
}

// FindByEmail 根据邮箱查找用户
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	var model UserModel
	if err := dbFromContext(ctx, r.db).Where("email = ?", email).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.WrapDB(err, "查询用户失败")
	}
	return model.toEntity(), nil
}

// Update 更新用户名、邮箱与密码
func (r *userRepository) Update(ctx context.Context, u *user.User) error {
	result := dbFromContext(ctx, r.db).Model(&UserModel{ID: u.ID}).Updates(map[string]interface{}{
		"username":   u.Username,
		"email":      u.Email,
		"password":   u.Password,
		"updated_at": u.UpdatedAt,
	})
	if result.Error != nil {
		return r.translate(result.Error, "更新用户失败")
	}
	if result.RowsAffected == 0 {
		// 值未变化时影响行数也为0
		if _, err := r.FindByID(ctx, u.ID); err != nil {
			return err
		}
	}
	return nil
}

// translate 唯一索引冲突 → 业务错误
func (r *userRepository) translate(err error, message string) error {
	switch {
	case duplicateKeyIs(err, "email"):
		return apperrors.ErrEmailDuplicate
	case duplicateKeyIs(err, "username"):
		return apperrors.ErrUsernameDuplicate
	case isDuplicateError(err):
		return apperrors.New(apperrors.ErrCodeDuplicateEntry, "记录已存在").WithErr(err)
	default:
		return apperrors.WrapDB(err, message)
	}
}
