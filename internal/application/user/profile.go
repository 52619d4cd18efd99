package user

import (
	"context"

	"github.com/xiebiao/bookshop/internal/domain/user"
)

// GetProfileUseCase 查看个人资料
type GetProfileUseCase struct {
	userRepo user.Repository
}

// NewGetProfileUseCase 创建查看资料用例
func NewGetProfileUseCase(userRepo user.Repository) *GetProfileUseCase {
	return &GetProfileUseCase{userRepo: userRepo}
}

// Execute 执行查询
func (uc *GetProfileUseCase) Execute(ctx context.Context, userID uint) (*UserInfo, error) {
	u, err := uc.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	info := toUserInfo(u)
	return &info, nil
}

// UpdateProfileUseCase 修改用户名/邮箱
type UpdateProfileUseCase struct {
	userService user.Service
}

// NewUpdateProfileUseCase 创建修改资料用例
func NewUpdateProfileUseCase(userService user.Service) *UpdateProfileUseCase {
	return &UpdateProfileUseCase{userService: userService}
}

// UpdateProfileRequest 修改资料请求(空字段表示不修改)
type UpdateProfileRequest struct {
	UserID          uint
	Username        string
	Email           string
	CurrentPassword string
}

// Execute 需要当前密码确认
func (uc *UpdateProfileUseCase) Execute(ctx context.Context, req UpdateProfileRequest) (*UserInfo, error) {
	u, err := uc.userService.UpdateProfile(ctx, req.UserID, req.Username, req.Email, req.CurrentPassword)
	if err != nil {
		return nil, err
	}
	info := toUserInfo(u)
	return &info, nil
}

// ChangePasswordUseCase 修改密码
type ChangePasswordUseCase struct {
	userService user.Service
}

// NewChangePasswordUseCase 创建修改密码用例
func NewChangePasswordUseCase(userService user.Service) *ChangePasswordUseCase {
	return &ChangePasswordUseCase{userService: userService}
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	UserID          uint
	CurrentPassword string
	NewPassword     string
}

// Execute 执行修改
func (uc *ChangePasswordUseCase) Execute(ctx context.Context, req ChangePasswordRequest) error {
	return uc.userService.ChangePassword(ctx, req.UserID, req.CurrentPassword, req.NewPassword)
}
