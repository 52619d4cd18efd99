package dto

// RegisterRequest 注册请求
// 密码强度(字母+数字)由领域服务校验
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=30" example:"gopher"`
	Email    string `json:"email" binding:"required,email" example:"gopher@example.com"`
	Password string `json:"password" binding:"required,min=8,max=20" example:"secret123"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"gopher@example.com"`
	Password string `json:"password" binding:"required" example:"secret123"`
}

// RefreshTokenRequest 刷新Access Token
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// UpdateProfileRequest 修改资料(空字段表示不修改)
type UpdateProfileRequest struct {
	Username        string `json:"username" binding:"omitempty,min=3,max=30" example:"gopher2"`
	Email           string `json:"email" binding:"omitempty,email" example:"gopher2@example.com"`
	CurrentPassword string `json:"current_password" binding:"required" example:"secret123"`
}

// ChangePasswordRequest 修改密码
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required" example:"secret123"`
	NewPassword     string `json:"new_password" binding:"required,min=8,max=20" example:"secret456"`
}
