package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/xiebiao/bookshop/internal/domain/user"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/memory"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
	"github.com/xiebiao/bookshop/pkg/jwt"
)

type fixture struct {
	repo     user.Repository
	sessions *memory.SessionStore
	jwt      *jwt.Manager
	register *RegisterUseCase
	login    *LoginUseCase
	logout   *LogoutUseCase
	refresh  *RefreshTokenUseCase
	profile  *GetProfileUseCase
	update   *UpdateProfileUseCase
	password *ChangePasswordUseCase
}

func newFixture() *fixture {
	repo := memory.NewUserRepository(memory.NewStore())
	service := user.NewServiceWithCost(repo, bcrypt.MinCost)
	sessions := memory.NewSessionStore()
	manager := jwt.NewManager("test-secret", time.Hour, 24*time.Hour)

	return &fixture{
		repo:     repo,
		sessions: sessions,
		jwt:      manager,
		register: NewRegisterUseCase(service),
		login:    NewLoginUseCase(service, manager, sessions, zap.NewNop()),
		logout:   NewLogoutUseCase(sessions, manager),
		refresh:  NewRefreshTokenUseCase(repo, manager),
		profile:  NewGetProfileUseCase(repo),
		update:   NewUpdateProfileUseCase(service),
		password: NewChangePasswordUseCase(service),
	}
}

func (f *fixture) registerAlice(t *testing.T) *UserInfo {
	t.Helper()
	info, err := f.register.Execute(context.Background(), RegisterRequest{
		Username: "alice", Email: "Alice@Example.com", Password: "secret123",
	})
	require.NoError(t, err)
	return info
}

func TestRegisterAndLogin(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	info := f.registerAlice(t)
	assert.Equal(t, "alice@example.com", info.Email)
	assert.Equal(t, user.RoleUser, info.Role)

	_, err := f.register.Execute(ctx, RegisterRequest{Username: "alice2", Email: "alice@example.com", Password: "secret123"})
	assert.True(t, errors.Is(err, apperrors.ErrEmailDuplicate))

	resp, err := f.login.Execute(ctx, LoginRequest{Email: "alice@example.com", Password: "secret123", ClientIP: "10.0.0.1"})
	require.NoError(t, err)
	assert.Equal(t, info.ID, resp.User.ID)
	assert.Equal(t, int64(3600), resp.ExpiresIn)
	assert.True(t, f.sessions.HasSession(info.ID))

	claims, err := f.jwt.ParseToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, info.ID, claims.UserID)
	assert.Equal(t, user.RoleUser, claims.Role)

	_, err = f.login.Execute(ctx, LoginRequest{Email: "alice@example.com", Password: "wrong1234"})
	assert.True(t, errors.Is(err, apperrors.ErrInvalidPassword))
	_, err = f.login.Execute(ctx, LoginRequest{Email: "nobody@example.com", Password: "secret123"})
	assert.True(t, errors.Is(err, apperrors.ErrInvalidPassword), "不暴露邮箱是否注册")
}

func TestLogout_BlacklistsAccessToken(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	info := f.registerAlice(t)

	resp, err := f.login.Execute(ctx, LoginRequest{Email: "alice@example.com", Password: "secret123"})
	require.NoError(t, err)

	require.NoError(t, f.logout.Execute(ctx, info.ID, resp.AccessToken))
	assert.False(t, f.sessions.HasSession(info.ID))

	blacklisted, err := f.sessions.IsInBlacklist(ctx, resp.AccessToken)
	require.NoError(t, err)
	assert.True(t, blacklisted)
}

func TestRefreshToken(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.registerAlice(t)

	resp, err := f.login.Execute(ctx, LoginRequest{Email: "alice@example.com", Password: "secret123"})
	require.NoError(t, err)

	refreshed, err := f.refresh.Execute(ctx, resp.RefreshToken)
	require.NoError(t, err)
	claims, err := f.jwt.ParseToken(refreshed.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", claims.Email)

	_, err = f.refresh.Execute(ctx, "not-a-token")
	assert.True(t, errors.Is(err, apperrors.ErrInvalidToken))
}

func TestProfile(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	info := f.registerAlice(t)

	got, err := f.profile.Execute(ctx, info.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)

	_, err = f.update.Execute(ctx, UpdateProfileRequest{UserID: info.ID, Username: "alice_w", CurrentPassword: "bad12345"})
	assert.True(t, errors.Is(err, apperrors.ErrInvalidPassword))

	updated, err := f.update.Execute(ctx, UpdateProfileRequest{UserID: info.ID, Username: "alice_w", CurrentPassword: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "alice_w", updated.Username)
	assert.Equal(t, "alice@example.com", updated.Email, "空字段不修改")

	_, err = f.profile.Execute(ctx, 999)
	assert.True(t, errors.Is(err, apperrors.ErrUserNotFound))
}

func TestChangePassword(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	info := f.registerAlice(t)

	err := f.password.Execute(ctx, ChangePasswordRequest{UserID: info.ID, CurrentPassword: "secret123", NewPassword: "short"})
	assert.True(t, errors.Is(err, apperrors.ErrWeakPassword))

	require.NoError(t, f.password.Execute(ctx, ChangePasswordRequest{UserID: info.ID, CurrentPassword: "secret123", NewPassword: "newpass456"}))

	_, err = f.login.Execute(ctx, LoginRequest{Email: "alice@example.com", Password: "secret123"})
	assert.True(t, errors.Is(err, apperrors.ErrInvalidPassword))
	_, err = f.login.Execute(ctx, LoginRequest{Email: "alice@example.com", Password: "newpass456"})
	assert.NoError(t, err)
}
