package user

import (
	"context"
	"time"
)

// SessionStore 登录会话与Token黑名单
// JWT无状态,登出后通过黑名单让Access Token在过期前失效
//
// 实现:redis.SessionStore(生产)、memory.SessionStore(本地/测试)
type SessionStore interface {
	SaveSession(ctx context.Context, userID uint, data map[string]interface{}, ttl time.Duration) error
	DeleteSession(ctx context.Context, userID uint) error
	AddToBlacklist(ctx context.Context, token string, ttl time.Duration) error
	IsInBlacklist(ctx context.Context, token string) (bool, error)
}
