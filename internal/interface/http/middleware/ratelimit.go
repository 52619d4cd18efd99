package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"

	apperrors "github.com/xiebiao/bookshop/pkg/errors"
	"github.com/xiebiao/bookshop/pkg/response"
)

// defaultLimiterEntries 最多跟踪的客户端IP数量,超出后淘汰最久未访问的
const defaultLimiterEntries = 10000

// RateLimiter 按客户端IP限流(令牌桶)
// 每个窗口最多perWindow次请求,令牌按window/perWindow的间隔匀速补充
type RateLimiter struct {
	limiters *lru.Cache[string, *rate.Limiter]
	every    rate.Limit
	burst    int
}

// NewRateLimiter 创建限流器
func NewRateLimiter(perWindow int, window time.Duration) (*RateLimiter, error) {
	if perWindow <= 0 || window <= 0 {
		return nil, fmt.Errorf("无效的限流配置: %d/%s", perWindow, window)
	}
	cache, err := lru.New[string, *rate.Limiter](defaultLimiterEntries)
	if err != nil {
		return nil, fmt.Errorf("创建限流缓存失败: %w", err)
	}
	return &RateLimiter{
		limiters: cache,
		every:    rate.Every(window / time.Duration(perWindow)),
		burst:    perWindow,
	}, nil
}

// Allow 判断该客户端本次请求是否放行
func (l *RateLimiter) Allow(key string) bool {
	limiter, ok := l.limiters.Get(key)
	if !ok {
		limiter = rate.NewLimiter(l.every, l.burst)
		// 并发首次访问时以先写入者为准
		if prev, loaded, _ := l.limiters.PeekOrAdd(key, limiter); loaded {
			limiter = prev
		}
	}
	return limiter.Allow()
}

// Middleware 超出限额返回429
func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.Allow(c.ClientIP()) {
			response.Error(c, apperrors.ErrTooManyRequests)
			c.Abort()
			return
		}
		c.Next()
	}
}
