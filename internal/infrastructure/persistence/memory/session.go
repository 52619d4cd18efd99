package memory

import (
	"context"
	"sync"
	"time"

	"github.com/xiebiao/bookshop/internal/domain/user"
)

// SessionStore 会话与黑名单的内存实现,过期在读取时惰性判断
type SessionStore struct {
	mu        sync.Mutex
	sessions  map[uint]sessionEntry
	blacklist map[string]time.Time
	now       func() time.Time
}

type sessionEntry struct {
	data      map[string]interface{}
	expiresAt time.Time
}

var _ user.SessionStore = (*SessionStore)(nil)

// NewSessionStore 创建内存会话存储
func NewSessionStore() *SessionStore {
	return NewSessionStoreWithClock(time.Now)
}

// NewSessionStoreWithClock 测试中注入时钟
func NewSessionStoreWithClock(now func() time.Time) *SessionStore {
	return &SessionStore{
		sessions:  make(map[uint]sessionEntry),
		blacklist: make(map[string]time.Time),
		now:       now,
	}
}

func (s *SessionStore) SaveSession(ctx context.Context, userID uint, data map[string]interface{}, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := make(map[string]interface{}, len(data))
	for k, v := range data {
		cp[k] = v
	}
	s.sessions[userID] = sessionEntry{data: cp, expiresAt: s.now().Add(ttl)}
	return nil
}

// HasSession 会话是否存在且未过期
func (s *SessionStore) HasSession(userID uint) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[userID]
	if !ok {
		return false
	}
	if !s.now().Before(entry.expiresAt) {
		delete(s.sessions, userID)
		return false
	}
	return true
}

func (s *SessionStore) DeleteSession(ctx context.Context, userID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, userID)
	return nil
}

func (s *SessionStore) AddToBlacklist(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.blacklist[token] = s.now().Add(ttl)
	return nil
}

func (s *SessionStore) IsInBlacklist(ctx context.Context, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiresAt, ok := s.blacklist[token]
	if !ok {
		return false, nil
	}
	if !s.now().Before(expiresAt) {
		delete(s.blacklist, token)
		return false, nil
	}
	return true, nil
}
