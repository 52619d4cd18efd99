// Package cache 进程内的图书搜索结果缓存
package cache

import (
	"context"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/xiebiao/bookshop/internal/domain/catalog"
)

type entry struct {
	books     []*catalog.Book
	expiresAt time.Time
}

// SearchCache 基于LRU的搜索缓存
//   - 容量有上限,超出时淘汰最久未使用的查询
//   - 每个条目有自己的过期时间,Get时发现过期即删除(惰性过期,无后台清理)
//   - 存取都复制图书,调用方修改结果不会污染缓存
type SearchCache struct {
	cache *lru.Cache[string, entry]
	now   func() time.Time
}

var _ catalog.SearchCache = (*SearchCache)(nil)

// NewSearchCache 创建缓存,size为最多缓存的查询数
func NewSearchCache(size int) (*SearchCache, error) {
	return NewSearchCacheWithClock(size, time.Now)
}

// NewSearchCacheWithClock 注入时钟(测试过期用)
func NewSearchCacheWithClock(size int, now func() time.Time) (*SearchCache, error) {
	c, err := lru.New[string, entry](size)
	if err != nil {
		return nil, fmt.Errorf("创建搜索缓存失败: %w", err)
	}
	return &SearchCache{cache: c, now: now}, nil
}

// Get 命中且未过期时返回结果
func (c *SearchCache) Get(_ context.Context, key string) ([]*catalog.Book, bool, error) {
	e, ok := c.cache.Get(key)
	if !ok {
		return nil, false, nil
	}
	if !c.now().Before(e.expiresAt) {
		c.cache.Remove(key)
		return nil, false, nil
	}
	return cloneBooks(e.books), true, nil
}

// Put 写入结果,ttl<=0时不缓存
func (c *SearchCache) Put(_ context.Context, key string, books []*catalog.Book, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	c.cache.Add(key, entry{
		books:     cloneBooks(books),
		expiresAt: c.now().Add(ttl),
	})
	return nil
}

// Len 当前条目数(包含尚未被访问到的过期条目)
func (c *SearchCache) Len() int {
	return c.cache.Len()
}

func cloneBooks(books []*catalog.Book) []*catalog.Book {
	out := make([]*catalog.Book, 0, len(books))
	for _, b := range books {
		cp := *b
		cp.Authors = append([]string(nil), b.Authors...)
		cp.Categories = append([]string(nil), b.Categories...)
		out = append(out, &cp)
	}
	return out
}
