package catalog

import (
	"context"
	"strings"
	"time"
)

// Provider 外部图书数据源
// 非成功响应返回NewProviderError构造的错误
type Provider interface {
	Search(ctx context.Context, query string) ([]Record, error)
}

// SearchCache 搜索结果缓存(按规范化后的查询串,区分大小写)
// 过期条目在下次Get时视为不存在
type SearchCache interface {
	Get(ctx context.Context, key string) ([]*Book, bool, error)
	Put(ctx context.Context, key string, books []*Book, ttl time.Duration) error
}

// NormalizeQuery 缓存键:去掉首尾空白,保留大小写
func NormalizeQuery(q string) string {
	return strings.TrimSpace(q)
}
