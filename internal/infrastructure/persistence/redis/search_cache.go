package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xiebiao/bookshop/internal/domain/catalog"
)

const searchKeyPrefix = "catalog:search:"

// SearchCache 多实例共享的搜索缓存
// 过期由Redis的EX负责，Key直接使用规范化后的查询串（区分大小写）
type SearchCache struct {
	client redis.Cmdable
}

var _ catalog.SearchCache = (*SearchCache)(nil)

// NewSearchCache 创建Redis搜索缓存
func NewSearchCache(client redis.Cmdable) *SearchCache {
	return &SearchCache{client: client}
}

// cachedBook 缓存中的图书（领域实体不带json tag）
type cachedBook struct {
	ID            uint      `json:"id"`
	ExternalID    string    `json:"external_id"`
	Title         string    `json:"title"`
	Authors       []string  `json:"authors"`
	Description   string    `json:"description"`
	Thumbnail     string    `json:"thumbnail"`
	Price         int64     `json:"price"`
	Stock         int       `json:"stock"`
	Categories    []string  `json:"categories"`
	PageCount     int       `json:"page_count"`
	PublishedDate string    `json:"published_date"`
	Publisher     string    `json:"publisher"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Get 未命中返回(nil, false, nil)
func (c *SearchCache) Get(ctx context.Context, key string) ([]*catalog.Book, bool, error) {
	val, err := c.client.Get(ctx, searchKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("获取搜索缓存失败: %w", err)
	}

	var cached []cachedBook
	if err := json.Unmarshal(val, &cached); err != nil {
		return nil, false, fmt.Errorf("反序列化搜索缓存失败: %w", err)
	}

	books := make([]*catalog.Book, 0, len(cached))
	for _, b := range cached {
		books = append(books, b.toEntity())
	}
	return books, true, nil
}

// Put 写入结果，ttl<=0时不缓存
func (c *SearchCache) Put(ctx context.Context, key string, books []*catalog.Book, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	cached := make([]cachedBook, 0, len(books))
	for _, b := range books {
		cached = append(cached, fromEntity(b))
	}
	val, err := json.Marshal(cached)
	if err != nil {
		return fmt.Errorf("序列化搜索缓存失败: %w", err)
	}

	if err := c.client.Set(ctx, searchKey(key), val, ttl).Err(); err != nil {
		return fmt.Errorf("设置搜索缓存失败: %w", err)
	}
	return nil
}

func searchKey(key string) string {
	return searchKeyPrefix + key
}

func fromEntity(b *catalog.Book) cachedBook {
	return cachedBook{
		ID:            b.ID,
		ExternalID:    b.ExternalID,
		Title:         b.Title,
		Authors:       b.Authors,
		Description:   b.Description,
		Thumbnail:     b.Thumbnail,
		Price:         b.Price,
		Stock:         b.Stock,
		Categories:    b.Categories,
		PageCount:     b.PageCount,
		PublishedDate: b.PublishedDate,
		Publisher:     b.Publisher,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

func (b cachedBook) toEntity() *catalog.Book {
	return &catalog.Book{
		ID:            b.ID,
		ExternalID:    b.ExternalID,
		Title:         b.Title,
		Authors:       b.Authors,
		Description:   b.Description,
		Thumbnail:     b.Thumbnail,
		Price:         b.Price,
		Stock:         b.Stock,
		Categories:    b.Categories,
		PageCount:     b.PageCount,
		PublishedDate: b.PublishedDate,
		Publisher:     b.Publisher,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}
