package catalog

import (
	"context"
	"errors"
)

// Defaults 首次入库时分配的价格与库存(数据源不提供这两项)
type Defaults struct {
	Price int64 // 分
	Stock int
}

// Service 图书入库领域服务
// 业务规则:
// 1. 每个ExternalID只对应一本图书
// 2. 重复入库只覆盖描述性字段,价格与库存保持不变
// 3. 批量入库容忍部分失败:失败记录被排除,不影响其他记录
type Service interface {
	// Upsert 数据源记录入库(首次入库使用Defaults)
	Upsert(ctx context.Context, r Record) (*Book, error)

	// UpsertWithInventory 管理员录入,价格与库存以参数为准
	UpsertWithInventory(ctx context.Context, r Record, price int64, stock int) (*Book, error)

	// Ingest 批量入库,返回成功的图书(保持数据源顺序)与失败明细
	Ingest(ctx context.Context, records []Record) *IngestResult
}

// IngestFailure 单条记录入库失败
type IngestFailure struct {
	Index      int
	ExternalID string
	Err        error
}

// IngestResult 批量入库结果
type IngestResult struct {
	Books    []*Book
	Failures []IngestFailure
}

// StoreFailure 返回第一个非记录本身问题导致的失败(存储故障等)，没有时返回nil
func (r *IngestResult) StoreFailure() error {
	for _, f := range r.Failures {
		if !errors.Is(f.Err, ErrInvalidRecord) {
			return f.Err
		}
	}
	return nil
}

type service struct {
	repo     Repository
	defaults Defaults
}

// NewService 创建图书入库服务
func NewService(repo Repository, defaults Defaults) Service {
	return &service{repo: repo, defaults: defaults}
}

func (s *service) Upsert(ctx context.Context, r Record) (*Book, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	book := NewBook(r.Normalize(), s.defaults.Price, s.defaults.Stock)
	return s.repo.Upsert(ctx, book, UpsertDescriptive)
}

func (s *service) UpsertWithInventory(ctx context.Context, r Record, price int64, stock int) (*Book, error) {
	// 1. 记录校验
	if err := r.Validate(); err != nil {
		return nil, err
	}

	// 2. 价格、库存校验
	if price <= 0 {
		return nil, ErrInvalidPrice
	}
	if stock < 0 {
		return nil, ErrInvalidStock
	}

	// 3. 插入或整体覆盖
	book := NewBook(r.Normalize(), price, stock)
	return s.repo.Upsert(ctx, book, UpsertAuthoritative)
}

func (s *service) Ingest(ctx context.Context, records []Record) *IngestResult {
	result := &IngestResult{Books: make([]*Book, 0, len(records))}
	seen := make(map[string]bool, len(records))

	for i, r := range records {
		id := r.Normalize().ExternalID
		if id != "" && seen[id] {
			continue
		}

		book, err := s.Upsert(ctx, r)
		if err != nil {
			result.Failures = append(result.Failures, IngestFailure{Index: i, ExternalID: id, Err: err})
			continue
		}
		seen[id] = true
		result.Books = append(result.Books, book)
	}
	return result
}
