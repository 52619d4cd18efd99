package catalog

import (
	"context"
)

// UpsertMode 按ExternalID冲突时的覆盖范围
type UpsertMode int

const (
	// UpsertDescriptive 只覆盖描述性字段,保留本地价格与库存(数据源入库)
	UpsertDescriptive UpsertMode = iota
	// UpsertAuthoritative 同时覆盖价格与库存(管理员录入)
	UpsertAuthoritative
)

// Repository 图书仓储接口(依赖倒置原则)
// 由domain层定义接口,infrastructure层实现(mysql / memory)
type Repository interface {
	// FindByID 根据ID查找图书,不存在返回ErrBookNotFound
	FindByID(ctx context.Context, id uint) (*Book, error)

	// FindByIDs 批量查询,不存在的ID不出现在结果中
	FindByIDs(ctx context.Context, ids []uint) (map[uint]*Book, error)

	// FindByExternalID 根据数据源ID查找图书
	FindByExternalID(ctx context.Context, externalID string) (*Book, error)

	// Upsert 按ExternalID插入或更新,返回存储后的图书(带ID)
	// 同一ExternalID并发写入时由唯一索引保证只有一行
	Upsert(ctx context.Context, book *Book, mode UpsertMode) (*Book, error)

	// List 按条件分页查询
	List(ctx context.Context, filter ListFilter) ([]*Book, int64, error)

	// Facets 全部图书的分类、作者与价格区间
	Facets(ctx context.Context) (*Facets, error)

	// LockByID 悲观锁查询图书(SELECT FOR UPDATE),需在事务中调用
	LockByID(ctx context.Context, id uint) (*Book, error)

	// UpdateStock 原子更新库存
	// delta为负数表示扣减,扣减后库存为负时返回ErrInsufficientStock
	UpdateStock(ctx context.Context, id uint, delta int) error
}

// Facets 列表页筛选项
type Facets struct {
	Categories []string
	Authors    []string
	MinPrice   int64
	MaxPrice   int64
}

// 空目录时的价格区间
const (
	FallbackMinPrice int64 = 0
	FallbackMaxPrice int64 = 10000
)

// ListFilter 列表查询参数
type ListFilter struct {
	MinPrice *int64 // 最低价格(分)
	MaxPrice *int64 // 最高价格(分)
	Category string // 分类(精确匹配)
	Author   string // 作者(精确匹配)
	Search   string // 标题/作者/描述子串,不区分大小写
	InStock  bool   // 只看有货
	Sort     SortKey
	Page     int
	Limit    int
}

// 分页默认值
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Normalize 补齐分页与排序默认值
func (f ListFilter) Normalize() ListFilter {
	if f.Page < 1 {
		f.Page = DefaultPage
	}
	if f.Limit < 1 {
		f.Limit = DefaultLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
	if f.Sort == "" {
		f.Sort = SortNewest
	}
	return f
}

// Offset 分页偏移量
func (f ListFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

// SortKey 列表排序方式
type SortKey string

const (
	SortNewest    SortKey = "newest"
	SortOldest    SortKey = "oldest"
	SortPriceAsc  SortKey = "price-asc"
	SortPriceDesc SortKey = "price-desc"
	SortTitleAsc  SortKey = "title-asc"
	SortTitleDesc SortKey = "title-desc"
)

// SortKeys 全部合法的排序方式
var SortKeys = []SortKey{SortNewest, SortOldest, SortPriceAsc, SortPriceDesc, SortTitleAsc, SortTitleDesc}

// Valid 是否为合法的排序方式
func (k SortKey) Valid() bool {
	for _, s := range SortKeys {
		if k == s {
			return true
		}
	}
	return false
}

// ParseSortKey 空字符串返回默认排序newest
func ParseSortKey(s string) (SortKey, error) {
	if s == "" {
		return SortNewest, nil
	}
	k := SortKey(s)
	if !k.Valid() {
		return "", ErrInvalidSortKey
	}
	return k, nil
}
