package catalog

import (
	"context"

	"github.com/xiebiao/bookshop/internal/domain/catalog"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// ListBooksUseCase 图书列表查询用例
// 返回当前页与全量筛选项(分类、作者、价格区间),供前端渲染筛选栏
type ListBooksUseCase struct {
	repo catalog.Repository
}

// NewListBooksUseCase 创建列表查询用例
func NewListBooksUseCase(repo catalog.Repository) *ListBooksUseCase {
	return &ListBooksUseCase{repo: repo}
}

// ListBooksRequest 列表查询请求
type ListBooksRequest struct {
	MinPrice *int64 // 分
	MaxPrice *int64 // 分
	Category string
	Author   string
	Search   string
	InStock  bool
	Sort     string // newest | oldest | price-asc | price-desc | title-asc | title-desc
	Page     int
	Limit    int
}

// PriceRange 价格区间(分)
type PriceRange struct {
	Min int64 `json:"min"`
	Max int64 `json:"max"`
}

// FiltersDTO 筛选项
type FiltersDTO struct {
	Categories []string   `json:"categories"`
	Authors    []string   `json:"authors"`
	PriceRange PriceRange `json:"price_range"`
}

// ListBooksResponse 列表查询响应
type ListBooksResponse struct {
	Books   []BookDTO  `json:"books"`
	Total   int64      `json:"total"`
	Page    int        `json:"page"`
	Limit   int        `json:"limit"`
	Pages   int        `json:"pages"`
	Filters FiltersDTO `json:"filters"`
}

// Execute 执行列表查询
func (uc *ListBooksUseCase) Execute(ctx context.Context, req ListBooksRequest) (*ListBooksResponse, error) {
	// 1. 参数校验
	sort, err := catalog.ParseSortKey(req.Sort)
	if err != nil {
		return nil, err
	}
	if req.MinPrice != nil && req.MaxPrice != nil && *req.MinPrice > *req.MaxPrice {
		return nil, apperrors.New(apperrors.ErrCodeInvalidParams, "最低价格不能大于最高价格")
	}

	filter := catalog.ListFilter{
		MinPrice: req.MinPrice,
		MaxPrice: req.MaxPrice,
		Category: req.Category,
		Author:   req.Author,
		Search:   req.Search,
		InStock:  req.InStock,
		Sort:     sort,
		Page:     req.Page,
		Limit:    req.Limit,
	}.Normalize()

	// 2. 查询当前页
	books, total, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	// 3. 全量筛选项
	facets, err := uc.repo.Facets(ctx)
	if err != nil {
		return nil, err
	}

	pages := int(total) / filter.Limit
	if int(total)%filter.Limit != 0 {
		pages++
	}

	return &ListBooksResponse{
		Books: toBookDTOs(books),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
		Pages: pages,
		Filters: FiltersDTO{
			Categories: nonNil(facets.Categories),
			Authors:    nonNil(facets.Authors),
			PriceRange: PriceRange{Min: facets.MinPrice, Max: facets.MaxPrice},
		},
	}, nil
}
