package catalog

import (
	"context"

	"github.com/xiebiao/bookshop/internal/domain/catalog"
)

// UpsertBookUseCase 管理员录入图书
// 按ExternalID插入或覆盖,价格与库存以请求为准
type UpsertBookUseCase struct {
	service catalog.Service
}

// NewUpsertBookUseCase 创建录入用例
func NewUpsertBookUseCase(service catalog.Service) *UpsertBookUseCase {
	return &UpsertBookUseCase{service: service}
}

// UpsertBookRequest 录入请求
type UpsertBookRequest struct {
	ExternalID    string
	Title         string
	Authors       []string
	Description   string
	Thumbnail     string
	Categories    []string
	PageCount     int
	PublishedDate string
	Publisher     string
	Price         int64 // 分
	Stock         int
}

// Execute 执行录入
func (uc *UpsertBookUseCase) Execute(ctx context.Context, req UpsertBookRequest) (*BookDTO, error) {
	record := catalog.Record{
		ExternalID:    req.ExternalID,
		Title:         req.Title,
		Authors:       req.Authors,
		Description:   req.Description,
		Thumbnail:     req.Thumbnail,
		Categories:    req.Categories,
		PageCount:     req.PageCount,
		PublishedDate: req.PublishedDate,
		Publisher:     req.Publisher,
	}

	b, err := uc.service.UpsertWithInventory(ctx, record, req.Price, req.Stock)
	if err != nil {
		return nil, err
	}
	dto := toBookDTO(b)
	return &dto, nil
}
