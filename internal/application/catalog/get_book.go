package catalog

import (
	"context"

	"github.com/xiebiao/bookshop/internal/domain/catalog"
)

// GetBookUseCase 图书详情
type GetBookUseCase struct {
	repo catalog.Repository
}

// NewGetBookUseCase 创建图书详情用例
func NewGetBookUseCase(repo catalog.Repository) *GetBookUseCase {
	return &GetBookUseCase{repo: repo}
}

// Execute 不存在返回ErrBookNotFound
func (uc *GetBookUseCase) Execute(ctx context.Context, id uint) (*BookDTO, error) {
	b, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := toBookDTO(b)
	return &dto, nil
}
