package cart

import (
	"context"

	"github.com/xiebiao/bookshop/internal/domain/cart"
	"github.com/xiebiao/bookshop/internal/domain/catalog"
)

// GetCartUseCase 查看购物车(首次访问时创建空购物车)
type GetCartUseCase struct {
	cartRepo cart.Repository
	view     viewBuilder
}

// NewGetCartUseCase 创建查看购物车用例
func NewGetCartUseCase(cartRepo cart.Repository, bookRepo catalog.Repository) *GetCartUseCase {
	return &GetCartUseCase{cartRepo: cartRepo, view: viewBuilder{bookRepo: bookRepo}}
}

// Execute 执行查询
func (uc *GetCartUseCase) Execute(ctx context.Context, userID uint) (*CartDTO, error) {
	c, err := uc.cartRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return uc.view.build(ctx, c)
}
