package cart

import (
	"context"

	"github.com/xiebiao/bookshop/internal/domain/cart"
	"github.com/xiebiao/bookshop/internal/domain/catalog"
	"github.com/xiebiao/bookshop/internal/domain/transaction"
)

// UpdateItemUseCase 修改购物车行数量
type UpdateItemUseCase struct {
	cartRepo  cart.Repository
	txManager transaction.Manager
	view      viewBuilder
}

// NewUpdateItemUseCase 创建修改数量用例
func NewUpdateItemUseCase(cartRepo cart.Repository, bookRepo catalog.Repository, txManager transaction.Manager) *UpdateItemUseCase {
	return &UpdateItemUseCase{
		cartRepo:  cartRepo,
		txManager: txManager,
		view:      viewBuilder{bookRepo: bookRepo},
	}
}

// UpdateItemRequest 修改数量请求
type UpdateItemRequest struct {
	UserID   uint
	ItemID   uint
	Quantity int
}

// Execute 设置数量(不是累加)
// 数量为0同样返回ErrInvalidQuantity,删除请使用RemoveItemUseCase
// 行ID只在调用者自己的购物车中查找,其他用户的行返回ErrItemNotFound
func (uc *UpdateItemUseCase) Execute(ctx context.Context, req UpdateItemRequest) (*CartDTO, error) {
	if err := cart.ValidateQuantity(req.Quantity); err != nil {
		return nil, err
	}

	var updated *cart.Cart
	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		c, err := uc.cartRepo.LockByUserID(txCtx, req.UserID)
		if err != nil {
			return err
		}
		if _, err := uc.cartRepo.UpdateItemQuantity(txCtx, c.ID, req.ItemID, req.Quantity); err != nil {
			return err
		}
		updated, err = uc.cartRepo.FindByUserID(txCtx, req.UserID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return uc.view.build(ctx, updated)
}
