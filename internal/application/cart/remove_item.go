package cart

import (
	"context"

	"github.com/xiebiao/bookshop/internal/domain/cart"
	"github.com/xiebiao/bookshop/internal/domain/catalog"
	"github.com/xiebiao/bookshop/internal/domain/transaction"
)

// RemoveItemUseCase 删除购物车行
type RemoveItemUseCase struct {
	cartRepo  cart.Repository
	txManager transaction.Manager
	view      viewBuilder
}

// NewRemoveItemUseCase 创建删除用例
func NewRemoveItemUseCase(cartRepo cart.Repository, bookRepo catalog.Repository, txManager transaction.Manager) *RemoveItemUseCase {
	return &RemoveItemUseCase{
		cartRepo:  cartRepo,
		txManager: txManager,
		view:      viewBuilder{bookRepo: bookRepo},
	}
}

// Execute 删除指定行,行不属于调用者购物车时返回ErrItemNotFound
func (uc *RemoveItemUseCase) Execute(ctx context.Context, userID, itemID uint) (*CartDTO, error) {
	var updated *cart.Cart
	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		c, err := uc.cartRepo.LockByUserID(txCtx, userID)
		if err != nil {
			return err
		}
		if err := uc.cartRepo.RemoveItem(txCtx, c.ID, itemID); err != nil {
			return err
		}
		updated, err = uc.cartRepo.FindByUserID(txCtx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return uc.view.build(ctx, updated)
}

// ClearCartUseCase 清空购物车
type ClearCartUseCase struct {
	cartRepo  cart.Repository
	txManager transaction.Manager
	view      viewBuilder
}

// NewClearCartUseCase 创建清空用例
func NewClearCartUseCase(cartRepo cart.Repository, bookRepo catalog.Repository, txManager transaction.Manager) *ClearCartUseCase {
	return &ClearCartUseCase{
		cartRepo:  cartRepo,
		txManager: txManager,
		view:      viewBuilder{bookRepo: bookRepo},
	}
}

// Execute 清空(购物车本身保留)
func (uc *ClearCartUseCase) Execute(ctx context.Context, userID uint) (*CartDTO, error) {
	var cleared *cart.Cart
	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		c, err := uc.cartRepo.LockByUserID(txCtx, userID)
		if err != nil {
			return err
		}
		if err := uc.cartRepo.Clear(txCtx, c.ID); err != nil {
			return err
		}
		cleared, err = uc.cartRepo.FindByUserID(txCtx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return uc.view.build(ctx, cleared)
}
