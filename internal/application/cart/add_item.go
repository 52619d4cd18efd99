package cart

import (
	"context"

	"github.com/xiebiao/bookshop/internal/domain/cart"
	"github.com/xiebiao/bookshop/internal/domain/catalog"
	"github.com/xiebiao/bookshop/internal/domain/transaction"
)

// AddItemUseCase 加入购物车
type AddItemUseCase struct {
	cartRepo  cart.Repository
	bookRepo  catalog.Repository
	txManager transaction.Manager
	view      viewBuilder
}

// NewAddItemUseCase 创建加购用例
func NewAddItemUseCase(cartRepo cart.Repository, bookRepo catalog.Repository, txManager transaction.Manager) *AddItemUseCase {
	return &AddItemUseCase{
		cartRepo:  cartRepo,
		bookRepo:  bookRepo,
		txManager: txManager,
		view:      viewBuilder{bookRepo: bookRepo},
	}
}

// AddItemRequest 加购请求
type AddItemRequest struct {
	UserID   uint
	BookID   uint
	Quantity int
}

// Execute 执行加购
// 1. 数量必须在[1, cart.MaxQuantity]之间
// 2. 锁定用户购物车,同一用户的并发加购串行执行,累加不会丢失
// 3. 图书必须存在(购物车不保存悬空引用)
// 4. 同一本书已在购物车中时累加数量,累加结果同样受上限约束
//
// 加购不检查库存,库存在下单时按锁定后的数量校验
func (uc *AddItemUseCase) Execute(ctx context.Context, req AddItemRequest) (*CartDTO, error) {
	if err := cart.ValidateQuantity(req.Quantity); err != nil {
		return nil, err
	}

	var updated *cart.Cart
	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		c, err := uc.cartRepo.LockByUserID(txCtx, req.UserID)
		if err != nil {
			return err
		}

		if _, err := uc.bookRepo.FindByID(txCtx, req.BookID); err != nil {
			return err
		}

		if item, found := c.FindByBook(req.BookID); found {
			if err := cart.ValidateIncrement(item.Quantity, req.Quantity); err != nil {
				return err
			}
		}

		if _, err := uc.cartRepo.AddItem(txCtx, c.ID, req.BookID, req.Quantity); err != nil {
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
