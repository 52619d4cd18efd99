package cart

import (
	"context"
)

// Repository 购物车仓储接口
// 同一用户的修改通过LockByUserID在事务内串行化,不会丢失累加
type Repository interface {
	// FindByUserID 查询用户购物车(含明细),不存在时创建空购物车
	FindByUserID(ctx context.Context, userID uint) (*Cart, error)

	// LockByUserID 同FindByUserID,并锁定购物车行直到事务结束
	LockByUserID(ctx context.Context, userID uint) (*Cart, error)

	// AddItem 加入图书,已存在则数量累加,返回最新的行
	AddItem(ctx context.Context, cartID, bookID uint, quantity int) (*Item, error)

	// UpdateItemQuantity 设置行数量,行不属于该购物车时返回ErrItemNotFound
	UpdateItemQuantity(ctx context.Context, cartID, itemID uint, quantity int) (*Item, error)

	// RemoveItem 删除行,行不属于该购物车时返回ErrItemNotFound
	RemoveItem(ctx context.Context, cartID, itemID uint) error

	// Clear 清空购物车
	Clear(ctx context.Context, cartID uint) error
}
