package order

import (
	"context"
)

// Repository 订单仓储接口
// 查询方法只返回已提交的订单
type Repository interface {
	// Create 创建订单及明细(同一事务),回填ID
	Create(ctx context.Context, order *Order) error

	// UpdateStatus 条件更新状态(status = from),状态不匹配返回ErrInvalidStatusTransition
	UpdateStatus(ctx context.Context, id uint, from, to OrderStatus) error

	// FindByID 根据ID查找已提交订单(包含明细)
	FindByID(ctx context.Context, id uint) (*Order, error)

	// ListByUserID 用户的已提交订单,按创建时间倒序分页
	ListByUserID(ctx context.Context, userID uint, page, pageSize int) ([]*Order, int64, error)
}
