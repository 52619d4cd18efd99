package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/bookshop/internal/domain/order"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// orderRepository 订单仓储实现(MySQL)
// 1. Order和OrderItem是聚合关系，Create时一起保存
// 2. 查询使用Preload预加载明细，只返回已提交的订单
type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓储
func NewOrderRepository(db *gorm.DB) order.Repository {
	return &orderRepository{db: db}
}

// Create 创建订单及明细，必须在事务中调用
func (r *orderRepository) Create(ctx context.Context, o *order.Order) error {
	model := toOrderModel(o)
	if err := dbFromContext(ctx, r.db).Create(model).Error; err != nil {
		if duplicateKeyIs(err, "order_no") {
			return apperrors.New(apperrors.ErrCodeDuplicateEntry, "订单号重复").WithErr(err)
		}
		return apperrors.WrapDB(err, "创建订单失败")
	}

	o.ID = model.ID
	for i := range o.Items {
		o.Items[i].ID = model.Items[i].ID
		o.Items[i].OrderID = model.ID
	}
	o.CreatedAt = model.CreatedAt
	o.UpdatedAt = model.UpdatedAt
	return nil
}

// UpdateStatus 条件更新状态
// UPDATE orders SET status = ? WHERE id = ? AND status = ?
func (r *orderRepository) UpdateStatus(ctx context.Context, id uint, from, to order.OrderStatus) error {
	db := dbFromContext(ctx, r.db)
	result := db.Model(&OrderModel{}).
		Where("id = ? AND status = ?", id, int(from)).
		Update("status", int(to))
	if result.Error != nil {
		return apperrors.WrapDB(result.Error, "更新订单状态失败")
	}

	if result.RowsAffected == 0 {
		var model OrderModel
		if err := db.Select("id").First(&model, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return order.ErrOrderNotFound
			}
			return apperrors.WrapDB(err, "查询订单失败")
		}
		return order.ErrInvalidStatusTransition
	}
	return nil
}

// FindByID 根据ID查找已提交订单
func (r *orderRepository) FindByID(ctx context.Context, id uint) (*order.Order, error) {
	var model OrderModel
	err := dbFromContext(ctx, r.db).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Where("status = ?", int(order.OrderStatusCommitted)).
		First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.ErrOrderNotFound
		}
		return nil, apperrors.WrapDB(err, "查询订单失败")
	}
	return model.toEntity(), nil
}

// ListByUserID 用户的已提交订单，按创建时间倒序
func (r *orderRepository) ListByUserID(ctx context.Context, userID uint, page, pageSize int) ([]*order.Order, int64, error) {
	query := dbFromContext(ctx, r.db).Model(&OrderModel{}).
		Where("user_id = ? AND status = ?", userID, int(order.OrderStatusCommitted))

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.WrapDB(err, "查询订单总数失败")
	}

	var models []OrderModel
	err := query.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Order("created_at DESC, id DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&models).Error
	if err != nil {
		return nil, 0, apperrors.WrapDB(err, "查询订单列表失败")
	}

	orders := make([]*order.Order, len(models))
	for i := range models {
		orders[i] = models[i].toEntity()
	}
	return orders, total, nil
}
