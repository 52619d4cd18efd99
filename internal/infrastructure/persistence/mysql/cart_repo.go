package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/bookshop/internal/domain/cart"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// cartRepository 购物车仓储实现(MySQL)
// 同一用户的修改都先LockByUserID锁住carts行，再操作cart_items
type cartRepository struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓储
func NewCartRepository(db *gorm.DB) cart.Repository {
	return &cartRepository{db: db}
}

// FindByUserID 查询购物车，不存在则创建
func (r *cartRepository) FindByUserID(ctx context.Context, userID uint) (*cart.Cart, error) {
	return r.findOrCreate(ctx, userID, false)
}

// LockByUserID 查询并锁定购物车行(SELECT ... FOR UPDATE)，必须在事务中调用
func (r *cartRepository) LockByUserID(ctx context.Context, userID uint) (*cart.Cart, error) {
	return r.findOrCreate(ctx, userID, true)
}

// findOrCreate 两个请求同时为新用户建购物车时，后者命中唯一索引后重新查询
func (r *cartRepository) findOrCreate(ctx context.Context, userID uint, lock bool) (*cart.Cart, error) {
	model, err := r.find(ctx, userID, lock)
	if err == nil {
		return model.toEntity(), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.WrapDB(err, "查询购物车失败")
	}

	created := &CartModel{UserID: userID}
	if err := dbFromContext(ctx, r.db).Omit(clause.Associations).Create(created).Error; err != nil {
		if !isDuplicateError(err) {
			return nil, apperrors.WrapDB(err, "创建购物车失败")
		}
		model, err = r.find(ctx, userID, lock)
		if err != nil {
			return nil, apperrors.WrapDB(err, "查询购物车失败")
		}
		return model.toEntity(), nil
	}
	return created.toEntity(), nil
}

func (r *cartRepository) find(ctx context.Context, userID uint, lock bool) (*CartModel, error) {
	db := dbFromContext(ctx, r.db)
	if lock {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var model CartModel
	if err := db.Where("user_id = ?", userID).First(&model).Error; err != nil {
		return nil, err
	}
	// 明细按加入顺序
	err := dbFromContext(ctx, r.db).
		Where("cart_id = ?", model.ID).
		Order("id ASC").
		Find(&model.Items).Error
	if err != nil {
		return nil, err
	}
	return &model, nil
}

// AddItem 加入图书，(cart_id, book_id)已存在时数量累加
// INSERT ... ON DUPLICATE KEY UPDATE quantity = quantity + ?
// 累加后超过上限时返回ErrInvalidQuantity，调用方的事务负责回滚
func (r *cartRepository) AddItem(ctx context.Context, cartID, bookID uint, quantity int) (*cart.Item, error) {
	if err := cart.ValidateQuantity(quantity); err != nil {
		return nil, err
	}
	db := dbFromContext(ctx, r.db)

	model := &CartItemModel{CartID: cartID, BookID: bookID, Quantity: quantity}
	err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "cart_id"}, {Name: "book_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":   gorm.Expr("quantity + ?", quantity),
			"updated_at": gorm.Expr("VALUES(updated_at)"),
		}),
	}).Create(model).Error
	if err != nil {
		return nil, apperrors.WrapDB(err, "加入购物车失败")
	}

	var stored CartItemModel
	if err := db.Where("cart_id = ? AND book_id = ?", cartID, bookID).First(&stored).Error; err != nil {
		return nil, apperrors.WrapDB(err, "查询购物车明细失败")
	}
	if stored.Quantity > cart.MaxQuantity {
		return nil, cart.ErrInvalidQuantity
	}
	return stored.toEntity(), nil
}

// UpdateItemQuantity 设置行数量
func (r *cartRepository) UpdateItemQuantity(ctx context.Context, cartID, itemID uint, quantity int) (*cart.Item, error) {
	if err := cart.ValidateQuantity(quantity); err != nil {
		return nil, err
	}
	db := dbFromContext(ctx, r.db)

	var model CartItemModel
	if err := db.Where("id = ? AND cart_id = ?", itemID, cartID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, cart.ErrItemNotFound
		}
		return nil, apperrors.WrapDB(err, "查询购物车明细失败")
	}

	// 数量未变化时MySQL返回的影响行数为0，所以不能用RowsAffected判断是否存在
	if err := db.Model(&model).Update("quantity", quantity).Error; err != nil {
		return nil, apperrors.WrapDB(err, "更新购物车明细失败")
	}
	model.Quantity = quantity
	return model.toEntity(), nil
}

// RemoveItem 删除行
func (r *cartRepository) RemoveItem(ctx context.Context, cartID, itemID uint) error {
	result := dbFromContext(ctx, r.db).
		Where("id = ? AND cart_id = ?", itemID, cartID).
		Delete(&CartItemModel{})
	if result.Error != nil {
		return apperrors.WrapDB(result.Error, "删除购物车明细失败")
	}
	if result.RowsAffected == 0 {
		return cart.ErrItemNotFound
	}
	return nil
}

// Clear 清空购物车(保留carts行)
func (r *cartRepository) Clear(ctx context.Context, cartID uint) error {
	err := dbFromContext(ctx, r.db).
		Where("cart_id = ?", cartID).
		Delete(&CartItemModel{}).Error
	if err != nil {
		return apperrors.WrapDB(err, "清空购物车失败")
	}
	return nil
}
