package cart

import (
	"context"
	"fmt"

	"github.com/xiebiao/bookshop/internal/domain/cart"
	"github.com/xiebiao/bookshop/internal/domain/catalog"
)

// CartDTO 购物车读模型
// 明细附带图书当前的标题、价格与库存,小计按当前价格实时计算
// (下单时才冻结价格)
type CartDTO struct {
	ID            uint          `json:"id"`
	UserID        uint          `json:"user_id"`
	Items         []CartItemDTO `json:"items"`
	TotalQuantity int           `json:"total_quantity"`
	Subtotal      int64         `json:"subtotal"` // 分
	SubtotalYuan  string        `json:"subtotal_yuan"`
}

// CartItemDTO 购物车明细
type CartItemDTO struct {
	ID        uint   `json:"id"`
	BookID    uint   `json:"book_id"`
	Title     string `json:"title"`
	Thumbnail string `json:"thumbnail"`
	Price     int64  `json:"price"`
	PriceYuan string `json:"price_yuan"`
	Stock     int    `json:"stock"`
	Quantity  int    `json:"quantity"`
	Subtotal  int64  `json:"subtotal"`
}

// viewBuilder 用一次批量查询填充明细中的图书信息
type viewBuilder struct {
	bookRepo catalog.Repository
}

func (v viewBuilder) build(ctx context.Context, c *cart.Cart) (*CartDTO, error) {
	books, err := v.bookRepo.FindByIDs(ctx, c.BookIDs())
	if err != nil {
		return nil, err
	}

	dto := &CartDTO{
		ID:     c.ID,
		UserID: c.UserID,
		Items:  make([]CartItemDTO, 0, len(c.Items)),
	}
	for _, item := range c.Items {
		line := CartItemDTO{
			ID:       item.ID,
			BookID:   item.BookID,
			Quantity: item.Quantity,
		}
		// 图书不会被物理删除,查不到时只展示数量
		if b, ok := books[item.BookID]; ok {
			line.Title = b.Title
			line.Thumbnail = b.Thumbnail
			line.Price = b.Price
			line.Stock = b.Stock
			line.Subtotal = b.Price * int64(item.Quantity)
		}
		line.PriceYuan = formatPrice(line.Price)

		dto.Items = append(dto.Items, line)
		dto.TotalQuantity += item.Quantity
		dto.Subtotal += line.Subtotal
	}
	dto.SubtotalYuan = formatPrice(dto.Subtotal)
	return dto, nil
}

// formatPrice 分 → 元
func formatPrice(fen int64) string {
	return fmt.Sprintf("%d.%02d", fen/100, fen%100)
}
