package order

import (
	"fmt"

	"github.com/xiebiao/bookshop/internal/domain/order"
)

// OrderDTO 订单详情
type OrderDTO struct {
	ID              uint               `json:"id"`
	OrderNo         string             `json:"order_no"`
	UserID          uint               `json:"user_id"`
	Items           []OrderItemDTO     `json:"items"`
	ShippingAddress ShippingAddressDTO `json:"shipping_address"`
	PaymentMethod   string             `json:"payment_method"`
	ItemsTotal      int64              `json:"items_total"` // 分
	Shipping        int64              `json:"shipping"`
	Tax             int64              `json:"tax"`
	GrandTotal      int64              `json:"grand_total"`
	GrandTotalYuan  string             `json:"grand_total_yuan"`
	Status          string             `json:"status"`
	IsPaid          bool               `json:"is_paid"`
	IsDelivered     bool               `json:"is_delivered"`
	CreatedAt       string             `json:"created_at"`
}

// OrderItemDTO 订单明细(价格为下单时的快照)
type OrderItemDTO struct {
	ID            uint   `json:"id"`
	BookID        uint   `json:"book_id"`
	Title         string `json:"title"`
	Quantity      int    `json:"quantity"`
	UnitPrice     int64  `json:"unit_price"`
	UnitPriceYuan string `json:"unit_price_yuan"`
	Subtotal      int64  `json:"subtotal"`
}

// ShippingAddressDTO 收货地址
type ShippingAddressDTO struct {
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

func toOrderDTO(o *order.Order) *OrderDTO {
	items := make([]OrderItemDTO, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItemDTO{
			ID:            item.ID,
			BookID:        item.BookID,
			Title:         item.Title,
			Quantity:      item.Quantity,
			UnitPrice:     item.UnitPrice,
			UnitPriceYuan: formatPrice(item.UnitPrice),
			Subtotal:      item.Subtotal(),
		}
	}

	return &OrderDTO{
		ID:      o.ID,
		OrderNo: o.OrderNo,
		UserID:  o.UserID,
		Items:   items,
		ShippingAddress: ShippingAddressDTO{
			Address:    o.ShippingAddress.Address,
			City:       o.ShippingAddress.City,
			PostalCode: o.ShippingAddress.PostalCode,
			Country:    o.ShippingAddress.Country,
		},
		PaymentMethod:  string(o.PaymentMethod),
		ItemsTotal:     o.ItemsTotal,
		Shipping:       o.Shipping,
		Tax:            o.Tax,
		GrandTotal:     o.GrandTotal,
		GrandTotalYuan: formatPrice(o.GrandTotal),
		Status:         o.Status.String(),
		IsPaid:         o.IsPaid,
		IsDelivered:    o.IsDelivered,
		CreatedAt:      o.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// formatPrice 格式化价格(分→元)
func formatPrice(priceFen int64) string {
	return fmt.Sprintf("%d.%02d", priceFen/100, priceFen%100)
}
