package order

import (
	"strings"
	"time"
)

// OrderStatus 订单状态
// 本服务只执行 created → committed 一次转换
// 支付、发货由外部履约系统通过IsPaid/IsDelivered标记
type OrderStatus int

const (
	OrderStatusCreated   OrderStatus = 1 // 已创建(事务内的中间状态,对外不可见)
	OrderStatusCommitted OrderStatus = 2 // 已提交
)

// String 实现Stringer接口(方便日志输出)
func (s OrderStatus) String() string {
	switch s {
	case OrderStatusCreated:
		return "created"
	case OrderStatusCommitted:
		return "committed"
	default:
		return "unknown"
	}
}

// PaymentMethod 支付方式(只记录,不处理支付)
type PaymentMethod string

const (
	PaymentPayPal         PaymentMethod = "PayPal"
	PaymentCreditCard     PaymentMethod = "CreditCard"
	PaymentCashOnDelivery PaymentMethod = "CashOnDelivery"
)

// PaymentMethods 全部支付方式
var PaymentMethods = []PaymentMethod{PaymentPayPal, PaymentCreditCard, PaymentCashOnDelivery}

// Valid 是否为支持的支付方式
func (m PaymentMethod) Valid() bool {
	for _, pm := range PaymentMethods {
		if m == pm {
			return true
		}
	}
	return false
}

// ShippingAddress 收货地址
type ShippingAddress struct {
	Address    string
	City       string
	PostalCode string
	Country    string
}

// Validate 四个字段都必须填写
func (a ShippingAddress) Validate() error {
	for _, v := range []string{a.Address, a.City, a.PostalCode, a.Country} {
		if strings.TrimSpace(v) == "" {
			return ErrInvalidShippingAddress
		}
	}
	return nil
}

// Order 订单实体(聚合根)
// 1. 提交后不可变:明细单价是下单时的快照,不随图书改价变化
// 2. 金额全部以"分"存储
type Order struct {
	ID              uint
	OrderNo         string // 订单号(业务主键,全局唯一)
	UserID          uint
	Items           []OrderItem
	ShippingAddress ShippingAddress
	PaymentMethod   PaymentMethod
	PriceBreakdown
	Status      OrderStatus
	IsPaid      bool
	IsDelivered bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// OrderItem 订单明细项
// UnitPrice与Title是提交时从图书复制的快照
type OrderItem struct {
	ID        uint
	OrderID   uint
	BookID    uint
	Title     string
	Quantity  int
	UnitPrice int64
}

// Subtotal 明细小计
func (i OrderItem) Subtotal() int64 {
	return i.UnitPrice * int64(i.Quantity)
}

// NewOrder 创建新订单(初始状态created)
func NewOrder(orderNo string, userID uint, items []OrderItem, addr ShippingAddress, pm PaymentMethod, price PriceBreakdown) *Order {
	now := time.Now()
	return &Order{
		OrderNo:         orderNo,
		UserID:          userID,
		Items:           items,
		ShippingAddress: addr,
		PaymentMethod:   pm,
		PriceBreakdown:  price,
		Status:          OrderStatusCreated,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// Commit created → committed
func (o *Order) Commit() error {
	if o.Status != OrderStatusCreated {
		return ErrInvalidStatusTransition
	}
	o.Status = OrderStatusCommitted
	o.UpdatedAt = time.Now()
	return nil
}

// IsCommitted 是否已提交
func (o *Order) IsCommitted() bool {
	return o.Status == OrderStatusCommitted
}

// IsOwnedBy 检查订单是否属于指定用户
func (o *Order) IsOwnedBy(userID uint) bool {
	return o.UserID == userID
}
