package dto

// ShippingAddressRequest 收货地址
type ShippingAddressRequest struct {
	Address    string `json:"address" binding:"required,max=255" example:"1 Infinite Loop"`
	City       string `json:"city" binding:"required,max=100" example:"Cupertino"`
	PostalCode string `json:"postal_code" binding:"required,max=20" example:"95014"`
	Country    string `json:"country" binding:"required,max=100" example:"USA"`
}

// CommitOrderRequest 购物车下单
// 订单明细取自当前购物车,请求中只携带收货与支付信息
type CommitOrderRequest struct {
	ShippingAddress ShippingAddressRequest `json:"shipping_address" binding:"required"`
	PaymentMethod   string                 `json:"payment_method" binding:"required,payment_method" example:"PayPal"`
}

// ListOrdersQuery 订单列表参数
type ListOrdersQuery struct {
	Page     int `form:"page" binding:"omitempty,min=1" example:"1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100" example:"10"`
}
