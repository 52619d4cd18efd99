package dto

// AddCartItemRequest 加入购物车
// quantity的下限由购物车聚合校验(非正数返回40902)
type AddCartItemRequest struct {
	BookID   uint `json:"book_id" binding:"required" example:"1"`
	Quantity int  `json:"quantity" binding:"max=999" example:"2"`
}

// UpdateCartItemRequest 修改购物车明细数量
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"max=999" example:"3"`
}
