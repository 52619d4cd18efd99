package order

import (
	"context"

	"github.com/xiebiao/bookshop/internal/domain/order"
)

// GetOrderUseCase 订单详情
type GetOrderUseCase struct {
	orderRepo order.Repository
}

// NewGetOrderUseCase 创建订单详情用例
func NewGetOrderUseCase(orderRepo order.Repository) *GetOrderUseCase {
	return &GetOrderUseCase{orderRepo: orderRepo}
}

// Execute 只有下单用户可以查看,其他用户返回ErrForbidden
func (uc *GetOrderUseCase) Execute(ctx context.Context, userID, orderID uint) (*OrderDTO, error) {
	o, err := uc.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !o.IsOwnedBy(userID) {
		return nil, order.ErrForbidden
	}
	return toOrderDTO(o), nil
}

// ListOrdersUseCase 我的订单
type ListOrdersUseCase struct {
	orderRepo order.Repository
}

// NewListOrdersUseCase 创建订单列表用例
func NewListOrdersUseCase(orderRepo order.Repository) *ListOrdersUseCase {
	return &ListOrdersUseCase{orderRepo: orderRepo}
}

// ListOrdersRequest 订单列表请求
type ListOrdersRequest struct {
	UserID   uint
	Page     int
	PageSize int
}

// ListOrdersResponse 订单列表响应
type ListOrdersResponse struct {
	Orders   []*OrderDTO `json:"orders"`
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
}

// Execute 按创建时间倒序分页
func (uc *ListOrdersUseCase) Execute(ctx context.Context, req ListOrdersRequest) (*ListOrdersResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 {
		req.PageSize = 10
	}
	if req.PageSize > 100 {
		req.PageSize = 100
	}

	orders, total, err := uc.orderRepo.ListByUserID(ctx, req.UserID, req.Page, req.PageSize)
	if err != nil {
		return nil, err
	}

	list := make([]*OrderDTO, len(orders))
	for i, o := range orders {
		list[i] = toOrderDTO(o)
	}
	return &ListOrdersResponse{
		Orders:   list,
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
	}, nil
}
