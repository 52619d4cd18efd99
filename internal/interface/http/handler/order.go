package handler

import (
	"github.com/gin-gonic/gin"

	apporder "github.com/xiebiao/bookshop/internal/application/order"
	"github.com/xiebiao/bookshop/internal/domain/order"
	"github.com/xiebiao/bookshop/internal/interface/http/dto"
	"github.com/xiebiao/bookshop/internal/interface/http/middleware"
	"github.com/xiebiao/bookshop/pkg/response"
)

// OrderHandler 订单HTTP处理器
type OrderHandler struct {
	commitUseCase *apporder.CommitOrderUseCase
	getUseCase    *apporder.GetOrderUseCase
	listUseCase   *apporder.ListOrdersUseCase
}

// NewOrderHandler 创建订单处理器
func NewOrderHandler(
	commitUseCase *apporder.CommitOrderUseCase,
	getUseCase *apporder.GetOrderUseCase,
	listUseCase *apporder.ListOrdersUseCase,
) *OrderHandler {
	return &OrderHandler{
		commitUseCase: commitUseCase,
		getUseCase:    getUseCase,
		listUseCase:   listUseCase,
	}
}

// Commit 购物车下单
// @Summary      购物车下单
// @Description  在同一事务内锁定库存、创建订单、扣减库存并清空购物车
// @Tags         订单
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CommitOrderRequest true "收货地址与支付方式"
// @Success      201 {object} response.Response{data=apporder.OrderDTO}
// @Failure      400 {object} response.Response "购物车为空/库存不足/参数错误"
// @Failure      401 {object} response.Response "未登录"
// @Failure      500 {object} response.Response "下单失败,未产生任何写入"
// @Router       /api/v1/orders [post]
func (h *OrderHandler) Commit(c *gin.Context) {
	var req dto.CommitOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	result, err := h.commitUseCase.Execute(c.Request.Context(), apporder.CommitOrderRequest{
		UserID: middleware.MustGetUserID(c),
		ShippingAddress: order.ShippingAddress{
			Address:    req.ShippingAddress.Address,
			City:       req.ShippingAddress.City,
			PostalCode: req.ShippingAddress.PostalCode,
			Country:    req.ShippingAddress.Country,
		},
		PaymentMethod: order.PaymentMethod(req.PaymentMethod),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Get 订单详情
// @Summary      订单详情
// @Description  只能查看自己的订单
// @Tags         订单
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "订单ID"
// @Success      200 {object} response.Response{data=apporder.OrderDTO}
// @Failure      403 {object} response.Response "无权查看"
// @Failure      404 {object} response.Response "订单不存在"
// @Router       /api/v1/orders/{id} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.getUseCase.Execute(c.Request.Context(), middleware.MustGetUserID(c), orderID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// List 我的订单
// @Summary      我的订单
// @Tags         订单
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "页码" default(1)
// @Param        page_size query int false "每页数量" default(10)
// @Success      200 {object} response.Response{data=response.PageData{list=[]apporder.OrderDTO}}
// @Router       /api/v1/orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	var q dto.ListOrdersQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BindError(c, err)
		return
	}

	result, err := h.listUseCase.Execute(c.Request.Context(), apporder.ListOrdersRequest{
		UserID:   middleware.MustGetUserID(c),
		Page:     q.Page,
		PageSize: q.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPage(c, result.Orders, result.Total, result.Page, result.PageSize)
}
