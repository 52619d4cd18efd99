package handler

import (
	"github.com/gin-gonic/gin"

	appcart "github.com/xiebiao/bookshop/internal/application/cart"
	"github.com/xiebiao/bookshop/internal/interface/http/dto"
	"github.com/xiebiao/bookshop/internal/interface/http/middleware"
	"github.com/xiebiao/bookshop/pkg/response"
)

// CartHandler 购物车HTTP处理器
// 所有操作都只作用于当前登录用户的购物车
type CartHandler struct {
	getUseCase    *appcart.GetCartUseCase
	addUseCase    *appcart.AddItemUseCase
	updateUseCase *appcart.UpdateItemUseCase
	removeUseCase *appcart.RemoveItemUseCase
	clearUseCase  *appcart.ClearCartUseCase
}

// NewCartHandler 创建购物车处理器
func NewCartHandler(
	getUseCase *appcart.GetCartUseCase,
	addUseCase *appcart.AddItemUseCase,
	updateUseCase *appcart.UpdateItemUseCase,
	removeUseCase *appcart.RemoveItemUseCase,
	clearUseCase *appcart.ClearCartUseCase,
) *CartHandler {
	return &CartHandler{
		getUseCase:    getUseCase,
		addUseCase:    addUseCase,
		updateUseCase: updateUseCase,
		removeUseCase: removeUseCase,
		clearUseCase:  clearUseCase,
	}
}

// Get 查看购物车
// @Summary      查看购物车
// @Description  明细带当前标题、价格、库存与小计;购物车不存在时自动创建
// @Tags         购物车
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=appcart.CartDTO}
// @Failure      401 {object} response.Response "未登录"
// @Router       /api/v1/cart [get]
func (h *CartHandler) Get(c *gin.Context) {
	result, err := h.getUseCase.Execute(c.Request.Context(), middleware.MustGetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// AddItem 加入购物车
// @Summary      加入购物车
// @Description  同一本书重复加入时数量累加
// @Tags         购物车
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.AddCartItemRequest true "图书与数量"
// @Success      200 {object} response.Response{data=appcart.CartDTO}
// @Failure      400 {object} response.Response "参数错误/数量非法"
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/cart/items [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	var req dto.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	result, err := h.addUseCase.Execute(c.Request.Context(), appcart.AddItemRequest{
		UserID:   middleware.MustGetUserID(c),
		BookID:   req.BookID,
		Quantity: req.Quantity,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// UpdateItem 修改明细数量
// @Summary      修改明细数量
// @Description  数量必须为1到999之间的整数,删除明细请使用DELETE
// @Tags         购物车
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "明细ID"
// @Param        request body dto.UpdateCartItemRequest true "数量"
// @Success      200 {object} response.Response{data=appcart.CartDTO}
// @Failure      400 {object} response.Response "数量非法"
// @Failure      404 {object} response.Response "明细不存在"
// @Router       /api/v1/cart/items/{id} [put]
func (h *CartHandler) UpdateItem(c *gin.Context) {
	itemID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	result, err := h.updateUseCase.Execute(c.Request.Context(), appcart.UpdateItemRequest{
		UserID:   middleware.MustGetUserID(c),
		ItemID:   itemID,
		Quantity: req.Quantity,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// RemoveItem 删除明细
// @Summary      删除明细
// @Tags         购物车
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "明细ID"
// @Success      200 {object} response.Response{data=appcart.CartDTO}
// @Failure      404 {object} response.Response "明细不存在"
// @Router       /api/v1/cart/items/{id} [delete]
func (h *CartHandler) RemoveItem(c *gin.Context) {
	itemID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.removeUseCase.Execute(c.Request.Context(), middleware.MustGetUserID(c), itemID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Clear 清空购物车
// @Summary      清空购物车
// @Tags         购物车
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=appcart.CartDTO}
// @Router       /api/v1/cart [delete]
func (h *CartHandler) Clear(c *gin.Context) {
	result, err := h.clearUseCase.Execute(c.Request.Context(), middleware.MustGetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
