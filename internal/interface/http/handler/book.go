package handler

import (
	"github.com/gin-gonic/gin"

	appcatalog "github.com/xiebiao/bookshop/internal/application/catalog"
	"github.com/xiebiao/bookshop/internal/interface/http/dto"
	"github.com/xiebiao/bookshop/pkg/response"
)

// BookHandler 图书HTTP处理器
type BookHandler struct {
	searchUseCase *appcatalog.SearchBooksUseCase
	listUseCase   *appcatalog.ListBooksUseCase
	getUseCase    *appcatalog.GetBookUseCase
	upsertUseCase *appcatalog.UpsertBookUseCase
}

// NewBookHandler 创建图书处理器
func NewBookHandler(
	searchUseCase *appcatalog.SearchBooksUseCase,
	listUseCase *appcatalog.ListBooksUseCase,
	getUseCase *appcatalog.GetBookUseCase,
	upsertUseCase *appcatalog.UpsertBookUseCase,
) *BookHandler {
	return &BookHandler{
		searchUseCase: searchUseCase,
		listUseCase:   listUseCase,
		getUseCase:    getUseCase,
		upsertUseCase: upsertUseCase,
	}
}

// Search 搜索图书
// @Summary      搜索图书
// @Description  先查搜索缓存,未命中时请求外部图书数据源并入库
// @Tags         图书
// @Produce      json
// @Param        q query string true "搜索关键词"
// @Success      200 {object} response.Response{data=appcatalog.SearchBooksResponse}
// @Failure      400 {object} response.Response "参数错误"
// @Failure      429 {object} response.Response "请求过于频繁"
// @Failure      502 {object} response.Response "图书数据源请求失败"
// @Router       /api/v1/books/search [get]
func (h *BookHandler) Search(c *gin.Context) {
	var q dto.SearchBooksQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BindError(c, err)
		return
	}

	result, err := h.searchUseCase.Execute(c.Request.Context(), appcatalog.SearchBooksRequest{Query: q.Query})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// List 图书列表
// @Summary      图书列表
// @Description  按价格区间、分类、作者、关键词筛选,支持排序与分页,并返回筛选项
// @Tags         图书
// @Produce      json
// @Param        min_price query int false "最低价格(分)"
// @Param        max_price query int false "最高价格(分)"
// @Param        category query string false "分类"
// @Param        author query string false "作者"
// @Param        search query string false "标题/作者/简介关键词"
// @Param        in_stock query bool false "只看有货"
// @Param        sort query string false "排序" Enums(newest, oldest, price-asc, price-desc, title-asc, title-desc)
// @Param        page query int false "页码" default(1)
// @Param        limit query int false "每页数量" default(12)
// @Success      200 {object} response.Response{data=appcatalog.ListBooksResponse}
// @Failure      400 {object} response.Response "参数错误"
// @Router       /api/v1/books [get]
func (h *BookHandler) List(c *gin.Context) {
	var q dto.ListBooksQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BindError(c, err)
		return
	}

	result, err := h.listUseCase.Execute(c.Request.Context(), appcatalog.ListBooksRequest{
		MinPrice: q.MinPrice,
		MaxPrice: q.MaxPrice,
		Category: q.Category,
		Author:   q.Author,
		Search:   q.Search,
		InStock:  q.InStock,
		Sort:     q.Sort,
		Page:     q.Page,
		Limit:    q.Limit,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Get 图书详情
// @Summary      图书详情
// @Tags         图书
// @Produce      json
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response{data=appcatalog.BookDTO}
// @Failure      400 {object} response.Response "无效的ID"
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/books/{id} [get]
func (h *BookHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.getUseCase.Execute(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Upsert 录入图书(管理员)
// @Summary      录入图书
// @Description  按外部ID新增或更新,价格与库存以请求为准
// @Tags         图书
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.UpsertBookRequest true "图书信息"
// @Success      200 {object} response.Response{data=appcatalog.BookDTO}
// @Failure      400 {object} response.Response "参数错误"
// @Failure      401 {object} response.Response "未登录"
// @Failure      403 {object} response.Response "无权限"
// @Router       /api/v1/books [post]
func (h *BookHandler) Upsert(c *gin.Context) {
	var req dto.UpsertBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	result, err := h.upsertUseCase.Execute(c.Request.Context(), appcatalog.UpsertBookRequest{
		ExternalID:    req.ExternalID,
		Title:         req.Title,
		Authors:       req.Authors,
		Description:   req.Description,
		Thumbnail:     req.Thumbnail,
		Categories:    req.Categories,
		PageCount:     req.PageCount,
		PublishedDate: req.PublishedDate,
		Publisher:     req.Publisher,
		Price:         req.Price,
		Stock:         req.Stock,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
