package dto

// SearchBooksQuery 图书搜索参数
type SearchBooksQuery struct {
	Query string `form:"q" binding:"required,max=200" example:"golang"`
}

// ListBooksQuery 图书列表参数
// 价格单位为分;sort取值见sort_key校验器
type ListBooksQuery struct {
	MinPrice *int64 `form:"min_price" binding:"omitempty,min=0" example:"500"`
	MaxPrice *int64 `form:"max_price" binding:"omitempty,min=0" example:"5000"`
	Category string `form:"category" binding:"omitempty,max=100" example:"Computers"`
	Author   string `form:"author" binding:"omitempty,max=100" example:"Alan A. A. Donovan"`
	Search   string `form:"search" binding:"omitempty,max=100" example:"go"`
	InStock  bool   `form:"in_stock" example:"true"`
	Sort     string `form:"sort" binding:"omitempty,sort_key" example:"price-asc"`
	Page     int    `form:"page" binding:"omitempty,min=1" example:"1"`
	Limit    int    `form:"limit" binding:"omitempty,min=1,max=100" example:"12"`
}

// UpsertBookRequest 管理员录入图书
// 按external_id幂等,价格与库存以本次请求为准
type UpsertBookRequest struct {
	ExternalID    string   `json:"external_id" binding:"required,max=64" example:"zyTCAlFPjgYC"`
	Title         string   `json:"title" binding:"max=500" example:"The Go Programming Language"`
	Authors       []string `json:"authors" binding:"omitempty,dive,max=200" example:"Alan A. A. Donovan"`
	Description   string   `json:"description" binding:"max=10000"`
	Thumbnail     string   `json:"thumbnail" binding:"omitempty,url,max=500" example:"https://books.google.com/thumb.jpg"`
	Categories    []string `json:"categories" binding:"omitempty,dive,max=100" example:"Computers"`
	PageCount     int      `json:"page_count" binding:"min=0" example:"380"`
	PublishedDate string   `json:"published_date" binding:"max=32" example:"2015-11-16"`
	Publisher     string   `json:"publisher" binding:"max=200" example:"Addison-Wesley"`
	Price         int64    `json:"price" binding:"required,min=1,max=99999999" example:"4599"` // 分
	Stock         int      `json:"stock" binding:"min=0" example:"20"`
}
