package catalog

import (
	"time"
)

// Book 图书实体(聚合根)
// DDD设计说明:
// 1. ExternalID是数据源分配的稳定标识,每个ExternalID只对应一本图书
// 2. 价格使用int64存储"分"为单位(避免浮点数精度问题)
// 3. Price/Stock是本地权威数据,数据源重新入库时不会覆盖
type Book struct {
	ID            uint
	ExternalID    string   // 数据源ID(如Google Books volume id)
	Title         string   // 书名
	Authors       []string // 作者(有序)
	Description   string   // 图书描述
	Thumbnail     string   // 封面缩略图(https)
	Price         int64    // 价格(单位:分)
	Stock         int      // 库存数量
	Categories    []string // 分类
	PageCount     int      // 页数
	PublishedDate string   // 出版日期(数据源格式,如2008、2008-08-01)
	Publisher     string   // 出版社
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewBook 由数据源记录创建新图书
// price/stock由调用方决定(入库默认值或管理员指定值)
func NewBook(r Record, price int64, stock int) *Book {
	now := time.Now()
	b := &Book{
		ExternalID: r.ExternalID,
		Price:      price,
		Stock:      stock,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	b.ApplyRecord(r)
	return b
}

// ApplyRecord 用数据源记录覆盖描述性字段(last-write-wins)
// 不修改ExternalID、Price、Stock
func (b *Book) ApplyRecord(r Record) {
	b.Title = r.Title
	b.Authors = append([]string(nil), r.Authors...)
	b.Description = r.Description
	b.Thumbnail = r.Thumbnail
	b.Categories = append([]string(nil), r.Categories...)
	b.PageCount = r.PageCount
	b.PublishedDate = r.PublishedDate
	b.Publisher = r.Publisher
	b.UpdatedAt = time.Now()
}

// UpdatePrice 更新价格(领域行为)
// 业务规则:价格必须>0
func (b *Book) UpdatePrice(newPrice int64) error {
	if newPrice <= 0 {
		return ErrInvalidPrice
	}
	b.Price = newPrice
	b.UpdatedAt = time.Now()
	return nil
}

// UpdateStock 更新库存(领域行为)
// 业务规则:库存不能为负数
func (b *Book) UpdateStock(newStock int) error {
	if newStock < 0 {
		return ErrInvalidStock
	}
	b.Stock = newStock
	b.UpdatedAt = time.Now()
	return nil
}

// HasStock 库存是否满足购买数量
func (b *Book) HasStock(quantity int) bool {
	return b.Stock >= quantity
}
