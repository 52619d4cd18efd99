package mysql

import (
	"time"

	"github.com/xiebiao/bookshop/internal/domain/cart"
	"github.com/xiebiao/bookshop/internal/domain/catalog"
	"github.com/xiebiao/bookshop/internal/domain/order"
	"github.com/xiebiao/bookshop/internal/domain/user"
)

// 表结构以migrations/*.sql为准，这里的tag用于AutoMigrate与字段映射
// 领域实体不依赖GORM，Repository负责两者之间的转换

// UserModel GORM用户模型
type UserModel struct {
	ID        uint      `gorm:"primaryKey"`
	Username  string    `gorm:"uniqueIndex:uk_users_username;size:30;not null;comment:用户名"`
	Email     string    `gorm:"uniqueIndex:uk_users_email;size:100;not null;comment:邮箱"`
	Password  string    `gorm:"size:255;not null;comment:密码(bcrypt)"`
	Role      string    `gorm:"size:20;not null;default:user;comment:角色"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
	UpdatedAt time.Time `gorm:"comment:更新时间"`
}

func (UserModel) TableName() string {
	return "users"
}

// BookModel GORM图书模型
// 1. 价格以"分"存储
// 2. external_id唯一索引保证每个数据源ID只有一行
// 3. authors/categories以JSON数组存储
type BookModel struct {
	ID            uint      `gorm:"primaryKey"`
	ExternalID    string    `gorm:"uniqueIndex:uk_books_external_id;size:64;not null;comment:数据源ID"`
	Title         string    `gorm:"size:500;not null;comment:书名"`
	Authors       []string  `gorm:"serializer:json;type:json;not null;comment:作者"`
	Description   string    `gorm:"type:text;comment:描述"`
	Thumbnail     string    `gorm:"size:1000;not null;default:'';comment:缩略图"`
	Price         int64     `gorm:"index:idx_books_price;not null;comment:价格(分)"`
	Stock         int       `gorm:"not null;default:0;comment:库存"`
	Categories    []string  `gorm:"serializer:json;type:json;not null;comment:分类"`
	PageCount     int       `gorm:"not null;default:0;comment:页数"`
	PublishedDate string    `gorm:"size:32;not null;default:'';comment:出版日期"`
	Publisher     string    `gorm:"size:255;not null;default:'';comment:出版社"`
	CreatedAt     time.Time `gorm:"index:idx_books_created_at;comment:创建时间"`
	UpdatedAt     time.Time `gorm:"comment:更新时间"`
}

func (BookModel) TableName() string {
	return "books"
}

// CartModel GORM购物车模型，每个用户一行
type CartModel struct {
	ID        uint            `gorm:"primaryKey"`
	UserID    uint            `gorm:"uniqueIndex:uk_carts_user_id;not null;comment:用户ID"`
	Items     []CartItemModel `gorm:"foreignKey:CartID"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (CartModel) TableName() string {
	return "carts"
}

// CartItemModel GORM购物车行模型，(cart_id, book_id)唯一
type CartItemModel struct {
	ID        uint `gorm:"primaryKey"`
	CartID    uint `gorm:"uniqueIndex:uk_cart_items_cart_book,priority:1;not null;comment:购物车ID"`
	BookID    uint `gorm:"uniqueIndex:uk_cart_items_cart_book,priority:2;not null;comment:图书ID"`
	Quantity  int  `gorm:"not null;comment:数量"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (CartItemModel) TableName() string {
	return "cart_items"
}

// OrderModel GORM订单模型
// 收货地址与金额拆分为扁平列；status使用int存储
type OrderModel struct {
	ID            uint             `gorm:"primaryKey"`
	OrderNo       string           `gorm:"uniqueIndex:uk_orders_order_no;size:32;not null;comment:订单号"`
	UserID        uint             `gorm:"index:idx_orders_user_status,priority:1;not null;comment:买家用户ID"`
	Address       string           `gorm:"size:255;not null;comment:收货地址"`
	City          string           `gorm:"size:100;not null;comment:城市"`
	PostalCode    string           `gorm:"size:20;not null;comment:邮编"`
	Country       string           `gorm:"size:100;not null;comment:国家"`
	PaymentMethod string           `gorm:"size:20;not null;comment:支付方式"`
	ItemsTotal    int64            `gorm:"not null;comment:商品金额(分)"`
	Shipping      int64            `gorm:"not null;comment:运费(分)"`
	Tax           int64            `gorm:"not null;comment:税费(分)"`
	GrandTotal    int64            `gorm:"not null;comment:应付总额(分)"`
	Status        int              `gorm:"index:idx_orders_user_status,priority:2;type:tinyint;default:1;comment:状态(1已创建2已提交)"`
	IsPaid        bool             `gorm:"not null;default:false"`
	IsDelivered   bool             `gorm:"not null;default:false"`
	Items         []OrderItemModel `gorm:"foreignKey:OrderID"`
	CreatedAt     time.Time        `gorm:"index:idx_orders_user_status,priority:3;comment:创建时间"`
	UpdatedAt     time.Time        `gorm:"comment:更新时间"`
}

func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel GORM订单明细模型，书名与单价是下单时的快照
type OrderItemModel struct {
	ID        uint   `gorm:"primaryKey"`
	OrderID   uint   `gorm:"index;not null;comment:订单ID"`
	BookID    uint   `gorm:"not null;comment:图书ID"`
	Title     string `gorm:"size:500;not null;comment:下单时书名"`
	Quantity  int    `gorm:"not null;comment:数量"`
	UnitPrice int64  `gorm:"not null;comment:下单时单价(分)"`
}

func (OrderItemModel) TableName() string {
	return "order_items"
}

// =========================================
// 模型转换
// =========================================

func toUserModel(u *user.User) *UserModel {
	return &UserModel{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Password:  u.Password,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func (m *UserModel) toEntity() *user.User {
	return &user.User{
		ID:        m.ID,
		Username:  m.Username,
		Email:     m.Email,
		Password:  m.Password,
		Role:      m.Role,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func toBookModel(b *catalog.Book) *BookModel {
	return &BookModel{
		ID:            b.ID,
		ExternalID:    b.ExternalID,
		Title:         b.Title,
		Authors:       nonNil(b.Authors),
		Description:   b.Description,
		Thumbnail:     b.Thumbnail,
		Price:         b.Price,
		Stock:         b.Stock,
		Categories:    nonNil(b.Categories),
		PageCount:     b.PageCount,
		PublishedDate: b.PublishedDate,
		Publisher:     b.Publisher,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

func (m *BookModel) toEntity() *catalog.Book {
	return &catalog.Book{
		ID:            m.ID,
		ExternalID:    m.ExternalID,
		Title:         m.Title,
		Authors:       nonNil(m.Authors),
		Description:   m.Description,
		Thumbnail:     m.Thumbnail,
		Price:         m.Price,
		Stock:         m.Stock,
		Categories:    nonNil(m.Categories),
		PageCount:     m.PageCount,
		PublishedDate: m.PublishedDate,
		Publisher:     m.Publisher,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func (m *CartModel) toEntity() *cart.Cart {
	c := &cart.Cart{
		ID:        m.ID,
		UserID:    m.UserID,
		Items:     make([]cart.Item, 0, len(m.Items)),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	for i := range m.Items {
		c.Items = append(c.Items, *m.Items[i].toEntity())
	}
	return c
}

func (m *CartItemModel) toEntity() *cart.Item {
	return &cart.Item{
		ID:        m.ID,
		CartID:    m.CartID,
		BookID:    m.BookID,
		Quantity:  m.Quantity,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func toOrderModel(o *order.Order) *OrderModel {
	items := make([]OrderItemModel, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItemModel{
			ID:        item.ID,
			OrderID:   item.OrderID,
			BookID:    item.BookID,
			Title:     item.Title,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
	}

	return &OrderModel{
		ID:            o.ID,
		OrderNo:       o.OrderNo,
		UserID:        o.UserID,
		Address:       o.ShippingAddress.Address,
		City:          o.ShippingAddress.City,
		PostalCode:    o.ShippingAddress.PostalCode,
		Country:       o.ShippingAddress.Country,
		PaymentMethod: string(o.PaymentMethod),
		ItemsTotal:    o.ItemsTotal,
		Shipping:      o.Shipping,
		Tax:           o.Tax,
		GrandTotal:    o.GrandTotal,
		Status:        int(o.Status),
		IsPaid:        o.IsPaid,
		IsDelivered:   o.IsDelivered,
		Items:         items,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

func (m *OrderModel) toEntity() *order.Order {
	items := make([]order.OrderItem, len(m.Items))
	for i, item := range m.Items {
		items[i] = order.OrderItem{
			ID:        item.ID,
			OrderID:   item.OrderID,
			BookID:    item.BookID,
			Title:     item.Title,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
	}

	return &order.Order{
		ID:      m.ID,
		OrderNo: m.OrderNo,
		UserID:  m.UserID,
		Items:   items,
		ShippingAddress: order.ShippingAddress{
			Address:    m.Address,
			City:       m.City,
			PostalCode: m.PostalCode,
			Country:    m.Country,
		},
		PaymentMethod: order.PaymentMethod(m.PaymentMethod),
		PriceBreakdown: order.PriceBreakdown{
			ItemsTotal: m.ItemsTotal,
			Shipping:   m.Shipping,
			Tax:        m.Tax,
			GrandTotal: m.GrandTotal,
		},
		Status:      order.OrderStatus(m.Status),
		IsPaid:      m.IsPaid,
		IsDelivered: m.IsDelivered,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
