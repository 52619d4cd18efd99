package cart

import (
	"time"
)

// Cart 购物车(聚合根)
// 1. 每个用户只有一个购物车,首次访问时创建
// 2. 同一本书只有一行,重复加入累加数量
// 3. 下单成功后清空(不删除)
type Cart struct {
	ID        uint
	UserID    uint
	Items     []Item // 按加入顺序
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Item 购物车行
// 只保存BookID,价格在下单时从图书读取
type Item struct {
	ID        uint
	CartID    uint
	BookID    uint
	Quantity  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewCart 创建空购物车
func NewCart(userID uint) *Cart {
	now := time.Now()
	return &Cart{
		UserID:    userID,
		Items:     []Item{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsEmpty 购物车是否为空
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// FindItem 按行ID查找
func (c *Cart) FindItem(itemID uint) (*Item, bool) {
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			return &c.Items[i], true
		}
	}
	return nil, false
}

// FindByBook 按图书ID查找
func (c *Cart) FindByBook(bookID uint) (*Item, bool) {
	for i := range c.Items {
		if c.Items[i].BookID == bookID {
			return &c.Items[i], true
		}
	}
	return nil, false
}

// TotalQuantity 商品总件数
func (c *Cart) TotalQuantity() int {
	n := 0
	for _, item := range c.Items {
		n += item.Quantity
	}
	return n
}

// BookIDs 购物车中所有图书ID(按加入顺序)
func (c *Cart) BookIDs() []uint {
	ids := make([]uint, 0, len(c.Items))
	for _, item := range c.Items {
		ids = append(ids, item.BookID)
	}
	return ids
}

// MaxQuantity 单行数量上限
const MaxQuantity = 999

// ValidateQuantity 数量必须在[1, MaxQuantity]之间(0不等于删除)
func ValidateQuantity(quantity int) error {
	if quantity <= 0 || quantity > MaxQuantity {
		return ErrInvalidQuantity
	}
	return nil
}

// ValidateIncrement 累加后的数量同样不能超过上限
// 两个参数都已在[1, MaxQuantity]之内时不会溢出
func ValidateIncrement(existing, quantity int) error {
	if err := ValidateQuantity(quantity); err != nil {
		return err
	}
	if existing > MaxQuantity-quantity {
		return ErrInvalidQuantity
	}
	return nil
}
