package memory

import (
	"context"
	"time"

	"github.com/xiebiao/bookshop/internal/domain/cart"
)

// CartRepository 购物车仓储内存实现
type CartRepository struct {
	s *Store
}

// NewCartRepository 创建购物车仓储
func NewCartRepository(s *Store) cart.Repository {
	return &CartRepository{s: s}
}

func (r *CartRepository) FindByUserID(ctx context.Context, userID uint) (*cart.Cart, error) {
	defer r.s.lock(ctx)()

	c := copyCart(r.getOrCreate(userID))
	return &c, nil
}

func (r *CartRepository) LockByUserID(ctx context.Context, userID uint) (*cart.Cart, error) {
	return r.FindByUserID(ctx, userID)
}

func (r *CartRepository) AddItem(ctx context.Context, cartID, bookID uint, quantity int) (*cart.Item, error) {
	defer r.s.lock(ctx)()
	st := r.s.state
	now := time.Now()

	c, ok := st.carts[cartID]
	if !ok {
		return nil, cart.ErrItemNotFound
	}

	if item, found := c.FindByBook(bookID); found {
		if err := cart.ValidateIncrement(item.Quantity, quantity); err != nil {
			return nil, err
		}
		item.Quantity += quantity
		item.UpdatedAt = now
		out := *item
		c.UpdatedAt = now
		st.carts[cartID] = c
		return &out, nil
	}

	if err := cart.ValidateQuantity(quantity); err != nil {
		return nil, err
	}

	st.nextItemID++
	item := cart.Item{
		ID:        st.nextItemID,
		CartID:    cartID,
		BookID:    bookID,
		Quantity:  quantity,
		CreatedAt: now,
		UpdatedAt: now,
	}
	c.Items = append(c.Items, item)
	c.UpdatedAt = now
	st.carts[cartID] = c
	return &item, nil
}

func (r *CartRepository) UpdateItemQuantity(ctx context.Context, cartID, itemID uint, quantity int) (*cart.Item, error) {
	defer r.s.lock(ctx)()
	st := r.s.state

	c, ok := st.carts[cartID]
	if !ok {
		return nil, cart.ErrItemNotFound
	}
	item, found := c.FindItem(itemID)
	if !found {
		return nil, cart.ErrItemNotFound
	}
	if err := cart.ValidateQuantity(quantity); err != nil {
		return nil, err
	}
	item.Quantity = quantity
	item.UpdatedAt = time.Now()
	out := *item
	st.carts[cartID] = c
	return &out, nil
}

func (r *CartRepository) RemoveItem(ctx context.Context, cartID, itemID uint) error {
	defer r.s.lock(ctx)()
	st := r.s.state

	c, ok := st.carts[cartID]
	if !ok {
		return cart.ErrItemNotFound
	}
	for i, item := range c.Items {
		if item.ID == itemID {
			c.Items = append(c.Items[:i:i], c.Items[i+1:]...)
			c.UpdatedAt = time.Now()
			st.carts[cartID] = c
			return nil
		}
	}
	return cart.ErrItemNotFound
}

func (r *CartRepository) Clear(ctx context.Context, cartID uint) error {
	defer r.s.lock(ctx)()
	st := r.s.state

	c, ok := st.carts[cartID]
	if !ok {
		return nil
	}
	c.Items = []cart.Item{}
	c.UpdatedAt = time.Now()
	st.carts[cartID] = c
	return nil
}

// getOrCreate 调用方已持锁
func (r *CartRepository) getOrCreate(userID uint) cart.Cart {
	st := r.s.state
	if id, ok := st.cartByUser[userID]; ok {
		return st.carts[id]
	}

	st.nextCartID++
	c := *cart.NewCart(userID)
	c.ID = st.nextCartID
	st.carts[c.ID] = c
	st.cartByUser[userID] = c.ID
	return c
}
