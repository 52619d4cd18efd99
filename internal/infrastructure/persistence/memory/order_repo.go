package memory

import (
	"context"
	"sort"
	"time"

	"github.com/xiebiao/bookshop/internal/domain/order"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// OrderRepository 订单仓储内存实现
type OrderRepository struct {
	s *Store
}

// NewOrderRepository 创建订单仓储
func NewOrderRepository(s *Store) order.Repository {
	return &OrderRepository{s: s}
}

func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	defer r.s.lock(ctx)()
	st := r.s.state

	if _, dup := st.orderNos[o.OrderNo]; dup {
		return apperrors.New(apperrors.ErrCodeDuplicateEntry, "订单号重复")
	}

	st.nextOrderID++
	o.ID = st.nextOrderID
	for i := range o.Items {
		st.nextOrderItemID++
		o.Items[i].ID = st.nextOrderItemID
		o.Items[i].OrderID = o.ID
	}

	st.orders[o.ID] = copyOrder(*o)
	st.orderNos[o.OrderNo] = o.ID
	return nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id uint, from, to order.OrderStatus) error {
	defer r.s.lock(ctx)()

	o, ok := r.s.state.orders[id]
	if !ok {
		return order.ErrOrderNotFound
	}
	if o.Status != from {
		return order.ErrInvalidStatusTransition
	}
	o.Status = to
	o.UpdatedAt = time.Now()
	r.s.state.orders[id] = o
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id uint) (*order.Order, error) {
	defer r.s.lock(ctx)()

	o, ok := r.s.state.orders[id]
	if !ok || !o.IsCommitted() {
		return nil, order.ErrOrderNotFound
	}
	out := copyOrder(o)
	return &out, nil
}

func (r *OrderRepository) ListByUserID(ctx context.Context, userID uint, page, pageSize int) ([]*order.Order, int64, error) {
	defer r.s.lock(ctx)()

	owned := make([]order.Order, 0)
	for _, o := range r.s.state.orders {
		if o.UserID == userID && o.IsCommitted() {
			owned = append(owned, o)
		}
	}
	sort.Slice(owned, func(i, j int) bool {
		if !owned[i].CreatedAt.Equal(owned[j].CreatedAt) {
			return owned[i].CreatedAt.After(owned[j].CreatedAt)
		}
		return owned[i].ID > owned[j].ID
	})

	total := int64(len(owned))
	start := (page - 1) * pageSize
	if start > len(owned) {
		start = len(owned)
	}
	end := start + pageSize
	if end > len(owned) {
		end = len(owned)
	}

	result := make([]*order.Order, 0, end-start)
	for _, o := range owned[start:end] {
		out := copyOrder(o)
		result = append(result, &out)
	}
	return result, total, nil
}
