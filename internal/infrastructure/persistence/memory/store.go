// Package memory 进程内存储,实现全部仓储接口与事务管理器
//
// 用于单元测试与 database.driver=memory 的本地运行:
//   - 事务内独占整个存储(等价于所有行都被 SELECT FOR UPDATE)
//   - 事务开始时保存快照,fn返回error时恢复快照
//   - 事务外的单个操作各自短暂持锁,读不到未提交的数据
//
// 不持久化,进程退出即丢失
package memory

import (
	"context"
	"sync"

	"github.com/xiebiao/bookshop/internal/domain/cart"
	"github.com/xiebiao/bookshop/internal/domain/catalog"
	"github.com/xiebiao/bookshop/internal/domain/order"
	"github.com/xiebiao/bookshop/internal/domain/user"
)

type txKey struct{}

// Store 内存存储
type Store struct {
	mu    sync.Mutex
	state *state
}

type state struct {
	books        map[uint]catalog.Book
	byExternalID map[string]uint
	nextBookID   uint

	users      map[uint]user.User
	nextUserID uint

	carts      map[uint]cart.Cart
	cartByUser map[uint]uint
	nextCartID uint
	nextItemID uint

	orders          map[uint]order.Order
	orderNos        map[string]uint
	nextOrderID     uint
	nextOrderItemID uint
}

// NewStore 创建空存储
func NewStore() *Store {
	return &Store{state: &state{
		books:        make(map[uint]catalog.Book),
		byExternalID: make(map[string]uint),
		users:        make(map[uint]user.User),
		carts:        make(map[uint]cart.Cart),
		cartByUser:   make(map[uint]uint),
		orders:       make(map[uint]order.Order),
		orderNos:     make(map[string]uint),
	}}
}

// Transaction 实现transaction.Manager
// 嵌套调用直接复用外层事务
func (s *Store) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.inTx(ctx) {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.state.clone()
	if err := fn(context.WithValue(ctx, txKey{}, s)); err != nil {
		s.state = snapshot
		return err
	}
	return nil
}

func (s *Store) inTx(ctx context.Context) bool {
	owner, _ := ctx.Value(txKey{}).(*Store)
	return owner == s
}

// lock 事务外的操作短暂持锁,事务内已经持有
func (s *Store) lock(ctx context.Context) func() {
	if s.inTx(ctx) {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (st *state) clone() *state {
	c := &state{
		books:           make(map[uint]catalog.Book, len(st.books)),
		byExternalID:    make(map[string]uint, len(st.byExternalID)),
		nextBookID:      st.nextBookID,
		users:           make(map[uint]user.User, len(st.users)),
		nextUserID:      st.nextUserID,
		carts:           make(map[uint]cart.Cart, len(st.carts)),
		cartByUser:      make(map[uint]uint, len(st.cartByUser)),
		nextCartID:      st.nextCartID,
		nextItemID:      st.nextItemID,
		orders:          make(map[uint]order.Order, len(st.orders)),
		orderNos:        make(map[string]uint, len(st.orderNos)),
		nextOrderID:     st.nextOrderID,
		nextOrderItemID: st.nextOrderItemID,
	}
	for id, b := range st.books {
		c.books[id] = copyBook(b)
	}
	for k, v := range st.byExternalID {
		c.byExternalID[k] = v
	}
	for id, u := range st.users {
		c.users[id] = u
	}
	for id, ct := range st.carts {
		c.carts[id] = copyCart(ct)
	}
	for k, v := range st.cartByUser {
		c.cartByUser[k] = v
	}
	for id, o := range st.orders {
		c.orders[id] = copyOrder(o)
	}
	for k, v := range st.orderNos {
		c.orderNos[k] = v
	}
	return c
}

func copyBook(b catalog.Book) catalog.Book {
	b.Authors = append([]string(nil), b.Authors...)
	b.Categories = append([]string(nil), b.Categories...)
	return b
}

func copyCart(c cart.Cart) cart.Cart {
	c.Items = append([]cart.Item{}, c.Items...)
	return c
}

func copyOrder(o order.Order) order.Order {
	o.Items = append([]order.OrderItem(nil), o.Items...)
	return o
}
