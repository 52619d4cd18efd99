package order

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/bookshop/internal/domain/cart"
	"github.com/xiebiao/bookshop/internal/domain/catalog"
	"github.com/xiebiao/bookshop/internal/domain/order"
	"github.com/xiebiao/bookshop/internal/domain/transaction"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
	"github.com/xiebiao/bookshop/pkg/metrics"
	"github.com/xiebiao/bookshop/pkg/mq"
	"github.com/xiebiao/bookshop/pkg/tracing"
)

// RoutingKeyOrderCommitted 订单提交事件
const RoutingKeyOrderCommitted = "order.committed"

// 订单号冲突时的重试次数
const maxOrderNoAttempts = 3

// CommitOrderUseCase 购物车下单用例
// 涉及:事务处理、并发控制、业务规则校验
type CommitOrderUseCase struct {
	cartRepo  cart.Repository
	bookRepo  catalog.Repository
	orderRepo order.Repository
	txManager transaction.Manager
	pricing   *order.PricingPolicy
	publisher mq.EventPublisher
	logger    *zap.Logger

	newOrderNo func() string
}

// NewCommitOrderUseCase 创建下单用例
func NewCommitOrderUseCase(
	cartRepo cart.Repository,
	bookRepo catalog.Repository,
	orderRepo order.Repository,
	txManager transaction.Manager,
	pricing *order.PricingPolicy,
	publisher mq.EventPublisher,
	logger *zap.Logger,
) *CommitOrderUseCase {
	return &CommitOrderUseCase{
		cartRepo:   cartRepo,
		bookRepo:   bookRepo,
		orderRepo:  orderRepo,
		txManager:  txManager,
		pricing:    pricing,
		publisher:  publisher,
		logger:     logger,
		newOrderNo: order.GenerateOrderNo,
	}
}

// CommitOrderRequest 下单请求DTO
type CommitOrderRequest struct {
	UserID          uint // 买家用户ID(从JWT中提取)
	ShippingAddress order.ShippingAddress
	PaymentMethod   order.PaymentMethod
}

// OrderCommittedEvent 订单提交事件
type OrderCommittedEvent struct {
	OrderID    uint                 `json:"order_id"`
	OrderNo    string               `json:"order_no"`
	UserID     uint                 `json:"user_id"`
	GrandTotal int64                `json:"grand_total"`
	Items      []OrderCommittedItem `json:"items"`
}

// OrderCommittedItem 事件中的明细
type OrderCommittedItem struct {
	BookID   uint `json:"book_id"`
	Quantity int  `json:"quantity"`
}

// Execute 把当前购物车转换为订单
//
// 整个流程在一个事务中完成,任意一步失败全部回滚:
//  1. 锁定购物车(SELECT FOR UPDATE),购物车为空返回ErrEmptyCart
//  2. 按图书ID升序锁定图书,多个订单同时锁同一批图书时不会死锁
//  3. 锁定后检查库存,不足返回ErrInsufficientStock(不允许超卖)
//  4. 用锁定时的价格计算金额,单价冻结到订单明细
//  5. 写入订单(created)
//  6. 清空购物车
//  7. 扣减库存
//  8. 订单置为committed,查询只能看到committed订单
func (uc *CommitOrderUseCase) Execute(ctx context.Context, req CommitOrderRequest) (*OrderDTO, error) {
	if !req.PaymentMethod.Valid() {
		return nil, order.ErrInvalidPaymentMethod
	}
	if err := req.ShippingAddress.Validate(); err != nil {
		return nil, err
	}

	ctx, span := tracing.StartSpan(ctx, "order", "CommitOrder")
	defer span.End()
	start := time.Now()

	var committed *order.Order
	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		// 步骤1:锁定购物车
		c, err := uc.cartRepo.LockByUserID(txCtx, req.UserID)
		if err != nil {
			return err
		}
		if c.IsEmpty() {
			return cart.ErrEmptyCart
		}

		// 步骤2:锁定图书
		books, err := uc.lockBooks(txCtx, c.BookIDs())
		if err != nil {
			return err
		}

		// 步骤3、4:库存校验与价格快照
		items := make([]order.OrderItem, 0, len(c.Items))
		for _, line := range c.Items {
			b, ok := books[line.BookID]
			if !ok {
				return catalog.ErrBookNotFound
			}
			if !b.HasStock(line.Quantity) {
				return catalog.ErrInsufficientStock.WithDetails(map[string]interface{}{
					"book_id":   b.ID,
					"title":     b.Title,
					"stock":     b.Stock,
					"requested": line.Quantity,
				})
			}
			items = append(items, order.OrderItem{
				BookID:    b.ID,
				Title:     b.Title,
				Quantity:  line.Quantity,
				UnitPrice: b.Price,
			})
		}
		breakdown := uc.pricing.Quote(items)

		// 步骤5:写入订单
		o, err := uc.createOrder(txCtx, req, items, breakdown)
		if err != nil {
			return err
		}

		// 步骤6:清空购物车
		if err := uc.cartRepo.Clear(txCtx, c.ID); err != nil {
			return err
		}

		// 步骤7:扣减库存
		for _, item := range items {
			if err := uc.bookRepo.UpdateStock(txCtx, item.BookID, -item.Quantity); err != nil {
				return err
			}
		}

		// 步骤8:created → committed
		if err := uc.orderRepo.UpdateStatus(txCtx, o.ID, order.OrderStatusCreated, order.OrderStatusCommitted); err != nil {
			return err
		}
		if err := o.Commit(); err != nil {
			return err
		}

		committed = o
		return nil
	})

	metrics.ObserveHistogram(metrics.OrderCommitDuration, time.Since(start).Seconds())
	if err != nil {
		tracing.RecordError(span, err)
		metrics.IncCounterVec(metrics.OrdersCommitFailedTotal, map[string]string{"reason": failureReason(err)})
		uc.logger.Error("订单提交失败", zap.Uint("user_id", req.UserID), zap.Error(err))
		return nil, err
	}

	metrics.IncCounter(metrics.OrdersCommittedTotal)
	uc.logger.Info("订单提交成功",
		zap.Uint("user_id", req.UserID),
		zap.String("order_no", committed.OrderNo),
		zap.Int64("grand_total", committed.GrandTotal),
	)
	uc.publishCommitted(ctx, committed)

	return toOrderDTO(committed), nil
}

// lockBooks 按ID升序加锁
func (uc *CommitOrderUseCase) lockBooks(ctx context.Context, ids []uint) (map[uint]*catalog.Book, error) {
	sorted := append([]uint(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	books := make(map[uint]*catalog.Book, len(sorted))
	for _, id := range sorted {
		if _, seen := books[id]; seen {
			continue
		}
		b, err := uc.bookRepo.LockByID(ctx, id)
		if err != nil {
			return nil, err
		}
		books[id] = b
	}
	return books, nil
}

// createOrder 订单号冲突(唯一索引)时换一个重试
func (uc *CommitOrderUseCase) createOrder(ctx context.Context, req CommitOrderRequest, items []order.OrderItem, breakdown order.PriceBreakdown) (*order.Order, error) {
	var err error
	for attempt := 0; attempt < maxOrderNoAttempts; attempt++ {
		o := order.NewOrder(uc.newOrderNo(), req.UserID, cloneItems(items), req.ShippingAddress, req.PaymentMethod, breakdown)
		if err = uc.orderRepo.Create(ctx, o); err == nil {
			return o, nil
		}
		if !apperrors.HasCode(err, apperrors.ErrCodeDuplicateEntry) {
			return nil, err
		}
		uc.logger.Warn("订单号冲突,重新生成", zap.String("order_no", o.OrderNo))
	}
	return nil, err
}

// publishCommitted 事件发布失败不回滚订单
func (uc *CommitOrderUseCase) publishCommitted(ctx context.Context, o *order.Order) {
	items := make([]OrderCommittedItem, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderCommittedItem{BookID: item.BookID, Quantity: item.Quantity}
	}
	event := OrderCommittedEvent{
		OrderID:    o.ID,
		OrderNo:    o.OrderNo,
		UserID:     o.UserID,
		GrandTotal: o.GrandTotal,
		Items:      items,
	}
	if err := uc.publisher.Publish(ctx, RoutingKeyOrderCommitted, event); err != nil {
		uc.logger.Warn("发布订单事件失败", zap.String("order_no", o.OrderNo), zap.Error(err))
	}
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, cart.ErrEmptyCart):
		return "empty_cart"
	case errors.Is(err, catalog.ErrInsufficientStock):
		return "insufficient_stock"
	default:
		return "error"
	}
}

func cloneItems(items []order.OrderItem) []order.OrderItem {
	return append([]order.OrderItem(nil), items...)
}
