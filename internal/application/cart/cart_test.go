package cart

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookshop/internal/domain/cart"
	"github.com/xiebiao/bookshop/internal/domain/catalog"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/memory"
)

type fixture struct {
	books  catalog.Repository
	get    *GetCartUseCase
	add    *AddItemUseCase
	update *UpdateItemUseCase
	remove *RemoveItemUseCase
	clear  *ClearCartUseCase
}

func newFixture() *fixture {
	store := memory.NewStore()
	books := memory.NewBookRepository(store)
	carts := memory.NewCartRepository(store)
	return &fixture{
		books:  books,
		get:    NewGetCartUseCase(carts, books),
		add:    NewAddItemUseCase(carts, books, store),
		update: NewUpdateItemUseCase(carts, books, store),
		remove: NewRemoveItemUseCase(carts, books, store),
		clear:  NewClearCartUseCase(carts, books, store),
	}
}

func (f *fixture) seedBook(t *testing.T, externalID string, price int64, stock int) *catalog.Book {
	t.Helper()
	b := catalog.NewBook(catalog.Record{ExternalID: externalID, Title: "Book " + externalID}.Normalize(), price, stock)
	saved, err := f.books.Upsert(context.Background(), b, catalog.UpsertAuthoritative)
	require.NoError(t, err)
	return saved
}

func TestGetCart_CreatesEmptyCart(t *testing.T) {
	f := newFixture()

	c, err := f.get.Execute(context.Background(), 1)
	require.NoError(t, err)
	assert.NotZero(t, c.ID)
	assert.Equal(t, uint(1), c.UserID)
	assert.Empty(t, c.Items)
	assert.Equal(t, "0.00", c.SubtotalYuan)

	again, err := f.get.Execute(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, c.ID, again.ID, "每个用户只有一个购物车")
}

func TestAddItem_SameBookAccumulates(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	book := f.seedBook(t, "a", 1000, 5)

	_, err := f.add.Execute(ctx, AddItemRequest{UserID: 1, BookID: book.ID, Quantity: 1})
	require.NoError(t, err)
	c, err := f.add.Execute(ctx, AddItemRequest{UserID: 1, BookID: book.ID, Quantity: 2})
	require.NoError(t, err)

	require.Len(t, c.Items, 1)
	assert.Equal(t, 3, c.Items[0].Quantity)
	assert.Equal(t, "Book a", c.Items[0].Title)
	assert.Equal(t, int64(3000), c.Items[0].Subtotal)
	assert.Equal(t, int64(3000), c.Subtotal)
	assert.Equal(t, "30.00", c.SubtotalYuan)
	assert.Equal(t, 3, c.TotalQuantity)
}

func TestAddItem_KeepsInsertionOrder(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	b1 := f.seedBook(t, "a", 1000, 5)
	b2 := f.seedBook(t, "b", 500, 5)

	_, err := f.add.Execute(ctx, AddItemRequest{UserID: 1, BookID: b2.ID, Quantity: 1})
	require.NoError(t, err)
	c, err := f.add.Execute(ctx, AddItemRequest{UserID: 1, BookID: b1.ID, Quantity: 1})
	require.NoError(t, err)

	require.Len(t, c.Items, 2)
	assert.Equal(t, b2.ID, c.Items[0].BookID)
	assert.Equal(t, b1.ID, c.Items[1].BookID)
}

func TestAddItem_Validation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	book := f.seedBook(t, "a", 1000, 5)

	for _, qty := range []int{0, -1} {
		_, err := f.add.Execute(ctx, AddItemRequest{UserID: 1, BookID: book.ID, Quantity: qty})
		assert.True(t, errors.Is(err, cart.ErrInvalidQuantity), "quantity=%d", qty)
	}

	_, err := f.add.Execute(ctx, AddItemRequest{UserID: 1, BookID: 999, Quantity: 1})
	assert.True(t, errors.Is(err, catalog.ErrBookNotFound))

	c, err := f.get.Execute(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, c.Items, "失败的加购不留下明细")
}

func TestAddItem_QuantityCap(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	book := f.seedBook(t, "a", 1000, 5)

	for _, qty := range []int{cart.MaxQuantity + 1, math.MaxInt} {
		_, err := f.add.Execute(ctx, AddItemRequest{UserID: 1, BookID: book.ID, Quantity: qty})
		assert.True(t, errors.Is(err, cart.ErrInvalidQuantity), "quantity=%d", qty)
	}

	c, err := f.add.Execute(ctx, AddItemRequest{UserID: 1, BookID: book.ID, Quantity: cart.MaxQuantity})
	require.NoError(t, err)
	itemID := c.Items[0].ID

	_, err = f.add.Execute(ctx, AddItemRequest{UserID: 1, BookID: book.ID, Quantity: 1})
	assert.True(t, errors.Is(err, cart.ErrInvalidQuantity))

	_, err = f.update.Execute(ctx, UpdateItemRequest{UserID: 1, ItemID: itemID, Quantity: cart.MaxQuantity + 1})
	assert.True(t, errors.Is(err, cart.ErrInvalidQuantity))

	c, err = f.get.Execute(ctx, 1)
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, cart.MaxQuantity, c.Items[0].Quantity, "超限的加购不改变原有数量")
}

func TestAddItem_ConcurrentAddsAreNotLost(t *testing.T) {
	f := newFixture()
	book := f.seedBook(t, "a", 1000, 5)

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.add.Execute(context.Background(), AddItemRequest{UserID: 1, BookID: book.ID, Quantity: 1})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	c, err := f.get.Execute(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, n, c.Items[0].Quantity)
}

func TestUpdateItem(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	book := f.seedBook(t, "a", 1000, 5)

	c, err := f.add.Execute(ctx, AddItemRequest{UserID: 1, BookID: book.ID, Quantity: 3})
	require.NoError(t, err)
	itemID := c.Items[0].ID

	c, err = f.update.Execute(ctx, UpdateItemRequest{UserID: 1, ItemID: itemID, Quantity: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, c.Items[0].Quantity, "设置而不是累加")

	_, err = f.update.Execute(ctx, UpdateItemRequest{UserID: 1, ItemID: itemID, Quantity: 0})
	assert.True(t, errors.Is(err, cart.ErrInvalidQuantity))

	_, err = f.update.Execute(ctx, UpdateItemRequest{UserID: 2, ItemID: itemID, Quantity: 2})
	assert.True(t, errors.Is(err, cart.ErrItemNotFound), "其他用户的行不可见")

	c, err = f.get.Execute(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Items[0].Quantity)
}

func TestRemoveItemAndClear(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	b1 := f.seedBook(t, "a", 1000, 5)
	b2 := f.seedBook(t, "b", 500, 5)

	_, err := f.add.Execute(ctx, AddItemRequest{UserID: 1, BookID: b1.ID, Quantity: 1})
	require.NoError(t, err)
	c, err := f.add.Execute(ctx, AddItemRequest{UserID: 1, BookID: b2.ID, Quantity: 1})
	require.NoError(t, err)

	_, err = f.remove.Execute(ctx, 2, c.Items[0].ID)
	assert.True(t, errors.Is(err, cart.ErrItemNotFound))

	c, err = f.remove.Execute(ctx, 1, c.Items[0].ID)
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, b2.ID, c.Items[0].BookID)

	_, err = f.remove.Execute(ctx, 1, 999)
	assert.True(t, errors.Is(err, cart.ErrItemNotFound))

	cleared, err := f.clear.Execute(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, cleared.Items)
	assert.Equal(t, c.ID, cleared.ID, "清空不删除购物车")
}

func TestCartView_ReflectsCurrentPrice(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	book := f.seedBook(t, "a", 1000, 5)

	_, err := f.add.Execute(ctx, AddItemRequest{UserID: 1, BookID: book.ID, Quantity: 2})
	require.NoError(t, err)

	f.seedBook(t, "a", 1250, 4)

	c, err := f.get.Execute(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1250), c.Items[0].Price)
	assert.Equal(t, "12.50", c.Items[0].PriceYuan)
	assert.Equal(t, 4, c.Items[0].Stock)
	assert.Equal(t, int64(2500), c.Subtotal)
}
