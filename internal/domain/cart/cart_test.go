package cart_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xiebiao/bookshop/internal/domain/cart"
)

func TestValidateQuantity(t *testing.T) {
	tests := []struct {
		name     string
		quantity int
		wantErr  bool
	}{
		{"最小值", 1, false},
		{"上限", cart.MaxQuantity, false},
		{"零", 0, true},
		{"负数", -3, true},
		{"超过上限", cart.MaxQuantity + 1, true},
		{"MaxInt", math.MaxInt, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := cart.ValidateQuantity(tt.quantity)
			if tt.wantErr {
				assert.True(t, errors.Is(err, cart.ErrInvalidQuantity))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateIncrement(t *testing.T) {
	assert.NoError(t, cart.ValidateIncrement(3, 2))
	assert.NoError(t, cart.ValidateIncrement(cart.MaxQuantity-1, 1))
	assert.Error(t, cart.ValidateIncrement(cart.MaxQuantity, 1))
	assert.Error(t, cart.ValidateIncrement(cart.MaxQuantity-1, math.MaxInt))
	assert.Error(t, cart.ValidateIncrement(1, 0))
}

func TestCart_FindByBook(t *testing.T) {
	c := cart.NewCart(1)
	c.Items = append(c.Items, cart.Item{ID: 10, BookID: 5, Quantity: 2})

	item, ok := c.FindByBook(5)
	assert.True(t, ok)
	assert.Equal(t, uint(10), item.ID)

	_, ok = c.FindItem(11)
	assert.False(t, ok)
	assert.Equal(t, []uint{5}, c.BookIDs())
	assert.Equal(t, 2, c.TotalQuantity())
}
