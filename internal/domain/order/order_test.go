package order

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPricingPolicy_Quote(t *testing.T) {
	policy := DefaultPricingPolicy()

	tests := []struct {
		name  string
		items []OrderItem
		want  PriceBreakdown
	}{
		{
			name: "未满免运费门槛",
			items: []OrderItem{
				{BookID: 1, Quantity: 2, UnitPrice: 1000},
				{BookID: 2, Quantity: 1, UnitPrice: 500},
			},
			want: PriceBreakdown{ItemsTotal: 2500, Shipping: 1000, Tax: 375, GrandTotal: 3875},
		},
		{
			name:  "超过门槛免运费",
			items: []OrderItem{{BookID: 1, Quantity: 1, UnitPrice: 15000}},
			want:  PriceBreakdown{ItemsTotal: 15000, Shipping: 0, Tax: 2250, GrandTotal: 17250},
		},
		{
			name:  "恰好等于门槛仍收运费",
			items: []OrderItem{{BookID: 1, Quantity: 1, UnitPrice: 10000}},
			want:  PriceBreakdown{ItemsTotal: 10000, Shipping: 1000, Tax: 1500, GrandTotal: 12500},
		},
		{
			name:  "税费四舍五入",
			items: []OrderItem{{BookID: 1, Quantity: 1, UnitPrice: 333}},
			want:  PriceBreakdown{ItemsTotal: 333, Shipping: 1000, Tax: 50, GrandTotal: 1383},
		},
		{
			name:  "税费舍去",
			items: []OrderItem{{BookID: 1, Quantity: 1, UnitPrice: 1001}},
			want:  PriceBreakdown{ItemsTotal: 1001, Shipping: 1000, Tax: 150, GrandTotal: 2151},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, policy.Quote(tt.items))
		})
	}
}

func TestNewPricingPolicy(t *testing.T) {
	p, err := NewPricingPolicy(5000, 300, "0.08")
	require.NoError(t, err)
	got := p.Quote([]OrderItem{{Quantity: 1, UnitPrice: 6000}})
	assert.Equal(t, PriceBreakdown{ItemsTotal: 6000, Shipping: 0, Tax: 480, GrandTotal: 6480}, got)

	_, err = NewPricingPolicy(5000, 300, "abc")
	assert.Error(t, err)
	_, err = NewPricingPolicy(5000, 300, "-0.1")
	assert.Error(t, err)
	_, err = NewPricingPolicy(5000, -1, "0.1")
	assert.Error(t, err)
}

func TestOrder_Commit(t *testing.T) {
	o := NewOrder("ORD1", 7, nil, ShippingAddress{}, PaymentPayPal, PriceBreakdown{})
	assert.Equal(t, OrderStatusCreated, o.Status)
	assert.False(t, o.IsPaid)
	assert.False(t, o.IsDelivered)

	require.NoError(t, o.Commit())
	assert.True(t, o.IsCommitted())

	err := o.Commit()
	assert.True(t, errors.Is(err, ErrInvalidStatusTransition))
}

func TestOrder_IsOwnedBy(t *testing.T) {
	o := NewOrder("ORD1", 7, nil, ShippingAddress{}, PaymentPayPal, PriceBreakdown{})
	assert.True(t, o.IsOwnedBy(7))
	assert.False(t, o.IsOwnedBy(8))
}

func TestPaymentMethod_Valid(t *testing.T) {
	assert.True(t, PaymentCreditCard.Valid())
	assert.True(t, PaymentCashOnDelivery.Valid())
	assert.False(t, PaymentMethod("Bitcoin").Valid())
	assert.False(t, PaymentMethod("").Valid())
}

func TestGenerateOrderNo(t *testing.T) {
	assert.Equal(t, "ORD1699248000000042", formatOrderNo(time.Unix(1699248000, 0), 42))
	assert.Regexp(t, regexp.MustCompile(`^ORD\d{16}$`), GenerateOrderNo())
}

func TestShippingAddress_Validate(t *testing.T) {
	addr := ShippingAddress{Address: "1 Main St", City: "Springfield", PostalCode: "12345", Country: "US"}
	assert.NoError(t, addr.Validate())

	addr.City = "  "
	assert.ErrorIs(t, addr.Validate(), ErrInvalidShippingAddress)
}
