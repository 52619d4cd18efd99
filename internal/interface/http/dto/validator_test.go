package dto

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newValidate(t *testing.T) *validator.Validate {
	t.Helper()
	v := validator.New()
	v.SetTagName("binding")
	require.NoError(t, registerOn(v))
	return v
}

func TestPaymentMethodValidator(t *testing.T) {
	v := newValidate(t)
	addr := ShippingAddressRequest{Address: "a", City: "b", PostalCode: "c", Country: "d"}

	for _, pm := range []string{"PayPal", "CreditCard", "CashOnDelivery"} {
		assert.NoError(t, v.Struct(CommitOrderRequest{ShippingAddress: addr, PaymentMethod: pm}), pm)
	}
	assert.Error(t, v.Struct(CommitOrderRequest{ShippingAddress: addr, PaymentMethod: "paypal"}))
	assert.Error(t, v.Struct(CommitOrderRequest{ShippingAddress: addr, PaymentMethod: "Bitcoin"}))
}

func TestSortKeyValidator(t *testing.T) {
	v := newValidate(t)

	assert.NoError(t, v.Struct(ListBooksQuery{}), "空值使用默认排序")
	assert.NoError(t, v.Struct(ListBooksQuery{Sort: "title-desc"}))
	assert.Error(t, v.Struct(ListBooksQuery{Sort: "random"}))
}

func TestShippingAddressRequired(t *testing.T) {
	v := newValidate(t)
	err := v.Struct(CommitOrderRequest{
		ShippingAddress: ShippingAddressRequest{Address: "a", City: "b", PostalCode: "c"},
		PaymentMethod:   "PayPal",
	})
	assert.Error(t, err)
}
