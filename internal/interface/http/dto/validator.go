package dto

import (
	"fmt"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/xiebiao/bookshop/internal/domain/catalog"
	"github.com/xiebiao/bookshop/internal/domain/order"
)

// RegisterValidators 向gin的校验引擎注册自定义tag
//   - payment_method: PayPal | CreditCard | CashOnDelivery
//   - sort_key: newest | oldest | price-asc | price-desc | title-asc | title-desc
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("gin校验引擎不是validator/v10")
	}
	return registerOn(v)
}

func registerOn(v *validator.Validate) error {
	if err := v.RegisterValidation("payment_method", validatePaymentMethod); err != nil {
		return fmt.Errorf("注册payment_method校验失败: %w", err)
	}
	if err := v.RegisterValidation("sort_key", validateSortKey); err != nil {
		return fmt.Errorf("注册sort_key校验失败: %w", err)
	}
	return nil
}

func validatePaymentMethod(fl validator.FieldLevel) bool {
	return order.PaymentMethod(fl.Field().String()).Valid()
}

func validateSortKey(fl validator.FieldLevel) bool {
	return catalog.SortKey(fl.Field().String()).Valid()
}
