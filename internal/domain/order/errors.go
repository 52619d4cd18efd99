package order

import (
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// 订单领域错误定义
var (
	// ErrOrderNotFound 订单不存在
	ErrOrderNotFound = apperrors.ErrOrderNotFound

	// ErrForbidden 订单属于其他用户
	ErrForbidden = apperrors.New(apperrors.ErrCodeForbidden, "无权查看此订单")

	// ErrInvalidStatusTransition 非法的状态转换
	ErrInvalidStatusTransition = apperrors.ErrInvalidOrderStatus

	// ErrInvalidPaymentMethod 不支持的支付方式
	ErrInvalidPaymentMethod = apperrors.New(apperrors.ErrCodeInvalidParams, "不支持的支付方式")

	// ErrInvalidShippingAddress 收货地址不完整
	ErrInvalidShippingAddress = apperrors.New(apperrors.ErrCodeInvalidParams, "收货地址不完整")
)
