package cart

import (
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

var (
	// ErrInvalidQuantity 数量不是正整数或超过上限
	ErrInvalidQuantity = apperrors.ErrInvalidQuantity

	// ErrItemNotFound 购物车行不存在(或属于其他用户)
	ErrItemNotFound = apperrors.New(apperrors.ErrCodeCartItemNotFound, "购物车商品不存在")

	// ErrEmptyCart 购物车为空
	ErrEmptyCart = apperrors.ErrEmptyCart
)
