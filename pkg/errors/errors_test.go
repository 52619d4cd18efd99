package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_HTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want int
	}{
		{"参数错误", ErrInvalidParams, http.StatusBadRequest},
		{"数量非法", ErrInvalidQuantity, http.StatusBadRequest},
		{"购物车为空", ErrEmptyCart, http.StatusBadRequest},
		{"库存不足", ErrInsufficientStock, http.StatusBadRequest},
		{"未登录", ErrUnauthorized, http.StatusUnauthorized},
		{"无权限", ErrForbidden, http.StatusForbidden},
		{"图书不存在", ErrBookNotFound, http.StatusNotFound},
		{"限流", ErrTooManyRequests, http.StatusTooManyRequests},
		{"上游错误", ErrProviderError, http.StatusBadGateway},
		{"数据库错误", ErrDatabaseError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.HTTPStatus())
		})
	}
}

func TestAppError_IsMatchesCopies(t *testing.T) {
	cause := fmt.Errorf("connection reset")
	wrapped := ErrProviderError.WithErr(cause).WithDetails(map[string]interface{}{"status": 503})

	assert.True(t, errors.Is(wrapped, ErrProviderError))
	assert.True(t, errors.Is(wrapped, cause))
	assert.False(t, errors.Is(wrapped, ErrProviderUnavailable))

	// 预定义错误本身不被修改
	assert.Nil(t, ErrProviderError.Err)
	assert.Nil(t, ErrProviderError.Details)
	assert.Equal(t, 503, wrapped.Details["status"])
}

func TestGetAppError(t *testing.T) {
	plain := fmt.Errorf("boom")
	appErr := GetAppError(plain)
	assert.Equal(t, ErrCodeInternal, appErr.Code)
	assert.Equal(t, plain, appErr.Err)

	nested := fmt.Errorf("ctx: %w", ErrEmptyCart)
	assert.Equal(t, ErrCodeEmptyCart, GetAppError(nested).Code)
	assert.True(t, HasCode(nested, ErrCodeEmptyCart))
	assert.False(t, HasCode(plain, ErrCodeEmptyCart))
}
