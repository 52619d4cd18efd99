package catalog

import (
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// 图书领域错误定义
var (
	// ErrBookNotFound 图书不存在
	ErrBookNotFound = apperrors.ErrBookNotFound

	// ErrInvalidRecord 数据源记录缺少ExternalID
	ErrInvalidRecord = apperrors.ErrInvalidRecord

	// ErrInvalidPrice 无效的价格
	ErrInvalidPrice = apperrors.New(apperrors.ErrCodeInvalidParams, "价格必须大于0")

	// ErrInvalidStock 无效的库存
	ErrInvalidStock = apperrors.New(apperrors.ErrCodeInvalidParams, "库存不能为负数")

	// ErrInsufficientStock 库存不足
	ErrInsufficientStock = apperrors.ErrInsufficientStock

	// ErrInvalidSortKey 不支持的排序方式
	ErrInvalidSortKey = apperrors.New(apperrors.ErrCodeInvalidParams, "不支持的排序方式")

	// ErrEmptyQuery 搜索关键词为空
	ErrEmptyQuery = apperrors.New(apperrors.ErrCodeInvalidParams, "搜索关键词不能为空")
)

// NewProviderError 数据源返回非成功响应
// status为数据源HTTP状态码(网络错误时为0),details为数据源返回的错误信息
func NewProviderError(status int, details string, cause error) error {
	return apperrors.ErrProviderError.
		WithDetails(map[string]interface{}{
			"status":  status,
			"details": details,
		}).
		WithErr(cause)
}
