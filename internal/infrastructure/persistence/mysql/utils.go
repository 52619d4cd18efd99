package mysql

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// isDuplicateError 判断是否为MySQL唯一索引冲突（错误码1062: Duplicate entry）
func isDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "Duplicate entry")
}

// duplicateKeyIs 冲突的索引名是否包含key
// 只匹配"for key 'xxx'"部分，冲突的值本身可能包含同样的字符串
func duplicateKeyIs(err error, key string) bool {
	if !isDuplicateError(err) {
		return false
	}
	msg := err.Error()
	idx := strings.LastIndex(msg, "for key")
	if idx < 0 {
		return false
	}
	return strings.Contains(msg[idx:], key)
}
