// Package migrations 版本化SQL迁移脚本(goose格式),编译进二进制
package migrations

import "embed"

// FS 全部迁移脚本
//
//go:embed *.sql
var FS embed.FS
