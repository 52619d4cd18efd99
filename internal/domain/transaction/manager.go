package transaction

import "context"

// Manager 事务管理器接口
// fn内通过ctx执行的所有Repository操作处于同一事务：
// fn返回error时回滚，返回nil时提交
//
// 实现：
//   - mysql.TxManager：GORM事务，事务DB通过context传递
//   - memory.Store：进程内快照回滚
type Manager interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}
