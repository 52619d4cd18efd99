package order

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// GenerateOrderNo 生成订单号
// 格式:ORD + 时间戳(秒) + 6位随机数,如ORD1699248000123456
// 冲突由orders.order_no唯一索引兜底
func GenerateOrderNo() string {
	return formatOrderNo(time.Now(), rand.IntN(1000000))
}

func formatOrderNo(now time.Time, random int) string {
	return fmt.Sprintf("ORD%d%06d", now.Unix(), random)
}
