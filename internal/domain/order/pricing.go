package order

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// PriceBreakdown 订单金额明细(分)
type PriceBreakdown struct {
	ItemsTotal int64
	Shipping   int64
	Tax        int64
	GrandTotal int64
}

// PricingPolicy 运费与税费规则
//   - 商品金额严格大于FreeShippingThreshold时免运费,否则收取ShippingFee
//   - 税费 = 商品金额 × TaxRate,四舍五入到分(远离零方向)
type PricingPolicy struct {
	FreeShippingThreshold int64
	ShippingFee           int64
	TaxRate               decimal.Decimal
}

// NewPricingPolicy 创建计价规则,taxRate为十进制字符串(如"0.15")
func NewPricingPolicy(freeShippingThreshold, shippingFee int64, taxRate string) (*PricingPolicy, error) {
	rate, err := decimal.NewFromString(taxRate)
	if err != nil {
		return nil, fmt.Errorf("税率格式错误: %w", err)
	}
	if rate.IsNegative() {
		return nil, fmt.Errorf("税率不能为负数: %s", taxRate)
	}
	if shippingFee < 0 || freeShippingThreshold < 0 {
		return nil, fmt.Errorf("运费配置不能为负数")
	}
	return &PricingPolicy{
		FreeShippingThreshold: freeShippingThreshold,
		ShippingFee:           shippingFee,
		TaxRate:               rate,
	}, nil
}

// DefaultPricingPolicy 满100元免运费,否则运费10元,税率15%
func DefaultPricingPolicy() *PricingPolicy {
	return &PricingPolicy{
		FreeShippingThreshold: 10000,
		ShippingFee:           1000,
		TaxRate:               decimal.RequireFromString("0.15"),
	}
}

// Quote 计算订单金额
func (p *PricingPolicy) Quote(items []OrderItem) PriceBreakdown {
	var itemsTotal int64
	for _, item := range items {
		itemsTotal += item.Subtotal()
	}

	shipping := p.ShippingFee
	if itemsTotal > p.FreeShippingThreshold {
		shipping = 0
	}

	tax := decimal.NewFromInt(itemsTotal).Mul(p.TaxRate).Round(0).IntPart()

	return PriceBreakdown{
		ItemsTotal: itemsTotal,
		Shipping:   shipping,
		Tax:        tax,
		GrandTotal: itemsTotal + shipping + tax,
	}
}
