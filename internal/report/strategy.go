package report

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Revenue policy names accepted by the HTTP and CLI surfaces.
const (
	PolicySimple       = "simple"
	PolicyProportional = "proportional"
	PolicyWeighted     = "weighted"
)

// RevenueStrategy prices the revenue attributable to one line item. The
// enclosing receipt is part of the contract so that policies redistributing
// a receipt-level discount stay pure functions; item-local policies simply
// ignore it. Implementations must not mutate their inputs.
type RevenueStrategy interface {
	Revenue(rec PurchaseRecord, item PurchaseItem, product Product) decimal.Decimal
}

// RevenueFunc adapts a plain function to RevenueStrategy.
type RevenueFunc func(rec PurchaseRecord, item PurchaseItem, product Product) decimal.Decimal

// Revenue implements RevenueStrategy.
func (f RevenueFunc) Revenue(rec PurchaseRecord, item PurchaseItem, product Product) decimal.Decimal {
	return f(rec, item, product)
}

// BonusStrategy maps a seller's zero-based rank after profit sorting to a
// bonus amount. Implementations must tolerate negative profit.
type BonusStrategy interface {
	Bonus(rank, totalSellers int, stats SellerStats) decimal.Decimal
}

// BonusFunc adapts a plain function to BonusStrategy.
type BonusFunc func(rank, totalSellers int, stats SellerStats) decimal.Decimal

// Bonus implements BonusStrategy.
func (f BonusFunc) Bonus(rank, totalSellers int, stats SellerStats) decimal.Decimal {
	return f(rank, totalSellers, stats)
}

// RevenueByName resolves a policy name to its strategy. The empty string
// selects the simple policy.
func RevenueByName(name string) (RevenueStrategy, error) {
	switch name {
	case "", PolicySimple:
		return SimpleRevenue{}, nil
	case PolicyProportional:
		return ProportionalRevenue{}, nil
	case PolicyWeighted:
		return WeightedRevenue{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown revenue policy %q", ErrMissingStrategy, name)
	}
}

// SimpleRevenue applies each item's own percentage discount:
// sale_price * quantity * (1 - discount/100).
type SimpleRevenue struct{}

// Revenue implements RevenueStrategy.
func (SimpleRevenue) Revenue(_ PurchaseRecord, item PurchaseItem, _ Product) decimal.Decimal {
	return discountedAmount(item)
}

// ProportionalRevenue redistributes the receipt's total discount across its
// items proportionally to their pre-discount amounts. Per-item discounts are
// ignored; the weighting base is sale_price * quantity.
type ProportionalRevenue struct{}

// Revenue implements RevenueStrategy.
func (ProportionalRevenue) Revenue(rec PurchaseRecord, item PurchaseItem, _ Product) decimal.Decimal {
	return redistribute(rec.TotalDiscount, itemAmount(item), sumAmounts(rec.Items, itemAmount))
}

// WeightedRevenue applies per-item discounts first and then redistributes
// the receipt discount proportionally over the already discounted amounts.
// The weighting base differs from ProportionalRevenue; the two are distinct
// policies.
type WeightedRevenue struct{}

// Revenue implements RevenueStrategy.
func (WeightedRevenue) Revenue(rec PurchaseRecord, item PurchaseItem, _ Product) decimal.Decimal {
	return redistribute(rec.TotalDiscount, discountedAmount(item), sumAmounts(rec.Items, discountedAmount))
}

// TieredBonus is the default rank-based bonus policy: 15% of profit for the
// top seller, 10% for second and third, nothing for last place, 5% for
// everyone else. The branches run in exactly that order; the order is
// observable for small seller counts (a sole seller is both first and last
// and earns 15%), so it must not be rearranged.
type TieredBonus struct{}

var (
	topRate    = decimal.NewFromFloat(0.15)
	podiumRate = decimal.NewFromFloat(0.10)
	baseRate   = decimal.NewFromFloat(0.05)
)

// Bonus implements BonusStrategy.
func (TieredBonus) Bonus(rank, totalSellers int, stats SellerStats) decimal.Decimal {
	switch {
	case rank == 0:
		return stats.Profit.Mul(topRate)
	case rank == 1 || rank == 2:
		return stats.Profit.Mul(podiumRate)
	case rank == totalSellers-1:
		return decimal.Zero
	default:
		return stats.Profit.Mul(baseRate)
	}
}

var oneHundred = decimal.NewFromInt(100)

// itemAmount is the pre-discount line amount: sale_price * quantity.
func itemAmount(item PurchaseItem) decimal.Decimal {
	return item.SalePrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
}

// discountedAmount applies the item's own percentage discount to itemAmount.
func discountedAmount(item PurchaseItem) decimal.Decimal {
	factor := decimal.NewFromInt(1).Sub(item.Discount.Div(oneHundred))
	return itemAmount(item).Mul(factor)
}

func sumAmounts(items []PurchaseItem, amount func(PurchaseItem) decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(amount(it))
	}
	return total
}

// redistribute subtracts the item's proportional share of the receipt
// discount from its amount. A zero base means no share can be computed and
// the amount passes through untouched.
func redistribute(totalDiscount, amount, base decimal.Decimal) decimal.Decimal {
	if base.IsZero() {
		return amount
	}
	share := amount.Div(base)
	return amount.Sub(totalDiscount.Mul(share))
}
