package report

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// DefaultTopN bounds the top_products list when no override is given.
const DefaultTopN = 10

// Options carries the caller-supplied strategies and tuning for one run.
// Strategies are injected per call; the engine holds no configuration state
// between runs.
type Options struct {
	Revenue RevenueStrategy
	Bonus   BonusStrategy
	// TopN bounds the top_products list per seller. Zero or negative means
	// DefaultTopN.
	TopN int
	// Stats, when non-nil, receives the soft-skip counters for the run.
	Stats *Stats
}

// Analyze folds the purchase records into per-seller accumulators in a
// single pass, ranks sellers by profit descending and assembles the final
// report rows. The result always contains exactly one row per input seller.
//
// Records referencing an unknown seller are skipped whole; items referencing
// an unknown SKU are skipped individually while their siblings still count.
// Neither fails the run. Inputs are never mutated and the lookup maps live
// only for the duration of the call, so concurrent runs over separate
// datasets are independent.
func Analyze(data Dataset, opts Options) ([]Row, error) {
	if err := validate(data, opts); err != nil {
		return nil, err
	}

	topN := opts.TopN
	if topN <= 0 {
		topN = DefaultTopN
	}

	accumulators := make([]*SellerStats, len(data.Sellers))
	bySeller := make(map[string]*SellerStats, len(data.Sellers))
	for i, s := range data.Sellers {
		acc := &SellerStats{
			SellerID:     s.ID,
			Name:         s.DisplayName(),
			Revenue:      decimal.Zero,
			Profit:       decimal.Zero,
			ProductsSold: make(map[string]int),
		}
		accumulators[i] = acc
		bySeller[s.ID] = acc
	}

	bySKU := make(map[string]Product, len(data.Products))
	for _, p := range data.Products {
		bySKU[p.SKU] = p
	}

	var skipped Stats
	for _, rec := range data.PurchaseRecords {
		seller, ok := bySeller[rec.SellerID]
		if !ok {
			skipped.SkippedRecords++
			continue
		}
		seller.SalesCount++
		for _, item := range rec.Items {
			product, ok := bySKU[item.SKU]
			if !ok {
				skipped.SkippedItems++
				continue
			}
			revenue := opts.Revenue.Revenue(rec, item, product)
			cost := product.PurchasePrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
			seller.Revenue = seller.Revenue.Add(revenue)
			seller.Profit = seller.Profit.Add(revenue.Sub(cost))
			if _, seen := seller.ProductsSold[item.SKU]; !seen {
				seller.skuOrder = append(seller.skuOrder, item.SKU)
			}
			seller.ProductsSold[item.SKU] += item.Quantity
		}
	}
	if opts.Stats != nil {
		*opts.Stats = skipped
	}

	// Equal profits keep their input order, so the sort must be stable.
	ranked := make([]*SellerStats, len(accumulators))
	copy(ranked, accumulators)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Profit.GreaterThan(ranked[j].Profit)
	})

	rows := make([]Row, len(ranked))
	for rank, seller := range ranked {
		bonus := opts.Bonus.Bonus(rank, len(ranked), *seller)
		rows[rank] = Row{
			SellerID:    seller.SellerID,
			Name:        seller.Name,
			Revenue:     seller.Revenue.Round(2),
			Profit:      seller.Profit.Round(2),
			SalesCount:  seller.SalesCount,
			TopProducts: seller.topProducts(topN),
			Bonus:       bonus.Round(2),
		}
	}
	return rows, nil
}

func validate(data Dataset, opts Options) error {
	switch {
	case len(data.Sellers) == 0:
		return fmt.Errorf("%w: sellers missing or empty", ErrInvalidInput)
	case len(data.Products) == 0:
		return fmt.Errorf("%w: products missing or empty", ErrInvalidInput)
	case len(data.PurchaseRecords) == 0:
		return fmt.Errorf("%w: purchase_records missing or empty", ErrInvalidInput)
	}
	if opts.Revenue == nil {
		return fmt.Errorf("%w: revenue strategy not provided", ErrMissingStrategy)
	}
	if opts.Bonus == nil {
		return fmt.Errorf("%w: bonus strategy not provided", ErrMissingStrategy)
	}
	return nil
}

// topProducts returns up to n SKUs ordered by cumulative quantity
// descending. Equal quantities keep first-seen order, so reruns over the
// same dataset produce identical rows.
func (s *SellerStats) topProducts(n int) []ProductQuantity {
	pairs := make([]ProductQuantity, 0, len(s.skuOrder))
	for _, sku := range s.skuOrder {
		pairs = append(pairs, ProductQuantity{SKU: sku, Quantity: s.ProductsSold[sku]})
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].Quantity > pairs[j].Quantity
	})
	if len(pairs) > n {
		pairs = pairs[:n]
	}
	return pairs
}
