package report

import "github.com/shopspring/decimal"

// Seller identifies one salesperson. It contributes identity and the display
// name to the report, nothing else.
type Seller struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// DisplayName is the name printed on report rows.
func (s Seller) DisplayName() string {
	return s.FirstName + " " + s.LastName
}

// Product is one catalog entry, looked up by SKU during aggregation. The
// catalog is read-only for the duration of a run.
type Product struct {
	SKU           string          `json:"sku"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
}

// PurchaseItem is a single product line within a receipt. Discount is a
// percentage in [0,100].
type PurchaseItem struct {
	SKU       string          `json:"sku"`
	Quantity  int             `json:"quantity"`
	SalePrice decimal.Decimal `json:"sale_price"`
	Discount  decimal.Decimal `json:"discount"`
}

// PurchaseRecord is one receipt attributed to one seller.
type PurchaseRecord struct {
	SellerID      string          `json:"seller_id"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	TotalDiscount decimal.Decimal `json:"total_discount"`
	Items         []PurchaseItem  `json:"items"`
}

// Dataset groups the three input collections for one report run.
type Dataset struct {
	Sellers         []Seller         `json:"sellers"`
	Products        []Product        `json:"products"`
	PurchaseRecords []PurchaseRecord `json:"purchase_records"`
}

// SellerStats is the running accumulator for one seller. The engine owns it
// for the duration of the pass and never touches it again afterwards; bonus
// strategies receive a copy at ranking time.
type SellerStats struct {
	SellerID     string
	Name         string
	Revenue      decimal.Decimal
	Profit       decimal.Decimal
	SalesCount   int
	ProductsSold map[string]int

	// skuOrder remembers the order SKUs were first seen so that
	// top-product ties resolve the same way on every run.
	skuOrder []string
}

// ProductQuantity is one entry of a seller's top-product list.
type ProductQuantity struct {
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
}

// Row is one finished report line. Rows are built once at finalization and
// never mutated; monetary fields carry exactly two decimals.
type Row struct {
	SellerID    string            `json:"seller_id"`
	Name        string            `json:"name"`
	Revenue     decimal.Decimal   `json:"revenue"`
	Profit      decimal.Decimal   `json:"profit"`
	SalesCount  int               `json:"sales_count"`
	TopProducts []ProductQuantity `json:"top_products"`
	Bonus       decimal.Decimal   `json:"bonus"`
}

// Stats collects soft-skip counters for one run. Skipped records referenced
// an unknown seller; skipped items referenced an unknown SKU.
type Stats struct {
	SkippedRecords int `json:"skipped_records"`
	SkippedItems   int `json:"skipped_items"`
}
