package domain

// ProductVariant is a purchasable configuration of a product (a size, a
// tier) tracked for inventory purposes. StockQuantity is a pointer because
// untracked variants may carry no stock figure at all.
type ProductVariant struct {
	ID             string
	StripePriceID  string
	Name           string
	StockQuantity  *int
	TrackInventory bool
}

// Stock returns the stock level, treating a missing figure as zero.
func (v ProductVariant) Stock() int {
	if v.StockQuantity == nil {
		return 0
	}
	return *v.StockQuantity
}
