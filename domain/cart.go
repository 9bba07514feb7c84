package domain

// ProductType distinguishes one-time purchases from recurring subscriptions.
type ProductType string

const (
	ProductTypeOneTime      ProductType = "one-time"
	ProductTypeSubscription ProductType = "subscription"
)

// CartItem is a client-submitted line item. It exists only for the duration
// of a validation or checkout request and is never persisted.
//
// Quantity is decoded as float64 so a fractional value (e.g. 3.5) survives
// JSON decoding and is rejected per-item with the other errors, instead of
// failing the whole payload at decode time.
type CartItem struct {
	PriceID     string      `json:"priceId"`
	Quantity    float64     `json:"quantity"`
	ProductName string      `json:"productName,omitempty"`
	ProductType ProductType `json:"productType,omitempty"`
	TierKey     string      `json:"tierKey,omitempty"`
	SizeKey     string      `json:"sizeKey,omitempty"`
}

// WholeQuantity returns the quantity as an int and whether the submitted
// value was a whole number.
func (i CartItem) WholeQuantity() (int, bool) {
	n := int(i.Quantity)
	return n, float64(n) == i.Quantity
}

func (i CartItem) IsSubscription() bool {
	return i.ProductType == ProductTypeSubscription
}

// ItemError is a per-item validation failure. Available is set only for
// insufficient-stock rejections so the client can offer to reduce quantity.
type ItemError struct {
	PriceID   string `json:"priceId"`
	Error     string `json:"error"`
	Available *int   `json:"available,omitempty"`
}

// ValidationResult aggregates the outcome of a full cart validation.
// Errors holds one entry per failing item; Valid is true iff it is empty.
type ValidationResult struct {
	Valid  bool        `json:"valid"`
	Errors []ItemError `json:"errors,omitempty"`
}
