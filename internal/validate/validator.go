// Package validate holds the pure shape checks run against client-submitted
// cart items before any store or processor lookup happens.
package validate

import (
	"strings"

	"github.com/pdxfresh/checkout-service/domain"
)

const (
	// MaxItems bounds a single validation request.
	MaxItems = 100

	// MinQuantity and MaxQuantity bound a single line item.
	MinQuantity = 1
	MaxQuantity = 999

	priceIDPrefix = "price_"
	minPriceIDLen = 10
)

const (
	MsgInvalidQuantity = "Invalid quantity"
	MsgInvalidPriceID  = "Invalid price ID format"
)

// CheckItem runs the shape checks for one item. It returns nil when the
// item is well-formed.
func CheckItem(item domain.CartItem) *domain.ItemError {
	qty, whole := item.WholeQuantity()
	if !whole || qty < MinQuantity || qty > MaxQuantity {
		return &domain.ItemError{PriceID: item.PriceID, Error: MsgInvalidQuantity}
	}

	if !ValidPriceID(item.PriceID) {
		return &domain.ItemError{PriceID: item.PriceID, Error: MsgInvalidPriceID}
	}

	return nil
}

// ValidPriceID reports whether the reference matches the processor's
// identifier shape.
func ValidPriceID(id string) bool {
	return strings.HasPrefix(id, priceIDPrefix) && len(id) >= minPriceIDLen
}
