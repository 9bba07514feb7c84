package payments

import (
	"context"
	"log"

	"github.com/pdxfresh/checkout-service/domain"
)

const (
	MsgProductUnavailable = "This product is no longer available"
	MsgUnableToValidate   = "Unable to validate this item. Please try again."
)

// Reconciler cross-checks each item against the processor's live catalog.
// The local variant table can drift when a product is archived directly in
// the processor's dashboard; this is the last line of defense against
// selling a discontinued item.
type Reconciler struct {
	client Client
}

func NewReconciler(client Client) *Reconciler {
	return &Reconciler{client: client}
}

// Check returns nil when the item's price and product are both live.
// A failed lookup rejects the item rather than letting it through: the
// processor being unreachable must never read as "item is fine".
func (r *Reconciler) Check(ctx context.Context, item domain.CartItem) *domain.ItemError {
	price, err := r.client.RetrievePrice(ctx, item.PriceID)
	if err != nil {
		log.Printf("price lookup failed for %s: %v", item.PriceID, err)
		return &domain.ItemError{PriceID: item.PriceID, Error: MsgUnableToValidate}
	}
	if !price.Active {
		return &domain.ItemError{PriceID: item.PriceID, Error: MsgProductUnavailable}
	}

	product, err := r.client.RetrieveProduct(ctx, price.ProductID)
	if err != nil {
		log.Printf("product lookup failed for %s (price %s): %v", price.ProductID, item.PriceID, err)
		return &domain.ItemError{PriceID: item.PriceID, Error: MsgUnableToValidate}
	}
	if !product.Active {
		return &domain.ItemError{PriceID: item.PriceID, Error: MsgProductUnavailable}
	}

	return nil
}
