package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/pdxfresh/checkout-service/domain"
)

var ErrVariantNotFound = errors.New("product variant not found")

const MsgSubscriptionQuantity = "Subscriptions must have quantity of 1"

// VariantStore is the slice of the repository the checker needs.
type VariantStore interface {
	GetVariantByPriceID(ctx context.Context, priceID string) (*domain.ProductVariant, error)
}

// Result is the outcome of an inventory check for one item. ItemError is
// set on a hard rejection. MissingVariant marks the advisory case where no
// variant row exists for the price reference: the item passes, but the
// caller should log it as a data-integrity anomaly.
type Result struct {
	ItemError      *domain.ItemError
	MissingVariant bool
}

func (r Result) OK() bool {
	return r.ItemError == nil
}

type Checker struct {
	store VariantStore
}

func NewChecker(store VariantStore) *Checker {
	return &Checker{store: store}
}

// Check verifies that the requested quantity is purchasable. Subscription
// items must carry quantity 1. For tracked variants the stored stock level
// is the authoritative ceiling; untracked variants always pass regardless
// of the stock figure.
func (c *Checker) Check(ctx context.Context, item domain.CartItem) (Result, error) {
	qty, _ := item.WholeQuantity()

	if item.IsSubscription() && qty != 1 {
		return Result{ItemError: &domain.ItemError{
			PriceID: item.PriceID,
			Error:   MsgSubscriptionQuantity,
		}}, nil
	}

	variant, err := c.store.GetVariantByPriceID(ctx, item.PriceID)
	if errors.Is(err, ErrVariantNotFound) {
		// No row for this price reference. The processor-side check is
		// the authoritative one, so let the item through and surface the
		// anomaly to the caller.
		return Result{MissingVariant: true}, nil
	}
	if err != nil {
		return Result{}, fmt.Errorf("variant lookup for %s: %w", item.PriceID, err)
	}

	if !variant.TrackInventory {
		return Result{}, nil
	}

	stock := variant.Stock()
	if stock == 0 {
		return Result{ItemError: &domain.ItemError{
			PriceID: item.PriceID,
			Error:   "Out of stock",
		}}, nil
	}
	if stock < qty {
		available := stock
		return Result{ItemError: &domain.ItemError{
			PriceID:   item.PriceID,
			Error:     fmt.Sprintf("Only %d available", available),
			Available: &available,
		}}, nil
	}

	return Result{}, nil
}
