// Package service orchestrates the validation pipeline and checkout flow.
package service

import (
	"context"
	"log"

	"github.com/pdxfresh/checkout-service/domain"
	"github.com/pdxfresh/checkout-service/internal/inventory"
	"github.com/pdxfresh/checkout-service/internal/payments"
	"github.com/pdxfresh/checkout-service/internal/validate"
)

// ItemReconciler checks one item against the processor's live catalog.
type ItemReconciler interface {
	Check(ctx context.Context, item domain.CartItem) *domain.ItemError
}

// StockChecker checks one item against the persisted inventory.
type StockChecker interface {
	Check(ctx context.Context, item domain.CartItem) (inventory.Result, error)
}

type ValidationService struct {
	checker    StockChecker
	reconciler ItemReconciler
}

func NewValidationService(checker StockChecker, reconciler ItemReconciler) *ValidationService {
	return &ValidationService{
		checker:    checker,
		reconciler: reconciler,
	}
}

// ValidateCart runs every item through shape, inventory and processor
// checks. An item's first failing stage contributes its error and the
// pipeline moves on to the next item, so the caller gets the complete
// picture in one round trip. Items are processed in submission order.
func (s *ValidationService) ValidateCart(ctx context.Context, items []domain.CartItem) domain.ValidationResult {
	var itemErrors []domain.ItemError

	for _, item := range items {
		if shapeErr := validate.CheckItem(item); shapeErr != nil {
			itemErrors = append(itemErrors, *shapeErr)
			continue
		}

		stockResult, err := s.checker.Check(ctx, item)
		if err != nil {
			// Inventory store unreachable: fail closed on this item.
			log.Printf("inventory check failed for %s: %v", item.PriceID, err)
			itemErrors = append(itemErrors, domain.ItemError{
				PriceID: item.PriceID,
				Error:   payments.MsgUnableToValidate,
			})
			continue
		}
		if stockResult.MissingVariant {
			log.Printf("warning: no variant found for price %s, allowing item through", item.PriceID)
		}
		if stockResult.ItemError != nil {
			itemErrors = append(itemErrors, *stockResult.ItemError)
			continue
		}

		if reconcileErr := s.reconciler.Check(ctx, item); reconcileErr != nil {
			itemErrors = append(itemErrors, *reconcileErr)
		}
	}

	if len(itemErrors) > 0 {
		return domain.ValidationResult{Valid: false, Errors: itemErrors}
	}
	return domain.ValidationResult{Valid: true, Errors: []domain.ItemError{}}
}
