package service

import (
	"context"

	"github.com/pdxfresh/checkout-service/domain"
	"github.com/pdxfresh/checkout-service/internal/inventory"
	"github.com/pdxfresh/checkout-service/internal/payments"
)

// MockStockChecker implements StockChecker for testing
type MockStockChecker struct {
	// Results maps price id to the check outcome; unlisted ids pass.
	Results map[string]inventory.Result
	Errs    map[string]error
	Checked []string
}

func (m *MockStockChecker) Check(_ context.Context, item domain.CartItem) (inventory.Result, error) {
	m.Checked = append(m.Checked, item.PriceID)
	if err, ok := m.Errs[item.PriceID]; ok {
		return inventory.Result{}, err
	}
	if result, ok := m.Results[item.PriceID]; ok {
		return result, nil
	}
	return inventory.Result{}, nil
}

// MockReconciler implements ItemReconciler for testing
type MockReconciler struct {
	// Rejections maps price id to the item error it should produce.
	Rejections map[string]*domain.ItemError
	Checked    []string
}

func (m *MockReconciler) Check(_ context.Context, item domain.CartItem) *domain.ItemError {
	m.Checked = append(m.Checked, item.PriceID)
	if itemErr, ok := m.Rejections[item.PriceID]; ok {
		return itemErr
	}
	return nil
}

// MockSessionBuilder implements SessionBuilder for testing
type MockSessionBuilder struct {
	URL     string
	Err     error
	Request *payments.BuildRequest
}

func (m *MockSessionBuilder) Build(_ context.Context, req payments.BuildRequest) (string, error) {
	m.Request = &req
	if m.Err != nil {
		return "", m.Err
	}
	if m.URL != "" {
		return m.URL, nil
	}
	return "https://checkout.example.com/cs_test_123", nil
}
