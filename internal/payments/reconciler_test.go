package payments

import (
	"context"
	"errors"
	"testing"

	"github.com/pdxfresh/checkout-service/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func activeCatalog() *MockClient {
	return &MockClient{
		Prices: map[string]*Price{
			"price_1NxAbc123": {ID: "price_1NxAbc123", Active: true, ProductID: "prod_Abc"},
		},
		Products: map[string]*Product{
			"prod_Abc": {ID: "prod_Abc", Active: true, Name: "Ghost Pepper Sauce"},
		},
	}
}

func TestReconcilerCheck_ActivePriceAndProduct(t *testing.T) {
	reconciler := NewReconciler(activeCatalog())

	itemErr := reconciler.Check(context.Background(), domain.CartItem{PriceID: "price_1NxAbc123", Quantity: 1})

	assert.Nil(t, itemErr)
}

func TestReconcilerCheck_InactivePrice(t *testing.T) {
	client := activeCatalog()
	client.Prices["price_1NxAbc123"].Active = false
	reconciler := NewReconciler(client)

	itemErr := reconciler.Check(context.Background(), domain.CartItem{PriceID: "price_1NxAbc123", Quantity: 1})

	require.NotNil(t, itemErr)
	assert.Equal(t, MsgProductUnavailable, itemErr.Error)
}

func TestReconcilerCheck_InactiveProduct(t *testing.T) {
	client := activeCatalog()
	client.Products["prod_Abc"].Active = false
	reconciler := NewReconciler(client)

	itemErr := reconciler.Check(context.Background(), domain.CartItem{PriceID: "price_1NxAbc123", Quantity: 1})

	require.NotNil(t, itemErr)
	assert.Equal(t, MsgProductUnavailable, itemErr.Error)
}

func TestReconcilerCheck_MissingPriceFailsClosed(t *testing.T) {
	reconciler := NewReconciler(&MockClient{Prices: map[string]*Price{}})

	itemErr := reconciler.Check(context.Background(), domain.CartItem{PriceID: "price_1NxGone99", Quantity: 1})

	require.NotNil(t, itemErr)
	assert.Equal(t, MsgUnableToValidate, itemErr.Error)
}

func TestReconcilerCheck_TransientErrorFailsClosed(t *testing.T) {
	reconciler := NewReconciler(&MockClient{PriceErr: errors.New("connection reset")})

	itemErr := reconciler.Check(context.Background(), domain.CartItem{PriceID: "price_1NxAbc123", Quantity: 1})

	require.NotNil(t, itemErr)
	assert.Equal(t, MsgUnableToValidate, itemErr.Error)
}

func TestReconcilerCheck_ProductLookupErrorFailsClosed(t *testing.T) {
	client := activeCatalog()
	client.ProductErr = errors.New("timeout")
	reconciler := NewReconciler(client)

	itemErr := reconciler.Check(context.Background(), domain.CartItem{PriceID: "price_1NxAbc123", Quantity: 1})

	require.NotNil(t, itemErr)
	assert.Equal(t, MsgUnableToValidate, itemErr.Error)
}
