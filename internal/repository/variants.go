package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pdxfresh/checkout-service/domain"
	"github.com/pdxfresh/checkout-service/internal/inventory"
)

// GetVariantByPriceID looks up the persisted variant backing a price
// reference. Returns inventory.ErrVariantNotFound when no row exists.
func (r *Repository) GetVariantByPriceID(ctx context.Context, priceID string) (*domain.ProductVariant, error) {
	query := `SELECT id, stripe_price_id, name, stock_quantity, track_inventory
	          FROM product_variants WHERE stripe_price_id = $1`

	var variant domain.ProductVariant
	var stock sql.NullInt64
	err := r.db.QueryRowContext(ctx, query, priceID).Scan(
		&variant.ID,
		&variant.StripePriceID,
		&variant.Name,
		&stock,
		&variant.TrackInventory,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, inventory.ErrVariantNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query variant by price id: %w", err)
	}

	if stock.Valid {
		n := int(stock.Int64)
		variant.StockQuantity = &n
	}
	return &variant, nil
}

// UpsertVariant inserts or updates a variant row keyed by the price
// reference. Used by catalog sync and by tests to seed the table.
func (r *Repository) UpsertVariant(ctx context.Context, variant *domain.ProductVariant) error {
	query := `INSERT INTO product_variants (id, stripe_price_id, name, stock_quantity, track_inventory)
	          VALUES ($1, $2, $3, $4, $5)
	          ON CONFLICT (stripe_price_id) DO UPDATE
	          SET name = EXCLUDED.name,
	              stock_quantity = EXCLUDED.stock_quantity,
	              track_inventory = EXCLUDED.track_inventory`

	var stock sql.NullInt64
	if variant.StockQuantity != nil {
		stock = sql.NullInt64{Int64: int64(*variant.StockQuantity), Valid: true}
	}

	_, err := r.db.ExecContext(ctx, query,
		variant.ID,
		variant.StripePriceID,
		variant.Name,
		stock,
		variant.TrackInventory)
	if err != nil {
		return fmt.Errorf("upsert variant: %w", err)
	}
	return nil
}
