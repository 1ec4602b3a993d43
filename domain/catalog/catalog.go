// Package catalog product catalog and fulfillment locations as seen by the order core.
// The catalog is maintained elsewhere; orders only read it.
package catalog

import (
	"context"
	"errors"
	"time"

	"commerce/domain/shared"

	"github.com/shopspring/decimal"
)

var (
	// ErrVariantNotFound variant does not exist
	ErrVariantNotFound = errors.New("variant not found")

	// ErrProductNotFound product does not exist
	ErrProductNotFound = errors.New("product not found")

	// ErrLocationNotFound location does not exist
	ErrLocationNotFound = errors.New("location not found")
)

// NotFound wraps a catalog sentinel with the shared category.
func NotFound(sentinel error, id string) error {
	return &shared.DomainError{
		Err:     errors.Join(sentinel, shared.ErrNotFound),
		Entity:  "catalog",
		Message: sentinel.Error() + ": " + id,
	}
}

// Product sellable product
type Product struct {
	ID        string
	Name      string
	Brand     string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Variant purchasable variation of a product (size, color)
type Variant struct {
	ID        string
	ProductID string
	SKU       string
	Price     decimal.Decimal
	Currency  string
	Size      string
	Color     string
	Weight    decimal.Decimal
	Length    decimal.Decimal
	Width     decimal.Decimal
	Height    decimal.Decimal
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// LocationType kind of stock holding location
type LocationType string

const (
	LocationWarehouse LocationType = "warehouse"
	LocationStore     LocationType = "store"
)

// Location place where stock is held and orders are fulfilled from
type Location struct {
	ID        string
	Name      string
	Type      LocationType
	Active    bool
	CreatedAt time.Time
}

// Reader catalog lookups used when building order snapshots
type Reader interface {
	FindVariantByID(ctx context.Context, id string) (*Variant, error)
	FindProductByID(ctx context.Context, id string) (*Product, error)
}

// Writer catalog maintenance, used by seeding and tests
type Writer interface {
	SaveProduct(ctx context.Context, p *Product) error
	SaveVariant(ctx context.Context, v *Variant) error
}

// LocationRepository fulfillment location lookups
type LocationRepository interface {
	FindLocationByID(ctx context.Context, id string) (*Location, error)

	// FirstActiveLocation returns the oldest active location of the given type
	FirstActiveLocation(ctx context.Context, t LocationType) (*Location, error)

	SaveLocation(ctx context.Context, l *Location) error
}
