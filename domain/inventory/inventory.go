// Package inventory stock levels per variant and location.
//
// A stock level tracks two counters: available units that can still be sold and
// reserved units held for paid orders awaiting fulfillment. Every change is recorded
// as a Movement.
package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInsufficientStock not enough available units
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrStockNotFound variant is not stocked at the location
	ErrStockNotFound = errors.New("stock level not found")

	// ErrInvalidQuantity zero or negative quantity where a positive one is required
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")

	// ErrStockConflict the stock row changed between read and write
	ErrStockConflict = errors.New("stock level changed concurrently")
)

// Reason why stock moved
type Reason string

const (
	ReasonOrderCreated   Reason = "order_created"
	ReasonOrderFulfilled Reason = "order_fulfilled"
	ReasonOrderCancelled Reason = "order_cancelled"
	ReasonReservation    Reason = "reservation"
	ReasonRestock        Reason = "restock"
	ReasonManual         Reason = "manual"
)

// Stock stock level of a variant at a location
type Stock struct {
	VariantID  string
	LocationID string
	Available  int
	Reserved   int
	UpdatedAt  time.Time
}

// Movement ledger row describing one stock change
type Movement struct {
	ID             int64
	VariantID      string
	LocationID     string
	AvailableDelta int
	ReservedDelta  int
	Reason         Reason
	ReferenceID    string
	CreatedAt      time.Time
}

// Service inventory operations used by order orchestration
type Service interface {
	// GetStock returns nil, nil when the variant is not stocked at the location
	GetStock(ctx context.Context, variantID, locationID string) (*Stock, error)
	AdjustStock(ctx context.Context, variantID, locationID string, delta int, reason Reason, referenceID string) error
	ReserveStock(ctx context.Context, variantID, locationID string, quantity int) error
}

// Adjust applies a signed quantity change to s.
//
// Negative deltas for fulfillment consume reserved units first and fall back to
// available units. Positive deltas for cancellation return the units to available
// and release up to the same number of reserved units. Other reasons move available
// units only. Available never drops below zero.
func Adjust(s Stock, delta int, reason Reason) (Stock, Movement, error) {
	if delta == 0 {
		return Stock{}, Movement{}, ErrInvalidQuantity
	}

	next := s
	switch {
	case delta < 0 && reason == ReasonOrderFulfilled:
		need := -delta
		fromReserved := min(need, s.Reserved)
		fromAvailable := need - fromReserved
		if fromAvailable > s.Available {
			return Stock{}, Movement{}, shortfall(s, need, s.Available+s.Reserved)
		}
		next.Reserved -= fromReserved
		next.Available -= fromAvailable

	case delta > 0 && reason == ReasonOrderCancelled:
		next.Reserved -= min(delta, s.Reserved)
		next.Available += delta

	default:
		if s.Available+delta < 0 {
			return Stock{}, Movement{}, shortfall(s, -delta, s.Available)
		}
		next.Available += delta
	}

	return next, movement(s, next, reason), nil
}

// Reserve moves quantity units from available to reserved.
func Reserve(s Stock, quantity int) (Stock, Movement, error) {
	if quantity <= 0 {
		return Stock{}, Movement{}, ErrInvalidQuantity
	}
	if s.Available < quantity {
		return Stock{}, Movement{}, shortfall(s, quantity, s.Available)
	}
	next := s
	next.Available -= quantity
	next.Reserved += quantity
	return next, movement(s, next, ReasonReservation), nil
}

func movement(before, after Stock, reason Reason) Movement {
	return Movement{
		VariantID:      before.VariantID,
		LocationID:     before.LocationID,
		AvailableDelta: after.Available - before.Available,
		ReservedDelta:  after.Reserved - before.Reserved,
		Reason:         reason,
	}
}

func shortfall(s Stock, requested, available int) error {
	return fmt.Errorf("%w: variant %s at location %s: requested %d, available %d",
		ErrInsufficientStock, s.VariantID, s.LocationID, requested, available)
}
