package order

import (
	"context"

	"commerce/domain/shared"
)

// Repository Order repository interface
// Save and Update write the header, replace all items, upsert the address and
// replace all shipments in one transaction. Events are collected by the UoW.
type Repository interface {
	// Save inserts a new order
	Save(ctx context.Context, order *Order) error

	// Update persists an existing order guarded by its version.
	// Returns ErrConcurrentModification when another writer got there first.
	Update(ctx context.Context, order *Order) error

	// Delete removes the order and all of its children
	Delete(ctx context.Context, id string) error

	FindByID(ctx context.Context, id string) (*Order, error)
	FindByOrderNumber(ctx context.Context, number OrderNumber) (*Order, error)

	// List returns orders matching query, newest first
	List(ctx context.Context, query ListQuery) ([]*Order, error)
	Count(ctx context.Context, spec shared.Specification[*Order]) (int64, error)
	Exists(ctx context.Context, id string) (bool, error)
}

// ListQuery filtered, paginated listing
type ListQuery struct {
	Spec   shared.Specification[*Order]
	Offset int
	Limit  int
}

// ItemRepository read access to items across orders
type ItemRepository interface {
	FindItemByID(ctx context.Context, itemID string) (Item, error)
	FindItemsByOrderID(ctx context.Context, orderID string) ([]Item, error)
	FindItemsByVariantID(ctx context.Context, variantID string) ([]Item, error)
}

// AddressRepository read access to order addresses
type AddressRepository interface {
	FindAddressByOrderID(ctx context.Context, orderID string) (Address, error)
}

// ShipmentRepository read access to shipments across orders
type ShipmentRepository interface {
	FindShipmentByID(ctx context.Context, shipmentID string) (Shipment, error)
	FindShipmentsByOrderID(ctx context.Context, orderID string) ([]Shipment, error)
	FindShipmentByTrackingNumber(ctx context.Context, trackingNumber string) (Shipment, error)
}

// StatusHistoryRepository append-only status audit trail
type StatusHistoryRepository interface {
	Append(ctx context.Context, entry StatusHistory) error
	FindByOrderID(ctx context.Context, orderID string) ([]StatusHistory, error)
}

// EventLogRepository append-only order event log
type EventLogRepository interface {
	// Append stores the entry and returns it with its assigned id
	Append(ctx context.Context, event AuditEvent) (AuditEvent, error)
	FindByOrderID(ctx context.Context, orderID string) ([]AuditEvent, error)
}
