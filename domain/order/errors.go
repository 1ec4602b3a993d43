/*
Package order - order domain errors

Design:
 1. Sentinel errors support errors.Is() checks for the specific failure.
 2. Every constructed error also unwraps to a shared category sentinel
    (shared.ErrInvalidInput, shared.ErrNotFound, ...), so callers outside the
    domain can classify it without knowing the order package.
 3. Constructors capture the stack at creation time.
 4. No HTTP status codes or other transport concepts.
*/
package order

import (
	"errors"
	"fmt"

	"commerce/domain/shared"
)

var (
	// ErrValidation order input failed validation
	ErrValidation = errors.New("invalid order input")

	// ErrOrderNotFound order not found
	ErrOrderNotFound = errors.New("order not found")

	// ErrItemNotFound order item not found
	ErrItemNotFound = errors.New("order item not found")

	// ErrShipmentNotFound shipment not found
	ErrShipmentNotFound = errors.New("shipment not found")

	// ErrAddressNotFound order has no address
	ErrAddressNotFound = errors.New("order address not found")

	// ErrVariantNotFound catalog variant referenced by a line does not exist
	ErrVariantNotFound = errors.New("variant not found")

	// ErrProductNotFound catalog product behind a variant does not exist
	ErrProductNotFound = errors.New("product not found")

	// ErrLocationNotFound no fulfillment location could be resolved
	ErrLocationNotFound = errors.New("fulfillment location not found")

	// ErrInvalidTransition status change not allowed by the transition table or its guards
	ErrInvalidTransition = errors.New("invalid order status transition")

	// ErrOrderNotEditable items, address or shipments cannot change in the current status
	ErrOrderNotEditable = errors.New("order cannot be modified in its current status")

	// ErrShipmentState shipment lifecycle step already happened
	ErrShipmentState = errors.New("shipment cannot change in its current state")

	// ErrLastItem removing the item would leave the order empty
	ErrLastItem = errors.New("order must keep at least one item")

	// ErrEmptyOrderItems order created without items
	ErrEmptyOrderItems = errors.New("order must have at least one item")

	// ErrInsufficientStock requested quantity exceeds available stock at creation time
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrTotalsMismatch totals do not satisfy total = subtotal + tax + shipping - discount
	ErrTotalsMismatch = errors.New("order totals are inconsistent")

	// ErrConcurrentModification the order was changed by another transaction (optimistic lock)
	ErrConcurrentModification = errors.New("order was modified by another transaction, please retry")
)

// orderDomainError order domain error with stack
type orderDomainError struct {
	sentinel error
	category error
	entity   string
	field    string
	message  string
	stack    []uintptr
}

func (e *orderDomainError) Error() string {
	return e.message
}

// Unwrap exposes both the specific sentinel and the shared category.
func (e *orderDomainError) Unwrap() []error {
	return []error{e.sentinel, e.category}
}

// Field returns the offending input field, if any.
func (e *orderDomainError) Field() string {
	return e.field
}

// Stack implements shared.Stacker
func (e *orderDomainError) Stack() []string {
	if len(e.stack) == 0 {
		return nil
	}
	return shared.FormatStack(e.stack)
}

func newError(sentinel, category error, entity, field, message string) error {
	return &orderDomainError{
		sentinel: sentinel,
		category: category,
		entity:   entity,
		field:    field,
		message:  message,
		stack:    shared.CaptureStack(4),
	}
}

// NewValidationError creates a validation error for field.
func NewValidationError(field, message string) error {
	return newError(ErrValidation, shared.ErrInvalidInput, "order", field, message)
}

// NewOrderNotFoundError creates an order-not-found error.
func NewOrderNotFoundError(orderID string) error {
	return newError(ErrOrderNotFound, shared.ErrNotFound, "order", "", "order not found: "+orderID)
}

// NewItemNotFoundError creates an item-not-found error.
func NewItemNotFoundError(itemID string) error {
	return newError(ErrItemNotFound, shared.ErrNotFound, "order_item", "", "order item not found: "+itemID)
}

// NewShipmentNotFoundError creates a shipment-not-found error.
func NewShipmentNotFoundError(ref string) error {
	return newError(ErrShipmentNotFound, shared.ErrNotFound, "shipment", "", "shipment not found: "+ref)
}

// NewAddressNotFoundError creates an address-not-found error.
func NewAddressNotFoundError(orderID string) error {
	return newError(ErrAddressNotFound, shared.ErrNotFound, "order_address", "", "order "+orderID+" has no address")
}

// NewVariantNotFoundError creates a variant-not-found error.
func NewVariantNotFoundError(variantID string) error {
	return newError(ErrVariantNotFound, shared.ErrNotFound, "variant", "variant_id", "variant not found: "+variantID)
}

// NewProductNotFoundError creates a product-not-found error.
func NewProductNotFoundError(productID string) error {
	return newError(ErrProductNotFound, shared.ErrNotFound, "product", "", "product not found: "+productID)
}

// NewLocationNotFoundError creates a location resolution error.
func NewLocationNotFoundError(message string) error {
	return newError(ErrLocationNotFound, shared.ErrNotFound, "location", "location_id", message)
}

// NewInsufficientStockError reports a stock shortfall for a variant at a location.
func NewInsufficientStockError(variantID, locationID string, requested, available int) error {
	return newError(ErrInsufficientStock, shared.ErrConflict, "stock", "quantity",
		fmt.Sprintf("insufficient stock for variant %s at location %s: requested %d, available %d",
			variantID, locationID, requested, available))
}

// NewConcurrentModificationError creates an optimistic locking conflict error.
func NewConcurrentModificationError(orderID string) error {
	return newError(ErrConcurrentModification, shared.ErrConflict, "order", "",
		"order "+orderID+" was modified by another transaction, please retry")
}

// NewEmptyOrderItemsError creates an empty-items error.
func NewEmptyOrderItemsError() error {
	return newError(ErrEmptyOrderItems, shared.ErrInvalidInput, "order", "items", "order must have at least one item")
}

func newTransitionError(from, to Status) error {
	return newError(ErrInvalidTransition, shared.ErrInvalidState, "order", "status",
		fmt.Sprintf("cannot transition order from %s to %s", from, to))
}

func newGuardError(from, to Status, reason string) error {
	return newError(ErrInvalidTransition, shared.ErrInvalidState, "order", "status",
		fmt.Sprintf("cannot transition order from %s to %s: %s", from, to, reason))
}

func newNotEditableError(operation string, status Status) error {
	return newError(ErrOrderNotEditable, shared.ErrInvalidState, "order", "status",
		fmt.Sprintf("cannot %s while order is %s", operation, status))
}

func newShipmentStateError(shipmentID, reason string) error {
	return newError(ErrShipmentState, shared.ErrInvalidState, "shipment", "",
		fmt.Sprintf("shipment %s %s", shipmentID, reason))
}

func newLastItemError() error {
	return newError(ErrLastItem, shared.ErrInvalidState, "order", "items", "cannot remove the last item of an order")
}

func newTotalsMismatchError(message string) error {
	return newError(ErrTotalsMismatch, shared.ErrConsistency, "order_totals", "total", message)
}

func newConsistencyError(field, message string) error {
	return newError(ErrTotalsMismatch, shared.ErrConsistency, "order", field, message)
}
