/*
Package order Order subdomain - core of the commerce module

The Order aggregate owns its items, address, shipments and totals and is the only
way to change them. Child collections are replaced on every write, never edited in
place, so a failed mutation leaves the aggregate exactly as it was.

Rules enforced here:
1. Status moves only along the transition table in status.go.
2. Items and address change only while the order is created.
3. Totals always satisfy total = subtotal + tax + shipping - discount.
4. An order always has at least one item.
*/
package order

import (
	"fmt"
	"strings"
	"time"

	"commerce/domain/shared"

	"github.com/shopspring/decimal"
)

// Order Order aggregate root
type Order struct {
	id        string
	number    OrderNumber
	customer  Customer
	items     []Item
	address   *Address
	shipments []Shipment
	totals    Totals
	status    Status
	source    Source
	currency  Currency
	version   int // Optimistic lock version, managed by the repository
	createdAt time.Time
	updatedAt time.Time

	events []shared.DomainEvent
	isNew  bool
}

// NewOrderParams Create order options
type NewOrderParams struct {
	Customer Customer
	Currency Currency
	Source   Source
	Items    []NewItemParams
}

// ============================================================================
// Factory
// ============================================================================

// NewOrder Create new Order aggregate root in status created
func NewOrder(p NewOrderParams) (*Order, error) {
	if p.Customer.IsZero() {
		return nil, NewValidationError("customer", "a user id or a guest token is required")
	}
	if p.Currency.IsZero() {
		return nil, NewValidationError("currency", "currency is required")
	}
	if len(p.Items) == 0 {
		return nil, NewEmptyOrderItemsError()
	}
	source := p.Source
	if source == "" {
		source = DefaultSource
	}

	id, err := NewOrderID()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	o := &Order{
		id:       id.String(),
		number:   GenerateOrderNumber(now),
		customer: p.Customer,
		status:   StatusCreated,
		source:   source,
		currency: p.Currency,
		isNew:    true,
	}

	items := make([]Item, 0, len(p.Items))
	for _, req := range p.Items {
		item, err := o.buildItem(req, now)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	subtotal, err := o.subtotalOf(items)
	if err != nil {
		return nil, err
	}
	totals, err := ComputeTotals(subtotal, decimal.Zero, decimal.Zero, decimal.Zero)
	if err != nil {
		return nil, err
	}

	o.items = items
	o.totals = totals
	o.createdAt = now
	o.updatedAt = now
	o.events = []shared.DomainEvent{NewOrderCreatedEvent(o)}

	return o, nil
}

// ============================================================================
// ReconstructionDTO - For Repository Layer Use Only
// ============================================================================

// ReconstructionDTO Order reconstruction data transfer object
// ⚠️ Note: This DTO should only be used in repository implementation
type ReconstructionDTO struct {
	ID         string
	Number     string
	UserID     string
	GuestToken string
	Items      []Item
	Address    *Address
	Shipments  []Shipment
	Totals     Totals
	Status     Status
	Source     Source
	Currency   string
	Version    int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// RebuildFromDTO Reconstruct Order aggregate root from stored state
func RebuildFromDTO(dto ReconstructionDTO) (*Order, error) {
	customer, err := NewCustomer(dto.UserID, dto.GuestToken)
	if err != nil {
		return nil, fmt.Errorf("corrupt order %s: %w", dto.ID, err)
	}
	currency, err := NewCurrency(dto.Currency)
	if err != nil {
		return nil, fmt.Errorf("corrupt order %s: %w", dto.ID, err)
	}
	if !dto.Status.IsValid() {
		return nil, fmt.Errorf("corrupt order %s: unknown status %q", dto.ID, dto.Status)
	}

	var address *Address
	if dto.Address != nil {
		a := *dto.Address
		address = &a
	}

	return &Order{
		id:        dto.ID,
		number:    OrderNumber(dto.Number),
		customer:  customer,
		items:     append([]Item(nil), dto.Items...),
		address:   address,
		shipments: append([]Shipment(nil), dto.Shipments...),
		totals:    dto.Totals,
		status:    dto.Status,
		source:    dto.Source,
		currency:  currency,
		version:   dto.Version,
		createdAt: dto.CreatedAt,
		updatedAt: dto.UpdatedAt,
		isNew:     false,
	}, nil
}

// ============================================================================
// Items
// ============================================================================

// AddItem Add item through aggregate root
func (o *Order) AddItem(p NewItemParams) (Item, error) {
	if err := o.ensureEditable("add items"); err != nil {
		return Item{}, err
	}

	now := time.Now().UTC()
	item, err := o.buildItem(p, now)
	if err != nil {
		return Item{}, err
	}

	items := make([]Item, 0, len(o.items)+1)
	items = append(items, o.items...)
	items = append(items, item)
	if err := o.replaceItems(items, now); err != nil {
		return Item{}, err
	}
	return item, nil
}

// RemoveItem Remove item through aggregate root; the last item cannot be removed
func (o *Order) RemoveItem(itemID string) error {
	if err := o.ensureEditable("remove items"); err != nil {
		return err
	}
	idx := o.indexOfItem(itemID)
	if idx < 0 {
		return NewItemNotFoundError(itemID)
	}
	if len(o.items) == 1 {
		return newLastItemError()
	}

	items := make([]Item, 0, len(o.items)-1)
	items = append(items, o.items[:idx]...)
	items = append(items, o.items[idx+1:]...)
	return o.replaceItems(items, time.Now().UTC())
}

// UpdateItemQuantity Change the quantity of one item
func (o *Order) UpdateItemQuantity(itemID string, quantity int) (Item, error) {
	return o.updateItem(itemID, "update item quantity", func(item Item, now time.Time) (Item, error) {
		return item.withQuantity(quantity, now)
	})
}

// UpdateItemGift Change gift flag and message of one item
func (o *Order) UpdateItemGift(itemID string, isGift bool, message string) (Item, error) {
	return o.updateItem(itemID, "update gift options", func(item Item, now time.Time) (Item, error) {
		return item.withGift(isGift, message, now)
	})
}

func (o *Order) updateItem(itemID, operation string, change func(Item, time.Time) (Item, error)) (Item, error) {
	if err := o.ensureEditable(operation); err != nil {
		return Item{}, err
	}
	idx := o.indexOfItem(itemID)
	if idx < 0 {
		return Item{}, NewItemNotFoundError(itemID)
	}

	now := time.Now().UTC()
	updated, err := change(o.items[idx], now)
	if err != nil {
		return Item{}, err
	}

	items := make([]Item, len(o.items))
	copy(items, o.items)
	items[idx] = updated
	if err := o.replaceItems(items, now); err != nil {
		return Item{}, err
	}
	return updated, nil
}

func (o *Order) buildItem(p NewItemParams, now time.Time) (Item, error) {
	if c := p.Snapshot.UnitPrice().Currency(); c != o.currency.Code() {
		return Item{}, newConsistencyError("currency",
			fmt.Sprintf("item priced in %s cannot be added to a %s order", c, o.currency.Code()))
	}
	return newItem(o.id, p, now)
}

// replaceItems swaps in a new item list and the totals derived from it.
// Nothing changes when the new totals are invalid.
func (o *Order) replaceItems(items []Item, now time.Time) error {
	subtotal, err := o.subtotalOf(items)
	if err != nil {
		return err
	}
	totals, err := o.totals.WithSubtotal(subtotal)
	if err != nil {
		return err
	}
	o.items = items
	o.totals = totals
	o.updatedAt = now
	return nil
}

func (o *Order) subtotalOf(items []Item) (decimal.Decimal, error) {
	sum := shared.Zero(o.currency.Code())
	for _, item := range items {
		var err error
		sum, err = sum.Add(item.LineTotal())
		if err != nil {
			return decimal.Zero, newConsistencyError("currency", err.Error())
		}
	}
	return sum.Amount(), nil
}

func (o *Order) indexOfItem(itemID string) int {
	for i, item := range o.items {
		if item.id == itemID {
			return i
		}
	}
	return -1
}

// ============================================================================
// Totals
// ============================================================================

// UpdateTotals Recompute subtotal from items and replace totals with the given adjustments
func (o *Order) UpdateTotals(tax, shipping, discount decimal.Decimal) error {
	subtotal, err := o.subtotalOf(o.items)
	if err != nil {
		return err
	}
	totals, err := ComputeTotals(subtotal, tax, shipping, discount)
	if err != nil {
		return err
	}
	o.totals = totals
	o.updatedAt = time.Now().UTC()
	return nil
}

// ============================================================================
// Address
// ============================================================================

// SetAddress Set billing and shipping address; replaces any previous address
func (o *Order) SetAddress(billing, shipping AddressSnapshot) (Address, error) {
	if err := o.ensureEditable("set the address"); err != nil {
		return Address{}, err
	}
	if billing.Country() == "" || shipping.Country() == "" {
		return Address{}, NewValidationError("address", "billing and shipping addresses are required")
	}

	now := time.Now().UTC()
	var address Address
	if o.address != nil {
		address = *o.address
		address.billing = billing
		address.shipping = shipping
		address.updatedAt = now
	} else {
		var err error
		address, err = newAddress(o.id, billing, shipping, now)
		if err != nil {
			return Address{}, err
		}
	}

	o.address = &address
	o.updatedAt = now
	return address, nil
}

// ============================================================================
// Shipments
// ============================================================================

// CreateShipment Add a shipment; allowed while paid or fulfilled
func (o *Order) CreateShipment(p ShipmentParams) (Shipment, error) {
	if o.status != StatusPaid && o.status != StatusFulfilled {
		return Shipment{}, newNotEditableError("create a shipment", o.status)
	}

	now := time.Now().UTC()
	shipment, err := NewShipment(o.id, p, now)
	if err != nil {
		return Shipment{}, err
	}

	shipments := make([]Shipment, 0, len(o.shipments)+1)
	shipments = append(shipments, o.shipments...)
	shipments = append(shipments, shipment)
	o.shipments = shipments
	o.updatedAt = now
	o.events = append(o.events, NewShipmentEvent(EventShipmentCreated, shipment, now))
	return shipment, nil
}

// MarkShipmentShipped Record a shipment leaving the warehouse. Carrier, service
// and tracking are optional; blank ones keep the values given at creation.
// Shipping and delivery are refused only once the order is cancelled.
func (o *Order) MarkShipmentShipped(shipmentID, carrier, service, trackingNumber string, at time.Time) (Shipment, error) {
	shipment, err := o.updateShipment(shipmentID, "ship a shipment", func(s Shipment) (Shipment, error) {
		return s.ship(carrier, service, trackingNumber, at)
	})
	if err != nil {
		return Shipment{}, err
	}
	o.events = append(o.events, NewShipmentEvent(EventShipmentShipped, shipment, at))
	return shipment, nil
}

// MarkShipmentDelivered Record delivery of a shipped shipment
func (o *Order) MarkShipmentDelivered(shipmentID string, at time.Time) (Shipment, error) {
	shipment, err := o.updateShipment(shipmentID, "deliver a shipment", func(s Shipment) (Shipment, error) {
		return s.deliver(at)
	})
	if err != nil {
		return Shipment{}, err
	}
	o.events = append(o.events, NewShipmentEvent(EventShipmentDelivered, shipment, at))
	return shipment, nil
}

func (o *Order) updateShipment(shipmentID, operation string, change func(Shipment) (Shipment, error)) (Shipment, error) {
	if o.status == StatusCancelled {
		return Shipment{}, newNotEditableError(operation, o.status)
	}
	idx := -1
	for i, s := range o.shipments {
		if s.id == shipmentID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Shipment{}, NewShipmentNotFoundError(shipmentID)
	}

	updated, err := change(o.shipments[idx])
	if err != nil {
		return Shipment{}, err
	}

	shipments := make([]Shipment, len(o.shipments))
	copy(shipments, o.shipments)
	shipments[idx] = updated
	o.shipments = shipments
	o.updatedAt = time.Now().UTC()
	return updated, nil
}

// ============================================================================
// State Change Methods
// ============================================================================
//
// Every method checks the transition table first, then its own guard.
// Version is NOT incremented here; the repository does that after a successful save.

// CanTransitionTo reports whether target is reachable from the current status.
func (o *Order) CanTransitionTo(target Status) bool {
	return o.status.CanTransitionTo(target)
}

// MarkAsPaid created -> paid; requires an address
func (o *Order) MarkAsPaid() error {
	if !o.CanTransitionTo(StatusPaid) {
		return newTransitionError(o.status, StatusPaid)
	}
	if o.address == nil {
		return newGuardError(o.status, StatusPaid, "an address is required before payment")
	}
	o.transition(StatusPaid, "")
	return nil
}

// MarkAsFulfilled paid -> fulfilled; requires at least one shipment
func (o *Order) MarkAsFulfilled() error {
	if !o.CanTransitionTo(StatusFulfilled) {
		return newTransitionError(o.status, StatusFulfilled)
	}
	if len(o.shipments) == 0 {
		return newGuardError(o.status, StatusFulfilled, "at least one shipment is required")
	}
	o.transition(StatusFulfilled, "")
	return nil
}

// Cancel created|paid -> cancelled; fulfilled orders cannot be cancelled
func (o *Order) Cancel(reason string) error {
	if o.status == StatusFulfilled {
		return newGuardError(o.status, StatusCancelled, "fulfilled orders cannot be cancelled")
	}
	if !o.CanTransitionTo(StatusCancelled) {
		return newTransitionError(o.status, StatusCancelled)
	}
	o.transition(StatusCancelled, strings.TrimSpace(reason))
	return nil
}

// Refund paid|fulfilled|partially_returned -> refunded
func (o *Order) Refund(reason string) error {
	switch o.status {
	case StatusPaid, StatusFulfilled, StatusPartiallyReturned:
	default:
		return newGuardError(o.status, StatusRefunded, "only paid, fulfilled or partially returned orders can be refunded")
	}
	if !o.CanTransitionTo(StatusRefunded) {
		return newTransitionError(o.status, StatusRefunded)
	}
	o.transition(StatusRefunded, strings.TrimSpace(reason))
	return nil
}

// MarkAsPartiallyReturned fulfilled -> partially_returned
func (o *Order) MarkAsPartiallyReturned() error {
	if !o.CanTransitionTo(StatusPartiallyReturned) {
		return newTransitionError(o.status, StatusPartiallyReturned)
	}
	o.transition(StatusPartiallyReturned, "")
	return nil
}

// UpdateStatus generic entry point; dispatches to the specific transition so its
// guard applies.
func (o *Order) UpdateStatus(target Status, reason string) error {
	if !target.IsValid() {
		return NewValidationError("status", "unknown order status: "+string(target))
	}
	switch target {
	case StatusPaid:
		return o.MarkAsPaid()
	case StatusFulfilled:
		return o.MarkAsFulfilled()
	case StatusCancelled:
		return o.Cancel(reason)
	case StatusRefunded:
		return o.Refund(reason)
	case StatusPartiallyReturned:
		return o.MarkAsPartiallyReturned()
	default:
		return newTransitionError(o.status, target)
	}
}

func (o *Order) transition(target Status, reason string) {
	from := o.status
	now := time.Now().UTC()
	o.status = target
	o.updatedAt = now
	o.events = append(o.events, NewOrderStatusChangedEvent(o.id, from, target, reason, now))
}

func (o *Order) ensureEditable(operation string) error {
	if !o.status.IsEditable() {
		return newNotEditableError(operation, o.status)
	}
	return nil
}

// ============================================================================
// Persistence hooks - repository use only
// ============================================================================

// IncrementVersionForSave Increments the version after successful persistence
func (o *Order) IncrementVersionForSave() {
	o.version++
}

// IsNew Returns true if this aggregate was created in memory and never saved
func (o *Order) IsNew() bool { return o.isNew }

// MarkPersisted clears the new flag after the first successful save
func (o *Order) MarkPersisted() { o.isNew = false }

// PendingEvents copy of the events not yet pulled
func (o *Order) PendingEvents() []shared.DomainEvent {
	return append([]shared.DomainEvent(nil), o.events...)
}

// PullEvents Get and clear aggregate root's event list
func (o *Order) PullEvents() []shared.DomainEvent {
	events := o.events
	o.events = nil
	return events
}

// ============================================================================
// Getters
// ============================================================================

func (o *Order) ID() string            { return o.id }
func (o *Order) Number() OrderNumber   { return o.number }
func (o *Order) Customer() Customer    { return o.customer }
func (o *Order) Totals() Totals        { return o.totals }
func (o *Order) Status() Status        { return o.status }
func (o *Order) Source() Source        { return o.source }
func (o *Order) Currency() Currency    { return o.currency }
func (o *Order) Version() int          { return o.version }
func (o *Order) CreatedAt() time.Time  { return o.createdAt }
func (o *Order) UpdatedAt() time.Time  { return o.updatedAt }
func (o *Order) ItemCount() int        { return len(o.items) }
func (o *Order) HasAddress() bool      { return o.address != nil }
func (o *Order) ShipmentCount() int    { return len(o.shipments) }

// Items Return copy of order items
func (o *Order) Items() []Item {
	items := make([]Item, len(o.items))
	copy(items, o.items)
	return items
}

// Item returns one item by id.
func (o *Order) Item(itemID string) (Item, bool) {
	if idx := o.indexOfItem(itemID); idx >= 0 {
		return o.items[idx], true
	}
	return Item{}, false
}

// Address returns the order address, if set.
func (o *Order) Address() (Address, bool) {
	if o.address == nil {
		return Address{}, false
	}
	return *o.address, true
}

// Shipments Return copy of shipments in creation order
func (o *Order) Shipments() []Shipment {
	shipments := make([]Shipment, len(o.shipments))
	copy(shipments, o.shipments)
	return shipments
}

// Compile-time check that Order implements AggregateRoot interface
var _ shared.AggregateRoot = (*Order)(nil)
