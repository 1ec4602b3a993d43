package mocks

import (
	"context"
	"sort"
	"sync"

	"commerce/domain/order"
	"commerce/domain/shared"
)

// MockOrderRepository in-memory order store.
// Orders are stored as detached copies so callers see the same version
// semantics as the GORM repository: an Update against a stale copy fails.
type MockOrderRepository struct {
	orders map[string]*order.Order
	mu     sync.RWMutex
}

// NewMockOrderRepository Create Mock order repository
func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{orders: make(map[string]*order.Order)}
}

// detach copies the persistent state of o; pending events are not carried over
func detach(o *order.Order) *order.Order {
	userID, _ := o.Customer().UserID()
	guestToken, _ := o.Customer().GuestToken()

	var address *order.Address
	if a, ok := o.Address(); ok {
		address = &a
	}

	c, err := order.RebuildFromDTO(order.ReconstructionDTO{
		ID:         o.ID(),
		Number:     o.Number().String(),
		UserID:     userID,
		GuestToken: guestToken,
		Items:      o.Items(),
		Address:    address,
		Shipments:  o.Shipments(),
		Totals:     o.Totals(),
		Status:     o.Status(),
		Source:     o.Source(),
		Currency:   o.Currency().Code(),
		Version:    o.Version(),
		CreatedAt:  o.CreatedAt(),
		UpdatedAt:  o.UpdatedAt(),
	})
	if err != nil {
		// o came from the domain factory or a rebuild, so its state is valid
		panic(err)
	}
	return c
}

func (r *MockOrderRepository) Save(ctx context.Context, o *order.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.orders[o.ID()]; exists {
		return shared.NewConflictError("order", "order "+o.ID()+" already exists")
	}
	for _, existing := range r.orders {
		if existing.Number() == o.Number() {
			return shared.NewConflictError("order", "order number "+o.Number().String()+" already exists")
		}
	}

	o.IncrementVersionForSave()
	o.MarkPersisted()
	r.orders[o.ID()] = detach(o)
	return nil
}

func (r *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.orders[o.ID()]
	if !exists {
		return order.NewOrderNotFoundError(o.ID())
	}
	if existing.Version() != o.Version() {
		return order.NewConcurrentModificationError(o.ID())
	}

	o.IncrementVersionForSave()
	r.orders[o.ID()] = detach(o)
	return nil
}

func (r *MockOrderRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.orders[id]; !exists {
		return order.NewOrderNotFoundError(id)
	}
	delete(r.orders, id)
	return nil
}

func (r *MockOrderRepository) FindByID(ctx context.Context, id string) (*order.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, exists := r.orders[id]
	if !exists {
		return nil, order.NewOrderNotFoundError(id)
	}
	return detach(o), nil
}

func (r *MockOrderRepository) FindByOrderNumber(ctx context.Context, number order.OrderNumber) (*order.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, o := range r.orders {
		if o.Number() == number {
			return detach(o), nil
		}
	}
	return nil, order.NewOrderNotFoundError(number.String())
}

// List evaluates the specification in memory, newest first
func (r *MockOrderRepository) List(ctx context.Context, query order.ListQuery) ([]*order.Order, error) {
	matched := r.match(ctx, query.Spec)
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt().Equal(matched[j].CreatedAt()) {
			return matched[i].CreatedAt().After(matched[j].CreatedAt())
		}
		return matched[i].ID() > matched[j].ID()
	})

	if query.Offset >= len(matched) {
		return []*order.Order{}, nil
	}
	matched = matched[query.Offset:]
	if query.Limit > 0 && query.Limit < len(matched) {
		matched = matched[:query.Limit]
	}
	return matched, nil
}

func (r *MockOrderRepository) Count(ctx context.Context, spec shared.Specification[*order.Order]) (int64, error) {
	return int64(len(r.match(ctx, spec))), nil
}

func (r *MockOrderRepository) Exists(ctx context.Context, id string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.orders[id]
	return exists, nil
}

func (r *MockOrderRepository) match(ctx context.Context, spec shared.Specification[*order.Order]) []*order.Order {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]*order.Order, 0, len(r.orders))
	for _, o := range r.orders {
		if spec == nil || spec.IsSatisfiedBy(ctx, o) {
			matched = append(matched, detach(o))
		}
	}
	return matched
}

// Component lookups, answered from the stored aggregates

func (r *MockOrderRepository) FindItemByID(ctx context.Context, itemID string) (order.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, o := range r.orders {
		if item, ok := o.Item(itemID); ok {
			return item, nil
		}
	}
	return order.Item{}, order.NewItemNotFoundError(itemID)
}

func (r *MockOrderRepository) FindItemsByOrderID(ctx context.Context, orderID string) ([]order.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, exists := r.orders[orderID]
	if !exists {
		return nil, order.NewOrderNotFoundError(orderID)
	}
	return o.Items(), nil
}

func (r *MockOrderRepository) FindItemsByVariantID(ctx context.Context, variantID string) ([]order.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := []order.Item{}
	for _, o := range r.orders {
		for _, item := range o.Items() {
			if item.VariantID() == variantID {
				items = append(items, item)
			}
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt().Before(items[j].CreatedAt()) })
	return items, nil
}

func (r *MockOrderRepository) FindAddressByOrderID(ctx context.Context, orderID string) (order.Address, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, exists := r.orders[orderID]
	if !exists {
		return order.Address{}, order.NewOrderNotFoundError(orderID)
	}
	address, ok := o.Address()
	if !ok {
		return order.Address{}, order.NewAddressNotFoundError(orderID)
	}
	return address, nil
}

func (r *MockOrderRepository) FindShipmentByID(ctx context.Context, shipmentID string) (order.Shipment, error) {
	return r.findShipment(shipmentID, func(s order.Shipment) bool { return s.ID() == shipmentID })
}

func (r *MockOrderRepository) FindShipmentByTrackingNumber(ctx context.Context, trackingNumber string) (order.Shipment, error) {
	return r.findShipment(trackingNumber, func(s order.Shipment) bool { return s.TrackingNumber() == trackingNumber })
}

func (r *MockOrderRepository) FindShipmentsByOrderID(ctx context.Context, orderID string) ([]order.Shipment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, exists := r.orders[orderID]
	if !exists {
		return nil, order.NewOrderNotFoundError(orderID)
	}
	return o.Shipments(), nil
}

func (r *MockOrderRepository) findShipment(ref string, match func(order.Shipment) bool) (order.Shipment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, o := range r.orders {
		for _, s := range o.Shipments() {
			if match(s) {
				return s, nil
			}
		}
	}
	return order.Shipment{}, order.NewShipmentNotFoundError(ref)
}

var (
	_ order.Repository         = (*MockOrderRepository)(nil)
	_ order.ItemRepository     = (*MockOrderRepository)(nil)
	_ order.AddressRepository  = (*MockOrderRepository)(nil)
	_ order.ShipmentRepository = (*MockOrderRepository)(nil)
)
