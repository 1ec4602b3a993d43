package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"commerce/domain/inventory"
)

type stockKey struct{ variantID, locationID string }

// InventoryCall one recorded inventory request
type InventoryCall struct {
	Op          string
	VariantID   string
	LocationID  string
	Quantity    int
	Reason      inventory.Reason
	ReferenceID string
}

// MockInventory in-memory stock levels using the same arithmetic as the
// GORM repository. Every call is recorded; Fail injects errors per variant.
type MockInventory struct {
	mu        sync.Mutex
	levels    map[stockKey]inventory.Stock
	movements []inventory.Movement
	calls     []InventoryCall
	// Fail keyed by variant id, returned by AdjustStock and ReserveStock
	Fail map[string]error
}

func NewMockInventory() *MockInventory {
	return &MockInventory{
		levels: make(map[stockKey]inventory.Stock),
		Fail:   make(map[string]error),
	}
}

// SetStock seeds a stock level
func (m *MockInventory) SetStock(variantID, locationID string, available, reserved int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.levels[stockKey{variantID, locationID}] = inventory.Stock{
		VariantID:  variantID,
		LocationID: locationID,
		Available:  available,
		Reserved:   reserved,
		UpdatedAt:  time.Now().UTC(),
	}
}

func (m *MockInventory) GetStock(ctx context.Context, variantID, locationID string) (*inventory.Stock, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.levels[stockKey{variantID, locationID}]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (m *MockInventory) AdjustStock(ctx context.Context, variantID, locationID string, delta int, reason inventory.Reason, referenceID string) error {
	m.record(InventoryCall{Op: "adjust", VariantID: variantID, LocationID: locationID, Quantity: delta, Reason: reason, ReferenceID: referenceID})
	return m.change(variantID, locationID, referenceID, delta > 0, func(s inventory.Stock) (inventory.Stock, inventory.Movement, error) {
		return inventory.Adjust(s, delta, reason)
	})
}

func (m *MockInventory) ReserveStock(ctx context.Context, variantID, locationID string, quantity int) error {
	m.record(InventoryCall{Op: "reserve", VariantID: variantID, LocationID: locationID, Quantity: quantity, Reason: inventory.ReasonReservation})
	return m.change(variantID, locationID, "", false, func(s inventory.Stock) (inventory.Stock, inventory.Movement, error) {
		return inventory.Reserve(s, quantity)
	})
}

// Calls every request received so far, in order
func (m *MockInventory) Calls() []InventoryCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]InventoryCall(nil), m.calls...)
}

// Movements ledger rows written so far
func (m *MockInventory) Movements() []inventory.Movement {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]inventory.Movement(nil), m.movements...)
}

func (m *MockInventory) record(call InventoryCall) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call)
}

func (m *MockInventory) change(
	variantID, locationID, referenceID string,
	createMissing bool,
	apply func(inventory.Stock) (inventory.Stock, inventory.Movement, error),
) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.Fail[variantID]; err != nil {
		return err
	}

	key := stockKey{variantID, locationID}
	current, ok := m.levels[key]
	if !ok {
		if !createMissing {
			return fmt.Errorf("%w: variant %s at location %s", inventory.ErrStockNotFound, variantID, locationID)
		}
		current = inventory.Stock{VariantID: variantID, LocationID: locationID}
	}

	next, movement, err := apply(current)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	next.UpdatedAt = now
	m.levels[key] = next

	movement.ID = int64(len(m.movements) + 1)
	movement.ReferenceID = referenceID
	movement.CreatedAt = now
	m.movements = append(m.movements, movement)
	return nil
}

var _ inventory.Service = (*MockInventory)(nil)
