package mocks

import (
	"context"
	"sync"

	"commerce/domain/order"
)

// MockStatusHistoryRepository in-memory status trail, kept in append order
type MockStatusHistoryRepository struct {
	mu      sync.RWMutex
	entries []order.StatusHistory
}

func NewMockStatusHistoryRepository() *MockStatusHistoryRepository {
	return &MockStatusHistoryRepository{}
}

func (r *MockStatusHistoryRepository) Append(ctx context.Context, entry order.StatusHistory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
	return nil
}

func (r *MockStatusHistoryRepository) FindByOrderID(ctx context.Context, orderID string) ([]order.StatusHistory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := []order.StatusHistory{}
	for _, e := range r.entries {
		if e.OrderID() == orderID {
			result = append(result, e)
		}
	}
	return result, nil
}

// MockEventLogRepository in-memory audit log with sequential ids
type MockEventLogRepository struct {
	mu     sync.RWMutex
	nextID int64
	events []order.AuditEvent
	// FailOn makes Append fail for the given event type
	FailOn map[string]error
}

func NewMockEventLogRepository() *MockEventLogRepository {
	return &MockEventLogRepository{FailOn: map[string]error{}}
}

func (r *MockEventLogRepository) Append(ctx context.Context, event order.AuditEvent) (order.AuditEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.FailOn[event.EventType()]; err != nil {
		return order.AuditEvent{}, err
	}
	r.nextID++
	stored := event.WithID(r.nextID)
	r.events = append(r.events, stored)
	return stored, nil
}

func (r *MockEventLogRepository) FindByOrderID(ctx context.Context, orderID string) ([]order.AuditEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := []order.AuditEvent{}
	for _, e := range r.events {
		if e.OrderID() == orderID {
			result = append(result, e)
		}
	}
	return result, nil
}

var (
	_ order.StatusHistoryRepository = (*MockStatusHistoryRepository)(nil)
	_ order.EventLogRepository      = (*MockEventLogRepository)(nil)
)
