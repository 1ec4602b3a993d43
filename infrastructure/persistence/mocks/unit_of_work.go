package mocks

import (
	"context"
	"sync"

	"commerce/domain/shared"
	"commerce/pkg/logger"

	"go.uber.org/zap"
)

// MockUnitOfWork runs fn without a transaction and collects the events of
// registered aggregates after fn succeeds, the way the outbox would.
type MockUnitOfWork struct {
	outbox     *MockOutbox
	aggregates []shared.AggregateRoot
}

func NewMockUnitOfWork(outbox *MockOutbox) *MockUnitOfWork {
	return &MockUnitOfWork{outbox: outbox}
}

func (u *MockUnitOfWork) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	u.aggregates = nil

	if err := fn(ctx); err != nil {
		return err
	}

	for _, agg := range u.aggregates {
		for _, event := range agg.PendingEvents() {
			if err := shared.ValidateEvent(event); err != nil {
				return err
			}
			if u.outbox != nil {
				u.outbox.add(event)
			}
			logger.Debug("Mock outbox event saved",
				zap.String("event_type", event.EventName()),
				zap.String("aggregate_id", agg.ID()),
			)
		}
	}
	for _, agg := range u.aggregates {
		agg.PullEvents()
	}
	return nil
}

func (u *MockUnitOfWork) RegisterNew(aggregate shared.AggregateRoot) {
	u.aggregates = append(u.aggregates, aggregate)
}

func (u *MockUnitOfWork) RegisterDirty(aggregate shared.AggregateRoot) {
	u.aggregates = append(u.aggregates, aggregate)
}

func (u *MockUnitOfWork) RegisterRemoved(aggregate shared.AggregateRoot) {
	u.aggregates = append(u.aggregates, aggregate)
}

// MockOutbox collects saved domain events in memory
type MockOutbox struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func NewMockOutbox() *MockOutbox {
	return &MockOutbox{}
}

func (o *MockOutbox) add(event shared.DomainEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, event)
}

// Events returns a copy of everything saved so far
func (o *MockOutbox) Events() []shared.DomainEvent {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]shared.DomainEvent(nil), o.events...)
}

// MockUnitOfWorkFactory hands out units of work sharing one outbox
type MockUnitOfWorkFactory struct {
	Outbox *MockOutbox
}

func NewMockUnitOfWorkFactory() *MockUnitOfWorkFactory {
	return &MockUnitOfWorkFactory{Outbox: NewMockOutbox()}
}

func (f *MockUnitOfWorkFactory) New() shared.UnitOfWork {
	return NewMockUnitOfWork(f.Outbox)
}

var (
	_ shared.UnitOfWork        = (*MockUnitOfWork)(nil)
	_ shared.UnitOfWorkFactory = (*MockUnitOfWorkFactory)(nil)
)
