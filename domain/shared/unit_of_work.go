package shared

import "context"

// UnitOfWork manages a transaction boundary and collects aggregate events.
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(ctx context.Context) error) error
	RegisterNew(aggregate AggregateRoot)
	RegisterDirty(aggregate AggregateRoot)
	RegisterRemoved(aggregate AggregateRoot)
}

// UnitOfWorkFactory hands out a fresh UnitOfWork per business operation.
// A UnitOfWork holds per-operation state and must not be shared between requests.
type UnitOfWorkFactory interface {
	New() UnitOfWork
}

// OutboxRepository stores domain events in the same transaction as the aggregate.
type OutboxRepository interface {
	SaveEvent(ctx context.Context, event DomainEvent) error
}
