package shared

// AggregateRoot is the entry point of an aggregate and owns its consistency boundary.
// All changes to entities inside the aggregate go through it.
type AggregateRoot interface {
	// ID returns the globally unique identifier of the aggregate.
	ID() string

	// Version returns the persisted version used for optimistic locking.
	Version() int

	// PendingEvents returns the recorded domain events without clearing them.
	PendingEvents() []DomainEvent

	// PullEvents returns and clears the domain events recorded since the last pull.
	PullEvents() []DomainEvent
}

// Entity is an object distinguished by identity rather than attributes.
type Entity interface {
	ID() string
}
