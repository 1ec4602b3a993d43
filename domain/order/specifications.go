package order

import (
	"context"
	"time"

	"commerce/domain/shared"
)

// ByUserIDSpecification filters orders placed by a registered user
type ByUserIDSpecification struct {
	UserID string
}

// IsSatisfiedBy returns true if the order belongs to the user
func (spec ByUserIDSpecification) IsSatisfiedBy(ctx context.Context, entity *Order) bool {
	id, ok := entity.Customer().UserID()
	return ok && id == spec.UserID
}

// ByGuestTokenSpecification filters orders placed by a guest
type ByGuestTokenSpecification struct {
	GuestToken string
}

// IsSatisfiedBy returns true if the order was placed with the guest token
func (spec ByGuestTokenSpecification) IsSatisfiedBy(ctx context.Context, entity *Order) bool {
	token, ok := entity.Customer().GuestToken()
	return ok && token == spec.GuestToken
}

// ByStatusSpecification filters orders by status
type ByStatusSpecification struct {
	Status Status
}

// IsSatisfiedBy returns true if the order has the specified status
func (spec ByStatusSpecification) IsSatisfiedBy(ctx context.Context, entity *Order) bool {
	return entity.Status() == spec.Status
}

// BySourceSpecification filters orders by sales channel
type BySourceSpecification struct {
	Source Source
}

// IsSatisfiedBy returns true if the order came through the channel
func (spec BySourceSpecification) IsSatisfiedBy(ctx context.Context, entity *Order) bool {
	return entity.Source() == spec.Source
}

// ByDateRangeSpecification filters orders by creation date range
// Both Start and End are optional - if zero, they are ignored
type ByDateRangeSpecification struct {
	Start time.Time
	End   time.Time
}

// IsSatisfiedBy returns true if the order was created within the date range
func (spec ByDateRangeSpecification) IsSatisfiedBy(ctx context.Context, entity *Order) bool {
	createdAt := entity.CreatedAt()

	if !spec.Start.IsZero() && createdAt.Before(spec.Start) {
		return false
	}
	if !spec.End.IsZero() && createdAt.After(spec.End) {
		return false
	}
	return true
}

// NewByUserIDSpecification creates a specification to filter by user ID
func NewByUserIDSpecification(userID string) shared.Specification[*Order] {
	return ByUserIDSpecification{UserID: userID}
}

// NewByGuestTokenSpecification creates a specification to filter by guest token
func NewByGuestTokenSpecification(token string) shared.Specification[*Order] {
	return ByGuestTokenSpecification{GuestToken: token}
}

// NewByStatusSpecification creates a specification to filter by status
func NewByStatusSpecification(status Status) shared.Specification[*Order] {
	return ByStatusSpecification{Status: status}
}

// NewBySourceSpecification creates a specification to filter by source
func NewBySourceSpecification(source Source) shared.Specification[*Order] {
	return BySourceSpecification{Source: source}
}

// NewByDateRangeSpecification creates a specification to filter by date range
func NewByDateRangeSpecification(start, end time.Time) shared.Specification[*Order] {
	return ByDateRangeSpecification{Start: start, End: end}
}
