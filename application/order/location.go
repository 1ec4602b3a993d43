package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"commerce/domain/catalog"
	"commerce/domain/order"
)

// LocationResolver picks the stock location an inventory call applies to.
type LocationResolver interface {
	// Resolve returns explicitID when set, otherwise a default location.
	Resolve(ctx context.Context, explicitID string) (string, error)
}

// DefaultLocationResolver explicit id, then the configured default, then the
// oldest active warehouse. The warehouse is looked up once and remembered.
type DefaultLocationResolver struct {
	locations catalog.LocationRepository
	defaultID string

	mu         sync.Mutex
	fallbackID string
}

// NewDefaultLocationResolver defaultID is read once from configuration and may be empty.
func NewDefaultLocationResolver(locations catalog.LocationRepository, defaultID string) *DefaultLocationResolver {
	return &DefaultLocationResolver{
		locations: locations,
		defaultID: strings.TrimSpace(defaultID),
	}
}

func (r *DefaultLocationResolver) Resolve(ctx context.Context, explicitID string) (string, error) {
	if id := strings.TrimSpace(explicitID); id != "" {
		loc, err := r.locations.FindLocationByID(ctx, id)
		if err != nil {
			if errors.Is(err, catalog.ErrLocationNotFound) {
				return "", order.NewLocationNotFoundError("location not found: " + id)
			}
			return "", fmt.Errorf("failed to load location %s: %w", id, err)
		}
		if !loc.Active {
			return "", order.NewLocationNotFoundError("location is inactive: " + id)
		}
		return loc.ID, nil
	}

	if r.defaultID != "" {
		return r.defaultID, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fallbackID != "" {
		return r.fallbackID, nil
	}

	loc, err := r.locations.FirstActiveLocation(ctx, catalog.LocationWarehouse)
	if err != nil {
		if errors.Is(err, catalog.ErrLocationNotFound) {
			return "", order.NewLocationNotFoundError("no default location configured and no active warehouse exists")
		}
		return "", fmt.Errorf("failed to find default warehouse: %w", err)
	}
	r.fallbackID = loc.ID
	return loc.ID, nil
}

var _ LocationResolver = (*DefaultLocationResolver)(nil)
