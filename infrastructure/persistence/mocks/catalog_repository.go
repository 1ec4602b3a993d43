package mocks

import (
	"context"
	"sort"
	"sync"

	"commerce/domain/catalog"
)

// MockCatalogRepository in-memory products, variants and locations
type MockCatalogRepository struct {
	mu        sync.RWMutex
	products  map[string]catalog.Product
	variants  map[string]catalog.Variant
	locations map[string]catalog.Location
}

func NewMockCatalogRepository() *MockCatalogRepository {
	return &MockCatalogRepository{
		products:  make(map[string]catalog.Product),
		variants:  make(map[string]catalog.Variant),
		locations: make(map[string]catalog.Location),
	}
}

func (r *MockCatalogRepository) FindVariantByID(ctx context.Context, id string) (*catalog.Variant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.variants[id]
	if !ok {
		return nil, catalog.NotFound(catalog.ErrVariantNotFound, id)
	}
	return &v, nil
}

func (r *MockCatalogRepository) FindProductByID(ctx context.Context, id string) (*catalog.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.products[id]
	if !ok {
		return nil, catalog.NotFound(catalog.ErrProductNotFound, id)
	}
	return &p, nil
}

func (r *MockCatalogRepository) SaveProduct(ctx context.Context, p *catalog.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[p.ID] = *p
	return nil
}

func (r *MockCatalogRepository) SaveVariant(ctx context.Context, v *catalog.Variant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.variants[v.ID] = *v
	return nil
}

func (r *MockCatalogRepository) FindLocationByID(ctx context.Context, id string) (*catalog.Location, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.locations[id]
	if !ok {
		return nil, catalog.NotFound(catalog.ErrLocationNotFound, id)
	}
	return &l, nil
}

func (r *MockCatalogRepository) FirstActiveLocation(ctx context.Context, t catalog.LocationType) (*catalog.Location, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	candidates := make([]catalog.Location, 0, len(r.locations))
	for _, l := range r.locations {
		if l.Type == t && l.Active {
			candidates = append(candidates, l)
		}
	}
	if len(candidates) == 0 {
		return nil, catalog.NotFound(catalog.ErrLocationNotFound, "active "+string(t))
	}
	sort.Slice(candidates, func(i, j int) bool {
		if !candidates[i].CreatedAt.Equal(candidates[j].CreatedAt) {
			return candidates[i].CreatedAt.Before(candidates[j].CreatedAt)
		}
		return candidates[i].ID < candidates[j].ID
	})
	first := candidates[0]
	return &first, nil
}

func (r *MockCatalogRepository) SaveLocation(ctx context.Context, l *catalog.Location) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.locations[l.ID] = *l
	return nil
}

var (
	_ catalog.Reader             = (*MockCatalogRepository)(nil)
	_ catalog.Writer             = (*MockCatalogRepository)(nil)
	_ catalog.LocationRepository = (*MockCatalogRepository)(nil)
)
