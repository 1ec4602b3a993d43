package order

import (
	"context"
	"testing"
	"time"

	"commerce/domain/catalog"
	"commerce/domain/order"
	"commerce/infrastructure/persistence/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLocationResolver(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	locations := mocks.NewMockCatalogRepository()
	for _, l := range []catalog.Location{
		{ID: "wh-new", Type: catalog.LocationWarehouse, Active: true, CreatedAt: base.Add(48 * time.Hour)},
		{ID: "wh-old", Type: catalog.LocationWarehouse, Active: true, CreatedAt: base},
		{ID: "store-1", Type: catalog.LocationStore, Active: true, CreatedAt: base.Add(-time.Hour)},
		{ID: "store-closed", Type: catalog.LocationStore, Active: false, CreatedAt: base},
	} {
		require.NoError(t, locations.SaveLocation(ctx, &l))
	}

	testCases := []struct {
		name      string
		defaultID string
		explicit  string
		want      string
		wantErr   error
	}{
		{name: "explicit wins", defaultID: "wh-new", explicit: " store-1 ", want: "store-1"},
		{name: "explicit inactive", explicit: "store-closed", wantErr: order.ErrLocationNotFound},
		{name: "explicit unknown", explicit: "nowhere", wantErr: order.ErrLocationNotFound},
		{name: "configured default", defaultID: "wh-new", want: "wh-new"},
		{name: "oldest active warehouse", want: "wh-old"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NewDefaultLocationResolver(locations, tc.defaultID).Resolve(ctx, tc.explicit)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDefaultLocationResolverWithoutWarehouse(t *testing.T) {
	locations := mocks.NewMockCatalogRepository()
	require.NoError(t, locations.SaveLocation(context.Background(), &catalog.Location{ID: "store-1", Type: catalog.LocationStore, Active: true}))

	_, err := NewDefaultLocationResolver(locations, "").Resolve(context.Background(), "")
	assert.ErrorIs(t, err, order.ErrLocationNotFound)
}

type countingLocations struct {
	catalog.LocationRepository
	lookups int
}

func (c *countingLocations) FirstActiveLocation(ctx context.Context, t catalog.LocationType) (*catalog.Location, error) {
	c.lookups++
	return c.LocationRepository.FirstActiveLocation(ctx, t)
}

func TestDefaultLocationResolverRemembersWarehouse(t *testing.T) {
	ctx := context.Background()
	repo := mocks.NewMockCatalogRepository()
	locations := &countingLocations{LocationRepository: repo}
	resolver := NewDefaultLocationResolver(locations, "")

	_, err := resolver.Resolve(ctx, "")
	require.ErrorIs(t, err, order.ErrLocationNotFound)

	require.NoError(t, repo.SaveLocation(ctx, &catalog.Location{ID: "wh-1", Type: catalog.LocationWarehouse, Active: true}))
	for i := 0; i < 3; i++ {
		got, err := resolver.Resolve(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, "wh-1", got)
	}
	assert.Equal(t, 2, locations.lookups)

	got, err := resolver.Resolve(ctx, "wh-1")
	require.NoError(t, err)
	assert.Equal(t, "wh-1", got)
	assert.Equal(t, 2, locations.lookups)
}
