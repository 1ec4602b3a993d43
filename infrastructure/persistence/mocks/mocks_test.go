package mocks

import (
	"context"
	"errors"
	"testing"
	"time"

	"commerce/domain/catalog"
	"commerce/domain/inventory"
	"commerce/domain/order"
	"commerce/domain/shared"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrder(t *testing.T, userID string) *order.Order {
	t.Helper()
	snap, err := order.NewProductSnapshot(order.ProductSnapshotParams{
		ProductID: "p-1",
		VariantID: "v-1",
		SKU:       "SKU-1",
		Name:      "Trail Runner",
		UnitPrice: shared.NewMoney(decimal.RequireFromString("49.99"), "USD"),
	})
	require.NoError(t, err)
	customer, err := order.NewCustomer(userID, "")
	require.NoError(t, err)

	o, err := order.NewOrder(order.NewOrderParams{
		Customer: customer,
		Currency: order.MustCurrency("USD"),
		Items:    []order.NewItemParams{{Snapshot: snap, Quantity: 1}},
	})
	require.NoError(t, err)
	return o
}

func TestMockOrderRepositoryVersioning(t *testing.T) {
	ctx := context.Background()
	repo := NewMockOrderRepository()
	o := newOrder(t, "u-1")

	require.NoError(t, repo.Save(ctx, o))
	assert.Equal(t, 1, o.Version())
	assert.False(t, o.IsNew())

	err := repo.Save(ctx, o)
	assert.ErrorIs(t, err, shared.ErrConflict)

	first, err := repo.FindByID(ctx, o.ID())
	require.NoError(t, err)
	second, err := repo.FindByID(ctx, o.ID())
	require.NoError(t, err)

	require.NoError(t, first.UpdateTotals(decimal.NewFromInt(1), decimal.Zero, decimal.Zero))
	require.NoError(t, repo.Update(ctx, first))
	assert.Equal(t, 2, first.Version())

	require.NoError(t, second.UpdateTotals(decimal.NewFromInt(2), decimal.Zero, decimal.Zero))
	err = repo.Update(ctx, second)
	assert.ErrorIs(t, err, order.ErrConcurrentModification)

	stored, err := repo.FindByID(ctx, o.ID())
	require.NoError(t, err)
	assert.True(t, stored.Totals().Tax().Equal(decimal.NewFromInt(1)))
}

func TestMockOrderRepositoryQueries(t *testing.T) {
	ctx := context.Background()
	repo := NewMockOrderRepository()
	a := newOrder(t, "u-1")
	b := newOrder(t, "u-2")
	require.NoError(t, repo.Save(ctx, a))
	require.NoError(t, repo.Save(ctx, b))

	n, err := repo.Count(ctx, order.NewByUserIDSpecification("u-2"))
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	all, err := repo.List(ctx, order.ListQuery{Limit: 10})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	found, err := repo.FindByOrderNumber(ctx, a.Number())
	require.NoError(t, err)
	assert.Equal(t, a.ID(), found.ID())

	items, err := repo.FindItemsByVariantID(ctx, "v-1")
	require.NoError(t, err)
	assert.Len(t, items, 2)

	require.NoError(t, repo.Delete(ctx, a.ID()))
	_, err = repo.FindByID(ctx, a.ID())
	assert.ErrorIs(t, err, order.ErrOrderNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, a.ID()), shared.ErrNotFound)
}

func TestMockInventory(t *testing.T) {
	ctx := context.Background()
	inv := NewMockInventory()
	inv.SetStock("v-1", "wh-1", 3, 0)

	require.NoError(t, inv.ReserveStock(ctx, "v-1", "wh-1", 2))
	err := inv.AdjustStock(ctx, "v-1", "wh-1", -2, inventory.ReasonOrderCreated, "o-1")
	assert.ErrorIs(t, err, inventory.ErrInsufficientStock)

	err = inv.ReserveStock(ctx, "v-9", "wh-1", 1)
	assert.ErrorIs(t, err, inventory.ErrStockNotFound)

	require.NoError(t, inv.AdjustStock(ctx, "v-9", "wh-1", 4, inventory.ReasonRestock, ""))
	s, err := inv.GetStock(ctx, "v-9", "wh-1")
	require.NoError(t, err)
	assert.Equal(t, 4, s.Available)

	inv.Fail["v-1"] = errors.New("offline")
	assert.EqualError(t, inv.AdjustStock(ctx, "v-1", "wh-1", 1, inventory.ReasonRestock, ""), "offline")

	assert.Len(t, inv.Calls(), 5)
	assert.Len(t, inv.Movements(), 2)

	missing, err := inv.GetStock(ctx, "v-1", "elsewhere")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestMockCatalogFirstActiveLocation(t *testing.T) {
	ctx := context.Background()
	repo := NewMockCatalogRepository()
	older := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := repo.FirstActiveLocation(ctx, catalog.LocationWarehouse)
	assert.ErrorIs(t, err, catalog.ErrLocationNotFound)

	require.NoError(t, repo.SaveLocation(ctx, &catalog.Location{ID: "wh-b", Type: catalog.LocationWarehouse, Active: true, CreatedAt: older.Add(time.Hour)}))
	require.NoError(t, repo.SaveLocation(ctx, &catalog.Location{ID: "wh-a", Type: catalog.LocationWarehouse, Active: false, CreatedAt: older}))
	require.NoError(t, repo.SaveLocation(ctx, &catalog.Location{ID: "wh-c", Type: catalog.LocationWarehouse, Active: true, CreatedAt: older.Add(time.Hour)}))

	loc, err := repo.FirstActiveLocation(ctx, catalog.LocationWarehouse)
	require.NoError(t, err)
	assert.Equal(t, "wh-b", loc.ID)
}

func TestMockUnitOfWorkCollectsEventsOnSuccess(t *testing.T) {
	ctx := context.Background()
	factory := NewMockUnitOfWorkFactory()

	o := newOrder(t, "u-1")
	failed := factory.New()
	err := failed.Execute(ctx, func(ctx context.Context) error {
		failed.RegisterNew(o)
		return errors.New("boom")
	})
	assert.EqualError(t, err, "boom")
	assert.Empty(t, factory.Outbox.Events())
	assert.Len(t, o.PendingEvents(), 1)

	uow := factory.New()
	require.NoError(t, uow.Execute(ctx, func(ctx context.Context) error {
		uow.RegisterNew(o)
		return nil
	}))
	events := factory.Outbox.Events()
	require.Len(t, events, 1)
	assert.Equal(t, order.EventOrderCreated, events[0].EventName())
	assert.Empty(t, o.PendingEvents())
}
