package order

import (
	"context"
	"errors"
	"testing"
	"time"

	"commerce/domain/catalog"
	"commerce/domain/inventory"
	"commerce/domain/order"
	"commerce/domain/shared"
	"commerce/infrastructure/persistence/mocks"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fixture struct {
	svc       *ManagementService
	orders    *mocks.MockOrderRepository
	history   *mocks.MockStatusHistoryRepository
	events    *mocks.MockEventLogRepository
	catalog   *mocks.MockCatalogRepository
	inventory *mocks.MockInventory
	uow       *mocks.MockUnitOfWorkFactory
	logs      *observer.ObservedLogs
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	f := &fixture{
		orders:    mocks.NewMockOrderRepository(),
		history:   mocks.NewMockStatusHistoryRepository(),
		events:    mocks.NewMockEventLogRepository(),
		catalog:   mocks.NewMockCatalogRepository(),
		inventory: mocks.NewMockInventory(),
		uow:       mocks.NewMockUnitOfWorkFactory(),
	}

	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, f.catalog.SaveProduct(ctx, &catalog.Product{ID: "p-1", Name: "Trail Runner", Brand: "Acme", Active: true}))
	require.NoError(t, f.catalog.SaveProduct(ctx, &catalog.Product{ID: "p-2", Name: "Wool Socks", Active: true}))
	require.NoError(t, f.catalog.SaveVariant(ctx, &catalog.Variant{
		ID: "v-1", ProductID: "p-1", SKU: "TR-42-BLK", Price: decimal.RequireFromString("49.99"),
		Currency: "USD", Size: "42", Color: "black", Active: true,
	}))
	require.NoError(t, f.catalog.SaveVariant(ctx, &catalog.Variant{
		ID: "v-2", ProductID: "p-2", SKU: "WS-M", Price: decimal.RequireFromString("15.00"),
		Currency: "USD", Size: "M", Active: true,
	}))
	require.NoError(t, f.catalog.SaveLocation(ctx, &catalog.Location{ID: "wh-1", Name: "Main", Type: catalog.LocationWarehouse, Active: true, CreatedAt: created}))
	require.NoError(t, f.catalog.SaveLocation(ctx, &catalog.Location{ID: "store-1", Name: "Downtown", Type: catalog.LocationStore, Active: true, CreatedAt: created}))

	f.inventory.SetStock("v-1", "wh-1", 10, 0)
	f.inventory.SetStock("v-2", "wh-1", 5, 0)

	core, logs := observer.New(zapcore.DebugLevel)
	f.logs = logs

	f.svc = NewManagementService(Deps{
		Orders:    f.orders,
		Items:     f.orders,
		Addresses: f.orders,
		Shipments: f.orders,
		History:   f.history,
		EventLog:  f.events,
		Catalog:   f.catalog,
		Inventory: f.inventory,
		Locations: NewDefaultLocationResolver(f.catalog, ""),
		UoW:       f.uow,
		Logger:    zap.New(core),
	})
	return f
}

func (f *fixture) create(t *testing.T, lines ...OrderLineRequest) *OrderResult {
	t.Helper()
	if len(lines) == 0 {
		lines = []OrderLineRequest{{VariantID: "v-1", Quantity: 2}, {VariantID: "v-2", Quantity: 1}}
	}
	res, err := f.svc.CreateOrder(context.Background(), CreateOrderRequest{
		UserID:   "user-1",
		Items:    lines,
		Currency: "USD",
	})
	require.NoError(t, err)
	return res
}

func (f *fixture) paid(t *testing.T) *OrderResponse {
	t.Helper()
	ctx := context.Background()
	res := f.create(t)
	_, err := f.svc.SetAddress(ctx, res.Order.ID, SetAddressRequest{Billing: testAddress()})
	require.NoError(t, err)
	paid, err := f.svc.MarkOrderAsPaid(ctx, res.Order.ID, StatusChangeRequest{ChangedBy: "cashier"})
	require.NoError(t, err)
	require.Empty(t, paid.InventoryIssues)
	return paid.Order
}

func (f *fixture) stock(t *testing.T, variantID, locationID string) inventory.Stock {
	t.Helper()
	s, err := f.inventory.GetStock(context.Background(), variantID, locationID)
	require.NoError(t, err)
	require.NotNil(t, s)
	return *s
}

func (f *fixture) eventTypes(t *testing.T, orderID string) []string {
	t.Helper()
	events, err := f.svc.GetOrderEvents(context.Background(), orderID)
	require.NoError(t, err)
	types := make([]string, len(events))
	for i, e := range events {
		types[i] = e.EventType
	}
	return types
}

func testAddress() AddressRequest {
	return AddressRequest{
		FirstName: "Ada", LastName: "Lovelace", Line1: "1 Analytical St",
		City: "London", PostalCode: "N1 9GU", Country: "gb",
	}
}

func TestCreateOrderRequiresExactlyOneIdentity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lines := []OrderLineRequest{{VariantID: "v-1", Quantity: 1}}

	_, err := f.svc.CreateOrder(ctx, CreateOrderRequest{UserID: "user-1", GuestToken: "guest-1", Items: lines, Currency: "USD"})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	_, err = f.svc.CreateOrder(ctx, CreateOrderRequest{Items: lines, Currency: "USD"})
	assert.ErrorIs(t, err, order.ErrValidation)

	count, err := f.orders.Count(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Empty(t, f.inventory.Calls())
}

func TestCreateOrderSnapshotsPricesAndDeductsStock(t *testing.T) {
	f := newFixture(t)

	res := f.create(t)
	o := res.Order

	assert.Empty(t, res.InventoryIssues)
	assert.Equal(t, string(order.StatusCreated), o.Status)
	assert.Equal(t, "user", o.CustomerType)
	assert.Equal(t, "user-1", o.UserID)
	assert.Equal(t, 1, o.Version)
	assert.Regexp(t, `^ORD-\d{8}-[0-9A-Z]{8}$`, o.OrderNumber)
	require.Len(t, o.Items, 2)
	assert.Equal(t, "49.99", o.Items[0].Product.UnitPrice)
	assert.Equal(t, "TR-42-BLK", o.Items[0].Product.SKU)
	assert.Equal(t, "99.98", o.Items[0].LineTotal)
	assert.Equal(t, "114.98", o.Totals.Subtotal)
	assert.Equal(t, "114.98", o.Totals.Total)

	assert.Equal(t, 8, f.stock(t, "v-1", "wh-1").Available)
	assert.Equal(t, 4, f.stock(t, "v-2", "wh-1").Available)
	for _, call := range f.inventory.Calls() {
		assert.Equal(t, inventory.ReasonOrderCreated, call.Reason)
		assert.Equal(t, o.ID, call.ReferenceID)
	}

	history, err := f.svc.GetStatusHistory(context.Background(), o.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Empty(t, history[0].FromStatus)
	assert.Equal(t, "created", history[0].ToStatus)
	assert.Equal(t, "user-1", history[0].ChangedBy)

	assert.Equal(t, []string{order.AuditOrderCreated}, f.eventTypes(t, o.ID))

	outbox := f.uow.Outbox.Events()
	require.Len(t, outbox, 1)
	assert.Equal(t, order.EventOrderCreated, outbox[0].EventName())
	assert.Equal(t, 1, f.logs.FilterMessage("order created").Len())
}

func TestCreateOrderRejectsStockShortfall(t *testing.T) {
	testCases := []struct {
		name  string
		lines []OrderLineRequest
	}{
		{"single line", []OrderLineRequest{{VariantID: "v-1", Quantity: 11}}},
		{"repeated variant is summed", []OrderLineRequest{{VariantID: "v-2", Quantity: 3}, {VariantID: "v-2", Quantity: 3}}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.svc.CreateOrder(context.Background(), CreateOrderRequest{
				GuestToken: "guest-1", Items: tc.lines, Currency: "USD",
			})
			assert.ErrorIs(t, err, order.ErrInsufficientStock)
			assert.ErrorIs(t, err, shared.ErrConflict)

			count, err := f.orders.Count(context.Background(), nil)
			require.NoError(t, err)
			assert.Zero(t, count)
			assert.Empty(t, f.inventory.Calls())
		})
	}
}

func TestCreateOrderUntrackedVariantCountsAsZero(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.CreateOrder(context.Background(), CreateOrderRequest{
		UserID: "user-1", Items: []OrderLineRequest{{VariantID: "v-1", Quantity: 1}}, Currency: "USD", LocationID: "store-1",
	})
	assert.ErrorIs(t, err, order.ErrInsufficientStock)
}

func TestCreateOrderResolutionErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateOrder(ctx, CreateOrderRequest{UserID: "u", Items: []OrderLineRequest{{VariantID: "missing", Quantity: 1}}, Currency: "USD"})
	assert.ErrorIs(t, err, order.ErrVariantNotFound)

	_, err = f.svc.CreateOrder(ctx, CreateOrderRequest{UserID: "u", Items: []OrderLineRequest{{VariantID: "v-1", Quantity: 1}}, Currency: "EUR"})
	assert.ErrorIs(t, err, shared.ErrConsistency)

	_, err = f.svc.CreateOrder(ctx, CreateOrderRequest{UserID: "u", Items: []OrderLineRequest{{VariantID: "v-1", Quantity: 1}}, Currency: "USD", LocationID: "nowhere"})
	assert.ErrorIs(t, err, order.ErrLocationNotFound)

	_, err = f.svc.CreateOrder(ctx, CreateOrderRequest{UserID: "u", Currency: "USD"})
	assert.ErrorIs(t, err, order.ErrEmptyOrderItems)
}

func TestCreateOrderInventoryFailureKeepsOrder(t *testing.T) {
	f := newFixture(t)
	f.inventory.Fail["v-2"] = errors.New("ledger offline")

	res := f.create(t)

	require.Len(t, res.InventoryIssues, 1)
	issue := res.InventoryIssues[0]
	assert.Equal(t, "v-2", issue.VariantID)
	assert.Equal(t, string(OpDeduct), issue.Operation)
	assert.Equal(t, "wh-1", issue.LocationID)
	assert.Contains(t, issue.Error, "ledger offline")

	_, err := f.svc.GetOrder(context.Background(), res.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, f.stock(t, "v-1", "wh-1").Available)
	assert.Equal(t, []string{order.AuditOrderCreated, order.AuditInventoryAnomaly}, f.eventTypes(t, res.Order.ID))

	warnings := f.logs.FilterMessage("inventory operation failed").All()
	require.Len(t, warnings, 1)
	fields := warnings[0].ContextMap()
	assert.Equal(t, zapcore.WarnLevel, warnings[0].Level)
	assert.Equal(t, res.Order.ID, fields["order_id"])
	assert.Equal(t, issue.ItemID, fields["item_id"])
	assert.Equal(t, "v-2", fields["variant_id"])
	assert.Equal(t, "wh-1", fields["location_id"])
	assert.Equal(t, "deduct", fields["operation"])
	assert.Equal(t, "ledger offline", fields["error"])
}

func TestAnomalyAuditFailureIsLoggedOnly(t *testing.T) {
	f := newFixture(t)
	f.inventory.Fail["v-1"] = errors.New("ledger offline")
	f.events.FailOn[order.AuditInventoryAnomaly] = errors.New("log table locked")

	res := f.create(t)

	assert.Len(t, res.InventoryIssues, 1)
	assert.Equal(t, 1, f.logs.FilterMessage("failed to record inventory anomaly").Len())
}

func TestMarkOrderAsPaidRequiresAddress(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	res := f.create(t)

	_, err := f.svc.MarkOrderAsPaid(ctx, res.Order.ID, StatusChangeRequest{})
	assert.ErrorIs(t, err, order.ErrInvalidTransition)

	current, err := f.svc.GetOrder(ctx, res.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, "created", current.Status)

	history, err := f.svc.GetStatusHistory(ctx, res.Order.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestMarkOrderAsPaidReservesStock(t *testing.T) {
	f := newFixture(t)
	o := f.paid(t)

	assert.Equal(t, "paid", o.Status)
	assert.Equal(t, inventory.Stock{VariantID: "v-1", LocationID: "wh-1", Available: 6, Reserved: 2},
		withoutTime(f.stock(t, "v-1", "wh-1")))

	history, err := f.svc.GetStatusHistory(context.Background(), o.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "created", history[1].FromStatus)
	assert.Equal(t, "paid", history[1].ToStatus)
	assert.Equal(t, "cashier", history[1].ChangedBy)
}

func TestCancelPaidOrderReleasesEveryItem(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := f.paid(t)
	f.inventory.Fail["v-1"] = errors.New("ledger offline")

	res, err := f.svc.CancelOrder(ctx, o.ID, StatusChangeRequest{Reason: "customer request"})
	require.NoError(t, err)
	assert.Equal(t, "cancelled", res.Order.Status)

	require.Len(t, res.InventoryIssues, 1)
	assert.Equal(t, "v-1", res.InventoryIssues[0].VariantID)
	assert.Equal(t, string(OpRelease), res.InventoryIssues[0].Operation)

	var releases []mocks.InventoryCall
	for _, call := range f.inventory.Calls() {
		if call.Reason == inventory.ReasonOrderCancelled {
			releases = append(releases, call)
		}
	}
	require.Len(t, releases, 2)
	assert.Equal(t, "v-1", releases[0].VariantID)
	assert.Equal(t, 2, releases[0].Quantity)
	assert.Equal(t, "v-2", releases[1].VariantID)
	assert.Equal(t, 1, releases[1].Quantity)

	assert.Equal(t, inventory.Stock{VariantID: "v-2", LocationID: "wh-1", Available: 4, Reserved: 0},
		withoutTime(f.stock(t, "v-2", "wh-1")))
}

func TestCancelCreatedOrderHasNoInventoryEffect(t *testing.T) {
	f := newFixture(t)
	res := f.create(t)
	before := len(f.inventory.Calls())

	cancelled, err := f.svc.CancelOrder(context.Background(), res.Order.ID, StatusChangeRequest{})
	require.NoError(t, err)
	assert.Equal(t, "cancelled", cancelled.Order.Status)
	assert.Len(t, f.inventory.Calls(), before)
}

func TestFulfillDeductsAtPickupLocation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := f.paid(t)
	f.inventory.SetStock("v-1", "store-1", 5, 0)
	f.inventory.SetStock("v-2", "store-1", 5, 0)

	_, err := f.svc.MarkOrderAsFulfilled(ctx, o.ID, StatusChangeRequest{})
	assert.ErrorIs(t, err, order.ErrInvalidTransition, "fulfilment needs a shipment")

	_, err = f.svc.CreateShipment(ctx, o.ID, CreateShipmentRequest{PickupLocationID: "store-1"})
	require.NoError(t, err)

	res, err := f.svc.MarkOrderAsFulfilled(ctx, o.ID, StatusChangeRequest{})
	require.NoError(t, err)
	assert.Equal(t, "fulfilled", res.Order.Status)
	assert.Empty(t, res.InventoryIssues)
	assert.Equal(t, 3, f.stock(t, "v-1", "store-1").Available)
	assert.Equal(t, 4, f.stock(t, "v-2", "store-1").Available)
}

func TestFulfillConsumesReservationAtDefaultLocation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := f.paid(t)

	_, err := f.svc.CreateShipment(ctx, o.ID, CreateShipmentRequest{Carrier: "UPS"})
	require.NoError(t, err)
	_, err = f.svc.MarkOrderAsFulfilled(ctx, o.ID, StatusChangeRequest{})
	require.NoError(t, err)

	assert.Equal(t, inventory.Stock{VariantID: "v-1", LocationID: "wh-1", Available: 6, Reserved: 0},
		withoutTime(f.stock(t, "v-1", "wh-1")))
}

func TestRefundAndPartialReturn(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created := f.create(t)
	_, err := f.svc.RefundOrder(ctx, created.Order.ID, StatusChangeRequest{})
	assert.ErrorIs(t, err, order.ErrInvalidTransition)

	o := f.paid(t)
	_, err = f.svc.CreateShipment(ctx, o.ID, CreateShipmentRequest{})
	require.NoError(t, err)
	_, err = f.svc.MarkOrderAsFulfilled(ctx, o.ID, StatusChangeRequest{})
	require.NoError(t, err)

	res, err := f.svc.MarkOrderAsPartiallyReturned(ctx, o.ID, StatusChangeRequest{})
	require.NoError(t, err)
	assert.Equal(t, "partially_returned", res.Order.Status)

	before := len(f.inventory.Calls())
	res, err = f.svc.RefundOrder(ctx, o.ID, StatusChangeRequest{Reason: "damaged"})
	require.NoError(t, err)
	assert.Equal(t, "refunded", res.Order.Status)
	assert.Len(t, f.inventory.Calls(), before)

	_, err = f.svc.CancelOrder(ctx, o.ID, StatusChangeRequest{})
	assert.ErrorIs(t, err, order.ErrInvalidTransition)
}

func TestUpdateOrderStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	res := f.create(t)
	id := res.Order.ID

	same, err := f.svc.UpdateOrderStatus(ctx, UpdateOrderStatusRequest{OrderID: id, Status: "created"})
	require.NoError(t, err)
	assert.Equal(t, res.Order.Version, same.Order.Version)
	history, err := f.svc.GetStatusHistory(ctx, id)
	require.NoError(t, err)
	assert.Len(t, history, 1)

	_, err = f.svc.UpdateOrderStatus(ctx, UpdateOrderStatusRequest{OrderID: id, Status: "shipped"})
	assert.ErrorIs(t, err, order.ErrValidation)

	_, err = f.svc.UpdateOrderStatus(ctx, UpdateOrderStatusRequest{OrderID: id, Status: "fulfilled"})
	assert.ErrorIs(t, err, order.ErrInvalidTransition)

	cancelled, err := f.svc.UpdateOrderStatus(ctx, UpdateOrderStatusRequest{OrderID: id, Status: "cancelled", Reason: "duplicate", ChangedBy: "ops"})
	require.NoError(t, err)
	assert.Equal(t, "cancelled", cancelled.Order.Status)

	_, err = f.svc.UpdateOrderStatus(ctx, UpdateOrderStatusRequest{OrderID: id, Status: "created"})
	assert.ErrorIs(t, err, order.ErrInvalidTransition)

	_, err = f.svc.UpdateOrderStatus(ctx, UpdateOrderStatusRequest{OrderID: "missing", Status: "paid"})
	assert.ErrorIs(t, err, order.ErrOrderNotFound)
}

func TestItemEditsRecalculateTotals(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	res := f.create(t, OrderLineRequest{VariantID: "v-1", Quantity: 1})
	id := res.Order.ID
	calls := len(f.inventory.Calls())

	o, err := f.svc.AddItem(ctx, id, OrderLineRequest{VariantID: "v-2", Quantity: 2, IsGift: true, GiftMessage: "enjoy"})
	require.NoError(t, err)
	require.Len(t, o.Items, 2)
	assert.Equal(t, "79.99", o.Totals.Subtotal)
	socks := o.Items[1]
	assert.True(t, socks.IsGift)

	o, err = f.svc.UpdateItemQuantity(ctx, id, socks.ID, UpdateItemQuantityRequest{Quantity: 3})
	require.NoError(t, err)
	assert.Equal(t, "94.99", o.Totals.Total)

	o, err = f.svc.UpdateItemGift(ctx, id, socks.ID, UpdateItemGiftRequest{IsGift: false})
	require.NoError(t, err)
	assert.False(t, o.Items[1].IsGift)

	o, err = f.svc.UpdateTotals(ctx, id, UpdateTotalsRequest{Tax: "7.60", Shipping: "4.99", Discount: "10"})
	require.NoError(t, err)
	assert.Equal(t, "97.58", o.Totals.Total)

	_, err = f.svc.UpdateTotals(ctx, id, UpdateTotalsRequest{Tax: "seven"})
	assert.ErrorIs(t, err, order.ErrValidation)

	o, err = f.svc.RemoveItem(ctx, id, socks.ID)
	require.NoError(t, err)
	require.Len(t, o.Items, 1)
	assert.Equal(t, "52.58", o.Totals.Total)

	_, err = f.svc.RemoveItem(ctx, id, o.Items[0].ID)
	assert.ErrorIs(t, err, order.ErrLastItem)

	_, err = f.svc.UpdateItemQuantity(ctx, id, "missing", UpdateItemQuantityRequest{Quantity: 1})
	assert.ErrorIs(t, err, order.ErrItemNotFound)

	assert.Len(t, f.inventory.Calls(), calls, "item edits do not touch stock")

	items, err := f.svc.ListItemsByVariant(ctx, "v-1")
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestItemsAreFrozenAfterPayment(t *testing.T) {
	f := newFixture(t)
	o := f.paid(t)

	_, err := f.svc.AddItem(context.Background(), o.ID, OrderLineRequest{VariantID: "v-2", Quantity: 1})
	assert.ErrorIs(t, err, order.ErrOrderNotEditable)
}

func TestSetAddressDefaultsShippingToBilling(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	res := f.create(t)

	o, err := f.svc.SetAddress(ctx, res.Order.ID, SetAddressRequest{Billing: testAddress()})
	require.NoError(t, err)
	require.NotNil(t, o.Address)
	assert.Equal(t, "GB", o.Address.Billing.Country)
	assert.Equal(t, o.Address.Billing, o.Address.Shipping)

	addr, err := f.svc.GetAddress(ctx, res.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, o.Address.ID, addr.ID)

	bad := testAddress()
	bad.Country = "Narnia"
	_, err = f.svc.SetAddress(ctx, res.Order.ID, SetAddressRequest{Billing: testAddress(), Shipping: &bad})
	assert.ErrorIs(t, err, order.ErrValidation)
}

func TestShipmentLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := f.paid(t)

	created, err := f.svc.CreateShipment(ctx, o.ID, CreateShipmentRequest{GiftReceipt: true})
	require.NoError(t, err)
	assert.Nil(t, created.ShippedAt)

	shippedAt := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	shipped, err := f.svc.MarkShipmentShipped(ctx, o.ID, created.ID, ShipShipmentRequest{
		Carrier: "DHL", Service: "express", TrackingNumber: "1Z999", ShippedAt: &shippedAt,
	})
	require.NoError(t, err)
	require.NotNil(t, shipped.ShippedAt)
	assert.True(t, shippedAt.Equal(*shipped.ShippedAt))

	delivered, err := f.svc.MarkShipmentDelivered(ctx, o.ID, created.ID, DeliverShipmentRequest{})
	require.NoError(t, err)
	require.NotNil(t, delivered.DeliveredAt)
	assert.False(t, delivered.DeliveredAt.Before(shippedAt))

	found, err := f.svc.FindShipmentByTracking(ctx, "1Z999")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	byID, err := f.svc.GetShipment(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "DHL", byID.Carrier)

	_, err = f.svc.FindShipmentByTracking(ctx, "")
	assert.ErrorIs(t, err, order.ErrValidation)

	_, err = f.svc.MarkShipmentShipped(ctx, o.ID, "missing", ShipShipmentRequest{Carrier: "DHL", TrackingNumber: "x"})
	assert.ErrorIs(t, err, order.ErrShipmentNotFound)

	types := f.eventTypes(t, o.ID)
	assert.Contains(t, types, order.AuditShipmentCreated)
	assert.Contains(t, types, order.AuditShipmentShipped)
	assert.Contains(t, types, order.AuditShipmentDelivered)
}

func TestShipmentCompletesAfterPartialReturn(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := f.paid(t)

	created, err := f.svc.CreateShipment(ctx, o.ID, CreateShipmentRequest{PickupLocationID: "store-1"})
	require.NoError(t, err)
	_, err = f.svc.MarkOrderAsFulfilled(ctx, o.ID, StatusChangeRequest{})
	require.NoError(t, err)
	_, err = f.svc.MarkOrderAsPartiallyReturned(ctx, o.ID, StatusChangeRequest{})
	require.NoError(t, err)

	shipped, err := f.svc.MarkShipmentShipped(ctx, o.ID, created.ID, ShipShipmentRequest{})
	require.NoError(t, err)
	require.NotNil(t, shipped.ShippedAt)
	assert.Empty(t, shipped.Carrier)

	delivered, err := f.svc.MarkShipmentDelivered(ctx, o.ID, created.ID, DeliverShipmentRequest{})
	require.NoError(t, err)
	assert.NotNil(t, delivered.DeliveredAt)

	_, err = f.svc.MarkShipmentShipped(ctx, o.ID, created.ID, ShipShipmentRequest{})
	assert.ErrorIs(t, err, order.ErrShipmentState)
}

func TestCreateShipmentRequiresPaidOrder(t *testing.T) {
	f := newFixture(t)
	res := f.create(t)

	_, err := f.svc.CreateShipment(context.Background(), res.Order.ID, CreateShipmentRequest{})
	assert.ErrorIs(t, err, order.ErrOrderNotEditable)
}

func TestListOrders(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.inventory.SetStock("v-2", "wh-1", 100, 0)

	for i := 0; i < 3; i++ {
		f.create(t, OrderLineRequest{VariantID: "v-2", Quantity: 1})
	}
	_, err := f.svc.CreateOrder(ctx, CreateOrderRequest{
		GuestToken: "guest-9", Items: []OrderLineRequest{{VariantID: "v-2", Quantity: 1}}, Currency: "USD", Source: "pos",
	})
	require.NoError(t, err)

	all, err := f.svc.ListOrders(ctx, ListOrdersQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 4, all.Total)
	assert.Equal(t, 1, all.Page)
	assert.Equal(t, 20, all.PageSize)

	page, err := f.svc.ListOrders(ctx, ListOrdersQuery{UserID: "user-1", Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.Total)
	assert.Len(t, page.Orders, 1)

	guests, err := f.svc.ListOrders(ctx, ListOrdersQuery{GuestToken: "guest-9", Source: "pos", Status: "created"})
	require.NoError(t, err)
	require.Len(t, guests.Orders, 1)
	assert.Equal(t, "guest", guests.Orders[0].CustomerType)

	capped, err := f.svc.ListOrders(ctx, ListOrdersQuery{PageSize: 1000})
	require.NoError(t, err)
	assert.Equal(t, 100, capped.PageSize)

	now := time.Now().UTC()
	_, err = f.svc.ListOrders(ctx, ListOrdersQuery{From: now, To: now.Add(-time.Hour)})
	assert.ErrorIs(t, err, order.ErrValidation)

	_, err = f.svc.ListOrders(ctx, ListOrdersQuery{Status: "lost"})
	assert.ErrorIs(t, err, order.ErrValidation)
}

func TestGetOrderByNumber(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	res := f.create(t)

	found, err := f.svc.GetOrderByNumber(ctx, res.Order.OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, res.Order.ID, found.ID)

	_, err = f.svc.GetOrderByNumber(ctx, "not-a-number")
	assert.ErrorIs(t, err, order.ErrValidation)
}

func TestDeleteOrderKeepsHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	res := f.create(t)

	require.NoError(t, f.svc.DeleteOrder(ctx, res.Order.ID))

	_, err := f.svc.GetOrder(ctx, res.Order.ID)
	assert.ErrorIs(t, err, order.ErrOrderNotFound)

	history, err := f.svc.GetStatusHistory(ctx, res.Order.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
	assert.Equal(t, []string{order.AuditOrderCreated, order.AuditOrderDeleted}, f.eventTypes(t, res.Order.ID))

	assert.ErrorIs(t, f.svc.DeleteOrder(ctx, res.Order.ID), order.ErrOrderNotFound)
}

func withoutTime(s inventory.Stock) inventory.Stock {
	s.UpdatedAt = time.Time{}
	return s
}
