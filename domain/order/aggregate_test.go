package order

import (
	"errors"
	"testing"
	"time"

	"commerce/domain/shared"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var usd = MustCurrency("USD")

func snapshot(t *testing.T, variantID, price string) ProductSnapshot {
	t.Helper()
	s, err := NewProductSnapshot(ProductSnapshotParams{
		ProductID: "prod-" + variantID,
		VariantID: variantID,
		SKU:       "SKU-" + variantID,
		Name:      "Product " + variantID,
		UnitPrice: shared.NewMoney(decimal.RequireFromString(price), "USD"),
	})
	require.NoError(t, err)
	return s
}

func guest(t *testing.T) Customer {
	t.Helper()
	c, err := NewCustomer("", "guest-token")
	require.NoError(t, err)
	return c
}

// newTestOrder creates an order with one item per price, quantity 1.
func newTestOrder(t *testing.T, prices ...string) *Order {
	t.Helper()
	items := make([]NewItemParams, 0, len(prices))
	for i, p := range prices {
		items = append(items, NewItemParams{
			Snapshot: snapshot(t, "var-"+string(rune('a'+i)), p),
			Quantity: 1,
		})
	}
	o, err := NewOrder(NewOrderParams{Customer: guest(t), Currency: usd, Items: items})
	require.NoError(t, err)
	return o
}

func testAddress(t *testing.T) AddressSnapshot {
	t.Helper()
	a, err := NewAddressSnapshot(AddressParams{
		FirstName:  "Ada",
		LastName:   "Lovelace",
		Line1:      "1 Main St",
		City:       "Springfield",
		PostalCode: "12345",
		Country:    "us",
	})
	require.NoError(t, err)
	return a
}

// orderInStatus drives a fresh order through legal transitions to target.
func orderInStatus(t *testing.T, target Status) *Order {
	t.Helper()
	o := newTestOrder(t, "10.00")
	_, err := o.SetAddress(testAddress(t), testAddress(t))
	require.NoError(t, err)
	if target == StatusCreated {
		return o
	}
	if target == StatusCancelled {
		require.NoError(t, o.Cancel("test"))
		return o
	}

	require.NoError(t, o.MarkAsPaid())
	if target == StatusPaid {
		return o
	}
	if target == StatusRefunded {
		require.NoError(t, o.Refund("test"))
		return o
	}

	_, err = o.CreateShipment(ShipmentParams{Carrier: "UPS"})
	require.NoError(t, err)
	require.NoError(t, o.MarkAsFulfilled())
	if target == StatusFulfilled {
		return o
	}

	require.NoError(t, o.MarkAsPartiallyReturned())
	return o
}

func TestNewOrder(t *testing.T) {
	o := newTestOrder(t, "10.00", "10.00")

	assert.Equal(t, StatusCreated, o.Status())
	assert.Equal(t, DefaultSource, o.Source())
	assert.Equal(t, "USD", o.Currency().Code())
	assert.True(t, o.IsNew())
	assert.Equal(t, 2, o.ItemCount())
	assert.Regexp(t, `^ORD-\d{8}-[0-9A-Z]{8}$`, o.Number().String())
	assert.Equal(t, "20.00", o.Totals().Subtotal().StringFixed(2))
	assert.Equal(t, "20.00", o.Totals().Total().StringFixed(2))

	require.Len(t, o.PendingEvents(), 1)
	events := o.PullEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventOrderCreated, events[0].EventName())
	assert.Empty(t, o.PullEvents())
	assert.Empty(t, o.PendingEvents())
}

func TestNewOrderValidation(t *testing.T) {
	item := NewItemParams{Snapshot: snapshot(t, "v1", "5.00"), Quantity: 1}

	tests := []struct {
		name   string
		params NewOrderParams
		target error
	}{
		{"missing customer", NewOrderParams{Currency: usd, Items: []NewItemParams{item}}, ErrValidation},
		{"missing currency", NewOrderParams{Customer: guest(t), Items: []NewItemParams{item}}, ErrValidation},
		{"no items", NewOrderParams{Customer: guest(t), Currency: usd}, ErrEmptyOrderItems},
		{"zero quantity", NewOrderParams{Customer: guest(t), Currency: usd,
			Items: []NewItemParams{{Snapshot: item.Snapshot, Quantity: 0}}}, ErrValidation},
		{"currency mismatch", NewOrderParams{Customer: guest(t), Currency: MustCurrency("EUR"),
			Items: []NewItemParams{item}}, ErrTotalsMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := NewOrder(tt.params)
			assert.Nil(t, o)
			assert.ErrorIs(t, err, tt.target)
		})
	}
}

func TestTwoItemScenarioTotals(t *testing.T) {
	o, err := NewOrder(NewOrderParams{
		Customer: guest(t),
		Currency: usd,
		Items: []NewItemParams{
			{Snapshot: snapshot(t, "a", "5.00"), Quantity: 2},
			{Snapshot: snapshot(t, "b", "10.00"), Quantity: 1},
		},
	})
	require.NoError(t, err)

	totals := o.Totals()
	assert.Equal(t, "20.00", totals.Subtotal().StringFixed(2))
	assert.True(t, totals.Tax().IsZero())
	assert.True(t, totals.Shipping().IsZero())
	assert.True(t, totals.Discount().IsZero())
	assert.Equal(t, "20.00", totals.Total().StringFixed(2))
}

func TestTransitionTableIsExhaustive(t *testing.T) {
	legal := map[Status]map[Status]bool{
		StatusCreated:           {StatusPaid: true, StatusCancelled: true},
		StatusPaid:              {StatusFulfilled: true, StatusRefunded: true, StatusCancelled: true},
		StatusFulfilled:         {StatusPartiallyReturned: true, StatusRefunded: true},
		StatusPartiallyReturned: {StatusRefunded: true},
		StatusRefunded:          {},
		StatusCancelled:         {},
	}

	for _, from := range AllStatuses() {
		for _, to := range AllStatuses() {
			from, to := from, to
			t.Run(string(from)+"->"+string(to), func(t *testing.T) {
				assert.Equal(t, legal[from][to], from.CanTransitionTo(to))

				o := orderInStatus(t, from)
				if to == StatusFulfilled && from == StatusPaid {
					_, err := o.CreateShipment(ShipmentParams{Carrier: "UPS"})
					require.NoError(t, err)
				}

				err := o.UpdateStatus(to, "")
				if legal[from][to] {
					require.NoError(t, err)
					assert.Equal(t, to, o.Status())
					return
				}
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidTransition)
				assert.ErrorIs(t, err, shared.ErrInvalidState)
				assert.Contains(t, err.Error(), string(from))
				assert.Contains(t, err.Error(), string(to))
				assert.Equal(t, from, o.Status())
			})
		}
	}
}

func TestMarkAsPaidRequiresAddress(t *testing.T) {
	o := newTestOrder(t, "10.00")

	err := o.MarkAsPaid()
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, StatusCreated, o.Status())

	_, err = o.SetAddress(testAddress(t), testAddress(t))
	require.NoError(t, err)
	require.NoError(t, o.MarkAsPaid())
	assert.Equal(t, StatusPaid, o.Status())
}

func TestMarkAsFulfilledRequiresShipment(t *testing.T) {
	o := orderInStatus(t, StatusPaid)

	err := o.MarkAsFulfilled()
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, StatusPaid, o.Status())

	_, err = o.CreateShipment(ShipmentParams{Carrier: "DHL"})
	require.NoError(t, err)
	require.NoError(t, o.MarkAsFulfilled())
}

func TestCancelRejectsFulfilledOrder(t *testing.T) {
	o := orderInStatus(t, StatusFulfilled)

	err := o.Cancel("changed my mind")
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Contains(t, err.Error(), "fulfilled")
	assert.Equal(t, StatusFulfilled, o.Status())
}

func TestStatusChangeRecordsEvent(t *testing.T) {
	o := orderInStatus(t, StatusPaid)
	o.PullEvents()

	require.NoError(t, o.Cancel("out of stock"))
	events := o.PullEvents()
	require.Len(t, events, 1)

	changed, ok := events[0].(*OrderStatusChangedEvent)
	require.True(t, ok)
	assert.Equal(t, StatusPaid, changed.From())
	assert.Equal(t, StatusCancelled, changed.To())
	assert.Equal(t, "out of stock", changed.Reason())
}

func TestRemoveItem(t *testing.T) {
	t.Run("last item cannot be removed", func(t *testing.T) {
		o := newTestOrder(t, "10.00")
		itemID := o.Items()[0].ID()

		err := o.RemoveItem(itemID)
		assert.ErrorIs(t, err, ErrLastItem)
		assert.Equal(t, 1, o.ItemCount())
	})

	t.Run("removal recalculates totals", func(t *testing.T) {
		o := newTestOrder(t, "10.00", "7.50")
		require.NoError(t, o.UpdateTotals(decimal.RequireFromString("1.75"), decimal.RequireFromString("5"), decimal.Zero))
		before := o.Items()

		require.NoError(t, o.RemoveItem(before[0].ID()))

		assert.Equal(t, 1, o.ItemCount())
		assert.Equal(t, "7.50", o.Totals().Subtotal().StringFixed(2))
		assert.Equal(t, "1.75", o.Totals().Tax().StringFixed(2))
		assert.Equal(t, "14.25", o.Totals().Total().StringFixed(2))
		// previously returned slice is untouched
		assert.Len(t, before, 2)
	})

	t.Run("unknown item", func(t *testing.T) {
		o := newTestOrder(t, "10.00", "5.00")
		assert.ErrorIs(t, o.RemoveItem("missing"), ErrItemNotFound)
		assert.ErrorIs(t, o.RemoveItem("missing"), shared.ErrNotFound)
	})
}

func TestItemMutationsRequireCreatedStatus(t *testing.T) {
	o := orderInStatus(t, StatusPaid)
	itemID := o.Items()[0].ID()

	_, err := o.AddItem(NewItemParams{Snapshot: snapshot(t, "z", "1.00"), Quantity: 1})
	assert.ErrorIs(t, err, ErrOrderNotEditable)

	_, err = o.UpdateItemQuantity(itemID, 3)
	assert.ErrorIs(t, err, ErrOrderNotEditable)

	_, err = o.UpdateItemGift(itemID, true, "hi")
	assert.ErrorIs(t, err, ErrOrderNotEditable)

	assert.ErrorIs(t, o.RemoveItem(itemID), ErrOrderNotEditable)

	_, err = o.SetAddress(testAddress(t), testAddress(t))
	assert.ErrorIs(t, err, ErrOrderNotEditable)
}

func TestAddItemAndUpdateQuantity(t *testing.T) {
	o := newTestOrder(t, "10.00")

	item, err := o.AddItem(NewItemParams{Snapshot: snapshot(t, "b", "2.50"), Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, "15.00", o.Totals().Total().StringFixed(2))

	updated, err := o.UpdateItemQuantity(item.ID(), 4)
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Quantity())
	assert.Equal(t, "20.00", o.Totals().Total().StringFixed(2))

	_, err = o.UpdateItemQuantity(item.ID(), 0)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "20.00", o.Totals().Total().StringFixed(2))
}

func TestUpdateItemGift(t *testing.T) {
	o := newTestOrder(t, "10.00")
	itemID := o.Items()[0].ID()

	item, err := o.UpdateItemGift(itemID, true, "  Happy birthday  ")
	require.NoError(t, err)
	assert.True(t, item.IsGift())
	assert.Equal(t, "Happy birthday", item.GiftMessage())

	item, err = o.UpdateItemGift(itemID, false, "ignored")
	require.NoError(t, err)
	assert.False(t, item.IsGift())
	assert.Empty(t, item.GiftMessage())

	long := make([]rune, MaxGiftMessageLength+1)
	for i := range long {
		long[i] = 'é'
	}
	_, err = o.UpdateItemGift(itemID, true, string(long))
	assert.ErrorIs(t, err, ErrValidation)

	_, err = o.UpdateItemGift(itemID, true, string(long[:MaxGiftMessageLength]))
	assert.NoError(t, err)
}

func TestUpdateTotals(t *testing.T) {
	o := newTestOrder(t, "10.00", "10.00")

	require.NoError(t, o.UpdateTotals(
		decimal.RequireFromString("1.60"),
		decimal.RequireFromString("4.99"),
		decimal.RequireFromString("2.00"),
	))
	assert.Equal(t, "24.59", o.Totals().Total().StringFixed(2))

	err := o.UpdateTotals(decimal.NewFromInt(-1), decimal.Zero, decimal.Zero)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
	assert.Equal(t, "24.59", o.Totals().Total().StringFixed(2))

	err = o.UpdateTotals(decimal.Zero, decimal.Zero, decimal.NewFromInt(100))
	assert.Error(t, err)
	assert.Equal(t, "24.59", o.Totals().Total().StringFixed(2))
}

func TestSetAddressReplacesExisting(t *testing.T) {
	o := newTestOrder(t, "10.00")

	first, err := o.SetAddress(testAddress(t), testAddress(t))
	require.NoError(t, err)

	other, err := NewAddressSnapshot(AddressParams{
		FirstName: "Grace", LastName: "Hopper", Line1: "2 Side St",
		City: "Arlington", PostalCode: "22201", Country: "US",
	})
	require.NoError(t, err)

	second, err := o.SetAddress(testAddress(t), other)
	require.NoError(t, err)
	assert.Equal(t, first.ID(), second.ID())
	assert.Equal(t, "Grace", second.Shipping().FirstName())
}

func TestShipmentLifecycle(t *testing.T) {
	o := orderInStatus(t, StatusPaid)

	shipment, err := o.CreateShipment(ShipmentParams{GiftReceipt: true, PickupLocationID: "loc-1"})
	require.NoError(t, err)
	assert.False(t, shipment.IsShipped())

	shippedAt := time.Now().UTC()
	shipped, err := o.MarkShipmentShipped(shipment.ID(), "UPS", "ground", "1Z999", shippedAt)
	require.NoError(t, err)
	assert.Equal(t, "1Z999", shipped.TrackingNumber())
	require.NotNil(t, shipped.ShippedAt())

	_, err = o.MarkShipmentShipped(shipment.ID(), "UPS", "ground", "1Z999", shippedAt)
	assert.ErrorIs(t, err, ErrShipmentState)

	_, err = o.MarkShipmentDelivered(shipment.ID(), shippedAt.Add(-time.Hour))
	assert.ErrorIs(t, err, ErrValidation)

	delivered, err := o.MarkShipmentDelivered(shipment.ID(), shippedAt.Add(48*time.Hour))
	require.NoError(t, err)
	assert.True(t, delivered.IsDelivered())

	_, err = o.MarkShipmentDelivered(shipment.ID(), shippedAt.Add(72*time.Hour))
	assert.ErrorIs(t, err, ErrShipmentState)

	_, err = o.MarkShipmentDelivered("missing", shippedAt)
	assert.ErrorIs(t, err, ErrShipmentNotFound)
}

func TestShipWithoutCarrierDetails(t *testing.T) {
	o := orderInStatus(t, StatusPaid)

	pickup, err := o.CreateShipment(ShipmentParams{PickupLocationID: "store-1"})
	require.NoError(t, err)
	shipped, err := o.MarkShipmentShipped(pickup.ID(), "", "", "", time.Now().UTC())
	require.NoError(t, err)
	assert.True(t, shipped.IsShipped())
	assert.Empty(t, shipped.Carrier())
	assert.Empty(t, shipped.TrackingNumber())

	labelled, err := o.CreateShipment(ShipmentParams{Carrier: "UPS", Service: "ground", TrackingNumber: "1Z111"})
	require.NoError(t, err)
	shipped, err = o.MarkShipmentShipped(labelled.ID(), " ", "express", "", time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, "UPS", shipped.Carrier())
	assert.Equal(t, "express", shipped.Service())
	assert.Equal(t, "1Z111", shipped.TrackingNumber())
}

func TestShipmentProgressAfterOrderMovesOn(t *testing.T) {
	testCases := []struct {
		name    string
		advance func(o *Order) error
		wantErr error
	}{
		{name: "fulfilled", advance: func(o *Order) error { return o.MarkAsFulfilled() }},
		{name: "partially returned", advance: func(o *Order) error {
			if err := o.MarkAsFulfilled(); err != nil {
				return err
			}
			return o.MarkAsPartiallyReturned()
		}},
		{name: "refunded", advance: func(o *Order) error { return o.Refund("damaged") }},
		{name: "cancelled", advance: func(o *Order) error { return o.Cancel("changed mind") }, wantErr: ErrOrderNotEditable},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			o := orderInStatus(t, StatusPaid)
			shipment, err := o.CreateShipment(ShipmentParams{Carrier: "DHL"})
			require.NoError(t, err)
			require.NoError(t, tc.advance(o))

			shippedAt := time.Now().UTC()
			_, err = o.MarkShipmentShipped(shipment.ID(), "", "", "JD0001", shippedAt)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)

			delivered, err := o.MarkShipmentDelivered(shipment.ID(), shippedAt.Add(time.Hour))
			require.NoError(t, err)
			assert.True(t, delivered.IsDelivered())
		})
	}
}

func TestCreateShipmentRequiresPaidOrFulfilled(t *testing.T) {
	for _, status := range []Status{StatusCreated, StatusCancelled, StatusRefunded, StatusPartiallyReturned} {
		t.Run(string(status), func(t *testing.T) {
			o := orderInStatus(t, status)
			_, err := o.CreateShipment(ShipmentParams{Carrier: "UPS"})
			assert.True(t, errors.Is(err, ErrOrderNotEditable))
		})
	}
}

func TestRebuildFromDTO(t *testing.T) {
	original := orderInStatus(t, StatusPaid)
	address, _ := original.Address()
	userID, _ := original.Customer().UserID()
	token, _ := original.Customer().GuestToken()

	rebuilt, err := RebuildFromDTO(ReconstructionDTO{
		ID:         original.ID(),
		Number:     original.Number().String(),
		UserID:     userID,
		GuestToken: token,
		Items:      original.Items(),
		Address:    &address,
		Shipments:  original.Shipments(),
		Totals:     original.Totals(),
		Status:     original.Status(),
		Source:     original.Source(),
		Currency:   original.Currency().Code(),
		Version:    3,
		CreatedAt:  original.CreatedAt(),
		UpdatedAt:  original.UpdatedAt(),
	})
	require.NoError(t, err)

	assert.False(t, rebuilt.IsNew())
	assert.Equal(t, 3, rebuilt.Version())
	assert.Equal(t, original.Number(), rebuilt.Number())
	assert.True(t, rebuilt.Customer().IsGuest())
	assert.Empty(t, rebuilt.PullEvents())

	_, err = RebuildFromDTO(ReconstructionDTO{ID: "x", Currency: "USD", Status: StatusPaid})
	assert.Error(t, err)
}
