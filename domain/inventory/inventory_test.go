package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReserve(t *testing.T) {
	s := Stock{VariantID: "v1", LocationID: "l1", Available: 5}

	next, mv, err := Reserve(s, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, next.Available)
	assert.Equal(t, 3, next.Reserved)
	assert.Equal(t, -3, mv.AvailableDelta)
	assert.Equal(t, 3, mv.ReservedDelta)
	assert.Equal(t, ReasonReservation, mv.Reason)

	_, _, err = Reserve(next, 3)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	_, _, err = Reserve(next, 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestAdjust(t *testing.T) {
	tests := []struct {
		name          string
		stock         Stock
		delta         int
		reason        Reason
		wantAvailable int
		wantReserved  int
		wantErr       error
	}{
		{"creation deducts available", Stock{Available: 10}, -4, ReasonOrderCreated, 6, 0, nil},
		{"creation cannot go negative", Stock{Available: 3}, -4, ReasonOrderCreated, 0, 0, ErrInsufficientStock},
		{"fulfillment consumes reserved first", Stock{Available: 5, Reserved: 2}, -3, ReasonOrderFulfilled, 4, 0, nil},
		{"fulfillment from reserved only", Stock{Available: 5, Reserved: 4}, -3, ReasonOrderFulfilled, 5, 1, nil},
		{"fulfillment shortfall", Stock{Available: 1, Reserved: 1}, -3, ReasonOrderFulfilled, 0, 0, ErrInsufficientStock},
		{"cancellation releases reservation", Stock{Available: 2, Reserved: 3}, 3, ReasonOrderCancelled, 5, 0, nil},
		{"cancellation without reservation", Stock{Available: 2}, 3, ReasonOrderCancelled, 5, 0, nil},
		{"restock", Stock{Available: 2, Reserved: 1}, 10, ReasonRestock, 12, 1, nil},
		{"zero delta", Stock{Available: 2}, 0, ReasonManual, 0, 0, ErrInvalidQuantity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, mv, err := Adjust(tt.stock, tt.delta, tt.reason)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantAvailable, next.Available)
			assert.Equal(t, tt.wantReserved, next.Reserved)
			assert.Equal(t, tt.reason, mv.Reason)
			assert.Equal(t, next.Available-tt.stock.Available, mv.AvailableDelta)
		})
	}
}
