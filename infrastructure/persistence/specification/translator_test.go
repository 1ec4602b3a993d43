package specification

import (
	"context"
	"testing"
	"time"

	"commerce/domain/order"
	"commerce/domain/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/clause"
)

type closedOrders struct{}

func (closedOrders) IsSatisfiedBy(context.Context, *order.Order) bool { return false }

func eq(column string, value any) clause.Eq {
	return clause.Eq{Column: clause.Column{Name: column}, Value: value}
}

func TestOrderTranslatorLeafSpecifications(t *testing.T) {
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)

	testCases := []struct {
		name string
		spec shared.Specification[*order.Order]
		want clause.Expression
	}{
		{"user", order.NewByUserIDSpecification("u-1"), eq("user_id", "u-1")},
		{"guest", order.NewByGuestTokenSpecification("g-1"), eq("guest_token", "g-1")},
		{"status", order.NewByStatusSpecification(order.StatusPaid), eq("status", "paid")},
		{"source", order.NewBySourceSpecification(order.SourcePOS), eq("source", "pos")},
		{
			"date range",
			order.NewByDateRangeSpecification(from, to),
			clause.And(
				clause.Gte{Column: clause.Column{Name: "created_at"}, Value: from},
				clause.Lte{Column: clause.Column{Name: "created_at"}, Value: to},
			),
		},
		{
			"open ended range",
			order.NewByDateRangeSpecification(from, time.Time{}),
			clause.And(clause.Gte{Column: clause.Column{Name: "created_at"}, Value: from}),
		},
	}

	tr := NewOrderTranslator()
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tr.Expression(tc.spec)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestOrderTranslatorComposites(t *testing.T) {
	tr := NewOrderTranslator()
	user := order.NewByUserIDSpecification("u-1")
	paid := order.NewByStatusSpecification(order.StatusPaid)

	got, err := tr.Expression(shared.And(user, paid))
	require.NoError(t, err)
	assert.Equal(t, clause.And(eq("user_id", "u-1"), eq("status", "paid")), got)

	got, err = tr.Expression(shared.Or(user, paid))
	require.NoError(t, err)
	assert.Equal(t, clause.Or(eq("user_id", "u-1"), eq("status", "paid")), got)

	got, err = tr.Expression(shared.Not(paid))
	require.NoError(t, err)
	assert.Equal(t, clause.Not(eq("status", "paid")), got)
}

func TestOrderTranslatorMatchAll(t *testing.T) {
	tr := NewOrderTranslator()
	all := shared.TrueSpecification[*order.Order]{}

	for _, spec := range []shared.Specification[*order.Order]{nil, all, shared.And[*order.Order]()} {
		got, err := tr.Expression(spec)
		require.NoError(t, err)
		assert.Nil(t, got)
	}

	got, err := tr.Expression(shared.Or[*order.Order](all, order.NewByUserIDSpecification("u-1")))
	require.NoError(t, err)
	assert.Nil(t, got, "OR with an always-true side matches everything")

	got, err = tr.Expression(shared.Not[*order.Order](all))
	require.NoError(t, err)
	assert.Equal(t, matchNothing, got)

	got, err = tr.Expression(shared.AndSpecification[*order.Order]{Left: all, Right: order.NewByUserIDSpecification("u-1")})
	require.NoError(t, err)
	assert.Equal(t, eq("user_id", "u-1"), got)
}

func TestOrderTranslatorUnsupported(t *testing.T) {
	tr := NewOrderTranslator()

	_, err := tr.Expression(closedOrders{})
	assert.ErrorIs(t, err, ErrUnsupported)

	_, err = tr.Scope(shared.And(order.NewByUserIDSpecification("u-1"), shared.Specification[*order.Order](closedOrders{})))
	assert.ErrorIs(t, err, ErrUnsupported)
}
