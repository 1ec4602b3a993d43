// Package specification translates domain specifications into GORM conditions.
package specification

import (
	"errors"
	"fmt"

	"commerce/domain/order"
	"commerce/domain/shared"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrUnsupported the specification has no SQL translation
var ErrUnsupported = errors.New("unsupported specification")

// matchNothing NOT of an always-true specification
var matchNothing = clause.Expr{SQL: "1 = 0"}

// OrderTranslator converts order specifications into WHERE conditions on the orders table
type OrderTranslator struct{}

// NewOrderTranslator creates a new order translator
func NewOrderTranslator() *OrderTranslator {
	return &OrderTranslator{}
}

// Scope returns a GORM scope applying spec. A nil or always-true spec leaves the query unchanged.
func (t *OrderTranslator) Scope(spec shared.Specification[*order.Order]) (func(*gorm.DB) *gorm.DB, error) {
	expr, err := t.Expression(spec)
	if err != nil {
		return nil, err
	}
	return func(db *gorm.DB) *gorm.DB {
		if expr == nil {
			return db
		}
		return db.Where(expr)
	}, nil
}

// Expression translates spec; nil means "no condition".
func (t *OrderTranslator) Expression(spec shared.Specification[*order.Order]) (clause.Expression, error) {
	if spec == nil {
		return nil, nil
	}

	switch s := spec.(type) {
	case shared.TrueSpecification[*order.Order]:
		return nil, nil

	case shared.AndSpecification[*order.Order]:
		left, right, err := t.pair(s.Left, s.Right)
		if err != nil {
			return nil, err
		}
		switch {
		case left == nil:
			return right, nil
		case right == nil:
			return left, nil
		}
		return clause.And(left, right), nil

	case shared.OrSpecification[*order.Order]:
		left, right, err := t.pair(s.Left, s.Right)
		if err != nil {
			return nil, err
		}
		if left == nil || right == nil {
			return nil, nil
		}
		return clause.Or(left, right), nil

	case shared.NotSpecification[*order.Order]:
		inner, err := t.Expression(s.Spec)
		if err != nil {
			return nil, err
		}
		if inner == nil {
			return matchNothing, nil
		}
		return clause.Not(inner), nil

	case order.ByUserIDSpecification:
		return clause.Eq{Column: clause.Column{Name: "user_id"}, Value: s.UserID}, nil
	case order.ByGuestTokenSpecification:
		return clause.Eq{Column: clause.Column{Name: "guest_token"}, Value: s.GuestToken}, nil
	case order.ByStatusSpecification:
		return clause.Eq{Column: clause.Column{Name: "status"}, Value: s.Status.String()}, nil
	case order.BySourceSpecification:
		return clause.Eq{Column: clause.Column{Name: "source"}, Value: s.Source.String()}, nil
	case order.ByDateRangeSpecification:
		var conds []clause.Expression
		if !s.Start.IsZero() {
			conds = append(conds, clause.Gte{Column: clause.Column{Name: "created_at"}, Value: s.Start.UTC()})
		}
		if !s.End.IsZero() {
			conds = append(conds, clause.Lte{Column: clause.Column{Name: "created_at"}, Value: s.End.UTC()})
		}
		if len(conds) == 0 {
			return nil, nil
		}
		return clause.And(conds...), nil
	}

	return nil, fmt.Errorf("%w: %T", ErrUnsupported, spec)
}

func (t *OrderTranslator) pair(l, r shared.Specification[*order.Order]) (clause.Expression, clause.Expression, error) {
	left, err := t.Expression(l)
	if err != nil {
		return nil, nil, err
	}
	right, err := t.Expression(r)
	if err != nil {
		return nil, nil, err
	}
	return left, right, nil
}
