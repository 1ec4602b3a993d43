package mysql

import (
	"context"
	"errors"

	"commerce/domain/order"
	"commerce/domain/shared"
	"commerce/infrastructure/persistence/mysql/po"
	"commerce/infrastructure/persistence/specification"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderRepository MySQL/GORM implementation of order repository
// Repository is only responsible for persistence of aggregate roots, not event publishing
// GORM associations are not used; child rows are loaded and written explicitly
type OrderRepository struct {
	db         *gorm.DB
	translator *specification.OrderTranslator
}

// NewOrderRepository Create order repository
func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db, translator: specification.NewOrderTranslator()}
}

// Save inserts a new order with all of its children.
func (r *OrderRepository) Save(ctx context.Context, o *order.Order) error {
	rows := po.FromOrderDomain(o)
	rows.Order.Version = 1

	err := inTransaction(ctx, r.db, func(tx *gorm.DB) error {
		if err := tx.Create(rows.Order).Error; err != nil {
			if isDuplicateKeyError(err) {
				return shared.NewConflictError("order", "order "+o.ID()+" already exists")
			}
			return err
		}
		return r.replaceChildren(tx, o.ID(), rows)
	})
	if err != nil {
		return err
	}

	// a retried transaction saves the same order again
	if o.IsNew() {
		o.IncrementVersionForSave()
		o.MarkPersisted()
	}
	return nil
}

// Update writes the header guarded by the loaded version, then replaces the children.
func (r *OrderRepository) Update(ctx context.Context, o *order.Order) error {
	rows := po.FromOrderDomain(o)
	expectedVersion := o.Version()

	err := inTransaction(ctx, r.db, func(tx *gorm.DB) error {
		result := tx.Model(&po.OrderPO{}).
			Where("id = ? AND version = ?", o.ID(), expectedVersion).
			Updates(map[string]any{
				"status":          rows.Order.Status,
				"subtotal":        rows.Order.Subtotal,
				"tax_amount":      rows.Order.TaxAmount,
				"shipping_amount": rows.Order.ShippingAmount,
				"discount_amount": rows.Order.DiscountAmount,
				"total_amount":    rows.Order.TotalAmount,
				"version":         expectedVersion + 1,
				"updated_at":      rows.Order.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&po.OrderPO{}).Where("id = ?", o.ID()).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return order.NewOrderNotFoundError(o.ID())
			}
			return order.NewConcurrentModificationError(o.ID())
		}
		return r.replaceChildren(tx, o.ID(), rows)
	})
	if err != nil {
		return err
	}

	o.IncrementVersionForSave()
	return nil
}

// replaceChildren replace, not diff: items and shipments are rewritten, the address upserted
func (r *OrderRepository) replaceChildren(tx *gorm.DB, orderID string, rows po.OrderRows) error {
	if err := tx.Where("order_id = ?", orderID).Delete(&po.OrderItemPO{}).Error; err != nil {
		return err
	}
	if len(rows.Items) > 0 {
		if err := tx.Create(&rows.Items).Error; err != nil {
			return err
		}
	}

	if rows.Address != nil {
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "order_id"}},
			UpdateAll: true,
		}).Create(rows.Address).Error
		if err != nil {
			return err
		}
	}

	if err := tx.Where("order_id = ?", orderID).Delete(&po.ShipmentPO{}).Error; err != nil {
		return err
	}
	if len(rows.Shipments) > 0 {
		if err := tx.Create(&rows.Shipments).Error; err != nil {
			return err
		}
	}
	return nil
}

// Delete removes the order and its items, address and shipments.
// Status history and the audit log are kept.
func (r *OrderRepository) Delete(ctx context.Context, id string) error {
	return inTransaction(ctx, r.db, func(tx *gorm.DB) error {
		for _, child := range []any{&po.OrderItemPO{}, &po.OrderAddressPO{}, &po.ShipmentPO{}} {
			if err := tx.Where("order_id = ?", id).Delete(child).Error; err != nil {
				return err
			}
		}
		result := tx.Where("id = ?", id).Delete(&po.OrderPO{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return order.NewOrderNotFoundError(id)
		}
		return nil
	})
}

// FindByID Find order by ID
func (r *OrderRepository) FindByID(ctx context.Context, id string) (*order.Order, error) {
	return r.findOne(ctx, "id = ?", id, func() error { return order.NewOrderNotFoundError(id) })
}

// FindByOrderNumber Find order by its human-facing number
func (r *OrderRepository) FindByOrderNumber(ctx context.Context, number order.OrderNumber) (*order.Order, error) {
	return r.findOne(ctx, "order_number = ?", number.String(), func() error {
		return order.NewOrderNotFoundError(number.String())
	})
}

func (r *OrderRepository) findOne(ctx context.Context, query string, arg any, notFound func() error) (*order.Order, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	db := dbFrom(ctx, r.db)

	var orderPO po.OrderPO
	if err := db.Where(query, arg).First(&orderPO).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound()
		}
		return nil, err
	}

	orders, err := r.loadAggregates(db, []po.OrderPO{orderPO})
	if err != nil {
		return nil, err
	}
	return orders[0], nil
}

// List returns orders matching query, newest first
func (r *OrderRepository) List(ctx context.Context, query order.ListQuery) ([]*order.Order, error) {
	scope, err := r.translator.Scope(query.Spec)
	if err != nil {
		return nil, err
	}
	db := dbFrom(ctx, r.db)

	q := db.Model(&po.OrderPO{}).Scopes(scope).Order("created_at DESC").Order("id DESC")
	if query.Offset > 0 {
		q = q.Offset(query.Offset)
	}
	if query.Limit > 0 {
		q = q.Limit(query.Limit)
	}

	var orderPOs []po.OrderPO
	if err := q.Find(&orderPOs).Error; err != nil {
		return nil, err
	}
	return r.loadAggregates(db, orderPOs)
}

// Count counts orders matching spec
func (r *OrderRepository) Count(ctx context.Context, spec shared.Specification[*order.Order]) (int64, error) {
	scope, err := r.translator.Scope(spec)
	if err != nil {
		return 0, err
	}
	var count int64
	err = dbFrom(ctx, r.db).Model(&po.OrderPO{}).Scopes(scope).Count(&count).Error
	return count, err
}

// Exists reports whether an order with id is stored
func (r *OrderRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := dbFrom(ctx, r.db).Model(&po.OrderPO{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// loadAggregates loads children for all headers with one query per table
// (do not use GORM's Preload to keep aggregate boundaries clear)
func (r *OrderRepository) loadAggregates(db *gorm.DB, orderPOs []po.OrderPO) ([]*order.Order, error) {
	if len(orderPOs) == 0 {
		return []*order.Order{}, nil
	}
	ids := make([]string, len(orderPOs))
	for i := range orderPOs {
		ids[i] = orderPOs[i].ID
	}

	var itemPOs []po.OrderItemPO
	if err := db.Where("order_id IN ?", ids).Order("created_at ASC").Order("id ASC").Find(&itemPOs).Error; err != nil {
		return nil, err
	}
	var addressPOs []po.OrderAddressPO
	if err := db.Where("order_id IN ?", ids).Find(&addressPOs).Error; err != nil {
		return nil, err
	}
	var shipmentPOs []po.ShipmentPO
	if err := db.Where("order_id IN ?", ids).Order("created_at ASC").Order("id ASC").Find(&shipmentPOs).Error; err != nil {
		return nil, err
	}

	items := make(map[string][]po.OrderItemPO, len(ids))
	for _, it := range itemPOs {
		items[it.OrderID] = append(items[it.OrderID], it)
	}
	addresses := make(map[string]*po.OrderAddressPO, len(addressPOs))
	for i := range addressPOs {
		addresses[addressPOs[i].OrderID] = &addressPOs[i]
	}
	shipments := make(map[string][]po.ShipmentPO, len(ids))
	for _, s := range shipmentPOs {
		shipments[s.OrderID] = append(shipments[s.OrderID], s)
	}

	orders := make([]*order.Order, len(orderPOs))
	for i := range orderPOs {
		id := orderPOs[i].ID
		o, err := orderPOs[i].ToDomain(items[id], addresses[id], shipments[id])
		if err != nil {
			return nil, err
		}
		orders[i] = o
	}
	return orders, nil
}

// Compile-time interface implementation check
var _ order.Repository = (*OrderRepository)(nil)
