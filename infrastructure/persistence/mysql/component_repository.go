package mysql

import (
	"context"
	"errors"

	"commerce/domain/order"
	"commerce/infrastructure/persistence/mysql/po"

	"gorm.io/gorm"
)

// OrderComponentRepository read access to items, addresses and shipments across orders.
// Writes always go through OrderRepository.
type OrderComponentRepository struct {
	db *gorm.DB
}

// NewOrderComponentRepository Create component repository
func NewOrderComponentRepository(db *gorm.DB) *OrderComponentRepository {
	return &OrderComponentRepository{db: db}
}

func (r *OrderComponentRepository) FindItemByID(ctx context.Context, itemID string) (order.Item, error) {
	var itemPO po.OrderItemPO
	if err := dbFrom(ctx, r.db).First(&itemPO, "id = ?", itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return order.Item{}, order.NewItemNotFoundError(itemID)
		}
		return order.Item{}, err
	}
	return itemPO.ToDomain()
}

func (r *OrderComponentRepository) FindItemsByOrderID(ctx context.Context, orderID string) ([]order.Item, error) {
	return r.findItems(ctx, "order_id = ?", orderID)
}

func (r *OrderComponentRepository) FindItemsByVariantID(ctx context.Context, variantID string) ([]order.Item, error) {
	return r.findItems(ctx, "variant_id = ?", variantID)
}

func (r *OrderComponentRepository) findItems(ctx context.Context, query string, arg any) ([]order.Item, error) {
	var itemPOs []po.OrderItemPO
	err := dbFrom(ctx, r.db).Where(query, arg).
		Order("created_at ASC").Order("id ASC").
		Find(&itemPOs).Error
	if err != nil {
		return nil, err
	}

	items := make([]order.Item, len(itemPOs))
	for i := range itemPOs {
		item, err := itemPOs[i].ToDomain()
		if err != nil {
			return nil, err
		}
		items[i] = item
	}
	return items, nil
}

func (r *OrderComponentRepository) FindAddressByOrderID(ctx context.Context, orderID string) (order.Address, error) {
	var addressPO po.OrderAddressPO
	if err := dbFrom(ctx, r.db).First(&addressPO, "order_id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return order.Address{}, order.NewAddressNotFoundError(orderID)
		}
		return order.Address{}, err
	}
	return addressPO.ToDomain()
}

func (r *OrderComponentRepository) FindShipmentByID(ctx context.Context, shipmentID string) (order.Shipment, error) {
	return r.findShipment(ctx, "id = ?", shipmentID)
}

func (r *OrderComponentRepository) FindShipmentByTrackingNumber(ctx context.Context, trackingNumber string) (order.Shipment, error) {
	return r.findShipment(ctx, "tracking_number = ?", trackingNumber)
}

func (r *OrderComponentRepository) findShipment(ctx context.Context, query, arg string) (order.Shipment, error) {
	var shipmentPO po.ShipmentPO
	if err := dbFrom(ctx, r.db).Where(query, arg).First(&shipmentPO).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return order.Shipment{}, order.NewShipmentNotFoundError(arg)
		}
		return order.Shipment{}, err
	}
	return shipmentPO.ToDomain(), nil
}

func (r *OrderComponentRepository) FindShipmentsByOrderID(ctx context.Context, orderID string) ([]order.Shipment, error) {
	var shipmentPOs []po.ShipmentPO
	err := dbFrom(ctx, r.db).Where("order_id = ?", orderID).
		Order("created_at ASC").Order("id ASC").
		Find(&shipmentPOs).Error
	if err != nil {
		return nil, err
	}

	shipments := make([]order.Shipment, len(shipmentPOs))
	for i := range shipmentPOs {
		shipments[i] = shipmentPOs[i].ToDomain()
	}
	return shipments, nil
}

var (
	_ order.ItemRepository     = (*OrderComponentRepository)(nil)
	_ order.AddressRepository  = (*OrderComponentRepository)(nil)
	_ order.ShipmentRepository = (*OrderComponentRepository)(nil)
)
