package po

import (
	"fmt"
	"time"

	"commerce/domain/order"
	"commerce/domain/shared"

	"github.com/shopspring/decimal"
)

// OrderPO Order persistence object
// Note: Only used for database mapping, does not contain any business logic
// Defining GORM associations is prohibited here
type OrderPO struct {
	ID             string          `gorm:"primaryKey;size:36"`
	OrderNumber    string          `gorm:"size:32;uniqueIndex;not null"`
	UserID         string          `gorm:"size:64;index"`
	GuestToken     string          `gorm:"size:128;index"`
	Status         string          `gorm:"size:20;index;not null"`
	Source         string          `gorm:"size:10;index;not null"`
	Currency       string          `gorm:"size:3;not null"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TaxAmount      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ShippingAmount decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Version        int             `gorm:"not null;default:1"`
	CreatedAt      time.Time       `gorm:"index"`
	UpdatedAt      time.Time
}

// TableName Specify table name
func (OrderPO) TableName() string {
	return "orders"
}

// OrderItemPO Order item persistence object with the frozen product snapshot
type OrderItemPO struct {
	ID          string          `gorm:"primaryKey;size:36"`
	OrderID     string          `gorm:"size:36;index;not null"` // Only store ID, no GORM association
	VariantID   string          `gorm:"size:64;index;not null"`
	ProductID   string          `gorm:"size:64;not null"`
	SKU         string          `gorm:"size:64;not null"`
	Name        string          `gorm:"size:255;not null"`
	Brand       string          `gorm:"size:255"`
	Size        string          `gorm:"size:50"`
	Color       string          `gorm:"size:50"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Currency    string          `gorm:"size:3;not null"`
	Weight      decimal.Decimal `gorm:"type:decimal(10,3)"`
	Length      decimal.Decimal `gorm:"type:decimal(10,2)"`
	Width       decimal.Decimal `gorm:"type:decimal(10,2)"`
	Height      decimal.Decimal `gorm:"type:decimal(10,2)"`
	Quantity    int             `gorm:"not null"`
	IsGift      bool            `gorm:"not null;default:false"`
	GiftMessage string          `gorm:"size:500"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName Specify table name
func (OrderItemPO) TableName() string {
	return "order_items"
}

// OrderAddressPO billing and shipping address of an order, one row per order
type OrderAddressPO struct {
	ID                 string `gorm:"primaryKey;size:36"`
	OrderID            string `gorm:"size:36;uniqueIndex;not null"`
	BillingFirstName   string `gorm:"size:255;not null"`
	BillingLastName    string `gorm:"size:255;not null"`
	BillingCompany     string `gorm:"size:255"`
	BillingLine1       string `gorm:"size:255;not null"`
	BillingLine2       string `gorm:"size:255"`
	BillingCity        string `gorm:"size:255;not null"`
	BillingRegion      string `gorm:"size:255"`
	BillingPostalCode  string `gorm:"size:32;not null"`
	BillingCountry     string `gorm:"size:2;not null"`
	BillingPhone       string `gorm:"size:64"`
	ShippingFirstName  string `gorm:"size:255;not null"`
	ShippingLastName   string `gorm:"size:255;not null"`
	ShippingCompany    string `gorm:"size:255"`
	ShippingLine1      string `gorm:"size:255;not null"`
	ShippingLine2      string `gorm:"size:255"`
	ShippingCity       string `gorm:"size:255;not null"`
	ShippingRegion     string `gorm:"size:255"`
	ShippingPostalCode string `gorm:"size:32;not null"`
	ShippingCountry    string `gorm:"size:2;not null"`
	ShippingPhone      string `gorm:"size:64"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// TableName Specify table name
func (OrderAddressPO) TableName() string {
	return "order_addresses"
}

// ShipmentPO shipment persistence object
type ShipmentPO struct {
	ID               string `gorm:"primaryKey;size:36"`
	OrderID          string `gorm:"size:36;index;not null"`
	Carrier          string `gorm:"size:100"`
	Service          string `gorm:"size:100"`
	TrackingNumber   string `gorm:"size:128;index"`
	GiftReceipt      bool   `gorm:"not null;default:false"`
	PickupLocationID string `gorm:"size:64"`
	ShippedAt        *time.Time
	DeliveredAt      *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// TableName Specify table name
func (ShipmentPO) TableName() string {
	return "shipments"
}

// ============================================================================
// Domain -> PO
// ============================================================================

// OrderRows all rows that make up one order aggregate
type OrderRows struct {
	Order     *OrderPO
	Items     []OrderItemPO
	Address   *OrderAddressPO
	Shipments []ShipmentPO
}

// FromOrderDomain Convert domain model to persistence objects
func FromOrderDomain(o *order.Order) OrderRows {
	t := o.Totals()
	orderPO := &OrderPO{
		ID:             o.ID(),
		OrderNumber:    o.Number().String(),
		Status:         o.Status().String(),
		Source:         o.Source().String(),
		Currency:       o.Currency().Code(),
		Subtotal:       t.Subtotal(),
		TaxAmount:      t.Tax(),
		ShippingAmount: t.Shipping(),
		DiscountAmount: t.Discount(),
		TotalAmount:    t.Total(),
		Version:        o.Version(),
		CreatedAt:      o.CreatedAt(),
		UpdatedAt:      o.UpdatedAt(),
	}
	if id, ok := o.Customer().UserID(); ok {
		orderPO.UserID = id
	}
	if token, ok := o.Customer().GuestToken(); ok {
		orderPO.GuestToken = token
	}

	items := o.Items()
	itemPOs := make([]OrderItemPO, len(items))
	for i, item := range items {
		itemPOs[i] = FromItemDomain(item)
	}

	shipments := o.Shipments()
	shipmentPOs := make([]ShipmentPO, len(shipments))
	for i, s := range shipments {
		shipmentPOs[i] = FromShipmentDomain(s)
	}

	rows := OrderRows{Order: orderPO, Items: itemPOs, Shipments: shipmentPOs}
	if a, ok := o.Address(); ok {
		rows.Address = FromAddressDomain(a)
	}
	return rows
}

// FromItemDomain Convert item to persistence object
func FromItemDomain(item order.Item) OrderItemPO {
	s := item.Snapshot()
	return OrderItemPO{
		ID:          item.ID(),
		OrderID:     item.OrderID(),
		VariantID:   s.VariantID(),
		ProductID:   s.ProductID(),
		SKU:         s.SKU(),
		Name:        s.Name(),
		Brand:       s.Brand(),
		Size:        s.Size(),
		Color:       s.Color(),
		UnitPrice:   s.UnitPrice().Amount(),
		Currency:    s.UnitPrice().Currency(),
		Weight:      s.Weight(),
		Length:      s.Dimensions().Length,
		Width:       s.Dimensions().Width,
		Height:      s.Dimensions().Height,
		Quantity:    item.Quantity(),
		IsGift:      item.IsGift(),
		GiftMessage: item.GiftMessage(),
		CreatedAt:   item.CreatedAt(),
		UpdatedAt:   item.UpdatedAt(),
	}
}

// FromAddressDomain Convert address to persistence object
func FromAddressDomain(a order.Address) *OrderAddressPO {
	b, s := a.Billing(), a.Shipping()
	return &OrderAddressPO{
		ID:                 a.ID(),
		OrderID:            a.OrderID(),
		BillingFirstName:   b.FirstName(),
		BillingLastName:    b.LastName(),
		BillingCompany:     b.Company(),
		BillingLine1:       b.Line1(),
		BillingLine2:       b.Line2(),
		BillingCity:        b.City(),
		BillingRegion:      b.Region(),
		BillingPostalCode:  b.PostalCode(),
		BillingCountry:     b.Country(),
		BillingPhone:       b.Phone(),
		ShippingFirstName:  s.FirstName(),
		ShippingLastName:   s.LastName(),
		ShippingCompany:    s.Company(),
		ShippingLine1:      s.Line1(),
		ShippingLine2:      s.Line2(),
		ShippingCity:       s.City(),
		ShippingRegion:     s.Region(),
		ShippingPostalCode: s.PostalCode(),
		ShippingCountry:    s.Country(),
		ShippingPhone:      s.Phone(),
		CreatedAt:          a.CreatedAt(),
		UpdatedAt:          a.UpdatedAt(),
	}
}

// FromShipmentDomain Convert shipment to persistence object
func FromShipmentDomain(s order.Shipment) ShipmentPO {
	return ShipmentPO{
		ID:               s.ID(),
		OrderID:          s.OrderID(),
		Carrier:          s.Carrier(),
		Service:          s.Service(),
		TrackingNumber:   s.TrackingNumber(),
		GiftReceipt:      s.GiftReceipt(),
		PickupLocationID: s.PickupLocationID(),
		ShippedAt:        s.ShippedAt(),
		DeliveredAt:      s.DeliveredAt(),
		CreatedAt:        s.CreatedAt(),
		UpdatedAt:        s.UpdatedAt(),
	}
}

// ============================================================================
// PO -> Domain
// ============================================================================

// ToDomain Convert persistence objects to domain model
func (po *OrderPO) ToDomain(itemPOs []OrderItemPO, addressPO *OrderAddressPO, shipmentPOs []ShipmentPO) (*order.Order, error) {
	items := make([]order.Item, len(itemPOs))
	for i := range itemPOs {
		item, err := itemPOs[i].ToDomain()
		if err != nil {
			return nil, err
		}
		items[i] = item
	}

	var address *order.Address
	if addressPO != nil {
		a, err := addressPO.ToDomain()
		if err != nil {
			return nil, err
		}
		address = &a
	}

	shipments := make([]order.Shipment, len(shipmentPOs))
	for i := range shipmentPOs {
		shipments[i] = shipmentPOs[i].ToDomain()
	}

	totals, err := order.NewTotals(po.Subtotal, po.TaxAmount, po.ShippingAmount, po.DiscountAmount, po.TotalAmount)
	if err != nil {
		return nil, fmt.Errorf("corrupt totals on order %s: %w", po.ID, err)
	}

	return order.RebuildFromDTO(order.ReconstructionDTO{
		ID:         po.ID,
		Number:     po.OrderNumber,
		UserID:     po.UserID,
		GuestToken: po.GuestToken,
		Items:      items,
		Address:    address,
		Shipments:  shipments,
		Totals:     totals,
		Status:     order.Status(po.Status),
		Source:     order.Source(po.Source),
		Currency:   po.Currency,
		Version:    po.Version,
		CreatedAt:  po.CreatedAt,
		UpdatedAt:  po.UpdatedAt,
	})
}

// ToDomain Convert item row to domain model
func (po *OrderItemPO) ToDomain() (order.Item, error) {
	snapshot, err := order.NewProductSnapshot(order.ProductSnapshotParams{
		ProductID: po.ProductID,
		VariantID: po.VariantID,
		SKU:       po.SKU,
		Name:      po.Name,
		Brand:     po.Brand,
		Size:      po.Size,
		Color:     po.Color,
		UnitPrice: shared.NewMoney(po.UnitPrice, po.Currency),
		Weight:    po.Weight,
		Dimensions: order.Dimensions{
			Length: po.Length,
			Width:  po.Width,
			Height: po.Height,
		},
	})
	if err != nil {
		return order.Item{}, fmt.Errorf("corrupt item %s: %w", po.ID, err)
	}

	return order.RebuildItemFromDTO(order.ItemReconstructionDTO{
		ID:          po.ID,
		OrderID:     po.OrderID,
		Quantity:    po.Quantity,
		Snapshot:    snapshot,
		IsGift:      po.IsGift,
		GiftMessage: po.GiftMessage,
		CreatedAt:   po.CreatedAt,
		UpdatedAt:   po.UpdatedAt,
	}), nil
}

// ToDomain Convert address row to domain model
func (po *OrderAddressPO) ToDomain() (order.Address, error) {
	billing, err := order.NewAddressSnapshot(order.AddressParams{
		FirstName:  po.BillingFirstName,
		LastName:   po.BillingLastName,
		Company:    po.BillingCompany,
		Line1:      po.BillingLine1,
		Line2:      po.BillingLine2,
		City:       po.BillingCity,
		Region:     po.BillingRegion,
		PostalCode: po.BillingPostalCode,
		Country:    po.BillingCountry,
		Phone:      po.BillingPhone,
	})
	if err != nil {
		return order.Address{}, fmt.Errorf("corrupt billing address %s: %w", po.ID, err)
	}
	shipping, err := order.NewAddressSnapshot(order.AddressParams{
		FirstName:  po.ShippingFirstName,
		LastName:   po.ShippingLastName,
		Company:    po.ShippingCompany,
		Line1:      po.ShippingLine1,
		Line2:      po.ShippingLine2,
		City:       po.ShippingCity,
		Region:     po.ShippingRegion,
		PostalCode: po.ShippingPostalCode,
		Country:    po.ShippingCountry,
		Phone:      po.ShippingPhone,
	})
	if err != nil {
		return order.Address{}, fmt.Errorf("corrupt shipping address %s: %w", po.ID, err)
	}

	return order.RebuildAddressFromDTO(order.AddressReconstructionDTO{
		ID:        po.ID,
		OrderID:   po.OrderID,
		Billing:   billing,
		Shipping:  shipping,
		CreatedAt: po.CreatedAt,
		UpdatedAt: po.UpdatedAt,
	}), nil
}

// ToDomain Convert shipment row to domain model
func (po *ShipmentPO) ToDomain() order.Shipment {
	return order.RebuildShipmentFromDTO(order.ShipmentReconstructionDTO{
		ID:               po.ID,
		OrderID:          po.OrderID,
		Carrier:          po.Carrier,
		Service:          po.Service,
		TrackingNumber:   po.TrackingNumber,
		GiftReceipt:      po.GiftReceipt,
		PickupLocationID: po.PickupLocationID,
		ShippedAt:        po.ShippedAt,
		DeliveredAt:      po.DeliveredAt,
		CreatedAt:        po.CreatedAt,
		UpdatedAt:        po.UpdatedAt,
	})
}
