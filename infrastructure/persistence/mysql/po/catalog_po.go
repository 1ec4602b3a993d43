package po

import (
	"time"

	"commerce/domain/catalog"

	"github.com/shopspring/decimal"
)

// ProductPO product persistence object
type ProductPO struct {
	ID        string `gorm:"primaryKey;size:64"`
	Name      string `gorm:"size:255;not null"`
	Brand     string `gorm:"size:255"`
	Active    bool   `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName Specify table name
func (ProductPO) TableName() string {
	return "products"
}

// VariantPO product variant persistence object; Price is in Currency
type VariantPO struct {
	ID        string          `gorm:"primaryKey;size:64"`
	ProductID string          `gorm:"size:64;index;not null"`
	SKU       string          `gorm:"size:64;uniqueIndex;not null"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Currency  string          `gorm:"size:3;not null"`
	Size      string          `gorm:"size:50"`
	Color     string          `gorm:"size:50"`
	Weight    decimal.Decimal `gorm:"type:decimal(10,3)"`
	Length    decimal.Decimal `gorm:"type:decimal(10,2)"`
	Width     decimal.Decimal `gorm:"type:decimal(10,2)"`
	Height    decimal.Decimal `gorm:"type:decimal(10,2)"`
	Active    bool            `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName Specify table name
func (VariantPO) TableName() string {
	return "product_variants"
}

// LocationPO fulfillment location persistence object
type LocationPO struct {
	ID        string    `gorm:"primaryKey;size:64"`
	Name      string    `gorm:"size:255;not null"`
	Type      string    `gorm:"size:20;index;not null"`
	Active    bool      `gorm:"not null;default:true"`
	CreatedAt time.Time `gorm:"index"`
}

// TableName Specify table name
func (LocationPO) TableName() string {
	return "locations"
}

func FromProductDomain(p *catalog.Product) *ProductPO {
	return &ProductPO{
		ID:        p.ID,
		Name:      p.Name,
		Brand:     p.Brand,
		Active:    p.Active,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func (po *ProductPO) ToDomain() *catalog.Product {
	return &catalog.Product{
		ID:        po.ID,
		Name:      po.Name,
		Brand:     po.Brand,
		Active:    po.Active,
		CreatedAt: po.CreatedAt,
		UpdatedAt: po.UpdatedAt,
	}
}

func FromVariantDomain(v *catalog.Variant) *VariantPO {
	return &VariantPO{
		ID:        v.ID,
		ProductID: v.ProductID,
		SKU:       v.SKU,
		Price:     v.Price,
		Currency:  v.Currency,
		Size:      v.Size,
		Color:     v.Color,
		Weight:    v.Weight,
		Length:    v.Length,
		Width:     v.Width,
		Height:    v.Height,
		Active:    v.Active,
		CreatedAt: v.CreatedAt,
		UpdatedAt: v.UpdatedAt,
	}
}

func (po *VariantPO) ToDomain() *catalog.Variant {
	return &catalog.Variant{
		ID:        po.ID,
		ProductID: po.ProductID,
		SKU:       po.SKU,
		Price:     po.Price,
		Currency:  po.Currency,
		Size:      po.Size,
		Color:     po.Color,
		Weight:    po.Weight,
		Length:    po.Length,
		Width:     po.Width,
		Height:    po.Height,
		Active:    po.Active,
		CreatedAt: po.CreatedAt,
		UpdatedAt: po.UpdatedAt,
	}
}

func FromLocationDomain(l *catalog.Location) *LocationPO {
	return &LocationPO{
		ID:        l.ID,
		Name:      l.Name,
		Type:      string(l.Type),
		Active:    l.Active,
		CreatedAt: l.CreatedAt,
	}
}

func (po *LocationPO) ToDomain() *catalog.Location {
	return &catalog.Location{
		ID:        po.ID,
		Name:      po.Name,
		Type:      catalog.LocationType(po.Type),
		Active:    po.Active,
		CreatedAt: po.CreatedAt,
	}
}
