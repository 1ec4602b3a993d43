package po

import (
	"time"

	"commerce/domain/inventory"
)

// StockLevelPO stock of one variant at one location
type StockLevelPO struct {
	VariantID  string `gorm:"primaryKey;size:64"`
	LocationID string `gorm:"primaryKey;size:64"`
	Available  int    `gorm:"not null;default:0"`
	Reserved   int    `gorm:"not null;default:0"`
	UpdatedAt  time.Time
}

// TableName Specify table name
func (StockLevelPO) TableName() string {
	return "stock_levels"
}

func (po *StockLevelPO) ToDomain() *inventory.Stock {
	return &inventory.Stock{
		VariantID:  po.VariantID,
		LocationID: po.LocationID,
		Available:  po.Available,
		Reserved:   po.Reserved,
		UpdatedAt:  po.UpdatedAt,
	}
}

// StockMovementPO inventory ledger row
type StockMovementPO struct {
	ID             int64  `gorm:"primaryKey;autoIncrement"`
	VariantID      string `gorm:"size:64;index:idx_movement_stock;not null"`
	LocationID     string `gorm:"size:64;index:idx_movement_stock;not null"`
	AvailableDelta int    `gorm:"not null"`
	ReservedDelta  int    `gorm:"not null"`
	Reason         string `gorm:"size:32;not null"`
	ReferenceID    string `gorm:"size:64;index"`
	CreatedAt      time.Time
}

// TableName Specify table name
func (StockMovementPO) TableName() string {
	return "stock_movements"
}

func FromMovementDomain(m inventory.Movement) *StockMovementPO {
	return &StockMovementPO{
		VariantID:      m.VariantID,
		LocationID:     m.LocationID,
		AvailableDelta: m.AvailableDelta,
		ReservedDelta:  m.ReservedDelta,
		Reason:         string(m.Reason),
		ReferenceID:    m.ReferenceID,
		CreatedAt:      m.CreatedAt,
	}
}

func (po *StockMovementPO) ToDomain() inventory.Movement {
	return inventory.Movement{
		ID:             po.ID,
		VariantID:      po.VariantID,
		LocationID:     po.LocationID,
		AvailableDelta: po.AvailableDelta,
		ReservedDelta:  po.ReservedDelta,
		Reason:         inventory.Reason(po.Reason),
		ReferenceID:    po.ReferenceID,
		CreatedAt:      po.CreatedAt,
	}
}
