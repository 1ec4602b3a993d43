package order

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Address billing and shipping addresses of an order; at most one per order
type Address struct {
	id        string
	orderID   string
	billing   AddressSnapshot
	shipping  AddressSnapshot
	createdAt time.Time
	updatedAt time.Time
}

func newAddress(orderID string, billing, shipping AddressSnapshot, now time.Time) (Address, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return Address{}, fmt.Errorf("failed to generate address ID: %w", err)
	}
	return Address{
		id:        id.String(),
		orderID:   orderID,
		billing:   billing,
		shipping:  shipping,
		createdAt: now,
		updatedAt: now,
	}, nil
}

func (a Address) ID() string                { return a.id }
func (a Address) OrderID() string           { return a.orderID }
func (a Address) Billing() AddressSnapshot  { return a.billing }
func (a Address) Shipping() AddressSnapshot { return a.shipping }
func (a Address) CreatedAt() time.Time      { return a.createdAt }
func (a Address) UpdatedAt() time.Time      { return a.updatedAt }

// AddressReconstructionDTO ⚠️ repository use only
type AddressReconstructionDTO struct {
	ID        string
	OrderID   string
	Billing   AddressSnapshot
	Shipping  AddressSnapshot
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RebuildAddressFromDTO Rebuild Address from DTO
func RebuildAddressFromDTO(dto AddressReconstructionDTO) Address {
	return Address{
		id:        dto.ID,
		orderID:   dto.OrderID,
		billing:   dto.Billing,
		shipping:  dto.Shipping,
		createdAt: dto.CreatedAt,
		updatedAt: dto.UpdatedAt,
	}
}
