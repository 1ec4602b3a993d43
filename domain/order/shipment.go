package order

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Shipment physical shipment of an order
// Lifecycle: created -> shipped (once) -> delivered (once).
type Shipment struct {
	id               string
	orderID          string
	carrier          string
	service          string
	trackingNumber   string
	giftReceipt      bool
	pickupLocationID string
	shippedAt        *time.Time
	deliveredAt      *time.Time
	createdAt        time.Time
	updatedAt        time.Time
}

// ShipmentParams input for NewShipment
type ShipmentParams struct {
	Carrier          string
	Service          string
	TrackingNumber   string
	GiftReceipt      bool
	PickupLocationID string
	ShippedAt        *time.Time
	DeliveredAt      *time.Time
}

// NewShipment validates timestamps and creates a shipment for orderID.
func NewShipment(orderID string, p ShipmentParams, now time.Time) (Shipment, error) {
	if err := validateShipmentTimes(p.ShippedAt, p.DeliveredAt); err != nil {
		return Shipment{}, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return Shipment{}, fmt.Errorf("failed to generate shipment ID: %w", err)
	}

	return Shipment{
		id:               id.String(),
		orderID:          orderID,
		carrier:          strings.TrimSpace(p.Carrier),
		service:          strings.TrimSpace(p.Service),
		trackingNumber:   strings.TrimSpace(p.TrackingNumber),
		giftReceipt:      p.GiftReceipt,
		pickupLocationID: strings.TrimSpace(p.PickupLocationID),
		shippedAt:        copyTime(p.ShippedAt),
		deliveredAt:      copyTime(p.DeliveredAt),
		createdAt:        now,
		updatedAt:        now,
	}, nil
}

func validateShipmentTimes(shippedAt, deliveredAt *time.Time) error {
	if deliveredAt == nil {
		return nil
	}
	if shippedAt == nil {
		return NewValidationError("delivered_at", "Cannot have deliveredAt without shippedAt")
	}
	if deliveredAt.Before(*shippedAt) {
		return NewValidationError("delivered_at", "deliveredAt cannot be earlier than shippedAt")
	}
	return nil
}

func (s Shipment) ship(carrier, service, trackingNumber string, at time.Time) (Shipment, error) {
	if s.shippedAt != nil {
		return Shipment{}, newShipmentStateError(s.id, "already shipped")
	}

	// blank values keep what the shipment was created with
	if v := strings.TrimSpace(carrier); v != "" {
		s.carrier = v
	}
	if v := strings.TrimSpace(service); v != "" {
		s.service = v
	}
	if v := strings.TrimSpace(trackingNumber); v != "" {
		s.trackingNumber = v
	}
	s.shippedAt = &at
	s.updatedAt = at
	return s, nil
}

func (s Shipment) deliver(at time.Time) (Shipment, error) {
	if s.deliveredAt != nil {
		return Shipment{}, newShipmentStateError(s.id, "already delivered")
	}
	if err := validateShipmentTimes(s.shippedAt, &at); err != nil {
		return Shipment{}, err
	}
	s.deliveredAt = &at
	s.updatedAt = at
	return s, nil
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func (s Shipment) ID() string               { return s.id }
func (s Shipment) OrderID() string          { return s.orderID }
func (s Shipment) Carrier() string          { return s.carrier }
func (s Shipment) Service() string          { return s.service }
func (s Shipment) TrackingNumber() string   { return s.trackingNumber }
func (s Shipment) GiftReceipt() bool        { return s.giftReceipt }
func (s Shipment) PickupLocationID() string { return s.pickupLocationID }
func (s Shipment) ShippedAt() *time.Time    { return copyTime(s.shippedAt) }
func (s Shipment) DeliveredAt() *time.Time  { return copyTime(s.deliveredAt) }
func (s Shipment) IsShipped() bool          { return s.shippedAt != nil }
func (s Shipment) IsDelivered() bool        { return s.deliveredAt != nil }
func (s Shipment) CreatedAt() time.Time     { return s.createdAt }
func (s Shipment) UpdatedAt() time.Time     { return s.updatedAt }

// ShipmentReconstructionDTO ⚠️ repository use only
type ShipmentReconstructionDTO struct {
	ID               string
	OrderID          string
	Carrier          string
	Service          string
	TrackingNumber   string
	GiftReceipt      bool
	PickupLocationID string
	ShippedAt        *time.Time
	DeliveredAt      *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// RebuildShipmentFromDTO Rebuild Shipment from DTO
func RebuildShipmentFromDTO(dto ShipmentReconstructionDTO) Shipment {
	return Shipment{
		id:               dto.ID,
		orderID:          dto.OrderID,
		carrier:          dto.Carrier,
		service:          dto.Service,
		trackingNumber:   dto.TrackingNumber,
		giftReceipt:      dto.GiftReceipt,
		pickupLocationID: dto.PickupLocationID,
		shippedAt:        copyTime(dto.ShippedAt),
		deliveredAt:      copyTime(dto.DeliveredAt),
		createdAt:        dto.CreatedAt,
		updatedAt:        dto.UpdatedAt,
	}
}
