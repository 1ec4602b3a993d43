package order

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ============================================================================
// StatusHistory - append-only audit of status changes
// ============================================================================

// StatusHistory one status change of an order
type StatusHistory struct {
	id        string
	orderID   string
	from      Status
	to        Status
	changedAt time.Time
	changedBy string
}

// NewStatusHistory records a change into to. from is empty for the initial row.
func NewStatusHistory(orderID string, from, to Status, changedBy string, at time.Time) (StatusHistory, error) {
	if orderID == "" {
		return StatusHistory{}, NewValidationError("order_id", "order id is required")
	}
	if from != "" && !from.IsValid() {
		return StatusHistory{}, NewValidationError("from_status", "unknown order status: "+string(from))
	}
	if !to.IsValid() {
		return StatusHistory{}, NewValidationError("to_status", "unknown order status: "+string(to))
	}

	id, err := uuid.NewV7()
	if err != nil {
		return StatusHistory{}, fmt.Errorf("failed to generate status history ID: %w", err)
	}

	return StatusHistory{
		id:        id.String(),
		orderID:   orderID,
		from:      from,
		to:        to,
		changedAt: at,
		changedBy: strings.TrimSpace(changedBy),
	}, nil
}

func (h StatusHistory) ID() string           { return h.id }
func (h StatusHistory) OrderID() string      { return h.orderID }
func (h StatusHistory) To() Status           { return h.to }
func (h StatusHistory) ChangedAt() time.Time { return h.changedAt }
func (h StatusHistory) ChangedBy() string    { return h.changedBy }

// From returns the previous status; false for the initial row.
func (h StatusHistory) From() (Status, bool) {
	return h.from, h.from != ""
}

// StatusHistoryReconstructionDTO ⚠️ repository use only
type StatusHistoryReconstructionDTO struct {
	ID        string
	OrderID   string
	From      Status
	To        Status
	ChangedAt time.Time
	ChangedBy string
}

// RebuildStatusHistoryFromDTO Rebuild StatusHistory from DTO
func RebuildStatusHistoryFromDTO(dto StatusHistoryReconstructionDTO) StatusHistory {
	return StatusHistory{
		id:        dto.ID,
		orderID:   dto.OrderID,
		from:      dto.From,
		to:        dto.To,
		changedAt: dto.ChangedAt,
		changedBy: dto.ChangedBy,
	}
}

// ============================================================================
// AuditEvent - append-only order event log
// ============================================================================

// Audit event types
const (
	AuditOrderCreated       = "order.created"
	AuditStatusChanged      = "order.status_changed"
	AuditInventoryAnomaly   = "order.inventory_anomaly"
	AuditShipmentCreated    = "order.shipment_created"
	AuditShipmentShipped    = "order.shipment_shipped"
	AuditShipmentDelivered  = "order.shipment_delivered"
	AuditOrderDeleted       = "order.deleted"
	AuditOrderItemsModified = "order.items_modified"
)

// AuditEvent one entry of the order event log. ID is assigned by storage.
type AuditEvent struct {
	id        int64
	orderID   string
	eventType string
	payload   json.RawMessage
	createdAt time.Time
}

// NewAuditEvent serializes payload and builds an unsaved entry.
func NewAuditEvent(orderID, eventType string, payload any, at time.Time) (AuditEvent, error) {
	if orderID == "" {
		return AuditEvent{}, NewValidationError("order_id", "order id is required")
	}
	if eventType == "" {
		return AuditEvent{}, NewValidationError("event_type", "event type is required")
	}

	raw := json.RawMessage("{}")
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return AuditEvent{}, fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
		}
		raw = data
	}

	return AuditEvent{
		orderID:   orderID,
		eventType: eventType,
		payload:   raw,
		createdAt: at,
	}, nil
}

func (e AuditEvent) ID() int64                { return e.id }
func (e AuditEvent) OrderID() string          { return e.orderID }
func (e AuditEvent) EventType() string        { return e.eventType }
func (e AuditEvent) Payload() json.RawMessage { return e.payload }
func (e AuditEvent) CreatedAt() time.Time     { return e.createdAt }

// WithID returns a copy carrying the storage assigned id.
func (e AuditEvent) WithID(id int64) AuditEvent {
	e.id = id
	return e
}

// RebuildAuditEvent ⚠️ repository use only
func RebuildAuditEvent(id int64, orderID, eventType string, payload []byte, createdAt time.Time) AuditEvent {
	return AuditEvent{
		id:        id,
		orderID:   orderID,
		eventType: eventType,
		payload:   json.RawMessage(payload),
		createdAt: createdAt,
	}
}
