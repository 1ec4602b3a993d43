package po

import (
	"time"

	"commerce/domain/order"
)

// StatusHistoryPO append-only status change row; kept after the order is deleted
type StatusHistoryPO struct {
	ID         string    `gorm:"primaryKey;size:36"`
	OrderID    string    `gorm:"size:36;index;not null"`
	FromStatus string    `gorm:"size:20"`
	ToStatus   string    `gorm:"size:20;not null"`
	ChangedAt  time.Time `gorm:"index;not null"`
	ChangedBy  string    `gorm:"size:64"`
}

// TableName Specify table name
func (StatusHistoryPO) TableName() string {
	return "order_status_history"
}

// FromStatusHistoryDomain Convert history entry to persistence object
func FromStatusHistoryDomain(h order.StatusHistory) *StatusHistoryPO {
	po := &StatusHistoryPO{
		ID:        h.ID(),
		OrderID:   h.OrderID(),
		ToStatus:  h.To().String(),
		ChangedAt: h.ChangedAt(),
		ChangedBy: h.ChangedBy(),
	}
	if from, ok := h.From(); ok {
		po.FromStatus = from.String()
	}
	return po
}

// ToDomain Convert persistence object to domain model
func (po *StatusHistoryPO) ToDomain() order.StatusHistory {
	return order.RebuildStatusHistoryFromDTO(order.StatusHistoryReconstructionDTO{
		ID:        po.ID,
		OrderID:   po.OrderID,
		From:      order.Status(po.FromStatus),
		To:        order.Status(po.ToStatus),
		ChangedAt: po.ChangedAt,
		ChangedBy: po.ChangedBy,
	})
}

// OrderEventPO audit log row with an auto-increment id
type OrderEventPO struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	OrderID   string    `gorm:"size:36;index;not null"`
	EventType string    `gorm:"size:64;index;not null"`
	Payload   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName Specify table name
func (OrderEventPO) TableName() string {
	return "order_events"
}

// FromAuditEventDomain Convert audit entry to persistence object; the id is assigned on insert
func FromAuditEventDomain(e order.AuditEvent) *OrderEventPO {
	return &OrderEventPO{
		OrderID:   e.OrderID(),
		EventType: e.EventType(),
		Payload:   string(e.Payload()),
		CreatedAt: e.CreatedAt(),
	}
}

// ToDomain Convert persistence object to domain model
func (po *OrderEventPO) ToDomain() order.AuditEvent {
	return order.RebuildAuditEvent(po.ID, po.OrderID, po.EventType, []byte(po.Payload), po.CreatedAt)
}
