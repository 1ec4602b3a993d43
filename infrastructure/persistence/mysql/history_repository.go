package mysql

import (
	"context"

	"commerce/domain/order"
	"commerce/infrastructure/persistence/mysql/po"

	"gorm.io/gorm"
)

// StatusHistoryRepository append-only order_status_history store
type StatusHistoryRepository struct {
	db *gorm.DB
}

func NewStatusHistoryRepository(db *gorm.DB) *StatusHistoryRepository {
	return &StatusHistoryRepository{db: db}
}

func (r *StatusHistoryRepository) Append(ctx context.Context, entry order.StatusHistory) error {
	return dbFrom(ctx, r.db).Create(po.FromStatusHistoryDomain(entry)).Error
}

// FindByOrderID oldest first
func (r *StatusHistoryRepository) FindByOrderID(ctx context.Context, orderID string) ([]order.StatusHistory, error) {
	var rows []po.StatusHistoryPO
	err := dbFrom(ctx, r.db).Where("order_id = ?", orderID).
		Order("changed_at ASC").Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	entries := make([]order.StatusHistory, len(rows))
	for i := range rows {
		entries[i] = rows[i].ToDomain()
	}
	return entries, nil
}

// EventLogRepository append-only order_events store
type EventLogRepository struct {
	db *gorm.DB
}

func NewEventLogRepository(db *gorm.DB) *EventLogRepository {
	return &EventLogRepository{db: db}
}

func (r *EventLogRepository) Append(ctx context.Context, event order.AuditEvent) (order.AuditEvent, error) {
	row := po.FromAuditEventDomain(event)
	if err := dbFrom(ctx, r.db).Create(row).Error; err != nil {
		return order.AuditEvent{}, err
	}
	return event.WithID(row.ID), nil
}

// FindByOrderID oldest first
func (r *EventLogRepository) FindByOrderID(ctx context.Context, orderID string) ([]order.AuditEvent, error) {
	var rows []po.OrderEventPO
	if err := dbFrom(ctx, r.db).Where("order_id = ?", orderID).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	events := make([]order.AuditEvent, len(rows))
	for i := range rows {
		events[i] = rows[i].ToDomain()
	}
	return events, nil
}

var (
	_ order.StatusHistoryRepository = (*StatusHistoryRepository)(nil)
	_ order.EventLogRepository      = (*EventLogRepository)(nil)
)
