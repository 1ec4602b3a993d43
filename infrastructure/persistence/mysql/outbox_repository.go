package mysql

import (
	"context"
	"fmt"
	"time"

	"commerce/domain/shared"
	"commerce/infrastructure/persistence/mysql/po"

	"gorm.io/gorm"
)

// OutboxRepository order events waiting for the relay in cmd/worker.
// Rows are written in the transaction of the change that raised them.
type OutboxRepository struct {
	db *gorm.DB
}

// NewOutboxRepository Create outbox repository
func NewOutboxRepository(db *gorm.DB) *OutboxRepository {
	return &OutboxRepository{db: db}
}

// SaveEvent stores one event, joining the UoW transaction when ctx carries one
func (r *OutboxRepository) SaveEvent(ctx context.Context, event shared.DomainEvent) error {
	return r.SaveEvents(ctx, []shared.DomainEvent{event})
}

// SaveEvents stores events in order with a single insert
func (r *OutboxRepository) SaveEvents(ctx context.Context, events []shared.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}

	rows := make([]*po.OutboxEventPO, 0, len(events))
	for _, event := range events {
		if err := shared.ValidateEvent(event); err != nil {
			return fmt.Errorf("invalid domain event: %w", err)
		}
		row, err := po.FromDomainEvent(event)
		if err != nil {
			return fmt.Errorf("failed to serialize %s: %w", event.EventName(), err)
		}
		rows = append(rows, row)
	}

	return inTransaction(ctx, r.db, func(tx *gorm.DB) error {
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("failed to save event to outbox: %w", err)
		}
		return nil
	})
}

// GetPendingEvents oldest first; ULID ids sort by creation time
func (r *OutboxRepository) GetPendingEvents(ctx context.Context, limit int) ([]*po.OutboxEventPO, error) {
	var events []*po.OutboxEventPO
	err := dbFrom(ctx, r.db).
		Where("status = ?", string(po.EventStatusPending)).
		Order("id ASC").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get pending events: %w", err)
	}
	return events, nil
}

// MarkEventProcessing claims a pending event. Losing the claim to another worker is an error.
func (r *OutboxRepository) MarkEventProcessing(ctx context.Context, eventID string) error {
	claimed, err := r.setStatus(ctx, eventID, po.EventStatusPending, po.EventStatusProcessing, nil)
	if err != nil {
		return err
	}
	if !claimed {
		return fmt.Errorf("event not found or already being processed: %s", eventID)
	}
	return nil
}

func (r *OutboxRepository) MarkEventPublished(ctx context.Context, eventID string) error {
	ok, err := r.setStatus(ctx, eventID, "", po.EventStatusPublished, nil)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("event not found: %s", eventID)
	}
	return nil
}

// MarkEventFailed counts a failed publish. The event goes back to pending until
// it has failed maxRetries times, then it stays failed.
func (r *OutboxRepository) MarkEventFailed(ctx context.Context, eventID string, maxRetries int) error {
	var row po.OutboxEventPO
	if err := dbFrom(ctx, r.db).Select("id", "retry_count").First(&row, "id = ?", eventID).Error; err != nil {
		return fmt.Errorf("failed to find event: %w", err)
	}

	attempts := row.RetryCount + 1
	next := po.EventStatusPending
	if attempts >= maxRetries {
		next = po.EventStatusFailed
	}
	_, err := r.setStatus(ctx, eventID, "", next, map[string]any{"retry_count": attempts})
	return err
}

// CountByStatus number of outbox rows in status
func (r *OutboxRepository) CountByStatus(ctx context.Context, status po.EventStatus) (int64, error) {
	var count int64
	err := dbFrom(ctx, r.db).Model(&po.OutboxEventPO{}).Where("status = ?", string(status)).Count(&count).Error
	return count, err
}

// setStatus moves eventID to status; from restricts the move to rows currently in that status
func (r *OutboxRepository) setStatus(
	ctx context.Context,
	eventID string,
	from, status po.EventStatus,
	extra map[string]any,
) (bool, error) {
	query := dbFrom(ctx, r.db).Model(&po.OutboxEventPO{}).Where("id = ?", eventID)
	if from != "" {
		query = query.Where("status = ?", string(from))
	}

	updates := map[string]any{
		"status":     string(status),
		"updated_at": time.Now().UTC(),
	}
	for k, v := range extra {
		updates[k] = v
	}

	result := query.Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

var _ shared.OutboxRepository = (*OutboxRepository)(nil)
