package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"commerce/domain/shared"
	"commerce/infrastructure/persistence"
	"commerce/infrastructure/persistence/retry"
	"commerce/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// UnitOfWork one business operation against the order store.
//
// Execute opens a transaction and hands it to fn through the context, so every
// repository call inside fn joins it. Aggregates registered by fn have their
// pending events written to the outbox before commit and cleared only once the
// commit succeeds. A retryable failure (lost version check, deadlock, lock
// wait) reruns the whole attempt, so fn must load what it changes.
type UnitOfWork struct {
	db          *gorm.DB
	outbox      *OutboxRepository
	retryConfig retry.Config
	registered  []shared.AggregateRoot
}

func NewUnitOfWork(db *gorm.DB) *UnitOfWork {
	return &UnitOfWork{
		db:          db,
		outbox:      NewOutboxRepository(db),
		retryConfig: retry.DefaultConfig,
	}
}

func (u *UnitOfWork) SetRetryConfig(config retry.Config) {
	u.retryConfig = config
}

func (u *UnitOfWork) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	return retry.ExecuteWithRetry(ctx, u.retryConfig, func(ctx context.Context) error {
		return u.attempt(ctx, fn)
	})
}

func (u *UnitOfWork) attempt(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	u.registered = u.registered[:0]

	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}
	committed := false
	defer func() {
		if committed {
			return
		}
		if rbErr := tx.Rollback().Error; rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			logger.Warn("Transaction rollback failed", zap.Error(rbErr), zap.NamedError("cause", err))
		}
	}()

	txCtx := persistence.ContextWithTx(ctx, tx)
	if err := fn(txCtx); err != nil {
		return err
	}
	if err := txCtx.Err(); err != nil {
		return err
	}

	var events []shared.DomainEvent
	for _, agg := range u.registered {
		events = append(events, agg.PendingEvents()...)
	}
	if err := u.outbox.SaveEvents(txCtx, events); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	committed = true

	for _, agg := range u.registered {
		agg.PullEvents()
	}
	if len(events) > 0 {
		logger.Debug("Outbox events stored", zap.Int("count", len(events)))
	}
	return nil
}

func (u *UnitOfWork) RegisterNew(aggregate shared.AggregateRoot) {
	u.registered = append(u.registered, aggregate)
}

func (u *UnitOfWork) RegisterDirty(aggregate shared.AggregateRoot) {
	u.registered = append(u.registered, aggregate)
}

// RegisterRemoved the aggregate's events are still written, e.g. a deletion notice
func (u *UnitOfWork) RegisterRemoved(aggregate shared.AggregateRoot) {
	u.registered = append(u.registered, aggregate)
}

var _ shared.UnitOfWork = (*UnitOfWork)(nil)
