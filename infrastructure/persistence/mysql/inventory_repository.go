package mysql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"commerce/domain/inventory"
	"commerce/infrastructure/persistence"
	"commerce/infrastructure/persistence/mysql/po"
	"commerce/infrastructure/persistence/retry"

	"gorm.io/gorm"
)

// InventoryRepository stock levels with a movement ledger.
// Every change is a compare-and-set on the previous counters plus one ledger row,
// retried when another writer changed the level in between.
type InventoryRepository struct {
	db          *gorm.DB
	retryConfig retry.Config
	now         func() time.Time
}

// NewInventoryRepository Create inventory repository
func NewInventoryRepository(db *gorm.DB, retryConfig retry.Config) *InventoryRepository {
	return &InventoryRepository{
		db:          db,
		retryConfig: retryConfig,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// GetStock returns nil, nil when the variant is not stocked at the location
func (r *InventoryRepository) GetStock(ctx context.Context, variantID, locationID string) (*inventory.Stock, error) {
	row, err := r.find(dbFrom(ctx, r.db), variantID, locationID)
	if err != nil || row == nil {
		return nil, err
	}
	return row.ToDomain(), nil
}

// AdjustStock applies a signed change. Adding stock to an untracked variant starts tracking it.
func (r *InventoryRepository) AdjustStock(ctx context.Context, variantID, locationID string, delta int, reason inventory.Reason, referenceID string) error {
	return r.change(ctx, variantID, locationID, referenceID, delta > 0, func(s inventory.Stock) (inventory.Stock, inventory.Movement, error) {
		return inventory.Adjust(s, delta, reason)
	})
}

// ReserveStock moves quantity from available to reserved
func (r *InventoryRepository) ReserveStock(ctx context.Context, variantID, locationID string, quantity int) error {
	return r.change(ctx, variantID, locationID, "", false, func(s inventory.Stock) (inventory.Stock, inventory.Movement, error) {
		return inventory.Reserve(s, quantity)
	})
}

// Movements ledger of one stock level, oldest first
func (r *InventoryRepository) Movements(ctx context.Context, variantID, locationID string) ([]inventory.Movement, error) {
	var rows []po.StockMovementPO
	err := dbFrom(ctx, r.db).
		Where("variant_id = ? AND location_id = ?", variantID, locationID).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	movements := make([]inventory.Movement, len(rows))
	for i := range rows {
		movements[i] = rows[i].ToDomain()
	}
	return movements, nil
}

func (r *InventoryRepository) change(
	ctx context.Context,
	variantID, locationID, referenceID string,
	createMissing bool,
	apply func(inventory.Stock) (inventory.Stock, inventory.Movement, error),
) error {
	attempt := func(ctx context.Context) error {
		return inTransaction(ctx, r.db, func(tx *gorm.DB) error {
			row, err := r.find(tx, variantID, locationID)
			if err != nil {
				return err
			}
			current := inventory.Stock{VariantID: variantID, LocationID: locationID}
			if row == nil {
				if !createMissing {
					return fmt.Errorf("%w: variant %s at location %s", inventory.ErrStockNotFound, variantID, locationID)
				}
			} else {
				current = *row.ToDomain()
			}

			next, movement, err := apply(current)
			if err != nil {
				return err
			}
			now := r.now()

			if row == nil {
				err = tx.Create(&po.StockLevelPO{
					VariantID:  variantID,
					LocationID: locationID,
					Available:  next.Available,
					Reserved:   next.Reserved,
					UpdatedAt:  now,
				}).Error
				if isDuplicateKeyError(err) {
					return inventory.ErrStockConflict
				}
				if err != nil {
					return err
				}
			} else {
				result := tx.Model(&po.StockLevelPO{}).
					Where("variant_id = ? AND location_id = ? AND available = ? AND reserved = ?",
						variantID, locationID, current.Available, current.Reserved).
					Updates(map[string]any{
						"available":  next.Available,
						"reserved":   next.Reserved,
						"updated_at": now,
					})
				if result.Error != nil {
					return result.Error
				}
				if result.RowsAffected == 0 {
					return inventory.ErrStockConflict
				}
			}

			movement.ReferenceID = referenceID
			movement.CreatedAt = now
			return tx.Create(po.FromMovementDomain(movement)).Error
		})
	}

	// inside a caller's transaction a retry cannot restart anything
	if persistence.TxFromContext(ctx) != nil {
		return attempt(ctx)
	}
	return retry.ExecuteWithRetry(ctx, r.retryConfig, attempt)
}

func (r *InventoryRepository) find(db *gorm.DB, variantID, locationID string) (*po.StockLevelPO, error) {
	var row po.StockLevelPO
	err := db.Where("variant_id = ? AND location_id = ?", variantID, locationID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

var _ inventory.Service = (*InventoryRepository)(nil)
