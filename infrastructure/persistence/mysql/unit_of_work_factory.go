package mysql

import (
	"commerce/domain/shared"
	"commerce/infrastructure/persistence/retry"

	"gorm.io/gorm"
)

// UnitOfWorkFactory gives every service call its own UnitOfWork, configured
// with the database.retry policy
type UnitOfWorkFactory struct {
	db    *gorm.DB
	retry retry.Config
}

func NewUnitOfWorkFactory(db *gorm.DB, retryConfig retry.Config) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{db: db, retry: retryConfig}
}

func (f *UnitOfWorkFactory) New() shared.UnitOfWork {
	u := NewUnitOfWork(f.db)
	u.SetRetryConfig(f.retry)
	return u
}

var _ shared.UnitOfWorkFactory = (*UnitOfWorkFactory)(nil)
