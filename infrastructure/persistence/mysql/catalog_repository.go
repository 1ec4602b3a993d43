package mysql

import (
	"context"
	"errors"

	"commerce/domain/catalog"
	"commerce/infrastructure/persistence/mysql/po"

	"gorm.io/gorm"
)

// CatalogRepository products, variants and fulfillment locations
type CatalogRepository struct {
	db *gorm.DB
}

// NewCatalogRepository Create catalog repository
func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) FindVariantByID(ctx context.Context, id string) (*catalog.Variant, error) {
	var row po.VariantPO
	if err := dbFrom(ctx, r.db).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.NotFound(catalog.ErrVariantNotFound, id)
		}
		return nil, err
	}
	return row.ToDomain(), nil
}

func (r *CatalogRepository) FindProductByID(ctx context.Context, id string) (*catalog.Product, error) {
	var row po.ProductPO
	if err := dbFrom(ctx, r.db).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.NotFound(catalog.ErrProductNotFound, id)
		}
		return nil, err
	}
	return row.ToDomain(), nil
}

// SaveProduct inserts or replaces a product
func (r *CatalogRepository) SaveProduct(ctx context.Context, p *catalog.Product) error {
	return dbFrom(ctx, r.db).Save(po.FromProductDomain(p)).Error
}

// SaveVariant inserts or replaces a variant
func (r *CatalogRepository) SaveVariant(ctx context.Context, v *catalog.Variant) error {
	return dbFrom(ctx, r.db).Save(po.FromVariantDomain(v)).Error
}

func (r *CatalogRepository) FindLocationByID(ctx context.Context, id string) (*catalog.Location, error) {
	var row po.LocationPO
	if err := dbFrom(ctx, r.db).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.NotFound(catalog.ErrLocationNotFound, id)
		}
		return nil, err
	}
	return row.ToDomain(), nil
}

// FirstActiveLocation oldest active location of type t
func (r *CatalogRepository) FirstActiveLocation(ctx context.Context, t catalog.LocationType) (*catalog.Location, error) {
	var row po.LocationPO
	err := dbFrom(ctx, r.db).
		Where("type = ? AND active = ?", string(t), true).
		Order("created_at ASC").Order("id ASC").
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.NotFound(catalog.ErrLocationNotFound, "active "+string(t))
		}
		return nil, err
	}
	return row.ToDomain(), nil
}

func (r *CatalogRepository) SaveLocation(ctx context.Context, l *catalog.Location) error {
	return dbFrom(ctx, r.db).Save(po.FromLocationDomain(l)).Error
}

var (
	_ catalog.Reader             = (*CatalogRepository)(nil)
	_ catalog.Writer             = (*CatalogRepository)(nil)
	_ catalog.LocationRepository = (*CatalogRepository)(nil)
)
