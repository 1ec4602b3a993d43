package order

import (
	"context"
	"errors"
	"fmt"

	"commerce/domain/catalog"
	"commerce/domain/shared"
)

// LineRequest raw item reference from a caller; prices never come from the caller
type LineRequest struct {
	VariantID   string
	Quantity    int
	IsGift      bool
	GiftMessage string
}

// DomainService Order domain service
// Resolves caller line references against the catalog into item parameters with
// authoritative snapshots. It reads but never persists.
type DomainService struct {
	catalog catalog.Reader
}

// NewDomainService Create order domain service
func NewDomainService(reader catalog.Reader) *DomainService {
	return &DomainService{catalog: reader}
}

// ResolveLine builds item parameters for one line in the order currency.
func (s *DomainService) ResolveLine(ctx context.Context, line LineRequest, currency Currency) (NewItemParams, error) {
	if line.VariantID == "" {
		return NewItemParams{}, NewValidationError("variant_id", "variant id is required")
	}
	if err := validateQuantity(line.Quantity); err != nil {
		return NewItemParams{}, err
	}

	variant, err := s.catalog.FindVariantByID(ctx, line.VariantID)
	if err != nil {
		if errors.Is(err, catalog.ErrVariantNotFound) {
			return NewItemParams{}, NewVariantNotFoundError(line.VariantID)
		}
		return NewItemParams{}, fmt.Errorf("failed to load variant %s: %w", line.VariantID, err)
	}

	product, err := s.catalog.FindProductByID(ctx, variant.ProductID)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			return NewItemParams{}, NewProductNotFoundError(variant.ProductID)
		}
		return NewItemParams{}, fmt.Errorf("failed to load product %s: %w", variant.ProductID, err)
	}

	if variant.Currency != "" && variant.Currency != currency.Code() {
		return NewItemParams{}, newConsistencyError("currency",
			fmt.Sprintf("variant %s is priced in %s, order currency is %s", variant.ID, variant.Currency, currency.Code()))
	}

	snapshot, err := NewProductSnapshot(ProductSnapshotParams{
		ProductID: product.ID,
		VariantID: variant.ID,
		SKU:       variant.SKU,
		Name:      product.Name,
		Brand:     product.Brand,
		Size:      variant.Size,
		Color:     variant.Color,
		UnitPrice: shared.NewMoney(variant.Price, currency.Code()),
		Weight:    variant.Weight,
		Dimensions: Dimensions{
			Length: variant.Length,
			Width:  variant.Width,
			Height: variant.Height,
		},
	})
	if err != nil {
		return NewItemParams{}, err
	}

	return NewItemParams{
		Snapshot:    snapshot,
		Quantity:    line.Quantity,
		IsGift:      line.IsGift,
		GiftMessage: line.GiftMessage,
	}, nil
}

// ResolveLines resolves every line; the first failure aborts.
func (s *DomainService) ResolveLines(ctx context.Context, lines []LineRequest, currency Currency) ([]NewItemParams, error) {
	if len(lines) == 0 {
		return nil, NewEmptyOrderItemsError()
	}
	params := make([]NewItemParams, 0, len(lines))
	for _, line := range lines {
		p, err := s.ResolveLine(ctx, line, currency)
		if err != nil {
			return nil, err
		}
		params = append(params, p)
	}
	return params, nil
}
