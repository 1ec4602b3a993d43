package order

import (
	"strings"
	"unicode/utf8"

	"commerce/domain/shared"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
)

// ============================================================================
// ProductSnapshot
// ============================================================================

// Dimensions package dimensions of a variant
type Dimensions struct {
	Length decimal.Decimal
	Width  decimal.Decimal
	Height decimal.Decimal
}

// ProductSnapshot catalog data frozen onto an item when it is added.
// Later catalog changes never reach an existing item.
type ProductSnapshot struct {
	productID  string
	variantID  string
	sku        string
	name       string
	brand      string
	size       string
	color      string
	unitPrice  shared.Money
	weight     decimal.Decimal
	dimensions Dimensions
}

// ProductSnapshotParams input for NewProductSnapshot
type ProductSnapshotParams struct {
	ProductID  string
	VariantID  string
	SKU        string
	Name       string
	Brand      string
	Size       string
	Color      string
	UnitPrice  shared.Money
	Weight     decimal.Decimal
	Dimensions Dimensions
}

// NewProductSnapshot validates and freezes catalog data.
func NewProductSnapshot(p ProductSnapshotParams) (ProductSnapshot, error) {
	if strings.TrimSpace(p.ProductID) == "" {
		return ProductSnapshot{}, NewValidationError("product_id", "product id is required")
	}
	if strings.TrimSpace(p.VariantID) == "" {
		return ProductSnapshot{}, NewValidationError("variant_id", "variant id is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		return ProductSnapshot{}, NewValidationError("name", "product name is required")
	}
	if p.UnitPrice.Currency() == "" {
		return ProductSnapshot{}, NewValidationError("unit_price", "unit price currency is required")
	}
	if p.UnitPrice.IsNegative() {
		return ProductSnapshot{}, NewValidationError("unit_price", "unit price must not be negative")
	}
	if p.Weight.IsNegative() {
		return ProductSnapshot{}, NewValidationError("weight", "weight must not be negative")
	}

	return ProductSnapshot{
		productID:  p.ProductID,
		variantID:  p.VariantID,
		sku:        p.SKU,
		name:       p.Name,
		brand:      p.Brand,
		size:       p.Size,
		color:      p.Color,
		unitPrice:  p.UnitPrice,
		weight:     p.Weight,
		dimensions: p.Dimensions,
	}, nil
}

func (s ProductSnapshot) ProductID() string       { return s.productID }
func (s ProductSnapshot) VariantID() string       { return s.variantID }
func (s ProductSnapshot) SKU() string             { return s.sku }
func (s ProductSnapshot) Name() string            { return s.name }
func (s ProductSnapshot) Brand() string           { return s.brand }
func (s ProductSnapshot) Size() string            { return s.size }
func (s ProductSnapshot) Color() string           { return s.color }
func (s ProductSnapshot) UnitPrice() shared.Money { return s.unitPrice }
func (s ProductSnapshot) Weight() decimal.Decimal { return s.weight }
func (s ProductSnapshot) Dimensions() Dimensions  { return s.dimensions }

// Params returns the values the snapshot was built from.
func (s ProductSnapshot) Params() ProductSnapshotParams {
	return ProductSnapshotParams{
		ProductID:  s.productID,
		VariantID:  s.variantID,
		SKU:        s.sku,
		Name:       s.name,
		Brand:      s.brand,
		Size:       s.size,
		Color:      s.color,
		UnitPrice:  s.unitPrice,
		Weight:     s.weight,
		Dimensions: s.dimensions,
	}
}

// ============================================================================
// AddressSnapshot
// ============================================================================

const maxAddressFieldLength = 255

// AddressSnapshot postal address captured on the order
type AddressSnapshot struct {
	firstName  string
	lastName   string
	company    string
	line1      string
	line2      string
	city       string
	region     string
	postalCode string
	country    string
	phone      string
}

// AddressParams input for NewAddressSnapshot
type AddressParams struct {
	FirstName  string
	LastName   string
	Company    string
	Line1      string
	Line2      string
	City       string
	Region     string
	PostalCode string
	Country    string
	Phone      string
}

// NewAddressSnapshot validates an address. Country must be an ISO 3166-1 alpha-2 code.
func NewAddressSnapshot(p AddressParams) (AddressSnapshot, error) {
	required := []struct {
		field, value string
	}{
		{"first_name", p.FirstName},
		{"last_name", p.LastName},
		{"line1", p.Line1},
		{"city", p.City},
		{"postal_code", p.PostalCode},
		{"country", p.Country},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return AddressSnapshot{}, NewValidationError(r.field, r.field+" is required")
		}
	}

	all := []struct {
		field, value string
	}{
		{"first_name", p.FirstName}, {"last_name", p.LastName}, {"company", p.Company},
		{"line1", p.Line1}, {"line2", p.Line2}, {"city", p.City}, {"region", p.Region},
		{"postal_code", p.PostalCode}, {"phone", p.Phone},
	}
	for _, f := range all {
		if utf8.RuneCountInString(f.value) > maxAddressFieldLength {
			return AddressSnapshot{}, NewValidationError(f.field, f.field+" is too long")
		}
	}

	country, err := normalizeCountry(p.Country)
	if err != nil {
		return AddressSnapshot{}, err
	}

	return AddressSnapshot{
		firstName:  strings.TrimSpace(p.FirstName),
		lastName:   strings.TrimSpace(p.LastName),
		company:    strings.TrimSpace(p.Company),
		line1:      strings.TrimSpace(p.Line1),
		line2:      strings.TrimSpace(p.Line2),
		city:       strings.TrimSpace(p.City),
		region:     strings.TrimSpace(p.Region),
		postalCode: strings.TrimSpace(p.PostalCode),
		country:    country,
		phone:      strings.TrimSpace(p.Phone),
	}, nil
}

func normalizeCountry(raw string) (string, error) {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if len(code) != 2 {
		return "", NewValidationError("country", "country must be an ISO 3166-1 alpha-2 code")
	}
	region, err := language.ParseRegion(code)
	if err != nil || !region.IsCountry() {
		return "", NewValidationError("country", "unknown country code: "+code)
	}
	return region.String(), nil
}

func (a AddressSnapshot) FirstName() string  { return a.firstName }
func (a AddressSnapshot) LastName() string   { return a.lastName }
func (a AddressSnapshot) Company() string    { return a.company }
func (a AddressSnapshot) Line1() string      { return a.line1 }
func (a AddressSnapshot) Line2() string      { return a.line2 }
func (a AddressSnapshot) City() string       { return a.city }
func (a AddressSnapshot) Region() string     { return a.region }
func (a AddressSnapshot) PostalCode() string { return a.postalCode }
func (a AddressSnapshot) Country() string    { return a.country }
func (a AddressSnapshot) Phone() string      { return a.phone }

// Params returns the values the snapshot was built from.
func (a AddressSnapshot) Params() AddressParams {
	return AddressParams{
		FirstName:  a.firstName,
		LastName:   a.lastName,
		Company:    a.company,
		Line1:      a.line1,
		Line2:      a.line2,
		City:       a.city,
		Region:     a.region,
		PostalCode: a.postalCode,
		Country:    a.country,
		Phone:      a.phone,
	}
}
