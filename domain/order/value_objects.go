package order

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"golang.org/x/text/currency"
)

// ============================================================================
// OrderID
// ============================================================================

// OrderID UUID identifying an order
type OrderID string

// NewOrderID generates a time-ordered UUID (v7).
func NewOrderID() (OrderID, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("failed to generate order ID: %w", err)
	}
	return OrderID(id.String()), nil
}

// ParseOrderID validates raw as a UUID.
func ParseOrderID(raw string) (OrderID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", NewValidationError("order_id", "order id must be a UUID: "+raw)
	}
	return OrderID(id.String()), nil
}

func (id OrderID) String() string { return string(id) }

// ============================================================================
// OrderNumber
// ============================================================================

// OrderNumber human-facing order reference, ORD-YYYYMMDD-XXXXXXXX
type OrderNumber string

var orderNumberPattern = regexp.MustCompile(`^ORD-\d{8}-[0-9A-HJKMNP-TV-Z]{8}$`)

// GenerateOrderNumber builds a number for an order placed at now.
// The suffix is the tail of a ULID, which is random within the millisecond and
// monotonic across calls in the same process.
func GenerateOrderNumber(now time.Time) OrderNumber {
	id := ulid.Make().String()
	return OrderNumber(fmt.Sprintf("ORD-%s-%s", now.UTC().Format("20060102"), id[len(id)-8:]))
}

// ParseOrderNumber validates raw against the order number format.
func ParseOrderNumber(raw string) (OrderNumber, error) {
	n := strings.ToUpper(strings.TrimSpace(raw))
	if !orderNumberPattern.MatchString(n) {
		return "", NewValidationError("order_number", "malformed order number: "+raw)
	}
	return OrderNumber(n), nil
}

func (n OrderNumber) String() string { return string(n) }

// ============================================================================
// Source
// ============================================================================

// Source channel the order was placed through; immutable after creation
type Source string

const (
	SourceWeb    Source = "web"
	SourceMobile Source = "mobile"
	SourcePOS    Source = "pos"
	SourceAdmin  Source = "admin"
	SourceAPI    Source = "api"
)

// DefaultSource is used when the caller does not name a channel.
const DefaultSource = SourceWeb

// ParseSource converts raw input into a Source. Empty input yields DefaultSource.
func ParseSource(raw string) (Source, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return DefaultSource, nil
	}
	switch s := Source(raw); s {
	case SourceWeb, SourceMobile, SourcePOS, SourceAdmin, SourceAPI:
		return s, nil
	}
	return "", NewValidationError("source", "unknown order source: "+raw)
}

func (s Source) String() string { return string(s) }

// ============================================================================
// Currency
// ============================================================================

// Currency ISO 4217 currency of an order; immutable after creation
type Currency struct {
	code string
}

// NewCurrency validates code against ISO 4217.
func NewCurrency(code string) (Currency, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 3 {
		return Currency{}, NewValidationError("currency", "currency must be a 3-letter ISO 4217 code")
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		return Currency{}, NewValidationError("currency", "unknown currency code: "+code)
	}
	return Currency{code: unit.String()}, nil
}

// MustCurrency is NewCurrency for compile-time constants; it panics on bad input.
func MustCurrency(code string) Currency {
	c, err := NewCurrency(code)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Currency) Code() string   { return c.code }
func (c Currency) String() string { return c.code }
func (c Currency) IsZero() bool   { return c.code == "" }

// ============================================================================
// Customer
// ============================================================================

// CustomerKind distinguishes registered users from guests.
type CustomerKind string

const (
	CustomerUser  CustomerKind = "user"
	CustomerGuest CustomerKind = "guest"
)

// Customer who placed the order: exactly one of a user id or a guest token.
type Customer struct {
	kind CustomerKind
	ref  string
}

// NewCustomer requires exactly one of userID and guestToken.
func NewCustomer(userID, guestToken string) (Customer, error) {
	userID = strings.TrimSpace(userID)
	guestToken = strings.TrimSpace(guestToken)

	switch {
	case userID != "" && guestToken != "":
		return Customer{}, NewValidationError("customer", "provide either a user id or a guest token, not both")
	case userID != "":
		return Customer{kind: CustomerUser, ref: userID}, nil
	case guestToken != "":
		return Customer{kind: CustomerGuest, ref: guestToken}, nil
	default:
		return Customer{}, NewValidationError("customer", "a user id or a guest token is required")
	}
}

func (c Customer) Kind() CustomerKind { return c.kind }
func (c Customer) IsGuest() bool      { return c.kind == CustomerGuest }
func (c Customer) IsZero() bool       { return c.kind == "" }

// UserID returns the user id when the customer is a registered user.
func (c Customer) UserID() (string, bool) {
	if c.kind != CustomerUser {
		return "", false
	}
	return c.ref, true
}

// GuestToken returns the guest token when the customer is a guest.
func (c Customer) GuestToken() (string, bool) {
	if c.kind != CustomerGuest {
		return "", false
	}
	return c.ref, true
}

func (c Customer) String() string {
	if c.IsZero() {
		return ""
	}
	return string(c.kind) + ":" + c.ref
}
