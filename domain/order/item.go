package order

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"commerce/domain/shared"

	"github.com/google/uuid"
)

// MaxGiftMessageLength upper bound of a gift message, in characters
const MaxGiftMessageLength = 500

// Item Order item - entity inside the Order aggregate
// Items are values: every change produces a new Item and the aggregate swaps it in.
type Item struct {
	id          string
	orderID     string
	quantity    int
	snapshot    ProductSnapshot
	isGift      bool
	giftMessage string
	createdAt   time.Time
	updatedAt   time.Time
}

// NewItemParams item to add to an order
type NewItemParams struct {
	Snapshot    ProductSnapshot
	Quantity    int
	IsGift      bool
	GiftMessage string
}

func newItem(orderID string, p NewItemParams, now time.Time) (Item, error) {
	if err := validateQuantity(p.Quantity); err != nil {
		return Item{}, err
	}
	if p.Snapshot.VariantID() == "" {
		return Item{}, NewValidationError("variant_id", "item requires a product snapshot")
	}
	message, err := normalizeGift(p.IsGift, p.GiftMessage)
	if err != nil {
		return Item{}, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return Item{}, fmt.Errorf("failed to generate order item ID: %w", err)
	}

	return Item{
		id:          id.String(),
		orderID:     orderID,
		quantity:    p.Quantity,
		snapshot:    p.Snapshot,
		isGift:      p.IsGift,
		giftMessage: message,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

func validateQuantity(quantity int) error {
	if quantity <= 0 {
		return NewValidationError("quantity", "quantity must be greater than zero")
	}
	return nil
}

// normalizeGift drops the message when the item is not a gift.
func normalizeGift(isGift bool, message string) (string, error) {
	if !isGift {
		return "", nil
	}
	message = strings.TrimSpace(message)
	if utf8.RuneCountInString(message) > MaxGiftMessageLength {
		return "", NewValidationError("gift_message",
			fmt.Sprintf("gift message must be at most %d characters", MaxGiftMessageLength))
	}
	return message, nil
}

func (i Item) withQuantity(quantity int, now time.Time) (Item, error) {
	if err := validateQuantity(quantity); err != nil {
		return Item{}, err
	}
	i.quantity = quantity
	i.updatedAt = now
	return i, nil
}

func (i Item) withGift(isGift bool, message string, now time.Time) (Item, error) {
	normalized, err := normalizeGift(isGift, message)
	if err != nil {
		return Item{}, err
	}
	i.isGift = isGift
	i.giftMessage = normalized
	i.updatedAt = now
	return i, nil
}

func (i Item) ID() string                { return i.id }
func (i Item) OrderID() string           { return i.orderID }
func (i Item) VariantID() string         { return i.snapshot.VariantID() }
func (i Item) Quantity() int             { return i.quantity }
func (i Item) Snapshot() ProductSnapshot { return i.snapshot }
func (i Item) IsGift() bool              { return i.isGift }
func (i Item) GiftMessage() string       { return i.giftMessage }
func (i Item) CreatedAt() time.Time      { return i.createdAt }
func (i Item) UpdatedAt() time.Time      { return i.updatedAt }

// LineTotal quantity x frozen unit price
func (i Item) LineTotal() shared.Money {
	return i.snapshot.UnitPrice().Multiply(i.quantity)
}

// ItemReconstructionDTO Order item reconstruction data transfer object
// ⚠️ Note: repository use only
type ItemReconstructionDTO struct {
	ID          string
	OrderID     string
	Quantity    int
	Snapshot    ProductSnapshot
	IsGift      bool
	GiftMessage string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// RebuildItemFromDTO Rebuild Item from DTO
func RebuildItemFromDTO(dto ItemReconstructionDTO) Item {
	return Item{
		id:          dto.ID,
		orderID:     dto.OrderID,
		quantity:    dto.Quantity,
		snapshot:    dto.Snapshot,
		isGift:      dto.IsGift,
		giftMessage: dto.GiftMessage,
		createdAt:   dto.CreatedAt,
		updatedAt:   dto.UpdatedAt,
	}
}
