package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"commerce/domain/catalog"
	"commerce/domain/inventory"
	"commerce/domain/order"
	"commerce/domain/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromDomainError(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{"validation", order.NewValidationError("currency", "unknown currency"), CodeValidation},
		{"order not found", order.NewOrderNotFoundError("o-1"), CodeOrderNotFound},
		{"item not found", order.NewItemNotFoundError("i-1"), CodeNotFound},
		{"variant not found in catalog", catalog.NotFound(catalog.ErrVariantNotFound, "v-1"), CodeNotFound},
		{"insufficient stock", order.NewInsufficientStockError("v-1", "wh-1", 3, 1), CodeInsufficientStock},
		{"concurrent modification", order.NewConcurrentModificationError("o-1"), CodeConcurrentModify},
		{"stock conflict", fmt.Errorf("adjust: %w", inventory.ErrStockConflict), CodeConcurrentModify},
		{"invalid transition", fmt.Errorf("pay: %w", order.ErrInvalidTransition), CodeInvalidTransition},
		{"consistency", fmt.Errorf("totals: %w", shared.ErrConsistency), CodeConsistency},
		{"invalid state", fmt.Errorf("edit: %w", shared.ErrInvalidState), CodeInvalidOrderState},
		{"duplicate order number", shared.NewConflictError("order", "duplicate"), CodeConflict},
		{"timeout", fmt.Errorf("query: %w", context.DeadlineExceeded), CodeTimeout},
		{"unknown", errors.New("socket closed"), CodeInternal},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			appErr := FromDomainError(tc.err)
			require.NotNil(t, appErr)
			assert.Equal(t, tc.want, appErr.Code)
			assert.ErrorIs(t, appErr, tc.err)
		})
	}
}

func TestFromDomainErrorHidesInternalMessage(t *testing.T) {
	appErr := FromDomainError(errors.New("dial tcp 10.0.0.3:3306: connection refused"))
	assert.Equal(t, "internal server error", appErr.Message)
	assert.Contains(t, appErr.Error(), "connection refused")
}

func TestFromDomainErrorKeepsAppError(t *testing.T) {
	original := TooManyRequests("slow down")
	assert.Same(t, original, FromDomainError(fmt.Errorf("wrapped: %w", original)))
	assert.Nil(t, FromDomainError(nil))
	assert.True(t, Is(fmt.Errorf("x: %w", original), CodeTooManyRequests))
	assert.False(t, Is(errors.New("plain"), CodeTooManyRequests))
}
