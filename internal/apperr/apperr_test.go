package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindStatus(t *testing.T) {
	tests := []struct {
		kind   Kind
		status int
	}{
		{KindValidation, http.StatusBadRequest},
		{KindNotFound, http.StatusNotFound},
		{KindConflict, http.StatusConflict},
		{KindInsufficientInventory, http.StatusUnprocessableEntity},
		{KindInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.status, tt.kind.Status())
		})
	}
}

func TestKindOfThroughWrapping(t *testing.T) {
	err := fmt.Errorf("failed to load: %w", NotFound("product", 7))

	assert.Equal(t, KindNotFound, KindOf(err))
	assert.True(t, Is(err, KindNotFound))
	assert.False(t, Is(err, KindConflict))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("duplicate key")
	err := Wrap(KindConflict, cause, "sku %q already exists", "ABC123")

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "ABC123")
}

func TestInsufficientInventoryDetails(t *testing.T) {
	err := InsufficientInventory(4, 3, -5)

	assert.Equal(t, KindInsufficientInventory, err.Kind)
	assert.Equal(t, 3, err.Details["current_quantity"])
	assert.Equal(t, -5, err.Details["quantity_change"])
}
