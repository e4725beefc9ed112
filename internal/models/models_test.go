package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaleStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to SaleStatus
		allowed  bool
	}{
		{SaleStatusPending, SaleStatusCompleted, true},
		{SaleStatusPending, SaleStatusCancelled, true},
		{SaleStatusCompleted, SaleStatusCancelled, true},
		{SaleStatusCompleted, SaleStatusRefunded, true},
		{SaleStatusCompleted, SaleStatusPending, false},
		{SaleStatusCancelled, SaleStatusCompleted, false},
		{SaleStatusRefunded, SaleStatusCancelled, false},
		{SaleStatusPending, SaleStatusPending, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransition(tt.to))
		})
	}
}

func TestInventoryAdjustmentDelta(t *testing.T) {
	change := -4
	assert.Equal(t, -4, InventoryAdjustment{QuantityChange: &change}.Delta(10))

	target := 25
	assert.Equal(t, 15, InventoryAdjustment{Quantity: &target}.Delta(10))
}

func TestPageNormalize(t *testing.T) {
	assert.Equal(t, DefaultLimit, Page{}.Normalize().Limit)
	assert.Equal(t, Page{Limit: 5, Offset: 10}, Page{Limit: 5, Offset: 10}.Normalize())
}

func TestProductUpdateCategoryID(t *testing.T) {
	var absent, cleared, set ProductUpdate
	require.NoError(t, json.Unmarshal([]byte(`{"name":"x"}`), &absent))
	require.NoError(t, json.Unmarshal([]byte(`{"category_id":null}`), &cleared))
	require.NoError(t, json.Unmarshal([]byte(`{"category_id":7}`), &set))

	assert.False(t, absent.CategoryID.Set)
	assert.True(t, cleared.CategoryID.Set)
	assert.Nil(t, cleared.CategoryID.Value)
	assert.Equal(t, SetID(7), set.CategoryID)

	var bad ProductUpdate
	assert.Error(t, json.Unmarshal([]byte(`{"category_id":"seven"}`), &bad))
}
