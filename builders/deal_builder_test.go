package builders

import (
	"testing"
	"time"

	"discounts/dto"
	"discounts/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDealBuilderBuildsDeal(t *testing.T) {
	expires := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	deal := NewDealBuilder().
		WithTitle("  Pasta night ").
		WithMerchant(7).
		WithPrices(decimal.NewFromInt(30), decimal.NewFromInt(21)).
		WithWindow(nil, &expires).
		WithImage(" https://img.example/p.png ").
		WithDescription("Two plates").
		WithCategories([]models.Category{{ID: 1, Name: "Food"}}).
		Build()

	assert.Equal(t, "Pasta night", deal.Title)
	assert.Equal(t, uint(7), deal.MerchantID)
	assert.True(t, decimal.NewFromInt(21).Equal(deal.PriceDiscount))
	assert.Nil(t, deal.StartsAt)
	assert.Equal(t, &expires, deal.ExpiresAt)
	assert.Equal(t, "https://img.example/p.png", deal.ImageURL)
	assert.Len(t, deal.Categories, 1)
}

func TestFromDealLeavesOriginalUntouched(t *testing.T) {
	original := &models.Deal{
		ID:            3,
		Title:         "Original",
		Description:   "keep",
		PriceOriginal: decimal.NewFromInt(10),
		PriceDiscount: decimal.NewFromInt(8),
		Categories:    []models.Category{{ID: 1, Name: "Food"}},
	}
	title := "Patched"
	price := decimal.NewFromInt(5)
	starts := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	patched := FromDeal(original).WithPatch(dto.DealPatch{
		Title:         &title,
		PriceDiscount: &price,
		StartsAt:      &starts,
	}).Build()

	require.NotSame(t, original, patched)
	assert.Equal(t, uint(3), patched.ID)
	assert.Equal(t, "Patched", patched.Title)
	assert.Equal(t, "keep", patched.Description)
	assert.True(t, price.Equal(patched.PriceDiscount))
	assert.True(t, decimal.NewFromInt(10).Equal(patched.PriceOriginal))
	require.NotNil(t, patched.StartsAt)
	assert.Equal(t, starts, *patched.StartsAt)

	assert.Equal(t, "Original", original.Title)
	assert.True(t, decimal.NewFromInt(8).Equal(original.PriceDiscount))
	assert.Nil(t, original.StartsAt)
}
