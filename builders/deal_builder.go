package builders

import (
	"strings"
	"time"

	"discounts/dto"
	"discounts/models"

	"github.com/shopspring/decimal"
)

// DealBuilder assembles a deal step by step
type DealBuilder struct {
	deal *models.Deal
}

func NewDealBuilder() *DealBuilder {
	return &DealBuilder{
		deal: &models.Deal{},
	}
}

// FromDeal starts from a copy of an existing deal so it can be edited
// without touching the original
func FromDeal(existing *models.Deal) *DealBuilder {
	copied := *existing
	copied.Categories = append([]models.Category(nil), existing.Categories...)
	return &DealBuilder{deal: &copied}
}

func (b *DealBuilder) WithTitle(title string) *DealBuilder {
	b.deal.Title = strings.TrimSpace(title)
	return b
}

func (b *DealBuilder) WithMerchant(merchantID uint) *DealBuilder {
	b.deal.MerchantID = merchantID
	return b
}

func (b *DealBuilder) WithPrices(original, discounted decimal.Decimal) *DealBuilder {
	b.deal.PriceOriginal = original
	b.deal.PriceDiscount = discounted
	return b
}

// WithWindow sets the validity bounds, nil leaves a bound open
func (b *DealBuilder) WithWindow(startsAt, expiresAt *time.Time) *DealBuilder {
	b.deal.StartsAt = startsAt
	b.deal.ExpiresAt = expiresAt
	return b
}

func (b *DealBuilder) WithImage(url string) *DealBuilder {
	b.deal.ImageURL = strings.TrimSpace(url)
	return b
}

func (b *DealBuilder) WithDescription(description string) *DealBuilder {
	b.deal.Description = description
	return b
}

func (b *DealBuilder) WithCategories(categories []models.Category) *DealBuilder {
	b.deal.Categories = categories
	return b
}

// WithPatch copies every supplied slot of the patch onto the deal
func (b *DealBuilder) WithPatch(patch dto.DealPatch) *DealBuilder {
	if patch.Title != nil {
		b.WithTitle(*patch.Title)
	}
	if patch.Description != nil {
		b.deal.Description = *patch.Description
	}
	if patch.PriceOriginal != nil {
		b.deal.PriceOriginal = *patch.PriceOriginal
	}
	if patch.PriceDiscount != nil {
		b.deal.PriceDiscount = *patch.PriceDiscount
	}
	if patch.StartsAt != nil {
		startsAt := *patch.StartsAt
		b.deal.StartsAt = &startsAt
	}
	if patch.ExpiresAt != nil {
		expiresAt := *patch.ExpiresAt
		b.deal.ExpiresAt = &expiresAt
	}
	if patch.ImageURL != nil {
		b.WithImage(*patch.ImageURL)
	}
	return b
}

func (b *DealBuilder) Build() *models.Deal {
	return b.deal
}
