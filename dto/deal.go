package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DealCard is the listing representation of a deal
type DealCard struct {
	ID              uint            `json:"id"`
	Title           string          `json:"title"`
	MerchantID      uint            `json:"merchantId"`
	MerchantName    string          `json:"merchantName"`
	PriceOriginal   decimal.Decimal `json:"priceOriginal"`
	PriceDiscount   decimal.Decimal `json:"priceDiscount"`
	DiscountPercent int             `json:"discountPercent"`
	StartsAt        *time.Time      `json:"startsAt,omitempty"`
	ExpiresAt       *time.Time      `json:"expiresAt,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	ImageURL        string          `json:"imageUrl"`
	Categories      []CategoryRef   `json:"categories"`
	Relevance       int             `json:"relevance,omitempty"`
}

// DealDetail is the deal page payload
type DealDetail struct {
	DealCard
	Description   string           `json:"description"`
	Contact       string           `json:"contact,omitempty"`
	IsActive      bool             `json:"isActive"`
	IsFavorite    bool             `json:"isFavorite"`
	RecentCoupons []CouponResponse `json:"recentCoupons,omitempty"`
}

// DealForm is the full create/edit form. Every field is validated.
type DealForm struct {
	Title         string          `json:"title" validate:"required,max=255"`
	MerchantID    uint            `json:"merchantId" validate:"required"`
	PriceOriginal decimal.Decimal `json:"priceOriginal"`
	PriceDiscount decimal.Decimal `json:"priceDiscount"`
	StartsAt      string          `json:"startsAt"`
	ExpiresAt     string          `json:"expiresAt"`
	ImageURL      string          `json:"imageUrl" validate:"omitempty,url,max=500"`
	Description   string          `json:"description" validate:"max=5000"`
	CategoryIDs   []uint          `json:"categoryIds" validate:"dive,gt=0"`
}

// DealPatch holds one optional slot per mutable attribute. Nil slots keep
// the stored value.
type DealPatch struct {
	Title         *string
	Description   *string
	PriceOriginal *decimal.Decimal
	PriceDiscount *decimal.Decimal
	StartsAt      *time.Time
	ExpiresAt     *time.Time
	ImageURL      *string
	// Ignored lists supplied keys whose values could not be parsed
	Ignored []string
}

// IsEmpty reports whether the patch changes nothing
func (p DealPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.PriceOriginal == nil &&
		p.PriceDiscount == nil && p.StartsAt == nil && p.ExpiresAt == nil && p.ImageURL == nil
}

// ToggleResult is the reply of the favorite toggle
type ToggleResult struct {
	DealID     uint   `json:"dealId"`
	Action     string `json:"action"`
	IsFavorite bool   `json:"isFavorite"`
}
