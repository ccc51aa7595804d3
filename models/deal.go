package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Deal struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	Title         string          `gorm:"type:varchar(255);not null" json:"title"`
	MerchantID    uint            `gorm:"not null;index" json:"merchantId"`
	Merchant      Merchant        `gorm:"foreignKey:MerchantID;constraint:OnDelete:CASCADE" json:"merchant"`
	PriceOriginal decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"priceOriginal"`
	PriceDiscount decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"priceDiscount"`
	StartsAt      *time.Time      `json:"startsAt,omitempty"`
	ExpiresAt     *time.Time      `gorm:"index" json:"expiresAt,omitempty"`
	CreatedAt     time.Time       `gorm:"autoCreateTime;<-:create" json:"createdAt"`
	ImageURL      string          `gorm:"type:varchar(500);default:''" json:"imageUrl"`
	Description   string          `gorm:"type:text" json:"description"`
	Categories    []Category      `gorm:"many2many:deal_categories;" json:"categories"`
}

// IsActiveAt reports whether now lies inside the deal's [StartsAt, ExpiresAt]
// window. Missing bounds are open.
func (d *Deal) IsActiveAt(now time.Time) bool {
	if d.StartsAt != nil && now.Before(*d.StartsAt) {
		return false
	}
	if d.ExpiresAt != nil && now.After(*d.ExpiresAt) {
		return false
	}
	return true
}

// IsExpiredAt reports whether the deal has an expiry that already passed.
func (d *Deal) IsExpiredAt(now time.Time) bool {
	return d.ExpiresAt != nil && d.ExpiresAt.Before(now)
}

// HasCategory reports whether the deal belongs to any of the given categories.
func (d *Deal) HasCategory(ids map[uint]bool) bool {
	for _, c := range d.Categories {
		if ids[c.ID] {
			return true
		}
	}
	return false
}
