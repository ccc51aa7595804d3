package models

import "time"

// Favorite records a user's interest in a deal. It carries no redemption
// rights; those live in Coupon.
type Favorite struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_favorite_user_deal" json:"userId"`
	DealID    uint      `gorm:"not null;uniqueIndex:idx_favorite_user_deal;index" json:"dealId"`
	Deal      Deal      `gorm:"foreignKey:DealID;constraint:OnDelete:CASCADE" json:"deal"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}
