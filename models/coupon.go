package models

import (
	"time"

	"discounts/constants"
)

type Coupon struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Code       string     `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	UserID     uint       `gorm:"not null;index" json:"userId"`
	DealID     uint       `gorm:"not null;index" json:"dealId"`
	Deal       *Deal      `gorm:"foreignKey:DealID;constraint:OnDelete:CASCADE" json:"deal,omitempty"`
	Status     string     `gorm:"type:varchar(20);not null;default:active;index" json:"status"`
	IssuedAt   time.Time  `gorm:"autoCreateTime;<-:create" json:"issuedAt"`
	RedeemedAt *time.Time `json:"redeemedAt,omitempty"`
}

func (c *Coupon) ValidateStatusCoupon() error {
	switch c.Status {
	case constants.CouponStatusActive, constants.CouponStatusRedeemed, constants.CouponStatusExpired:
		return nil
	}
	return ErrUnknownCouponStatus
}
