package dto

import "time"

type CouponResponse struct {
	ID         uint       `json:"id"`
	Code       string     `json:"code"`
	DealID     uint       `json:"dealId"`
	DealTitle  string     `json:"dealTitle,omitempty"`
	UserID     uint       `json:"userId"`
	Status     string     `json:"status"`
	IssuedAt   time.Time  `json:"issuedAt"`
	RedeemedAt *time.Time `json:"redeemedAt,omitempty"`
}
