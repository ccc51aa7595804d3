package models

import (
	"errors"
	"time"

	"discounts/constants"
)

var (
	ErrUnknownCouponStatus  = errors.New("unknown coupon status")
	ErrCouponAlreadyUsed    = errors.New("coupon already redeemed")
	ErrCouponAlreadyExpired = errors.New("coupon already expired")
)

// CouponState describes the transitions a coupon may take from its current status.
// Only active coupons move; redeemed and expired are terminal.
type CouponState interface {
	Redeem(coupon *Coupon, at time.Time) error
	Expire(coupon *Coupon) error
}

// ActiveState coupon can still be used
type ActiveState struct{}

func (s *ActiveState) Redeem(coupon *Coupon, at time.Time) error {
	coupon.Status = constants.CouponStatusRedeemed
	coupon.RedeemedAt = &at
	return nil
}

func (s *ActiveState) Expire(coupon *Coupon) error {
	coupon.Status = constants.CouponStatusExpired
	return nil
}

// RedeemedState coupon was used
type RedeemedState struct{}

func (s *RedeemedState) Redeem(coupon *Coupon, at time.Time) error {
	return ErrCouponAlreadyUsed
}

func (s *RedeemedState) Expire(coupon *Coupon) error {
	return ErrCouponAlreadyUsed
}

// ExpiredState coupon can no longer be used
type ExpiredState struct{}

func (s *ExpiredState) Redeem(coupon *Coupon, at time.Time) error {
	return ErrCouponAlreadyExpired
}

func (s *ExpiredState) Expire(coupon *Coupon) error {
	return ErrCouponAlreadyExpired
}

// GetCouponState returns the state matching the coupon status.
func GetCouponState(status string) (CouponState, error) {
	switch status {
	case constants.CouponStatusActive:
		return &ActiveState{}, nil
	case constants.CouponStatusRedeemed:
		return &RedeemedState{}, nil
	case constants.CouponStatusExpired:
		return &ExpiredState{}, nil
	default:
		return nil, ErrUnknownCouponStatus
	}
}
