package services

import (
	"context"
	"strings"
	"time"

	"discounts/constants"
	"discounts/dto"
	"discounts/errors"
	"discounts/models"
	"discounts/services/logger"
	"discounts/types"
	"discounts/utils"

	"github.com/google/uuid"
)

// CouponDealStore is what the coupon manager needs
type CouponDealStore interface {
	CouponStore
	GetDeal(ctx context.Context, id uint) (*models.Deal, error)
}

type CouponService struct {
	store   CouponDealStore
	log     logger.Logger
	newCode func() string
}

func NewCouponService(store CouponDealStore, log logger.Logger) *CouponService {
	return &CouponService{store: store, log: log, newCode: newCouponCode}
}

// newCouponCode returns a 12 character upper-case code
func newCouponCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:12])
}

func ToCouponResponse(coupon *models.Coupon) dto.CouponResponse {
	res := dto.CouponResponse{
		ID:         coupon.ID,
		Code:       coupon.Code,
		DealID:     coupon.DealID,
		UserID:     coupon.UserID,
		Status:     coupon.Status,
		IssuedAt:   coupon.IssuedAt,
		RedeemedAt: coupon.RedeemedAt,
	}
	if coupon.Deal != nil {
		res.DealTitle = coupon.Deal.Title
	}
	return res
}

// IssueCoupon creates an active coupon for the caller on a deal that has
// not expired
func (s *CouponService) IssueCoupon(ctx context.Context, caller types.Identity, dealID uint, now time.Time) (*dto.CouponResponse, error) {
	if !caller.Authenticated {
		return nil, errors.ErrUnauthenticated
	}
	deal, err := s.store.GetDeal(ctx, dealID)
	if err != nil {
		return nil, err
	}
	if deal.IsExpiredAt(now) {
		return nil, errors.ErrDealExpired
	}

	coupon := &models.Coupon{
		UserID:   caller.UserID,
		DealID:   deal.ID,
		Status:   constants.CouponStatusActive,
		IssuedAt: now,
	}
	if err := s.createWithFreshCode(ctx, coupon); err != nil {
		s.log.Error("issue coupon user=%d deal=%d: %v", caller.UserID, dealID, err)
		return nil, err
	}
	coupon.Deal = deal
	couponTransitionsTotal.WithLabelValues(constants.CouponStatusActive).Inc()

	res := ToCouponResponse(coupon)
	return &res, nil
}

// createWithFreshCode draws a new code once more if the first one collides
func (s *CouponService) createWithFreshCode(ctx context.Context, coupon *models.Coupon) error {
	var err error
	for attempt := 0; attempt < 2; attempt++ {
		coupon.Code = s.newCode()
		err = s.store.CreateCoupon(ctx, coupon)
		appErr := errors.GetAppError(err)
		if appErr == nil || appErr.Code != errors.ErrCodeDBDuplicate {
			return err
		}
		s.log.Warn("coupon code %s already taken", coupon.Code)
	}
	return err
}

// RedeemCoupon moves an active coupon to redeemed. Only its owner or staff
// may redeem it.
func (s *CouponService) RedeemCoupon(ctx context.Context, caller types.Identity, code string, now time.Time) (*dto.CouponResponse, error) {
	if !caller.Authenticated {
		return nil, errors.ErrUnauthenticated
	}
	coupon, err := s.store.GetCouponByCode(ctx, strings.TrimSpace(code))
	if err != nil {
		return nil, err
	}
	if coupon.UserID != caller.UserID && !caller.IsStaff() {
		return nil, errors.ErrForbidden
	}

	state, err := models.GetCouponState(coupon.Status)
	if err != nil {
		return nil, err
	}
	if coupon.Status == constants.CouponStatusActive && dealEndedBefore(coupon.Deal, utils.StartOfDay(now)) {
		return nil, s.expireCoupon(ctx, state, coupon)
	}
	if err := state.Redeem(coupon, now); err != nil {
		return nil, errors.NewAppError(errors.ErrCodeCouponState, err.Error(), errors.ErrCouponNotActive)
	}
	if err := s.store.TransitionCoupon(ctx, coupon.ID, coupon.Status, coupon.RedeemedAt); err != nil {
		if errors.Is(err, errors.ErrCouponNotActive) {
			return nil, errors.NewAppError(errors.ErrCodeCouponState, models.ErrCouponAlreadyUsed.Error(), err)
		}
		s.log.Error("redeem coupon %s: %v", coupon.Code, err)
		return nil, err
	}
	couponTransitionsTotal.WithLabelValues(constants.CouponStatusRedeemed).Inc()

	res := ToCouponResponse(coupon)
	return &res, nil
}

// dealEndedBefore uses the same cutoff as the nightly expiry job
func dealEndedBefore(deal *models.Deal, cutoff time.Time) bool {
	return deal != nil && deal.ExpiresAt != nil && deal.ExpiresAt.Before(cutoff)
}

// expireCoupon moves a coupon whose deal has lapsed to expired ahead of the
// nightly job and reports it as no longer active
func (s *CouponService) expireCoupon(ctx context.Context, state models.CouponState, coupon *models.Coupon) error {
	if err := state.Expire(coupon); err != nil {
		return errors.NewAppError(errors.ErrCodeCouponState, err.Error(), errors.ErrCouponNotActive)
	}
	err := s.store.TransitionCoupon(ctx, coupon.ID, coupon.Status, nil)
	switch {
	case err == nil:
		couponTransitionsTotal.WithLabelValues(constants.CouponStatusExpired).Inc()
	case !errors.Is(err, errors.ErrCouponNotActive):
		s.log.Error("expire coupon %s: %v", coupon.Code, err)
		return err
	}
	return errors.NewAppError(errors.ErrCodeCouponState, models.ErrCouponAlreadyExpired.Error(), errors.ErrCouponNotActive)
}

// ExpireCoupons expires every active coupon whose deal ended before the
// start of now's day
func (s *CouponService) ExpireCoupons(ctx context.Context, now time.Time) (int64, error) {
	n, err := s.store.ExpireCoupons(ctx, utils.StartOfDay(now))
	if err != nil {
		s.log.Error("expire coupons: %v", err)
		return 0, err
	}
	if n > 0 {
		couponTransitionsTotal.WithLabelValues(constants.CouponStatusExpired).Add(float64(n))
	}
	s.log.Info("expired %d coupons", n)
	return n, nil
}

func (s *CouponService) ListCoupons(ctx context.Context, caller types.Identity) ([]dto.CouponResponse, error) {
	if !caller.Authenticated {
		return nil, errors.ErrUnauthenticated
	}
	coupons, err := s.store.UserCoupons(ctx, caller.UserID)
	if err != nil {
		s.log.Error("list coupons user=%d: %v", caller.UserID, err)
		return nil, err
	}
	out := make([]dto.CouponResponse, 0, len(coupons))
	for i := range coupons {
		out = append(out, ToCouponResponse(&coupons[i]))
	}
	return out, nil
}
