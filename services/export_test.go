package services

// SetCouponCodeGenerator replaces the random coupon code source
func SetCouponCodeGenerator(s *CouponService, gen func() string) {
	s.newCode = gen
}
