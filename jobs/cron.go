package jobs

import (
	"context"
	"time"

	"discounts/services/logger"
	"discounts/utils"

	"github.com/robfig/cron/v3"
)

const expiryTimeout = 5 * time.Minute

// CouponExpirer expires the coupons of deals that ended before today
type CouponExpirer interface {
	ExpireCoupons(ctx context.Context, now time.Time) (int64, error)
}

// ExpireCouponsJob runs one expiry pass
func ExpireCouponsJob(expirer CouponExpirer, clock utils.Clock, log logger.Logger) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), expiryTimeout)
		defer cancel()

		now := clock.Now()
		log.Info("Running coupon expiry at %v", now)
		if _, err := expirer.ExpireCoupons(ctx, now); err != nil {
			log.Error("Coupon expiry failed: %v", err)
		}
	}
}

// InitCronJobs schedules the background jobs and starts the scheduler
func InitCronJobs(c *cron.Cron, spec string, expirer CouponExpirer, clock utils.Clock, log logger.Logger) error {
	if _, err := c.AddFunc(spec, ExpireCouponsJob(expirer, clock, log)); err != nil {
		return err
	}

	c.Start()
	log.Info("Cron jobs initialized successfully")
	return nil
}
