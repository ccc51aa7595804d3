package main

import (
	"log"

	"discounts/config"
	"discounts/jobs"
	"discounts/routes"
	"discounts/services"
	"discounts/utils"
)

func main() {
	cfg := config.Load()

	app, err := config.InitApp(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize app: %v", err)
	}
	defer app.Close()

	store := services.NewGormStore(app.DB)
	if err := store.Migrate(); err != nil {
		app.Log.Error("Failed to migrate tables: %v", err)
		return
	}

	var recent services.RecentSearches
	if app.Redis != nil {
		recent = services.NewRedisRecentSearches(app.Redis)
	}
	var images services.ImageUploader
	if app.Cloudinary != nil {
		images = services.NewCloudinaryUploader(app.Cloudinary, cfg.Cloudinary.Folder)
	}

	clock := utils.RealClock{}
	deps := routes.NewDependencies(store, recent, images, clock, app.Log)

	if err := jobs.InitCronJobs(app.Cron, cfg.CouponExpirySpec, deps.Coupons, clock, app.Log); err != nil {
		app.Log.Error("Failed to initialize cron jobs: %v", err)
		return
	}

	routes.SetupRoutes(app.Router, deps)

	app.Log.Info("Server starting on port %s...", cfg.Port)
	if err := app.Router.Run(":" + cfg.Port); err != nil {
		app.Log.Error("Failed to start server: %v", err)
	}
}
