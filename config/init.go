package config

import (
	"context"
	"fmt"

	"discounts/middleware"
	"discounts/services/logger"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// App bundles the components shared by routes and jobs
type App struct {
	Config *Config
	Log    *logger.ZapLogger
	DB     *gorm.DB
	// Redis is nil when the server could not be reached
	Redis *redis.Client
	// Cloudinary is nil when no credentials are configured
	Cloudinary *cloudinary.Cloudinary
	Router     *gin.Engine
	Cron       *cron.Cron
}

func InitApp(cfg *Config) (*App, error) {
	log, err := logger.NewZapLogger(logger.ParseLevel(cfg.LogLevel), cfg.Env, cfg.ServiceName)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %v", err)
	}

	app := &App{Config: cfg, Log: log}
	if err := app.initComponents(); err != nil {
		return nil, fmt.Errorf("failed to initialize components: %v", err)
	}

	app.Router = NewRouter(cfg, log)
	app.Cron = cron.New()

	log.Info("All components initialized successfully")
	return app, nil
}

// NewRouter builds the gin engine with CORS and the shared middleware chain
func NewRouter(cfg *Config, log *logger.ZapLogger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	configCors := cors.DefaultConfig()
	configCors.AddAllowHeaders("Authorization", middleware.SessionHeader, "X-Requested-With")
	configCors.AddExposeHeaders(middleware.SessionHeader, middleware.RequestIDHeader)
	configCors.AllowCredentials = true
	configCors.AllowAllOrigins = false
	configCors.AllowOriginFunc = func(origin string) bool {
		return true
	}
	router.Use(cors.New(configCors))

	router.SetTrustedProxies(nil)

	router.Use(
		middleware.RequestLogger(log.Zap()),
		middleware.MetricsMiddleware(),
		middleware.SessionMiddleware(),
		middleware.Identify([]byte(cfg.JWTSecret), log),
	)
	return router
}

func (a *App) initComponents() error {
	var err error
	a.DB, err = ConnectDB(a.Config)
	if err != nil {
		return err
	}

	if a.Config.Redis.Addr == "" {
		a.Log.Warn("REDIS_ADDR not set, recent searches are disabled")
	} else if a.Redis, err = ConnectRedis(context.Background(), a.Config.Redis); err != nil {
		a.Log.Warn("Redis unavailable, recent searches are disabled: %v", err)
		a.Redis = nil
	}

	if a.Config.Cloudinary.Enabled() {
		a.Cloudinary, err = cloudinary.NewFromParams(a.Config.Cloudinary.CloudName, a.Config.Cloudinary.APIKey, a.Config.Cloudinary.APISecret)
		if err != nil {
			return fmt.Errorf("failed to initialize cloudinary: %v", err)
		}
	} else {
		a.Log.Warn("Cloudinary credentials not set, image uploads are disabled")
	}
	return nil
}

// Close releases connections held by the app
func (a *App) Close() {
	if a.Cron != nil {
		<-a.Cron.Stop().Done()
	}
	if a.Redis != nil {
		a.Redis.Close()
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		sqlDB.Close()
	}
	a.Log.Sync()
}
