package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds every setting read from the environment
type Config struct {
	Env         string
	Port        string
	ServiceName string
	LogLevel    string

	DB         DBConfig
	Redis      RedisConfig
	JWTSecret  string
	Cloudinary CloudinaryConfig

	CouponExpirySpec string
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	TimeZone string
}

type RedisConfig struct {
	Addr     string
	User     string
	Password string
}

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

// Enabled reports whether image uploads can be configured
func (c CloudinaryConfig) Enabled() bool {
	return c.CloudName != "" && c.APIKey != "" && c.APISecret != ""
}

func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Error loading .env file: %v", err)
	}
}

func GetEnv(key string) string {
	return os.Getenv(key)
}

func getEnvOrDefault(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

// Load reads .env (when present) and the process environment
func Load() *Config {
	LoadEnv()

	env := getEnvOrDefault("ENV", "dev")

	return &Config{
		Env:         env,
		Port:        getEnvOrDefault("PORT", "8083"),
		ServiceName: getEnvOrDefault("SERVICE_NAME", "discounts"),
		LogLevel:    getEnvOrDefault("LOG_LEVEL", "info"),
		DB:          dbConfigByEnv(env),
		Redis: RedisConfig{
			Addr:     GetEnv("REDIS_ADDR"),
			User:     GetEnv("REDIS_USER"),
			Password: GetEnv("REDIS_PASSWORD"),
		},
		JWTSecret: GetEnv("SECRET_KEY_ACCESS_TOKEN"),
		Cloudinary: CloudinaryConfig{
			CloudName: GetEnv("CLOUDINARY_CLOUD_NAME"),
			APIKey:    GetEnv("CLOUDINARY_API_KEY"),
			APISecret: GetEnv("CLOUDINARY_API_SECRET"),
			Folder:    getEnvOrDefault("CLOUDINARY_FOLDER", "deals"),
		},
		CouponExpirySpec: getEnvOrDefault("COUPON_EXPIRY_CRON", "0 0 * * *"),
	}
}

// IsProduction reports whether the service runs with production settings
func (c *Config) IsProduction() bool {
	return c.Env == "prod"
}
