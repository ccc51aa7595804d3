package config

import (
	"fmt"
	"os"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// dbConfigByEnv reads DB settings prefixed by the environment name, e.g. DEV_DB_HOST
func dbConfigByEnv(env string) DBConfig {
	prefix := strings.ToUpper(env) + "_"
	switch env {
	case "dev", "qc", "prod":
	default:
		prefix = ""
	}

	return DBConfig{
		Host:     getEnvOrDefault(prefix+"DB_HOST", "localhost"),
		Port:     getEnvOrDefault(prefix+"DB_PORT", "5432"),
		User:     os.Getenv(prefix + "DB_USER"),
		Password: os.Getenv(prefix + "DB_PASSWORD"),
		Name:     getEnvOrDefault(prefix+"DB_NAME", "discounts"),
		SSLMode:  getEnvOrDefault(prefix+"DB_SSLMODE", "require"),
		TimeZone: getEnvOrDefault("DB_TIMEZONE", "UTC"),
	}
}

// DSN renders the postgres connection string
func (c DBConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode, c.TimeZone)
}

// ConnectDB opens the catalog database
func ConnectDB(cfg *Config) (*gorm.DB, error) {
	logLevel := gormlogger.Warn
	if !cfg.IsProduction() && cfg.LogLevel == "debug" {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.DB.DSN()), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("fail to connect to db: %w", err)
	}
	return db, nil
}
