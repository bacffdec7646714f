// Package config loads server configuration from the environment, with
// optional .env file support for local development.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/payroll"
)

type Config struct {
	App     AppConfig
	Storage StorageConfig
	Policy  payroll.PayPolicy
}

// AppConfig holds application configuration.
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
}

// StorageConfig holds the SQLite database location.
type StorageConfig struct {
	Path string
}

// Load reads configuration from the environment. A .env file is loaded
// first when present; missing files are fine.
func Load() (*Config, error) {
	// Ignore the error: .env is a dev convenience, not a requirement.
	_ = godotenv.Load()

	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config := &Config{
		App: AppConfig{
			Port:     appPort,
			Env:      getEnv("APP_ENV", "development"),
			LogLevel: getEnv("LOG_LEVEL", "info"),
		},
		Storage: StorageConfig{
			Path: getEnv("DB_PATH", "./data/payroll.db"),
		},
	}

	policy, err := loadPolicy()
	if err != nil {
		return nil, err
	}
	config.Policy = policy

	return config, nil
}

// loadPolicy starts from the default pay policy and applies any
// environment overrides.
func loadPolicy() (payroll.PayPolicy, error) {
	policy := payroll.DefaultPolicy()

	shiftStart, err := strconv.Atoi(getEnv("SHIFT_START_HOUR", strconv.Itoa(policy.ShiftStartHour)))
	if err != nil {
		return policy, fmt.Errorf("invalid SHIFT_START_HOUR: %w", err)
	}
	shiftHours, err := strconv.Atoi(getEnv("SHIFT_HOURS", strconv.Itoa(policy.ShiftHours)))
	if err != nil {
		return policy, fmt.Errorf("invalid SHIFT_HOURS: %w", err)
	}
	policy.ShiftStartHour = shiftStart
	policy.ShiftHours = shiftHours

	if raw := os.Getenv("OVERTIME_MULTIPLIER"); raw != "" {
		mult, err := decimal.NewFromString(raw)
		if err != nil {
			return policy, fmt.Errorf("invalid OVERTIME_MULTIPLIER: %w", err)
		}
		policy.DefaultOvertimeMultiplier = mult
	}
	if raw := os.Getenv("CURRENCY_SYMBOL"); raw != "" {
		policy.CurrencySymbol = raw
	}

	return policy, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
