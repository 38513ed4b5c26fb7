package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	Environment string
	Database    DatabaseConfig
	Stripe      StripeConfig
	Mpesa       MpesaConfig
	OrderAPI    OrderAPIConfig
	LogLevel    string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type StripeConfig struct {
	SecretKey string
	BaseURL   string
}

type MpesaConfig struct {
	// ProxyURL is the backend endpoint that triggers the out-of-band
	// mobile prompt; money movement is asynchronous on the provider side.
	ProxyURL string
}

type OrderAPIConfig struct {
	BaseURL string
	APIKey  string
}

func Load() (*Config, error) {
	viper.SetConfigType("env")
	viper.SetConfigName(".env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("STRIPE_BASE_URL", "https://api.stripe.com/v1")

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read .env file (optional)
	if err := viper.ReadInConfig(); err != nil {
		// It's okay if .env doesn't exist, we'll use env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{
		Port:        getEnvOrViper("PORT", "8080"),
		Environment: getEnvOrViper("ENVIRONMENT", "development"),
		Database: DatabaseConfig{
			Host:     getEnvOrViper("DB_HOST", "localhost"),
			Port:     getEnvOrViper("DB_PORT", "5432"),
			User:     getEnvOrViper("DB_USER", "postgres"),
			Password: getEnvOrViper("DB_PASSWORD", "postgres"),
			DBName:   getEnvOrViper("DB_NAME", "checkoutapi"),
			SSLMode:  getEnvOrViper("DB_SSLMODE", "disable"),
		},
		Stripe: StripeConfig{
			SecretKey: getEnvOrViper("STRIPE_SECRET_KEY", ""),
			BaseURL:   getEnvOrViper("STRIPE_BASE_URL", "https://api.stripe.com/v1"),
		},
		Mpesa: MpesaConfig{
			ProxyURL: getEnvOrViper("MPESA_PROXY_URL", ""),
		},
		OrderAPI: OrderAPIConfig{
			BaseURL: getEnvOrViper("ORDER_API_BASE_URL", ""),
			APIKey:  getEnvOrViper("ORDER_API_KEY", ""),
		},
		LogLevel: getEnvOrViper("LOG_LEVEL", "info"),
	}

	// Validate required fields
	if cfg.OrderAPI.BaseURL == "" {
		return nil, fmt.Errorf("ORDER_API_BASE_URL is required")
	}
	if cfg.Stripe.SecretKey == "" {
		return nil, fmt.Errorf("STRIPE_SECRET_KEY is required")
	}
	if cfg.Mpesa.ProxyURL == "" {
		cfg.Mpesa.ProxyURL = cfg.OrderAPI.BaseURL + "/order/mpesa-pay"
	}

	return cfg, nil
}

func getEnvOrViper(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	return defaultValue
}
