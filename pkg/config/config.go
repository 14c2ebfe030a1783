package config

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	// Deposit slip storage
	StorageBucket  string `mapstructure:"STORAGE_BUCKET"`
	StorageBaseURL string `mapstructure:"STORAGE_BASE_URL"`

	// Report email
	ResendAPIKey    string `mapstructure:"RESEND_API_KEY"`
	ReportFrom      string `mapstructure:"REPORT_FROM"`
	ReportRecipient string `mapstructure:"REPORT_RECIPIENT"`

	// HTTP surface
	SubmitRateLimit string `mapstructure:"SUBMIT_RATE_LIMIT"`
	FrontendBaseURL string `mapstructure:"FRONTEND_BASE_URL"`
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("STORAGE_BUCKET", "")
	viper.SetDefault("STORAGE_BASE_URL", "")
	viper.SetDefault("RESEND_API_KEY", "")
	viper.SetDefault("REPORT_FROM", "Tithr <reports@tithr.app>")
	viper.SetDefault("REPORT_RECIPIENT", "")
	viper.SetDefault("SUBMIT_RATE_LIMIT", "30-M")
	viper.SetDefault("FRONTEND_BASE_URL", "http://localhost:3000")

	// Environment variables override defaults and .env file values.
	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080" // Default port
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	cfg.StorageBucket = viper.GetString("STORAGE_BUCKET")
	if cfg.StorageBucket == "" {
		log.Println("Warning: STORAGE_BUCKET not set. Deposit slip uploads will fail.")
	}
	cfg.StorageBaseURL = viper.GetString("STORAGE_BASE_URL")
	if cfg.StorageBaseURL == "" && cfg.StorageBucket != "" {
		cfg.StorageBaseURL = "https://storage.googleapis.com/" + cfg.StorageBucket
		log.Printf("Warning: STORAGE_BASE_URL not set. Defaulting to %s\n", cfg.StorageBaseURL)
	}

	cfg.ResendAPIKey = viper.GetString("RESEND_API_KEY")
	if cfg.ResendAPIKey == "" {
		log.Println("Warning: RESEND_API_KEY not set. Report email delivery will fail.")
	}
	cfg.ReportFrom = viper.GetString("REPORT_FROM")
	cfg.ReportRecipient = viper.GetString("REPORT_RECIPIENT")
	if cfg.ReportRecipient == "" {
		log.Println("Warning: REPORT_RECIPIENT not set. Report emails cannot be sent.")
	}

	cfg.SubmitRateLimit = viper.GetString("SUBMIT_RATE_LIMIT")
	cfg.FrontendBaseURL = viper.GetString("FRONTEND_BASE_URL")

	return cfg, nil
}
