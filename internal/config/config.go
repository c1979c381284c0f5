package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// Config holds everything the application reads from the environment or a
// local .env file.
type Config struct {
	Environment string `mapstructure:"APP_ENV"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`
	ServerPort  string `mapstructure:"SERVER_PORT"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	JWTSecret   string `mapstructure:"JWT_SECRET"`

	// ClientOrigin is the frontend origin, used for CORS and email links.
	ClientOrigin string `mapstructure:"CLIENT_ORIGIN"`

	EasyPostAPIKey  string `mapstructure:"EASYPOST_API_KEY"`
	EasyPostBaseURL string `mapstructure:"EASYPOST_BASE_URL"`
	// ShippingCarrier is the carrier labels are purchased from.
	ShippingCarrier string `mapstructure:"SHIPPING_CARRIER"`

	AWSRegion string `mapstructure:"AWS_REGION"`
	EmailFrom string `mapstructure:"EMAIL_FROM"`

	GoogleClientID     string `mapstructure:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `mapstructure:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string `mapstructure:"GOOGLE_REDIRECT_URL"`
}

// LoadConfig reads a .env file from path (if present) and the process
// environment, environment taking precedence.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("CLIENT_ORIGIN", "http://localhost:5173")
	v.SetDefault("EASYPOST_BASE_URL", "https://api.easypost.com/v2")
	v.SetDefault("SHIPPING_CARRIER", "USPS")
	v.SetDefault("AWS_REGION", "us-east-1")

	// Bind explicitly so AutomaticEnv covers keys absent from the file.
	for _, key := range []string{
		"APP_ENV", "LOG_LEVEL", "SERVER_PORT", "DATABASE_URL", "JWT_SECRET",
		"CLIENT_ORIGIN", "EASYPOST_API_KEY", "EASYPOST_BASE_URL", "SHIPPING_CARRIER",
		"AWS_REGION", "EMAIL_FROM",
		"GOOGLE_CLIENT_ID", "GOOGLE_CLIENT_SECRET", "GOOGLE_REDIRECT_URL",
	} {
		_ = v.BindEnv(key)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if cfg.DatabaseURL == "" {
		return nil, errors.New("missing required configuration: DATABASE_URL")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("missing required configuration: JWT_SECRET")
	}
	if cfg.EasyPostAPIKey == "" {
		return nil, errors.New("missing required configuration: EASYPOST_API_KEY")
	}

	return &cfg, nil
}
