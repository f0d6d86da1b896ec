// file: internal/config/config.go
// version: 1.1.0
// guid: 8c9d0e1f-2a3b-4c5d-6e7f-8a9b0c1d2e3f

package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	DatabasePath string
	Host         string
	Port         int

	// Per-client request rate for the HTTP API.
	RateLimitPerSecond float64
	RateLimitBurst     int

	// Upper bound for one search request before it is abandoned.
	SearchTimeout time.Duration
}

var AppConfig Config

// InitConfig initializes the application configuration
func InitConfig() {
	// Set defaults
	viper.SetDefault("database_path", "gazetteer.db")
	viper.SetDefault("host", "0.0.0.0")
	viper.SetDefault("port", 8080)
	viper.SetDefault("rate_limit_per_second", 25.0)
	viper.SetDefault("rate_limit_burst", 50)
	viper.SetDefault("search_timeout", "5s")

	AppConfig = Config{
		DatabasePath:       viper.GetString("database_path"),
		Host:               viper.GetString("host"),
		Port:               viper.GetInt("port"),
		RateLimitPerSecond: viper.GetFloat64("rate_limit_per_second"),
		RateLimitBurst:     viper.GetInt("rate_limit_burst"),
		SearchTimeout:      viper.GetDuration("search_timeout"),
	}

	if AppConfig.RateLimitPerSecond <= 0 {
		AppConfig.RateLimitPerSecond = 25.0
	}
	if AppConfig.RateLimitBurst < 1 {
		AppConfig.RateLimitBurst = 50
	}
	if AppConfig.SearchTimeout <= 0 {
		AppConfig.SearchTimeout = 5 * time.Second
	}
}
