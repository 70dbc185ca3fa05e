package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Server    Server    `mapstructure:"server"`
	Database  Database  `mapstructure:"database"`
	CoinGecko CoinGecko `mapstructure:"coingecko"`
	Logger    Logger    `mapstructure:"logger"`
}

// Server holds the configuration for the HTTP API.
type Server struct {
	Port         int           `mapstructure:"port"`
	OwnerHeader  string        `mapstructure:"owner_header"`
	CORSOrigins  []string      `mapstructure:"cors_origins"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// Database holds the configuration for the trade store.
type Database struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
	// Reset drops and recreates the schema on startup.
	Reset bool `mapstructure:"reset"`
}

// CoinGecko holds the configuration for the price provider API.
type CoinGecko struct {
	BaseURL        string        `mapstructure:"base_url"`
	ApiKey         string        `mapstructure:"api_key"`
	VsCurrency     string        `mapstructure:"vs_currency"`
	RankedPageSize int           `mapstructure:"ranked_page_size"`
	RateLimit      float64       `mapstructure:"rate_limit"`
	RateLimitBurst int           `mapstructure:"rate_limit_burst"`
	Timeout        time.Duration `mapstructure:"timeout"`
}

// Logger holds the configuration for the logger.
type Logger struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// LoadConfig reads config.yml from path, then lets environment variables
// (and a local .env file) override any key. A missing config file is fine.
func LoadConfig(path string) (config Config, err error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yml")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return config, fmt.Errorf("read config: %w", err)
		}
		err = nil
	}

	if err = v.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("decode config: %w", err)
	}
	return config, config.Validate()
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.owner_header", "User-ID")
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("server.read_timeout", 0)
	v.SetDefault("server.write_timeout", 0)

	v.SetDefault("database.driver", DriverSQLite)
	v.SetDefault("database.dsn", "crypto_tracker.db")
	v.SetDefault("database.reset", false)

	v.SetDefault("coingecko.base_url", "https://api.coingecko.com/api/v3")
	v.SetDefault("coingecko.api_key", "")
	v.SetDefault("coingecko.vs_currency", "usd")
	v.SetDefault("coingecko.ranked_page_size", 250)
	v.SetDefault("coingecko.rate_limit", 0.5) // public tier allows ~30 calls/min; slows large analyses
	v.SetDefault("coingecko.rate_limit_burst", 5)
	v.SetDefault("coingecko.timeout", 0)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 {
		errs = append(errs, fmt.Errorf("server.port must be positive, got %d", c.Server.Port))
	}
	if c.Server.OwnerHeader == "" {
		errs = append(errs, errors.New("server.owner_header is required"))
	}
	switch c.Database.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		errs = append(errs, fmt.Errorf("database.driver %q is not supported", c.Database.Driver))
	}
	if c.Database.DSN == "" {
		errs = append(errs, errors.New("database.dsn is required"))
	}
	if c.CoinGecko.BaseURL == "" {
		errs = append(errs, errors.New("coingecko.base_url is required"))
	}
	if c.CoinGecko.VsCurrency == "" {
		errs = append(errs, errors.New("coingecko.vs_currency is required"))
	}
	if c.CoinGecko.RankedPageSize <= 0 {
		errs = append(errs, fmt.Errorf("coingecko.ranked_page_size must be positive, got %d", c.CoinGecko.RankedPageSize))
	}

	return errors.Join(errs...)
}
