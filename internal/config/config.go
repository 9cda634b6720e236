package config

import (
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"DayLedger"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"dayledger"`
	}

	Server struct {
		Timeout        time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		AllowedOrigins []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	}

	Log struct {
		Level  string `envconfig:"LOG_LEVEL" default:"info"`
		Format string `envconfig:"LOG_FORMAT" default:"console"`
	}

	Redis struct {
		Enabled  bool   `envconfig:"REDIS_ENABLED" default:"false"`
		URL      string `envconfig:"REDIS_URL"`
		Addr     string `envconfig:"REDIS_ADDR" default:"127.0.0.1:6379"`
		Password string `envconfig:"REDIS_PASSWORD"`
		DB       int    `envconfig:"REDIS_DB" default:"0"`
		Channel  string `envconfig:"REDIS_CHANNEL" default:"ledger:operations"`
	}

	Ledger struct {
		// VarianceThreshold is in currency units, not cents.
		VarianceThreshold decimal.Decimal `envconfig:"LEDGER_VARIANCE_THRESHOLD" default:"1000"`
		Timezone          string          `envconfig:"LEDGER_TIMEZONE" default:"UTC"`
		CloseLockTTL      time.Duration   `envconfig:"LEDGER_CLOSE_LOCK_TTL" default:"10s"`
	}

	Report struct {
		Locale   string `envconfig:"REPORT_LOCALE" default:"es-CO"`
		Currency string `envconfig:"REPORT_CURRENCY" default:"COP"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

// Location resolves the ledger timezone used to decide what "today" is.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Ledger.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading ledger timezone %q: %w", c.Ledger.Timezone, err)
	}

	return loc, nil
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
