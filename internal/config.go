package internal

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

type Config struct {
	Server        ServerConfig        `mapstructure:"http_server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Payments      PaymentsConfig      `mapstructure:"payments"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

type ServerConfig struct {
	Port              int           `mapstructure:"port"`
	BaseURL           string        `mapstructure:"base_url"`
	AllowedOrigins    string        `mapstructure:"allowed_origins"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	MaxOpenConns    int           `mapstructure:"max_open_conns" validate:"required,min=1"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" validate:"required,min=1"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" validate:"required,min=1m"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time" validate:"required,min=1m"`
	Source          string        `mapstructure:"source"`
}

// PaymentsConfig carries the processor fee schedule and reporting knobs.
// FeeOnFailure preserves the historical behavior of charging the fee
// estimate even on failed attempts; real processors generally do not, so
// it is a toggle rather than a constant.
type PaymentsConfig struct {
	FeeBasisPoints int64 `mapstructure:"fee_basis_points"`
	FeeFixedCents  int64 `mapstructure:"fee_fixed_cents"`
	FeeOnFailure   bool  `mapstructure:"fee_on_failure"`
	GraceDays      int   `mapstructure:"grace_days"`
	RecentLimit    int   `mapstructure:"recent_limit"`
}

type ObservabilityConfig struct {
	Logging LoggingConfig `mapstructure:"logging"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=json text"`
}

// ----------------- DEFAULTS -----------------

func DefaultPaymentsConfig() PaymentsConfig {
	return PaymentsConfig{
		FeeBasisPoints: 290,
		FeeFixedCents:  30,
		FeeOnFailure:   true,
		GraceDays:      0,
		RecentLimit:    3,
	}
}

// ----------------- VALIDATION -----------------

func (c *Config) Validate() error {
	var errs []string

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("server config: %v", err))
	}

	if err := c.Database.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("database config: %v", err))
	}

	if err := c.Payments.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("payments config: %v", err))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

func (c *ServerConfig) Validate() error {
	if c.AllowedOrigins != "" {
		origins := strings.Split(c.AllowedOrigins, ",")
		for _, origin := range origins {
			origin = strings.TrimSpace(origin)
			if origin == "*" {
				continue
			}
			if _, err := url.Parse(origin); err != nil {
				return fmt.Errorf("invalid allowed origin %s: %w", origin, err)
			}
		}
	}
	if c.ReadTimeout < c.ReadHeaderTimeout {
		return errors.New("read_timeout must be >= read_header_timeout")
	}
	return nil
}

func (c *DatabaseConfig) Validate() error {
	if c.MaxIdleConns > c.MaxOpenConns {
		return errors.New("max_idle_conns cannot be greater than max_open_conns")
	}
	return nil
}

func (c *DatabaseConfig) GetDSN() string {
	return c.Source
}

func (c *PaymentsConfig) Validate() error {
	if c.FeeBasisPoints < 0 || c.FeeBasisPoints > 10000 {
		return errors.New("fee_basis_points must be between 0 and 10000")
	}
	if c.FeeFixedCents < 0 {
		return errors.New("fee_fixed_cents cannot be negative")
	}
	if c.GraceDays < 0 {
		return errors.New("grace_days cannot be negative")
	}
	if c.RecentLimit <= 0 {
		return errors.New("recent_limit must be positive")
	}
	return nil
}
