package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"
)

// Settings is the typed view of the calculator configuration.
type Settings struct {
	Server  ServerSettings  `mapstructure:"server"`
	Log     LogSettings     `mapstructure:"log"`
	Catalog CatalogSettings `mapstructure:"catalog"`
	Pricing PricingSettings `mapstructure:"pricing"`
}

type ServerSettings struct {
	Host         string            `mapstructure:"host"`
	Port         int               `mapstructure:"port"`
	ReadTimeout  time.Duration     `mapstructure:"read_timeout"`
	WriteTimeout time.Duration     `mapstructure:"write_timeout"`
	RateLimit    RateLimitSettings `mapstructure:"rate_limit"`
}

// Addr returns host:port.
func (s ServerSettings) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

type RateLimitSettings struct {
	RPS   float64 `mapstructure:"rps"`
	Burst int     `mapstructure:"burst"`
}

type LogSettings struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type CatalogSettings struct {
	// File replaces the embedded catalogue when set.
	File string `mapstructure:"file"`
}

type PricingSettings struct {
	// Seed fixes the manufacturing cost source; zero seeds from the clock.
	Seed         uint64 `mapstructure:"seed"`
	DefaultPrice int64  `mapstructure:"default_price"`
}

// Settings decodes and validates the typed settings.
func (c *Config) Settings() (Settings, error) {
	var s Settings
	if err := c.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("decode settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate reports every invalid setting.
func (s Settings) Validate() error {
	var errs []error
	if s.Server.Port < 1 || s.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port: must be between 1 and 65535, got %d", s.Server.Port))
	}
	if s.Server.RateLimit.RPS < 0 {
		errs = append(errs, fmt.Errorf("server.rate_limit.rps: must not be negative, got %g", s.Server.RateLimit.RPS))
	}
	if s.Server.RateLimit.Burst < 0 {
		errs = append(errs, fmt.Errorf("server.rate_limit.burst: must not be negative, got %d", s.Server.RateLimit.Burst))
	}
	switch s.Log.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("log.format: must be json or console, got %q", s.Log.Format))
	}
	if s.Pricing.DefaultPrice < 0 {
		errs = append(errs, fmt.Errorf("pricing.default_price: must not be negative, got %d", s.Pricing.DefaultPrice))
	}
	return errors.Join(errs...)
}
