// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

// Duration accepts Go duration strings ("1s", "15m") in yaml, which plain
// time.Duration fields do not.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type UPIConfig struct {
	PayeeID      string `yaml:"payee_id"`      // identifier@provider, receives all payments
	MerchantName string `yaml:"merchant_name"` // brand used in the link note
}

type PaymentConfig struct {
	// VerifyDelay simulates the round trip to a real gateway. Callers wait
	// for it unconditionally; there is no cancellation or timeout.
	VerifyDelay Duration `yaml:"verify_delay"`
}

type QRConfig struct {
	Size int `yaml:"size"` // rendered image edge in pixels
}

type RedisConfig struct {
	URL      string `yaml:"url"` // empty disables redis entirely
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type RateLimitConfig struct {
	PerMinute int `yaml:"per_minute"` // generate-upi requests per phone per minute
}

type SchedulerConfig struct {
	ExpirySweepInterval Duration `yaml:"expiry_sweep_interval"`
}

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	UPI       UPIConfig       `yaml:"upi"`
	Payment   PaymentConfig   `yaml:"payment"`
	QR        QRConfig        `yaml:"qr"`
	Redis     RedisConfig     `yaml:"redis"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Scheduler SchedulerConfig `yaml:"scheduler"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	// defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 5000
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.UPI.MerchantName == "" {
		cfg.UPI.MerchantName = "Fiturai"
	}
	if cfg.Payment.VerifyDelay == 0 {
		cfg.Payment.VerifyDelay = Duration(time.Second)
	}
	if cfg.QR.Size <= 0 {
		cfg.QR.Size = 300
	}
	if cfg.RateLimit.PerMinute <= 0 {
		cfg.RateLimit.PerMinute = 10
	}
	if cfg.Scheduler.ExpirySweepInterval <= 0 {
		cfg.Scheduler.ExpirySweepInterval = Duration(time.Hour)
	}

	// Minimal validation
	if cfg.UPI.PayeeID == "" {
		return nil, errors.New("upi.payee_id is required")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}
