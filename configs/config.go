package configs

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

var Values Config

type (
	Config struct {
		RPC       RPC       `mapstructure:"rpc"`
		Addresses Addresses `mapstructure:"addresses"`
		ABIDir    string    `mapstructure:"abi-dir"`
		Output    string    `mapstructure:"output"`
		Log       Log       `mapstructure:"log"`
	}

	RPC struct {
		URL           string        `mapstructure:"url"`
		From          string        `mapstructure:"from"`
		RetryAttempts int           `mapstructure:"retry-attempts"`
		RetryDelay    time.Duration `mapstructure:"retry-delay"`
		Timeout       time.Duration `mapstructure:"timeout"`
	}

	// Addresses of the contracts whose calls are resolved by address.
	Addresses struct {
		CAO           string `mapstructure:"cao"`
		CAOToken      string `mapstructure:"cao-token"`
		CAOParameters string `mapstructure:"cao-parameters"`
		HR            string `mapstructure:"hr"`
	}

	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	}
)

const (
	LogFormatJSON = "json"
	LogFormatText = "text"
)

func (c *RPC) Validate() error {
	var errs []error

	if c.URL == "" {
		errs = append(errs, errors.New("rpc.url is required"))
	}
	if c.From != "" && !common.IsHexAddress(c.From) {
		errs = append(errs, fmt.Errorf("rpc.from %q is not an address", c.From))
	}
	if c.RetryAttempts < 1 {
		errs = append(errs, errors.New("rpc.retry-attempts must be at least 1"))
	}
	if c.RetryDelay < 0 {
		errs = append(errs, errors.New("rpc.retry-delay must not be negative"))
	}
	if c.Timeout <= 0 {
		errs = append(errs, errors.New("rpc.timeout must be positive"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("RPC configuration validation failed: %w", errors.Join(errs...))
	}

	return nil
}

func (c *Addresses) Validate() error {
	var errs []error

	fields := []struct {
		key   string
		value string
	}{
		{"addresses.cao", c.CAO},
		{"addresses.cao-token", c.CAOToken},
		{"addresses.cao-parameters", c.CAOParameters},
		{"addresses.hr", c.HR},
	}
	for _, field := range fields {
		if field.value == "" {
			errs = append(errs, fmt.Errorf("%s is required", field.key))
			continue
		}
		if !common.IsHexAddress(field.value) {
			errs = append(errs, fmt.Errorf("%s %q is not an address", field.key, field.value))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("addresses configuration validation failed: %w", errors.Join(errs...))
	}

	return nil
}

func (c *Log) Validate() error {
	var errs []error

	if _, err := c.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	switch strings.ToLower(c.Format) {
	case "", LogFormatJSON, LogFormatText:
	default:
		errs = append(errs, fmt.Errorf("log.format must be either '%s' or '%s'", LogFormatJSON, LogFormatText))
	}

	if len(errs) > 0 {
		return fmt.Errorf("log configuration validation failed: %w", errors.Join(errs...))
	}

	return nil
}

// SlogLevel parses the configured level; empty means info.
func (c *Log) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if c.Level == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log.level %q is invalid: %w", c.Level, err)
	}
	return level, nil
}
