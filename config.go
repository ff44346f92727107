package lightbridge

import (
	"io"
	"log/slog"
	"time"
)

// DefaultListenAddr is the TCP address the command server binds by default.
const DefaultListenAddr = ":31104"

// Config holds the configuration for a bridge
type Config struct {
	ListenAddr      string        // TCP bind address for the command server
	DevicePath      string        // serial device path, e.g. /dev/ttyUSB0
	BaudRate        int           // serial line speed
	ExchangeTimeout time.Duration // per-exchange echo deadline
	MetricsAddr     string        // optional Prometheus listen address, "" disables
	Logger          *slog.Logger  // structured logger, discard by default
	Dial            Dialer        // overrides DevicePath/BaudRate when set
}

// Option is a functional option for configuring a bridge
type Option func(*Config) error

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() Config {
	return Config{
		ListenAddr:      DefaultListenAddr,
		BaudRate:        9600,
		ExchangeTimeout: DefaultExchangeTimeout,
		Logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithListenAddr sets the TCP address the command server binds
func WithListenAddr(addr string) Option {
	return func(c *Config) error {
		if addr == "" {
			return ErrInvalidConfig
		}
		c.ListenAddr = addr
		return nil
	}
}

// WithDevice sets the serial device path
func WithDevice(path string) Option {
	return func(c *Config) error {
		if path == "" {
			return ErrInvalidConfig
		}
		c.DevicePath = path
		return nil
	}
}

// WithBaudRate sets the serial line speed
func WithBaudRate(rate int) Option {
	return func(c *Config) error {
		if rate <= 0 {
			return ErrInvalidConfig
		}
		c.BaudRate = rate
		return nil
	}
}

// WithExchangeTimeout sets the per-exchange echo deadline
func WithExchangeTimeout(timeout time.Duration) Option {
	return func(c *Config) error {
		if timeout <= 0 {
			return ErrInvalidConfig
		}
		c.ExchangeTimeout = timeout
		return nil
	}
}

// WithMetricsAddr enables the Prometheus endpoint on the given address
func WithMetricsAddr(addr string) Option {
	return func(c *Config) error {
		c.MetricsAddr = addr
		return nil
	}
}

// WithLogger sets the structured logger used by all components
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) error {
		if logger == nil {
			return ErrInvalidConfig
		}
		c.Logger = logger
		return nil
	}
}

// WithDialer overrides how the device transport is opened. Used by tests
// and by deployments that front the serial line with something else.
func WithDialer(dial Dialer) Option {
	return func(c *Config) error {
		if dial == nil {
			return ErrInvalidConfig
		}
		c.Dial = dial
		return nil
	}
}
