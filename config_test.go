package lightbridge

import (
	"log/slog"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.ListenAddr != ":31104" {
		t.Errorf("Expected ListenAddr :31104, got %s", config.ListenAddr)
	}

	if config.BaudRate != 9600 {
		t.Errorf("Expected BaudRate 9600, got %d", config.BaudRate)
	}

	if config.ExchangeTimeout != 1000*time.Millisecond {
		t.Errorf("Expected ExchangeTimeout 1s, got %v", config.ExchangeTimeout)
	}

	if config.MetricsAddr != "" {
		t.Errorf("Expected metrics disabled by default, got %s", config.MetricsAddr)
	}

	if config.Logger == nil {
		t.Error("Expected a non-nil default logger")
	}
}

func TestFunctionalOptions(t *testing.T) {
	config := DefaultConfig()

	// Test WithListenAddr
	err := WithListenAddr("127.0.0.1:4000")(&config)
	if err != nil {
		t.Errorf("WithListenAddr failed: %v", err)
	}
	if config.ListenAddr != "127.0.0.1:4000" {
		t.Errorf("Expected ListenAddr 127.0.0.1:4000, got %s", config.ListenAddr)
	}

	// Test WithDevice
	err = WithDevice("/dev/ttyUSB0")(&config)
	if err != nil {
		t.Errorf("WithDevice failed: %v", err)
	}
	if config.DevicePath != "/dev/ttyUSB0" {
		t.Errorf("Expected DevicePath /dev/ttyUSB0, got %s", config.DevicePath)
	}

	// Test WithBaudRate
	err = WithBaudRate(19200)(&config)
	if err != nil {
		t.Errorf("WithBaudRate failed: %v", err)
	}
	if config.BaudRate != 19200 {
		t.Errorf("Expected BaudRate 19200, got %d", config.BaudRate)
	}

	// Test WithExchangeTimeout
	err = WithExchangeTimeout(2 * time.Second)(&config)
	if err != nil {
		t.Errorf("WithExchangeTimeout failed: %v", err)
	}
	if config.ExchangeTimeout != 2*time.Second {
		t.Errorf("Expected ExchangeTimeout 2s, got %v", config.ExchangeTimeout)
	}

	// Test WithMetricsAddr
	err = WithMetricsAddr(":2112")(&config)
	if err != nil {
		t.Errorf("WithMetricsAddr failed: %v", err)
	}
	if config.MetricsAddr != ":2112" {
		t.Errorf("Expected MetricsAddr :2112, got %s", config.MetricsAddr)
	}

	// Test WithLogger
	logger := slog.Default()
	err = WithLogger(logger)(&config)
	if err != nil {
		t.Errorf("WithLogger failed: %v", err)
	}
	if config.Logger != logger {
		t.Error("Expected Logger to be replaced")
	}
}

func TestInvalidOptions(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
	}{
		{"empty listen addr", WithListenAddr("")},
		{"empty device path", WithDevice("")},
		{"zero baud rate", WithBaudRate(0)},
		{"negative baud rate", WithBaudRate(-9600)},
		{"zero timeout", WithExchangeTimeout(0)},
		{"negative timeout", WithExchangeTimeout(-time.Second)},
		{"nil logger", WithLogger(nil)},
		{"nil dialer", WithDialer(nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			if err := tt.opt(&config); err != ErrInvalidConfig {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}
