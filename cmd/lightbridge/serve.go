/*
Copyright © 2025 AllBinary AB
*/
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/allbin/lightbridge"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the bridge daemon",
	Long: `Run the bridge daemon: accept TCP clients and drive the serial device.

The serial port is opened lazily on the first INITIALIZE, so the daemon can
start before the device is plugged in. All flags can also come from the
config file or from LIGHTBRIDGE_* environment variables.

Example usage:
  lightbridge serve --device /dev/ttyUSB0
  lightbridge serve --device /dev/ttyUSB0 --listen :31104 --baud 19200
  lightbridge serve --device /dev/ttyUSB0 --metrics :2112 --verbose
  LIGHTBRIDGE_DEVICE=/dev/ttyACM0 lightbridge serve`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		device := viper.GetString("device")
		if device == "" {
			return fmt.Errorf("no serial device configured (--device, config file, or LIGHTBRIDGE_DEVICE)")
		}

		level := slog.LevelInfo
		if viper.GetBool("verbose") {
			level = slog.LevelDebug
		}
		logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

		opts := []lightbridge.Option{
			lightbridge.WithDevice(device),
			lightbridge.WithListenAddr(viper.GetString("listen")),
			lightbridge.WithBaudRate(viper.GetInt("baud")),
			lightbridge.WithExchangeTimeout(viper.GetDuration("timeout")),
			lightbridge.WithLogger(logger),
		}
		if addr := viper.GetString("metrics"); addr != "" {
			opts = append(opts, lightbridge.WithMetricsAddr(addr))
		}

		bridge, err := lightbridge.New(opts...)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return bridge.Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("listen", "l", lightbridge.DefaultListenAddr, "TCP listen address for the command server")
	serveCmd.Flags().StringP("device", "d", "", "serial device path, e.g. /dev/ttyUSB0")
	serveCmd.Flags().IntP("baud", "b", 9600, "serial baud rate")
	serveCmd.Flags().Duration("timeout", time.Second, "per-exchange device response deadline")
	serveCmd.Flags().String("metrics", "", "Prometheus listen address (disabled when empty)")
	serveCmd.Flags().BoolP("verbose", "v", false, "enable debug logging")

	viper.BindPFlags(serveCmd.Flags()) //nolint:errcheck
}
