/*
Copyright © 2025 AllBinary AB
*/
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "lightbridge",
	Short: "TCP command bridge for a serial-attached light-source controller",
	Long: `lightbridge bridges a newline-delimited TCP command protocol to a
light-source controller attached over a serial line.

Clients send short text commands (INITIALIZE, SHUTDOWN, TL_INTENSITY,
SHUTTER_OPEN) and get back OK or ERROR; the bridge translates each command
into echo-validated serial exchanges and keeps the device output in sync
with the logical shutter/intensity state.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: lightbridge.yaml in . or /etc/lightbridge)")
}

// initConfig reads in the config file and environment variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("lightbridge")
		viper.AddConfigPath(".")
		viper.AddConfigPath("/etc/lightbridge")
	}

	viper.SetEnvPrefix("LIGHTBRIDGE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}
