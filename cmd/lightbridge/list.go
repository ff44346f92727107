/*
Copyright © 2025 AllBinary AB
*/
package main

import (
	"fmt"

	"github.com/allbin/lightbridge"
	"github.com/spf13/cobra"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List serial devices on this machine",
	Long: `List the serial devices present on this machine, for picking the
--device argument to serve.

Example usage:
  lightbridge list`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ports, err := lightbridge.ListPorts()
		if err != nil {
			return err
		}
		if len(ports) == 0 {
			fmt.Println("No serial devices found")
			return nil
		}
		for _, port := range ports {
			fmt.Println(port)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
