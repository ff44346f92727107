/*
Copyright © 2025 AllBinary AB
*/
package main

import (
	"bufio"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	sendAddr    string
	sendTimeout time.Duration
)

// sendCmd represents the send command
var sendCmd = &cobra.Command{
	Use:   "send <command...>",
	Short: "Send a single command to a running bridge",
	Long: `Send one command line to a running bridge and print the reply.

The arguments are joined into a single command line, so quoting is optional.
Exits non-zero when the bridge answers ERROR.

Example usage:
  lightbridge send INITIALIZE
  lightbridge send TL_INTENSITY 128
  lightbridge send SHUTTER_OPEN 1 --addr lab-rig:31104`,
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		line := strings.Join(args, " ")

		conn, err := net.DialTimeout("tcp", sendAddr, sendTimeout)
		if err != nil {
			return fmt.Errorf("connect to %s: %w", sendAddr, err)
		}
		defer conn.Close()

		conn.SetDeadline(time.Now().Add(sendTimeout)) //nolint:errcheck

		if _, err := fmt.Fprintf(conn, "%s\n", line); err != nil {
			return fmt.Errorf("send command: %w", err)
		}

		reply, err := bufio.NewReader(conn).ReadString('\n')
		if err != nil {
			return fmt.Errorf("read reply: %w", err)
		}
		reply = strings.TrimSuffix(reply, "\n")

		okStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
		errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)

		if reply == "OK" {
			fmt.Println(okStyle.Render(reply))
			return nil
		}
		fmt.Println(errStyle.Render(reply))
		os.Exit(1)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)

	sendCmd.Flags().StringVarP(&sendAddr, "addr", "a", "127.0.0.1:31104", "bridge address")
	sendCmd.Flags().DurationVar(&sendTimeout, "timeout", 5*time.Second, "dial and reply timeout")
}
