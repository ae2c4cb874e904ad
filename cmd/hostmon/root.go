package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/hamed0406/hostmon/internal/config"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "hostmon",
	Short: "Monitor host reachability and TCP services",
	Long: `hostmon pings hosts and connects to their TCP services on a fixed
interval, and raises an alert once a target has failed enough consecutive
checks. A recovery is announced when it comes back.

Targets, thresholds and alert channels live in a single YAML file
(hostmon.yaml by default; see 'hostmon init').`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "path to the config file")
}
