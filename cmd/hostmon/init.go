package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hamed0406/hostmon/internal/config"
)

var forceInit bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter config file",
	Long: `Create a hostmon config file with one example host and two services.
Edit it to list your own hosts, then run 'hostmon validate'.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.InitConfig(configPath, forceInit); err != nil {
			return err
		}
		if forceInit {
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Configuration reset at %s\n", configPath)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Configuration initialized at %s\n", configPath)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "\nEdit the config file to add your hosts, then run:")
		fmt.Fprintln(cmd.OutOrStdout(), "  hostmon run")
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "overwrite existing configuration")
	rootCmd.AddCommand(initCmd)
}
