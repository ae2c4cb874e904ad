package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hamed0406/hostmon/internal/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the config file without probing anything",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		ok := func(msg string) { fmt.Fprintln(out, "✔", msg) }
		warn := func(msg string) { fmt.Fprintln(out, "⚠", msg) }

		cfg, err := config.Load(configPath)
		if err != nil {
			for _, e := range problems(err) {
				fmt.Fprintln(out, "✖", e)
			}
			return fmt.Errorf("%s is invalid", configPath)
		}

		targets := cfg.Targets()
		ok(fmt.Sprintf("%s: %d hosts, %d targets", configPath, len(cfg.Hosts), len(targets)))
		ok(fmt.Sprintf("every %s, timeout %s, alert after %d failures, recover after %d successes",
			cfg.Interval, cfg.Timeout, cfg.FailedThreshold, cfg.RecoveryThreshold))

		var chans []string
		for _, c := range channels(cfg, nil, nil) {
			chans = append(chans, c.Name())
		}
		ok("alert channels: " + strings.Join(chans, ", "))
		if len(chans) == 1 {
			warn("only the event store records alerts; enable console, file, slack, email or desktop")
		}
		if cfg.Timeout >= cfg.Interval {
			warn("timeout is not shorter than the interval; cycles will run back to back")
		}
		if !cfg.PrivilegedPing {
			warn("unprivileged ping needs net.ipv4.ping_group_range to include this user on Linux")
		}
		if cfg.DatabaseURL == "" {
			warn("database_url is empty; events are kept in memory only")
		}
		if cfg.APIAddr != "" {
			ok("status API on " + cfg.APIAddr)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

// problems splits an aggregated validation error into one error per line.
func problems(err error) []error {
	var multi interface{ Unwrap() []error }
	if errors.As(err, &multi) {
		return multi.Unwrap()
	}
	return []error{err}
}
