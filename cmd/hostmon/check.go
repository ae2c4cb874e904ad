package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/hamed0406/hostmon/internal/config"
	"github.com/hamed0406/hostmon/internal/domain"
	"github.com/hamed0406/hostmon/internal/logging"
	"github.com/hamed0406/hostmon/internal/tracker"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	onlineStyle  = cellStyle.Foreground(lipgloss.Color("10"))
	offlineStyle = cellStyle.Foreground(lipgloss.Color("9"))
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run one monitoring cycle and print the results",
	Long: `Probe every configured target once and print a status table. The
command exits non-zero when any check failed, which makes it usable from
cron or a CI job.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		logger, err := logging.NewLogger(cfg.LogDir, cfg.LogLevel)
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		defer logger.Sync()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx, cfg, logger, os.Stdout, nil)
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.runner.RunOnce(ctx); err != nil {
			return err
		}
		snap := a.tracker.Snapshot()
		printStatus(cmd.OutOrStdout(), snap)

		if n := failing(snap); n > 0 {
			return fmt.Errorf("%d of %d checks failed", n, len(snap))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func failing(snap []tracker.Summary) int {
	n := 0
	for _, s := range snap {
		if s.LastResult != nil && !s.LastResult.Succeeded {
			n++
		}
	}
	return n
}

func printStatus(w io.Writer, snap []tracker.Summary) {
	rows := make([][]string, 0, len(snap))
	for _, s := range snap {
		status, latency, detail := string(domain.StatusUnknown), "-", ""
		if r := s.LastResult; r != nil {
			status = string(r.Status())
			detail = r.Detail
			if r.Latency != nil {
				latency = strconv.FormatFloat(float64(*r.Latency)/float64(time.Millisecond), 'f', 1, 64) + " ms"
			}
		}
		service, port := "", ""
		if s.Target.Kind == domain.KindService {
			service, port = s.Target.Service, strconv.Itoa(s.Target.Port)
		}
		rows = append(rows, []string{s.Target.Name, s.Target.Address, service, port, status, latency, detail})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("NAME", "ADDRESS", "SERVICE", "PORT", "STATUS", "LATENCY", "DETAIL").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 4 {
				if rows[row][col] == string(domain.StatusOnline) {
					return onlineStyle
				}
				return offlineStyle
			}
			return cellStyle
		})
	fmt.Fprintln(w, t.Render())
}
