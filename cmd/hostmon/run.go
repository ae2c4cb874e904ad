package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hamed0406/hostmon/internal/config"
	"github.com/hamed0406/hostmon/internal/httpapi"
	"github.com/hamed0406/hostmon/internal/logging"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start monitoring until interrupted",
	Long: `Run the monitoring loop in the foreground. Every interval each host is
pinged and each of its services is connected to; alerts go to the channels
configured under 'alerts'. When api.addr is set a read-only JSON status API
is served as well. Stop with Ctrl+C or SIGTERM.`,
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

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error { return a.runner.Run(gctx) })
		if cfg.APIAddr != "" {
			api := httpapi.NewServer(logger, a.tracker, a.events)
			api.TrustProxy = cfg.APITrustProxy
			g.Go(func() error { return api.Serve(gctx, cfg.APIAddr, api.Router(120, 60)) })
		}

		logger.Info("hostmon_started", zap.String("config", configPath))
		if err := g.Wait(); err != nil {
			logger.Error("hostmon_failed", zap.Error(err))
			return err
		}
		logger.Info("hostmon_stopped")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
