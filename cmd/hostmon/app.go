package main

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/hamed0406/hostmon/internal/checklog"
	"github.com/hamed0406/hostmon/internal/config"
	"github.com/hamed0406/hostmon/internal/notify"
	"github.com/hamed0406/hostmon/internal/probe"
	"github.com/hamed0406/hostmon/internal/repo"
	"github.com/hamed0406/hostmon/internal/repo/memory"
	"github.com/hamed0406/hostmon/internal/repo/postgres"
	"github.com/hamed0406/hostmon/internal/scheduler"
	"github.com/hamed0406/hostmon/internal/tracker"
)

// app is everything a monitoring command needs, wired from one Config.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	tracker *tracker.Tracker
	events  repo.EventStore
	runner  *scheduler.Runner
	close   func()
}

func newApp(ctx context.Context, cfg *config.Config, logger *zap.Logger, console io.Writer, prober probe.Prober) (*app, error) {
	a := &app{cfg: cfg, logger: logger, close: func() {}}

	if cfg.DatabaseURL != "" {
		pg, err := postgres.New(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			return nil, fmt.Errorf("event store: %w", err)
		}
		a.events = pg
		a.close = pg.Close
	} else {
		a.events = memory.New(memory.DefaultCapacity)
	}

	targets := cfg.Targets()
	a.tracker = tracker.New(tracker.Options{
		FailedThreshold:   uint(cfg.FailedThreshold),
		RecoveryThreshold: uint(cfg.RecoveryThreshold),
	})
	a.tracker.Register(targets)

	if prober == nil {
		prober = probe.NewRetryProber(probe.NewNetProber(cfg.PrivilegedPing), cfg.RetryAttempts, cfg.RetryBackoff)
	}
	dispatcher := notify.NewDispatcher(logger, channels(cfg, console, a.events)...)
	logger.Info("alert_channels", zap.Strings("channels", dispatcher.Channels()))

	a.runner = scheduler.NewRunner(
		logger,
		targets,
		prober,
		a.tracker,
		dispatcher,
		checklog.New(logger, cfg.CheckLog),
		cfg.Interval,
		cfg.Timeout,
		cfg.Concurrency,
	)
	return a, nil
}

// channels builds the configured alert channels. The event store recorder is
// always last so the status API sees every dispatched event.
func channels(cfg *config.Config, console io.Writer, store repo.EventStore) []notify.Channel {
	var out []notify.Channel
	if cfg.Alerts.Console {
		out = append(out, notify.NewConsole(console))
	}
	if f := notify.NewFile(cfg.Alerts.File); f != nil {
		out = append(out, f)
	}
	if cfg.Alerts.Desktop {
		out = append(out, notify.NewDesktop())
	}
	if s := notify.NewSlack(cfg.Alerts.SlackWebhook); s != nil {
		out = append(out, s)
	}
	em := cfg.Alerts.Email
	if e := notify.NewEmail(em.SMTPAddr, em.From, em.To, em.Username, em.Password); e != nil {
		out = append(out, e)
	}
	return append(out, notify.NewRecorder("events", store))
}
