package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/hostmon/internal/checklog"
	"github.com/hamed0406/hostmon/internal/config"
	"github.com/hamed0406/hostmon/internal/domain"
	"github.com/hamed0406/hostmon/internal/notify"
	"github.com/hamed0406/hostmon/internal/probe"
	"github.com/hamed0406/hostmon/internal/tracker"
)

// Runner drives the monitoring cycle: probe every target, feed the tracker,
// dispatch whatever events it decides on, sleep, repeat.
type Runner struct {
	Logger      *zap.Logger
	Targets     []domain.Target
	Prober      probe.Prober
	Tracker     *tracker.Tracker
	Dispatcher  *notify.Dispatcher
	CheckLog    *checklog.Log
	Interval    time.Duration
	Timeout     time.Duration
	Concurrency int

	now  func() time.Time
	wait func(ctx context.Context, d time.Duration) bool
}

func NewRunner(
	logger *zap.Logger,
	targets []domain.Target,
	prober probe.Prober,
	trk *tracker.Tracker,
	dispatcher *notify.Dispatcher,
	cl *checklog.Log,
	interval time.Duration,
	timeout time.Duration,
	concurrency int,
) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if concurrency < 1 {
		concurrency = 1
	}
	if timeout <= 0 {
		timeout = config.DefaultTimeout
	}
	if dispatcher == nil {
		dispatcher = notify.NewDispatcher(logger)
	}
	if cl == nil {
		cl = checklog.New(logger, "")
	}
	return &Runner{
		Logger:      logger,
		Targets:     targets,
		Prober:      prober,
		Tracker:     trk,
		Dispatcher:  dispatcher,
		CheckLog:    cl,
		Interval:    interval,
		Timeout:     timeout,
		Concurrency: concurrency,
		now:         time.Now,
		wait:        sleepCtx,
	}
}

// Run loops until ctx is cancelled, which is a clean stop (nil). The only
// error is a configuration that leaves nothing to monitor.
func (r *Runner) Run(ctx context.Context) error {
	if len(r.Targets) == 0 {
		return fmt.Errorf("scheduler: %w", config.ErrNoEntities)
	}
	r.Logger.Info("runner_started",
		zap.Int("targets", len(r.Targets)),
		zap.Duration("interval", r.Interval),
		zap.Int("concurrency", r.Concurrency),
	)

	for cycle := 1; ; cycle++ {
		if ctx.Err() != nil {
			r.Logger.Info("runner_stopped")
			return nil
		}
		start := r.now()
		r.cycle(ctx, cycle)

		if !r.wait(ctx, nextDelay(start, r.now(), r.Interval)) {
			r.Logger.Info("runner_stopped")
			return nil
		}
	}
}

// RunOnce executes a single cycle.
func (r *Runner) RunOnce(ctx context.Context) error {
	if len(r.Targets) == 0 {
		return fmt.Errorf("scheduler: %w", config.ErrNoEntities)
	}
	r.cycle(ctx, 1)
	return nil
}

func (r *Runner) cycle(ctx context.Context, n int) {
	start := r.now()
	r.Logger.Info("cycle_start", zap.Int("cycle", n), zap.Int("targets", len(r.Targets)))

	sem := make(chan struct{}, r.Concurrency)
	var wg sync.WaitGroup
	launched := 0

launch:
	for _, tgt := range r.Targets {
		if ctx.Err() != nil {
			break
		}
		select {
		case <-ctx.Done():
			break launch
		case sem <- struct{}{}:
		}
		launched++
		wg.Add(1)
		go func(t domain.Target) {
			defer func() { <-sem }()
			defer wg.Done()
			r.check(ctx, t)
		}(tgt)
	}
	wg.Wait()

	r.Logger.Info("cycle_done",
		zap.Int("cycle", n),
		zap.Int("checked", launched),
		zap.Duration("elapsed", r.now().Sub(start)),
	)
}

// check probes one target and pushes the outcome through the tracker. A probe
// that already started runs to completion even if ctx is cancelled; only its
// own timeout bounds it.
func (r *Runner) check(ctx context.Context, t domain.Target) {
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.Timeout)
	defer cancel()

	var out probe.Result
	switch t.Kind {
	case domain.KindService:
		out = r.Prober.CheckService(pctx, t.Address, t.Port)
	default:
		out = r.Prober.CheckHost(pctx, t.Address)
	}

	res := domain.CheckResult{
		Target:     t,
		Succeeded:  out.Success,
		ObservedAt: r.now().UTC(),
		Detail:     out.Detail,
	}
	if out.Success || out.Latency > 0 {
		lat := out.Latency
		res.Latency = &lat
	}
	r.CheckLog.Write(checklog.FromResult(res))

	ev, ok := r.Tracker.Apply(res)
	if !ok {
		return
	}
	r.CheckLog.Write(checklog.FromEvent(ev))
	r.Dispatcher.Dispatch(ctx, ev)
}

// nextDelay is the remainder of interval measured from the cycle start; an
// overrun cycle is followed immediately by the next one.
func nextDelay(start, end time.Time, interval time.Duration) time.Duration {
	d := interval - end.Sub(start)
	if d < 0 {
		return 0
	}
	return d
}

// sleepCtx reports false when ctx ended before d elapsed.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
