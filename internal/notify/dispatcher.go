package notify

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/hamed0406/hostmon/internal/domain"
)

const DefaultChannelTimeout = 15 * time.Second

// Dispatcher fans an event out to every channel. A failing channel is logged
// and skipped; it never blocks delivery to the others or reaches the caller.
type Dispatcher struct {
	log      *zap.Logger
	channels []Channel
	timeout  time.Duration
}

func NewDispatcher(log *zap.Logger, channels ...Channel) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	d := &Dispatcher{log: log, timeout: DefaultChannelTimeout}
	for _, ch := range channels {
		if ch != nil {
			d.channels = append(d.channels, ch)
		}
	}
	return d
}

// Channels returns the configured channel names, in delivery order.
func (d *Dispatcher) Channels() []string {
	out := make([]string, 0, len(d.channels))
	for _, ch := range d.channels {
		out = append(out, ch.Name())
	}
	return out
}

// Dispatch delivers ev to every channel. Delivery outlives cancellation of
// ctx, bounded by the per-channel timeout, so shutdown does not drop an
// already decided event.
func (d *Dispatcher) Dispatch(ctx context.Context, ev domain.Event) {
	var errs error
	for _, ch := range d.channels {
		err := d.deliver(ctx, ch, ev)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", ch.Name(), err))
			d.log.Warn("channel_failed",
				zap.String("channel", ch.Name()),
				zap.String("target", ev.Target.Key()),
				zap.String("kind", string(ev.Kind)),
				zap.Error(err),
			)
			continue
		}
		d.log.Debug("alert_dispatched",
			zap.String("channel", ch.Name()),
			zap.String("target", ev.Target.Key()),
			zap.String("kind", string(ev.Kind)),
		)
	}
	if failed := len(multierr.Errors(errs)); failed > 0 {
		d.log.Warn("dispatch_incomplete",
			zap.String("target", ev.Target.Key()),
			zap.Int("failed", failed),
			zap.Int("channels", len(d.channels)),
		)
	}
}

func (d *Dispatcher) deliver(ctx context.Context, ch Channel, ev domain.Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
	defer cancel()
	return ch.Notify(cctx, ev)
}
