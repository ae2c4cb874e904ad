package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hamed0406/hostmon/internal/domain"
)

// Channel delivers a decided event to one external sink.
type Channel interface {
	Name() string
	Notify(ctx context.Context, ev domain.Event) error
}

// text renders a plain multi-line event body.
func text(ev domain.Event) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Target: %s\n", ev.Target.Key())
	if ev.Target.Kind == domain.KindService {
		fmt.Fprintf(&b, "Address: %s:%d\n", ev.Target.Address, ev.Target.Port)
	} else {
		fmt.Fprintf(&b, "Address: %s\n", ev.Target.Address)
	}
	fmt.Fprintf(&b, "Transition: %s -> %s\n", ev.From, ev.To)
	if ev.Detail != "" {
		fmt.Fprintf(&b, "Reason: %s\n", ev.Detail)
	}
	fmt.Fprintf(&b, "Checked: %s", ev.Timestamp.Format(time.RFC3339))
	return b.String()
}
