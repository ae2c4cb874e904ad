package notify

import (
	"context"

	desktopnotify "github.com/martinlindhe/notify"

	"github.com/hamed0406/hostmon/internal/domain"
)

const appName = "hostmon"

// Desktop raises an OS notification for each event.
type Desktop struct {
	show func(app, title, body, icon string)
}

func NewDesktop() *Desktop {
	return &Desktop{show: func(app, title, body, icon string) {
		desktopnotify.Notify(app, title, body, icon)
	}}
}

func (d *Desktop) Name() string { return "desktop" }

func (d *Desktop) Notify(_ context.Context, ev domain.Event) error {
	msg := ev.Target.String() + ": " + string(ev.From) + " -> " + string(ev.To)
	if ev.Detail != "" {
		msg += "\n" + ev.Detail
	}
	d.show(appName, ev.Title(), msg, "")
	return nil
}
