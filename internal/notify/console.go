package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/hamed0406/hostmon/internal/domain"
)

var (
	alertStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	recoveryStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Console prints one styled line per event.
type Console struct {
	mu sync.Mutex
	w  io.Writer
}

func NewConsole(w io.Writer) *Console {
	if w == nil {
		w = os.Stdout
	}
	return &Console{w: w}
}

func (c *Console) Name() string { return "console" }

func (c *Console) Notify(_ context.Context, ev domain.Event) error {
	style := alertStyle
	if ev.Kind == domain.EventRecovery {
		style = recoveryStyle
	}
	line := fmt.Sprintf("%s %s %s %s -> %s",
		dimStyle.Render(ev.Timestamp.Format(time.DateTime)),
		style.Render(string(ev.Kind)),
		ev.Target.String(),
		ev.From, ev.To,
	)
	if ev.Detail != "" {
		line += " " + dimStyle.Render("("+ev.Detail+")")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := fmt.Fprintln(c.w, line)
	return err
}
