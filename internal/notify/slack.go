package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hamed0406/hostmon/internal/domain"
)

// Slack posts to an incoming webhook. Alerts and recoveries are colored
// attachments so they stand out in a busy channel.
type Slack struct {
	Webhook string
	Client  *http.Client
}

// NewSlack returns nil when no webhook is configured.
func NewSlack(webhook string) *Slack {
	if webhook == "" {
		return nil
	}
	return &Slack{Webhook: webhook, Client: &http.Client{Timeout: 10 * time.Second}}
}

type slackMessage struct {
	Text        string            `json:"text"`
	Attachments []slackAttachment `json:"attachments,omitempty"`
}

type slackAttachment struct {
	Color  string       `json:"color"`
	Fields []slackField `json:"fields"`
	Footer string       `json:"footer,omitempty"`
	TS     int64        `json:"ts,omitempty"`
}

type slackField struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

func (s *Slack) Name() string { return "slack" }

func (s *Slack) Notify(ctx context.Context, ev domain.Event) error {
	body, err := json.Marshal(slackFor(ev))
	if err != nil {
		return fmt.Errorf("slack payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.Webhook, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("slack request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("slack post: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("slack non-2xx: %s %s", resp.Status, bytes.TrimSpace(msg))
	}
	return nil
}

func slackFor(ev domain.Event) slackMessage {
	color := "danger"
	if ev.Kind == domain.EventRecovery {
		color = "good"
	}
	fields := []slackField{
		{Title: "Target", Value: ev.Target.String(), Short: true},
		{Title: "Transition", Value: fmt.Sprintf("%s -> %s", ev.From, ev.To), Short: true},
	}
	if ev.Detail != "" {
		fields = append(fields, slackField{Title: "Reason", Value: ev.Detail})
	}
	return slackMessage{
		Text: "*" + ev.Title() + "*",
		Attachments: []slackAttachment{{
			Color:  color,
			Fields: fields,
			Footer: "hostmon",
			TS:     ev.Timestamp.Unix(),
		}},
	}
}
