package repo

import (
	"context"

	"github.com/hamed0406/hostmon/internal/domain"
)

// EventStore keeps dispatched alert/recovery events for the status API.
type EventStore interface {
	Append(ctx context.Context, ev domain.Event) error
	// List returns the newest events first; limit <= 0 means all retained.
	List(ctx context.Context, limit int) ([]domain.Event, error)
}
