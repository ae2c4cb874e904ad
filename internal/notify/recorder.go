package notify

import (
	"context"

	"github.com/hamed0406/hostmon/internal/domain"
	"github.com/hamed0406/hostmon/internal/repo"
)

// Recorder stores events so the status API can list them.
type Recorder struct {
	name  string
	store repo.EventStore
}

func NewRecorder(name string, store repo.EventStore) *Recorder {
	return &Recorder{name: name, store: store}
}

func (r *Recorder) Name() string { return r.name }

func (r *Recorder) Notify(ctx context.Context, ev domain.Event) error {
	return r.store.Append(ctx, ev)
}
