package tracker

import (
	"sync"
	"time"

	"github.com/hamed0406/hostmon/internal/domain"
)

const (
	DefaultFailedThreshold   = 3
	DefaultRecoveryThreshold = 1
	DefaultHistorySize       = 100
)

type Options struct {
	FailedThreshold   uint
	RecoveryThreshold uint
	HistorySize       int
}

type entity struct {
	state   domain.EntityState
	checked bool
	history []bool // ring of recent outcomes, oldest first
}

// Tracker owns the per-target EntityState map. All access goes through its
// mutex, so two results for the same target are never applied concurrently.
type Tracker struct {
	mu       sync.Mutex
	opts     Options
	entities map[string]*entity
	order    []string
}

func New(opts Options) *Tracker {
	if opts.FailedThreshold < 1 {
		opts.FailedThreshold = DefaultFailedThreshold
	}
	if opts.RecoveryThreshold < 1 {
		opts.RecoveryThreshold = DefaultRecoveryThreshold
	}
	if opts.HistorySize <= 0 {
		opts.HistorySize = DefaultHistorySize
	}
	return &Tracker{
		opts:     opts,
		entities: make(map[string]*entity),
	}
}

// Register pre-creates state for targets so they show up in snapshots
// before their first check. Already known targets are left alone.
func (t *Tracker) Register(targets []domain.Target) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, tgt := range targets {
		t.lookupLocked(tgt)
	}
}

// Apply feeds one check result into the state machine and returns the event
// produced by a threshold crossing, if any.
func (t *Tracker) Apply(r domain.CheckResult) (domain.Event, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	e := t.lookupLocked(r.Target)
	e.checked = true
	e.record(r.Succeeded, t.opts.HistorySize)
	res := r
	e.state.LastResult = &res

	st := &e.state
	if r.Succeeded {
		st.ConsecutiveSuccesses++
		st.ConsecutiveFailures = 0
		if st.Status == domain.StatusOffline && st.ConsecutiveSuccesses >= t.opts.RecoveryThreshold {
			st.Status = domain.StatusOnline
			if st.LastAlertedStatus != nil && *st.LastAlertedStatus == domain.StatusOffline {
				return t.emitLocked(st, domain.EventRecovery, domain.StatusOffline, r), true
			}
		}
		return domain.Event{}, false
	}

	st.ConsecutiveFailures++
	st.ConsecutiveSuccesses = 0
	if st.Status == domain.StatusOnline && st.ConsecutiveFailures >= t.opts.FailedThreshold {
		st.Status = domain.StatusOffline
		if st.LastAlertedStatus == nil || *st.LastAlertedStatus != domain.StatusOffline {
			return t.emitLocked(st, domain.EventAlert, domain.StatusOnline, r), true
		}
	}
	return domain.Event{}, false
}

func (t *Tracker) emitLocked(st *domain.EntityState, kind domain.EventKind, from domain.Status, r domain.CheckResult) domain.Event {
	to := st.Status
	st.LastAlertedStatus = &to
	ts := r.ObservedAt
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	return domain.Event{
		Kind:      kind,
		Target:    r.Target,
		From:      from,
		To:        to,
		Timestamp: ts,
		Detail:    r.Detail,
	}
}

func (t *Tracker) lookupLocked(tgt domain.Target) *entity {
	key := tgt.Key()
	e, ok := t.entities[key]
	if !ok {
		e = &entity{state: domain.EntityState{Target: tgt, Status: domain.StatusOnline}}
		t.entities[key] = e
		t.order = append(t.order, key)
	}
	return e
}

func (e *entity) record(ok bool, size int) {
	e.history = append(e.history, ok)
	if len(e.history) > size {
		e.history = e.history[len(e.history)-size:]
	}
}

// Summary is a read-only view of one entity for status reporting.
type Summary struct {
	domain.EntityState
	// Display is UNKNOWN until the first check lands, then mirrors Status.
	Display    domain.Status `json:"display_status"`
	UptimePerc float64       `json:"uptime_perc"`
	Checks     int           `json:"checks"`
}

// State returns a copy of the entity for key.
func (t *Tracker) State(key string) (Summary, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.entities[key]
	if !ok {
		return Summary{}, false
	}
	return e.summary(), true
}

// Snapshot returns copies of every entity in registration order.
func (t *Tracker) Snapshot() []Summary {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Summary, 0, len(t.order))
	for _, key := range t.order {
		out = append(out, t.entities[key].summary())
	}
	return out
}

func (e *entity) summary() Summary {
	s := Summary{EntityState: e.state, Display: e.state.Status, Checks: len(e.history)}
	if !e.checked {
		s.Display = domain.StatusUnknown
	}
	// copy pointers so callers can't reach tracker memory
	if e.state.LastAlertedStatus != nil {
		v := *e.state.LastAlertedStatus
		s.LastAlertedStatus = &v
	}
	if e.state.LastResult != nil {
		v := *e.state.LastResult
		s.LastResult = &v
	}
	s.UptimePerc = uptime(e.history)
	return s
}

func uptime(history []bool) float64 {
	if len(history) == 0 {
		return 0
	}
	up := 0
	for _, ok := range history {
		if ok {
			up++
		}
	}
	return float64(up) / float64(len(history)) * 100
}
