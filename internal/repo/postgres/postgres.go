package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/hamed0406/hostmon/internal/domain"
	"github.com/hamed0406/hostmon/internal/repo"
)

var _ repo.EventStore = (*Store)(nil)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS events (
  id           BIGSERIAL PRIMARY KEY,
  kind         TEXT NOT NULL,
  target_kind  TEXT NOT NULL,
  target_name  TEXT NOT NULL,
  address      TEXT NOT NULL,
  service      TEXT NOT NULL DEFAULT '',
  port         INTEGER NULL,
  from_status  TEXT NOT NULL,
  to_status    TEXT NOT NULL,
  detail       TEXT NOT NULL DEFAULT '',
  occurred_at  TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_events_occurred_at ON events (occurred_at DESC);
`

type Store struct {
	pool *pgxpool.Pool
	log  *zap.Logger
}

// New connects, pings and makes sure the events table exists.
func New(ctx context.Context, dsn string, log *zap.Logger) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}
	ctxPing, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctxPing); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{pool: pool, log: log}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Store) Append(ctx context.Context, ev domain.Event) error {
	var port *int
	if ev.Target.Port != 0 {
		p := ev.Target.Port
		port = &p
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO events
		   (kind, target_kind, target_name, address, service, port, from_status, to_status, detail, occurred_at)
		 VALUES
		   ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		string(ev.Kind), string(ev.Target.Kind), ev.Target.Name, ev.Target.Address, ev.Target.Service,
		port, string(ev.From), string(ev.To), ev.Detail, ev.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	s.log.Debug("event_stored", zap.String("target", ev.Target.Key()), zap.String("kind", string(ev.Kind)))
	return nil
}

func (s *Store) List(ctx context.Context, limit int) ([]domain.Event, error) {
	q := `SELECT kind, target_kind, target_name, address, service, port, from_status, to_status, detail, occurred_at
	        FROM events
	       ORDER BY occurred_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT $1`
		args = append(args, limit)
	}
	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var out []domain.Event
	for rows.Next() {
		var (
			kind, targetKind, from, to string
			port                       *int
			ev                         domain.Event
		)
		if err := rows.Scan(&kind, &targetKind, &ev.Target.Name, &ev.Target.Address, &ev.Target.Service,
			&port, &from, &to, &ev.Detail, &ev.Timestamp); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		ev.Kind = domain.EventKind(kind)
		ev.Target.Kind = domain.Kind(targetKind)
		ev.From = domain.Status(from)
		ev.To = domain.Status(to)
		if port != nil {
			ev.Target.Port = *port
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}
