// Package journal keeps an append-only log of every dispatched notification.
package journal

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/kih-api/automation/internal/notify"
)

const (
	_createTable = `CREATE TABLE IF NOT EXISTS notification_events (
						id          BIGSERIAL PRIMARY KEY,
						kind        TEXT        NOT NULL,
						channel     TEXT        NOT NULL,
						message     TEXT        NOT NULL,
						occurred_at TIMESTAMPTZ NOT NULL
					)`
	_insertEvent  = "INSERT INTO notification_events (kind, channel, message, occurred_at) VALUES ($1, $2, $3, $4)"
	_recentEvents = "SELECT kind, channel, message, occurred_at FROM notification_events ORDER BY occurred_at DESC LIMIT $1"
)

type Store struct {
	db *sqlx.DB
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, _createTable); err != nil {
		return fmt.Errorf("%w: can't create notification_events", err)
	}
	return nil
}

func (s *Store) Save(ctx context.Context, r notify.Record) error {
	if _, err := s.db.ExecContext(ctx, _insertEvent, r.Kind, string(r.Channel), r.Message, r.OccurredAt); err != nil {
		return fmt.Errorf("%w: can't save %s event", err, r.Kind)
	}
	return nil
}

// Recent returns up to limit records, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]notify.Record, error) {
	var records []notify.Record
	if err := s.db.SelectContext(ctx, &records, _recentEvents, limit); err != nil {
		return nil, fmt.Errorf("%w: can't query notification events", err)
	}
	return records, nil
}
