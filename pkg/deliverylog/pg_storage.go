package deliverylog

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/google/uuid"
)

// DB is the subset of pgxpool.Pool used by the Postgres storage.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// PGStorage is a PostgreSQL implementation of the Storage interface backed by
// the delivery_log table. The (recipient_id, event_key) unique constraint is
// the correctness mechanism; inserts use ON CONFLICT DO NOTHING so concurrent
// publishes for the same key never fail on the race.
type PGStorage struct {
	db DB
}

// NewPGStorage creates a Postgres-backed delivery log.
func NewPGStorage(db DB) *PGStorage {
	return &PGStorage{db: db}
}

func (s *PGStorage) AlreadyNotified(ctx context.Context, recipientIDs []string, eventKey string) (map[string]bool, error) {
	rows, err := s.db.Query(ctx, `
		SELECT recipient_id
		FROM delivery_log
		WHERE recipient_id = ANY($1) AND event_key = $2`,
		recipientIDs, eventKey,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out[id] = true
	}
	return out, rows.Err()
}

func (s *PGStorage) Record(ctx context.Context, recipientIDs []string, eventKey string, meta map[string]string) error {
	if len(recipientIDs) == 0 {
		return nil
	}

	now := time.Now()
	batch := &pgx.Batch{}
	for _, id := range recipientIDs {
		batch.Queue(`
			INSERT INTO delivery_log (id, recipient_id, event_key, meta, sent_at)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (recipient_id, event_key) DO NOTHING`,
			uuid.New().String(), id, eventKey, meta, now,
		)
	}

	results := s.db.SendBatch(ctx, batch)
	defer results.Close()

	for range recipientIDs {
		if _, err := results.Exec(); err != nil {
			return err
		}
	}
	return nil
}
