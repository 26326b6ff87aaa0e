package subscriptions

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/bracketforge/notify/pkg/pg"
)

// DB is the subset of pgxpool.Pool used by the Postgres storage.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PGStorage is a PostgreSQL implementation of the Storage interface backed by
// the topic_subscriptions table. Global topics store an empty string for
// topic_id so the (recipient, type, id) unique index holds without NULL
// special-casing.
type PGStorage struct {
	db DB
}

// NewPGStorage creates a Postgres-backed subscription storage.
func NewPGStorage(db DB) *PGStorage {
	return &PGStorage{db: db}
}

func (s *PGStorage) Upsert(ctx context.Context, sub Subscription) (Subscription, error) {
	row := s.db.QueryRow(ctx, `
		INSERT INTO topic_subscriptions
			(id, recipient_id, topic_type, topic_id, muted, categories, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (recipient_id, topic_type, topic_id) DO UPDATE SET
			muted      = EXCLUDED.muted,
			categories = EXCLUDED.categories,
			updated_at = EXCLUDED.updated_at
		RETURNING id, recipient_id, topic_type, topic_id, muted, categories, created_at, updated_at`,
		sub.ID, sub.RecipientID, sub.Topic.Type, sub.Topic.ID,
		sub.Muted, sub.Categories, sub.CreatedAt, sub.UpdatedAt,
	)
	return scanSubscription(row)
}

func (s *PGStorage) Get(ctx context.Context, recipientID string, topic Topic) (*Subscription, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, recipient_id, topic_type, topic_id, muted, categories, created_at, updated_at
		FROM topic_subscriptions
		WHERE recipient_id = $1 AND topic_type = $2 AND topic_id = $3`,
		recipientID, topic.Type, topic.ID,
	)
	sub, err := scanSubscription(row)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}
	return &sub, nil
}

func (s *PGStorage) ForRecipients(ctx context.Context, recipientIDs []string, topic Topic) ([]Subscription, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, recipient_id, topic_type, topic_id, muted, categories, created_at, updated_at
		FROM topic_subscriptions
		WHERE recipient_id = ANY($1) AND topic_type = $2 AND topic_id = $3`,
		recipientIDs, topic.Type, topic.ID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSubscriptions(rows)
}

func (s *PGStorage) Subscribers(ctx context.Context, topic Topic) ([]string, error) {
	rows, err := s.db.Query(ctx, `
		SELECT recipient_id
		FROM topic_subscriptions
		WHERE topic_type = $1 AND topic_id = $2 AND NOT muted`,
		topic.Type, topic.ID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (s *PGStorage) List(ctx context.Context, recipientID string) ([]Subscription, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, recipient_id, topic_type, topic_id, muted, categories, created_at, updated_at
		FROM topic_subscriptions
		WHERE recipient_id = $1
		ORDER BY created_at`,
		recipientID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSubscriptions(rows)
}

func collectSubscriptions(rows pgx.Rows) ([]Subscription, error) {
	var out []Subscription
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sub)
	}
	return out, rows.Err()
}

func scanSubscription(row pgx.Row) (Subscription, error) {
	var sub Subscription
	err := row.Scan(
		&sub.ID, &sub.RecipientID, &sub.Topic.Type, &sub.Topic.ID,
		&sub.Muted, &sub.Categories, &sub.CreatedAt, &sub.UpdatedAt,
	)
	return sub, err
}
