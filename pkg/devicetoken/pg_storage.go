package devicetoken

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of pgxpool.Pool used by the Postgres storage.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PGStorage is a PostgreSQL implementation of the Storage interface backed by
// the device_tokens table.
type PGStorage struct {
	db DB
}

// NewPGStorage creates a Postgres-backed device token storage.
func NewPGStorage(db DB) *PGStorage {
	return &PGStorage{db: db}
}

func (s *PGStorage) Upsert(ctx context.Context, token DeviceToken) (DeviceToken, error) {
	// Collapse stale rows first: a token that migrated devices must not keep
	// fanning out from its previous owner row.
	if _, err := s.db.Exec(ctx, `
		DELETE FROM device_tokens
		WHERE token = $1 AND NOT (recipient_id = $2 AND device_id = $3)`,
		token.Token, token.RecipientID, token.DeviceID,
	); err != nil {
		return DeviceToken{}, err
	}

	row := s.db.QueryRow(ctx, `
		INSERT INTO device_tokens
			(id, recipient_id, token, platform, device_id, app_version, enabled, last_error, last_active_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, TRUE, NULL, $7, $8, $8)
		ON CONFLICT (recipient_id, device_id) DO UPDATE SET
			token          = EXCLUDED.token,
			platform       = EXCLUDED.platform,
			app_version    = EXCLUDED.app_version,
			enabled        = TRUE,
			last_error     = NULL,
			last_active_at = EXCLUDED.last_active_at,
			updated_at     = EXCLUDED.updated_at
		RETURNING id, recipient_id, token, platform, device_id, app_version, enabled, last_error, last_active_at, created_at, updated_at`,
		token.ID, token.RecipientID, token.Token, token.Platform, token.DeviceID,
		token.AppVersion, token.LastActiveAt, token.UpdatedAt,
	)

	return scanToken(row)
}

func (s *PGStorage) Disable(ctx context.Context, target DisableTarget, reason string) error {
	// Guard clauses keep the update idempotent: already-disabled rows are untouched.
	switch {
	case target.Token != "":
		_, err := s.db.Exec(ctx, `
			UPDATE device_tokens
			SET enabled = FALSE, last_error = $2, updated_at = now()
			WHERE token = $1 AND enabled`,
			target.Token, reason,
		)
		return err
	case target.DeviceID != "":
		_, err := s.db.Exec(ctx, `
			UPDATE device_tokens
			SET enabled = FALSE, last_error = $3, updated_at = now()
			WHERE recipient_id = $1 AND device_id = $2 AND enabled`,
			target.RecipientID, target.DeviceID, reason,
		)
		return err
	default:
		_, err := s.db.Exec(ctx, `
			UPDATE device_tokens
			SET enabled = FALSE, last_error = $2, updated_at = now()
			WHERE recipient_id = $1 AND enabled`,
			target.RecipientID, reason,
		)
		return err
	}
}

func (s *PGStorage) EnabledTokens(ctx context.Context, recipientIDs []string) ([]DeviceToken, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, recipient_id, token, platform, device_id, app_version, enabled, last_error, last_active_at, created_at, updated_at
		FROM device_tokens
		WHERE recipient_id = ANY($1) AND enabled`,
		recipientIDs,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DeviceToken
	for rows.Next() {
		t, err := scanToken(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func scanToken(row pgx.Row) (DeviceToken, error) {
	var t DeviceToken
	err := row.Scan(
		&t.ID, &t.RecipientID, &t.Token, &t.Platform, &t.DeviceID, &t.AppVersion,
		&t.Enabled, &t.LastError, &t.LastActiveAt, &t.CreatedAt, &t.UpdatedAt,
	)
	return t, err
}
