package main

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bracketforge/notify/pkg/notifier"
)

// platformDirectory reads tournament, match, and registration records from
// the platform schema. The tables are owned and migrated by the tournament
// service; this side only ever selects.
type platformDirectory struct {
	db *pgxpool.Pool
}

func (d platformDirectory) Tournament(ctx context.Context, id string) (notifier.Tournament, error) {
	var t notifier.Tournament
	err := d.db.QueryRow(ctx, `
		SELECT id, name, org_id, starts_at
		FROM tournaments
		WHERE id = $1`, id,
	).Scan(&t.ID, &t.Name, &t.OrgID, &t.StartsAt)
	return t, err
}

func (d platformDirectory) Match(ctx context.Context, id string) (notifier.Match, error) {
	var m notifier.Match
	err := d.db.QueryRow(ctx, `
		SELECT id, tournament_id, round, home_id, away_id, scheduled_at
		FROM matches
		WHERE id = $1`, id,
	).Scan(&m.ID, &m.TournamentID, &m.Round, &m.HomeID, &m.AwayID, &m.ScheduledAt)
	return m, err
}

func (d platformDirectory) Registration(ctx context.Context, id string) (notifier.Registration, error) {
	var r notifier.Registration
	err := d.db.QueryRow(ctx, `
		SELECT id, tournament_id, recipient_id, status
		FROM registrations
		WHERE id = $1`, id,
	).Scan(&r.ID, &r.TournamentID, &r.RecipientID, &r.Status)
	return r, err
}

func (d platformDirectory) ConfirmedRegistrants(ctx context.Context, tournamentID string) ([]string, error) {
	rows, err := d.db.Query(ctx, `
		SELECT recipient_id
		FROM registrations
		WHERE tournament_id = $1 AND status = 'confirmed'`, tournamentID,
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
