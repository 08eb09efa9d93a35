package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// profileRepo implements ProfileRepo on the player_profiles table.
type profileRepo struct {
	db *sql.DB
}

func (r *profileRepo) Save(ctx context.Context, rec *ProfileRecord) error {
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Insert(PlayerProfilesTable.Name).
		Columns("learner_id", "achiever", "explorer", "socializer", "killer", "dominant", "source", "created_at").
		Values(rec.LearnerID, rec.Achiever, rec.Explorer, rec.Socializer, rec.Killer,
			rec.Dominant, rec.Source, createdAt.UnixNano()).
		OnConflict(entsql.ConflictColumns("learner_id"), entsql.ResolveWithNewValues()).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save profile %s: %w", rec.LearnerID, err)
	}
	return nil
}

func (r *profileRepo) Get(ctx context.Context, learnerID string) (*ProfileRecord, error) {
	b := entsql.Dialect(dialect.SQLite)
	t := b.Table(PlayerProfilesTable.Name)

	query, args := b.Select(
		t.C("learner_id"), t.C("achiever"), t.C("explorer"), t.C("socializer"),
		t.C("killer"), t.C("dominant"), t.C("source"), t.C("created_at"),
	).
		From(t).
		Where(entsql.EQ(t.C("learner_id"), learnerID)).
		Query()

	var (
		rec       ProfileRecord
		createdAt int64
	)
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&rec.LearnerID, &rec.Achiever, &rec.Explorer,
		&rec.Socializer, &rec.Killer, &rec.Dominant, &rec.Source, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query profile %s: %w", learnerID, err)
	}
	rec.CreatedAt = time.Unix(0, createdAt).UTC()
	return &rec, nil
}
