package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/learnloop/internal/apperr"
)

// snapshotRepo implements SnapshotRepo on the derived_snapshots table.
type snapshotRepo struct {
	db *sql.DB
}

func (r *snapshotRepo) Get(ctx context.Context, key string) (*Snapshot, error) {
	b := entsql.Dialect(dialect.SQLite)
	t := b.Table(DerivedSnapshotsTable.Name)

	query, args := b.Select(t.C("key"), t.C("last_event_id"), t.C("data"), t.C("updated_at")).
		From(t).
		Where(entsql.EQ(t.C("key"), key)).
		Query()

	var (
		snap      Snapshot
		data      string
		updatedAt int64
	)
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&snap.Key, &snap.LastEventID, &data, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query snapshot %s: %w", key, err)
	}
	snap.Data = []byte(data)
	snap.UpdatedAt = time.Unix(0, updatedAt).UTC()
	return &snap, nil
}

func (r *snapshotRepo) Save(ctx context.Context, snap *Snapshot, expectedPrev int64) error {
	updatedAt := snap.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot tx: %w", err)
	}
	defer tx.Rollback()

	b := entsql.Dialect(dialect.SQLite)

	query, args := b.Update(DerivedSnapshotsTable.Name).
		Set("last_event_id", snap.LastEventID).
		Set("data", string(snap.Data)).
		Set("updated_at", updatedAt.UnixNano()).
		Where(entsql.And(
			entsql.EQ("key", snap.Key),
			entsql.EQ("last_event_id", expectedPrev),
		)).
		Query()
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("save snapshot %s: %w", snap.Key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("save snapshot %s: %w", snap.Key, err)
	}

	if n == 0 && expectedPrev == 0 {
		query, args := b.Insert(DerivedSnapshotsTable.Name).
			Columns("key", "last_event_id", "data", "updated_at").
			Values(snap.Key, snap.LastEventID, string(snap.Data), updatedAt.UnixNano()).
			OnConflict(entsql.ConflictColumns("key"), entsql.DoNothing()).
			Query()
		res, err = tx.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("save snapshot %s: %w", snap.Key, err)
		}
		if n, err = res.RowsAffected(); err != nil {
			return fmt.Errorf("save snapshot %s: %w", snap.Key, err)
		}
	}

	if n == 0 {
		actual, err := currentLastEventID(ctx, tx, snap.Key)
		if err != nil {
			return err
		}
		return &apperr.ConcurrentModificationError{Key: snap.Key, Expected: expectedPrev, Actual: actual}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot %s: %w", snap.Key, err)
	}
	return nil
}

func (r *snapshotRepo) Delete(ctx context.Context, key string) error {
	query, args := entsql.Dialect(dialect.SQLite).
		Delete(DerivedSnapshotsTable.Name).
		Where(entsql.EQ("key", key)).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete snapshot %s: %w", key, err)
	}
	return nil
}

// currentLastEventID returns the stored watermark for key, or 0 if absent.
func currentLastEventID(ctx context.Context, tx *sql.Tx, key string) (int64, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select("last_event_id").
		From(entsql.Table(DerivedSnapshotsTable.Name)).
		Where(entsql.EQ("key", key)).
		Query()

	var id int64
	err := tx.QueryRowContext(ctx, query, args...).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("query snapshot watermark %s: %w", key, err)
	}
	return id, nil
}
