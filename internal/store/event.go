package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// sequenceCounter manages the global monotonic sequence number that becomes
// each event's id. Ids are assigned before the insert so the event repo can
// hold one lock across "next id" and "insert", which keeps id order equal to
// insertion order.
//
// The RETURNING clause makes the increment atomic at the database level.
type sequenceCounter struct {
	db *sql.DB
}

// newSequenceCounter seeds the counter row if the table is empty.
func newSequenceCounter(db *sql.DB) (*sequenceCounter, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Insert(GlobalSequenceTable.Name).
		Columns("id", "next_val").
		Values(1, 1).
		OnConflict(entsql.ConflictColumns("id"), entsql.DoNothing()).
		Query()
	if _, err := db.Exec(query, args...); err != nil {
		return nil, fmt.Errorf("seed sequence: %w", err)
	}
	return &sequenceCounter{db: db}, nil
}

// Next atomically returns the next sequence number and increments the counter.
func (sc *sequenceCounter) Next(ctx context.Context) (int64, error) {
	var seq int64
	err := sc.db.QueryRowContext(ctx,
		`UPDATE global_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`,
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return seq, nil
}

// eventRepo implements EventRepo on the review_events table.
type eventRepo struct {
	mu  *sync.Mutex
	db  *sql.DB
	seq *sequenceCounter
}

func (r *eventRepo) Append(ctx context.Context, rec *EventRecord) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}

	payload := rec.Payload
	if len(payload) == 0 {
		payload = []byte("{}")
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Insert(ReviewEventsTable.Name).
		Columns("id", "learner_id", "course_id", "target_id", "session_id", "kind", "timestamp", "payload").
		Values(seqNum, rec.LearnerID, rec.CourseID, rec.TargetID, rec.SessionID, rec.Kind,
			rec.Timestamp.UnixNano(), string(payload)).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return 0, fmt.Errorf("save event: %w", err)
	}

	rec.ID = seqNum
	return seqNum, nil
}

func (r *eventRepo) Query(ctx context.Context, q EventQuery) ([]EventRecord, error) {
	b := entsql.Dialect(dialect.SQLite)
	t := b.Table(ReviewEventsTable.Name)

	preds := []*entsql.Predicate{entsql.EQ(t.C("learner_id"), q.LearnerID)}
	if q.CourseID != "" {
		preds = append(preds, entsql.EQ(t.C("course_id"), q.CourseID))
	}
	if q.TargetID != "" {
		preds = append(preds, entsql.EQ(t.C("target_id"), q.TargetID))
	}

	query, args := b.Select(
		t.C("id"), t.C("learner_id"), t.C("course_id"), t.C("target_id"),
		t.C("session_id"), t.C("kind"), t.C("timestamp"), t.C("payload"),
	).
		From(t).
		Where(entsql.And(preds...)).
		OrderBy(t.C("timestamp"), t.C("id")).
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var records []EventRecord
	for rows.Next() {
		var (
			rec     EventRecord
			ts      int64
			payload string
		)
		if err := rows.Scan(&rec.ID, &rec.LearnerID, &rec.CourseID, &rec.TargetID,
			&rec.SessionID, &rec.Kind, &ts, &payload); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		rec.Timestamp = time.Unix(0, ts).UTC()
		rec.Payload = []byte(payload)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return records, nil
}

func (r *eventRepo) LatestID(ctx context.Context, learnerID, courseID string) (int64, error) {
	b := entsql.Dialect(dialect.SQLite)
	t := b.Table(ReviewEventsTable.Name)

	query, args := b.Select("COALESCE(" + entsql.Max(t.C("id")) + ", 0)").
		From(t).
		Where(entsql.And(
			entsql.EQ(t.C("learner_id"), learnerID),
			entsql.EQ(t.C("course_id"), courseID),
		)).
		Query()

	var id int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("query latest event id: %w", err)
	}
	return id, nil
}
