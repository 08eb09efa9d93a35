// Package engine wires the event log, scheduler, progress aggregator and
// player-type classifier into the operations exposed to transports. It
// serializes recomputation per (learner, item) and (learner, course) key,
// caches progress aggregates and retries lost cache writes.
package engine

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/avast/retry-go"
	"go.uber.org/zap"

	"github.com/abhisek/learnloop/internal/apperr"
	"github.com/abhisek/learnloop/internal/catalog"
	"github.com/abhisek/learnloop/internal/config"
	"github.com/abhisek/learnloop/internal/eventlog"
	"github.com/abhisek/learnloop/internal/logging"
	"github.com/abhisek/learnloop/internal/monitoring"
	"github.com/abhisek/learnloop/internal/playertype"
	"github.com/abhisek/learnloop/internal/progress"
	"github.com/abhisek/learnloop/internal/spacedrep"
	"github.com/abhisek/learnloop/internal/store"
)

// DefaultRetryAttempts runs a lost cache write at most twice.
const DefaultRetryAttempts = 2

// Options tunes an Engine.
type Options struct {
	Params        spacedrep.Params
	Rules         progress.Rules
	Weights       playertype.Weights
	Questionnaire playertype.Questionnaire
	ClockSkew     time.Duration
	RetryAttempts uint
	Metrics       *monitoring.Metrics
	Logger        *zap.Logger
}

// DefaultOptions returns the built-in parameters with no metrics or logging.
func DefaultOptions() Options {
	return Options{
		Params:        spacedrep.DefaultParams(),
		Rules:         progress.DefaultRules(),
		Weights:       playertype.DefaultWeights(),
		Questionnaire: playertype.DefaultQuestionnaire(),
		ClockSkew:     eventlog.DefaultClockSkew,
		RetryAttempts: DefaultRetryAttempts,
	}
}

// OptionsFromConfig builds Options from a validated config.
func OptionsFromConfig(cfg *config.Config) Options {
	params := spacedrep.ParamsFromConfig(cfg)
	return Options{
		Params: params,
		Rules: progress.Rules{
			Curve:      progress.LevelCurveFromConfig(cfg.Progress),
			Thresholds: params.Thresholds,
		},
		Weights:       playertype.WeightsFromConfig(cfg.PlayerType.Weights),
		Questionnaire: playertype.DefaultQuestionnaire(),
		ClockSkew:     cfg.Scheduler.ClockSkew,
		RetryAttempts: cfg.Engine.RetryAttempts,
	}
}

// Engine is safe for concurrent use.
type Engine struct {
	dir      catalog.Directory
	log      *eventlog.Log
	sched    *spacedrep.Scheduler
	snaps    store.SnapshotRepo
	profiles store.ProfileRepo

	rules         progress.Rules
	weights       playertype.Weights
	questionnaire playertype.Questionnaire
	retryAttempts uint
	fingerprints  map[string]string

	locks   *keyedMutex
	metrics *monitoring.Metrics
	logger  *zap.Logger
	now     func() time.Time
}

// New creates an engine over the catalog and store.
func New(dir catalog.Directory, st *store.Store, opts Options) (*Engine, error) {
	if err := opts.Params.Validate(); err != nil {
		return nil, fmt.Errorf("scheduler params: %w", err)
	}
	if opts.RetryAttempts == 0 {
		opts.RetryAttempts = DefaultRetryAttempts
	}
	if opts.ClockSkew < 0 {
		return nil, fmt.Errorf("clock skew must not be negative, got %s", opts.ClockSkew)
	}
	if len(opts.Questionnaire.Questions) == 0 {
		opts.Questionnaire = playertype.DefaultQuestionnaire()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}

	log := eventlog.New(dir, st.EventRepo(), opts.ClockSkew, logger.Named("eventlog"))
	e := &Engine{
		dir:           dir,
		log:           log,
		sched:         spacedrep.NewScheduler(dir, log, opts.Params),
		snaps:         st.SnapshotRepo(),
		profiles:      st.ProfileRepo(),
		rules:         opts.Rules,
		weights:       opts.Weights,
		questionnaire: opts.Questionnaire,
		retryAttempts: opts.RetryAttempts,
		fingerprints:  make(map[string]string),
		locks:         newKeyedMutex(),
		metrics:       opts.Metrics,
		logger:        logger,
		now:           time.Now,
	}

	for _, course := range dir.Courses() {
		fp, err := fingerprint(course, opts.Rules)
		if err != nil {
			return nil, err
		}
		e.fingerprints[course.ID] = fp
	}
	return e, nil
}

// SetClock replaces the wall clock, for tests.
func (e *Engine) SetClock(now func() time.Time) {
	e.now = now
	e.log.SetClock(now)
}

// Directory returns the catalog the engine serves.
func (e *Engine) Directory() catalog.Directory {
	return e.dir
}

// Submit validates and appends an event, then refreshes the learner's
// cached course progress. A failed refresh is logged; the event stays
// accepted.
func (e *Engine) Submit(ctx context.Context, ev eventlog.Event) (eventlog.Event, error) {
	resolved, err := e.log.Validate(ev)
	if err != nil {
		e.metrics.EventRejected(apperr.Class(err))
		return eventlog.Event{}, err
	}

	unlock := e.locks.Lock(
		itemKey(resolved.LearnerID, resolved.ItemID),
		courseKey(resolved.LearnerID, resolved.CourseID),
	)
	defer unlock()

	stored, err := e.log.Append(ctx, ev)
	if err != nil {
		e.metrics.EventRejected(apperr.Class(err))
		return eventlog.Event{}, err
	}
	e.metrics.EventAppended(string(stored.Kind))

	course, err := e.dir.Course(stored.CourseID)
	if err == nil {
		_, err = e.progress(ctx, stored.LearnerID, course)
	}
	if err != nil {
		e.logger.Warn("refresh progress cache",
			zap.String("learner", stored.LearnerID),
			zap.String("course", stored.CourseID),
			zap.Int64("event", stored.ID),
			zap.Error(err),
		)
	}
	return stored, nil
}

// Schedule returns one item's schedule for a learner.
func (e *Engine) Schedule(ctx context.Context, learnerID, itemID string) (spacedrep.ScheduleState, error) {
	unlock := e.locks.RLock(itemKey(learnerID, itemID))
	defer unlock()
	defer e.metrics.ObserveFold("schedule", time.Now())
	return e.sched.Schedule(ctx, learnerID, itemID)
}

// Schedules returns the schedule of every item in a course, ordered by
// item id.
func (e *Engine) Schedules(ctx context.Context, learnerID, courseID string) ([]spacedrep.ScheduleState, error) {
	unlock := e.locks.RLock(courseKey(learnerID, courseID))
	defer unlock()
	defer e.metrics.ObserveFold("schedule", time.Now())
	states, err := e.sched.States(ctx, learnerID, courseID)
	return states, e.skipFailedItems(err)
}

// Due returns the course items due at asOf, optionally restricted to types.
func (e *Engine) Due(ctx context.Context, learnerID, courseID string, asOf time.Time, types ...catalog.ItemType) ([]spacedrep.ScheduleState, error) {
	unlock := e.locks.RLock(courseKey(learnerID, courseID))
	defer unlock()
	defer e.metrics.ObserveFold("schedule", time.Now())
	due, err := e.sched.DueItems(ctx, learnerID, courseID, asOf, types...)
	return due, e.skipFailedItems(err)
}

// NextByType returns the earliest-due item of each content type in a course.
func (e *Engine) NextByType(ctx context.Context, learnerID, courseID string) (map[catalog.ItemType]spacedrep.ScheduleState, error) {
	unlock := e.locks.RLock(courseKey(learnerID, courseID))
	defer unlock()
	defer e.metrics.ObserveFold("schedule", time.Now())
	next, err := e.sched.NextByType(ctx, learnerID, courseID)
	return next, e.skipFailedItems(err)
}

// skipFailedItems logs the items a course-wide schedule read left out and
// clears the error; the failing items still error on their own Schedule.
func (e *Engine) skipFailedItems(err error) error {
	var pe *spacedrep.PartialError
	if !errors.As(err, &pe) {
		return err
	}
	for _, f := range pe.Failures {
		e.metrics.FoldFailed("schedule", apperr.Class(f.Err))
		e.logger.Warn("skip item schedule",
			zap.String("learner", pe.LearnerID),
			zap.String("course", pe.CourseID),
			zap.String("item", f.ItemID),
			zap.Error(f.Err),
		)
	}
	return nil
}

// Progress returns a learner's progress in a course.
func (e *Engine) Progress(ctx context.Context, learnerID, courseID string) (progress.Aggregate, error) {
	course, err := e.member(learnerID, courseID)
	if err != nil {
		return progress.Aggregate{}, err
	}

	unlock := e.locks.RLock(courseKey(learnerID, courseID))
	defer unlock()
	return e.progress(ctx, learnerID, course)
}

// Scoreboard ranks a course's members by power score and returns at most
// limit entries; limit <= 0 returns all. Members whose progress cannot be
// recomputed from the catalog are logged and left out.
func (e *Engine) Scoreboard(ctx context.Context, courseID string, limit int) ([]progress.ScoreboardEntry, error) {
	course, err := e.dir.Course(courseID)
	if err != nil {
		return nil, err
	}
	members, err := e.dir.Members(courseID)
	if err != nil {
		return nil, err
	}

	aggs := make([]progress.Aggregate, 0, len(members))
	for _, learnerID := range members {
		agg, err := e.lockedProgress(ctx, learnerID, course)
		if errors.Is(err, apperr.ErrConfiguration) || errors.Is(err, apperr.ErrCorruptStream) {
			e.metrics.FoldFailed("progress", apperr.Class(err))
			e.logger.Warn("skip scoreboard member",
				zap.String("learner", learnerID),
				zap.String("course", courseID),
				zap.Error(err),
			)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("progress of %s: %w", learnerID, err)
		}
		aggs = append(aggs, agg)
	}
	return progress.Rank(aggs, limit), nil
}

func (e *Engine) lockedProgress(ctx context.Context, learnerID string, course catalog.Course) (progress.Aggregate, error) {
	unlock := e.locks.RLock(courseKey(learnerID, course.ID))
	defer unlock()
	return e.progress(ctx, learnerID, course)
}

func (e *Engine) member(learnerID, courseID string) (catalog.Course, error) {
	course, err := e.dir.Course(courseID)
	if err != nil {
		return catalog.Course{}, err
	}
	if !e.dir.HasLearner(learnerID) {
		return catalog.Course{}, apperr.Unknown("learner", learnerID)
	}
	if !e.dir.IsMember(learnerID, courseID) {
		return catalog.Course{}, apperr.Unknown("membership", learnerID+"@"+courseID)
	}
	return course, nil
}

// progress serves the aggregate from the snapshot cache when it is current
// and otherwise refolds and conditionally rewrites it, retrying a lost
// write. Callers hold the course key.
func (e *Engine) progress(ctx context.Context, learnerID string, course catalog.Course) (progress.Aggregate, error) {
	key := progressKey(learnerID, course.ID)

	var agg progress.Aggregate
	err := retry.Do(
		func() error {
			var err error
			agg, err = e.refreshProgress(ctx, learnerID, course)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(e.retryAttempts),
		retry.RetryIf(func(err error) bool {
			return errors.Is(err, apperr.ErrConcurrentModification)
		}),
		retry.DelayType(retry.FixedDelay),
		retry.Delay(time.Millisecond),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			if n+1 < e.retryAttempts {
				e.metrics.Conflict("retried")
				e.logger.Debug("retry progress snapshot", zap.String("key", key), zap.Uint("attempt", n+1), zap.Error(err))
			}
		}),
	)
	if err != nil {
		if errors.Is(err, apperr.ErrConcurrentModification) {
			e.metrics.Conflict("surfaced")
		}
		return progress.Aggregate{}, err
	}
	return agg, nil
}

// progressSnapshot is the cached form of an aggregate. Fingerprint ties it
// to the course definition and rules it was folded with.
type progressSnapshot struct {
	Fingerprint string             `json:"fingerprint"`
	Aggregate   progress.Aggregate `json:"aggregate"`
}

func (e *Engine) refreshProgress(ctx context.Context, learnerID string, course catalog.Course) (progress.Aggregate, error) {
	key := progressKey(learnerID, course.ID)

	latest, err := e.log.LatestID(ctx, learnerID, course.ID)
	if err != nil {
		return progress.Aggregate{}, err
	}
	snap, err := e.snaps.Get(ctx, key)
	if err != nil {
		return progress.Aggregate{}, err
	}

	var prev int64
	if snap != nil {
		prev = snap.LastEventID
		if snap.LastEventID == latest {
			var cached progressSnapshot
			if err := json.Unmarshal(snap.Data, &cached); err != nil {
				e.logger.Warn("discard unreadable progress snapshot", zap.String("key", key), zap.Error(err))
			} else if cached.Fingerprint == e.fingerprints[course.ID] {
				e.metrics.SnapshotLookup(true)
				return cached.Aggregate, nil
			}
		}
	}
	e.metrics.SnapshotLookup(false)

	start := time.Now()
	events, err := e.log.StreamForCourse(ctx, learnerID, course.ID)
	if err != nil {
		return progress.Aggregate{}, err
	}
	agg, err := progress.Fold(learnerID, course, e.dir, events, e.rules)
	e.metrics.ObserveFold("progress", start)
	if err != nil {
		if snap != nil {
			e.evictSnapshot(ctx, key)
		}
		return progress.Aggregate{}, err
	}

	data, err := json.Marshal(progressSnapshot{Fingerprint: e.fingerprints[course.ID], Aggregate: agg})
	if err != nil {
		return progress.Aggregate{}, fmt.Errorf("marshal progress snapshot: %w", err)
	}
	err = e.snaps.Save(ctx, &store.Snapshot{
		Key:         key,
		LastEventID: agg.LastEventID,
		Data:        data,
		UpdatedAt:   e.now(),
	}, prev)
	if err != nil {
		return progress.Aggregate{}, err
	}
	return agg, nil
}

// evictSnapshot drops a cached aggregate that can no longer be refolded.
func (e *Engine) evictSnapshot(ctx context.Context, key string) {
	if err := e.snaps.Delete(ctx, key); err != nil {
		e.logger.Warn("evict progress snapshot", zap.String("key", key), zap.Error(err))
	}
}

func fingerprint(course catalog.Course, rules progress.Rules) (string, error) {
	data, err := json.Marshal(struct {
		Course catalog.Course
		Rules  progress.Rules
	}{course, rules})
	if err != nil {
		return "", fmt.Errorf("fingerprint course %s: %w", course.ID, err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:8]), nil
}
