package engine

import (
	"context"

	"go.uber.org/zap"

	"github.com/abhisek/learnloop/internal/apperr"
	"github.com/abhisek/learnloop/internal/eventlog"
	"github.com/abhisek/learnloop/internal/playertype"
)

func profileKey(learnerID string) string {
	return "profile/" + learnerID
}

// Questionnaire returns the player-type questionnaire learners answer.
func (e *Engine) Questionnaire() playertype.Questionnaire {
	return e.questionnaire
}

// SubmitQuestionnaire evaluates a learner's answers and replaces their
// profile with the result.
func (e *Engine) SubmitQuestionnaire(ctx context.Context, learnerID string, answers playertype.Answers) (playertype.Profile, error) {
	if !e.dir.HasLearner(learnerID) {
		return playertype.Profile{}, apperr.Unknown("learner", learnerID)
	}
	result, err := playertype.Evaluate(e.questionnaire, answers)
	if err != nil {
		return playertype.Profile{}, err
	}
	return e.saveProfile(ctx, learnerID, result, playertype.SourceQuestionnaire)
}

// Classify derives a learner's player type from their behavior in every
// course they belong to and replaces their profile with it.
func (e *Engine) Classify(ctx context.Context, learnerID string) (playertype.Profile, playertype.Signals, error) {
	if !e.dir.HasLearner(learnerID) {
		return playertype.Profile{}, playertype.Signals{}, apperr.Unknown("learner", learnerID)
	}

	var (
		events      []eventlog.Event
		schedulable int
	)
	for _, course := range e.dir.Courses() {
		if !e.dir.IsMember(learnerID, course.ID) {
			continue
		}
		items, err := e.dir.Items(course.ID)
		if err != nil {
			return playertype.Profile{}, playertype.Signals{}, err
		}
		schedulable += len(items)

		stream, err := e.courseStream(ctx, learnerID, course.ID)
		if err != nil {
			return playertype.Profile{}, playertype.Signals{}, err
		}
		events = append(events, stream...)
	}

	signals := playertype.Measure(events, e.dir, schedulable, e.rules.Thresholds)
	profile, err := e.saveProfile(ctx, learnerID, playertype.Classify(signals, e.weights), playertype.SourceBehavior)
	if err != nil {
		return playertype.Profile{}, playertype.Signals{}, err
	}
	return profile, signals, nil
}

func (e *Engine) courseStream(ctx context.Context, learnerID, courseID string) ([]eventlog.Event, error) {
	unlock := e.locks.RLock(courseKey(learnerID, courseID))
	defer unlock()
	return e.log.StreamForCourse(ctx, learnerID, courseID)
}

// Profile returns a learner's stored player-type profile.
func (e *Engine) Profile(ctx context.Context, learnerID string) (playertype.Profile, error) {
	if !e.dir.HasLearner(learnerID) {
		return playertype.Profile{}, apperr.Unknown("learner", learnerID)
	}
	unlock := e.locks.RLock(profileKey(learnerID))
	defer unlock()

	rec, err := e.profiles.Get(ctx, learnerID)
	if err != nil {
		return playertype.Profile{}, err
	}
	if rec == nil {
		return playertype.Profile{}, apperr.Unknown("profile", learnerID)
	}
	return playertype.FromRecord(rec), nil
}

func (e *Engine) saveProfile(ctx context.Context, learnerID string, result playertype.Result, source playertype.Source) (playertype.Profile, error) {
	unlock := e.locks.Lock(profileKey(learnerID))
	defer unlock()

	profile := playertype.Profile{
		LearnerID: learnerID,
		Result:    result,
		Source:    source,
		CreatedAt: e.now().UTC(),
	}
	if err := e.profiles.Save(ctx, profile.ToRecord()); err != nil {
		return playertype.Profile{}, err
	}
	e.logger.Info("player type saved",
		zap.String("learner", learnerID),
		zap.String("dominant", string(result.Dominant)),
		zap.String("source", string(source)),
	)
	return profile, nil
}
