package catalog

import "time"

// ItemType identifies the kind of learning content.
type ItemType string

const (
	TypeFlashcard ItemType = "FLASHCARD"
	TypeQuiz      ItemType = "QUIZ"
	TypeMedia     ItemType = "MEDIA"
)

// AllItemTypes returns the schedulable content types in display order.
func AllItemTypes() []ItemType {
	return []ItemType{TypeFlashcard, TypeQuiz, TypeMedia}
}

// DisplayName returns a human-readable label for the type.
func (t ItemType) DisplayName() string {
	switch t {
	case TypeFlashcard:
		return "Flashcard"
	case TypeQuiz:
		return "Quiz"
	case TypeMedia:
		return "Media"
	default:
		return string(t)
	}
}

// Valid reports whether t is a known content type.
func (t ItemType) Valid() bool {
	switch t {
	case TypeFlashcard, TypeQuiz, TypeMedia:
		return true
	}
	return false
}

// Item is a single piece of learning content. Items are immutable once the
// catalog is loaded.
type Item struct {
	ID        string   `yaml:"id"`
	Type      ItemType `yaml:"type"`
	Title     string   `yaml:"title"`
	ChapterID string   `yaml:"-"`
	CourseID  string   `yaml:"-"`

	// RewardPoints is nil when the item grants no configured reward.
	RewardPoints *int `yaml:"reward_points"`

	// InitialInterval is the first "knew it" interval. Zero means not configured.
	InitialInterval time.Duration `yaml:"initial_interval"`

	// SetID is the flashcard set a card belongs to.
	SetID string `yaml:"set"`

	// PassingThreshold is the quiz correctness counted as "knew it".
	// Zero falls back to the configured default.
	PassingThreshold float64 `yaml:"passing_threshold"`

	Tags []string `yaml:"tags"`
}

// HasTag reports whether the item is tagged with tag.
func (i Item) HasTag(tag string) bool {
	return hasTag(i.Tags, tag)
}

// FlashcardSet groups flashcards and is the completion target of a
// finished set.
type FlashcardSet struct {
	ID           string   `yaml:"id"`
	Title        string   `yaml:"title"`
	RewardPoints *int     `yaml:"reward_points"`
	Tags         []string `yaml:"tags"`
	ChapterID    string   `yaml:"-"`
	CourseID     string   `yaml:"-"`
	Cards        []string `yaml:"-"`
}

// Target is anything a learner can complete for experience: a quiz, a media
// item or a flashcard set.
type Target struct {
	ID           string
	CourseID     string
	Type         ItemType
	IsSet        bool
	RewardPoints *int
	Tags         []string

	// PassingThreshold is the quiz's own threshold, zero otherwise.
	PassingThreshold float64
}

// HasTag reports whether the target is tagged with tag.
func (t Target) HasTag(tag string) bool {
	return hasTag(t.Tags, tag)
}

type Chapter struct {
	ID    string         `yaml:"id"`
	Title string         `yaml:"title"`
	Items []Item         `yaml:"items"`
	Sets  []FlashcardSet `yaml:"flashcard_sets"`
}

// BadgeKind selects how a badge's condition is evaluated.
type BadgeKind string

const (
	BadgeScore BadgeKind = "score"
	BadgeLevel BadgeKind = "level"
)

// Badge is a course-defined achievement.
//
// A score badge is earned by scoring at least PassingPercentage on
// RequiredCount distinct targets, optionally restricted to Tag. A level
// badge is earned on reaching MinLevel.
type Badge struct {
	ID                string    `yaml:"id"`
	Name              string    `yaml:"name"`
	Description       string    `yaml:"description"`
	Kind              BadgeKind `yaml:"kind"`
	PassingPercentage int       `yaml:"passing_percentage"`
	RequiredCount     int       `yaml:"required_count"`
	Tag               string    `yaml:"tag"`
	MinLevel          int       `yaml:"min_level"`
}

// GoalKind selects how a quest's goal is evaluated.
type GoalKind string

const (
	GoalComplete GoalKind = "complete"
	GoalBadge    GoalKind = "badge"
	GoalLevel    GoalKind = "level"
)

type QuestGoal struct {
	Kind  GoalKind `yaml:"kind"`
	Count int      `yaml:"count"`
	Type  ItemType `yaml:"type"`
	Tag   string   `yaml:"tag"`
	Badge string   `yaml:"badge"`
	Level int      `yaml:"level"`
}

// Quest is one step of a course's quest chain. Quests unlock at Level.
type Quest struct {
	ID          string    `yaml:"id"`
	Title       string    `yaml:"title"`
	Description string    `yaml:"description"`
	Level       int       `yaml:"level"`
	Goal        QuestGoal `yaml:"goal"`
}

type Course struct {
	ID       string    `yaml:"id"`
	Title    string    `yaml:"title"`
	Members  []string  `yaml:"members"`
	Chapters []Chapter `yaml:"chapters"`
	Badges   []Badge   `yaml:"badges"`
	Quests   []Quest   `yaml:"quests"`
}

type document struct {
	Courses []Course `yaml:"courses"`
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}
