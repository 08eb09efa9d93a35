// Package catalog adapts the externally managed course content (courses,
// chapters, items, flashcard sets, badges, quests and memberships) into a
// read-only directory the engine queries.
package catalog

import (
	"sort"

	"github.com/abhisek/learnloop/internal/apperr"
)

//go:generate mockgen -source=catalog.go -destination=../mocks/catalog/mock_directory.go -package=mock_catalog

// Directory is the read-only view of the content catalog.
type Directory interface {
	// Course returns a course by id, or an UnknownEntityError.
	Course(id string) (Course, error)
	// Courses returns every course ordered by id.
	Courses() []Course
	// Item returns a learning item by id, or an UnknownEntityError.
	Item(id string) (Item, error)
	// Set returns a flashcard set by id, or an UnknownEntityError.
	Set(id string) (FlashcardSet, error)
	// Target resolves an item or set id as a completion target.
	Target(id string) (Target, error)
	// Items returns the schedulable items of a course ordered by id.
	Items(courseID string) ([]Item, error)
	// HasLearner reports whether the learner belongs to any course.
	HasLearner(learnerID string) bool
	// IsMember reports whether the learner belongs to the course.
	IsMember(learnerID, courseID string) bool
	// Members returns the course's learner ids ordered by id.
	Members(courseID string) ([]string, error)
}

// Catalog is the in-memory Directory built from a validated catalog file.
type Catalog struct {
	courses   []Course
	byCourse  map[string]*Course
	byItem    map[string]Item
	bySet     map[string]FlashcardSet
	items     map[string][]Item
	members   map[string]map[string]bool
	learners  map[string]bool
	memberIDs map[string][]string
}

var _ Directory = (*Catalog)(nil)

func build(courses []Course) *Catalog {
	c := &Catalog{
		byCourse:  make(map[string]*Course, len(courses)),
		byItem:    make(map[string]Item),
		bySet:     make(map[string]FlashcardSet),
		items:     make(map[string][]Item),
		members:   make(map[string]map[string]bool, len(courses)),
		learners:  make(map[string]bool),
		memberIDs: make(map[string][]string, len(courses)),
	}

	c.courses = make([]Course, len(courses))
	copy(c.courses, courses)
	sort.Slice(c.courses, func(i, j int) bool { return c.courses[i].ID < c.courses[j].ID })

	for i := range c.courses {
		course := &c.courses[i]
		c.byCourse[course.ID] = course

		for ci := range course.Chapters {
			ch := &course.Chapters[ci]
			for si := range ch.Sets {
				ch.Sets[si].ChapterID = ch.ID
				ch.Sets[si].CourseID = course.ID
			}
			for ii := range ch.Items {
				ch.Items[ii].ChapterID = ch.ID
				ch.Items[ii].CourseID = course.ID
			}
		}

		var courseItems []Item
		for _, ch := range course.Chapters {
			for _, it := range ch.Items {
				c.byItem[it.ID] = it
				courseItems = append(courseItems, it)
			}
		}
		for _, ch := range course.Chapters {
			for _, s := range ch.Sets {
				for _, it := range ch.Items {
					if it.SetID == s.ID {
						s.Cards = append(s.Cards, it.ID)
					}
				}
				c.bySet[s.ID] = s
			}
		}
		sort.Slice(courseItems, func(i, j int) bool { return courseItems[i].ID < courseItems[j].ID })
		c.items[course.ID] = courseItems

		set := make(map[string]bool, len(course.Members))
		var ids []string
		for _, m := range course.Members {
			if !set[m] {
				ids = append(ids, m)
			}
			set[m] = true
			c.learners[m] = true
		}
		sort.Strings(ids)
		c.members[course.ID] = set
		c.memberIDs[course.ID] = ids
	}
	return c
}

func (c *Catalog) Course(id string) (Course, error) {
	course, ok := c.byCourse[id]
	if !ok {
		return Course{}, apperr.Unknown("course", id)
	}
	return *course, nil
}

func (c *Catalog) Courses() []Course {
	out := make([]Course, len(c.courses))
	copy(out, c.courses)
	return out
}

func (c *Catalog) Item(id string) (Item, error) {
	it, ok := c.byItem[id]
	if !ok {
		return Item{}, apperr.Unknown("item", id)
	}
	return it, nil
}

func (c *Catalog) Set(id string) (FlashcardSet, error) {
	s, ok := c.bySet[id]
	if !ok {
		return FlashcardSet{}, apperr.Unknown("set", id)
	}
	return s, nil
}

func (c *Catalog) Target(id string) (Target, error) {
	if s, ok := c.bySet[id]; ok {
		return Target{
			ID:           s.ID,
			CourseID:     s.CourseID,
			Type:         TypeFlashcard,
			IsSet:        true,
			RewardPoints: s.RewardPoints,
			Tags:         s.Tags,
		}, nil
	}
	if it, ok := c.byItem[id]; ok {
		return Target{
			ID:               it.ID,
			CourseID:         it.CourseID,
			Type:             it.Type,
			RewardPoints:     it.RewardPoints,
			Tags:             it.Tags,
			PassingThreshold: it.PassingThreshold,
		}, nil
	}
	return Target{}, apperr.Unknown("item", id)
}

func (c *Catalog) Items(courseID string) ([]Item, error) {
	if _, ok := c.byCourse[courseID]; !ok {
		return nil, apperr.Unknown("course", courseID)
	}
	items := c.items[courseID]
	out := make([]Item, len(items))
	copy(out, items)
	return out, nil
}

func (c *Catalog) HasLearner(learnerID string) bool {
	return c.learners[learnerID]
}

func (c *Catalog) IsMember(learnerID, courseID string) bool {
	return c.members[courseID][learnerID]
}

func (c *Catalog) Members(courseID string) ([]string, error) {
	if _, ok := c.byCourse[courseID]; !ok {
		return nil, apperr.Unknown("course", courseID)
	}
	ids := c.memberIDs[courseID]
	out := make([]string, len(ids))
	copy(out, ids)
	return out, nil
}
