package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// validateCourses performs the structural checks the schema cannot express.
// Returns a combined error describing all problems found, or nil if valid.
func validateCourses(courses []Course) error {
	var errs []string

	courseIDs := make(map[string]bool, len(courses))
	// Item and set ids share one namespace since both are event targets.
	targetIDs := make(map[string]string)

	for _, c := range courses {
		if courseIDs[c.ID] {
			errs = append(errs, fmt.Sprintf("duplicate course ID: %q", c.ID))
		}
		courseIDs[c.ID] = true

		chapterIDs := make(map[string]bool)
		setIDs := make(map[string]bool)
		for _, ch := range c.Chapters {
			if chapterIDs[ch.ID] {
				errs = append(errs, fmt.Sprintf("course %q: duplicate chapter ID: %q", c.ID, ch.ID))
			}
			chapterIDs[ch.ID] = true

			for _, s := range ch.Sets {
				if owner, dup := targetIDs[s.ID]; dup {
					errs = append(errs, fmt.Sprintf("duplicate content ID %q (also in course %q)", s.ID, owner))
				}
				targetIDs[s.ID] = c.ID
				setIDs[s.ID] = true
			}
		}

		for _, ch := range c.Chapters {
			for _, it := range ch.Items {
				if owner, dup := targetIDs[it.ID]; dup {
					errs = append(errs, fmt.Sprintf("duplicate content ID %q (also in course %q)", it.ID, owner))
				}
				targetIDs[it.ID] = c.ID

				switch {
				case it.Type == TypeFlashcard && it.SetID == "":
					errs = append(errs, fmt.Sprintf("flashcard %q has no set", it.ID))
				case it.Type == TypeFlashcard && !setIDs[it.SetID]:
					errs = append(errs, fmt.Sprintf("flashcard %q references nonexistent set %q", it.ID, it.SetID))
				case it.Type != TypeFlashcard && it.SetID != "":
					errs = append(errs, fmt.Sprintf("%s %q cannot belong to a flashcard set", strings.ToLower(string(it.Type)), it.ID))
				}
				if it.Type == TypeFlashcard && it.RewardPoints != nil {
					errs = append(errs, fmt.Sprintf("flashcard %q: reward points belong on its set", it.ID))
				}
			}
		}

		badgeIDs := make(map[string]bool, len(c.Badges))
		for _, b := range c.Badges {
			if badgeIDs[b.ID] {
				errs = append(errs, fmt.Sprintf("course %q: duplicate badge ID: %q", c.ID, b.ID))
			}
			badgeIDs[b.ID] = true
		}

		questIDs := make(map[string]bool, len(c.Quests))
		prevLevel := 0
		for i, q := range c.Quests {
			if questIDs[q.ID] {
				errs = append(errs, fmt.Sprintf("course %q: duplicate quest ID: %q", c.ID, q.ID))
			}
			questIDs[q.ID] = true

			if i > 0 && q.Level < prevLevel {
				errs = append(errs, fmt.Sprintf("course %q: quest %q (level %d) is listed after a level %d quest",
					c.ID, q.ID, q.Level, prevLevel))
			}
			prevLevel = q.Level

			if q.Goal.Kind == GoalBadge && !badgeIDs[q.Goal.Badge] {
				errs = append(errs, fmt.Sprintf("course %q: quest %q references nonexistent badge %q", c.ID, q.ID, q.Goal.Badge))
			}
		}
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "\n"))
	}
	return nil
}
