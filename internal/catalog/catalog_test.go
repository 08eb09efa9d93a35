package catalog

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/abhisek/learnloop/internal/apperr"
)

func loadTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	cat, err := Load("testdata/catalog.yaml")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return cat
}

func TestLoad_Indices(t *testing.T) {
	cat := loadTestCatalog(t)

	it, err := cat.Item("quiz-syntax")
	if err != nil {
		t.Fatalf("Item: %v", err)
	}
	if it.CourseID != "go-basics" || it.ChapterID != "ch-syntax" {
		t.Errorf("quiz-syntax course/chapter = %s/%s", it.CourseID, it.ChapterID)
	}
	if it.InitialInterval != 72*time.Hour {
		t.Errorf("InitialInterval = %v, want 72h", it.InitialInterval)
	}
	if it.PassingThreshold != 0.6 {
		t.Errorf("PassingThreshold = %v, want 0.6", it.PassingThreshold)
	}
	if it.RewardPoints == nil || *it.RewardPoints != 20 {
		t.Errorf("RewardPoints = %v, want 20", it.RewardPoints)
	}

	set, err := cat.Set("set-keywords")
	if err != nil {
		t.Fatalf("Set: %v", err)
	}
	if len(set.Cards) != 2 || set.Cards[0] != "fc-func" || set.Cards[1] != "fc-defer" {
		t.Errorf("Cards = %v", set.Cards)
	}

	items, err := cat.Items("go-basics")
	if err != nil {
		t.Fatalf("Items: %v", err)
	}
	var ids []string
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	want := "fc-defer,fc-func,media-scheduler,quiz-runtime,quiz-syntax"
	if strings.Join(ids, ",") != want {
		t.Errorf("Items order = %v, want %s", ids, want)
	}
}

func TestTarget(t *testing.T) {
	cat := loadTestCatalog(t)

	tgt, err := cat.Target("set-keywords")
	if err != nil {
		t.Fatalf("Target(set): %v", err)
	}
	if !tgt.IsSet || tgt.Type != TypeFlashcard || !tgt.HasTag("syntax") {
		t.Errorf("set target = %+v", tgt)
	}

	tgt, err = cat.Target("media-scheduler")
	if err != nil {
		t.Fatalf("Target(item): %v", err)
	}
	if tgt.IsSet || tgt.Type != TypeMedia || tgt.CourseID != "go-basics" {
		t.Errorf("item target = %+v", tgt)
	}

	if _, err := cat.Target("nope"); !errors.Is(err, apperr.ErrUnknownEntity) {
		t.Errorf("Target(nope) err = %v, want ErrUnknownEntity", err)
	}
}

func TestMembership(t *testing.T) {
	cat := loadTestCatalog(t)

	tests := []struct {
		learner, course string
		member          bool
	}{
		{"alice", "go-basics", true},
		{"alice", "rust-intro", false},
		{"bob", "rust-intro", true},
		{"mallory", "go-basics", false},
	}
	for _, tt := range tests {
		if got := cat.IsMember(tt.learner, tt.course); got != tt.member {
			t.Errorf("IsMember(%s, %s) = %v, want %v", tt.learner, tt.course, got, tt.member)
		}
	}

	if !cat.HasLearner("carol") || cat.HasLearner("mallory") {
		t.Error("HasLearner mismatch")
	}

	members, err := cat.Members("go-basics")
	if err != nil {
		t.Fatalf("Members: %v", err)
	}
	if strings.Join(members, ",") != "alice,bob,carol" {
		t.Errorf("Members = %v", members)
	}
}

func TestUnknownLookups(t *testing.T) {
	cat := loadTestCatalog(t)

	if _, err := cat.Course("nope"); !errors.Is(err, apperr.ErrUnknownEntity) {
		t.Errorf("Course err = %v", err)
	}
	if _, err := cat.Items("nope"); !errors.Is(err, apperr.ErrUnknownEntity) {
		t.Errorf("Items err = %v", err)
	}
	if _, err := cat.Set("quiz-syntax"); !errors.Is(err, apperr.ErrUnknownEntity) {
		t.Errorf("Set err = %v", err)
	}
}

func TestParse_SchemaViolations(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"missing courses", "other: 1\n"},
		{"bad item type", `
courses:
  - id: c
    title: C
    chapters:
      - id: ch
        items:
          - {id: i, type: ESSAY}
`},
		{"bad duration", `
courses:
  - id: c
    title: C
    chapters:
      - id: ch
        items:
          - {id: i, type: QUIZ, initial_interval: "two days"}
`},
		{"score badge without count", `
courses:
  - id: c
    title: C
    badges:
      - {id: b, name: B, kind: score, passing_percentage: 50}
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil || !strings.Contains(err.Error(), "schema validation failed") {
				t.Errorf("Parse err = %v, want schema validation failure", err)
			}
		})
	}
}

func TestParse_StructuralViolations(t *testing.T) {
	doc := `
courses:
  - id: c
    title: C
    chapters:
      - id: ch
        flashcard_sets:
          - {id: s}
        items:
          - {id: dup, type: QUIZ}
          - {id: dup, type: MEDIA}
          - {id: card, type: FLASHCARD, set: missing}
          - {id: q2, type: QUIZ, set: s}
    quests:
      - {id: q-high, title: High, level: 3, goal: {kind: level, level: 4}}
      - {id: q-low, title: Low, level: 1, goal: {kind: badge, badge: ghost}}
`
	_, err := Parse([]byte(doc))
	if err == nil {
		t.Fatal("expected structural errors")
	}

	for _, want := range []string{
		`duplicate content ID "dup"`,
		`flashcard "card" references nonexistent set "missing"`,
		`quiz "q2" cannot belong to a flashcard set`,
		`quest "q-low" (level 1) is listed after a level 3 quest`,
		`references nonexistent badge "ghost"`,
	} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error missing %q:\n%v", want, err)
		}
	}
}
