package progress

import "sort"

// ScoreboardEntry is one learner's row on a course scoreboard.
type ScoreboardEntry struct {
	Rank       int    `json:"rank"`
	LearnerID  string `json:"learner_id"`
	PowerScore int64  `json:"power_score"`
	Level      int    `json:"level"`
}

// Rank orders aggregates by experience, highest first, breaking ties by
// learner id, and returns at most limit entries. A limit of zero or less
// returns every entry.
func Rank(aggs []Aggregate, limit int) []ScoreboardEntry {
	sorted := make([]Aggregate, len(aggs))
	copy(sorted, aggs)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Experience != sorted[j].Experience {
			return sorted[i].Experience > sorted[j].Experience
		}
		return sorted[i].LearnerID < sorted[j].LearnerID
	})

	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}

	entries := make([]ScoreboardEntry, 0, len(sorted))
	for i, a := range sorted {
		entries = append(entries, ScoreboardEntry{
			Rank:       i + 1,
			LearnerID:  a.LearnerID,
			PowerScore: a.Experience,
			Level:      a.Level,
		})
	}
	return entries
}
