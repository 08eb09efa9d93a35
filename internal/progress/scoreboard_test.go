package progress

import (
	"reflect"
	"testing"
)

func TestRank(t *testing.T) {
	aggs := []Aggregate{
		{LearnerID: "carol", Experience: 40, Level: 0},
		{LearnerID: "alice", Experience: 120, Level: 1},
		{LearnerID: "bob", Experience: 40, Level: 0},
		{LearnerID: "dave", Experience: 0},
	}

	got := Rank(aggs, 0)
	want := []ScoreboardEntry{
		{Rank: 1, LearnerID: "alice", PowerScore: 120, Level: 1},
		{Rank: 2, LearnerID: "bob", PowerScore: 40},
		{Rank: 3, LearnerID: "carol", PowerScore: 40},
		{Rank: 4, LearnerID: "dave"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Rank = %+v, want %+v", got, want)
	}

	if top := Rank(aggs, 2); len(top) != 2 || top[1].LearnerID != "bob" {
		t.Errorf("Rank(limit 2) = %+v", top)
	}
	if aggs[0].LearnerID != "carol" {
		t.Error("Rank reordered its input")
	}
}
