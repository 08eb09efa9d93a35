package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/learnloop/internal/apperr"
	"github.com/abhisek/learnloop/internal/catalog"
	"github.com/abhisek/learnloop/internal/engine"
	"github.com/abhisek/learnloop/internal/monitoring"
	"github.com/abhisek/learnloop/internal/store"
)

var now = time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cat, err := catalog.Load("../catalog/testdata/catalog.yaml")
	require.NoError(t, err)

	st, err := store.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	metrics := monitoring.New()
	opts := engine.DefaultOptions()
	opts.Metrics = metrics
	eng, err := engine.New(cat, st, opts)
	require.NoError(t, err)
	eng.SetClock(func() time.Time { return now })

	return New(eng, metrics, st.DB(), nil, gin.TestMode)
}

func do(t *testing.T, s *Server, method, path string, body any) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	var env envelope
	if w.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w.Code, env
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)

	code, env := do(t, s, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"status":"ok"}`, string(env.Data))

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "learnloop_http_requests_total")
}

func TestSubmitEventAndProgress(t *testing.T) {
	s := newTestServer(t)

	code, env := do(t, s, http.MethodPost, "/v1/events", map[string]any{
		"kind":        "QUIZ_COMPLETED",
		"learner_id":  "alice",
		"item_id":     "quiz-syntax",
		"timestamp":   now.Add(-time.Hour).Format(time.RFC3339),
		"correctness": 0.9,
	})
	require.Equal(t, http.StatusCreated, code, env.Message)

	var ev struct {
		ID       int64  `json:"id"`
		CourseID string `json:"course_id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &ev))
	assert.Equal(t, int64(1), ev.ID)
	assert.Equal(t, "go-basics", ev.CourseID)

	code, env = do(t, s, http.MethodGet, "/v1/learners/alice/courses/go-basics/progress", nil)
	require.Equal(t, http.StatusOK, code)
	var agg struct {
		Experience int64 `json:"experience"`
		Quests     []struct {
			ID     string `json:"id"`
			Locked bool   `json:"locked"`
		} `json:"quests"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &agg))
	assert.Equal(t, int64(20), agg.Experience)
	require.Len(t, agg.Quests, 3)
	assert.True(t, agg.Quests[2].Locked)

	code, env = do(t, s, http.MethodGet, "/v1/courses/go-basics/scoreboard?limit=1", nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `[{"rank":1,"learner_id":"alice","power_score":20,"level":0}]`, string(env.Data))
}

func TestErrorStatuses(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{"malformed body", http.MethodPost, "/v1/events", "not an object", http.StatusBadRequest},
		{"invalid payload", http.MethodPost, "/v1/events", map[string]any{
			"kind": "QUIZ_COMPLETED", "learner_id": "alice", "item_id": "quiz-syntax",
			"timestamp": now.Format(time.RFC3339), "correctness": 2,
		}, http.StatusBadRequest},
		{"unknown learner", http.MethodGet, "/v1/learners/mallory/courses/go-basics/progress", nil, http.StatusNotFound},
		{"unknown course", http.MethodGet, "/v1/courses/nope/scoreboard", nil, http.StatusNotFound},
		{"bad as_of", http.MethodGet, "/v1/learners/alice/courses/go-basics/due?as_of=yesterday", nil, http.StatusBadRequest},
		{"bad type", http.MethodGet, "/v1/learners/alice/courses/go-basics/due?type=VIDEO", nil, http.StatusBadRequest},
		{"no profile yet", http.MethodGet, "/v1/learners/alice/playertype", nil, http.StatusNotFound},
		{"incomplete questionnaire", http.MethodPut, "/v1/learners/alice/playertype",
			map[string]any{"answers": map[string]int{"1": 0}}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, env := do(t, s, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, code)
			assert.Equal(t, tt.want, env.Code)
			assert.NotEmpty(t, env.Message)
		})
	}
}

func TestStatusOf(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{apperr.Invalid("kind", "unknown"), http.StatusBadRequest},
		{apperr.Unknown("item", "x"), http.StatusNotFound},
		{&apperr.ConcurrentModificationError{}, http.StatusConflict},
		{&apperr.ConfigurationError{}, http.StatusUnprocessableEntity},
		{&apperr.CorruptStreamError{}, http.StatusInternalServerError},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusOf(tt.err), "%v", tt.err)
	}
}

func TestDueAndNext(t *testing.T) {
	s := newTestServer(t)

	code, env := do(t, s, http.MethodGet,
		"/v1/learners/alice/courses/go-basics/due?type=QUIZ&as_of="+now.Format(time.RFC3339), nil)
	require.Equal(t, http.StatusOK, code)
	var due []struct {
		ItemID string `json:"item_id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &due))
	require.Len(t, due, 2)
	assert.Equal(t, "quiz-runtime", due[0].ItemID)
	assert.Equal(t, "quiz-syntax", due[1].ItemID)

	code, env = do(t, s, http.MethodGet, "/v1/learners/alice/courses/go-basics/next", nil)
	require.Equal(t, http.StatusOK, code)
	var next map[string]struct {
		ItemID string `json:"item_id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &next))
	assert.Equal(t, "fc-defer", next["FLASHCARD"].ItemID)

	code, _ = do(t, s, http.MethodGet, "/v1/learners/alice/items/fc-func/schedule", nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = do(t, s, http.MethodGet, "/v1/learners/alice/courses/go-basics/schedules", nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestPlayerTypeFlow(t *testing.T) {
	s := newTestServer(t)

	code, env := do(t, s, http.MethodGet, "/v1/playertype/questionnaire", nil)
	require.Equal(t, http.StatusOK, code)
	var q struct {
		Questions []struct {
			ID int `json:"id"`
		} `json:"questions"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &q))
	require.NotEmpty(t, q.Questions)

	answers := map[string]int{}
	for _, question := range q.Questions {
		answers[fmt.Sprint(question.ID)] = 1
	}
	code, env = do(t, s, http.MethodPut, "/v1/learners/bob/playertype", map[string]any{"answers": answers})
	require.Equal(t, http.StatusOK, code, env.Message)

	var profile struct {
		Achiever, Explorer, Socializer, Killer int
		Dominant                               string `json:"dominant"`
		View                                   string `json:"view"`
		Source                                 string `json:"source"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &profile))
	assert.Equal(t, 100, profile.Achiever+profile.Explorer+profile.Socializer+profile.Killer)
	assert.Equal(t, "questionnaire", profile.Source)

	code, _ = do(t, s, http.MethodGet, "/v1/learners/bob/playertype", nil)
	assert.Equal(t, http.StatusOK, code)

	code, env = do(t, s, http.MethodPost, "/v1/learners/bob/playertype/classify", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"source":"behavior"`)
	assert.Contains(t, string(env.Data), `"signals"`)

}
