package server

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/learnloop/internal/catalog"
	"github.com/abhisek/learnloop/internal/eventlog"
	"github.com/abhisek/learnloop/internal/playertype"
)

type courseSummary struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Members  int    `json:"members"`
	Items    int    `json:"items"`
	Badges   int    `json:"badges"`
	Quests   int    `json:"quests"`
	Chapters int    `json:"chapters"`
}

func (s *Server) listCourses(c *gin.Context) {
	dir := s.engine.Directory()
	var out []courseSummary
	for _, course := range dir.Courses() {
		items, err := dir.Items(course.ID)
		if err != nil {
			s.writeError(c, err)
			return
		}
		members, err := dir.Members(course.ID)
		if err != nil {
			s.writeError(c, err)
			return
		}
		out = append(out, courseSummary{
			ID:       course.ID,
			Title:    course.Title,
			Members:  len(members),
			Items:    len(items),
			Badges:   len(course.Badges),
			Quests:   len(course.Quests),
			Chapters: len(course.Chapters),
		})
	}
	success(c, out)
}

func (s *Server) submitEvent(c *gin.Context) {
	var ev eventlog.Event
	if err := c.ShouldBindJSON(&ev); err != nil {
		badRequest(c, "invalid event body: "+err.Error())
		return
	}
	ev.ID = 0

	stored, err := s.engine.Submit(c.Request.Context(), ev)
	if err != nil {
		s.writeError(c, err)
		return
	}
	created(c, stored)
}

func (s *Server) schedule(c *gin.Context) {
	st, err := s.engine.Schedule(c.Request.Context(), c.Param("learner"), c.Param("item"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	success(c, st)
}

func (s *Server) schedules(c *gin.Context) {
	states, err := s.engine.Schedules(c.Request.Context(), c.Param("learner"), c.Param("course"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	success(c, states)
}

// due accepts ?as_of=<RFC3339> (default now) and repeated ?type= filters.
func (s *Server) due(c *gin.Context) {
	asOf := time.Now()
	if raw := c.Query("as_of"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			badRequest(c, "as_of must be an RFC 3339 timestamp")
			return
		}
		asOf = t
	}

	var types []catalog.ItemType
	for _, raw := range c.QueryArray("type") {
		t := catalog.ItemType(raw)
		if !t.Valid() {
			badRequest(c, "unknown content type "+strconv.Quote(raw))
			return
		}
		types = append(types, t)
	}

	due, err := s.engine.Due(c.Request.Context(), c.Param("learner"), c.Param("course"), asOf, types...)
	if err != nil {
		s.writeError(c, err)
		return
	}
	success(c, due)
}

func (s *Server) nextByType(c *gin.Context) {
	next, err := s.engine.NextByType(c.Request.Context(), c.Param("learner"), c.Param("course"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	success(c, next)
}

func (s *Server) progress(c *gin.Context) {
	agg, err := s.engine.Progress(c.Request.Context(), c.Param("learner"), c.Param("course"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	success(c, agg)
}

func (s *Server) scoreboard(c *gin.Context) {
	limit := 10
	if raw := c.Query("limit"); raw != "" {
		l, err := strconv.Atoi(raw)
		if err != nil {
			badRequest(c, "limit must be an integer")
			return
		}
		limit = l
	}

	board, err := s.engine.Scoreboard(c.Request.Context(), c.Param("course"), limit)
	if err != nil {
		s.writeError(c, err)
		return
	}
	success(c, board)
}

func (s *Server) questionnaire(c *gin.Context) {
	success(c, s.engine.Questionnaire())
}

type questionnaireRequest struct {
	Answers playertype.Answers `json:"answers" binding:"required"`
}

type profileResponse struct {
	playertype.Profile
	View    playertype.View     `json:"view"`
	Signals *playertype.Signals `json:"signals,omitempty"`
}

func (s *Server) submitQuestionnaire(c *gin.Context) {
	var req questionnaireRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid questionnaire body: "+err.Error())
		return
	}

	p, err := s.engine.SubmitQuestionnaire(c.Request.Context(), c.Param("learner"), req.Answers)
	if err != nil {
		s.writeError(c, err)
		return
	}
	success(c, profileResponse{Profile: p, View: p.View()})
}

func (s *Server) classify(c *gin.Context) {
	p, signals, err := s.engine.Classify(c.Request.Context(), c.Param("learner"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	success(c, profileResponse{Profile: p, View: p.View(), Signals: &signals})
}

func (s *Server) profile(c *gin.Context) {
	p, err := s.engine.Profile(c.Request.Context(), c.Param("learner"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	success(c, profileResponse{Profile: p, View: p.View()})
}
