package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/abhisek/yechim/internal/extract"
	"github.com/abhisek/yechim/internal/solver"
	"github.com/abhisek/yechim/internal/store"
	"github.com/abhisek/yechim/internal/tracker"
)

type solveRequest struct {
	Problem string `json:"problem"`

	// Topic skips classification when set.
	Topic string `json:"topic,omitempty"`
}

type solveResponse struct {
	ID       string          `json:"id"`
	Solution solver.Solution `json:"solution"`
}

type imageResponse struct {
	ID         string          `json:"id"`
	Problem    string          `json:"problem"`
	Confidence float64         `json:"confidence"`
	Solution   solver.Solution `json:"solution"`
}

type classifyResponse struct {
	Topic      solver.Topic `json:"topic"`
	Label      string       `json:"label"`
	Normalized string       `json:"normalized"`
}

type statsResponse struct {
	tracker.Stats

	// Topics are all-time counts from the store, absent without one.
	Topics []store.TopicCount `json:"topics,omitempty"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleSolve(c *gin.Context) {
	var req solveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Problem == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "problem is required"})
		return
	}

	var sol solver.Solution
	if req.Topic != "" {
		topic, ok := solver.ParseTopic(req.Topic)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown topic " + strconv.Quote(req.Topic)})
			return
		}
		sol = s.deps.Solver.SolveAs(req.Problem, topic)
	} else {
		sol = s.deps.Solver.Solve(req.Problem)
	}

	entry := s.record(c.Request.Context(), sol, store.SourceText)
	c.JSON(solveStatus(sol), solveResponse{ID: entry.ID, Solution: sol})
}

func (s *Server) handleSolveImage(c *gin.Context) {
	if s.deps.Extractor == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "image extraction is not configured"})
		return
	}

	fh, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart field \"image\" is required"})
		return
	}
	limit := s.deps.Extractor.MaxBytes()
	if fh.Size > limit {
		s.metrics.observeExtraction("rejected")
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": (&extract.ErrImageTooLarge{Size: fh.Size, Limit: limit}).Error()})
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read upload"})
		return
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read upload"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.deps.ExtractTimeout)
	defer cancel()

	res, err := s.deps.Extractor.Extract(ctx, data)
	if err != nil {
		status, outcome := extractStatus(err)
		s.metrics.observeExtraction(outcome)
		if status >= 500 {
			log.Warn().Err(err).Msg("image extraction failed")
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	s.metrics.observeExtraction("ok")

	sol := s.deps.Solver.Solve(res.Text)
	entry := s.record(c.Request.Context(), sol, store.SourceImage)
	c.JSON(solveStatus(sol), imageResponse{
		ID:         entry.ID,
		Problem:    res.Text,
		Confidence: res.Confidence,
		Solution:   sol,
	})
}

func (s *Server) handleClassify(c *gin.Context) {
	var req solveRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Problem == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "problem is required"})
		return
	}
	topic := solver.Classify(req.Problem)
	c.JSON(http.StatusOK, classifyResponse{
		Topic:      topic,
		Label:      topic.Label(),
		Normalized: solver.Normalize(req.Problem),
	})
}

func (s *Server) handleHistory(c *gin.Context) {
	limit := 0
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		limit = n
	}
	entries := s.deps.Tracker.History(limit)
	if entries == nil {
		entries = []tracker.Entry{}
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

func (s *Server) handleHistoryEntry(c *gin.Context) {
	id := c.Param("id")
	if e, ok := s.deps.Tracker.Recall(id); ok {
		c.JSON(http.StatusOK, e)
		return
	}

	// Older than the in-memory window but possibly still stored.
	if s.deps.History != nil {
		rec, err := s.deps.History.Get(c.Request.Context(), id)
		if err != nil {
			log.Error().Err(err).Str("id", id).Msg("history lookup failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "history lookup failed"})
			return
		}
		if rec != nil {
			e, err := tracker.FromRecord(*rec)
			if err == nil {
				c.JSON(http.StatusOK, e)
				return
			}
			log.Warn().Err(err).Str("id", id).Msg("stored solution is unreadable")
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "solution not found"})
}

func (s *Server) handleStats(c *gin.Context) {
	resp := statsResponse{Stats: s.deps.Tracker.Stats()}
	if s.deps.History != nil {
		topics, err := s.deps.History.TopicCounts(c.Request.Context())
		if err != nil {
			log.Error().Err(err).Msg("topic counts failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "stats unavailable"})
			return
		}
		resp.Topics = topics
	}
	c.JSON(http.StatusOK, resp)
}

// record adds sol to the tracker and store. A store failure is logged, the
// in-memory entry still stands.
func (s *Server) record(ctx context.Context, sol solver.Solution, source string) tracker.Entry {
	s.metrics.observeSolve(sol)
	entry, err := tracker.Persist(ctx, s.deps.Tracker, s.deps.History, sol, source)
	if err != nil {
		log.Warn().Err(err).Str("id", entry.ID).Msg("failed to persist solution")
	}
	return entry
}

// solveStatus is 200 for a solved problem and 422 for a failed one; the
// body is the same Solution either way.
func solveStatus(sol solver.Solution) int {
	if sol.Failed() {
		return http.StatusUnprocessableEntity
	}
	return http.StatusOK
}

func extractStatus(err error) (int, string) {
	var tooLarge *extract.ErrImageTooLarge
	var unsupported *extract.ErrUnsupportedType
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge, "rejected"
	case errors.As(err, &unsupported):
		return http.StatusUnsupportedMediaType, "rejected"
	case errors.Is(err, extract.ErrEmptyImage):
		return http.StatusBadRequest, "rejected"
	case errors.Is(err, extract.ErrNoTextFound):
		return http.StatusUnprocessableEntity, "no_text"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "error"
	default:
		return http.StatusBadGateway, "error"
	}
}
