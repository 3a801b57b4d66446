package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/yechim/internal/extract"
	"github.com/abhisek/yechim/internal/llm"
	"github.com/abhisek/yechim/internal/solver"
	"github.com/abhisek/yechim/internal/store"
	"github.com/abhisek/yechim/internal/tracker"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

type fixture struct {
	srv     *Server
	tracker *tracker.Tracker
	store   *store.Store
	mock    *llm.MockProvider
}

func newFixture(t *testing.T, responses ...llm.MockResponse) *fixture {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	st, err := store.Open(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	mock := llm.NewMockProvider(responses...)
	tr := tracker.New(10)
	srv := New(Deps{
		Tracker:   tr,
		History:   st.HistoryRepo(),
		Extractor: extract.New(mock, extract.Options{}),
	})
	return &fixture{srv: srv, tracker: tr, store: st, mock: mock}
}

func (f *fixture) do(method, path string, body []byte, contentType string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	f.srv.Handler().ServeHTTP(w, req)
	return w
}

func (f *fixture) postJSON(path, body string) *httptest.ResponseRecorder {
	return f.do(http.MethodPost, path, []byte(body), "application/json")
}

func imageForm(t *testing.T, data []byte) ([]byte, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("image", "problem.png")
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return buf.Bytes(), mw.FormDataContentType()
}

func extraction(text string) llm.MockResponse {
	return llm.MockResponse{Content: json.RawMessage(fmt.Sprintf(`{"problem_text":%q,"confidence":0.9}`, text))}
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	w := f.do(http.MethodGet, "/health", nil, "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestSolve(t *testing.T) {
	f := newFixture(t)
	w := f.postJSON("/v1/solve", `{"problem":"x^2 - 5x + 6 = 0"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp solveResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, solver.TopicAlgebra, resp.Solution.Topic)
	roots, ok := resp.Solution.Answer.(solver.RootsAnswer)
	require.True(t, ok, "answer = %T", resp.Solution.Answer)
	assert.InDelta(t, 3, roots.X1, 1e-9)
	assert.InDelta(t, 2, roots.X2, 1e-9)

	// Recorded in memory and in the store.
	_, ok = f.tracker.Recall(resp.ID)
	assert.True(t, ok)
	rec, err := f.store.HistoryRepo().Get(context.Background(), resp.ID)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, store.SourceText, rec.Source)
}

func TestSolve_ExplicitTopic(t *testing.T) {
	f := newFixture(t)
	w := f.postJSON("/v1/solve", `{"problem":"2 + 3 * 4","topic":"generic"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp solveResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, solver.TopicGeneric, resp.Solution.Topic)
	assert.Equal(t, "14", resp.Solution.Answer.String())
}

func TestSolve_FailedProblem(t *testing.T) {
	f := newFixture(t)
	w := f.postJSON("/v1/solve", `{"problem":"0x + 1 = 2"}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp solveResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.ErrorIs(t, resp.Solution.Err, solver.ErrZeroCoefficient)
	assert.Equal(t, solver.FailureText, resp.Solution.Answer.String())
	assert.Equal(t, 1, f.tracker.Stats().Failed)
}

func TestSolve_BadRequests(t *testing.T) {
	f := newFixture(t)
	tests := []struct {
		name, body string
	}{
		{"not json", `problem=2+2`},
		{"missing problem", `{}`},
		{"unknown topic", `{"problem":"2 + 2","topic":"chemistry"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.postJSON("/v1/solve", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
	assert.Zero(t, f.tracker.Stats().Solved)
}

func TestClassify(t *testing.T) {
	f := newFixture(t)
	w := f.postJSON("/v1/classify", `{"problem":"  Derivative of x^3 "}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp classifyResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, solver.TopicCalculus, resp.Topic)
	assert.Equal(t, solver.TopicCalculus.Label(), resp.Label)
	assert.Equal(t, solver.Normalize("  Derivative of x^3 "), resp.Normalized)

	// Classification is not a solve.
	assert.Zero(t, f.tracker.Stats().Solved)
}

func TestSolveImage(t *testing.T) {
	f := newFixture(t, extraction("2x + 3 = 7"))
	body, ct := imageForm(t, pngHeader)

	w := f.do(http.MethodPost, "/v1/solve/image", body, ct)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp imageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "2x + 3 = 7", resp.Problem)
	assert.InDelta(t, 0.9, resp.Confidence, 1e-9)
	assert.Equal(t, "2", resp.Solution.Answer.String())

	assert.Equal(t, 1, f.tracker.Stats().Images)
	assert.Equal(t, 1, f.mock.CallCount())
	assert.Equal(t, "image/png", f.mock.Calls[0].Messages[0].Images[0].MediaType)
}

func TestSolveImage_Errors(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		response llm.MockResponse
		want     int
	}{
		{"not an image", []byte("2 + 2 = ?"), llm.MockResponse{}, http.StatusUnsupportedMediaType},
		{"no text", pngHeader, extraction(""), http.StatusUnprocessableEntity},
		{"provider down", pngHeader, llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("down")}}, http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.response)
			body, ct := imageForm(t, tt.data)
			w := f.do(http.MethodPost, "/v1/solve/image", body, ct)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
			assert.Zero(t, f.tracker.Stats().Solved)
		})
	}
}

func TestSolveImage_MissingField(t *testing.T) {
	f := newFixture(t)
	w := f.do(http.MethodPost, "/v1/solve/image", []byte(`{}`), "application/json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSolveImage_NotConfigured(t *testing.T) {
	srv := New(Deps{})
	body, ct := imageForm(t, pngHeader)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/solve/image", bytes.NewReader(body))
	req.Header.Set("Content-Type", ct)
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestHistory(t *testing.T) {
	f := newFixture(t)
	for _, p := range []string{"2 + 2", "mean of 1, 2, 3", "sin 30"} {
		f.postJSON("/v1/solve", fmt.Sprintf(`{"problem":%q}`, p))
	}

	w := f.do(http.MethodGet, "/v1/history?limit=2", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Entries []tracker.Entry `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Entries, 2)
	assert.Equal(t, "sin 30", resp.Entries[0].Problem)
	assert.Equal(t, "mean of 1, 2, 3", resp.Entries[1].Problem)

	w = f.do(http.MethodGet, "/v1/history?limit=abc", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHistoryEntry(t *testing.T) {
	f := newFixture(t)
	w := f.postJSON("/v1/solve", `{"problem":"area of circle with radius 5"}`)
	var solved solveResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &solved))

	w = f.do(http.MethodGet, "/v1/history/"+solved.ID, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var e tracker.Entry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &e))
	assert.Equal(t, solved.ID, e.ID)
	assert.Equal(t, solver.TopicGeometry, e.Topic)

	// Dropped from memory, still found in the store.
	f.tracker.Clear()
	w = f.do(http.MethodGet, "/v1/history/"+solved.ID, nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = f.do(http.MethodGet, "/v1/history/does-not-exist", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStats(t *testing.T) {
	f := newFixture(t)
	f.postJSON("/v1/solve", `{"problem":"2 + 2"}`)
	f.postJSON("/v1/solve", `{"problem":"3 * 3"}`)
	f.postJSON("/v1/solve", `{"problem":"0x + 1 = 2"}`)

	w := f.do(http.MethodGet, "/v1/stats", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp statsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Solved)
	assert.Equal(t, 1, resp.Failed)
	assert.Equal(t, 2, resp.ByTopic[solver.TopicArithmetic])
	require.Len(t, resp.Topics, 2)
	assert.Equal(t, "arithmetic", resp.Topics[0].Topic)
	assert.Equal(t, 2, resp.Topics[0].Solved)
}

func TestMetrics(t *testing.T) {
	f := newFixture(t)
	f.postJSON("/v1/solve", `{"problem":"2 + 2"}`)
	f.postJSON("/v1/solve", `{"problem":"0x + 1 = 2"}`)

	w := f.do(http.MethodGet, "/metrics", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, `yechim_solves_total{outcome="solved",topic="arithmetic"} 1`)
	assert.Contains(t, body, `yechim_solves_total{outcome="failed",topic="algebra"} 1`)
	assert.Contains(t, body, `yechim_solve_duration_seconds_count{topic="arithmetic"} 1`)
	assert.Contains(t, body, `yechim_http_requests_total{method="POST",route="/v1/solve",status="2xx"} 1`)
}

func TestServerWithoutStore(t *testing.T) {
	srv := New(Deps{})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/solve", strings.NewReader(`{"problem":"2 + 2"}`))
	req.Header.Set("Content-Type", "application/json")
	srv.Handler().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/stats", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), `"topics"`)
}

func TestSolveImage_TooLarge(t *testing.T) {
	mock := llm.NewMockProvider()
	srv := New(Deps{Extractor: extract.New(mock, extract.Options{MaxBytes: 16})})
	body, ct := imageForm(t, pngHeader)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/solve/image", bytes.NewReader(body))
	req.Header.Set("Content-Type", ct)
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Zero(t, mock.CallCount())
}
