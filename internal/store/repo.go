package store

import (
	"context"
	"encoding/json"
	"time"
)

// QueryOpts controls filtering and pagination for record queries.
type QueryOpts struct {
	Limit  int       // Max results (0 = no limit)
	After  int64     // Sequence > After
	Before int64     // Sequence < Before
	From   time.Time // Timestamp >= From (zero = no filter)
	To     time.Time // Timestamp <= To (zero = no filter)
}

// Record sources.
const (
	SourceText  = "text"
	SourceImage = "image"
)

// SolutionRecord is one persisted solve.
type SolutionRecord struct {
	ID           string
	Sequence     int64
	CreatedAt    time.Time
	Problem      string
	Normalized   string
	Topic        string
	Answer       string
	Explanation  string
	Failed       bool
	ErrorKind    string
	ErrorMessage string
	SolveTime    time.Duration
	Source       string

	// Payload is the full solution as JSON, steps included.
	Payload json.RawMessage
}

// TopicCount is the number of solves recorded for one topic.
type TopicCount struct {
	Topic  string `json:"topic"`
	Solved int    `json:"solved"`
	Failed int    `json:"failed"`
}

// HistorySummary aggregates the whole solutions table.
type HistorySummary struct {
	Total        int
	Failed       int
	Images       int
	AvgSolveTime time.Duration
}

// HistoryRepo persists solved problems.
type HistoryRepo interface {
	Append(ctx context.Context, rec *SolutionRecord) error
	Recent(ctx context.Context, opts QueryOpts) ([]SolutionRecord, error)
	Get(ctx context.Context, id string) (*SolutionRecord, error)
	Prune(ctx context.Context, keep int) (int64, error)
	Clear(ctx context.Context) error
	TopicCounts(ctx context.Context) ([]TopicCount, error)
	Summary(ctx context.Context) (*HistorySummary, error)
}

// LLMRequestEventData holds data for an LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEvent is a stored LLM request event.
type LLMEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// PurposeUsage aggregates LLM calls per purpose.
type PurposeUsage struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs float64
}

// ModelUsage aggregates token totals per provider/model.
type ModelUsage struct {
	Provider     string
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// EventRepo records LLM calls for auditing and cost tracking.
type EventRepo interface {
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error)
	GetLLMEvent(ctx context.Context, id int) (*LLMEvent, error)
	LLMUsageByPurpose(ctx context.Context) ([]PurposeUsage, error)
	LLMUsageByModel(ctx context.Context) ([]ModelUsage, error)
}
