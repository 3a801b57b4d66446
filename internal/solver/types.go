package solver

import (
	"encoding/json"
	"time"
)

// Topic is the mathematical category a problem is classified into.
type Topic string

const (
	TopicArithmetic   Topic = "arithmetic"
	TopicAlgebra      Topic = "algebra"
	TopicCalculus     Topic = "calculus"
	TopicGeometry     Topic = "geometry"
	TopicTrigonometry Topic = "trigonometry"
	TopicStatistics   Topic = "statistics"
	TopicMatrix       Topic = "matrix"
	TopicWord         Topic = "word"

	// TopicGeneric is never produced by Classify. It is the last-resort
	// solver, reachable by explicitly requesting it.
	TopicGeneric Topic = "generic"
)

// AllTopics lists every topic in classifier priority order, followed by
// the generic fallback.
var AllTopics = []Topic{
	TopicCalculus,
	TopicTrigonometry,
	TopicGeometry,
	TopicStatistics,
	TopicMatrix,
	TopicAlgebra,
	TopicWord,
	TopicArithmetic,
	TopicGeneric,
}

// ParseTopic maps a topic name to a Topic.
func ParseTopic(name string) (Topic, bool) {
	for _, t := range AllTopics {
		if string(t) == name {
			return t, true
		}
	}
	return "", false
}

// Icon is the glyph shown next to a topic in history listings.
func (t Topic) Icon() string {
	switch t {
	case TopicAlgebra:
		return "📐"
	case TopicCalculus:
		return "∫"
	case TopicGeometry:
		return "△"
	case TopicTrigonometry:
		return "📏"
	case TopicStatistics:
		return "📊"
	case TopicMatrix:
		return "⊞"
	case TopicWord:
		return "📝"
	default:
		return "🔢"
	}
}

// Label is the Uzbek display name of the topic.
func (t Topic) Label() string {
	switch t {
	case TopicArithmetic:
		return "Arifmetika"
	case TopicAlgebra:
		return "Algebra"
	case TopicCalculus:
		return "Kalkulus"
	case TopicGeometry:
		return "Geometriya"
	case TopicTrigonometry:
		return "Trigonometriya"
	case TopicStatistics:
		return "Statistika"
	case TopicMatrix:
		return "Matritsa"
	case TopicWord:
		return "Matnli masala"
	default:
		return "Umumiy"
	}
}

// Step is one line of a worked solution.
type Step struct {
	// Index is 1-based and strictly increasing within a Solution.
	Index int `json:"step"`

	// Description is the short title of the step, e.g. "Diskriminant".
	Description string `json:"description"`

	// Expression is the rendered formula with numbers substituted.
	Expression string `json:"expression"`

	// Explanation is a one-line commentary on the step.
	Explanation string `json:"explanation"`
}

// Solution is the complete result of solving one problem. A failed solve
// still produces a Solution: Answer is FailureAnswer, Steps holds whatever
// was built before the failure and Err carries the cause.
type Solution struct {
	// Problem is the text as the caller supplied it.
	Problem string

	// Normalized is Problem after Normalize.
	Normalized string

	Topic       Topic
	Answer      Answer
	Steps       []Step
	Explanation string

	// Err is nil on success, a *SolveError otherwise.
	Err error

	// SolveTime and Timestamp are attached after the topic solver returns.
	SolveTime time.Duration
	Timestamp time.Time
}

// Failed reports whether the solve ended in an error.
func (s Solution) Failed() bool { return s.Err != nil }

// ErrorKind returns the kind of the failure, or "" on success.
func (s Solution) ErrorKind() ErrorKind { return KindOf(s.Err) }

type answerJSON struct {
	Kind    AnswerKind `json:"kind"`
	Display string     `json:"display"`
	Value   Answer     `json:"value,omitempty"`
}

type solutionJSON struct {
	Problem     string     `json:"problem"`
	Normalized  string     `json:"normalized"`
	Topic       Topic      `json:"type"`
	Answer      answerJSON `json:"answer"`
	Steps       []Step     `json:"steps"`
	Explanation string     `json:"explanation"`
	Error       string     `json:"error,omitempty"`
	ErrorKind   ErrorKind  `json:"error_kind,omitempty"`
	SolveTime   float64    `json:"solve_time_seconds"`
	Timestamp   time.Time  `json:"timestamp"`
}

// MarshalJSON renders the answer as a tagged object so clients can switch
// on its kind.
func (s Solution) MarshalJSON() ([]byte, error) {
	out := solutionJSON{
		Problem:     s.Problem,
		Normalized:  s.Normalized,
		Topic:       s.Topic,
		Steps:       s.Steps,
		Explanation: s.Explanation,
		SolveTime:   s.SolveTime.Seconds(),
		Timestamp:   s.Timestamp,
	}
	if out.Steps == nil {
		out.Steps = []Step{}
	}
	if s.Answer != nil {
		out.Answer = answerJSON{Kind: s.Answer.Kind(), Display: s.Answer.String(), Value: s.Answer}
	}
	if s.Err != nil {
		out.Error = s.Err.Error()
		out.ErrorKind = KindOf(s.Err)
	}
	return json.Marshal(out)
}

// stepList accumulates steps, numbering them as they are added.
type stepList []Step

func (l *stepList) add(description, expression, explanation string) {
	*l = append(*l, Step{
		Index:       len(*l) + 1,
		Description: description,
		Expression:  expression,
		Explanation: explanation,
	})
}

// outcome is what a topic solver hands back to the dispatcher. On failure
// steps holds the partial work and explanation, when set, overrides the
// topic's default failure message.
type outcome struct {
	answer      Answer
	steps       stepList
	explanation string
}
