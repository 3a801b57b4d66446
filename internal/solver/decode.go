package solver

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// UnmarshalJSON restores a Solution written by MarshalJSON. The concrete
// answer type is chosen by the answer's kind tag; a restored error keeps
// its kind but loses any wrapped cause.
func (s *Solution) UnmarshalJSON(data []byte) error {
	var raw struct {
		solutionJSON
		Answer struct {
			Kind    AnswerKind      `json:"kind"`
			Display string          `json:"display"`
			Value   json.RawMessage `json:"value"`
		} `json:"answer"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	answer, err := decodeAnswer(raw.Answer.Kind, raw.Answer.Value)
	if err != nil {
		return err
	}
	if answer == nil && raw.Answer.Display != "" {
		answer = LabelAnswer{Text: raw.Answer.Display}
	}

	*s = Solution{
		Problem:     raw.Problem,
		Normalized:  raw.Normalized,
		Topic:       raw.Topic,
		Answer:      answer,
		Steps:       raw.Steps,
		Explanation: raw.Explanation,
		SolveTime:   time.Duration(raw.SolveTime * float64(time.Second)),
		Timestamp:   raw.Timestamp,
	}
	if raw.Error != "" || raw.ErrorKind != "" {
		detail := strings.TrimPrefix(raw.Error, string(raw.ErrorKind))
		s.Err = &SolveError{Kind: raw.ErrorKind, Detail: strings.TrimPrefix(detail, ": ")}
	}
	return nil
}

func decodeAnswer(kind AnswerKind, value json.RawMessage) (Answer, error) {
	var target Answer
	switch kind {
	case "":
		return nil, nil
	case KindFailure:
		return FailureAnswer{}, nil
	case KindNumber:
		target = &NumberAnswer{}
	case KindRoots:
		target = &RootsAnswer{}
	case KindNoRealRoots:
		target = &NoRealRootsAnswer{}
	case KindExpression:
		target = &ExpressionAnswer{}
	case KindEquationSides:
		target = &EquationSidesAnswer{}
	case KindCircle:
		target = &CircleAnswer{}
	case KindRectangle:
		target = &RectangleAnswer{}
	case KindTriangle:
		target = &TriangleAnswer{}
	case KindSquare:
		target = &SquareAnswer{}
	case KindSphere:
		target = &SphereAnswer{}
	case KindCube:
		target = &CubeAnswer{}
	case KindTrig:
		target = &TrigAnswer{}
	case KindStats:
		target = &StatsAnswer{}
	case KindWord:
		target = &WordAnswer{}
	case KindLabel:
		target = &LabelAnswer{}
	default:
		return nil, fmt.Errorf("unknown answer kind %q", kind)
	}

	if len(value) > 0 {
		if err := json.Unmarshal(value, target); err != nil {
			return nil, fmt.Errorf("decode %s answer: %w", kind, err)
		}
	}
	return deref(target), nil
}

// deref turns the pointer used for decoding back into the value type the
// solvers produce.
func deref(a Answer) Answer {
	switch v := a.(type) {
	case *NumberAnswer:
		return *v
	case *RootsAnswer:
		return *v
	case *NoRealRootsAnswer:
		return *v
	case *ExpressionAnswer:
		return *v
	case *EquationSidesAnswer:
		return *v
	case *CircleAnswer:
		return *v
	case *RectangleAnswer:
		return *v
	case *TriangleAnswer:
		return *v
	case *SquareAnswer:
		return *v
	case *SphereAnswer:
		return *v
	case *CubeAnswer:
		return *v
	case *TrigAnswer:
		return *v
	case *StatsAnswer:
		return *v
	case *WordAnswer:
		return *v
	case *LabelAnswer:
		return *v
	}
	return a
}
