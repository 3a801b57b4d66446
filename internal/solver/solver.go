// Package solver classifies short math problems by keyword and solves them
// with a fixed catalogue of formulas: arithmetic, linear and quadratic
// equations, derivatives and a small integral table, plane and solid
// geometry, trigonometric values, descriptive statistics and keyword-driven
// word problems. It is a pattern matcher, not a computer algebra system.
//
// Solve never fails: any error is folded into a Solution whose Answer is
// FailureAnswer. Solvers hold no state; running statistics and history
// belong to the caller.
package solver

import (
	"fmt"
	"time"
)

// Options tunes solver behavior.
type Options struct {
	// StrictWordProblems makes a word problem with no recognizable
	// operation keyword fail with ErrUnknownOperation instead of
	// answering 0.
	StrictWordProblems bool
}

// Solver dispatches problems to the topic solvers. The zero value is not
// usable; construct with New. A Solver is safe for concurrent use.
type Solver struct {
	opts Options
	now  func() time.Time
}

// New returns a Solver configured with opts.
func New(opts Options) *Solver {
	return &Solver{opts: opts, now: time.Now}
}

var std = New(Options{})

// Solve classifies and solves problem with default options.
func Solve(problem string) Solution { return std.Solve(problem) }

// SolveAs solves problem as the given topic with default options.
func SolveAs(problem string, topic Topic) Solution { return std.SolveAs(problem, topic) }

// failureExplanations are the user-facing messages for failed solves.
var failureExplanations = map[Topic]string{
	TopicArithmetic:   "Arifmetik ifodani hisoblashda xatolik yuz berdi.",
	TopicAlgebra:      "Algebraik tenglamani yechishda xatolik.",
	TopicCalculus:     "Kalkulus masalasini yechishda xatolik.",
	TopicGeometry:     "Geometriya masalasini yechishda xatolik.",
	TopicTrigonometry: "Trigonometriya masalasini yechishda xatolik.",
	TopicStatistics:   "Statistika masalasini yechishda xatolik.",
	TopicMatrix:       "Matritsa masalasini yechishda xatolik.",
	TopicWord:         "Matnli masalani yechishda xatolik.",
	TopicGeneric:      "Masala turi noma'lum. Iltimos, aniqroq kiriting.",
}

// Solve normalizes and classifies problem, then runs the matching topic
// solver.
func (s *Solver) Solve(problem string) Solution {
	normalized := Normalize(problem)
	return s.run(problem, normalized, classifyNormalized(normalized))
}

// SolveAs skips classification and runs the solver for topic. Unknown
// topics fall back to the generic solver.
func (s *Solver) SolveAs(problem string, topic Topic) Solution {
	if _, ok := ParseTopic(string(topic)); !ok {
		topic = TopicGeneric
	}
	return s.run(problem, Normalize(problem), topic)
}

func (s *Solver) run(problem, normalized string, topic Topic) (sol Solution) {
	start := s.now()

	defer func() {
		if r := recover(); r != nil {
			err := newErrorf(KindUnrecognizedProblem, "internal error: %v", r)
			sol = failed(problem, normalized, topic, outcome{}, err)
		}
		end := s.now()
		sol.SolveTime = end.Sub(start)
		sol.Timestamp = end
	}()

	if normalized == "" {
		return failed(problem, normalized, topic, outcome{},
			newError(KindEmptyExpression, "problem is empty", nil))
	}

	out, err := s.dispatch(topic, normalized)
	if err != nil {
		return failed(problem, normalized, topic, out, err)
	}
	return Solution{
		Problem:     problem,
		Normalized:  normalized,
		Topic:       topic,
		Answer:      out.answer,
		Steps:       out.steps,
		Explanation: out.explanation,
	}
}

func (s *Solver) dispatch(topic Topic, problem string) (outcome, error) {
	switch topic {
	case TopicArithmetic:
		return s.solveArithmetic(problem)
	case TopicAlgebra:
		return s.solveAlgebra(problem)
	case TopicCalculus:
		return s.solveCalculus(problem)
	case TopicGeometry:
		return s.solveGeometry(problem)
	case TopicTrigonometry:
		return s.solveTrigonometry(problem)
	case TopicStatistics:
		return s.solveStatistics(problem)
	case TopicMatrix:
		return s.solveMatrix(problem)
	case TopicWord:
		return s.solveWordProblem(problem)
	case TopicGeneric:
		return s.solveGeneric(problem)
	default:
		return outcome{}, fmt.Errorf("no solver for topic %q", topic)
	}
}

func failed(problem, normalized string, topic Topic, out outcome, err error) Solution {
	explanation := out.explanation
	if explanation == "" {
		explanation = failureExplanations[topic]
	}
	return Solution{
		Problem:     problem,
		Normalized:  normalized,
		Topic:       topic,
		Answer:      FailureAnswer{},
		Steps:       out.steps,
		Explanation: explanation,
		Err:         err,
	}
}
