package solver

import (
	"regexp"
	"strings"
)

// Keyword patterns for topic detection. They run against normalized text.
var (
	calculusMarkers = []string{"∫", "integral", "derivative", "d/dx", "limit"}

	trigRe = regexp.MustCompile(`\b(sin|cos|tan|cot|sec|csc)\b`)

	geometryRe = regexp.MustCompile(`\b(area|perimeter|volume|circumference|radius|diameter|triangle|circle|square|rectangle|cube|sphere)\b`)

	statisticsRe = regexp.MustCompile(`\b(mean|median|mode|average|standard deviation|variance)\b`)

	// "a =" style assignment.
	assignmentRe = regexp.MustCompile(`[a-z]\s*=`)

	// A letter squared. "^" has already become "**" by now.
	letterSquaredRe = regexp.MustCompile(`[a-z]\s*(?:\^|\*\*)\s*2`)

	// Any of these characters disqualifies a text from being a word problem.
	formulaCharRe = regexp.MustCompile(`[+\-*/=²³√∫]`)
)

// wordProblemMinTokens is the token count a problem must exceed to be read
// as prose.
const wordProblemMinTokens = 10

// Classify returns the topic of problem. The first matching rule wins, in
// this order: calculus, trigonometry, geometry, statistics, matrix,
// algebra, word problem, arithmetic. Classify is total.
func Classify(problem string) Topic {
	return classifyNormalized(Normalize(problem))
}

func classifyNormalized(p string) Topic {
	switch {
	case containsAny(p, calculusMarkers...):
		return TopicCalculus
	case trigRe.MatchString(p):
		return TopicTrigonometry
	case geometryRe.MatchString(p):
		return TopicGeometry
	case statisticsRe.MatchString(p):
		return TopicStatistics
	case isMatrix(p):
		return TopicMatrix
	case isAlgebra(p):
		return TopicAlgebra
	case isWordProblem(p):
		return TopicWord
	default:
		return TopicArithmetic
	}
}

func isMatrix(p string) bool {
	if strings.Contains(p, "[") && strings.Contains(p, "]") {
		return true
	}
	return containsAny(p, "matrix", "determinant")
}

// isAlgebra is intentionally loose: any x or y, even inside a word, sends
// the problem to the equation solvers.
func isAlgebra(p string) bool {
	return assignmentRe.MatchString(p) ||
		containsAny(p, "x", "y", "²", "solve for") ||
		letterSquaredRe.MatchString(p)
}

func isWordProblem(p string) bool {
	return len(strings.Split(p, " ")) > wordProblemMinTokens && !formulaCharRe.MatchString(p)
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
