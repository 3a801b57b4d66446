package solver

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/abhisek/yechim/internal/evaluator"
)

// arithmeticNoiseRe matches everything that is not part of a plain
// arithmetic expression.
var arithmeticNoiseRe = regexp.MustCompile(`[^0-9+\-*/().]`)

func (s *Solver) solveArithmetic(problem string) (outcome, error) {
	var out outcome

	expression := arithmeticNoiseRe.ReplaceAllString(problem, "")
	expression = strings.TrimRight(strings.TrimSpace(expression), ".")
	if expression == "" {
		return out, newError(KindEmptyExpression, "no arithmetic expression found", nil)
	}

	out.steps.add("Boshlang'ich ifoda", expression, "Berilgan matematik ifoda")

	value, err := evaluator.Evaluate(expression)
	if err != nil {
		return out, newError(KindInvalidExpression, "", err)
	}
	if math.IsInf(value, 0) || math.IsNaN(value) {
		return out, newErrorf(KindNonFiniteResult, "%s evaluates to %v", expression, value)
	}

	result := formatNumber(value)
	out.steps.add("Hisoblash", expression+" = "+result, "Ifoda hisoblandi")
	out.answer = NumberAnswer{Value: value}
	out.explanation = fmt.Sprintf("%s ifodasi hisoblanib, natija %s ga teng.", expression, result)
	return out, nil
}
