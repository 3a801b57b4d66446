package solver

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/abhisek/yechim/internal/symbolic"
)

var (
	derivativeNoiseRe = regexp.MustCompile(`(?:find\s+)?(?:the\s+)?derivative(?:\s+of)?|d/dx|\s*(?:with respect to|wrt)\s+x\s*$`)
	integralNoiseRe   = regexp.MustCompile(`∫|(?:find\s+)?(?:the\s+)?integral(?:\s+of)?|dx`)
)

// integralTable holds the antiderivatives the solver knows, keyed by the
// canonical form produced by integrandKey.
var integralTable = map[string]string{
	"x":      "x²/2 + C",
	"x^2":    "x³/3 + C",
	"x^3":    "x⁴/4 + C",
	"1/x":    "ln|x| + C",
	"sin(x)": "-cos(x) + C",
	"cos(x)": "sin(x) + C",
	"e^x":    "e^x + C",
}

// unknownAntiderivative is returned for integrands not in integralTable.
const unknownAntiderivative = "F(x) + C"

func (s *Solver) solveCalculus(problem string) (outcome, error) {
	switch {
	case containsAny(problem, "derivative", "d/dx"):
		return solveDerivative(problem)
	case containsAny(problem, "∫", "integral"):
		return solveIntegral(problem)
	default:
		return outcome{}, newError(KindUnknownCalculusOperation, "only derivatives and integrals are supported", nil)
	}
}

func solveDerivative(problem string) (outcome, error) {
	out := outcome{}

	expression := unwrapParens(strings.TrimSpace(derivativeNoiseRe.ReplaceAllString(problem, "")))
	if expression == "" {
		return out, newError(KindEmptyExpression, "no function to differentiate", nil)
	}
	shown := displayExpr(expression)

	out.steps.add("Hosila topish", "d/dx("+shown+")", "Berilgan funksiya")

	derivative, err := symbolic.Derivative(expression, "x")
	if err != nil {
		out.explanation = "Hosilani topishda xatolik."
		return out, newError(KindInvalidExpression, "", err)
	}

	out.steps.add("Natija", derivative, "Hosila topildi")
	out.answer = ExpressionAnswer{Expr: derivative, Exact: true}
	out.explanation = fmt.Sprintf("%s funksiyasining hosilasi: %s", shown, derivative)
	return out, nil
}

func solveIntegral(problem string) (outcome, error) {
	out := outcome{}

	expression := strings.Join(strings.Fields(integralNoiseRe.ReplaceAllString(problem, "")), " ")
	if expression == "" {
		return out, newError(KindEmptyExpression, "no integrand", nil)
	}
	shown := displayExpr(expression)

	out.steps.add("Integral topish", "∫ "+shown+" dx", "Berilgan funksiya")

	result, ok := integralTable[integrandKey(expression)]
	note := "Aniqmas integral"
	if !ok {
		result = unknownAntiderivative
		note = "Jadvalda yo'q, umumiy ko'rinishda berildi"
	}

	out.steps.add("Natija", result, note)
	out.answer = ExpressionAnswer{Expr: result, Exact: ok}
	out.explanation = fmt.Sprintf("∫ %s dx = %s", shown, result)
	return out, nil
}

// integrandKey reduces an integrand to the spelling used by integralTable:
// "^" for powers, no spaces, no wrapping parentheses.
func integrandKey(expression string) string {
	key := strings.ReplaceAll(expression, "**", "^")
	key = strings.ReplaceAll(key, " ", "")
	return unwrapParens(key)
}

// unwrapParens removes one pair of parentheses enclosing all of s.
func unwrapParens(s string) string {
	if len(s) < 2 || s[0] != '(' || s[len(s)-1] != ')' {
		return s
	}
	depth := 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 && i != len(s)-1 {
				return s
			}
		}
	}
	return strings.TrimSpace(s[1 : len(s)-1])
}
