package solver

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/abhisek/yechim/internal/evaluator"
)

var (
	// ax + b = c. Groups: coefficient sign, coefficient, constant sign,
	// constant, right-hand side.
	linearRe = regexp.MustCompile(`([+-]?)\s*(\d+(?:\.\d+)?)?\s*\*?\s*x\s*(?:([+-])\s*([+-]?\d+(?:\.\d+)?))?\s*=\s*([+-]?\s*\d+(?:\.\d+)?)`)

	// ax^2 + bx + c, after "²" and "**" have been rewritten to "^".
	// Groups: signed a, b sign, b, c sign, c.
	quadraticRe = regexp.MustCompile(`([+-]?\s*\d*\.?\d*)\s*\*?\s*x\s*\^\s*2\s*(?:([+-])\s*(\d*\.?\d*)\s*\*?\s*x)?\s*(?:([+-])\s*(\d+(?:\.\d+)?))?`)

	squaredTermRe = regexp.MustCompile(`x\s*(?:\^|\*\*)\s*2`)

	// The right-hand side of a quadratic: a lone number, optionally
	// followed by words.
	quadraticRHSRe = regexp.MustCompile(`^\s*=\s*([+-]?\s*\d+(?:\.\d+)?)([^\dx+\-*/^=.]*)$`)
)

// linearEquation is a·x + b = c.
type linearEquation struct {
	a, b, c float64
}

// quadraticEquation is a·x² + b·x + c = 0. rhs is the number that was
// written on the right and has already been subtracted into c.
type quadraticEquation struct {
	a, b, c float64
	rhs     float64
}

// parseLinear extracts the coefficients of the first ax + b = c shaped
// substring of problem. A missing coefficient is 1, a missing constant 0.
func parseLinear(problem string) (linearEquation, error) {
	m := linearRe.FindStringSubmatch(problem)
	if m == nil {
		return linearEquation{}, newError(KindMalformedEquation, "no ax + b = c pattern found", nil)
	}

	a := 1.0
	if m[2] != "" {
		v, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			return linearEquation{}, newError(KindMalformedEquation, "coefficient "+m[2], err)
		}
		a = v
	}
	if m[1] == "-" {
		a = -a
	}

	var b float64
	if m[4] != "" {
		v, err := strconv.ParseFloat(m[4], 64)
		if err != nil {
			return linearEquation{}, newError(KindMalformedEquation, "constant "+m[4], err)
		}
		b = v
		if m[3] == "-" {
			b = -b
		}
	}

	c, err := strconv.ParseFloat(strings.ReplaceAll(m[5], " ", ""), 64)
	if err != nil {
		return linearEquation{}, newError(KindMalformedEquation, "right-hand side "+m[5], err)
	}

	if a == 0 {
		return linearEquation{}, newError(KindZeroCoefficient, "coefficient of x is 0", nil)
	}
	return linearEquation{a: a, b: b, c: c}, nil
}

// parseQuadratic extracts the coefficients of the first ax² + bx + c
// shaped substring. A linear term written without digits ("+ x", "- x")
// is ±1; an absent term is 0.
func parseQuadratic(problem string) (quadraticEquation, error) {
	text := strings.ReplaceAll(problem, "²", "^2")
	text = strings.ReplaceAll(text, "**", "^")

	loc := quadraticRe.FindStringSubmatchIndex(text)
	if loc == nil {
		return quadraticEquation{}, newError(KindCoefficientParseFailure, "no ax² + bx + c pattern found", nil)
	}
	m := make([]string, len(loc)/2)
	for i := range m {
		if loc[2*i] >= 0 {
			m[i] = text[loc[2*i]:loc[2*i+1]]
		}
	}

	a, err := signedCoefficient(strings.ReplaceAll(m[1], " ", ""))
	if err != nil {
		return quadraticEquation{}, newError(KindCoefficientParseFailure, "coefficient a", err)
	}

	var b float64
	if m[2] != "" {
		b, err = signedCoefficient(m[2] + m[3])
		if err != nil {
			return quadraticEquation{}, newError(KindCoefficientParseFailure, "coefficient b", err)
		}
	}

	var c float64
	if m[5] != "" {
		c, err = strconv.ParseFloat(m[5], 64)
		if err != nil {
			return quadraticEquation{}, newError(KindCoefficientParseFailure, "constant c", err)
		}
		if m[4] == "-" {
			c = -c
		}
	}

	rhs, err := quadraticRHS(text[loc[1]:])
	if err != nil {
		return quadraticEquation{}, err
	}

	if a == 0 {
		return quadraticEquation{}, newError(KindZeroCoefficient, "coefficient of x² is 0", nil)
	}
	return quadraticEquation{a: a, b: b, c: c - rhs, rhs: rhs}, nil
}

// quadraticRHS reads what follows ax² + bx + c. Nothing, or no "=", means
// the expression equals 0. A right side other than a single number is
// rejected so the equation is never solved with a side silently dropped.
func quadraticRHS(rest string) (float64, error) {
	if !strings.Contains(rest, "=") {
		return 0, nil
	}
	m := quadraticRHSRe.FindStringSubmatch(rest)
	if m == nil {
		return 0, newErrorf(KindCoefficientParseFailure, "right-hand side %q is not a number", strings.TrimSpace(rest))
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], " ", ""), 64)
	if err != nil {
		return 0, newError(KindCoefficientParseFailure, "right-hand side "+m[1], err)
	}
	return v, nil
}

// signedCoefficient parses "", "+", "-", "3", "-2.5" where a bare sign
// means a unit coefficient.
func signedCoefficient(s string) (float64, error) {
	sign := 1.0
	switch {
	case strings.HasPrefix(s, "-"):
		sign = -1
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}
	if s == "" || s == "." {
		return sign, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return sign * v, nil
}

func (s *Solver) solveAlgebra(problem string) (outcome, error) {
	var cause error

	if strings.Contains(problem, "²") || squaredTermRe.MatchString(problem) {
		eq, err := parseQuadratic(problem)
		if err == nil {
			return solveQuadratic(eq), nil
		}
		if errors.Is(err, ErrZeroCoefficient) {
			return outcome{}, err
		}
		cause = err
	} else {
		eq, err := parseLinear(problem)
		if err == nil {
			return solveLinear(eq), nil
		}
		if errors.Is(err, ErrZeroCoefficient) {
			return outcome{}, err
		}
		cause = err
	}

	return solveEquationSides(problem, cause)
}

func solveLinear(eq linearEquation) outcome {
	var out outcome
	a, b, c := eq.a, eq.b, eq.c

	out.steps.add("Boshlang'ich tenglama",
		fmt.Sprintf("%sx %s = %s", formatNumber(a), signedTerm(b), formatNumber(c)),
		"Chiziqli tenglama: ax + b = c")

	rhs := c - b
	out.steps.add("Doimiylarni o'ng tomonga o'tkazish",
		fmt.Sprintf("%sx = %s", formatNumber(a), formatNumber(rhs)),
		fmt.Sprintf("%s ni o'ng tomonga o'tkazdik: %s - %s = %s",
			formatNumber(b), formatNumber(c), paren(b), formatNumber(rhs)))

	x := rhs / a
	out.steps.add("Ikkala tomonni "+formatNumber(a)+" ga bo'lish",
		"x = "+formatNumber(x),
		fmt.Sprintf("%s / %s = %s", formatNumber(rhs), paren(a), formatNumber(x)))

	check := a*x + b
	verdict := "⚠ Xatolik bor"
	if math.Abs(check-c) <= 1e-9*math.Max(1, math.Abs(c)) {
		verdict = "✓ To'g'ri!"
	}
	out.steps.add("Tekshirish",
		fmt.Sprintf("%s(%s) %s = %s", formatNumber(a), formatNumber(x), signedTerm(b), formatNumber(check)),
		verdict)

	out.answer = NumberAnswer{Value: x}
	out.explanation = fmt.Sprintf("x ning qiymati %s ga teng.", formatNumber(x))
	return out
}

func solveQuadratic(eq quadraticEquation) outcome {
	var out outcome
	a, b, c := eq.a, eq.b, eq.c

	if eq.rhs != 0 {
		out.steps.add("O'ng tomonni chapga o'tkazish",
			fmt.Sprintf("%sx² %sx %s = %s", formatNumber(a), signedTerm(b), signedTerm(c+eq.rhs), formatNumber(eq.rhs)),
			fmt.Sprintf("%s ni chap tomonga o'tkazdik: %s - %s = %s",
				formatNumber(eq.rhs), formatNumber(c+eq.rhs), paren(eq.rhs), formatNumber(c)))
	}
	out.steps.add("Kvadrat tenglama",
		fmt.Sprintf("%sx² %sx %s = 0", formatNumber(a), signedTerm(b), signedTerm(c)),
		"Standart forma: ax² + bx + c = 0")

	d := b*b - 4*a*c
	out.steps.add("Diskriminant",
		fmt.Sprintf("D = b² - 4ac = %s² - 4(%s)(%s) = %s", paren(b), formatNumber(a), formatNumber(c), formatNumber(d)),
		"Diskriminant formulasi")

	switch {
	case d < 0:
		out.steps.add("Ildizlar soni", "D < 0", "Haqiqiy ildizlar mavjud emas")
		out.answer = NoRealRootsAnswer{Discriminant: d}
		out.explanation = "D < 0, shuning uchun haqiqiy ildizlar mavjud emas."
		return out
	case d == 0:
		out.steps.add("Ildizlar soni", "D = 0", "Bitta takroriy ildiz")
	default:
		out.steps.add("Ildizlar soni", "D > 0", "Ikkita har xil haqiqiy ildiz")
	}

	sqrtD := math.Sqrt(d)
	x1 := (-b + sqrtD) / (2 * a)
	x2 := (-b - sqrtD) / (2 * a)

	out.steps.add("Birinchi ildiz",
		"x₁ = (-b + √D) / 2a = "+formatFixed(x1, 4),
		"x = (-b ± √D) / 2a formulasi bo'yicha")
	out.steps.add("Ikkinchi ildiz",
		"x₂ = (-b - √D) / 2a = "+formatFixed(x2, 4),
		"x = (-b ± √D) / 2a formulasi bo'yicha")

	out.answer = RootsAnswer{X1: x1, X2: x2, Discriminant: d}
	if d == 0 {
		out.explanation = "Tenglama bitta ildizga ega: x = " + formatFixed(x1, 4)
	} else {
		out.explanation = fmt.Sprintf("Tenglama ikkita ildizga ega: x₁ = %s, x₂ = %s", formatFixed(x1, 4), formatFixed(x2, 4))
	}
	return out
}

// solveEquationSides is the last attempt for algebra problems that fit no
// known shape: an equation with no unknown whose two sides both evaluate.
func solveEquationSides(problem string, cause error) (outcome, error) {
	var out outcome

	sides := strings.Split(problem, "=")
	if len(sides) != 2 {
		return out, newError(KindUnsolvableEquation, "", cause)
	}
	left, errL := evaluator.MustBeFinite(sides[0])
	right, errR := evaluator.MustBeFinite(sides[1])
	if errL != nil || errR != nil {
		return out, newError(KindUnsolvableEquation, "", errors.Join(cause, errL, errR))
	}

	out.steps.add("Tenglama yechimi", problem, "Tenglamaning ikkala tomoni hisoblandi")
	out.answer = EquationSidesAnswer{Left: left, Right: right}
	out.explanation = fmt.Sprintf("Chap tomon %s, o'ng tomon %s.", formatNumber(left), formatNumber(right))
	return out, nil
}
