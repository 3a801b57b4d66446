package solver

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// numberRe matches unsigned decimal numbers. Signs are deliberately not
// part of the token: "5 - 3" is two numbers, not 5 and -3.
var numberRe = regexp.MustCompile(`\d+(?:\.\d+)?`)

// scanNumbers returns every unsigned numeric token in textual order.
func scanNumbers(s string) []float64 {
	matches := numberRe.FindAllString(s, -1)
	out := make([]float64, 0, len(matches))
	for _, m := range matches {
		v, err := strconv.ParseFloat(m, 64)
		if err != nil {
			continue
		}
		out = append(out, v)
	}
	return out
}

// formatNumber prints v with the shortest representation that round-trips.
func formatNumber(v float64) string {
	if v == 0 {
		return "0"
	}
	if math.Abs(v) >= 1e21 || math.IsInf(v, 0) || math.IsNaN(v) {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatFixed prints v with exactly n decimals.
func formatFixed(v float64, n int) string {
	s := strconv.FormatFloat(v, 'f', n, 64)
	if isNegativeZero(s) {
		return s[1:]
	}
	return s
}

// formatAnswerNumber prints v with at most 4 decimals and no trailing zeros.
func formatAnswerNumber(v float64) string { return trimmedFixed(v, 4) }

// formatRounded prints v with at most 2 decimals and no trailing zeros.
func formatRounded(v float64) string { return trimmedFixed(v, 2) }

func trimmedFixed(v float64, n int) string {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return formatNumber(v)
	}
	s := formatFixed(v, n)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	if s == "-0" {
		return "0"
	}
	return s
}

func isNegativeZero(s string) bool {
	return strings.HasPrefix(s, "-") && strings.Trim(s[1:], "0.") == ""
}

// signedTerm renders v as the tail of a sum: "+ 3" or "- 3".
func signedTerm(v float64) string {
	if v < 0 {
		return "- " + formatNumber(-v)
	}
	return "+ " + formatNumber(v)
}

// paren wraps negative numbers so they read correctly inside a formula.
func paren(v float64) string {
	if v < 0 {
		return "(" + formatNumber(v) + ")"
	}
	return formatNumber(v)
}

// round2 rounds to 2 decimal places.
func round2(v float64) float64 { return math.Round(v*100) / 100 }

// displayExpr shows exponentiation the way it was most likely typed.
func displayExpr(s string) string { return strings.ReplaceAll(s, "**", "^") }
