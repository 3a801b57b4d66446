package solver

import (
	"fmt"
	"regexp"
	"strings"
)

// Operation labels shown to the user.
const (
	opAdd      = "qo'shish"
	opSubtract = "ayirish"
	opMultiply = "ko'paytirish"
	opDivide   = "bo'lish"
	opUnknown  = "unknown"
)

// Operation keyword families, English words and Uzbek stems. Quotes are
// already gone after normalization, so the Uzbek apostrophe is optional.
var wordOperations = []struct {
	label string
	re    *regexp.Regexp
}{
	{opAdd, regexp.MustCompile(`\b(qo'?sh\w*|plus|add|sum)\b`)},
	{opSubtract, regexp.MustCompile(`\b(ayir\w*|minus|subtract|difference)\b`)},
	{opMultiply, regexp.MustCompile(`\b(ko'?payt\w*|times|multiply|product)\b`)},
	{opDivide, regexp.MustCompile(`\b(bo'?l(?:ish|ing|ib|in\w*)|divide|quotient)\b`)},
}

func detectOperation(problem string) string {
	for _, op := range wordOperations {
		if op.re.MatchString(problem) {
			return op.label
		}
	}
	return opUnknown
}

func (s *Solver) solveWordProblem(problem string) (outcome, error) {
	var out outcome

	nums := scanNumbers(problem)
	if len(nums) == 0 {
		return out, newError(KindNoNumbersFound, "word problem contains no numbers", nil)
	}

	out.steps.add("Masalani tahlil qilish", problem, "Berilgan matnli masala")

	operation := detectOperation(problem)
	if operation == opUnknown && s.opts.StrictWordProblems {
		return out, newErrorf(KindUnknownOperation, "no keyword for any of: %s", wordOperationLabels())
	}

	result, err := foldNumbers(operation, nums)
	if err != nil {
		return out, err
	}

	out.steps.add("Aniqlangan amal", "Operatsiya: "+operation, "Raqamlar: "+joinNumbers(nums))
	out.steps.add("Hisoblash", "Natija = "+formatNumber(result), operation+" natijasi")

	out.answer = WordAnswer{Operation: operation, Numbers: nums, Result: result}
	out.explanation = fmt.Sprintf("Matnli masala yechildi. Natija: %s", formatNumber(result))
	return out, nil
}

// foldNumbers applies operation left to right. An unknown operation
// yields 0.
func foldNumbers(operation string, nums []float64) (float64, error) {
	switch operation {
	case opAdd:
		var sum float64
		for _, v := range nums {
			sum += v
		}
		return sum, nil
	case opSubtract:
		result := nums[0]
		for _, v := range nums[1:] {
			result -= v
		}
		return result, nil
	case opMultiply:
		product := 1.0
		for _, v := range nums {
			product *= v
		}
		return product, nil
	case opDivide:
		result := nums[0]
		for _, v := range nums[1:] {
			if v == 0 {
				return 0, newErrorf(KindDivisionByZero, "%s / 0", formatNumber(result))
			}
			result /= v
		}
		return result, nil
	default:
		return 0, nil
	}
}

// wordOperationLabels lists the known operations for help text.
func wordOperationLabels() string {
	labels := make([]string, len(wordOperations))
	for i, op := range wordOperations {
		labels[i] = op.label
	}
	return strings.Join(labels, ", ")
}
