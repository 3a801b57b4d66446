package solver

import "github.com/abhisek/yechim/internal/evaluator"

func (s *Solver) solveGeneric(problem string) (outcome, error) {
	var out outcome

	value, err := evaluator.MustBeFinite(problem)
	if err != nil {
		out.steps.add(FailureText, problem, "Bu masala turini aniqlay olmadim. Iltimos, boshqacha yozing.")
		return out, newError(KindUnrecognizedProblem, "", err)
	}

	result := formatNumber(value)
	out.steps.add("Hisoblash", problem+" = "+result, "Ifoda hisoblab chiqildi")
	out.answer = NumberAnswer{Value: value}
	out.explanation = "Natija: " + result
	return out, nil
}
