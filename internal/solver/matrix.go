package solver

// solveMatrix is a placeholder. Matrix input has no agreed text format
// yet, so the answer only asks the user for one.
func (s *Solver) solveMatrix(string) (outcome, error) {
	var out outcome
	out.steps.add("Matritsa", "Matrix operatsiyalari", "Matritsalar bilan ishlash")
	out.answer = LabelAnswer{Text: "Matrix solver"}
	out.explanation = "Matritsalar uchun maxsus formatda kiriting."
	return out, nil
}
