package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/abhisek/yechim/internal/solver"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printSolution writes the plain-text form of a solution: topic, answer,
// numbered steps and the closing explanation.
func printSolution(w io.Writer, sol solver.Solution) {
	fmt.Fprintf(w, "%s %s\n", sol.Topic.Icon(), sol.Topic.Label())
	fmt.Fprintf(w, "Answer: %s\n", sol.Answer.String())
	if len(sol.Steps) > 0 {
		fmt.Fprintln(w, strings.Repeat("─", 60))
	}
	for _, st := range sol.Steps {
		fmt.Fprintf(w, "%d. %s\n", st.Index, st.Description)
		if st.Expression != "" {
			fmt.Fprintf(w, "   %s\n", st.Expression)
		}
		if st.Explanation != "" {
			fmt.Fprintf(w, "   %s\n", st.Explanation)
		}
	}
	if sol.Explanation != "" {
		fmt.Fprintln(w, strings.Repeat("─", 60))
		fmt.Fprintln(w, sol.Explanation)
	}
}

func truncate(s string, max int) string {
	if len([]rune(s)) <= max {
		return s
	}
	return string([]rune(s)[:max-1]) + "…"
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}
