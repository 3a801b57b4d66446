package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/abhisek/yechim/internal/solver"
	"github.com/abhisek/yechim/internal/store"
	"github.com/abhisek/yechim/internal/tracker"
)

// errSolveFailed is returned after a failed solution has been printed so
// the process exits non-zero.
var errSolveFailed = errors.New("problem could not be solved")

var solveCmd = &cobra.Command{
	Use:   "solve [problem]",
	Short: "Solve a problem and print the steps",
	Long: "Solve a problem given as arguments. With no arguments, or with \"-\",\n" +
		"every non-empty line of stdin is solved in turn.",
	Example: `  yechim solve "2x + 3 = 7"
  yechim solve --topic geometry "radius 5"
  echo "x^2 - 5x + 6 = 0" | yechim solve --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		topicName, _ := cmd.Flags().GetString("topic")
		asJSON, _ := cmd.Flags().GetBool("json")
		noSave, _ := cmd.Flags().GetBool("no-save")

		var topic solver.Topic
		if topicName != "" {
			t, ok := solver.ParseTopic(topicName)
			if !ok {
				return fmt.Errorf("unknown topic %q", topicName)
			}
			topic = t
		}

		problems, err := readProblems(args, cmd.InOrStdin())
		if err != nil {
			return err
		}
		if len(problems) == 0 {
			return errors.New("no problem given")
		}

		s := newSolver()
		t := tracker.New(cfg.Solver.HistoryLimit)
		var repo store.HistoryRepo
		if !noSave {
			st, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close()
			repo = st.HistoryRepo()
		}

		out := cmd.OutOrStdout()
		failed := 0
		for i, p := range problems {
			var sol solver.Solution
			if topic != "" {
				sol = s.SolveAs(p, topic)
			} else {
				sol = s.Solve(p)
			}
			entry, err := tracker.Persist(cmd.Context(), t, repo, sol, store.SourceText)
			if err != nil {
				log.Warn().Err(err).Str("id", entry.ID).Msg("failed to save solution")
			}
			if sol.Failed() {
				failed++
			}

			if asJSON {
				if err := printJSON(out, entry); err != nil {
					return err
				}
				continue
			}
			if i > 0 {
				fmt.Fprintln(out)
			}
			if len(problems) > 1 {
				fmt.Fprintf(out, "» %s\n", p)
			}
			printSolution(out, sol)
		}

		if failed > 0 {
			return errSolveFailed
		}
		return nil
	},
}

var classifyCmd = &cobra.Command{
	Use:   "classify <problem>",
	Short: "Print the topic a problem would be solved as",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		problem := strings.Join(args, " ")
		topic := solver.Classify(problem)

		if asJSON {
			return printJSON(cmd.OutOrStdout(), map[string]string{
				"topic":      string(topic),
				"label":      topic.Label(),
				"normalized": solver.Normalize(problem),
			})
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s)\n", topic.Icon(), topic.Label(), topic)
		return nil
	},
}

// readProblems returns the problem in args, or the non-empty lines of r
// when args is empty or "-".
func readProblems(args []string, r io.Reader) ([]string, error) {
	if len(args) > 0 && !(len(args) == 1 && args[0] == "-") {
		return []string{strings.Join(args, " ")}, nil
	}

	var problems []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			problems = append(problems, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	return problems, nil
}

func init() {
	solveCmd.Flags().StringP("topic", "t", "", "Solve as this topic instead of classifying (e.g. algebra, generic)")
	solveCmd.Flags().Bool("json", false, "Print the history entry as JSON")
	solveCmd.Flags().Bool("no-save", false, "Do not record the solution in history")

	classifyCmd.Flags().Bool("json", false, "Print as JSON")
}
