package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/yechim/internal/store"
	"github.com/abhisek/yechim/internal/tracker"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse previously solved problems",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent solutions, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		asJSON, _ := cmd.Flags().GetBool("json")

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		recs, err := st.HistoryRepo().Recent(cmd.Context(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query history: %w", err)
		}

		out := cmd.OutOrStdout()
		if asJSON {
			entries := make([]tracker.Entry, 0, len(recs))
			for _, r := range recs {
				e, err := tracker.FromRecord(r)
				if err != nil {
					return err
				}
				entries = append(entries, e)
			}
			return printJSON(out, entries)
		}

		if len(recs) == 0 {
			fmt.Fprintln(out, "No solutions recorded yet.")
			return nil
		}

		fmt.Fprintf(out, "%-8s  %-19s  %-12s  %-30s  %-24s  %s\n",
			"ID", "Solved", "Topic", "Problem", "Answer", "Src")
		fmt.Fprintln(out, strings.Repeat("─", 110))
		for _, r := range recs {
			mark := " "
			if r.Failed {
				mark = "✗"
			}
			fmt.Fprintf(out, "%-8s  %-19s  %-12s  %-30s  %-24s  %s %s\n",
				shortID(r.ID),
				r.CreatedAt.Local().Format("2006-01-02 15:04:05"),
				r.Topic,
				truncate(r.Problem, 30),
				truncate(r.Answer, 24),
				r.Source,
				mark,
			)
		}
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show the full solution of one history entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		rec, err := findRecord(cmd, st.HistoryRepo(), args[0])
		if err != nil {
			return err
		}
		e, err := tracker.FromRecord(*rec)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if asJSON {
			return printJSON(out, e)
		}
		fmt.Fprintf(out, "ID:       %s\n", e.ID)
		fmt.Fprintf(out, "Solved:   %s\n", e.SolvedAt.Local().Format("2006-01-02 15:04:05"))
		fmt.Fprintf(out, "Source:   %s\n", rec.Source)
		fmt.Fprintf(out, "Problem:  %s\n\n", e.Problem)
		printSolution(out, e.Solution)
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete stored solutions",
	Long:  "Delete all stored solutions, or with --keep only those older than the newest N.",
	RunE: func(cmd *cobra.Command, args []string) error {
		keep, _ := cmd.Flags().GetInt("keep")
		if keep < 0 {
			return fmt.Errorf("--keep must not be negative")
		}
		question := "Delete all stored solutions?"
		if keep > 0 {
			question = fmt.Sprintf("Delete all but the newest %d solutions?", keep)
		}
		if !confirmed(cmd, question) {
			fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
			return nil
		}

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		if keep > 0 {
			removed, err := st.HistoryRepo().Prune(cmd.Context(), keep)
			if err != nil {
				return fmt.Errorf("prune history: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d solutions.\n", removed)
			return nil
		}

		if err := st.HistoryRepo().Clear(cmd.Context()); err != nil {
			return fmt.Errorf("clear history: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "History cleared.")
		return nil
	},
}

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export statistics and history as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("output")

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		t, err := tracker.Load(cmd.Context(), st.HistoryRepo(), cfg.Solver.HistoryLimit)
		if err != nil {
			return fmt.Errorf("load history: %w", err)
		}

		if path == "" || path == "-" {
			return t.Export(cmd.OutOrStdout())
		}
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create export file: %w", err)
		}
		if err := t.Export(f); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	},
}

// findRecord resolves a full ID, or a unique prefix of one among the
// stored entries.
func findRecord(cmd *cobra.Command, repo store.HistoryRepo, id string) (*store.SolutionRecord, error) {
	rec, err := repo.Get(cmd.Context(), id)
	if err != nil {
		return nil, fmt.Errorf("get entry: %w", err)
	}
	if rec != nil {
		return rec, nil
	}

	recs, err := repo.Recent(cmd.Context(), store.QueryOpts{})
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	var match *store.SolutionRecord
	for i := range recs {
		if strings.HasPrefix(recs[i].ID, id) {
			if match != nil {
				return nil, fmt.Errorf("id prefix %q is ambiguous", id)
			}
			match = &recs[i]
		}
	}
	if match == nil {
		return nil, fmt.Errorf("entry %s not found", id)
	}
	return match, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// confirmed reports whether --yes was given or the user answered y.
func confirmed(cmd *cobra.Command, question string) bool {
	if yes, _ := cmd.Flags().GetBool("yes"); yes {
		return true
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", question)
	answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

func init() {
	historyListCmd.Flags().IntP("limit", "n", 20, "Number of entries to show")
	historyListCmd.Flags().Bool("json", false, "Print as JSON")
	historyShowCmd.Flags().Bool("json", false, "Print as JSON")
	historyClearCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
	historyClearCmd.Flags().Int("keep", 0, "Keep the newest N solutions")
	historyExportCmd.Flags().StringP("output", "o", "", "Write to file instead of stdout")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyExportCmd)
}
