package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/yechim/internal/solver"
	"github.com/abhisek/yechim/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show solving statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := cmd.Context()
		repo := st.HistoryRepo()
		sum, err := repo.Summary(ctx)
		if err != nil {
			return fmt.Errorf("query summary: %w", err)
		}
		topics, err := repo.TopicCounts(ctx)
		if err != nil {
			return fmt.Errorf("query topics: %w", err)
		}

		out := cmd.OutOrStdout()
		if asJSON {
			return printJSON(out, struct {
				Total          int                `json:"total"`
				Failed         int                `json:"failed"`
				Images         int                `json:"images"`
				AvgSolveTimeUs int64              `json:"avg_solve_time_us"`
				Topics         []store.TopicCount `json:"topics"`
			}{sum.Total, sum.Failed, sum.Images, sum.AvgSolveTime.Microseconds(), topics})
		}

		if sum.Total == 0 {
			fmt.Fprintln(out, "No solutions recorded yet.")
			return nil
		}

		accuracy := float64(sum.Total-sum.Failed) / float64(sum.Total) * 100
		fmt.Fprintf(out, "Solved:    %d (%d failed, %.1f%% accuracy)\n", sum.Total, sum.Failed, accuracy)
		fmt.Fprintf(out, "Photos:    %d\n", sum.Images)
		fmt.Fprintf(out, "Avg time:  %s\n", sum.AvgSolveTime)

		fmt.Fprintln(out)
		fmt.Fprintf(out, "%-22s  %6s  %6s\n", "Topic", "Solved", "Failed")
		fmt.Fprintln(out, strings.Repeat("─", 38))
		for _, tc := range topics {
			t := solver.Topic(tc.Topic)
			fmt.Fprintf(out, "%-22s  %6d  %6d\n", t.Icon()+" "+t.Label(), tc.Solved, tc.Failed)
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().Bool("json", false, "Print as JSON")
}
