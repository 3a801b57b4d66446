package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/abhisek/yechim/internal/extract"
	"github.com/abhisek/yechim/internal/solver"
	"github.com/abhisek/yechim/internal/store"
	"github.com/abhisek/yechim/internal/tracker"
)

var scanCmd = &cobra.Command{
	Use:   "scan <image>",
	Short: "Read a problem from a photo and solve it",
	Long: "Send the image to the configured vision model, then solve the text it\n" +
		"reads. Needs an LLM provider: set one in the config file or export\n" +
		"ANTHROPIC_API_KEY, OPENAI_API_KEY, GEMINI_API_KEY or OPENROUTER_API_KEY.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		clean, _ := cmd.Flags().GetBool("clean")
		asJSON, _ := cmd.Flags().GetBool("json")
		onlyText, _ := cmd.Flags().GetBool("text-only")

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read image: %w", err)
		}

		e, err := openEnv(cmd, clean)
		if err != nil {
			return err
		}
		defer e.Close()
		if e.Extractor == nil {
			return errors.New("no LLM provider configured; run `yechim config init` or export an API key")
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.LLM.Timeout)
		defer cancel()
		res, err := e.Extractor.Extract(ctx, data)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if onlyText {
			if asJSON {
				return printJSON(out, res)
			}
			fmt.Fprintln(out, res.Text)
			return nil
		}

		sol := e.Solver.Solve(res.Text)
		entry, err := tracker.Persist(cmd.Context(), e.Tracker, e.History, sol, store.SourceImage)
		if err != nil {
			log.Warn().Err(err).Str("id", entry.ID).Msg("failed to save solution")
		}

		if asJSON {
			if err := printJSON(out, struct {
				Extraction *extract.Result `json:"extraction"`
				Entry      tracker.Entry   `json:"entry"`
			}{res, entry}); err != nil {
				return err
			}
		} else {
			fmt.Fprintf(out, "Read: %s  (confidence %.0f%%)\n\n", res.Text, res.Confidence*100)
			printSolution(out, sol)
		}
		return failure(sol)
	},
}

func failure(sol solver.Solution) error {
	if sol.Failed() {
		return errSolveFailed
	}
	return nil
}

func init() {
	scanCmd.Flags().Bool("clean", false, "Strip OCR noise from the text (for bare equations)")
	scanCmd.Flags().Bool("json", false, "Print as JSON")
	scanCmd.Flags().Bool("text-only", false, "Print the extracted text without solving")
}
