package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/yechim/internal/app"
)

var playCmd = &cobra.Command{
	Use:         "play",
	Short:       "Start the interactive solver",
	Annotations: map[string]string{tuiAnnotation: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func init() {
	playCmd.Flags().Bool("skip-welcome", false, "Start on the home screen")
}

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	e, err := openEnv(cmd, false)
	if err != nil {
		return err
	}
	defer e.Close()

	if e.Extractor == nil {
		fmt.Fprintln(os.Stderr, "LLM provider not configured; photo scanning is unavailable.")
	}

	skip, _ := cmd.Flags().GetBool("skip-welcome")
	return app.Run(app.Options{Deps: e.Deps, SkipWelcome: skip})
}
