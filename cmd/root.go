package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/yechim/internal/config"
	"github.com/abhisek/yechim/internal/logging"
	"github.com/abhisek/yechim/internal/store"
)

const (
	// tuiAnnotation marks commands that take over the terminal; their logs
	// must not go to stderr.
	tuiAnnotation = "tui"

	// writesConfigAnnotation marks commands whose --config names a file
	// they are about to create.
	writesConfigAnnotation = "writes-config"
)

var (
	cfg       *config.Config
	logCloser io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "yechim",
	Short: "Step-by-step math problem solver",
	Long: "Yechim classifies a math problem, solves it and explains every step.\n" +
		"Run without arguments for the interactive terminal app.",
	Annotations:       map[string]string{tuiAnnotation: "true"},
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	err := rootCmd.Execute()
	if logCloser != nil {
		logCloser.Close()
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default $XDG_CONFIG_HOME/yechim/config.yaml)")
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides YECHIM_STORE_PATH)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	rootCmd.Flags().Bool("skip-welcome", false, "Start on the home screen")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(solveCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(updateCmd)
}

// setup loads the configuration, applies flag overrides and installs the
// logger for every command.
func setup(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("config")
	if cmd.Annotations[writesConfigAnnotation] == "true" {
		path = ""
	}
	c, err := config.Load(path)
	if err != nil {
		return err
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		c.Logging.Level = lvl
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	var fallback io.Writer = os.Stderr
	if cmd.Annotations[tuiAnnotation] == "true" {
		fallback = io.Discard
	}
	closer, err := logging.Setup(c.Logging, fallback)
	if err != nil {
		return err
	}

	cfg, logCloser = c, closer
	return nil
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then store.path from the config, then YECHIM_STORE_PATH and the default
// XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg != nil && cfg.Store.Path != "" {
		return cfg.Store.Path, store.EnsureDir(cfg.Store.Path)
	}
	return store.DefaultDBPath()
}

func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return st, nil
}
