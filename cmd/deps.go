package cmd

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/abhisek/yechim/internal/extract"
	"github.com/abhisek/yechim/internal/llm"
	"github.com/abhisek/yechim/internal/screens"
	"github.com/abhisek/yechim/internal/solver"
	"github.com/abhisek/yechim/internal/store"
	"github.com/abhisek/yechim/internal/tracker"
)

// env is everything a solving command needs, built from the loaded config.
type env struct {
	store *store.Store
	screens.Deps
}

// openEnv opens the store, restores the tracker from it and, when an LLM
// provider can be discovered, builds the image extractor.
func openEnv(cmd *cobra.Command, clean bool) (*env, error) {
	ctx := cmd.Context()
	st, err := openStore(cmd)
	if err != nil {
		return nil, err
	}

	t, err := tracker.Load(ctx, st.HistoryRepo(), cfg.Solver.HistoryLimit)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("load history: %w", err)
	}

	e := &env{
		store: st,
		Deps: screens.Deps{
			Solver:  newSolver(),
			Tracker: t,
			History: st.HistoryRepo(),
		},
	}

	ex, err := newExtractor(ctx, st.EventRepo(), clean)
	if err != nil {
		log.Warn().Err(err).Msg("image extraction unavailable")
	}
	e.Extractor = ex
	return e, nil
}

func (e *env) Close() error {
	return e.store.Close()
}

func newSolver() *solver.Solver {
	return solver.New(solver.Options{StrictWordProblems: cfg.Solver.StrictWordProblems})
}

// newExtractor returns nil without error when no provider is configured.
func newExtractor(ctx context.Context, events store.EventRepo, clean bool) (*extract.Extractor, error) {
	llmCfg := cfg.LLM
	if !llmCfg.Discover() {
		return nil, nil
	}
	provider, err := llm.NewProvider(ctx, llmCfg, events)
	if err != nil {
		return nil, fmt.Errorf("create %s provider: %w", llmCfg.Provider, err)
	}
	return extract.New(provider, extract.Options{
		Clean:    clean,
		MaxBytes: int64(cfg.Server.MaxUploadMB) << 20,
	}), nil
}
