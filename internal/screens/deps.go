// Package screens holds what the TUI screens share. Each screen lives in
// its own subpackage.
package screens

import (
	"github.com/abhisek/yechim/internal/extract"
	"github.com/abhisek/yechim/internal/solver"
	"github.com/abhisek/yechim/internal/store"
	"github.com/abhisek/yechim/internal/tracker"
)

// Deps are the services screens read from and write to.
type Deps struct {
	Solver  *solver.Solver
	Tracker *tracker.Tracker

	// History is nil when running without a store.
	History store.HistoryRepo

	// Extractor is nil when no vision provider is configured.
	Extractor *extract.Extractor
}
