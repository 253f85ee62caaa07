package coach

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"server/internal/domain"
	"server/internal/infra"
)

// Registry tracks live analysis runs by id. Runs are independent: each owns
// its media asset, handle, and result, and nothing is shared between them.
type Registry struct {
	analyzer *Analyzer
	logger   infra.Logger

	mu   sync.Mutex
	runs map[string]*Run
}

// NewRegistry builds an empty run registry over the analyzer.
func NewRegistry(analyzer *Analyzer, logger infra.Logger) *Registry {
	return &Registry{analyzer: analyzer, logger: logger, runs: make(map[string]*Run)}
}

// Start validates the inputs and launches a new run. The run's lifetime is
// detached from the originating request so polling clients can observe it;
// cancellation goes through Run.Cancel, not the request context.
func (g *Registry) Start(asset MediaAsset, params domain.AnalysisParams) (*Run, error) {
	if err := ValidateVideo(asset.MIMEType, asset.Size); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	run := newRun(uuid.NewString(), asset, params, g.analyzer, g.logger, cancel)

	g.mu.Lock()
	g.runs[run.ID()] = run
	g.mu.Unlock()

	g.logger.Info().
		Str("run_id", run.ID()).
		Str("fighter", params.FighterName).
		Str("weight_class", params.WeightClass).
		Int64("bytes", asset.Size).
		Msg("coach: run started")

	go run.execute(ctx)
	return run, nil
}

// Get looks a run up by id.
func (g *Registry) Get(id string) (*Run, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	run, ok := g.runs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return run, nil
}

// Cancel aborts a run's in-flight work.
func (g *Registry) Cancel(id string) error {
	run, err := g.Get(id)
	if err != nil {
		return err
	}
	run.Cancel()
	return nil
}

// Remove resets a run: any in-flight work is cancelled and the run, its
// error, and its result are discarded.
func (g *Registry) Remove(id string) error {
	g.mu.Lock()
	run, ok := g.runs[id]
	if ok {
		delete(g.runs, id)
	}
	g.mu.Unlock()
	if !ok {
		return domain.ErrNotFound
	}
	run.Cancel()
	return nil
}
