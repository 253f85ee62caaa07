package coach

import (
	"context"
	"os"
	"sync"
	"time"

	"server/internal/domain"
	"server/internal/infra"
)

// Phase is one mutually exclusive state of a run's lifecycle.
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseUploading Phase = "uploading"
	PhaseAnalyzing Phase = "analyzing"
	PhaseSucceeded Phase = "succeeded"
	PhaseFailed    Phase = "failed"
)

// Snapshot is the read-only projection of a run handed to the presentation
// layer. Exactly one of Result and Error is set once the run has settled;
// neither is set while it is still moving.
type Snapshot struct {
	ID        string                 `json:"id"`
	Phase     Phase                  `json:"phase"`
	Progress  int                    `json:"progress"`
	Params    domain.AnalysisParams  `json:"params"`
	Error     string                 `json:"error,omitempty"`
	Result    *domain.AnalysisResult `json:"result,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// Run is one analysis workflow instance. All mutation happens on the run's
// own goroutine; readers only ever see a Snapshot.
type Run struct {
	id       string
	params   domain.AnalysisParams
	asset    MediaAsset
	analyzer *Analyzer
	logger   infra.Logger
	cancel   context.CancelFunc
	done     chan struct{}

	mu        sync.Mutex
	phase     Phase
	progress  int
	errMsg    string
	result    *domain.AnalysisResult
	createdAt time.Time
	updatedAt time.Time
}

func newRun(id string, asset MediaAsset, params domain.AnalysisParams, analyzer *Analyzer, logger infra.Logger, cancel context.CancelFunc) *Run {
	now := time.Now()
	return &Run{
		id:        id,
		params:    params,
		asset:     asset,
		analyzer:  analyzer,
		logger:    logger,
		cancel:    cancel,
		done:      make(chan struct{}),
		phase:     PhaseIdle,
		createdAt: now,
		updatedAt: now,
	}
}

// ID returns the run identifier.
func (r *Run) ID() string { return r.id }

// Snapshot returns the current projection of the run.
func (r *Run) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Snapshot{
		ID:        r.id,
		Phase:     r.phase,
		Progress:  r.progress,
		Params:    r.params,
		Error:     r.errMsg,
		Result:    r.result,
		CreatedAt: r.createdAt,
		UpdatedAt: r.updatedAt,
	}
}

// Active reports whether the run is still uploading or analyzing.
func (r *Run) Active() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.phase == PhaseIdle || r.phase == PhaseUploading || r.phase == PhaseAnalyzing
}

// Cancel aborts the run's in-flight network work. The run settles in the
// failed phase with a cancellation message.
func (r *Run) Cancel() {
	r.cancel()
}

// Done is closed once the run's goroutine has exited.
func (r *Run) Done() <-chan struct{} { return r.done }

// execute drives the stages strictly in sequence: upload, poll to ready,
// infer. No stage starts before the prior one's success.
func (r *Run) execute(ctx context.Context) {
	defer close(r.done)
	defer os.Remove(r.asset.Path)

	r.setPhase(PhaseUploading)
	ready, err := r.analyzer.uploadAndAwait(ctx, r.asset, r.setProgress)
	if err != nil {
		r.fail(err)
		return
	}

	r.setPhase(PhaseAnalyzing)
	result, err := r.analyzer.analyze(ctx, ready, r.params)
	if err != nil {
		r.fail(err)
		return
	}
	r.succeed(result)
}

func (r *Run) setPhase(phase Phase) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.phase = phase
	r.progress = 0
	r.updatedAt = time.Now()
}

func (r *Run) setProgress(progress int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.progress = progress
	r.updatedAt = time.Now()
}

func (r *Run) succeed(result *domain.AnalysisResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.phase = PhaseSucceeded
	r.progress = 0
	r.result = result
	r.errMsg = ""
	r.updatedAt = time.Now()
	r.logger.Info().Str("run_id", r.id).Msg("coach: analysis succeeded")
}

func (r *Run) fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.phase = PhaseFailed
	r.progress = 0
	r.result = nil
	r.errMsg = userMessage(err)
	r.updatedAt = time.Now()
	r.logger.Warn().Err(err).Str("run_id", r.id).Msg("coach: analysis failed")
}
