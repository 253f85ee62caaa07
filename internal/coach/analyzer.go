package coach

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"server/internal/domain"
	"server/internal/infra"
	"server/internal/providers/genai"
)

// Gateway is the slice of the Gemini client the workflow depends on: binary
// upload, handle readiness lookup, and structured inference.
type Gateway interface {
	UploadFile(ctx context.Context, r io.Reader, size int64, mimeType, displayName string) (*genai.File, error)
	GetFile(ctx context.Context, name string) (*genai.File, error)
	GenerateContent(ctx context.Context, req genai.GenerateRequest) (string, error)
}

var _ Gateway = (*genai.Client)(nil)

// Options configures the analyzer's polling policy.
type Options struct {
	PollInterval time.Duration
	PollTimeout  time.Duration
}

const (
	defaultPollInterval = 2 * time.Second
	defaultPollTimeout  = 10 * time.Minute
)

// Analyzer drives the three network-bound stages of one analysis: upload,
// poll to readiness, structured inference. It holds no per-run state.
type Analyzer struct {
	gateway      Gateway
	logger       infra.Logger
	pollInterval time.Duration
	pollTimeout  time.Duration
}

// NewAnalyzer builds an analyzer over the given gateway.
func NewAnalyzer(gateway Gateway, logger infra.Logger, opts Options) *Analyzer {
	interval := opts.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	timeout := opts.PollTimeout
	if timeout <= 0 {
		timeout = defaultPollTimeout
	}
	return &Analyzer{gateway: gateway, logger: logger, pollInterval: interval, pollTimeout: timeout}
}

// readyAsset is the resolved reference handed from the upload/poll stages to
// the inference stage.
type readyAsset struct {
	URI      string
	MIMEType string
}

// uploadAndAwait transfers the media to the gateway and polls until the
// handle leaves PROCESSING. The progress callback receives 50 once the
// transfer itself completes and 100 once the asset is ready.
func (a *Analyzer) uploadAndAwait(ctx context.Context, asset MediaAsset, onProgress func(int)) (*readyAsset, error) {
	f, err := os.Open(asset.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: open spooled media: %v", domain.ErrTransfer, err)
	}
	defer f.Close()

	uploaded, err := a.gateway.UploadFile(ctx, f, asset.Size, asset.MIMEType, "fight-footage")
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrTransfer, err)
	}
	onProgress(50)

	ready, err := a.awaitReady(ctx, uploaded)
	if err != nil {
		return nil, err
	}
	onProgress(100)
	return ready, nil
}

// awaitReady re-queries the handle at a fixed interval until it reaches a
// terminal state or the deadline passes. The handle is never mutated
// locally; every iteration trusts only the gateway's latest answer.
func (a *Analyzer) awaitReady(ctx context.Context, file *genai.File) (*readyAsset, error) {
	deadline := time.Now().Add(a.pollTimeout)
	for file.State == genai.FileStateProcessing {
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("%w: asset still processing after %s", domain.ErrProcessingTimeout, a.pollTimeout)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(a.pollInterval):
		}
		next, err := a.gateway.GetFile(ctx, file.Name)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("%w: %v", domain.ErrRemoteProcessing, err)
		}
		file = next
	}

	if file.State == genai.FileStateFailed {
		return nil, fmt.Errorf("%w: gateway reported failure for %s", domain.ErrRemoteProcessing, file.Name)
	}
	if file.URI == "" || file.MIMEType == "" {
		return nil, fmt.Errorf("%w: ready asset missing uri or mime type", domain.ErrIncompleteAsset)
	}
	return &readyAsset{URI: file.URI, MIMEType: file.MIMEType}, nil
}

const analysisInstruction = `You are an expert MMA (Mixed Martial Arts) coach and analyst. Your task is to analyze the provided fight video clip and generate a concise, data-driven report. Focus on the fighter who is more prominent or appears to be the subject of the analysis. Provide objective feedback and actionable advice. Based on the key insights and recommended training focus, generate a comprehensive 7-day training schedule. Respond ONLY with a valid JSON object that adheres to the provided schema.`

// analyze issues the single structured inference call against the ready
// asset and validates the reply.
func (a *Analyzer) analyze(ctx context.Context, asset *readyAsset, params domain.AnalysisParams) (*domain.AnalysisResult, error) {
	task := fmt.Sprintf(
		"Analyze this MMA fight footage focusing on fighter %s who is facing opponent %s in the %s division. "+
			"Provide a comparative analysis of %s's performance against their opponent in this clip. "+
			"Based on this, generate a detailed breakdown of %s's performance and a recommended weekly training schedule "+
			"tailored to exploit the opponent's weaknesses and bolster their own strengths.",
		params.FighterName, params.OpponentName, params.WeightClass, params.FighterName, params.FighterName,
	)

	text, err := a.gateway.GenerateContent(ctx, genai.GenerateRequest{
		SystemInstruction: analysisInstruction,
		Parts: []genai.Part{
			genai.FilePart(asset.URI, asset.MIMEType),
			genai.TextPart(task),
		},
		Schema: analysisSchema(),
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrInference, err)
	}

	return parseAnalysis(text)
}

// parseAnalysis treats the model reply as untrusted text: it must parse as
// JSON and satisfy the schema shape structurally before being exposed.
func parseAnalysis(text string) (*domain.AnalysisResult, error) {
	cleaned := genai.ExtractJSON(text)
	if cleaned == "" {
		return nil, fmt.Errorf("%w: empty reply", domain.ErrMalformedResponse)
	}
	var result domain.AnalysisResult
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}
	if err := validateResult(&result); err != nil {
		return nil, err
	}
	return &result, nil
}

func validateResult(result *domain.AnalysisResult) error {
	days := []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}
	for i, entry := range result.TrainingSchedule.Days() {
		if strings.TrimSpace(entry) == "" {
			return fmt.Errorf("%w: training schedule missing %s", domain.ErrMalformedResponse, days[i])
		}
	}
	if len(result.KeyInsights) == 0 {
		return fmt.Errorf("%w: no key insights returned", domain.ErrMalformedResponse)
	}
	if strings.TrimSpace(result.TrainingFocus.Title) == "" || len(result.TrainingFocus.Points) == 0 {
		return fmt.Errorf("%w: training focus incomplete", domain.ErrMalformedResponse)
	}
	return nil
}

// userMessage maps a stage failure to the text shown to the user. Sentinel
// kinds get a stable, user-safe message; anything else falls back to a
// generic one.
func userMessage(err error) string {
	switch {
	case errors.Is(err, context.Canceled):
		return "Analysis cancelled."
	case errors.Is(err, domain.ErrTransfer):
		return "Failed to upload video. Please try again."
	case errors.Is(err, domain.ErrRemoteProcessing):
		return "Video processing failed after upload."
	case errors.Is(err, domain.ErrIncompleteAsset):
		return "Video processing succeeded, but necessary file data was not returned."
	case errors.Is(err, domain.ErrProcessingTimeout):
		return "Video processing took too long. Please try again with a shorter clip."
	case errors.Is(err, domain.ErrMalformedResponse):
		return "The AI returned an unreadable analysis. Please try again."
	case errors.Is(err, domain.ErrInference):
		return "Failed to get analysis from AI. The model may have been unable to process the video."
	default:
		return "An unknown error occurred."
	}
}
