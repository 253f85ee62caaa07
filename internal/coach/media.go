package coach

import (
	"fmt"
	"strings"

	"server/internal/domain"
)

// MaxVideoBytes caps accepted fight footage at 100 MiB.
const MaxVideoBytes = 100 << 20

// MediaAsset is a locally spooled video pending upload. The run owns the
// spool file and removes it once the run settles.
type MediaAsset struct {
	Path     string
	MIMEType string
	Size     int64
}

// ValidateVideo rejects non-video MIME types and oversized files before the
// workflow ever starts. Failures here stay inline and never reach the run
// state machine.
func ValidateVideo(mimeType string, size int64) error {
	if !strings.HasPrefix(mimeType, "video/") {
		return fmt.Errorf("%w: only video files are accepted, got %q", domain.ErrValidation, mimeType)
	}
	if size <= 0 {
		return fmt.Errorf("%w: empty video file", domain.ErrValidation)
	}
	if size > MaxVideoBytes {
		return fmt.Errorf("%w: video exceeds the 100 MiB limit", domain.ErrValidation)
	}
	return nil
}

// ValidateParams checks the analysis form inputs. The weight class must be
// one of the twelve supported divisions; names are free text but required.
func ValidateParams(params domain.AnalysisParams, isWeightClass func(string) bool) error {
	if strings.TrimSpace(params.FighterName) == "" {
		return fmt.Errorf("%w: fighter name is required", domain.ErrValidation)
	}
	if strings.TrimSpace(params.OpponentName) == "" {
		return fmt.Errorf("%w: opponent name is required", domain.ErrValidation)
	}
	if !isWeightClass(params.WeightClass) {
		return fmt.Errorf("%w: unknown weight class %q", domain.ErrValidation, params.WeightClass)
	}
	return nil
}
