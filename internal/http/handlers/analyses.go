package handlers

import (
	"net/http"
	"os"
	"path"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"server/internal/catalog"
	"server/internal/coach"
	"server/internal/domain"
)

// multipartMemoryLimit is the in-memory threshold before the stdlib spills
// multipart parts to its own temp files.
const multipartMemoryLimit = 8 << 20

// AnalysisCreate accepts the fight footage plus the analysis form and
// launches a run. Local validation failures answer inline; the run state
// machine only ever starts with a valid asset and parameters.
func (a *App) AnalysisCreate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, coach.MaxVideoBytes+multipartMemoryLimit)
	if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
		a.error(w, http.StatusRequestEntityTooLarge, "validation_failed", "video exceeds the 100 MiB limit")
		return
	}

	file, header, err := r.FormFile("video")
	if err != nil {
		a.error(w, http.StatusUnprocessableEntity, "validation_failed", "video file is required")
		return
	}
	defer file.Close()

	mimeType := header.Header.Get("Content-Type")
	if err := coach.ValidateVideo(mimeType, header.Size); err != nil {
		a.fromErr(w, err)
		return
	}

	params := domain.AnalysisParams{
		FighterName:  r.FormValue("fighter_name"),
		OpponentName: r.FormValue("opponent_name"),
		WeightClass:  r.FormValue("weight_class"),
	}
	if params.FighterName == "" {
		params.FighterName = catalog.DefaultFighterName
	}
	if params.WeightClass == "" {
		params.WeightClass = catalog.DefaultWeightClass
	}
	if err := coach.ValidateParams(params, catalog.IsWeightClass); err != nil {
		a.fromErr(w, err)
		return
	}

	spoolKey := path.Join("runs", uuid.NewString())
	spooledPath, size, err := a.Spool.WriteFrom(r.Context(), spoolKey, file)
	if err != nil {
		a.Logger.Error().Err(err).Msg("handlers: failed to spool upload")
		a.error(w, http.StatusInternalServerError, "internal", "failed to accept upload")
		return
	}

	run, err := a.Runs.Start(coach.MediaAsset{Path: spooledPath, MIMEType: mimeType, Size: size}, params)
	if err != nil {
		os.Remove(spooledPath)
		a.fromErr(w, err)
		return
	}

	a.json(w, http.StatusAccepted, run.Snapshot())
}

// AnalysisStatus projects the run's phase, progress, and settled payload.
func (a *App) AnalysisStatus(w http.ResponseWriter, r *http.Request) {
	run, err := a.Runs.Get(chi.URLParam(r, "id"))
	if err != nil {
		a.fromErr(w, err)
		return
	}
	a.json(w, http.StatusOK, run.Snapshot())
}

// AnalysisCancel aborts the run's in-flight network work. The run settles
// in the failed phase with a cancellation message.
func (a *App) AnalysisCancel(w http.ResponseWriter, r *http.Request) {
	if err := a.Runs.Cancel(chi.URLParam(r, "id")); err != nil {
		a.fromErr(w, err)
		return
	}
	a.json(w, http.StatusAccepted, map[string]string{"status": "cancelling"})
}

// AnalysisDelete resets the workflow: the run and everything attached to it
// is discarded, cancelling it first when still active.
func (a *App) AnalysisDelete(w http.ResponseWriter, r *http.Request) {
	if err := a.Runs.Remove(chi.URLParam(r, "id")); err != nil {
		a.fromErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
