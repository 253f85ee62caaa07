package handlers

import (
	"io"
	"net/http"
	"strings"

	"server/internal/stylist"
)

// Recommend runs the stylist flow: one uploaded photo plus a free-text
// request, answered with resolved catalog recommendations. Zero matches is
// a normal answer and is reported as such, not as an error.
func (a *App) Recommend(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, stylist.MaxImageBytes+multipartMemoryLimit)
	if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
		a.error(w, http.StatusRequestEntityTooLarge, "validation_failed", "image exceeds the 5 MiB limit")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		a.error(w, http.StatusUnprocessableEntity, "validation_failed", "image file is required")
		return
	}
	defer file.Close()

	mimeType := header.Header.Get("Content-Type")
	if err := stylist.ValidateImage(mimeType, header.Size); err != nil {
		a.fromErr(w, err)
		return
	}

	prompt := strings.TrimSpace(r.FormValue("prompt"))
	if prompt == "" {
		a.error(w, http.StatusUnprocessableEntity, "validation_failed", "prompt is required")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to read image")
		return
	}

	recommendations, err := a.Stylist.Recommend(r.Context(), data, mimeType, prompt)
	if err != nil {
		a.fromErr(w, err)
		return
	}

	a.json(w, http.StatusOK, map[string]any{
		"items": recommendations,
		"count": len(recommendations),
	})
}
