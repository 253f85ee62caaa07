package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"server/internal/cart"
	"server/internal/catalog"
	"server/internal/coach"
	"server/internal/domain"
	"server/internal/infra"
	"server/internal/storage"
	"server/internal/stylist"
)

// App bundles the handler dependencies: the run registry for the coach
// workflow, the storefront catalog and carts, the stylist, and the media
// spool.
type App struct {
	Logger  infra.Logger
	Catalog *catalog.Catalog
	Carts   *cart.Store
	Runs    *coach.Registry
	Stylist *stylist.Stylist
	Spool   *storage.Spool
}

// NewApp wires the handler container.
func NewApp(logger infra.Logger, cat *catalog.Catalog, carts *cart.Store, runs *coach.Registry, sty *stylist.Stylist, spool *storage.Spool) *App {
	return &App{Logger: logger, Catalog: cat, Carts: carts, Runs: runs, Stylist: sty, Spool: spool}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, kind, message string) {
	a.json(w, code, map[string]string{"error": kind, "message": message})
}

// fromErr maps a domain error onto the response envelope.
func (a *App) fromErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		a.error(w, http.StatusUnprocessableEntity, "validation_failed", userFacing(err))
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusNotFound, "not_found", "resource not found")
	case errors.Is(err, domain.ErrEmptyCart):
		a.error(w, http.StatusBadRequest, "empty_cart", "cart is empty")
	case errors.Is(err, domain.ErrRecommendation):
		a.error(w, http.StatusBadGateway, "recommendation_failed", "Failed to get AI recommendations. Please try again.")
	default:
		a.error(w, http.StatusInternalServerError, "internal", "internal error")
	}
}

// userFacing strips the sentinel prefix ("validation failed: ") so inline
// messages read naturally.
func userFacing(err error) string {
	msg := err.Error()
	if prefix := domain.ErrValidation.Error() + ": "; len(msg) > len(prefix) && msg[:len(prefix)] == prefix {
		return msg[len(prefix):]
	}
	return msg
}

// sessionID reads the caller's cart session, minting one when absent. The
// issued id is echoed back so the client can persist it.
func (a *App) sessionID(w http.ResponseWriter, r *http.Request) string {
	sid := r.Header.Get("X-Session-ID")
	if sid == "" {
		sid = uuid.NewString()
	}
	w.Header().Set("X-Session-ID", sid)
	return sid
}
