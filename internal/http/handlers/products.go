package handlers

import (
	"net/http"

	"server/internal/catalog"
)

// Products lists the catalog, optionally filtered by category and ordered
// by price. Filtering decides membership; sorting only reorders.
func (a *App) Products(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	order := catalog.SortOrder(r.URL.Query().Get("sort"))
	switch order {
	case "", catalog.SortDefault, catalog.SortPriceAsc, catalog.SortPriceDesc:
	default:
		a.error(w, http.StatusBadRequest, "bad_request", "unsupported sort order")
		return
	}
	products := a.Catalog.Products(category, order)
	a.json(w, http.StatusOK, map[string]any{"items": products, "count": len(products)})
}

// Categories returns the closed filter set: "All" plus each distinct
// product category.
func (a *App) Categories(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]any{"categories": a.Catalog.Categories()})
}

// CoachDefaults exposes the form defaults and the closed weight-class
// enumeration consumed by the coach surface.
func (a *App) CoachDefaults(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]any{
		"fighter_name":   catalog.DefaultFighterName,
		"weight_class":   catalog.DefaultWeightClass,
		"weight_classes": catalog.WeightClasses,
	})
}
