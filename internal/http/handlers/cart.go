package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"server/internal/catalog"
	"server/internal/domain"
)

type cartAddRequest struct {
	ProductID int `json:"product_id"`
}

type cartUpdateRequest struct {
	Quantity int `json:"quantity"`
}

type cartResponse struct {
	Items     []domain.CartItem `json:"items"`
	ItemCount int               `json:"item_count"`
	Subtotal  float64           `json:"subtotal"`
}

func (a *App) cartState(sessionID string) cartResponse {
	return cartResponse{
		Items:     a.Carts.Items(sessionID),
		ItemCount: a.Carts.ItemCount(sessionID),
		Subtotal:  a.Carts.Subtotal(sessionID),
	}
}

func (a *App) CartShow(w http.ResponseWriter, r *http.Request) {
	sid := a.sessionID(w, r)
	a.json(w, http.StatusOK, a.cartState(sid))
}

func (a *App) CartAdd(w http.ResponseWriter, r *http.Request) {
	sid := a.sessionID(w, r)
	var req cartAddRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	product, ok := a.Catalog.ByID(req.ProductID)
	if !ok {
		a.error(w, http.StatusNotFound, "not_found", "unknown product")
		return
	}
	a.Carts.Add(sid, product)
	a.json(w, http.StatusOK, a.cartState(sid))
}

func (a *App) CartUpdate(w http.ResponseWriter, r *http.Request) {
	sid := a.sessionID(w, r)
	productID, err := strconv.Atoi(chi.URLParam(r, "product_id"))
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid product id")
		return
	}
	var req cartUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	a.Carts.UpdateQuantity(sid, productID, req.Quantity)
	a.json(w, http.StatusOK, a.cartState(sid))
}

func (a *App) CartRemove(w http.ResponseWriter, r *http.Request) {
	sid := a.sessionID(w, r)
	productID, err := strconv.Atoi(chi.URLParam(r, "product_id"))
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid product id")
		return
	}
	a.Carts.Remove(sid, productID)
	a.json(w, http.StatusOK, a.cartState(sid))
}

// CartCheckout settles the cart. It only proceeds when the cart holds at
// least one item.
func (a *App) CartCheckout(w http.ResponseWriter, r *http.Request) {
	sid := a.sessionID(w, r)
	items, total, err := a.Carts.Checkout(sid)
	if err != nil {
		a.fromErr(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"items":           items,
		"total":           total,
		"total_formatted": catalog.FormatPrice(total),
		"status":          "confirmed",
	})
}
