package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/ecofinds/marketplace-api/internal/domain/cart"
	"github.com/ecofinds/marketplace-api/internal/domain/catalog"
)

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	state, err := h.carts.Get(r.Context(), identity(r.Context()).ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	h.writeCart(w, state)
}

// addCartItem resolves the product in the merged catalog and applies an ADD.
// Unknown products are rejected so a cart can never hold a phantom line.
func (h *Handler) addCartItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID int64 `json:"productId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.source.GetByID(r.Context(), req.ProductID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusUnprocessableEntity, "unknown product")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	state, err := h.carts.Add(r.Context(), identity(r.Context()).ID, *p)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	h.writeCart(w, state)
}

func (h *Handler) updateCartItem(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	state, err := h.carts.UpdateQuantity(r.Context(), identity(r.Context()).ID, productID, req.Quantity)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	h.writeCart(w, state)
}

// removeCartItem is idempotent: removing an absent product still returns the
// current snapshot with 200.
func (h *Handler) removeCartItem(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	state, err := h.carts.Remove(r.Context(), identity(r.Context()).ID, productID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	h.writeCart(w, state)
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	state, err := h.carts.Clear(r.Context(), identity(r.Context()).ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	h.writeCart(w, state)
}

func (h *Handler) writeCart(w http.ResponseWriter, state cart.State) {
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		encodeCartState(e, state)
	})
}
