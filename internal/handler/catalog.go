package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/ecofinds/marketplace-api/internal/domain/catalog"
)

// listProducts runs the catalog query pipeline over the merged catalog.
// Unknown sort and group keys fall back to defaults rather than failing, so
// a stale or hand-typed URL still renders the storefront.
func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	params := catalog.Params{
		Search:   q.Get("q"),
		Category: q.Get("category"),
		Sort:     catalog.ParseSortKey(q.Get("sort")),
		Group:    catalog.ParseGroupKey(q.Get("group")),
	}

	products := h.source.Products(r.Context())
	groups := catalog.Query(products, params)

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		encodeGroups(e, groups)
	})
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	p, err := h.source.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "product not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		encodeProduct(e, *p)
	})
}
