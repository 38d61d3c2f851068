package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/ecofinds/marketplace-api/internal/domain/listing"
)

// listingRequest is the JSON body for creating and updating a listing.
type listingRequest struct {
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Category      string          `json:"category"`
	Condition     string          `json:"condition"`
	Tags          []string        `json:"tags"`
	Images        []string        `json:"images"`
	Price         decimal.Decimal `json:"price"`
	OriginalPrice decimal.Decimal `json:"originalPrice"`
}

func (req listingRequest) draft() listing.Draft {
	return listing.Draft{
		Name:          req.Name,
		Description:   req.Description,
		Category:      req.Category,
		Condition:     req.Condition,
		Tags:          req.Tags,
		Images:        req.Images,
		Price:         req.Price,
		OriginalPrice: req.OriginalPrice,
	}
}

func (h *Handler) createListing(w http.ResponseWriter, r *http.Request) {
	var req listingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	l, err := h.listings.Create(r.Context(), identity(r.Context()).ID, req.draft())
	if err != nil {
		h.writeListingError(w, err)
		return
	}
	h.writeListing(w, http.StatusCreated, *l)
}

func (h *Handler) getListing(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid listing id")
		return
	}

	l, err := h.listings.Get(r.Context(), id)
	if err != nil {
		h.writeListingError(w, err)
		return
	}
	h.writeListing(w, http.StatusOK, *l)
}

func (h *Handler) listOwnListings(w http.ResponseWriter, r *http.Request) {
	all, err := h.listings.ListBySeller(r.Context(), identity(r.Context()).ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("listings")
		e.ArrStart()
		for _, l := range all {
			encodeListing(e, l)
		}
		e.ArrEnd()
		e.ObjEnd()
	})
}

func (h *Handler) updateListing(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid listing id")
		return
	}

	var req listingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	l, err := h.listings.Update(r.Context(), identity(r.Context()).ID, id, req.draft())
	if err != nil {
		h.writeListingError(w, err)
		return
	}
	h.writeListing(w, http.StatusOK, *l)
}

func (h *Handler) markListingSold(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid listing id")
		return
	}

	l, err := h.listings.MarkSold(r.Context(), identity(r.Context()).ID, id)
	if err != nil {
		h.writeListingError(w, err)
		return
	}
	h.writeListing(w, http.StatusOK, *l)
}

func (h *Handler) deleteListing(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid listing id")
		return
	}

	if err := h.listings.Delete(r.Context(), identity(r.Context()).ID, id); err != nil {
		h.writeListingError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeListing(w http.ResponseWriter, status int, l listing.Listing) {
	writeJSON(w, status, func(e *jx.Encoder) {
		encodeListing(e, l)
	})
}

func (h *Handler) writeListingError(w http.ResponseWriter, err error) {
	var verr *listing.ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusUnprocessableEntity, verr.Error())
	case errors.Is(err, listing.ErrNotFound):
		writeError(w, http.StatusNotFound, "listing not found")
	case errors.Is(err, listing.ErrForbidden):
		writeError(w, http.StatusForbidden, "not your listing")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
