package handler

import (
	"net/http"
	"time"

	"github.com/go-faster/jx"

	"github.com/ecofinds/marketplace-api/internal/domain/cart"
	"github.com/ecofinds/marketplace-api/internal/domain/catalog"
	"github.com/ecofinds/marketplace-api/internal/domain/listing"
)

// writeJSON streams an encoded document to the client. encode builds the
// whole body; nothing is written until it returns.
func writeJSON(w http.ResponseWriter, status int, encode func(e *jx.Encoder)) {
	e := &jx.Encoder{}
	encode(e)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(e.Bytes())
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("error")
		e.Str(msg)
		e.ObjEnd()
	})
}

func encodeStrings(e *jx.Encoder, field string, values []string) {
	e.FieldStart(field)
	e.ArrStart()
	for _, v := range values {
		e.Str(v)
	}
	e.ArrEnd()
}

func encodeProduct(e *jx.Encoder, p catalog.Product) {
	e.ObjStart()
	e.FieldStart("id")
	e.Int64(p.ID)
	e.FieldStart("name")
	e.Str(p.Name)
	e.FieldStart("description")
	e.Str(p.Description)
	e.FieldStart("category")
	e.Str(p.Category)
	e.FieldStart("condition")
	e.Str(p.Condition)
	encodeStrings(e, "tags", p.Tags)
	e.FieldStart("price")
	e.RawStr(p.Price.String())
	e.FieldStart("originalPrice")
	e.RawStr(p.OriginalPrice.String())
	e.FieldStart("rating")
	e.Float64(p.Rating)
	e.FieldStart("reviews")
	e.Int(p.Reviews)
	encodeStrings(e, "images", p.Images)
	e.FieldStart("inStock")
	e.Bool(p.InStock)
	e.FieldStart("seller")
	e.Str(p.Seller)
	e.FieldStart("location")
	e.Str(p.Location)
	e.ObjEnd()
}

func encodeGroups(e *jx.Encoder, groups []catalog.Group) {
	e.ObjStart()
	e.FieldStart("groups")
	e.ArrStart()
	for _, g := range groups {
		e.ObjStart()
		e.FieldStart("label")
		e.Str(g.Label)
		e.FieldStart("products")
		e.ArrStart()
		for _, p := range g.Products {
			encodeProduct(e, p)
		}
		e.ArrEnd()
		e.ObjEnd()
	}
	e.ArrEnd()
	e.ObjEnd()
}

func encodeCartState(e *jx.Encoder, state cart.State) {
	e.ObjStart()
	e.FieldStart("items")
	e.ArrStart()
	for _, item := range state.Items {
		e.ObjStart()
		e.FieldStart("product")
		encodeProduct(e, item.Product)
		e.FieldStart("quantity")
		e.Int(item.Quantity)
		e.ObjEnd()
	}
	e.ArrEnd()
	e.FieldStart("totalItems")
	e.Int(state.TotalItems)
	e.FieldStart("totalPrice")
	e.RawStr(cart.TotalPrice(state).StringFixed(2))
	e.ObjEnd()
}

func encodeListing(e *jx.Encoder, l listing.Listing) {
	e.ObjStart()
	e.FieldStart("id")
	e.Int64(l.ID)
	e.FieldStart("sellerId")
	e.Str(l.SellerID)
	e.FieldStart("name")
	e.Str(l.Name)
	e.FieldStart("description")
	e.Str(l.Description)
	e.FieldStart("category")
	e.Str(l.Category)
	e.FieldStart("condition")
	e.Str(l.Condition)
	encodeStrings(e, "tags", l.Tags)
	encodeStrings(e, "images", l.Images)
	e.FieldStart("price")
	e.RawStr(l.Price.String())
	e.FieldStart("originalPrice")
	e.RawStr(l.OriginalPrice.String())
	e.FieldStart("status")
	e.Str(string(l.Status))
	e.FieldStart("createdAt")
	e.Str(l.CreatedAt.Format(time.RFC3339))
	e.FieldStart("updatedAt")
	e.Str(l.UpdatedAt.Format(time.RFC3339))
	e.ObjEnd()
}
