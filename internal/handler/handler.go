package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ecofinds/marketplace-api/internal/domain/auth"
	"github.com/ecofinds/marketplace-api/internal/domain/cart"
	"github.com/ecofinds/marketplace-api/internal/domain/catalog"
	"github.com/ecofinds/marketplace-api/internal/domain/listing"
)

// CatalogSource supplies the merged, queryable catalog.
type CatalogSource interface {
	Products(ctx context.Context) []catalog.Product
	GetByID(ctx context.Context, id int64) (*catalog.Product, error)
}

// Handler owns the HTTP surface, delegating business logic to the domain
// services.
type Handler struct {
	source   CatalogSource
	carts    *cart.Service
	listings *listing.Service
	auth     *auth.Authenticator
}

// NewHandler constructs a Handler with the required domain dependencies.
func NewHandler(
	source CatalogSource,
	carts *cart.Service,
	listings *listing.Service,
	authenticator *auth.Authenticator,
) *Handler {
	return &Handler{
		source:   source,
		carts:    carts,
		listings: listings,
		auth:     authenticator,
	}
}

// Routes builds the API route tree. Catalog reads are public; cart and
// listing operations require an API key with the matching scope.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Route("/api", func(r chi.Router) {
		r.Get("/products", h.listProducts)
		r.Get("/products/{id}", h.getProduct)

		r.Route("/cart", func(r chi.Router) {
			r.Use(h.requireAuth(auth.ScopeCart))
			r.Get("/", h.getCart)
			r.Delete("/", h.clearCart)
			r.Post("/items", h.addCartItem)
			r.Patch("/items/{productID}", h.updateCartItem)
			r.Delete("/items/{productID}", h.removeCartItem)
		})

		r.Route("/listings", func(r chi.Router) {
			r.Get("/{id}", h.getListing)

			r.Group(func(r chi.Router) {
				r.Use(h.requireAuth(auth.ScopeListings))
				r.Get("/", h.listOwnListings)
				r.Post("/", h.createListing)
				r.Put("/{id}", h.updateListing)
				r.Post("/{id}/sold", h.markListingSold)
				r.Delete("/{id}", h.deleteListing)
			})
		})
	})

	return r
}
