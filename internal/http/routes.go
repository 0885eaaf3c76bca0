package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/siddharth-200231/ADProject/internal/auth"
	"github.com/siddharth-200231/ADProject/internal/catalog"
)

// NewRouter wires every endpoint. The cart paths are the contract
// clients integrate against; the product and auth paths mirror the
// storefront API.
func NewRouter(
	carts CartService,
	products catalog.Store,
	accounts AccountService,
	tokens *auth.Tokens,
	requestTimeout time.Duration,
) *chi.Mux {
	cartHandler := NewCartHandler(carts)
	productHandler := NewProductHandler(products)
	userHandler := NewUserHandler(accounts)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/cart", func(r chi.Router) {
		r.Post("/session", cartHandler.CreateSession)
		r.Post("/merge", cartHandler.Merge)
		r.Put("/item/{itemId}", cartHandler.UpdateItemQuantity)
		r.Delete("/item/{itemId}", cartHandler.RemoveItem)
		r.Get("/{ownerId}", cartHandler.GetCart)
		r.Delete("/{ownerId}", cartHandler.ClearCart)
		r.Post("/{ownerId}/add/{productId}", cartHandler.AddItem)
	})

	r.Get("/products", productHandler.ListProducts)
	r.Get("/product/{id}", productHandler.GetProduct)
	r.Post("/product", productHandler.CreateProduct)
	r.Get("/categories", productHandler.ListCategories)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", userHandler.Register)
		r.Post("/login", userHandler.Login)
		r.With(AuthMiddleware(tokens)).Get("/me", userHandler.Me)
	})

	return r
}
