package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/siddharth-200231/ADProject/internal/domain"
)

// CartService is what the cart endpoints need from the core.
// Consumers define this interface, not the service implementation.
type CartService interface {
	CreateSession() string
	GetCart(ctx context.Context, owner domain.Owner) (*domain.Cart, error)
	AddItem(ctx context.Context, owner domain.Owner, productID int64, quantity int) (*domain.CartItem, error)
	UpdateItemQuantity(ctx context.Context, itemID string, quantity int) (*domain.CartItem, error)
	RemoveItem(ctx context.Context, itemID string) error
	ClearCart(ctx context.Context, owner domain.Owner) error
	Merge(ctx context.Context, sessionID string, userID int64) error
}

type CartHandler struct {
	service CartService
}

func NewCartHandler(service CartService) *CartHandler {
	return &CartHandler{service: service}
}

// ownerFromRequest reads the {ownerId} path segment and the isUserCart
// query flag. A user owner id must be numeric; a session owner id is
// an opaque token.
func ownerFromRequest(r *http.Request) (domain.Owner, bool) {
	ownerID := chi.URLParam(r, "ownerId")
	if r.URL.Query().Get("isUserCart") == "true" {
		userID, err := strconv.ParseInt(ownerID, 10, 64)
		if err != nil || userID <= 0 {
			return domain.Owner{}, false
		}
		return domain.AccountOwner(userID), true
	}
	if ownerID == "" {
		return domain.Owner{}, false
	}
	return domain.SessionOwner(ownerID), true
}

func (h *CartHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"sessionId": h.service.CreateSession(),
	})
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFromRequest(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid_owner", "owner id is malformed")
		return
	}

	cart, err := h.service.GetCart(r.Context(), owner)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cart)
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFromRequest(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid_owner", "owner id is malformed")
		return
	}

	productID, err := strconv.ParseInt(chi.URLParam(r, "productId"), 10, 64)
	if err != nil || productID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product id must be a positive integer")
		return
	}

	quantity := 1
	if q := r.URL.Query().Get("quantity"); q != "" {
		quantity, err = strconv.Atoi(q)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be an integer")
			return
		}
	}

	item, err := h.service.AddItem(r.Context(), owner, productID, quantity)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, item)
}

func (h *CartHandler) UpdateItemQuantity(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemId")

	quantity, err := strconv.Atoi(r.URL.Query().Get("quantity"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be an integer")
		return
	}

	item, err := h.service.UpdateItemQuantity(r.Context(), itemID, quantity)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	// A nil item signals removal, not an error.
	respondJSON(w, http.StatusOK, item)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemId")

	if err := h.service.RemoveItem(r.Context(), itemID); err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "item removed"})
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFromRequest(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid_owner", "owner id is malformed")
		return
	}

	if err := h.service.ClearCart(r.Context(), owner); err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "cart cleared"})
}

func (h *CartHandler) Merge(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("sessionId")
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "invalid_session_id", "sessionId is required")
		return
	}

	userID, err := strconv.ParseInt(r.URL.Query().Get("userId"), 10, 64)
	if err != nil || userID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_user_id", "userId must be a positive integer")
		return
	}

	if err := h.service.Merge(r.Context(), sessionID, userID); err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "carts merged"})
}
