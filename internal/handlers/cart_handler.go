package handlers

import (
	"net/http"

	"toko-olahraga/internal/middleware"
	"toko-olahraga/internal/models"
	"toko-olahraga/internal/services"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

type CartHandler struct {
	ledger *services.LedgerService
	logger zerolog.Logger
}

func NewCartHandler(ledger *services.LedgerService, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		ledger: ledger,
		logger: logger,
	}
}

func (h *CartHandler) StartCart(w http.ResponseWriter, r *http.Request) {
	username, ok := middleware.GetUsername(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized", "User not authenticated")
		return
	}

	var req models.StartCartRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	cart, err := h.ledger.StartCart(username, req.Kind)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, cart.View())
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	cart, ok := h.ownedCart(w, r)
	if !ok {
		return
	}
	respondWithJSON(w, http.StatusOK, cart.View())
}

func (h *CartHandler) AddLine(w http.ResponseWriter, r *http.Request) {
	cart, ok := h.ownedCart(w, r)
	if !ok {
		return
	}

	var req models.AddLineRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	if err := cart.AddLine(req.ProductID, req.Quantity, req.Days); err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, cart.View())
}

func (h *CartHandler) RemoveLine(w http.ResponseWriter, r *http.Request) {
	cart, ok := h.ownedCart(w, r)
	if !ok {
		return
	}
	productID, ok := productIDVar(w, r, "productID")
	if !ok {
		return
	}

	if err := cart.RemoveLine(productID); err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, cart.View())
}

func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	cart, ok := h.ownedCart(w, r)
	if !ok {
		return
	}

	var req models.CheckoutRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	tx, err := cart.Checkout(req.PaidAmount)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, models.NewTransactionView(tx))
}

func (h *CartHandler) CancelCart(w http.ResponseWriter, r *http.Request) {
	cart, ok := h.ownedCart(w, r)
	if !ok {
		return
	}

	if err := cart.Cancel(); err != nil {
		respondWithServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ownedCart resolves the cart in the path and checks it belongs to the caller.
func (h *CartHandler) ownedCart(w http.ResponseWriter, r *http.Request) (*services.Cart, bool) {
	username, ok := middleware.GetUsername(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized", "User not authenticated")
		return nil, false
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_cart_id", "Invalid cart ID")
		return nil, false
	}

	cart, err := h.ledger.Cart(id)
	if err != nil {
		respondWithServiceError(w, err)
		return nil, false
	}
	if cart.Owner() != username {
		respondWithError(w, http.StatusForbidden, "forbidden", "You can only use your own cart")
		return nil, false
	}
	return cart, true
}
