package handlers

import (
	"net/http"
	"strings"

	"toko-olahraga/internal/middleware"
	"toko-olahraga/internal/models"
	"toko-olahraga/internal/services"

	"github.com/rs/zerolog"
)

type TransactionHandler struct {
	ledger *services.LedgerService
	logger zerolog.Logger
}

func NewTransactionHandler(ledger *services.LedgerService, logger zerolog.Logger) *TransactionHandler {
	return &TransactionHandler{
		ledger: ledger,
		logger: logger,
	}
}

func (h *TransactionHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	username, ok := middleware.GetUsername(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized", "User not authenticated")
		return
	}

	txs := h.ledger.History(username)
	views := make([]models.TransactionView, len(txs))
	for i, tx := range txs {
		views[i] = models.NewTransactionView(tx)
	}
	respondWithJSON(w, http.StatusOK, views)
}

func (h *TransactionHandler) GetOpenRentals(w http.ResponseWriter, r *http.Request) {
	username, ok := middleware.GetUsername(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized", "User not authenticated")
		return
	}
	respondWithJSON(w, http.StatusOK, nonNil(h.ledger.ListRentalsOpenFor(username)))
}

func (h *TransactionHandler) ReturnRental(w http.ResponseWriter, r *http.Request) {
	username, ok := middleware.GetUsername(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized", "User not authenticated")
		return
	}

	var req models.ReturnRequest
	if err := decodeJSON(r, &req); err != nil || strings.TrimSpace(req.ProductName) == "" {
		respondWithError(w, http.StatusBadRequest, "invalid_request", "product_name is required")
		return
	}

	returned, err := h.ledger.ReturnLine(username, req.ProductName)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, returned)
}

// GetAllOpenRentals and GetAllHistory are mounted on admin-only routes.
func (h *TransactionHandler) GetAllOpenRentals(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, nonNil(h.ledger.ListAllOpenRentals()))
}

func (h *TransactionHandler) GetAllHistory(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.ledger.AllHistory())
}

func nonNil(rentals []models.OpenRental) []models.OpenRental {
	if rentals == nil {
		return []models.OpenRental{}
	}
	return rentals
}
