package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"toko-olahraga/internal/services"
)

type errorMapping struct {
	err    error
	status int
	code   string
}

var errorMappings = []errorMapping{
	{services.ErrNotFound, http.StatusNotFound, "not_found"},
	{services.ErrDuplicateID, http.StatusConflict, "duplicate_id"},
	{services.ErrUsernameTaken, http.StatusConflict, "username_taken"},
	{services.ErrEmptyName, http.StatusBadRequest, "empty_name"},
	{services.ErrEmptyCart, http.StatusBadRequest, "empty_cart"},
	{services.ErrInsufficientStock, http.StatusConflict, "insufficient_stock"},
	{services.ErrInsufficientPayment, http.StatusPaymentRequired, "insufficient_payment"},
	{services.ErrInUse, http.StatusConflict, "in_use"},
	{services.ErrReferencedByOpenRental, http.StatusConflict, "referenced_by_open_rental"},
	{services.ErrAlreadyReturned, http.StatusConflict, "already_returned"},
	{services.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
	{services.ErrWouldGoNegative, http.StatusConflict, "would_go_negative"},
	{services.ErrInvalidInput, http.StatusBadRequest, "invalid_input"},
	{services.ErrDurationMismatch, http.StatusBadRequest, "duration_mismatch"},
	{services.ErrCartClosed, http.StatusGone, "cart_closed"},
}

// respondWithServiceError maps an engine error onto a status and code.
func respondWithServiceError(w http.ResponseWriter, err error) {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			respondWithError(w, m.status, m.code, err.Error())
			return
		}
	}
	respondWithError(w, http.StatusInternalServerError, "internal_error", "An internal error occurred")
}

func respondWithError(w http.ResponseWriter, code int, errorCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{
		"error":   errorCode,
		"message": message,
	})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}

func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
