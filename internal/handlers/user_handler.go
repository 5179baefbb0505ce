package handlers

import (
	"net/http"

	"toko-olahraga/internal/middleware"
	"toko-olahraga/internal/services"

	"github.com/rs/zerolog"
)

type UserHandler struct {
	accounts *services.AccountService
	logger   zerolog.Logger
}

func NewUserHandler(accounts *services.AccountService, logger zerolog.Logger) *UserHandler {
	return &UserHandler{
		accounts: accounts,
		logger:   logger,
	}
}

// GetUsers lists every account. The route is admin-only.
func (h *UserHandler) GetUsers(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.accounts.ListAll())
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	username, ok := middleware.GetUsername(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized", "User not authenticated")
		return
	}

	user, err := h.accounts.User(username)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, user)
}
