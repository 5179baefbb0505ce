package handlers

import (
	"net/http"

	"toko-olahraga/internal/models"
	"toko-olahraga/internal/services"

	"github.com/rs/zerolog"
)

type AuthHandler struct {
	accounts *services.AccountService
	auth     *services.AuthService
	logger   zerolog.Logger
}

func NewAuthHandler(accounts *services.AccountService, auth *services.AuthService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		accounts: accounts,
		auth:     auth,
		logger:   logger,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	user, err := h.accounts.Register(req.Username, req.Password)
	if err != nil {
		h.logger.Warn().Err(err).Str("username", req.Username).Msg("Registration failed")
		respondWithServiceError(w, err)
		return
	}

	token, err := h.auth.GenerateToken(user)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "token_generation_failed", "Failed to generate token")
		return
	}

	respondWithJSON(w, http.StatusCreated, models.AuthResponse{User: user, Token: token})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	user, err := h.accounts.Authenticate(req.Username, req.Password)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	token, err := h.auth.GenerateToken(user)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "token_generation_failed", "Failed to generate token")
		return
	}

	respondWithJSON(w, http.StatusOK, models.AuthResponse{User: user, Token: token})
}
