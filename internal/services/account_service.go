package services

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"toko-olahraga/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

type AccountService struct {
	mu     sync.Mutex
	users  []*models.User
	cost   int
	logger zerolog.Logger
}

// NewAccountService creates an empty registry hashing passwords at the given
// bcrypt cost. Out-of-range costs fall back to bcrypt.DefaultCost.
func NewAccountService(logger zerolog.Logger, bcryptCost int) *AccountService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AccountService{
		cost:   bcryptCost,
		logger: logger,
	}
}

// Register creates a regular account. New accounts are listed first.
func (s *AccountService) Register(username, password string) (*models.User, error) {
	return s.create(username, password, models.RoleUser)
}

func (s *AccountService) create(username, password string, role models.UserRole) (*models.User, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return nil, fmt.Errorf("username and password are required: %w", ErrEmptyName)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error hashing password")
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.find(username) != nil {
		return nil, fmt.Errorf("register %q: %w", username, ErrUsernameTaken)
	}

	user := &models.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: string(hashedPassword),
		Role:         string(role),
		CreatedAt:    time.Now(),
	}
	s.users = append([]*models.User{user}, s.users...)

	s.logger.Info().Str("user_id", user.ID.String()).Str("username", username).Str("role", user.Role).Msg("User registered successfully")
	cp := *user
	return &cp, nil
}

func (s *AccountService) Authenticate(username, password string) (*models.User, error) {
	s.mu.Lock()
	user := s.find(username)
	s.mu.Unlock()

	if user == nil {
		s.logger.Warn().Str("username", username).Msg("Failed authentication attempt")
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Warn().Str("username", username).Msg("Failed authentication attempt")
		return nil, ErrInvalidCredentials
	}

	s.logger.Info().Str("user_id", user.ID.String()).Str("username", username).Msg("User authenticated successfully")
	cp := *user
	return &cp, nil
}

func (s *AccountService) User(username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user := s.find(username)
	if user == nil {
		return nil, fmt.Errorf("user %q: %w", username, ErrNotFound)
	}
	cp := *user
	return &cp, nil
}

// ListAll returns every account, newest first. Callers restrict it to admins.
func (s *AccountService) ListAll() []*models.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*models.User, len(s.users))
	for i, u := range s.users {
		cp := *u
		out[i] = &cp
	}
	return out
}

func (s *AccountService) find(username string) *models.User {
	for _, u := range s.users {
		if u.Username == username {
			return u
		}
	}
	return nil
}
