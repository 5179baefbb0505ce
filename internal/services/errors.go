package services

import "errors"

var (
	ErrNotFound               = errors.New("not found")
	ErrDuplicateID            = errors.New("duplicate id")
	ErrUsernameTaken          = errors.New("username already taken")
	ErrEmptyName              = errors.New("name must not be empty")
	ErrEmptyCart              = errors.New("cart is empty")
	ErrInsufficientStock      = errors.New("insufficient stock")
	ErrInsufficientPayment    = errors.New("insufficient payment")
	ErrInUse                  = errors.New("category is referenced by a product")
	ErrReferencedByOpenRental = errors.New("product has an open rental")
	ErrAlreadyReturned        = errors.New("rental already returned")
	ErrInvalidCredentials     = errors.New("invalid username or password")
	ErrWouldGoNegative        = errors.New("stock would go negative")
	ErrInvalidInput           = errors.New("invalid input")
	ErrDurationMismatch       = errors.New("rental duration differs from cart duration")
	ErrCartClosed             = errors.New("cart is closed")
)
