package services

import (
	"fmt"
	"sync"
	"time"

	"toko-olahraga/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// AccountDirectory is the view of the account registry the ledger needs.
type AccountDirectory interface {
	User(username string) (*models.User, error)
	ListAll() []*models.User
}

// LedgerService owns every account's transaction history and the carts
// still being filled. Lock order is ledger first, then catalog.
type LedgerService struct {
	mu       sync.Mutex
	catalog  *CatalogService
	accounts AccountDirectory
	history  map[string][]*models.Transaction
	carts    map[uuid.UUID]*Cart
	now      func() time.Time
	logger   zerolog.Logger
}

func NewLedgerService(catalog *CatalogService, accounts AccountDirectory, logger zerolog.Logger) *LedgerService {
	l := &LedgerService{
		catalog:  catalog,
		accounts: accounts,
		history:  make(map[string][]*models.Transaction),
		carts:    make(map[uuid.UUID]*Cart),
		now:      time.Now,
		logger:   logger,
	}
	catalog.UseRentalGuard(l)
	return l
}

// SetClock replaces the time source used for transaction timestamps.
func (l *LedgerService) SetClock(now func() time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.now = now
}

// StartCart opens an empty cart of the given kind for owner.
func (l *LedgerService) StartCart(owner string, kind models.TransactionKind) (*Cart, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("start cart: unknown kind %q: %w", kind, ErrInvalidInput)
	}
	if _, err := l.accounts.User(owner); err != nil {
		return nil, fmt.Errorf("start cart: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	c := &Cart{
		id:     uuid.New(),
		owner:  owner,
		kind:   kind,
		ledger: l,
	}
	l.carts[c.id] = c

	l.logger.Debug().Str("cart_id", c.id.String()).Str("owner", owner).Str("kind", string(kind)).Msg("Cart started")
	return c, nil
}

// Cart looks up a cart that has been neither checked out nor cancelled.
func (l *LedgerService) Cart(id uuid.UUID) (*Cart, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	c, ok := l.carts[id]
	if !ok {
		return nil, fmt.Errorf("cart %s: %w", id, ErrNotFound)
	}
	return c, nil
}

// ListRentalsOpenFor returns the user's unreturned rental lines, newest
// transaction first.
func (l *LedgerService) ListRentalsOpenFor(username string) []models.OpenRental {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.openRentalsLocked(username)
}

func (l *LedgerService) openRentalsLocked(username string) []models.OpenRental {
	var out []models.OpenRental
	for _, tx := range l.history[username] {
		if tx.Kind != models.TransactionKindRental {
			continue
		}
		for _, line := range tx.Lines {
			if !line.Returned {
				out = append(out, models.OpenRental{Owner: username, Line: line, Transaction: tx.Clone()})
			}
		}
	}
	return out
}

// ReturnLine marks the newest open rental line for productName as returned
// and puts its quantity back into stock.
func (l *LedgerService) ReturnLine(username, productName string) (*models.OpenRental, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	sawReturned := false
	for _, tx := range l.history[username] {
		if tx.Kind != models.TransactionKindRental {
			continue
		}
		for i := range tx.Lines {
			line := &tx.Lines[i]
			if line.ProductName != productName {
				continue
			}
			if line.Returned {
				sawReturned = true
				continue
			}

			if err := l.catalog.ReleaseStock(line.ProductID, line.Quantity); err != nil {
				l.logger.Error().Err(err).Str("transaction_id", tx.ID.String()).Str("product", productName).Msg("Error releasing rented stock")
				return nil, fmt.Errorf("return %q: %w", productName, err)
			}

			line.Returned = true
			if tx.ReturnedAt == nil {
				at := l.now()
				tx.ReturnedAt = &at
			}

			l.logger.Info().
				Str("transaction_id", tx.ID.String()).
				Str("owner", username).
				Str("product", productName).
				Int("quantity", line.Quantity).
				Msg("Rental returned")
			return &models.OpenRental{Owner: username, Line: *line, Transaction: tx.Clone()}, nil
		}
	}

	if sawReturned {
		return nil, fmt.Errorf("return %q: %w", productName, ErrAlreadyReturned)
	}
	return nil, fmt.Errorf("open rental of %q for %q: %w", productName, username, ErrNotFound)
}

// ListAllOpenRentals collects open rental lines across accounts in account
// listing order.
func (l *LedgerService) ListAllOpenRentals() []models.OpenRental {
	users := l.accounts.ListAll()

	l.mu.Lock()
	defer l.mu.Unlock()

	var out []models.OpenRental
	for _, u := range users {
		out = append(out, l.openRentalsLocked(u.Username)...)
	}
	return out
}

// History returns the user's transactions, most recent first.
func (l *LedgerService) History(username string) []*models.Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.historyLocked(username)
}

func (l *LedgerService) historyLocked(username string) []*models.Transaction {
	txs := l.history[username]
	out := make([]*models.Transaction, len(txs))
	for i, tx := range txs {
		out[i] = tx.Clone()
	}
	return out
}

// AllHistory returns every account's history in account listing order.
func (l *LedgerService) AllHistory() []models.UserHistory {
	users := l.accounts.ListAll()

	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]models.UserHistory, 0, len(users))
	for _, u := range users {
		out = append(out, models.UserHistory{Username: u.Username, Transactions: l.historyLocked(u.Username)})
	}
	return out
}

// HasOpenRental reports whether any unreturned rental line, committed or
// still in a cart, holds the product.
func (l *LedgerService) HasOpenRental(productID uuid.UUID) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.hasOpenRentalLocked(productID)
}

func (l *LedgerService) hasOpenRentalLocked(productID uuid.UUID) bool {
	for _, txs := range l.history {
		for _, tx := range txs {
			if tx.Kind != models.TransactionKindRental {
				continue
			}
			for _, line := range tx.Lines {
				if line.ProductID == productID && !line.Returned {
					return true
				}
			}
		}
	}
	for _, c := range l.carts {
		if c.kind != models.TransactionKindRental {
			continue
		}
		for _, line := range c.lines {
			if line.ProductID == productID {
				return true
			}
		}
	}
	return false
}

// GuardProduct implements RentalGuard.
func (l *LedgerService) GuardProduct(productID uuid.UUID, fn func() error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.hasOpenRentalLocked(productID) {
		return fmt.Errorf("product %s: %w", productID, ErrReferencedByOpenRental)
	}
	return fn()
}

func (l *LedgerService) commitLocked(tx *models.Transaction) {
	l.history[tx.Owner] = append([]*models.Transaction{tx}, l.history[tx.Owner]...)
}
