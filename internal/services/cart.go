package services

import (
	"fmt"

	"toko-olahraga/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cart stages lines before checkout. Stock is reserved as each line is
// added; Cancel gives it back. A cart is closed by Checkout or Cancel and
// rejects every later call with ErrCartClosed.
type Cart struct {
	id       uuid.UUID
	owner    string
	kind     models.TransactionKind
	duration int
	lines    []models.TransactionLine
	closed   bool
	ledger   *LedgerService
}

func (c *Cart) ID() uuid.UUID                { return c.id }
func (c *Cart) Owner() string                { return c.owner }
func (c *Cart) Kind() models.TransactionKind { return c.kind }

// AddLine reserves qty units and snapshots the product's current price.
// days is required for rentals; every line of a rental shares the duration
// set by the first one.
func (c *Cart) AddLine(productID uuid.UUID, qty, days int) error {
	l := c.ledger
	l.mu.Lock()
	defer l.mu.Unlock()

	if c.closed {
		return ErrCartClosed
	}
	if qty <= 0 {
		return fmt.Errorf("add line: quantity must be positive: %w", ErrInvalidInput)
	}
	if c.kind == models.TransactionKindRental {
		if days <= 0 {
			return fmt.Errorf("add line: rental days must be positive: %w", ErrInvalidInput)
		}
		if c.duration != 0 && days != c.duration {
			return fmt.Errorf("add line: %d days, cart rents for %d: %w", days, c.duration, ErrDurationMismatch)
		}
	}

	p, err := l.catalog.reserve(productID, qty)
	if err != nil {
		return fmt.Errorf("add line: %w", err)
	}

	if c.kind == models.TransactionKindRental {
		c.duration = days
	}

	merged := false
	for i := range c.lines {
		if c.lines[i].ProductID == p.ID && c.lines[i].UnitPrice.Equal(p.Price) {
			c.lines[i].Quantity += qty
			merged = true
			break
		}
	}
	if !merged {
		c.lines = append(c.lines, models.TransactionLine{
			ProductID:   p.ID,
			ProductName: p.Name,
			UnitPrice:   p.Price,
			Quantity:    qty,
		})
	}

	l.logger.Info().
		Str("cart_id", c.id.String()).
		Str("product", p.Name).
		Int("quantity", qty).
		Int("days", c.duration).
		Msg("Line added to cart")
	return nil
}

// RemoveLine drops every line for productID and releases its stock.
func (c *Cart) RemoveLine(productID uuid.UUID) error {
	l := c.ledger
	l.mu.Lock()
	defer l.mu.Unlock()

	if c.closed {
		return ErrCartClosed
	}

	kept := c.lines[:0]
	removed := 0
	for _, line := range c.lines {
		if line.ProductID != productID {
			kept = append(kept, line)
			continue
		}
		if err := l.catalog.ReleaseStock(line.ProductID, line.Quantity); err != nil {
			l.logger.Warn().Err(err).Str("cart_id", c.id.String()).Msg("Could not release stock for removed line")
		}
		removed++
	}
	c.lines = kept
	if removed == 0 {
		return fmt.Errorf("cart line for %s: %w", productID, ErrNotFound)
	}
	if len(c.lines) == 0 {
		c.duration = 0
	}
	return nil
}

// Cancel releases all reserved stock and closes the cart.
func (c *Cart) Cancel() error {
	l := c.ledger
	l.mu.Lock()
	defer l.mu.Unlock()

	if c.closed {
		return ErrCartClosed
	}

	for _, line := range c.lines {
		if err := l.catalog.ReleaseStock(line.ProductID, line.Quantity); err != nil {
			l.logger.Warn().Err(err).Str("cart_id", c.id.String()).Str("product", line.ProductName).Msg("Could not release stock for cancelled cart")
		}
	}
	c.close()

	l.logger.Info().Str("cart_id", c.id.String()).Str("owner", c.owner).Msg("Cart cancelled")
	return nil
}

// Checkout settles the cart against paid and commits it as a transaction at
// the head of the owner's history. On failure the cart and its reservations
// are left untouched.
func (c *Cart) Checkout(paid decimal.Decimal) (*models.Transaction, error) {
	l := c.ledger
	l.mu.Lock()
	defer l.mu.Unlock()

	if c.closed {
		return nil, ErrCartClosed
	}
	if len(c.lines) == 0 {
		return nil, ErrEmptyCart
	}

	total := models.LinesTotal(c.lines, c.kind, c.duration)
	if paid.LessThan(total) {
		return nil, fmt.Errorf("paid %s, total %s: %w", paid.String(), total.String(), ErrInsufficientPayment)
	}

	tx := &models.Transaction{
		ID:           uuid.New(),
		Owner:        c.owner,
		Kind:         c.kind,
		CreatedAt:    l.now(),
		Lines:        append([]models.TransactionLine(nil), c.lines...),
		Duration:     c.duration,
		PaidAmount:   paid,
		ChangeAmount: paid.Sub(total),
	}
	l.commitLocked(tx)
	c.close()

	l.logger.Info().
		Str("transaction_id", tx.ID.String()).
		Str("owner", tx.Owner).
		Str("kind", string(tx.Kind)).
		Str("total", total.String()).
		Str("paid", paid.String()).
		Str("change", tx.ChangeAmount.String()).
		Msg("Checkout completed")
	return tx.Clone(), nil
}

// Lines returns a copy of the staged lines.
func (c *Cart) Lines() []models.TransactionLine {
	c.ledger.mu.Lock()
	defer c.ledger.mu.Unlock()
	return append([]models.TransactionLine(nil), c.lines...)
}

func (c *Cart) Total() decimal.Decimal {
	c.ledger.mu.Lock()
	defer c.ledger.mu.Unlock()
	return models.LinesTotal(c.lines, c.kind, c.duration)
}

func (c *Cart) View() models.CartView {
	c.ledger.mu.Lock()
	defer c.ledger.mu.Unlock()
	return models.CartView{
		ID:       c.id,
		Owner:    c.owner,
		Kind:     c.kind,
		Duration: c.duration,
		Lines:    append([]models.TransactionLine(nil), c.lines...),
		Total:    models.LinesTotal(c.lines, c.kind, c.duration),
	}
}

func (c *Cart) close() {
	c.closed = true
	c.lines = nil
	delete(c.ledger.carts, c.id)
}
