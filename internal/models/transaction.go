package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionKind string

const (
	TransactionKindPurchase TransactionKind = "purchase"
	TransactionKindRental   TransactionKind = "rental"
)

func (k TransactionKind) Valid() bool {
	return k == TransactionKindPurchase || k == TransactionKindRental
}

// RentalDailyRate is the share of the sale price charged per rental day.
var RentalDailyRate = decimal.New(2, -1)

// RentalDailyPrice returns the per-unit, per-day rental price for a sale price.
func RentalDailyPrice(price decimal.Decimal) decimal.Decimal {
	return price.Mul(RentalDailyRate)
}

type TransactionLine struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	Returned    bool            `json:"returned"`
}

// Subtotal prices the line. Duration is ignored for purchases.
func (l TransactionLine) Subtotal(kind TransactionKind, duration int) decimal.Decimal {
	qty := decimal.NewFromInt(int64(l.Quantity))
	if kind == TransactionKindRental {
		return RentalDailyPrice(l.UnitPrice).Mul(decimal.NewFromInt(int64(duration))).Mul(qty)
	}
	return l.UnitPrice.Mul(qty)
}

// LinesTotal sums the subtotals of lines priced under kind and duration.
func LinesTotal(lines []TransactionLine, kind TransactionKind, duration int) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal(kind, duration))
	}
	return total
}

type Transaction struct {
	ID           uuid.UUID         `json:"id"`
	Owner        string            `json:"owner"`
	Kind         TransactionKind   `json:"kind"`
	CreatedAt    time.Time         `json:"created_at"`
	Lines        []TransactionLine `json:"lines"`
	Duration     int               `json:"duration,omitempty"`
	PaidAmount   decimal.Decimal   `json:"paid_amount"`
	ChangeAmount decimal.Decimal   `json:"change_amount"`
	ReturnedAt   *time.Time        `json:"returned_at,omitempty"`
}

// Total is recomputed from the lines on every call.
func (t *Transaction) Total() decimal.Decimal {
	return LinesTotal(t.Lines, t.Kind, t.Duration)
}

// FullyReturned reports whether every line of a rental has come back.
func (t *Transaction) FullyReturned() bool {
	if t.Kind != TransactionKindRental || len(t.Lines) == 0 {
		return false
	}
	for _, l := range t.Lines {
		if !l.Returned {
			return false
		}
	}
	return true
}

// Clone returns a deep copy safe to hand out of a store.
func (t *Transaction) Clone() *Transaction {
	c := *t
	c.Lines = append([]TransactionLine(nil), t.Lines...)
	if t.ReturnedAt != nil {
		at := *t.ReturnedAt
		c.ReturnedAt = &at
	}
	return &c
}

// TransactionView is the rendered form of a transaction, with its total.
type TransactionView struct {
	*Transaction
	Total         decimal.Decimal `json:"total"`
	FullyReturned bool            `json:"fully_returned"`
}

func NewTransactionView(t *Transaction) TransactionView {
	return TransactionView{Transaction: t, Total: t.Total(), FullyReturned: t.FullyReturned()}
}

// OpenRental pairs an unreturned rental line with its parent transaction.
type OpenRental struct {
	Owner       string          `json:"owner"`
	Line        TransactionLine `json:"line"`
	Transaction *Transaction    `json:"transaction"`
}

// UserHistory is one account's transactions, newest first.
type UserHistory struct {
	Username     string         `json:"username"`
	Transactions []*Transaction `json:"transactions"`
}

type StartCartRequest struct {
	Kind TransactionKind `json:"kind"`
}

type AddLineRequest struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Days      int       `json:"days,omitempty"`
}

type CheckoutRequest struct {
	PaidAmount decimal.Decimal `json:"paid_amount"`
}

type ReturnRequest struct {
	ProductName string `json:"product_name"`
}

// CartView is the rendered state of an open cart.
type CartView struct {
	ID       uuid.UUID         `json:"id"`
	Owner    string            `json:"owner"`
	Kind     TransactionKind   `json:"kind"`
	Duration int               `json:"duration,omitempty"`
	Lines    []TransactionLine `json:"lines"`
	Total    decimal.Decimal   `json:"total"`
}
