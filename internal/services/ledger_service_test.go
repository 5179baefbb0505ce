package services_test

import (
	"testing"
	"time"

	"toko-olahraga/internal/models"
	"toko-olahraga/internal/services"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPurchase_TotalAndChange(t *testing.T) {
	e := newEngine(t)
	user := e.register(t, "budi")

	cart, err := e.ledger.StartCart(user, models.TransactionKindPurchase)
	require.NoError(t, err)
	require.NoError(t, cart.AddLine(e.product(t, "Sepatu Olahraga").ID, 2, 0))
	assert.Equal(t, 8, e.stock(t, "Sepatu Olahraga"), "stock is reserved when the line is added")

	tx, err := cart.Checkout(decimal.NewFromInt(1200000))
	require.NoError(t, err)

	requireDecimal(t, 1000000, tx.Total())
	requireDecimal(t, 1200000, tx.PaidAmount)
	requireDecimal(t, 200000, tx.ChangeAmount)
	assert.Equal(t, models.TransactionKindPurchase, tx.Kind)
	assert.Equal(t, 0, tx.Duration)
	assert.Equal(t, 8, e.stock(t, "Sepatu Olahraga"))

	history := e.ledger.History(user)
	require.Len(t, history, 1)
	assert.Equal(t, tx.ID, history[0].ID)
}

func TestRental_TotalStockAndReturn(t *testing.T) {
	e := newEngine(t)
	user := e.register(t, "sari")

	tx := e.rent(t, user, "Bola Basket", 1, 3)
	requireDecimal(t, 180000, tx.Total())
	assert.Equal(t, 3, tx.Duration)
	assert.Equal(t, 4, e.stock(t, "Bola Basket"))
	assert.Nil(t, tx.ReturnedAt)

	open := e.ledger.ListRentalsOpenFor(user)
	require.Len(t, open, 1)
	assert.Equal(t, "Bola Basket", open[0].Line.ProductName)
	assert.Equal(t, tx.ID, open[0].Transaction.ID)

	returned, err := e.ledger.ReturnLine(user, "Bola Basket")
	require.NoError(t, err)
	assert.True(t, returned.Line.Returned)
	assert.NotNil(t, returned.Transaction.ReturnedAt)
	assert.True(t, returned.Transaction.FullyReturned())
	assert.Equal(t, 5, e.stock(t, "Bola Basket"))

	assert.Empty(t, e.ledger.ListRentalsOpenFor(user))
	history := e.ledger.History(user)
	require.Len(t, history, 1)
	assert.True(t, history[0].Lines[0].Returned)
	requireDecimal(t, 180000, history[0].Total())
}

func TestReturnLine_SecondCallRejected(t *testing.T) {
	e := newEngine(t)
	user := e.register(t, "andi")
	e.rent(t, user, "Jersey", 2, 1)
	assert.Equal(t, 18, e.stock(t, "Jersey"))

	_, err := e.ledger.ReturnLine(user, "Jersey")
	require.NoError(t, err)
	assert.Equal(t, 20, e.stock(t, "Jersey"))

	_, err = e.ledger.ReturnLine(user, "Jersey")
	assert.ErrorIs(t, err, services.ErrAlreadyReturned)
	assert.Equal(t, 20, e.stock(t, "Jersey"), "stock is released exactly once")
}

func TestReturnLine_NotFound(t *testing.T) {
	e := newEngine(t)
	user := e.register(t, "andi")

	_, err := e.ledger.ReturnLine(user, "Jersey")
	assert.ErrorIs(t, err, services.ErrNotFound)

	cart, err := e.ledger.StartCart(user, models.TransactionKindPurchase)
	require.NoError(t, err)
	require.NoError(t, cart.AddLine(e.product(t, "Jersey").ID, 1, 0))
	_, err = cart.Checkout(decimal.NewFromInt(200000))
	require.NoError(t, err)

	_, err = e.ledger.ReturnLine(user, "Jersey")
	assert.ErrorIs(t, err, services.ErrNotFound, "purchases are never returned")

	other := e.register(t, "rina")
	e.rent(t, other, "Jersey", 1, 1)
	_, err = e.ledger.ReturnLine(user, "Jersey")
	assert.ErrorIs(t, err, services.ErrNotFound, "another user's rental is not visible")
}

func TestReturnLine_NewestRentalFirst(t *testing.T) {
	e := newEngine(t)
	user := e.register(t, "dewi")
	older := e.rent(t, user, "Jersey", 1, 2)
	newer := e.rent(t, user, "Jersey", 3, 2)
	assert.Equal(t, 16, e.stock(t, "Jersey"))

	returned, err := e.ledger.ReturnLine(user, "Jersey")
	require.NoError(t, err)
	assert.Equal(t, newer.ID, returned.Transaction.ID)
	assert.Equal(t, 19, e.stock(t, "Jersey"))

	open := e.ledger.ListRentalsOpenFor(user)
	require.Len(t, open, 1)
	assert.Equal(t, older.ID, open[0].Transaction.ID)

	returned, err = e.ledger.ReturnLine(user, "Jersey")
	require.NoError(t, err)
	assert.Equal(t, older.ID, returned.Transaction.ID)
	assert.Equal(t, 20, e.stock(t, "Jersey"))
}

func TestReturnLine_PerLineTracking(t *testing.T) {
	e := newEngine(t)
	user := e.register(t, "eko")
	clock := &fakeClock{t: time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)}
	e.ledger.SetClock(clock.now)

	cart, err := e.ledger.StartCart(user, models.TransactionKindRental)
	require.NoError(t, err)
	require.NoError(t, cart.AddLine(e.product(t, "Jersey").ID, 1, 2))
	require.NoError(t, cart.AddLine(e.product(t, "Bola Basket").ID, 1, 2))
	tx, err := cart.Checkout(decimal.NewFromInt(200000))
	require.NoError(t, err)
	requireDecimal(t, 80000+120000, tx.Total())

	first, err := e.ledger.ReturnLine(user, "Jersey")
	require.NoError(t, err)
	require.NotNil(t, first.Transaction.ReturnedAt)
	firstReturn := *first.Transaction.ReturnedAt
	assert.False(t, first.Transaction.FullyReturned())

	open := e.ledger.ListRentalsOpenFor(user)
	require.Len(t, open, 1)
	assert.Equal(t, "Bola Basket", open[0].Line.ProductName)

	second, err := e.ledger.ReturnLine(user, "Bola Basket")
	require.NoError(t, err)
	assert.True(t, second.Transaction.FullyReturned())
	assert.Equal(t, firstReturn, *second.Transaction.ReturnedAt, "returned_at is stamped on the first return only")
}

func TestCheckout_InsufficientPayment(t *testing.T) {
	e := newEngine(t)
	user := e.register(t, "fajar")

	cart, err := e.ledger.StartCart(user, models.TransactionKindPurchase)
	require.NoError(t, err)
	require.NoError(t, cart.AddLine(e.product(t, "Jersey").ID, 3, 0))

	_, err = cart.Checkout(decimal.NewFromInt(599999))
	assert.ErrorIs(t, err, services.ErrInsufficientPayment)
	assert.Empty(t, e.ledger.History(user))
	assert.Equal(t, 17, e.stock(t, "Jersey"))

	tx, err := cart.Checkout(decimal.NewFromInt(600000))
	require.NoError(t, err)
	requireDecimal(t, 0, tx.ChangeAmount)
	assert.Equal(t, 17, e.stock(t, "Jersey"))
}

func TestCheckout_EmptyCart(t *testing.T) {
	e := newEngine(t)
	user := e.register(t, "gita")

	cart, err := e.ledger.StartCart(user, models.TransactionKindPurchase)
	require.NoError(t, err)

	_, err = cart.Checkout(decimal.NewFromInt(100))
	assert.ErrorIs(t, err, services.ErrEmptyCart)
	assert.Empty(t, e.ledger.History(user))
}

func TestCart_CancelReleasesReservations(t *testing.T) {
	e := newEngine(t)
	user := e.register(t, "hadi")

	cart, err := e.ledger.StartCart(user, models.TransactionKindRental)
	require.NoError(t, err)
	require.NoError(t, cart.AddLine(e.product(t, "Jersey").ID, 4, 2))
	require.NoError(t, cart.AddLine(e.product(t, "Bola Basket").ID, 2, 2))
	assert.Equal(t, 16, e.stock(t, "Jersey"))
	assert.Equal(t, 3, e.stock(t, "Bola Basket"))

	require.NoError(t, cart.Cancel())
	assert.Equal(t, 20, e.stock(t, "Jersey"))
	assert.Equal(t, 5, e.stock(t, "Bola Basket"))

	_, err = e.ledger.Cart(cart.ID())
	assert.ErrorIs(t, err, services.ErrNotFound)

	assert.ErrorIs(t, cart.AddLine(e.product(t, "Jersey").ID, 1, 2), services.ErrCartClosed)
	_, err = cart.Checkout(decimal.NewFromInt(1000000))
	assert.ErrorIs(t, err, services.ErrCartClosed)
	assert.ErrorIs(t, cart.Cancel(), services.ErrCartClosed)
}

func TestCart_ClosedAfterCheckout(t *testing.T) {
	e := newEngine(t)
	user := e.register(t, "indra")

	cart, err := e.ledger.StartCart(user, models.TransactionKindPurchase)
	require.NoError(t, err)
	require.NoError(t, cart.AddLine(e.product(t, "Jersey").ID, 1, 0))
	_, err = cart.Checkout(decimal.NewFromInt(200000))
	require.NoError(t, err)

	assert.ErrorIs(t, cart.Cancel(), services.ErrCartClosed)
	assert.Equal(t, 19, e.stock(t, "Jersey"), "a committed purchase is never released")
	assert.Empty(t, cart.Lines())
}

func TestCart_AddLineFailures(t *testing.T) {
	e := newEngine(t)
	user := e.register(t, "joko")
	ball := e.product(t, "Bola Basket").ID

	purchase, err := e.ledger.StartCart(user, models.TransactionKindPurchase)
	require.NoError(t, err)
	assert.ErrorIs(t, purchase.AddLine(ball, 6, 0), services.ErrInsufficientStock)
	assert.ErrorIs(t, purchase.AddLine(uuid.New(), 1, 0), services.ErrNotFound)
	assert.ErrorIs(t, purchase.AddLine(ball, 0, 0), services.ErrInvalidInput)
	assert.Empty(t, purchase.Lines())
	assert.Equal(t, 5, e.stock(t, "Bola Basket"))

	rental, err := e.ledger.StartCart(user, models.TransactionKindRental)
	require.NoError(t, err)
	assert.ErrorIs(t, rental.AddLine(ball, 1, 0), services.ErrInvalidInput)
	require.NoError(t, rental.AddLine(ball, 1, 3))
	assert.ErrorIs(t, rental.AddLine(e.product(t, "Jersey").ID, 1, 4), services.ErrDurationMismatch)
	assert.Equal(t, 20, e.stock(t, "Jersey"))
	require.NoError(t, rental.AddLine(e.product(t, "Jersey").ID, 1, 3))
	assert.Equal(t, 3, rental.View().Duration)
}

func TestCart_SameProductMergesIntoOneLine(t *testing.T) {
	e := newEngine(t)
	user := e.register(t, "kiki")
	jersey := e.product(t, "Jersey").ID

	cart, err := e.ledger.StartCart(user, models.TransactionKindPurchase)
	require.NoError(t, err)
	require.NoError(t, cart.AddLine(jersey, 1, 0))
	require.NoError(t, cart.AddLine(jersey, 2, 0))

	lines := cart.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 3, lines[0].Quantity)
	requireDecimal(t, 600000, cart.Total())
}

func TestCart_RemoveLine(t *testing.T) {
	e := newEngine(t)
	user := e.register(t, "lina")
	jersey := e.product(t, "Jersey").ID

	cart, err := e.ledger.StartCart(user, models.TransactionKindRental)
	require.NoError(t, err)
	require.NoError(t, cart.AddLine(jersey, 2, 5))

	require.NoError(t, cart.RemoveLine(jersey))
	assert.Equal(t, 20, e.stock(t, "Jersey"))
	assert.ErrorIs(t, cart.RemoveLine(jersey), services.ErrNotFound)

	require.NoError(t, cart.AddLine(jersey, 1, 2), "an emptied cart accepts a new duration")
}

func TestStartCart_Validation(t *testing.T) {
	e := newEngine(t)

	_, err := e.ledger.StartCart("nobody", models.TransactionKindPurchase)
	assert.ErrorIs(t, err, services.ErrNotFound)

	_, err = e.ledger.StartCart(services.SeedAdminUsername, models.TransactionKind("lease"))
	assert.ErrorIs(t, err, services.ErrInvalidInput)
}

func TestPriceSnapshot_SurvivesCatalogEdit(t *testing.T) {
	e := newEngine(t)
	user := e.register(t, "maya")
	shoe := e.product(t, "Sepatu Olahraga")

	cart, err := e.ledger.StartCart(user, models.TransactionKindPurchase)
	require.NoError(t, err)
	require.NoError(t, cart.AddLine(shoe.ID, 1, 0))

	newPrice := decimal.NewFromInt(750000)
	require.NoError(t, e.catalog.EditProduct(shoe.ID, models.ProductUpdate{Price: &newPrice}))
	requireDecimal(t, 500000, cart.Total())

	tx, err := cart.Checkout(decimal.NewFromInt(500000))
	require.NoError(t, err)

	cheaper := decimal.NewFromInt(100000)
	require.NoError(t, e.catalog.EditProduct(shoe.ID, models.ProductUpdate{Price: &cheaper}))

	history := e.ledger.History(user)
	require.Len(t, history, 1)
	requireDecimal(t, 500000, history[0].Lines[0].UnitPrice)
	requireDecimal(t, 500000, history[0].Total())
	requireDecimal(t, 500000, tx.Total())
}

func TestDeleteProduct_BlockedByOpenRental(t *testing.T) {
	e := newEngine(t)
	user := e.register(t, "nina")
	ball := e.product(t, "Bola Basket").ID

	e.rent(t, user, "Bola Basket", 1, 1)
	assert.True(t, e.ledger.HasOpenRental(ball))
	assert.ErrorIs(t, e.catalog.DeleteProduct(ball), services.ErrReferencedByOpenRental)

	_, err := e.ledger.ReturnLine(user, "Bola Basket")
	require.NoError(t, err)
	assert.False(t, e.ledger.HasOpenRental(ball))
	assert.NoError(t, e.catalog.DeleteProduct(ball))
}

func TestDeleteProduct_BlockedByRentalCart(t *testing.T) {
	e := newEngine(t)
	user := e.register(t, "oki")
	ball := e.product(t, "Bola Basket").ID

	cart, err := e.ledger.StartCart(user, models.TransactionKindRental)
	require.NoError(t, err)
	require.NoError(t, cart.AddLine(ball, 1, 1))
	assert.ErrorIs(t, e.catalog.DeleteProduct(ball), services.ErrReferencedByOpenRental)

	require.NoError(t, cart.Cancel())
	assert.NoError(t, e.catalog.DeleteProduct(ball))
}

func TestDeleteProduct_PurchaseDoesNotBlock(t *testing.T) {
	e := newEngine(t)
	user := e.register(t, "putri")
	jersey := e.product(t, "Jersey").ID

	cart, err := e.ledger.StartCart(user, models.TransactionKindPurchase)
	require.NoError(t, err)
	require.NoError(t, cart.AddLine(jersey, 1, 0))
	_, err = cart.Checkout(decimal.NewFromInt(200000))
	require.NoError(t, err)

	assert.NoError(t, e.catalog.DeleteProduct(jersey))
	history := e.ledger.History(user)
	require.Len(t, history, 1)
	requireDecimal(t, 200000, history[0].Total())
}

func TestStockConservation(t *testing.T) {
	e := newEngine(t)
	users := []string{e.register(t, "a"), e.register(t, "b")}
	ball := e.product(t, "Bola Basket").ID

	conserved := func() int {
		total := e.stock(t, "Bola Basket")
		for _, r := range e.ledger.ListAllOpenRentals() {
			if r.Line.ProductID == ball {
				total += r.Line.Quantity
			}
		}
		return total
	}
	require.Equal(t, 5, conserved())

	e.rent(t, users[0], "Bola Basket", 2, 1)
	assert.Equal(t, 5, conserved())
	e.rent(t, users[1], "Bola Basket", 1, 4)
	assert.Equal(t, 5, conserved())
	e.rent(t, users[0], "Bola Basket", 1, 2)
	assert.Equal(t, 5, conserved())

	_, err := e.ledger.ReturnLine(users[0], "Bola Basket")
	require.NoError(t, err)
	assert.Equal(t, 5, conserved())

	cart, err := e.ledger.StartCart(users[1], models.TransactionKindRental)
	require.NoError(t, err)
	require.NoError(t, cart.AddLine(ball, 1, 1))
	_, err = cart.Checkout(decimal.NewFromInt(1))
	assert.ErrorIs(t, err, services.ErrInsufficientPayment)
	require.NoError(t, cart.Cancel())
	assert.Equal(t, 5, conserved())

	_, err = e.ledger.ReturnLine(users[1], "Bola Basket")
	require.NoError(t, err)
	_, err = e.ledger.ReturnLine(users[0], "Bola Basket")
	require.NoError(t, err)
	assert.Equal(t, 5, e.stock(t, "Bola Basket"))
	assert.Empty(t, e.ledger.ListAllOpenRentals())
}

func TestHistory_NewestFirst(t *testing.T) {
	e := newEngine(t)
	user := e.register(t, "rudi")
	e.ledger.SetClock((&fakeClock{t: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)}).now)

	first := e.rent(t, user, "Jersey", 1, 1)
	second := e.rent(t, user, "Bola Basket", 1, 1)
	third := e.rent(t, user, "Jersey", 1, 1)

	history := e.ledger.History(user)
	require.Len(t, history, 3)
	assert.Equal(t, third.ID, history[0].ID)
	assert.Equal(t, second.ID, history[1].ID)
	assert.Equal(t, first.ID, history[2].ID)
	assert.True(t, history[0].CreatedAt.After(history[2].CreatedAt))
}

func TestListAllOpenRentals_AccountOrder(t *testing.T) {
	e := newEngine(t)
	older := e.register(t, "older")
	newer := e.register(t, "newer")
	e.rent(t, older, "Jersey", 1, 1)
	e.rent(t, newer, "Bola Basket", 1, 1)

	all := e.ledger.ListAllOpenRentals()
	require.Len(t, all, 2)
	assert.Equal(t, newer, all[0].Owner)
	assert.Equal(t, older, all[1].Owner)

	histories := e.ledger.AllHistory()
	require.Len(t, histories, 3)
	assert.Equal(t, newer, histories[0].Username)
	assert.Equal(t, services.SeedAdminUsername, histories[2].Username)
	assert.Empty(t, histories[2].Transactions)
}

func TestHistory_ReturnsCopies(t *testing.T) {
	e := newEngine(t)
	user := e.register(t, "sinta")
	e.rent(t, user, "Jersey", 1, 1)

	history := e.ledger.History(user)
	history[0].Lines[0].Returned = true

	open := e.ledger.ListRentalsOpenFor(user)
	require.Len(t, open, 1)
}
