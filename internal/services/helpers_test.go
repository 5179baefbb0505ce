package services_test

import (
	"testing"
	"time"

	"toko-olahraga/internal/models"
	"toko-olahraga/internal/services"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type engine struct {
	accounts *services.AccountService
	catalog  *services.CatalogService
	ledger   *services.LedgerService
}

func newEngine(t *testing.T) *engine {
	t.Helper()

	log := zerolog.Nop()
	accounts := services.NewAccountService(log, bcrypt.MinCost)
	catalog := services.NewCatalogService(log)
	ledger := services.NewLedgerService(catalog, accounts, log)
	require.NoError(t, services.Seed(accounts, catalog))

	return &engine{accounts: accounts, catalog: catalog, ledger: ledger}
}

func (e *engine) register(t *testing.T, username string) string {
	t.Helper()
	_, err := e.accounts.Register(username, "secret")
	require.NoError(t, err)
	return username
}

func (e *engine) product(t *testing.T, name string) *models.Product {
	t.Helper()
	p, err := e.catalog.FindByName(name, false)
	require.NoError(t, err)
	return p
}

func (e *engine) stock(t *testing.T, name string) int {
	t.Helper()
	return e.product(t, name).Stock
}

// rent checks out a single-line rental paid in full.
func (e *engine) rent(t *testing.T, user, name string, qty, days int) *models.Transaction {
	t.Helper()
	cart, err := e.ledger.StartCart(user, models.TransactionKindRental)
	require.NoError(t, err)
	require.NoError(t, cart.AddLine(e.product(t, name).ID, qty, days))
	tx, err := cart.Checkout(cart.Total())
	require.NoError(t, err)
	return tx
}

func requireDecimal(t *testing.T, want int64, got decimal.Decimal) {
	t.Helper()
	require.Truef(t, decimal.NewFromInt(want).Equal(got), "want %d, got %s", want, got.String())
}

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time {
	c.t = c.t.Add(time.Minute)
	return c.t
}
