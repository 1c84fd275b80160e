// Package apptest builds a fully wired domain on the memory store for tests.
package apptest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"ledgerpos/internal/app"
	"ledgerpos/internal/core/id"
	"ledgerpos/internal/core/types"
	"ledgerpos/internal/domain/catalogs/bank"
	"ledgerpos/internal/domain/catalogs/counterparty"
	"ledgerpos/internal/domain/catalogs/product"
	"ledgerpos/internal/infrastructure/storage/memory"
)

// Fixture is a memory store plus the services wired on it.
type Fixture struct {
	Store *memory.Store
	*app.Services
}

// New creates an empty fixture.
func New(t *testing.T) *Fixture {
	t.Helper()
	store := memory.New()
	return &Fixture{
		Store:    store,
		Services: app.New(app.MemoryRepositories(store)),
	}
}

// M parses a money literal.
func M(s string) types.Money {
	return types.MustMoney(s)
}

// Product creates a product with stock on hand.
func (f *Fixture) Product(t *testing.T, reference string, qty int64, cost, price string) *product.Product {
	t.Helper()
	p := product.NewProduct(reference, "product "+reference, M(cost), M(price))
	p.Quantity = qty
	require.NoError(t, f.Products.Create(context.Background(), p))
	return p
}

// Bank creates a bank account with an opening balance.
func (f *Fixture) Bank(t *testing.T, name, opening string) *bank.Account {
	t.Helper()
	a := bank.NewAccount(name, M(opening))
	require.NoError(t, f.Banks.Create(context.Background(), a))
	return a
}

// Client creates a client without outstanding balance.
func (f *Fixture) Client(t *testing.T, name string) *counterparty.Counterparty {
	t.Helper()
	c := counterparty.New(counterparty.RoleClient, "CC-"+name, name)
	require.NoError(t, f.Clients.Create(context.Background(), c))
	return c
}

// Provider creates a provider without outstanding balance.
func (f *Fixture) Provider(t *testing.T, name string) *counterparty.Counterparty {
	t.Helper()
	c := counterparty.New(counterparty.RoleProvider, "NIT-"+name, name)
	require.NoError(t, f.Providers.Create(context.Background(), c))
	return c
}

// Stock returns the current quantity on hand.
func (f *Fixture) Stock(t *testing.T, productID id.ID) int64 {
	t.Helper()
	p, err := f.Products.GetByID(context.Background(), productID)
	require.NoError(t, err)
	return p.Quantity
}

// Balance returns the current bank balance.
func (f *Fixture) Balance(t *testing.T, bankID id.ID) types.Money {
	t.Helper()
	a, err := f.Banks.GetByID(context.Background(), bankID)
	require.NoError(t, err)
	return a.Balance
}

// ClientBalance returns the outstanding balance of a client.
func (f *Fixture) ClientBalance(t *testing.T, clientID id.ID) types.Money {
	t.Helper()
	c, err := f.Clients.GetByID(context.Background(), clientID)
	require.NoError(t, err)
	return c.OutstandingBalance
}

// ProviderBalance returns the outstanding balance of a provider.
func (f *Fixture) ProviderBalance(t *testing.T, providerID id.ID) types.Money {
	t.Helper()
	c, err := f.Providers.GetByID(context.Background(), providerID)
	require.NoError(t, err)
	return c.OutstandingBalance
}

// AssertMoney compares decimals by value, ignoring exponent differences.
func AssertMoney(t *testing.T, want string, got types.Money, msgAndArgs ...any) {
	t.Helper()
	require.Truef(t, M(want).Equal(got), "want %s, got %s %v", want, got.String(), msgAndArgs)
}
