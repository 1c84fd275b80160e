package sale_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledgerpos/internal/app/apptest"
	"ledgerpos/internal/core/apperror"
	"ledgerpos/internal/core/id"
	"ledgerpos/internal/core/status"
	"ledgerpos/internal/domain"
	"ledgerpos/internal/domain/audit"
	"ledgerpos/internal/domain/documents"
	"ledgerpos/internal/domain/documents/sale"
	"ledgerpos/internal/domain/events"
	"ledgerpos/internal/domain/ledger"
	"ledgerpos/internal/domain/registers/balance"
	"ledgerpos/internal/domain/registers/inventory"
)

type saleEnv struct {
	*apptest.Fixture
	productID id.ID
	bankID    id.ID
	clientID  id.ID
}

// Product P: stock 10, cost 5, price 8. Bank starts at 100.
func newSaleEnv(t *testing.T) *saleEnv {
	f := apptest.New(t)
	return &saleEnv{
		Fixture:   f,
		productID: f.Product(t, "P", 10, "5", "8").ID,
		bankID:    f.Bank(t, "Main", "100").ID,
		clientID:  f.Client(t, "Ana").ID,
	}
}

func (e *saleEnv) create(t *testing.T, st status.Status, qty int64) (*sale.View, error) {
	t.Helper()
	return e.Sales.Create(context.Background(), sale.CreateInput{
		ClientID: e.clientID,
		BankID:   e.bankID,
		Status:   st,
		Lines:    []documents.CartLine{{ProductID: e.productID, Quantity: qty, UnitPrice: apptest.M("8")}},
	})
}

func TestCreate_CashSale(t *testing.T) {
	env := newSaleEnv(t)
	ctx := context.Background()

	view, err := env.create(t, status.Cash, 3)
	require.NoError(t, err)

	assert.Equal(t, status.Cash, view.Status)
	assert.Equal(t, "venta contado", view.StatusName)
	assert.Equal(t, "Ana", view.ClientName)
	assert.Equal(t, "Main", view.BankName)
	apptest.AssertMoney(t, "24", view.Total)
	apptest.AssertMoney(t, "0", view.RemainingBalance)
	require.Len(t, view.Lines, 1)
	apptest.AssertMoney(t, "24", view.Lines[0].LineTotal)

	assert.Equal(t, int64(7), env.Stock(t, env.productID))
	apptest.AssertMoney(t, "124", env.Balance(t, env.bankID))
	apptest.AssertMoney(t, "0", env.ClientBalance(t, env.clientID))

	rec, lines, err := env.Profits.ForSale(ctx, view.ID)
	require.NoError(t, err)
	apptest.AssertMoney(t, "9", rec.TotalProfit)
	require.Len(t, lines, 1)
	apptest.AssertMoney(t, "5", lines[0].CostPrice)
	apptest.AssertMoney(t, "9", lines[0].LineProfit)

	entries, err := ledger.New(env.Store.Ledger()).FindByOrigin(ctx, ledger.OriginSale, view.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, ledger.TypeSalePayment, entries[0].Type)
	apptest.AssertMoney(t, "24", entries[0].Amount)
}

func TestCreate_CreditSale(t *testing.T) {
	env := newSaleEnv(t)

	view, err := env.create(t, status.Credit, 3)
	require.NoError(t, err)

	assert.Equal(t, status.Credit, view.Status)
	assert.Equal(t, "venta credito", view.StatusName)
	apptest.AssertMoney(t, "24", view.RemainingBalance)

	assert.Equal(t, int64(7), env.Stock(t, env.productID))
	apptest.AssertMoney(t, "100", env.Balance(t, env.bankID), "credit sale must not touch the bank")
	apptest.AssertMoney(t, "24", env.ClientBalance(t, env.clientID))

	entries, err := env.Transactions.List(context.Background(), ledger.ListFilter{})
	require.NoError(t, err)
	assert.Zero(t, entries.TotalCount)
}

func TestCreate_InsufficientStockWritesNothing(t *testing.T) {
	env := newSaleEnv(t)

	_, err := env.create(t, status.Cash, 11)
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, int64(11), appErr.Details["requested"])
	assert.Equal(t, int64(10), appErr.Details["available"])

	assert.Equal(t, int64(10), env.Stock(t, env.productID))
	apptest.AssertMoney(t, "100", env.Balance(t, env.bankID))
	list, err := env.Sales.List(context.Background(), domain.DefaultListFilter())
	require.NoError(t, err)
	assert.Zero(t, list.TotalCount)
}

func TestCreate_RepeatedProductIsCheckedAgainstTotalQuantity(t *testing.T) {
	env := newSaleEnv(t)

	_, err := env.Sales.Create(context.Background(), sale.CreateInput{
		ClientID: env.clientID,
		BankID:   env.bankID,
		Status:   status.Cash,
		Lines: []documents.CartLine{
			{ProductID: env.productID, Quantity: 6, UnitPrice: apptest.M("8")},
			{ProductID: env.productID, Quantity: 5, UnitPrice: apptest.M("8")},
		},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))
	assert.Equal(t, int64(10), env.Stock(t, env.productID))
}

func TestCreate_Rejections(t *testing.T) {
	tests := []struct {
		name  string
		input func(env *saleEnv) sale.CreateInput
		check func(error) bool
	}{
		{
			name: "empty cart",
			input: func(env *saleEnv) sale.CreateInput {
				return sale.CreateInput{ClientID: env.clientID, BankID: env.bankID, Status: status.Cash}
			},
			check: func(err error) bool { return apperror.HasCode(err, apperror.CodeValidation) },
		},
		{
			name: "zero quantity",
			input: func(env *saleEnv) sale.CreateInput {
				return sale.CreateInput{ClientID: env.clientID, BankID: env.bankID, Status: status.Cash,
					Lines: []documents.CartLine{{ProductID: env.productID, Quantity: 0, UnitPrice: apptest.M("8")}}}
			},
			check: func(err error) bool { return apperror.HasCode(err, apperror.CodeValidation) },
		},
		{
			name: "settled is not a starting status",
			input: func(env *saleEnv) sale.CreateInput {
				return sale.CreateInput{ClientID: env.clientID, BankID: env.bankID, Status: status.Settled,
					Lines: []documents.CartLine{{ProductID: env.productID, Quantity: 1, UnitPrice: apptest.M("8")}}}
			},
			check: func(err error) bool { return apperror.HasCode(err, apperror.CodeValidation) },
		},
		{
			name: "unknown product",
			input: func(env *saleEnv) sale.CreateInput {
				return sale.CreateInput{ClientID: env.clientID, BankID: env.bankID, Status: status.Cash,
					Lines: []documents.CartLine{{ProductID: id.New(), Quantity: 1, UnitPrice: apptest.M("8")}}}
			},
			check: apperror.IsNotFound,
		},
		{
			name: "unknown client",
			input: func(env *saleEnv) sale.CreateInput {
				return sale.CreateInput{ClientID: id.New(), BankID: env.bankID, Status: status.Cash,
					Lines: []documents.CartLine{{ProductID: env.productID, Quantity: 1, UnitPrice: apptest.M("8")}}}
			},
			check: apperror.IsNotFound,
		},
		{
			name: "unknown bank",
			input: func(env *saleEnv) sale.CreateInput {
				return sale.CreateInput{ClientID: env.clientID, BankID: id.New(), Status: status.Credit,
					Lines: []documents.CartLine{{ProductID: env.productID, Quantity: 1, UnitPrice: apptest.M("8")}}}
			},
			check: apperror.IsNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newSaleEnv(t)

			_, err := env.Sales.Create(context.Background(), tt.input(env))
			require.Error(t, err)
			assert.True(t, tt.check(err), "unexpected error: %v", err)
			assert.Equal(t, int64(10), env.Stock(t, env.productID))
		})
	}
}

type failingPublisher struct{}

func (failingPublisher) Publish(context.Context, events.Event) error {
	return errors.New("outbox unavailable")
}

func TestCreate_LateFailureRollsBackEverything(t *testing.T) {
	env := newSaleEnv(t)
	store := env.Store

	// GIVEN an engine whose last step fails
	svc := sale.NewService(sale.ServiceConfig{
		Repo:      store.Sales(),
		Clients:   store.Clients(),
		Payments:  store.SalePayments(),
		Profits:   store.Profits(),
		Stock:     inventory.NewAdjuster(store.Products()),
		Banks:     balance.NewBank(store.Banks()),
		Credit:    balance.NewClientCredit(store.Clients()),
		Ledger:    ledger.New(store.Ledger()),
		Audit:     audit.NewRecorder(store.Audit()),
		Publisher: failingPublisher{},
		TxManager: store,
	})

	// WHEN a cash sale is created
	_, err := svc.Create(context.Background(), sale.CreateInput{
		ClientID: env.clientID,
		BankID:   env.bankID,
		Status:   status.Cash,
		Lines:    []documents.CartLine{{ProductID: env.productID, Quantity: 3, UnitPrice: apptest.M("8")}},
	})

	// THEN nothing of the partial work survives
	require.Error(t, err)
	assert.Equal(t, int64(10), env.Stock(t, env.productID))
	apptest.AssertMoney(t, "100", env.Balance(t, env.bankID))
	list, err := env.Sales.List(context.Background(), domain.DefaultListFilter())
	require.NoError(t, err)
	assert.Zero(t, list.TotalCount)
	profits, err := env.Profits.List(context.Background(), 1)
	require.NoError(t, err)
	assert.Zero(t, profits.TotalCount)
}

func TestDelete_CashSaleRestoresEverything(t *testing.T) {
	env := newSaleEnv(t)
	ctx := context.Background()

	view, err := env.create(t, status.Cash, 3)
	require.NoError(t, err)

	require.NoError(t, env.Sales.Delete(ctx, view.ID))

	assert.Equal(t, int64(10), env.Stock(t, env.productID))
	apptest.AssertMoney(t, "100", env.Balance(t, env.bankID))

	_, err = env.Sales.GetByID(ctx, view.ID)
	assert.True(t, apperror.IsNotFound(err))
	lines, err := env.Store.Sales().GetLines(ctx, view.ID)
	require.NoError(t, err)
	assert.Empty(t, lines)
	_, _, err = env.Profits.ForSale(ctx, view.ID)
	assert.True(t, apperror.IsNotFound(err))

	entries, err := env.Transactions.List(ctx, ledger.ListFilter{})
	require.NoError(t, err)
	assert.Zero(t, entries.TotalCount)

	history, err := env.Audit.History(ctx, sale.Entity, view.ID, 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, audit.ActionDelete, history[0].Action)
}

func TestDelete_CreditSaleClawsBackPayments(t *testing.T) {
	env := newSaleEnv(t)
	ctx := context.Background()
	other := env.Bank(t, "Petty cash", "0").ID

	view, err := env.create(t, status.Credit, 3)
	require.NoError(t, err)

	_, err = env.Payments.PaySale(ctx, view.ID, env.bankID, apptest.M("10"))
	require.NoError(t, err)
	_, err = env.Payments.PaySale(ctx, view.ID, other, apptest.M("14"))
	require.NoError(t, err)
	apptest.AssertMoney(t, "110", env.Balance(t, env.bankID))
	apptest.AssertMoney(t, "14", env.Balance(t, other))

	require.NoError(t, env.Sales.Delete(ctx, view.ID))

	assert.Equal(t, int64(10), env.Stock(t, env.productID))
	apptest.AssertMoney(t, "100", env.Balance(t, env.bankID))
	apptest.AssertMoney(t, "0", env.Balance(t, other))
	apptest.AssertMoney(t, "0", env.ClientBalance(t, env.clientID))

	payments, err := env.Store.SalePayments().ListByDocument(ctx, view.ID)
	require.NoError(t, err)
	assert.Empty(t, payments)
	entries, err := env.Transactions.List(ctx, ledger.ListFilter{})
	require.NoError(t, err)
	assert.Zero(t, entries.TotalCount)
}

func TestDelete_ClientBalanceNeverGoesNegative(t *testing.T) {
	env := newSaleEnv(t)
	ctx := context.Background()

	first, err := env.create(t, status.Credit, 3)
	require.NoError(t, err)
	_, err = env.create(t, status.Credit, 1)
	require.NoError(t, err)
	apptest.AssertMoney(t, "32", env.ClientBalance(t, env.clientID))

	// Another process wrote the client down to 10.
	_, err = env.Store.Clients().DecreaseBalance(ctx, env.clientID, apptest.M("22"))
	require.NoError(t, err)

	require.NoError(t, env.Sales.Delete(ctx, first.ID))
	apptest.AssertMoney(t, "0", env.ClientBalance(t, env.clientID))
}

func TestDelete_InsufficientFundsLeavesSaleIntact(t *testing.T) {
	env := newSaleEnv(t)
	ctx := context.Background()

	view, err := env.create(t, status.Cash, 3)
	require.NoError(t, err)

	// The money of the sale has already left the bank.
	_, err = env.Transactions.RecordManual(ctx, env.bankID, ledger.TypeWithdrawal, apptest.M("120"), "owner withdrawal")
	require.NoError(t, err)

	err = env.Sales.Delete(ctx, view.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientFunds(err))

	got, err := env.Sales.GetByID(ctx, view.ID)
	require.NoError(t, err)
	assert.Len(t, got.Lines, 1)
	assert.Equal(t, int64(7), env.Stock(t, env.productID))
	apptest.AssertMoney(t, "4", env.Balance(t, env.bankID))
	_, _, err = env.Profits.ForSale(ctx, view.ID)
	assert.NoError(t, err)
}

func TestDelete_Missing(t *testing.T) {
	env := newSaleEnv(t)

	err := env.Sales.Delete(context.Background(), id.New())
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestCreateDelete_ConservesInventoryAndMoney(t *testing.T) {
	carts := []struct {
		st  status.Status
		qty int64
	}{
		{status.Cash, 1}, {status.Cash, 10}, {status.Credit, 4}, {status.Credit, 10},
	}

	for _, c := range carts {
		env := newSaleEnv(t)
		ctx := context.Background()

		view, err := env.create(t, c.st, c.qty)
		require.NoError(t, err)
		require.NoError(t, env.Sales.Delete(ctx, view.ID))

		assert.Equal(t, int64(10), env.Stock(t, env.productID), "%s x%d", c.st, c.qty)
		apptest.AssertMoney(t, "100", env.Balance(t, env.bankID))
		apptest.AssertMoney(t, "0", env.ClientBalance(t, env.clientID))
	}
}

func TestList_NewestFirstWithNames(t *testing.T) {
	env := newSaleEnv(t)

	first, err := env.create(t, status.Cash, 1)
	require.NoError(t, err)
	second, err := env.create(t, status.Credit, 1)
	require.NoError(t, err)

	list, err := env.Sales.List(context.Background(), domain.DefaultListFilter())
	require.NoError(t, err)
	require.Equal(t, 2, list.TotalCount)
	assert.Equal(t, second.ID, list.Items[0].ID)
	assert.Equal(t, first.ID, list.Items[1].ID)
	assert.Equal(t, "Ana", list.Items[0].ClientName)
	assert.Equal(t, "venta credito", list.Items[0].StatusName)
}

func TestGetByID_MissingBankShowsUnknown(t *testing.T) {
	env := newSaleEnv(t)
	ctx := context.Background()
	empty := env.Bank(t, "Closed", "0").ID

	view, err := env.Sales.Create(ctx, sale.CreateInput{
		ClientID: env.clientID,
		BankID:   empty,
		Status:   status.Credit,
		Lines:    []documents.CartLine{{ProductID: env.productID, Quantity: 1, UnitPrice: apptest.M("8")}},
	})
	require.NoError(t, err)
	require.NoError(t, env.Banks.Delete(ctx, empty))

	got, err := env.Sales.GetByID(ctx, view.ID)
	require.NoError(t, err)
	assert.Equal(t, documents.UnknownName, got.BankName)
}
