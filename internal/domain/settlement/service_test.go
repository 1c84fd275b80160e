package settlement_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledgerpos/internal/app/apptest"
	"ledgerpos/internal/core/apperror"
	"ledgerpos/internal/core/id"
	"ledgerpos/internal/core/status"
	"ledgerpos/internal/domain/audit"
	"ledgerpos/internal/domain/documents"
	"ledgerpos/internal/domain/documents/purchase"
	"ledgerpos/internal/domain/documents/sale"
	"ledgerpos/internal/domain/events"
	"ledgerpos/internal/domain/ledger"
)

type env struct {
	*apptest.Fixture
	productID  id.ID
	bankID     id.ID
	clientID   id.ID
	providerID id.ID
}

func newEnv(t *testing.T) *env {
	f := apptest.New(t)
	return &env{
		Fixture:    f,
		productID:  f.Product(t, "P", 10, "5", "8").ID,
		bankID:     f.Bank(t, "Main", "100").ID,
		clientID:   f.Client(t, "Ana").ID,
		providerID: f.Provider(t, "Acme").ID,
	}
}

// creditSale sells 3 units at 8: total 24.
func (e *env) creditSale(t *testing.T) *sale.View {
	t.Helper()
	return e.sale(t, status.Credit)
}

func (e *env) sale(t *testing.T, st status.Status) *sale.View {
	t.Helper()
	v, err := e.Sales.Create(context.Background(), sale.CreateInput{
		ClientID: e.clientID,
		BankID:   e.bankID,
		Status:   st,
		Lines:    []documents.CartLine{{ProductID: e.productID, Quantity: 3, UnitPrice: apptest.M("8")}},
	})
	require.NoError(t, err)
	return v
}

// creditPurchase buys 4 units at 5: total 20.
func (e *env) creditPurchase(t *testing.T) *purchase.View {
	t.Helper()
	v, err := e.Purchases.Create(context.Background(), purchase.CreateInput{
		ProviderID: e.providerID,
		BankID:     e.bankID,
		Status:     status.Credit,
		Lines:      []documents.CartLine{{ProductID: e.productID, Quantity: 4, UnitPrice: apptest.M("5")}},
	})
	require.NoError(t, err)
	return v
}

func TestPaySale_FullPaymentSettles(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	s := e.creditSale(t)

	view, err := e.Payments.PaySale(ctx, s.ID, e.bankID, apptest.M("24"))
	require.NoError(t, err)

	apptest.AssertMoney(t, "0", view.RemainingBalance)
	assert.Equal(t, status.Settled, view.Status)
	assert.Equal(t, "venta cancelada", view.StatusName)
	assert.Equal(t, "Main", view.BankName)
	apptest.AssertMoney(t, "124", e.Balance(t, e.bankID))

	got, err := e.Sales.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, status.Settled, got.Status)

	salePayments := ledger.TypeSalePayment
	entries, err := e.Transactions.List(ctx, ledger.ListFilter{Type: &salePayments})
	require.NoError(t, err)
	require.Equal(t, 1, entries.TotalCount)
	assert.Equal(t, ledger.OriginSalePayment, entries.Items[0].OriginKind)
	assert.Equal(t, view.ID, entries.Items[0].OriginID)
}

func TestPaySale_PartialPaymentsKeepCredit(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	s := e.creditSale(t)

	first, err := e.Payments.PaySale(ctx, s.ID, e.bankID, apptest.M("10"))
	require.NoError(t, err)
	assert.Equal(t, status.Credit, first.Status)
	apptest.AssertMoney(t, "14", first.RemainingBalance)

	second, err := e.Payments.PaySale(ctx, s.ID, e.bankID, apptest.M("14"))
	require.NoError(t, err)
	assert.Equal(t, status.Settled, second.Status)

	list, err := e.Payments.SalePayments(ctx, s.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID)
	assert.Equal(t, second.ID, list[1].ID)
	apptest.AssertMoney(t, "0", list[0].RemainingBalance)
}

func TestPaySale_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		setup  func(t *testing.T, e *env) id.ID
		check  func(error) bool
	}{
		{
			name:   "cash sale",
			amount: "1",
			setup:  func(t *testing.T, e *env) id.ID { return e.sale(t, status.Cash).ID },
			check:  apperror.IsUnsupportedStatus,
		},
		{
			name:   "settled sale",
			amount: "1",
			setup: func(t *testing.T, e *env) id.ID {
				s := e.creditSale(t)
				_, err := e.Payments.PaySale(context.Background(), s.ID, e.bankID, apptest.M("24"))
				require.NoError(t, err)
				return s.ID
			},
			check: apperror.IsUnsupportedStatus,
		},
		{
			name:   "more than owed",
			amount: "24.01",
			setup:  func(t *testing.T, e *env) id.ID { return e.creditSale(t).ID },
			check:  apperror.IsInvalidAmount,
		},
		{
			name:   "zero",
			amount: "0",
			setup:  func(t *testing.T, e *env) id.ID { return e.creditSale(t).ID },
			check:  apperror.IsInvalidAmount,
		},
		{
			name:   "negative",
			amount: "-5",
			setup:  func(t *testing.T, e *env) id.ID { return e.creditSale(t).ID },
			check:  apperror.IsInvalidAmount,
		},
		{
			name:   "missing sale",
			amount: "1",
			setup:  func(t *testing.T, e *env) id.ID { return id.New() },
			check:  apperror.IsNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t)
			saleID := tt.setup(t, e)
			before := e.Balance(t, e.bankID)

			_, err := e.Payments.PaySale(context.Background(), saleID, e.bankID, apptest.M(tt.amount))
			require.Error(t, err)
			assert.True(t, tt.check(err), "unexpected error: %v", err)
			apptest.AssertMoney(t, before.String(), e.Balance(t, e.bankID))
		})
	}
}

func TestPaySale_UnknownBankLeavesSaleUnpaid(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	s := e.creditSale(t)

	_, err := e.Payments.PaySale(ctx, s.ID, id.New(), apptest.M("5"))
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))

	got, err := e.Sales.GetByID(ctx, s.ID)
	require.NoError(t, err)
	apptest.AssertMoney(t, "24", got.RemainingBalance)
	list, err := e.Payments.SalePayments(ctx, s.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestPaySale_AmountBeyondStoredScale(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	s := e.creditSale(t)

	// Given a payment with a fifth decimal place
	_, err := e.Payments.PaySale(ctx, s.ID, e.bankID, apptest.M("23.99999"))

	// Then it is rejected and nothing moves
	require.Error(t, err)
	assert.True(t, apperror.IsInvalidAmount(err))
	got, err := e.Sales.GetByID(ctx, s.ID)
	require.NoError(t, err)
	apptest.AssertMoney(t, "24", got.RemainingBalance)
	apptest.AssertMoney(t, "100", e.Balance(t, e.bankID))

	// Trailing zeros are fine; the remainder settles the sale exactly
	view, err := e.Payments.PaySale(ctx, s.ID, e.bankID, apptest.M("23.99990"))
	require.NoError(t, err)
	apptest.AssertMoney(t, "0.0001", view.RemainingBalance)
	assert.Equal(t, status.Credit, view.Status)

	view, err = e.Payments.PaySale(ctx, s.ID, e.bankID, apptest.M("0.0001"))
	require.NoError(t, err)
	apptest.AssertMoney(t, "0", view.RemainingBalance)
	assert.Equal(t, status.Settled, view.Status)
	apptest.AssertMoney(t, "124", e.Balance(t, e.bankID))
}

func TestUnpaySale_ReopensSettledSale(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	s := e.creditSale(t)

	_, err := e.Payments.PaySale(ctx, s.ID, e.bankID, apptest.M("10"))
	require.NoError(t, err)
	last, err := e.Payments.PaySale(ctx, s.ID, e.bankID, apptest.M("14"))
	require.NoError(t, err)

	removed, err := e.Payments.UnpaySale(ctx, last.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	got, err := e.Sales.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, status.Credit, got.Status)
	apptest.AssertMoney(t, "14", got.RemainingBalance)
	apptest.AssertMoney(t, "110", e.Balance(t, e.bankID))

	entries, err := ledger.New(e.Store.Ledger()).FindByOrigin(ctx, ledger.OriginSalePayment, last.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)

	history, err := e.Audit.History(ctx, "sale_payment", last.ID, 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, audit.ActionUnpay, history[0].Action)
}

func TestUnpaySale_Missing(t *testing.T) {
	e := newEnv(t)

	removed, err := e.Payments.UnpaySale(context.Background(), id.New())
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestUnpaySale_MoneyAlreadySpent(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	empty := e.Bank(t, "Petty cash", "0").ID
	s := e.creditSale(t)

	p, err := e.Payments.PaySale(ctx, s.ID, empty, apptest.M("24"))
	require.NoError(t, err)
	_, err = e.Transactions.RecordManual(ctx, empty, ledger.TypeWithdrawal, apptest.M("20"), "")
	require.NoError(t, err)

	_, err = e.Payments.UnpaySale(ctx, p.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientFunds(err))

	got, err := e.Sales.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, status.Settled, got.Status)
	apptest.AssertMoney(t, "4", e.Balance(t, empty))
}

func TestPayPurchase_TakesMoneyOut(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	p := e.creditPurchase(t)

	view, err := e.Payments.PayPurchase(ctx, p.ID, e.bankID, apptest.M("20"))
	require.NoError(t, err)

	assert.Equal(t, status.Settled, view.Status)
	assert.Equal(t, "compra cancelada", view.StatusName)
	apptest.AssertMoney(t, "80", e.Balance(t, e.bankID))
	apptest.AssertMoney(t, "20", e.ProviderBalance(t, e.providerID))

	removed, err := e.Payments.UnpayPurchase(ctx, view.ID)
	require.NoError(t, err)
	assert.True(t, removed)
	apptest.AssertMoney(t, "100", e.Balance(t, e.bankID))

	got, err := e.Purchases.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, status.Credit, got.Status)
	apptest.AssertMoney(t, "20", got.RemainingBalance)
}

func TestPayPurchase_InsufficientFunds(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	empty := e.Bank(t, "Petty cash", "5").ID
	p := e.creditPurchase(t)

	_, err := e.Payments.PayPurchase(ctx, p.ID, empty, apptest.M("20"))
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientFunds(err))

	got, err := e.Purchases.GetByID(ctx, p.ID)
	require.NoError(t, err)
	apptest.AssertMoney(t, "20", got.RemainingBalance)
	apptest.AssertMoney(t, "5", e.Balance(t, empty))
}

func TestPayments_AreScopedPerSide(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	s := e.creditSale(t)

	p, err := e.Payments.PaySale(ctx, s.ID, e.bankID, apptest.M("5"))
	require.NoError(t, err)

	// A sale payment id is unknown to the purchase side.
	removed, err := e.Payments.UnpayPurchase(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, removed)

	_, err = e.Payments.PurchasePayments(ctx, s.ID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestPaySale_PublishesEvent(t *testing.T) {
	e := newEnv(t)
	s := e.creditSale(t)

	p, err := e.Payments.PaySale(context.Background(), s.ID, e.bankID, apptest.M("5"))
	require.NoError(t, err)

	published := e.Store.Events()
	require.NotEmpty(t, published)
	last := published[len(published)-1]
	assert.Equal(t, events.PaymentApplied, last.EventType)
	assert.Equal(t, p.ID, last.AggregateID)
}
