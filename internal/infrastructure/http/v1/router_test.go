package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledgerpos/internal/app/apptest"
	"ledgerpos/internal/core/apperror"
	"ledgerpos/internal/domain/audit"
	"ledgerpos/internal/infrastructure/http/v1/middleware"
	"ledgerpos/internal/infrastructure/storage/postgres"
	"ledgerpos/pkg/logger"
)

type testAPI struct {
	*apptest.Fixture
	router *gin.Engine
}

func newTestAPI(t *testing.T, store middleware.IdempotencyStore) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)
	f := apptest.New(t)
	return &testAPI{
		Fixture: f,
		router: NewRouter(RouterConfig{
			Services:    f.Services,
			Logger:      logger.NewNop(),
			Idempotency: store,
			Store:       "memory",
			Debug:       true,
		}),
	}
}

func (a *testAPI) do(t *testing.T, method, path string, body any, headers ...string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	out := map[string]any{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	}
	return w, out
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t, nil)

	w, body := api.do(t, http.MethodGet, "/health/live", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])

	w, _ = api.do(t, http.MethodGet, "/health/ready", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.HeaderRequestID))
}

func TestSales_CashSaleMovesStockAndMoney(t *testing.T) {
	api := newTestAPI(t, nil)
	p := api.Product(t, "P-1", 10, "12", "20")
	b := api.Bank(t, "Main", "100")
	c := api.Client(t, "Ana")

	w, body := api.do(t, http.MethodPost, "/api/v1/sales", map[string]any{
		"clientId": c.ID,
		"bankId":   b.ID,
		"status":   "cash",
		"lines":    []map[string]any{{"productId": p.ID, "quantity": 3, "unitPrice": "20"}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "60", body["total"])
	assert.Equal(t, "Ana", body["clientName"])
	assert.Equal(t, "venta contado", body["statusName"])

	assert.Equal(t, int64(7), api.Stock(t, p.ID))
	apptest.AssertMoney(t, "160", api.Balance(t, b.ID))

	w, body = api.do(t, http.MethodGet, "/api/v1/sales", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, body["totalCount"])
	assert.EqualValues(t, 1, body["page"])
}

func TestSales_ErrorMapping(t *testing.T) {
	api := newTestAPI(t, nil)
	p := api.Product(t, "P-1", 2, "12", "20")
	b := api.Bank(t, "Main", "0")
	c := api.Client(t, "Ana")

	sale := func(qty int, price string) map[string]any {
		return map[string]any{
			"clientId": c.ID,
			"bankId":   b.ID,
			"status":   "cash",
			"lines":    []map[string]any{{"productId": p.ID, "quantity": qty, "unitPrice": price}},
		}
	}

	t.Run("insufficient stock", func(t *testing.T) {
		w, body := api.do(t, http.MethodPost, "/api/v1/sales", sale(5, "20"))
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, apperror.CodeInsufficientStock, body["code"])
		assert.Equal(t, int64(2), api.Stock(t, p.ID))
	})

	t.Run("negative price", func(t *testing.T) {
		w, body := api.do(t, http.MethodPost, "/api/v1/sales", sale(1, "-1"))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, apperror.CodeInvalidAmount, body["code"])
	})

	t.Run("zero quantity", func(t *testing.T) {
		w, body := api.do(t, http.MethodPost, "/api/v1/sales", sale(0, "20"))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, apperror.CodeValidation, body["code"])
	})

	t.Run("settled is not a creation status", func(t *testing.T) {
		req := sale(1, "20")
		req["status"] = "settled"
		w, body := api.do(t, http.MethodPost, "/api/v1/sales", req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, apperror.CodeValidation, body["code"])
	})

	t.Run("unknown sale", func(t *testing.T) {
		w, body := api.do(t, http.MethodGet, "/api/v1/sales/0190a0c2-0000-7000-8000-000000000000", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, apperror.CodeNotFound, body["code"])
	})

	t.Run("malformed id", func(t *testing.T) {
		w, body := api.do(t, http.MethodDelete, "/api/v1/sales/42", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, apperror.CodeValidation, body["code"])
	})
}

func TestSalePayments_PayAndUnpay(t *testing.T) {
	api := newTestAPI(t, nil)
	p := api.Product(t, "P-1", 10, "5", "10")
	b := api.Bank(t, "Main", "0")
	c := api.Client(t, "Ana")

	w, sale := api.do(t, http.MethodPost, "/api/v1/sales", map[string]any{
		"clientId": c.ID,
		"bankId":   b.ID,
		"status":   "venta credito",
		"lines":    []map[string]any{{"productId": p.ID, "quantity": 4, "unitPrice": "10"}},
	}, middleware.HeaderOperator, "till-1")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	saleID := sale["id"].(string)
	apptest.AssertMoney(t, "40", api.ClientBalance(t, c.ID))

	w, body := api.do(t, http.MethodPost, "/api/v1/sales/"+saleID+"/payments", map[string]any{
		"bankId": b.ID, "amount": "0",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperror.CodeInvalidAmount, body["code"])

	w, body = api.do(t, http.MethodPost, "/api/v1/sales/"+saleID+"/payments", map[string]any{
		"bankId": b.ID, "amount": "39.99999",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperror.CodeInvalidAmount, body["code"])

	w, body = api.do(t, http.MethodPost, "/api/v1/sales/"+saleID+"/payments", map[string]any{
		"bankId": b.ID, "amount": "50",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperror.CodeInvalidAmount, body["code"])

	w, pay := api.do(t, http.MethodPost, "/api/v1/sales/"+saleID+"/payments", map[string]any{
		"bankId": b.ID, "amount": "40",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "settled", pay["status"])
	assert.Equal(t, "Main", pay["bankName"])
	apptest.AssertMoney(t, "40", api.Balance(t, b.ID))

	w, body = api.do(t, http.MethodPost, "/api/v1/sales/"+saleID+"/payments", map[string]any{
		"bankId": b.ID, "amount": "1",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, apperror.CodeOnlyCreditPayable, body["code"])

	w, body = api.do(t, http.MethodGet, "/api/v1/sales/"+saleID+"/payments", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["items"], 1)

	paymentID := pay["id"].(string)
	w, _ = api.do(t, http.MethodDelete, "/api/v1/sale-payments/"+paymentID, nil, middleware.HeaderOperator, "till-1")
	assert.Equal(t, http.StatusNoContent, w.Code)
	apptest.AssertMoney(t, "0", api.Balance(t, b.ID))

	w, _ = api.do(t, http.MethodDelete, "/api/v1/sale-payments/"+paymentID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, body = api.do(t, http.MethodGet, "/api/v1/audit/sale_payment/"+paymentID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	items := body["items"].([]any)
	require.Len(t, items, 1)
	entry := items[0].(map[string]any)
	assert.Equal(t, string(audit.ActionUnpay), entry["action"])
	assert.Equal(t, "till-1", entry["operator"])
}

func TestTransactions_ManualOnly(t *testing.T) {
	api := newTestAPI(t, nil)
	b := api.Bank(t, "Main", "10")

	w, body := api.do(t, http.MethodPost, "/api/v1/transactions", map[string]any{
		"bankId": b.ID, "type": "withdrawal", "amount": "25",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, apperror.CodeInsufficientFunds, body["code"])

	w, body = api.do(t, http.MethodPost, "/api/v1/transactions", map[string]any{
		"bankId": b.ID, "type": "expense", "amount": "5",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperror.CodeValidation, body["code"])

	w, entry := api.do(t, http.MethodPost, "/api/v1/transactions", map[string]any{
		"bankId": b.ID, "type": "income", "amount": "15", "description": "float",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	apptest.AssertMoney(t, "25", api.Balance(t, b.ID))

	w, body = api.do(t, http.MethodGet, "/api/v1/transactions?type=income&bankId="+b.ID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, body["totalCount"])

	w, _ = api.do(t, http.MethodDelete, "/api/v1/transactions/"+entry["id"].(string), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	apptest.AssertMoney(t, "10", api.Balance(t, b.ID))
}

func TestBanks_DeleteRequiresZeroBalance(t *testing.T) {
	api := newTestAPI(t, nil)

	w, body := api.do(t, http.MethodPost, "/api/v1/banks", map[string]any{"name": "Petty", "openingBalance": "5"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	bankID := body["id"].(string)

	w, body = api.do(t, http.MethodDelete, "/api/v1/banks/"+bankID, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, apperror.CodeBankNotEmpty, body["code"])

	w, body = api.do(t, http.MethodPost, "/api/v1/banks", map[string]any{"name": "Empty"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w, _ = api.do(t, http.MethodDelete, "/api/v1/banks/"+body["id"].(string), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestCatalogs_CreateAndDuplicate(t *testing.T) {
	api := newTestAPI(t, nil)

	req := map[string]any{"reference": "REF-1", "description": "Coffee", "purchasePrice": "3", "salePrice": "5", "quantity": 4}
	w, body := api.do(t, http.MethodPost, "/api/v1/products", req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "REF-1", body["reference"])

	w, body = api.do(t, http.MethodPost, "/api/v1/products", req)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, apperror.CodeDuplicate, body["code"])

	w, body = api.do(t, http.MethodPost, "/api/v1/clients", map[string]any{"externalId": "CC-1", "name": "Ana", "email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperror.CodeValidation, body["code"])

	w, body = api.do(t, http.MethodPost, "/api/v1/providers", map[string]any{"externalId": "NIT-1", "name": "Acme"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "provider", body["role"])
}

func TestProducts_EditStockAndDelete(t *testing.T) {
	api := newTestAPI(t, nil)
	p := api.Product(t, "P-1", 2, "3", "5")
	path := "/api/v1/products/" + p.ID.String()

	w, body := api.do(t, http.MethodPut, path, map[string]any{"description": "Beans", "salePrice": "6"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Beans", body["description"])
	assert.Equal(t, "6", body["salePrice"])
	assert.EqualValues(t, 2, body["quantity"])

	w, body = api.do(t, http.MethodPut, path, map[string]any{"salePrice": "6.00001"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperror.CodeInvalidAmount, body["code"])

	w, body = api.do(t, http.MethodPatch, path+"/active", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, false, body["active"])

	w, body = api.do(t, http.MethodPatch, path+"/stock", map[string]any{"direction": "increase", "quantity": 5})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.EqualValues(t, 7, body["quantity"])

	w, body = api.do(t, http.MethodPatch, path+"/stock", map[string]any{"direction": "decrease", "quantity": 8})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, apperror.CodeInsufficientStock, body["code"])

	w, body = api.do(t, http.MethodPatch, path+"/stock", map[string]any{"direction": "decrease", "quantity": 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperror.CodeValidation, body["code"])
	assert.Equal(t, int64(7), api.Stock(t, p.ID))

	// edit, toggle and increase; refused moves leave no trail
	w, body = api.do(t, http.MethodGet, "/api/v1/audit/product/"+p.ID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Len(t, body["items"], 3)

	w, _ = api.do(t, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w, _ = api.do(t, http.MethodGet, path, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCounterparties_UpdateAndDelete(t *testing.T) {
	api := newTestAPI(t, nil)
	c := api.Client(t, "Ana")
	path := "/api/v1/clients/" + c.ID.String()

	w, body := api.do(t, http.MethodPut, path, map[string]any{"phone": "555-0100"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "555-0100", body["phone"])
	assert.Equal(t, "Ana", body["name"])

	p := api.Product(t, "P-1", 5, "3", "5")
	b := api.Bank(t, "Main", "0")
	w, _ = api.do(t, http.MethodPost, "/api/v1/sales", map[string]any{
		"clientId": c.ID,
		"bankId":   b.ID,
		"status":   "cash",
		"lines":    []map[string]any{{"productId": p.ID, "quantity": 1, "unitPrice": "5"}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w, body = api.do(t, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, apperror.CodeConflict, body["code"])

	w, body = api.do(t, http.MethodDelete, "/api/v1/products/"+p.ID.String(), nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, apperror.CodeConflict, body["code"])

	provider := api.Provider(t, "Acme")
	w, _ = api.do(t, http.MethodDelete, "/api/v1/providers/"+provider.ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestProfits_RangeValidation(t *testing.T) {
	api := newTestAPI(t, nil)

	w, body := api.do(t, http.MethodGet, "/api/v1/profits/range?from=2026-02-01&to=2026-01-01", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperror.CodeValidation, body["code"])

	w, body = api.do(t, http.MethodGet, "/api/v1/profits/range?from=yesterday&to=2026-01-01", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperror.CodeValidation, body["code"])

	w, body = api.do(t, http.MethodGet, "/api/v1/profits", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 0, body["totalCount"])
}

// memoryIdempotency keeps completed responses in a map.
type memoryIdempotency struct {
	mu      sync.Mutex
	pending map[string]string
	done    map[string]*postgres.IdempotencyReplay
}

func newMemoryIdempotency() *memoryIdempotency {
	return &memoryIdempotency{pending: map[string]string{}, done: map[string]*postgres.IdempotencyReplay{}}
}

func (m *memoryIdempotency) AcquireKey(_ context.Context, key, _, _, requestHash string) (*postgres.IdempotencyReplay, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.done[key]; ok {
		return r, nil
	}
	if hash, ok := m.pending[key]; ok && hash != requestHash {
		return nil, apperror.NewIdempotencyMismatch(key)
	}
	m.pending[key] = requestHash
	return nil, nil
}

func (m *memoryIdempotency) CompleteKey(_ context.Context, key string, statusCode int, contentType string, response any) error {
	return m.finish(key, statusCode, contentType, response)
}

func (m *memoryIdempotency) FailKey(_ context.Context, key string, statusCode int, contentType string, response any) error {
	return m.finish(key, statusCode, contentType, response)
}

func (m *memoryIdempotency) finish(key string, statusCode int, contentType string, response any) error {
	body, err := json.Marshal(response)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.done[key] = &postgres.IdempotencyReplay{StatusCode: statusCode, ContentType: contentType, Body: body}
	return nil
}

func TestIdempotency_ReplaysFirstResponse(t *testing.T) {
	api := newTestAPI(t, newMemoryIdempotency())
	b := api.Bank(t, "Main", "100")

	req := map[string]any{"bankId": b.ID, "category": "rent", "amount": "30"}
	w1, first := api.do(t, http.MethodPost, "/api/v1/expenses", req, middleware.HeaderIdempotencyKey, "k-1")
	require.Equal(t, http.StatusCreated, w1.Code, w1.Body.String())

	w2, second := api.do(t, http.MethodPost, "/api/v1/expenses", req, middleware.HeaderIdempotencyKey, "k-1")
	require.Equal(t, http.StatusCreated, w2.Code)
	assert.Equal(t, "true", w2.Header().Get("Idempotent-Replay"))
	assert.Equal(t, first["id"], second["id"])

	apptest.AssertMoney(t, "70", api.Balance(t, b.ID))

	w, body := api.do(t, http.MethodGet, "/api/v1/expenses", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, body["totalCount"])
}
