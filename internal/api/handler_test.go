package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"vitaleco/m/domain"
	"vitaleco/m/internal/database"
	"vitaleco/m/internal/ledger"
	"vitaleco/m/internal/migrations"
)

func newTestRouter(t *testing.T, opts Options) http.Handler {
	t.Helper()
	router, _ := newTestRouterWithDB(t, opts)
	return router
}

func newTestRouterWithDB(t *testing.T, opts Options) (http.Handler, *sqlx.DB) {
	t.Helper()
	db, err := database.Connect(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, migrations.Run(db))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	opts.Logger = logger
	return New(db, ledger.NewService(db, logger), opts).Router(), db
}

func do(t *testing.T, router http.Handler, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		payload, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func detail(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]string](t, rec)["detail"]
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t, Options{})
	rec := do(t, router, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", decode[map[string]string](t, rec)["status"])
}

func TestPurchaseOrderPaymentFlow(t *testing.T) {
	router := newTestRouter(t, Options{})

	rec := do(t, router, http.MethodPost, "/purchase-orders", map[string]any{
		"date": "15/03/2024", "supplier": "EcoSolutions", "total_amount": 1000,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	po := decode[domain.PurchaseOrder](t, rec)
	require.Equal(t, "15/03/2024", po.Date.String())
	require.Zero(t, po.PaidAmount)
	base := "/purchase-orders/" + jsonID(po.ID)

	rec = do(t, router, http.MethodPost, base+"/payments", map[string]any{"amount": 600, "method": "check"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	first := decode[domain.Payment](t, rec)

	rec = do(t, router, http.MethodPost, base+"/payments", map[string]any{"amount": 500, "method": "cash"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, detail(t, rec), "exceed")

	rec = do(t, router, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.InDelta(t, 600, decode[domain.PurchaseOrder](t, rec).PaidAmount, 0.001)

	rec = do(t, router, http.MethodPut, base+"/payments/"+jsonID(first.ID), map[string]any{"amount": 1000, "method": "check"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, router, http.MethodGet, base, nil)
	require.InDelta(t, 1000, decode[domain.PurchaseOrder](t, rec).PaidAmount, 0.001)

	rec = do(t, router, http.MethodDelete, base, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, router, http.MethodGet, base, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, detail(t, rec), "not found")

	rec = do(t, router, http.MethodGet, base+"/payments/"+jsonID(first.ID), nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateOrderIgnoresClientPaidAmount(t *testing.T) {
	router := newTestRouter(t, Options{})

	rec := do(t, router, http.MethodPost, "/purchase-orders", map[string]any{
		"date": "01/02/2024", "supplier": "GreenTech", "total_amount": 500,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	po := decode[domain.PurchaseOrder](t, rec)
	base := "/purchase-orders/" + jsonID(po.ID)

	rec = do(t, router, http.MethodPut, base, map[string]any{
		"date": "02/02/2024", "supplier": "GreenTech", "total_amount": 700, "paid_amount": 450,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[domain.PurchaseOrder](t, rec)
	require.Zero(t, updated.PaidAmount)
	require.InDelta(t, 700, updated.TotalAmount, 0.001)
	require.Equal(t, "02/02/2024", updated.Date.String())

	rec = do(t, router, http.MethodPut, "/purchase-orders/999", map[string]any{
		"date": "02/02/2024", "supplier": "GreenTech", "total_amount": 700,
	})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateOrderWithQueryID(t *testing.T) {
	router := newTestRouter(t, Options{})

	rec := do(t, router, http.MethodPost, "/purchase-orders?id=77", map[string]any{
		"date": "01/02/2024", "supplier": "GreenTech", "total_amount": 500,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.EqualValues(t, 77, decode[domain.PurchaseOrder](t, rec).ID)

	rec = do(t, router, http.MethodPost, "/purchase-orders/77/payments", map[string]any{"amount": 100, "method": "cash"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, router, http.MethodPost, "/purchase-orders?id=77", map[string]any{
		"date": "05/02/2024", "supplier": "GreenTech", "total_amount": 900,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	recreated := decode[domain.PurchaseOrder](t, rec)
	require.InDelta(t, 100, recreated.PaidAmount, 0.001)
	require.InDelta(t, 900, recreated.TotalAmount, 0.001)

	rec = do(t, router, http.MethodPost, "/purchase-orders?id=abc", map[string]any{
		"date": "05/02/2024", "supplier": "GreenTech", "total_amount": 900,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestValidationErrors(t *testing.T) {
	router := newTestRouter(t, Options{})

	rec := do(t, router, http.MethodPost, "/purchase-orders", map[string]any{
		"date": "2024-03-15", "supplier": "X", "total_amount": 10,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, detail(t, rec), "dd/mm/yyyy")

	rec = do(t, router, http.MethodPost, "/purchase-orders", `{"date": "15/03/2024", "supplier": "X", "total_amount": 10, "bogus": 1}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodPost, "/purchase-orders", map[string]any{"date": "15/03/2024", "total_amount": 10})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "supplier is required", detail(t, rec))

	rec = do(t, router, http.MethodGet, "/purchase-orders/abc", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodPost, "/purchase-orders", map[string]any{
		"date": "15/03/2024", "supplier": "X", "total_amount": 10,
	})
	base := "/purchase-orders/" + jsonID(decode[domain.PurchaseOrder](t, rec).ID)

	rec = do(t, router, http.MethodPost, base+"/items", map[string]any{"product": "Widget", "quantity": 0})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "quantity must be greater than 0", detail(t, rec))

	rec = do(t, router, http.MethodPost, base+"/payments", map[string]any{"amount": 5, "method": "wire"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLineItemsAndInventory(t *testing.T) {
	router := newTestRouter(t, Options{})

	rec := do(t, router, http.MethodPost, "/purchase-orders", map[string]any{
		"date": "15/03/2024", "supplier": "EcoSolutions", "total_amount": 5000,
	})
	base := "/purchase-orders/" + jsonID(decode[domain.PurchaseOrder](t, rec).ID)

	rec = do(t, router, http.MethodPost, base+"/items", map[string]any{"product": "Conteneur 240L", "quantity": 10, "price": 50})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	item := decode[domain.LineItem](t, rec)
	require.NotNil(t, item.Price)

	rec = do(t, router, http.MethodPost, base+"/items", map[string]any{"product": "Unpriced", "quantity": 3})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, router, http.MethodGet, "/inventory", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	entries := decode[[]domain.InventoryEntry](t, rec)
	require.Len(t, entries, 1)
	require.Equal(t, "Conteneur 240L", entries[0].Product)

	rec = do(t, router, http.MethodGet, "/inventory/"+url.PathEscape("Conteneur 240L"), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.EqualValues(t, 10, decode[domain.InventoryEntry](t, rec).Quantity)

	rec = do(t, router, http.MethodGet, "/inventory/Unpriced", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, router, http.MethodPut, base+"/items/"+jsonID(item.ID), map[string]any{"product": "Conteneur 240L", "quantity": 12})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = do(t, router, http.MethodGet, "/inventory/"+url.PathEscape("Conteneur 240L"), nil)
	require.EqualValues(t, 12, decode[domain.InventoryEntry](t, rec).Quantity)

	rec = do(t, router, http.MethodGet, base+"?expand=true", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	detailed := decode[domain.PurchaseOrderDetail](t, rec)
	require.Len(t, detailed.Items, 2)
	require.Empty(t, detailed.Payments)

	rec = do(t, router, http.MethodDelete, base+"/items/"+jsonID(item.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = do(t, router, http.MethodGet, base+"/items", nil)
	require.Len(t, decode[[]domain.LineItem](t, rec), 1)

	rec = do(t, router, http.MethodGet, "/inventory", nil)
	require.Empty(t, decode[[]domain.InventoryEntry](t, rec))

	rec = do(t, router, http.MethodGet, "/purchase-orders/999/items", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestInventoryProductNameEscaping(t *testing.T) {
	router := newTestRouter(t, Options{})

	rec := do(t, router, http.MethodPost, "/purchase-orders", map[string]any{
		"date": "15/03/2024", "supplier": "EcoSolutions", "total_amount": 100,
	})
	base := "/purchase-orders/" + jsonID(decode[domain.PurchaseOrder](t, rec).ID)

	for _, product := range []string{"50%20off", "50 off", "Bac 1/2"} {
		rec = do(t, router, http.MethodPost, base+"/items", map[string]any{"product": product, "quantity": 1, "price": 2})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec = do(t, router, http.MethodGet, "/inventory/"+url.PathEscape("50%20off"), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, "50%20off", decode[domain.InventoryEntry](t, rec).Product)

	rec = do(t, router, http.MethodGet, "/inventory/50%20off", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "50 off", decode[domain.InventoryEntry](t, rec).Product)

	rec = do(t, router, http.MethodGet, "/inventory/Bac%201%2F2", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, "Bac 1/2", decode[domain.InventoryEntry](t, rec).Product)
}

func TestRegisterStoreFailure(t *testing.T) {
	router, db := newTestRouterWithDB(t, Options{AuthEnabled: true, Secret: "test-secret"})

	_, err := db.Exec(`DROP TABLE users`)
	require.NoError(t, err)

	rec := do(t, router, http.MethodPost, "/auth/register", map[string]any{
		"username": "agent", "email": "agent@example.com", "password": "password1", "role": "agent",
	})
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, "unable to complete registration", detail(t, rec))
}

func TestBearerToken(t *testing.T) {
	cases := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer  abc ", "abc", true},
		{"Basic abc", "", false},
		{"Bearer", "", false},
		{"Bearer ", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		token, ok := bearerToken(req)
		require.Equal(t, tc.ok, ok, tc.header)
		require.Equal(t, tc.token, token, tc.header)
	}
}

func TestDecodeJSONRejectsBadBodies(t *testing.T) {
	router := newTestRouter(t, Options{})

	rec := do(t, router, http.MethodPost, "/purchase-orders", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "request body is required", detail(t, rec))

	rec = do(t, router, http.MethodPost, "/purchase-orders", `{"date": "15/03/2024", "supplier": "X", "total_amount": 10} {}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, detail(t, rec), "unexpected data")

	rec = do(t, router, http.MethodGet, "/purchase-orders", nil)
	require.Empty(t, decode[[]domain.PurchaseOrder](t, rec))
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t, Options{})
	do(t, router, http.MethodGet, "/purchase-orders", nil)

	rec := do(t, router, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, `http_requests_total{method="GET",path="/purchase-orders`)
	require.Contains(t, body, "http_request_duration_seconds_bucket")
}

func TestAuthenticationGuardsWrites(t *testing.T) {
	router := newTestRouter(t, Options{AuthEnabled: true, Secret: "test-secret"})

	rec := do(t, router, http.MethodPost, "/purchase-orders", map[string]any{
		"date": "15/03/2024", "supplier": "X", "total_amount": 10,
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, router, http.MethodGet, "/purchase-orders", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, router, http.MethodPost, "/auth/register", map[string]any{
		"username": "agent", "email": "Agent@Example.com", "password": "password1", "role": "agent",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	agentToken := decode[authResponse](t, rec).Token

	rec = do(t, router, http.MethodPost, "/auth/register", map[string]any{
		"username": "agent", "email": "agent@example.com", "password": "password1", "role": "agent",
	})
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, router, http.MethodPost, "/auth/register", map[string]any{
		"username": "boss", "email": "boss@example.com", "password": "short", "role": "admin",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodPost, "/auth/register", map[string]any{
		"username": "boss", "email": "boss@example.com", "password": "password2", "role": "admin",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, router, http.MethodPost, "/auth/login", map[string]any{"email": "boss@example.com", "password": "wrong"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, router, http.MethodPost, "/auth/login", map[string]any{"email": "BOSS@example.com", "password": "password2"})
	require.Equal(t, http.StatusOK, rec.Code)
	login := decode[authResponse](t, rec)
	require.Equal(t, domain.RoleAdmin, login.User.Role)
	require.NotContains(t, rec.Body.String(), "password")
	adminToken := login.Token

	rec = do(t, router, http.MethodPost, "/purchase-orders", map[string]any{
		"date": "15/03/2024", "supplier": "X", "total_amount": 10,
	}, "Authorization", "Bearer "+agentToken)
	require.Equal(t, http.StatusCreated, rec.Code)
	base := "/purchase-orders/" + jsonID(decode[domain.PurchaseOrder](t, rec).ID)

	rec = do(t, router, http.MethodDelete, base, nil, "Authorization", "Bearer garbage")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, router, http.MethodDelete, base, nil, "Authorization", "Bearer "+agentToken)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(t, router, http.MethodDelete, base, nil, "Authorization", "Bearer "+adminToken)
	require.Equal(t, http.StatusOK, rec.Code)
}

func jsonID(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}
