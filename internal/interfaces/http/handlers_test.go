package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Farmacia-api/internal/application/apptest"
	"github.com/jhoicas/Farmacia-api/internal/application/auth"
	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/application/restock"
	"github.com/jhoicas/Farmacia-api/internal/application/supplier"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	apphttp "github.com/jhoicas/Farmacia-api/internal/interfaces/http"
)

var apiNow = time.Date(2026, 6, 15, 10, 0, 0, 0, time.UTC)

type fakePDF struct{}

func (fakePDF) GenerateRestockSheet(_ context.Context, title string, sheet *dto.RestockSuggestionsResponse) ([]byte, error) {
	return []byte("%PDF-1.4 " + title), nil
}

type apiFixture struct {
	app      *fiber.App
	restocks *apptest.Restocks
	products *apptest.Products
}

func newAPI(t *testing.T) *apiFixture {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("clave-segura"), bcrypt.MinCost)
	require.NoError(t, err)

	products := apptest.NewProducts(
		entity.Product{ID: "amox", Name: "Amoxicilina 500mg", Quantity: 0, MinStock: 10, CostPrice: decimal.NewFromInt(1200)},
		entity.Product{ID: "ibu", Name: "Ibuprofeno 400mg", Quantity: 50, MinStock: 10, CostPrice: decimal.NewFromInt(300)},
	)
	suppliers := apptest.NewSuppliers(
		entity.Supplier{ID: "cofarma", Name: "Cofarma", Active: true},
		entity.Supplier{ID: "norte", Name: "Droguería Norte", Active: true},
	)
	restocks := apptest.NewRestocks(
		entity.RestockEvent{ID: "e1", ProductID: "amox", SupplierID: "cofarma", Quantity: 20,
			CostPrice: decimal.NewFromInt(1100), RestockDate: apiNow.AddDate(0, 0, -10)},
		entity.RestockEvent{ID: "e2", ProductID: "amox", SupplierID: "norte", Quantity: 10,
			CostPrice: decimal.NewFromInt(1300), RestockDate: apiNow.AddDate(0, 0, -3)},
		entity.RestockEvent{ID: "e3", ProductID: "ibu", SupplierID: "cofarma", Quantity: 30,
			CostPrice: decimal.NewFromInt(280), RestockDate: apiNow.AddDate(0, 0, -40)},
	)
	users := apptest.NewUsers(entity.User{
		ID: testUserID, Username: testUsername, PasswordHash: string(hash), Role: entity.RolePharmacist, Active: true,
	})
	cache := apptest.NewCache()
	tx := &apptest.TxRunner{Restocks: restocks, Products: products}
	clock := func() time.Time { return apiNow }

	app := apphttp.NewApp(apphttp.AppConfig{Name: "farmacia-test", Gatherer: prometheus.NewRegistry()})
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:          auth.NewAuthUseCase(users, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer}),
		RegisterRestock: restock.NewRegisterRestockUseCase(tx, products, suppliers, cache, nil).WithClock(clock),
		RestockHistory:  restock.NewHistoryUseCase(restocks),
		Suggestions:     restock.NewSuggestionUseCase(products, restocks, fakePDF{}, "Farmacia Central").WithClock(clock),
		Intelligence:    supplier.NewIntelligenceUseCase(suppliers, products, restocks, cache, nil, nil).WithClock(clock),
		JWTSecret:       testJWTSecret,
	})
	return &apiFixture{app: app, restocks: restocks, products: products}
}

func (f *apiFixture) do(t *testing.T, method, path, role, body string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if role != "" {
		req.Header.Set("Authorization", tokenForRole(t, role))
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// ──────────────────────────────────────────────────────────────────────────────
// Auth
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_DevuelveToken(t *testing.T) {
	f := newAPI(t)
	resp := f.do(t, http.MethodPost, "/api/auth/login", "", `{"username":"regente","password":"clave-segura"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out dto.LoginResponse
	decode(t, resp, &out)
	assert.NotEmpty(t, out.Token)
	assert.Equal(t, testUserID, out.User.ID)
}

func TestLogin_ClaveIncorrecta401(t *testing.T) {
	f := newAPI(t)
	resp := f.do(t, http.MethodPost, "/api/auth/login", "", `{"username":"regente","password":"otra"}`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLogin_SinUsuario400(t *testing.T) {
	f := newAPI(t)
	resp := f.do(t, http.MethodPost, "/api/auth/login", "", `{"password":"x"}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var out dto.ErrorResponse
	decode(t, resp, &out)
	assert.Equal(t, "VALIDATION", out.Code)
	assert.Equal(t, "username", out.Field)
}

// ──────────────────────────────────────────────────────────────────────────────
// Restocks
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterRestock_Creado(t *testing.T) {
	f := newAPI(t)
	body := `{"product_id":"ibu","supplier_id":"norte","quantity":50,"cost_price":"320","batch_number":"L-77"}`
	resp := f.do(t, http.MethodPost, "/api/restocks", entity.RolePharmacist, body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var out dto.RegisterRestockResponse
	decode(t, resp, &out)
	assert.Equal(t, int64(100), out.NewQuantity)
	assert.True(t, out.NewCost.Equal(decimal.NewFromInt(310)), "costo: %s", out.NewCost)
	assert.Equal(t, testUserID, out.Event.CreatedBy)
	assert.Len(t, f.restocks.Events(), 4)
}

func TestRegisterRestock_SinToken401(t *testing.T) {
	f := newAPI(t)
	resp := f.do(t, http.MethodPost, "/api/restocks", "", `{"product_id":"ibu","supplier_id":"norte","quantity":1,"cost_price":"1"}`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRegisterRestock_CajeroNoPuede(t *testing.T) {
	f := newAPI(t)
	resp := f.do(t, http.MethodPost, "/api/restocks", entity.RoleCashier, `{"product_id":"ibu","supplier_id":"norte","quantity":1,"cost_price":"1"}`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Len(t, f.restocks.Events(), 3)
}

func TestRegisterRestock_CantidadInvalida400(t *testing.T) {
	f := newAPI(t)
	resp := f.do(t, http.MethodPost, "/api/restocks", entity.RoleAdmin, `{"product_id":"ibu","supplier_id":"norte","quantity":0,"cost_price":"1"}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var out dto.ErrorResponse
	decode(t, resp, &out)
	assert.Equal(t, "quantity", out.Field)
}

func TestRegisterRestock_CuerpoInvalido400(t *testing.T) {
	f := newAPI(t)
	resp := f.do(t, http.MethodPost, "/api/restocks", entity.RoleAdmin, `{"product_id":`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRegisterRestock_ProductoInexistente404(t *testing.T) {
	f := newAPI(t)
	resp := f.do(t, http.MethodPost, "/api/restocks", entity.RoleAdmin, `{"product_id":"nada","supplier_id":"norte","quantity":1,"cost_price":"1"}`)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	var out dto.ErrorResponse
	decode(t, resp, &out)
	assert.Equal(t, "NOT_FOUND", out.Code)
}

func TestListRestocks_FiltraYPagina(t *testing.T) {
	f := newAPI(t)
	resp := f.do(t, http.MethodGet, "/api/restocks?product_id=amox&limit=1", entity.RoleCashier, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out dto.RestockHistoryResponse
	decode(t, resp, &out)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "e2", out.Items[0].ID, "más reciente primero")
	assert.Equal(t, 2, out.Page.Total)
	assert.Equal(t, 1, out.Page.Limit)
}

func TestListRestocks_RangoDeFechas(t *testing.T) {
	f := newAPI(t)
	// e1 cae el 2026-06-05: "to" como fecha sola incluye el día completo.
	resp := f.do(t, http.MethodGet, "/api/restocks?from=2026-06-01&to=2026-06-05", entity.RoleCashier, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out dto.RestockHistoryResponse
	decode(t, resp, &out)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "e1", out.Items[0].ID)
}

func TestListRestocks_ParametrosInvalidos400(t *testing.T) {
	f := newAPI(t)
	for _, q := range []string{"from=ayer", "to=2026-13-01", "limit=500", "offset=-1"} {
		resp := f.do(t, http.MethodGet, "/api/restocks?"+q, entity.RoleAdmin, "")
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, q)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Sugerencias
// ──────────────────────────────────────────────────────────────────────────────

func TestSuggestions_SoloProductosBajoMinimo(t *testing.T) {
	f := newAPI(t)
	resp := f.do(t, http.MethodGet, "/api/restock/suggestions", entity.RoleCashier, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out dto.RestockSuggestionsResponse
	decode(t, resp, &out)
	require.Len(t, out.Items, 1)
	item := out.Items[0]
	assert.Equal(t, "amox", item.ProductID)
	assert.Equal(t, "critical", item.Priority)
	assert.Equal(t, int64(20), item.SuggestedQuantity)
	assert.True(t, item.LastCostPrice.Equal(decimal.NewFromInt(1300)), "última entrega: %s", item.LastCostPrice)
}

func TestSuggestionsPDF_Adjunto(t *testing.T) {
	f := newAPI(t)
	resp := f.do(t, http.MethodGet, "/api/restock/suggestions/pdf", entity.RoleAdmin, "")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), `filename="pedido-20260615-1000.pdf"`)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "%PDF"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Proveedores
// ──────────────────────────────────────────────────────────────────────────────

func TestSupplierReliability(t *testing.T) {
	f := newAPI(t)
	resp := f.do(t, http.MethodGet, "/api/suppliers/cofarma/reliability", entity.RoleCashier, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out map[string]any
	decode(t, resp, &out)
	assert.Equal(t, "cofarma", out["supplier_id"])
	assert.NotEmpty(t, out["recommendation"])
}

func TestSupplierReliability_Inexistente404(t *testing.T) {
	f := newAPI(t)
	resp := f.do(t, http.MethodGet, "/api/suppliers/fantasma/reliability", entity.RoleCashier, "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSupplierPerformance(t *testing.T) {
	f := newAPI(t)
	resp := f.do(t, http.MethodGet, "/api/suppliers/performance", entity.RoleAdmin, "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSupplierComparison(t *testing.T) {
	f := newAPI(t)
	resp := f.do(t, http.MethodGet, "/api/products/amox/supplier-comparison", entity.RoleAdmin, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out dto.SupplierComparisonResponse
	decode(t, resp, &out)
	assert.Equal(t, "amox", out.ProductID)

	resp = f.do(t, http.MethodGet, "/api/products/nada/supplier-comparison", entity.RoleAdmin, "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Operación
// ──────────────────────────────────────────────────────────────────────────────

func TestHealthYMetrics(t *testing.T) {
	f := newAPI(t)
	resp := f.do(t, http.MethodGet, "/health", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var health map[string]string
	decode(t, resp, &health)
	assert.Equal(t, "ok", health["status"])

	resp = f.do(t, http.MethodGet, "/metrics", "", "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
