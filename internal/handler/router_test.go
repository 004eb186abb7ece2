package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/taxpadi/taxpadi-engine-go/internal/domain"
	"github.com/taxpadi/taxpadi-engine-go/internal/handler"
	"github.com/taxpadi/taxpadi-engine-go/internal/infra/cache"
	"github.com/taxpadi/taxpadi-engine-go/internal/infra/observability"
	"github.com/taxpadi/taxpadi-engine-go/internal/infra/resilience"
	"github.com/taxpadi/taxpadi-engine-go/internal/rules"
	"github.com/taxpadi/taxpadi-engine-go/internal/service"

	"go.uber.org/zap"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	registry := rules.NewRegistry(logger)

	taxSvc := service.NewTaxService(
		registry,
		cache.New[*domain.TaxResult](time.Minute),
		resilience.NewBulkhead(4),
		metrics,
		logger,
	)
	complianceSvc := service.NewComplianceService(registry, logger)
	advisorSvc := service.NewAdvisorService(registry, logger)
	rulesSvc := service.NewRulesService(registry, nil, time.Second, metrics, logger)
	authSvc, err := service.NewAuthService("admin", "s3cret", "", "test-jwt-secret", time.Minute, logger)
	if err != nil {
		t.Fatalf("auth service: %v", err)
	}

	return handler.NewRouter(taxSvc, complianceSvc, advisorSvc, rulesSvc, authSvc, metrics, logger)
}

func postJSON(t *testing.T, router http.Handler, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), rules.BaseVersion) {
		t.Errorf("expected rules version in body, got %s", rec.Body.String())
	}
}

func TestReadyz(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestMetrics(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestCalculate_MissingProfile(t *testing.T) {
	router := newTestRouter(t)

	rec := postJSON(t, router, "/v1/tax/calculate", map[string]any{
		"inputs": map[string]any{"grossRevenue": 5000000},
	})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Profile is required") {
		t.Errorf("expected 'Profile is required', got %s", rec.Body.String())
	}
}

func TestCalculate_MissingInputs(t *testing.T) {
	router := newTestRouter(t)

	rec := postJSON(t, router, "/v1/tax/calculate", map[string]any{
		"profile": map[string]any{"fullName": "Adaeze Okafor", "taxpayerType": "freelancer"},
	})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Tax inputs are required") {
		t.Errorf("expected 'Tax inputs are required', got %s", rec.Body.String())
	}
}

func TestCalculate_InvalidJSON(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/tax/calculate", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCalculate_Freelancer(t *testing.T) {
	router := newTestRouter(t)

	rec := postJSON(t, router, "/v1/tax/calculate", map[string]any{
		"profile": map[string]any{"fullName": "Adaeze Okafor", "taxpayerType": "freelancer", "taxYear": 2025},
		"inputs":  map[string]any{"grossRevenue": 5000000},
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d. Body: %s", rec.Code, rec.Body.String())
	}

	var result domain.TaxResult
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.TotalTaxDue.StringFixed(2) != "704000.00" {
		t.Errorf("expected total tax 704000.00, got %s", result.TotalTaxDue.StringFixed(2))
	}
	if result.Currency != "NGN" {
		t.Errorf("expected NGN, got %s", result.Currency)
	}
}

func TestComplianceCheck_Route(t *testing.T) {
	router := newTestRouter(t)

	rec := postJSON(t, router, "/v1/compliance/check", map[string]any{
		"profile": map[string]any{"fullName": "Adaeze Okafor", "taxpayerType": "freelancer"},
		"inputs":  map[string]any{"grossRevenue": 30000000},
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d. Body: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "vat_registration") {
		t.Errorf("expected vat_registration check, got %s", rec.Body.String())
	}
}

func TestOptimize_MissingResult(t *testing.T) {
	router := newTestRouter(t)

	rec := postJSON(t, router, "/v1/optimize", map[string]any{
		"profile": map[string]any{"fullName": "Adaeze Okafor"},
		"inputs":  map[string]any{"grossRevenue": 5000000},
	})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Tax result is required") {
		t.Errorf("expected 'Tax result is required', got %s", rec.Body.String())
	}
}

func TestWHTRates(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/wht/rates", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Rates []domain.WHTRateRow `json:"rates"`
		Rules domain.RuleMeta     `json:"rules"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Rates) != 11 {
		t.Errorf("expected 11 rate rows, got %d", len(resp.Rates))
	}
	if resp.Rules.Version != rules.BaseVersion {
		t.Errorf("expected base version, got %s", resp.Rules.Version)
	}
}

func TestWHTCalculate_UnknownType(t *testing.T) {
	router := newTestRouter(t)

	rec := postJSON(t, router, "/v1/wht/calculate", map[string]any{
		"payments": []map[string]any{
			{"paymentType": "salary", "amount": 100000, "isResident": true},
		},
	})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d. Body: %s", rec.Code, rec.Body.String())
	}
}

func TestCGTCalculate(t *testing.T) {
	router := newTestRouter(t)

	rec := postJSON(t, router, "/v1/cgt/calculate", map[string]any{
		"disposals": []map[string]any{
			{"acquisitionCost": 1000000, "disposalProceeds": 1500000},
		},
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d. Body: %s", rec.Code, rec.Body.String())
	}

	var result domain.CGTResult
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.TotalCGT.StringFixed(2) != "50000.00" {
		t.Errorf("expected CGT 50000.00, got %s", result.TotalCGT.StringFixed(2))
	}
}

func TestRulesMeta(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/rules", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), rules.BaseVersion) {
		t.Errorf("expected base version in body, got %s", rec.Body.String())
	}
}

func TestAdminRules_RequiresToken(t *testing.T) {
	router := newTestRouter(t)

	rec := postJSON(t, router, "/v1/admin/rules", map[string]any{"version": "v2"})

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAdminRules_WithToken(t *testing.T) {
	router := newTestRouter(t)

	loginRec := postJSON(t, router, "/v1/auth/login", map[string]any{
		"username": "admin",
		"password": "s3cret",
	})
	if loginRec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d. Body: %s", loginRec.Code, loginRec.Body.String())
	}

	var login domain.LoginResponse
	if err := json.NewDecoder(loginRec.Body).Decode(&login); err != nil {
		t.Fatalf("decode login: %v", err)
	}

	body, _ := json.Marshal(map[string]any{
		"version": "handler-test-v2",
		"vat":     map[string]any{"rate": "0.10"},
	})
	req := httptest.NewRequest(http.MethodPost, "/v1/admin/rules", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+login.AccessToken)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d. Body: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "handler-test-v2") {
		t.Errorf("expected new version in body, got %s", rec.Body.String())
	}
}

func TestAdminRules_InvalidOverrideRejected(t *testing.T) {
	router := newTestRouter(t)

	loginRec := postJSON(t, router, "/v1/auth/login", map[string]any{
		"username": "admin",
		"password": "s3cret",
	})
	var login domain.LoginResponse
	if err := json.NewDecoder(loginRec.Body).Decode(&login); err != nil {
		t.Fatalf("decode login: %v", err)
	}

	body, _ := json.Marshal(map[string]any{
		"version": "bad-rate",
		"cgt":     map[string]any{"rate": "1.5"},
	})
	req := httptest.NewRequest(http.MethodPost, "/v1/admin/rules", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+login.AccessToken)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d. Body: %s", rec.Code, rec.Body.String())
	}
}

func TestAuthLogin_MissingFields(t *testing.T) {
	router := newTestRouter(t)

	rec := postJSON(t, router, "/v1/auth/login", map[string]any{"username": "admin"})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAuthLogin_BadCredentials(t *testing.T) {
	router := newTestRouter(t)

	rec := postJSON(t, router, "/v1/auth/login", map[string]any{
		"username": "admin",
		"password": "wrong",
	})

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestPing(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}
