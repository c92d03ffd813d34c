package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/atelier-erp/cashbox/internal/adapter/http/handler"
	apimiddleware "github.com/atelier-erp/cashbox/internal/adapter/http/middleware"
	"github.com/atelier-erp/cashbox/internal/usecase"
	"github.com/atelier-erp/cashbox/internal/usecase/mocks"
)

func TestNewRouter_HealthEndpointAvailable(t *testing.T) {
	router := NewRouter(newRouterConfig())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected /health to return 200, got %d", rec.Code)
	}
}

func TestNewRouter_RateLimiterBlocksExcessRequests(t *testing.T) {
	rl := apimiddleware.NewRateLimiter(1, 1)
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.RateLimiter = rl
	}))

	req1 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req1.RemoteAddr = "1.2.3.4:1234"
	rec1 := httptest.NewRecorder()
	router.ServeHTTP(rec1, req1)
	if rec1.Code != http.StatusOK {
		t.Fatalf("expected first request to succeed, got %d", rec1.Code)
	}

	req2 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req2.RemoteAddr = "1.2.3.4:1234"
	rec2 := httptest.NewRecorder()
	router.ServeHTTP(rec2, req2)
	if rec2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be throttled, got %d", rec2.Code)
	}
}

func TestNewRouter_IdempotencyMiddlewareInvokesStore(t *testing.T) {
	store := &stubIdempotencyStore{}
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.IdempotencyStore = store
	}))

	body := `{"name":"Main Branch","opening_balance":"100.00","actor":"admin"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/branches/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apimiddleware.IdempotencyKeyHeader, "key-123")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if !store.checkCalled {
		t.Fatalf("expected idempotency store to be used")
	}
}

func TestNewRouter_RegistersKeyRoutes(t *testing.T) {
	router := NewRouter(newRouterConfig())

	chiRoutes, ok := router.(chi.Router)
	if !ok {
		t.Fatal("router does not implement chi.Routes")
	}

	seen := map[string]bool{}
	if err := chi.Walk(chiRoutes, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		seen[method+" "+route] = true
		return nil
	}); err != nil {
		t.Fatalf("walk failed: %v", err)
	}

	expected := []string{
		"GET /health",
		"GET /ready",
		"GET /metrics",
		"POST /api/v1/branches/",
		"GET /api/v1/branches/",
		"GET /api/v1/branches/{id}",
		"GET /api/v1/cashboxes/{id}",
		"GET /api/v1/cashboxes/{id}/balance",
		"POST /api/v1/cashboxes/{id}/postings",
		"GET /api/v1/cashboxes/{id}/entries",
		"POST /api/v1/cashboxes/{id}/recalculate",
		"POST /api/v1/cashboxes/{id}/activate",
		"POST /api/v1/cashboxes/{id}/deactivate",
		"GET /api/v1/entries/{id}",
		"POST /api/v1/entries/{id}/reverse",
		"GET /api/v1/audit-logs",
	}

	for _, route := range expected {
		if !seen[route] {
			t.Fatalf("expected route %s to be registered", route)
		}
	}
}

func newRouterConfig(opts ...func(*RouterConfig)) RouterConfig {
	txManager := mocks.NewMockTransactionManager()
	branchRepo := mocks.NewMockBranchRepository()
	cashboxRepo := mocks.NewMockCashboxRepository()
	entryRepo := mocks.NewMockEntryRepository()
	auditRepo := mocks.NewMockAuditRepository()
	idGen := mocks.NewMockIDGenerator()
	retrier := mocks.NewNopRetrier()

	cashboxUC := usecase.NewCashboxUseCase(txManager, branchRepo, cashboxRepo, auditRepo, idGen, nil)
	postingUC := usecase.NewPostingUseCase(txManager, cashboxRepo, entryRepo, auditRepo, idGen, retrier, nil)
	reconciliationUC := usecase.NewReconciliationUseCase(txManager, cashboxRepo, entryRepo, auditRepo, idGen, retrier, nil)
	entryUC := usecase.NewEntryUseCase(cashboxRepo, entryRepo)

	cfg := RouterConfig{
		BranchHandler:  handler.NewBranchHandler(cashboxUC),
		CashboxHandler: handler.NewCashboxHandler(cashboxUC, postingUC, reconciliationUC),
		EntryHandler:   handler.NewEntryHandler(entryUC, postingUC),
		AuditHandler:   handler.NewAuditHandler(cashboxUC),
		HealthHandler:  &handler.HealthHandler{},
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

type stubIdempotencyStore struct {
	checkCalled bool
}

func (s *stubIdempotencyStore) CheckAndSet(ctx context.Context, key string, ttl time.Duration) (usecase.IdempotencyState, []byte, error) {
	s.checkCalled = true
	return usecase.IdempotencyNew, nil, nil
}

func (s *stubIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	return nil
}

func (s *stubIdempotencyStore) Release(ctx context.Context, key string) error {
	return nil
}
