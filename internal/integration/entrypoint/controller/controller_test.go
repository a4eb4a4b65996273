package controller_test

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/finance-tracker/categorizer/config"
	domainerror "github.com/finance-tracker/categorizer/internal/domain/error"
	"github.com/finance-tracker/categorizer/internal/infra/dependency"
	"github.com/finance-tracker/categorizer/internal/integration/entrypoint/dto"
	"github.com/finance-tracker/categorizer/internal/integration/persistence/model"
)

type testServer struct {
	engine *gin.Engine
	redis  *miniredis.Miniredis
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	dbSQL, err := sql.Open("sqlite", "file:"+uuid.NewString()+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	dbSQL.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = dbSQL.Close() })

	db, err := gorm.Open(sqlite.Dialector{Conn: dbSQL}, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open gorm: %v", err)
	}
	if err := db.AutoMigrate(model.All()...); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cfg := &config.Config{
		Server: config.ServerConfig{Environment: "test"},
		Redis:  config.RedisConfig{Enabled: true, SnapshotTTL: time.Minute},
		JWT: config.JWTConfig{
			Secret:            "controller-test-secret",
			Issuer:            "categorizer-test",
			AccessTokenExpiry: time.Hour,
		},
		RateLimit: config.RateLimitConfig{MaxAttempts: 5, Window: time.Minute},
		Rules:     config.RulesConfig{ImportWorkers: 2, ImportMaxRows: 3},
	}

	injector := dependency.NewInjector(cfg, db, client)
	return &testServer{
		engine: injector.Router.Setup(cfg.Server.Environment),
		redis:  mr,
	}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var payload bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&payload).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &payload)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
	return out
}

func expectStatus(t *testing.T, w *httptest.ResponseRecorder, status int) {
	t.Helper()
	if w.Code != status {
		t.Fatalf("expected status %d, got %d: %s", status, w.Code, w.Body.String())
	}
}

func (s *testServer) register(t *testing.T, email string) string {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/v1/auth/register", "", dto.RegisterRequest{
		Email:    email,
		Name:     "Test User",
		Password: "Sup3rSecret!",
	})
	expectStatus(t, w, http.StatusCreated)
	return decode[dto.AuthResponse](t, w).AccessToken
}

func (s *testServer) createCategory(t *testing.T, token, name string) dto.CategoryResponse {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/v1/categories", token, dto.CreateCategoryRequest{Name: name})
	expectStatus(t, w, http.StatusCreated)
	return decode[dto.CategoryResponse](t, w)
}

func (s *testServer) createRule(t *testing.T, token, name, pattern, categoryID string) dto.CategoryRuleResponse {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/v1/category-rules", token, dto.CreateCategoryRuleRequest{
		Name:       name,
		Pattern:    pattern,
		CategoryID: categoryID,
	})
	expectStatus(t, w, http.StatusCreated)
	return decode[dto.CategoryRuleResponse](t, w)
}

func TestHealthController(t *testing.T) {
	srv := newTestServer(t)

	t.Run("reports database and cache", func(t *testing.T) {
		w := srv.do(t, http.MethodGet, "/health", "", nil)
		expectStatus(t, w, http.StatusOK)

		body := decode[map[string]string](t, w)
		if body["database"] != "connected" {
			t.Errorf("expected database connected, got %q", body["database"])
		}
		if body["cache"] != "connected" {
			t.Errorf("expected cache connected, got %q", body["cache"])
		}
	})

	t.Run("degrades when cache is down", func(t *testing.T) {
		srv.redis.Close()

		w := srv.do(t, http.MethodGet, "/health", "", nil)
		expectStatus(t, w, http.StatusOK)

		body := decode[map[string]string](t, w)
		if body["status"] != "degraded" {
			t.Errorf("expected status degraded, got %q", body["status"])
		}
	})
}

func TestAuthController(t *testing.T) {
	srv := newTestServer(t)
	srv.register(t, "ana@example.com")

	tests := []struct {
		name     string
		path     string
		body     any
		expected int
		code     string
	}{
		{
			name:     "duplicate email",
			path:     "/api/v1/auth/register",
			body:     dto.RegisterRequest{Email: "ana@example.com", Name: "Ana", Password: "Sup3rSecret!"},
			expected: http.StatusConflict,
			code:     string(domainerror.ErrCodeEmailExists),
		},
		{
			name:     "wrong password",
			path:     "/api/v1/auth/login",
			body:     dto.LoginRequest{Email: "ana@example.com", Password: "not-the-password"},
			expected: http.StatusUnauthorized,
			code:     string(domainerror.ErrCodeInvalidCredentials),
		},
		{
			name:     "valid login",
			path:     "/api/v1/auth/login",
			body:     dto.LoginRequest{Email: "ana@example.com", Password: "Sup3rSecret!"},
			expected: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := srv.do(t, http.MethodPost, tt.path, "", tt.body)
			expectStatus(t, w, tt.expected)

			if tt.code != "" {
				if got := decode[dto.ErrorResponse](t, w).Code; got != tt.code {
					t.Errorf("expected code %s, got %s", tt.code, got)
				}
				return
			}
			if decode[dto.AuthResponse](t, w).AccessToken == "" {
				t.Error("expected an access token")
			}
		})
	}

	t.Run("protected routes need a token", func(t *testing.T) {
		w := srv.do(t, http.MethodGet, "/api/v1/category-rules", "", nil)
		expectStatus(t, w, http.StatusUnauthorized)

		w = srv.do(t, http.MethodGet, "/api/v1/category-rules", "garbage", nil)
		expectStatus(t, w, http.StatusUnauthorized)
	})
}

func TestCategoryRuleController(t *testing.T) {
	srv := newTestServer(t)
	token := srv.register(t, "rules@example.com")
	coffee := srv.createCategory(t, token, "Coffee")
	transport := srv.createCategory(t, token, "Transport")

	first := srv.createRule(t, token, "Coffee shops", "coffee|starbucks", coffee.ID)
	second := srv.createRule(t, token, "Rides", "uber", transport.ID)

	t.Run("appends new rules at the end", func(t *testing.T) {
		if first.Priority != 0 || second.Priority != 1 {
			t.Errorf("expected priorities 0 and 1, got %d and %d", first.Priority, second.Priority)
		}
	})

	t.Run("rejects an invalid pattern with details", func(t *testing.T) {
		w := srv.do(t, http.MethodPost, "/api/v1/category-rules", token, dto.CreateCategoryRuleRequest{
			Name:       "Broken",
			Pattern:    "[unclosed",
			CategoryID: coffee.ID,
		})
		expectStatus(t, w, http.StatusBadRequest)

		resp := decode[dto.ErrorResponse](t, w)
		if resp.Code != string(domainerror.ErrCodeInvalidPattern) {
			t.Errorf("expected code %s, got %s", domainerror.ErrCodeInvalidPattern, resp.Code)
		}
		if resp.Details == "" {
			t.Error("expected compiler details")
		}
	})

	t.Run("rejects a rule targeting an unknown category", func(t *testing.T) {
		w := srv.do(t, http.MethodPost, "/api/v1/category-rules", token, dto.CreateCategoryRuleRequest{
			Name:       "Orphan",
			Pattern:    "x",
			CategoryID: uuid.NewString(),
		})
		expectStatus(t, w, http.StatusNotFound)
	})

	t.Run("reorders the full rule list", func(t *testing.T) {
		w := srv.do(t, http.MethodPatch, "/api/v1/category-rules/reorder", token, dto.ReorderCategoryRulesRequest{
			RuleIDs: []string{second.ID, first.ID},
		})
		expectStatus(t, w, http.StatusOK)

		rules := decode[dto.CategoryRuleListResponse](t, w).Rules
		if len(rules) != 2 || rules[0].ID != second.ID || rules[1].ID != first.ID {
			t.Fatalf("expected rules in the new order, got %+v", rules)
		}
		if rules[0].Priority != 0 || rules[1].Priority != 1 {
			t.Errorf("expected priorities 0 and 1, got %d and %d", rules[0].Priority, rules[1].Priority)
		}
	})

	t.Run("rejects a partial reorder", func(t *testing.T) {
		w := srv.do(t, http.MethodPatch, "/api/v1/category-rules/reorder", token, dto.ReorderCategoryRulesRequest{
			RuleIDs: []string{first.ID},
		})
		expectStatus(t, w, http.StatusBadRequest)
	})

	t.Run("tests a pattern without authentication", func(t *testing.T) {
		w := srv.do(t, http.MethodPost, "/api/v1/category-rules/test", "", dto.TestPatternRequest{
			Pattern:  "starbucks",
			TestText: "Paid at STARBUCKS #42",
		})
		expectStatus(t, w, http.StatusOK)

		resp := decode[dto.TestPatternResponse](t, w)
		if !resp.Matches || resp.MatchedText != "STARBUCKS" {
			t.Errorf("expected match STARBUCKS, got %+v", resp)
		}
	})

	t.Run("validates patterns", func(t *testing.T) {
		tests := []struct {
			pattern string
			valid   bool
			inert   bool
		}{
			{pattern: "coffee", valid: true},
			{pattern: "   ", valid: true, inert: true},
			{pattern: "(abc", valid: false},
		}
		for _, tt := range tests {
			w := srv.do(t, http.MethodPost, "/api/v1/category-rules/validate", "", dto.ValidatePatternRequest{Pattern: tt.pattern})
			expectStatus(t, w, http.StatusOK)

			resp := decode[dto.ValidatePatternResponse](t, w)
			if resp.Valid != tt.valid || resp.Inert != tt.inert {
				t.Errorf("pattern %q: expected valid=%v inert=%v, got %+v", tt.pattern, tt.valid, tt.inert, resp)
			}
			if !tt.valid && resp.Error == "" {
				t.Errorf("pattern %q: expected an error reason", tt.pattern)
			}
		}
	})

	t.Run("updates and reports changed fields", func(t *testing.T) {
		enabled := false
		w := srv.do(t, http.MethodPatch, "/api/v1/category-rules/"+second.ID, token, dto.UpdateCategoryRuleRequest{
			Enabled: &enabled,
		})
		expectStatus(t, w, http.StatusOK)

		resp := decode[dto.CategoryRuleResponse](t, w)
		if resp.Enabled {
			t.Error("expected rule to be disabled")
		}
		if len(resp.ChangedFields) != 1 || resp.ChangedFields[0] != "enabled" {
			t.Errorf("expected changed fields [enabled], got %v", resp.ChangedFields)
		}
	})

	t.Run("hides rules of other users", func(t *testing.T) {
		other := srv.register(t, "someone-else@example.com")

		w := srv.do(t, http.MethodDelete, "/api/v1/category-rules/"+first.ID, other, nil)
		if w.Code != http.StatusNotFound && w.Code != http.StatusForbidden {
			t.Errorf("expected 404 or 403, got %d", w.Code)
		}
	})

	t.Run("deletes a rule", func(t *testing.T) {
		w := srv.do(t, http.MethodDelete, "/api/v1/category-rules/"+first.ID, token, nil)
		expectStatus(t, w, http.StatusNoContent)

		w = srv.do(t, http.MethodDelete, "/api/v1/category-rules/"+first.ID, token, nil)
		expectStatus(t, w, http.StatusNotFound)
	})

	t.Run("records the changes in the audit log", func(t *testing.T) {
		w := srv.do(t, http.MethodGet, "/api/v1/audit-logs?entity_type=category_rule&entity_id="+first.ID, token, nil)
		expectStatus(t, w, http.StatusOK)

		entries := decode[dto.AuditLogListResponse](t, w).Entries
		actions := map[string]bool{}
		for _, entry := range entries {
			actions[entry.Action] = true
		}
		for _, action := range []string{"CREATE", "UPDATE", "DELETE"} {
			if !actions[action] {
				t.Errorf("expected a %s entry, got %+v", action, entries)
			}
		}

		w = srv.do(t, http.MethodGet, "/api/v1/audit-logs?entity_id=not-a-uuid", token, nil)
		expectStatus(t, w, http.StatusBadRequest)
	})
}

func TestTransactionController(t *testing.T) {
	srv := newTestServer(t)
	token := srv.register(t, "txns@example.com")
	coffee := srv.createCategory(t, token, "Coffee")
	groceries := srv.createCategory(t, token, "Groceries")
	srv.createRule(t, token, "Coffee shops", "starbucks", coffee.ID)

	var created dto.CreateTransactionResponse

	t.Run("classifies a new transaction", func(t *testing.T) {
		w := srv.do(t, http.MethodPost, "/api/v1/transactions", token, map[string]any{
			"date":        "2024-03-01",
			"description": "Card payment",
			"merchant":    "Starbucks Downtown",
			"amount":      "4.50",
			"type":        "expense",
		})
		expectStatus(t, w, http.StatusCreated)

		created = decode[dto.CreateTransactionResponse](t, w)
		if !created.AutoCategorized {
			t.Error("expected transaction to be auto categorized")
		}
		if created.CategoryID == nil || *created.CategoryID != coffee.ID {
			t.Errorf("expected category %s, got %v", coffee.ID, created.CategoryID)
		}
		if created.Amount != "4.50" {
			t.Errorf("expected amount 4.50, got %s", created.Amount)
		}
	})

	t.Run("rejects a malformed date", func(t *testing.T) {
		w := srv.do(t, http.MethodPost, "/api/v1/transactions", token, map[string]any{
			"date":        "01/03/2024",
			"description": "Card payment",
			"amount":      "1",
			"type":        "expense",
		})
		expectStatus(t, w, http.StatusBadRequest)

		if got := decode[dto.ErrorResponse](t, w).Code; got != string(domainerror.ErrCodeInvalidTransactionDate) {
			t.Errorf("expected code %s, got %s", domainerror.ErrCodeInvalidTransactionDate, got)
		}
	})

	t.Run("imports a batch", func(t *testing.T) {
		w := srv.do(t, http.MethodPost, "/api/v1/transactions/import", token, map[string]any{
			"transactions": []map[string]any{
				{"date": "2024-03-02", "description": "STARBUCKS 123", "amount": "3.20", "type": "expense"},
				{"date": "2024-03-03", "description": "Farmers market", "amount": "18", "type": "expense"},
			},
		})
		expectStatus(t, w, http.StatusCreated)

		resp := decode[dto.ImportTransactionsResponse](t, w)
		if resp.Imported != 2 || resp.Categorized != 1 {
			t.Errorf("expected 2 imported and 1 categorized, got %d and %d", resp.Imported, resp.Categorized)
		}
		if resp.Rows[0].CategoryID == nil || resp.Rows[1].CategoryID != nil {
			t.Errorf("expected only the first row categorized, got %+v", resp.Rows)
		}
	})

	t.Run("rejects an oversized import", func(t *testing.T) {
		row := map[string]any{"date": "2024-03-02", "description": "x", "amount": "1", "type": "expense"}
		w := srv.do(t, http.MethodPost, "/api/v1/transactions/import", token, map[string]any{
			"transactions": []map[string]any{row, row, row, row},
		})
		expectStatus(t, w, http.StatusRequestEntityTooLarge)
	})

	var uncategorizedID string

	t.Run("lists uncategorized transactions", func(t *testing.T) {
		w := srv.do(t, http.MethodGet, "/api/v1/transactions?uncategorized=true", token, nil)
		expectStatus(t, w, http.StatusOK)

		resp := decode[dto.TransactionListResponse](t, w)
		if len(resp.Transactions) != 1 || resp.Transactions[0].Description != "Farmers market" {
			t.Fatalf("expected the farmers market transaction, got %+v", resp.Transactions)
		}
		uncategorizedID = resp.Transactions[0].ID
	})

	t.Run("bulk categorizes", func(t *testing.T) {
		w := srv.do(t, http.MethodPost, "/api/v1/transactions/bulk-categorize", token, dto.BulkCategorizeTransactionsRequest{
			TransactionIDs: []string{uncategorizedID},
			CategoryID:     groceries.ID,
		})
		expectStatus(t, w, http.StatusOK)

		if got := decode[dto.BulkCategorizeTransactionsResponse](t, w).UpdatedCount; got != 1 {
			t.Errorf("expected 1 updated, got %d", got)
		}

		w = srv.do(t, http.MethodGet, "/api/v1/transactions?category_id="+groceries.ID, token, nil)
		expectStatus(t, w, http.StatusOK)
		if got := decode[dto.TransactionListResponse](t, w).Pagination.Total; got != 1 {
			t.Errorf("expected 1 grocery transaction, got %d", got)
		}
	})

	t.Run("manual category clears the rule", func(t *testing.T) {
		w := srv.do(t, http.MethodPatch, "/api/v1/transactions/"+created.ID, token, map[string]any{
			"category_id": groceries.ID,
		})
		expectStatus(t, w, http.StatusOK)

		resp := decode[dto.UpdateTransactionResponse](t, w)
		if resp.RuleID != nil {
			t.Errorf("expected rule id to be cleared, got %v", *resp.RuleID)
		}
	})

	t.Run("deletes a transaction", func(t *testing.T) {
		w := srv.do(t, http.MethodDelete, "/api/v1/transactions/"+created.ID, token, nil)
		expectStatus(t, w, http.StatusNoContent)

		w = srv.do(t, http.MethodDelete, "/api/v1/transactions/"+created.ID, token, nil)
		expectStatus(t, w, http.StatusNotFound)
	})

	t.Run("rejects a malformed id", func(t *testing.T) {
		w := srv.do(t, http.MethodDelete, "/api/v1/transactions/not-a-uuid", token, nil)
		expectStatus(t, w, http.StatusBadRequest)
	})
}
