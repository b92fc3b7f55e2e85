package authhandler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"hrrecords/internal/domain/auth"
)

func newRouter(t *testing.T, service *auth.Service) http.Handler {
	t.Helper()
	router := chi.NewRouter()
	NewHandler(service).RegisterRoutes(router)
	return router
}

func login(router http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestLoginIssuesToken(t *testing.T) {
	service, err := auth.NewService("ops@example.com", "S3cret!pass", "test-secret", time.Hour)
	if err != nil {
		t.Fatalf("service: %v", err)
	}
	router := newRouter(t, service)

	rec := login(router, `{"email":"OPS@example.com","password":"S3cret!pass"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var body loginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	claims, err := auth.ParseToken("test-secret", body.Token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.Email != "ops@example.com" || claims.Role != auth.RoleOperator {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestLoginRejections(t *testing.T) {
	service, err := auth.NewService("ops@example.com", "S3cret!pass", "test-secret", time.Hour)
	if err != nil {
		t.Fatalf("service: %v", err)
	}
	router := newRouter(t, service)

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{name: "wrong password", body: `{"email":"ops@example.com","password":"nope"}`, status: http.StatusUnauthorized},
		{name: "unknown email", body: `{"email":"who@example.com","password":"S3cret!pass"}`, status: http.StatusUnauthorized},
		{name: "missing fields", body: `{"email":""}`, status: http.StatusBadRequest},
		{name: "malformed", body: `{`, status: http.StatusBadRequest},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if rec := login(router, tc.body); rec.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, rec.Code)
			}
		})
	}
}

func TestLoginDisabled(t *testing.T) {
	router := newRouter(t, nil)
	if rec := login(router, `{"email":"a","password":"b"}`); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 when auth is disabled, got %d", rec.Code)
	}
}
