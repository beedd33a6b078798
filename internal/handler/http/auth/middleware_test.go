package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func okHandler(t *testing.T, wantUserID int64) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := UserID(r.Context()); got != wantUserID {
			t.Errorf("UserID(ctx) = %d, want %d", got, wantUserID)
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthz_ValidToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := IssueToken([]byte("test-secret"), 42, time.Hour)
	if err != nil {
		t.Fatalf("IssueToken err=%v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/posts", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	Authz(okHandler(t, 42)).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestAuthz_MissingToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	req := httptest.NewRequest(http.MethodPost, "/posts", nil)
	rec := httptest.NewRecorder()

	Authz(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Error("handler reached without token")
	})).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAuthz_ExpiredToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := IssueToken([]byte("test-secret"), 42, -time.Minute)
	if err != nil {
		t.Fatalf("IssueToken err=%v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/posts", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	Authz(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Error("handler reached with expired token")
	})).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAuthz_WrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := IssueToken([]byte("other-secret"), 42, time.Hour)
	if err != nil {
		t.Fatalf("IssueToken err=%v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/posts", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	Authz(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Error("handler reached with forged token")
	})).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAuthz_PublicEndpointBypasses(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	Authz(okHandler(t, 0)).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestIsPublicEndpoint(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/health", true},
		{"/health?format=json", true},
		{"/health/detail", false},
		{"/healthcheck", false},
		{"/metrics", true},
		{"/posts", false},
		{"/topics/1/follow", false},
	}
	for _, tt := range tests {
		if got := IsPublicEndpoint(tt.path); got != tt.want {
			t.Errorf("IsPublicEndpoint(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
