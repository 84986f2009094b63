package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestHasRole(t *testing.T) {
	cases := []struct {
		role     string
		required string
		want     bool
	}{
		{"admin", "admin", true},
		{"admin", "clinic_staff", true},
		{"admin", "patient", true},
		{"clinic_staff", "clinic_staff", true},
		{"clinic_staff", "admin", false},
		{"clinic_staff", "patient", false},
		{"patient", "patient", true},
		{"patient", "admin", false},
		{"patient", "clinic_staff", false},
		{"", "patient", false},
	}
	for _, tc := range cases {
		if got := HasRole(tc.role, tc.required); got != tc.want {
			t.Fatalf("HasRole(%q, %q) = %v, want %v", tc.role, tc.required, got, tc.want)
		}
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !CheckPasswordHash("correct horse battery staple", hash) {
		t.Fatalf("valid password rejected")
	}
	if CheckPasswordHash("wrong password", hash) {
		t.Fatalf("invalid password accepted")
	}
}

func guardedRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()

	handler := func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"success": true}) }

	admin := r.Group("/admin", AuthMiddleware(), RequireRole("admin"))
	admin.GET("/ping", handler)

	clinic := r.Group("/clinic", AuthMiddleware(), RequireRole("clinic_staff"))
	clinic.GET("/ping", handler)

	patient := r.Group("/patient", AuthMiddleware(), RequireRole("patient"))
	patient.GET("/ping", handler)

	return r
}

func doRequest(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGuardsRejectUnauthenticated(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	r := guardedRouter(t)

	for _, path := range []string{"/admin/ping", "/clinic/ping", "/patient/ping"} {
		if w := doRequest(r, path, ""); w.Code != http.StatusUnauthorized {
			t.Fatalf("%s without token: got %d, want 401", path, w.Code)
		}
		if w := doRequest(r, path, "not-a-token"); w.Code != http.StatusUnauthorized {
			t.Fatalf("%s with garbage token: got %d, want 401", path, w.Code)
		}
	}
}

func TestGuardsEnforceHierarchy(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	r := guardedRouter(t)

	adminToken, err := GenerateToken("11111111-1111-1111-1111-111111111111", "admin@example.com", "admin", "")
	if err != nil {
		t.Fatalf("admin token: %v", err)
	}
	staffToken, err := GenerateToken("22222222-2222-2222-2222-222222222222", "staff@example.com", "clinic_staff", "33333333-3333-3333-3333-333333333333")
	if err != nil {
		t.Fatalf("staff token: %v", err)
	}
	patientToken, err := GenerateToken("44444444-4444-4444-4444-444444444444", "pat@example.com", "patient", "")
	if err != nil {
		t.Fatalf("patient token: %v", err)
	}

	// Admin passes every guard
	for _, path := range []string{"/admin/ping", "/clinic/ping", "/patient/ping"} {
		if w := doRequest(r, path, adminToken); w.Code != http.StatusOK {
			t.Fatalf("admin on %s: got %d, want 200", path, w.Code)
		}
	}

	// Staff passes only the clinic guard
	if w := doRequest(r, "/clinic/ping", staffToken); w.Code != http.StatusOK {
		t.Fatalf("staff on /clinic/ping: got %d, want 200", w.Code)
	}
	if w := doRequest(r, "/admin/ping", staffToken); w.Code != http.StatusForbidden {
		t.Fatalf("staff on /admin/ping: got %d, want 403", w.Code)
	}

	// Patient passes only the patient guard
	if w := doRequest(r, "/patient/ping", patientToken); w.Code != http.StatusOK {
		t.Fatalf("patient on /patient/ping: got %d, want 200", w.Code)
	}
	if w := doRequest(r, "/admin/ping", patientToken); w.Code != http.StatusForbidden {
		t.Fatalf("patient on /admin/ping: got %d, want 403", w.Code)
	}
	if w := doRequest(r, "/clinic/ping", patientToken); w.Code != http.StatusForbidden {
		t.Fatalf("patient on /clinic/ping: got %d, want 403", w.Code)
	}
}

func TestTokenRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	if _, err := GenerateToken("id", "e@example.com", "patient", ""); err == nil {
		t.Fatalf("expected error with empty JWT_SECRET")
	}
}

func TestTokenExpiryHours(t *testing.T) {
	t.Setenv("JWT_EXPIRY_HOURS", "")
	if got := TokenExpiryHours(); got != 24 {
		t.Fatalf("default expiry = %d, want 24", got)
	}

	t.Setenv("JWT_EXPIRY_HOURS", "48")
	if got := TokenExpiryHours(); got != 48 {
		t.Fatalf("expiry = %d, want 48", got)
	}

	t.Setenv("JWT_EXPIRY_HOURS", "two days")
	if got := TokenExpiryHours(); got != 24 {
		t.Fatalf("unparsable expiry must fall back to 24, got %d", got)
	}
}
