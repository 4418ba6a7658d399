package middleware

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"halalan/internal/auth"
	"halalan/internal/database"
	"halalan/internal/store"
)

func setupAuthTest(t *testing.T) (*store.VoterStore, *store.AdminStore) {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return store.NewVoterStore(db), store.NewAdminStore(db)
}

func TestVoterAuth(t *testing.T) {
	voters, _ := setupAuthTest(t)

	v, pin, err := voters.Create("Ana Cruz", "2019", "", "", "", true, "")
	if err != nil {
		t.Fatalf("create voter: %v", err)
	}
	_, token, err := voters.Authenticate(v.VoterID, pin)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}

	var gotID int64
	handler := VoterAuth(voters)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = auth.VoterFrom(r.Context()).ID
	}))

	req := httptest.NewRequest("GET", "/api/me", nil)
	req.Header.Set("X-Session-Token", token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if gotID != v.ID {
		t.Errorf("context voter = %d, want %d", gotID, v.ID)
	}
}

func TestVoterAuthRejects(t *testing.T) {
	voters, _ := setupAuthTest(t)

	handler := VoterAuth(voters)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler reached without a valid session")
	}))

	for name, token := range map[string]string{
		"missing token": "",
		"unknown token": "not-a-session",
	} {
		req := httptest.NewRequest("GET", "/api/me", nil)
		if token != "" {
			req.Header.Set("X-Session-Token", token)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s: status = %d, want %d", name, rec.Code, http.StatusUnauthorized)
		}
	}
}

func TestAdminAuth(t *testing.T) {
	_, admins := setupAuthTest(t)
	const secret = "test-secret"

	a, err := admins.Create("comelec", "Election Admin", "hunter2hunter2")
	if err != nil {
		t.Fatalf("create admin: %v", err)
	}
	token, err := auth.MintAdminToken(a.ID, []byte(secret), time.Now())
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	var gotID int64
	handler := AdminAuth(admins, secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = auth.AdminFrom(r.Context()).ID
	}))

	req := httptest.NewRequest("GET", "/api/admin/stats", nil)
	req.Header.Set("X-Admin-Token", token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if gotID != a.ID {
		t.Errorf("context admin = %d, want %d", gotID, a.ID)
	}
}

func TestAdminAuthRejects(t *testing.T) {
	_, admins := setupAuthTest(t)
	const secret = "test-secret"

	a, err := admins.Create("comelec", "Election Admin", "hunter2hunter2")
	if err != nil {
		t.Fatalf("create admin: %v", err)
	}
	wrongKey, err := auth.MintAdminToken(a.ID, []byte("other-secret"), time.Now())
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	handler := AdminAuth(admins, secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler reached without a valid admin token")
	}))

	for name, token := range map[string]string{
		"missing token":     "",
		"garbage token":     "not-a-jwt",
		"wrong signing key": wrongKey,
	} {
		req := httptest.NewRequest("GET", "/api/admin/stats", nil)
		if token != "" {
			req.Header.Set("X-Admin-Token", token)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s: status = %d, want %d", name, rec.Code, http.StatusUnauthorized)
		}
	}
}
