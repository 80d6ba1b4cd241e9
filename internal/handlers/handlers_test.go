package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/conectahn/wifi-portal-backend/internal/config"
	"github.com/conectahn/wifi-portal-backend/internal/models"
	"github.com/conectahn/wifi-portal-backend/internal/store"
)

// newTestRouter wires the handlers against a fresh in-memory store. The
// route table mirrors internal/routes (which cannot be imported here without
// a cycle).
func newTestRouter(t *testing.T) (*chi.Mux, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	Init(mem, &config.Config{
		Environment: "development",
		RedirectURL: "https://example.com/welcome",
		WifiNetwork: "Test-WiFi",
	})

	r := chi.NewRouter()
	r.Get("/", ServiceInfo)
	r.Get("/api/health", Health)
	r.Post("/api/register", Register)
	r.Get("/api/users", ListUsers)
	r.Get("/api/users/contactable", ListContactable)
	r.Get("/api/users/status/{status}", ListByStatus)
	r.Get("/api/user/{id}", GetUser)
	r.Put("/api/user/{id}", UpdateUser)
	r.Post("/api/contact/{userId}", ContactUser)
	r.Get("/api/stats", Stats)
	r.Get("/api/export/csv", ExportCSV)
	r.Get("/api/export/contacts", ExportContacts)
	r.NotFound(NotFound)
	return r, mem
}

func doJSON(t *testing.T, r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

func seed(t *testing.T, mem *store.Memory, i int, mutate func(*models.Visitor)) *models.Visitor {
	t.Helper()
	v := &models.Visitor{
		SessionID:  fmt.Sprintf("session-%d", i),
		AccessCode: "WIFI-SEED01",
		FullName:   fmt.Sprintf("Visitor %d", i),
		Phone:      "98765432",
		Email:      fmt.Sprintf("visitor%d@example.com", i),
		Status:     models.StatusActive,
		DeviceInfo: `{"userAgent":"seed"}`,
		CreatedAt:  time.Now().Add(time.Duration(i-100) * time.Second),
	}
	if mutate != nil {
		mutate(v)
	}
	if err := mem.Create(context.Background(), v); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return v
}

func TestNotFoundDirectory(t *testing.T) {
	r, _ := newTestRouter(t)
	rec := doJSON(t, r, http.MethodGet, "/api/nope", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["success"] != false {
		t.Error("expected success=false")
	}
	if _, ok := body["endpoints"].([]interface{}); !ok {
		t.Error("404 body missing endpoint directory")
	}
}

func TestHealth(t *testing.T) {
	r, _ := newTestRouter(t)
	rec := doJSON(t, r, http.MethodGet, "/api/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeBody(t, rec)
	// No Mongo in tests: the fallback store is active.
	if body["mongodb"] != false || body["store"] != "memory" {
		t.Errorf("health = %v, want mongodb=false store=memory", body)
	}
}
