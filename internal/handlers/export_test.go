package handlers

import (
	"net/http"
	"strings"
	"testing"

	"github.com/conectahn/wifi-portal-backend/internal/export"
	"github.com/conectahn/wifi-portal-backend/internal/models"
)

func TestExportCSVMatchesUserList(t *testing.T) {
	r, mem := newTestRouter(t)
	for i := 0; i < 4; i++ {
		seed(t, mem, i, nil)
	}

	listRec := doJSON(t, r, http.MethodGet, "/api/users?limit=100", nil)
	listBody := decodeBody(t, listRec)
	total := int(listBody["total"].(float64))

	rec := doJSON(t, r, http.MethodGet, "/api/export/csv", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("Content-Type = %q, want text/csv", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "attachment") {
		t.Errorf("Content-Disposition = %q, want attachment", cd)
	}

	out := rec.Body.String()
	if !strings.HasPrefix(out, export.BOM) {
		t.Error("export missing UTF-8 byte-order mark")
	}

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines)-1 != total {
		t.Errorf("CSV rows = %d, want one per listed record (%d)", len(lines)-1, total)
	}

	// Every listed record appears exactly once.
	for _, item := range listBody["data"].([]interface{}) {
		name := item.(map[string]interface{})["fullName"].(string)
		if strings.Count(out, `"`+name+`"`) != 1 {
			t.Errorf("record %q does not appear exactly once in the export", name)
		}
	}
}

func TestExportContactsFiltersContactable(t *testing.T) {
	r, mem := newTestRouter(t)
	seed(t, mem, 0, nil)
	seed(t, mem, 1, func(v *models.Visitor) { v.Status = models.StatusBlocked })

	rec := doJSON(t, r, http.MethodGet, "/api/export/contacts", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	out := rec.Body.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want header + 1 contactable row", len(lines))
	}
	if strings.Contains(out, "Visitor 1") {
		t.Error("blocked visitor leaked into the contacts export")
	}
}
