package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/conectahn/wifi-portal-backend/internal/export"
	"github.com/conectahn/wifi-portal-backend/internal/store"
)

// ExportCSV streams every record as CSV. Exports are never paginated.
func ExportCSV(w http.ResponseWriter, r *http.Request) {
	records, _, err := visitorStore.Find(r.Context(), store.Filter{}, 1, 0)
	if err != nil {
		writeInternalError(w, err)
		return
	}
	writeCSV(w, "wifi-visitors", export.Full(records))
}

// ExportContacts streams the outreach-eligible records with the contact
// column set.
func ExportContacts(w http.ResponseWriter, r *http.Request) {
	records, _, err := visitorStore.Find(r.Context(), store.Filter{ContactableOnly: true}, 1, 0)
	if err != nil {
		writeInternalError(w, err)
		return
	}
	writeCSV(w, "contactable-visitors", export.Contacts(records))
}

func writeCSV(w http.ResponseWriter, name, body string) {
	filename := fmt.Sprintf("%s-%s.csv", name, time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Write([]byte(body))
}
