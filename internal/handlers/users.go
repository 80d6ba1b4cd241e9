package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/conectahn/wifi-portal-backend/internal/models"
	"github.com/conectahn/wifi-portal-backend/internal/store"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

func pageParams(r *http.Request) (page, limit int64) {
	page = 1
	limit = defaultPageSize
	if p, err := strconv.ParseInt(r.URL.Query().Get("page"), 10, 64); err == nil && p > 0 {
		page = p
	}
	if l, err := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64); err == nil && l > 0 {
		limit = l
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return page, limit
}

func totalPages(total, limit int64) int64 {
	if limit <= 0 {
		return 1
	}
	return (total + limit - 1) / limit
}

func writePage(w http.ResponseWriter, records []models.Visitor, total, page, limit int64) {
	data := make([]map[string]interface{}, 0, len(records))
	for i := range records {
		data = append(data, records[i].Public())
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"data":       data,
		"total":      total,
		"page":       page,
		"totalPages": totalPages(total, limit),
	})
}

// ListUsers returns the paginated record list, optionally filtered by status
// and migration status.
func ListUsers(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	f := store.Filter{
		Status:          strings.TrimSpace(r.URL.Query().Get("status")),
		MigrationStatus: strings.TrimSpace(r.URL.Query().Get("migrationStatus")),
	}

	records, total, err := visitorStore.Find(r.Context(), f, page, limit)
	if err != nil {
		writeInternalError(w, err)
		return
	}
	writePage(w, records, total, page, limit)
}

// GetUser fetches one record by id.
func GetUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	visitor, err := visitorStore.FindByID(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Visitor not found")
		return
	}
	if err != nil {
		writeInternalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    visitor.Public(),
	})
}

// ListByStatus filters by one category value: either a record status or a
// migration status. Anything outside those enumerations is a 400.
func ListByStatus(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "status")
	page, limit := pageParams(r)

	var f store.Filter
	switch {
	case models.ValidStatus(category):
		f.Status = category
	case models.ValidMigrationStatus(category):
		f.MigrationStatus = category
	default:
		writeError(w, http.StatusBadRequest,
			"Invalid category, must be a status (pending, active, completed, blocked) or a migration status (returned, in_transit, local, other)")
		return
	}

	records, total, err := visitorStore.Find(r.Context(), f, page, limit)
	if err != nil {
		writeInternalError(w, err)
		return
	}
	writePage(w, records, total, page, limit)
}

// ListContactable returns outreach-eligible records: active and reachable on
// at least one channel. Optional filters: channel, department, staleDays.
func ListContactable(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	q := r.URL.Query()

	f := store.Filter{
		ContactableOnly: true,
		Department:      strings.TrimSpace(q.Get("department")),
	}

	if channel := strings.TrimSpace(q.Get("channel")); channel != "" {
		if !models.ValidContactChannel(channel) {
			writeError(w, http.StatusBadRequest, "Invalid channel, must be one of: "+strings.Join(models.ContactChannels, ", "))
			return
		}
		f.Channel = channel
	}
	if stale := strings.TrimSpace(q.Get("staleDays")); stale != "" {
		days, err := strconv.Atoi(stale)
		if err != nil || days < 1 {
			writeError(w, http.StatusBadRequest, "staleDays must be a positive integer")
			return
		}
		f.StaleDays = days
	}

	records, total, err := visitorStore.Find(r.Context(), f, page, limit)
	if err != nil {
		writeInternalError(w, err)
		return
	}
	writePage(w, records, total, page, limit)
}

// UpdateUser patches a record. Only the fields in models.PatchableFields may
// change; server-managed fields are rejected rather than silently dropped.
func UpdateUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var patch map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(patch) == 0 {
		writeError(w, http.StatusBadRequest, "No fields to update")
		return
	}

	for field := range patch {
		if _, ok := models.PatchableFields[field]; !ok {
			writeError(w, http.StatusBadRequest, "Field cannot be updated: "+field)
			return
		}
	}
	if err := checkPatchTypes(patch); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if status, ok := patch["status"].(string); ok && !models.ValidStatus(status) {
		writeError(w, http.StatusBadRequest, "Invalid status, must be one of: pending, active, completed, blocked")
		return
	}
	if ms, ok := patch["migrationStatus"].(string); ok && !models.ValidMigrationStatus(ms) {
		writeError(w, http.StatusBadRequest, "Invalid migrationStatus, must be one of: returned, in_transit, local, other")
		return
	}
	if ns, ok := patch["needsSupport"].(string); ok && !models.ValidNeedsSupport(ns) {
		writeError(w, http.StatusBadRequest, "Invalid needsSupport, must be one of: urgent, moderate, low, none")
		return
	}
	if fm, ok := patch["familyMembers"].(float64); ok && fm < 0 {
		writeError(w, http.StatusBadRequest, "familyMembers cannot be negative")
		return
	}

	visitor, err := visitorStore.Update(r.Context(), id, patch)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Visitor not found")
		return
	}
	if err != nil {
		writeInternalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Visitor updated",
		"data":    visitor.Public(),
	})
}

// checkPatchTypes rejects patch values whose JSON type does not match the
// record field. Mongo's $set stores whatever it is given; a wrongly-typed
// value would make the document undecodable on every later read.
func checkPatchTypes(patch map[string]interface{}) error {
	raw, err := json.Marshal(patch)
	if err != nil {
		return errors.New("Invalid request body")
	}
	var rec models.Visitor
	if err := json.Unmarshal(raw, &rec); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return errors.New("Invalid value for field: " + typeErr.Field)
		}
		return errors.New("Invalid field value")
	}
	return nil
}
