package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/conectahn/wifi-portal-backend/internal/models"
	"github.com/conectahn/wifi-portal-backend/internal/services"
	"github.com/conectahn/wifi-portal-backend/internal/store"
)

// ContactRequest records an outreach attempt. No message is actually sent;
// delivery integration (WhatsApp API, SMS gateway) is a future step — this
// endpoint only tracks that the team reached out.
type ContactRequest struct {
	Channel  string `json:"channel"`
	Template string `json:"template"`
	Message  string `json:"message"`
	Agent    string `json:"agent"`
}

// ContactUser appends one communication-history entry to the target record,
// increments the attempt counter and stamps the attempt time.
func ContactUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	var req ContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Channel = strings.TrimSpace(req.Channel)
	if !models.ValidContactChannel(req.Channel) {
		writeError(w, http.StatusBadRequest, "Invalid channel, must be one of: "+strings.Join(models.ContactChannels, ", "))
		return
	}

	visitor, err := visitorStore.FindByID(r.Context(), userID)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Visitor not found")
		return
	}
	if err != nil {
		writeInternalError(w, err)
		return
	}

	entry := models.CommunicationEntry{
		Date:    time.Now(),
		Channel: req.Channel,
		Message: services.OutreachMessage(req.Template, req.Message, visitor.FullName),
		Agent:   strings.TrimSpace(req.Agent),
		Status:  "sent",
	}

	updated, err := visitorStore.AppendCommunication(r.Context(), userID, entry)
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
		"message": "Contact attempt recorded",
		"data": map[string]interface{}{
			"contactAttempts":    updated.ContactAttempts,
			"lastContactAttempt": updated.LastContactAttempt,
			"entry":              entry,
		},
	})
}
