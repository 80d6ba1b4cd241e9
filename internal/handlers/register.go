package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/conectahn/wifi-portal-backend/internal/models"
	"github.com/conectahn/wifi-portal-backend/pkg/clientip"
	"github.com/conectahn/wifi-portal-backend/pkg/codes"
	"github.com/conectahn/wifi-portal-backend/pkg/normalize"
)

// RegisterRequest is the captive portal form payload.
type RegisterRequest struct {
	FullName       string `json:"fullName"`
	Phone          string `json:"phone"`
	Email          string `json:"email"`
	WhatsappNumber string `json:"whatsappNumber"`

	Facebook  string `json:"facebook"`
	Instagram string `json:"instagram"`
	Twitter   string `json:"twitter"`
	Linkedin  string `json:"linkedin"`

	MacAddress  string `json:"macAddress"`
	WifiNetwork string `json:"wifiNetwork"`

	MigrationStatus      string           `json:"migrationStatus"`
	EmploymentInterest   []string         `json:"employmentInterest"`
	Skills               []string         `json:"skills"`
	NeedsSupport         string           `json:"needsSupport"`
	ContactPreference    []string         `json:"contactPreference"`
	PreferredContactTime string           `json:"preferredContactTime"`
	Location             *models.Location `json:"location"`
	FamilyMembers        int              `json:"familyMembers"`

	DataConsent    bool `json:"dataConsent"`
	ContactConsent bool `json:"contactConsent"`
}

// Register creates a Visitor Record and hands back the WiFi access code.
func Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.FullName = strings.TrimSpace(req.FullName)
	if req.FullName == "" {
		writeError(w, http.StatusBadRequest, "Full name is required")
		return
	}
	if strings.TrimSpace(req.Phone) == "" {
		writeError(w, http.StatusBadRequest, "Phone is required")
		return
	}
	if strings.TrimSpace(req.Email) == "" {
		writeError(w, http.StatusBadRequest, "Email is required")
		return
	}

	email, err := normalize.Email(req.Email)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	phone, err := normalize.Phone(req.Phone)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if req.MigrationStatus != "" && !models.ValidMigrationStatus(req.MigrationStatus) {
		writeError(w, http.StatusBadRequest, "Invalid migrationStatus, must be one of: returned, in_transit, local, other")
		return
	}
	if req.NeedsSupport != "" && !models.ValidNeedsSupport(req.NeedsSupport) {
		writeError(w, http.StatusBadRequest, "Invalid needsSupport, must be one of: urgent, moderate, low, none")
		return
	}
	for _, c := range req.ContactPreference {
		if !models.ValidContactChannel(c) {
			writeError(w, http.StatusBadRequest, "Invalid contactPreference channel: "+c)
			return
		}
	}
	if req.FamilyMembers < 0 {
		writeError(w, http.StatusBadRequest, "familyMembers cannot be negative")
		return
	}

	sessionID := strings.TrimSpace(r.Header.Get("Session-Id"))
	if sessionID == "" {
		sessionID = codes.GenerateSessionID()
	}

	wifiNetwork := strings.TrimSpace(req.WifiNetwork)
	if wifiNetwork == "" {
		wifiNetwork = cfg.WifiNetwork
	}

	visitor := &models.Visitor{
		SessionID:  sessionID,
		AccessCode: codes.GenerateAccessCode(),

		FullName:       req.FullName,
		Phone:          phone,
		Email:          email,
		WhatsappNumber: strings.TrimSpace(req.WhatsappNumber),

		Facebook:  normalize.SocialHandle("facebook", req.Facebook),
		Instagram: normalize.SocialHandle("instagram", req.Instagram),
		Twitter:   normalize.SocialHandle("twitter", req.Twitter),
		LinkedIn:  normalize.SocialHandle("linkedin", req.Linkedin),

		MACAddress:  strings.TrimSpace(req.MacAddress),
		IPAddress:   clientip.FromRequest(r),
		DeviceInfo:  deviceSnapshot(r),
		WifiNetwork: wifiNetwork,

		Status: models.StatusActive,

		MigrationStatus:      req.MigrationStatus,
		EmploymentInterest:   trimAll(req.EmploymentInterest),
		Skills:               trimAll(req.Skills),
		NeedsSupport:         req.NeedsSupport,
		ContactPreference:    req.ContactPreference,
		PreferredContactTime: strings.TrimSpace(req.PreferredContactTime),
		Location:             req.Location,
		FamilyMembers:        req.FamilyMembers,

		DataConsent:    req.DataConsent,
		ContactConsent: req.ContactConsent,
	}

	if err := visitorStore.Create(r.Context(), visitor); err != nil {
		writeInternalError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Registration successful",
		"data": map[string]interface{}{
			"userId":      visitor.ID.Hex(),
			"accessCode":  visitor.AccessCode,
			"fullName":    visitor.FullName,
			"redirectUrl": cfg.RedirectURL,
			// Informational only; nothing enforces the session window.
			"accessDuration": "24 hours",
		},
	})
}

// deviceSnapshot serializes the request's device hints into the opaque
// device_info field. Never exposed through the API.
func deviceSnapshot(r *http.Request) string {
	snap, _ := json.Marshal(map[string]string{
		"userAgent":      r.UserAgent(),
		"acceptLanguage": r.Header.Get("Accept-Language"),
	})
	return string(snap)
}

func trimAll(values []string) []string {
	out := values[:0]
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
