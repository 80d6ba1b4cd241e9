package models

import (
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Visitor status values.
const (
	StatusPending   = "pending"
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusBlocked   = "blocked"
)

// Migration status categories tracked by the reintegration program.
const (
	MigrationReturned  = "returned"
	MigrationInTransit = "in_transit"
	MigrationLocal     = "local"
	MigrationOther     = "other"
)

// Support urgency levels.
const (
	SupportUrgent   = "urgent"
	SupportModerate = "moderate"
	SupportLow      = "low"
	SupportNone     = "none"
)

// ContactChannels lists the channels outreach attempts can be recorded on.
var ContactChannels = []string{"whatsapp", "sms", "email", "facebook", "instagram"}

// SocialPlatforms lists the profile fields that go through handle extraction.
var SocialPlatforms = []string{"facebook", "instagram", "twitter", "linkedin"}

func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusActive, StatusCompleted, StatusBlocked:
		return true
	}
	return false
}

func ValidMigrationStatus(s string) bool {
	switch s {
	case MigrationReturned, MigrationInTransit, MigrationLocal, MigrationOther:
		return true
	}
	return false
}

func ValidNeedsSupport(s string) bool {
	switch s {
	case SupportUrgent, SupportModerate, SupportLow, SupportNone:
		return true
	}
	return false
}

func ValidContactChannel(s string) bool {
	for _, c := range ContactChannels {
		if c == s {
			return true
		}
	}
	return false
}

// Location places a visitor inside the program's coverage area.
type Location struct {
	Department   string `bson:"department,omitempty" json:"department,omitempty"`
	Municipality string `bson:"municipality,omitempty" json:"municipality,omitempty"`
	Community    string `bson:"community,omitempty" json:"community,omitempty"`
}

// CommunicationEntry records one outreach attempt. The history is append-only;
// entries are never edited or removed.
type CommunicationEntry struct {
	Date     time.Time `bson:"date" json:"date"`
	Channel  string    `bson:"channel" json:"channel"`
	Message  string    `bson:"message" json:"message"`
	Response string    `bson:"response,omitempty" json:"response,omitempty"`
	Agent    string    `bson:"agent,omitempty" json:"agent,omitempty"`
	Status   string    `bson:"status" json:"status"`
}

// JobOpportunity links a visitor to a job offer the program shared with them.
type JobOpportunity struct {
	JobID   string `bson:"job_id" json:"jobId"`
	Applied bool   `bson:"applied" json:"applied"`
	Status  string `bson:"status,omitempty" json:"status,omitempty"`
	Notes   string `bson:"notes,omitempty" json:"notes,omitempty"`
}

// Visitor is the single persisted entity: one row per portal registration,
// extended with the outreach-tracking fields.
type Visitor struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SessionID  string             `bson:"session_id" json:"sessionId"`
	AccessCode string             `bson:"access_code" json:"accessCode"`

	FullName       string `bson:"full_name" json:"fullName"`
	Phone          string `bson:"phone" json:"phone"`
	Email          string `bson:"email" json:"email"`
	WhatsappNumber string `bson:"whatsapp_number,omitempty" json:"whatsappNumber,omitempty"`

	Facebook  string `bson:"facebook,omitempty" json:"facebook,omitempty"`
	Instagram string `bson:"instagram,omitempty" json:"instagram,omitempty"`
	Twitter   string `bson:"twitter,omitempty" json:"twitter,omitempty"`
	LinkedIn  string `bson:"linkedin,omitempty" json:"linkedin,omitempty"`

	MACAddress  string `bson:"mac_address,omitempty" json:"macAddress,omitempty"`
	IPAddress   string `bson:"ip_address,omitempty" json:"ipAddress,omitempty"`
	DeviceInfo  string `bson:"device_info,omitempty" json:"deviceInfo,omitempty"`
	WifiNetwork string `bson:"wifi_network,omitempty" json:"wifiNetwork,omitempty"`

	Status string `bson:"status" json:"status"`

	MigrationStatus      string    `bson:"migration_status,omitempty" json:"migrationStatus,omitempty"`
	EmploymentInterest   []string  `bson:"employment_interest,omitempty" json:"employmentInterest,omitempty"`
	Skills               []string  `bson:"skills,omitempty" json:"skills,omitempty"`
	NeedsSupport         string    `bson:"needs_support,omitempty" json:"needsSupport,omitempty"`
	ContactPreference    []string  `bson:"contact_preference,omitempty" json:"contactPreference,omitempty"`
	PreferredContactTime string    `bson:"preferred_contact_time,omitempty" json:"preferredContactTime,omitempty"`
	Location             *Location `bson:"location,omitempty" json:"location,omitempty"`
	FamilyMembers        int       `bson:"family_members,omitempty" json:"familyMembers,omitempty"`

	LastContactAttempt   *time.Time           `bson:"last_contact_attempt,omitempty" json:"lastContactAttempt,omitempty"`
	ContactAttempts      int                  `bson:"contact_attempts" json:"contactAttempts"`
	ContactSuccess       bool                 `bson:"contact_success" json:"contactSuccess"`
	CommunicationHistory []CommunicationEntry `bson:"communication_history,omitempty" json:"communicationHistory,omitempty"`
	JobOpportunities     []JobOpportunity     `bson:"job_opportunities,omitempty" json:"jobOpportunities,omitempty"`

	DataConsent    bool `bson:"data_consent" json:"dataConsent"`
	ContactConsent bool `bson:"contact_consent" json:"contactConsent"`

	CreatedAt  time.Time  `bson:"created_at" json:"createdAt"`
	UpdatedAt  time.Time  `bson:"updated_at" json:"updatedAt"`
	LastAccess *time.Time `bson:"last_access,omitempty" json:"lastAccess,omitempty"`
}

// HasSocial reports whether any social profile field is set.
func (v *Visitor) HasSocial() bool {
	return v.Facebook != "" || v.Instagram != "" || v.Twitter != "" || v.LinkedIn != ""
}

// HasChannel reports whether the visitor is reachable on the given channel.
func (v *Visitor) HasChannel(channel string) bool {
	switch channel {
	case "whatsapp":
		return v.WhatsappNumber != ""
	case "sms":
		return v.Phone != ""
	case "email":
		return v.Email != ""
	case "facebook":
		return v.Facebook != ""
	case "instagram":
		return v.Instagram != ""
	}
	return false
}

// Contactable reports whether the visitor is eligible for outreach: active
// status and at least one reachable channel.
func (v *Visitor) Contactable() bool {
	if v.Status != StatusActive {
		return false
	}
	for _, c := range ContactChannels {
		if v.HasChannel(c) {
			return true
		}
	}
	return false
}

// Public returns the JSON shape of the record for list/detail responses.
// The device snapshot is internal and never leaves the API.
func (v *Visitor) Public() map[string]interface{} {
	raw, _ := json.Marshal(v)
	var m map[string]interface{}
	_ = json.Unmarshal(raw, &m)
	delete(m, "deviceInfo")
	return m
}

// PatchableFields maps the JSON field names the update endpoint accepts to
// their stored (bson) keys. Server-managed fields — id, sessionId, accessCode,
// deviceInfo, timestamps, contactAttempts and the communication history — are
// deliberately absent.
var PatchableFields = map[string]string{
	"fullName":             "full_name",
	"phone":                "phone",
	"email":                "email",
	"whatsappNumber":       "whatsapp_number",
	"facebook":             "facebook",
	"instagram":            "instagram",
	"twitter":              "twitter",
	"linkedin":             "linkedin",
	"macAddress":           "mac_address",
	"wifiNetwork":          "wifi_network",
	"status":               "status",
	"migrationStatus":      "migration_status",
	"employmentInterest":   "employment_interest",
	"skills":               "skills",
	"needsSupport":         "needs_support",
	"contactPreference":    "contact_preference",
	"preferredContactTime": "preferred_contact_time",
	"location":             "location",
	"familyMembers":        "family_members",
	"contactSuccess":       "contact_success",
	"jobOpportunities":     "job_opportunities",
	"dataConsent":          "data_consent",
	"contactConsent":       "contact_consent",
}
