// Package export renders visitor records as spreadsheet-compatible CSV.
package export

import (
	"strconv"
	"strings"
	"time"

	"github.com/conectahn/wifi-portal-backend/internal/models"
)

// BOM makes Excel read the file as UTF-8; accented names break without it.
const BOM = "\uFEFF"

const timeLayout = "2006-01-02 15:04:05"

// FullColumns is the header row of the full export.
var FullColumns = []string{
	"fullName", "phone", "email", "whatsappNumber",
	"facebook", "instagram", "twitter", "linkedin",
	"accessCode", "status", "migrationStatus", "needsSupport",
	"department", "municipality", "familyMembers",
	"contactAttempts", "contactSuccess", "lastContactAttempt",
	"wifiNetwork", "createdAt",
}

// ContactColumns is the header row of the outreach-focused export.
var ContactColumns = []string{
	"fullName", "phone", "whatsappNumber", "email",
	"contactPreference", "preferredContactTime",
	"migrationStatus", "department",
	"contactAttempts", "lastContactAttempt", "contactSuccess",
}

// Full renders every record with the full column set.
func Full(records []models.Visitor) string {
	var b strings.Builder
	b.WriteString(BOM)
	writeRow(&b, FullColumns)
	for i := range records {
		v := &records[i]
		writeRow(&b, []string{
			v.FullName, v.Phone, v.Email, v.WhatsappNumber,
			v.Facebook, v.Instagram, v.Twitter, v.LinkedIn,
			v.AccessCode, v.Status, v.MigrationStatus, v.NeedsSupport,
			department(v), municipality(v), strconv.Itoa(v.FamilyMembers),
			strconv.Itoa(v.ContactAttempts), strconv.FormatBool(v.ContactSuccess),
			formatTime(v.LastContactAttempt),
			v.WifiNetwork, v.CreatedAt.Format(timeLayout),
		})
	}
	return b.String()
}

// Contacts renders the outreach column set.
func Contacts(records []models.Visitor) string {
	var b strings.Builder
	b.WriteString(BOM)
	writeRow(&b, ContactColumns)
	for i := range records {
		v := &records[i]
		writeRow(&b, []string{
			v.FullName, v.Phone, v.WhatsappNumber, v.Email,
			strings.Join(v.ContactPreference, ";"), v.PreferredContactTime,
			v.MigrationStatus, department(v),
			strconv.Itoa(v.ContactAttempts), formatTime(v.LastContactAttempt),
			strconv.FormatBool(v.ContactSuccess),
		})
	}
	return b.String()
}

// Every field is double-quoted so commas and line breaks inside names never
// shift columns; inner quotes are doubled per the usual CSV escape.
func writeRow(b *strings.Builder, fields []string) {
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(f, `"`, `""`))
		b.WriteByte('"')
	}
	b.WriteByte('\n')
}

func department(v *models.Visitor) string {
	if v.Location == nil {
		return ""
	}
	return v.Location.Department
}

func municipality(v *models.Visitor) string {
	if v.Location == nil {
		return ""
	}
	return v.Location.Municipality
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(timeLayout)
}
