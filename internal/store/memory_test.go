package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/conectahn/wifi-portal-backend/internal/models"
)

func seedVisitor(t *testing.T, s Store, i int, mutate func(*models.Visitor)) *models.Visitor {
	t.Helper()
	v := &models.Visitor{
		SessionID:  fmt.Sprintf("session-%d", i),
		AccessCode: "WIFI-TEST01",
		FullName:   fmt.Sprintf("Visitor %d", i),
		Phone:      "98765432",
		Email:      fmt.Sprintf("visitor%d@example.com", i),
		Status:     models.StatusActive,
		CreatedAt:  time.Now().Add(time.Duration(i-100) * time.Second),
	}
	if mutate != nil {
		mutate(v)
	}
	if err := s.Create(context.Background(), v); err != nil {
		t.Fatalf("Create: %v", err)
	}
	return v
}

func TestMemoryPagination(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	for i := 0; i < 7; i++ {
		seedVisitor(t, m, i, nil)
	}

	page1, total, err := m.Find(ctx, Filter{}, 1, 3)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if total != 7 {
		t.Errorf("total = %d, want 7", total)
	}
	if len(page1) != 3 {
		t.Fatalf("page 1 length = %d, want 3", len(page1))
	}
	// Newest first: visitor 6 was created last.
	if page1[0].FullName != "Visitor 6" {
		t.Errorf("page 1 starts with %q, want Visitor 6", page1[0].FullName)
	}

	page3, _, err := m.Find(ctx, Filter{}, 3, 3)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(page3) != 1 {
		t.Fatalf("page 3 length = %d, want 1", len(page3))
	}
	if page3[0].FullName != "Visitor 0" {
		t.Errorf("last page record = %q, want Visitor 0", page3[0].FullName)
	}

	empty, _, err := m.Find(ctx, Filter{}, 4, 3)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("page past the end returned %d records", len(empty))
	}

	all, _, err := m.Find(ctx, Filter{}, 1, 0)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(all) != 7 {
		t.Errorf("limit 0 returned %d records, want all 7", len(all))
	}
}

func TestMemoryFilters(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	seedVisitor(t, m, 0, func(v *models.Visitor) {
		v.Status = models.StatusBlocked
	})
	seedVisitor(t, m, 1, func(v *models.Visitor) {
		v.MigrationStatus = models.MigrationReturned
		v.Location = &models.Location{Department: "Cortés", Municipality: "San Pedro Sula"}
		v.Facebook = "visitor.one"
	})
	seedVisitor(t, m, 2, func(v *models.Visitor) {
		v.MigrationStatus = models.MigrationReturned
		v.Location = &models.Location{Department: "Francisco Morazán"}
		v.WhatsappNumber = "99887766"
		v.ContactAttempts = 2
		v.ContactSuccess = true
	})
	seedVisitor(t, m, 3, func(v *models.Visitor) {
		v.MigrationStatus = models.MigrationInTransit
		old := time.Now().AddDate(0, 0, -30)
		v.LastContactAttempt = &old
		v.ContactAttempts = 1
	})

	tests := []struct {
		name   string
		filter Filter
		want   int64
	}{
		{"no filter", Filter{}, 4},
		{"by status", Filter{Status: models.StatusBlocked}, 1},
		{"by migration status", Filter{MigrationStatus: models.MigrationReturned}, 2},
		{"by department", Filter{Department: "Cortés"}, 1},
		{"by channel whatsapp", Filter{Channel: "whatsapp"}, 1},
		{"contactable excludes blocked", Filter{ContactableOnly: true}, 3},
		{"with social", Filter{WithSocial: true}, 1},
		{"contacted only", Filter{ContactedOnly: true}, 2},
		{"successful only", Filter{SuccessfulOnly: true}, 1},
		// Visitor 3 was contacted 30 days ago; visitors 0-2 were never
		// contacted and count as stale too. Visitor 2's attempts carry no
		// timestamp, so it stays in the never-contacted bucket.
		{"stale 7 days", Filter{StaleDays: 7}, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.Count(ctx, tt.filter)
			if err != nil {
				t.Fatalf("Count: %v", err)
			}
			if got != tt.want {
				t.Errorf("Count(%+v) = %d, want %d", tt.filter, got, tt.want)
			}
		})
	}
}

func TestMemoryCountBy(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		seedVisitor(t, m, i, func(v *models.Visitor) {
			v.MigrationStatus = models.MigrationReturned
		})
	}
	seedVisitor(t, m, 3, func(v *models.Visitor) {
		v.MigrationStatus = models.MigrationLocal
	})
	seedVisitor(t, m, 4, nil) // no migration status, must not appear

	byStatus, err := m.CountBy(ctx, FieldMigrationStatus, Filter{})
	if err != nil {
		t.Fatalf("CountBy: %v", err)
	}
	if byStatus[models.MigrationReturned] != 3 {
		t.Errorf("returned count = %d, want 3", byStatus[models.MigrationReturned])
	}
	if byStatus[models.MigrationLocal] != 1 {
		t.Errorf("local count = %d, want 1", byStatus[models.MigrationLocal])
	}
	if _, ok := byStatus[""]; ok {
		t.Error("empty category must be skipped")
	}
}

func TestMemoryUpdatePreservesServerFields(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	v := seedVisitor(t, m, 0, nil)

	updated, err := m.Update(ctx, v.ID.Hex(), map[string]interface{}{
		"fullName": "Renamed Visitor",
		"status":   models.StatusCompleted,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.FullName != "Renamed Visitor" {
		t.Errorf("fullName = %q, want Renamed Visitor", updated.FullName)
	}
	if updated.Status != models.StatusCompleted {
		t.Errorf("status = %q, want completed", updated.Status)
	}
	if updated.AccessCode != v.AccessCode {
		t.Errorf("accessCode changed: %q -> %q", v.AccessCode, updated.AccessCode)
	}
	if !updated.CreatedAt.Equal(v.CreatedAt) {
		t.Errorf("createdAt changed on update")
	}
	if updated.ID != v.ID {
		t.Errorf("record identity changed on update")
	}
}

func TestMemoryUpdateNotFound(t *testing.T) {
	m := NewMemory()
	if _, err := m.Update(context.Background(), "64b0c8f2a7e1b2c3d4e5f601", map[string]interface{}{"status": "blocked"}); err != ErrNotFound {
		t.Errorf("Update on missing id: err = %v, want ErrNotFound", err)
	}
	if _, err := m.FindByID(context.Background(), "not-a-hex-id"); err != ErrNotFound {
		t.Errorf("FindByID on malformed id: err = %v, want ErrNotFound", err)
	}
}

func TestMemoryAppendCommunication(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	v := seedVisitor(t, m, 0, nil)

	entry := models.CommunicationEntry{
		Date:    time.Now(),
		Channel: "whatsapp",
		Message: "Hola Visitor 0",
		Agent:   "agente1",
		Status:  "sent",
	}
	updated, err := m.AppendCommunication(ctx, v.ID.Hex(), entry)
	if err != nil {
		t.Fatalf("AppendCommunication: %v", err)
	}
	if updated.ContactAttempts != 1 {
		t.Errorf("contactAttempts = %d, want 1", updated.ContactAttempts)
	}
	if len(updated.CommunicationHistory) != 1 {
		t.Fatalf("history length = %d, want 1", len(updated.CommunicationHistory))
	}
	if updated.CommunicationHistory[0].Status != "sent" {
		t.Errorf("history entry status = %q, want sent", updated.CommunicationHistory[0].Status)
	}
	if updated.LastContactAttempt == nil {
		t.Error("lastContactAttempt not stamped")
	}

	// History only grows.
	updated, err = m.AppendCommunication(ctx, v.ID.Hex(), entry)
	if err != nil {
		t.Fatalf("AppendCommunication: %v", err)
	}
	if updated.ContactAttempts != 2 || len(updated.CommunicationHistory) != 2 {
		t.Errorf("after second append: attempts = %d, history = %d, want 2 and 2",
			updated.ContactAttempts, len(updated.CommunicationHistory))
	}
}
