package store

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/conectahn/wifi-portal-backend/internal/models"
)

// Memory is the fallback backend: an ordered, process-lifetime list. Records
// held here are lost on restart and are never reconciled into Mongo. The
// mutex matters — handlers run on concurrent goroutines.
type Memory struct {
	mu      sync.Mutex
	records []models.Visitor
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Create(ctx context.Context, v *models.Visitor) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	if v.ID.IsZero() {
		v.ID = primitive.NewObjectID()
	}
	if v.CreatedAt.IsZero() {
		v.CreatedAt = now
	}
	v.UpdatedAt = now

	m.records = append(m.records, *v)
	return nil
}

func (m *Memory) Find(ctx context.Context, f Filter, page, limit int64) ([]models.Visitor, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	matched := m.match(f)
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	if limit <= 0 {
		return matched, total, nil
	}
	if page < 1 {
		page = 1
	}
	skip := (page - 1) * limit
	if skip >= total {
		return []models.Visitor{}, total, nil
	}
	end := skip + limit
	if end > total {
		end = total
	}
	return matched[skip:end], total, nil
}

func (m *Memory) FindByID(ctx context.Context, id string) (*models.Visitor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i, err := m.indexOf(id)
	if err != nil {
		return nil, err
	}
	v := m.records[i]
	return &v, nil
}

func (m *Memory) Update(ctx context.Context, id string, patch map[string]interface{}) (*models.Visitor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i, err := m.indexOf(id)
	if err != nil {
		return nil, err
	}

	// Overlay the patch through JSON so nested values (location, job lists)
	// land with the same types a decode from the wire would produce.
	raw, err := json.Marshal(m.records[i])
	if err != nil {
		return nil, err
	}
	var doc map[string]interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	for k, val := range patch {
		doc[k] = val
	}
	merged, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var updated models.Visitor
	if err := json.Unmarshal(merged, &updated); err != nil {
		return nil, err
	}

	// Identity and server-managed fields survive regardless of the patch.
	updated.ID = m.records[i].ID
	updated.SessionID = m.records[i].SessionID
	updated.AccessCode = m.records[i].AccessCode
	updated.CreatedAt = m.records[i].CreatedAt
	updated.DeviceInfo = m.records[i].DeviceInfo
	updated.ContactAttempts = m.records[i].ContactAttempts
	updated.CommunicationHistory = m.records[i].CommunicationHistory
	updated.LastContactAttempt = m.records[i].LastContactAttempt
	updated.UpdatedAt = time.Now()

	m.records[i] = updated
	v := updated
	return &v, nil
}

func (m *Memory) AppendCommunication(ctx context.Context, id string, entry models.CommunicationEntry) (*models.Visitor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i, err := m.indexOf(id)
	if err != nil {
		return nil, err
	}

	rec := &m.records[i]
	rec.CommunicationHistory = append(rec.CommunicationHistory, entry)
	rec.ContactAttempts++
	t := entry.Date
	rec.LastContactAttempt = &t
	rec.UpdatedAt = time.Now()

	v := *rec
	return &v, nil
}

func (m *Memory) Count(ctx context.Context, f Filter) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.match(f))), nil
}

func (m *Memory) CountBy(ctx context.Context, field string, f Filter) (map[string]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[string]int64)
	for _, v := range m.match(f) {
		var key string
		switch field {
		case FieldMigrationStatus:
			key = v.MigrationStatus
		case FieldDepartment:
			if v.Location != nil {
				key = v.Location.Department
			}
		}
		if key != "" {
			out[key]++
		}
	}
	return out, nil
}

// indexOf must be called with the lock held.
func (m *Memory) indexOf(id string) (int, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return 0, ErrNotFound
	}
	for i := range m.records {
		if m.records[i].ID == oid {
			return i, nil
		}
	}
	return 0, ErrNotFound
}

// match must be called with the lock held. Returns copies.
func (m *Memory) match(f Filter) []models.Visitor {
	staleCutoff := time.Now().AddDate(0, 0, -f.StaleDays)

	out := make([]models.Visitor, 0, len(m.records))
	for _, v := range m.records {
		if f.Status != "" && v.Status != f.Status {
			continue
		}
		if f.MigrationStatus != "" && v.MigrationStatus != f.MigrationStatus {
			continue
		}
		if f.Department != "" && (v.Location == nil || v.Location.Department != f.Department) {
			continue
		}
		if f.Channel != "" && !v.HasChannel(f.Channel) {
			continue
		}
		if f.ContactableOnly && !v.Contactable() {
			continue
		}
		if f.WithSocial && !v.HasSocial() {
			continue
		}
		if f.ContactedOnly && v.ContactAttempts == 0 {
			continue
		}
		if f.SuccessfulOnly && !v.ContactSuccess {
			continue
		}
		if f.StaleDays > 0 && v.LastContactAttempt != nil && !v.LastContactAttempt.Before(staleCutoff) {
			continue
		}
		if !f.CreatedAfter.IsZero() && v.CreatedAt.Before(f.CreatedAfter) {
			continue
		}
		out = append(out, v)
	}
	return out
}
