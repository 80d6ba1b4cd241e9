// Package store persists visitor records. Two interchangeable backends
// implement the same contract: the Mongo collection and a process-lifetime
// in-memory list used when Mongo is unreachable.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/conectahn/wifi-portal-backend/internal/models"
)

// ErrNotFound is returned when no record matches the given id.
var ErrNotFound = errors.New("visitor not found")

// Filter narrows list and count queries. Zero values mean "no constraint".
type Filter struct {
	Status          string
	MigrationStatus string
	Department      string
	Channel         string    // reachable on this channel
	ContactableOnly bool      // active and at least one contact channel
	WithSocial      bool      // at least one social profile field set
	ContactedOnly   bool      // at least one recorded outreach attempt
	SuccessfulOnly  bool      // outreach marked successful
	StaleDays       int       // last attempt older than N days, or never contacted
	CreatedAfter    time.Time // inclusive lower bound on creation time
}

// Store is the persistence contract shared by both backends. Find returns
// records newest-first; page starts at 1 and limit <= 0 disables pagination
// (exports are never paginated).
type Store interface {
	Create(ctx context.Context, v *models.Visitor) error
	Find(ctx context.Context, f Filter, page, limit int64) ([]models.Visitor, int64, error)
	FindByID(ctx context.Context, id string) (*models.Visitor, error)
	Update(ctx context.Context, id string, patch map[string]interface{}) (*models.Visitor, error)
	AppendCommunication(ctx context.Context, id string, entry models.CommunicationEntry) (*models.Visitor, error)
	Count(ctx context.Context, f Filter) (int64, error)
	CountBy(ctx context.Context, field string, f Filter) (map[string]int64, error)
}

// Fields CountBy groups on. They name stored document paths.
const (
	FieldMigrationStatus = "migration_status"
	FieldDepartment      = "location.department"
)
