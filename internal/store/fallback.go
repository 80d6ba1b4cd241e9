package store

import (
	"context"

	"github.com/conectahn/wifi-portal-backend/internal/models"
)

// Fallback routes each operation to the durable backend when it is reachable
// and to the memory list otherwise. The capability probe runs once per
// operation; handlers never consult connection state themselves.
//
// Known behavior, kept on purpose: the two backends are never reconciled.
// A record written to the memory list while Mongo is down stays invisible to
// Mongo-backed queries after connectivity returns, and disappears on restart.
type Fallback struct {
	durable   Store
	memory    Store
	available func(context.Context) bool
}

// NewFallback builds the dual-backend store. durable may be nil when Mongo
// never connected; available reports whether the durable backend is reachable
// right now.
func NewFallback(durable Store, memory Store, available func(context.Context) bool) *Fallback {
	return &Fallback{durable: durable, memory: memory, available: available}
}

func (s *Fallback) backend(ctx context.Context) Store {
	if s.durable != nil && s.available(ctx) {
		return s.durable
	}
	return s.memory
}

func (s *Fallback) Create(ctx context.Context, v *models.Visitor) error {
	return s.backend(ctx).Create(ctx, v)
}

func (s *Fallback) Find(ctx context.Context, f Filter, page, limit int64) ([]models.Visitor, int64, error) {
	return s.backend(ctx).Find(ctx, f, page, limit)
}

func (s *Fallback) FindByID(ctx context.Context, id string) (*models.Visitor, error) {
	return s.backend(ctx).FindByID(ctx, id)
}

func (s *Fallback) Update(ctx context.Context, id string, patch map[string]interface{}) (*models.Visitor, error) {
	return s.backend(ctx).Update(ctx, id, patch)
}

func (s *Fallback) AppendCommunication(ctx context.Context, id string, entry models.CommunicationEntry) (*models.Visitor, error) {
	return s.backend(ctx).AppendCommunication(ctx, id, entry)
}

func (s *Fallback) Count(ctx context.Context, f Filter) (int64, error) {
	return s.backend(ctx).Count(ctx, f)
}

func (s *Fallback) CountBy(ctx context.Context, field string, f Filter) (map[string]int64, error) {
	return s.backend(ctx).CountBy(ctx, field, f)
}
