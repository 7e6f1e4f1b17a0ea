package repository

import (
	"context"
	"sync"
	"time"

	"github.com/devopsinterview/storefront/pkg/domain"
	"github.com/devopsinterview/storefront/pkg/domain/order"
	"github.com/google/uuid"
)

// MemoryOrderRepository keeps orders in process. Used when no database is configured.
type MemoryOrderRepository struct {
	mu        sync.RWMutex
	byID      map[uuid.UUID]order.Order
	bySession map[string]uuid.UUID
}

func NewMemoryOrderRepository() *MemoryOrderRepository {
	return &MemoryOrderRepository{
		byID:      make(map[uuid.UUID]order.Order),
		bySession: make(map[string]uuid.UUID),
	}
}

func (r *MemoryOrderRepository) Save(_ context.Context, o *order.Order) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	now := time.Now()
	if o.CreatedAt.IsZero() {
		o.CreatedAt = now
	}
	o.UpdatedAt = now

	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[o.ID] = *o
	if o.SessionID != "" {
		r.bySession[o.SessionID] = o.ID
	}
	return nil
}

func (r *MemoryOrderRepository) GetByID(_ context.Context, id uuid.UUID) (*order.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.byID[id]
	if !ok {
		return nil, domain.NewNotFoundError("Order", id)
	}
	return &o, nil
}

func (r *MemoryOrderRepository) GetBySessionID(_ context.Context, sessionID string) (*order.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.bySession[sessionID]
	if !ok {
		return nil, domain.NewNotFoundByKeyError("Order", sessionID)
	}
	o := r.byID[id]
	return &o, nil
}

func (r *MemoryOrderRepository) Update(_ context.Context, o *order.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[o.ID]; !ok {
		return domain.NewNotFoundError("Order", o.ID)
	}
	o.UpdatedAt = time.Now()
	r.byID[o.ID] = *o
	if o.SessionID != "" {
		r.bySession[o.SessionID] = o.ID
	}
	return nil
}
