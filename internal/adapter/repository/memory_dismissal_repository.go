package repository

import (
	"context"
	"sync"

	"sellerconnect/internal/domain/repository"
)

// MemoryDismissalRepository keeps dismissed prompt IDs per session for the
// lifetime of the process.
type MemoryDismissalRepository struct {
	mu       sync.RWMutex
	sessions map[string]map[string]struct{}
}

func NewMemoryDismissalRepository() *MemoryDismissalRepository {
	return &MemoryDismissalRepository{
		sessions: make(map[string]map[string]struct{}),
	}
}

var _ repository.PromptDismissalRepository = (*MemoryDismissalRepository)(nil)

func (r *MemoryDismissalRepository) Dismiss(ctx context.Context, sessionID, contactID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.sessions[sessionID]
	if !ok {
		set = make(map[string]struct{})
		r.sessions[sessionID] = set
	}
	set[contactID] = struct{}{}
	return nil
}

func (r *MemoryDismissalRepository) DismissedIDs(ctx context.Context, sessionID string) (map[string]struct{}, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make(map[string]struct{}, len(r.sessions[sessionID]))
	for id := range r.sessions[sessionID] {
		ids[id] = struct{}{}
	}
	return ids, nil
}
