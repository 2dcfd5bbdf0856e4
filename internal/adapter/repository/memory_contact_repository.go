package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"sellerconnect/internal/domain/entity"
	"sellerconnect/internal/domain/repository"
	"sellerconnect/pkg/errors"
)

// MemoryContactRepository keeps contacts in process memory. It backs the
// "memory" store driver and the use case tests.
type MemoryContactRepository struct {
	mu       sync.RWMutex
	contacts map[string]entity.ContactInteraction
}

func NewMemoryContactRepository() *MemoryContactRepository {
	return &MemoryContactRepository{
		contacts: make(map[string]entity.ContactInteraction),
	}
}

var _ repository.ContactInteractionRepository = (*MemoryContactRepository)(nil)

func (r *MemoryContactRepository) GetByID(ctx context.Context, id string) (*entity.ContactInteraction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	contact, ok := r.contacts[id]
	if !ok {
		return nil, errors.NotFound("Contact interaction", nil)
	}
	return &contact, nil
}

func (r *MemoryContactRepository) FindByTuple(ctx context.Context, key entity.TupleKey) (*entity.ContactInteraction, error) {
	return r.GetByID(ctx, key.RecordID(entity.ContactInteractionKind))
}

func (r *MemoryContactRepository) Create(ctx context.Context, contact *entity.ContactInteraction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.contacts[contact.ID]; exists {
		return errors.Conflict("Contact interaction already exists", nil)
	}
	r.contacts[contact.ID] = *contact
	return nil
}

func (r *MemoryContactRepository) SetRatingCompleted(ctx context.Context, key entity.TupleKey, completed bool) error {
	return r.update(key.RecordID(entity.ContactInteractionKind), func(c *entity.ContactInteraction) {
		c.RatingCompleted = completed
	})
}

func (r *MemoryContactRepository) MarkPrompted(ctx context.Context, id string) error {
	return r.update(id, func(c *entity.ContactInteraction) {
		c.RatingPrompted = true
	})
}

func (r *MemoryContactRepository) update(id string, apply func(*entity.ContactInteraction)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	contact, ok := r.contacts[id]
	if !ok {
		return errors.NotFound("Contact interaction", nil)
	}
	apply(&contact)
	r.contacts[id] = contact
	return nil
}

func (r *MemoryContactRepository) FindPromptCandidates(ctx context.Context, subjectID string, from, to time.Time) ([]*entity.ContactInteraction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var contacts []*entity.ContactInteraction
	for _, contact := range r.contacts {
		if contact.SubjectID != subjectID || !contact.PromptEligible(from, to) {
			continue
		}
		c := contact
		contacts = append(contacts, &c)
	}

	sort.Slice(contacts, func(i, j int) bool {
		if contacts[i].ContactedAt.Equal(contacts[j].ContactedAt) {
			return contacts[i].ID < contacts[j].ID
		}
		return contacts[i].ContactedAt.Before(contacts[j].ContactedAt)
	})
	return contacts, nil
}

// Count returns the number of stored contacts.
func (r *MemoryContactRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.contacts)
}
