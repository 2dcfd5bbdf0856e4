package repository

import (
	"context"
	"sync"

	"sellerconnect/internal/domain/entity"
	"sellerconnect/internal/domain/repository"
	"sellerconnect/pkg/errors"
)

type MemoryRatingRepository struct {
	mu      sync.RWMutex
	ratings map[string]entity.SellerRating
}

func NewMemoryRatingRepository() *MemoryRatingRepository {
	return &MemoryRatingRepository{
		ratings: make(map[string]entity.SellerRating),
	}
}

var _ repository.SellerRatingRepository = (*MemoryRatingRepository)(nil)

func (r *MemoryRatingRepository) FindByTuple(ctx context.Context, key entity.TupleKey) (*entity.SellerRating, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rating, ok := r.ratings[key.RecordID(entity.SellerRatingKind)]
	if !ok {
		return nil, errors.NotFound("Seller rating", nil)
	}
	return &rating, nil
}

func (r *MemoryRatingRepository) Create(ctx context.Context, rating *entity.SellerRating) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.ratings[rating.ID]; exists {
		return errors.Conflict("Seller rating already exists", nil)
	}
	r.ratings[rating.ID] = *rating
	return nil
}

func (r *MemoryRatingRepository) Update(ctx context.Context, rating *entity.SellerRating) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.ratings[rating.ID]
	if !ok {
		return errors.NotFound("Seller rating", nil)
	}
	existing.Rating = rating.Rating
	existing.ReviewText = rating.ReviewText
	existing.CanBeCancelled = rating.CanBeCancelled
	existing.IsCancelled = rating.IsCancelled
	existing.UpdatedAt = rating.UpdatedAt
	r.ratings[rating.ID] = existing
	return nil
}

// Count returns the number of stored ratings.
func (r *MemoryRatingRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.ratings)
}
