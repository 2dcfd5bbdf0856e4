package repository

import (
	"context"

	"sellerconnect/internal/domain/entity"
)

type SellerRatingRepository interface {
	FindByTuple(ctx context.Context, key entity.TupleKey) (*entity.SellerRating, error)
	Create(ctx context.Context, rating *entity.SellerRating) error
	Update(ctx context.Context, rating *entity.SellerRating) error
}
