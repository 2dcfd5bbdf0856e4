package repository

import (
	"context"

	"cloud.google.com/go/firestore"

	"sellerconnect/internal/domain/entity"
	"sellerconnect/internal/domain/repository"
	"sellerconnect/pkg/errors"
)

const sellerRatingsCollection = "seller_ratings"

type firestoreRatingRepository struct {
	client *firestore.Client
}

func NewFirestoreRatingRepository(client *firestore.Client) repository.SellerRatingRepository {
	return &firestoreRatingRepository{
		client: client,
	}
}

func (r *firestoreRatingRepository) FindByTuple(ctx context.Context, key entity.TupleKey) (*entity.SellerRating, error) {
	doc, err := r.client.Collection(sellerRatingsCollection).Doc(key.RecordID(entity.SellerRatingKind)).Get(ctx)
	if err != nil {
		return nil, classifyFirestoreError(err, "Seller rating", "get")
	}

	var rating entity.SellerRating
	if err := doc.DataTo(&rating); err != nil {
		return nil, errors.Internal("Failed to parse seller rating data", err)
	}

	return &rating, nil
}

func (r *firestoreRatingRepository) Create(ctx context.Context, rating *entity.SellerRating) error {
	_, err := r.client.Collection(sellerRatingsCollection).Doc(rating.ID).Create(ctx, rating)
	return classifyFirestoreError(err, "Seller rating", "create")
}

// Update only touches mutable fields; the tuple and createdAt stay as written.
func (r *firestoreRatingRepository) Update(ctx context.Context, rating *entity.SellerRating) error {
	_, err := r.client.Collection(sellerRatingsCollection).Doc(rating.ID).Update(ctx, []firestore.Update{
		{Path: "rating", Value: rating.Rating},
		{Path: "reviewText", Value: rating.ReviewText},
		{Path: "canBeCancelled", Value: rating.CanBeCancelled},
		{Path: "isCancelled", Value: rating.IsCancelled},
		{Path: "updatedAt", Value: rating.UpdatedAt},
	})
	return classifyFirestoreError(err, "Seller rating", "update")
}
