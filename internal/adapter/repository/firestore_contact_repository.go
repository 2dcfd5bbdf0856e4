package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"sellerconnect/internal/domain/entity"
	"sellerconnect/internal/domain/repository"
	"sellerconnect/pkg/errors"
)

const contactInteractionsCollection = "contact_interactions"

type firestoreContactRepository struct {
	client *firestore.Client
}

func NewFirestoreContactRepository(client *firestore.Client) repository.ContactInteractionRepository {
	return &firestoreContactRepository{
		client: client,
	}
}

func (r *firestoreContactRepository) GetByID(ctx context.Context, id string) (*entity.ContactInteraction, error) {
	doc, err := r.client.Collection(contactInteractionsCollection).Doc(id).Get(ctx)
	if err != nil {
		return nil, classifyFirestoreError(err, "Contact interaction", "get")
	}

	var contact entity.ContactInteraction
	if err := doc.DataTo(&contact); err != nil {
		return nil, errors.Internal("Failed to parse contact interaction data", err)
	}

	return &contact, nil
}

// FindByTuple reads the tuple's deterministic document, so "no request" is
// never matched through null-equality in a query.
func (r *firestoreContactRepository) FindByTuple(ctx context.Context, key entity.TupleKey) (*entity.ContactInteraction, error) {
	return r.GetByID(ctx, key.RecordID(entity.ContactInteractionKind))
}

func (r *firestoreContactRepository) Create(ctx context.Context, contact *entity.ContactInteraction) error {
	_, err := r.client.Collection(contactInteractionsCollection).Doc(contact.ID).Create(ctx, contact)
	return classifyFirestoreError(err, "Contact interaction", "create")
}

func (r *firestoreContactRepository) SetRatingCompleted(ctx context.Context, key entity.TupleKey, completed bool) error {
	_, err := r.client.Collection(contactInteractionsCollection).
		Doc(key.RecordID(entity.ContactInteractionKind)).
		Update(ctx, []firestore.Update{
			{Path: "ratingCompleted", Value: completed},
		})
	return classifyFirestoreError(err, "Contact interaction", "update")
}

func (r *firestoreContactRepository) MarkPrompted(ctx context.Context, id string) error {
	_, err := r.client.Collection(contactInteractionsCollection).
		Doc(id).
		Update(ctx, []firestore.Update{
			{Path: "ratingPrompted", Value: true},
		})
	return classifyFirestoreError(err, "Contact interaction", "update")
}

func (r *firestoreContactRepository) FindPromptCandidates(ctx context.Context, subjectID string, from, to time.Time) ([]*entity.ContactInteraction, error) {
	query := r.client.Collection(contactInteractionsCollection).
		Where("subjectId", "==", subjectID).
		Where("ratingPrompted", "==", false).
		Where("ratingCompleted", "==", false).
		Where("contactedAt", ">=", from).
		Where("contactedAt", "<", to).
		OrderBy("contactedAt", firestore.Asc)

	iter := query.Documents(ctx)
	defer iter.Stop()

	var contacts []*entity.ContactInteraction
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, classifyFirestoreError(err, "Contact interactions", "query")
		}

		var contact entity.ContactInteraction
		if err := doc.DataTo(&contact); err != nil {
			return nil, errors.Internal("Failed to parse contact interaction data", err)
		}
		contacts = append(contacts, &contact)
	}

	return contacts, nil
}
