package entity

import (
	"time"
)

const (
	SellerRatingKind = "seller_rating"

	MinRating       = 1
	MaxRating       = 5
	MaxReviewLength = 500
)

type SellerRating struct {
	ID             string    `json:"id" firestore:"id"`
	SubjectID      string    `json:"subject_id" firestore:"subjectId"`
	SellerID       string    `json:"seller_id" firestore:"sellerId"`
	RequestID      *string   `json:"request_id,omitempty" firestore:"requestId"`
	RequestKey     string    `json:"-" firestore:"requestKey"`
	Rating         int       `json:"rating" firestore:"rating"`
	ReviewText     *string   `json:"review_text,omitempty" firestore:"reviewText"`
	CanBeCancelled bool      `json:"can_be_cancelled" firestore:"canBeCancelled"`
	IsCancelled    bool      `json:"is_cancelled" firestore:"isCancelled"`
	CreatedAt      time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt      time.Time `json:"updated_at" firestore:"updatedAt"`
}

func NewSellerRating(key TupleKey, rating int, reviewText *string, now time.Time) *SellerRating {
	return &SellerRating{
		ID:             key.RecordID(SellerRatingKind),
		SubjectID:      key.SubjectID,
		SellerID:       key.SellerID,
		RequestID:      key.RequestID,
		RequestKey:     key.RequestKey(),
		Rating:         rating,
		ReviewText:     reviewText,
		CanBeCancelled: true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func (r *SellerRating) Key() TupleKey {
	return NewTupleKey(r.SubjectID, r.SellerID, r.RequestID)
}

func (r *SellerRating) Active() bool {
	return !r.IsCancelled
}

// RatingState is the lifecycle position of a tuple with respect to rating.
type RatingState string

const (
	RatingStateNoContact RatingState = "no_contact"
	RatingStateEligible  RatingState = "eligible"
	RatingStateRated     RatingState = "rated"
	RatingStateCancelled RatingState = "cancelled"
)

// RatingStatus is what the UI needs to render the rate/cancel controls.
type RatingStatus struct {
	State     RatingState   `json:"state"`
	Rating    *SellerRating `json:"rating,omitempty"`
	CanRate   bool          `json:"can_rate"`
	CanCancel bool          `json:"can_cancel"`
}

// DeriveRatingStatus folds the stored records for one tuple into a status.
// A cancelled rating is terminal, so it never re-opens CanRate.
func DeriveRatingStatus(hasContact bool, rating *SellerRating) RatingStatus {
	switch {
	case rating != nil && rating.IsCancelled:
		return RatingStatus{State: RatingStateCancelled}
	case rating != nil:
		return RatingStatus{
			State:     RatingStateRated,
			Rating:    rating,
			CanCancel: rating.CanBeCancelled,
		}
	case hasContact:
		return RatingStatus{State: RatingStateEligible, CanRate: true}
	default:
		return RatingStatus{State: RatingStateNoContact}
	}
}
