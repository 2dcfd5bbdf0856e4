package entity

import (
	"time"
)

const ContactInteractionKind = "contact_interaction"

// ContactInteraction records that a subject contacted a seller, once per tuple.
type ContactInteraction struct {
	ID              string    `json:"id" firestore:"id"`
	SubjectID       string    `json:"subject_id" firestore:"subjectId"`
	SellerID        string    `json:"seller_id" firestore:"sellerId"`
	RequestID       *string   `json:"request_id,omitempty" firestore:"requestId"`
	RequestKey      string    `json:"-" firestore:"requestKey"`
	ContactedAt     time.Time `json:"contacted_at" firestore:"contactedAt"`
	RatingPrompted  bool      `json:"rating_prompted" firestore:"ratingPrompted"`
	RatingCompleted bool      `json:"rating_completed" firestore:"ratingCompleted"`
}

func NewContactInteraction(key TupleKey, contactedAt time.Time) *ContactInteraction {
	return &ContactInteraction{
		ID:          key.RecordID(ContactInteractionKind),
		SubjectID:   key.SubjectID,
		SellerID:    key.SellerID,
		RequestID:   key.RequestID,
		RequestKey:  key.RequestKey(),
		ContactedAt: contactedAt,
	}
}

func (c *ContactInteraction) Key() TupleKey {
	return NewTupleKey(c.SubjectID, c.SellerID, c.RequestID)
}

// PromptEligible reports whether the contact falls in the [from, to) window
// and has neither been prompted nor rated.
func (c *ContactInteraction) PromptEligible(from, to time.Time) bool {
	if c.RatingPrompted || c.RatingCompleted {
		return false
	}
	return !c.ContactedAt.Before(from) && c.ContactedAt.Before(to)
}
