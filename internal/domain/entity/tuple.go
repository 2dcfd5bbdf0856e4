package entity

import (
	"fmt"

	"github.com/google/uuid"
)

const noRequestKey = "-"

// tupleNamespace seeds the deterministic record IDs derived from a TupleKey.
var tupleNamespace = uuid.MustParse("6f1c2a4e-8a53-4d0b-9c1e-3b7f5d2a9e10")

// TupleKey scopes contact and rating uniqueness. A nil RequestID is its own
// grouping value and never matches a present one.
type TupleKey struct {
	SubjectID string
	SellerID  string
	RequestID *string
}

func NewTupleKey(subjectID, sellerID string, requestID *string) TupleKey {
	if requestID != nil {
		id := *requestID
		requestID = &id
	}
	return TupleKey{
		SubjectID: subjectID,
		SellerID:  sellerID,
		RequestID: requestID,
	}
}

// RequestKey is the stored form of the optional request: "-" when absent.
func (k TupleKey) RequestKey() string {
	if k.RequestID == nil {
		return noRequestKey
	}
	return "r:" + *k.RequestID
}

func (k TupleKey) HasRequest() bool {
	return k.RequestID != nil
}

func (k TupleKey) String() string {
	return fmt.Sprintf("%d:%s|%d:%s|%s", len(k.SubjectID), k.SubjectID, len(k.SellerID), k.SellerID, k.RequestKey())
}

// RecordID derives the document ID for the given record kind. The store
// rejects a second create under the same ID, which is what enforces one
// record per tuple.
func (k TupleKey) RecordID(kind string) string {
	return uuid.NewSHA1(tupleNamespace, []byte(kind+"#"+k.String())).String()
}

func (k TupleKey) Equal(other TupleKey) bool {
	return k.SubjectID == other.SubjectID &&
		k.SellerID == other.SellerID &&
		k.RequestKey() == other.RequestKey()
}

// StringPtr returns nil for an empty string.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
