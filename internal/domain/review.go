package domain

import (
	"sort"
	"time"
)

// Review statuses. Status is the single state field of a review item;
// pending→verified is the only transition this service performs.
const (
	StatusPending  = "pending"
	StatusVerified = "verified"
)

// Reviewer relationships accepted at submission.
const (
	RelationshipClient    = "client"
	RelationshipColleague = "colleague"
	RelationshipManager   = "manager"
	RelationshipPartner   = "partner"
	RelationshipOther     = "other"
)

// Review is a submitted testimonial. One DynamoDB item keyed by review_id;
// the status attribute carries the verification state.
type Review struct {
	ID       string         `json:"id" dynamodbav:"review_id"`
	Status   string         `json:"status" dynamodbav:"status"`
	Reviewer Reviewer       `json:"reviewer" dynamodbav:"reviewer"`
	Content  ReviewContent  `json:"content" dynamodbav:"content"`
	Metadata ReviewMetadata `json:"metadata" dynamodbav:"metadata"`
}

// Reviewer identifies who wrote the review. Verified mirrors the outer
// status so index projections don't need a join.
type Reviewer struct {
	Name         string `json:"name" dynamodbav:"name"`
	Email        string `json:"email" dynamodbav:"email"`
	Organization string `json:"organization,omitempty" dynamodbav:"organization,omitempty"`
	Relationship string `json:"relationship" dynamodbav:"relationship"`
	Verified     bool   `json:"verified" dynamodbav:"verified"`
}

type ReviewContent struct {
	Rating      int    `json:"rating" dynamodbav:"rating"`
	Testimonial string `json:"testimonial" dynamodbav:"testimonial"`
}

type ReviewMetadata struct {
	SubmittedAt time.Time  `json:"submittedAt" dynamodbav:"submitted_at"`
	VerifiedAt  *time.Time `json:"verifiedAt,omitempty" dynamodbav:"verified_at,omitempty"`
}

// MaxIndexEntries bounds the verified index listing. TotalVerified keeps
// counting past the cap.
const MaxIndexEntries = 100

// VerifiedIndex is the single aggregate item backing the public listing.
type VerifiedIndex struct {
	Key           string               `json:"-" dynamodbav:"index_key"`
	Reviews       []VerifiedIndexEntry `json:"reviews" dynamodbav:"reviews"`
	LastUpdated   time.Time            `json:"lastUpdated" dynamodbav:"last_updated"`
	TotalVerified int                  `json:"totalVerified" dynamodbav:"total_verified"`
}

// VerifiedIndexEntry is the lightweight projection of a verified review.
type VerifiedIndexEntry struct {
	ID           string    `json:"id" dynamodbav:"review_id"`
	Name         string    `json:"name" dynamodbav:"name"`
	Email        string    `json:"email" dynamodbav:"email"`
	Organization string    `json:"organization,omitempty" dynamodbav:"organization,omitempty"`
	Relationship string    `json:"relationship" dynamodbav:"relationship"`
	Rating       int       `json:"rating" dynamodbav:"rating"`
	SubmittedAt  time.Time `json:"submittedAt" dynamodbav:"submitted_at"`
	VerifiedAt   time.Time `json:"verifiedAt" dynamodbav:"verified_at"`
}

// IndexEntry builds the index projection of a verified review.
// VerifiedAt must already be set.
func (r *Review) IndexEntry() VerifiedIndexEntry {
	e := VerifiedIndexEntry{
		ID:           r.ID,
		Name:         r.Reviewer.Name,
		Email:        r.Reviewer.Email,
		Organization: r.Reviewer.Organization,
		Relationship: r.Reviewer.Relationship,
		Rating:       r.Content.Rating,
		SubmittedAt:  r.Metadata.SubmittedAt,
	}
	if r.Metadata.VerifiedAt != nil {
		e.VerifiedAt = *r.Metadata.VerifiedAt
	}
	return e
}

// Append adds an entry, re-sorts descending by VerifiedAt, truncates to
// MaxIndexEntries and bumps the cumulative counter. TotalVerified is not
// reset by truncation.
func (idx *VerifiedIndex) Append(e VerifiedIndexEntry, now time.Time) {
	idx.Reviews = append(idx.Reviews, e)
	sort.SliceStable(idx.Reviews, func(i, j int) bool {
		return idx.Reviews[i].VerifiedAt.After(idx.Reviews[j].VerifiedAt)
	})
	if len(idx.Reviews) > MaxIndexEntries {
		idx.Reviews = idx.Reviews[:MaxIndexEntries]
	}
	idx.TotalVerified++
	idx.LastUpdated = now
}
