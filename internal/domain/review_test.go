package domain

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexEntry_ProjectsVerifiedReview(t *testing.T) {
	submitted := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	verified := submitted.Add(2 * time.Hour)
	r := &Review{
		ID:     "r1",
		Status: StatusVerified,
		Reviewer: Reviewer{
			Name:         "Alice Chen",
			Email:        "alice@acme.com",
			Organization: "Acme",
			Relationship: RelationshipClient,
			Verified:     true,
		},
		Content:  ReviewContent{Rating: 5, Testimonial: "Great work across the board."},
		Metadata: ReviewMetadata{SubmittedAt: submitted, VerifiedAt: &verified},
	}

	e := r.IndexEntry()
	assert.Equal(t, "r1", e.ID)
	assert.Equal(t, "Alice Chen", e.Name)
	assert.Equal(t, "alice@acme.com", e.Email)
	assert.Equal(t, RelationshipClient, e.Relationship)
	assert.Equal(t, 5, e.Rating)
	assert.Equal(t, submitted, e.SubmittedAt)
	assert.Equal(t, verified, e.VerifiedAt)
}

func TestVerifiedIndex_Append_SortsNewestFirst(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	idx := &VerifiedIndex{}

	idx.Append(VerifiedIndexEntry{ID: "old", VerifiedAt: base}, base)
	idx.Append(VerifiedIndexEntry{ID: "new", VerifiedAt: base.Add(time.Hour)}, base.Add(time.Hour))
	idx.Append(VerifiedIndexEntry{ID: "mid", VerifiedAt: base.Add(30 * time.Minute)}, base.Add(2*time.Hour))

	require.Len(t, idx.Reviews, 3)
	assert.Equal(t, "new", idx.Reviews[0].ID)
	assert.Equal(t, "mid", idx.Reviews[1].ID)
	assert.Equal(t, "old", idx.Reviews[2].ID)
	assert.Equal(t, 3, idx.TotalVerified)
	assert.Equal(t, base.Add(2*time.Hour), idx.LastUpdated)
}

func TestVerifiedIndex_Append_TruncatesButKeepsCounting(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	idx := &VerifiedIndex{}

	total := MaxIndexEntries + 25
	for i := 0; i < total; i++ {
		at := base.Add(time.Duration(i) * time.Minute)
		idx.Append(VerifiedIndexEntry{ID: fmt.Sprintf("r%d", i), VerifiedAt: at}, at)
	}

	require.Len(t, idx.Reviews, MaxIndexEntries)
	assert.Equal(t, total, idx.TotalVerified)
	// newest entry survives truncation, oldest ones fall off
	assert.Equal(t, fmt.Sprintf("r%d", total-1), idx.Reviews[0].ID)
	assert.Equal(t, fmt.Sprintf("r%d", total-MaxIndexEntries), idx.Reviews[MaxIndexEntries-1].ID)
}
