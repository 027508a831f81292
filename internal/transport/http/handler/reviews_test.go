package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/go-review-api/internal/application/review"
	"github.com/go-review-api/internal/domain"
)

type mockReviewService struct{ mock.Mock }

func (m *mockReviewService) Submit(ctx context.Context, req review.SubmitRequest) (*review.SubmitResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*review.SubmitResult), args.Error(1)
}

func (m *mockReviewService) ListVerified(ctx context.Context) (*review.PublicListing, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*review.PublicListing), args.Error(1)
}

func submitBody() string {
	return `{
		"name": "Alice Chen",
		"email": "alice@acme.com",
		"organization": "Acme",
		"relationship": "client",
		"rating": 5,
		"testimonial": "Delivered the project ahead of schedule and kept us informed."
	}`
}

func TestSubmit_Accepted(t *testing.T) {
	svc := &mockReviewService{}
	svc.On("Submit", mock.Anything, mock.MatchedBy(func(req review.SubmitRequest) bool {
		return req.Email == "alice@acme.com" && req.Rating == 5
	})).Return(&review.SubmitResult{ReviewID: "r1", Status: domain.StatusPending}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/reviews", strings.NewReader(submitBody()))
	rr := httptest.NewRecorder()
	NewReviewHandler(svc).Submit(rr, req)

	assert.Equal(t, http.StatusAccepted, rr.Code)
	var resp struct {
		Success bool                `json:"success"`
		Data    review.SubmitResult `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "r1", resp.Data.ReviewID)
	assert.Equal(t, domain.StatusPending, resp.Data.Status)
}

func TestSubmit_MalformedBody(t *testing.T) {
	svc := &mockReviewService{}
	req := httptest.NewRequest(http.MethodPost, "/api/reviews", strings.NewReader("{not json"))
	rr := httptest.NewRecorder()
	NewReviewHandler(svc).Submit(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "BAD_REQUEST", decodeEnvelope(t, rr).Error.Code)
	svc.AssertNotCalled(t, "Submit")
}

func TestSubmit_ValidationFailure(t *testing.T) {
	svc := &mockReviewService{}
	body := `{"name":"A","email":"not-an-email","relationship":"stranger","rating":9,"testimonial":"short"}`
	req := httptest.NewRequest(http.MethodPost, "/api/reviews", strings.NewReader(body))
	rr := httptest.NewRecorder()
	NewReviewHandler(svc).Submit(rr, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, "VALIDATION_FAILED", decodeEnvelope(t, rr).Error.Code)
	svc.AssertNotCalled(t, "Submit")
}

func TestListVerified_ReturnsListing(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)
	svc := &mockReviewService{}
	svc.On("ListVerified", mock.Anything).Return(&review.PublicListing{
		Reviews: []review.PublicEntry{{
			ID: "r1", Name: "Alice Chen", Relationship: domain.RelationshipClient,
			Rating: 5, SubmittedAt: now, VerifiedAt: now,
		}},
		LastUpdated:   now,
		TotalVerified: 1,
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/reviews/verified", nil)
	rr := httptest.NewRecorder()
	NewReviewHandler(svc).ListVerified(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp struct {
		Success bool                 `json:"success"`
		Data    review.PublicListing `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	require.Len(t, resp.Data.Reviews, 1)
	assert.Equal(t, 1, resp.Data.TotalVerified)
	// the public listing never carries reviewer emails
	assert.NotContains(t, rr.Body.String(), "email")
}
