package sweep

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/go-review-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockTokenStore struct{ mock.Mock }

func (m *mockTokenStore) Scan(ctx context.Context) ([]domain.VerificationToken, []string, error) {
	args := m.Called(ctx)
	tokens, _ := args.Get(0).([]domain.VerificationToken)
	corrupt, _ := args.Get(1).([]string)
	return tokens, corrupt, args.Error(2)
}
func (m *mockTokenStore) Delete(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

type mockReviewStore struct{ mock.Mock }

func (m *mockReviewStore) Get(ctx context.Context, reviewID string) (*domain.Review, error) {
	args := m.Called(ctx, reviewID)
	if r, _ := args.Get(0).(*domain.Review); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockReviewStore) HardDelete(ctx context.Context, reviewID string) error {
	return m.Called(ctx, reviewID).Error(0)
}

// --- helpers ---

func tokenRecord(key, reviewID string, expiresAt time.Time) domain.VerificationToken {
	return domain.VerificationToken{
		Token:     key,
		Email:     "x@y.com",
		ReviewID:  reviewID,
		ExpiresAt: expiresAt.Unix(),
	}
}

func hexKey(c byte) string { return strings.Repeat(string(c), 64) }

// --- tests ---

func TestRun_DeletesExpiredTokensAndPendingReviews(t *testing.T) {
	ts, rs := &mockTokenStore{}, &mockReviewStore{}
	expired := tokenRecord(hexKey('a'), "rev-1", time.Now().Add(-time.Hour))
	live := tokenRecord(hexKey('b'), "rev-2", time.Now().Add(time.Hour))
	ts.On("Scan", mock.Anything).Return([]domain.VerificationToken{expired, live}, nil, nil)
	ts.On("Delete", mock.Anything, expired.Token).Return(nil)
	rs.On("Get", mock.Anything, "rev-1").Return(&domain.Review{ID: "rev-1", Status: domain.StatusPending}, nil)
	rs.On("HardDelete", mock.Anything, "rev-1").Return(nil)

	stats, err := NewService(ts, rs).Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, stats.TokensDeleted)
	assert.Equal(t, 1, stats.ReviewsDeleted)
	ts.AssertNotCalled(t, "Delete", mock.Anything, live.Token)
}

func TestRun_KeepsVerifiedReviews(t *testing.T) {
	ts, rs := &mockTokenStore{}, &mockReviewStore{}
	expired := tokenRecord(hexKey('a'), "rev-1", time.Now().Add(-time.Hour))
	ts.On("Scan", mock.Anything).Return([]domain.VerificationToken{expired}, nil, nil)
	ts.On("Delete", mock.Anything, expired.Token).Return(nil)
	rs.On("Get", mock.Anything, "rev-1").Return(&domain.Review{ID: "rev-1", Status: domain.StatusVerified}, nil)

	stats, err := NewService(ts, rs).Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, stats.TokensDeleted)
	assert.Zero(t, stats.ReviewsDeleted)
	rs.AssertNotCalled(t, "HardDelete", mock.Anything, mock.Anything)
}

func TestRun_DeletesCorruptTokenItems(t *testing.T) {
	ts, rs := &mockTokenStore{}, &mockReviewStore{}
	ts.On("Scan", mock.Anything).Return(nil, []string{hexKey('c')}, nil)
	ts.On("Delete", mock.Anything, hexKey('c')).Return(nil)

	stats, err := NewService(ts, rs).Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, stats.CorruptDeleted)
}

func TestRun_MissingReviewIsNotAnError(t *testing.T) {
	ts, rs := &mockTokenStore{}, &mockReviewStore{}
	expired := tokenRecord(hexKey('a'), "rev-gone", time.Now().Add(-time.Hour))
	ts.On("Scan", mock.Anything).Return([]domain.VerificationToken{expired}, nil, nil)
	ts.On("Delete", mock.Anything, expired.Token).Return(nil)
	rs.On("Get", mock.Anything, "rev-gone").
		Return(nil, fmt.Errorf("review not found: %w", domain.ErrNotFound))

	stats, err := NewService(ts, rs).Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, stats.TokensDeleted)
	assert.Zero(t, stats.ReviewsDeleted)
}

func TestRun_PerItemDeleteFailureSkipsItem(t *testing.T) {
	ts, rs := &mockTokenStore{}, &mockReviewStore{}
	bad := tokenRecord(hexKey('a'), "rev-1", time.Now().Add(-time.Hour))
	good := tokenRecord(hexKey('b'), "rev-2", time.Now().Add(-time.Hour))
	ts.On("Scan", mock.Anything).Return([]domain.VerificationToken{bad, good}, nil, nil)
	ts.On("Delete", mock.Anything, bad.Token).Return(errors.New("throttled"))
	ts.On("Delete", mock.Anything, good.Token).Return(nil)
	rs.On("Get", mock.Anything, "rev-2").Return(&domain.Review{ID: "rev-2", Status: domain.StatusPending}, nil)
	rs.On("HardDelete", mock.Anything, "rev-2").Return(nil)

	stats, err := NewService(ts, rs).Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, stats.TokensDeleted)
	assert.Equal(t, 1, stats.ReviewsDeleted)
}

func TestRun_ScanFailureIsFatal(t *testing.T) {
	ts, rs := &mockTokenStore{}, &mockReviewStore{}
	ts.On("Scan", mock.Anything).Return(nil, nil, errors.New("scan failed"))

	_, err := NewService(ts, rs).Run(context.Background())

	assert.Error(t, err)
}
