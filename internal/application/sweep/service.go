package sweep

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/go-review-api/internal/domain"
	"github.com/go-review-api/internal/metrics"
)

// Stats summarises one sweep run.
type Stats struct {
	TokensDeleted  int `json:"tokensDeleted"`
	ReviewsDeleted int `json:"reviewsDeleted"`
	CorruptDeleted int `json:"corruptDeleted"`
}

type tokenStore interface {
	Scan(ctx context.Context) (tokens []domain.VerificationToken, corrupt []string, err error)
	Delete(ctx context.Context, token string) error
}

type reviewStore interface {
	Get(ctx context.Context, reviewID string) (*domain.Review, error)
	HardDelete(ctx context.Context, reviewID string) error
}

// Service removes expired verification tokens, their orphaned pending
// reviews, and token items that no longer parse. DynamoDB TTL handles most
// expired tokens on its own; the sweep catches TTL lag and the orphans TTL
// can't see.
type Service struct {
	tokens  tokenStore
	reviews reviewStore
}

func NewService(tokens tokenStore, reviews reviewStore) *Service {
	return &Service{tokens: tokens, reviews: reviews}
}

// Run executes one full sweep. Per-item failures are logged and skipped so
// one bad item can't wedge the whole pass.
func (s *Service) Run(ctx context.Context) (*Stats, error) {
	tokens, corrupt, err := s.tokens.Scan(ctx)
	if err != nil {
		return nil, err
	}

	stats := &Stats{}
	now := time.Now()

	for _, key := range corrupt {
		if err := s.tokens.Delete(ctx, key); err != nil {
			slog.Warn("sweep: delete corrupt token failed", "token", key, "err", err)
			continue
		}
		stats.CorruptDeleted++
		metrics.SweepDeletionsTotal.WithLabelValues("corrupt").Inc()
	}

	for _, t := range tokens {
		if !t.Expired(now) {
			continue
		}
		if err := s.tokens.Delete(ctx, t.Token); err != nil {
			slog.Warn("sweep: delete expired token failed", "err", err)
			continue
		}
		stats.TokensDeleted++
		metrics.SweepDeletionsTotal.WithLabelValues("token").Inc()

		// The token never got consumed, so its review can only be pending.
		// Check anyway: a verified review must survive its token.
		rev, err := s.reviews.Get(ctx, t.ReviewID)
		if err != nil {
			if !errors.Is(err, domain.ErrNotFound) {
				slog.Warn("sweep: load review failed", "review_id", t.ReviewID, "err", err)
			}
			continue
		}
		if rev.Status != domain.StatusPending {
			continue
		}
		if err := s.reviews.HardDelete(ctx, rev.ID); err != nil {
			slog.Warn("sweep: delete orphaned review failed", "review_id", rev.ID, "err", err)
			continue
		}
		stats.ReviewsDeleted++
		metrics.SweepDeletionsTotal.WithLabelValues("review").Inc()
	}

	slog.Info("token sweep finished",
		"tokens_deleted", stats.TokensDeleted,
		"reviews_deleted", stats.ReviewsDeleted,
		"corrupt_deleted", stats.CorruptDeleted,
	)
	return stats, nil
}
