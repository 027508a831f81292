package review

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/go-review-api/internal/domain"
	"github.com/go-review-api/internal/metrics"
	"github.com/go-review-api/internal/pkg/id"
	pkgtoken "github.com/go-review-api/internal/pkg/token"
)

// SubmitRequest is the public submission payload.
type SubmitRequest struct {
	Name         string `json:"name" validate:"required,min=2,max=100"`
	Email        string `json:"email" validate:"required,email"`
	Organization string `json:"organization" validate:"max=200"`
	Relationship string `json:"relationship" validate:"required,oneof=client colleague manager partner other"`
	Rating       int    `json:"rating" validate:"required,min=1,max=5"`
	Testimonial  string `json:"testimonial" validate:"required,min=20,max=2000"`
}

// SubmitResult acknowledges a pending submission.
type SubmitResult struct {
	ReviewID string `json:"reviewId"`
	Status   string `json:"status"`
}

// PublicEntry is a verified-index entry with the reviewer's email stripped.
type PublicEntry struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Organization string    `json:"organization,omitempty"`
	Relationship string    `json:"relationship"`
	Rating       int       `json:"rating"`
	SubmittedAt  time.Time `json:"submittedAt"`
	VerifiedAt   time.Time `json:"verifiedAt"`
}

// PublicListing is the sanitized verified index served to the site.
type PublicListing struct {
	Reviews       []PublicEntry `json:"reviews"`
	LastUpdated   time.Time     `json:"lastUpdated"`
	TotalVerified int           `json:"totalVerified"`
}

type Service interface {
	Submit(ctx context.Context, req SubmitRequest) (*SubmitResult, error)
	ListVerified(ctx context.Context) (*PublicListing, error)
}

type reviewStore interface {
	Put(ctx context.Context, rev *domain.Review) error
}

type tokenStore interface {
	Put(ctx context.Context, t *domain.VerificationToken) error
}

type indexStore interface {
	Get(ctx context.Context) (*domain.VerifiedIndex, error)
}

// emailEnqueuer hands the verification email to the background queue.
type emailEnqueuer interface {
	EnqueueVerificationEmail(ctx context.Context, to, verifyURL string) error
}

type service struct {
	reviews       reviewStore
	tokens        tokenStore
	index         indexStore
	emails        emailEnqueuer
	tokenTTL      time.Duration
	publicBaseURL string
}

// ServiceDeps wires the submission flow.
type ServiceDeps struct {
	Reviews       reviewStore
	Tokens        tokenStore
	Index         indexStore
	Emails        emailEnqueuer
	TokenTTL      time.Duration
	PublicBaseURL string
}

func NewService(deps ServiceDeps) Service {
	return &service{
		reviews:       deps.Reviews,
		tokens:        deps.Tokens,
		index:         deps.Index,
		emails:        deps.Emails,
		tokenTTL:      deps.TokenTTL,
		publicBaseURL: deps.PublicBaseURL,
	}
}

// Submit stores a pending review, issues its verification token and queues
// the verification email. The review stays invisible until the token is
// consumed.
func (s *service) Submit(ctx context.Context, req SubmitRequest) (*SubmitResult, error) {
	now := time.Now().UTC()
	rev := &domain.Review{
		ID:     id.New(),
		Status: domain.StatusPending,
		Reviewer: domain.Reviewer{
			Name:         req.Name,
			Email:        req.Email,
			Organization: req.Organization,
			Relationship: req.Relationship,
		},
		Content:  domain.ReviewContent{Rating: req.Rating, Testimonial: req.Testimonial},
		Metadata: domain.ReviewMetadata{SubmittedAt: now},
	}
	if err := s.reviews.Put(ctx, rev); err != nil {
		return nil, fmt.Errorf("store pending review: %w", err)
	}

	tok, err := pkgtoken.New()
	if err != nil {
		return nil, err
	}
	if err := s.tokens.Put(ctx, &domain.VerificationToken{
		Token:     tok,
		Email:     req.Email,
		ReviewID:  rev.ID,
		ExpiresAt: now.Add(s.tokenTTL).Unix(),
		CreatedAt: now,
	}); err != nil {
		return nil, fmt.Errorf("store verification token: %w", err)
	}

	// Email delivery is queued, not inline: a slow or flaky SMTP host must
	// not block the submission response.
	if err := s.emails.EnqueueVerificationEmail(ctx, req.Email, s.verifyURL(tok, req.Email)); err != nil {
		slog.Error("enqueue verification email failed", "review_id", rev.ID, "err", err)
		return nil, fmt.Errorf("enqueue verification email: %w", err)
	}

	metrics.SubmissionsTotal.Inc()
	return &SubmitResult{ReviewID: rev.ID, Status: domain.StatusPending}, nil
}

func (s *service) verifyURL(tok, email string) string {
	return fmt.Sprintf("%s/api/reviews/verify?token=%s&email=%s",
		s.publicBaseURL, tok, url.QueryEscape(email))
}

// ListVerified serves the verified index with reviewer emails stripped.
func (s *service) ListVerified(ctx context.Context) (*PublicListing, error) {
	idx, err := s.index.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("load verified index: %w", err)
	}
	listing := &PublicListing{
		Reviews:       make([]PublicEntry, 0, len(idx.Reviews)),
		LastUpdated:   idx.LastUpdated,
		TotalVerified: idx.TotalVerified,
	}
	for _, e := range idx.Reviews {
		listing.Reviews = append(listing.Reviews, PublicEntry{
			ID:           e.ID,
			Name:         e.Name,
			Organization: e.Organization,
			Relationship: e.Relationship,
			Rating:       e.Rating,
			SubmittedAt:  e.SubmittedAt,
			VerifiedAt:   e.VerifiedAt,
		})
	}
	return listing, nil
}
