package verify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-review-api/internal/domain"
	"github.com/go-review-api/internal/metrics"
	"github.com/go-review-api/internal/pkg/id"
	pkgtoken "github.com/go-review-api/internal/pkg/token"
	"github.com/go-review-api/internal/pkg/validate"
)

// Result is the success payload of a verification attempt.
type Result struct {
	ReviewID string `json:"reviewId"`
	Verified bool   `json:"verified"`
	Status   string `json:"status"`
}

type Service interface {
	Verify(ctx context.Context, rawToken, email string) (*Result, error)
}

// TokenStore is the slice of the token repository the workflow needs.
// Consume must be a compare-and-swap on used=false and return
// domain.ErrConflict when a concurrent attempt won the race.
type TokenStore interface {
	Get(ctx context.Context, token string) (*domain.VerificationToken, error)
	Consume(ctx context.Context, token string) error
}

type ReviewStore interface {
	Get(ctx context.Context, reviewID string) (*domain.Review, error)
	MarkVerified(ctx context.Context, reviewID string, at time.Time) error
}

type IndexStore interface {
	Append(ctx context.Context, e domain.VerifiedIndexEntry, now time.Time) (*domain.VerifiedIndex, error)
}

type AuditStore interface {
	Append(ctx context.Context, e *domain.AuditEntry) error
}

// SnapshotPublisher pushes the refreshed index where the static site reads it.
type SnapshotPublisher interface {
	Publish(ctx context.Context, idx *domain.VerifiedIndex) error
}

// WorkflowNotifier hands verified reviews to the downstream workflow topic.
type WorkflowNotifier interface {
	ReviewVerified(ctx context.Context, reviewID, email string) error
}

// ServiceDeps wires the workflow. Snapshots and Notifier are optional;
// nil disables that fan-out step.
type ServiceDeps struct {
	Tokens    TokenStore
	Reviews   ReviewStore
	Index     IndexStore
	Audit     AuditStore
	Snapshots SnapshotPublisher
	Notifier  WorkflowNotifier
}

type service struct {
	tokens    TokenStore
	reviews   ReviewStore
	index     IndexStore
	audit     AuditStore
	snapshots SnapshotPublisher
	notifier  WorkflowNotifier
}

func NewService(deps ServiceDeps) Service {
	return &service{
		tokens:    deps.Tokens,
		reviews:   deps.Reviews,
		index:     deps.Index,
		audit:     deps.Audit,
		snapshots: deps.Snapshots,
		notifier:  deps.Notifier,
	}
}

// Verify runs a single verification attempt. The first failing check
// short-circuits; once both durable writes (review transition, token CAS)
// have landed, the remaining side effects are best-effort and can no longer
// change the outcome.
func (s *service) Verify(ctx context.Context, rawToken, email string) (*Result, error) {
	result, reviewID, err := s.run(ctx, rawToken, email)
	s.record(ctx, reviewID, email, err)
	return result, err
}

func (s *service) run(ctx context.Context, rawToken, email string) (*Result, string, error) {
	if rawToken == "" {
		return nil, "", domain.ErrMissingToken
	}
	// Reject malformed tokens before any store access.
	if !pkgtoken.WellFormed(rawToken) {
		return nil, "", domain.ErrInvalidTokenFormat
	}

	t, err := s.tokens.Get(ctx, rawToken)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", domain.ErrTokenNotFound
		}
		return nil, "", fmt.Errorf("load token: %w", err)
	}
	if err := validate.Struct(t); err != nil {
		slog.Warn("token record failed schema validation", "err", err)
		return nil, t.ReviewID, domain.ErrInvalidTokenData
	}
	if t.Used {
		return nil, t.ReviewID, domain.ErrTokenAlreadyUsed
	}
	if t.Expired(time.Now()) {
		return nil, t.ReviewID, domain.ErrTokenExpired
	}
	if email != "" && !strings.EqualFold(email, t.Email) {
		return nil, t.ReviewID, domain.ErrEmailMismatch
	}

	rev, err := s.reviews.Get(ctx, t.ReviewID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, t.ReviewID, domain.ErrReviewNotFound
		}
		return nil, t.ReviewID, fmt.Errorf("load review: %w", err)
	}

	// Durability-first ordering: the review transition lands before the token
	// is burned. A crash in between leaves a verified review and a live
	// token; the retry still consumes the token exactly once.
	now := time.Now().UTC()
	if err := s.reviews.MarkVerified(ctx, rev.ID, now); err != nil {
		return nil, rev.ID, fmt.Errorf("mark review verified: %w", err)
	}
	if err := s.tokens.Consume(ctx, t.Token); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			// Lost the CAS race: a concurrent attempt consumed the token
			// first. That attempt owns the bookkeeping.
			return nil, rev.ID, domain.ErrTokenAlreadyUsed
		}
		return nil, rev.ID, fmt.Errorf("consume token: %w", err)
	}

	rev.Status = domain.StatusVerified
	rev.Reviewer.Verified = true
	rev.Metadata.VerifiedAt = &now
	s.bookkeep(ctx, rev, now)

	return &Result{ReviewID: rev.ID, Verified: true, Status: domain.StatusVerified}, rev.ID, nil
}

// bookkeep runs the non-fatal fan-out: index update, snapshot publish,
// downstream notification. Failures go to the log and the failure counter,
// never to the caller.
func (s *service) bookkeep(ctx context.Context, rev *domain.Review, now time.Time) {
	idx, err := s.index.Append(ctx, rev.IndexEntry(), now)
	if err != nil {
		slog.Warn("verified index update failed", "review_id", rev.ID, "err", err)
		metrics.BookkeepingFailuresTotal.WithLabelValues("index").Inc()
	} else if s.snapshots != nil {
		if err := s.snapshots.Publish(ctx, idx); err != nil {
			slog.Warn("index snapshot publish failed", "review_id", rev.ID, "err", err)
			metrics.BookkeepingFailuresTotal.WithLabelValues("snapshot").Inc()
		}
	}
	if s.notifier != nil {
		if err := s.notifier.ReviewVerified(ctx, rev.ID, rev.Reviewer.Email); err != nil {
			slog.Warn("workflow notification failed", "review_id", rev.ID, "err", err)
			metrics.BookkeepingFailuresTotal.WithLabelValues("notify").Inc()
		}
	}
}

// record writes the audit entry and the outcome metric for one attempt.
// Attempts rejected before the token lookup (missing or malformed token)
// are counted but not audited, so those paths stay free of store access.
func (s *service) record(ctx context.Context, reviewID, email string, err error) {
	status := domain.AuditStatusSuccess
	msg := ""
	if err != nil {
		var se *domain.StatusError
		if errors.As(err, &se) {
			status = se.Code
			msg = se.Message
		} else {
			status = "INTERNAL_SERVER_ERROR"
			msg = "internal error"
		}
	}
	metrics.VerificationsTotal.WithLabelValues(status).Inc()

	if status == domain.ErrMissingToken.Code || status == domain.ErrInvalidTokenFormat.Code {
		return
	}
	entry := &domain.AuditEntry{
		EntryID:      id.New(),
		Timestamp:    time.Now().UTC(),
		ReviewID:     reviewID,
		Email:        email,
		Status:       status,
		ErrorMessage: msg,
	}
	if aerr := s.audit.Append(ctx, entry); aerr != nil {
		slog.Warn("audit append failed", "review_id", reviewID, "err", aerr)
		metrics.BookkeepingFailuresTotal.WithLabelValues("audit").Inc()
	}
}
