package admin

import (
	"context"
	"fmt"
	"sort"

	"github.com/go-review-api/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// RoleAdmin is the only role this service issues.
const RoleAdmin = "admin"

type LoginRequest struct {
	Password string `json:"password" validate:"required"`
}

type LoginResult struct {
	Bearer string `json:"bearer"`
}

type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
	ListPending(ctx context.Context) ([]domain.Review, error)
	AuditTail(ctx context.Context, limit int) ([]domain.AuditEntry, error)
	DeleteReview(ctx context.Context, reviewID string) error
	TriggerSweep(ctx context.Context) error
}

type reviewStore interface {
	ListByStatus(ctx context.Context, status string) ([]domain.Review, error)
	HardDelete(ctx context.Context, reviewID string) error
}

type auditStore interface {
	Recent(ctx context.Context, limit int) ([]domain.AuditEntry, error)
}

type jwtSigner interface {
	Sign(subject, role string) (string, error)
}

// sweepEnqueuer pushes an on-demand sweep onto the background queue.
type sweepEnqueuer interface {
	EnqueueSweep(ctx context.Context) error
}

type service struct {
	reviews      reviewStore
	audit        auditStore
	signer       jwtSigner
	sweeps       sweepEnqueuer
	passwordHash string
}

// ServiceDeps wires the admin surface. PasswordHash is the bcrypt hash the
// single admin account logs in with; empty disables login entirely.
type ServiceDeps struct {
	Reviews      reviewStore
	Audit        auditStore
	Signer       jwtSigner
	Sweeps       sweepEnqueuer
	PasswordHash string
}

func NewService(deps ServiceDeps) Service {
	return &service{
		reviews:      deps.Reviews,
		audit:        deps.Audit,
		signer:       deps.Signer,
		sweeps:       deps.Sweeps,
		passwordHash: deps.PasswordHash,
	}
}

func (s *service) Login(_ context.Context, req LoginRequest) (*LoginResult, error) {
	if s.passwordHash == "" || s.signer == nil {
		return nil, fmt.Errorf("admin login disabled: %w", domain.ErrUnauthorized)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
	}
	bearer, err := s.signer.Sign("admin", RoleAdmin)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Bearer: bearer}, nil
}

// ListPending returns reviews awaiting verification, oldest first.
func (s *service) ListPending(ctx context.Context) ([]domain.Review, error) {
	reviews, err := s.reviews.ListByStatus(ctx, domain.StatusPending)
	if err != nil {
		return nil, err
	}
	sort.Slice(reviews, func(i, j int) bool {
		return reviews[i].Metadata.SubmittedAt.Before(reviews[j].Metadata.SubmittedAt)
	})
	return reviews, nil
}

func (s *service) AuditTail(ctx context.Context, limit int) ([]domain.AuditEntry, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.audit.Recent(ctx, limit)
}

func (s *service) DeleteReview(ctx context.Context, reviewID string) error {
	return s.reviews.HardDelete(ctx, reviewID)
}

func (s *service) TriggerSweep(ctx context.Context) error {
	return s.sweeps.EnqueueSweep(ctx)
}
