package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/go-review-api/internal/application/admin"
	reviewapp "github.com/go-review-api/internal/application/review"
	"github.com/go-review-api/internal/application/verify"
	"github.com/go-review-api/internal/config"
	"github.com/go-review-api/internal/transport/http/handler"
	appmiddleware "github.com/go-review-api/internal/transport/http/middleware"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(appmiddleware.SecurityHeaders)
	r.Use(appmiddleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	var authMw func(http.Handler) http.Handler
	if deps.JWTProvider != nil {
		authMw = appmiddleware.Auth(deps.JWTProvider)
	} else {
		authMw = func(next http.Handler) http.Handler { return next }
	}

	// Applied to the endpoints an attacker can usefully hammer: submission,
	// token verification and admin login.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(cfg.RateLimitPerSecond), cfg.RateLimitBurst)

	verifyDeps := verify.ServiceDeps{
		Tokens:  deps.TokenRepo,
		Reviews: deps.ReviewRepo,
		Index:   deps.IndexRepo,
		Audit:   deps.AuditRepo,
	}
	// nil pointers must stay nil interfaces
	if deps.Snapshots != nil {
		verifyDeps.Snapshots = deps.Snapshots
	}
	if deps.Notifier != nil {
		verifyDeps.Notifier = deps.Notifier
	}
	verifySvc := verify.NewService(verifyDeps)

	reviewSvc := reviewapp.NewService(reviewapp.ServiceDeps{
		Reviews:       deps.ReviewRepo,
		Tokens:        deps.TokenRepo,
		Index:         deps.IndexRepo,
		Emails:        deps.Enqueuer,
		TokenTTL:      cfg.TokenTTL,
		PublicBaseURL: cfg.PublicBaseURL,
	})

	adminDeps := admin.ServiceDeps{
		Reviews:      deps.ReviewRepo,
		Audit:        deps.AuditRepo,
		Sweeps:       deps.Enqueuer,
		PasswordHash: cfg.AdminPasswordHash,
	}
	if deps.JWTProvider != nil {
		adminDeps.Signer = deps.JWTProvider
	}
	adminSvc := admin.NewService(adminDeps)

	healthH := handler.NewHealthHandler()
	verifyH := handler.NewVerifyHandler(verifySvc)
	reviewH := handler.NewReviewHandler(reviewSvc)
	adminH := handler.NewAdminHandler(adminSvc)

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		// ── Public routes ────────────────────────────────────────────────────
		r.Get("/health-check/{action}", healthH.Ping)
		r.With(sensitiveRL.Limit).Post("/reviews", reviewH.Submit)
		r.Get("/reviews/verified", reviewH.ListVerified)
		r.With(sensitiveRL.Limit).Get("/reviews/verify", verifyH.Verify)
		r.With(sensitiveRL.Limit).Post("/admin/sessions", adminH.Login)

		// ── Admin routes (JWT + admin role) ──────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)
			r.Use(appmiddleware.RequireRole(admin.RoleAdmin))

			r.Get("/admin/reviews/pending", adminH.ListPending)
			r.Delete("/admin/reviews/{id}", adminH.DeleteReview)
			r.Get("/admin/audit", adminH.AuditTail)
			r.Post("/admin/sweep", adminH.TriggerSweep)
		})
	})

	return r
}
