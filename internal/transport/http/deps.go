package http

import (
	"github.com/go-review-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/go-review-api/internal/infrastructure/jwt"
	s3infra "github.com/go-review-api/internal/infrastructure/s3"
	"github.com/go-review-api/internal/infrastructure/sns"
	"github.com/go-review-api/internal/tasks"
)

// Deps holds all infrastructure dependencies for the router. Snapshots,
// Notifier and JWTProvider are optional: nil disables the snapshot publish,
// the fan-out notification and the admin surface respectively.
type Deps struct {
	TokenRepo  *dynamo.TokenRepo
	ReviewRepo *dynamo.ReviewRepo
	IndexRepo  *dynamo.IndexRepo
	AuditRepo  *dynamo.AuditRepo

	Snapshots   *s3infra.Publisher
	Notifier    sns.Notifier
	JWTProvider *jwtinfra.Provider
	Enqueuer    *tasks.Enqueuer
}
