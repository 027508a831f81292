package domain

import "time"

// VerificationToken is a single-use, time-limited credential proving control
// of the email address a review was submitted with.
// PK: token (64-char lowercase hex). ExpiresAt doubles as the DynamoDB TTL.
type VerificationToken struct {
	Token     string    `json:"token" dynamodbav:"token" validate:"required,len=64,hexadecimal,lowercase"`
	Email     string    `json:"email" dynamodbav:"email" validate:"required,email"`
	ReviewID  string    `json:"reviewId" dynamodbav:"review_id" validate:"required"`
	ExpiresAt int64     `json:"expiresAt" dynamodbav:"expires_at" validate:"required"` // Unix seconds
	Used      bool      `json:"used" dynamodbav:"used"`
	Attempts  int       `json:"attempts" dynamodbav:"attempts"` // successful consumptions
	CreatedAt time.Time `json:"createdAt" dynamodbav:"created_at"`
}

// Expired reports whether the token is invalid at the given instant.
// Tokens are valid up to and including ExpiresAt.
func (t *VerificationToken) Expired(now time.Time) bool {
	return now.Unix() > t.ExpiresAt
}
