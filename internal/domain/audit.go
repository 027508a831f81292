package domain

import "time"

// AuditStatusSuccess tags the one audit entry written per successful
// verification; failed attempts are tagged with their error code.
const AuditStatusSuccess = "success"

// AuditEntry records one verification attempt. Entries are append-only and
// never mutated or pruned by this service. PK: entry_id (ULID, so a scan
// sorted by key is time-ordered).
type AuditEntry struct {
	EntryID      string    `json:"entryId" dynamodbav:"entry_id"`
	Timestamp    time.Time `json:"timestamp" dynamodbav:"timestamp"`
	ReviewID     string    `json:"reviewId,omitempty" dynamodbav:"review_id,omitempty"`
	Email        string    `json:"email,omitempty" dynamodbav:"email,omitempty"`
	Status       string    `json:"status" dynamodbav:"status"`
	ErrorMessage string    `json:"errorMessage,omitempty" dynamodbav:"error_message,omitempty"`
}
