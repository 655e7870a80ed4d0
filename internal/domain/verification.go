package domain

import "time"

// VerificationStatus enumerates identity verification states.
type VerificationStatus string

const (
	VerificationStatusNotSubmitted VerificationStatus = "not_submitted"
	VerificationStatusPending      VerificationStatus = "pending"
	VerificationStatusInReview     VerificationStatus = "in_review"
	VerificationStatusApproved     VerificationStatus = "approved"
	VerificationStatusRejected     VerificationStatus = "rejected"
)

// VerificationRequest holds a caretaker's uploaded identity and
// credential documents. At most one exists per user (unique constraint);
// resubmission updates the row in place. Request status is authoritative,
// User.VerificationStatus is a mirror written in the same transaction.
type VerificationRequest struct {
	ID              string
	UserID          string
	AusweisURL      string
	ZertifikateURLs []string
	Status          VerificationStatus
	AdminComment    *string
	ReviewedAt      *time.Time
	ReviewedBy      *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// VerificationListing is a request joined with requester identity,
// shaped for the admin review queue.
type VerificationListing struct {
	Request   VerificationRequest
	UserName  string
	UserEmail string
}
