package events

import (
	"time"

	"github.com/macxnet80/tigube-approval-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventApprovalRequested     EventType = "approval_requested"
	EventApprovalDecided       EventType = "approval_decided"
	EventApprovalReset         EventType = "approval_reset"
	EventVerificationSubmitted EventType = "verification_submitted"
	EventVerificationReviewed  EventType = "verification_reviewed"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	Type    domain.SubjectType `json:"type"`
	UserID  *string            `json:"user_id,omitempty"`
	AdminID *string            `json:"admin_id,omitempty"`
}

// Event represents a domain event emitted by services. UserID is the
// caretaker whose workflow state changed.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	UserID    string      `json:"user_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// ApprovalRequestedPayload payload.
type ApprovalRequestedPayload struct {
	RequestedAt time.Time `json:"requested_at"`
}

// ApprovalDecidedPayload payload.
type ApprovalDecidedPayload struct {
	Status domain.ApprovalStatus `json:"status"`
	Notes  string                `json:"notes,omitempty"`
}

// ApprovalResetPayload payload.
type ApprovalResetPayload struct {
	PreviousStatus *domain.ApprovalStatus `json:"previous_status,omitempty"`
}

// VerificationSubmittedPayload payload.
type VerificationSubmittedPayload struct {
	RequestID        string `json:"request_id"`
	CertificateCount int    `json:"certificate_count"`
	Resubmission     bool   `json:"resubmission"`
}

// VerificationReviewedPayload payload.
type VerificationReviewedPayload struct {
	RequestID string                    `json:"request_id"`
	OldStatus domain.VerificationStatus `json:"old_status"`
	NewStatus domain.VerificationStatus `json:"new_status"`
	Comment   string                    `json:"comment,omitempty"`
}
