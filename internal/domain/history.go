package domain

import "time"

// WorkflowKind identifies which status workflow a history entry belongs to.
type WorkflowKind string

const (
	WorkflowApproval     WorkflowKind = "approval"
	WorkflowVerification WorkflowKind = "verification"
)

// WorkflowHistory is an immutable audit trail entry recording a single
// status mutation in the approval or verification workflow.
type WorkflowHistory struct {
	ID            string
	UserID        string
	Workflow      WorkflowKind
	ChangedByType SubjectType
	ChangedByID   *string
	OldStatus     *string
	NewStatus     *string
	Comment       string
	CreatedAt     time.Time
}
