package domain

import "time"

// UserType distinguishes pet owners from caretakers offering services.
type UserType string

const (
	UserTypeOwner     UserType = "owner"
	UserTypeCaretaker UserType = "caretaker"
)

// ApprovalStatus enumerates review states for a caretaker profile.
// A caretaker that never requested approval has no status at all.
type ApprovalStatus string

const (
	ApprovalStatusPending  ApprovalStatus = "pending"
	ApprovalStatusApproved ApprovalStatus = "approved"
	ApprovalStatusRejected ApprovalStatus = "rejected"
)

// User is a marketplace account. Approval fields live here and nowhere
// else; User is the single writer of record for approval state.
// DecidedAt/DecidedBy are stamped on every decision, approvals and
// rejections alike, and carry no meaning beyond "when/who decided".
type User struct {
	ID                  string
	Email               string
	Name                string
	PasswordHash        string
	UserType            UserType
	ProfilePhotoURL     *string
	ApprovalStatus      *ApprovalStatus
	ApprovalRequestedAt *time.Time
	ApprovalDecidedAt   *time.Time
	ApprovalDecidedBy   *string
	ApprovalNotes       *string
	VerificationStatus  VerificationStatus
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// ApprovalStats aggregates caretaker approval counts. Some caretakers
// never requested approval, so Pending+Approved+Rejected <= Total.
type ApprovalStats struct {
	Total    int64 `json:"total"`
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
}
