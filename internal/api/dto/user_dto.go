package dto

import (
	"time"

	"github.com/macxnet80/tigube-approval-service/internal/domain"
)

// UserSummary is the public shape of a user account.
type UserSummary struct {
	ID                  string                    `json:"id"`
	Email               string                    `json:"email"`
	Name                string                    `json:"name"`
	UserType            domain.UserType           `json:"user_type"`
	ProfilePhotoURL     *string                   `json:"profile_photo_url"`
	ApprovalStatus      *domain.ApprovalStatus    `json:"approval_status"`
	ApprovalRequestedAt *time.Time                `json:"approval_requested_at"`
	ApprovalDecidedAt   *time.Time                `json:"approval_decided_at"`
	ApprovalDecidedBy   *string                   `json:"approval_decided_by"`
	ApprovalNotes       *string                   `json:"approval_notes"`
	VerificationStatus  domain.VerificationStatus `json:"verification_status"`
	CreatedAt           time.Time                 `json:"created_at"`
}

// UserSummaryFromDomain maps a domain user.
func UserSummaryFromDomain(user *domain.User) UserSummary {
	return UserSummary{
		ID:                  user.ID,
		Email:               user.Email,
		Name:                user.Name,
		UserType:            user.UserType,
		ProfilePhotoURL:     user.ProfilePhotoURL,
		ApprovalStatus:      user.ApprovalStatus,
		ApprovalRequestedAt: user.ApprovalRequestedAt,
		ApprovalDecidedAt:   user.ApprovalDecidedAt,
		ApprovalDecidedBy:   user.ApprovalDecidedBy,
		ApprovalNotes:       user.ApprovalNotes,
		VerificationStatus:  user.VerificationStatus,
		CreatedAt:           user.CreatedAt,
	}
}
