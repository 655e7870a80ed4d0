package dto

import (
	"time"

	"github.com/macxnet80/tigube-approval-service/internal/domain"
)

// ReviewVerificationRequest payload.
type ReviewVerificationRequest struct {
	Status  domain.VerificationStatus `json:"status"`
	Comment *string                   `json:"comment"`
}

// VerificationResponse response.
type VerificationResponse struct {
	ID              string                    `json:"id"`
	UserID          string                    `json:"user_id"`
	AusweisURL      string                    `json:"ausweis_url"`
	ZertifikateURLs []string                  `json:"zertifikate_urls"`
	Status          domain.VerificationStatus `json:"status"`
	AdminComment    *string                   `json:"admin_comment"`
	ReviewedAt      *time.Time                `json:"reviewed_at"`
	ReviewedBy      *string                   `json:"reviewed_by"`
	CreatedAt       time.Time                 `json:"created_at"`
	UpdatedAt       time.Time                 `json:"updated_at"`
}

// VerificationListingResponse joins a request with requester identity.
type VerificationListingResponse struct {
	VerificationResponse
	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email"`
}

// VerificationResponseFromDomain maps a domain request.
func VerificationResponseFromDomain(request *domain.VerificationRequest) VerificationResponse {
	urls := request.ZertifikateURLs
	if urls == nil {
		urls = []string{}
	}
	return VerificationResponse{
		ID:              request.ID,
		UserID:          request.UserID,
		AusweisURL:      request.AusweisURL,
		ZertifikateURLs: urls,
		Status:          request.Status,
		AdminComment:    request.AdminComment,
		ReviewedAt:      request.ReviewedAt,
		ReviewedBy:      request.ReviewedBy,
		CreatedAt:       request.CreatedAt,
		UpdatedAt:       request.UpdatedAt,
	}
}
