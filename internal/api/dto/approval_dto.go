package dto

import (
	"github.com/macxnet80/tigube-approval-service/internal/domain"
)

// DecideApprovalRequest payload.
type DecideApprovalRequest struct {
	Status domain.ApprovalStatus `json:"status"`
	Notes  *string               `json:"notes"`
}

// ApprovalStatsResponse response.
type ApprovalStatsResponse struct {
	Total    int64 `json:"total"`
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
}
