package dto

import (
	"time"

	"github.com/macxnet80/tigube-approval-service/internal/domain"
)

// HistoryEntryResponse is one audit trail entry.
type HistoryEntryResponse struct {
	ID            string              `json:"id"`
	UserID        string              `json:"user_id"`
	Workflow      domain.WorkflowKind `json:"workflow"`
	ChangedByType domain.SubjectType  `json:"changed_by_type"`
	ChangedByID   *string             `json:"changed_by_id"`
	OldStatus     *string             `json:"old_status"`
	NewStatus     *string             `json:"new_status"`
	Comment       string              `json:"comment,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
}

// HistoryEntryFromDomain maps an audit entry.
func HistoryEntryFromDomain(entry *domain.WorkflowHistory) HistoryEntryResponse {
	return HistoryEntryResponse{
		ID:            entry.ID,
		UserID:        entry.UserID,
		Workflow:      entry.Workflow,
		ChangedByType: entry.ChangedByType,
		ChangedByID:   entry.ChangedByID,
		OldStatus:     entry.OldStatus,
		NewStatus:     entry.NewStatus,
		Comment:       entry.Comment,
		CreatedAt:     entry.CreatedAt,
	}
}
