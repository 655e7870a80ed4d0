package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/macxnet80/tigube-approval-service/internal/domain"
)

// HistoryRepository stores workflow audit entries.
type HistoryRepository interface {
	Create(ctx context.Context, entry *domain.WorkflowHistory) error
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.WorkflowHistory, error)
}

type historyRepository struct {
	pool *pgxpool.Pool
}

// NewHistoryRepository builds repository.
func NewHistoryRepository(pool *pgxpool.Pool) HistoryRepository {
	return &historyRepository{pool: pool}
}

func (r *historyRepository) Create(ctx context.Context, entry *domain.WorkflowHistory) error {
	const query = `
        INSERT INTO workflow_history (user_id, workflow, changed_by_type, changed_by_id, old_status, new_status, comment)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		entry.UserID,
		entry.Workflow,
		entry.ChangedByType,
		entry.ChangedByID,
		entry.OldStatus,
		entry.NewStatus,
		entry.Comment,
	).Scan(&entry.ID, &entry.CreatedAt)
}

func (r *historyRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.WorkflowHistory, error) {
	const query = `
        SELECT id, user_id, workflow, changed_by_type, changed_by_id, old_status, new_status, comment, created_at
        FROM workflow_history WHERE user_id=$1 ORDER BY created_at ASC
        LIMIT $2 OFFSET $3`

	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.WorkflowHistory
	for rows.Next() {
		var entry domain.WorkflowHistory
		if err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.Workflow,
			&entry.ChangedByType,
			&entry.ChangedByID,
			&entry.OldStatus,
			&entry.NewStatus,
			&entry.Comment,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}
