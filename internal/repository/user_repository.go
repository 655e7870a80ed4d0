package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/macxnet80/tigube-approval-service/internal/domain"
)

const userColumns = `id, email, name, password_hash, user_type, profile_photo_url,
               approval_status, approval_requested_at, approval_decided_at, approval_decided_by, approval_notes,
               verification_status, created_at, updated_at`

// UserRepository defines persistence access for marketplace users and
// their approval state. Approval columns live on users only; this
// repository is their single writer.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateProfilePhoto(ctx context.Context, userID string, photoURL *string) error

	SetApprovalPending(ctx context.Context, userID string, requestedAt time.Time) error
	SetApprovalDecision(ctx context.Context, userID string, status domain.ApprovalStatus, decidedBy string, decidedAt time.Time, notes *string) error
	ResetApproval(ctx context.Context, userID string) error
	ListPendingCaretakers(ctx context.Context, limit, offset int) ([]domain.User, error)
	ApprovalStats(ctx context.Context) (*domain.ApprovalStats, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (email, name, password_hash, user_type, verification_status)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at, updated_at`

	if user.VerificationStatus == "" {
		user.VerificationStatus = domain.VerificationStatusNotSubmitted
	}
	return r.pool.QueryRow(ctx, query,
		user.Email,
		user.Name,
		user.PasswordHash,
		user.UserType,
		user.VerificationStatus,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE email=$1`
	return r.fetchSingle(ctx, query, email)
}

func (r *userRepository) UpdateProfilePhoto(ctx context.Context, userID string, photoURL *string) error {
	const query = `UPDATE users SET profile_photo_url=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, photoURL, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// SetApprovalPending flips the caretaker into the review queue. Status
// and timestamp are written in one statement; calling it again while
// already pending only re-stamps the timestamp.
func (r *userRepository) SetApprovalPending(ctx context.Context, userID string, requestedAt time.Time) error {
	const query = `
        UPDATE users SET approval_status=$1, approval_requested_at=$2, updated_at=NOW()
        WHERE id=$3 AND user_type=$4`
	cmd, err := r.pool.Exec(ctx, query, domain.ApprovalStatusPending, requestedAt, userID, domain.UserTypeCaretaker)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// SetApprovalDecision records a decision. DecidedAt/DecidedBy are
// stamped for rejections too; the status column alone carries the outcome.
func (r *userRepository) SetApprovalDecision(ctx context.Context, userID string, status domain.ApprovalStatus, decidedBy string, decidedAt time.Time, notes *string) error {
	const query = `
        UPDATE users SET approval_status=$1, approval_decided_at=$2, approval_decided_by=$3, approval_notes=$4, updated_at=NOW()
        WHERE id=$5`
	cmd, err := r.pool.Exec(ctx, query, status, decidedAt, decidedBy, notes, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// ResetApproval nulls all approval fields, returning the caretaker to
// the unsubmitted state.
func (r *userRepository) ResetApproval(ctx context.Context, userID string) error {
	const query = `
        UPDATE users SET approval_status=NULL, approval_requested_at=NULL, approval_decided_at=NULL,
            approval_decided_by=NULL, approval_notes=NULL, updated_at=NOW()
        WHERE id=$1`
	cmd, err := r.pool.Exec(ctx, query, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// ListPendingCaretakers returns the review queue, oldest request first.
func (r *userRepository) ListPendingCaretakers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	const query = `
        SELECT ` + userColumns + `
        FROM users
        WHERE user_type=$1 AND approval_status=$2
        ORDER BY approval_requested_at ASC
        LIMIT $3 OFFSET $4`

	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.pool.Query(ctx, query, domain.UserTypeCaretaker, domain.ApprovalStatusPending, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUsers(rows)
}

// ApprovalStats tallies caretaker counts per status in one aggregate
// query instead of scanning rows client-side.
func (r *userRepository) ApprovalStats(ctx context.Context) (*domain.ApprovalStats, error) {
	const query = `
        SELECT COUNT(*),
               COUNT(*) FILTER (WHERE approval_status=$1),
               COUNT(*) FILTER (WHERE approval_status=$2),
               COUNT(*) FILTER (WHERE approval_status=$3)
        FROM users WHERE user_type=$4`

	var stats domain.ApprovalStats
	if err := r.pool.QueryRow(ctx, query,
		domain.ApprovalStatusPending,
		domain.ApprovalStatusApproved,
		domain.ApprovalStatusRejected,
		domain.UserTypeCaretaker,
	).Scan(&stats.Total, &stats.Pending, &stats.Approved, &stats.Rejected); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *userRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.User, error) {
	var user domain.User
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.PasswordHash,
		&user.UserType,
		&user.ProfilePhotoURL,
		&user.ApprovalStatus,
		&user.ApprovalRequestedAt,
		&user.ApprovalDecidedAt,
		&user.ApprovalDecidedBy,
		&user.ApprovalNotes,
		&user.VerificationStatus,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}

func scanUsers(rows pgx.Rows) ([]domain.User, error) {
	var result []domain.User
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(
			&user.ID,
			&user.Email,
			&user.Name,
			&user.PasswordHash,
			&user.UserType,
			&user.ProfilePhotoURL,
			&user.ApprovalStatus,
			&user.ApprovalRequestedAt,
			&user.ApprovalDecidedAt,
			&user.ApprovalDecidedBy,
			&user.ApprovalNotes,
			&user.VerificationStatus,
			&user.CreatedAt,
			&user.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, user)
	}
	return result, rows.Err()
}
