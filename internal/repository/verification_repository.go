package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/macxnet80/tigube-approval-service/internal/domain"
)

const verificationColumns = `id, user_id, ausweis_url, zertifikate_urls, status, admin_comment,
               reviewed_at, reviewed_by, created_at, updated_at`

// VerificationRepository persists verification requests. The request
// status and the users.verification_status mirror are two copies of the
// same fact, so every mutation writes both inside one transaction.
type VerificationRepository interface {
	GetByID(ctx context.Context, id string) (*domain.VerificationRequest, error)
	GetByUserID(ctx context.Context, userID string) (*domain.VerificationRequest, error)
	UpsertSubmission(ctx context.Context, request *domain.VerificationRequest) error
	Review(ctx context.Context, requestID string, status domain.VerificationStatus, comment *string, reviewedBy string, reviewedAt time.Time) (*domain.VerificationRequest, error)
	ListAll(ctx context.Context) ([]domain.VerificationListing, error)
}

type verificationRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewVerificationRepository returns a Postgres-backed implementation.
func NewVerificationRepository(pool *pgxpool.Pool, logger *zap.Logger) VerificationRepository {
	return &verificationRepository{pool: pool, logger: logger}
}

func (r *verificationRepository) GetByID(ctx context.Context, id string) (*domain.VerificationRequest, error) {
	const query = `SELECT ` + verificationColumns + ` FROM verification_requests WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *verificationRepository) GetByUserID(ctx context.Context, userID string) (*domain.VerificationRequest, error) {
	const query = `SELECT ` + verificationColumns + ` FROM verification_requests WHERE user_id=$1`
	return r.fetchSingle(ctx, query, userID)
}

// UpsertSubmission records a (re)submission: the request row keyed by
// user is created or replaced, review metadata is cleared, and the user
// mirror flips to pending. Both writes commit or neither does.
func (r *verificationRepository) UpsertSubmission(ctx context.Context, request *domain.VerificationRequest) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const upsert = `
        INSERT INTO verification_requests (user_id, ausweis_url, zertifikate_urls, status)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (user_id) DO UPDATE SET
            ausweis_url=EXCLUDED.ausweis_url,
            zertifikate_urls=EXCLUDED.zertifikate_urls,
            status=EXCLUDED.status,
            admin_comment=NULL,
            reviewed_at=NULL,
            reviewed_by=NULL,
            updated_at=NOW()
        RETURNING id, created_at, updated_at`

	request.Status = domain.VerificationStatusPending
	if err := tx.QueryRow(ctx, upsert,
		request.UserID,
		request.AusweisURL,
		request.ZertifikateURLs,
		request.Status,
	).Scan(&request.ID, &request.CreatedAt, &request.UpdatedAt); err != nil {
		return err
	}

	const mirror = `UPDATE users SET verification_status=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := tx.Exec(ctx, mirror, domain.VerificationStatusPending, request.UserID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return tx.Commit(ctx)
}

// Review updates status, comment, and reviewer metadata, then the user
// mirror, in one transaction.
func (r *verificationRepository) Review(ctx context.Context, requestID string, status domain.VerificationStatus, comment *string, reviewedBy string, reviewedAt time.Time) (*domain.VerificationRequest, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const update = `
        UPDATE verification_requests
        SET status=$1, admin_comment=$2, reviewed_at=$3, reviewed_by=$4, updated_at=NOW()
        WHERE id=$5
        RETURNING ` + verificationColumns

	var request domain.VerificationRequest
	if err := tx.QueryRow(ctx, update, status, comment, reviewedAt, reviewedBy, requestID).Scan(
		&request.ID,
		&request.UserID,
		&request.AusweisURL,
		&request.ZertifikateURLs,
		&request.Status,
		&request.AdminComment,
		&request.ReviewedAt,
		&request.ReviewedBy,
		&request.CreatedAt,
		&request.UpdatedAt,
	); err != nil {
		return nil, err
	}

	const mirror = `UPDATE users SET verification_status=$1, updated_at=NOW() WHERE id=$2`
	if _, err := tx.Exec(ctx, mirror, status, request.UserID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &request, nil
}

// ListAll feeds the admin review queue. The primary path calls the
// get_all_verification_requests() SQL function; if that fails the
// repository falls back to an equivalent explicit join rather than
// failing the operation.
func (r *verificationRepository) ListAll(ctx context.Context) ([]domain.VerificationListing, error) {
	const primary = `SELECT ` + listingColumns + ` FROM get_all_verification_requests()`

	listings, err := r.queryListings(ctx, primary)
	if err == nil {
		return listings, nil
	}
	r.logger.Warn("get_all_verification_requests failed; falling back to join query", zap.Error(err))

	const fallback = `
        SELECT ` + qualifiedListingColumns + `
        FROM verification_requests vr
        JOIN users u ON u.id = vr.user_id
        ORDER BY vr.created_at ASC`
	return r.queryListings(ctx, fallback)
}

const listingColumns = `id, user_id, ausweis_url, zertifikate_urls, status, admin_comment,
               reviewed_at, reviewed_by, created_at, updated_at, user_name, user_email`

const qualifiedListingColumns = `vr.id, vr.user_id, vr.ausweis_url, vr.zertifikate_urls, vr.status, vr.admin_comment,
               vr.reviewed_at, vr.reviewed_by, vr.created_at, vr.updated_at, u.name, u.email`

func (r *verificationRepository) queryListings(ctx context.Context, query string) ([]domain.VerificationListing, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.VerificationListing
	for rows.Next() {
		var listing domain.VerificationListing
		if err := rows.Scan(
			&listing.Request.ID,
			&listing.Request.UserID,
			&listing.Request.AusweisURL,
			&listing.Request.ZertifikateURLs,
			&listing.Request.Status,
			&listing.Request.AdminComment,
			&listing.Request.ReviewedAt,
			&listing.Request.ReviewedBy,
			&listing.Request.CreatedAt,
			&listing.Request.UpdatedAt,
			&listing.UserName,
			&listing.UserEmail,
		); err != nil {
			return nil, err
		}
		result = append(result, listing)
	}
	return result, rows.Err()
}

func (r *verificationRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.VerificationRequest, error) {
	var request domain.VerificationRequest
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&request.ID,
		&request.UserID,
		&request.AusweisURL,
		&request.ZertifikateURLs,
		&request.Status,
		&request.AdminComment,
		&request.ReviewedAt,
		&request.ReviewedBy,
		&request.CreatedAt,
		&request.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &request, nil
}
