package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/macxnet80/tigube-approval-service/internal/domain"
	"github.com/macxnet80/tigube-approval-service/internal/events"
	"github.com/macxnet80/tigube-approval-service/internal/repository"
	"github.com/macxnet80/tigube-approval-service/internal/storage"
	apperrors "github.com/macxnet80/tigube-approval-service/pkg/util"
)

// MaxDocumentSize is the upload limit per verification document.
const MaxDocumentSize = 10 << 20 // 10 MB

var allowedDocumentTypes = map[string]struct{}{
	"application/pdf": {},
	"image/jpeg":      {},
	"image/jpg":       {},
	"image/png":       {},
}

// DocumentInput is one file offered for verification.
type DocumentInput struct {
	FileName    string
	ContentType string
	Data        []byte
}

// VerificationService coordinates document submission and admin review.
type VerificationService struct {
	verifications repository.VerificationRepository
	users         repository.UserRepository
	history       repository.HistoryRepository
	store         storage.ObjectStore
	bucket        string
	dispatcher    events.Dispatcher
	logger        *zap.Logger
}

// VerificationDependencies bundles requirements for the service.
type VerificationDependencies struct {
	VerificationRepo repository.VerificationRepository
	UserRepo         repository.UserRepository
	HistoryRepo      repository.HistoryRepository
	Store            storage.ObjectStore
	Bucket           string
	Dispatcher       events.Dispatcher
	Logger           *zap.Logger
}

// NewVerificationService constructs the service.
func NewVerificationService(deps VerificationDependencies) *VerificationService {
	return &VerificationService{
		verifications: deps.VerificationRepo,
		users:         deps.UserRepo,
		history:       deps.HistoryRepo,
		store:         deps.Store,
		bucket:        deps.Bucket,
		dispatcher:    deps.Dispatcher,
		logger:        deps.Logger,
	}
}

// ValidateDocument rejects oversized files and types outside the
// allow-list. Runs before any network call.
func ValidateDocument(doc DocumentInput) error {
	if len(doc.Data) == 0 {
		return apperrors.NewValidationError("empty document", map[string]any{"file_name": doc.FileName})
	}
	if len(doc.Data) > MaxDocumentSize {
		return apperrors.NewValidationError("document exceeds 10MB limit", map[string]any{
			"file_name":  doc.FileName,
			"size_bytes": len(doc.Data),
		})
	}
	if _, ok := allowedDocumentTypes[strings.ToLower(doc.ContentType)]; !ok {
		return apperrors.NewValidationError("document type not allowed", map[string]any{
			"file_name":    doc.FileName,
			"content_type": doc.ContentType,
		})
	}
	return nil
}

// Submit stores the identity document plus optional credential files
// and records the verification request. All files are validated before
// the first upload, so an invalid file aborts the whole submission with
// nothing stored. Uploads run sequentially; if a later upload fails,
// earlier uploads of this submission are deleted best-effort so no
// orphaned partial state survives.
func (s *VerificationService) Submit(ctx context.Context, userID string, ausweis DocumentInput, zertifikate []DocumentInput) (*domain.VerificationRequest, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": userID})
		}
		return nil, apperrors.MapError(err)
	}
	if user.UserType != domain.UserTypeCaretaker {
		return nil, apperrors.NewForbidden("only caretakers submit verification documents")
	}

	resubmission := false
	existing, err := s.verifications.GetByUserID(ctx, userID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}
	if existing != nil {
		switch existing.Status {
		case domain.VerificationStatusInReview:
			return nil, apperrors.NewConflict("verification is under review", nil)
		case domain.VerificationStatusApproved:
			return nil, apperrors.NewConflict("verification already approved", nil)
		}
		resubmission = true
	}

	// All-or-nothing at the validation stage.
	if err := ValidateDocument(ausweis); err != nil {
		return nil, err
	}
	for _, doc := range zertifikate {
		if err := ValidateDocument(doc); err != nil {
			return nil, err
		}
	}

	uploaded := make([]string, 0, len(zertifikate)+1)
	rollback := func() {
		for _, key := range uploaded {
			if err := s.store.Delete(ctx, s.bucket, key); err != nil {
				s.logger.Warn("failed to roll back uploaded document", zap.String("key", key), zap.Error(err))
			}
		}
	}

	ausweisKey := documentKey(userID, "ausweis", ausweis)
	ausweisURL, err := s.store.Upload(ctx, s.bucket, ausweisKey, ausweis.ContentType, ausweis.Data)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	uploaded = append(uploaded, ausweisKey)

	zertifikateURLs := make([]string, 0, len(zertifikate))
	for _, doc := range zertifikate {
		key := documentKey(userID, "zertifikat", doc)
		url, err := s.store.Upload(ctx, s.bucket, key, doc.ContentType, doc.Data)
		if err != nil {
			rollback()
			return nil, apperrors.NewInternalError(err)
		}
		uploaded = append(uploaded, key)
		zertifikateURLs = append(zertifikateURLs, url)
	}

	request := &domain.VerificationRequest{
		UserID:          userID,
		AusweisURL:      ausweisURL,
		ZertifikateURLs: zertifikateURLs,
	}
	if err := s.verifications.UpsertSubmission(ctx, request); err != nil {
		rollback()
		return nil, apperrors.MapError(err)
	}

	oldStatus := string(user.VerificationStatus)
	newStatus := string(domain.VerificationStatusPending)
	s.recordHistory(ctx, userID, domain.SubjectTypeUser, &userID, &oldStatus, &newStatus, "verification_submitted")
	s.publishEvent(ctx, events.Event{
		Type:   events.EventVerificationSubmitted,
		UserID: userID,
		Actor:  userActor(userID),
		Payload: events.VerificationSubmittedPayload{
			RequestID:        request.ID,
			CertificateCount: len(zertifikateURLs),
			Resubmission:     resubmission,
		},
	})

	return request, nil
}

// Review applies an admin decision to a verification request. The
// request row and the user mirror commit in one transaction.
func (s *VerificationService) Review(ctx context.Context, admin *domain.Admin, requestID string, newStatus domain.VerificationStatus, comment *string) (*domain.VerificationRequest, error) {
	if admin == nil {
		return nil, apperrors.NewUnauthorized("admin required")
	}

	request, err := s.verifications.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("verification request", map[string]any{"request_id": requestID})
		}
		return nil, apperrors.MapError(err)
	}

	if !isValidReviewTransition(request.Status, newStatus) {
		return nil, apperrors.NewConflict("invalid verification status transition", map[string]any{
			"current_status":   request.Status,
			"requested_status": newStatus,
		})
	}

	updated, err := s.verifications.Review(ctx, requestID, newStatus, comment, admin.ID, time.Now())
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	oldStatus := string(request.Status)
	status := string(newStatus)
	s.recordHistory(ctx, request.UserID, domain.SubjectTypeAdmin, &admin.ID, &oldStatus, &status, noteText(comment))
	s.publishEvent(ctx, events.Event{
		Type:   events.EventVerificationReviewed,
		UserID: request.UserID,
		Actor:  adminActor(admin.ID),
		Payload: events.VerificationReviewedPayload{
			RequestID: requestID,
			OldStatus: request.Status,
			NewStatus: newStatus,
			Comment:   noteText(comment),
		},
	})

	return updated, nil
}

// GetForUser returns a caretaker's own verification request.
func (s *VerificationService) GetForUser(ctx context.Context, userID string) (*domain.VerificationRequest, error) {
	request, err := s.verifications.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("verification request", map[string]any{"user_id": userID})
		}
		return nil, apperrors.MapError(err)
	}
	return request, nil
}

// ListAll returns the admin review queue.
func (s *VerificationService) ListAll(ctx context.Context) ([]domain.VerificationListing, error) {
	listings, err := s.verifications.ListAll(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return listings, nil
}

// Admin review moves are restricted to this graph. A rejected request
// leaves rejected only through resubmission.
var allowedReviewTransitions = map[domain.VerificationStatus][]domain.VerificationStatus{
	domain.VerificationStatusPending:  {domain.VerificationStatusInReview, domain.VerificationStatusApproved, domain.VerificationStatusRejected},
	domain.VerificationStatusInReview: {domain.VerificationStatusApproved, domain.VerificationStatusRejected, domain.VerificationStatusPending},
	domain.VerificationStatusApproved: {domain.VerificationStatusRejected, domain.VerificationStatusPending},
	domain.VerificationStatusRejected: {},
}

func isValidReviewTransition(current, next domain.VerificationStatus) bool {
	for _, candidate := range allowedReviewTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

// documentKey builds the object name {userID}/{documentType}_{timestamp}.{ext}.
// Nanosecond timestamps keep keys of same-type documents in one
// submission from colliding.
func documentKey(userID, documentType string, doc DocumentInput) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(doc.FileName)), ".")
	if ext == "" {
		ext = extensionForContentType(doc.ContentType)
	}
	return fmt.Sprintf("%s/%s_%d.%s", userID, documentType, time.Now().UnixNano(), ext)
}

func extensionForContentType(contentType string) string {
	switch strings.ToLower(contentType) {
	case "application/pdf":
		return "pdf"
	case "image/png":
		return "png"
	default:
		return "jpg"
	}
}

func (s *VerificationService) recordHistory(ctx context.Context, userID string, actorType domain.SubjectType, actorID *string, oldStatus, newStatus *string, comment string) {
	if s.history == nil {
		return
	}
	entry := &domain.WorkflowHistory{
		UserID:        userID,
		Workflow:      domain.WorkflowVerification,
		ChangedByType: actorType,
		ChangedByID:   actorID,
		OldStatus:     oldStatus,
		NewStatus:     newStatus,
		Comment:       comment,
	}
	_ = s.history.Create(ctx, entry)
}

func (s *VerificationService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
