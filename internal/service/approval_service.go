package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/macxnet80/tigube-approval-service/internal/domain"
	"github.com/macxnet80/tigube-approval-service/internal/events"
	"github.com/macxnet80/tigube-approval-service/internal/repository"
	apperrors "github.com/macxnet80/tigube-approval-service/pkg/util"
)

// StatsCache caches the admin dashboard approval counters.
type StatsCache interface {
	GetStats(ctx context.Context) (*domain.ApprovalStats, bool)
	SetStats(ctx context.Context, stats *domain.ApprovalStats)
	Invalidate(ctx context.Context)
}

// ApprovalService coordinates the caretaker approval workflow.
type ApprovalService struct {
	users      repository.UserRepository
	validator  *ProfileService
	history    repository.HistoryRepository
	dispatcher events.Dispatcher
	cache      StatsCache
}

// ApprovalDependencies bundles requirements for the approval service.
type ApprovalDependencies struct {
	UserRepo    repository.UserRepository
	Validator   *ProfileService
	HistoryRepo repository.HistoryRepository
	Dispatcher  events.Dispatcher
	Cache       StatsCache
}

// NewApprovalService constructs the service.
func NewApprovalService(deps ApprovalDependencies) *ApprovalService {
	return &ApprovalService{
		users:      deps.UserRepo,
		validator:  deps.Validator,
		history:    deps.HistoryRepo,
		dispatcher: deps.Dispatcher,
		cache:      deps.Cache,
	}
}

// RequestApproval validates completeness and flips the caretaker into
// the review queue. Validation failure leaves every stored field
// untouched. Requesting while already pending only re-stamps the
// request timestamp.
func (s *ApprovalService) RequestApproval(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": userID})
		}
		return nil, apperrors.MapError(err)
	}
	if user.UserType != domain.UserTypeCaretaker {
		return nil, apperrors.NewForbidden("only caretakers can request approval")
	}
	if user.ApprovalStatus != nil && *user.ApprovalStatus == domain.ApprovalStatusApproved {
		return nil, apperrors.NewConflict("caretaker already approved", nil)
	}

	check, err := s.validator.ValidateProfileForApproval(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !check.IsValid {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("profile incomplete: %s", strings.Join(check.MissingFields, ", ")),
			map[string]any{"missing_fields": check.MissingFields},
		)
	}

	now := time.Now()
	if err := s.users.SetApprovalPending(ctx, userID, now); err != nil {
		return nil, apperrors.MapError(err)
	}

	oldStatus := statusString(user.ApprovalStatus)
	pending := string(domain.ApprovalStatusPending)
	s.recordHistory(ctx, userID, domain.SubjectTypeUser, &userID, oldStatus, &pending, "approval_requested")
	s.invalidateStats(ctx)
	s.publishEvent(ctx, events.Event{
		Type:   events.EventApprovalRequested,
		UserID: userID,
		Actor:  userActor(userID),
		Payload: events.ApprovalRequestedPayload{
			RequestedAt: now,
		},
	})

	return s.users.GetByID(ctx, userID)
}

// DecideApproval records an admin decision. Completeness is not
// re-checked here; the check binds at request time only. Decision
// metadata is stamped for rejections too since it records who decided
// and when, not an approval.
func (s *ApprovalService) DecideApproval(ctx context.Context, admin *domain.Admin, userID string, status domain.ApprovalStatus, notes *string) (*domain.User, error) {
	if admin == nil {
		return nil, apperrors.NewUnauthorized("admin required")
	}
	if status != domain.ApprovalStatusApproved && status != domain.ApprovalStatusRejected {
		return nil, apperrors.NewValidationError("decision must be approved or rejected", nil)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": userID})
		}
		return nil, apperrors.MapError(err)
	}
	if user.UserType != domain.UserTypeCaretaker {
		return nil, apperrors.NewValidationError("user is not a caretaker", nil)
	}
	if user.ApprovalStatus == nil || *user.ApprovalStatus != domain.ApprovalStatusPending {
		return nil, apperrors.NewConflict("no pending approval request to decide", map[string]any{
			"current_status": statusString(user.ApprovalStatus),
		})
	}

	if err := s.users.SetApprovalDecision(ctx, userID, status, admin.ID, time.Now(), notes); err != nil {
		return nil, apperrors.MapError(err)
	}

	oldStatus := statusString(user.ApprovalStatus)
	newStatus := string(status)
	s.recordHistory(ctx, userID, domain.SubjectTypeAdmin, &admin.ID, oldStatus, &newStatus, noteText(notes))
	s.invalidateStats(ctx)
	s.publishEvent(ctx, events.Event{
		Type:   events.EventApprovalDecided,
		UserID: userID,
		Actor:  adminActor(admin.ID),
		Payload: events.ApprovalDecidedPayload{
			Status: status,
			Notes:  noteText(notes),
		},
	})

	return s.users.GetByID(ctx, userID)
}

// ResetApproval nulls all approval fields, returning the caretaker to
// the unsubmitted state.
func (s *ApprovalService) ResetApproval(ctx context.Context, admin *domain.Admin, userID string) (*domain.User, error) {
	if admin == nil {
		return nil, apperrors.NewUnauthorized("admin required")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": userID})
		}
		return nil, apperrors.MapError(err)
	}

	if err := s.users.ResetApproval(ctx, userID); err != nil {
		return nil, apperrors.MapError(err)
	}

	oldStatus := statusString(user.ApprovalStatus)
	s.recordHistory(ctx, userID, domain.SubjectTypeAdmin, &admin.ID, oldStatus, nil, "approval_reset")
	s.invalidateStats(ctx)
	s.publishEvent(ctx, events.Event{
		Type:   events.EventApprovalReset,
		UserID: userID,
		Actor:  adminActor(admin.ID),
		Payload: events.ApprovalResetPayload{
			PreviousStatus: user.ApprovalStatus,
		},
	})

	return s.users.GetByID(ctx, userID)
}

// GetPendingApprovals returns the review queue, oldest request first.
func (s *ApprovalService) GetPendingApprovals(ctx context.Context, limit, offset int) ([]domain.User, error) {
	users, err := s.users.ListPendingCaretakers(ctx, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return users, nil
}

// GetWorkflowHistory returns the audit trail for one user, covering
// approval and verification entries alike, oldest first.
func (s *ApprovalService) GetWorkflowHistory(ctx context.Context, userID string, limit, offset int) ([]domain.WorkflowHistory, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": userID})
		}
		return nil, apperrors.MapError(err)
	}
	entries, err := s.history.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return entries, nil
}

// GetApprovalStats serves the dashboard counters, preferring the cache.
func (s *ApprovalService) GetApprovalStats(ctx context.Context) (*domain.ApprovalStats, error) {
	if s.cache != nil {
		if stats, ok := s.cache.GetStats(ctx); ok {
			return stats, nil
		}
	}
	stats, err := s.users.ApprovalStats(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if s.cache != nil {
		s.cache.SetStats(ctx, stats)
	}
	return stats, nil
}

func (s *ApprovalService) recordHistory(ctx context.Context, userID string, actorType domain.SubjectType, actorID *string, oldStatus, newStatus *string, comment string) {
	if s.history == nil {
		return
	}
	entry := &domain.WorkflowHistory{
		UserID:        userID,
		Workflow:      domain.WorkflowApproval,
		ChangedByType: actorType,
		ChangedByID:   actorID,
		OldStatus:     oldStatus,
		NewStatus:     newStatus,
		Comment:       comment,
	}
	_ = s.history.Create(ctx, entry)
}

func (s *ApprovalService) invalidateStats(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
}

func (s *ApprovalService) publishEvent(ctx context.Context, event events.Event) {
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

func userActor(userID string) events.Actor {
	return events.Actor{
		Type:   domain.SubjectTypeUser,
		UserID: &userID,
	}
}

func adminActor(adminID string) events.Actor {
	return events.Actor{
		Type:    domain.SubjectTypeAdmin,
		AdminID: &adminID,
	}
}

func statusString(status *domain.ApprovalStatus) *string {
	if status == nil {
		return nil
	}
	s := string(*status)
	return &s
}

func noteText(notes *string) string {
	if notes == nil {
		return ""
	}
	return *notes
}
