package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/macxnet80/tigube-approval-service/internal/domain"
	"github.com/macxnet80/tigube-approval-service/internal/repository"
	apperrors "github.com/macxnet80/tigube-approval-service/pkg/util"
)

// Missing-field labels are user-facing and rendered verbatim by the
// marketplace frontend, hence German.
const (
	MissingFieldAboutMe = "Über mich"
	MissingFieldPhoto   = "Profilbild"
	MissingFieldService = "Mindestens eine Leistung"
)

// ProfileService owns caretaker profile reads, writes, and the
// completeness check gating approval requests.
type ProfileService struct {
	users    repository.UserRepository
	profiles repository.ProfileRepository
}

// NewProfileService constructs the service.
func NewProfileService(users repository.UserRepository, profiles repository.ProfileRepository) *ProfileService {
	return &ProfileService{users: users, profiles: profiles}
}

// GetProfile fetches a caretaker profile.
func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*domain.CaretakerProfile, error) {
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("caretaker profile", map[string]any{"user_id": userID})
		}
		return nil, apperrors.MapError(err)
	}
	return profile, nil
}

// UpdateProfile persists profile changes for the owning caretaker.
// Services are normalized to the canonical array form by the repository.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID string, profile *domain.CaretakerProfile) (*domain.CaretakerProfile, error) {
	profile.UserID = userID
	if err := s.profiles.Update(ctx, profile); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("caretaker profile", map[string]any{"user_id": userID})
		}
		return nil, apperrors.MapError(err)
	}
	return s.GetProfile(ctx, userID)
}

// ValidateProfileForApproval checks whether a caretaker profile is
// complete enough to request approval. A missing user or profile row is
// a hard not-found error, distinct from a present-but-incomplete
// profile.
func (s *ProfileService) ValidateProfileForApproval(ctx context.Context, userID string) (*domain.ProfileCheckResult, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": userID})
		}
		return nil, apperrors.MapError(err)
	}

	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("caretaker profile", map[string]any{"user_id": userID})
		}
		return nil, apperrors.MapError(err)
	}

	result := &domain.ProfileCheckResult{
		HasAboutMe:      strings.TrimSpace(profile.ShortAboutMe) != "" || strings.TrimSpace(profile.LongAboutMe) != "",
		HasProfilePhoto: user.ProfilePhotoURL != nil && strings.TrimSpace(*user.ProfilePhotoURL) != "",
		HasServices:     len(profile.Services) > 0,
		MissingFields:   []string{},
	}

	if !result.HasAboutMe {
		result.MissingFields = append(result.MissingFields, MissingFieldAboutMe)
	}
	if !result.HasProfilePhoto {
		result.MissingFields = append(result.MissingFields, MissingFieldPhoto)
	}
	if !result.HasServices {
		result.MissingFields = append(result.MissingFields, MissingFieldService)
	}
	result.IsValid = result.HasAboutMe && result.HasProfilePhoto && result.HasServices

	return result, nil
}
