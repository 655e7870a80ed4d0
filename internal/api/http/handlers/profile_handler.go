package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/macxnet80/tigube-approval-service/internal/api/dto"
	"github.com/macxnet80/tigube-approval-service/internal/auth"
	"github.com/macxnet80/tigube-approval-service/internal/domain"
	"github.com/macxnet80/tigube-approval-service/internal/repository"
	"github.com/macxnet80/tigube-approval-service/internal/service"
	apperrors "github.com/macxnet80/tigube-approval-service/pkg/util"
)

// ProfileHandler manages caretaker profile endpoints.
type ProfileHandler struct {
	profiles *service.ProfileService
	users    repository.UserRepository
}

// NewProfileHandler constructs handler.
func NewProfileHandler(profileService *service.ProfileService, users repository.UserRepository) *ProfileHandler {
	return &ProfileHandler{profiles: profileService, users: users}
}

// GetProfile GET /profile.
func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	profile, err := h.profiles.GetProfile(c.Context(), principal.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ProfileResponseFromDomain(profile)})
}

// UpdateProfile PUT /profile.
func (h *ProfileHandler) UpdateProfile(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	if principal.User.UserType != domain.UserTypeCaretaker {
		return apperrors.NewForbidden("only caretakers have profiles")
	}

	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	profile := &domain.CaretakerProfile{
		ShortAboutMe:    req.ShortAboutMe,
		LongAboutMe:     req.LongAboutMe,
		Services:        req.Services,
		HourlyRate:      req.HourlyRate,
		ExperienceYears: req.ExperienceYears,
		Languages:       req.Languages,
		AnimalTypes:     req.AnimalTypes,
		Qualifications:  req.Qualifications,
		IsCommercial:    req.IsCommercial,
		CompanyName:     req.CompanyName,
		TaxNumber:       req.TaxNumber,
		VatID:           req.VatID,
	}
	updated, err := h.profiles.UpdateProfile(c.Context(), principal.User.ID, profile)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ProfileResponseFromDomain(updated)})
}

// UpdateProfilePhoto PUT /profile/photo.
func (h *ProfileHandler) UpdateProfilePhoto(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}

	var req struct {
		PhotoURL *string `json:"photo_url"`
	}
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.PhotoURL != nil && strings.TrimSpace(*req.PhotoURL) == "" {
		req.PhotoURL = nil
	}

	if err := h.users.UpdateProfilePhoto(c.Context(), principal.User.ID, req.PhotoURL); err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"photo_url": req.PhotoURL}})
}

// CheckProfile GET /profile/check.
func (h *ProfileHandler) CheckProfile(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	check, err := h.profiles.ValidateProfileForApproval(c.Context(), principal.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ProfileCheckResponse{
		IsValid:         check.IsValid,
		MissingFields:   check.MissingFields,
		HasProfilePhoto: check.HasProfilePhoto,
		HasAboutMe:      check.HasAboutMe,
		HasServices:     check.HasServices,
	}})
}
