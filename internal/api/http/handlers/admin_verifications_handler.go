package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/macxnet80/tigube-approval-service/internal/api/dto"
	"github.com/macxnet80/tigube-approval-service/internal/auth"
	"github.com/macxnet80/tigube-approval-service/internal/service"
	apperrors "github.com/macxnet80/tigube-approval-service/pkg/util"
)

// AdminVerificationsHandler manages the admin verification queue.
type AdminVerificationsHandler struct {
	verifications *service.VerificationService
}

// NewAdminVerificationsHandler constructs handler.
func NewAdminVerificationsHandler(verificationService *service.VerificationService) *AdminVerificationsHandler {
	return &AdminVerificationsHandler{verifications: verificationService}
}

// List GET /admin/verifications.
func (h *AdminVerificationsHandler) List(c *fiber.Ctx) error {
	listings, err := h.verifications.ListAll(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.VerificationListingResponse, 0, len(listings))
	for i := range listings {
		items = append(items, dto.VerificationListingResponse{
			VerificationResponse: dto.VerificationResponseFromDomain(&listings[i].Request),
			UserName:             listings[i].UserName,
			UserEmail:            listings[i].UserEmail,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

// Review POST /admin/verifications/:id/review.
func (h *AdminVerificationsHandler) Review(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Admin == nil {
		return apperrors.NewUnauthorized("admin required")
	}
	var req dto.ReviewVerificationRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	request, err := h.verifications.Review(c.Context(), principal.Admin, c.Params("id"), req.Status, req.Comment)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.VerificationResponseFromDomain(request)})
}
