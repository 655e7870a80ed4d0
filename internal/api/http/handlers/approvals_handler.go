package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/macxnet80/tigube-approval-service/internal/api/dto"
	"github.com/macxnet80/tigube-approval-service/internal/auth"
	"github.com/macxnet80/tigube-approval-service/internal/service"
	apperrors "github.com/macxnet80/tigube-approval-service/pkg/util"
)

// ApprovalsHandler manages caretaker-facing approval endpoints.
type ApprovalsHandler struct {
	approvals *service.ApprovalService
}

// NewApprovalsHandler constructs handler.
func NewApprovalsHandler(approvalService *service.ApprovalService) *ApprovalsHandler {
	return &ApprovalsHandler{approvals: approvalService}
}

// RequestApproval POST /approval/request.
func (h *ApprovalsHandler) RequestApproval(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	user, err := h.approvals.RequestApproval(c.Context(), principal.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.UserSummaryFromDomain(user)})
}

// GetApprovalStatus GET /approval.
func (h *ApprovalsHandler) GetApprovalStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	return c.JSON(fiber.Map{"data": dto.UserSummaryFromDomain(principal.User)})
}
