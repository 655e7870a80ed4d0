package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/macxnet80/tigube-approval-service/internal/api/dto"
	"github.com/macxnet80/tigube-approval-service/internal/auth"
	"github.com/macxnet80/tigube-approval-service/internal/service"
	apperrors "github.com/macxnet80/tigube-approval-service/pkg/util"
)

// AdminApprovalsHandler manages the admin approval queue.
type AdminApprovalsHandler struct {
	approvals *service.ApprovalService
}

// NewAdminApprovalsHandler constructs handler.
func NewAdminApprovalsHandler(approvalService *service.ApprovalService) *AdminApprovalsHandler {
	return &AdminApprovalsHandler{approvals: approvalService}
}

// ListPending GET /admin/approvals/pending.
func (h *AdminApprovalsHandler) ListPending(c *fiber.Ctx) error {
	page := parseQueryInt(c.Query("page"), 1)
	pageSize := parseQueryInt(c.Query("page_size"), 50)

	users, err := h.approvals.GetPendingApprovals(c.Context(), pageSize, (page-1)*pageSize)
	if err != nil {
		return err
	}
	items := make([]dto.UserSummary, 0, len(users))
	for i := range users {
		items = append(items, dto.UserSummaryFromDomain(&users[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Stats GET /admin/approvals/stats.
func (h *AdminApprovalsHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.approvals.GetApprovalStats(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ApprovalStatsResponse{
		Total:    stats.Total,
		Pending:  stats.Pending,
		Approved: stats.Approved,
		Rejected: stats.Rejected,
	}})
}

// Decide POST /admin/approvals/:userID/decide.
func (h *AdminApprovalsHandler) Decide(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Admin == nil {
		return apperrors.NewUnauthorized("admin required")
	}
	var req dto.DecideApprovalRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user, err := h.approvals.DecideApproval(c.Context(), principal.Admin, c.Params("userID"), req.Status, req.Notes)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.UserSummaryFromDomain(user)})
}

// Reset POST /admin/approvals/:userID/reset.
func (h *AdminApprovalsHandler) Reset(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Admin == nil {
		return apperrors.NewUnauthorized("admin required")
	}
	user, err := h.approvals.ResetApproval(c.Context(), principal.Admin, c.Params("userID"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.UserSummaryFromDomain(user)})
}

// History GET /admin/users/:userID/history.
func (h *AdminApprovalsHandler) History(c *fiber.Ctx) error {
	page := parseQueryInt(c.Query("page"), 1)
	pageSize := parseQueryInt(c.Query("page_size"), 100)

	entries, err := h.approvals.GetWorkflowHistory(c.Context(), c.Params("userID"), pageSize, (page-1)*pageSize)
	if err != nil {
		return err
	}
	items := make([]dto.HistoryEntryResponse, 0, len(entries))
	for i := range entries {
		items = append(items, dto.HistoryEntryFromDomain(&entries[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

func parseQueryInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}
