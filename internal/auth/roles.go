package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/macxnet80/tigube-approval-service/internal/domain"
	apperrors "github.com/macxnet80/tigube-approval-service/pkg/util"
)

// RequireUser ensures a marketplace user is authenticated.
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.SubjectType != domain.SubjectTypeUser || principal.User == nil {
			return apperrors.NewForbidden("user required")
		}
		return c.Next()
	}
}

// RequireAdmin ensures a back-office admin is authenticated. Approval
// and verification decisions are admin-only at the route layer, not
// just hidden in the UI.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.SubjectType != domain.SubjectTypeAdmin || principal.Admin == nil {
			return apperrors.NewForbidden("admin required")
		}
		return c.Next()
	}
}
