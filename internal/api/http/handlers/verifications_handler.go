package handlers

import (
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/macxnet80/tigube-approval-service/internal/api/dto"
	"github.com/macxnet80/tigube-approval-service/internal/auth"
	"github.com/macxnet80/tigube-approval-service/internal/service"
	apperrors "github.com/macxnet80/tigube-approval-service/pkg/util"
)

// VerificationsHandler manages caretaker-facing verification endpoints.
type VerificationsHandler struct {
	verifications *service.VerificationService
}

// NewVerificationsHandler constructs handler.
func NewVerificationsHandler(verificationService *service.VerificationService) *VerificationsHandler {
	return &VerificationsHandler{verifications: verificationService}
}

// Submit POST /verification. Multipart form with a required "ausweis"
// file and optional repeated "zertifikate" files.
func (h *VerificationsHandler) Submit(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}

	ausweisHeader, err := c.FormFile("ausweis")
	if err != nil {
		return apperrors.NewValidationError("ausweis document required", nil)
	}
	ausweis, err := readDocument(ausweisHeader)
	if err != nil {
		return err
	}

	var zertifikate []service.DocumentInput
	if form, err := c.MultipartForm(); err == nil && form != nil {
		for _, header := range form.File["zertifikate"] {
			doc, err := readDocument(header)
			if err != nil {
				return err
			}
			zertifikate = append(zertifikate, doc)
		}
	}

	request, err := h.verifications.Submit(c.Context(), principal.User.ID, ausweis, zertifikate)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.VerificationResponseFromDomain(request)})
}

// GetStatus GET /verification.
func (h *VerificationsHandler) GetStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	request, err := h.verifications.GetForUser(c.Context(), principal.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.VerificationResponseFromDomain(request)})
}

func readDocument(header *multipart.FileHeader) (service.DocumentInput, error) {
	file, err := header.Open()
	if err != nil {
		return service.DocumentInput{}, apperrors.NewValidationError("unreadable document", map[string]any{"file_name": header.Filename})
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return service.DocumentInput{}, apperrors.NewInternalError(err)
	}
	return service.DocumentInput{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
