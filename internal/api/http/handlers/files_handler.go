package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/file-vault-service/internal/api/dto"
	"github.com/spec-kit/file-vault-service/internal/auth"
	"github.com/spec-kit/file-vault-service/internal/authz"
	"github.com/spec-kit/file-vault-service/internal/domain"
	"github.com/spec-kit/file-vault-service/internal/service"
	apperrors "github.com/spec-kit/file-vault-service/pkg/util"
)

// FilesHandler manages upload, listing, download and deletion endpoints.
type FilesHandler struct {
	service *service.FileService
}

// NewFilesHandler constructs handler.
func NewFilesHandler(fileService *service.FileService) *FilesHandler {
	return &FilesHandler{service: fileService}
}

// Upload handles POST /files. Expects multipart form data with a "file"
// part and an optional "visibility" field (defaults to private).
func (h *FilesHandler) Upload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return apperrors.NewValidationError("file part required", nil)
	}

	content, err := fileHeader.Open()
	if err != nil {
		return apperrors.NewValidationError("unreadable file part", nil)
	}
	defer content.Close()

	input := service.UploadInput{
		OriginalName: fileHeader.Filename,
		MimeType:     fileHeader.Header.Get("Content-Type"),
		SizeBytes:    fileHeader.Size,
		Visibility:   c.FormValue("visibility"),
		Content:      content,
	}

	file, err := h.service.Upload(c.Context(), requesterFromContext(c), input)
	if err != nil {
		return mapDecisionError(err)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": fileResponse(file)})
}

// ListMine handles GET /files/mine.
func (h *FilesHandler) ListMine(c *fiber.Ctx) error {
	files, err := h.service.ListMine(c.Context(), requesterFromContext(c))
	if err != nil {
		return mapDecisionError(err)
	}
	return c.JSON(fiber.Map{"data": fileResponses(files)})
}

// ListPublic handles GET /files/public. No authentication required.
func (h *FilesHandler) ListPublic(c *fiber.Ctx) error {
	files, err := h.service.ListPublic(c.Context(), requesterFromContext(c))
	if err != nil {
		return mapDecisionError(err)
	}
	return c.JSON(fiber.Map{"data": fileResponses(files)})
}

// Download handles GET /files/:id/download. Authentication is optional;
// the authorization engine decides based on visibility and ownership.
func (h *FilesHandler) Download(c *fiber.Ctx) error {
	file, rc, err := h.service.Download(c.Context(), requesterFromContext(c), domain.FileID(c.Params("id")))
	if err != nil {
		return mapDecisionError(err)
	}

	c.Set(fiber.HeaderContentType, file.MimeType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", file.OriginalName))
	return c.SendStream(rc, int(file.SizeBytes))
}

// Delete handles DELETE /files/:id.
func (h *FilesHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Context(), requesterFromContext(c), domain.FileID(c.Params("id"))); err != nil {
		return mapDecisionError(err)
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "deleted"}})
}

// requesterFromContext derives the authz requester from the auth middleware
// principal, or an anonymous requester when none was loaded.
func requesterFromContext(c *fiber.Ctx) authz.Requester {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return authz.Anonymous()
	}
	return authz.Authenticated(principal.User.ID)
}

// mapDecisionError translates authz sentinels into transport errors.
func mapDecisionError(err error) error {
	switch {
	case errors.Is(err, authz.ErrNotFound):
		return apperrors.NewNotFound("file", nil)
	case errors.Is(err, authz.ErrUnauthenticated):
		return apperrors.NewUnauthorized("authentication required")
	case errors.Is(err, authz.ErrForbidden):
		return apperrors.NewForbidden("access denied")
	default:
		return err
	}
}

func fileResponse(file *domain.File) dto.FileResponse {
	return dto.FileResponse{
		ID:           file.ID.String(),
		OriginalName: file.OriginalName,
		MimeType:     file.MimeType,
		SizeBytes:    file.SizeBytes,
		Visibility:   string(file.Visibility),
		OwnerID:      file.OwnerID.String(),
		CreatedAt:    file.CreatedAt,
	}
}

func fileResponses(files []domain.File) []dto.FileResponse {
	items := make([]dto.FileResponse, 0, len(files))
	for i := range files {
		items = append(items, fileResponse(&files[i]))
	}
	return items
}
