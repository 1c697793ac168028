package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/onboarding-api/internal/application/documents"
	"github.com/jhoicas/onboarding-api/internal/application/dto"
	"github.com/jhoicas/onboarding-api/internal/domain/entity"
	"github.com/jhoicas/onboarding-api/internal/domain/repository"
)

// DocumentHandler subida, consulta y revisión de documentos.
type DocumentHandler struct {
	docs   *documents.Service
	review *documents.ReviewService
}

func NewDocumentHandler(docs *documents.Service, review *documents.ReviewService) *DocumentHandler {
	return &DocumentHandler{docs: docs, review: review}
}

func ownerFor(c *fiber.Ctx) entity.DocumentOwner {
	if GetRole(c) == entity.RoleAdmin {
		return entity.OwnerAdmin
	}
	return entity.OwnerClient
}

// Presign godoc
// @Summary      URL firmada para subir un documento
// @Tags         documents
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                    true  "ID de la empresa"
// @Param        body  body  dto.PresignUploadRequest  true  "Tipo y nombre del archivo"
// @Success      200   {object}  dto.PresignUploadResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/companies/{id}/documents/presign [post]
func (h *DocumentHandler) Presign(c *fiber.Ctx) error {
	var in dto.PresignUploadRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	docType := entity.DocumentType(strings.ToUpper(strings.TrimSpace(in.DocumentType)))
	ticket, err := h.docs.PresignUpload(c.UserContext(), c.Params("id"), docType, in.FileName, in.ContentType)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.PresignUploadResponse{StorageKey: ticket.StorageKey, UploadURL: ticket.UploadURL, ExpiresAt: ticket.ExpiresAt})
}

// Confirm godoc
// @Summary      Confirmar la subida de un documento
// @Description  Registra una nueva versión y aplica el efecto sobre la etapa de la empresa.
// @Tags         documents
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                    true  "ID de la empresa"
// @Param        body  body  dto.ConfirmUploadRequest  true  "Metadatos del archivo subido"
// @Success      201   {object}  dto.DocumentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/companies/{id}/documents [post]
func (h *DocumentHandler) Confirm(c *fiber.Ctx) error {
	var in dto.ConfirmUploadRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	doc, err := h.docs.ConfirmUpload(c.UserContext(), documents.UploadInput{
		CompanyID:    c.Params("id"),
		DocumentType: entity.DocumentType(strings.ToUpper(strings.TrimSpace(in.DocumentType))),
		Owner:        ownerFor(c),
		FileName:     in.FileName,
		MimeType:     in.MimeType,
		SizeBytes:    in.SizeBytes,
		StorageKey:   in.StorageKey,
		UploadedBy:   GetUserID(c),
	})
	if err != nil {
		if doc != nil {
			// el documento quedó registrado; solo falló el efecto sobre la etapa
			return c.Status(fiber.StatusCreated).JSON(dto.FromDocument(doc))
		}
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromDocument(doc))
}

// List godoc
// @Summary      Listar documentos de la empresa
// @Tags         documents
// @Produce      json
// @Security     BearerAuth
// @Param        id           path   string  true   "ID de la empresa"
// @Param        type         query  string  false  "Tipo de documento"
// @Param        status       query  string  false  "Estado"
// @Param        kyc_only     query  bool    false  "Solo KYC"
// @Param        latest_only  query  bool    false  "Solo la última versión por tipo"
// @Param        limit        query  int     false  "Límite"  default(20)
// @Param        offset       query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.DocumentListResponse
// @Router       /api/companies/{id}/documents [get]
func (h *DocumentHandler) List(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	list, err := h.docs.List(c.UserContext(), repository.DocumentFilter{
		CompanyID:    c.Params("id"),
		DocumentType: entity.DocumentType(strings.ToUpper(c.Query("type"))),
		Status:       entity.DocumentStatus(strings.ToUpper(c.Query("status"))),
		KYCOnly:      c.QueryBool("kyc_only", false),
		LatestOnly:   c.QueryBool("latest_only", false),
		Limit:        limit,
		Offset:       offset,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.DocumentListResponse{
		Items: dto.FromDocuments(list),
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	})
}

// Get godoc
// @Summary      Obtener documento
// @Tags         documents
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID del documento"
// @Success      200  {object}  dto.DocumentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/documents/{id} [get]
func (h *DocumentHandler) Get(c *fiber.Ctx) error {
	doc, err := h.docs.Get(c.UserContext(), c.Params("id"), scopeCompanyID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromDocument(doc))
}

// Download godoc
// @Summary      URL firmada de descarga
// @Tags         documents
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID del documento"
// @Success      200  {object}  dto.DownloadResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/documents/{id}/download [get]
func (h *DocumentHandler) Download(c *fiber.Ctx) error {
	url, err := h.docs.DownloadURL(c.UserContext(), c.Params("id"), scopeCompanyID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.DownloadResponse{URL: url})
}

func (h *DocumentHandler) reviewInput(c *fiber.Ctx) (documents.ReviewInput, error) {
	var body dto.ReviewRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&body); err != nil {
			return documents.ReviewInput{}, err
		}
	}
	return documents.ReviewInput{
		DocumentID: c.Params("id"),
		ReviewerID: GetUserID(c),
		Reason:     body.Reason,
	}, nil
}

// Approve godoc
// @Summary      Aprobar documento KYC
// @Tags         review
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string             true   "ID del documento"
// @Param        body  body  dto.ReviewRequest  false  "Notas"
// @Success      200   {object}  dto.DocumentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/documents/{id}/approve [post]
func (h *DocumentHandler) Approve(c *fiber.Ctx) error {
	in, err := h.reviewInput(c)
	if err != nil {
		return badBody(c)
	}
	doc, err := h.review.Approve(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromDocument(doc))
}

// Reject godoc
// @Summary      Rechazar documento KYC
// @Tags         review
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string             true  "ID del documento"
// @Param        body  body  dto.ReviewRequest  true  "Motivo (obligatorio)"
// @Success      200   {object}  dto.DocumentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/documents/{id}/reject [post]
func (h *DocumentHandler) Reject(c *fiber.Ctx) error {
	in, err := h.reviewInput(c)
	if err != nil {
		return badBody(c)
	}
	doc, err := h.review.Reject(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromDocument(doc))
}

// PendingWithClient godoc
// @Summary      Devolver documento al cliente
// @Tags         review
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string             true  "ID del documento"
// @Param        body  body  dto.ReviewRequest  true  "Motivo (obligatorio)"
// @Success      200   {object}  dto.DocumentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/documents/{id}/pending-client [post]
func (h *DocumentHandler) PendingWithClient(c *fiber.Ctx) error {
	in, err := h.reviewInput(c)
	if err != nil {
		return badBody(c)
	}
	doc, err := h.review.PendingWithClient(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromDocument(doc))
}

// PendingWithAdmin godoc
// @Summary      Devolver documento a revisión interna
// @Tags         review
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string             true   "ID del documento"
// @Param        body  body  dto.ReviewRequest  false  "Notas"
// @Success      200   {object}  dto.DocumentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/documents/{id}/pending-admin [post]
func (h *DocumentHandler) PendingWithAdmin(c *fiber.Ctx) error {
	in, err := h.reviewInput(c)
	if err != nil {
		return badBody(c)
	}
	doc, err := h.review.PendingWithAdmin(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromDocument(doc))
}
