package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/onboarding-api/internal/application/billing"
	"github.com/jhoicas/onboarding-api/internal/application/dto"
)

// InvoiceHandler consulta y reenvío de facturas.
type InvoiceHandler struct {
	svc *billing.InvoiceService
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(svc *billing.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{svc: svc}
}

// GetByID godoc
// @Summary      Obtener factura
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID de la factura"
// @Success      200  {object}  dto.InvoiceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id} [get]
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	inv, err := h.svc.Get(c.UserContext(), c.Params("id"), scopeCompanyID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromInvoice(inv))
}

// ListByCompany godoc
// @Summary      Facturas de la empresa
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID de la empresa"
// @Success      200  {array}  dto.InvoiceResponse
// @Router       /api/companies/{id}/invoices [get]
func (h *InvoiceHandler) ListByCompany(c *fiber.Ctx) error {
	list, err := h.svc.ListByCompany(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromInvoices(list))
}

// Download godoc
// @Summary      URL firmada del PDF
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID de la factura"
// @Success      200  {object}  dto.DownloadResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/download [get]
func (h *InvoiceHandler) Download(c *fiber.Ctx) error {
	url, err := h.svc.DownloadURL(c.UserContext(), c.Params("id"), scopeCompanyID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.DownloadResponse{URL: url})
}

// Resend godoc
// @Summary      Regenerar PDF y reenviar la factura
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID de la factura"
// @Success      200  {object}  dto.InvoiceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/resend [post]
func (h *InvoiceHandler) Resend(c *fiber.Ctx) error {
	inv, err := h.svc.Resend(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromInvoice(inv))
}
