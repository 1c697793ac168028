package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/onboarding-api/internal/application/dto"
	"github.com/jhoicas/onboarding-api/internal/application/payments"
)

// PaymentHandler cobros de onboarding.
type PaymentHandler struct {
	svc *payments.Service
}

func NewPaymentHandler(svc *payments.Service) *PaymentHandler {
	return &PaymentHandler{svc: svc}
}

// Create godoc
// @Summary      Crear link de pago
// @Description  Crea el cobro en el proveedor y mueve la empresa a PAYMENT_PENDING.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                    true  "ID de la empresa"
// @Param        body  body  dto.CreatePaymentRequest  true  "Monto bruto y descripción"
// @Success      201   {object}  dto.PaymentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/companies/{id}/payments [post]
func (h *PaymentHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	amount, err := decimal.NewFromString(in.Amount)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "amount debe ser un decimal"})
	}
	p, err := h.svc.CreatePayment(c.UserContext(), payments.CreatePaymentInput{
		CompanyID:   c.Params("id"),
		Amount:      amount,
		Description: in.Description,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromPayment(p))
}

// List godoc
// @Summary      Pagos de la empresa
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID de la empresa"
// @Success      200  {array}  dto.PaymentResponse
// @Router       /api/companies/{id}/payments [get]
func (h *PaymentHandler) List(c *fiber.Ctx) error {
	list, err := h.svc.List(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromPayments(list))
}

// Get godoc
// @Summary      Obtener pago
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID del pago"
// @Success      200  {object}  dto.PaymentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/payments/{id} [get]
func (h *PaymentHandler) Get(c *fiber.Ctx) error {
	p, err := h.svc.Get(c.UserContext(), c.Params("id"), scopeCompanyID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromPayment(p))
}

// MarkPaid godoc
// @Summary      Marcar pago como pagado (respaldo manual)
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string               true   "ID del pago"
// @Param        body  body  dto.MarkPaidRequest  false  "ID del pago en el proveedor"
// @Success      200   {object}  dto.PaymentResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/payments/{id}/mark-paid [post]
func (h *PaymentHandler) MarkPaid(c *fiber.Ctx) error {
	var in dto.MarkPaidRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	p, err := h.svc.MarkPaidManually(c.UserContext(), c.Params("id"), in.ProviderPaymentID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromPayment(p))
}

// Replay godoc
// @Summary      Reintentar confirmación de etapa y factura
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID del pago"
// @Success      200  {object}  dto.InvoiceResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/payments/{id}/replay [post]
func (h *PaymentHandler) Replay(c *fiber.Ctx) error {
	inv, err := h.svc.ReplayDownstream(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromInvoice(inv))
}
