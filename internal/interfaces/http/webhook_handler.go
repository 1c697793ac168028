package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/onboarding-api/internal/application/dto"
	"github.com/jhoicas/onboarding-api/internal/application/payments"
	"github.com/jhoicas/onboarding-api/internal/domain"
)

// WebhookHandler recibe las notificaciones del proveedor de pagos (público).
type WebhookHandler struct {
	svc *payments.Service
	log zerolog.Logger
}

func NewWebhookHandler(svc *payments.Service, log zerolog.Logger) *WebhookHandler {
	return &WebhookHandler{svc: svc, log: log}
}

// Payments godoc
// @Summary      Webhook del proveedor de pagos
// @Description  La firma se verifica sobre el cuerpo crudo. 401 solo ante firma inválida;
// @Description  eventos ignorados, repetidos o sin pago asociado responden 200.
// @Tags         webhooks
// @Accept       json
// @Produce      json
// @Success      200  {object}  payments.WebhookResult
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/webhooks/payments [post]
func (h *WebhookHandler) Payments(c *fiber.Ctx) error {
	raw := append([]byte(nil), c.Body()...)
	signature := c.Get(h.svc.SignatureHeader())
	res, err := h.svc.Process(c.UserContext(), raw, signature)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidSignature) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_SIGNATURE", Message: "firma inválida"})
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: err.Error()})
		}
		// 500 para que el proveedor reintente la entrega
		h.log.Error().Err(err).Msg("webhook de pago falló")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error procesando el webhook"})
	}
	return c.JSON(res)
}
