package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/onboarding-api/internal/application/dto"
	"github.com/jhoicas/onboarding-api/internal/application/onboarding"
	"github.com/jhoicas/onboarding-api/internal/domain"
)

type errorMapping struct {
	target error
	status int
	code   string
}

// Orden relevante: los errores del flujo van antes que los genéricos.
var errorMappings = []errorMapping{
	{domain.ErrInvalidSignature, fiber.StatusUnauthorized, "INVALID_SIGNATURE"},
	{domain.ErrInvalidTransition, fiber.StatusBadRequest, "INVALID_TRANSITION"},
	{domain.ErrStageMismatch, fiber.StatusBadRequest, "STAGE_MISMATCH"},
	{domain.ErrOnboardingLocked, fiber.StatusBadRequest, "ONBOARDING_LOCKED"},
	{domain.ErrActivationNotAllowed, fiber.StatusBadRequest, "ACTIVATION_NOT_ALLOWED"},
	{domain.ErrReviewReasonRequired, fiber.StatusBadRequest, "REVIEW_REASON_REQUIRED"},
	{domain.ErrInvalidReviewTarget, fiber.StatusBadRequest, "INVALID_REVIEW_TARGET"},
	{domain.ErrComplianceIncomplete, fiber.StatusBadRequest, "COMPLIANCE_INCOMPLETE"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrUserNotFound, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{domain.ErrEmailAlreadyExists, fiber.StatusConflict, "EMAIL_EXISTS"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
}

// writeError traduce un error de dominio a respuesta JSON. Lo no reconocido se
// registra y responde 500 sin detalle.
func writeError(c *fiber.Ctx, err error) error {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return c.Status(m.status).JSON(dto.ErrorResponse{
				Code:    m.code,
				Message: err.Error(),
				Reasons: onboarding.ActivationReasons(err),
			})
		}
	}
	zerolog.Ctx(c.UserContext()).Error().Err(err).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Msg("error interno")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}

// contextLogger deja el logger en el contexto de la petición para writeError.
func contextLogger(log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.SetUserContext(log.WithContext(c.UserContext()))
		return c.Next()
	}
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

func pageParams(c *fiber.Ctx) (int, int) {
	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
