package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/onboarding-api/internal/application/dto"
	"github.com/jhoicas/onboarding-api/pkg/ids"
)

// accessChecker es el contrato mínimo que necesita el middleware para verificar el alcance.
// Lo implementa *usecase.AccessService; el uso de interfaz evita el import circular.
type accessChecker interface {
	CanAccess(ctx context.Context, role, userCompanyID, companyID string) (bool, error)
}

// RequireCompanyAccess verifica que el usuario pueda operar sobre la empresa del path (:id).
// Debe usarse DESPUÉS de AuthMiddleware.
//
// Comportamiento:
//   - 404 Not Found → la empresa no existe o pertenece a otro cliente (no se revela cuál).
//   - 503 Service Unavailable → fallo de infraestructura al consultar la DB.
func RequireCompanyAccess(checker accessChecker, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyID := c.Params("id")
		if companyID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
		}
		ok, err := checker.CanAccess(c.UserContext(), GetRole(c), GetCompanyID(c), companyID)
		if err != nil {
			log.Error().Err(err).Str("company_id", companyID).Msg("no se pudo verificar el alcance")
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    "ACCESS_CHECK_FAILED",
				Message: "no se pudo verificar el acceso, intente más tarde",
			})
		}
		if !ok {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "empresa no encontrada"})
		}
		return c.Next()
	}
}

// RequireUUIDParam responde 404 si el parámetro no es un UUID; evita llevar
// identificadores malformados hasta las columnas uuid de PostgreSQL.
func RequireUUIDParam(name string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !ids.IsUUID(c.Params(name)) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
		}
		return c.Next()
	}
}
