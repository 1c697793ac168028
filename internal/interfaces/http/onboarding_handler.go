package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/onboarding-api/internal/application/documents"
	"github.com/jhoicas/onboarding-api/internal/application/dto"
	"github.com/jhoicas/onboarding-api/internal/application/onboarding"
	graph "github.com/jhoicas/onboarding-api/internal/domain/onboarding"
)

// OnboardingHandler acciones administrativas sobre la etapa de la empresa.
type OnboardingHandler struct {
	coord      *onboarding.Coordinator
	activation *onboarding.ActivationService
	documents  *documents.Service
}

func NewOnboardingHandler(coord *onboarding.Coordinator, activation *onboarding.ActivationService, docs *documents.Service) *OnboardingHandler {
	return &OnboardingHandler{coord: coord, activation: activation, documents: docs}
}

// Advance godoc
// @Summary      Avanzar la etapa manualmente
// @Description  Valida la transición contra el grafo de etapas. ACTIVE solo vía /activation.
// @Tags         onboarding
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                   true  "ID de la empresa"
// @Param        body  body  dto.AdvanceStageRequest  true  "Etapa destino"
// @Success      200   {object}  dto.CompanyResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/companies/{id}/stage [post]
func (h *OnboardingHandler) Advance(c *fiber.Ctx) error {
	var in dto.AdvanceStageRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	target, err := graph.ParseStage(in.Stage)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	company, err := h.coord.Advance(c.UserContext(), c.Params("id"), target)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromCompany(company))
}

// Eligibility godoc
// @Summary      Elegibilidad de activación
// @Tags         onboarding
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID de la empresa"
// @Success      200  {object}  dto.ActivationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/companies/{id}/activation [get]
func (h *OnboardingHandler) Eligibility(c *fiber.Ctx) error {
	id := c.Params("id")
	el, err := h.activation.CanActivateCompany(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ActivationResponse{CompanyID: id, Eligible: el.Eligible, Reasons: el.Reasons})
}

// Activate godoc
// @Summary      Activar empresa
// @Tags         onboarding
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID de la empresa"
// @Success      200  {object}  dto.CompanyResponse
// @Failure      400  {object}  dto.ErrorResponse  "ACTIVATION_NOT_ALLOWED con reasons"
// @Router       /api/companies/{id}/activation [post]
func (h *OnboardingHandler) Activate(c *fiber.Ctx) error {
	company, err := h.activation.Activate(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromCompany(company))
}

// Reject godoc
// @Summary      Rechazar el onboarding
// @Tags         onboarding
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID de la empresa"
// @Success      200  {object}  dto.CompanyResponse
// @Router       /api/companies/{id}/reject [post]
func (h *OnboardingHandler) Reject(c *fiber.Ctx) error {
	company, err := h.coord.RejectOnboarding(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromCompany(company))
}

// Reopen godoc
// @Summary      Reabrir un onboarding rechazado
// @Tags         onboarding
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID de la empresa"
// @Success      200  {object}  dto.CompanyResponse
// @Router       /api/companies/{id}/reopen [post]
func (h *OnboardingHandler) Reopen(c *fiber.Ctx) error {
	company, err := h.coord.ReopenOnboarding(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromCompany(company))
}

// CompleteKyc godoc
// @Summary      Cerrar la revisión KYC
// @Description  Exige que la empresa cumpla los requisitos de cumplimiento vigentes.
// @Tags         onboarding
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID de la empresa"
// @Success      200  {object}  dto.CompanyResponse
// @Router       /api/companies/{id}/kyc/complete [post]
func (h *OnboardingHandler) CompleteKyc(c *fiber.Ctx) error {
	company, err := h.documents.CompleteKycReview(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromCompany(company))
}
