package http

import (
	"bytes"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/onboarding-api/internal/application/compliance"
	"github.com/jhoicas/onboarding-api/internal/application/dto"
	"github.com/jhoicas/onboarding-api/internal/domain/entity"
)

// ComplianceHandler estado de cumplimiento y administración de requisitos.
type ComplianceHandler struct {
	eval *compliance.Evaluator
}

func NewComplianceHandler(eval *compliance.Evaluator) *ComplianceHandler {
	return &ComplianceHandler{eval: eval}
}

// Status godoc
// @Summary      Estado de cumplimiento de la empresa
// @Tags         compliance
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID de la empresa"
// @Success      200  {object}  compliance.Status
// @Router       /api/companies/{id}/compliance [get]
func (h *ComplianceHandler) Status(c *fiber.Ctx) error {
	st, err := h.eval.Evaluate(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(st)
}

// ListRequirements godoc
// @Summary      Listar requisitos de cumplimiento
// @Tags         compliance
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  dto.RequirementResponse
// @Router       /api/compliance/requirements [get]
func (h *ComplianceHandler) ListRequirements(c *fiber.Ctx) error {
	list, err := h.eval.ListRequirements(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.RequirementResponse, 0, len(list))
	for _, r := range list {
		out = append(out, dto.FromRequirement(r))
	}
	return c.JSON(out)
}

// CreateRequirement godoc
// @Summary      Agregar requisito de cumplimiento
// @Tags         compliance
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CreateRequirementRequest  true  "Tipo de documento"
// @Success      201   {object}  dto.RequirementResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/compliance/requirements [post]
func (h *ComplianceHandler) CreateRequirement(c *fiber.Ctx) error {
	var in dto.CreateRequirementRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	req, err := h.eval.AddRequirement(c.UserContext(), entity.DocumentType(in.DocumentType), in.Description)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromRequirement(req))
}

// DeleteRequirement godoc
// @Summary      Quitar requisito de cumplimiento
// @Tags         compliance
// @Security     BearerAuth
// @Param        id   path  string  true  "ID del requisito"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/compliance/requirements/{id} [delete]
func (h *ComplianceHandler) DeleteRequirement(c *fiber.Ctx) error {
	if err := h.eval.RemoveRequirement(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ImportRequirements godoc
// @Summary      Importar requisitos desde CSV
// @Description  Cuerpo text/csv "document_type,description"; encoding=latin1 para ISO-8859-1.
// @Tags         compliance
// @Accept       plain
// @Produce      json
// @Security     BearerAuth
// @Param        encoding  query  string  false  "utf8 | latin1"
// @Success      200  {object}  compliance.ImportReport
// @Router       /api/compliance/requirements/import [post]
func (h *ComplianceHandler) ImportRequirements(c *fiber.Ctx) error {
	body := c.Body()
	if len(bytes.TrimSpace(body)) == 0 {
		return badBody(c)
	}
	rep, err := h.eval.ImportRequirements(c.UserContext(), bytes.NewReader(body), strings.TrimSpace(c.Query("encoding")))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(rep)
}
