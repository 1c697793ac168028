package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/onboarding-api/internal/application/dto"
	"github.com/jhoicas/onboarding-api/internal/application/renewal"
)

// RenewalHandler ejecución manual del lote de recordatorios.
type RenewalHandler struct {
	scheduler *renewal.Scheduler
}

func NewRenewalHandler(s *renewal.Scheduler) *RenewalHandler {
	return &RenewalHandler{scheduler: s}
}

// Run godoc
// @Summary      Ejecutar recordatorios de renovación
// @Description  Sin fecha usa el día actual (UTC). Repetir la corrida no reenvía correos.
// @Tags         renewals
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.RunRenewalsRequest  false  "Fecha YYYY-MM-DD"
// @Success      200   {object}  renewal.BatchReport
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/renewals/run [post]
func (h *RenewalHandler) Run(c *fiber.Ctx) error {
	var in dto.RunRenewalsRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	var (
		rep *renewal.BatchReport
		err error
	)
	if in.Date == "" {
		rep, err = h.scheduler.RunToday(c.UserContext())
	} else {
		day, perr := time.Parse(time.DateOnly, in.Date)
		if perr != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "date debe tener formato YYYY-MM-DD"})
		}
		rep, err = h.scheduler.RunDaily(c.UserContext(), day)
	}
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(rep)
}
