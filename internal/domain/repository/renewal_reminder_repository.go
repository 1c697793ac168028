package repository

import (
	"context"

	"github.com/jhoicas/onboarding-api/internal/domain/entity"
)

// RenewalReminderRepository registro de recordatorios enviados (company, daysBefore).
type RenewalReminderRepository interface {
	Exists(ctx context.Context, companyID string, daysBefore int) (bool, error)
	// Create devuelve domain.ErrDuplicate si el par ya fue registrado.
	Create(ctx context.Context, reminder *entity.RenewalReminder) error
}
