package entity

import "time"

// Company representa una empresa cliente en proceso de onboarding (raíz del agregado).
// Stage y ActivationDate solo se modifican a través del coordinador de onboarding;
// ActivationDate != nil si y solo si Stage == StageActive.
type Company struct {
	ID             string
	Name           string
	LegalName      string
	GSTIN          string // GSTIN de 15 caracteres; los dos primeros dígitos son el código de estado
	StateCode      string // código de estado GST (ej: "29" Karnataka); define CGST+SGST vs IGST
	Email          string
	Phone          string
	Address        string
	Stage          Stage
	ActivationDate *time.Time
	RenewalDate    *time.Time // fecha (sin hora) de renovación del contrato
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsActive informa si la empresa completó el onboarding.
func (c *Company) IsActive() bool {
	return c != nil && c.Stage == StageActive
}
