package dto

import "time"

// CreateRequirementRequest alta de un tipo de documento requerido.
type CreateRequirementRequest struct {
	DocumentType string `json:"document_type" validate:"required"`
	Description  string `json:"description"`
}

// RequirementResponse salida de un requisito.
type RequirementResponse struct {
	ID           string    `json:"id"`
	DocumentType string    `json:"document_type"`
	Description  string    `json:"description"`
	CreatedAt    time.Time `json:"created_at"`
}

// RunRenewalsRequest fecha opcional (YYYY-MM-DD) para la corrida manual.
type RunRenewalsRequest struct {
	Date string `json:"date"`
}
