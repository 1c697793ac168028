package dto

import "time"

// CreateCompanyRequest entrada para crear una empresa (nace en ADMIN_CREATED).
type CreateCompanyRequest struct {
	Name      string `json:"name" validate:"required,min=1,max=200"`
	LegalName string `json:"legal_name" validate:"omitempty,max=200"`
	GSTIN     string `json:"gstin" validate:"omitempty,len=15"`
	StateCode string `json:"state_code" validate:"omitempty,len=2"`
	Address   string `json:"address"`
	Phone     string `json:"phone"`
	Email     string `json:"email" validate:"required,email"`
}

// UpdateCompanyRequest entrada para actualizar una empresa (campos opcionales).
// La etapa no se modifica por aquí.
type UpdateCompanyRequest struct {
	Name      *string `json:"name" validate:"omitempty,min=1,max=200"`
	LegalName *string `json:"legal_name"`
	GSTIN     *string `json:"gstin" validate:"omitempty,len=15"`
	StateCode *string `json:"state_code" validate:"omitempty,len=2"`
	Address   *string `json:"address"`
	Phone     *string `json:"phone"`
	Email     *string `json:"email" validate:"omitempty,email"`
}

// CompanyResponse salida de una empresa.
type CompanyResponse struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	LegalName      string     `json:"legal_name,omitempty"`
	GSTIN          string     `json:"gstin,omitempty"`
	StateCode      string     `json:"state_code,omitempty"`
	Address        string     `json:"address"`
	Phone          string     `json:"phone"`
	Email          string     `json:"email"`
	Stage          string     `json:"stage"`
	ActivationDate *time.Time `json:"activation_date,omitempty"`
	RenewalDate    *time.Time `json:"renewal_date,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// CompanyListResponse lista paginada de empresas.
type CompanyListResponse struct {
	Items []CompanyResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// AdvanceStageRequest avance administrativo a una etapa concreta.
type AdvanceStageRequest struct {
	Stage string `json:"stage" validate:"required"`
}

// ActivationResponse elegibilidad de activación.
type ActivationResponse struct {
	CompanyID string   `json:"company_id"`
	Eligible  bool     `json:"eligible"`
	Reasons   []string `json:"reasons"`
}
