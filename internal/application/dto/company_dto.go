package dto

import "time"

// CreateCompanyRequest entrada para crear una empresa.
type CreateCompanyRequest struct {
	Name         string `json:"name" validate:"required,min=1,max=200"`
	UID          string `json:"uid" validate:"omitempty,max=20"` // CHE-123.456.789
	Street       string `json:"street"`
	Zip          string `json:"zip"`
	City         string `json:"city"`
	CountryCode  string `json:"country_code" validate:"omitempty,len=2"`
	CurrencyCode string `json:"currency_code" validate:"omitempty,len=3"`
	Phone        string `json:"phone"`
	Email        string `json:"email" validate:"omitempty,email"`
}

// CompanyResponse salida de una empresa (sin datos sensibles).
type CompanyResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	UID          string    `json:"uid"`
	Street       string    `json:"street"`
	Zip          string    `json:"zip"`
	City         string    `json:"city"`
	CountryCode  string    `json:"country_code"`
	CurrencyCode string    `json:"currency_code"`
	Phone        string    `json:"phone"`
	Email        string    `json:"email"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CompanyListResponse lista paginada de empresas.
type CompanyListResponse struct {
	Items []CompanyResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// SetModuleRequest body para PUT /api/company/modules/:module.
type SetModuleRequest struct {
	Active    bool   `json:"active"`
	ExpiresAt string `json:"expires_at,omitempty"` // YYYY-MM-DD; vacío = sin vencimiento
}

// ModuleResponse estado de un módulo de localización.
type ModuleResponse struct {
	ModuleName  string     `json:"module_name"`
	IsActive    bool       `json:"is_active"`
	ActivatedAt time.Time  `json:"activated_at"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}
