package entity

import "time"

// Company representa la empresa emisora (multi-tenant, localización Suiza).
type Company struct {
	ID           string
	Name         string
	UID          string // Número IDE/UID suizo (CHE-123.456.789)
	Street       string
	Zip          string
	City         string
	CountryCode  string // ISO 3166-1 alfa-2; "CH" habilita QR-bill
	CurrencyCode string // moneda base de la contabilidad (CHF)
	Phone        string
	Email        string
	Status       string // active, suspended, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Módulos de localización disponibles (deben coincidir con el CHECK de la tabla company_modules).
const (
	ModuleISRPaymentGrouping = "isr_payment_grouping"
	ModuleInvoiceReports     = "invoice_reports"
	ModuleFollowupReportQR   = "followup_report_qr"
)

// CompanyModule representa la activación de un módulo en una empresa.
type CompanyModule struct {
	ID          string
	CompanyID   string
	ModuleName  string // ver constantes Module*
	IsActive    bool
	ActivatedAt time.Time
	ExpiresAt   *time.Time // nil = sin vencimiento
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
