package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterPaymentsRequest body para POST /api/payments/preview y /api/payments.
// Selección: InvoiceIDs, o todas las partidas abiertas de PartnerID si InvoiceIDs va vacío.
type RegisterPaymentsRequest struct {
	InvoiceIDs    []string `json:"invoice_ids"`
	PartnerID     string   `json:"partner_id,omitempty"`
	JournalID     string   `json:"journal_id"`
	PaymentMethod string   `json:"payment_method,omitempty"` // por defecto el de configuración
	PaymentDate   string   `json:"payment_date,omitempty"`   // YYYY-MM-DD; vacío = hoy
	GroupPayment  *bool    `json:"group_payment,omitempty"`  // nil = valor por defecto de la empresa
	Currency      string   `json:"currency,omitempty"`       // moneda de liquidación; vacío = la del primer documento
}

// PaymentValues valores de un pago propuesto (un lote de facturas).
type PaymentValues struct {
	JournalID            string          `json:"journal_id"`
	PaymentMethod        string          `json:"payment_method"`
	PaymentDate          string          `json:"payment_date"`
	Communication        string          `json:"communication"`
	InvoiceIDs           []string        `json:"invoice_ids"`
	PaymentType          string          `json:"payment_type"` // inbound | outbound
	Amount               decimal.Decimal `json:"amount"`
	Currency             string          `json:"currency"`
	PartnerID            string          `json:"partner_id"`
	PartnerType          string          `json:"partner_type"` // customer | supplier
	PartnerBankAccountID string          `json:"partner_bank_account_id,omitempty"`
}

// PaymentResponse pago persistido.
type PaymentResponse struct {
	ID        string        `json:"id"`
	CompanyID string        `json:"company_id"`
	State     string        `json:"state"`
	CreatedAt time.Time     `json:"created_at"`
	Values    PaymentValues `json:"values"`
}

// PaymentSummary pago registrado en el listado de GET /api/payments.
type PaymentSummary struct {
	ID            string          `json:"id"`
	JournalID     string          `json:"journal_id"`
	PaymentDate   string          `json:"payment_date"`
	PaymentType   string          `json:"payment_type"`
	PartnerID     string          `json:"partner_id"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	Communication string          `json:"communication"`
	InvoiceIDs    []string        `json:"invoice_ids"`
	State         string          `json:"state"` // posted | exported
}

// PaymentListResponse página de pagos.
type PaymentListResponse struct {
	Items []PaymentSummary `json:"items"`
	Page  PageResponse     `json:"page"`
}

// ExportPaymentsRequest body para POST /api/payments/export.
type ExportPaymentsRequest struct {
	PaymentIDs []string `json:"payment_ids"`
}

// ExportPaymentsResponse mensaje pain.001 generado y su huella C14N.
type ExportPaymentsResponse struct {
	MessageID string `json:"message_id"`
	Digest    string `json:"digest"` // SHA-256 hex del XML canonicalizado
	Payments  int    `json:"payments"`
	XML       string `json:"xml"`
}
