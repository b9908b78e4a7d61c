package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de pago (dirección del dinero).
const (
	PaymentTypeInbound  = "inbound"
	PaymentTypeOutbound = "outbound"
)

// Tipos de partner de un pago.
const (
	PartnerTypeCustomer = "customer"
	PartnerTypeSupplier = "supplier"
)

// Estados del pago.
const (
	PaymentStateDraft    = "draft"
	PaymentStatePosted   = "posted"
	PaymentStateExported = "exported"
)

// Payment representa un pago registrado para una o varias facturas.
type Payment struct {
	ID            string
	CompanyID     string
	JournalID     string
	PaymentMethod string // manual, sepa_ct
	PaymentDate   time.Time
	Communication string
	PaymentType   string
	PartnerType   string
	Amount        decimal.Decimal // siempre positivo; la dirección va en PaymentType
	CurrencyCode  string
	PartnerID     string
	PartnerBankID string
	InvoiceIDs    []string
	State         string
	CreatedBy     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
