package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MoveType tipo contable del documento (account.move.move_type).
type MoveType string

// Tipos de documento soportados.
const (
	MoveTypeOutInvoice MoveType = "out_invoice"
	MoveTypeOutRefund  MoveType = "out_refund"
	MoveTypeOutReceipt MoveType = "out_receipt"
	MoveTypeInInvoice  MoveType = "in_invoice"
	MoveTypeInRefund   MoveType = "in_refund"
	MoveTypeInReceipt  MoveType = "in_receipt"
)

// Estados de pago de la factura.
const (
	PaymentStateNotPaid = "not_paid"
	PaymentStatePartial = "partial"
	PaymentStateInPay   = "in_payment" // pago registrado, pendiente de conciliar
	PaymentStatePaid    = "paid"
)

// Invoice representa la cabecera de un documento de factura (cliente o proveedor).
type Invoice struct {
	ID                  string
	CompanyID           string
	PartnerID           string
	CommercialPartnerID string
	Name                string // INV/2024/0001
	Ref                 string // referencia libre (número del proveedor)
	PaymentReference    string // referencia estructurada QR/ISR si existe
	MoveType            MoveType
	CurrencyCode        string
	PartnerBankID       string // cuenta destino del pago
	State               string // draft, posted, cancel
	PaymentState        string
	InvoiceDate         time.Time
	DueDate             time.Time
	AmountTotal         decimal.Decimal
	AmountResidual      decimal.Decimal // en moneda del documento
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// IsSupplierInvoice informa si el documento es una factura de proveedor.
func (i *Invoice) IsSupplierInvoice() bool {
	return i.MoveType == MoveTypeInInvoice
}
