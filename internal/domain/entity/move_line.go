package entity

import "github.com/shopspring/decimal"

// Tipos de cuenta que generan partidas abiertas.
const (
	AccountTypeReceivable = "receivable"
	AccountTypePayable    = "payable"
)

// OpenLine es una partida abierta (cuenta por cobrar/pagar) con los datos de su documento.
// Es una instantánea de solo lectura; los importes residuales vienen con signo contable
// (cobrar positivo, pagar negativo).
type OpenLine struct {
	ID                     string
	InvoiceID              string
	InvoiceName            string
	InvoiceRef             string
	PaymentReference       string
	MoveType               MoveType
	PartnerID              string
	CommercialPartnerID    string
	CurrencyCode           string
	PartnerBankID          string
	AccountType            string
	AmountResidual         decimal.Decimal // moneda base de la empresa
	AmountResidualCurrency decimal.Decimal // moneda del documento
}
