package qrbill

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Cabecera y tipos de referencia del Swiss QR Code.
const (
	QRType        = "SPC"
	QRVersion     = "0200"
	QRCoding      = "1"
	AddressType   = "S" // dirección estructurada
	TrailerEPD    = "EPD"
	RefTypeQRR    = "QRR"
	RefTypeSCOR   = "SCOR"
	RefTypeNON    = "NON"
	maxMessageLen = 140
)

// Address dirección estructurada (tipo S).
type Address struct {
	Name           string
	Street         string
	BuildingNumber string
	Zip            string
	City           string
	Country        string
}

func (a Address) fields() []string {
	return []string{AddressType, a.Name, a.Street, a.BuildingNumber, a.Zip, a.City, a.Country}
}

// Bill datos de una QR-factura. Amount cero = importe abierto (lo completa el deudor).
type Bill struct {
	Account     string
	Creditor    Address
	Amount      decimal.Decimal
	Currency    string
	Debtor      *Address
	Reference   string
	Message     string
	BillingInfo string
}

// ReferenceType QRR, SCOR o NON según el formato de la referencia.
func (b Bill) ReferenceType() string {
	switch {
	case IsQRReference(b.Reference):
		return RefTypeQRR
	case IsCreditorReference(b.Reference):
		return RefTypeSCOR
	default:
		return RefTypeNON
	}
}

// BuildPayload arma el contenido del código QR: un campo por línea, separados por "\n".
func BuildPayload(b Bill) string {
	amount := ""
	if b.Amount.GreaterThan(decimal.Zero) {
		amount = b.Amount.StringFixed(2)
	}
	refType := b.ReferenceType()
	reference := ""
	if refType != RefTypeNON {
		reference = strings.ToUpper(Normalize(b.Reference))
	}

	fields := []string{QRType, QRVersion, QRCoding, strings.ToUpper(Normalize(b.Account))}
	fields = append(fields, b.Creditor.fields()...)
	// Acreedor final: reservado para uso futuro, siete campos vacíos.
	fields = append(fields, "", "", "", "", "", "", "")
	fields = append(fields, amount, b.Currency)
	if b.Debtor != nil {
		fields = append(fields, b.Debtor.fields()...)
	} else {
		fields = append(fields, "", "", "", "", "", "", "")
	}
	fields = append(fields, refType, reference, truncate(b.Message, maxMessageLen), TrailerEPD)
	if b.BillingInfo != "" {
		fields = append(fields, b.BillingInfo)
	}
	return strings.Join(fields, "\n")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
