package payment

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/l10n-ch-billing/internal/domain/entity"
)

// InvoiceLine partida abierta de un documento, tal como la consume el agrupador.
// Residual va en moneda base; ResidualCurrency en la moneda del documento. Ambos con signo.
type InvoiceLine struct {
	ID                  string
	DocumentID          string
	DocumentName        string
	DocumentRef         string
	PaymentReference    string
	DocumentType        entity.MoveType
	PartnerID           string
	CommercialPartnerID string
	CurrencyCode        string
	BankAccountID       string
	AccountType         string
	Residual            decimal.Decimal
	ResidualCurrency    decimal.Decimal
	Reference           Reference
}

// FromOpenLine construye la línea a partir de la instantánea del repositorio
// y clasifica su referencia.
func FromOpenLine(ol *entity.OpenLine) InvoiceLine {
	return InvoiceLine{
		ID:                  ol.ID,
		DocumentID:          ol.InvoiceID,
		DocumentName:        ol.InvoiceName,
		DocumentRef:         ol.InvoiceRef,
		PaymentReference:    ol.PaymentReference,
		DocumentType:        ol.MoveType,
		PartnerID:           ol.PartnerID,
		CommercialPartnerID: ol.CommercialPartnerID,
		CurrencyCode:        ol.CurrencyCode,
		BankAccountID:       ol.PartnerBankID,
		AccountType:         ol.AccountType,
		Residual:            ol.AmountResidual,
		ResidualCurrency:    ol.AmountResidualCurrency,
		Reference:           ClassifyReference(ol.MoveType, ol.PaymentReference, ol.InvoiceRef),
	}
}

// FromOpenLines aplica FromOpenLine conservando el orden.
func FromOpenLines(lines []*entity.OpenLine) []InvoiceLine {
	out := make([]InvoiceLine, 0, len(lines))
	for _, ol := range lines {
		if ol == nil {
			continue
		}
		out = append(out, FromOpenLine(ol))
	}
	return out
}

// Document documento (factura) dentro de un lote, con sus líneas en orden de llegada.
type Document struct {
	ID                  string
	Name                string
	Ref                 string
	PaymentReference    string
	Type                entity.MoveType
	PartnerID           string
	CommercialPartnerID string
	CurrencyCode        string
	BankAccountID       string
	Reference           Reference
	Lines               []InvoiceLine
}

func newDocument(l InvoiceLine) Document {
	ref := l.Reference
	if ref == nil {
		ref = PlainReference{}
	}
	return Document{
		ID:                  l.DocumentID,
		Name:                l.DocumentName,
		Ref:                 l.DocumentRef,
		PaymentReference:    l.PaymentReference,
		Type:                l.DocumentType,
		PartnerID:           l.PartnerID,
		CommercialPartnerID: l.CommercialPartnerID,
		CurrencyCode:        l.CurrencyCode,
		BankAccountID:       l.BankAccountID,
		Reference:           ref,
	}
}

// residuals suma los residuales de las líneas de cobrar/pagar del documento.
func (d Document) residuals() (base, inCurrency decimal.Decimal) {
	base, inCurrency = decimal.Zero, decimal.Zero
	for _, l := range d.Lines {
		if l.AccountType != entity.AccountTypeReceivable && l.AccountType != entity.AccountTypePayable {
			continue
		}
		base = base.Add(l.Residual)
		inCurrency = inCurrency.Add(l.ResidualCurrency)
	}
	return base, inCurrency
}
