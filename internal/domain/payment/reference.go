package payment

import (
	"strings"

	"github.com/jhoicas/l10n-ch-billing/internal/domain/entity"
	"github.com/jhoicas/l10n-ch-billing/internal/domain/qrbill"
)

// Reference es la variante que decide cómo se agrupa una línea:
// StructuredReference (referencia QR/ISR del proveedor) o PlainReference.
type Reference interface {
	isReference()
}

// StructuredReference referencia numérica estructurada; debe quedar 1:1 con un único pago
// para que el banco no la marque como duplicada.
type StructuredReference struct {
	Value string
}

// PlainReference documento sin referencia estructurada: se agrupa por rol del partner.
type PlainReference struct{}

func (StructuredReference) isReference() {}
func (PlainReference) isReference()      {}

// ClassifyReference devuelve StructuredReference si el documento es una factura de proveedor
// con referencia ISR/QR válida (payment_reference, y si falta, ref).
func ClassifyReference(moveType entity.MoveType, paymentReference, ref string) Reference {
	if moveType != entity.MoveTypeInInvoice {
		return PlainReference{}
	}
	value := paymentReference
	if strings.TrimSpace(value) == "" {
		value = ref
	}
	if !qrbill.IsISRReference(value) {
		return PlainReference{}
	}
	return StructuredReference{Value: value}
}
