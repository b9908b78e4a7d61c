// Package payment agrupa partidas abiertas en lotes de pago y calcula la comunicación
// y el importe neto de cada lote (servicio de dominio puro, sin persistencia).
package payment

import (
	"fmt"

	"github.com/jhoicas/l10n-ch-billing/internal/domain/entity"
	"github.com/jhoicas/l10n-ch-billing/internal/domain/qrbill"
)

var partnerTypeByMoveType = map[entity.MoveType]string{
	entity.MoveTypeOutInvoice: entity.PartnerTypeCustomer,
	entity.MoveTypeOutRefund:  entity.PartnerTypeCustomer,
	entity.MoveTypeOutReceipt: entity.PartnerTypeCustomer,
	entity.MoveTypeInInvoice:  entity.PartnerTypeSupplier,
	entity.MoveTypeInRefund:   entity.PartnerTypeSupplier,
	entity.MoveTypeInReceipt:  entity.PartnerTypeSupplier,
}

// PartnerTypeOf devuelve "customer" o "supplier" según el tipo de documento.
func PartnerTypeOf(t entity.MoveType) (string, error) {
	pt, ok := partnerTypeByMoveType[t]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedDocumentType, t)
	}
	return pt, nil
}

// GroupKey clave compuesta de agrupación. Exactamente uno de Reference o PartnerType
// viene informado (discriminador).
type GroupKey struct {
	CommercialPartnerID string
	CurrencyCode        string
	BankAccountID       string
	Reference           string
	PartnerType         string
}

// KeyOf calcula la clave de agrupación de una línea. La referencia estructurada entra sin
// espacios: la misma referencia escrita en bloques o seguida da un único lote.
func KeyOf(l InvoiceLine) (GroupKey, error) {
	key := GroupKey{
		CommercialPartnerID: l.CommercialPartnerID,
		CurrencyCode:        l.CurrencyCode,
		BankAccountID:       l.BankAccountID,
	}
	switch ref := l.Reference.(type) {
	case StructuredReference:
		key.Reference = qrbill.Normalize(ref.Value)
		return key, nil
	case PlainReference, nil:
		pt, err := PartnerTypeOf(l.DocumentType)
		if err != nil {
			return GroupKey{}, err
		}
		key.PartnerType = pt
		return key, nil
	default:
		return GroupKey{}, fmt.Errorf("payment: variante de referencia desconocida %T", ref)
	}
}

// PaymentBatch lote de documentos que se pagan con un único pago.
// Documents conserva el orden de descubrimiento.
type PaymentBatch struct {
	Key       GroupKey
	Documents []Document
}

// DocumentIDs IDs de los documentos del lote, en orden.
func (b PaymentBatch) DocumentIDs() []string {
	ids := make([]string, len(b.Documents))
	for i, d := range b.Documents {
		ids[i] = d.ID
	}
	return ids
}

// Lines todas las líneas del lote, documento por documento.
func (b PaymentBatch) Lines() []InvoiceLine {
	var out []InvoiceLine
	for _, d := range b.Documents {
		out = append(out, d.Lines...)
	}
	return out
}

// First primer documento del lote; ok=false si el lote está vacío.
func (b PaymentBatch) First() (Document, bool) {
	if len(b.Documents) == 0 {
		return Document{}, false
	}
	return b.Documents[0], true
}

type batchBuilder struct {
	batch  PaymentBatch
	docIdx map[string]int
}

func (bb *batchBuilder) add(l InvoiceLine) {
	i, ok := bb.docIdx[l.DocumentID]
	if !ok {
		i = len(bb.batch.Documents)
		bb.docIdx[l.DocumentID] = i
		bb.batch.Documents = append(bb.batch.Documents, newDocument(l))
	}
	bb.batch.Documents[i].Lines = append(bb.batch.Documents[i].Lines, l)
}

// GroupInvoices reparte las líneas en lotes de pago.
//
// Con groupingEnabled cada clave distinta produce un lote (orden de primera aparición);
// sin agrupación cada documento produce su propio lote, aunque tenga varias líneas.
// Toda línea aparece en exactamente un lote y ningún lote queda vacío.
// Un tipo de documento desconocido devuelve ErrUnsupportedDocumentType.
func GroupInvoices(lines []InvoiceLine, groupingEnabled bool) ([]PaymentBatch, error) {
	if len(lines) == 0 {
		return nil, nil
	}
	var builders []*batchBuilder
	byKey := make(map[GroupKey]*batchBuilder)
	byDocument := make(map[string]*batchBuilder)

	for _, l := range lines {
		if _, err := PartnerTypeOf(l.DocumentType); err != nil {
			return nil, fmt.Errorf("documento %s: %w", l.DocumentName, err)
		}
		key, err := KeyOf(l)
		if err != nil {
			return nil, fmt.Errorf("documento %s: %w", l.DocumentName, err)
		}

		var bb *batchBuilder
		if groupingEnabled {
			bb = byKey[key]
		} else {
			bb = byDocument[l.DocumentID]
		}
		if bb == nil {
			bb = &batchBuilder{batch: PaymentBatch{Key: key}, docIdx: make(map[string]int)}
			builders = append(builders, bb)
			if groupingEnabled {
				byKey[key] = bb
			} else {
				byDocument[l.DocumentID] = bb
			}
		}
		bb.add(l)
	}

	out := make([]PaymentBatch, len(builders))
	for i, bb := range builders {
		out[i] = bb.batch
	}
	return out, nil
}
