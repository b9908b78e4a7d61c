package payment

import "strings"

// ComputeCommunication deriva el texto de comunicación del pago.
//
// Lote con referencia estructurada: devuelve esa única referencia (o ref, o el nombre del
// primer documento). Basta mirar el primer documento: la agrupación garantiza que todos
// comparten la referencia. En otro caso concatena con espacios payment_reference, ref o
// nombre de cada documento.
func ComputeCommunication(b PaymentBatch) string {
	first, ok := b.First()
	if !ok {
		return ""
	}
	if sr, isStructured := first.Reference.(StructuredReference); isStructured {
		return firstNonEmpty(sr.Value, first.Ref, first.Name)
	}
	parts := make([]string, 0, len(b.Documents))
	for _, d := range b.Documents {
		if c := firstNonEmpty(d.PaymentReference, d.Ref, d.Name); c != "" {
			parts = append(parts, c)
		}
	}
	return strings.Join(parts, " ")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
