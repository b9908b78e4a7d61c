package repository

import (
	"context"

	"github.com/jhoicas/l10n-ch-billing/internal/domain/entity"
)

// OpenLineFilter selecciona las partidas abiertas a pagar.
// Se usa InvoiceIDs si viene informado; si no, todas las partidas abiertas de PartnerID.
type OpenLineFilter struct {
	CompanyID  string
	InvoiceIDs []string
	PartnerID  string
}

// InvoiceRepository puerto de lectura de facturas y de sus partidas abiertas.
type InvoiceRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	ListByIDs(ctx context.Context, ids []string) ([]*entity.Invoice, error)

	// FetchOpenLines devuelve las líneas de cobrar/pagar con residual distinto de cero de
	// facturas publicadas sin pago en curso, ordenadas por fecha de factura, nombre e ID de línea.
	FetchOpenLines(ctx context.Context, filter OpenLineFilter) ([]*entity.OpenLine, error)

	// ListUnreconciledByPartner facturas de cliente publicadas de la empresa con saldo pendiente
	// del partner comercial, en orden de vencimiento.
	ListUnreconciledByPartner(ctx context.Context, companyID, commercialPartnerID string) ([]*entity.Invoice, error)

	// MarkInPayment pasa las facturas a in_payment. Devuelve domain.ErrConflict si alguna ya
	// tenía un pago en curso o estaba pagada.
	MarkInPayment(ctx context.Context, ids []string) error
}
