package repository

import (
	"context"

	"github.com/jhoicas/l10n-ch-billing/internal/domain/entity"
)

// PaymentRepository puerto de persistencia de pagos. Usable con pool o dentro de una tx.
type PaymentRepository interface {
	// Create persiste el pago y sus vínculos con las facturas (payment.InvoiceIDs).
	Create(ctx context.Context, p *entity.Payment) error
	GetByID(ctx context.Context, id string) (*entity.Payment, error)
	ListByIDs(ctx context.Context, companyID string, ids []string) ([]*entity.Payment, error)
	// ListByCompany página de pagos de la empresa, los más recientes primero; state vacío = todos.
	// Devuelve además el total sin paginar.
	ListByCompany(ctx context.Context, companyID, state string, limit, offset int) ([]*entity.Payment, int, error)
	// MarkExported pasa los pagos a exported; domain.ErrConflict si alguno ya estaba exportado.
	MarkExported(ctx context.Context, ids []string) error
}
