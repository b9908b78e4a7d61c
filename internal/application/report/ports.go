package report

import (
	"context"
	"time"

	"github.com/jhoicas/l10n-ch-billing/internal/domain/entity"
	"github.com/jhoicas/l10n-ch-billing/internal/domain/qrbill"
)

// InvoiceDocument datos de una factura para el PDF. Bill es nil si la factura no tiene QR válido.
type InvoiceDocument struct {
	Invoice *entity.Invoice
	Company *entity.Company
	Partner *entity.Partner
	Bill    *qrbill.Bill
}

// FollowupDocument datos de la carta de recordatorio de un partner.
type FollowupDocument struct {
	Company  *entity.Company
	Partner  *entity.Partner
	Invoices []*entity.Invoice
	Date     time.Time
}

// PDFGenerator genera los PDF de cada reporte.
type PDFGenerator interface {
	InvoiceWithPayslip(ctx context.Context, doc InvoiceDocument) ([]byte, error)
	QRSlip(ctx context.Context, doc InvoiceDocument) ([]byte, error)
	FollowupLetter(ctx context.Context, doc FollowupDocument) ([]byte, error)
}

// PDFMerger concatena las páginas de varios PDF en el orden recibido.
type PDFMerger interface {
	Merge(docs ...[]byte) ([]byte, error)
}

// ModuleChecker contrato mínimo para consultar módulos activos (lo implementa usecase.ModuleService).
type ModuleChecker interface {
	HasActiveModule(ctx context.Context, companyID, moduleName string) (bool, error)
}
