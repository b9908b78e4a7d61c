package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/l10n-ch-billing/internal/domain/entity"
	"github.com/jhoicas/l10n-ch-billing/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

const invoiceColumns = `i.id, i.company_id, i.partner_id, i.commercial_partner_id, i.name, COALESCE(i.ref, ''),
	COALESCE(i.payment_reference, ''), i.move_type, i.currency_code, COALESCE(i.partner_bank_id::text, ''),
	i.state, i.payment_state, i.invoice_date, i.due_date, i.amount_total, i.amount_residual,
	i.created_at, i.updated_at`

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

// GetByID obtiene la cabecera de una factura.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	inv, err := scanInvoice(r.q.QueryRow(ctx, `SELECT `+invoiceColumns+` FROM invoices i WHERE i.id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

// ListByIDs devuelve las facturas encontradas; los IDs inexistentes se omiten.
func (r *InvoiceRepo) ListByIDs(ctx context.Context, ids []string) ([]*entity.Invoice, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `SELECT ` + invoiceColumns + ` FROM invoices i WHERE i.id = ANY($1::uuid[]) ORDER BY i.invoice_date, i.name`
	return r.queryInvoices(ctx, query, ids)
}

// FetchOpenLines lee las partidas abiertas de cobrar/pagar.
// Quedan fuera las facturas no publicadas y las que ya tienen un pago registrado.
func (r *InvoiceRepo) FetchOpenLines(ctx context.Context, f repository.OpenLineFilter) ([]*entity.OpenLine, error) {
	query := `
		SELECT l.id, i.id, i.name, COALESCE(i.ref, ''), COALESCE(i.payment_reference, ''), i.move_type,
		       i.partner_id, i.commercial_partner_id, i.currency_code, COALESCE(i.partner_bank_id::text, ''),
		       l.account_type, l.amount_residual, l.amount_residual_currency
		  FROM move_lines l
		  JOIN invoices i ON i.id = l.invoice_id
		 WHERE i.company_id = $1
		   AND i.state = 'posted'
		   AND i.payment_state NOT IN ('in_payment', 'paid')
		   AND l.reconciled = false
		   AND l.account_type IN ('receivable', 'payable')
		   AND (l.amount_residual <> 0 OR l.amount_residual_currency <> 0)`
	args := []any{f.CompanyID}
	if len(f.InvoiceIDs) > 0 {
		query += ` AND i.id = ANY($2::uuid[])`
		args = append(args, f.InvoiceIDs)
	} else {
		query += ` AND (i.partner_id = $2 OR i.commercial_partner_id = $2)`
		args = append(args, f.PartnerID)
	}
	query += ` ORDER BY i.invoice_date, i.name, l.id`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetch open lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.OpenLine
	for rows.Next() {
		var l entity.OpenLine
		var moveType string
		if err := rows.Scan(&l.ID, &l.InvoiceID, &l.InvoiceName, &l.InvoiceRef, &l.PaymentReference, &moveType,
			&l.PartnerID, &l.CommercialPartnerID, &l.CurrencyCode, &l.PartnerBankID,
			&l.AccountType, &l.AmountResidual, &l.AmountResidualCurrency); err != nil {
			return nil, fmt.Errorf("scan open line: %w", err)
		}
		l.MoveType = entity.MoveType(moveType)
		list = append(list, &l)
	}
	return list, rows.Err()
}

// ListUnreconciledByPartner facturas de cliente de la empresa con saldo pendiente del partner comercial.
func (r *InvoiceRepo) ListUnreconciledByPartner(ctx context.Context, companyID, commercialPartnerID string) ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + `
		  FROM invoices i
		 WHERE i.company_id = $1
		   AND i.commercial_partner_id = $2
		   AND i.state = 'posted'
		   AND i.move_type = 'out_invoice'
		   AND i.amount_residual <> 0
		 ORDER BY i.due_date, i.name`
	return r.queryInvoices(ctx, query, companyID, commercialPartnerID)
}

// MarkInPayment pasa a in_payment las facturas sin pago en curso. El UPDATE bloquea las filas:
// una registración concurrente espera al commit, ya no las encuentra y recibe domain.ErrConflict.
func (r *InvoiceRepo) MarkInPayment(ctx context.Context, ids []string) error {
	ids = distinct(ids)
	if len(ids) == 0 {
		return nil
	}
	tag, err := r.q.Exec(ctx, `
		UPDATE invoices SET payment_state = $2, updated_at = $3
		 WHERE id = ANY($1::uuid[])
		   AND payment_state NOT IN ('in_payment', 'paid')`,
		ids, entity.PaymentStateInPay, time.Now())
	if err != nil {
		return fmt.Errorf("mark in payment: %w", err)
	}
	return expectRows(tag, len(ids))
}

func (r *InvoiceRepo) queryInvoices(ctx context.Context, query string, args ...any) ([]*entity.Invoice, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()
	var list []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	var moveType string
	err := row.Scan(&inv.ID, &inv.CompanyID, &inv.PartnerID, &inv.CommercialPartnerID, &inv.Name, &inv.Ref,
		&inv.PaymentReference, &moveType, &inv.CurrencyCode, &inv.PartnerBankID,
		&inv.State, &inv.PaymentState, &inv.InvoiceDate, &inv.DueDate, &inv.AmountTotal, &inv.AmountResidual,
		&inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	inv.MoveType = entity.MoveType(moveType)
	return &inv, nil
}
