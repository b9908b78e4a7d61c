package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/l10n-ch-billing/internal/domain"
	"github.com/jhoicas/l10n-ch-billing/internal/domain/entity"
	"github.com/jhoicas/l10n-ch-billing/internal/domain/repository"
)

var _ repository.PaymentRepository = (*PaymentRepo)(nil)

const paymentColumns = `p.id, p.company_id, p.journal_id, p.payment_method, p.payment_date, COALESCE(p.communication, ''),
	p.payment_type, p.partner_type, p.amount, p.currency_code, p.partner_id, COALESCE(p.partner_bank_id::text, ''),
	p.state, COALESCE(p.created_by::text, ''), p.created_at, p.updated_at,
	COALESCE((SELECT array_agg(pi.invoice_id::text ORDER BY pi.position) FROM payment_invoices pi WHERE pi.payment_id = p.id), '{}')`

// PaymentRepo persistencia de pagos (usable con pool o tx).
type PaymentRepo struct {
	q Querier
}

// NewPaymentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPaymentRepository(q Querier) *PaymentRepo {
	return &PaymentRepo{q: q}
}

// Create inserta el pago y una fila de payment_invoices por factura, en orden.
func (r *PaymentRepo) Create(ctx context.Context, p *entity.Payment) error {
	query := `
		INSERT INTO payments (id, company_id, journal_id, payment_method, payment_date, communication, payment_type,
		                      partner_type, amount, currency_code, partner_id, partner_bank_id, state, created_by,
		                      created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.CompanyID, p.JournalID, p.PaymentMethod, p.PaymentDate, p.Communication, p.PaymentType,
		p.PartnerType, p.Amount, p.CurrencyCode, p.PartnerID, nullIfEmpty(p.PartnerBankID), p.State,
		nullIfEmpty(p.CreatedBy), p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert payment: %w", err)
	}
	for pos, invoiceID := range p.InvoiceIDs {
		_, err := r.q.Exec(ctx,
			`INSERT INTO payment_invoices (payment_id, invoice_id, position) VALUES ($1, $2, $3)`,
			p.ID, invoiceID, pos)
		if err != nil {
			return fmt.Errorf("insert payment invoice: %w", err)
		}
	}
	return nil
}

// GetByID obtiene un pago con sus facturas; nil si no existe.
func (r *PaymentRepo) GetByID(ctx context.Context, id string) (*entity.Payment, error) {
	list, err := r.list(ctx, `SELECT `+paymentColumns+` FROM payments p WHERE p.id = $1`, id)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// ListByIDs pagos de la empresa con los IDs dados; los ajenos o inexistentes se omiten.
func (r *PaymentRepo) ListByIDs(ctx context.Context, companyID string, ids []string) ([]*entity.Payment, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `SELECT ` + paymentColumns + `
		FROM payments p WHERE p.company_id = $1 AND p.id = ANY($2::uuid[]) ORDER BY p.payment_date, p.created_at`
	return r.list(ctx, query, companyID, ids)
}

// ListByCompany página de pagos de la empresa, opcionalmente de un solo estado.
func (r *PaymentRepo) ListByCompany(ctx context.Context, companyID, state string, limit, offset int) ([]*entity.Payment, int, error) {
	where := ` WHERE p.company_id = $1 AND ($2 = '' OR p.state = $2)`
	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM payments p`+where, companyID, state).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count payments: %w", err)
	}
	query := `SELECT ` + paymentColumns + ` FROM payments p` + where +
		` ORDER BY p.payment_date DESC, p.created_at DESC LIMIT $3 OFFSET $4`
	list, err := r.list(ctx, query, companyID, state, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// MarkExported pasa los pagos a estado exported. Si alguno ya lo estaba devuelve domain.ErrConflict;
// dentro de una tx el rollback deshace los que sí se actualizaron.
func (r *PaymentRepo) MarkExported(ctx context.Context, ids []string) error {
	ids = distinct(ids)
	if len(ids) == 0 {
		return nil
	}
	tag, err := r.q.Exec(ctx, `UPDATE payments SET state = $2, updated_at = $3 WHERE id = ANY($1::uuid[]) AND state <> $2`,
		ids, entity.PaymentStateExported, time.Now())
	if err != nil {
		return fmt.Errorf("mark exported: %w", err)
	}
	return expectRows(tag, len(ids))
}

func (r *PaymentRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Payment, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()
	var list []*entity.Payment
	for rows.Next() {
		var p entity.Payment
		if err := rows.Scan(&p.ID, &p.CompanyID, &p.JournalID, &p.PaymentMethod, &p.PaymentDate, &p.Communication,
			&p.PaymentType, &p.PartnerType, &p.Amount, &p.CurrencyCode, &p.PartnerID, &p.PartnerBankID,
			&p.State, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt, &p.InvoiceIDs); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}
