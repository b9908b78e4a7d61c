package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/l10n-ch-billing/internal/domain/entity"
	"github.com/jhoicas/l10n-ch-billing/internal/domain/repository"
)

var (
	_ repository.PartnerRepository     = (*PartnerRepo)(nil)
	_ repository.BankAccountRepository = (*BankAccountRepo)(nil)
	_ repository.JournalRepository     = (*JournalRepo)(nil)
)

const partnerColumns = `id, company_id, commercial_partner_id, name, lang, COALESCE(email, ''), COALESCE(street, ''),
	COALESCE(zip, ''), COALESCE(city, ''), COALESCE(country_code, ''), created_at, updated_at`

// PartnerRepo lectura de contactos.
type PartnerRepo struct {
	q Querier
}

// NewPartnerRepository construye el adaptador de contactos.
func NewPartnerRepository(q Querier) *PartnerRepo {
	return &PartnerRepo{q: q}
}

// GetByID obtiene un contacto; nil si no existe.
func (r *PartnerRepo) GetByID(ctx context.Context, id string) (*entity.Partner, error) {
	p, err := scanPartner(r.q.QueryRow(ctx, `SELECT `+partnerColumns+` FROM partners WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get partner: %w", err)
	}
	return p, nil
}

// ListByIDs obtiene varios contactos en una sola consulta.
func (r *PartnerRepo) ListByIDs(ctx context.Context, ids []string) ([]*entity.Partner, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.q.Query(ctx, `SELECT `+partnerColumns+` FROM partners WHERE id = ANY($1::uuid[]) ORDER BY name`, ids)
	if err != nil {
		return nil, fmt.Errorf("list partners: %w", err)
	}
	defer rows.Close()
	var list []*entity.Partner
	for rows.Next() {
		p, err := scanPartner(rows)
		if err != nil {
			return nil, fmt.Errorf("scan partner: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func scanPartner(row pgx.Row) (*entity.Partner, error) {
	var p entity.Partner
	err := row.Scan(&p.ID, &p.CompanyID, &p.CommercialPartnerID, &p.Name, &p.Lang, &p.Email, &p.Street,
		&p.Zip, &p.City, &p.CountryCode, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// BankAccountRepo lectura de cuentas bancarias.
type BankAccountRepo struct {
	q Querier
}

// NewBankAccountRepository construye el adaptador de cuentas bancarias.
func NewBankAccountRepository(q Querier) *BankAccountRepo {
	return &BankAccountRepo{q: q}
}

// GetByID obtiene una cuenta; nil si no existe.
func (r *BankAccountRepo) GetByID(ctx context.Context, id string) (*entity.BankAccount, error) {
	var b entity.BankAccount
	err := r.q.QueryRow(ctx, `
		SELECT id, partner_id, account_number, COALESCE(bic, ''), COALESCE(bank_name, '')
		FROM bank_accounts WHERE id = $1`, id).Scan(&b.ID, &b.PartnerID, &b.AccountNumber, &b.BIC, &b.BankName)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get bank account: %w", err)
	}
	return &b, nil
}

// JournalRepo lectura de diarios.
type JournalRepo struct {
	q Querier
}

// NewJournalRepository construye el adaptador de diarios.
func NewJournalRepository(q Querier) *JournalRepo {
	return &JournalRepo{q: q}
}

// GetByID obtiene un diario; nil si no existe.
func (r *JournalRepo) GetByID(ctx context.Context, id string) (*entity.Journal, error) {
	var j entity.Journal
	err := r.q.QueryRow(ctx, `
		SELECT id, company_id, code, name, type, COALESCE(currency_code, ''), COALESCE(bank_account_id::text, '')
		FROM journals WHERE id = $1`, id).Scan(&j.ID, &j.CompanyID, &j.Code, &j.Name, &j.Type, &j.CurrencyCode, &j.BankAccountID)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get journal: %w", err)
	}
	return &j, nil
}
