package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/l10n-ch-billing/internal/domain/entity"
	"github.com/jhoicas/l10n-ch-billing/internal/domain/repository"
)

var _ repository.CurrencyRepository = (*CurrencyRepo)(nil)

// CurrencyRepo lectura de monedas y tasas.
type CurrencyRepo struct {
	q Querier
}

// NewCurrencyRepository construye el adaptador de monedas.
func NewCurrencyRepository(q Querier) *CurrencyRepo {
	return &CurrencyRepo{q: q}
}

// GetCurrency obtiene una moneda por código ISO; nil si no existe.
func (r *CurrencyRepo) GetCurrency(ctx context.Context, code string) (*entity.Currency, error) {
	var c entity.Currency
	err := r.q.QueryRow(ctx, `SELECT code, symbol, decimal_places FROM currencies WHERE code = $1`, code).
		Scan(&c.Code, &c.Symbol, &c.DecimalPlaces)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get currency %s: %w", code, err)
	}
	return &c, nil
}

// GetRate última tasa con fecha <= date. Las tasas propias de la empresa ganan a las globales
// (company_id NULL) del mismo día.
func (r *CurrencyRepo) GetRate(ctx context.Context, companyID, code string, date time.Time) (*entity.CurrencyRate, error) {
	const query = `
		SELECT COALESCE(company_id::text, ''), currency_code, rate_date, rate
		  FROM currency_rates
		 WHERE currency_code = $2
		   AND rate_date <= $3
		   AND (company_id = $1 OR company_id IS NULL)
		 ORDER BY rate_date DESC, company_id NULLS LAST
		 LIMIT 1`
	var rate entity.CurrencyRate
	err := r.q.QueryRow(ctx, query, companyID, code, date).
		Scan(&rate.CompanyID, &rate.CurrencyCode, &rate.Date, &rate.Rate)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get rate %s: %w", code, err)
	}
	return &rate, nil
}
