// Package currency convierte importes entre monedas con la tabla de tasas de la empresa.
package currency

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/l10n-ch-billing/internal/domain/entity"
	"github.com/jhoicas/l10n-ch-billing/internal/domain/payment"
	"github.com/jhoicas/l10n-ch-billing/internal/domain/repository"
)

// ErrRateNotFound no hay tasa de la moneda con fecha anterior o igual a la pedida.
var ErrRateNotFound = errors.New("currency: tasa de cambio no encontrada")

const defaultDecimalPlaces int32 = 2

var _ payment.Converter = (*Converter)(nil)

// Converter conversor de una empresa. Las tasas se expresan en unidades de la moneda por
// una unidad de la moneda base (la base vale 1).
type Converter struct {
	repo         repository.CurrencyRepository
	companyID    string
	baseCurrency string
}

// NewConverter construye el conversor para la empresa dada.
func NewConverter(repo repository.CurrencyRepository, company *entity.Company) *Converter {
	return &Converter{repo: repo, companyID: company.ID, baseCurrency: company.CurrencyCode}
}

// Convert convierte amount de from a to con las tasas vigentes en date y redondea a los
// decimales de la moneda destino.
func (c *Converter) Convert(ctx context.Context, amount decimal.Decimal, from, to string, date time.Time) (decimal.Decimal, error) {
	places, err := c.decimalPlaces(ctx, to)
	if err != nil {
		return decimal.Zero, err
	}
	if from == to {
		return amount.Round(places), nil
	}
	fromRate, err := c.rate(ctx, from, date)
	if err != nil {
		return decimal.Zero, err
	}
	toRate, err := c.rate(ctx, to, date)
	if err != nil {
		return decimal.Zero, err
	}
	return amount.Mul(toRate).Div(fromRate).Round(places), nil
}

func (c *Converter) rate(ctx context.Context, code string, date time.Time) (decimal.Decimal, error) {
	if code == c.baseCurrency {
		return decimal.NewFromInt(1), nil
	}
	r, err := c.repo.GetRate(ctx, c.companyID, code, date)
	if err != nil {
		return decimal.Zero, fmt.Errorf("currency: obtener tasa %s: %w", code, err)
	}
	if r == nil || !r.Rate.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: %s al %s", ErrRateNotFound, code, date.Format("2006-01-02"))
	}
	return r.Rate, nil
}

func (c *Converter) decimalPlaces(ctx context.Context, code string) (int32, error) {
	cur, err := c.repo.GetCurrency(ctx, code)
	if err != nil {
		return 0, fmt.Errorf("currency: obtener moneda %s: %w", code, err)
	}
	if cur == nil {
		return defaultDecimalPlaces, nil
	}
	return cur.DecimalPlaces, nil
}
