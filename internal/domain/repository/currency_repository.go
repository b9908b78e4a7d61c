package repository

import (
	"context"
	"time"

	"github.com/jhoicas/l10n-ch-billing/internal/domain/entity"
)

// CurrencyRepository puerto de lectura de monedas y tasas de cambio.
type CurrencyRepository interface {
	GetCurrency(ctx context.Context, code string) (*entity.Currency, error)
	// GetRate devuelve la última tasa de la moneda con fecha menor o igual a date; nil si no hay.
	GetRate(ctx context.Context, companyID, code string, date time.Time) (*entity.CurrencyRate, error)
}
