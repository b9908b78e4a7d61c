package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Currency moneda con su precisión de redondeo.
type Currency struct {
	Code          string
	Symbol        string
	DecimalPlaces int32
}

// CurrencyRate tasa de una moneda respecto a la moneda base de la empresa
// (unidades de la moneda por 1 unidad de la base).
type CurrencyRate struct {
	CompanyID    string
	CurrencyCode string
	Date         time.Time
	Rate         decimal.Decimal
}
