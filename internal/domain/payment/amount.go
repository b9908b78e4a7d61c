package payment

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Direction dirección del pago.
type Direction string

const (
	Inbound  Direction = "inbound"
	Outbound Direction = "outbound"
)

// DirectionOf inbound solo si el importe con signo es estrictamente positivo; cero es outbound.
func DirectionOf(signed decimal.Decimal) Direction {
	if signed.GreaterThan(decimal.Zero) {
		return Inbound
	}
	return Outbound
}

// Converter servicio externo de conversión de divisas.
type Converter interface {
	Convert(ctx context.Context, amount decimal.Decimal, from, to string, date time.Time) (decimal.Decimal, error)
}

// AmountContext datos de la empresa y del pago necesarios para el importe neto.
// Converter solo se usa cuando hay que cambiar de moneda.
type AmountContext struct {
	BaseCurrency    string
	JournalCurrency string
	Date            time.Time
	Converter       Converter
}

// SettlementCurrency moneda de liquidación: la pedida, si no la del primer documento,
// si no la del diario y por último la moneda base.
func SettlementCurrency(b PaymentBatch, requested string, ac AmountContext) string {
	if requested != "" {
		return requested
	}
	if first, ok := b.First(); ok && first.CurrencyCode != "" {
		return first.CurrencyCode
	}
	if ac.JournalCurrency != "" {
		return ac.JournalCurrency
	}
	return ac.BaseCurrency
}

// ComputeNetAmount calcula el importe neto del lote en la moneda de liquidación.
//
// Si la moneda del documento es la de liquidación y distinta de la base se usa el residual
// en moneda del documento tal cual (sin doble redondeo); en otro caso se convierte el
// residual en moneda base a la fecha del pago. Devuelve el valor absoluto y la dirección.
// Un lote vacío devuelve (0, Outbound). Los errores de conversión se propagan sin reintento.
func ComputeNetAmount(ctx context.Context, b PaymentBatch, settlementCurrency string, ac AmountContext) (decimal.Decimal, Direction, error) {
	if len(b.Documents) == 0 {
		return decimal.Zero, Outbound, nil
	}
	currency := SettlementCurrency(b, settlementCurrency, ac)
	date := ac.Date
	if date.IsZero() {
		date = time.Now()
	}

	total := decimal.Zero
	for _, d := range b.Documents {
		base, inCurrency := d.residuals()
		if d.CurrencyCode == currency && d.CurrencyCode != ac.BaseCurrency {
			total = total.Add(inCurrency)
			continue
		}
		if currency == ac.BaseCurrency {
			total = total.Add(base)
			continue
		}
		if ac.Converter == nil {
			return decimal.Zero, Outbound, ErrConverterRequired
		}
		converted, err := ac.Converter.Convert(ctx, base, ac.BaseCurrency, currency, date)
		if err != nil {
			return decimal.Zero, Outbound, err
		}
		total = total.Add(converted)
	}
	return total.Abs(), DirectionOf(total), nil
}
