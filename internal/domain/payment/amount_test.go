package payment_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/l10n-ch-billing/internal/domain/entity"
	"github.com/jhoicas/l10n-ch-billing/internal/domain/payment"
)

// fakeConverter convierte con una tasa fija por moneda destino y registra las llamadas.
type fakeConverter struct {
	rates map[string]decimal.Decimal
	err   error
	calls int
	dates []time.Time
}

func (f *fakeConverter) Convert(_ context.Context, amount decimal.Decimal, from, to string, date time.Time) (decimal.Decimal, error) {
	f.calls++
	f.dates = append(f.dates, date)
	if f.err != nil {
		return decimal.Zero, f.err
	}
	if from == to {
		return amount, nil
	}
	return amount.Mul(f.rates[to]).Round(2), nil
}

func groupOne(t *testing.T, lines ...payment.InvoiceLine) payment.PaymentBatch {
	t.Helper()
	batches, err := payment.GroupInvoices(lines, true)
	require.NoError(t, err)
	require.Len(t, batches, 1)
	return batches[0]
}

var paymentDate = time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

func TestDirectionOf(t *testing.T) {
	assert.Equal(t, payment.Inbound, payment.DirectionOf(decimal.RequireFromString("0.01")))
	assert.Equal(t, payment.Outbound, payment.DirectionOf(decimal.Zero))
	assert.Equal(t, payment.Outbound, payment.DirectionOf(decimal.RequireFromString("-0.01")))
}

func TestComputeNetAmount_LoteVacio(t *testing.T) {
	amount, dir, err := payment.ComputeNetAmount(context.Background(), payment.PaymentBatch{}, "CHF", payment.AmountContext{BaseCurrency: "CHF"})
	require.NoError(t, err)
	assert.True(t, amount.IsZero())
	assert.Equal(t, payment.Outbound, dir)
}

func TestComputeNetAmount_MonedaBaseSinConversor(t *testing.T) {
	b := groupOne(t,
		newLine("l1", "inv1", "INV/001", entity.MoveTypeOutInvoice, withResidual("120.50", "120.50")),
		newLine("l2", "inv2", "INV/002", entity.MoveTypeOutInvoice, withResidual("79.50", "79.50")),
	)

	amount, dir, err := payment.ComputeNetAmount(context.Background(), b, "", payment.AmountContext{BaseCurrency: "CHF", Date: paymentDate})
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("200.00").Equal(amount), "got %s", amount)
	assert.Equal(t, payment.Inbound, dir)
}

// Facturas y notas de crédito del mismo proveedor se compensan; el signo decide la dirección.
func TestComputeNetAmount_LeyDelSigno(t *testing.T) {
	cases := []struct {
		name    string
		bill    string
		refund  string
		wantAbs string
		wantDir payment.Direction
	}{
		{"neto a pagar", "-300", "100", "200", payment.Outbound},
		{"neto a cobrar", "-100", "250", "150", payment.Inbound},
		{"neto cero", "-100", "100", "0", payment.Outbound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := groupOne(t,
				newLine("l1", "inv1", "BILL/001", entity.MoveTypeInInvoice, withResidual(tc.bill, tc.bill)),
				newLine("l2", "inv2", "RBILL/001", entity.MoveTypeInRefund, withResidual(tc.refund, tc.refund)),
			)
			amount, dir, err := payment.ComputeNetAmount(context.Background(), b, "CHF", payment.AmountContext{BaseCurrency: "CHF"})
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tc.wantAbs).Equal(amount), "got %s", amount)
			assert.False(t, amount.IsNegative())
			assert.Equal(t, tc.wantDir, dir)
		})
	}
}

// Documento en EUR liquidado en EUR con base CHF: se usa el residual en EUR sin convertir.
func TestComputeNetAmount_MonedaDelDocumentoSinConversion(t *testing.T) {
	conv := &fakeConverter{rates: map[string]decimal.Decimal{"EUR": decimal.RequireFromString("0.95")}}
	b := groupOne(t,
		newLine("l1", "inv1", "INV/001", entity.MoveTypeOutInvoice, withCurrency("EUR"), withResidual("107.53", "100.00")),
		newLine("l2", "inv2", "INV/002", entity.MoveTypeOutInvoice, withCurrency("EUR"), withResidual("53.77", "50.00")),
	)

	amount, dir, err := payment.ComputeNetAmount(context.Background(), b, "", payment.AmountContext{
		BaseCurrency: "CHF",
		Date:         paymentDate,
		Converter:    conv,
	})
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("150.00").Equal(amount), "got %s", amount)
	assert.Equal(t, payment.Inbound, dir)
	assert.Zero(t, conv.calls)
}

func TestComputeNetAmount_ConvierteResidualBase(t *testing.T) {
	conv := &fakeConverter{rates: map[string]decimal.Decimal{"EUR": decimal.RequireFromString("0.90")}}
	b := groupOne(t,
		newLine("l1", "inv1", "INV/001", entity.MoveTypeOutInvoice, withResidual("100.00", "100.00")),
	)

	amount, _, err := payment.ComputeNetAmount(context.Background(), b, "EUR", payment.AmountContext{
		BaseCurrency: "CHF",
		Date:         paymentDate,
		Converter:    conv,
	})
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("90.00").Equal(amount), "got %s", amount)
	require.Equal(t, 1, conv.calls)
	assert.Equal(t, paymentDate, conv.dates[0])
}

func TestComputeNetAmount_FechaPorDefectoHoy(t *testing.T) {
	conv := &fakeConverter{rates: map[string]decimal.Decimal{"EUR": decimal.NewFromInt(1)}}
	b := groupOne(t, newLine("l1", "inv1", "INV/001", entity.MoveTypeOutInvoice))

	before := time.Now()
	_, _, err := payment.ComputeNetAmount(context.Background(), b, "EUR", payment.AmountContext{BaseCurrency: "CHF", Converter: conv})
	require.NoError(t, err)
	require.Len(t, conv.dates, 1)
	assert.False(t, conv.dates[0].Before(before))
}

func TestComputeNetAmount_ErrorDelConversor(t *testing.T) {
	convErr := errors.New("sin tasa")
	conv := &fakeConverter{err: convErr}
	b := groupOne(t, newLine("l1", "inv1", "INV/001", entity.MoveTypeOutInvoice))

	_, _, err := payment.ComputeNetAmount(context.Background(), b, "USD", payment.AmountContext{BaseCurrency: "CHF", Converter: conv})
	assert.ErrorIs(t, err, convErr)
}

func TestComputeNetAmount_SinConversor(t *testing.T) {
	b := groupOne(t, newLine("l1", "inv1", "INV/001", entity.MoveTypeOutInvoice))

	_, _, err := payment.ComputeNetAmount(context.Background(), b, "USD", payment.AmountContext{BaseCurrency: "CHF"})
	assert.ErrorIs(t, err, payment.ErrConverterRequired)
}

// Solo cuentan las líneas de cobrar/pagar.
func TestComputeNetAmount_IgnoraOtrasCuentas(t *testing.T) {
	l1 := newLine("l1", "inv1", "INV/001", entity.MoveTypeOutInvoice, withResidual("100", "100"))
	l2 := newLine("l2", "inv1", "INV/001", entity.MoveTypeOutInvoice, withResidual("999", "999"))
	l2.AccountType = "income"
	b := groupOne(t, l1, l2)

	amount, _, err := payment.ComputeNetAmount(context.Background(), b, "CHF", payment.AmountContext{BaseCurrency: "CHF"})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(100).Equal(amount), "got %s", amount)
}

func TestSettlementCurrency(t *testing.T) {
	b := groupOne(t, newLine("l1", "inv1", "INV/001", entity.MoveTypeOutInvoice, withCurrency("EUR")))
	ac := payment.AmountContext{BaseCurrency: "CHF", JournalCurrency: "USD"}

	assert.Equal(t, "GBP", payment.SettlementCurrency(b, "GBP", ac))
	assert.Equal(t, "EUR", payment.SettlementCurrency(b, "", ac))
	assert.Equal(t, "USD", payment.SettlementCurrency(payment.PaymentBatch{}, "", ac))
	assert.Equal(t, "CHF", payment.SettlementCurrency(payment.PaymentBatch{}, "", payment.AmountContext{BaseCurrency: "CHF"}))
}
