package currency_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/l10n-ch-billing/internal/application/currency"
	"github.com/jhoicas/l10n-ch-billing/internal/domain/entity"
)

type fakeCurrencyRepo struct {
	currencies map[string]*entity.Currency
	rates      []entity.CurrencyRate
	err        error
}

func (f *fakeCurrencyRepo) GetCurrency(_ context.Context, code string) (*entity.Currency, error) {
	return f.currencies[code], nil
}

// GetRate última tasa con fecha <= date, como la consulta SQL.
func (f *fakeCurrencyRepo) GetRate(_ context.Context, companyID, code string, date time.Time) (*entity.CurrencyRate, error) {
	if f.err != nil {
		return nil, f.err
	}
	var best *entity.CurrencyRate
	for i := range f.rates {
		r := &f.rates[i]
		if r.CompanyID != companyID || r.CurrencyCode != code || r.Date.After(date) {
			continue
		}
		if best == nil || r.Date.After(best.Date) {
			best = r
		}
	}
	return best, nil
}

func day(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func newRepo() *fakeCurrencyRepo {
	return &fakeCurrencyRepo{
		currencies: map[string]*entity.Currency{
			"CHF": {Code: "CHF", DecimalPlaces: 2},
			"EUR": {Code: "EUR", DecimalPlaces: 2},
			"JPY": {Code: "JPY", DecimalPlaces: 0},
		},
		rates: []entity.CurrencyRate{
			{CompanyID: "c1", CurrencyCode: "EUR", Date: day("2024-01-01"), Rate: decimal.RequireFromString("1.05")},
			{CompanyID: "c1", CurrencyCode: "EUR", Date: day("2024-03-01"), Rate: decimal.RequireFromString("1.10")},
			{CompanyID: "c1", CurrencyCode: "JPY", Date: day("2024-01-01"), Rate: decimal.RequireFromString("160.5")},
			{CompanyID: "c2", CurrencyCode: "EUR", Date: day("2024-01-01"), Rate: decimal.RequireFromString("9")},
		},
	}
}

var company = &entity.Company{ID: "c1", CurrencyCode: "CHF"}

func TestConvert_MismaMonedaRedondea(t *testing.T) {
	conv := currency.NewConverter(newRepo(), company)
	got, err := conv.Convert(context.Background(), decimal.RequireFromString("10.005"), "CHF", "CHF", day("2024-03-15"))
	require.NoError(t, err)
	assert.Equal(t, "10.01", got.StringFixed(2))
}

func TestConvert_UsaUltimaTasaAnteriorOIgual(t *testing.T) {
	conv := currency.NewConverter(newRepo(), company)

	got, err := conv.Convert(context.Background(), decimal.NewFromInt(100), "CHF", "EUR", day("2024-02-15"))
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("105").Equal(got), "got %s", got)

	got, err = conv.Convert(context.Background(), decimal.NewFromInt(100), "CHF", "EUR", day("2024-03-01"))
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("110").Equal(got), "got %s", got)
}

func TestConvert_HaciaLaBaseYEntreExtranjeras(t *testing.T) {
	conv := currency.NewConverter(newRepo(), company)

	got, err := conv.Convert(context.Background(), decimal.NewFromInt(110), "EUR", "CHF", day("2024-03-15"))
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(100).Equal(got), "got %s", got)

	// 100 EUR -> CHF 90.909.. -> JPY 14590.909.. redondeado a 0 decimales
	got, err = conv.Convert(context.Background(), decimal.NewFromInt(100), "EUR", "JPY", day("2024-03-15"))
	require.NoError(t, err)
	assert.Equal(t, "14591", got.String())
}

func TestConvert_SinTasa(t *testing.T) {
	conv := currency.NewConverter(newRepo(), company)

	_, err := conv.Convert(context.Background(), decimal.NewFromInt(1), "CHF", "EUR", day("2023-12-31"))
	assert.ErrorIs(t, err, currency.ErrRateNotFound)

	_, err = conv.Convert(context.Background(), decimal.NewFromInt(1), "CHF", "USD", day("2024-03-15"))
	assert.ErrorIs(t, err, currency.ErrRateNotFound)
}

func TestConvert_ErrorDeRepositorio(t *testing.T) {
	repo := newRepo()
	repo.err = errors.New("db caída")
	conv := currency.NewConverter(repo, company)

	_, err := conv.Convert(context.Background(), decimal.NewFromInt(1), "CHF", "EUR", day("2024-03-15"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, currency.ErrRateNotFound)
	assert.ErrorIs(t, err, repo.err)
}
