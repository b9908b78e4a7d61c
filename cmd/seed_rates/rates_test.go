package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

func TestParseRates(t *testing.T) {
	in := strings.Join([]string{
		"Datum;Währung;Kurs",
		"# comentario",
		"2024-03-01;eur;1,0412",
		"01.03.2024;USD;1.1301",
		"2024-03-01;EUR;1.0420",
		"",
	}, "\n")

	rows, err := parseRates(strings.NewReader(in), false)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "EUR", rows[0].currency)
	assert.Equal(t, "1.042", rows[0].rate.String(), "la última fila repetida gana")
	assert.Equal(t, "USD", rows[1].currency)
	assert.Equal(t, "2024-03-01", rows[1].date.Format("2006-01-02"))
}

func TestParseRates_Invert(t *testing.T) {
	rows, err := parseRates(strings.NewReader("2024-03-01;EUR;0.8\n"), true)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "1.25", rows[0].rate.String())
}

func TestParseRates_Errores(t *testing.T) {
	cases := map[string]string{
		"moneda":   "2024-03-01;EURO;1\n",
		"tasa":     "2024-03-01;EUR;abc\n",
		"negativa": "2024-03-01;EUR;-1\n",
		"columnas": "2024-03-01;EUR\n",
		"fecha":    "2024-03-01;EUR;1\n2024-13-45;USD;1\n",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := parseRates(strings.NewReader(in), false)
			assert.Error(t, err)
		})
	}
}

func TestParseRates_Latin1(t *testing.T) {
	latin1, err := charmap.ISO8859_1.NewEncoder().String("Datum;Währung;Kurs\n2024-03-01;GBP;0.89\n")
	require.NoError(t, err)

	rows, err := parseRates(transform.NewReader(strings.NewReader(latin1), charmap.ISO8859_1.NewDecoder()), false)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "GBP", rows[0].currency)
}

func TestWriteSQL(t *testing.T) {
	rows, err := parseRates(strings.NewReader("2024-03-01;USD;1.13\n2024-03-01;EUR;1.04\n"), false)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, writeSQL(&buf, "tasas.csv", rows))
	sql := buf.String()

	assert.Contains(t, sql, "('EUR', 'EUR', 2),\n  ('USD', 'USD', 2)\nON CONFLICT (code) DO NOTHING;")
	assert.Contains(t, sql, "VALUES (NULL, 'EUR', '2024-03-01', 1.04)")
	assert.Equal(t, 2, strings.Count(sql, "DO UPDATE SET rate = EXCLUDED.rate;"))
	assert.Less(t, strings.Index(sql, "'EUR', '2024-03-01'"), strings.Index(sql, "'USD', '2024-03-01'"))
}
