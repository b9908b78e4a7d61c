package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type rateRow struct {
	date     time.Time
	currency string
	rate     decimal.Decimal
}

// rateScale decimales que admite currency_rates.rate.
const rateScale = 10

// parseRates lee filas fecha;moneda;tasa. Acepta cabecera, líneas vacías o de comentario (#),
// fechas YYYY-MM-DD o DD.MM.YYYY y coma decimal. Una fecha+moneda repetida se queda con la última.
func parseRates(r io.Reader, invert bool) ([]rateRow, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	byKey := make(map[string]rateRow)
	line := 0
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line++
		if len(rec) < 3 {
			return nil, fmt.Errorf("línea %d: se esperan 3 columnas, hay %d", line, len(rec))
		}
		date, err := parseDate(rec[0])
		if err != nil {
			if line == 1 {
				continue // cabecera
			}
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		code := strings.ToUpper(strings.TrimSpace(rec[1]))
		if len(code) != 3 {
			return nil, fmt.Errorf("línea %d: moneda %q inválida", line, rec[1])
		}
		rate, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(rec[2]), ",", "."))
		if err != nil {
			return nil, fmt.Errorf("línea %d: tasa %q: %w", line, rec[2], err)
		}
		if !rate.IsPositive() {
			return nil, fmt.Errorf("línea %d: la tasa debe ser positiva", line)
		}
		if invert {
			rate = decimal.NewFromInt(1).DivRound(rate, rateScale)
		}
		row := rateRow{date: date, currency: code, rate: rate.Round(rateScale)}
		byKey[row.date.Format(time.DateOnly)+code] = row
	}

	rows := make([]rateRow, 0, len(byKey))
	for _, row := range byKey {
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].date.Equal(rows[j].date) {
			return rows[i].date.Before(rows[j].date)
		}
		return rows[i].currency < rows[j].currency
	})
	return rows, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.DateOnly, "02.01.2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("fecha %q inválida", s)
}

// writeSQL escribe los INSERT idempotentes: la moneda se crea si falta y la tasa se actualiza
// si ya existe para la misma fecha.
func writeSQL(w io.Writer, source string, rows []rateRow) error {
	var b strings.Builder
	b.WriteString("-- Tasas de cambio globales (unidades de la moneda por 1 CHF)\n")
	fmt.Fprintf(&b, "-- Generado desde %s\n\n", source)

	var codes []string
	seen := make(map[string]bool)
	for _, r := range rows {
		if !seen[r.currency] {
			seen[r.currency] = true
			codes = append(codes, r.currency)
		}
	}
	sort.Strings(codes)
	if len(codes) > 0 {
		b.WriteString("INSERT INTO currencies (code, symbol, decimal_places) VALUES\n")
		for i, c := range codes {
			sep := ","
			if i == len(codes)-1 {
				sep = ""
			}
			fmt.Fprintf(&b, "  ('%s', '%s', 2)%s\n", c, c, sep)
		}
		b.WriteString("ON CONFLICT (code) DO NOTHING;\n\n")
	}

	for _, r := range rows {
		fmt.Fprintf(&b, "INSERT INTO currency_rates (company_id, currency_code, rate_date, rate)\n")
		fmt.Fprintf(&b, "VALUES (NULL, '%s', '%s', %s)\n", r.currency, r.date.Format(time.DateOnly), r.rate.String())
		b.WriteString("ON CONFLICT (COALESCE(company_id, '00000000-0000-0000-0000-000000000000'::uuid), currency_code, rate_date)\n")
		b.WriteString("DO UPDATE SET rate = EXCLUDED.rate;\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}
