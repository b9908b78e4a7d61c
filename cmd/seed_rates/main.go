// seed_rates genera un script SQL con tasas de cambio globales a partir de un CSV
// (fecha;moneda;tasa), como los que exportan los bancos en ISO-8859-1.
//
// Uso: go run ./cmd/seed_rates [ruta/tasas.csv] [--invert]
// La tasa se entiende en unidades de la moneda por 1 CHF; con --invert se lee como CHF por
// unidad (formato de la publicación del BNS) y se invierte.
// Escribe: internal/infrastructure/postgres/migrations/004_seed_rates.sql
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

func main() {
	csvPath := "tasas.csv"
	invert := false
	for _, arg := range os.Args[1:] {
		if arg == "--invert" {
			invert = true
			continue
		}
		csvPath = arg
	}

	f, err := os.Open(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	rows, err := parseRates(transform.NewReader(f, charmap.ISO8859_1.NewDecoder()), invert)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer tasas: %v\n", err)
		os.Exit(1)
	}

	outPath := filepath.Join(findModuleRoot(), "internal", "infrastructure", "postgres", "migrations", "004_seed_rates.sql")
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	if err := writeSQL(out, filepath.Base(csvPath), rows); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generado %s: %d tasas\n", outPath, len(rows))
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
