// seed_catalog genera un script SQL idempotente para poblar categorías y productos
// a partir de un CSV exportado del catálogo (separador ";", UTF-8 o ISO-8859-1).
//
// Columnas: category;name;description;price;stock (la fila de encabezado es opcional).
//
// Uso: go run ./cmd/seed_catalog [ruta/catalogo.csv] [salida.sql]
// Por defecto lee catalogo.csv del directorio actual y escribe
// internal/infrastructure/postgres/migrations/002_seed_catalog.sql
package main

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

type catalogRow struct {
	Category    string
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
}

func main() {
	csvPath := "catalogo.csv"
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}
	outPath := filepath.Join(findModuleRoot(), "internal", "infrastructure", "postgres", "migrations", "002_seed_catalog.sql")
	if len(os.Args) > 2 {
		outPath = os.Args[2]
	}

	raw, err := os.ReadFile(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}
	rows, err := parseCatalog(decodeInput(raw))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Procesar CSV: %v\n", err)
		os.Exit(1)
	}

	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	categories, err := writeSQL(out, rows)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generado %s: %d categorías, %d productos\n", outPath, categories, len(rows))
}

// decodeInput devuelve un lector UTF-8: si los bytes no son UTF-8 válido se asumen ISO-8859-1.
func decodeInput(raw []byte) io.Reader {
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))
	if utf8.Valid(raw) {
		return bytes.NewReader(raw)
	}
	return transform.NewReader(bytes.NewReader(raw), charmap.ISO8859_1.NewDecoder())
}

// parseCatalog lee las filas del CSV. Un nombre de producto repetido conserva la última fila.
func parseCatalog(r io.Reader) ([]catalogRow, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = 5
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true

	var rows []catalogRow
	index := map[string]int{}
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
		if line == 1 && strings.EqualFold(strings.TrimSpace(rec[0]), "category") {
			continue
		}
		row, err := parseRow(rec)
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		if i, ok := index[row.Name]; ok {
			rows[i] = row
			continue
		}
		index[row.Name] = len(rows)
		rows = append(rows, row)
	}
	return rows, nil
}

func parseRow(rec []string) (catalogRow, error) {
	row := catalogRow{
		Category:    strings.TrimSpace(rec[0]),
		Name:        strings.TrimSpace(rec[1]),
		Description: strings.TrimSpace(rec[2]),
	}
	if row.Category == "" || row.Name == "" {
		return row, errors.New("category y name son obligatorios")
	}
	priceRaw := strings.TrimSpace(rec[3])
	if !strings.Contains(priceRaw, ".") {
		priceRaw = strings.ReplaceAll(priceRaw, ",", ".")
	}
	price, err := decimal.NewFromString(priceRaw)
	if err != nil || price.IsNegative() {
		return row, fmt.Errorf("precio inválido %q", rec[3])
	}
	row.Price = price.Round(2)
	stock, err := strconv.Atoi(strings.TrimSpace(rec[4]))
	if err != nil || stock < 0 {
		return row, fmt.Errorf("stock inválido %q", rec[4])
	}
	row.Stock = stock
	return row, nil
}

// writeSQL escribe el script y devuelve cuántas categorías distintas contiene.
func writeSQL(w io.Writer, rows []catalogRow) (int, error) {
	var b strings.Builder
	b.WriteString("-- Catálogo inicial de categorías y productos\n")
	b.WriteString("-- Generado por cmd/seed_catalog\n\n")
	b.WriteString("-- +goose Up\n")

	seen := map[string]bool{}
	var categories []string
	for _, r := range rows {
		if !seen[r.Category] {
			seen[r.Category] = true
			categories = append(categories, r.Category)
		}
	}
	sort.Strings(categories)

	b.WriteString("-- 1. Categorías (get-or-create por nombre)\n")
	for _, c := range categories {
		name := escapeSQL(c)
		fmt.Fprintf(&b, "INSERT INTO categories (name) SELECT '%s'\n", name)
		fmt.Fprintf(&b, "WHERE NOT EXISTS (SELECT 1 FROM categories WHERE name = '%s');\n", name)
	}

	b.WriteString("\n-- 2. Productos (upsert por nombre)\n")
	for _, r := range rows {
		fmt.Fprintf(&b, "INSERT INTO products (name, description, price, stock, category_id)\n")
		fmt.Fprintf(&b, "SELECT '%s', '%s', %s, %d, id FROM categories WHERE name = '%s' ORDER BY id LIMIT 1\n",
			escapeSQL(r.Name), escapeSQL(r.Description), r.Price.StringFixed(2), r.Stock, escapeSQL(r.Category))
		b.WriteString("ON CONFLICT (name) DO UPDATE SET description = EXCLUDED.description, price = EXCLUDED.price,\n")
		b.WriteString("  stock = EXCLUDED.stock, category_id = EXCLUDED.category_id;\n")
	}

	_, err := io.WriteString(w, b.String())
	return len(categories), err
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
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
