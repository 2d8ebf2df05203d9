// seed genera un script SQL para poblar los municipios del área de salud y el
// catálogo de materiales a partir de un CSV (separado por ;).
//
// Uso: go run ./cmd/seed [ruta/catalogo.csv]
// Por defecto busca catalogo.csv en el directorio actual.
// Escribe: internal/infrastructure/postgres/migrations/002_seed_catalog.sql
//
// El CSV suele venir exportado de Excel en ISO-8859-1; se decodifica tolerante:
// si el contenido ya es UTF-8 válido se deja tal cual.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Municipios del departamento de Sololá atendidos por la dirección de área.
var municipalities = []string{
	"Sololá",
	"San José Chacayá",
	"Santa María Visitación",
	"Santa Lucía Utatlán",
	"Nahualá",
	"Santa Catarina Ixtahuacán",
	"Santa Clara La Laguna",
	"Concepción",
	"San Andrés Semetabaj",
	"Panajachel",
	"Santa Catarina Palopó",
	"San Antonio Palopó",
	"San Lucas Tolimán",
	"Santa Cruz La Laguna",
	"San Pablo La Laguna",
	"San Marcos La Laguna",
	"San Juan La Laguna",
	"San Pedro La Laguna",
	"Santiago Atitlán",
}

type material struct {
	code, category, name string
}

func main() {
	csvPath := "catalogo.csv"
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}
	f, err := os.Open(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	raw, err := io.ReadAll(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}
	content := decodeTolerant(raw)

	materials, err := parseCatalog(content)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Parsear catálogo: %v\n", err)
		os.Exit(1)
	}
	if len(materials) == 0 {
		fmt.Fprintln(os.Stderr, "El catálogo no contiene filas válidas")
		os.Exit(1)
	}

	outPath := filepath.Join("internal", "infrastructure", "postgres", "migrations", "002_seed_catalog.sql")
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear salida: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	w := bufio.NewWriter(out)
	fmt.Fprintln(w, "-- Generado por cmd/seed. No editar a mano.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "INSERT INTO municipalities (municipality_name) VALUES")
	for i, name := range municipalities {
		sep := ","
		if i == len(municipalities)-1 {
			sep = ""
		}
		fmt.Fprintf(w, "    ('%s')%s\n", sqlEscape(name), sep)
	}
	fmt.Fprintln(w, "ON CONFLICT (municipality_name) DO NOTHING;")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "INSERT INTO materials (code, category, material_name) VALUES")
	for i, m := range materials {
		sep := ","
		if i == len(materials)-1 {
			sep = ""
		}
		fmt.Fprintf(w, "    ('%s', '%s', '%s')%s\n",
			sqlEscape(m.code), sqlEscape(m.category), sqlEscape(m.name), sep)
	}
	fmt.Fprintln(w, "ON CONFLICT (code) DO NOTHING;")

	if err := w.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir salida: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("OK: %d municipios, %d materiales -> %s\n", len(municipalities), len(materials), outPath)
}

// decodeTolerant decodifica ISO-8859-1 solo cuando el contenido no es UTF-8 válido.
func decodeTolerant(raw []byte) string {
	if utf8.Valid(raw) {
		return string(raw)
	}
	decoded, _, err := transform.Bytes(charmap.ISO8859_1.NewDecoder(), raw)
	if err != nil {
		return string(raw)
	}
	return string(decoded)
}

// parseCatalog interpreta líneas "codigo;categoria;nombre". La primera línea se
// descarta si parece cabecera.
func parseCatalog(content string) ([]material, error) {
	var materials []material
	seen := make(map[string]bool)
	for i, line := range strings.Split(content, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, ";")
		if len(fields) < 3 {
			return nil, fmt.Errorf("línea %d: se esperan 3 columnas separadas por ;", i+1)
		}
		code := strings.TrimSpace(fields[0])
		category := strings.TrimSpace(fields[1])
		name := strings.TrimSpace(fields[2])
		if i == 0 && strings.EqualFold(code, "codigo") {
			continue
		}
		if code == "" || name == "" || seen[code] {
			continue
		}
		seen[code] = true
		materials = append(materials, material{code: code, category: category, name: name})
	}
	return materials, nil
}

func sqlEscape(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
