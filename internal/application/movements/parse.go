package movements

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/sisas-salud/sisas-api/internal/domain"
)

// parseInt acepta los formatos en que los clientes mandan ids y cantidades:
// número JSON, string numérico ("12", " 12 ", "12.0") o json.Number.
func parseInt(v any) (int64, error) {
	switch n := v.(type) {
	case nil:
		return 0, domain.ErrInvalidInput
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case float64:
		if n != math.Trunc(n) {
			return 0, domain.ErrInvalidInput
		}
		return int64(n), nil
	case json.Number:
		return parseIntString(n.String())
	case string:
		return parseIntString(n)
	default:
		return 0, domain.ErrInvalidInput
	}
}

func parseIntString(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, domain.ErrInvalidInput
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	// "12.0" llega como string desde algunos formularios
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) {
		return 0, domain.ErrInvalidInput
	}
	return int64(f), nil
}

// parsePositiveID parsea un id que debe ser entero positivo.
func parsePositiveID(v any) (int64, error) {
	id, err := parseInt(v)
	if err != nil || id <= 0 {
		return 0, domain.ErrInvalidReference
	}
	return id, nil
}

// parseOptionalID parsea un id opcional: nil o string vacío devuelven (nil, nil).
func parseOptionalID(v any) (*int64, error) {
	switch n := v.(type) {
	case nil:
		return nil, nil
	case string:
		if strings.TrimSpace(n) == "" {
			return nil, nil
		}
	}
	id, err := parsePositiveID(v)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// parseQuantity parsea una cantidad que debe ser entero mayor a cero.
func parseQuantity(v any) (int64, error) {
	qty, err := parseInt(v)
	if err != nil || qty <= 0 {
		return 0, domain.ErrInvalidQuantity
	}
	return qty, nil
}
