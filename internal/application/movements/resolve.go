package movements

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/sisas-salud/sisas-api/internal/domain"
	"github.com/sisas-salud/sisas-api/internal/domain/entity"
	"github.com/sisas-salud/sisas-api/internal/domain/repository"
)

// foldName normaliza un nombre de municipio para comparación: NFKD, sin marcas
// diacríticas, minúsculas y sin espacios en los extremos. "Sololá" y "SOLOLA "
// producen la misma clave.
func foldName(name string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, name)
	if err != nil {
		folded = name
	}
	return strings.ToLower(strings.TrimSpace(folded))
}

// resolveMunicipality resuelve el municipio fallback por nombre, en dos fases
// antes de cualquier transacción con locks:
//  1. coincidencia exacta case-insensitive,
//  2. barrido insensible a acentos sobre todos los nombres existentes,
//  3. si no existe, se crea un municipio nuevo con el nombre recibido.
//
// Así la transacción del motor solo hace lookups determinísticos por id y no
// se generan municipios casi-duplicados ("Sololá" vs "SOLOLA").
func resolveMunicipality(repo repository.MunicipalityRepository, name string) (*entity.Municipality, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrMunicipalityMissing
	}

	if found, err := repo.GetByNameFold(name); err != nil {
		return nil, err
	} else if found != nil {
		return found, nil
	}

	key := foldName(name)
	all, err := repo.List()
	if err != nil {
		return nil, err
	}
	for _, existing := range all {
		if foldName(existing.Name) == key {
			return existing, nil
		}
	}

	created := &entity.Municipality{Name: name}
	if err := repo.Create(created); err != nil {
		return nil, err
	}
	return created, nil
}
