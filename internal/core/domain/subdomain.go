// internal/core/domain/subdomain.go
package domain

import (
	"fmt"
	"sort"
	"strings"
)

// Subdomain representa un nombre descubierto dentro de la jerarquía del target.
// Es único por Name dentro de una ejecución; Sources acumula procedencia y
// nunca se sobreescribe.
type Subdomain struct {
	// Name es el hostname normalizado (minúsculas, sin wildcard, sin punto final)
	Name string `json:"name"`

	// Sources lista las fuentes CT que descubrieron este nombre
	Sources []string `json:"sources"`
}

// NewSubdomain crea un subdominio normalizado con su fuente de origen.
func NewSubdomain(name, source string) *Subdomain {
	s := &Subdomain{
		Name:    NormalizeHostname(name),
		Sources: []string{},
	}
	s.AddSource(source)
	return s
}

// AddSource añade una fuente a la lista de procedencia sin duplicados.
func (s *Subdomain) AddSource(source string) {
	if source == "" {
		return
	}
	for _, existing := range s.Sources {
		if existing == source {
			return
		}
	}
	s.Sources = append(s.Sources, source)
}

// Merge combina la procedencia de otro subdominio con el mismo nombre.
func (s *Subdomain) Merge(other *Subdomain) error {
	if other == nil || other.Name != s.Name {
		return fmt.Errorf("cannot merge subdomains with different names: %q != %q", s.Name, otherName(other))
	}
	for _, src := range other.Sources {
		s.AddSource(src)
	}
	return nil
}

// IsValid verifica que el subdominio tenga datos mínimos.
func (s *Subdomain) IsValid() bool {
	return s.Name != "" && !strings.Contains(s.Name, "*")
}

// String retorna una representación legible.
func (s *Subdomain) String() string {
	return fmt.Sprintf("%s (sources: %s)", s.Name, strings.Join(s.Sources, ","))
}

func otherName(s *Subdomain) string {
	if s == nil {
		return "<nil>"
	}
	return s.Name
}

// NormalizeHostname normaliza un hostname crudo de un log CT a su forma canónica:
// minúsculas, sin espacios, sin marcador wildcard `*.` y sin punto final.
func NormalizeHostname(raw string) string {
	h := strings.ToLower(strings.TrimSpace(raw))
	h = strings.TrimSuffix(h, ".")
	h = strings.TrimPrefix(h, "*.")
	return h
}

// SortedSubdomains retorna los subdominios de un set ordenados por nombre.
// Los stages posteriores imponen su propio orden; el set en sí no tiene orden.
func SortedSubdomains(set map[string]*Subdomain) []*Subdomain {
	out := make([]*Subdomain, 0, len(set))
	for _, s := range set {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
