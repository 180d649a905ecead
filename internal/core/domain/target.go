// internal/core/domain/target.go
package domain

import (
	"fmt"
	"strings"

	"golang.org/x/net/publicsuffix"

	"overseerx/internal/platform/validator"
)

// Target representa el dominio objetivo del reconocimiento pasivo.
type Target struct {
	// Root es el dominio raíz objetivo, normalizado
	Root string

	// Aliases dominios alternativos considerados dentro del alcance
	Aliases []string

	// ExcludeDomains dominios explícitamente fuera de alcance
	ExcludeDomains []string
}

// NewTarget crea un target para el dominio raíz dado.
func NewTarget(root string) *Target {
	return &Target{
		Root:           validator.NormalizeDomain(root),
		Aliases:        []string{},
		ExcludeDomains: []string{},
	}
}

// Validate verifica que el target sea estructuralmente válido.
// Un target inválido es la única condición fatal del pipeline.
func (t *Target) Validate() error {
	if t.Root == "" {
		return ErrEmptyTarget
	}

	t.Root = validator.NormalizeDomain(t.Root)

	if !validator.IsDomain(t.Root) {
		return fmt.Errorf("%w: %s", ErrInvalidDomain, t.Root)
	}

	// Rechazar sufijos públicos puros (co.uk, com.br): no son un objetivo
	// concreto y harían el scope ilimitado.
	if suffix, _ := publicsuffix.PublicSuffix(t.Root); suffix == t.Root {
		return fmt.Errorf("%w: %s is a public suffix, not a registrable domain", ErrInvalidDomain, t.Root)
	}

	return nil
}

// IsInScope verifica si un hostname pertenece al target o a uno de sus alias.
// El match es por sufijo en frontera de label: notexample.com nunca hace
// match con example.com.
func (t *Target) IsInScope(hostname string) bool {
	hostname = validator.NormalizeDomain(hostname)
	if hostname == "" {
		return false
	}

	for _, excluded := range t.ExcludeDomains {
		if hostname == excluded || strings.HasSuffix(hostname, "."+excluded) {
			return false
		}
	}

	if hostname == t.Root || strings.HasSuffix(hostname, "."+t.Root) {
		return true
	}

	for _, alias := range t.Aliases {
		if hostname == alias || strings.HasSuffix(hostname, "."+alias) {
			return true
		}
	}

	return false
}

// AddAlias añade un dominio alternativo al alcance, sin duplicados.
func (t *Target) AddAlias(domain string) {
	domain = validator.NormalizeDomain(domain)
	if domain == "" || domain == t.Root {
		return
	}
	for _, a := range t.Aliases {
		if a == domain {
			return
		}
	}
	t.Aliases = append(t.Aliases, domain)
}

// AddExclusion añade un dominio a la lista de exclusión, sin duplicados.
func (t *Target) AddExclusion(domain string) {
	domain = validator.NormalizeDomain(domain)
	if domain == "" {
		return
	}
	for _, ex := range t.ExcludeDomains {
		if ex == domain {
			return
		}
	}
	t.ExcludeDomains = append(t.ExcludeDomains, domain)
}

// String retorna una representación legible del target.
func (t *Target) String() string {
	return fmt.Sprintf("Target{root=%s, aliases=%d, exclusions=%d}", t.Root, len(t.Aliases), len(t.ExcludeDomains))
}
