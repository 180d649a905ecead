// internal/testutil/fixtures.go
package testutil

import (
	"context"
	"sync"

	"overseerx/internal/core/domain"
)

// NewTarget crea un target válido de prueba ya validado.
func NewTarget(root string) *domain.Target {
	return &domain.Target{Root: root}
}

// NewSubdomainSet construye un set de subdominios con un único source.
func NewSubdomainSet(source string, names ...string) map[string]*domain.Subdomain {
	set := make(map[string]*domain.Subdomain, len(names))
	for _, name := range names {
		set[name] = domain.NewSubdomain(name, source)
	}
	return set
}

// StubSource es una implementación de ports.Source controlable desde tests.
type StubSource struct {
	SourceName string
	Hostnames  []string
	Err        error

	// FetchFunc, si se define, reemplaza el comportamiento por defecto
	FetchFunc func(ctx context.Context, domain string) ([]string, error)

	mu    sync.Mutex
	calls int
}

// Name retorna el nombre de la fuente.
func (s *StubSource) Name() string {
	if s.SourceName == "" {
		return "stub"
	}
	return s.SourceName
}

// Fetch retorna los hostnames o el error configurados.
func (s *StubSource) Fetch(ctx context.Context, domain string) ([]string, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()

	if s.FetchFunc != nil {
		return s.FetchFunc(ctx, domain)
	}
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Hostnames, nil
}

// Close no tiene recursos que liberar.
func (s *StubSource) Close() error {
	return nil
}

// Calls retorna cuántas veces se invocó Fetch.
func (s *StubSource) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}
