// internal/platform/registry/registry.go
package registry

import (
	"fmt"
	"sort"
	"sync"

	"overseerx/internal/core/ports"
	"overseerx/internal/platform/logx"
)

// SourceRegistry gestiona el registro y construcción de fuentes CT.
// Implementa el patrón Registry + Factory para desacoplar la creación de
// fuentes del código de aplicación: cada fuente se auto-registra en init().
type SourceRegistry struct {
	mu        sync.RWMutex
	factories map[string]SourceFactory
	metadata  map[string]ports.SourceMetadata
	logger    logx.Logger
}

// SourceFactory es una función que crea una instancia de Source.
type SourceFactory func(cfg ports.SourceConfig, logger logx.Logger) (ports.Source, error)

var (
	globalRegistry *SourceRegistry
	once           sync.Once
)

// Global retorna la instancia global del registry.
func Global() *SourceRegistry {
	once.Do(func() {
		globalRegistry = NewSourceRegistry(logx.New())
	})
	return globalRegistry
}

// NewSourceRegistry crea un nuevo registry de fuentes.
func NewSourceRegistry(logger logx.Logger) *SourceRegistry {
	return &SourceRegistry{
		factories: make(map[string]SourceFactory),
		metadata:  make(map[string]ports.SourceMetadata),
		logger:    logger.With("component", "source-registry"),
	}
}

// Register registra una factory con su metadata.
// Típicamente llamado desde init() de cada package de fuente.
func (r *SourceRegistry) Register(name string, factory SourceFactory, meta ports.SourceMetadata) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if name == "" {
		return fmt.Errorf("source name cannot be empty")
	}
	if factory == nil {
		return fmt.Errorf("factory cannot be nil for source %s", name)
	}
	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("source %s is already registered", name)
	}

	r.factories[name] = factory
	r.metadata[name] = meta
	r.logger.Debug("source registered", "name", name)

	return nil
}

// Build construye todas las fuentes habilitadas según la configuración,
// ordenadas por prioridad descendente. Una fuente que no pueda construirse
// se omite con warning: el fallo total solo ocurre si no queda ninguna.
func (r *SourceRegistry) Build(configs map[string]ports.SourceConfig, logger logx.Logger) ([]ports.Source, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if configs == nil {
		return nil, fmt.Errorf("configs cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	type prioritized struct {
		name   string
		config ports.SourceConfig
	}

	candidates := make([]prioritized, 0, len(configs))
	for name, cfg := range configs {
		if !cfg.Enabled {
			continue
		}
		if _, exists := r.factories[name]; !exists {
			r.logger.Warn("source not registered, skipping", "source", name)
			continue
		}
		if cfg.Priority < 0 {
			cfg.Priority = 5
		}
		candidates = append(candidates, prioritized{name: name, config: cfg})
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].config.Priority > candidates[j].config.Priority
	})

	sources := make([]ports.Source, 0, len(candidates))
	for _, c := range candidates {
		source, err := r.factories[c.name](c.config, logger)
		if err != nil {
			r.logger.Warn("failed to build source", "source", c.name, "error", err.Error())
			continue
		}
		sources = append(sources, source)
		r.logger.Debug("source built", "name", c.name, "priority", c.config.Priority)
	}

	if len(sources) == 0 && len(configs) > 0 {
		return nil, fmt.Errorf("no sources could be built")
	}

	logger.Info("sources built", "count", len(sources), "requested", len(configs))
	return sources, nil
}

// List retorna los nombres de todas las fuentes registradas.
func (r *SourceRegistry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetMetadata retorna el metadata de una fuente.
func (r *SourceRegistry) GetMetadata(name string) (ports.SourceMetadata, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	meta, exists := r.metadata[name]
	return meta, exists
}

// IsRegistered verifica si una fuente está registrada.
func (r *SourceRegistry) IsRegistered(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.factories[name]
	return exists
}

// Clear elimina todas las fuentes registradas (útil para testing).
func (r *SourceRegistry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.factories = make(map[string]SourceFactory)
	r.metadata = make(map[string]ports.SourceMetadata)
}
