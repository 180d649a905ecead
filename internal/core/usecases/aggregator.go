// internal/core/usecases/aggregator.go
package usecases

import (
	"context"
	"sync"
	"time"

	"overseerx/internal/core/domain"
	"overseerx/internal/core/ports"
	"overseerx/internal/platform/logx"
	"overseerx/internal/platform/resilience"
	"overseerx/internal/platform/validator"
)

// Aggregator coordina la consulta concurrente a todas las fuentes CT y
// consolida los hostnames crudos en un set canónico de subdominios.
// El merge es conmutativo e idempotente: cualquier orden de finalización
// de las fuentes produce el mismo set final.
type Aggregator struct {
	sources    []ports.Source
	logger     logx.Logger
	timeout    time.Duration
	maxWorkers int
}

// AggregatorOptions configura el agregador.
type AggregatorOptions struct {
	// Sources fuentes CT ya construidas desde el registry
	Sources []ports.Source

	// Logger logger compartido
	Logger logx.Logger

	// SourceTimeout tiempo máximo por fuente (incluye reintentos)
	SourceTimeout time.Duration

	// MaxWorkers límite de fuentes consultadas a la vez (0 = todas)
	MaxWorkers int

	// MaxRetries reintentos por fuente. La política de reintentos vive en
	// esta capa: los clientes emiten exactamente una petición por Fetch.
	MaxRetries int

	// SourceRetries reintentos específicos por nombre de fuente; las fuentes
	// sin entrada usan MaxRetries
	SourceRetries map[string]int

	// BackoffBase base del backoff exponencial entre reintentos
	BackoffBase time.Duration

	// BackoffMultiplier factor del backoff exponencial (mínimo 1.0)
	BackoffMultiplier float64

	// CircuitBreakerEnabled activa un circuit breaker por fuente
	CircuitBreakerEnabled bool
}

// SourceFailure registra el fallo aislado de una fuente.
type SourceFailure struct {
	Source string
	Err    error
}

// AggregateResult es la salida del agregador: el set deduplicado más el
// detalle de qué fuentes respondieron y cuáles fallaron.
type AggregateResult struct {
	// Set subdominios únicos por nombre, con procedencia fusionada
	Set map[string]*domain.Subdomain

	// SourcesUsed nombres de todas las fuentes consultadas
	SourcesUsed []string

	// Discovered subdominios aportados por las fuentes, antes de que el
	// agregador añada la raíz. Cero significa que ningún índice entregó datos.
	Discovered int

	// Failures fallos aislados por fuente (no abortan la agregación)
	Failures []SourceFailure
}

// NewAggregator crea un agregador. Cada fuente con reintentos configurados
// (los suyos propios o el default global) se envuelve con
// resilience.RetryableSource (y circuit breaker opcional).
func NewAggregator(opts AggregatorOptions) *Aggregator {
	if opts.Logger == nil {
		opts.Logger = logx.New()
	}
	if opts.SourceTimeout <= 0 {
		opts.SourceTimeout = 30 * time.Second
	}
	if opts.BackoffBase <= 0 {
		opts.BackoffBase = 2 * time.Second
	}
	if opts.BackoffMultiplier < 1.0 {
		opts.BackoffMultiplier = 2.0
	}

	sources := make([]ports.Source, 0, len(opts.Sources))
	for _, src := range opts.Sources {
		retries := opts.MaxRetries
		if r, ok := opts.SourceRetries[src.Name()]; ok {
			retries = r
		}

		if retries <= 0 && !opts.CircuitBreakerEnabled {
			sources = append(sources, src)
			continue
		}

		var cb *resilience.CircuitBreaker
		if opts.CircuitBreakerEnabled {
			cb = resilience.NewCircuitBreaker(0, 0, 0) // defaults
		}
		sources = append(sources, resilience.NewRetryableSource(
			src, retries, opts.BackoffBase, opts.BackoffMultiplier, cb, opts.Logger,
		))
	}

	return &Aggregator{
		sources:    sources,
		logger:     opts.Logger.With("component", "aggregator"),
		timeout:    opts.SourceTimeout,
		maxWorkers: opts.MaxWorkers,
	}
}

// Aggregate consulta todas las fuentes en paralelo y retorna el set
// canónico. El fallo de una fuente queda aislado: nunca aborta a las demás.
// Si todas fallan retorna un set vacío con los fallos registrados; el
// pipeline sigue y reporta un resultado de solo estadísticas.
func (a *Aggregator) Aggregate(ctx context.Context, target *domain.Target) AggregateResult {
	result := AggregateResult{
		Set:         make(map[string]*domain.Subdomain),
		SourcesUsed: make([]string, 0, len(a.sources)),
		Failures:    []SourceFailure{},
	}

	if len(a.sources) == 0 {
		a.logger.Warn("no ct sources configured")
		return result
	}

	type sourceOutput struct {
		name      string
		hostnames []string
		err       error
	}

	maxWorkers := a.maxWorkers
	if maxWorkers <= 0 {
		maxWorkers = len(a.sources)
	}
	sem := make(chan struct{}, maxWorkers)

	outputs := make(chan sourceOutput, len(a.sources))
	var wg sync.WaitGroup

	for _, source := range a.sources {
		wg.Add(1)
		go func(src ports.Source) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			fetchCtx, cancel := context.WithTimeout(ctx, a.timeout)
			defer cancel()

			hostnames, err := src.Fetch(fetchCtx, target.Root)
			outputs <- sourceOutput{name: src.Name(), hostnames: hostnames, err: err}
		}(source)
	}

	wg.Wait()
	close(outputs)

	// Merge conmutativo: el orden de llegada es irrelevante
	for out := range outputs {
		result.SourcesUsed = append(result.SourcesUsed, out.name)

		if out.err != nil {
			a.logger.Warn("ct source failed", "source", out.name, "error", out.err.Error())
			result.Failures = append(result.Failures, SourceFailure{Source: out.name, Err: out.err})
			// Una fuente puede fallar y aun así haber entregado parciales
		}

		accepted := 0
		for _, raw := range out.hostnames {
			if a.mergeHostname(result.Set, raw, out.name, target) {
				accepted++
			}
		}

		a.logger.Debug("source merged",
			"source", out.name,
			"raw", len(out.hostnames),
			"accepted", accepted,
		)
	}

	result.Discovered = len(result.Set)

	// El dominio raíz también forma parte de la superficie a resolver
	if target.Root != "" {
		if existing, ok := result.Set[target.Root]; ok {
			existing.AddSource("target")
		} else {
			result.Set[target.Root] = domain.NewSubdomain(target.Root, "target")
		}
	}

	a.logger.Info("aggregation completed",
		"target", target.Root,
		"unique_subdomains", len(result.Set),
		"sources", len(result.SourcesUsed),
		"failed_sources", len(result.Failures),
	)

	return result
}

// mergeHostname normaliza un hostname crudo y lo incorpora al set si es
// válido y está en scope. Retorna true si fue aceptado.
func (a *Aggregator) mergeHostname(set map[string]*domain.Subdomain, raw, source string, target *domain.Target) bool {
	name := domain.NormalizeHostname(raw)
	if name == "" {
		return false
	}

	// Descartar texto libre y tokens que no son hostnames
	if !validator.IsHostname(name) {
		return false
	}

	// Solo el target o nombres bajo él, con match en frontera de label
	if !target.IsInScope(name) {
		return false
	}

	if existing, ok := set[name]; ok {
		existing.AddSource(source)
		return true
	}

	set[name] = domain.NewSubdomain(name, source)
	return true
}
