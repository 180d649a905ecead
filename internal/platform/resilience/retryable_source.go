// internal/platform/resilience/retryable_source.go
package resilience

import (
	"context"
	"fmt"
	"math"
	"time"

	"overseerx/internal/core/ports"
	"overseerx/internal/platform/logx"
)

// RetryableSource envuelve un ports.Source con reintentos y circuit breaker.
// Los clientes CT emiten exactamente una petición por Fetch; la política de
// reintentos del agregador vive en este wrapper.
type RetryableSource struct {
	source            ports.Source
	maxRetries        int
	backoffBase       time.Duration
	backoffMultiplier float64
	circuitBreaker    *CircuitBreaker
	logger            logx.Logger
}

// NewRetryableSource crea un nuevo RetryableSource.
func NewRetryableSource(
	source ports.Source,
	maxRetries int,
	backoffBase time.Duration,
	backoffMultiplier float64,
	cb *CircuitBreaker,
	logger logx.Logger,
) *RetryableSource {
	if maxRetries < 0 {
		maxRetries = 0
	}
	if backoffBase <= 0 {
		backoffBase = 1 * time.Second
	}
	if backoffMultiplier < 1.0 {
		backoffMultiplier = 2.0
	}

	return &RetryableSource{
		source:            source,
		maxRetries:        maxRetries,
		backoffBase:       backoffBase,
		backoffMultiplier: backoffMultiplier,
		circuitBreaker:    cb,
		logger:            logger.With("component", "retryable-source", "source", source.Name()),
	}
}

// Name retorna el nombre de la fuente subyacente.
func (r *RetryableSource) Name() string {
	return r.source.Name()
}

// Fetch ejecuta la fuente con retry y circuit breaker. Cada intento fallido
// se registra en el breaker, de modo que una fuente que falla de forma
// sostenida abre el circuito y corta los reintentos restantes.
func (r *RetryableSource) Fetch(ctx context.Context, domain string) ([]string, error) {
	var lastErr error

	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		if r.circuitBreaker != nil && !r.circuitBreaker.Allow() {
			r.logger.Warn("circuit breaker open, skipping source", "attempt", attempt)
			return nil, fmt.Errorf("source %s: %w", r.source.Name(), ErrCircuitOpen)
		}

		if attempt > 0 {
			r.logger.Info("retrying source", "attempt", attempt, "max_retries", r.maxRetries)
		}

		hostnames, err := r.source.Fetch(ctx, domain)
		if err == nil {
			if r.circuitBreaker != nil {
				r.circuitBreaker.RecordSuccess()
			}
			return hostnames, nil
		}

		lastErr = err
		if r.circuitBreaker != nil {
			r.circuitBreaker.RecordFailure()
		}
		r.logger.Warn("source fetch failed", "attempt", attempt+1, "error", err.Error())

		if attempt >= r.maxRetries {
			break
		}

		if ctx.Err() != nil {
			return nil, fmt.Errorf("context cancelled after %d attempts: %w", attempt+1, ctx.Err())
		}

		backoff := r.calculateBackoff(attempt)
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return nil, fmt.Errorf("context cancelled during backoff: %w", ctx.Err())
		}
	}

	return nil, fmt.Errorf("source %s failed after %d attempts: %w", r.source.Name(), r.maxRetries+1, lastErr)
}

// Close cierra la fuente subyacente.
func (r *RetryableSource) Close() error {
	return r.source.Close()
}

// calculateBackoff calcula el delay de backoff exponencial, con tope de 1 minuto.
func (r *RetryableSource) calculateBackoff(attempt int) time.Duration {
	backoff := time.Duration(float64(r.backoffBase) * math.Pow(r.backoffMultiplier, float64(attempt)))

	const maxBackoff = 60 * time.Second
	if backoff > maxBackoff {
		backoff = maxBackoff
	}
	return backoff
}
