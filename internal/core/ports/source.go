// internal/core/ports/source.go
package ports

import (
	"context"
	"time"
)

// Source es el port primario para los clientes de índices CT.
// Contrato: una invocación de Fetch emite exactamente una petición saliente
// y retorna los hostnames crudos tal como los publica el índice; la política
// de reintentos vive en la capa de agregación, no aquí. Datos malformados
// producen slice vacío más error, nunca un panic.
type Source interface {
	// Name retorna el nombre único de la fuente (ej: "crtsh", "certspotter")
	Name() string

	// Fetch consulta el índice CT para el dominio y retorna hostnames crudos
	Fetch(ctx context.Context, domain string) ([]string, error)

	// Close libera recursos utilizados por la fuente
	Close() error
}

// SourceConfig contiene la configuración específica de una fuente.
type SourceConfig struct {
	// Enabled indica si la fuente está habilitada
	Enabled bool

	// Timeout tiempo máximo por consulta
	Timeout time.Duration

	// Retries número de reintentos aplicados por el agregador
	Retries int

	// RateLimit límite de peticiones por segundo (0 = sin límite)
	RateLimit float64

	// Priority prioridad de ejecución (mayor = más prioritario)
	Priority int
}

// DefaultSourceConfig retorna una configuración por defecto.
func DefaultSourceConfig() SourceConfig {
	return SourceConfig{
		Enabled:   true,
		Timeout:   30 * time.Second,
		Retries:   2,
		RateLimit: 0,
		Priority:  5,
	}
}

// SourceMetadata contiene metadatos sobre una fuente registrada.
type SourceMetadata struct {
	Name        string
	Description string

	// Endpoint documenta el índice consultado
	Endpoint string

	// RequiresAuth indica si la fuente necesita credenciales
	RequiresAuth bool

	// Priority prioridad por defecto
	Priority int
}
