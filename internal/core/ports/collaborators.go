// internal/core/ports/collaborators.go
package ports

import (
	"context"

	"overseerx/internal/core/domain"
)

// Resolver es el port del motor de resolución DNS. Recibe el set completo
// deduplicado (el límite de concurrencia solo tiene sentido sobre el total)
// y retorna un resultado exacto por nombre de entrada.
type Resolver interface {
	// Resolve resuelve todos los subdominios bajo el pool acotado.
	// Una cancelación retorna los resultados ya completados, no un error.
	Resolve(ctx context.Context, subdomains []*domain.Subdomain) []domain.ResolutionResult
}

// Classifier es el port del clasificador de riesgo. Es una función pura
// sobre tablas de rangos de solo lectura: nunca falla, el caso desconocido
// clasifica como HIGH.
type Classifier interface {
	// Classify mapea una IP (e ISP opcional) a su tier. El segundo retorno
	// marca el caso "unknown" (loopback/no-enrutable, split-horizon).
	Classify(ip, isp string) (domain.ThreatTier, bool)
}

// GeoLookup es el port del colaborador de geolocalización. El core lo trata
// estrictamente como dependencia inyectada: acepta una IP y retorna un
// registro o "no encontrado".
type GeoLookup interface {
	// Lookup localiza una IP individual
	Lookup(ctx context.Context, ip string) (*domain.GeoRecord, error)

	// LookupBatch localiza varias IPs, retornando un registro por IP única
	LookupBatch(ctx context.Context, ips []string) map[string]*domain.GeoRecord
}

// ProgressFunc recibe el avance incremental de una etapa (completadas sobre
// total). Permite a un colaborador de UI mostrar progreso en vivo sin
// acoplar el resolver a ninguna interfaz concreta.
type ProgressFunc func(completed, total int)
