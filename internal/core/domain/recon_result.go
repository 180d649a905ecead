// internal/core/domain/recon_result.go
package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// HostReport es la fila final por subdominio: resolución + geo + tier.
type HostReport struct {
	ResolutionResult

	// Geo es el registro del colaborador de geolocalización (nil si no hay)
	Geo *GeoRecord `json:"geo,omitempty"`

	// Tier es la clasificación de riesgo asignada (inmutable tras asignación)
	Tier ThreatTier `json:"tier"`

	// Unknown marca el caso loopback/no-enrutable: probable split-horizon,
	// se preserva como flag distinto del tier (no se reclasifica en silencio)
	Unknown bool `json:"unknown,omitempty"`
}

// ReconStats son las estadísticas agregadas de una ejecución.
type ReconStats struct {
	// Found número de subdominios únicos agregados desde los logs CT
	Found int `json:"found"`

	// Alive número de nombres que resolvieron a una IP enrutable
	Alive int `json:"alive"`

	// Dead número de nombres muertos o no enrutables
	Dead int `json:"dead"`

	// UniqueIPs cardinalidad del set de IPs distintas
	UniqueIPs int `json:"unique_ips"`

	// Countries cardinalidad del set de países distintos (desde GeoRecords)
	Countries int `json:"countries"`

	// FailedSources cuántas fuentes CT fallaron (para juzgar completitud)
	FailedSources int `json:"failed_sources"`

	// FailedLookups cuántas resoluciones DNS fallaron
	FailedLookups int `json:"failed_lookups"`
}

// ReconMetadata contiene información sobre la ejecución.
type ReconMetadata struct {
	StartTime   time.Time     `json:"start_time"`
	EndTime     time.Time     `json:"end_time"`
	Duration    time.Duration `json:"duration"`
	SourcesUsed []string      `json:"sources_used"`
	Version     string        `json:"version,omitempty"`
}

// Warning representa una advertencia no crítica durante la ejecución.
type Warning struct {
	Source    string    `json:"source"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Error representa un error aislado y registrado durante la ejecución.
type Error struct {
	Source    string    `json:"source"`
	Message   string    `json:"message"`
	Fatal     bool      `json:"fatal"`
	Timestamp time.Time `json:"timestamp"`
}

// ReconResult es el único artefacto que el core entrega a los consumidores
// (mapa, CSV, UI). Propiedad del pipeline hasta su retorno; después la
// propiedad pasa al caller, que lo consume en solo lectura.
type ReconResult struct {
	// ID identificador único de la ejecución
	ID string `json:"id"`

	// Target dominio raíz objetivo
	Target string `json:"target"`

	// Hosts secuencia ordenada por nombre de resultados con tier asignado
	Hosts []HostReport `json:"hosts"`

	// Stats estadísticas agregadas de la ejecución
	Stats ReconStats `json:"stats"`

	// Metadata información sobre la ejecución
	Metadata ReconMetadata `json:"metadata"`

	// Warnings advertencias no críticas (fuentes degradadas, etc.)
	Warnings []Warning `json:"warnings,omitempty"`

	// Errors errores aislados por fuente/lookup
	Errors []Error `json:"errors,omitempty"`
}

// NewReconResult crea un resultado vacío para el target dado.
func NewReconResult(target string) *ReconResult {
	return &ReconResult{
		ID:     uuid.NewString(),
		Target: target,
		Hosts:  []HostReport{},
		Metadata: ReconMetadata{
			StartTime: time.Now(),
		},
		Warnings: []Warning{},
		Errors:   []Error{},
	}
}

// AddWarning añade una advertencia al resultado.
func (r *ReconResult) AddWarning(source, message string) {
	r.Warnings = append(r.Warnings, Warning{
		Source:    source,
		Message:   message,
		Timestamp: time.Now(),
	})
}

// AddError añade un error aislado al resultado.
func (r *ReconResult) AddError(source, message string, fatal bool) {
	r.Errors = append(r.Errors, Error{
		Source:    source,
		Message:   message,
		Fatal:     fatal,
		Timestamp: time.Now(),
	})
}

// Finalize marca la ejecución como completada y calcula la duración.
func (r *ReconResult) Finalize() {
	r.Metadata.EndTime = time.Now()
	r.Metadata.Duration = r.Metadata.EndTime.Sub(r.Metadata.StartTime)
}

// AliveHosts retorna solo los hosts vivos.
func (r *ReconResult) AliveHosts() []HostReport {
	alive := make([]HostReport, 0, len(r.Hosts))
	for _, h := range r.Hosts {
		if h.Alive {
			alive = append(alive, h)
		}
	}
	return alive
}

// TiersByCount retorna cuántos hosts vivos hay por tier.
func (r *ReconResult) TiersByCount() map[ThreatTier]int {
	counts := make(map[ThreatTier]int)
	for _, h := range r.Hosts {
		if h.Alive {
			counts[h.Tier]++
		}
	}
	return counts
}

// HasErrors indica si hubo errores durante la ejecución.
func (r *ReconResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// Summary retorna un resumen legible del resultado.
func (r *ReconResult) Summary() string {
	return fmt.Sprintf(
		"ReconResult{target=%s, found=%d, alive=%d, dead=%d, warnings=%d, errors=%d, duration=%s}",
		r.Target,
		r.Stats.Found,
		r.Stats.Alive,
		r.Stats.Dead,
		len(r.Warnings),
		len(r.Errors),
		r.Metadata.Duration,
	)
}
