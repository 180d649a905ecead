// internal/platform/ui/presenter.go
package ui

import "time"

// Presenter define la interfaz para presentar el progreso de la ejecución
// del pipeline de reconocimiento de manera visual e interactiva.
type Presenter interface {
	// Start inicia la presentación con información de la ejecución
	Start(info RunInfo)

	// StageStarted notifica el inicio de una etapa del pipeline
	StageStarted(name, description string)

	// StageFinished notifica la finalización de una etapa
	StageFinished(name string, detail string)

	// ResolveProgress actualiza la barra de progreso de resolución DNS
	ResolveProgress(completed, total int)

	// Info muestra un mensaje informativo
	Info(msg string)

	// Warning muestra una advertencia
	Warning(msg string)

	// Error muestra un error
	Error(msg string)

	// Finish finaliza la presentación con las estadísticas de la ejecución
	Finish(stats RunStats)

	// Close limpia recursos del presenter
	Close() error
}

// RunInfo contiene información inicial de la ejecución.
type RunInfo struct {
	Target  string
	Sources []string
	Workers int
	Version string
}

// RunStats contiene las estadísticas finales de la ejecución.
type RunStats struct {
	Found     int
	Alive     int
	Dead      int
	UniqueIPs int
	Countries int
	Duration  time.Duration

	// TierCounts hosts vivos por tier, en orden HIGH, MEDIUM, LOW, SAFE
	TierCounts map[string]int

	Warnings int
	Errors   int
}
