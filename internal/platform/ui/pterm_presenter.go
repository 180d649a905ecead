// internal/platform/ui/pterm_presenter.go
package ui

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/pterm/pterm"
)

// PTermPresenter implementa Presenter usando la biblioteca pterm
// para renderizar spinners, colores y barras de progreso en la terminal.
type PTermPresenter struct {
	mu sync.Mutex

	startTime time.Time

	// Spinner de la etapa activa
	spinner *pterm.SpinnerPrinter

	// Barra de progreso de la resolución DNS
	progressBar *pterm.ProgressbarPrinter
}

// NewPTermPresenter crea una nueva instancia del presenter con pterm.
func NewPTermPresenter() *PTermPresenter {
	return &PTermPresenter{}
}

// Start inicia la presentación mostrando el header de la ejecución.
func (p *PTermPresenter) Start(info RunInfo) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.startTime = time.Now()

	pterm.DefaultHeader.
		WithBackgroundStyle(pterm.NewStyle(pterm.BgCyan)).
		WithTextStyle(pterm.NewStyle(pterm.FgBlack)).
		Println("OverseerX - Passive Attack Surface Recon")

	pterm.Println()

	infoPanel := pterm.DefaultBox.
		WithTitle("Target Information").
		WithTitleTopCenter().
		WithRightPadding(4).
		WithLeftPadding(4).
		WithBoxStyle(pterm.NewStyle(pterm.FgCyan))

	targetInfo := fmt.Sprintf("Target:  %s\n", pterm.Cyan(info.Target))
	targetInfo += fmt.Sprintf("Sources: %s\n", strings.Join(info.Sources, ", "))
	targetInfo += fmt.Sprintf("Workers: %d\n", info.Workers)
	targetInfo += fmt.Sprintf("Version: %s", info.Version)

	infoPanel.Println(targetInfo)
	pterm.Println()
}

// StageStarted muestra un spinner para la etapa que arranca.
func (p *PTermPresenter) StageStarted(name, description string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopSpinnerLocked()
	p.spinner, _ = pterm.DefaultSpinner.
		WithStyle(pterm.NewStyle(pterm.FgCyan)).
		Start(fmt.Sprintf("%s: %s", pterm.Cyan(name), description))
}

// StageFinished cierra el spinner de la etapa con su detalle final.
func (p *PTermPresenter) StageFinished(name string, detail string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.spinner != nil {
		p.spinner.Success(fmt.Sprintf("%s: %s", name, detail))
		p.spinner = nil
	}
	if p.progressBar != nil {
		p.progressBar, _ = p.progressBar.Stop()
		p.progressBar = nil
	}
}

// ResolveProgress alimenta la barra de progreso de resolución. La barra se
// crea perezosamente con el primer tick, cuando el total ya se conoce.
func (p *PTermPresenter) ResolveProgress(completed, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.progressBar == nil {
		p.stopSpinnerLocked()
		p.progressBar, _ = pterm.DefaultProgressbar.
			WithTotal(total).
			WithTitle("Resolving").
			WithShowElapsedTime(true).
			Start()
	}

	if delta := completed - p.progressBar.Current; delta > 0 {
		p.progressBar.Add(delta)
	}
}

// Info muestra un mensaje informativo.
func (p *PTermPresenter) Info(msg string) {
	pterm.Info.Println(msg)
}

// Warning muestra una advertencia.
func (p *PTermPresenter) Warning(msg string) {
	pterm.Warning.Println(msg)
}

// Error muestra un error.
func (p *PTermPresenter) Error(msg string) {
	pterm.Error.Println(msg)
}

// Finish muestra el resumen final de la ejecución.
func (p *PTermPresenter) Finish(stats RunStats) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopSpinnerLocked()
	if p.progressBar != nil {
		p.progressBar, _ = p.progressBar.Stop()
		p.progressBar = nil
	}

	pterm.Println()
	pterm.DefaultSection.Println("Recon Summary")

	bullets := []pterm.BulletListItem{
		{Level: 0, Text: fmt.Sprintf("Subdomains found: %d", stats.Found)},
		{Level: 0, Text: fmt.Sprintf("Alive: %s", pterm.Green(stats.Alive))},
		{Level: 0, Text: fmt.Sprintf("Dead: %s", pterm.Red(stats.Dead))},
		{Level: 0, Text: fmt.Sprintf("Unique IPs: %d", stats.UniqueIPs)},
		{Level: 0, Text: fmt.Sprintf("Countries: %d", stats.Countries)},
		{Level: 0, Text: fmt.Sprintf("Duration: %s", stats.Duration.Round(time.Millisecond))},
	}
	_ = pterm.DefaultBulletList.WithItems(bullets).Render()

	if len(stats.TierCounts) > 0 {
		pterm.Println()
		pterm.Println(
			pterm.Red(fmt.Sprintf("  HIGH: %d", stats.TierCounts["HIGH"])),
			pterm.Yellow(fmt.Sprintf("MEDIUM: %d", stats.TierCounts["MEDIUM"])),
			pterm.Blue(fmt.Sprintf("LOW: %d", stats.TierCounts["LOW"])),
			pterm.Green(fmt.Sprintf("SAFE: %d", stats.TierCounts["SAFE"])),
		)
	}

	if stats.Warnings > 0 {
		pterm.Warning.Printfln("%d warnings during execution", stats.Warnings)
	}
	if stats.Errors > 0 {
		pterm.Error.Printfln("%d errors during execution", stats.Errors)
	}
}

// Close detiene cualquier elemento visual activo.
func (p *PTermPresenter) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopSpinnerLocked()
	if p.progressBar != nil {
		p.progressBar, _ = p.progressBar.Stop()
		p.progressBar = nil
	}
	return nil
}

// stopSpinnerLocked detiene el spinner activo. Requiere mu.
func (p *PTermPresenter) stopSpinnerLocked() {
	if p.spinner != nil {
		_ = p.spinner.Stop()
		p.spinner = nil
	}
}
