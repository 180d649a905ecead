// internal/platform/workerpool/workerpool.go
package workerpool

import (
	"context"
	"sync"
	"time"

	"overseerx/internal/platform/logx"
)

// Task representa una tarea a ejecutar en el worker pool.
type Task interface {
	// Execute ejecuta la tarea
	Execute(ctx context.Context) error

	// Name retorna el nombre de la tarea
	Name() string
}

// TaskResult representa el resultado de una tarea.
type TaskResult struct {
	Task     Task
	Error    error
	Duration time.Duration
}

// Pool gestiona la ejecución concurrente de tareas con un número exacto
// de workers. El total de tareas en vuelo nunca supera Workers: el exceso
// espera en la cola (backpressure), no hay fan-out sin límite.
type Pool struct {
	workers int
	logger  logx.Logger

	taskQueue chan Task
	results   chan TaskResult

	wg      sync.WaitGroup
	started bool
	mu      sync.Mutex
}

// Config configura el worker pool.
type Config struct {
	Workers int
	Logger  logx.Logger
}

// New crea un nuevo worker pool.
func New(cfg Config) *Pool {
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.Logger == nil {
		cfg.Logger = logx.New()
	}

	return &Pool{
		workers:   cfg.Workers,
		logger:    cfg.Logger.With("component", "workerpool"),
		taskQueue: make(chan Task, cfg.Workers*2),
		results:   make(chan TaskResult, cfg.Workers*2),
	}
}

// Start arranca los workers. Los workers terminan cuando la cola se cierra
// (Close) o cuando el contexto se cancela; en ambos casos los resultados ya
// emitidos siguen siendo utilizables.
func (p *Pool) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return
	}
	p.started = true

	p.logger.Debug("starting worker pool", "workers", p.workers)

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(ctx, i)
	}

	// Cerrar results cuando todos los workers terminen, para que el
	// consumidor pueda iterar con range.
	go func() {
		p.wg.Wait()
		close(p.results)
	}()
}

// worker procesa tareas de la cola hasta que se cierre o se cancele.
func (p *Pool) worker(ctx context.Context, id int) {
	defer p.wg.Done()

	for {
		select {
		case <-ctx.Done():
			p.logger.Debug("worker stopped by context", "worker_id", id)
			return

		case task, ok := <-p.taskQueue:
			if !ok {
				return
			}
			p.executeTask(ctx, id, task)
		}
	}
}

// executeTask ejecuta una tarea individual y emite su resultado.
func (p *Pool) executeTask(ctx context.Context, workerID int, task Task) {
	start := time.Now()
	err := task.Execute(ctx)
	duration := time.Since(start)

	p.logger.Debug("task completed",
		"worker_id", workerID,
		"task", task.Name(),
		"duration_ms", duration.Milliseconds(),
		"failed", err != nil,
	)

	select {
	case p.results <- TaskResult{Task: task, Error: err, Duration: duration}:
	case <-ctx.Done():
		// Pool cancelado, descartar resultado
	}
}

// Submit encola una tarea. Bloquea si la cola está llena (backpressure).
// Retorna false si el contexto fue cancelado antes de poder encolar.
func (p *Pool) Submit(ctx context.Context, task Task) bool {
	select {
	case p.taskQueue <- task:
		return true
	case <-ctx.Done():
		return false
	}
}

// Close cierra la cola de tareas. Los workers drenan lo pendiente y el
// canal de resultados se cierra al terminar.
func (p *Pool) Close() {
	close(p.taskQueue)
}

// Results retorna el canal de resultados. Se cierra cuando todos los
// workers han terminado, así el consumidor observa el progreso de forma
// incremental con un range.
func (p *Pool) Results() <-chan TaskResult {
	return p.results
}

// Workers retorna el número de workers del pool.
func (p *Pool) Workers() int {
	return p.workers
}
