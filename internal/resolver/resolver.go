// Package resolver implementa el motor de resolución DNS del pipeline:
// un pool acotado de workers que resuelve el set completo de subdominios
// con timeout por consulta y fallos aislados por nombre.
package resolver

import (
	"context"
	"net"
	"sort"
	"time"

	"overseerx/internal/core/domain"
	"overseerx/internal/core/ports"
	apperrors "overseerx/internal/platform/errors"
	"overseerx/internal/platform/logx"
	"overseerx/internal/platform/workerpool"
)

// LookupFunc resuelve un hostname a sus direcciones IP. Inyectable para
// tests; por defecto usa net.DefaultResolver.
type LookupFunc func(ctx context.Context, host string) ([]net.IP, error)

// Config configura el resolver.
type Config struct {
	// Concurrency número exacto de workers concurrentes. Default: 50.
	// El total de lookups en vuelo nunca supera este límite.
	Concurrency int

	// Timeout por lookup individual. Default: 3s.
	Timeout time.Duration

	// Lookup función de resolución (nil = net.DefaultResolver)
	Lookup LookupFunc

	// OnProgress callback opcional de progreso incremental (completadas, total)
	OnProgress ports.ProgressFunc

	// Logger logger compartido
	Logger logx.Logger
}

// Resolver implementa ports.Resolver sobre un workerpool acotado.
type Resolver struct {
	concurrency int
	timeout     time.Duration
	lookup      LookupFunc
	onProgress  ports.ProgressFunc
	logger      logx.Logger
}

// New crea un resolver con la configuración dada.
func New(cfg Config) *Resolver {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 50
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 3 * time.Second
	}
	if cfg.Lookup == nil {
		cfg.Lookup = systemLookup
	}
	if cfg.Logger == nil {
		cfg.Logger = logx.New()
	}

	return &Resolver{
		concurrency: cfg.Concurrency,
		timeout:     cfg.Timeout,
		lookup:      cfg.Lookup,
		onProgress:  cfg.OnProgress,
		logger:      cfg.Logger.With("component", "resolver"),
	}
}

// lookupTask resuelve un único subdominio. Implementa workerpool.Task.
type lookupTask struct {
	subdomain *domain.Subdomain
	timeout   time.Duration
	lookup    LookupFunc

	result domain.ResolutionResult
}

// Name retorna el nombre de la tarea.
func (t *lookupTask) Name() string {
	return t.subdomain.Name
}

// Execute resuelve el nombre con su propio timeout. Nunca retorna error al
// pool: todo fallo queda clasificado dentro del ResolutionResult, de modo
// que un lookup lento o roto jamás afecta a los demás.
func (t *lookupTask) Execute(ctx context.Context) error {
	lookupCtx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	t.result = resolveOne(lookupCtx, t.lookup, *t.subdomain)
	return nil
}

// Resolve resuelve todos los subdominios bajo el pool acotado y retorna un
// resultado exacto por nombre, ordenados por nombre. Una cancelación global
// conserva lo ya completado: una ejecución cancelada no es una ejecución
// fallida.
func (r *Resolver) Resolve(ctx context.Context, subdomains []*domain.Subdomain) []domain.ResolutionResult {
	total := len(subdomains)
	if total == 0 {
		return []domain.ResolutionResult{}
	}

	r.logger.Info("starting resolution",
		"subdomains", total,
		"concurrency", r.concurrency,
		"timeout", r.timeout,
	)

	pool := workerpool.New(workerpool.Config{
		Workers: r.concurrency,
		Logger:  r.logger,
	})
	pool.Start(ctx)

	// Alimentar la cola en goroutine aparte: Submit aplica backpressure
	// cuando la cola se llena.
	go func() {
		defer pool.Close()
		for _, sub := range subdomains {
			task := &lookupTask{
				subdomain: sub,
				timeout:   r.timeout,
				lookup:    r.lookup,
			}
			if !pool.Submit(ctx, task) {
				return // contexto cancelado: dejar de encolar
			}
		}
	}()

	// Consumir resultados de forma incremental para el progreso en vivo
	results := make([]domain.ResolutionResult, 0, total)
	completed := 0
	for taskResult := range pool.Results() {
		task := taskResult.Task.(*lookupTask)
		results = append(results, task.result)

		completed++
		if r.onProgress != nil {
			r.onProgress(completed, total)
		}
	}

	// Asociación exacta resultado-nombre; orden estable por nombre
	sort.Slice(results, func(i, j int) bool {
		return results[i].Subdomain.Name < results[j].Subdomain.Name
	})

	alive := 0
	for _, res := range results {
		if res.Alive {
			alive++
		}
	}

	r.logger.Info("resolution completed",
		"resolved", len(results),
		"alive", alive,
		"dead", len(results)-alive,
	)

	return results
}

// resolveOne ejecuta un lookup individual y clasifica su desenlace.
func resolveOne(ctx context.Context, lookup LookupFunc, sub domain.Subdomain) domain.ResolutionResult {
	result := domain.ResolutionResult{Subdomain: sub}

	ips, err := lookup(ctx, sub.Name)
	if err != nil {
		result.Error = classifyLookupError(err)
		return result
	}

	ip := firstIPv4(ips)
	if ip == nil {
		result.Error = domain.ErrorKindNXDomain
		return result
	}

	// La IP se conserva siempre, incluso no enrutable, para auditoría
	result.IP = ip.String()

	// Loopback/link-local/unspecified: señal de split-horizon o DNS
	// solo-VPN. Se marca aparte y cuenta como muerto a efectos de mapa.
	if ip.IsLoopback() || ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() || ip.IsUnspecified() {
		result.NonRoutable = true
		return result
	}

	result.Alive = true
	return result
}

// classifyLookupError mapea un error de resolución a su ErrorKind.
func classifyLookupError(err error) domain.ErrorKind {
	var dnsErr *net.DNSError
	if apperrors.As(err, &dnsErr) {
		if dnsErr.IsNotFound {
			return domain.ErrorKindNXDomain
		}
		if dnsErr.IsTimeout {
			return domain.ErrorKindTimeout
		}
		return domain.ErrorKindNetwork
	}

	if err == context.DeadlineExceeded || err == context.Canceled {
		return domain.ErrorKindTimeout
	}

	if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
		return domain.ErrorKindTimeout
	}

	return domain.ErrorKindNetwork
}

// firstIPv4 retorna la primera dirección IPv4 de la respuesta, o la primera
// dirección disponible si solo hay IPv6.
func firstIPv4(ips []net.IP) net.IP {
	for _, ip := range ips {
		if v4 := ip.To4(); v4 != nil {
			return v4
		}
	}
	if len(ips) > 0 {
		return ips[0]
	}
	return nil
}

// systemLookup resuelve registros A con el resolver del sistema.
func systemLookup(ctx context.Context, host string) ([]net.IP, error) {
	addrs, err := net.DefaultResolver.LookupIPAddr(ctx, host)
	if err != nil {
		return nil, err
	}
	ips := make([]net.IP, 0, len(addrs))
	for _, addr := range addrs {
		ips = append(ips, addr.IP)
	}
	return ips, nil
}
