// internal/core/usecases/pipeline.go
package usecases

import (
	"context"

	"overseerx/internal/core/domain"
	"overseerx/internal/core/ports"
	"overseerx/internal/platform/logx"
)

// Stage identifica una etapa del pipeline para los hooks de UI.
type Stage string

const (
	StageAggregate Stage = "aggregate"
	StageResolve   Stage = "resolve"
	StageGeo       Stage = "geo"
	StageClassify  Stage = "classify"
)

// StageFunc notifica el inicio de una etapa. Permite a la UI mostrar
// progreso sin acoplar el pipeline a ninguna interfaz de presentación.
type StageFunc func(stage Stage)

// Pipeline orquesta la ejecución completa: agregación CT, resolución DNS,
// geolocalización y clasificación, en ese orden estricto. Cada etapa
// consume el artefacto completo de la anterior; los fallos parciales
// degradan el resultado, nunca lo abortan. Solo un target inválido es
// fatal.
type Pipeline struct {
	aggregator *Aggregator
	resolver   ports.Resolver
	classifier ports.Classifier
	geo        ports.GeoLookup
	logger     logx.Logger
	version    string
	onStage    StageFunc
}

// PipelineOptions configura el pipeline.
type PipelineOptions struct {
	// Aggregator agregador CT ya construido
	Aggregator *Aggregator

	// Resolver motor de resolución DNS
	Resolver ports.Resolver

	// Classifier clasificador de riesgo
	Classifier ports.Classifier

	// Geo colaborador de geolocalización (nil = etapa geo omitida)
	Geo ports.GeoLookup

	// Logger logger compartido
	Logger logx.Logger

	// Version versión del binario, registrada en los metadatos
	Version string

	// OnStage hook opcional de inicio de etapa
	OnStage StageFunc
}

// NewPipeline crea un pipeline con los colaboradores dados.
func NewPipeline(opts PipelineOptions) *Pipeline {
	if opts.Logger == nil {
		opts.Logger = logx.New()
	}

	return &Pipeline{
		aggregator: opts.Aggregator,
		resolver:   opts.Resolver,
		classifier: opts.Classifier,
		geo:        opts.Geo,
		logger:     opts.Logger.With("component", "pipeline"),
		version:    opts.Version,
		onStage:    opts.OnStage,
	}
}

// Run ejecuta el pipeline completo contra el target. Retorna error solo si
// el target no valida; cualquier otro fallo queda registrado dentro del
// ReconResult y la ejecución continúa con lo que haya.
func (p *Pipeline) Run(ctx context.Context, target *domain.Target) (*domain.ReconResult, error) {
	// Único punto de aborto duro: sin target válido no hay ejecución
	if err := target.Validate(); err != nil {
		return nil, err
	}

	result := domain.NewReconResult(target.Root)
	result.Metadata.Version = p.version

	p.logger.Info("starting recon", "target", target.Root, "run_id", result.ID)

	// Etapa 1: agregación CT. Todas las fuentes pueden fallar; el pipeline
	// sigue con un set vacío y lo deja constar.
	p.notifyStage(StageAggregate)
	agg := p.aggregator.Aggregate(ctx, target)

	result.Metadata.SourcesUsed = agg.SourcesUsed
	result.Stats.FailedSources = len(agg.Failures)
	for _, failure := range agg.Failures {
		result.AddWarning(failure.Source, failure.Err.Error())
	}
	// El agregador añade siempre la raíz, así que el tamaño del set no sirve
	// para detectar el modo degradado: lo que cuenta es qué aportaron las fuentes.
	if len(agg.SourcesUsed) == 0 {
		result.AddWarning("aggregator", domain.ErrNoSourcesAvailable.Error())
	} else if agg.Discovered == 0 {
		result.AddWarning("aggregator", domain.ErrNoCTData.Error())
	}

	subdomains := domain.SortedSubdomains(agg.Set)
	result.Stats.Found = len(subdomains)

	// Etapa 2: resolución DNS sobre el set completo deduplicado
	p.notifyStage(StageResolve)
	resolutions := p.resolver.Resolve(ctx, subdomains)

	// Etapa 3: geolocalización batch de las IPs vivas únicas
	p.notifyStage(StageGeo)
	geoRecords := p.lookupGeo(ctx, resolutions)

	// Etapa 4: clasificación y reducción de estadísticas
	p.notifyStage(StageClassify)
	p.classify(result, resolutions, geoRecords)

	result.Finalize()
	p.logger.Info("recon completed",
		"target", target.Root,
		"found", result.Stats.Found,
		"alive", result.Stats.Alive,
		"dead", result.Stats.Dead,
		"duration", result.Metadata.Duration,
	)

	return result, nil
}

// lookupGeo geolocaliza las IPs vivas. Sin colaborador geo la etapa se
// omite y la clasificación trabaja solo con rangos.
func (p *Pipeline) lookupGeo(ctx context.Context, resolutions []domain.ResolutionResult) map[string]*domain.GeoRecord {
	if p.geo == nil {
		return nil
	}

	ips := make([]string, 0, len(resolutions))
	seen := make(map[string]struct{}, len(resolutions))
	for _, res := range resolutions {
		if !res.Alive || res.IP == "" {
			continue
		}
		if _, dup := seen[res.IP]; dup {
			continue
		}
		seen[res.IP] = struct{}{}
		ips = append(ips, res.IP)
	}

	if len(ips) == 0 {
		return nil
	}
	return p.geo.LookupBatch(ctx, ips)
}

// classify construye los HostReport finales y reduce las estadísticas.
func (p *Pipeline) classify(result *domain.ReconResult, resolutions []domain.ResolutionResult, geoRecords map[string]*domain.GeoRecord) {
	uniqueIPs := make(map[string]struct{})
	countries := make(map[string]struct{})

	for _, res := range resolutions {
		report := domain.HostReport{ResolutionResult: res}

		if geo, ok := geoRecords[res.IP]; ok && res.IP != "" {
			report.Geo = geo
			if geo.Found {
				countries[geo.Country] = struct{}{}
			}
		}

		isp := ""
		if report.Geo != nil {
			isp = report.Geo.ISP
		}
		report.Tier, report.Unknown = p.classifier.Classify(res.IP, isp)

		if res.IP != "" {
			uniqueIPs[res.IP] = struct{}{}
		}
		if res.Alive {
			result.Stats.Alive++
		} else {
			result.Stats.Dead++
		}
		if res.Failed() {
			result.Stats.FailedLookups++
		}

		result.Hosts = append(result.Hosts, report)
	}

	result.Stats.UniqueIPs = len(uniqueIPs)
	result.Stats.Countries = len(countries)
}

// notifyStage invoca el hook de etapa si hay uno registrado.
func (p *Pipeline) notifyStage(stage Stage) {
	if p.onStage != nil {
		p.onStage(stage)
	}
}
