// Package geo implementa el colaborador de geolocalización sobre la API
// gratuita de ip-api.com. Soporta lookups individuales y por lotes, con
// caché TTL y pacing entre lotes para respetar los límites del servicio.
package geo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"overseerx/internal/core/domain"
	"overseerx/internal/platform/cache"
	"overseerx/internal/platform/errors"
	"overseerx/internal/platform/httpclient"
	"overseerx/internal/platform/logx"
	"overseerx/internal/platform/rate"
)

const (
	singleEndpoint = "http://ip-api.com/json/%s"
	batchEndpoint  = "http://ip-api.com/batch"

	// Límites del tier gratuito de ip-api.com
	batchSize       = 100
	batchesPerSec   = 0.67 // ~1 lote cada 1.5s
	defaultCacheTTL = 1 * time.Hour
)

// Client implementa ports.GeoLookup contra ip-api.com.
type Client struct {
	http    *httpclient.Client
	limiter *rate.Limiter
	cache   cache.Cache
	ttl     time.Duration
	logger  logx.Logger
}

// Config configura el cliente geo.
type Config struct {
	// Timeout por petición HTTP. Default: 10s.
	Timeout time.Duration

	// CacheTTL tiempo de vida de cada registro en caché. Default: 1h.
	CacheTTL time.Duration

	// CacheSize capacidad de la caché LRU. Default: 4096 registros.
	CacheSize int

	// Logger logger compartido
	Logger logx.Logger
}

// New crea un cliente geo con la configuración dada.
func New(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = defaultCacheTTL
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = 4096
	}
	if cfg.Logger == nil {
		cfg.Logger = logx.New()
	}

	httpCfg := httpclient.DefaultConfig()
	httpCfg.Timeout = cfg.Timeout

	return &Client{
		http:    httpclient.New(httpCfg, cfg.Logger),
		limiter: rate.New(batchesPerSec, 1),
		cache:   cache.NewMemoryCache(cfg.CacheSize),
		ttl:     cfg.CacheTTL,
		logger:  cfg.Logger.With("component", "geo"),
	}
}

// apiRecord es el esquema de respuesta de ip-api.com.
type apiRecord struct {
	Query       string  `json:"query"`
	Status      string  `json:"status"`
	Country     string  `json:"country"`
	CountryCode string  `json:"countryCode"`
	RegionName  string  `json:"regionName"`
	City        string  `json:"city"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	ISP         string  `json:"isp"`
	Org         string  `json:"org"`
	AS          string  `json:"as"`
}

// toDomain convierte un registro de la API al modelo de dominio.
func (r apiRecord) toDomain() *domain.GeoRecord {
	if r.Status != "success" {
		return &domain.GeoRecord{IP: r.Query, Found: false}
	}
	return &domain.GeoRecord{
		IP:          r.Query,
		Country:     r.Country,
		CountryCode: r.CountryCode,
		Region:      r.RegionName,
		City:        r.City,
		Lat:         r.Lat,
		Lon:         r.Lon,
		ISP:         r.ISP,
		Org:         r.Org,
		ASNumber:    r.AS,
		Found:       true,
	}
}

// Lookup localiza una única IP. Fallos de localización (status != success)
// no son errores: retornan un registro con Found=false y error
// ErrGeoNotFound para quien quiera distinguirlo.
func (c *Client) Lookup(ctx context.Context, ip string) (*domain.GeoRecord, error) {
	if cached, ok := c.cache.Get(ip); ok {
		return cached.(*domain.GeoRecord), nil
	}

	body, err := c.http.FetchJSON(ctx, fmt.Sprintf(singleEndpoint, ip))
	if err != nil {
		return nil, errors.Wrapf(err, "geo: lookup %s", ip)
	}

	var record apiRecord
	if err := json.Unmarshal(body, &record); err != nil {
		return nil, errors.Wrapf(err, "geo: parsing response for %s", ip)
	}
	record.Query = ip

	geoRecord := record.toDomain()
	c.cache.Set(ip, geoRecord, c.ttl)

	if !geoRecord.Found {
		return geoRecord, domain.ErrGeoNotFound
	}
	return geoRecord, nil
}

// LookupBatch localiza un conjunto de IPs usando el endpoint batch (100 por
// lote, con pacing entre lotes). El resultado contiene una entrada por IP
// única de entrada; las que el colaborador no localizó llevan Found=false.
// Un lote fallido degrada solo sus propias IPs, nunca el conjunto.
func (c *Client) LookupBatch(ctx context.Context, ips []string) map[string]*domain.GeoRecord {
	results := make(map[string]*domain.GeoRecord, len(ips))

	// Dedup preservando orden y resolviendo desde caché lo ya conocido
	pending := make([]string, 0, len(ips))
	seen := make(map[string]struct{}, len(ips))
	for _, ip := range ips {
		if _, dup := seen[ip]; dup {
			continue
		}
		seen[ip] = struct{}{}

		if cached, ok := c.cache.Get(ip); ok {
			results[ip] = cached.(*domain.GeoRecord)
			continue
		}
		pending = append(pending, ip)
	}

	if len(pending) == 0 {
		return results
	}

	c.logger.Info("geolocating addresses", "unique", len(pending), "cached", len(results))

	for start := 0; start < len(pending); start += batchSize {
		end := start + batchSize
		if end > len(pending) {
			end = len(pending)
		}
		batch := pending[start:end]

		if err := c.limiter.Wait(ctx); err != nil {
			// Cancelado: marcar lo restante como no localizado
			for _, ip := range pending[start:] {
				results[ip] = &domain.GeoRecord{IP: ip, Found: false}
			}
			return results
		}

		records, err := c.lookupOneBatch(ctx, batch)
		if err != nil {
			c.logger.Warn("batch geo lookup failed", "batch_size", len(batch), "error", err)
			for _, ip := range batch {
				results[ip] = &domain.GeoRecord{IP: ip, Found: false}
			}
			continue
		}

		for ip, record := range records {
			results[ip] = record
			c.cache.Set(ip, record, c.ttl)
		}
		// IPs que el endpoint omitió en la respuesta
		for _, ip := range batch {
			if _, ok := results[ip]; !ok {
				results[ip] = &domain.GeoRecord{IP: ip, Found: false}
			}
		}
	}

	return results
}

// lookupOneBatch ejecuta una única petición batch.
func (c *Client) lookupOneBatch(ctx context.Context, ips []string) (map[string]*domain.GeoRecord, error) {
	type query struct {
		Query string `json:"query"`
	}
	payload := make([]query, len(ips))
	for i, ip := range ips {
		payload[i] = query{Query: ip}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "geo: encoding batch payload")
	}

	respBody, err := c.http.PostJSON(ctx, batchEndpoint, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "geo: batch request")
	}

	var records []apiRecord
	if err := json.Unmarshal(respBody, &records); err != nil {
		return nil, errors.Wrap(err, "geo: parsing batch response")
	}

	out := make(map[string]*domain.GeoRecord, len(records))
	for _, record := range records {
		out[record.Query] = record.toDomain()
	}
	return out, nil
}
