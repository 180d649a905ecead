// Package certspotter implementa el cliente del índice CT de CertSpotter.
// La API responde un array JSON de emisiones con dns_names expandidos.
package certspotter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"overseerx/internal/core/domain"
	"overseerx/internal/core/ports"
	"overseerx/internal/platform/errors"
	"overseerx/internal/platform/httpclient"
	"overseerx/internal/platform/logx"
	"overseerx/internal/platform/registry"
)

const sourceName = "certspotter"

// Auto-registro de la fuente al importar el package
func init() {
	if err := registry.Global().Register(
		sourceName,
		func(cfg ports.SourceConfig, logger logx.Logger) (ports.Source, error) {
			return New(cfg, logger), nil
		},
		ports.SourceMetadata{
			Name:         sourceName,
			Description:  "Certificate Transparency issuances via CertSpotter API",
			Endpoint:     "https://api.certspotter.com",
			RequiresAuth: false,
			Priority:     8,
		},
	); err != nil {
		logx.New().Warn("failed to register certspotter source", "error", err.Error())
	}
}

// issuance es el subconjunto relevante de la respuesta de CertSpotter.
type issuance struct {
	DNSNames []string `json:"dns_names"`
}

// CertSpotter implementa ports.Source contra la API de CertSpotter.
type CertSpotter struct {
	client *httpclient.Client
	logger logx.Logger
}

// New crea una instancia de la fuente CertSpotter.
func New(cfg ports.SourceConfig, logger logx.Logger) *CertSpotter {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	httpConfig := httpclient.DefaultConfig()
	httpConfig.Timeout = timeout
	httpConfig.RateLimit = cfg.RateLimit

	return &CertSpotter{
		client: httpclient.New(httpConfig, logger),
		logger: logger.With("source", sourceName),
	}
}

// Name retorna el nombre de la fuente.
func (c *CertSpotter) Name() string {
	return sourceName
}

// Fetch consulta CertSpotter y retorna los dns_names de cada emisión.
func (c *CertSpotter) Fetch(ctx context.Context, target string) ([]string, error) {
	c.logger.Debug("querying certspotter", "target", target)

	endpoint := fmt.Sprintf(
		"https://api.certspotter.com/v1/issuances?domain=%s&include_subdomains=true&expand=dns_names",
		url.QueryEscape(target),
	)

	body, err := c.client.FetchJSON(ctx, endpoint)
	if err != nil {
		return nil, errors.Wrapf(domain.ErrSourceFailed, "certspotter: %v", err)
	}

	var issuances []issuance
	if err := json.Unmarshal(body, &issuances); err != nil {
		return []string{}, errors.Wrapf(domain.ErrSourceBadResponse, "certspotter: %v", err)
	}

	hostnames := flattenIssuances(issuances)

	c.logger.Debug("certspotter query completed", "target", target, "raw_hostnames", len(hostnames))
	return hostnames, nil
}

// flattenIssuances aplana los dns_names de las emisiones en una lista de
// hostnames crudos, en el orden en que la API los publica.
func flattenIssuances(issuances []issuance) []string {
	hostnames := make([]string, 0, len(issuances))
	for _, iss := range issuances {
		hostnames = append(hostnames, iss.DNSNames...)
	}
	return hostnames
}

// Close libera recursos de la fuente.
func (c *CertSpotter) Close() error {
	return nil
}
