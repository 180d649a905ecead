// Package crtsh implementa el cliente del índice CT crt.sh.
// crt.sh responde un array JSON de certificados cuyo name_value puede
// contener varios hostnames separados por saltos de línea.
package crtsh

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"overseerx/internal/core/domain"
	"overseerx/internal/core/ports"
	"overseerx/internal/platform/errors"
	"overseerx/internal/platform/httpclient"
	"overseerx/internal/platform/logx"
	"overseerx/internal/platform/registry"
)

const sourceName = "crtsh"

// Auto-registro de la fuente al importar el package
func init() {
	if err := registry.Global().Register(
		sourceName,
		func(cfg ports.SourceConfig, logger logx.Logger) (ports.Source, error) {
			return New(cfg, logger), nil
		},
		ports.SourceMetadata{
			Name:         sourceName,
			Description:  "Certificate Transparency log search via crt.sh",
			Endpoint:     "https://crt.sh",
			RequiresAuth: false,
			Priority:     10, // fuente primaria, la más completa
		},
	); err != nil {
		logx.New().Warn("failed to register crtsh source", "error", err.Error())
	}
}

// certRecord es el subconjunto relevante de la respuesta de crt.sh.
type certRecord struct {
	NameValue string `json:"name_value"`
}

// CRT implementa ports.Source contra la base de datos crt.sh.
type CRT struct {
	client *httpclient.Client
	logger logx.Logger
}

// New crea una instancia de la fuente crt.sh.
func New(cfg ports.SourceConfig, logger logx.Logger) *CRT {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	httpConfig := httpclient.DefaultConfig()
	httpConfig.Timeout = timeout
	httpConfig.RateLimit = cfg.RateLimit
	if httpConfig.RateLimit == 0 {
		httpConfig.RateLimit = 2.0 // ser respetuoso con crt.sh
	}

	return &CRT{
		client: httpclient.New(httpConfig, logger),
		logger: logger.With("source", sourceName),
	}
}

// Name retorna el nombre de la fuente.
func (c *CRT) Name() string {
	return sourceName
}

// Fetch consulta crt.sh y retorna los hostnames crudos de cada certificado.
// Una respuesta no parseable produce slice vacío más error: el agregador
// decide reintentos y aislamiento.
func (c *CRT) Fetch(ctx context.Context, target string) ([]string, error) {
	c.logger.Debug("querying crt.sh", "target", target)

	endpoint := fmt.Sprintf("https://crt.sh/?q=%s&output=json", url.QueryEscape("%."+target))

	body, err := c.client.FetchJSON(ctx, endpoint)
	if err != nil {
		return nil, errors.Wrapf(domain.ErrSourceFailed, "crtsh: %v", err)
	}

	// Cuerpo vacío: crt.sh responde así cuando no hay certificados
	if len(strings.TrimSpace(string(body))) == 0 {
		return []string{}, nil
	}

	var records []certRecord
	if err := json.Unmarshal(body, &records); err != nil {
		// crt.sh devuelve HTML cuando está sobrecargado
		return []string{}, errors.Wrapf(domain.ErrSourceBadResponse, "crtsh: %v", err)
	}

	hostnames := extractHostnames(records)

	c.logger.Debug("crt.sh query completed", "target", target, "raw_hostnames", len(hostnames))
	return hostnames, nil
}

// extractHostnames aplana los name_value de los certificados en una lista
// de hostnames crudos.
func extractHostnames(records []certRecord) []string {
	hostnames := make([]string, 0, len(records))
	for _, record := range records {
		// name_value puede contener varios hostnames separados por \n
		for _, host := range strings.Split(record.NameValue, "\n") {
			host = strings.TrimSpace(host)
			if host == "" {
				continue
			}
			hostnames = append(hostnames, host)
		}
	}
	return hostnames
}

// Close libera recursos de la fuente.
func (c *CRT) Close() error {
	return nil
}
