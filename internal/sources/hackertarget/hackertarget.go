// Package hackertarget implementa el cliente del índice de HackerTarget.
// La API de hostsearch responde texto plano con líneas `hostname,ip`;
// los errores de cuota llegan como texto libre en el cuerpo.
package hackertarget

import (
	"context"
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

const sourceName = "hackertarget"

// Auto-registro de la fuente al importar el package
func init() {
	if err := registry.Global().Register(
		sourceName,
		func(cfg ports.SourceConfig, logger logx.Logger) (ports.Source, error) {
			return New(cfg, logger), nil
		},
		ports.SourceMetadata{
			Name:         sourceName,
			Description:  "Host search via HackerTarget plain-text API",
			Endpoint:     "https://api.hackertarget.com",
			RequiresAuth: false,
			Priority:     6, // último recurso: cuota gratuita muy limitada
		},
	); err != nil {
		logx.New().Warn("failed to register hackertarget source", "error", err.Error())
	}
}

// HackerTarget implementa ports.Source contra la API de hostsearch.
type HackerTarget struct {
	client *httpclient.Client
	logger logx.Logger
}

// New crea una instancia de la fuente HackerTarget.
func New(cfg ports.SourceConfig, logger logx.Logger) *HackerTarget {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	httpConfig := httpclient.DefaultConfig()
	httpConfig.Timeout = timeout
	httpConfig.RateLimit = cfg.RateLimit

	return &HackerTarget{
		client: httpclient.New(httpConfig, logger),
		logger: logger.With("source", sourceName),
	}
}

// Name retorna el nombre de la fuente.
func (h *HackerTarget) Name() string {
	return sourceName
}

// Fetch consulta hostsearch y extrae el hostname de cada línea `hostname,ip`.
// Un cuerpo con mensaje de error de la API produce slice vacío más error.
func (h *HackerTarget) Fetch(ctx context.Context, target string) ([]string, error) {
	h.logger.Debug("querying hackertarget", "target", target)

	endpoint := fmt.Sprintf("https://api.hackertarget.com/hostsearch/?q=%s", url.QueryEscape(target))

	body, err := h.client.FetchText(ctx, endpoint)
	if err != nil {
		return nil, errors.Wrapf(domain.ErrSourceFailed, "hackertarget: %v", err)
	}

	hostnames, err := parseResponse(string(body))
	if err != nil {
		return hostnames, err
	}

	h.logger.Debug("hackertarget query completed", "target", target, "raw_hostnames", len(hostnames))
	return hostnames, nil
}

// parseResponse distingue un listado hostsearch de un mensaje de error de la
// API. Los hostnames viven en líneas `hostname,ip`; un hostname que contenga
// la palabra "error" sigue siendo un hostname. Solo un cuerpo sin ninguna
// línea válida y con texto de error/cuota se trata como fallo de la API.
func parseResponse(text string) ([]string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return []string{}, nil
	}

	hostnames := parseHostsearch(text)
	if len(hostnames) == 0 && looksLikeAPIError(text) {
		return []string{}, errors.Wrapf(domain.ErrSourceBadResponse, "hackertarget: %s", firstLine(text))
	}
	return hostnames, nil
}

// looksLikeAPIError detecta los mensajes de cuota y error en texto libre.
func looksLikeAPIError(text string) bool {
	lower := strings.ToLower(firstLine(text))
	return strings.Contains(lower, "error") || strings.Contains(lower, "api count exceeded")
}

// parseHostsearch extrae el hostname de cada línea `hostname,ip`.
func parseHostsearch(text string) []string {
	lines := strings.Split(text, "\n")
	hostnames := make([]string, 0, len(lines))
	for _, line := range lines {
		host, _, found := strings.Cut(line, ",")
		if !found {
			continue
		}
		host = strings.TrimSpace(host)
		if host == "" {
			continue
		}
		hostnames = append(hostnames, host)
	}
	return hostnames
}

// Close libera recursos de la fuente.
func (h *HackerTarget) Close() error {
	return nil
}

func firstLine(text string) string {
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		return text[:idx]
	}
	return text
}
