// Package threat clasifica direcciones IP en tiers de prioridad según el
// proveedor de infraestructura al que pertenecen. La clasificación es una
// función pura sobre tablas de rangos estáticas: misma IP, mismo tier,
// siempre, también bajo invocación concurrente.
package threat

import (
	"net/netip"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"overseerx/internal/core/domain"
	"overseerx/internal/platform/errors"
)

// Classifier asigna un ThreatTier a cada IP. Estado de solo lectura tras la
// construcción; seguro para uso concurrente sin sincronización.
type Classifier struct {
	safe   []providerTable
	low    []providerTable
	medium []providerTable

	keywords []string
}

// Config configura el clasificador.
type Config struct {
	// ExtraRangesFile ruta opcional a un YAML de rangos adicionales por tier
	ExtraRangesFile string
}

// extraRanges es el esquema del fichero YAML de rangos extra.
type extraRanges struct {
	Safe   []string `yaml:"safe"`
	Low    []string `yaml:"low"`
	Medium []string `yaml:"medium"`
}

// New crea un clasificador con las tablas estáticas embebidas, ampliadas con
// el fichero de rangos extra si se configuró uno.
func New(cfg Config) (*Classifier, error) {
	c := &Classifier{
		safe:     safeTables,
		low:      lowTables,
		medium:   mediumTables,
		keywords: hostingKeywords,
	}

	if cfg.ExtraRangesFile != "" {
		if err := c.loadExtraRanges(cfg.ExtraRangesFile); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// loadExtraRanges amplía las tablas con rangos del usuario. Un CIDR
// inválido invalida el fichero completo: mejor fallar al arrancar que
// clasificar con tablas a medias.
func (c *Classifier) loadExtraRanges(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "threat: reading extra ranges %s", path)
	}

	var extra extraRanges
	if err := yaml.Unmarshal(data, &extra); err != nil {
		return errors.Wrapf(err, "threat: parsing extra ranges %s", path)
	}

	appendTable := func(tables []providerTable, cidrs []string) ([]providerTable, error) {
		if len(cidrs) == 0 {
			return tables, nil
		}
		prefixes := make([]netip.Prefix, 0, len(cidrs))
		for _, cidr := range cidrs {
			prefix, err := netip.ParsePrefix(strings.TrimSpace(cidr))
			if err != nil {
				return nil, errors.Wrapf(err, "threat: invalid extra range %q", cidr)
			}
			prefixes = append(prefixes, prefix)
		}
		// Copia para no mutar las tablas estáticas compartidas
		out := make([]providerTable, len(tables), len(tables)+1)
		copy(out, tables)
		return append(out, providerTable{provider: "user", prefixes: prefixes}), nil
	}

	if c.safe, err = appendTable(c.safe, extra.Safe); err != nil {
		return err
	}
	if c.low, err = appendTable(c.low, extra.Low); err != nil {
		return err
	}
	if c.medium, err = appendTable(c.medium, extra.Medium); err != nil {
		return err
	}
	return nil
}

// Classify asigna un tier a la IP. El segundo retorno marca el caso
// "unknown": direcciones no parseables, loopback, link-local, unspecified o
// privadas — señal de split-horizon o infraestructura interna, nunca SAFE.
// La clasificación nunca falla: lo no reconocible es HIGH por defecto
// (tratar-como-riesgo).
//
// Desempate: primera tabla que acierta en el orden SAFE → LOW → MEDIUM; lo
// no listado cae a HIGH.
func (c *Classifier) Classify(ip, isp string) (domain.ThreatTier, bool) {
	addr, err := netip.ParseAddr(strings.TrimSpace(ip))
	if err != nil {
		return domain.TierHigh, true
	}
	addr = addr.Unmap()

	if addr.IsLoopback() || addr.IsLinkLocalUnicast() || addr.IsLinkLocalMulticast() ||
		addr.IsUnspecified() || addr.IsPrivate() {
		return domain.TierHigh, true
	}

	if matchTables(c.safe, addr) {
		return domain.TierSafe, false
	}
	if matchTables(c.low, addr) {
		return domain.TierLow, false
	}
	if matchTables(c.medium, addr) {
		return domain.TierMedium, false
	}

	// Heurística por string de ISP/Org del colaborador geo
	if isp != "" {
		lower := strings.ToLower(isp)
		for _, keyword := range c.keywords {
			if strings.Contains(lower, keyword) {
				return domain.TierMedium, false
			}
		}
	}

	return domain.TierHigh, false
}

// Provider retorna el nombre del proveedor cuyo rango contiene la IP, o ""
// si ninguna tabla acierta. Útil para el informe, no afecta al tier.
func (c *Classifier) Provider(ip string) string {
	addr, err := netip.ParseAddr(strings.TrimSpace(ip))
	if err != nil {
		return ""
	}
	addr = addr.Unmap()

	for _, tables := range [][]providerTable{c.safe, c.low, c.medium} {
		for _, table := range tables {
			for _, prefix := range table.prefixes {
				if prefix.Contains(addr) {
					return table.provider
				}
			}
		}
	}
	return ""
}

// matchTables indica si la dirección cae en alguna de las tablas.
func matchTables(tables []providerTable, addr netip.Addr) bool {
	for _, table := range tables {
		for _, prefix := range table.prefixes {
			if prefix.Contains(addr) {
				return true
			}
		}
	}
	return false
}
