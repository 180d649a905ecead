// internal/adapters/output/table.go
package output

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"overseerx/internal/core/domain"
)

// shadowITPatterns son los tokens de nombre que suelen delatar
// infraestructura olvidada o interna expuesta.
var shadowITPatterns = []string{
	"dev", "test", "stage", "admin", "internal", "vpn", "api", "beta", "old", "legacy",
}

// OutputTable imprime el resumen de la ejecución en terminal: estadísticas,
// top de proveedores y candidatos a shadow IT.
func OutputTable(result *domain.ReconResult) error {
	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)

	fmt.Fprintf(w, "\n=== OverseerX Recon Results ===\n")
	fmt.Fprintf(w, "Target:\t%s\n", result.Target)
	fmt.Fprintf(w, "Duration:\t%s\n", result.Metadata.Duration)
	fmt.Fprintf(w, "Subdomains found:\t%d\n", result.Stats.Found)
	fmt.Fprintf(w, "Alive:\t%d\n", result.Stats.Alive)
	fmt.Fprintf(w, "Dead:\t%d\n", result.Stats.Dead)
	fmt.Fprintf(w, "Unique IPs:\t%d\n", result.Stats.UniqueIPs)
	fmt.Fprintf(w, "Countries spanned:\t%d\n", result.Stats.Countries)
	fmt.Fprintf(w, "Sources:\t%s\n\n", strings.Join(result.Metadata.SourcesUsed, ", "))

	// Hosts vivos por tier, de mayor a menor severidad
	tiers := result.TiersByCount()
	fmt.Fprintln(w, "TIER\tALIVE HOSTS")
	fmt.Fprintln(w, "----\t-----------")
	for _, tier := range []domain.ThreatTier{domain.TierHigh, domain.TierMedium, domain.TierLow, domain.TierSafe} {
		fmt.Fprintf(w, "%s\t%d\n", tier, tiers[tier])
	}
	fmt.Fprintln(w)

	// Top proveedores de infraestructura
	if topISPs := topISPs(result, 5); len(topISPs) > 0 {
		fmt.Fprintln(w, "TOP INFRASTRUCTURE PROVIDERS\tHOSTS")
		fmt.Fprintln(w, "----------------------------\t-----")
		for _, entry := range topISPs {
			fmt.Fprintf(w, "%s\t%d\n", truncate(entry.name, 50), entry.count)
		}
		fmt.Fprintln(w)
	}

	// Candidatos a shadow IT por patrón de nombre
	interesting := shadowITCandidates(result, 10)
	if len(interesting) > 0 {
		fmt.Fprintln(w, "POTENTIAL SHADOW IT\tIP\tLOCATION\tTIER")
		fmt.Fprintln(w, "-------------------\t--\t--------\t----")
		for _, host := range interesting {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				host.Subdomain.Name,
				host.IP,
				hostLocation(host),
				host.Tier,
			)
		}
	} else {
		fmt.Fprintln(w, "No obvious shadow IT patterns detected in subdomain names.")
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to flush table: %w", err)
	}

	// Warnings
	if len(result.Warnings) > 0 {
		fmt.Fprintf(os.Stdout, "\n⚠️  Warnings (%d):\n", len(result.Warnings))
		for i, warning := range result.Warnings {
			fmt.Fprintf(os.Stdout, "  %d. [%s] %s\n", i+1, warning.Source, warning.Message)
		}
	}

	// Errors
	if len(result.Errors) > 0 {
		fmt.Fprintf(os.Stdout, "\n❌ Errors (%d):\n", len(result.Errors))
		for i, err := range result.Errors {
			fatal := ""
			if err.Fatal {
				fatal = " (FATAL)"
			}
			fmt.Fprintf(os.Stdout, "  %d. [%s] %s%s\n", i+1, err.Source, err.Message, fatal)
		}
	}

	fmt.Fprintln(os.Stdout)
	return nil
}

type ispCount struct {
	name  string
	count int
}

// topISPs agrupa los hosts vivos por ISP y retorna los n mayores.
func topISPs(result *domain.ReconResult, n int) []ispCount {
	counts := make(map[string]int)
	for _, host := range result.Hosts {
		if !host.Alive || host.Geo == nil || !host.Geo.Found || host.Geo.ISP == "" {
			continue
		}
		counts[host.Geo.ISP]++
	}

	entries := make([]ispCount, 0, len(counts))
	for name, count := range counts {
		entries = append(entries, ispCount{name: name, count: count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].name < entries[j].name
	})

	if len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

// shadowITCandidates retorna hasta n hosts vivos cuyo nombre contiene algún
// patrón de shadow IT.
func shadowITCandidates(result *domain.ReconResult, n int) []domain.HostReport {
	candidates := make([]domain.HostReport, 0, n)
	for _, host := range result.Hosts {
		if !host.Alive {
			continue
		}
		name := strings.ToLower(host.Subdomain.Name)
		for _, pattern := range shadowITPatterns {
			if strings.Contains(name, pattern) {
				candidates = append(candidates, host)
				break
			}
		}
		if len(candidates) == n {
			break
		}
	}
	return candidates
}

// hostLocation formatea "city, country" con ? para lo desconocido.
func hostLocation(host domain.HostReport) string {
	city, country := "?", "?"
	if host.Geo != nil && host.Geo.Found {
		if host.Geo.City != "" {
			city = host.Geo.City
		}
		if host.Geo.Country != "" {
			country = host.Geo.Country
		}
	}
	return city + ", " + country
}

// truncate recorta un string a max caracteres.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
