// internal/adapters/output/csv.go
package output

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"overseerx/internal/core/domain"
)

// csvHeader son las columnas del export CSV, una fila por subdominio.
var csvHeader = []string{
	"subdomain", "ip", "alive", "error", "non_routable",
	"tier", "unknown", "country", "city", "isp", "org", "sources",
}

// WriteCSV exporta el resultado como CSV, una fila por host.
func WriteCSV(dir string, result *domain.ReconResult) (string, error) {
	path, err := timestampedPath(dir, result.Target, "csv")
	if err != nil {
		return "", err
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return "", fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, host := range result.Hosts {
		country, city, isp, org := "", "", "", ""
		if host.Geo != nil && host.Geo.Found {
			country = host.Geo.Country
			city = host.Geo.City
			isp = host.Geo.ISP
			org = host.Geo.Org
		}

		row := []string{
			host.Subdomain.Name,
			host.IP,
			strconv.FormatBool(host.Alive),
			host.Error.String(),
			strconv.FormatBool(host.NonRoutable),
			host.Tier.String(),
			strconv.FormatBool(host.Unknown),
			country,
			city,
			isp,
			org,
			strings.Join(host.Subdomain.Sources, ";"),
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to flush CSV: %w", err)
	}

	return path, nil
}
