// internal/adapters/output/json.go
package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"overseerx/internal/core/domain"
)

// sanitizeDomainName convierte un nombre de dominio en un nombre de fichero válido.
// Ejemplo: "example.com" -> "example_com"
func sanitizeDomainName(domain string) string {
	sanitized := strings.ReplaceAll(domain, ".", "_")
	sanitized = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' || r == '-' {
			return r
		}
		return '_'
	}, sanitized)
	return sanitized
}

// timestampedPath construye la ruta de salida dir/overseerx_<target>_<ts>.<ext>,
// creando el directorio si hace falta.
func timestampedPath(dir, target, ext string) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("overseerx_%s_%s.%s", sanitizeDomainName(target), timestamp, ext)
	return filepath.Join(dir, filename), nil
}

// WriteJSON exporta el resultado consolidado en formato JSON. Es el
// artefacto que siempre se genera, independientemente del resto de salidas.
func WriteJSON(dir string, result *domain.ReconResult) (string, error) {
	path, err := timestampedPath(dir, result.Target, "json")
	if err != nil {
		return "", err
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return "", fmt.Errorf("failed to encode JSON: %w", err)
	}

	return path, nil
}

// WriteJSONStdout exporta el resultado a stdout en formato JSON.
func WriteJSONStdout(result *domain.ReconResult, pretty bool) error {
	enc := json.NewEncoder(os.Stdout)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(result)
}
