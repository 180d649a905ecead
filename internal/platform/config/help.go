// internal/platform/config/help.go
package config

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/pflag"
)

const helpText = `
OverseerX - Passive Attack Surface Reconnaissance

USAGE:
  overseerx -t <domain> [options]

CORE OPTIONS:
  -t, --target string      Target domain (required, e.g., example.com)
  --alias strings          Additional in-scope alias domain (repeatable)
  --exclude strings        Subdomain/zone to exclude from scope (repeatable)
  -c, --config string      YAML configuration file
  -o, --out string         Output directory (default: "overseerx_out")
  -w, --workers int        Concurrent DNS workers (default: 50)
  --dns-timeout int        Per-lookup DNS timeout in seconds (default: 3)

SOURCE OPTIONS:
  --src.crtsh              Enable crt.sh certificate transparency source (default: true)
  --src.certspotter        Enable CertSpotter CT source (default: true)
  --src.hackertarget       Enable HackerTarget passive DNS source (default: true)

INTEL OPTIONS:
  --geo                    Geolocate alive IPs via ip-api.com (default: true)
  --threat-ranges string   YAML file with extra provider CIDR ranges per tier

OUTPUT OPTIONS:
  --no-table               Disable summary table (JSON is always generated)
  --csv                    Export results as CSV
  --map                    Generate HTML attack-surface map (default: true)
  --map-theme string       Map theme: dark or light (default: "dark")
  -q, --quiet              Quiet mode, no interactive UI

RESILIENCE OPTIONS:
  --retries int            Max retries per CT source on failure (default: 2)
  --circuit-breaker        Enable per-source circuit breaker (default: true)

INFO:
  -v, --version            Print version information and exit
  -h, --help               Show this help message

EXAMPLES:
  Basic recon:
    overseerx -t example.com

  Quiet mode with CSV export:
    overseerx -t example.com -q --csv

  Exclude a zone and add an alias domain:
    overseerx -t example.com --alias example.net --exclude staging.example.com

  Disable a source:
    overseerx -t example.com --src.hackertarget=false

ENVIRONMENT VARIABLES:
  Most flags can be set via environment variables with OVERSEERX_ prefix:

  OVERSEERX_TARGET                 Target domain
  OVERSEERX_WORKERS=100            DNS worker count
  OVERSEERX_DNS_TIMEOUT=5          Per-lookup timeout in seconds
  OVERSEERX_OUTPUT_DIR=/path       Output directory
  OVERSEERX_GEO_ENABLED=false      Disable geolocation
  OVERSEERX_LOG_LEVEL=debug        Log verbosity

  Source-specific (replace CRTSH with source name):
  OVERSEERX_SOURCES_CRTSH_ENABLED=false
  OVERSEERX_SOURCES_CRTSH_TIMEOUT=60

  Note: CLI flags override environment variables.

OUTPUT:
  OverseerX generates artifacts in the output directory:
  - Consolidated JSON recon result (always)
  - CSV export (--csv)
  - Self-contained HTML attack-surface map (--map)
  - Summary table to stdout (unless --no-table/--quiet)
`

// printUsage imprime la ayuda extendida.
func printUsage(_ *pflag.FlagSet) {
	fmt.Fprint(os.Stdout, helpText)
}

// PrintVersion imprime la información de versión.
func PrintVersion(version, commit, date string) {
	fmt.Printf("OverseerX %s\n", version)
	fmt.Printf("  Commit:  %s\n", commit)
	fmt.Printf("  Built:   %s\n", date)
	fmt.Printf("  Go:      %s\n", runtime.Version())
}
