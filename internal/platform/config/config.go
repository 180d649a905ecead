// internal/platform/config/config.go
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"overseerx/internal/core/domain"
	"overseerx/internal/core/ports"
	"overseerx/internal/platform/errors"
)

type Config struct {
	// App
	Target       string   `yaml:"target"`
	Aliases      []string `yaml:"aliases"`
	Exclude      []string `yaml:"exclude"`
	PrintVersion bool     `yaml:"-"`
	Quiet        bool     `yaml:"quiet"`

	// ConfigFile ruta del YAML de configuración (solo flag, no anidable)
	ConfigFile string `yaml:"-"`

	// IO
	OutputDir string `yaml:"output_dir"`

	// Resolver
	Resolver Resolver `yaml:"resolver"`

	// Sources: mapa dinámico de configuraciones por source
	// Key = source name (ej: "crtsh", "certspotter", "hackertarget")
	Sources map[string]ports.SourceConfig `yaml:"sources"`

	// Geo
	Geo Geo `yaml:"geo"`

	// Threat
	Threat Threat `yaml:"threat"`

	// Outputs
	Outputs Outputs `yaml:"outputs"`

	// Resilience
	Resilience Resilience `yaml:"resilience"`
}

type Resolver struct {
	Workers  int `yaml:"workers"`
	TimeoutS int `yaml:"timeout"` // segundos por lookup
}

type Geo struct {
	Enabled  bool `yaml:"enabled"`
	TimeoutS int  `yaml:"timeout"` // segundos por petición
}

type Threat struct {
	// ExtraRangesFile YAML opcional con rangos adicionales por tier
	ExtraRangesFile string `yaml:"extra_ranges_file"`
}

type Outputs struct {
	TableDisabled bool   `yaml:"table_disabled"`
	CSVEnabled    bool   `yaml:"csv"`
	MapEnabled    bool   `yaml:"map"`
	MapTheme      string `yaml:"map_theme"` // "dark" | "light"
	// JSON output is ALWAYS generated (single consolidated artifact)
}

type Resilience struct {
	MaxRetries        int           `yaml:"max_retries"`
	BackoffBase       time.Duration `yaml:"backoff_base"`
	BackoffMultiplier float64       `yaml:"backoff_multiplier"`

	CircuitBreakerEnabled bool `yaml:"circuit_breaker_enabled"`
}

// DefaultConfig retorna una configuración por defecto.
func DefaultConfig() Config {
	return Config{
		Target: "",

		OutputDir: "overseerx_out",

		Resolver: Resolver{
			Workers:  50,
			TimeoutS: 3,
		},

		Sources: map[string]ports.SourceConfig{
			"crtsh": {
				Enabled:   true,
				Timeout:   30 * time.Second,
				Retries:   2,
				RateLimit: 2.0,
				Priority:  10,
			},
			"certspotter": {
				Enabled:   true,
				Timeout:   30 * time.Second,
				Retries:   2,
				RateLimit: 1.0,
				Priority:  8,
			},
			"hackertarget": {
				Enabled:   true,
				Timeout:   30 * time.Second,
				Retries:   2,
				RateLimit: 1.0,
				Priority:  6,
			},
		},

		Geo: Geo{
			Enabled:  true,
			TimeoutS: 10,
		},

		Outputs: Outputs{
			TableDisabled: false,
			CSVEnabled:    false,
			MapEnabled:    true,
			MapTheme:      "dark",
		},

		Resilience: Resilience{
			MaxRetries:            2,
			BackoffBase:           1 * time.Second,
			BackoffMultiplier:     2.0,
			CircuitBreakerEnabled: true,
		},
	}
}

// Load inicializa la configuración en capas: defaults -> fichero YAML ->
// ENV -> flags (las flags tienen la última palabra).
func Load(args []string) (Config, error) {
	cfg := DefaultConfig()

	// Primer pase de flags solo para localizar --config
	configPath := configFileFromArgs(args)
	if configPath != "" {
		if err := loadFromFile(&cfg, configPath); err != nil {
			return cfg, err
		}
		cfg.ConfigFile = configPath
	}

	loadFromEnv(&cfg)

	if err := loadFromFlags(&cfg, args); err != nil {
		return cfg, err
	}

	normalize(&cfg)

	return cfg, nil
}

// configFileFromArgs extrae --config/-c sin consumir el resto de flags.
func configFileFromArgs(args []string) string {
	for i, arg := range args {
		switch {
		case arg == "--config" || arg == "-c":
			if i+1 < len(args) {
				return args[i+1]
			}
		case strings.HasPrefix(arg, "--config="):
			return strings.TrimPrefix(arg, "--config=")
		}
	}
	return ""
}

// loadFromFile superpone el YAML del usuario sobre los defaults.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return errors.Wrapf(domain.ErrInvalidConfig, "config: parsing %s: %v", path, err)
	}
	return nil
}

// loadFromEnv carga configuración desde variables de entorno.
func loadFromEnv(cfg *Config) {
	if v := getenv("OVERSEERX_TARGET", ""); v != "" {
		cfg.Target = v
	}
	if v := getenv("OVERSEERX_OUTPUT_DIR", ""); v != "" {
		cfg.OutputDir = v
	}
	if v := getenv("OVERSEERX_QUIET", ""); v != "" {
		cfg.Quiet = parseBool(v)
	}
	if v := getenv("OVERSEERX_WORKERS", ""); v != "" {
		cfg.Resolver.Workers = parseInt(v, cfg.Resolver.Workers)
	}
	if v := getenv("OVERSEERX_DNS_TIMEOUT", ""); v != "" {
		cfg.Resolver.TimeoutS = parseInt(v, cfg.Resolver.TimeoutS)
	}
	if v := getenv("OVERSEERX_GEO_ENABLED", ""); v != "" {
		cfg.Geo.Enabled = parseBool(v)
	}
	if v := getenv("OVERSEERX_THREAT_RANGES", ""); v != "" {
		cfg.Threat.ExtraRangesFile = v
	}

	// Sources config desde ENV
	// Formato: OVERSEERX_SOURCES_CRTSH_ENABLED=true
	//          OVERSEERX_SOURCES_CRTSH_PRIORITY=10
	//          OVERSEERX_SOURCES_CRTSH_TIMEOUT=60
	for name := range cfg.Sources {
		prefix := fmt.Sprintf("OVERSEERX_SOURCES_%s_", strings.ToUpper(name))

		sourceCfg := cfg.Sources[name]

		if v := getenv(prefix+"ENABLED", ""); v != "" {
			sourceCfg.Enabled = parseBool(v)
		}
		if v := getenv(prefix+"PRIORITY", ""); v != "" {
			sourceCfg.Priority = parseInt(v, sourceCfg.Priority)
		}
		if v := getenv(prefix+"TIMEOUT", ""); v != "" {
			sourceCfg.Timeout = time.Duration(parseInt(v, int(sourceCfg.Timeout.Seconds()))) * time.Second
		}
		if v := getenv(prefix+"RETRIES", ""); v != "" {
			sourceCfg.Retries = parseInt(v, sourceCfg.Retries)
		}

		cfg.Sources[name] = sourceCfg
	}

	// Outputs
	if v := getenv("OVERSEERX_OUTPUTS_TABLE_DISABLED", ""); v != "" {
		cfg.Outputs.TableDisabled = parseBool(v)
	}
	if v := getenv("OVERSEERX_OUTPUTS_CSV", ""); v != "" {
		cfg.Outputs.CSVEnabled = parseBool(v)
	}
	if v := getenv("OVERSEERX_OUTPUTS_MAP", ""); v != "" {
		cfg.Outputs.MapEnabled = parseBool(v)
	}

	// Resilience
	if v := getenv("OVERSEERX_RESILIENCE_MAX_RETRIES", ""); v != "" {
		cfg.Resilience.MaxRetries = parseInt(v, cfg.Resilience.MaxRetries)
	}
	if v := getenv("OVERSEERX_RESILIENCE_CB_ENABLED", ""); v != "" {
		cfg.Resilience.CircuitBreakerEnabled = parseBool(v)
	}
}

// loadFromFlags parsea las flags de CLI sobre lo ya cargado.
func loadFromFlags(cfg *Config, args []string) error {
	flags := pflag.NewFlagSet("overseerx", pflag.ContinueOnError)
	flags.Usage = func() { printUsage(flags) }

	flags.StringVarP(&cfg.Target, "target", "t", cfg.Target, "Dominio objetivo (e.g., example.com)")
	flags.StringSliceVar(&cfg.Aliases, "alias", cfg.Aliases, "Dominio alias adicional en scope (repetible)")
	flags.StringSliceVar(&cfg.Exclude, "exclude", cfg.Exclude, "Subdominio/zona a excluir del scope (repetible)")
	flags.StringVarP(&cfg.ConfigFile, "config", "c", cfg.ConfigFile, "Fichero YAML de configuración")
	flags.StringVarP(&cfg.OutputDir, "out", "o", cfg.OutputDir, "Directorio de salida")
	flags.BoolVarP(&cfg.Quiet, "quiet", "q", cfg.Quiet, "Modo silencioso (sin UI interactiva)")
	flags.BoolVarP(&cfg.PrintVersion, "version", "v", false, "Imprimir versión y salir")

	flags.IntVarP(&cfg.Resolver.Workers, "workers", "w", cfg.Resolver.Workers, "Workers DNS concurrentes")
	flags.IntVar(&cfg.Resolver.TimeoutS, "dns-timeout", cfg.Resolver.TimeoutS, "Timeout por lookup DNS en segundos")

	flags.BoolVar(&cfg.Geo.Enabled, "geo", cfg.Geo.Enabled, "Habilitar geolocalización de IPs vivas")
	flags.StringVar(&cfg.Threat.ExtraRangesFile, "threat-ranges", cfg.Threat.ExtraRangesFile,
		"YAML de rangos de proveedor adicionales por tier")

	// Source configs (solo enabled via flags, el resto via ENV o YAML)
	for name := range cfg.Sources {
		sourceCfg := cfg.Sources[name]
		flags.BoolVar(&sourceCfg.Enabled, fmt.Sprintf("src.%s", name), sourceCfg.Enabled,
			fmt.Sprintf("Habilitar fuente %s", name))
		cfg.Sources[name] = sourceCfg
	}

	// Outputs
	flags.BoolVar(&cfg.Outputs.TableDisabled, "no-table", cfg.Outputs.TableDisabled,
		"Desactivar tabla resumen (JSON siempre se genera)")
	flags.BoolVar(&cfg.Outputs.CSVEnabled, "csv", cfg.Outputs.CSVEnabled, "Exportar CSV")
	flags.BoolVar(&cfg.Outputs.MapEnabled, "map", cfg.Outputs.MapEnabled, "Generar mapa HTML")
	flags.StringVar(&cfg.Outputs.MapTheme, "map-theme", cfg.Outputs.MapTheme, "Tema del mapa (dark|light)")

	// Resilience
	flags.IntVar(&cfg.Resilience.MaxRetries, "retries", cfg.Resilience.MaxRetries,
		"Reintentos máximos por fuente CT")
	flags.BoolVar(&cfg.Resilience.CircuitBreakerEnabled, "circuit-breaker", cfg.Resilience.CircuitBreakerEnabled,
		"Habilitar circuit breaker por fuente")

	return flags.Parse(args)
}

func normalize(c *Config) {
	c.Target = strings.TrimSpace(strings.ToLower(strings.TrimSuffix(c.Target, ".")))
	if c.Resolver.Workers < 1 {
		c.Resolver.Workers = 1
	}
	if c.Resolver.TimeoutS < 1 {
		c.Resolver.TimeoutS = 1
	}
	if c.OutputDir == "" {
		c.OutputDir = "overseerx_out"
	}
	if c.Outputs.MapTheme != "light" {
		c.Outputs.MapTheme = "dark"
	}
	if c.Resilience.BackoffBase <= 0 {
		c.Resilience.BackoffBase = 1 * time.Second
	}
	if c.Resilience.BackoffMultiplier < 1.0 {
		c.Resilience.BackoffMultiplier = 2.0
	}
}

// DNSTimeout devuelve el timeout por lookup como duración.
func (c Config) DNSTimeout() time.Duration {
	return time.Duration(c.Resolver.TimeoutS) * time.Second
}

// GeoTimeout devuelve el timeout de peticiones geo como duración.
func (c Config) GeoTimeout() time.Duration {
	if c.Geo.TimeoutS <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.Geo.TimeoutS) * time.Second
}

// ToJSON serializa la configuración a JSON (útil para debugging).
func (c Config) ToJSON() (string, error) {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Helpers

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok {
		return v
	}
	return def
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "t", "true", "y", "yes", "on":
		return true
	default:
		return false
	}
}

func parseInt(v string, def int) int {
	i, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return i
}
