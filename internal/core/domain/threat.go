// internal/core/domain/threat.go
package domain

// ThreatTier clasifica el riesgo de exposición de un host vivo según las
// características de su proveedor de hosting. Orden total: HIGH > MEDIUM >
// LOW > SAFE (para ordenación y resúmenes).
type ThreatTier int

const (
	// TierSafe hosts dentro de rangos publicados de hyperscalers (AWS/GCP/Azure)
	TierSafe ThreatTier = iota

	// TierLow hosts detrás de CDN/edge conocidos
	TierLow

	// TierMedium hosts en proveedores VPS/hosting, superficie menos gestionada
	TierMedium

	// TierHigh hosts fuera de todo rango conocido, o direcciones
	// loopback/privadas/unspecified: infraestructura on-premise o mal
	// configurada. Es el tier por defecto (treat-as-risk).
	TierHigh
)

var tierNames = map[ThreatTier]string{
	TierSafe:   "SAFE",
	TierLow:    "LOW",
	TierMedium: "MEDIUM",
	TierHigh:   "HIGH",
}

// String retorna el nombre del tier.
func (t ThreatTier) String() string {
	if name, ok := tierNames[t]; ok {
		return name
	}
	return "HIGH"
}

// IsValid verifica si el tier es uno de los definidos.
func (t ThreatTier) IsValid() bool {
	_, ok := tierNames[t]
	return ok
}

// MoreSevere compara dos tiers según el orden HIGH > MEDIUM > LOW > SAFE.
func (t ThreatTier) MoreSevere(other ThreatTier) bool {
	return t > other
}

// MarshalText implementa encoding.TextMarshaler para serializar por nombre.
func (t ThreatTier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implementa encoding.TextUnmarshaler.
func (t *ThreatTier) UnmarshalText(text []byte) error {
	switch string(text) {
	case "SAFE":
		*t = TierSafe
	case "LOW":
		*t = TierLow
	case "MEDIUM":
		*t = TierMedium
	default:
		*t = TierHigh
	}
	return nil
}
