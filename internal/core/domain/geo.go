// internal/core/domain/geo.go
package domain

// GeoRecord contiene la inteligencia de geolocalización de una IP.
// Es propiedad del colaborador geo externo: el core solo lo transporta,
// nunca lo calcula.
type GeoRecord struct {
	IP          string  `json:"ip"`
	Country     string  `json:"country,omitempty"`
	CountryCode string  `json:"country_code,omitempty"`
	Region      string  `json:"region,omitempty"`
	City        string  `json:"city,omitempty"`
	Lat         float64 `json:"lat,omitempty"`
	Lon         float64 `json:"lon,omitempty"`
	ISP         string  `json:"isp,omitempty"`
	Org         string  `json:"org,omitempty"`
	ASNumber    string  `json:"as_number,omitempty"`

	// Found indica si el colaborador localizó la IP
	Found bool `json:"found"`
}

// HasCoordinates indica si el registro trae coordenadas utilizables para mapas.
func (g *GeoRecord) HasCoordinates() bool {
	return g != nil && g.Found && (g.Lat != 0 || g.Lon != 0)
}
