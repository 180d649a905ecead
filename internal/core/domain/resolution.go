// internal/core/domain/resolution.go
package domain

import "fmt"

// ErrorKind clasifica el fallo de una resolución DNS individual.
type ErrorKind string

const (
	// ErrorKindNone indica que la resolución fue exitosa
	ErrorKindNone ErrorKind = ""

	// ErrorKindTimeout indica que la consulta excedió su timeout
	ErrorKindTimeout ErrorKind = "timeout"

	// ErrorKindNXDomain indica que el nombre no existe (NXDOMAIN / no answer)
	ErrorKindNXDomain ErrorKind = "nxdomain"

	// ErrorKindNetwork agrupa cualquier otro fallo de red o de resolver
	ErrorKindNetwork ErrorKind = "network"
)

// IsValid verifica si el kind es uno de los definidos.
func (k ErrorKind) IsValid() bool {
	switch k {
	case ErrorKindNone, ErrorKindTimeout, ErrorKindNXDomain, ErrorKindNetwork:
		return true
	default:
		return false
	}
}

// String retorna la representación string del kind.
func (k ErrorKind) String() string {
	if k == ErrorKindNone {
		return "none"
	}
	return string(k)
}

// ResolutionResult es el resultado inmutable de resolver un subdominio.
// Se crea exactamente una vez por Subdomain y no se modifica después.
type ResolutionResult struct {
	// Subdomain es el nombre que se resolvió
	Subdomain Subdomain `json:"subdomain"`

	// IP es la primera dirección A obtenida. Se conserva incluso cuando
	// Alive es false (loopback/link-local se retiene para auditoría).
	IP string `json:"ip,omitempty"`

	// Alive indica si el nombre resolvió a una dirección enrutable
	Alive bool `json:"alive"`

	// Error clasifica el fallo cuando Alive es false por error de resolución
	Error ErrorKind `json:"error,omitempty"`

	// NonRoutable marca resoluciones a loopback/link-local/unspecified.
	// Señal de split-horizon o DNS solo-VPN: el clasificador lo trata como
	// caso "unknown", nunca como SAFE.
	NonRoutable bool `json:"non_routable,omitempty"`
}

// Failed indica si la resolución terminó en error.
func (r ResolutionResult) Failed() bool {
	return r.Error != ErrorKindNone
}

// String retorna una representación legible del resultado.
func (r ResolutionResult) String() string {
	if r.Alive {
		return fmt.Sprintf("%s -> %s", r.Subdomain.Name, r.IP)
	}
	if r.NonRoutable {
		return fmt.Sprintf("%s -> %s (non-routable)", r.Subdomain.Name, r.IP)
	}
	return fmt.Sprintf("%s (dead: %s)", r.Subdomain.Name, r.Error)
}
