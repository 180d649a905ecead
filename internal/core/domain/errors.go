// internal/core/domain/errors.go
package domain

import "errors"

// Errores de dominio comunes.
var (
	// Target errors: la única condición fatal del pipeline
	ErrEmptyTarget   = errors.New("target cannot be empty")
	ErrInvalidDomain = errors.New("invalid domain format")

	// Source errors: aislados por fuente, nunca abortan la agregación
	ErrSourceFailed       = errors.New("ct source failed")
	ErrSourceBadResponse  = errors.New("ct source returned malformed data")
	ErrNoSourcesAvailable = errors.New("no ct sources available")
	ErrNoCTData           = errors.New("no data available from any ct source")

	// Geo errors
	ErrGeoNotFound = errors.New("geo record not found")

	// Configuration errors
	ErrInvalidConfig = errors.New("invalid configuration")
)
