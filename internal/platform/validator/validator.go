// internal/platform/validator/validator.go
package validator

import (
	"net"
	"regexp"
	"strings"
)

// Domain validators

var domainRegex = regexp.MustCompile(`^([a-zA-Z0-9]([a-zA-Z0-9\-]{0,61}[a-zA-Z0-9])?\.)*[a-zA-Z0-9]([a-zA-Z0-9\-]{0,61}[a-zA-Z0-9])?$`)

// IsDomain verifica si un string es un dominio válido.
// Soporta dominios internacionales en forma punycode.
func IsDomain(domain string) bool {
	if len(domain) == 0 || len(domain) > 253 {
		return false
	}

	if !domainRegex.MatchString(domain) {
		return false
	}

	// Verificar que no sea una IP
	if net.ParseIP(domain) != nil {
		return false
	}

	return true
}

// IsHostname verifica si un token extraído de un log CT es un hostname
// plausible. Descarta texto libre, líneas vacías y entradas con wildcard
// sin normalizar.
func IsHostname(host string) bool {
	if host == "" || strings.ContainsAny(host, " \t*@/:") {
		return false
	}
	return IsDomain(host)
}

// IsSubdomainOf verifica si hostname está bajo baseDomain con match de
// sufijo en frontera de label: notexample.com NO es subdominio de
// example.com; api.example.com sí.
func IsSubdomainOf(hostname, baseDomain string) bool {
	hostname = NormalizeDomain(hostname)
	baseDomain = NormalizeDomain(baseDomain)

	if hostname == "" || baseDomain == "" || hostname == baseDomain {
		return false
	}

	return strings.HasSuffix(hostname, "."+baseDomain)
}

// NormalizeDomain normaliza un dominio a su forma canónica: minúsculas,
// sin espacios, sin punto final y sin marcador wildcard.
func NormalizeDomain(domain string) string {
	domain = strings.ToLower(strings.TrimSpace(domain))
	domain = strings.TrimSuffix(domain, ".")
	domain = strings.TrimPrefix(domain, "*.")
	return domain
}

// Network validators

// IsIP verifica si un string es una dirección IP válida (v4 o v6).
func IsIP(ip string) bool {
	return net.ParseIP(ip) != nil
}

// IsIPv4 verifica si un string es una dirección IPv4 válida.
func IsIPv4(ip string) bool {
	parsed := net.ParseIP(ip)
	return parsed != nil && parsed.To4() != nil
}

// IsNonRoutable verifica si una IP es loopback, link-local o unspecified.
// Estas direcciones señalan DNS split-horizon y se marcan aparte.
func IsNonRoutable(ip string) bool {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return false
	}
	return parsed.IsLoopback() || parsed.IsLinkLocalUnicast() || parsed.IsLinkLocalMulticast() || parsed.IsUnspecified()
}

// IsPrivate verifica si una IP pertenece a rangos privados RFC1918/ULA.
func IsPrivate(ip string) bool {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return false
	}
	return parsed.IsPrivate()
}
