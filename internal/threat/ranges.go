// internal/threat/ranges.go
package threat

import "net/netip"

// providerTable asocia un proveedor con sus prefijos publicados y el tier
// que implica pertenecer a su espacio de direcciones.
type providerTable struct {
	provider string
	prefixes []netip.Prefix
}

// Snapshot estático de rangos publicados por proveedor. El snapshot se puede
// ampliar en runtime con un fichero YAML de rangos extra (ver Config.ExtraRangesFile).
var (
	// Hyperscalers: infraestructura gestionada, normalmente con WAF delante
	safeTables = []providerTable{
		{provider: "aws", prefixes: mustPrefixes(
			"3.208.0.0/12",
			"13.56.0.0/16",
			"18.204.0.0/14",
			"34.192.0.0/12",
			"35.160.0.0/13",
			"52.0.0.0/15",
			"54.144.0.0/14",
		)},
		{provider: "gcp", prefixes: mustPrefixes(
			"8.34.208.0/20",
			"34.64.0.0/10",
			"35.184.0.0/13",
			"35.192.0.0/14",
			"104.154.0.0/15",
			"130.211.0.0/16",
		)},
		{provider: "azure", prefixes: mustPrefixes(
			"13.64.0.0/11",
			"20.33.0.0/16",
			"20.36.0.0/14",
			"40.74.0.0/15",
			"52.224.0.0/11",
			"104.40.0.0/13",
		)},
	}

	// CDN/edge: el tráfico llega proxificado, superficie directa limitada
	lowTables = []providerTable{
		{provider: "cloudflare", prefixes: mustPrefixes(
			"104.16.0.0/13",
			"108.162.192.0/18",
			"131.0.72.0/22",
			"141.101.64.0/18",
			"162.158.0.0/15",
			"172.64.0.0/13",
			"173.245.48.0/20",
			"188.114.96.0/20",
			"190.93.240.0/20",
			"198.41.128.0/17",
		)},
		{provider: "fastly", prefixes: mustPrefixes(
			"146.75.0.0/16",
			"151.101.0.0/16",
			"199.232.0.0/16",
		)},
		{provider: "cloudfront", prefixes: mustPrefixes(
			"13.32.0.0/15",
			"13.224.0.0/14",
			"52.84.0.0/15",
			"54.230.0.0/16",
			"99.84.0.0/16",
			"205.251.192.0/19",
		)},
		{provider: "akamai", prefixes: mustPrefixes(
			"2.16.0.0/13",
			"23.0.0.0/12",
			"23.192.0.0/11",
			"95.100.0.0/15",
			"104.64.0.0/10",
			"184.24.0.0/13",
		)},
	}

	// VPS/hosting: proveedor conocido pero autogestionado, configuración no garantizada
	mediumTables = []providerTable{
		{provider: "digitalocean", prefixes: mustPrefixes(
			"46.101.0.0/16",
			"64.227.0.0/17",
			"104.131.0.0/16",
			"138.68.0.0/16",
			"159.65.0.0/16",
			"159.89.0.0/16",
			"167.99.0.0/16",
			"167.172.0.0/16",
		)},
		{provider: "linode", prefixes: mustPrefixes(
			"45.33.0.0/17",
			"45.56.64.0/18",
			"50.116.0.0/18",
			"139.162.0.0/16",
			"172.104.0.0/15",
		)},
		{provider: "vultr", prefixes: mustPrefixes(
			"45.32.0.0/16",
			"45.63.0.0/16",
			"45.76.0.0/15",
			"66.42.32.0/19",
			"108.61.0.0/16",
			"149.28.0.0/16",
		)},
		{provider: "ovh", prefixes: mustPrefixes(
			"51.38.0.0/16",
			"51.68.0.0/16",
			"51.75.0.0/16",
			"54.36.0.0/14",
			"137.74.0.0/16",
			"145.239.0.0/16",
		)},
		{provider: "hetzner", prefixes: mustPrefixes(
			"49.12.0.0/16",
			"78.46.0.0/15",
			"88.198.0.0/16",
			"95.216.0.0/16",
			"116.202.0.0/15",
			"135.181.0.0/16",
			"168.119.0.0/16",
		)},
	}

	// Keywords de hosting aplicadas sobre el string ISP/Org del colaborador
	// geo, cuando la IP no cae en ninguna tabla de rangos.
	hostingKeywords = []string{
		"hosting",
		"digitalocean",
		"linode",
		"vultr",
		"ovh",
		"hetzner",
		"contabo",
		"vps",
		"dedicated",
		"colocation",
		"datacenter",
		"data center",
	}
)

// mustPrefixes parsea prefijos literales; un literal inválido es un bug.
func mustPrefixes(cidrs ...string) []netip.Prefix {
	prefixes := make([]netip.Prefix, 0, len(cidrs))
	for _, cidr := range cidrs {
		prefixes = append(prefixes, netip.MustParsePrefix(cidr))
	}
	return prefixes
}
