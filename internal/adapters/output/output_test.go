// internal/adapters/output/output_test.go
package output

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"overseerx/internal/core/domain"
	"overseerx/internal/testutil"
)

// sampleResult construye un resultado con hosts vivos, muertos y geo mixto.
func sampleResult() *domain.ReconResult {
	result := domain.NewReconResult("example.com")
	result.Stats = domain.ReconStats{Found: 3, Alive: 2, Dead: 1, UniqueIPs: 2, Countries: 1}
	result.Metadata.SourcesUsed = []string{"crtsh", "certspotter"}

	result.Hosts = []domain.HostReport{
		{
			ResolutionResult: domain.ResolutionResult{
				Subdomain: *domain.NewSubdomain("www.example.com", "crtsh"),
				IP:        "52.1.2.3",
				Alive:     true,
			},
			Geo: &domain.GeoRecord{
				IP: "52.1.2.3", Found: true,
				Country: "United States", City: "Ashburn",
				Lat: 39.04, Lon: -77.49,
				ISP: "Amazon.com Inc.", Org: "AWS EC2",
			},
			Tier: domain.TierSafe,
		},
		{
			ResolutionResult: domain.ResolutionResult{
				Subdomain: *domain.NewSubdomain("dev.example.com", "certspotter"),
				IP:        "203.0.113.9",
				Alive:     true,
			},
			Geo: &domain.GeoRecord{
				IP: "203.0.113.9", Found: true,
				Country: "United States", City: "Dallas",
				Lat: 32.78, Lon: -96.8,
				ISP: "Example Hosting LLC",
			},
			Tier: domain.TierHigh,
		},
		{
			ResolutionResult: domain.ResolutionResult{
				Subdomain: *domain.NewSubdomain("gone.example.com", "crtsh"),
				Alive:     false,
				Error:     domain.ErrorKindNXDomain,
			},
			Tier:    domain.TierHigh,
			Unknown: true,
		},
	}
	result.Finalize()
	return result
}

func TestSanitizeDomainName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"example.com", "example_com"},
		{"sub.example.co.uk", "sub_example_co_uk"},
		{"weird/../name", "weird____name"},
		{"UPPER.com", "UPPER_com"},
	}

	for _, tt := range tests {
		testutil.AssertEqual(t, sanitizeDomainName(tt.in), tt.want, tt.in)
	}
}

func TestWriteJSON(t *testing.T) {
	dir := t.TempDir()
	result := sampleResult()

	path, err := WriteJSON(dir, result)
	testutil.AssertNoError(t, err, "write json")
	testutil.AssertTrue(t, strings.HasPrefix(path, dir), "written under output dir")
	testutil.AssertTrue(t, strings.HasSuffix(path, ".json"), "json extension")
	testutil.AssertContains(t, path, "overseerx_example_com_", "filename convention")

	data, err := os.ReadFile(path)
	testutil.AssertNoError(t, err, "read back")

	var decoded domain.ReconResult
	testutil.AssertNoError(t, json.Unmarshal(data, &decoded), "valid json")
	testutil.AssertEqual(t, decoded.Target, "example.com", "target round-trips")
	testutil.AssertLen(t, decoded.Hosts, 3, "hosts round-trip")
	testutil.AssertEqual(t, decoded.Hosts[0].Tier, domain.TierSafe, "tier text round-trips")
}

func TestWriteJSON_CreatesDirectory(t *testing.T) {
	dir := t.TempDir() + "/nested/out"

	path, err := WriteJSON(dir, sampleResult())
	testutil.AssertNoError(t, err, "write into missing directory")
	testutil.AssertTrue(t, strings.HasPrefix(path, dir), "nested directory created")
}

func TestWriteCSV(t *testing.T) {
	dir := t.TempDir()

	path, err := WriteCSV(dir, sampleResult())
	testutil.AssertNoError(t, err, "write csv")
	testutil.AssertTrue(t, strings.HasSuffix(path, ".csv"), "csv extension")

	f, err := os.Open(path)
	testutil.AssertNoError(t, err, "open csv")
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	testutil.AssertNoError(t, err, "parse csv")

	// Cabecera + una fila por host
	testutil.AssertLen(t, rows, 4, "header plus one row per host")
	testutil.AssertEqual(t, rows[0][0], "subdomain", "header first column")

	// Fila del host vivo con geo completo
	testutil.AssertEqual(t, rows[1][0], "www.example.com", "subdomain column")
	testutil.AssertEqual(t, rows[1][1], "52.1.2.3", "ip column")
	testutil.AssertEqual(t, rows[1][2], "true", "alive column")
	testutil.AssertEqual(t, rows[1][5], "SAFE", "tier column")

	// Fila del host muerto conserva el kind del error
	testutil.AssertEqual(t, rows[3][0], "gone.example.com", "dead host present")
	testutil.AssertEqual(t, rows[3][3], "nxdomain", "error kind column")
}

func TestTopISPs(t *testing.T) {
	result := sampleResult()

	top := topISPs(result, 5)

	// Solo hosts vivos con geo localizado cuentan
	testutil.AssertLen(t, top, 2, "two distinct providers")
	for _, entry := range top {
		testutil.AssertEqual(t, entry.count, 1, "one host each")
	}

	// Empate a conteo: orden alfabético estable
	testutil.AssertEqual(t, top[0].name, "Amazon.com Inc.", "tie broken by name")

	capped := topISPs(result, 1)
	testutil.AssertLen(t, capped, 1, "n caps the list")
}

func TestShadowITCandidates(t *testing.T) {
	result := sampleResult()

	candidates := shadowITCandidates(result, 10)

	// Solo dev.example.com matchea un patrón estando vivo
	testutil.AssertLen(t, candidates, 1, "one candidate")
	testutil.AssertEqual(t, candidates[0].Subdomain.Name, "dev.example.com", "dev pattern")
}

func TestHostLocation(t *testing.T) {
	result := sampleResult()

	testutil.AssertEqual(t, hostLocation(result.Hosts[0]), "Ashburn, United States", "full location")
	testutil.AssertEqual(t, hostLocation(result.Hosts[2]), "?, ?", "unknown location")
}

func TestTruncate(t *testing.T) {
	testutil.AssertEqual(t, truncate("short", 10), "short", "shorter than max")
	testutil.AssertEqual(t, truncate("0123456789abc", 10), "0123456789", "cut at max")
}

func TestWriteHTMLMap(t *testing.T) {
	dir := t.TempDir()

	path, err := WriteHTMLMap(dir, sampleResult(), "dark")
	testutil.AssertNoError(t, err, "write map")
	testutil.AssertTrue(t, strings.HasSuffix(path, ".html"), "html extension")

	data, err := os.ReadFile(path)
	testutil.AssertNoError(t, err, "read map")
	html := string(data)

	testutil.AssertContains(t, html, "leaflet", "leaflet assets referenced")
	testutil.AssertContains(t, html, "www.example.com", "alive host plotted")
	testutil.AssertContains(t, html, "dark_all", "dark tile set")
	testutil.AssertContains(t, html, "#44ff44", "safe tier color present")
	testutil.AssertContains(t, html, "THREAT PRIORITY", "legend rendered")

	// El host muerto no aparece en el mapa
	testutil.AssertFalse(t, strings.Contains(html, "gone.example.com"), "dead host not plotted")
}

func TestWriteHTMLMap_LightTheme(t *testing.T) {
	dir := t.TempDir()

	path, err := WriteHTMLMap(dir, sampleResult(), "light")
	testutil.AssertNoError(t, err, "write map")

	data, err := os.ReadFile(path)
	testutil.AssertNoError(t, err, "read map")
	testutil.AssertContains(t, string(data), "light_all", "light tile set")
}

func TestWriteHTMLMap_NoMappableHosts(t *testing.T) {
	result := domain.NewReconResult("example.com")
	result.Hosts = []domain.HostReport{
		{
			ResolutionResult: domain.ResolutionResult{
				Subdomain: *domain.NewSubdomain("gone.example.com", "crtsh"),
				Alive:     false,
				Error:     domain.ErrorKindTimeout,
			},
			Tier: domain.TierHigh,
		},
	}

	path, err := WriteHTMLMap(t.TempDir(), result, "dark")
	testutil.AssertNoError(t, err, "no hosts is not an error")
	testutil.AssertEqual(t, path, "", "no file produced")
}

func TestCollectMapPoints(t *testing.T) {
	points := collectMapPoints(sampleResult())

	// Vivos con coordenadas: www y dev. El muerto queda fuera.
	testutil.AssertLen(t, points, 2, "alive hosts with coordinates")
	for _, p := range points {
		testutil.AssertNotEqual(t, p.Lat, 0.0, "coordinates populated")
	}
}
