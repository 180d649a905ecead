// internal/adapters/output/htmlmap.go
package output

import (
	"fmt"
	"html/template"
	"os"

	"overseerx/internal/core/domain"
)

// mapPoint es un nodo de infraestructura representable en el mapa.
type mapPoint struct {
	Subdomain string
	IP        string
	City      string
	Country   string
	ISP       string
	Org       string
	Lat       float64
	Lon       float64
	Color     string
	Tier      string
}

// tierColors sigue el código de color del informe: rojo = candidato a
// shadow IT, verde = cloud gestionado.
var tierColors = map[domain.ThreatTier]string{
	domain.TierHigh:   "#ff4444",
	domain.TierMedium: "#4a90d9",
	domain.TierLow:    "#ffa500",
	domain.TierSafe:   "#44ff44",
}

// mapData es el contexto del template del mapa.
type mapData struct {
	Target    string
	Points    []mapPoint
	CenterLat float64
	CenterLon float64
	TileURL   template.URL
	TileAttr  string
	Dark      bool
}

const (
	darkTiles  = "https://{s}.basemaps.cartocdn.com/dark_all/{z}/{x}/{y}{r}.png"
	lightTiles = "https://{s}.basemaps.cartocdn.com/light_all/{z}/{x}/{y}{r}.png"
	tileAttr   = "&copy; OpenStreetMap contributors &copy; CARTO"
)

// WriteHTMLMap genera un mapa Leaflet autocontenido con los hosts vivos que
// traen coordenadas. Sin puntos mapeables no se genera fichero y se retorna
// ruta vacía, no error.
func WriteHTMLMap(dir string, result *domain.ReconResult, theme string) (string, error) {
	points := collectMapPoints(result)
	if len(points) == 0 {
		return "", nil
	}

	path, err := timestampedPath(dir, result.Target, "html")
	if err != nil {
		return "", err
	}

	var sumLat, sumLon float64
	for _, p := range points {
		sumLat += p.Lat
		sumLon += p.Lon
	}

	data := mapData{
		Target:    result.Target,
		Points:    points,
		CenterLat: sumLat / float64(len(points)),
		CenterLon: sumLon / float64(len(points)),
		TileURL:   template.URL(darkTiles),
		TileAttr:  tileAttr,
		Dark:      true,
	}
	if theme == "light" {
		data.TileURL = template.URL(lightTiles)
		data.Dark = false
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create map file: %w", err)
	}
	defer f.Close()

	if err := mapTemplate.Execute(f, data); err != nil {
		return "", fmt.Errorf("failed to render map: %w", err)
	}

	return path, nil
}

// collectMapPoints filtra los hosts vivos con coordenadas utilizables.
func collectMapPoints(result *domain.ReconResult) []mapPoint {
	points := make([]mapPoint, 0, len(result.Hosts))
	for _, host := range result.Hosts {
		if !host.Alive || !host.Geo.HasCoordinates() {
			continue
		}
		points = append(points, mapPoint{
			Subdomain: host.Subdomain.Name,
			IP:        host.IP,
			City:      host.Geo.City,
			Country:   host.Geo.Country,
			ISP:       host.Geo.ISP,
			Org:       host.Geo.Org,
			Lat:       host.Geo.Lat,
			Lon:       host.Geo.Lon,
			Color:     tierColors[host.Tier],
			Tier:      host.Tier.String(),
		})
	}
	return points
}

var mapTemplate = template.Must(template.New("map").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>OverseerX - Attack Surface Map: {{.Target}}</title>
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">
<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
<style>
  html, body, #map { height: 100%; margin: 0; }
  .overlay {
    position: fixed; z-index: 1000;
    background-color: {{if .Dark}}rgba(0,0,0,0.9){{else}}rgba(255,255,255,0.95){{end}};
    color: {{if .Dark}}white{{else}}#222{{end}};
    font-family: 'Courier New', monospace;
    border-radius: 5px; border: 1px solid #333; padding: 15px;
  }
  .title { top: 10px; left: 50px; color: #00b36b; border-color: #00b36b; }
  .title .name { font-size: 18px; font-weight: bold; }
  .title .sub { font-size: 12px; color: #888; }
  .legend { bottom: 50px; right: 50px; font-size: 11px; }
  .legend b { font-size: 13px; color: #00b36b; }
  .dot { display: inline-block; width: 10px; height: 10px; border-radius: 50%; margin-right: 4px; }
</style>
</head>
<body>
<div id="map"></div>
<div class="overlay title">
  <span class="name">OVERSEERX</span><br>
  <span class="sub">Attack Surface Map: {{.Target}}</span><br>
  <span class="sub">{{len .Points}} infrastructure nodes mapped</span>
</div>
<div class="overlay legend">
  <b>THREAT PRIORITY</b><br><br>
  <span class="dot" style="background:#ff4444"></span> HIGH - On-Premise/Unknown<br>
  <span class="dot" style="background:#4a90d9"></span> MEDIUM - VPS Provider<br>
  <span class="dot" style="background:#ffa500"></span> LOW - CDN/Edge<br>
  <span class="dot" style="background:#44ff44"></span> SAFE - Cloud (WAF)<br>
</div>
<script>
  var map = L.map('map').setView([{{.CenterLat}}, {{.CenterLon}}], 2);
  L.tileLayer('{{.TileURL}}', { attribution: '{{.TileAttr}}' }).addTo(map);

  var points = [
  {{- range .Points}}
    {
      subdomain: {{.Subdomain}}, ip: {{.IP}},
      city: {{.City}}, country: {{.Country}},
      isp: {{.ISP}}, org: {{.Org}},
      lat: {{.Lat}}, lon: {{.Lon}},
      color: {{.Color}}, tier: {{.Tier}}
    },
  {{- end}}
  ];

  points.forEach(function (p) {
    var marker = L.circleMarker([p.lat, p.lon], {
      radius: 7, color: p.color, fillColor: p.color, fillOpacity: 0.8
    }).addTo(map);

    marker.bindTooltip(p.subdomain + ' (' + p.ip + ')');
    marker.bindPopup(
      '<div style="font-family: \'Courier New\', monospace; font-size: 12px; min-width: 250px;">' +
      '<b style="color: #ff6b6b;">TARGET INTEL</b><br><hr style="border-color: #333;">' +
      '<b>Subdomain:</b> ' + p.subdomain + '<br>' +
      '<b>IP Address:</b> ' + p.ip + '<br>' +
      '<b>Location:</b> ' + p.city + ', ' + p.country + '<br>' +
      '<b>ISP:</b> ' + p.isp + '<br>' +
      '<b>Organization:</b> ' + p.org + '<br>' +
      '<b>Tier:</b> ' + p.tier + '</div>',
      { maxWidth: 400 }
    );
  });
</script>
</body>
</html>
`))
