// internal/geo/geo_test.go
package geo

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"overseerx/internal/platform/logx"
	"overseerx/internal/testutil"
)

func TestNew_Defaults(t *testing.T) {
	client := New(Config{Logger: logx.NewSilent()})

	testutil.AssertNotNil(t, client, "client should not be nil")
	testutil.AssertEqual(t, client.ttl, defaultCacheTTL, "default cache ttl")
}

func TestNew_CustomTTL(t *testing.T) {
	client := New(Config{Logger: logx.NewSilent(), CacheTTL: 5 * time.Minute})

	testutil.AssertEqual(t, client.ttl, 5*time.Minute, "custom cache ttl")
}

func TestAPIRecord_ToDomain_Success(t *testing.T) {
	record := apiRecord{
		Query:       "52.1.2.3",
		Status:      "success",
		Country:     "United States",
		CountryCode: "US",
		RegionName:  "Virginia",
		City:        "Ashburn",
		Lat:         39.0438,
		Lon:         -77.4874,
		ISP:         "Amazon.com Inc.",
		Org:         "AWS EC2",
		AS:          "AS14618 Amazon.com, Inc.",
	}

	geo := record.toDomain()

	testutil.AssertTrue(t, geo.Found, "found")
	testutil.AssertEqual(t, geo.IP, "52.1.2.3", "ip")
	testutil.AssertEqual(t, geo.Country, "United States", "country")
	testutil.AssertEqual(t, geo.CountryCode, "US", "country code")
	testutil.AssertEqual(t, geo.Region, "Virginia", "region")
	testutil.AssertEqual(t, geo.City, "Ashburn", "city")
	testutil.AssertEqual(t, geo.ISP, "Amazon.com Inc.", "isp")
	testutil.AssertEqual(t, geo.Org, "AWS EC2", "org")
	testutil.AssertEqual(t, geo.ASNumber, "AS14618 Amazon.com, Inc.", "as number")
	testutil.AssertTrue(t, geo.HasCoordinates(), "coordinates usable")
}

func TestAPIRecord_ToDomain_Failure(t *testing.T) {
	record := apiRecord{
		Query:  "198.51.100.7",
		Status: "fail",
	}

	geo := record.toDomain()

	testutil.AssertFalse(t, geo.Found, "not found")
	testutil.AssertEqual(t, geo.IP, "198.51.100.7", "ip preserved")
	testutil.AssertEqual(t, geo.Country, "", "no country on failure")
	testutil.AssertFalse(t, geo.HasCoordinates(), "no coordinates")
}

// El esquema JSON debe corresponder exactamente al que publica ip-api.com.
func TestAPIRecord_Unmarshal(t *testing.T) {
	payload := `{
		"query": "8.8.8.8",
		"status": "success",
		"country": "United States",
		"countryCode": "US",
		"regionName": "California",
		"city": "Mountain View",
		"lat": 37.4056,
		"lon": -122.0775,
		"isp": "Google LLC",
		"org": "Google Public DNS",
		"as": "AS15169 Google LLC"
	}`

	var record apiRecord
	err := json.Unmarshal([]byte(payload), &record)
	testutil.AssertNoError(t, err, "unmarshal")

	testutil.AssertEqual(t, record.Query, "8.8.8.8", "query")
	testutil.AssertEqual(t, record.Status, "success", "status")
	testutil.AssertEqual(t, record.CountryCode, "US", "countryCode camelCase tag")
	testutil.AssertEqual(t, record.RegionName, "California", "regionName camelCase tag")
	testutil.AssertEqual(t, record.ISP, "Google LLC", "isp")
	testutil.AssertTrue(t, record.Lat > 37 && record.Lat < 38, "lat")
}

func TestLookupBatch_CacheOnly(t *testing.T) {
	client := New(Config{Logger: logx.NewSilent()})

	// Precargar la caché: el batch no debe emitir ninguna petición
	cached := &apiRecord{Query: "1.1.1.1", Status: "success", Country: "Australia", ISP: "Cloudflare"}
	client.cache.Set("1.1.1.1", cached.toDomain(), client.ttl)

	results := client.LookupBatch(context.Background(), []string{"1.1.1.1", "1.1.1.1"})

	testutil.AssertLen(t, results, 1, "deduplicated")
	testutil.AssertTrue(t, results["1.1.1.1"].Found, "served from cache")
	testutil.AssertEqual(t, results["1.1.1.1"].Country, "Australia", "cached record")
}

func TestLookupBatch_EmptyInput(t *testing.T) {
	client := New(Config{Logger: logx.NewSilent()})

	results := client.LookupBatch(context.Background(), nil)

	testutil.AssertLen(t, results, 0, "empty in, empty out")
}
