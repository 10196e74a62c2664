package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/aurel42/zonepoi/pkg/model"
	"github.com/aurel42/zonepoi/pkg/municipality"
	"github.com/aurel42/zonepoi/pkg/request"
)

// GeocoderProvider reverse-geocodes a point to a country and place type,
// used both for country detection (to pick the wiki-encyclopedia language)
// and as the lenient water/land check the marine validation chain falls
// back on.
type GeocoderProvider struct {
	client   *request.Client
	endpoint string
	timeout  time.Duration
}

// NewGeocoderProvider creates a provider against endpoint (Nominatim's
// /reverse), bounded by timeout.
func NewGeocoderProvider(client *request.Client, endpoint string, timeout time.Duration) *GeocoderProvider {
	return &GeocoderProvider{client: client, endpoint: endpoint, timeout: timeout}
}

type nominatimReverseResponse struct {
	Category string `json:"category"`
	Type     string `json:"type"`
	Name     string `json:"name"`
	DisplayName string `json:"display_name"`
	Address  struct {
		CountryCode string `json:"country_code"`
		Country     string `json:"country"`
	} `json:"address"`
	Error string `json:"error"`
}

// waterTypes is the set of Nominatim "type" values that indicate the point
// sits in a body of water rather than on land.
var waterTypes = map[string]bool{
	"sea": true, "ocean": true, "bay": true, "strait": true,
	"water": true, "reef": true, "shoal": true, "channel": true,
}

// Reverse resolves lat/lon to country + place-type information. A
// zero-value result with no error is returned on a not-found response,
// since callers treat "unknown location" leniently rather than as failure.
func (p *GeocoderProvider) Reverse(ctx context.Context, lat, lon float64) (model.LocationInfo, error) {
	u := fmt.Sprintf("%s?format=jsonv2&lat=%f&lon=%f&zoom=10", p.endpoint, lat, lon)

	body, err := p.client.GetWithTimeout(ctx, u, p.timeout)
	if err != nil {
		return model.LocationInfo{}, fmt.Errorf("reverse geocode failed: %w", err)
	}

	var resp nominatimReverseResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return model.LocationInfo{}, fmt.Errorf("failed to decode reverse geocode response: %w", err)
	}
	if resp.Error != "" {
		return model.LocationInfo{}, nil
	}

	placeType := resp.Type
	if resp.Category == "natural" && waterTypes[strings.ToLower(resp.Type)] {
		placeType = strings.ToLower(resp.Type)
	} else if !waterTypes[strings.ToLower(resp.Type)] {
		placeType = "land"
	}

	return model.LocationInfo{
		CountryCode: strings.ToUpper(resp.Address.CountryCode),
		CountryName: resp.Address.Country,
		PlaceType:   placeType,
		DisplayName: resp.DisplayName,
	}, nil
}

// DetectCountry resolves lat/lon to a Country, used once per search to pick
// the wiki-encyclopedia language.
func (p *GeocoderProvider) DetectCountry(ctx context.Context, lat, lon float64) (*model.Country, error) {
	info, err := p.Reverse(ctx, lat, lon)
	if err != nil {
		return nil, err
	}
	if info.CountryCode == "" {
		return nil, nil
	}
	return &model.Country{Code: info.CountryCode, Name: info.CountryName}, nil
}

// IsWater reports whether lat/lon is reverse-geocoded as a body of water.
// On any lookup failure it returns true (lenient "assume water"), since the
// marine validation chain only ever calls this as a last-resort check on
// POIs it otherwise believes are underwater.
func (p *GeocoderProvider) IsWater(ctx context.Context, lat, lon float64) bool {
	info, err := p.Reverse(ctx, lat, lon)
	if err != nil {
		return true
	}
	if info.DisplayName == "" && info.PlaceType == "" {
		return true
	}
	return info.IsWater()
}

// countryLanguages maps ISO 3166-1 alpha-2 country codes to the
// "<lang>.wikipedia.org" language tag used for encyclopedia lookups. Unlisted
// countries fall back to English.
var countryLanguages = map[string]string{
	"IT": "it", "FR": "fr", "ES": "es", "DE": "de", "GR": "el",
	"PT": "pt", "HR": "hr", "TR": "tr", "MT": "mt", "CY": "el",
	"GB": "en", "US": "en", "IE": "en", "AU": "en",
}

// LanguageForCountry returns the wiki-encyclopedia language tag for a
// country code.
func LanguageForCountry(code string) string {
	if lang, ok := countryLanguages[strings.ToUpper(code)]; ok {
		return lang
	}
	return "en"
}

// nominatimSearchResult is one hit of Nominatim's free-form /search lookup.
type nominatimSearchResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Class       string `json:"class"`
	Type        string `json:"type"`
	AddressType string `json:"addresstype"`
}

// forwardPlaceValues are the Nominatim addresstype/type values worth keeping
// as municipality candidates; anything else (a street, a POI, a country) is
// too coarse or too fine-grained to seed discovery.
var forwardPlaceValues = map[string]bool{
	"city": true, "town": true, "village": true,
	"hamlet": true, "suburb": true, "municipality": true,
}

// ForwardGeocode queries Nominatim's /search endpoint for zoneName and turns
// the place/boundary hits into municipality candidates. This is the second
// of the two discovery paths §4.5 requires, alongside Overpass's place-node
// query; a zone name often names (or contains) the municipality it's
// centered on even when that place's OSM node carries no matching tags.
func (p *GeocoderProvider) ForwardGeocode(ctx context.Context, zoneName string) ([]municipality.Candidate, error) {
	if strings.TrimSpace(zoneName) == "" {
		return nil, nil
	}

	u := fmt.Sprintf("%s?format=jsonv2&q=%s&limit=10", forwardSearchEndpoint(p.endpoint), url.QueryEscape(zoneName))
	body, err := p.client.GetWithTimeout(ctx, u, p.timeout)
	if err != nil {
		return nil, fmt.Errorf("forward geocode failed: %w", err)
	}

	var results []nominatimSearchResult
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, fmt.Errorf("failed to decode forward geocode response: %w", err)
	}

	var candidates []municipality.Candidate
	for _, r := range results {
		if r.Class != "place" && r.Class != "boundary" {
			continue
		}
		placeType := strings.ToLower(r.AddressType)
		if placeType == "" {
			placeType = strings.ToLower(r.Type)
		}
		if !forwardPlaceValues[placeType] {
			continue
		}
		lat, latErr := strconv.ParseFloat(r.Lat, 64)
		lon, lonErr := strconv.ParseFloat(r.Lon, 64)
		if latErr != nil || lonErr != nil {
			continue
		}
		name := r.Name
		if name == "" {
			name = firstDisplayNameComponent(r.DisplayName)
		}
		if name == "" {
			continue
		}
		candidates = append(candidates, municipality.Candidate{
			Name:      name,
			Lat:       lat,
			Lng:       lon,
			PlaceType: placeType,
		})
	}
	return candidates, nil
}

// forwardSearchEndpoint derives Nominatim's /search URL from the configured
// /reverse endpoint, the two living side by side on the same Nominatim
// deployment.
func forwardSearchEndpoint(reverseEndpoint string) string {
	if strings.HasSuffix(reverseEndpoint, "/reverse") {
		return strings.TrimSuffix(reverseEndpoint, "/reverse") + "/search"
	}
	return reverseEndpoint + "/search"
}

// firstDisplayNameComponent returns the first comma-separated component of
// a Nominatim display_name, used as a fallback place name when a result
// carries no standalone "name" field.
func firstDisplayNameComponent(displayName string) string {
	parts := strings.SplitN(displayName, ",", 2)
	return strings.TrimSpace(parts[0])
}
