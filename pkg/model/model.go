// Package model defines the canonical records the search pipeline operates
// on: points of interest, municipalities, requests and results.
package model

import (
	"fmt"
)

// Kind classifies a POI as a land or marine record.
type Kind string

const (
	KindLand   Kind = "land"
	KindMarine Kind = "marine"
)

// MarineSubkind further classifies a marine POI.
type MarineSubkind string

const (
	SubkindWreck       MarineSubkind = "wreck"
	SubkindReef        MarineSubkind = "reef"
	SubkindLighthouse  MarineSubkind = "lighthouse"
	SubkindDivingSite  MarineSubkind = "diving_site"
	SubkindCave        MarineSubkind = "cave"
	SubkindObstruction MarineSubkind = "obstruction"
	SubkindMarinePOI   MarineSubkind = "marine_poi"
)

// Source identifies which provider produced a POI.
type Source string

const (
	SourceOSM             Source = "osm"
	SourceWikiEncyclopedia Source = "wiki_encyclopedia"
	SourceWikibase        Source = "wikibase"
	SourceDBpedia         Source = "dbpedia"
	SourceWebSearch       Source = "web_search"
	SourceLocalDB         Source = "local_db"
	SourceGenerated       Source = "generated"
)

// AccessibilityLevel buckets how approachable a marine POI is.
type AccessibilityLevel string

const (
	AccessibilityEasy     AccessibilityLevel = "easy"
	AccessibilityModerate AccessibilityLevel = "moderate"
	AccessibilityAdvanced AccessibilityLevel = "advanced"
	AccessibilityExpert   AccessibilityLevel = "expert"
	AccessibilityUnknown  AccessibilityLevel = "unknown"
)

// Accessibility is structured accessibility information for marine POIs.
type Accessibility struct {
	Level        AccessibilityLevel `json:"level"`
	Requirements string             `json:"requirements,omitempty"`
}

// POI is the central record produced and consumed by the pipeline.
type POI struct {
	Name          string            `json:"name"`
	Lat           float64           `json:"lat"`
	Lon           float64           `json:"lon"`
	Kind          Kind              `json:"kind"`
	MarineSubkind MarineSubkind     `json:"marine_subkind,omitempty"`
	Source        Source            `json:"source"`
	Description   string            `json:"description,omitempty"`
	DepthMeters   *float64          `json:"depth_meters,omitempty"`
	Accessibility Accessibility     `json:"accessibility"`
	Relevance     float64           `json:"relevance_score"`
	ExternalIDs   map[string]string `json:"external_ids,omitempty"`
	LanguageTag   string            `json:"language_tag,omitempty"`

	// EstimatedFromWeb marks a marine POI whose coordinates were derived
	// from free-text extraction rather than a confirmed water-check; it is
	// the explicit exemption spec.md's invariants carve out for such POIs.
	EstimatedFromWeb bool `json:"estimated_from_web,omitempty"`

	// ImageURL is populated by enrichment when a strategy finds one.
	ImageURL string `json:"image_url,omitempty"`
}

// String renders a POI for logging.
func (p *POI) String() string {
	return fmt.Sprintf("%s (%s/%s) @ %.5f,%.5f [%s]", p.Name, p.Kind, p.MarineSubkind, p.Lat, p.Lon, p.Source)
}

// TourismLevel classifies how touristically significant a municipality is.
type TourismLevel string

const (
	TourismHigh   TourismLevel = "high"
	TourismMedium TourismLevel = "medium"
	TourismLow    TourismLevel = "low"
)

// GeographicContext classifies the character of a municipality's surroundings.
type GeographicContext string

const (
	ContextCoastal        GeographicContext = "coastal"
	ContextUNESCOHeritage GeographicContext = "unesco_heritage"
	ContextNaturalArea    GeographicContext = "natural_area"
	ContextProtectedArea  GeographicContext = "protected_area"
	ContextGeneric        GeographicContext = "generic"
)

// Municipality is an administrative unit discovered inside a zone, with its
// attached hamlets/subdivisions.
type Municipality struct {
	Name              string            `json:"name"`
	Subdivisions      []string          `json:"subdivisions,omitempty"`
	POICountEstimate  int               `json:"poi_count_estimate"`
	TourismLevel      TourismLevel      `json:"tourism_level"`
	GeographicContext GeographicContext `json:"geographic_context"`
	Centroid          *LatLng           `json:"centroid,omitempty"`
}

// LatLng is a plain WGS-84 coordinate pair.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// SearchMode selects the pipeline variant.
type SearchMode string

const (
	ModeStandard SearchMode = "standard"
	ModeEnhanced SearchMode = "enhanced"
)

// SearchRequest is the input to the orchestrator's search operation.
type SearchRequest struct {
	ZoneName         string     `json:"zone_name"`
	Polygon          []LatLng   `json:"polygon"`
	ExtendMarine     bool       `json:"extend_marine"`
	MarineOnly       bool       `json:"marine_only"`
	EnableEnrichment bool       `json:"enable_enrichment"`
	Mode             SearchMode `json:"mode"`
}

// Country identifies the legal country a zone (or its centroid) sits in.
type Country struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Statistics summarizes a search result's provenance.
type Statistics struct {
	Total       int      `json:"total"`
	Land        int      `json:"land"`
	Marine      int      `json:"marine"`
	SourcesUsed []string `json:"sources_used"`
}

// DepthBucket buckets marine POIs by depth for reporting.
type DepthBucket string

const (
	DepthSurface      DepthBucket = "surface"
	DepthShallow      DepthBucket = "shallow"
	DepthRecreational DepthBucket = "recreational"
	DepthTechnical    DepthBucket = "technical"
	DepthUnknown      DepthBucket = "unknown"
)

// MarineAnalysis summarizes the marine sub-pipeline's contribution.
type MarineAnalysis struct {
	IsCoastal    bool                `json:"is_coastal"`
	DepthAnalysis map[DepthBucket]int `json:"depth_analysis"`
}

// SearchResult is the output of the orchestrator's search operation.
type SearchResult struct {
	ZoneName       string          `json:"zone_name"`
	Country        *Country        `json:"country"`
	Municipalities []Municipality  `json:"municipalities"`
	POIs           []POI           `json:"pois"`
	Statistics     Statistics      `json:"statistics"`
	MarineAnalysis *MarineAnalysis `json:"marine_analysis,omitempty"`
}

// LocationInfo is what the reverse-geocoder provider returns for a point.
type LocationInfo struct {
	CountryCode string `json:"country_code"`
	CountryName string `json:"country_name"`
	PlaceType   string `json:"place_type"` // e.g. "city", "sea", "ocean"
	DisplayName string `json:"display_name"`
}

// IsWater reports whether the reverse-geocoded place is a body of water
// rather than land, based on its place type.
func (l LocationInfo) IsWater() bool {
	switch l.PlaceType {
	case "sea", "ocean", "bay", "strait", "water", "reef", "shoal", "channel", "":
		return l.PlaceType != ""
	default:
		return false
	}
}

// Article is a page/entity summary fetched from a Linked-Data or
// encyclopedia provider.
type Article struct {
	UUID         string            `json:"uuid"`
	Title        string            `json:"title"`
	URL          string            `json:"url"`
	Names        map[string]string `json:"names,omitempty"`
	Text         string            `json:"text"`
	ThumbnailURL string            `json:"thumbnail_url,omitempty"`
	Lat          float64           `json:"lat"`
	Lon          float64           `json:"lon"`
	QID          string            `json:"qid,omitempty"`
	Sitelinks    int               `json:"sitelinks,omitempty"`
	Instances    []string          `json:"instances,omitempty"`
}
