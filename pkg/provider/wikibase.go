package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/aurel42/zonepoi/pkg/geo"
	"github.com/aurel42/zonepoi/pkg/model"
	"github.com/aurel42/zonepoi/pkg/request"
)

// wikibaseTouristClasses is the fixed set of instance-of IRIs the tourist
// SPARQL query accepts.
var wikibaseTouristClasses = []string{
	"Q23413",   // castle
	"Q33506",   // museum
	"Q16970",   // church building
	"Q4989906", // monument
	"Q2310219", // tourist attraction
	"Q839954",  // archaeological site
	"Q1076486", // viewpoint
	"Q39715",   // lighthouse
	"Q851266",  // shipwreck
	"Q16560",   // palace
	"Q44613",   // monastery
	"Q57821",   // fortification
}

// WikibaseProvider queries a Wikibase SPARQL endpoint (default:
// query.wikidata.org) for tourist-class items with coordinates inside bbox.
type WikibaseProvider struct {
	client   *request.Client
	endpoint string
}

// NewWikibaseProvider creates a provider against endpoint.
func NewWikibaseProvider(client *request.Client, endpoint string) *WikibaseProvider {
	return &WikibaseProvider{client: client, endpoint: endpoint}
}

// QueryTourist returns tourist-class items inside bbox.
func (p *WikibaseProvider) QueryTourist(ctx context.Context, bbox geo.BBox) ([]model.POI, error) {
	query := buildWikibaseTouristQuery(bbox)
	bindings, err := querySPARQL(ctx, p.client, p.endpoint, query)
	if err != nil {
		return nil, err
	}
	return bindingsToPOIs(bindings), nil
}

// Description is the result of looking an item up by label: its English
// description and, when present, a direct image URL resolved from its
// Commons filename (P18).
type Description struct {
	Text     string
	ImageURL string
}

// DescribeByName looks up a single item whose English label matches name
// and returns its description and image, for enrichment's per-POI lookups
// rather than the bbox-scoped tourist sweep QueryTourist performs.
func (p *WikibaseProvider) DescribeByName(ctx context.Context, name string) (Description, bool, error) {
	query := buildWikibaseDescribeQuery(name)
	bindings, err := querySPARQL(ctx, p.client, p.endpoint, query)
	if err != nil {
		return Description{}, false, err
	}
	if len(bindings) == 0 {
		return Description{}, false, nil
	}

	b := bindings[0]
	desc := Description{
		Text:     sparqlVal(b, "itemDescription"),
		ImageURL: sparqlVal(b, "image"), // wdt:P18 resolves to a Special:FilePath URL, usable directly
	}
	return desc, desc.Text != "" || desc.ImageURL != "", nil
}

func buildWikibaseDescribeQuery(name string) string {
	escaped := strings.ReplaceAll(name, `"`, `\"`)
	return fmt.Sprintf(`SELECT ?item ?itemDescription ?image WHERE {
  ?item rdfs:label "%s"@en .
  OPTIONAL { ?item wdt:P18 ?image . }
  SERVICE wikibase:label { bd:serviceParam wikibase:language "en". }
} LIMIT 1`, escaped)
}

func buildWikibaseTouristQuery(b geo.BBox) string {
	var values []string
	for _, c := range wikibaseTouristClasses {
		values = append(values, "wd:"+c)
	}
	classValues := strings.Join(values, " ")

	return fmt.Sprintf(`SELECT ?item ?itemLabel ?lat ?lon ?itemDescription WHERE {
  VALUES ?class { %s }
  ?item wdt:P31 ?class .
  ?item p:P625/psv:P625 [ wikibase:geoLatitude ?lat ; wikibase:geoLongitude ?lon ] .
  FILTER(?lat >= %f && ?lat <= %f && ?lon >= %f && ?lon <= %f)
  SERVICE wikibase:label { bd:serviceParam wikibase:language "en". }
}`, classValues, b.South, b.North, b.West, b.East)
}

func bindingsToPOIs(bindings []map[string]sparqlValue) []model.POI {
	var pois []model.POI
	for _, b := range bindings {
		name := sparqlVal(b, "itemLabel")
		if name == "" {
			continue
		}
		lat := parseFloatOrZero(sparqlVal(b, "lat"))
		lon := parseFloatOrZero(sparqlVal(b, "lon"))
		itemURI := sparqlVal(b, "item")
		qid := itemURI
		if idx := strings.LastIndex(itemURI, "/"); idx != -1 && idx < len(itemURI)-1 {
			qid = itemURI[idx+1:]
		}
		pois = append(pois, model.POI{
			Name:        name,
			Lat:         lat,
			Lon:         lon,
			Kind:        model.KindLand,
			Source:      model.SourceWikibase,
			Description: sparqlVal(b, "itemDescription"),
			ExternalIDs: map[string]string{"wikibase_qid": qid},
		})
	}
	return pois
}
