package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/aurel42/zonepoi/pkg/geo"
	"github.com/aurel42/zonepoi/pkg/model"
	"github.com/aurel42/zonepoi/pkg/request"
)

// DBpediaProvider queries the DBpedia SPARQL endpoint for Shipwreck/Reef
// resources. It runs in the wiki-family fanout task; its results are kept
// only when the marine stream is requested.
type DBpediaProvider struct {
	client   *request.Client
	endpoint string
}

// NewDBpediaProvider creates a provider against endpoint.
func NewDBpediaProvider(client *request.Client, endpoint string) *DBpediaProvider {
	return &DBpediaProvider{client: client, endpoint: endpoint}
}

// QueryMarine returns Shipwreck/Reef resources inside bbox, explicitly
// excluding Lighthouse/Port/Harbour.
func (p *DBpediaProvider) QueryMarine(ctx context.Context, bbox geo.BBox) ([]model.POI, error) {
	query := buildDBpediaMarineQuery(bbox)
	bindings, err := querySPARQL(ctx, p.client, p.endpoint, query)
	if err != nil {
		return nil, err
	}
	return dbpediaBindingsToPOIs(bindings), nil
}

func buildDBpediaMarineQuery(b geo.BBox) string {
	return fmt.Sprintf(`PREFIX dbo: <http://dbpedia.org/ontology/>
PREFIX geo: <http://www.w3.org/2003/01/geo/wgs84_pos#>
SELECT ?item ?label ?lat ?lon ?abstract WHERE {
  { ?item a dbo:Shipwreck . } UNION { ?item a dbo:Reef . }
  ?item geo:lat ?lat ; geo:long ?lon .
  ?item rdfs:label ?label . FILTER(lang(?label) = "en")
  OPTIONAL { ?item dbo:abstract ?abstract . FILTER(lang(?abstract) = "en") }
  FILTER(?lat >= %f && ?lat <= %f && ?lon >= %f && ?lon <= %f)
  FILTER NOT EXISTS { ?item a dbo:Lighthouse }
  FILTER NOT EXISTS { ?item a dbo:Port }
  FILTER NOT EXISTS { ?item a dbo:Harbour }
}`, b.South, b.North, b.West, b.East)
}

func dbpediaBindingsToPOIs(bindings []map[string]sparqlValue) []model.POI {
	var pois []model.POI
	for _, b := range bindings {
		name := sparqlVal(b, "label")
		if name == "" {
			continue
		}
		lat := parseFloatOrZero(sparqlVal(b, "lat"))
		lon := parseFloatOrZero(sparqlVal(b, "lon"))
		itemURI := sparqlVal(b, "item")
		id := itemURI
		if idx := strings.LastIndex(itemURI, "/"); idx != -1 && idx < len(itemURI)-1 {
			id = itemURI[idx+1:]
		}
		subkind := model.SubkindWreck
		pois = append(pois, model.POI{
			Name:          name,
			Lat:           lat,
			Lon:           lon,
			Kind:          model.KindMarine,
			MarineSubkind: subkind,
			Source:        model.SourceDBpedia,
			Description:   sparqlVal(b, "abstract"),
			ExternalIDs:   map[string]string{"dbpedia_id": id},
		})
	}
	return pois
}
