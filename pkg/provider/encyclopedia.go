package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/google/uuid"

	"github.com/aurel42/zonepoi/pkg/geo"
	"github.com/aurel42/zonepoi/pkg/model"
	"github.com/aurel42/zonepoi/pkg/request"
)

// EncyclopediaProvider is the wiki-encyclopedia client: geosearch for
// candidate land POIs, plus the REST v1 summary endpoint for a page's
// description, thumbnail and coordinates (used both for the initial fanout
// and for per-POI enrichment).
type EncyclopediaProvider struct {
	client *request.Client

	// actionAPIBase/restAPIBase override the "https://<lang>.wikipedia.org"
	// host templates; left empty in production, set by tests to point at a
	// local fixture server.
	actionAPIBase string
	restAPIBase   string
}

// NewEncyclopediaProvider creates a provider. The "<lang>.wikipedia.org"
// host is chosen per call from the lang argument, which comes from the
// country's ISO-code → language-tag mapping.
func NewEncyclopediaProvider(client *request.Client) *EncyclopediaProvider {
	return &EncyclopediaProvider{client: client}
}

func (p *EncyclopediaProvider) actionAPIURL(lang string) string {
	if p.actionAPIBase != "" {
		return p.actionAPIBase
	}
	return fmt.Sprintf("https://%s.wikipedia.org/w/api.php", lang)
}

func (p *EncyclopediaProvider) restSummaryURL(lang, title string) string {
	if p.restAPIBase != "" {
		return p.restAPIBase + "/" + url.PathEscape(title)
	}
	return fmt.Sprintf("https://%s.wikipedia.org/api/rest_v1/page/summary/%s", lang, url.PathEscape(title))
}

type geosearchResponse struct {
	Query struct {
		Geosearch []struct {
			PageID int     `json:"pageid"`
			Title  string  `json:"title"`
			Lat    float64 `json:"lat"`
			Lon    float64 `json:"lon"`
		} `json:"geosearch"`
	} `json:"query"`
}

// QueryTourist returns candidate land POIs (title + coordinates only) found
// via geosearch around bbox's centroid, within its covering radius.
func (p *EncyclopediaProvider) QueryTourist(ctx context.Context, bbox geo.BBox, lang string) ([]model.POI, error) {
	if lang == "" {
		lang = "en"
	}
	center := geo.Centroid([]model.LatLng{
		{Lat: bbox.South, Lng: bbox.West},
		{Lat: bbox.North, Lng: bbox.East},
	})
	radiusM := geo.GeodesicDistanceM(
		model.LatLng{Lat: bbox.South, Lng: bbox.West},
		model.LatLng{Lat: bbox.North, Lng: bbox.East},
	) / 2
	if radiusM > 10000 {
		radiusM = 10000 // geosearch's hard cap
	}

	u := fmt.Sprintf("%s?action=query&list=geosearch&gscoord=%f|%f&gsradius=%d&gslimit=50&format=json",
		p.actionAPIURL(lang), center.Lat, center.Lng, int(radiusM))

	body, err := p.client.Get(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("geosearch failed: %w", err)
	}

	var resp geosearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode geosearch response: %w", err)
	}

	pois := make([]model.POI, 0, len(resp.Query.Geosearch))
	for _, g := range resp.Query.Geosearch {
		pois = append(pois, model.POI{
			Name:        g.Title,
			Lat:         g.Lat,
			Lon:         g.Lon,
			Kind:        model.KindLand,
			Source:      model.SourceWikiEncyclopedia,
			LanguageTag: lang,
			ExternalIDs: map[string]string{"wiki_pageid": fmt.Sprintf("%d", g.PageID)},
		})
	}
	return pois, nil
}

type summaryResponse struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Extract     string `json:"extract"`
	Thumbnail   struct {
		Source string `json:"source"`
	} `json:"thumbnail"`
	Coordinates struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"coordinates"`
	ContentURLs struct {
		Desktop struct {
			Page string `json:"page"`
		} `json:"desktop"`
	} `json:"content_urls"`
}

// FetchSummary fetches the REST v1 page summary for title in lang, stamping
// the returned Article with a fresh UUID since the summary endpoint carries
// no stable identifier of its own.
func (p *EncyclopediaProvider) FetchSummary(ctx context.Context, lang, title string) (*model.Article, error) {
	if lang == "" {
		lang = "en"
	}
	u := p.restSummaryURL(lang, title)

	body, err := p.client.Get(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("summary fetch failed: %w", err)
	}

	var resp summaryResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode summary response: %w", err)
	}

	return &model.Article{
		UUID:         uuid.New().String(),
		Title:        resp.Title,
		URL:          resp.ContentURLs.Desktop.Page,
		Text:         resp.Extract,
		ThumbnailURL: resp.Thumbnail.Source,
		Lat:          resp.Coordinates.Lat,
		Lon:          resp.Coordinates.Lon,
	}, nil
}
