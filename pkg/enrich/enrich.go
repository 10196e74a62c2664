// Package enrich fills in missing or thin POI descriptions and images
// through an ordered fallback chain of external lookups, finishing with a
// templated description when nothing else yields a confident result.
package enrich

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/aurel42/zonepoi/pkg/llm"
	"github.com/aurel42/zonepoi/pkg/model"
	"github.com/aurel42/zonepoi/pkg/provider"
)

// minDescriptionLen is the threshold below which a POI's description is
// treated as missing rather than merely short.
const minDescriptionLen = 20

// strategySpacing is the pause between successive fallback strategies for a
// single POI, keeping per-POI enrichment from hammering several unrelated
// hosts back to back.
const strategySpacing = 500 * time.Millisecond

// minConfidence is the threshold a strategy's result must reach to be
// accepted without falling through to the next strategy.
const minConfidence = 0.5

// result is one strategy's attempt at enriching a POI.
type result struct {
	description string
	imageURL    string
	confidence  float64
}

type strategy struct {
	name string
	run  func(ctx context.Context, e *Enricher, poi model.POI) (result, bool)
}

// EncyclopediaLookup is the capability the encyclopedia strategy needs;
// *provider.EncyclopediaProvider satisfies it structurally.
type EncyclopediaLookup interface {
	FetchSummary(ctx context.Context, lang, title string) (*model.Article, error)
}

// WikibaseLookup is the capability the wikibase strategy needs;
// *provider.WikibaseProvider satisfies it structurally.
type WikibaseLookup interface {
	DescribeByName(ctx context.Context, name string) (provider.Description, bool, error)
}

// WebSearcher is the capability the trusted-site strategy uses to find
// candidate pages; *provider.WebSearchProvider satisfies it structurally.
type WebSearcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]provider.SearchResult, error)
}

// PageFetcher is the capability the trusted-site strategy uses to fetch and
// extract a candidate page's prose; *provider.DivingPageProvider satisfies
// it structurally (its extraction is generic HTML-body prose, not
// diving-specific).
type PageFetcher interface {
	Fetch(ctx context.Context, u string) (*provider.Page, error)
}

// Enricher runs the enrichment fallback chain against a POI using whichever
// capabilities were supplied at construction; a nil capability's strategy is
// simply skipped.
type Enricher struct {
	encyclopedia EncyclopediaLookup
	wikibase     WikibaseLookup
	search       WebSearcher
	pages        PageFetcher
	extractor    llm.Extractor

	lang    string
	country string

	enabled bool
}

// Option configures an Enricher at construction time.
type Option func(*Enricher)

// WithEncyclopedia wires the encyclopedia-summary strategy.
func WithEncyclopedia(p EncyclopediaLookup) Option {
	return func(e *Enricher) { e.encyclopedia = p }
}

// WithWikibase wires the wikibase-description strategy.
func WithWikibase(p WikibaseLookup) Option {
	return func(e *Enricher) { e.wikibase = p }
}

// WithTrustedSiteSearch wires the trusted-site-scrape strategy: search finds
// candidate pages, pages fetches and extracts their prose.
func WithTrustedSiteSearch(search WebSearcher, pages PageFetcher) Option {
	return func(e *Enricher) { e.search, e.pages = search, pages }
}

// WithExtractor wires an optional LLM capability used only to turn the
// templated fallback's raw facts into a short prose passage; it never
// replaces the non-LLM strategies above it in the chain.
func WithExtractor(x llm.Extractor) Option {
	return func(e *Enricher) { e.extractor = x }
}

// WithLocale sets the language tag and country name passed to strategies
// that need to qualify a lookup or query.
func WithLocale(lang, country string) Option {
	return func(e *Enricher) { e.lang, e.country = lang, country }
}

// New creates an Enricher. enabled controls whether Enrich does any work at
// all. The CLI entrypoint passes true; enhanced-mode requests are not
// enriched because the search orchestrator skips EnrichAll for them.
func New(enabled bool, opts ...Option) *Enricher {
	e := &Enricher{enabled: enabled, lang: "en"}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// chain lists strategies in the order spec requires: encyclopedia lookup,
// wikibase description/image, trusted-site scrape, templated fallback. The
// templated strategy always "succeeds" so it always terminates the chain.
var chain = []strategy{
	{"encyclopedia", encyclopediaStrategy},
	{"wikibase", wikibaseStrategy},
	{"trusted_site", trustedSiteStrategy},
	{"template", templateStrategy},
}

// Enrich returns poi with Description/ImageURL filled in when they were
// missing or thin. It is a no-op (returning poi unchanged) when enrichment
// is disabled or poi already has enough content.
func (e *Enricher) Enrich(ctx context.Context, poi model.POI) model.POI {
	if !e.enabled || !needsEnrichment(poi) {
		return poi
	}
	poi = stampUUID(poi)

	for i, s := range chain {
		if i > 0 {
			select {
			case <-ctx.Done():
				return poi
			case <-time.After(strategySpacing):
			}
		}

		res, ok := s.run(ctx, e, poi)
		if !ok {
			continue
		}
		if res.description != "" && len(res.description) > len(poi.Description) {
			poi.Description = res.description
		}
		if res.imageURL != "" && poi.ImageURL == "" {
			poi.ImageURL = res.imageURL
		}
		if res.confidence >= minConfidence || s.name == "template" {
			return poi
		}
	}
	return poi
}

// EnrichAll enriches every POI in pois in place, returning the updated
// slice. POIs that don't need enrichment are returned unchanged.
func (e *Enricher) EnrichAll(ctx context.Context, pois []model.POI) []model.POI {
	for i, poi := range pois {
		pois[i] = e.Enrich(ctx, poi)
	}
	return pois
}

func needsEnrichment(poi model.POI) bool {
	return len(poi.Description) < minDescriptionLen || poi.ImageURL == ""
}

// stampUUID assigns a stable local identifier to a POI passing through
// enrichment, so a POI built entirely from free text (no upstream
// OSM/Wikidata ID) still has something a caller can use to refer back to
// this exact record across requests.
func stampUUID(poi model.POI) model.POI {
	if poi.ExternalIDs == nil {
		poi.ExternalIDs = map[string]string{}
	}
	if poi.ExternalIDs["uuid"] == "" {
		poi.ExternalIDs["uuid"] = uuid.New().String()
	}
	return poi
}
