package enrich

import (
	"context"
	"fmt"
	"strings"

	"github.com/aurel42/zonepoi/pkg/model"
	"github.com/aurel42/zonepoi/pkg/provider"
)

// encyclopediaStrategy fetches the encyclopedia summary for poi.Name. A
// summary's extract is generally trustworthy prose, so it's scored high.
func encyclopediaStrategy(ctx context.Context, e *Enricher, poi model.POI) (result, bool) {
	if e.encyclopedia == nil {
		return result{}, false
	}
	article, err := e.encyclopedia.FetchSummary(ctx, e.lang, poi.Name)
	if err != nil || article == nil {
		return result{}, false
	}
	if article.Text == "" && article.ThumbnailURL == "" {
		return result{}, false
	}
	return result{
		description: article.Text,
		imageURL:    article.ThumbnailURL,
		confidence:  0.85,
	}, true
}

// wikibaseStrategy looks up a single matching item's English description
// and image by label.
func wikibaseStrategy(ctx context.Context, e *Enricher, poi model.POI) (result, bool) {
	if e.wikibase == nil {
		return result{}, false
	}
	desc, ok, err := e.wikibase.DescribeByName(ctx, poi.Name)
	if err != nil || !ok {
		return result{}, false
	}
	return result{
		description: desc.Text,
		imageURL:    desc.ImageURL,
		confidence:  0.7,
	}, true
}

// trustedSiteMaxResults bounds how many search hits trustedSiteStrategy
// will fetch looking for usable prose.
const trustedSiteMaxResults = 3

// trustedSiteStrategy searches for poi.Name, restricts hits to
// geographically plausible and non-blocked domains, and takes the first
// fetched page's leading prose as the description.
func trustedSiteStrategy(ctx context.Context, e *Enricher, poi model.POI) (result, bool) {
	if e.search == nil || e.pages == nil {
		return result{}, false
	}

	query := poi.Name
	if e.country != "" {
		query = fmt.Sprintf("%s %s", poi.Name, e.country)
	}
	results, err := e.search.Search(ctx, query, trustedSiteMaxResults)
	if err != nil {
		return result{}, false
	}

	for _, r := range results {
		host := hostOf(r.URL)
		if provider.IsBlockedDomain(host) || !provider.IsGeographicallyRelevant(r) {
			continue
		}
		page, err := e.pages.Fetch(ctx, r.URL)
		if err != nil || page == nil || page.Prose == "" {
			continue
		}
		desc := leadingProse(page.Prose, 400)
		if desc == "" {
			continue
		}
		confidence := 0.5
		if provider.IsTrustedDomain(host) {
			confidence = 0.6
		}
		return result{description: desc, confidence: confidence}, true
	}
	return result{}, false
}

// templateStrategy builds a deterministic sentence from the POI's own
// fields, then hands it to the optional LLM rewrite capability for light
// polishing. It never fails: the chain always terminates here.
func templateStrategy(ctx context.Context, e *Enricher, poi model.POI) (result, bool) {
	base := templateSentence(poi)

	if e.extractor == nil {
		return result{description: base, confidence: 1}, true
	}

	rewritten, err := e.extractor.Rewrite(ctx, rewritePrompt(poi, base))
	if err != nil || strings.TrimSpace(rewritten) == "" {
		return result{description: base, confidence: 1}, true
	}
	return result{description: strings.TrimSpace(rewritten), confidence: 1}, true
}

func templateSentence(poi model.POI) string {
	if poi.Kind == model.KindMarine {
		kind := string(poi.MarineSubkind)
		if kind == "" {
			kind = "marine point of interest"
		}
		return fmt.Sprintf("%s is a %s located off the coast near %.4f, %.4f.",
			poi.Name, strings.ReplaceAll(kind, "_", " "), poi.Lat, poi.Lon)
	}
	return fmt.Sprintf("%s is a point of interest located at %.4f, %.4f.", poi.Name, poi.Lat, poi.Lon)
}

func rewritePrompt(poi model.POI, base string) string {
	return fmt.Sprintf(
		"Rewrite the following one-sentence place description into a short, natural two-sentence blurb. "+
			"Do not invent facts beyond what is given. Name: %s. Facts: %s",
		poi.Name, base)
}

// leadingProse returns the first non-empty line of prose, truncated to
// maxLen runes.
func leadingProse(prose string, maxLen int) string {
	for _, line := range strings.Split(prose, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		runes := []rune(line)
		if len(runes) > maxLen {
			return string(runes[:maxLen]) + "..."
		}
		return line
	}
	return ""
}

func hostOf(rawURL string) string {
	rest := rawURL
	if idx := strings.Index(rest, "://"); idx != -1 {
		rest = rest[idx+3:]
	}
	if idx := strings.IndexAny(rest, "/?#"); idx != -1 {
		rest = rest[:idx]
	}
	return rest
}
