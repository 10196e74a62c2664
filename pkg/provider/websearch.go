package provider

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/aurel42/zonepoi/pkg/request"
)

// SearchResult is one raw hit from a web search, before any relevance
// filtering is applied.
type SearchResult struct {
	URL     string
	Title   string
	Snippet string
}

// trustedDomainKeywords mark a result's host as a likely diving-center site,
// independent of the query that produced it.
var trustedDomainKeywords = []string{
	"diving", "dive", "sub", "scuba", "immersion", "plongee", "plongée",
	"buceo", "tauchen", "apnea", "underwater", "nautica",
}

// blockedDomainKeywords mark a result as noise regardless of query match —
// marketplaces, forums and the search engines themselves.
var blockedDomainKeywords = []string{
	"booking", "amazon", "ebay", "reddit", "bing.com", "google.com",
	"yahoo.com", "facebook", "instagram", "tripadvisor", "pinterest",
}

// excludedGlobalPlaces are toponyms from other coastlines; a hit mentioning
// one of these is almost never relevant to a European zone search.
var excludedGlobalPlaces = []string{
	"caribbean", "bahamas", "cuba", "jamaica", "costa rica", "panama",
	"bali", "indonesia", "thailand", "philippines", "maldives", "red sea",
	"egypt", "australia", "fiji", "seychelles", "mauritius",
}

// WebSearchProvider finds diving-center pages for a municipality via a
// meta-search engine, falling back to a direct provider when the primary
// yields nothing.
type WebSearchProvider struct {
	client *request.Client
}

// NewWebSearchProvider creates a provider using client for both backends.
func NewWebSearchProvider(client *request.Client) *WebSearchProvider {
	return &WebSearchProvider{client: client}
}

// BuildQueries returns up to 3 multilingual diving/wreck search queries for
// municipality, optionally qualified by countryName.
func BuildQueries(municipality, countryName string) []string {
	var queries []string
	if countryName != "" {
		queries = append(queries,
			fmt.Sprintf("diving center %s %s wrecks", municipality, countryName),
			fmt.Sprintf("immersioni relitti %s %s", municipality, countryName),
			fmt.Sprintf("wreck diving %s %s", municipality, countryName),
		)
	} else {
		queries = append(queries,
			fmt.Sprintf("diving center %s wrecks", municipality),
			fmt.Sprintf("immersioni relitti %s", municipality),
			fmt.Sprintf("wreck diving %s", municipality),
		)
	}
	if len(queries) > 3 {
		queries = queries[:3]
	}
	return queries
}

// Search runs query against the meta-search backend, falling back to the
// direct backend if the meta-search returns nothing usable.
func (p *WebSearchProvider) Search(ctx context.Context, query string, maxResults int) ([]SearchResult, error) {
	results, err := p.metaSearch(ctx, query, maxResults)
	if err == nil && len(results) > 0 {
		return results, nil
	}
	return p.directSearch(ctx, query, maxResults)
}

var ddgResultLinkRe = regexp.MustCompile(`(?s)<a[^>]*class="result__a"[^>]*href="([^"]+)"[^>]*>(.*?)</a>`)
var ddgSnippetRe = regexp.MustCompile(`(?s)<a[^>]*class="result__snippet"[^>]*>(.*?)</a>`)
var htmlTagRe = regexp.MustCompile(`<[^>]*>`)

// metaSearch scrapes the HTML (non-JS) DuckDuckGo search results page.
func (p *WebSearchProvider) metaSearch(ctx context.Context, query string, maxResults int) ([]SearchResult, error) {
	u := "https://html.duckduckgo.com/html/?q=" + url.QueryEscape(query)
	body, err := p.client.Get(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("meta search failed: %w", err)
	}

	html := string(body)
	links := ddgResultLinkRe.FindAllStringSubmatch(html, -1)
	snippets := ddgSnippetRe.FindAllStringSubmatch(html, -1)

	results := make([]SearchResult, 0, maxResults)
	for i, m := range links {
		if len(results) >= maxResults {
			break
		}
		href := decodeDDGRedirect(m[1])
		if href == "" {
			continue
		}
		title := strings.TrimSpace(htmlTagRe.ReplaceAllString(m[2], ""))
		snippet := ""
		if i < len(snippets) {
			snippet = strings.TrimSpace(htmlTagRe.ReplaceAllString(snippets[i][1], ""))
		}
		results = append(results, SearchResult{URL: href, Title: title, Snippet: snippet})
	}
	return results, nil
}

// decodeDDGRedirect unwraps DuckDuckGo's "/l/?uddg=<encoded>" redirect links
// into the real target URL; hrefs that are already absolute pass through.
func decodeDDGRedirect(href string) string {
	if strings.HasPrefix(href, "http") {
		return href
	}
	if idx := strings.Index(href, "uddg="); idx != -1 {
		rest := href[idx+len("uddg="):]
		if amp := strings.Index(rest, "&"); amp != -1 {
			rest = rest[:amp]
		}
		decoded, err := url.QueryUnescape(rest)
		if err == nil {
			return decoded
		}
	}
	return ""
}

// directSearch is the fallback backend: it queries Bing's HTML results page
// directly, used only when the meta-search backend fails or is empty.
func (p *WebSearchProvider) directSearch(ctx context.Context, query string, maxResults int) ([]SearchResult, error) {
	u := "https://www.bing.com/search?q=" + url.QueryEscape(query)
	body, err := p.client.Get(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("direct search failed: %w", err)
	}

	html := string(body)
	re := regexp.MustCompile(`(?s)<h2><a href="([^"]+)"[^>]*>(.*?)</a></h2>`)
	matches := re.FindAllStringSubmatch(html, -1)

	results := make([]SearchResult, 0, maxResults)
	for _, m := range matches {
		if len(results) >= maxResults {
			break
		}
		if !strings.HasPrefix(m[1], "http") {
			continue
		}
		title := strings.TrimSpace(htmlTagRe.ReplaceAllString(m[2], ""))
		results = append(results, SearchResult{URL: m[1], Title: title})
	}
	return results, nil
}

// IsTrustedDomain reports whether host's name suggests a diving/marine site.
func IsTrustedDomain(host string) bool {
	h := strings.ToLower(host)
	for _, kw := range trustedDomainKeywords {
		if strings.Contains(h, kw) {
			return true
		}
	}
	return false
}

// IsBlockedDomain reports whether host is a marketplace/social/search-engine
// domain that should never be treated as a diving-center source.
func IsBlockedDomain(host string) bool {
	h := strings.ToLower(host)
	for _, kw := range blockedDomainKeywords {
		if strings.Contains(h, kw) {
			return true
		}
	}
	return false
}

// IsGeographicallyRelevant reports whether a result plausibly belongs to the
// searched zone: it rejects hits mentioning a well-known non-European
// coastline, and otherwise accepts (a missing municipality match is not
// itself disqualifying, since generic diving-center pages rarely restate
// the municipality name in the snippet).
func IsGeographicallyRelevant(r SearchResult) bool {
	text := strings.ToLower(r.URL + " " + r.Title + " " + r.Snippet)
	for _, place := range excludedGlobalPlaces {
		if strings.Contains(text, place) {
			return false
		}
	}
	return true
}

// semanticKeywords groups multilingual terms a genuinely relevant diving
// page is expected to use.
var semanticKeywords = map[string][]string{
	"wreck":  {"wreck", "shipwreck", "relitto", "naufragio", "épave", "wrack"},
	"diving": {"diving", "dive", "scuba", "immersion", "subacque", "plongée", "buceo", "tauchen"},
	"marine": {"marine", "marino", "marin", "meer"},
}

// HasSemanticRelevance reports whether content matches at least two of the
// three keyword categories (wreck/diving/marine) genuinely diving-related
// prose is expected to contain.
func HasSemanticRelevance(content string) bool {
	lower := strings.ToLower(content)
	hits := 0
	for _, kws := range semanticKeywords {
		for _, kw := range kws {
			if strings.Contains(lower, kw) {
				hits++
				break
			}
		}
	}
	return hits >= 2
}
