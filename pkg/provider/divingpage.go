package provider

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/aurel42/zonepoi/pkg/request"
)

// DivingPageProvider fetches an arbitrary diving-center page and extracts
// its body prose, for the marine sub-pipeline's wreck-name/coordinate/depth
// regex extraction to run against.
type DivingPageProvider struct {
	client *request.Client
}

// NewDivingPageProvider creates a provider using client for fetches.
func NewDivingPageProvider(client *request.Client) *DivingPageProvider {
	return &DivingPageProvider{client: client}
}

// Page is the extracted content of a fetched diving-center page.
type Page struct {
	URL   string
	Prose string
}

// Fetch retrieves u and extracts its body prose, stripping scripts, nav,
// header and footer elements.
func (p *DivingPageProvider) Fetch(ctx context.Context, u string) (*Page, error) {
	body, err := p.client.Get(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("diving page fetch failed: %w", err)
	}

	doc, err := html.Parse(strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse diving page: %w", err)
	}

	bodyNode := findBody(doc)
	if bodyNode == nil {
		return &Page{URL: u}, nil
	}

	var b strings.Builder
	extractBodyProse(bodyNode, &b)
	prose := strings.TrimSpace(collapseWhitespace(b.String()))

	return &Page{URL: u, Prose: prose}, nil
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == atom.Body {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if res := findBody(c); res != nil {
			return res
		}
	}
	return nil
}

// structuralNoiseTags are removed wholesale: navigation, chrome and
// non-prose content that would otherwise pollute the extracted text with
// menu labels and cookie-banner boilerplate.
var structuralNoiseTags = map[atom.Atom]bool{
	atom.Script: true, atom.Style: true, atom.Nav: true,
	atom.Header: true, atom.Footer: true, atom.Noscript: true,
	atom.Svg: true, atom.Form: true, atom.Iframe: true,
}

func isStructuralNoiseNode(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	if structuralNoiseTags[n.DataAtom] {
		return true
	}
	for _, a := range n.Attr {
		if a.Key == "class" || a.Key == "id" {
			val := strings.ToLower(a.Val)
			if strings.Contains(val, "cookie") || strings.Contains(val, "menu") ||
				strings.Contains(val, "sidebar") || strings.Contains(val, "navbar") {
				return true
			}
		}
	}
	return false
}

func extractBodyProse(n *html.Node, b *strings.Builder) {
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
		b.WriteString(" ")
		return
	}
	if n.Type == html.ElementNode && isStructuralNoiseNode(n) {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		extractBodyProse(c, b)
	}
	if n.Type == html.ElementNode && (n.DataAtom == atom.P || n.DataAtom == atom.Div || n.DataAtom == atom.Li) {
		b.WriteString("\n")
	}
}

func collapseWhitespace(s string) string {
	lines := strings.Split(s, "\n")
	var kept []string
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		kept = append(kept, strings.Join(fields, " "))
	}
	return strings.Join(kept, "\n")
}
