package llm

import (
	"strings"
)

// WordWrap wraps text at the specified width.
func WordWrap(text string, width int) string {
	if width <= 0 {
		return text
	}

	var result strings.Builder
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if i > 0 {
			result.WriteString("\n")
		}

		words := strings.Fields(line)
		if len(words) == 0 {
			continue
		}

		currentLineLength := 0
		for j, word := range words {
			if j > 0 {
				if currentLineLength+len(word)+1 > width {
					result.WriteString("\n")
					currentLineLength = 0
				} else {
					result.WriteString(" ")
					currentLineLength++
				}
			}
			result.WriteString(word)
			currentLineLength += len(word)
		}
	}

	return result.String()
}

// CleanJSONBlock removes markdown code blocks from a JSON string if present.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)

	// Look for ```json start
	start := strings.Index(text, "```json")
	if start != -1 {
		text = text[start+len("```json"):]
		// Find end of block
		end := strings.LastIndex(text, "```")
		if end != -1 {
			text = text[:end]
		}
		return strings.TrimSpace(text)
	}

	// Look for generic ``` start
	start = strings.Index(text, "```")
	if start != -1 {
		text = text[start+len("```"):]
		// Find end of block
		end := strings.LastIndex(text, "```")
		if end != -1 {
			text = text[:end]
		}
		return strings.TrimSpace(text)
	}

	return strings.TrimSpace(text)
}

// wikiBlockOpenMarkers and wikiBlockCloseMarker bracket fetched article
// text. wikiHeaderSuffixes/wikiHeaderEndPrefixes cover the header form,
// used when a prompt just labels a trailing section rather than
// bracketing it.
var wikiBlockOpenMarkers = []string{"<start of Wikipedia article>"}
var wikiBlockCloseMarker = "<end of Wikipedia article>"
var wikiHeaderSuffixes = []string{"WIKIPEDIA ARTICLE:", "WP ARTICLE:"}
var wikiHeaderEndPrefixes = []string{"INSTRUCTIONS:", "PROMPT:"}

// TruncateParagraphs shortens long lines within a prompt's embedded
// article text to maxLen runes (appending "...") while leaving
// instructional text outside that block untouched. It recognizes two
// article-block conventions: a `<start of Wikipedia article>` /
// `<end of Wikipedia article>` bracket pair, within which blank lines are
// also dropped, and a `WIKIPEDIA ARTICLE:`/`WP ARTICLE:` header line that
// runs until an `INSTRUCTIONS:`/`PROMPT:` line ends it.
func TruncateParagraphs(text string, maxLen int) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))

	inBlock := false
	bracketed := false

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		switch {
		case containsAny(line, wikiBlockOpenMarkers):
			inBlock, bracketed = true, true
			out = append(out, line)
			continue
		case strings.Contains(line, wikiBlockCloseMarker):
			inBlock, bracketed = false, false
			out = append(out, line)
			continue
		case hasAnySuffix(trimmed, wikiHeaderSuffixes):
			inBlock, bracketed = true, false
			out = append(out, line)
			continue
		}

		if inBlock && !bracketed && hasAnyPrefix(trimmed, wikiHeaderEndPrefixes) {
			inBlock = false
			out = append(out, line)
			continue
		}

		if inBlock {
			if bracketed && trimmed == "" {
				continue
			}
			out = append(out, truncateRunes(line, maxLen))
			continue
		}

		out = append(out, line)
	}

	return strings.Join(out, "\n")
}

func truncateRunes(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}

func containsAny(s string, substrs []string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func hasAnySuffix(s string, suffixes []string) bool {
	for _, suf := range suffixes {
		if strings.HasSuffix(s, suf) {
			return true
		}
	}
	return false
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, pre := range prefixes {
		if strings.HasPrefix(s, pre) {
			return true
		}
	}
	return false
}
