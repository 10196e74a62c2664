package marine

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/aurel42/zonepoi/pkg/geo"
)

// depthPatterns match a depth mention in free text: "28 m", "28 metri",
// "depth: 28m", "28 ft" (converted to meters).
var depthPatterns = []struct {
	re       *regexp.Regexp
	isFeet   bool
}{
	{regexp.MustCompile(`(?i)depth[:\s]+(\d+(?:\.\d+)?)\s*m\b`), false},
	{regexp.MustCompile(`(?i)profondit[aà][:\s]+(\d+(?:\.\d+)?)\s*m\b`), false},
	{regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:m|metri|meters)\b`), false},
	{regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:ft|feet)\b`), true},
}

// ExtractDepthMeters scans content for the first recognizable depth mention
// and returns it in meters.
func ExtractDepthMeters(content string) (float64, bool) {
	for _, p := range depthPatterns {
		m := p.re.FindStringSubmatch(content)
		if m == nil {
			continue
		}
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		if p.isFeet {
			v *= 0.3048
		}
		if v <= 0 || v > 300 {
			continue
		}
		return v, true
	}
	return 0, false
}

// coordinatePatterns match a lat/lng pair mentioned in free text, roughly
// in order of how explicitly they're labeled.
var coordinatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)lat(?:itude)?[:\s=]+(-?\d+\.\d+)[,\s]+lon(?:g(?:itude)?)?[:\s=]+(-?\d+\.\d+)`),
	regexp.MustCompile(`(?i)gps[:\s=]+(-?\d+\.\d+)[,\s]+(-?\d+\.\d+)`),
	regexp.MustCompile(`(?i)coordinat[ae][:\s=]+(-?\d+\.\d+)[,\s]+(-?\d+\.\d+)`),
	regexp.MustCompile(`(-?\d{1,3}\.\d+)\s*[°\s,]+\s*(-?\d{1,3}\.\d+)\s*°`),
	regexp.MustCompile(`(-?\d{1,3}\.\d+),\s*(-?\d{1,3}\.\d+)`),
}

// ExtractCoordinates scans content for a lat/lng pair that falls inside
// bbox, trying each pattern in turn and validating the result against both
// bbox and plausible lat/lng ranges.
func ExtractCoordinates(content string, bbox geo.BBox) (lat, lng float64, ok bool) {
	for _, re := range coordinatePatterns {
		for _, m := range re.FindAllStringSubmatch(content, -1) {
			a, errA := strconv.ParseFloat(m[1], 64)
			b, errB := strconv.ParseFloat(m[2], 64)
			if errA != nil || errB != nil {
				continue
			}
			if a < -90 || a > 90 || b < -180 || b > 180 {
				continue
			}
			if a < bbox.South || a > bbox.North || b < bbox.West || b > bbox.East {
				continue
			}
			return a, b, true
		}
	}
	return 0, 0, false
}

// wreckPrefixes recognize a wreck mention across the languages diving pages
// on the Mediterranean/Adriatic coasts are commonly written in.
var wreckPrefixes = []string{
	"relitto", "relitto del", "relitto della", "relitto dello",
	"wreck", "shipwreck", "wreck of the", "wreck of",
	"naufragio", "naufragio del", "naufragio della",
	"épave", "épave du", "épave de la", "épave de",
	"naufrage", "naufrage du",
	"pecio", "pecio del",
	"wrack", "schiffswrack",
	"ναυάγιο",
}

var wreckPrefixRe = regexp.MustCompile(
	`(?i:relitto|wreck|shipwreck|naufragio|épave|naufrage|pecio|wrack|schiffswrack|ναυάγιο)\s+(?i:del(?:la|lo)?\s+|de\s+la\s+|de\s+|du\s+|of\s+the\s+|of\s+)?([A-ZÀ-Ý][\wà-ÿ'-]*(?:\s+[A-ZÀ-Ý][\wà-ÿ'-]*)*)`,
)

// prepositions skipped between a wreck prefix and the actual name, so "the
// wreck of the Andrea Doria" yields "Andrea Doria" not "the".
var leadingPrepositions = map[string]bool{
	"the": true, "il": true, "la": true, "lo": true, "le": true, "gli": true,
	"der": true, "die": true, "das": true, "of": true,
	"del": true, "della": true, "dello": true, "degli": true, "delle": true,
	"di": true, "du": true, "de": true,
}

// ExtractWreckName pulls a candidate wreck name out of a title or prose
// snippet, stripping a recognized wreck-prefix phrase and any leading
// article/preposition. Returns "" if no recognizable name is present.
func ExtractWreckName(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	lower := strings.ToLower(text)
	for _, prefix := range wreckPrefixes {
		if strings.HasPrefix(lower, prefix) {
			rest := strings.TrimSpace(text[len(prefix):])
			if name := stripLeadingPreposition(rest); name != "" {
				return firstClause(name)
			}
		}
	}

	if m := wreckPrefixRe.FindStringSubmatch(text); m != nil {
		return firstClause(strings.TrimSpace(m[1]))
	}

	return ""
}

func stripLeadingPreposition(s string) string {
	for {
		fields := strings.Fields(s)
		if len(fields) == 0 {
			return ""
		}
		if !leadingPrepositions[strings.ToLower(fields[0])] {
			return s
		}
		s = strings.Join(fields[1:], " ")
	}
}

// firstClause trims a candidate name down to its first clause, stopping at
// punctuation that usually introduces trailing commentary.
func firstClause(s string) string {
	for _, sep := range []string{",", ".", " - ", " – ", "(", ";"} {
		if idx := strings.Index(s, sep); idx > 0 {
			s = s[:idx]
		}
	}
	return strings.TrimSpace(s)
}

// commonWords is a blacklist of generic/non-name single words across the
// languages wreck names are commonly rendered in; a single-word candidate
// matching one of these is rejected even if capitalized.
var commonWords = map[string]bool{
	"the": true, "wreck": true, "ship": true, "boat": true, "diving": true,
	"relitto": true, "nave": true, "barca": true, "immersione": true,
	"épave": true, "bateau": true, "plongée": true,
	"wrack": true, "schiff": true, "tauchen": true,
	"naufragio": true, "barco": true, "buceo": true,
	"area": true, "zone": true, "site": true, "sito": true, "zona": true,
	"information": true, "informazioni": true, "details": true, "dettagli": true,
}

// FilterValidWreckNames keeps only candidates that plausibly name an actual
// wreck: they must contain a capitalized word, single-word names must be at
// least 4 characters and not a common word, and all names are capped at a
// reasonable length and rejected if they look like a URL or stray markup.
func FilterValidWreckNames(names []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, name := range names {
		name = strings.TrimSpace(name)
		if !isValidWreckName(name) {
			continue
		}
		key := strings.ToLower(name)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, name)
	}
	return out
}

func isValidWreckName(name string) bool {
	if name == "" || len(name) > 50 {
		return false
	}
	if strings.ContainsAny(name, "<>{}[]|\\^`") || strings.Contains(name, "http") {
		return false
	}

	words := strings.Fields(name)
	if len(words) == 0 {
		return false
	}

	hasCapitalized := false
	for _, w := range words {
		if isCapitalizedWord(w) {
			hasCapitalized = true
			break
		}
	}
	if !hasCapitalized {
		return false
	}

	if len(words) == 1 {
		w := words[0]
		if len(w) < 4 {
			return false
		}
		if commonWords[strings.ToLower(w)] {
			return false
		}
	}

	return true
}

func isCapitalizedWord(w string) bool {
	if w == "" {
		return false
	}
	r := []rune(w)[0]
	return r >= 'A' && r <= 'Z' || (r >= 'À' && r <= 'Ý')
}
