// README: Heuristic extraction of category, origin and destination from a chat message.
package intent

import "strings"

// Intent is the result of one extraction. Empty strings mean "not found".
type Intent struct {
	Category           string
	IsIdentityQuestion bool
	Origin             string
	Destination        string
}

// Actionable reports whether the message names any location to search around.
func (i Intent) Actionable() bool {
	return !i.IsIdentityQuestion && (i.Origin != "" || i.Destination != "")
}

// The lists below are matched in order, first hit wins. Matching is plain
// substring search on the lowercased message with no word-boundary checks.
var (
	identityPhrases = []string{
		"who are you",
		"what is your name",
		"what's your name",
	}

	phraseFallbacks = []struct {
		phrase   string
		category string
	}{
		{"places to eat", "food"},
		{"where to eat", "food"},
		{"tourist spots", "tourist"},
		{"tourist destinations", "tourist"},
		{"where to stay", "accommodation"},
		{"places to stay", "accommodation"},
	}

	destinationKeywords = []string{"in ", "near ", "around "}

	destinationCutoffs = []string{
		" that", " which", " using", " with", " by", " via", " on",
		" through", " where", " when", " for", " and", " from",
		" accessible", " public", " transit", "?", "!",
	}

	originKeywords = []string{
		"from ",
		"starting from ",
		"my location is ",
		"i am at ",
		"i'm at ",
	}

	originCutoffs = []string{
		" to ", " near ", " in ", " around ", " that", " which",
		" and", " with", " for", " by", " via", "?", "!",
	}
)

// Extractor is pure: the same text and table always give the same Intent.
type Extractor struct {
	table *SynonymTable
}

func NewExtractor(table *SynonymTable) *Extractor {
	if table == nil {
		table = DefaultSynonyms
	}
	return &Extractor{table: table}
}

func (e *Extractor) Extract(text string) Intent {
	lower := strings.ToLower(text)

	for _, p := range identityPhrases {
		if strings.Contains(lower, p) {
			return Intent{IsIdentityQuestion: true}
		}
	}

	return Intent{
		Category:    e.Category(lower),
		Destination: extractAfter(lower, destinationKeywords, destinationCutoffs),
		Origin:      extractOrigin(lower),
	}
}

// Category resolves the first table word contained in lower, then the
// multi-word phrase fallbacks. Returns "" when nothing matches.
func (e *Extractor) Category(lower string) string {
	for _, c := range e.table.entries {
		if strings.Contains(lower, c.Word) {
			return c.Word
		}
	}
	for _, f := range phraseFallbacks {
		if strings.Contains(lower, f.phrase) {
			return f.category
		}
	}
	return ""
}

func extractOrigin(lower string) string {
	if origin := extractAfter(lower, originKeywords, originCutoffs); origin != "" {
		return origin
	}
	if !strings.Contains(lower, " from ") || !containsAny(lower, destinationKeywords) {
		return ""
	}
	_, after, _ := cutLast(lower, " from ")
	return truncate(after, originCutoffs)
}

// extractAfter takes the text following the first keyword present in lower
// and truncates it at the cutoff phrases.
func extractAfter(lower string, keywords, cutoffs []string) string {
	for _, kw := range keywords {
		if _, after, found := strings.Cut(lower, kw); found {
			return truncate(after, cutoffs)
		}
	}
	return ""
}

// truncate applies each cutoff in list order, keeping what precedes it.
func truncate(s string, cutoffs []string) string {
	s = strings.TrimSpace(s)
	for _, c := range cutoffs {
		if before, _, found := strings.Cut(s, c); found {
			s = strings.TrimSpace(before)
		}
	}
	return s
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func cutLast(s, sep string) (before, after string, found bool) {
	i := strings.LastIndex(s, sep)
	if i < 0 {
		return s, "", false
	}
	return s[:i], s[i+len(sep):], true
}
