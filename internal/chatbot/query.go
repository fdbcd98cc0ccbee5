package chatbot

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/hbollon/go-edlib"
	"github.com/nexiplay/nexiplay-go/internal/model"
	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stopWords = []string{
	// English
	"movie", "series", "anime", "download", "link", "please", "plz",
	"do you have", "is it available", "search", "find", "want",
	// Banglish
	"ache", "ase", "chai", "pabo", "lagbe", "ni", "nai", "kobe", "ashbe",
	"link den", "dhen", "kothay", "ki", "ace", "den",
}

var (
	stopWordPattern = buildStopWordPattern(stopWords)
	punctuation     = regexp.MustCompile(`[?.,!]`)
)

// buildStopWordPattern matches any stop word as a whole word, longest first
// so phrases win over their parts.
func buildStopWordPattern(words []string) *regexp.Regexp {
	sorted := append([]string(nil), words...)
	sort.SliceStable(sorted, func(i, j int) bool { return len(sorted[i]) > len(sorted[j]) })
	quoted := make([]string, len(sorted))
	for i, w := range sorted {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`)
}

// CleanQuery strips filler words and punctuation from a chat message,
// leaving the title the visitor is asking about.
func CleanQuery(input string) string {
	s := norm.NFC.String(input)
	s = stopWordPattern.ReplaceAllString(s, " ")
	s = punctuation.ReplaceAllString(s, "")
	return strings.Join(strings.Fields(s), " ")
}

// TooShort reports whether a cleaned query is too short to search for
func TooShort(query string) bool {
	return utf8.RuneCountInString(query) < 2
}

// fold lowercases with Unicode case folding and drops combining marks
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return cases.Fold().String(out)
}

// rank orders search hits by Jaro-Winkler similarity to the query.
// Ties keep the store order.
func rank(query string, items []*model.ContentItem) []*model.ContentItem {
	q := fold(query)
	scores := make(map[*model.ContentItem]float32, len(items))
	for _, it := range items {
		scores[it] = edlib.JaroWinklerSimilarity(q, fold(it.Title))
	}
	out := append([]*model.ContentItem(nil), items...)
	sort.SliceStable(out, func(i, j int) bool {
		return scores[out[i]] > scores[out[j]]
	})
	return out
}
