package chatbot

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/nexiplay/nexiplay-go/internal/model"
)

var trendingPhrases = []string{
	"ki ki ache", "what movies are available", "recommend", "suggestion", "ki ki ase",
}

var greetingWords = []string{"hi", "hello", "hey", "salam", "assalamualaikum", "oi"}

// greetings only count in short messages
const greetingMaxLen = 15

// intentAliases maps Banglish phrases to the FAQ keyword they stand for
var intentAliases = map[string]string{
	"kivabe":      "how to",
	"kemne":       "how to",
	"parchi na":   "issue",
	"kaj kore na": "issue",
	"noshto":      "issue",
	"link":        "link",
	"telegram":    "telegram",
	"group":       "telegram",
	"channel":     "telegram",
	"join":        "telegram",
}

var aliasPatterns = func() map[string]*regexp.Regexp {
	m := make(map[string]*regexp.Regexp, len(intentAliases))
	for phrase := range intentAliases {
		m[phrase] = regexp.MustCompile(`\b` + regexp.QuoteMeta(phrase) + `\b`)
	}
	return m
}()

func isTrending(lower string) bool {
	for _, p := range trendingPhrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

func isGreeting(lower string) bool {
	if utf8.RuneCountInString(lower) >= greetingMaxLen {
		return false
	}
	words := wordSet(lower)
	for _, w := range greetingWords {
		if words[w] {
			return true
		}
	}
	return false
}

// aliasedIntents returns the FAQ keywords implied by Banglish phrases in lower
func aliasedIntents(lower string) map[string]bool {
	out := make(map[string]bool)
	for phrase, re := range aliasPatterns {
		if re.MatchString(lower) {
			out[intentAliases[phrase]] = true
		}
	}
	return out
}

// MatchFAQ returns the first FAQ with a keyword contained in the message or
// implied by one of its Banglish phrases
func MatchFAQ(message string, faqs []*model.FAQ) *model.FAQ {
	lower := fold(message)
	implied := aliasedIntents(lower)

	for _, faq := range faqs {
		for _, k := range strings.Split(faq.Keywords, ",") {
			k = fold(strings.TrimSpace(k))
			if k == "" {
				continue
			}
			if strings.Contains(lower, k) || implied[k] {
				return faq
			}
		}
	}
	return nil
}
