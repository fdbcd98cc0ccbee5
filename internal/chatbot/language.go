package chatbot

import (
	"strings"
	"unicode"
)

// Language is the language a reply is written in
type Language string

const (
	English  Language = "en"
	Bengali  Language = "bn"
	Banglish Language = "banglish"
)

var banglishMarkers = []string{
	"ache", "ase", "chai", "pabo", "lagbe", "ni", "nai", "kobe",
	"ashbe", "kivabe", "kemne", "kothay", "ki", "khuje",
}

// DetectLanguage picks Bengali when the text contains Bengali script,
// Banglish when it contains a romanised Bengali word, English otherwise.
func DetectLanguage(text string) Language {
	for _, r := range text {
		if r >= 0x0980 && r <= 0x09FF {
			return Bengali
		}
	}

	words := wordSet(fold(text))
	for _, w := range banglishMarkers {
		if words[w] {
			return Banglish
		}
	}
	return English
}

func wordSet(s string) map[string]bool {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	set := make(map[string]bool, len(fields))
	for _, f := range fields {
		set[f] = true
	}
	return set
}

type phrase map[Language]string

func (p phrase) in(lang Language) string {
	if s, ok := p[lang]; ok {
		return s
	}
	return p[English]
}

var (
	msgFound = phrase{
		English:  "Yes! Found match for",
		Bengali:  "হ্যাঁ! খুঁজে পেয়েছি:",
		Banglish: "Ji! Khuje peyechi:",
	}
	msgNotFound = phrase{
		English:  "Currently unavailable. Added request for",
		Bengali:  "এটা এখনো নেই, রিকোয়েস্ট পাঠিয়েছি ✅",
		Banglish: "Eta ekhono nai, request pathiyechi ✅",
	}
	msgError = phrase{
		English:  "Something went wrong.",
		Bengali:  "কিছু সমস্যা হয়েছে।",
		Banglish: "Kichu shomossha hoyeche.",
	}
	msgAskName = phrase{
		English:  "Sorry? Please type just the name.",
		Bengali:  "বঝতে পারিনি, শুধু নামটা বলুন?",
		Banglish: "Bujhte parini, shudhu naam ta bolun?",
	}
)

const (
	DefaultWelcome  = "Hi! I'm Nexiplay Assistant. Ask me anything about movies, anime, or series 😊"
	DisabledReply   = "The assistant is offline right now. Please browse the site or try again later."
	greetingReply   = "Hello! 👋 How can I assist you today?"
	trendingHeading = "🔥 Top Recommendations"
	trendingHelp    = "আপনি যেটা চান লিখে বলুন, আমি details + download link এনে দেবো 😊"
)
