package notify

import (
	"fmt"
	"strings"

	"github.com/nexiplay/nexiplay-go/internal/linkcheck"
	"github.com/nexiplay/nexiplay-go/internal/model"
	"github.com/nexiplay/nexiplay-go/internal/provider"
	"github.com/nexiplay/nexiplay-go/internal/resolver"
)

// Characters that must be escaped in MarkdownV2, backslash included
var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"_", `\_`, "*", `\*`, "[", `\[`, "]", `\]`, "(", `\(`, ")", `\)`,
	"~", `\~`, "`", "\\`", ">", `\>`, "#", `\#`, "+", `\+`, "-", `\-`,
	"=", `\=`, "|", `\|`, "{", `\{`, "}", `\}`, ".", `\.`, "!", `\!`,
)

// EscapeMarkdown escapes special characters for Telegram MarkdownV2 format
func EscapeMarkdown(text string) string {
	return markdownEscaper.Replace(text)
}

func providerName(key string) string {
	if p, ok := provider.Lookup(key); ok {
		return p.Icon + " " + p.Name
	}
	return key
}

// FormatExpiredAlert renders one alert for a group of newly expired links.
// Each line names the table, the resolution, the provider and the dead URL.
func FormatExpiredAlert(transitions []linkcheck.Transition) string {
	if len(transitions) == 0 {
		return ""
	}

	parts := []string{fmt.Sprintf("⚠️ *%d link\\(s\\) expired*", len(transitions))}
	for _, t := range transitions {
		where := "movie"
		if t.Table == linkcheck.TableEpisodeDownloadLinks {
			where = "episode"
		}
		line := fmt.Sprintf("• %s %s %s",
			EscapeMarkdown(providerName(t.Provider)),
			EscapeMarkdown(t.Resolution),
			EscapeMarkdown("("+where+" "+t.ParentID+")"))
		if t.URL != "" {
			line += "\n  " + EscapeMarkdown(t.URL)
		}
		parts = append(parts, line)
	}
	return strings.Join(parts, "\n")
}

// FormatLinkReport renders a visitor report of a broken link
func FormatLinkReport(report *model.LinkReport, item *model.ContentItem, siteURL string) string {
	if report == nil {
		return ""
	}

	var parts []string
	parts = append(parts, "🚩 *Link reported*")

	if item != nil {
		parts = append(parts, fmt.Sprintf("🎬 %s", EscapeMarkdown(item.Title)))
	}
	parts = append(parts, fmt.Sprintf("📺 %s %s",
		EscapeMarkdown(report.Resolution), EscapeMarkdown(providerName(report.Provider))))

	if report.EpisodeID != "" {
		parts = append(parts, fmt.Sprintf("🎞 episode %s", EscapeMarkdown(report.EpisodeID)))
	}
	if report.Note != "" {
		parts = append(parts, fmt.Sprintf("📝 %s", EscapeMarkdown(report.Note)))
	}
	if item != nil && siteURL != "" {
		page := strings.TrimRight(siteURL, "/") + resolver.ContentURL(string(item.Type), item.Slug)
		parts = append(parts, fmt.Sprintf("🔗 %s", EscapeMarkdown(page)))
	}

	return strings.Join(parts, "\n")
}
