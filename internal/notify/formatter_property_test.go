package notify

import (
	"fmt"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/nexiplay/nexiplay-go/internal/linkcheck"
	"github.com/nexiplay/nexiplay-go/internal/model"
)

// *For any* batch of transitions, the alert SHALL name every dead URL and the count.
func TestProperty_ExpiredAlertCompleteness(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	urlGen := gen.RegexMatch(`https://mega\.nz/file/[a-z0-9]{4,10}`)

	properties.Property("alert contains every URL and the count", prop.ForAll(
		func(n int, url string) bool {
			var ts []linkcheck.Transition
			for i := 0; i < n; i++ {
				ts = append(ts, linkcheck.Transition{
					Table:      linkcheck.TableDownloadLinks,
					ParentID:   fmt.Sprintf("c%d", i),
					Resolution: "720p",
					Provider:   "mega_link",
					URL:        fmt.Sprintf("%s%d", url, i),
				})
			}
			msg := FormatExpiredAlert(ts)
			if !strings.Contains(msg, fmt.Sprintf("*%d link", n)) {
				return false
			}
			for _, tr := range ts {
				if !strings.Contains(msg, EscapeMarkdown(tr.URL)) {
					return false
				}
			}
			return true
		},
		gen.IntRange(1, 30),
		urlGen,
	))

	properties.Property("empty batch formats to empty string", prop.ForAll(
		func(_ int) bool {
			return FormatExpiredAlert(nil) == ""
		},
		gen.Int(),
	))

	properties.TestingRun(t)
}

func TestFormatExpiredAlert_EpisodeRows(t *testing.T) {
	msg := FormatExpiredAlert([]linkcheck.Transition{{
		Table:      linkcheck.TableEpisodeDownloadLinks,
		ParentID:   "ep-1",
		Resolution: "1080p",
		Provider:   "gdrive_link",
	}})
	if !strings.Contains(msg, "Google Drive") {
		t.Errorf("message should use the provider display name: %q", msg)
	}
	if !strings.Contains(msg, `\(episode ep\-1\)`) {
		t.Errorf("message should name the episode: %q", msg)
	}
}

func TestFormatLinkReport(t *testing.T) {
	report := &model.LinkReport{Resolution: "720p", Provider: "terabox_link", Note: "404 on click!"}
	item := &model.ContentItem{Title: "Dune: Part Two", Slug: "dune-part-two", Type: model.TypeMovie}

	msg := FormatLinkReport(report, item, "https://nexiplay.com/")

	for _, want := range []string{
		"Dune: Part Two",
		"TeraBox",
		`404 on click\!`,
		`https://nexiplay\.com/movie/dune\-part\-two`,
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("FormatLinkReport() missing %q in %q", want, msg)
		}
	}

	if FormatLinkReport(nil, item, "") != "" {
		t.Error("FormatLinkReport(nil) should be empty")
	}
}

// TestProperty_EscapeMarkdown tests the Markdown escaping function
func TestProperty_EscapeMarkdown(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	specialChars := []string{"_", "*", "[", "]", "(", ")", "~", "`", ">", "#", "+", "-", "=", "|", "{", "}", ".", "!"}

	properties.Property("special characters are escaped", prop.ForAll(
		func(text string) bool {
			result := EscapeMarkdown(text)
			for _, char := range specialChars {
				if strings.Count(text, char) != strings.Count(result, "\\"+char) {
					return false
				}
			}
			return true
		},
		gen.AlphaString().Map(func(s string) string { return s + "_*.!-()" + s }),
	))

	properties.Property("backslashes are doubled", prop.ForAll(
		func(n int) bool {
			text := strings.Repeat(`a\`, n)
			return EscapeMarkdown(text) == strings.Repeat(`a\\`, n)
		},
		gen.IntRange(0, 20),
	))

	properties.TestingRun(t)
}
