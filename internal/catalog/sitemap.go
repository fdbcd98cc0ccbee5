package catalog

import (
	"context"
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/nexiplay/nexiplay-go/internal/resolver"
)

const sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"

// URL is one sitemap entry
type URL struct {
	Loc        string  `xml:"loc"`
	LastMod    string  `xml:"lastmod,omitempty"`
	ChangeFreq string  `xml:"changefreq,omitempty"`
	Priority   float64 `xml:"priority"`
}

// URLSet is the sitemap document root
type URLSet struct {
	XMLName xml.Name `xml:"urlset"`
	XMLNS   string   `xml:"xmlns,attr"`
	URLs    []URL    `xml:"url"`
}

// Sitemap builds the entries for the home page, every content item and every genre
func (s *Service) Sitemap(ctx context.Context, baseURL string, now time.Time) (*URLSet, error) {
	base := strings.TrimRight(baseURL, "/")
	today := now.UTC().Format("2006-01-02")

	items, err := s.store.SitemapEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load sitemap entries: %w", err)
	}
	cats, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}

	set := &URLSet{XMLNS: sitemapNS}
	set.URLs = append(set.URLs, URL{Loc: base, LastMod: today, ChangeFreq: "daily", Priority: 1})

	for _, it := range items {
		mod := today
		if !it.UpdatedAt.IsZero() {
			mod = it.UpdatedAt.UTC().Format("2006-01-02")
		}
		set.URLs = append(set.URLs, URL{
			Loc:        base + resolver.ContentURL(string(it.Type), it.Slug),
			LastMod:    mod,
			ChangeFreq: "weekly",
			Priority:   0.8,
		})
	}
	for _, c := range cats {
		set.URLs = append(set.URLs, URL{
			Loc:        base + "/genre/" + c.Slug,
			LastMod:    today,
			ChangeFreq: "weekly",
			Priority:   0.6,
		})
	}
	return set, nil
}

// Marshal renders the document with the XML header
func (u *URLSet) Marshal() ([]byte, error) {
	body, err := xml.MarshalIndent(u, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), body...), nil
}

// Robots renders robots.txt pointing at the sitemap
func Robots(baseURL string) string {
	base := strings.TrimRight(baseURL, "/")
	var b strings.Builder
	b.WriteString("User-agent: *\n")
	b.WriteString("Allow: /\n")
	b.WriteString("Disallow: /admin\n")
	b.WriteString("Disallow: /api/cron\n")
	b.WriteString("\n")
	b.WriteString("Sitemap: " + base + "/sitemap.xml\n")
	return b.String()
}
