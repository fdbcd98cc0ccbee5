package sitecfg

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// elements that can run code or pull in remote documents
const blockedElements = "script, iframe, frame, frameset, object, embed, applet, style, link, meta, base, form"

var urlAttrs = map[string]bool{
	"href": true, "src": true, "action": true, "formaction": true,
	"xlink:href": true, "background": true, "poster": true,
}

// colorToken accepts CSS colors and Tailwind class names
var colorToken = regexp.MustCompile(`^[#a-zA-Z0-9(),.%\s/-]{1,64}$`)

// SanitizeHTML removes executable markup from an admin-authored fragment:
// blocked elements, on* event attributes and script URLs.
func SanitizeHTML(fragment string) string {
	if strings.TrimSpace(fragment) == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<body>" + fragment + "</body>"))
	if err != nil {
		return ""
	}

	body := doc.Find("body")
	body.Find(blockedElements).Remove()

	body.Find("*").Each(func(_ int, s *goquery.Selection) {
		node := s.Get(0)
		attrs := append(node.Attr[:0:0], node.Attr...)
		for _, a := range attrs {
			key := strings.ToLower(a.Key)
			switch {
			case strings.HasPrefix(key, "on"):
				s.RemoveAttr(a.Key)
			case key == "style" && unsafeStyle(a.Val):
				s.RemoveAttr(a.Key)
			case urlAttrs[key] && !SafeURL(a.Val):
				s.RemoveAttr(a.Key)
			}
		}
	})

	out, err := body.Html()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}

func unsafeStyle(v string) bool {
	v = strings.ToLower(v)
	return strings.Contains(v, "expression(") || strings.Contains(v, "javascript:") || strings.Contains(v, "url(")
}

// SafeURL reports whether a link target is a relative path, an anchor,
// or an http(s) or mailto URL
func SafeURL(raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return true
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	switch strings.ToLower(u.Scheme) {
	case "", "http", "https", "mailto":
		return true
	default:
		return false
	}
}

// SanitizeColor keeps a color value or class name, or returns "" when it
// could break out of a style attribute
func SanitizeColor(v string) string {
	v = strings.TrimSpace(v)
	if v == "" || !colorToken.MatchString(v) {
		return ""
	}
	return v
}
