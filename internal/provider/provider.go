package provider

import "strings"

// Provider describes a third-party file host a download link may point to
type Provider struct {
	Key   string `json:"key"`
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

// Provider keys double as the link_status map keys
const (
	Mega      = "mega_link"
	GDrive    = "gdrive_link"
	MediaFire = "mediafire_link"
	TeraBox   = "terabox_link"
	PCloud    = "pcloud_link"
	YouTube   = "youtube_link"
)

// registry is ordered: this is the display order of download buttons.
var registry = []Provider{
	{Key: Mega, Name: "Mega", Icon: "☁️", Color: "from-red-600 to-red-700"},
	{Key: GDrive, Name: "Google Drive", Icon: "📁", Color: "from-blue-600 to-blue-700"},
	{Key: MediaFire, Name: "MediaFire", Icon: "🔥", Color: "from-orange-500 to-orange-600"},
	{Key: TeraBox, Name: "TeraBox", Icon: "📦", Color: "from-cyan-500 to-cyan-600"},
	{Key: PCloud, Name: "pCloud", Icon: "💾", Color: "from-green-500 to-green-600"},
	{Key: YouTube, Name: "YouTube", Icon: "▶️", Color: "from-red-500 to-pink-600"},
}

var byKey = func() map[string]int {
	m := make(map[string]int, len(registry))
	for i, p := range registry {
		m[p.Key] = i
	}
	return m
}()

// All returns the registered providers in display order.
// The returned slice is a copy.
func All() []Provider {
	out := make([]Provider, len(registry))
	copy(out, registry)
	return out
}

// Lookup returns the provider registered under key
func Lookup(key string) (Provider, bool) {
	i, ok := byKey[key]
	if !ok {
		return Provider{}, false
	}
	return registry[i], true
}

// Index returns the display position of key, or -1 when key is not registered
func Index(key string) int {
	if i, ok := byKey[key]; ok {
		return i
	}
	return -1
}

// Resolution is a video quality tier used to group download links
type Resolution string

const (
	Res360p  Resolution = "360p"
	Res480p  Resolution = "480p"
	Res720p  Resolution = "720p"
	Res1080p Resolution = "1080p"
)

// Resolutions returns the resolutions in display order
func Resolutions() []Resolution {
	return []Resolution{Res360p, Res480p, Res720p, Res1080p}
}

// ParseResolution parses a resolution label such as "720p" or "720P"
func ParseResolution(s string) (Resolution, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, r := range Resolutions() {
		if string(r) == s {
			return r, true
		}
	}
	return "", false
}
