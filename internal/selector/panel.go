package selector

import (
	"fmt"

	"github.com/nexiplay/nexiplay-go/internal/model"
	"github.com/nexiplay/nexiplay-go/internal/provider"
)

// ResolutionOption is one resolution button
type ResolutionOption struct {
	Resolution provider.Resolution `json:"resolution"`
	FileSize   string              `json:"file_size,omitempty"`
	Available  bool                `json:"available"`
}

// Panel is the download panel of a movie or an episode
type Panel struct {
	Resolutions []ResolutionOption  `json:"resolutions"`
	Selected    provider.Resolution `json:"selected,omitempty"`
	Entries     []Entry             `json:"entries,omitempty"`
	Message     string              `json:"message,omitempty"`
}

// BuildPanel lays out every resolution in display order and, when selected
// names one, the provider entries of that resolution.
func BuildPanel(sets []model.LinkSet, selected provider.Resolution) Panel {
	available := make(map[provider.Resolution]bool)
	for _, r := range ResolutionsWithLinks(sets) {
		available[r] = true
	}

	var p Panel
	for _, res := range provider.Resolutions() {
		opt := ResolutionOption{Resolution: res, Available: available[res]}
		if opt.Available {
			opt.FileSize = RowFor(sets, res).FileSize
		}
		p.Resolutions = append(p.Resolutions, opt)
	}

	if len(available) == 0 {
		p.Message = ComingSoon
		return p
	}
	if selected == "" {
		return p
	}

	p.Selected = selected
	p.Entries = ProvidersForResolution(sets, selected)
	if len(p.Entries) == 0 {
		p.Message = fmt.Sprintf(notAvailableTmpl, selected)
	}
	return p
}
