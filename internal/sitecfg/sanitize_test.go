package sitecfg

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestSanitizeHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain markup kept", `<b>New</b> uploads every day`, `<b>New</b> uploads every day`},
		{"script removed", `Hi<script>alert(1)</script>`, `Hi`},
		{"iframe removed", `<iframe src="https://evil.example"></iframe>ok`, `ok`},
		{"event handler removed", `<a href="/movie/x" onclick="steal()">go</a>`, `<a href="/movie/x">go</a>`},
		{"javascript url removed", `<a href="javascript:alert(1)">x</a>`, `<a>x</a>`},
		{"mixed case scheme removed", `<a href=" JaVaScRiPt:alert(1)">x</a>`, `<a>x</a>`},
		{"https link kept", `<a href="https://t.me/nexiplay" target="_blank">join</a>`, `<a href="https://t.me/nexiplay" target="_blank">join</a>`},
		{"image onerror removed", `<img src="https://cdn.example/a.png" onerror="x()"/>`, `<img src="https://cdn.example/a.png"/>`},
		{"empty", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeHTML(tt.in))
		})
	}
}

func TestSafeURL(t *testing.T) {
	assert.True(t, SafeURL(""))
	assert.True(t, SafeURL("/genre/action"))
	assert.True(t, SafeURL("https://nexiplay.com"))
	assert.True(t, SafeURL("mailto:admin@nexiplay.com"))
	assert.False(t, SafeURL("javascript:alert(1)"))
	assert.False(t, SafeURL("data:text/html;base64,AAAA"))
	assert.False(t, SafeURL("vbscript:msgbox"))
}

func TestSanitizeColor(t *testing.T) {
	assert.Equal(t, "#ff0000", SanitizeColor("#ff0000"))
	assert.Equal(t, "bg-red-600", SanitizeColor(" bg-red-600 "))
	assert.Equal(t, "rgb(0, 0, 0)", SanitizeColor("rgb(0, 0, 0)"))
	assert.Equal(t, "", SanitizeColor(`red;" onmouseover="x()`))
	assert.Equal(t, "", SanitizeColor(""))
}

// Sanitized output never contains a script element or an inline handler
// that was injected into otherwise plain text.
func TestProperty_SanitizeStripsInjectedScript(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("no script survives", prop.ForAll(
		func(prefix, suffix string) bool {
			in := prefix + `<script>evil()</script><div onclick="evil()">` + suffix + `</div>`
			out := strings.ToLower(SanitizeHTML(in))
			return !strings.Contains(out, "<script") && !strings.Contains(out, "onclick=")
		},
		gen.AlphaString(),
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}
