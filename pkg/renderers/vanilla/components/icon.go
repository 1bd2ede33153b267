package components

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// DefaultPickerIcon is the trigger content used when no icon is configured.
const DefaultPickerIcon = `<i class="glyphicon glyphicon-search"></i>`

var (
	iconPolicyOnce sync.Once
	iconPolicy     *bluemonday.Policy
)

// SanitizeIcon cleans caller supplied icon markup for the picker trigger. Only
// icon-font elements and inline SVG survive; an empty result falls back to
// DefaultPickerIcon.
func SanitizeIcon(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return DefaultPickerIcon
	}
	cleaned := strings.TrimSpace(iconSanitizer().Sanitize(trimmed))
	if cleaned == "" {
		return DefaultPickerIcon
	}
	return cleaned
}

func iconSanitizer() *bluemonday.Policy {
	iconPolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()

		policy.AllowElements("i", "span")
		policy.AllowAttrs("class", "aria-hidden", "title").OnElements("i", "span")

		policy.AllowElements(
			"svg", "g", "path", "circle", "rect", "line", "polyline", "polygon",
			"ellipse", "title", "desc",
		)
		policy.AllowAttrs(
			"xmlns", "viewBox", "width", "height", "fill", "stroke",
			"stroke-width", "stroke-linecap", "stroke-linejoin", "aria-hidden",
			"role", "focusable", "class",
		).OnElements("svg")
		for _, el := range []string{"path", "circle", "rect", "line", "polyline", "polygon", "ellipse"} {
			policy.AllowAttrs(
				"d", "cx", "cy", "r", "x", "y", "x1", "y1", "x2", "y2",
				"points", "rx", "ry", "fill", "stroke", "stroke-width",
				"stroke-linecap", "stroke-linejoin", "class",
			).OnElements(el)
		}

		iconPolicy = policy
	})
	return iconPolicy
}
