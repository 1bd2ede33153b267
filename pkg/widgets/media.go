package widgets

import (
	"html"
	"sort"
	"strings"

	"github.com/goliatone/go-formwidgets/pkg/renderers/vanilla/components"
)

// Media lists the stylesheets and scripts a page needs for its widgets.
type Media struct {
	Stylesheets []string
	Scripts     []components.Script
}

// Merge returns the union of m and others, keeping first-seen order.
func (m Media) Merge(others ...Media) Media {
	out := Media{}
	seenStyles := make(map[string]struct{})
	seenScripts := make(map[string]struct{})

	for _, media := range append([]Media{m}, others...) {
		for _, href := range media.Stylesheets {
			if _, ok := seenStyles[href]; ok {
				continue
			}
			seenStyles[href] = struct{}{}
			out.Stylesheets = append(out.Stylesheets, href)
		}
		for _, script := range media.Scripts {
			key := script.Src
			if key == "" {
				key = "inline:" + script.Inline
			}
			if _, ok := seenScripts[key]; ok {
				continue
			}
			seenScripts[key] = struct{}{}
			out.Scripts = append(out.Scripts, script)
		}
	}
	return out
}

// HTML renders the link and script tags for m. Inline scripts are emitted
// verbatim.
func (m Media) HTML() string {
	var b strings.Builder
	for _, href := range m.Stylesheets {
		b.WriteString(`<link rel="stylesheet" href="`)
		b.WriteString(html.EscapeString(href))
		b.WriteString("\">\n")
	}
	for _, script := range m.Scripts {
		b.WriteString("<script")
		if script.Src != "" {
			b.WriteString(` src="`)
			b.WriteString(html.EscapeString(script.Src))
			b.WriteString(`"`)
		}
		switch {
		case script.Module:
			b.WriteString(` type="module"`)
		case script.Type != "":
			b.WriteString(` type="`)
			b.WriteString(html.EscapeString(script.Type))
			b.WriteString(`"`)
		}
		if script.Async {
			b.WriteString(" async")
		}
		if script.Defer {
			b.WriteString(" defer")
		}
		keys := make([]string, 0, len(script.Attrs))
		for key := range script.Attrs {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			b.WriteString(" ")
			b.WriteString(html.EscapeString(key))
			b.WriteString(`="`)
			b.WriteString(html.EscapeString(script.Attrs[key]))
			b.WriteString(`"`)
		}
		b.WriteString(">")
		if script.Src == "" {
			b.WriteString(script.Inline)
		}
		b.WriteString("</script>\n")
	}
	return b.String()
}

func (cfg *config) media(componentNames ...string) Media {
	styles, scripts := cfg.renderer.Assets(componentNames...)

	out := Media{}
	for _, href := range styles {
		if href == components.StylesheetName {
			if themed := cfg.themeAssets[ThemeAssetStylesheet]; themed != "" {
				href = themed
			}
		}
		out.Stylesheets = append(out.Stylesheets, cfg.assetURL(href))
	}
	for _, script := range scripts {
		if script.Src != "" {
			script.Src = cfg.assetURL(script.Src)
		}
		out.Scripts = append(out.Scripts, script)
	}
	return out
}

func (cfg *config) assetURL(ref string) string {
	if ref == "" || isAbsoluteURL(ref) || cfg.assetBaseURL == "" {
		return ref
	}
	return strings.TrimRight(cfg.assetBaseURL, "/") + "/" + ref
}
