package widgets

import (
	"fmt"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// ThemeAssetStylesheet is the manifest asset key that replaces the built-in
// widget stylesheet.
const ThemeAssetStylesheet = "formwidgets.stylesheet"

// WithThemeSelection applies a resolved theme: manifest templates become
// partial overrides (variant templates win) and the theme stylesheet, when
// declared, replaces the built-in one in Media.
func WithThemeSelection(selection *theme.Selection) Option {
	return func(cfg *config) {
		partials, assets := themeOverrides(selection)
		cfg.partials = mergeStrings(cfg.partials, partials)
		cfg.themeAssets = mergeStrings(cfg.themeAssets, assets)
	}
}

// WithThemeSelector resolves name and variant through selector at
// construction time. A selector error fails the constructor.
func WithThemeSelector(selector theme.ThemeSelector, name, variant string) Option {
	return func(cfg *config) {
		if selector == nil {
			return
		}
		selection, err := selector.Select(name, variant)
		if err != nil {
			cfg.err = fmt.Errorf("widgets: select theme %q/%q: %w", name, variant, err)
			return
		}
		WithThemeSelection(selection)(cfg)
	}
}

// ManifestSelector serves a single manifest, typically one assembled from
// configuration.
type ManifestSelector struct {
	Manifest *theme.Manifest
}

var _ theme.ThemeSelector = ManifestSelector{}

// Select returns the manifest's selection. An empty name matches the
// manifest; an unknown variant is an error.
func (s ManifestSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	if s.Manifest == nil {
		return nil, fmt.Errorf("widgets: theme manifest not configured")
	}
	if name != "" && name != s.Manifest.Name {
		return nil, fmt.Errorf("widgets: theme %q not found", name)
	}
	if variant != "" {
		if _, ok := s.Manifest.Variants[variant]; !ok {
			return nil, fmt.Errorf("widgets: theme %q has no variant %q", s.Manifest.Name, variant)
		}
	}
	return &theme.Selection{
		Theme:    s.Manifest.Name,
		Variant:  variant,
		Manifest: s.Manifest,
	}, nil
}

// ThemePartials returns the template overrides of selection keyed by partial
// name, for renderers built outside a widget such as the picker dialog.
func ThemePartials(selection *theme.Selection) map[string]string {
	partials, _ := themeOverrides(selection)
	return partials
}

func themeOverrides(selection *theme.Selection) (partials, assets map[string]string) {
	if selection == nil || selection.Manifest == nil {
		return nil, nil
	}
	manifest := selection.Manifest

	partials = mergeStrings(nil, manifest.Templates)
	prefix := manifest.Assets.Prefix
	files := mergeStrings(nil, manifest.Assets.Files)

	if variant, ok := manifest.Variants[selection.Variant]; ok && selection.Variant != "" {
		partials = mergeStrings(partials, variant.Templates)
		files = mergeStrings(files, variant.Assets.Files)
		if variant.Assets.Prefix != "" {
			prefix = variant.Assets.Prefix
		}
	}

	for key, file := range files {
		if assets == nil {
			assets = make(map[string]string, len(files))
		}
		assets[key] = joinAssetURL(prefix, file)
	}
	return partials, assets
}

func joinAssetURL(prefix, file string) string {
	file = strings.TrimSpace(file)
	if file == "" || prefix == "" || isAbsoluteURL(file) {
		return file
	}
	return strings.TrimRight(prefix, "/") + "/" + strings.TrimLeft(file, "/")
}

func isAbsoluteURL(ref string) bool {
	return strings.HasPrefix(ref, "/") ||
		strings.HasPrefix(ref, "http://") ||
		strings.HasPrefix(ref, "https://") ||
		strings.HasPrefix(ref, "//")
}
