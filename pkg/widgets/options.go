package widgets

import (
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-formwidgets/pkg/logging"
	"github.com/goliatone/go-formwidgets/pkg/renderers/vanilla"
	"github.com/goliatone/go-formwidgets/pkg/renderers/vanilla/components"
	"github.com/goliatone/go-formwidgets/pkg/typeahead"
)

const (
	// DefaultBlankLabel labels the empty option of a SelectWithPicker.
	DefaultBlankLabel = "---------"
	// DefaultSearchParam is the query parameter the typeahead sends.
	DefaultSearchParam = "q"
	// DefaultAssetBaseURL prefixes relative stylesheet and script names.
	DefaultAssetBaseURL = "/static/formwidgets/"
)

// Option configures a widget at construction.
type Option func(*config)

type config struct {
	renderer     ComponentRenderer
	templatesDir string
	logger       *logrus.Entry

	blankLabel  string
	icon        string
	pickerTitle string

	debounce    time.Duration
	searchURL   string
	searchParam string
	placeholder string

	assetBaseURL string
	partials     map[string]string
	themeAssets  map[string]string

	err error
}

// WithRenderer supplies the component renderer. By default each widget builds
// a vanilla renderer over the embedded templates.
func WithRenderer(renderer ComponentRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.renderer = renderer
		}
	}
}

// WithTemplatesDir loads template overrides from dir. Ignored when
// WithRenderer is used.
func WithTemplatesDir(dir string) Option {
	return func(cfg *config) {
		cfg.templatesDir = strings.TrimSpace(dir)
	}
}

// WithLogger sets the logger used for swallowed lookup errors.
func WithLogger(logger *logrus.Entry) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithBlankLabel overrides the label of the empty option.
func WithBlankLabel(label string) Option {
	return func(cfg *config) {
		cfg.blankLabel = label
	}
}

// WithIcon sets the picker trigger markup. It is sanitized; markup that
// sanitizes to nothing falls back to the default search icon.
func WithIcon(markup string) Option {
	return func(cfg *config) {
		cfg.icon = components.SanitizeIcon(markup)
	}
}

// WithPickerTitle sets the title attribute of the picker trigger.
func WithPickerTitle(title string) Option {
	return func(cfg *config) {
		cfg.pickerTitle = strings.TrimSpace(title)
	}
}

// WithDebounce sets the quiet period before the typeahead queries. Non-positive
// values keep the default.
func WithDebounce(d time.Duration) Option {
	return func(cfg *config) {
		if d > 0 {
			cfg.debounce = d
		}
	}
}

// WithSearchURL pins the typeahead query URL instead of reversing the
// entity's search route.
func WithSearchURL(url string) Option {
	return func(cfg *config) {
		cfg.searchURL = strings.TrimSpace(url)
	}
}

// WithSearchParam overrides the query parameter name.
func WithSearchParam(name string) Option {
	return func(cfg *config) {
		if name = strings.TrimSpace(name); name != "" {
			cfg.searchParam = name
		}
	}
}

// WithPlaceholder sets the placeholder of the visible typeahead input.
func WithPlaceholder(text string) Option {
	return func(cfg *config) {
		cfg.placeholder = text
	}
}

// WithAssetBaseURL sets the prefix for relative asset names in Media.
func WithAssetBaseURL(base string) Option {
	return func(cfg *config) {
		cfg.assetBaseURL = strings.TrimSpace(base)
	}
}

// WithPartials overrides component templates by partial key.
func WithPartials(partials map[string]string) Option {
	return func(cfg *config) {
		cfg.partials = mergeStrings(cfg.partials, partials)
	}
}

func newConfig(opts []Option) (*config, error) {
	cfg := &config{
		blankLabel:   DefaultBlankLabel,
		icon:         components.DefaultPickerIcon,
		debounce:     typeahead.DefaultDebounce,
		searchParam:  DefaultSearchParam,
		assetBaseURL: DefaultAssetBaseURL,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(cfg)
	}
	if cfg.err != nil {
		return nil, cfg.err
	}

	if cfg.logger == nil {
		cfg.logger = logging.Discard()
	}

	if cfg.renderer == nil {
		renderer, err := vanilla.New(
			vanilla.WithTemplatesDir(cfg.templatesDir),
			vanilla.WithPartials(cfg.partials),
		)
		if err != nil {
			return nil, fmt.Errorf("widgets: %w", err)
		}
		cfg.renderer = renderer
	}
	return cfg, nil
}

func mergeStrings(dst, src map[string]string) map[string]string {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]string, len(src))
	}
	for key, value := range src {
		dst[key] = value
	}
	return dst
}
