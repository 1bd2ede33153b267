// Package config loads the formwidgets YAML configuration used by the
// formwidgets command.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	theme "github.com/goliatone/go-theme"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formwidgets/pkg/choices"
	"github.com/goliatone/go-formwidgets/pkg/choices/sqlstore"
	"github.com/goliatone/go-formwidgets/pkg/logging"
)

const (
	DefaultAddr         = ":8080"
	DefaultDebounce     = 250 * time.Millisecond
	DefaultBlankLabel   = "---------"
	DefaultSearchParam  = "q"
	DefaultAssetBaseURL = "/static/formwidgets/"
	DefaultDriver       = "sqlite"
	DefaultJQueryURL    = "https://code.jquery.com/jquery-3.7.1.min.js"
	DefaultTypeaheadURL = "https://cdn.jsdelivr.net/npm/bootstrap-3-typeahead@4.0.2/bootstrap3-typeahead.min.js"
)

var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

// Config is the root of the configuration file.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Widgets  WidgetsConfig  `yaml:"widgets"`
	Theme    ThemeConfig    `yaml:"theme"`
	Logging  logging.Config `yaml:"logging"`
	Database DatabaseConfig `yaml:"database"`
	Entities []EntityConfig `yaml:"entities"`
}

type ServerConfig struct {
	Addr     string `yaml:"addr"`
	BasePath string `yaml:"base_path"`
	// JQueryURL and TypeaheadURL are loaded by the demo form page; the
	// autocomplete script calls $.fn.typeahead.
	JQueryURL    string `yaml:"jquery_url"`
	TypeaheadURL string `yaml:"typeahead_url"`
}

// WidgetsConfig holds the options shared by every widget.
type WidgetsConfig struct {
	BlankLabel   string        `yaml:"blank_label"`
	PickerIcon   string        `yaml:"picker_icon"`
	PickerTitle  string        `yaml:"picker_title"`
	Debounce     time.Duration `yaml:"debounce"`
	SearchParam  string        `yaml:"search_param"`
	Placeholder  string        `yaml:"placeholder"`
	TemplatesDir string        `yaml:"templates_dir"`
	AssetBaseURL string        `yaml:"asset_base_url"`
}

// ThemeConfig describes an inline theme manifest. It is optional; without a
// name the built-in templates are used.
type ThemeConfig struct {
	Name        string                        `yaml:"name"`
	Variant     string                        `yaml:"variant"`
	Templates   map[string]string             `yaml:"templates"`
	AssetPrefix string                        `yaml:"asset_prefix"`
	Assets      map[string]string             `yaml:"assets"`
	Variants    map[string]ThemeVariantConfig `yaml:"variants"`
}

type ThemeVariantConfig struct {
	Templates   map[string]string `yaml:"templates"`
	AssetPrefix string            `yaml:"asset_prefix"`
	Assets      map[string]string `yaml:"assets"`
}

// DatabaseConfig enables the SQL-backed entity sets when DSN is set.
type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// EntityConfig declares one entity type served by the command.
type EntityConfig struct {
	// Type is "app.model".
	Type string `yaml:"type"`
	// Widget pins the widget kind; empty lets the registry decide.
	Widget  string           `yaml:"widget"`
	Table   *TableConfig     `yaml:"table"`
	Records []choices.Record `yaml:"records"`
}

type TableConfig struct {
	Name         string `yaml:"name"`
	IDColumn     string `yaml:"id_column"`
	LabelColumn  string `yaml:"label_column"`
	ActiveColumn string `yaml:"active_column"`
	GroupColumn  string `yaml:"group_column"`
	IntegerKeys  bool   `yaml:"integer_keys"`
}

// Load reads and parses a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err := LoadFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// LoadFromBytes parses data, expanding ${VAR} and ${VAR:-default}
// references, then applies defaults and validation. The log level
// environment override is applied by logging.New.
func LoadFromBytes(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal([]byte(expandEnvVars(string(data))), &cfg); err != nil {
		return nil, fmt.Errorf("parse YAML configuration: %w", err)
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns a configuration with every default applied and no
// entities.
func Default() *Config {
	cfg := &Config{}
	cfg.SetDefaults()
	return cfg
}

// SetDefaults fills zero fields.
func (c *Config) SetDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Server.JQueryURL == "" {
		c.Server.JQueryURL = DefaultJQueryURL
	}
	if c.Server.TypeaheadURL == "" {
		c.Server.TypeaheadURL = DefaultTypeaheadURL
	}
	if c.Widgets.BlankLabel == "" {
		c.Widgets.BlankLabel = DefaultBlankLabel
	}
	if c.Widgets.Debounce <= 0 {
		c.Widgets.Debounce = DefaultDebounce
	}
	if c.Widgets.SearchParam == "" {
		c.Widgets.SearchParam = DefaultSearchParam
	}
	if c.Widgets.AssetBaseURL == "" {
		c.Widgets.AssetBaseURL = DefaultAssetBaseURL
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = logging.FormatText
	}
	if c.Database.Driver == "" {
		c.Database.Driver = DefaultDriver
	}
}

// Validate checks entity declarations and the theme variant. Model names must
// be unique across apps because they name the form fields.
func (c *Config) Validate() error {
	seen := make(map[string]struct{}, len(c.Entities))
	models := make(map[string]string, len(c.Entities))
	for idx, entity := range c.Entities {
		parsed, err := choices.ParseEntityType(entity.Type)
		if err != nil {
			return fmt.Errorf("entities[%d]: %w", idx, err)
		}
		key := parsed.Key()
		if _, ok := seen[key]; ok {
			return fmt.Errorf("entities[%d]: duplicate entity %q", idx, entity.Type)
		}
		seen[key] = struct{}{}

		// Form fields are named after the model.
		model := strings.ToLower(parsed.Model)
		if other, ok := models[model]; ok {
			return fmt.Errorf("entities[%d]: model %q of %q is already used by %q", idx, parsed.Model, entity.Type, other)
		}
		models[model] = entity.Type

		if entity.Table != nil {
			if c.Database.DSN == "" {
				return fmt.Errorf("entities[%d]: table %q needs database.dsn", idx, entity.Table.Name)
			}
			if len(entity.Records) > 0 {
				return fmt.Errorf("entities[%d]: records and table are mutually exclusive", idx)
			}
		}
	}
	if c.Theme.Variant != "" {
		if c.Theme.Name == "" {
			return errors.New("theme: variant set without a theme name")
		}
		if _, ok := c.Theme.Variants[c.Theme.Variant]; !ok {
			return fmt.Errorf("theme: unknown variant %q", c.Theme.Variant)
		}
	}
	return nil
}

// EntityType parses the declared type.
func (e EntityConfig) EntityType() (choices.EntityType, error) {
	return choices.ParseEntityType(e.Type)
}

// SQLTable converts the table declaration for sqlstore.
func (t TableConfig) SQLTable() sqlstore.Table {
	return sqlstore.Table{
		Name:         t.Name,
		IDColumn:     t.IDColumn,
		LabelColumn:  t.LabelColumn,
		ActiveColumn: t.ActiveColumn,
		GroupColumn:  t.GroupColumn,
		IntegerKeys:  t.IntegerKeys,
	}
}

// Manifest builds the theme manifest, or nil when no theme is configured.
func (t ThemeConfig) Manifest() *theme.Manifest {
	if strings.TrimSpace(t.Name) == "" {
		return nil
	}
	manifest := &theme.Manifest{
		Name:      t.Name,
		Templates: copyMap(t.Templates),
		Assets: theme.Assets{
			Prefix: t.AssetPrefix,
			Files:  copyMap(t.Assets),
		},
	}
	if len(t.Variants) > 0 {
		manifest.Variants = make(map[string]theme.Variant, len(t.Variants))
		for name, variant := range t.Variants {
			manifest.Variants[name] = theme.Variant{
				Templates: copyMap(variant.Templates),
				Assets: theme.Assets{
					Prefix: variant.AssetPrefix,
					Files:  copyMap(variant.Assets),
				},
			}
		}
	}
	return manifest
}

func expandEnvVars(content string) string {
	return envVarRegex.ReplaceAllStringFunc(content, func(match string) string {
		varName := envVarRegex.FindStringSubmatch(match)[1]

		parts := strings.SplitN(varName, ":-", 2)
		varName = parts[0]
		defaultValue := ""
		if len(parts) > 1 {
			defaultValue = parts[1]
		}

		if value := os.Getenv(varName); value != "" {
			return value
		}
		return defaultValue
	})
}

func copyMap(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}
