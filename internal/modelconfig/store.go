package modelconfig

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/FungiProxy/QuoteTemplate-sub001/internal/quote"
	"github.com/FungiProxy/QuoteTemplate-sub001/internal/variables"
)

// Spec is one technical specification line. Value may contain {{name}}
// placeholders unless Static is set.
type Spec struct {
	Label  string `json:"label"`
	Value  string `json:"value"`
	Static bool   `json:"static"`
}

// Notes is the optional notes section of a model.
type Notes struct {
	Enabled bool     `json:"enabled"`
	Content []string `json:"content"`
}

// OptionalSections groups the optional document sections.
type OptionalSections struct {
	Notes Notes `json:"notes"`
}

// ModelConfig is the declarative configuration for one product model.
type ModelConfig struct {
	Model            string            `json:"model"`
	Description      string            `json:"description"`
	Specs            []Spec            `json:"technical_specifications"`
	OptionalSections OptionalSections  `json:"optional_sections"`
	DefaultValues    map[string]string `json:"default_values"`
}

// Clone returns a deep copy.
func (c ModelConfig) Clone() ModelConfig {
	out := c
	out.Specs = append([]Spec(nil), c.Specs...)
	out.OptionalSections.Notes.Content = append([]string(nil), c.OptionalSections.Notes.Content...)
	if c.DefaultValues != nil {
		out.DefaultValues = make(map[string]string, len(c.DefaultValues))
		for k, v := range c.DefaultValues {
			out.DefaultValues[k] = v
		}
	}
	return out
}

// Default returns the built-in configuration used when a model has no
// config file.
func Default(model string) ModelConfig {
	return ModelConfig{
		Model:       model,
		Description: model + " Level Switch Quote",
		Specs: []Spec{
			{Label: "Supply Voltage", Value: "{{supply_voltage}}"},
			{Label: "Output", Value: "10 Amp SPDT Relay", Static: true},
			{Label: "Process Connection", Value: "{{pc_size}} {{pc_type}}"},
			{Label: "Probe", Value: `{{probe_size}}" Diameter {{probe_material}} x {{probe_length}}"`},
		},
		DefaultValues: map[string]string{},
	}
}

var placeholderRe = regexp.MustCompile(`\{\{([^{}]+)\}\}`)

// Bullets renders the spec lines as "Label: value". Placeholders with a
// non-empty value are substituted, the rest are stripped, and lines whose
// value ends up empty are dropped.
func (c ModelConfig) Bullets(vars variables.Table) []string {
	var out []string
	for _, s := range c.Specs {
		value := s.Value
		if !s.Static {
			value = placeholderRe.ReplaceAllStringFunc(value, func(tok string) string {
				name := tok[2 : len(tok)-2]
				if v := vars[name]; v != "" {
					return v
				}
				return tok
			})
			value = placeholderRe.ReplaceAllString(value, "")
		}
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		out = append(out, s.Label+": "+value)
	}
	return out
}

// Store loads model configurations from a directory of <MODEL>_config.json
// files. A Store is meant to live for one generation session.
type Store struct {
	dir   string
	cache *lru.Cache[string, ModelConfig]
	log   *slog.Logger
}

// NewStore creates a store over dir caching up to size configs.
func NewStore(dir string, size int, log *slog.Logger) *Store {
	if size <= 0 {
		size = 64
	}
	// lru.New only fails for a non-positive size.
	cache, _ := lru.New[string, ModelConfig](size)
	if log == nil {
		log = slog.Default()
	}
	return &Store{dir: dir, cache: cache, log: log}
}

// Path returns the config file path for model.
func (s *Store) Path(model string) string {
	return filepath.Join(s.dir, model+"_config.json")
}

// Load returns the configuration for model, or the built-in default when the
// file is missing or malformed. Callers get their own copy.
func (s *Store) Load(model string) ModelConfig {
	if cfg, ok := s.cache.Get(model); ok {
		return cfg.Clone()
	}
	cfg, err := s.read(model)
	if err != nil {
		s.log.Warn("using default model config", "model", model, "error", err)
		cfg = Default(model)
	}
	s.cache.Add(model, cfg)
	return cfg.Clone()
}

func (s *Store) read(model string) (ModelConfig, error) {
	if !quote.ValidModel(model) {
		return ModelConfig{}, fmt.Errorf("invalid model %q", model)
	}
	data, err := os.ReadFile(s.Path(model))
	if err != nil {
		return ModelConfig{}, fmt.Errorf("read config: %w", err)
	}
	var cfg ModelConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return ModelConfig{}, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Model == "" {
		cfg.Model = model
	}
	if cfg.Description == "" {
		cfg.Description = model + " Level Switch Quote"
	}
	return cfg, nil
}
