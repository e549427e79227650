package bullets

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/FungiProxy/QuoteTemplate-sub001/internal/document"
	"github.com/FungiProxy/QuoteTemplate-sub001/internal/modelconfig"
	"github.com/FungiProxy/QuoteTemplate-sub001/internal/render"
	"github.com/FungiProxy/QuoteTemplate-sub001/internal/variables"
)

// TemplateFinder resolves model-specific templates.
type TemplateFinder interface {
	ModelTemplate(model string) (string, bool)
}

// ConfigSource supplies model configurations.
type ConfigSource interface {
	Load(model string) modelconfig.ModelConfig
}

// specKeywords mark a "Label: value" line as a specification bullet.
var specKeywords = []string{"voltage", "output", "connection", "insulator", "probe", "housing", "warranty"}

// Extractor derives the specification bullets for one item by rendering the
// item's single-item template and reading the bullet lines back out.
type Extractor struct {
	templates TemplateFinder
	configs   ConfigSource
	open      func(path string) (document.Document, error)
	log       *slog.Logger
}

func NewExtractor(templates TemplateFinder, configs ConfigSource, log *slog.Logger) *Extractor {
	if log == nil {
		log = slog.Default()
	}
	return &Extractor{templates: templates, configs: configs, open: document.Open, log: log}
}

// Extract never fails: when the template is missing, unreadable or yields no
// bullets, it falls back to the model configuration.
func (e *Extractor) Extract(model string, vars variables.Table) []string {
	out, err := e.fromTemplate(model, vars)
	if err != nil {
		e.log.Warn("bullet extraction fell back to model config", "model", model, "error", err)
	}
	if len(out) > 0 {
		return out
	}
	return e.configs.Load(model).Bullets(vars)
}

func (e *Extractor) fromTemplate(model string, vars variables.Table) (out []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("render template: %v", r)
		}
	}()

	path, ok := e.templates.ModelTemplate(model)
	if !ok {
		return nil, nil
	}
	doc, err := e.open(path)
	if err != nil {
		return nil, err
	}
	render.ApplyConditionals(doc, render.ModeSingle, nil)
	render.ApplyVariables(doc, vars)

	collect := func(p document.Paragraph) {
		for _, line := range strings.Split(p.Text(), "\n") {
			if b, ok := Classify(line); ok {
				out = append(out, b)
			}
		}
	}
	for _, p := range doc.Paragraphs() {
		collect(p)
	}
	for _, tbl := range doc.Tables() {
		for _, row := range tbl.Rows() {
			for _, cell := range row {
				for _, p := range cell {
					collect(p)
				}
			}
		}
	}
	return out, nil
}

// Classify reports whether a line is a specification bullet and returns its
// text. Lines starting with a bullet marker have it stripped; otherwise a
// "Label: value" line naming a known specification is taken as-is.
func Classify(line string) (string, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", false
	}
	for _, marker := range []string{"•", "-", "*"} {
		if strings.HasPrefix(line, marker) {
			text := strings.TrimSpace(strings.TrimPrefix(line, marker))
			return text, text != ""
		}
	}
	if !strings.Contains(line, ":") {
		return "", false
	}
	lower := strings.ToLower(line)
	for _, kw := range specKeywords {
		if strings.Contains(lower, kw) {
			return line, true
		}
	}
	return "", false
}
