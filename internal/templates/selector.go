package templates

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/FungiProxy/QuoteTemplate-sub001/internal/document"
	"github.com/FungiProxy/QuoteTemplate-sub001/internal/quote"
)

// ErrTemplateNotFound is returned when neither a model template nor the
// master template exists.
var ErrTemplateNotFound = errors.New("template not found")

// Handle identifies the template chosen for a quote.
type Handle struct {
	Path   string
	Model  string // empty for multi-item quotes
	Master bool
}

// Selector picks the template for a quote. Model templates live in Dir as
// <MODEL>_template.<ext>; MasterPath is the shared multi-item template.
type Selector struct {
	Dir        string
	MasterPath string
}

func NewSelector(dir, masterPath string) *Selector {
	return &Selector{Dir: dir, MasterPath: masterPath}
}

// ModelTemplate returns the model-specific template path, trying each
// supported extension in preference order.
func (s *Selector) ModelTemplate(model string) (string, bool) {
	if !quote.ValidModel(model) {
		return "", false
	}
	for _, ext := range document.SupportedExtensions {
		path := filepath.Join(s.Dir, model+"_template"+ext)
		if fileExists(path) {
			return path, true
		}
	}
	return "", false
}

// Select returns the model template for single-item quotes when one exists,
// and the master template otherwise.
func (s *Selector) Select(items []quote.Item) (Handle, error) {
	if len(items) == 1 {
		model := items[0].Model()
		if path, ok := s.ModelTemplate(model); ok {
			return Handle{Path: path, Model: model}, nil
		}
	}
	if s.MasterPath != "" && fileExists(s.MasterPath) {
		return Handle{Path: s.MasterPath, Master: true}, nil
	}
	if len(items) == 1 {
		return Handle{}, fmt.Errorf("%w: no template for model %s and no master template at %s", ErrTemplateNotFound, items[0].Model(), s.MasterPath)
	}
	return Handle{}, fmt.Errorf("%w: master template %s", ErrTemplateNotFound, s.MasterPath)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
