package generator

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/FungiProxy/QuoteTemplate-sub001/internal/document"
)

// SweepOutputs removes quotes older than ttl that were written to the output
// directory under a generated name. Files saved to an explicit output path
// keep their own names and are never touched.
func (g *Generator) SweepOutputs(ttl time.Duration) (int, error) {
	if ttl <= 0 {
		return 0, nil
	}
	entries, err := os.ReadDir(g.cfg.OutputDir)
	if err != nil {
		return 0, fmt.Errorf("read output dir: %w", err)
	}
	cutoff := g.now().Add(-ttl)
	removed := 0
	for _, e := range entries {
		if !e.Type().IsRegular() || !generatedName(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		err = os.Remove(filepath.Join(g.cfg.OutputDir, e.Name()))
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			g.log.Warn("remove expired quote", "file", e.Name(), "error", err)
			continue
		}
		removed++
	}
	return removed, nil
}

func generatedName(name string) bool {
	ext := filepath.Ext(name)
	if !slices.Contains(document.SupportedExtensions, ext) {
		return false
	}
	id := strings.TrimSuffix(name, ext)
	// Validate also accepts urn and braced forms.
	return len(id) == 36 && uuid.Validate(id) == nil
}
