// Package review scans rendered quotes for placeholders that were never
// resolved and conditional blocks that were left in place.
package review

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	pdflib "github.com/ledongthuc/pdf"

	"github.com/FungiProxy/QuoteTemplate-sub001/internal/document"
	"github.com/FungiProxy/QuoteTemplate-sub001/internal/render"
)

// Finding kinds.
const (
	KindMissing     = "missing_variable"
	KindConditional = "unresolved_conditional"
	KindPlaceholder = "raw_placeholder"
)

// Finding is one problem spotted in a rendered quote.
type Finding struct {
	Kind     string `json:"kind"`
	Location string `json:"location"`
	Name     string `json:"name,omitempty"`
	Text     string `json:"text"`
}

// Report lists the findings for one file.
type Report struct {
	File     string    `json:"file"`
	Findings []Finding `json:"findings"`
}

// Clean reports whether the quote needs no further edits.
func (r *Report) Clean() bool { return len(r.Findings) == 0 }

// Missing returns the distinct missing variable names in order of appearance.
func (r *Report) Missing() []string {
	var names []string
	seen := make(map[string]bool)
	for _, f := range r.Findings {
		if f.Kind == KindMissing && !seen[f.Name] {
			seen[f.Name] = true
			names = append(names, f.Name)
		}
	}
	return names
}

// Scanner reviews rendered quotes. PDF output is supported in addition to
// every template format.
type Scanner struct {
	// FallbackPdftotext shells out to pdftotext when the PDF library fails.
	FallbackPdftotext bool
}

// ScanFile reviews the quote at path.
func (s *Scanner) ScanFile(path string) (*Report, error) {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		text, err := s.pdfText(path)
		if err != nil {
			return nil, err
		}
		return scanPages(filepath.Base(path), text), nil
	}
	doc, err := document.Open(path)
	if err != nil {
		return nil, err
	}
	return ScanDocument(filepath.Base(path), doc), nil
}

// Scan reviews a quote read from r. filename selects the format.
func (s *Scanner) Scan(r io.Reader, filename string) (*Report, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext != ".pdf" && !document.IsSupportedExtension(filename) {
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
	// ledongthuc/pdf and go-docx both want random access, so spool to disk.
	tmp, err := os.CreateTemp("", "quote-review-*"+ext)
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	rep, err := s.ScanFile(tmpPath)
	if err != nil {
		return nil, err
	}
	rep.File = filepath.Base(filename)
	return rep, nil
}

// ScanDocument reviews every paragraph of a loaded document.
func ScanDocument(name string, doc document.Document) *Report {
	rep := &Report{File: name, Findings: []Finding{}}
	document.Walk(doc, func(loc document.Location, p document.Paragraph) {
		rep.Findings = append(rep.Findings, scanText(loc.String(), p.Text())...)
	})
	return rep
}

func scanPages(name, text string) *Report {
	rep := &Report{File: name, Findings: []Finding{}}
	for i, page := range strings.Split(text, "\f") {
		for j, line := range strings.Split(page, "\n") {
			loc := fmt.Sprintf("page %d line %d", i+1, j+1)
			rep.Findings = append(rep.Findings, scanText(loc, line)...)
		}
	}
	return rep
}

func scanText(loc, text string) []Finding {
	var out []Finding
	for _, m := range render.MissingMarker.FindAllStringSubmatch(text, -1) {
		out = append(out, Finding{Kind: KindMissing, Location: loc, Name: strings.TrimSpace(m[1]), Text: text})
	}
	if strings.Contains(text, "{{if_single_item:") || strings.Contains(text, "{{if_multiple_items:") {
		out = append(out, Finding{Kind: KindConditional, Location: loc, Text: text})
	}
	for _, name := range render.Names(text) {
		out = append(out, Finding{Kind: KindPlaceholder, Location: loc, Name: name, Text: text})
	}
	return out
}

func (s *Scanner) pdfText(path string) (string, error) {
	text, err := extractPDFText(path)
	if err != nil && s.FallbackPdftotext {
		text, err = extractPdftotext(path)
	}
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}
	return text, nil
}

func extractPDFText(path string) (string, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var buf strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if i > 1 {
			buf.WriteString("\f")
		}
		buf.WriteString(text)
	}
	return buf.String(), nil
}

func extractPdftotext(path string) (string, error) {
	out, err := exec.Command("pdftotext", "-layout", path, "-").Output()
	if err != nil {
		return "", fmt.Errorf("pdftotext: %w", err)
	}
	return string(out), nil
}
