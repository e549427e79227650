package document

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/fumiama/go-docx"
)

// DOCXLoader handles .docx templates.
type DOCXLoader struct{}

func (l *DOCXLoader) Load(r io.Reader, filename string) (Document, error) {
	// go-docx needs a ReaderAt+size and the header parts need the raw zip,
	// so buffer the whole file.
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read docx: %w", err)
	}
	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}
	parts, err := readHeaderFooterParts(data)
	if err != nil {
		return nil, fmt.Errorf("read header parts: %w", err)
	}
	return &DOCX{doc: doc, parts: parts}, nil
}

// DOCX wraps a go-docx document. Body paragraphs and tables come from the
// parsed tree; headers and footers are edited as raw XML parts because
// go-docx does not model them.
type DOCX struct {
	doc   *docx.Docx
	parts []*xmlPart
}

func (d *DOCX) Paragraphs() []Paragraph {
	var out []Paragraph
	for _, item := range d.doc.Document.Body.Items {
		if para, ok := item.(*docx.Paragraph); ok {
			out = append(out, &docxParagraph{p: para})
		}
	}
	return out
}

func (d *DOCX) Tables() []Table {
	var out []Table
	for _, item := range d.doc.Document.Body.Items {
		if tbl, ok := item.(*docx.Table); ok {
			out = append(out, docxTable{t: tbl})
		}
	}
	return out
}

func (d *DOCX) Sections() []Section {
	if len(d.parts) == 0 {
		return nil
	}
	var sec Section
	for _, part := range d.parts {
		for _, p := range part.paras {
			if part.footer {
				sec.Footer = append(sec.Footer, p)
			} else {
				sec.Header = append(sec.Header, p)
			}
		}
	}
	return []Section{sec}
}

func (d *DOCX) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	if _, err := d.doc.WriteTo(&buf); err != nil {
		return 0, fmt.Errorf("pack docx: %w", err)
	}
	if len(d.parts) == 0 {
		return buf.WriteTo(w)
	}
	return mergeParts(w, buf.Bytes(), d.parts)
}

type docxTable struct {
	t *docx.Table
}

func (t docxTable) Rows() []Row {
	rows := make([]Row, 0, len(t.t.TableRows))
	for _, tr := range t.t.TableRows {
		row := make(Row, 0, len(tr.TableCells))
		for _, tc := range tr.TableCells {
			cell := make(Cell, 0, len(tc.Paragraphs))
			for _, para := range tc.Paragraphs {
				cell = append(cell, &docxParagraph{p: para})
			}
			row = append(row, cell)
		}
		rows = append(rows, row)
	}
	return rows
}

type docxParagraph struct {
	p *docx.Paragraph
}

func (p *docxParagraph) Text() string {
	var buf strings.Builder
	for _, child := range p.p.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			switch v := rc.(type) {
			case *docx.Text:
				buf.WriteString(v.Text)
			case *docx.BarterRabbet:
				buf.WriteByte('\n')
			case *docx.Tab:
				buf.WriteByte('\t')
			}
		}
	}
	return buf.String()
}

// SetText collapses all runs into one run at the position of the first run,
// keeping that run's formatting. Non-run children stay where they were.
func (p *docxParagraph) SetText(text string) {
	var props *docx.RunProperties
	children := make([]interface{}, 0, len(p.p.Children))
	placed := false
	for _, child := range p.p.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			children = append(children, child)
			continue
		}
		if placed {
			continue
		}
		props = run.RunProperties
		children = append(children, newRun(props, text))
		placed = true
	}
	if !placed {
		children = append(children, newRun(props, text))
	}
	p.p.Children = children
}

func newRun(props *docx.RunProperties, text string) *docx.Run {
	run := &docx.Run{RunProperties: props}
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			run.Children = append(run.Children, &docx.BarterRabbet{})
		}
		for j, piece := range strings.Split(line, "\t") {
			if j > 0 {
				run.Children = append(run.Children, &docx.Tab{})
			}
			if piece != "" {
				run.Children = append(run.Children, &docx.Text{Text: piece, XMLSpace: "preserve"})
			}
		}
	}
	return run
}

// mergeParts copies the packed archive, swapping in the edited header and
// footer parts.
func mergeParts(w io.Writer, packed []byte, parts []*xmlPart) (int64, error) {
	zr, err := zip.NewReader(bytes.NewReader(packed), int64(len(packed)))
	if err != nil {
		return 0, fmt.Errorf("reopen packed docx: %w", err)
	}
	byName := make(map[string]*xmlPart, len(parts))
	for _, p := range parts {
		byName[p.name] = p
	}

	cw := &countingWriter{w: w}
	zw := zip.NewWriter(cw)
	written := make(map[string]bool, len(parts))
	for _, f := range zr.File {
		if part, ok := byName[f.Name]; ok {
			if err := writePart(zw, part); err != nil {
				return cw.n, err
			}
			written[f.Name] = true
			continue
		}
		if err := zw.Copy(f); err != nil {
			return cw.n, fmt.Errorf("copy %s: %w", f.Name, err)
		}
	}
	for _, part := range parts {
		if written[part.name] {
			continue
		}
		if err := writePart(zw, part); err != nil {
			return cw.n, err
		}
	}
	if err := zw.Close(); err != nil {
		return cw.n, fmt.Errorf("close docx archive: %w", err)
	}
	return cw.n, nil
}

func writePart(zw *zip.Writer, part *xmlPart) error {
	fw, err := zw.Create(part.name)
	if err != nil {
		return fmt.Errorf("create %s: %w", part.name, err)
	}
	if _, err := io.WriteString(fw, part.String()); err != nil {
		return fmt.Errorf("write %s: %w", part.name, err)
	}
	return nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
