package document

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Paragraph is the smallest unit of text the engine reads and rewrites.
type Paragraph interface {
	Text() string
	// SetText replaces the paragraph text. Newlines become line breaks.
	SetText(text string)
}

// Cell is the ordered paragraph list of one table cell.
type Cell []Paragraph

// Row is the ordered cell list of one table row.
type Row []Cell

// Table is a grid of cells.
type Table interface {
	Rows() []Row
}

// Section holds the header and footer paragraphs of one document section.
type Section struct {
	Header []Paragraph
	Footer []Paragraph
}

// Document is a loaded template. Only paragraph text is ever mutated.
type Document interface {
	Paragraphs() []Paragraph
	Tables() []Table
	Sections() []Section
	WriteTo(w io.Writer) (int64, error)
}

// Area identifies which part of a document a paragraph belongs to.
type Area string

const (
	AreaBody   Area = "body"
	AreaTable  Area = "table"
	AreaHeader Area = "header"
	AreaFooter Area = "footer"
)

// Location pins a paragraph inside the traversal.
type Location struct {
	Area  Area `json:"area"`
	Index int  `json:"index"`           // paragraph index within the area (or cell)
	Table int  `json:"table,omitempty"` // table or section index
	Row   int  `json:"row,omitempty"`
	Cell  int  `json:"cell,omitempty"`
}

func (l Location) String() string {
	switch l.Area {
	case AreaTable:
		return fmt.Sprintf("table[%d] r%dc%d p%d", l.Table, l.Row, l.Cell, l.Index)
	case AreaHeader, AreaFooter:
		return fmt.Sprintf("%s[%d] p%d", l.Area, l.Table, l.Index)
	default:
		return fmt.Sprintf("body p%d", l.Index)
	}
}

// Walk visits every paragraph in a fixed order: body paragraphs, then tables
// row by row and cell by cell, then each section's header followed by its
// footer.
func Walk(doc Document, fn func(Location, Paragraph)) {
	for i, p := range doc.Paragraphs() {
		fn(Location{Area: AreaBody, Index: i}, p)
	}
	for ti, tbl := range doc.Tables() {
		for ri, row := range tbl.Rows() {
			for ci, cell := range row {
				for pi, p := range cell {
					fn(Location{Area: AreaTable, Table: ti, Row: ri, Cell: ci, Index: pi}, p)
				}
			}
		}
	}
	for si, sec := range doc.Sections() {
		for pi, p := range sec.Header {
			fn(Location{Area: AreaHeader, Table: si, Index: pi}, p)
		}
		for pi, p := range sec.Footer {
			fn(Location{Area: AreaFooter, Table: si, Index: pi}, p)
		}
	}
}

// Save writes doc to path atomically: the document is written to a temp file
// in the destination directory and renamed into place, so a failed write never
// leaves a partial file behind.
func Save(doc Document, path string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".quote-*"+filepath.Ext(path))
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if err := writeAs(doc, tmp, filepath.Ext(path)); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename output: %w", err)
	}
	return nil
}

// htmlWriter is implemented by documents that can render themselves as HTML
// even though they were loaded from another format.
type htmlWriter interface {
	WriteHTML(w io.Writer) error
}

func writeAs(doc Document, w io.Writer, ext string) error {
	if ext == ".html" || ext == ".htm" {
		if hw, ok := doc.(htmlWriter); ok {
			if err := hw.WriteHTML(w); err != nil {
				return fmt.Errorf("render html: %w", err)
			}
			return nil
		}
	}
	if _, err := doc.WriteTo(w); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	return nil
}
