package document

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"golang.org/x/net/html"
)

// TextLoader handles plain-text and Markdown templates. Every line is one
// paragraph, blank lines included, so the saved file keeps its layout.
type TextLoader struct {
	Markdown bool
}

func (l *TextLoader) Load(r io.Reader, filename string) (Document, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	tree := &Tree{Markdown: l.Markdown}
	for scanner.Scan() {
		tree.Body = append(tree.Body, &Line{text: scanner.Text()})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", filename, err)
	}
	return tree, nil
}

// Line is an in-memory paragraph.
type Line struct {
	text string
}

func NewLine(text string) *Line { return &Line{text: text} }

func (l *Line) Text() string        { return l.text }
func (l *Line) SetText(text string) { l.text = text }

// Grid is an in-memory table.
type Grid struct {
	Cells [][]*Line
}

func (g *Grid) Rows() []Row {
	rows := make([]Row, 0, len(g.Cells))
	for _, cells := range g.Cells {
		row := make(Row, 0, len(cells))
		for _, c := range cells {
			row = append(row, Cell{c})
		}
		rows = append(rows, row)
	}
	return rows
}

// Tree is an in-memory document. Text and Markdown templates load into it,
// and it is convenient for building documents in code.
type Tree struct {
	Body     []*Line
	Grids    []*Grid
	Header   []*Line
	Footer   []*Line
	Markdown bool
}

// NewTree builds a tree with one body paragraph per line.
func NewTree(lines ...string) *Tree {
	t := &Tree{}
	for _, l := range lines {
		t.Body = append(t.Body, NewLine(l))
	}
	return t
}

// AddTable appends a table built from cell texts.
func (t *Tree) AddTable(rows [][]string) *Grid {
	g := &Grid{}
	for _, r := range rows {
		var cells []*Line
		for _, c := range r {
			cells = append(cells, NewLine(c))
		}
		g.Cells = append(g.Cells, cells)
	}
	t.Grids = append(t.Grids, g)
	return g
}

func (t *Tree) Paragraphs() []Paragraph { return lines(t.Body) }

func (t *Tree) Tables() []Table {
	out := make([]Table, 0, len(t.Grids))
	for _, g := range t.Grids {
		out = append(out, g)
	}
	return out
}

func (t *Tree) Sections() []Section {
	if len(t.Header) == 0 && len(t.Footer) == 0 {
		return nil
	}
	return []Section{{Header: lines(t.Header), Footer: lines(t.Footer)}}
}

// WriteTo writes header, body and footer lines. Tables are written as
// tab-separated rows after the body.
func (t *Tree) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	for _, l := range t.Header {
		buf.WriteString(l.text + "\n")
	}
	for _, l := range t.Body {
		buf.WriteString(l.text + "\n")
	}
	for _, g := range t.Grids {
		for _, row := range g.Cells {
			cells := make([]string, 0, len(row))
			for _, c := range row {
				cells = append(cells, c.text)
			}
			buf.WriteString(strings.Join(cells, "\t") + "\n")
		}
	}
	for _, l := range t.Footer {
		buf.WriteString(l.text + "\n")
	}
	return buf.WriteTo(w)
}

// WriteHTML renders a Markdown tree through goldmark. Plain-text trees are
// wrapped in a <pre> block.
func (t *Tree) WriteHTML(w io.Writer) error {
	var src bytes.Buffer
	if _, err := t.WriteTo(&src); err != nil {
		return err
	}
	if !t.Markdown {
		_, err := io.WriteString(w, "<pre>"+html.EscapeString(src.String())+"</pre>\n")
		return err
	}
	return goldmark.Convert(src.Bytes(), w)
}

func lines(ls []*Line) []Paragraph {
	out := make([]Paragraph, 0, len(ls))
	for _, l := range ls {
		out = append(out, l)
	}
	return out
}
