package document

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// HTMLLoader handles .html templates.
type HTMLLoader struct{}

func (l *HTMLLoader) Load(r io.Reader, filename string) (Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	doc := &HTML{root: root}
	doc.index()
	return doc, nil
}

// HTML is a template backed by an x/net/html node tree. Block elements (p,
// h1-h6, li, blockquote) are paragraphs; <table> cells, <header> and
// <footer> map onto tables and the single document section. Any other element
// holding its own text and no block content (a bare <div> or <span>) is a
// paragraph too, and loose text beside block elements becomes one paragraph
// per run of text.
type HTML struct {
	root   *html.Node
	body   []Paragraph
	tables []Table
	header []Paragraph
	footer []Paragraph
}

func (d *HTML) Paragraphs() []Paragraph { return d.body }
func (d *HTML) Tables() []Table         { return d.tables }

func (d *HTML) Sections() []Section {
	if len(d.header) == 0 && len(d.footer) == 0 {
		return nil
	}
	return []Section{{Header: d.header, Footer: d.footer}}
}

func (d *HTML) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	if err := html.Render(cw, d.root); err != nil {
		return cw.n, fmt.Errorf("render html: %w", err)
	}
	return cw.n, nil
}

func (d *HTML) index() {
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "head":
				return
			case "table":
				d.tables = append(d.tables, htmlTable(n))
				return
			case "header":
				d.header = append(d.header, blockParagraphs(n)...)
				return
			case "footer":
				d.footer = append(d.footer, blockParagraphs(n)...)
				return
			}
			if isBlock(n.Data) || (hasOwnText(n) && !containsStructure(n)) {
				d.body = append(d.body, &htmlParagraph{n: n})
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode && strings.TrimSpace(c.Data) != "" {
				d.body = append(d.body, &htmlText{parent: n, nodes: []*html.Node{c}})
				continue
			}
			walk(c)
		}
	}
	walk(d.root)
}

func hasOwnText(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode && strings.TrimSpace(c.Data) != "" {
			return true
		}
	}
	return false
}

// containsStructure reports whether n holds blocks, tables or sections that
// the index must visit separately.
func containsStructure(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.Data {
		case "table", "header", "footer", "script", "style", "head", "body":
			return true
		}
		if isBlock(c.Data) || containsStructure(c) {
			return true
		}
	}
	return false
}

func isBlock(tag string) bool {
	switch tag {
	case "p", "li", "blockquote", "h1", "h2", "h3", "h4", "h5", "h6":
		return true
	}
	return false
}

// blockParagraphs returns the block paragraphs under n, or n itself when it
// holds bare text.
func blockParagraphs(n *html.Node) []Paragraph {
	var out []Paragraph
	var walk func(*html.Node)
	walk = func(c *html.Node) {
		if c.Type == html.ElementNode && isBlock(c.Data) {
			out = append(out, &htmlParagraph{n: c})
			return
		}
		for cc := c.FirstChild; cc != nil; cc = cc.NextSibling {
			walk(cc)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c)
	}
	if len(out) == 0 {
		out = append(out, &htmlParagraph{n: n})
	}
	return out
}

type staticTable []Row

func (t staticTable) Rows() []Row { return t }

func htmlTable(n *html.Node) Table {
	var rows staticTable
	var walk func(*html.Node)
	walk = func(c *html.Node) {
		if c.Type == html.ElementNode {
			switch c.Data {
			case "table":
				if c != n {
					return // nested tables are not traversed
				}
			case "tr":
				var row Row
				for td := c.FirstChild; td != nil; td = td.NextSibling {
					if td.Type == html.ElementNode && (td.Data == "td" || td.Data == "th") {
						row = append(row, Cell(blockParagraphs(td)))
					}
				}
				rows = append(rows, row)
				return
			}
		}
		for cc := c.FirstChild; cc != nil; cc = cc.NextSibling {
			walk(cc)
		}
	}
	walk(n)
	return rows
}

type htmlParagraph struct {
	n *html.Node
}

func (p *htmlParagraph) Text() string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			buf.WriteString(n.Data)
		case n.Type == html.ElementNode && n.Data == "br":
			buf.WriteByte('\n')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(p.n)
	return buf.String()
}

func (p *htmlParagraph) SetText(text string) {
	for c := p.n.FirstChild; c != nil; c = p.n.FirstChild {
		p.n.RemoveChild(c)
	}
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			p.n.AppendChild(&html.Node{Type: html.ElementNode, Data: "br"})
		}
		if line != "" {
			p.n.AppendChild(&html.Node{Type: html.TextNode, Data: line})
		}
	}
}

// htmlText is a run of loose text sitting between block elements.
type htmlText struct {
	parent *html.Node
	nodes  []*html.Node // text nodes separated by <br>
}

func (p *htmlText) Text() string {
	var buf strings.Builder
	for _, n := range p.nodes {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		} else {
			buf.WriteByte('\n')
		}
	}
	return buf.String()
}

func (p *htmlText) SetText(text string) {
	next := p.nodes[len(p.nodes)-1].NextSibling
	for _, n := range p.nodes {
		p.parent.RemoveChild(n)
	}
	p.nodes = p.nodes[:0]
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			br := &html.Node{Type: html.ElementNode, Data: "br"}
			p.parent.InsertBefore(br, next)
			p.nodes = append(p.nodes, br)
		}
		tn := &html.Node{Type: html.TextNode, Data: line}
		p.parent.InsertBefore(tn, next)
		p.nodes = append(p.nodes, tn)
	}
}
