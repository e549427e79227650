package document

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/net/html"
)

// headerFooterPart matches word/header1.xml, word/footer2.xml and so on.
var headerFooterPart = regexp.MustCompile(`^word/(header|footer)(\d*)\.xml$`)

// wpTag matches one <w:p ...>...</w:p> paragraph, skipping self-closing <w:p/>.
var wpTag = regexp.MustCompile(`(?s)<w:p(?:\s[^>]*[^/])?>.*?</w:p>`)

// wpOpen matches the opening tag of a paragraph.
var wpOpen = regexp.MustCompile(`^<w:p(?:\s[^>]*[^/])?>`)

// wtOrBr matches text nodes, line breaks and tabs in document order.
var wtOrBr = regexp.MustCompile(`(?s)<w:t(?:\s[^>]*[^/])?>(.*?)</w:t>|<w:br(?:\s[^>]*)?/>|<w:tab(?:\s[^>]*)?/>`)

var (
	pPrTag = regexp.MustCompile(`(?s)^<w:pPr(?:\s[^>]*[^/])?>.*?</w:pPr>|^<w:pPr(?:\s[^>]*)?/>`)
	rPrTag = regexp.MustCompile(`(?s)<w:rPr(?:\s[^>]*[^/])?>.*?</w:rPr>`)
)

// xmlPart is a header or footer part split into raw XML and paragraphs.
type xmlPart struct {
	name   string
	footer bool
	order  int
	raw    []string // raw[i] precedes paras[i]
	paras  []*partParagraph
	tail   string
}

func parsePart(name string, data []byte) *xmlPart {
	s := string(data)
	part := &xmlPart{name: name}
	last := 0
	for _, loc := range wpTag.FindAllStringIndex(s, -1) {
		part.raw = append(part.raw, s[last:loc[0]])
		part.paras = append(part.paras, &partParagraph{xml: s[loc[0]:loc[1]]})
		last = loc[1]
	}
	part.tail = s[last:]
	return part
}

func (p *xmlPart) String() string {
	var b strings.Builder
	for i, para := range p.paras {
		b.WriteString(p.raw[i])
		b.WriteString(para.xml)
	}
	b.WriteString(p.tail)
	return b.String()
}

func readHeaderFooterParts(data []byte) ([]*xmlPart, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("not a zip: %w", err)
	}
	var parts []*xmlPart
	for _, f := range zr.File {
		m := headerFooterPart.FindStringSubmatch(f.Name)
		if m == nil {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", f.Name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f.Name, err)
		}
		part := parsePart(f.Name, content)
		part.footer = m[1] == "footer"
		fmt.Sscanf(m[2], "%d", &part.order)
		parts = append(parts, part)
	}
	sort.SliceStable(parts, func(i, j int) bool {
		if parts[i].footer != parts[j].footer {
			return !parts[i].footer
		}
		return parts[i].order < parts[j].order
	})
	return parts, nil
}

// partParagraph is a paragraph edited directly as WordprocessingML.
type partParagraph struct {
	xml string
}

func (p *partParagraph) Text() string {
	// Tab stops inside <w:pPr> are also spelled <w:tab/>.
	body := p.xml[len(wpOpen.FindString(p.xml)):]
	body = body[len(pPrTag.FindString(body)):]

	var buf strings.Builder
	for _, m := range wtOrBr.FindAllStringSubmatch(body, -1) {
		switch {
		case strings.HasPrefix(m[0], "<w:br"):
			buf.WriteByte('\n')
			continue
		case strings.HasPrefix(m[0], "<w:tab"):
			buf.WriteByte('\t')
			continue
		}
		buf.WriteString(html.UnescapeString(m[1]))
	}
	return buf.String()
}

// SetText rebuilds the paragraph as a single run, keeping the paragraph
// properties and the first run's properties.
func (p *partParagraph) SetText(text string) {
	open := wpOpen.FindString(p.xml)
	body := p.xml[len(open):]
	pPr := pPrTag.FindString(body)
	rPr := rPrTag.FindString(body[len(pPr):])

	var b strings.Builder
	b.WriteString(open)
	b.WriteString(pPr)
	b.WriteString("<w:r>")
	b.WriteString(rPr)
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			b.WriteString("<w:br/>")
		}
		for j, piece := range strings.Split(line, "\t") {
			if j > 0 {
				b.WriteString("<w:tab/>")
			}
			if piece == "" {
				continue
			}
			b.WriteString(`<w:t xml:space="preserve">`)
			b.WriteString(html.EscapeString(piece))
			b.WriteString("</w:t>")
		}
	}
	b.WriteString("</w:r></w:p>")
	p.xml = b.String()
}
