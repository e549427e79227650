package document

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fumiama/go-docx"
)

func TestPartParagraph_TextAndSetText(t *testing.T) {
	xml := `<w:hdr><w:p w:rsidR="00A1"><w:pPr><w:jc w:val="right"/></w:pPr>` +
		`<w:r><w:rPr><w:b/></w:rPr><w:t>Quote {{quote</w:t></w:r>` +
		`<w:r><w:t xml:space="preserve">_number}} &amp; co</w:t></w:r></w:p><w:p/></w:hdr>`
	part := parsePart("word/header1.xml", []byte(xml))

	if len(part.paras) != 1 {
		t.Fatalf("expected 1 paragraph, got %d", len(part.paras))
	}
	p := part.paras[0]
	if p.Text() != "Quote {{quote_number}} & co" {
		t.Fatalf("expected joined run text, got %q", p.Text())
	}

	p.SetText("Quote Q-1 & co\nsecond")
	want := `<w:p w:rsidR="00A1"><w:pPr><w:jc w:val="right"/></w:pPr><w:r><w:rPr><w:b/></w:rPr>` +
		`<w:t xml:space="preserve">Quote Q-1 &amp; co</w:t><w:br/><w:t xml:space="preserve">second</w:t></w:r></w:p>`
	if p.xml != want {
		t.Errorf("unexpected xml:\n got %s\nwant %s", p.xml, want)
	}
	if p.Text() != "Quote Q-1 & co\nsecond" {
		t.Errorf("expected text round trip, got %q", p.Text())
	}
	if !strings.HasPrefix(part.String(), "<w:hdr>") || !strings.HasSuffix(part.String(), "<w:p/></w:hdr>") {
		t.Errorf("surrounding xml not preserved: %s", part.String())
	}
}

func TestDOCXLoader_RoundTrip(t *testing.T) {
	src := docx.New().WithDefaultTheme()
	src.AddParagraph().AddText("Dear {{customer_name}},")
	src.AddParagraph().AddText("Static line")

	dir := t.TempDir()
	tplPath := filepath.Join(dir, "tpl.docx")
	f, err := os.Create(tplPath)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := src.WriteTo(f); err != nil {
		t.Fatalf("write template: %v", err)
	}
	f.Close()

	doc, err := Open(tplPath)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	paras := doc.Paragraphs()
	if len(paras) != 2 {
		t.Fatalf("expected 2 paragraphs, got %d", len(paras))
	}
	if paras[0].Text() != "Dear {{customer_name}}," {
		t.Fatalf("unexpected text %q", paras[0].Text())
	}
	paras[0].SetText("Dear Acme,\nRegards")

	outPath := filepath.Join(dir, "out.docx")
	if err := Save(doc, outPath); err != nil {
		t.Fatalf("save: %v", err)
	}

	reloaded, err := Open(outPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got := reloaded.Paragraphs()
	if got[0].Text() != "Dear Acme,\nRegards" {
		t.Errorf("expected substituted text, got %q", got[0].Text())
	}
	if got[1].Text() != "Static line" {
		t.Errorf("expected untouched paragraph, got %q", got[1].Text())
	}
}

func TestPartParagraph_Tabs(t *testing.T) {
	xml := `<w:ftr><w:p><w:pPr><w:tabs><w:tab w:val="left" w:pos="720"/></w:tabs></w:pPr>` +
		`<w:r><w:t>Quote #:</w:t></w:r><w:r><w:tab/></w:r><w:r><w:t>{{quote_number}}</w:t></w:r></w:p></w:ftr>`
	p := parsePart("word/footer1.xml", []byte(xml)).paras[0]

	if p.Text() != "Quote #:\t{{quote_number}}" {
		t.Fatalf("expected tab between label and value, got %q", p.Text())
	}
	p.SetText("Quote #:\tQ-7")
	if !strings.Contains(p.xml, `<w:t xml:space="preserve">Quote #:</w:t><w:tab/><w:t xml:space="preserve">Q-7</w:t>`) {
		t.Errorf("expected tab written back, got %s", p.xml)
	}
	if !strings.Contains(p.xml, `<w:tab w:val="left" w:pos="720"/>`) {
		t.Errorf("expected tab stops kept, got %s", p.xml)
	}
	if p.Text() != "Quote #:\tQ-7" {
		t.Errorf("expected tab round trip, got %q", p.Text())
	}
}

func TestDOCXLoader_KeepsTabs(t *testing.T) {
	src := docx.New().WithDefaultTheme()
	para := src.AddParagraph()
	para.AddText("Quote #:")
	para.AddTab()
	para.AddText("{{quote_number}}")

	dir := t.TempDir()
	tplPath := filepath.Join(dir, "tpl.docx")
	f, err := os.Create(tplPath)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := src.WriteTo(f); err != nil {
		t.Fatalf("write template: %v", err)
	}
	f.Close()

	doc, err := Open(tplPath)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	p := doc.Paragraphs()[0]
	if p.Text() != "Quote #:\t{{quote_number}}" {
		t.Fatalf("expected tab in template text, got %q", p.Text())
	}
	p.SetText(strings.Replace(p.Text(), "{{quote_number}}", "Q-7", 1))

	outPath := filepath.Join(dir, "out.docx")
	if err := Save(doc, outPath); err != nil {
		t.Fatalf("save: %v", err)
	}
	reloaded, err := Open(outPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if got := reloaded.Paragraphs()[0].Text(); got != "Quote #:\tQ-7" {
		t.Errorf("expected tab kept after save, got %q", got)
	}
}

func TestMergeParts_ReplacesHeader(t *testing.T) {
	var packed bytes.Buffer
	zw := zip.NewWriter(&packed)
	for name, body := range map[string]string{
		"word/document.xml": "<w:document/>",
		"word/header1.xml":  `<w:hdr><w:p><w:r><w:t>{{quote_number}}</w:t></w:r></w:p></w:hdr>`,
	} {
		w, _ := zw.Create(name)
		w.Write([]byte(body))
	}
	zw.Close()

	parts, err := readHeaderFooterParts(packed.Bytes())
	if err != nil {
		t.Fatalf("read parts: %v", err)
	}
	if len(parts) != 1 || parts[0].footer {
		t.Fatalf("expected one header part, got %d", len(parts))
	}
	parts[0].paras[0].SetText("Q-100")

	var out bytes.Buffer
	if _, err := mergeParts(&out, packed.Bytes(), parts); err != nil {
		t.Fatalf("merge: %v", err)
	}
	merged, err := readHeaderFooterParts(out.Bytes())
	if err != nil {
		t.Fatalf("reread: %v", err)
	}
	if merged[0].paras[0].Text() != "Q-100" {
		t.Errorf("expected rewritten header, got %q", merged[0].paras[0].Text())
	}
}
