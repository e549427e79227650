package document

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWalk_Order(t *testing.T) {
	tree := NewTree("body one", "body two")
	tree.AddTable([][]string{{"r0c0", "r0c1"}, {"r1c0"}})
	tree.Header = []*Line{NewLine("head")}
	tree.Footer = []*Line{NewLine("foot")}

	var got []string
	var areas []Area
	Walk(tree, func(loc Location, p Paragraph) {
		got = append(got, p.Text())
		areas = append(areas, loc.Area)
	})

	want := []string{"body one", "body two", "r0c0", "r0c1", "r1c0", "head", "foot"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("expected order %v, got %v", want, got)
	}
	if areas[2] != AreaTable || areas[5] != AreaHeader || areas[6] != AreaFooter {
		t.Errorf("unexpected areas: %v", areas)
	}
}

func TestLocation_String(t *testing.T) {
	loc := Location{Area: AreaTable, Table: 1, Row: 2, Cell: 3, Index: 0}
	if loc.String() != "table[1] r2c3 p0" {
		t.Errorf("expected %q, got %q", "table[1] r2c3 p0", loc.String())
	}
	if (Location{Area: AreaBody, Index: 4}).String() != "body p4" {
		t.Errorf("unexpected body location string")
	}
}

func TestTextLoader_KeepsBlankLines(t *testing.T) {
	input := "Dear {{customer_name}},\n\nThanks.\n"
	doc, err := (&TextLoader{}).Load(strings.NewReader(input), "quote.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	paras := doc.Paragraphs()
	if len(paras) != 3 {
		t.Fatalf("expected 3 paragraphs, got %d", len(paras))
	}
	if paras[1].Text() != "" {
		t.Errorf("expected blank second paragraph, got %q", paras[1].Text())
	}

	paras[0].SetText("Dear Acme,")
	var buf strings.Builder
	if _, err := doc.WriteTo(&buf); err != nil {
		t.Fatalf("write: %v", err)
	}
	if buf.String() != "Dear Acme,\n\nThanks.\n" {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestSave_AtomicRename(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")

	if err := Save(NewTree("hello"), path); err != nil {
		t.Fatalf("save: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "hello\n" {
		t.Errorf("expected %q, got %q", "hello\n", string(data))
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("expected only the output file, got %d entries", len(entries))
	}
}

func TestSave_MissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope", "out.txt")
	if err := Save(NewTree("x"), path); err == nil {
		t.Fatal("expected error for missing directory")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("expected no output file, got %v", err)
	}
}

func TestSave_MarkdownAsHTML(t *testing.T) {
	doc, err := (&TextLoader{Markdown: true}).Load(strings.NewReader("# Quote\n\nTotal due"), "q.md")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	path := filepath.Join(t.TempDir(), "q.html")
	if err := Save(doc, path); err != nil {
		t.Fatalf("save: %v", err)
	}
	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "<h1>Quote</h1>") {
		t.Errorf("expected rendered heading, got %q", string(data))
	}
}

func TestForFile(t *testing.T) {
	for _, name := range []string{"a.docx", "a.html", "a.htm", "a.md", "a.txt"} {
		if !IsSupportedExtension(name) {
			t.Errorf("expected %s to be supported", name)
		}
	}
	if IsSupportedExtension("a.pdf") {
		t.Error("pdf templates are not supported")
	}
}
