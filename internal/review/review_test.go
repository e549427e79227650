package review

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestScanFile_Text(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "quote.txt")
	body := "Dear {{MISSING: contact_name}},\n" +
		"All good here.\n" +
		"{{if_multiple_items:Items: 2}}\n" +
		"PO {{po_number}} / {{MISSING: contact_name}}\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	rep, err := (&Scanner{}).ScanFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rep.Clean() {
		t.Fatal("expected findings")
	}
	kinds := make(map[string]int)
	for _, f := range rep.Findings {
		kinds[f.Kind]++
	}
	if kinds[KindMissing] != 2 || kinds[KindConditional] != 1 || kinds[KindPlaceholder] != 1 {
		t.Errorf("unexpected finding kinds %v", kinds)
	}
	if rep.Findings[0].Location != "body p0" {
		t.Errorf("expected first finding at body p0, got %q", rep.Findings[0].Location)
	}
	if got := rep.Missing(); len(got) != 1 || got[0] != "contact_name" {
		t.Errorf("expected distinct missing [contact_name], got %v", got)
	}
}

func TestScan_HTMLReader(t *testing.T) {
	html := `<html><body><p>Quote for Acme</p><table><tr><td>{{MISSING: unit_price}}</td></tr></table></body></html>`
	rep, err := (&Scanner{}).Scan(strings.NewReader(html), "uploads/quote.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rep.File != "quote.html" {
		t.Errorf("expected file name quote.html, got %q", rep.File)
	}
	if len(rep.Findings) != 1 || rep.Findings[0].Name != "unit_price" {
		t.Fatalf("unexpected findings %+v", rep.Findings)
	}
	if !strings.HasPrefix(rep.Findings[0].Location, "table[0]") {
		t.Errorf("expected table location, got %q", rep.Findings[0].Location)
	}
}

func TestScan_CleanDocument(t *testing.T) {
	rep, err := (&Scanner{}).Scan(strings.NewReader("# Quote\n\nAll resolved.\n"), "q.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !rep.Clean() {
		t.Errorf("expected clean report, got %+v", rep.Findings)
	}
}

func TestScan_Errors(t *testing.T) {
	if _, err := (&Scanner{}).Scan(strings.NewReader("x"), "q.xlsx"); err == nil {
		t.Error("expected error for unsupported extension")
	}
	if _, err := (&Scanner{}).Scan(strings.NewReader("not a pdf"), "q.pdf"); err == nil {
		t.Error("expected error for corrupt pdf")
	}
}

func TestScanPages(t *testing.T) {
	rep := scanPages("q.pdf", "Quote\nok\f\nTotal {{MISSING: total_price}}")
	if len(rep.Findings) != 1 {
		t.Fatalf("expected 1 finding, got %+v", rep.Findings)
	}
	if rep.Findings[0].Location != "page 2 line 2" {
		t.Errorf("unexpected location %q", rep.Findings[0].Location)
	}
}
