package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func setupTemplates(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	tplDir := filepath.Join(dir, "templates")
	os.MkdirAll(tplDir, 0o755)
	os.WriteFile(filepath.Join(tplDir, "master_template.txt"),
		[]byte("Quote for {{customer_name}}\n{{items_section}}\nPO {{po_number}}\n"), 0o644)

	t.Setenv("TEMPLATES_DIR", tplDir)
	t.Setenv("MASTER_TEMPLATE", filepath.Join(tplDir, "master_template.txt"))
	t.Setenv("CONFIGS_DIR", filepath.Join(tplDir, "configs"))
	t.Setenv("OUTPUT_DIR", dir)
	t.Setenv("QUOTE_DEFAULTS_FILE", "")
	return dir
}

func TestRun_Usage(t *testing.T) {
	var out, errOut bytes.Buffer
	if code := run(nil, nil, &out, &errOut); code != 2 {
		t.Errorf("expected exit 2 without args, got %d", code)
	}
	if code := run([]string{"bogus"}, nil, &out, &errOut); code != 2 {
		t.Errorf("expected exit 2 for unknown command, got %d", code)
	}
	if !strings.Contains(errOut.String(), "unknown command") {
		t.Errorf("expected unknown command message, got %q", errOut.String())
	}
}

func TestRun_GenerateThenReview(t *testing.T) {
	dir := setupTemplates(t)
	outPath := filepath.Join(dir, "quote.txt")
	req := `{"customer_name": "Acme", "items": [{"part_number": "LS2000-115VAC", "data": {"voltage": "115VAC", "total_price": 900}}]}`

	var out, errOut bytes.Buffer
	code := run([]string{"generate", "-out", outPath}, strings.NewReader(req), &out, &errOut)
	if code != 0 {
		t.Fatalf("expected exit 0, got %d: %s", code, errOut.String())
	}
	if !strings.Contains(out.String(), "missing: po_number") {
		t.Errorf("expected missing po_number reported, got %q", out.String())
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(data), "Quote for Acme") {
		t.Errorf("unexpected output:\n%s", data)
	}

	out.Reset()
	if code := run([]string{"review", outPath}, nil, &out, &errOut); code != 3 {
		t.Errorf("expected exit 3 for quote with findings, got %d", code)
	}
	if !strings.Contains(out.String(), "missing_variable po_number") {
		t.Errorf("unexpected review output %q", out.String())
	}
}

func TestRun_ReviewClean(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ok.md")
	os.WriteFile(path, []byte("# Quote\nAll set.\n"), 0o644)

	var out, errOut bytes.Buffer
	if code := run([]string{"review", path}, nil, &out, &errOut); code != 0 {
		t.Fatalf("expected exit 0, got %d: %s", code, errOut.String())
	}
	if !strings.Contains(out.String(), "no issues") {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestRun_GenerateErrors(t *testing.T) {
	setupTemplates(t)
	var out, errOut bytes.Buffer

	if code := run([]string{"generate"}, strings.NewReader("{"), &out, &errOut); code != 1 {
		t.Errorf("expected exit 1 for bad json, got %d", code)
	}
	errOut.Reset()
	if code := run([]string{"generate"}, strings.NewReader(`{"items": []}`), &out, &errOut); code != 1 {
		t.Errorf("expected exit 1 for empty items, got %d", code)
	}
	if !strings.Contains(errOut.String(), "item_data_invalid") {
		t.Errorf("expected error kind in output, got %q", errOut.String())
	}
}
