package bullets

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/FungiProxy/QuoteTemplate-sub001/internal/document"
	"github.com/FungiProxy/QuoteTemplate-sub001/internal/modelconfig"
	"github.com/FungiProxy/QuoteTemplate-sub001/internal/templates"
	"github.com/FungiProxy/QuoteTemplate-sub001/internal/variables"
)

func newExtractor(t *testing.T, dir string) *Extractor {
	t.Helper()
	store := modelconfig.NewStore(filepath.Join(dir, "configs"), 4, nil)
	return NewExtractor(templates.NewSelector(dir, ""), store, nil)
}

func TestClassify(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"• Supply Voltage: 115VAC", "Supply Voltage: 115VAC", true},
		{"  - Output: Relay", "Output: Relay", true},
		{"* ", "", false},
		{"Probe: 1/2\" x 12\"", "Probe: 1/2\" x 12\"", true},
		{"Housing Rating: NEMA 4X", "Housing Rating: NEMA 4X", true},
		{"Dear Customer: thanks", "", false},
		{"Voltage 115VAC", "", false},
		{"", "", false},
	}
	for _, c := range cases {
		got, ok := Classify(c.in)
		if ok != c.ok || got != c.want {
			t.Errorf("Classify(%q): expected (%q, %v), got (%q, %v)", c.in, c.want, c.ok, got, ok)
		}
	}
}

func TestExtract_FromTemplate(t *testing.T) {
	dir := t.TempDir()
	tpl := "{{quantity}} QTY {{part_number}}\n" +
		"• Supply Voltage: {{supply_voltage}}\n" +
		"{{if_single_item:• Probe: {{probe_length}}\"}}\n" +
		"Insulator: {{ins_long}}\n" +
		"Thank you for your business.\n"
	if err := os.WriteFile(filepath.Join(dir, "LS2000_template.txt"), []byte(tpl), 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}

	got := newExtractor(t, dir).Extract("LS2000", variables.Table{
		"supply_voltage": "115VAC",
		"probe_length":   "12",
		"ins_long":       `4" Teflon`,
	})
	want := []string{"Supply Voltage: 115VAC", `Probe: 12"`, `Insulator: 4" Teflon`}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("bullet %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestExtract_FallsBackToConfig(t *testing.T) {
	dir := t.TempDir()
	got := newExtractor(t, dir).Extract("UNKNOWN", variables.Table{"supply_voltage": "24VDC"})
	if len(got) == 0 {
		t.Fatal("expected default config bullets")
	}
	if got[0] != "Supply Voltage: 24VDC" {
		t.Errorf("unexpected first bullet %q", got[0])
	}
}

func TestExtract_TemplateWithoutBulletsFallsBack(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "LS7000_template.txt"), []byte("Dear {{customer_name}}\n"), 0o644)

	got := newExtractor(t, dir).Extract("LS7000", variables.Table{})
	if len(got) != 2 || got[0] != "Output: 10 Amp SPDT Relay" {
		t.Errorf("expected default config bullets, got %v", got)
	}
}

func TestExtract_RecoversFromLoaderFailures(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "LS2000_template.txt"), []byte("• x"), 0o644)
	e := newExtractor(t, dir)

	e.open = func(string) (document.Document, error) { return nil, errors.New("corrupt") }
	if got := e.Extract("LS2000", variables.Table{}); len(got) == 0 {
		t.Error("expected fallback bullets after load error")
	}

	e.open = func(string) (document.Document, error) { panic("boom") }
	if got := e.Extract("LS2000", variables.Table{}); len(got) == 0 {
		t.Error("expected fallback bullets after panic")
	}
}
