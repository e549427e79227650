package variables

import (
	"errors"
	"testing"

	"github.com/FungiProxy/QuoteTemplate-sub001/internal/quote"
)

func TestFormatNumber(t *testing.T) {
	cases := map[float64]string{12.0: "12", 12.5: "12.5", 0.0: "0", 4.25: "4.25"}
	for in, want := range cases {
		if got := FormatNumber(in); got != want {
			t.Errorf("FormatNumber(%v): expected %q, got %q", in, want, got)
		}
	}
	if got := NormalizeNumber("10.0"); got != "10" {
		t.Errorf("expected numeric string normalized, got %q", got)
	}
	if got := NormalizeNumber("10 in"); got != "10 in" {
		t.Errorf("expected non-numeric string unchanged, got %q", got)
	}
}

func TestFormatCurrency(t *testing.T) {
	if got := FormatCurrency(1250); got != "$1250.00" {
		t.Errorf("expected $1250.00, got %q", got)
	}
	if got := FormatCurrency(1250.5); got != "$1250.50" {
		t.Errorf("expected $1250.50, got %q", got)
	}
}

func TestMap_DerivedFields(t *testing.T) {
	m := NewMapper(nil)
	vars, err := m.Map(map[string]any{
		"voltage":             "115VAC",
		"insulator":           `4.0"Teflon`,
		"probe_material_name": "316SS",
		"probe_material":      "S",
		"probe_diameter":      `1/2"`,
		"probe_length":        12.0,
		"pc_rate":             nil,
		"pc_type":             "NPT",
		"max_pressure":        300.0,
		"max_temperature":     450.0,
		"total_price":         1250.0,
		"output":              "10 Amp SPDT Relay",
	}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := map[string]string{
		"supply_voltage":  "115VAC",
		"ins_material":    "Teflon",
		"ins_length":      "4",
		"ins_long":        `4" Teflon`,
		"ins_temp":        "450",
		"probe_material":  "316SS",
		"probe_size":      "1/2",
		"probe_length":    "12",
		"pc_type":         "NPT",
		"max_pressure":    "300 PSI",
		"max_temperature": "450°F",
		"total_price":     "$1250.00",
		"output_type":     "10 Amp SPDT Relay",
		"voltage":         "115VAC",
	}
	for k, v := range want {
		if vars[k] != v {
			t.Errorf("%s: expected %q, got %q", k, v, vars[k])
		}
	}
	if _, ok := vars["pc_rate"]; ok {
		t.Errorf("expected null pc_rate to be omitted by the mapper, got %q", vars["pc_rate"])
	}
	if _, ok := vars["pc_size"]; ok {
		t.Error("expected absent pc_size to be omitted")
	}
}

func TestMap_NonTeflonInsulatorAndBaseSuffix(t *testing.T) {
	vars := NewMapper(nil).MapSpec(quote.Spec{Insulator: quote.Insulator{Text: `2.5" UHMWPE (Base: 4.0")`}}, nil)
	if vars["ins_material"] != "UHMWPE" || vars["ins_length"] != "2.5" || vars["ins_temp"] != "180" {
		t.Errorf("unexpected insulator vars: %v", vars)
	}
}

func TestMap_MaterialCodes(t *testing.T) {
	spec := quote.Spec{
		InsulatorMaterial:   quote.Str("TEF"),
		BaseInsulatorLength: quote.Num(4),
	}
	vars := NewMapper(nil).MapSpec(spec, nil)
	if vars["ins_material"] != "Teflon" || vars["ins_long"] != `4" Teflon` || vars["ins_temp"] != "450" {
		t.Errorf("unexpected insulator vars: %v", vars)
	}
	if MaterialName("cer") != "Ceramic" || MaterialName("XYZ") != "XYZ" {
		t.Error("unexpected material name translation")
	}
}

func TestMap_SeedIsFirstWins(t *testing.T) {
	seed := Table{"supply_voltage": "24VDC", "employee_name": "Pat"}
	vars := NewMapper(nil).MapSpec(quote.Spec{Voltage: quote.Str("115VAC")}, seed)
	if vars["supply_voltage"] != "24VDC" {
		t.Errorf("expected seeded value to win, got %q", vars["supply_voltage"])
	}
	if vars["employee_name"] != "Pat" {
		t.Errorf("expected seed carried through, got %q", vars["employee_name"])
	}
	if seed["voltage"] != "" {
		t.Error("seed table must not be mutated")
	}
}

func TestMap_RejectsNonMapping(t *testing.T) {
	_, err := NewMapper(nil).Map("LS2000", nil)
	var inErr *quote.InputError
	if !errors.As(err, &inErr) {
		t.Fatalf("expected InputError, got %v", err)
	}
}

func TestTable_Merge(t *testing.T) {
	tbl := Table{"a": "1"}
	tbl.Merge(Table{"a": "2", "b": "3"})
	if tbl["a"] != "1" || tbl["b"] != "3" {
		t.Errorf("unexpected merge result %v", tbl)
	}
	if keys := tbl.Keys(); len(keys) != 2 || keys[0] != "a" {
		t.Errorf("unexpected keys %v", keys)
	}
}
