package variables

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/FungiProxy/QuoteTemplate-sub001/internal/quote"
)

// materialNames translates insulator material codes to display names.
var materialNames = map[string]string{
	"TEF":    "Teflon",
	"U":      "UHMWPE",
	"UHMWPE": "UHMWPE",
	"DEL":    "DELRIN",
	"PEEK":   "PEEK",
	"CER":    "Ceramic",
}

// MaterialName returns the display name for an insulator material code.
// Unknown codes are returned unchanged.
func MaterialName(code string) string {
	if name, ok := materialNames[strings.ToUpper(strings.TrimSpace(code))]; ok {
		return name
	}
	return code
}

// Mapper turns item specification data into template variables.
type Mapper struct {
	log *slog.Logger
}

func NewMapper(log *slog.Logger) *Mapper {
	if log == nil {
		log = slog.Default()
	}
	return &Mapper{log: log}
}

// Map decodes raw item data and maps it. data must be a mapping.
func (m *Mapper) Map(data any, seed Table) (Table, error) {
	spec, unknown, err := quote.DecodeSpec(data)
	if err != nil {
		return nil, fmt.Errorf("map item data: %w", err)
	}
	if len(unknown) > 0 {
		m.log.Warn("ignoring unrecognized item fields", "fields", unknown)
	}
	return m.MapSpec(spec, seed), nil
}

// MapSpec returns seed extended with the variables derived from spec. Every
// write is first-wins: names already present in seed are never overwritten,
// and derived names take precedence over raw fields of the same name.
func (m *Mapper) MapSpec(spec quote.Spec, seed Table) Table {
	out := seed.Clone()
	set := func(k string, s quote.Scalar) {
		if s.IsSet() {
			out.SetDefault(k, s.String())
		}
	}

	set("supply_voltage", spec.Voltage)
	mapInsulator(out, spec)

	if spec.ProbeMaterialName.IsSet() {
		set("probe_material", spec.ProbeMaterialName)
	} else {
		set("probe_material", spec.ProbeMaterial)
	}
	if spec.ProbeDiameter.IsSet() {
		out.SetDefault("probe_size", strings.NewReplacer(`"`, "", "'", "").Replace(spec.ProbeDiameter.String()))
	} else {
		set("probe_size", spec.ProbeSize)
	}
	if spec.ProbeLength.IsSet() {
		out.SetDefault("probe_length", NormalizeNumber(spec.ProbeLength.String()))
	}

	set("pc_size", spec.PCSize)
	set("pc_type", spec.PCType)
	set("pc_matt", spec.PCMatt)
	set("pc_rate", spec.PCRate)

	if spec.MaxPressure.IsNumber() {
		out.SetDefault("max_pressure", spec.MaxPressure.String()+" PSI")
	}
	if spec.MaxTemperature.IsNumber() {
		out.SetDefault("max_temperature", spec.MaxTemperature.String()+"°F")
	}

	if spec.OutputType.IsSet() {
		set("output_type", spec.OutputType)
	} else {
		set("output_type", spec.Output)
	}

	if len(spec.Options) > 0 {
		codes := make([]string, 0, len(spec.Options))
		for _, opt := range spec.Options {
			code, _, _ := strings.Cut(opt, ":")
			codes = append(codes, strings.TrimSpace(code))
		}
		out.SetDefault("options", strings.Join(codes, ", "))
		out.SetDefault("options_long", strings.Join(spec.Options, ", "))
	}

	for k, s := range map[string]quote.Scalar{
		"total_price":      spec.TotalPrice,
		"base_price":       spec.BasePrice,
		"length_cost":      spec.LengthCost,
		"length_surcharge": spec.LengthSurcharge,
		"option_cost":      spec.OptionCost,
		"insulator_cost":   spec.InsulatorCost,
		"connection_cost":  spec.ConnectionCost,
	} {
		if f, ok := s.Float(); ok {
			out.SetDefault(k, FormatCurrency(f))
		}
	}
	if f, ok := spec.Pricing.TotalPrice.Float(); ok {
		out.SetDefault("total_price", FormatCurrency(f))
	}

	if spec.BaseInsulatorLength.IsSet() {
		out.SetDefault("base_insulator_length", NormalizeNumber(spec.BaseInsulatorLength.String()))
	}
	if spec.InsulatorLength.IsSet() {
		out.SetDefault("insulator_length", NormalizeNumber(spec.InsulatorLength.String()))
	}

	// Raw fields under their own names, after the derived ones.
	set("voltage", spec.Voltage)
	set("model", spec.Model)
	set("description", spec.Description)
	set("category", spec.Category)
	set("housing", spec.Housing)
	set("output", spec.Output)
	set("process_connection", spec.ProcessConnection)
	set("probe_diameter", spec.ProbeDiameter)
	set("probe_material_name", spec.ProbeMaterialName)
	set("insulator_material", spec.InsulatorMaterial)
	set("max_pressure", spec.MaxPressure)
	set("max_temperature", spec.MaxTemperature)
	if spec.Insulator.Text != "" {
		out.SetDefault("insulator", spec.Insulator.Text)
	}
	return out
}

// mapInsulator derives ins_material, ins_length, ins_long and ins_temp from
// either the composite `<len>"<material>` string, the insulator object, or
// the separate material code and length fields.
func mapInsulator(out Table, spec quote.Spec) {
	var length, material string
	switch {
	case strings.Contains(spec.Insulator.Text, `"`):
		raw, rest, _ := strings.Cut(spec.Insulator.Text, `"`)
		length = NormalizeNumber(strings.TrimSpace(raw))
		material = strings.TrimSpace(rest)
		// Upstream appends "(Base: 4.0")" when the length was adjusted.
		if i := strings.Index(material, "(Base:"); i >= 0 {
			material = strings.TrimSpace(material[:i])
		}
	case spec.Insulator.Material != "":
		material = MaterialName(spec.Insulator.Material)
		length = NormalizeNumber(spec.Insulator.Length.String())
	case spec.InsulatorMaterial.IsSet():
		material = MaterialName(spec.InsulatorMaterial.String())
		if spec.InsulatorLength.IsSet() {
			length = NormalizeNumber(spec.InsulatorLength.String())
		} else {
			length = NormalizeNumber(spec.BaseInsulatorLength.String())
		}
	default:
		return
	}

	out.SetDefault("ins_material", material)
	out.SetDefault("ins_length", length)
	if length != "" {
		out.SetDefault("ins_long", length+`" `+material)
	} else {
		out.SetDefault("ins_long", material)
	}
	out.SetDefault("ins_temp", insulatorTemp(material))
}

// insulatorTemp is the temperature rating in °F: Teflon insulators are rated
// 450, everything else 180.
func insulatorTemp(material string) string {
	if strings.Contains(material, "Teflon") {
		return "450"
	}
	return "180"
}
