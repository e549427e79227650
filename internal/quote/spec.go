package quote

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// Spec is the validated per-item specification and pricing data.
type Spec struct {
	Model               Scalar    `json:"model"`
	Description         Scalar    `json:"description"`
	Category            Scalar    `json:"category"`
	Voltage             Scalar    `json:"voltage"`
	ProbeMaterial       Scalar    `json:"probe_material"`
	ProbeMaterialName   Scalar    `json:"probe_material_name"`
	ProbeLength         Scalar    `json:"probe_length"`
	ProbeDiameter       Scalar    `json:"probe_diameter"`
	ProbeSize           Scalar    `json:"probe_size"`
	Insulator           Insulator `json:"insulator"`
	InsulatorMaterial   Scalar    `json:"insulator_material"`
	InsulatorLength     Scalar    `json:"insulator_length"`
	BaseInsulatorLength Scalar    `json:"base_insulator_length"`
	ProcessConnection   Scalar    `json:"process_connection"`
	PCType              Scalar    `json:"pc_type"`
	PCSize              Scalar    `json:"pc_size"`
	PCMatt              Scalar    `json:"pc_matt"`
	PCRate              Scalar    `json:"pc_rate"`
	Housing             Scalar    `json:"housing"`
	Output              Scalar    `json:"output"`
	OutputType          Scalar    `json:"output_type"`
	MaxTemperature      Scalar    `json:"max_temperature"`
	MaxPressure         Scalar    `json:"max_pressure"`
	Options             Options   `json:"options"`

	TotalPrice      Scalar  `json:"total_price"`
	BasePrice       Scalar  `json:"base_price"`
	LengthCost      Scalar  `json:"length_cost"`
	LengthSurcharge Scalar  `json:"length_surcharge"`
	OptionCost      Scalar  `json:"option_cost"`
	InsulatorCost   Scalar  `json:"insulator_cost"`
	ConnectionCost  Scalar  `json:"connection_cost"`
	Pricing         Pricing `json:"pricing"`
}

// Pricing is the nested pricing block spare parts carry.
type Pricing struct {
	TotalPrice Scalar `json:"total_price"`
}

// Insulator accepts either the composite display string `<len>"<material>`
// or an object with material_name and length.
type Insulator struct {
	Text     string
	Material string
	Length   Scalar
}

func (ins *Insulator) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*ins = Insulator{}
		return nil
	case len(b) > 0 && b[0] == '"':
		return json.Unmarshal(b, &ins.Text)
	case len(b) > 0 && b[0] == '{':
		var obj struct {
			MaterialName string `json:"material_name"`
			Material     string `json:"material"`
			Length       Scalar `json:"length"`
		}
		if err := json.Unmarshal(b, &obj); err != nil {
			return err
		}
		ins.Material = obj.MaterialName
		if ins.Material == "" {
			ins.Material = obj.Material
		}
		ins.Length = obj.Length
		return nil
	}
	return fmt.Errorf("expected string or object, got %s", b)
}

// Options is the list of option display strings. Upstream sends either
// strings ("VR: Vibration Resistance") or {code, name} objects.
type Options []string

func (o *Options) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*o = nil
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*o = Options{s}
		return nil
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("expected list of options: %w", err)
	}
	out := make(Options, 0, len(raw))
	for _, r := range raw {
		var s string
		if err := json.Unmarshal(r, &s); err == nil {
			out = append(out, s)
			continue
		}
		var obj struct {
			Code string `json:"code"`
			Name string `json:"name"`
		}
		if err := json.Unmarshal(r, &obj); err != nil {
			return fmt.Errorf("option: %w", err)
		}
		out = append(out, strings.TrimSpace(obj.Code+": "+obj.Name))
	}
	*o = out
	return nil
}

// ignoredKeys are upstream bookkeeping fields that carry nothing a template
// renders.
var ignoredKeys = map[string]bool{
	"part_number":     true,
	"quantity":        true,
	"errors":          true,
	"warnings":        true,
	"price_breakdown": true,
}

var knownKeys = func() map[string]bool {
	keys := make(map[string]bool)
	t := reflect.TypeOf(Spec{})
	for i := 0; i < t.NumField(); i++ {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("json"), ",")
		keys[name] = true
	}
	return keys
}()

// DecodeSpec validates data and decodes it into a Spec. It returns the keys it
// did not recognize, sorted, so callers can log them.
func DecodeSpec(data any) (Spec, []string, error) {
	var spec Spec
	if data == nil {
		return spec, nil, nil
	}
	m, ok := data.(map[string]any)
	if !ok {
		return spec, nil, &InputError{Field: "data", Msg: fmt.Sprintf("expected object, got %T", data)}
	}

	var unknown []string
	for k := range m {
		if !knownKeys[k] && !ignoredKeys[k] {
			unknown = append(unknown, k)
		}
	}
	sort.Strings(unknown)

	raw, err := json.Marshal(m)
	if err != nil {
		return spec, unknown, &InputError{Field: "data", Msg: err.Error()}
	}
	if err := json.Unmarshal(raw, &spec); err != nil {
		return spec, unknown, &InputError{Field: "data", Msg: err.Error()}
	}
	return spec, unknown, nil
}
