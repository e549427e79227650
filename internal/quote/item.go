package quote

import (
	"fmt"
	"strings"
)

// Kind distinguishes main quote lines from spare parts.
type Kind int

const (
	KindMain Kind = iota
	KindSpare
)

func (k Kind) String() string {
	if k == KindSpare {
		return "spare"
	}
	return "main"
}

// ParseKind resolves the wire "type" field.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "main", "item":
		return KindMain, nil
	case "spare", "spare_part":
		return KindSpare, nil
	}
	return KindMain, &InputError{Field: "type", Msg: fmt.Sprintf("unknown item type %q", s)}
}

// RawItem is the wire shape of a quote line.
type RawItem struct {
	PartNumber string `json:"part_number"`
	Quantity   int    `json:"quantity"`
	Type       string `json:"type,omitempty"`
	Data       any    `json:"data"`
}

// Item is a validated quote line.
type Item struct {
	PartNumber string
	Quantity   int
	Kind       Kind
	Spec       Spec

	// UnknownKeys lists data keys that were not recognized.
	UnknownKeys []string
}

// InputError reports malformed item data.
type InputError struct {
	Field string
	Msg   string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Msg)
}

// ParseItem validates a raw item. A missing quantity defaults to 1.
func ParseItem(raw RawItem) (Item, error) {
	pn := strings.TrimSpace(raw.PartNumber)
	if pn == "" {
		return Item{}, &InputError{Field: "part_number", Msg: "must not be empty"}
	}
	if raw.Quantity < 0 {
		return Item{}, &InputError{Field: "quantity", Msg: fmt.Sprintf("must be positive, got %d", raw.Quantity)}
	}
	if model := ModelOf(pn); !ValidModel(model) {
		return Item{}, &InputError{Field: "part_number", Msg: fmt.Sprintf("invalid model %q", model)}
	}
	qty := raw.Quantity
	if qty == 0 {
		qty = 1
	}
	kind, err := ParseKind(raw.Type)
	if err != nil {
		return Item{}, err
	}
	spec, unknown, err := DecodeSpec(raw.Data)
	if err != nil {
		return Item{}, err
	}
	return Item{
		PartNumber:  pn,
		Quantity:    qty,
		Kind:        kind,
		Spec:        spec,
		UnknownKeys: unknown,
	}, nil
}

// Model derives the model code from the part number: the text before the
// first '-', or the first six characters of a dashless part number.
func (it Item) Model() string {
	return ModelOf(it.PartNumber)
}

// ModelOf derives the model code from a part number.
func ModelOf(partNumber string) string {
	if i := strings.Index(partNumber, "-"); i >= 0 {
		return partNumber[:i]
	}
	if len(partNumber) >= 6 {
		return partNumber[:6]
	}
	return partNumber
}

// ValidModel reports whether model can name a template or config file.
// Path separators, dots and drive colons are rejected.
func ValidModel(model string) bool {
	return model != "" && !strings.ContainsAny(model, "/\\.:\x00")
}

// UnitPrice returns the per-unit price. Main items carry total_price at the
// top level; spares carry it under pricing.
func (it Item) UnitPrice() float64 {
	var price Scalar
	switch it.Kind {
	case KindSpare:
		price = it.Spec.Pricing.TotalPrice
	default:
		price = it.Spec.TotalPrice
	}
	f, _ := price.Float()
	return f
}

// LineTotal is UnitPrice times Quantity.
func (it Item) LineTotal() float64 {
	return it.UnitPrice() * float64(it.Quantity)
}
