package sections

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/FungiProxy/QuoteTemplate-sub001/internal/modelconfig"
	"github.com/FungiProxy/QuoteTemplate-sub001/internal/quote"
	"github.com/FungiProxy/QuoteTemplate-sub001/internal/variables"
)

// Names of the variables the assembler produces.
const (
	VarItemsSection     = "items_section"
	VarQuoteSummary     = "quote_summary_table"
	VarNotesSection     = "optional_notes_section"
	VarModelDescription = "model_description"
	VarHasMultiple      = "has_multiple_items"
	VarItemCount        = "item_count"
)

const defaultLeadTime = "In Stock"

// ConfigSource supplies model configurations.
type ConfigSource interface {
	Load(model string) modelconfig.ModelConfig
}

// BulletSource derives specification bullets for one item.
type BulletSource interface {
	Extract(model string, vars variables.Table) []string
}

// Assembler builds the synthesized document sections for a quote.
type Assembler struct {
	configs ConfigSource
	bullets BulletSource
	mapper  *variables.Mapper
	log     *slog.Logger
}

func NewAssembler(configs ConfigSource, bullets BulletSource, mapper *variables.Mapper, log *slog.Logger) *Assembler {
	if log == nil {
		log = slog.Default()
	}
	if mapper == nil {
		mapper = variables.NewMapper(log)
	}
	return &Assembler{configs: configs, bullets: bullets, mapper: mapper, log: log}
}

// ItemVariables builds the variable table for one item on top of base. Item
// identity and unit price override base; mapped specification values and
// model defaults only fill names base does not hold.
func (a *Assembler) ItemVariables(it quote.Item, base variables.Table) variables.Table {
	model := it.Model()
	seed := base.Clone()
	seed["part_number"] = it.PartNumber
	seed["quantity"] = strconv.Itoa(it.Quantity)
	seed["model"] = model
	seed["unit_price"] = variables.FormatCurrency(it.UnitPrice())

	out := a.mapper.MapSpec(it.Spec, seed)
	for k, v := range a.configs.Load(model).DefaultValues {
		out.SetDefault(k, v)
	}
	out.SetDefault("pc_rate", "")
	out.SetDefault("lead_time", defaultLeadTime)
	return out
}

// Assemble returns a copy of base extended with the section variables.
// Single-item quotes also carry the item's own variables so model templates
// can reference them directly.
func (a *Assembler) Assemble(items []quote.Item, base variables.Table) variables.Table {
	out := base.Clone()
	multi := len(items) > 1
	out[VarHasMultiple] = strconv.FormatBool(multi)
	out[VarItemCount] = strconv.Itoa(len(items))

	switch {
	case multi:
		out[VarModelDescription] = "Multi-Item Quote"
		replay := out.Clone()
		delete(replay, VarItemsSection)
		out[VarItemsSection] = a.multiItemSection(items, replay)
	case len(items) == 1:
		it := items[0]
		itemVars := a.ItemVariables(it, base)
		cfg := a.configs.Load(it.Model())
		out[VarModelDescription] = cfg.Description
		out[VarItemsSection] = singleItemSection(it, itemVars, cfg)
		out.Merge(itemVars)
	default:
		out[VarModelDescription] = ""
		out[VarItemsSection] = ""
	}
	out[VarQuoteSummary] = QuoteSummary(items)
	out[VarNotesSection] = a.notesSection(items)
	return out
}

func singleItemSection(it quote.Item, vars variables.Table, cfg modelconfig.ModelConfig) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d QTY %s             %s    EACH", it.Quantity, it.PartNumber, vars["unit_price"])
	for _, line := range cfg.Bullets(vars) {
		b.WriteString("\n• " + line)
	}
	return b.String()
}

func (a *Assembler) multiItemSection(items []quote.Item, base variables.Table) string {
	blocks := make([]string, 0, len(items))
	for i, it := range items {
		vars := a.ItemVariables(it, base)
		var b strings.Builder
		fmt.Fprintf(&b, "Item %d: %d QTY %s             %s EACH", i+1, it.Quantity, it.PartNumber, vars["unit_price"])
		for _, line := range a.bullets.Extract(it.Model(), vars) {
			b.WriteString("\n• " + line)
		}
		blocks = append(blocks, b.String())
	}
	return strings.Join(blocks, "\n\n")
}

// QuoteSummary returns the grand total line for multi-item quotes and an
// empty string otherwise.
func QuoteSummary(items []quote.Item) string {
	if len(items) <= 1 {
		return ""
	}
	var total float64
	for _, it := range items {
		total += it.LineTotal()
	}
	return "Quote Total: " + variables.FormatCurrency(total)
}

// notesSection collects notes from each distinct model once, in item order.
func (a *Assembler) notesSection(items []quote.Item) string {
	var notes []string
	seen := make(map[string]bool)
	for _, it := range items {
		model := it.Model()
		if seen[model] {
			continue
		}
		seen[model] = true
		n := a.configs.Load(model).OptionalSections.Notes
		if !n.Enabled {
			continue
		}
		for _, note := range n.Content {
			notes = append(notes, "• "+note)
		}
	}
	return strings.Join(notes, "\n")
}
