package generator

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/FungiProxy/QuoteTemplate-sub001/internal/bullets"
	"github.com/FungiProxy/QuoteTemplate-sub001/internal/config"
	"github.com/FungiProxy/QuoteTemplate-sub001/internal/document"
	"github.com/FungiProxy/QuoteTemplate-sub001/internal/modelconfig"
	"github.com/FungiProxy/QuoteTemplate-sub001/internal/quote"
	"github.com/FungiProxy/QuoteTemplate-sub001/internal/render"
	"github.com/FungiProxy/QuoteTemplate-sub001/internal/sections"
	"github.com/FungiProxy/QuoteTemplate-sub001/internal/templates"
	"github.com/FungiProxy/QuoteTemplate-sub001/internal/variables"
)

// Employee is the sales contact printed on the quote.
type Employee struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// Request describes one quote to generate.
type Request struct {
	Items         []quote.RawItem   `json:"items"`
	CustomerName  string            `json:"customer_name"`
	AttentionName string            `json:"attention_name"`
	QuoteNumber   string            `json:"quote_number"`
	OutputPath    string            `json:"output_path,omitempty"`
	Employee      *Employee         `json:"employee,omitempty"`
	Extra         map[string]string `json:"extra,omitempty"`
}

// Report describes a finished generation.
type Report struct {
	ID         string         `json:"id"`
	Template   string         `json:"template"`
	OutputPath string         `json:"output_path"`
	ItemCount  int            `json:"item_count"`
	Missing    []string       `json:"missing,omitempty"`
	Issues     []render.Issue `json:"issues,omitempty"`
}

// Generator renders quote documents from templates.
type Generator struct {
	cfg      config.Config
	defaults *config.QuoteDefaults
	selector *templates.Selector
	Stats    *Stats
	log      *slog.Logger
	now      func() time.Time
}

func New(cfg config.Config, defaults *config.QuoteDefaults, log *slog.Logger) *Generator {
	if defaults == nil {
		defaults = &config.QuoteDefaults{}
		config.ApplyDefaults(defaults)
	}
	if log == nil {
		log = slog.Default()
	}
	return &Generator{
		cfg:      cfg,
		defaults: defaults,
		selector: templates.NewSelector(cfg.TemplatesDir, cfg.MasterTemplate),
		Stats:    NewStats(cfg.StatsWindow),
		log:      log,
		now:      time.Now,
	}
}

// NewConfigStore returns a model config store for one session.
func (g *Generator) NewConfigStore(log *slog.Logger) *modelconfig.Store {
	return modelconfig.NewStore(g.cfg.ConfigsDir, g.cfg.ConfigCacheSize, log)
}

// GenerateQuote writes a quote for items to outputPath.
func (g *Generator) GenerateQuote(items []quote.RawItem, customerName, attentionName, quoteNumber, outputPath string, employee *Employee, extra map[string]string) error {
	_, err := g.Generate(Request{
		Items:         items,
		CustomerName:  customerName,
		AttentionName: attentionName,
		QuoteNumber:   quoteNumber,
		OutputPath:    outputPath,
		Employee:      employee,
		Extra:         extra,
	})
	return err
}

// Generate renders one quote. Failures are *Error values tagged with a Kind.
// No output file is left behind when generation fails.
func (g *Generator) Generate(req Request) (*Report, error) {
	start := g.now()
	rep, err := g.generate(req)
	g.Stats.Record(g.now().Sub(start), err != nil)
	return rep, err
}

func (g *Generator) generate(req Request) (*Report, error) {
	id := uuid.NewString()
	log := g.log.With("generation_id", id)

	if len(req.Items) == 0 {
		return nil, newError(ItemDataInvalid, "validate items", errors.New("quote has no items"))
	}
	items := make([]quote.Item, 0, len(req.Items))
	for i, raw := range req.Items {
		it, err := quote.ParseItem(raw)
		if err != nil {
			return nil, newError(ItemDataInvalid, fmt.Sprintf("parse item %d", i+1), err)
		}
		if len(it.UnknownKeys) > 0 {
			log.Warn("ignoring unrecognized item fields", "part_number", it.PartNumber, "fields", it.UnknownKeys)
		}
		items = append(items, it)
	}

	handle, err := g.selector.Select(items)
	if err != nil {
		return nil, newError(TemplateNotFound, "select template", err)
	}
	doc, err := document.Open(handle.Path)
	if err != nil {
		return nil, newError(TemplateNotFound, "load template", err)
	}
	log.Info("template selected", "path", handle.Path, "master", handle.Master, "items", len(items))

	store := g.NewConfigStore(log)
	extractor := bullets.NewExtractor(g.selector, store, log)
	assembler := sections.NewAssembler(store, extractor, variables.NewMapper(log), log)
	vars := assembler.Assemble(items, g.BaseVariables(req))

	issues := render.ApplyConditionals(doc, render.ModeFor(len(items)), log)
	missing := render.ApplyVariables(doc, vars, issues...)
	if len(missing) > 0 {
		log.Warn("unresolved placeholders", "names", missing)
	}

	out := req.OutputPath
	if out == "" {
		out = filepath.Join(g.cfg.OutputDir, id+filepath.Ext(handle.Path))
	}
	if err := document.Save(doc, out); err != nil {
		return nil, newError(WriteFailed, "save quote", err)
	}
	log.Info("quote generated", "output", out, "missing", len(missing), "issues", len(issues))

	return &Report{
		ID:         id,
		Template:   handle.Path,
		OutputPath: out,
		ItemCount:  len(items),
		Missing:    missing,
		Issues:     issues,
	}, nil
}

// BaseVariables builds the quote-wide variables. Request extras override
// everything else.
func (g *Generator) BaseVariables(req Request) variables.Table {
	d := g.defaults
	emp := Employee{Name: d.Employee.Name, Phone: d.Employee.Phone, Email: d.Employee.Email}
	if req.Employee != nil {
		if req.Employee.Name != "" {
			emp.Name = req.Employee.Name
		}
		if req.Employee.Phone != "" {
			emp.Phone = req.Employee.Phone
		}
		if req.Employee.Email != "" {
			emp.Email = req.Employee.Email
		}
	}

	vars := variables.Table{
		"date":                 g.now().Format("January 02, 2006"),
		"customer_name":        req.CustomerName,
		"company_name":         req.CustomerName,
		"attention_name":       req.AttentionName,
		"contact_name":         req.AttentionName,
		"quote_number":         req.QuoteNumber,
		"quote_number_display": DisplayQuoteNumber(req.QuoteNumber),
		"employee_name":        emp.Name,
		"employee_phone":       emp.Phone,
		"employee_email":       emp.Email,
		"lead_time":            d.Terms.LeadTime,
		"delivery_terms":       d.Terms.DeliveryTerms,
		"fob_terms":            d.Terms.FOBTerms,
		"quote_validity":       d.Terms.QuoteValidity,
	}
	for k, v := range d.Variables {
		vars.SetDefault(k, v)
	}
	for k, v := range req.Extra {
		vars[k] = v
	}
	return vars
}

// DisplayQuoteNumber drops the customer prefix: "ACME ZF071925A" displays as
// "ZF071925A".
func DisplayQuoteNumber(quoteNumber string) string {
	if _, rest, ok := strings.Cut(quoteNumber, " "); ok {
		return rest
	}
	return quoteNumber
}
