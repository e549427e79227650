package render

import (
	"regexp"

	"github.com/FungiProxy/QuoteTemplate-sub001/internal/document"
	"github.com/FungiProxy/QuoteTemplate-sub001/internal/variables"
)

// placeholder matches {{name}}. Names never contain braces or ':', so
// conditionals and missing markers are not placeholders.
var placeholder = regexp.MustCompile(`\{\{([^{}:]+)\}\}`)

// MissingMarker matches the visible marker left for unresolved names.
var MissingMarker = regexp.MustCompile(`\{\{MISSING: ([^{}]+)\}\}`)

// Missing returns the marker text for an unresolved name.
func Missing(name string) string {
	return "{{MISSING: " + name + "}}"
}

// Names returns the placeholder names in text, in order, with duplicates.
func Names(text string) []string {
	var out []string
	for _, m := range placeholder.FindAllStringSubmatch(text, -1) {
		out = append(out, m[1])
	}
	return out
}

// Substitute replaces every placeholder in a single pass. Substituted values
// are not scanned again. Unresolved names become {{MISSING: name}}.
func Substitute(text string, vars variables.Table) (out string, missing []string) {
	out = placeholder.ReplaceAllStringFunc(text, func(tok string) string {
		name := tok[2 : len(tok)-2]
		if v, ok := vars[name]; ok {
			return v
		}
		missing = append(missing, name)
		return Missing(name)
	})
	return out, missing
}

// ApplyVariables substitutes placeholders in every paragraph. Paragraphs
// without placeholders are not touched, so their run formatting survives;
// rewritten paragraphs become a single run. Paragraphs named by skip keep
// their text verbatim. It returns the distinct unresolved names in the order
// first seen.
func ApplyVariables(doc document.Document, vars variables.Table, skip ...Issue) []string {
	skipped := make(map[document.Location]bool, len(skip))
	for _, is := range skip {
		skipped[is.Location] = true
	}
	var missing []string
	seen := make(map[string]bool)
	document.Walk(doc, func(loc document.Location, p document.Paragraph) {
		if skipped[loc] {
			return
		}
		text := p.Text()
		if !placeholder.MatchString(text) {
			return
		}
		out, miss := Substitute(text, vars)
		for _, name := range miss {
			if !seen[name] {
				seen[name] = true
				missing = append(missing, name)
			}
		}
		p.SetText(out)
	})
	return missing
}
