package render

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/FungiProxy/QuoteTemplate-sub001/internal/document"
)

// Mode selects which conditional blocks survive.
type Mode int

const (
	ModeSingle Mode = iota
	ModeMulti
)

func (m Mode) String() string {
	if m == ModeMulti {
		return "multi"
	}
	return "single"
}

// ModeFor returns the mode for a quote with n items.
func ModeFor(n int) Mode {
	if n > 1 {
		return ModeMulti
	}
	return ModeSingle
}

// DirectiveKind is the type of a conditional block.
type DirectiveKind int

const (
	IfSingle DirectiveKind = iota
	IfMulti
)

const (
	ifSingleOpen = "{{if_single_item:"
	ifMultiOpen  = "{{if_multiple_items:"
)

// Directive is one conditional block found in a paragraph. Start and End are
// byte offsets of the whole token.
type Directive struct {
	Kind    DirectiveKind
	Content string
	Start   int
	End     int
}

// DirectiveError reports a directive the grammar does not allow.
type DirectiveError struct {
	Pos    int
	Reason string
}

func (e *DirectiveError) Error() string {
	return fmt.Sprintf("invalid conditional at offset %d: %s", e.Pos, e.Reason)
}

// ParseDirectives scans text for conditional blocks. Content runs to the
// "}}" that balances it, so {{name}} placeholders may appear inside.
// Nested conditionals and unterminated blocks are errors.
func ParseDirectives(text string) ([]Directive, error) {
	var out []Directive
	i := 0
	for {
		start, kind, open := nextOpen(text, i)
		if start < 0 {
			return out, nil
		}
		contentStart := start + len(open)
		depth := 0
		end := -1
		for k := contentStart; k < len(text); {
			rest := text[k:]
			switch {
			case strings.HasPrefix(rest, ifSingleOpen), strings.HasPrefix(rest, ifMultiOpen):
				return nil, &DirectiveError{Pos: k, Reason: "nested conditional"}
			case strings.HasPrefix(rest, "{{"):
				depth++
				k += 2
			case strings.HasPrefix(rest, "}}"):
				if depth == 0 {
					end = k
					k = len(text)
					continue
				}
				depth--
				k += 2
			default:
				k++
			}
		}
		if end < 0 {
			return nil, &DirectiveError{Pos: start, Reason: "unterminated conditional"}
		}
		out = append(out, Directive{
			Kind:    kind,
			Content: text[contentStart:end],
			Start:   start,
			End:     end + 2,
		})
		i = end + 2
	}
}

func nextOpen(text string, from int) (int, DirectiveKind, string) {
	s := strings.Index(text[from:], ifSingleOpen)
	m := strings.Index(text[from:], ifMultiOpen)
	switch {
	case s < 0 && m < 0:
		return -1, 0, ""
	case m < 0 || (s >= 0 && s < m):
		return from + s, IfSingle, ifSingleOpen
	default:
		return from + m, IfMulti, ifMultiOpen
	}
}

// ResolveConditionals replaces every block with its content when it matches
// mode and with nothing otherwise. changed is false when text holds no blocks.
func ResolveConditionals(text string, mode Mode) (out string, changed bool, err error) {
	directives, err := ParseDirectives(text)
	if err != nil || len(directives) == 0 {
		return text, false, err
	}
	var b strings.Builder
	last := 0
	for _, d := range directives {
		b.WriteString(text[last:d.Start])
		if (d.Kind == IfSingle) == (mode == ModeSingle) {
			b.WriteString(d.Content)
		}
		last = d.End
	}
	b.WriteString(text[last:])
	return b.String(), true, nil
}

// Issue is a paragraph left untouched because its conditionals are invalid.
// Pass issues to ApplyVariables so substitution leaves them alone as well.
type Issue struct {
	Location document.Location `json:"location"`
	Text     string            `json:"text"`
	Reason   string            `json:"reason"`
}

// ApplyConditionals resolves conditional blocks across body, tables,
// headers and footers. It must run before substitution.
func ApplyConditionals(doc document.Document, mode Mode, log *slog.Logger) []Issue {
	var issues []Issue
	document.Walk(doc, func(loc document.Location, p document.Paragraph) {
		text := p.Text()
		if !strings.Contains(text, "{{if_") {
			return
		}
		out, changed, err := ResolveConditionals(text, mode)
		if err != nil {
			if log != nil {
				log.Warn("leaving invalid conditional untouched", "location", loc.String(), "error", err)
			}
			issues = append(issues, Issue{Location: loc, Text: text, Reason: err.Error()})
			return
		}
		if changed {
			p.SetText(out)
		}
	})
	return issues
}
