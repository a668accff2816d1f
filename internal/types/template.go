package types

import (
	"math"
	"strconv"
	"strings"
)

// TemplateLiteral interns a template literal type from its spans.
// Normalization folds the span list into canonical form:
//
//   - adjacent text spans merge, nested templates splice in place;
//   - single-literal interpolations (strings, numbers, booleans,
//     bigints) and null/undefined stringify into surrounding text;
//   - an interpolation of the empty-string literal disappears;
//   - any/unknown interpolations widen the whole template to string;
//   - a never interpolation makes the whole template never.
//
// An all-text result interns as a plain string literal.
func (in *Interner) TemplateLiteral(spans []TemplateSpan) TypeID {
	flat, verdict := in.flattenTemplate(nil, spans)
	switch verdict {
	case templateNever:
		return Never
	case templateString:
		return String
	}

	var out []TemplateSpan
	var text strings.Builder
	flush := func() {
		if text.Len() > 0 {
			out = append(out, TemplateSpan{Text: in.atoms.Intern(text.String())})
			text.Reset()
		}
	}
	for _, s := range flat {
		if s.IsText() {
			text.WriteString(in.atoms.MustLookup(s.Text))
			continue
		}
		flush()
		out = append(out, s)
	}
	flush()

	switch len(out) {
	case 0:
		return in.StringLiteral("")
	case 1:
		if out[0].IsText() {
			return in.StringLiteralAtom(out[0].Text)
		}
	}
	return in.Intern(Type{Kind: KindTemplate, Payload: in.internTemplate(out)})
}

type templateVerdict uint8

const (
	templateKeep templateVerdict = iota
	templateString
	templateNever
)

func (in *Interner) flattenTemplate(dst []TemplateSpan, spans []TemplateSpan) ([]TemplateSpan, templateVerdict) {
	for _, s := range spans {
		if s.IsText() {
			dst = append(dst, s)
			continue
		}
		switch s.Type {
		case Never:
			return dst, templateNever
		case Any, Unknown:
			return dst, templateString
		case Null:
			dst = append(dst, TemplateSpan{Text: in.atoms.Intern("null")})
			continue
		case Undefined:
			dst = append(dst, TemplateSpan{Text: in.atoms.Intern("undefined")})
			continue
		}
		t, ok := in.Lookup(s.Type)
		if !ok {
			dst = append(dst, TemplateSpan{Type: Error})
			continue
		}
		switch t.Kind {
		case KindTemplate:
			var verdict templateVerdict
			dst, verdict = in.flattenTemplate(dst, in.TemplateSpans(t.Payload))
			if verdict != templateKeep {
				return dst, verdict
			}
		case KindLiteral:
			lit, _ := in.LiteralValue(t.Payload)
			text, ok := in.TextOf(lit)
			if !ok {
				dst = append(dst, s)
				continue
			}
			if text != "" {
				dst = append(dst, TemplateSpan{Text: in.atoms.Intern(text)})
			}
		default:
			dst = append(dst, s)
		}
	}
	return dst, templateKeep
}

// TextOf renders a literal the way template interpolation would.
func (in *Interner) TextOf(lit Literal) (string, bool) {
	switch lit.Kind {
	case LitString:
		return in.atoms.MustLookup(lit.Str), true
	case LitNumber:
		return formatNumber(math.Float64frombits(lit.Num)), true
	case LitBoolean:
		if lit.Bool {
			return "true", true
		}
		return "false", true
	case LitBigint:
		return in.atoms.MustLookup(lit.Str), true
	}
	return "", false
}

// formatNumber matches runtime number-to-string conversion closely
// enough for template keys: integral values print without a fraction.
func formatNumber(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e21 {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
