package eval

import (
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"typecore/internal/types"
)

var (
	upperCaser = cases.Upper(language.Und)
	lowerCaser = cases.Lower(language.Und)
)

// evalStringIntrinsic reduces Uppercase<T>, Lowercase<T>,
// Capitalize<T> and Uncapitalize<T>. The transforms distribute over
// unions, apply directly to string literals, and act on template
// literals span-wise: the leading span takes the full transform while
// later spans only case-fold, because capitalization touches the
// first character only.
func (e *Evaluator) evalStringIntrinsic(id types.TypeID, kind types.StringIntrinsicKind, operand types.TypeID, depth uint32) types.TypeID {
	if depth > e.limits.EvalDepth {
		return types.Error
	}
	operand = e.eval(operand, depth+1)

	switch operand {
	case types.Error:
		return types.Error
	case types.Never:
		return types.Never
	case types.Any:
		return types.Any
	case types.String:
		return types.String
	}

	t, ok := e.in.Lookup(operand)
	if !ok {
		return types.Error
	}
	switch t.Kind {
	case types.KindLiteral:
		lit, _ := e.in.LiteralValue(t.Payload)
		if lit.Kind != types.LitString {
			return types.Error
		}
		text := e.in.Atoms().MustLookup(lit.Str)
		return e.in.StringLiteral(applyCase(kind, text))

	case types.KindUnion:
		members := e.in.List(t.Payload)
		out := make([]types.TypeID, len(members))
		for i, m := range members {
			out[i] = e.evalStringIntrinsic(types.NoTypeID, kind, m, depth+1)
		}
		return e.in.Union(out)

	case types.KindTemplate:
		return e.transformTemplate(kind, e.in.TemplateSpans(t.Payload), depth)

	case types.KindStringIntrinsic:
		// Outer transform wins over a deferred inner one of the same
		// axis: Uppercase<Lowercase<T>> still defers on T, so keep it.
		return e.deferIntrinsic(id, kind, operand)

	default:
		return e.deferIntrinsic(id, kind, operand)
	}
}

func (e *Evaluator) deferIntrinsic(id types.TypeID, kind types.StringIntrinsicKind, operand types.TypeID) types.TypeID {
	if id != types.NoTypeID {
		if t, ok := e.in.Lookup(id); ok && t.Elem == operand {
			return id
		}
	}
	return e.in.StringIntrinsicOf(kind, operand)
}

// transformTemplate maps a case transform over template spans.
func (e *Evaluator) transformTemplate(kind types.StringIntrinsicKind, spans []types.TemplateSpan, depth uint32) types.TypeID {
	foldKind, foldAll := caseFold(kind)
	out := make([]types.TemplateSpan, len(spans))
	for i, s := range spans {
		apply := types.StringIntrinsicKind(0)
		switch {
		case i == 0:
			apply = kind
		case foldAll:
			apply = foldKind
		}
		out[i] = s
		if apply == 0 {
			continue
		}
		if s.IsText() {
			text := e.in.Atoms().MustLookup(s.Text)
			out[i].Text = e.in.Atoms().Intern(applyCase(apply, text))
			continue
		}
		out[i].Type = e.evalStringIntrinsic(types.NoTypeID, apply, s.Type, depth+1)
	}
	return e.in.TemplateLiteral(out)
}

// caseFold returns the whole-string transform that continues past the
// first span, and whether one exists. Capitalize/Uncapitalize only
// affect the first character, so later spans stay untouched.
func caseFold(kind types.StringIntrinsicKind) (types.StringIntrinsicKind, bool) {
	switch kind {
	case types.StrUppercase, types.StrLowercase:
		return kind, true
	default:
		return 0, false
	}
}

// applyCase performs the transform on literal text.
func applyCase(kind types.StringIntrinsicKind, s string) string {
	switch kind {
	case types.StrUppercase:
		return upperCaser.String(s)
	case types.StrLowercase:
		return lowerCaser.String(s)
	case types.StrCapitalize:
		return transformFirst(s, upperCaser)
	case types.StrUncapitalize:
		return transformFirst(s, lowerCaser)
	}
	return s
}

func transformFirst(s string, caser cases.Caser) string {
	if s == "" {
		return s
	}
	_, size := utf8.DecodeRuneInString(s)
	return caser.String(s[:size]) + s[size:]
}
