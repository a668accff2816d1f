package eval

import "typecore/internal/types"

// evalTemplate reduces a template literal type. Interpolations are
// evaluated first; when every interpolation ranges over a finite set
// of literals and the Cartesian product stays within the configured
// bound, the template expands into a union of string literals.
// Otherwise the normalized template is kept as-is.
func (e *Evaluator) evalTemplate(id types.TypeID, t types.Type, depth uint32) types.TypeID {
	spans := e.in.TemplateSpans(t.Payload)
	out := make([]types.TemplateSpan, len(spans))
	changed := false
	for i, s := range spans {
		out[i] = s
		if s.IsText() {
			continue
		}
		ev := e.eval(s.Type, depth+1)
		if ev != s.Type {
			out[i].Type = ev
			changed = true
		}
	}

	norm := id
	if changed || id == types.NoTypeID {
		norm = e.in.TemplateLiteral(out)
		nt, ok := e.in.Lookup(norm)
		if !ok || nt.Kind != types.KindTemplate {
			return norm
		}
		out = e.in.TemplateSpans(nt.Payload)
	}

	expanded, ok := e.expandTemplate(out)
	if !ok {
		return norm
	}
	return e.in.Union(expanded)
}

// expandTemplate enumerates all concrete strings a template denotes.
// It fails when an interpolation is not a finite literal set or the
// product of alternatives exceeds the expansion bound.
func (e *Evaluator) expandTemplate(spans []types.TemplateSpan) ([]types.TypeID, bool) {
	bound := e.limits.TemplateExpansionBound
	prefixes := []string{""}
	for _, s := range spans {
		if s.IsText() {
			text := e.in.Atoms().MustLookup(s.Text)
			for i := range prefixes {
				prefixes[i] += text
			}
			continue
		}
		alts, ok := e.enumerateLiterals(s.Type)
		if !ok {
			return nil, false
		}
		if len(prefixes)*len(alts) > bound {
			return nil, false
		}
		next := make([]string, 0, len(prefixes)*len(alts))
		for _, p := range prefixes {
			for _, a := range alts {
				next = append(next, p+a)
			}
		}
		prefixes = next
	}
	out := make([]types.TypeID, len(prefixes))
	for i, p := range prefixes {
		out[i] = e.in.StringLiteral(p)
	}
	return out, true
}

// enumerateLiterals lists the string renderings of a finite type.
func (e *Evaluator) enumerateLiterals(id types.TypeID) ([]string, bool) {
	if id == types.Boolean {
		return []string{"false", "true"}, true
	}
	t, ok := e.in.Lookup(id)
	if !ok {
		return nil, false
	}
	switch t.Kind {
	case types.KindLiteral:
		lit, _ := e.in.LiteralValue(t.Payload)
		text, ok := e.in.TextOf(lit)
		if !ok {
			return nil, false
		}
		return []string{text}, true
	case types.KindUnion:
		members := e.in.List(t.Payload)
		out := make([]string, 0, len(members))
		for _, m := range members {
			alts, ok := e.enumerateLiterals(m)
			if !ok {
				return nil, false
			}
			out = append(out, alts...)
		}
		return out, true
	default:
		return nil, false
	}
}
