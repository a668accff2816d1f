package subtype

import (
	"strconv"
	"strings"

	"typecore/internal/types"
)

// templateTarget checks a source against an unexpanded template
// literal target. String literals run the backtracking span matcher;
// a template source aligns its spans against the target's, letting a
// string or any interpolation absorb whole source spans. Plain string
// is wider than any template with interpolations, so it never fits.
func (q *query) templateTarget(s types.TypeID, st types.Type, t types.TypeID, tt types.Type, depth uint32) Verdict {
	spans := q.in.TemplateSpans(tt.Payload)

	switch st.Kind {
	case types.KindLiteral:
		lit, _ := q.in.LiteralValue(st.Payload)
		if lit.Kind != types.LitString {
			return q.fail(s, t)
		}
		if q.matchSpans(spans, q.in.Atoms().MustLookup(lit.Str), depth) {
			return VerdictTrue
		}
		return q.fail(s, t)

	case types.KindTemplate:
		src := q.templateItems(q.in.TemplateSpans(st.Payload))
		tgt := q.templateItems(spans)
		if q.matchTemplates(src, tgt, depth) {
			return VerdictTrue
		}
		return q.fail(s, t)
	}
	return q.fail(s, t)
}

// templateItem is one template span with its text atom resolved, the
// working representation of the span-alignment matcher.
type templateItem struct {
	text string
	typ  types.TypeID
}

func (it templateItem) isText() bool { return it.typ == types.NoTypeID }

func (q *query) templateItems(spans []types.TemplateSpan) []templateItem {
	items := make([]templateItem, 0, len(spans))
	for _, sp := range spans {
		if sp.IsText() {
			text := q.in.Atoms().MustLookup(sp.Text)
			if text == "" {
				continue
			}
			items = append(items, templateItem{text: text})
			continue
		}
		items = append(items, templateItem{typ: sp.Type})
	}
	return items
}

// matchTemplates reports whether every string the source template
// denotes is also denoted by the target template. Each branch either
// strips aligned text, consumes a source span into a target
// interpolation, or lets a universal interpolation absorb a whole
// source span; a false from any exhausted search stays conservative.
func (q *query) matchTemplates(src, tgt []templateItem, depth uint32) bool {
	q.ops++
	if q.ops > q.limits.SubtypeOps {
		return false
	}
	if len(tgt) == 0 {
		return len(src) == 0
	}
	head := tgt[0]

	if head.isText() {
		if len(src) == 0 || !src[0].isText() {
			return false
		}
		sl, tl := src[0].text, head.text
		if len(sl) >= len(tl) {
			if !strings.HasPrefix(sl, tl) {
				return false
			}
			return q.matchTemplates(replaceHead(src, sl[len(tl):]), tgt[1:], depth)
		}
		if !strings.HasPrefix(tl, sl) {
			return false
		}
		return q.matchTemplates(src[1:], replaceHead(tgt, tl[len(sl):]), depth)
	}

	// The interpolation may cover nothing at all.
	if q.textMatchesType("", head.typ, depth) && q.matchTemplates(src, tgt[1:], depth) {
		return true
	}
	if len(src) == 0 {
		return false
	}
	if head.typ == types.String || head.typ == types.Any {
		// A universal interpolation absorbs any source span whole and
		// stays open for the next one.
		return q.matchTemplates(src[1:], tgt, depth)
	}
	if src[0].isText() {
		sl := src[0].text
		for cut := 1; cut <= len(sl); cut++ {
			if !q.textMatchesType(sl[:cut], head.typ, depth) {
				continue
			}
			if q.matchTemplates(replaceHead(src, sl[cut:]), tgt[1:], depth) {
				return true
			}
		}
		return false
	}
	return q.probe(src[0].typ, head.typ, depth+1) != VerdictFalse &&
		q.matchTemplates(src[1:], tgt[1:], depth)
}

// replaceHead swaps the leading text item for its unmatched remainder,
// dropping it when nothing is left.
func replaceHead(items []templateItem, rest string) []templateItem {
	if rest == "" {
		return items[1:]
	}
	out := make([]templateItem, len(items))
	copy(out, items)
	out[0] = templateItem{text: rest}
	return out
}

// matchSpans reports whether text is one of the strings the template
// denotes. Interpolations try every split point and backtrack.
func (q *query) matchSpans(spans []types.TemplateSpan, text string, depth uint32) bool {
	if len(spans) == 0 {
		return text == ""
	}
	head := spans[0]
	if head.IsText() {
		lit := q.in.Atoms().MustLookup(head.Text)
		if !strings.HasPrefix(text, lit) {
			return false
		}
		return q.matchSpans(spans[1:], text[len(lit):], depth)
	}
	for cut := 0; cut <= len(text); cut++ {
		if q.textMatchesType(text[:cut], head.Type, depth) && q.matchSpans(spans[1:], text[cut:], depth) {
			return true
		}
	}
	return false
}

// textMatchesType reports whether one concrete string inhabits an
// interpolation's type.
func (q *query) textMatchesType(text string, id types.TypeID, depth uint32) bool {
	q.ops++
	if q.ops > q.limits.SubtypeOps {
		return false
	}
	switch id {
	case types.String, types.Any:
		return true
	case types.Number:
		_, err := strconv.ParseFloat(text, 64)
		return err == nil && text != ""
	case types.Bigint:
		_, err := strconv.ParseInt(text, 10, 64)
		return err == nil
	case types.Boolean:
		return text == "true" || text == "false"
	case types.Null:
		return text == "null"
	case types.Undefined:
		return text == "undefined"
	}
	t, ok := q.in.Lookup(id)
	if !ok {
		return false
	}
	switch t.Kind {
	case types.KindLiteral:
		lit, _ := q.in.LiteralValue(t.Payload)
		want, ok := q.in.TextOf(lit)
		return ok && want == text
	case types.KindUnion:
		for _, m := range q.in.List(t.Payload) {
			if q.textMatchesType(text, m, depth) {
				return true
			}
		}
		return false
	case types.KindTemplate:
		return q.matchSpans(q.in.TemplateSpans(t.Payload), text, depth)
	default:
		return false
	}
}
