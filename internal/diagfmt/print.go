// Package diagfmt renders type handles and diagnostics for humans.
// The core itself never formats messages; everything here is a view
// over interned data.
package diagfmt

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"typecore/internal/source"
	"typecore/internal/symbols"
	"typecore/internal/types"
)

// printDepth caps printer recursion so cyclic types render as "...".
const printDepth = 6

// Printer renders type handles to source-like notation. Decls is
// optional; without it nominal types fall back to numeric names.
type Printer struct {
	In    *types.Interner
	Decls *symbols.Decls
}

// TypeString renders one handle.
func (p *Printer) TypeString(id types.TypeID) string {
	var sb strings.Builder
	p.write(&sb, id, printDepth)
	return sb.String()
}

func (p *Printer) write(sb *strings.Builder, id types.TypeID, depth int) {
	if depth <= 0 {
		sb.WriteString("...")
		return
	}
	t, ok := p.In.Lookup(id)
	if !ok {
		fmt.Fprintf(sb, "#%d", uint32(id))
		return
	}
	switch t.Kind {
	case types.KindIntrinsic:
		sb.WriteString(intrinsicName(types.IntrinsicKind(t.Op)))
	case types.KindError:
		sb.WriteString("error")
	case types.KindDelegate:
		sb.WriteString("delegate")
	case types.KindLiteral:
		p.writeLiteral(sb, t.Payload)
	case types.KindUnion:
		p.writeList(sb, p.In.List(t.Payload), " | ", depth)
	case types.KindIntersection:
		p.writeList(sb, p.In.List(t.Payload), " & ", depth)
	case types.KindObject, types.KindObjectWithIndex:
		p.writeShape(sb, p.In.Shape(t.Payload), depth)
	case types.KindArray:
		p.writeElem(sb, t.Elem, depth)
		sb.WriteString("[]")
	case types.KindReadonly:
		sb.WriteString("readonly ")
		p.write(sb, t.Elem, depth-1)
	case types.KindTuple:
		p.writeTuple(sb, p.In.TupleElems(t.Payload), depth)
	case types.KindFunction:
		p.writeFn(sb, p.In.Fn(t.Payload), depth)
	case types.KindCallable:
		p.writeCallable(sb, p.In.Callable(t.Payload), depth)
	case types.KindTypeParam, types.KindInfer:
		info, _ := p.In.Param(t.Payload)
		if t.Kind == types.KindInfer {
			sb.WriteString("infer ")
		}
		sb.WriteString(p.atom(info.Name))
	case types.KindLazy, types.KindEnum:
		sb.WriteString(p.declName(t.Decl))
	case types.KindApplication:
		base, args, _ := p.In.ApplicationParts(id)
		p.write(sb, base, depth-1)
		sb.WriteByte('<')
		p.writeList(sb, args, ", ", depth)
		sb.WriteByte('>')
	case types.KindKeyOf:
		sb.WriteString("keyof ")
		p.write(sb, t.Elem, depth-1)
	case types.KindIndexAccess:
		p.writeElem(sb, t.Elem, depth)
		sb.WriteByte('[')
		p.write(sb, t.Aux, depth-1)
		sb.WriteByte(']')
	case types.KindTemplate:
		p.writeTemplate(sb, p.In.TemplateSpans(t.Payload), depth)
	case types.KindStringIntrinsic:
		sb.WriteString(stringIntrinsicName(types.StringIntrinsicKind(t.Op)))
		sb.WriteByte('<')
		p.write(sb, t.Elem, depth-1)
		sb.WriteByte('>')
	case types.KindConditional:
		cond, _ := p.In.Cond(t.Payload)
		p.write(sb, cond.Check, depth-1)
		sb.WriteString(" extends ")
		p.write(sb, cond.Extends, depth-1)
		sb.WriteString(" ? ")
		p.write(sb, cond.True, depth-1)
		sb.WriteString(" : ")
		p.write(sb, cond.False, depth-1)
	case types.KindMapped:
		m, _ := p.In.MappedAt(t.Payload)
		sb.WriteString("{ [")
		sb.WriteString(p.atom(m.Param.Name))
		sb.WriteString(" in ")
		p.write(sb, m.Constraint, depth-1)
		sb.WriteString("]: ")
		p.write(sb, m.Template, depth-1)
		sb.WriteString(" }")
	default:
		fmt.Fprintf(sb, "#%d", uint32(id))
	}
}

// writeElem parenthesizes compound element types, so string|number
// arrays render as (string | number)[].
func (p *Printer) writeElem(sb *strings.Builder, id types.TypeID, depth int) {
	switch p.In.Kind(id) {
	case types.KindUnion, types.KindIntersection, types.KindFunction, types.KindConditional:
		sb.WriteByte('(')
		p.write(sb, id, depth-1)
		sb.WriteByte(')')
	default:
		p.write(sb, id, depth-1)
	}
}

func (p *Printer) writeList(sb *strings.Builder, members []types.TypeID, sep string, depth int) {
	for i, m := range members {
		if i > 0 {
			sb.WriteString(sep)
		}
		p.write(sb, m, depth-1)
	}
}

func (p *Printer) writeLiteral(sb *strings.Builder, slot uint32) {
	lit, ok := p.In.LiteralValue(slot)
	if !ok {
		sb.WriteString("literal")
		return
	}
	switch lit.Kind {
	case types.LitString:
		sb.WriteString(strconv.Quote(p.atom(lit.Str)))
	case types.LitNumber:
		sb.WriteString(strconv.FormatFloat(math.Float64frombits(lit.Num), 'g', -1, 64))
	case types.LitBoolean:
		sb.WriteString(strconv.FormatBool(lit.Bool))
	case types.LitBigint:
		sb.WriteString(p.atom(lit.Str))
		sb.WriteByte('n')
	}
}

func (p *Printer) writeShape(sb *strings.Builder, shape *types.ObjectShape, depth int) {
	if len(shape.Props) == 0 && !shape.HasIndex() {
		sb.WriteString("{}")
		return
	}
	sb.WriteString("{ ")
	first := true
	for _, prop := range shape.Props {
		if !first {
			sb.WriteString("; ")
		}
		first = false
		if prop.Readonly {
			sb.WriteString("readonly ")
		}
		sb.WriteString(p.atom(prop.Name))
		if prop.Optional {
			sb.WriteByte('?')
		}
		sb.WriteString(": ")
		p.write(sb, prop.Type, depth-1)
	}
	if shape.StringIndex.Present {
		if !first {
			sb.WriteString("; ")
		}
		first = false
		sb.WriteString("[key: string]: ")
		p.write(sb, shape.StringIndex.Value, depth-1)
	}
	if shape.NumberIndex.Present {
		if !first {
			sb.WriteString("; ")
		}
		sb.WriteString("[key: number]: ")
		p.write(sb, shape.NumberIndex.Value, depth-1)
	}
	sb.WriteString(" }")
}

func (p *Printer) writeTuple(sb *strings.Builder, elems []types.TupleElem, depth int) {
	sb.WriteByte('[')
	for i, e := range elems {
		if i > 0 {
			sb.WriteString(", ")
		}
		if e.Rest {
			sb.WriteString("...")
		}
		p.write(sb, e.Type, depth-1)
		if e.Optional {
			sb.WriteByte('?')
		}
	}
	sb.WriteByte(']')
}

func (p *Printer) writeFn(sb *strings.Builder, fn *types.FunctionShape, depth int) {
	if fn.IsConstructor {
		sb.WriteString("new ")
	}
	sb.WriteByte('(')
	for i, param := range fn.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		if param.Rest {
			sb.WriteString("...")
		}
		if param.Name != source.NoAtom {
			sb.WriteString(p.atom(param.Name))
			if param.Optional {
				sb.WriteByte('?')
			}
			sb.WriteString(": ")
		}
		p.write(sb, param.Type, depth-1)
	}
	sb.WriteString(") => ")
	p.write(sb, fn.Return, depth-1)
}

func (p *Printer) writeCallable(sb *strings.Builder, c *types.CallableShape, depth int) {
	if len(c.CallSignatures) == 1 && len(c.ConstructSignatures) == 0 && len(c.Props) == 0 {
		p.writeFn(sb, &c.CallSignatures[0], depth)
		return
	}
	sb.WriteString("{ ")
	first := true
	for i := range c.CallSignatures {
		if !first {
			sb.WriteString("; ")
		}
		first = false
		p.writeFn(sb, &c.CallSignatures[i], depth)
	}
	for i := range c.ConstructSignatures {
		if !first {
			sb.WriteString("; ")
		}
		first = false
		p.writeFn(sb, &c.ConstructSignatures[i], depth)
	}
	if len(c.Props) > 0 {
		if !first {
			sb.WriteString("; ")
		}
		fmt.Fprintf(sb, "%d more", len(c.Props))
	}
	sb.WriteString(" }")
}

func (p *Printer) writeTemplate(sb *strings.Builder, spans []types.TemplateSpan, depth int) {
	sb.WriteByte('`')
	for _, span := range spans {
		if span.IsText() {
			sb.WriteString(p.atom(span.Text))
			continue
		}
		sb.WriteString("${")
		p.write(sb, span.Type, depth-1)
		sb.WriteByte('}')
	}
	sb.WriteByte('`')
}

func (p *Printer) atom(a source.Atom) string {
	if s, ok := p.In.Atoms().Lookup(a); ok {
		return s
	}
	return fmt.Sprintf("atom#%d", uint32(a))
}

func (p *Printer) declName(decl symbols.DeclID) string {
	if p.Decls != nil {
		if d := p.Decls.Get(decl); d != nil {
			if s, ok := p.In.Atoms().Lookup(d.Name); ok {
				return s
			}
		}
	}
	return fmt.Sprintf("decl#%d", uint32(decl))
}

func intrinsicName(k types.IntrinsicKind) string {
	switch k {
	case types.IntrAny:
		return "any"
	case types.IntrUnknown:
		return "unknown"
	case types.IntrNever:
		return "never"
	case types.IntrVoid:
		return "void"
	case types.IntrNull:
		return "null"
	case types.IntrUndefined:
		return "undefined"
	case types.IntrBoolean:
		return "boolean"
	case types.IntrNumber:
		return "number"
	case types.IntrString:
		return "string"
	case types.IntrBigint:
		return "bigint"
	case types.IntrSymbol:
		return "symbol"
	case types.IntrObject:
		return "object"
	case types.IntrFunction:
		return "Function"
	default:
		return "intrinsic"
	}
}

func stringIntrinsicName(k types.StringIntrinsicKind) string {
	switch k {
	case types.StrUppercase:
		return "Uppercase"
	case types.StrLowercase:
		return "Lowercase"
	case types.StrCapitalize:
		return "Capitalize"
	case types.StrUncapitalize:
		return "Uncapitalize"
	default:
		return "StringIntrinsic"
	}
}
