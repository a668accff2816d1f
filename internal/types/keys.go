package types

// Side-table keys. Variable-length payloads are interned through a
// compact byte encoding so that one canonical storage exists per
// content. Fixed-size payloads (Literal, Conditional, Mapped,
// TypeParamInfo) are comparable and index their tables directly.

func appendU32(b []byte, v uint32) []byte {
	return append(b, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}

func appendBool(b []byte, v bool) []byte {
	if v {
		return append(b, 1)
	}
	return append(b, 0)
}

func listKey(members []TypeID) string {
	b := make([]byte, 0, 4*len(members))
	for _, m := range members {
		b = appendU32(b, uint32(m))
	}
	return string(b)
}

func tupleKey(elems []TupleElem) string {
	b := make([]byte, 0, 11*len(elems))
	for _, e := range elems {
		b = appendU32(b, uint32(e.Type))
		b = appendU32(b, uint32(e.Name))
		b = appendBool(b, e.Optional)
		b = appendBool(b, e.Rest)
	}
	return string(b)
}

func appendProperty(b []byte, p Property) []byte {
	b = appendU32(b, uint32(p.Name))
	b = appendU32(b, uint32(p.Type))
	b = appendU32(b, uint32(p.WriteType))
	b = appendBool(b, p.Optional)
	b = appendBool(b, p.Readonly)
	b = appendBool(b, p.IsMethod)
	b = append(b, byte(p.Visibility))
	b = appendU32(b, uint32(p.Parent))
	return b
}

func appendIndexSignature(b []byte, sig IndexSignature) []byte {
	b = appendU32(b, uint32(sig.Value))
	b = appendBool(b, sig.Readonly)
	b = appendBool(b, sig.Present)
	return b
}

func shapeKey(s *ObjectShape) string {
	b := make([]byte, 0, 20*len(s.Props)+16)
	for _, p := range s.Props {
		b = appendProperty(b, p)
	}
	b = appendIndexSignature(b, s.StringIndex)
	b = appendIndexSignature(b, s.NumberIndex)
	b = appendU32(b, uint32(s.Decl))
	return string(b)
}

func appendTypeParam(b []byte, tp TypeParamInfo) []byte {
	b = appendU32(b, uint32(tp.Name))
	b = appendU32(b, uint32(tp.Constraint))
	b = appendU32(b, uint32(tp.Default))
	b = appendBool(b, tp.IsConst)
	return b
}

func appendSignature(b []byte, fn *FunctionShape) []byte {
	b = appendU32(b, uint32(len(fn.TypeParams)))
	for _, tp := range fn.TypeParams {
		b = appendTypeParam(b, tp)
	}
	b = appendU32(b, uint32(len(fn.Params)))
	for _, p := range fn.Params {
		b = appendU32(b, uint32(p.Name))
		b = appendU32(b, uint32(p.Type))
		b = appendBool(b, p.Optional)
		b = appendBool(b, p.Rest)
	}
	b = appendU32(b, uint32(fn.This))
	b = appendU32(b, uint32(fn.Return))
	b = appendBool(b, fn.IsConstructor)
	b = appendBool(b, fn.IsMethod)
	return b
}

func fnKey(fn *FunctionShape) string {
	b := make([]byte, 0, 16+13*len(fn.TypeParams)+10*len(fn.Params))
	b = appendSignature(b, fn)
	return string(b)
}

func callableKey(c *CallableShape) string {
	b := make([]byte, 0, 64)
	b = appendU32(b, uint32(len(c.CallSignatures)))
	for i := range c.CallSignatures {
		b = appendSignature(b, &c.CallSignatures[i])
	}
	b = appendU32(b, uint32(len(c.ConstructSignatures)))
	for i := range c.ConstructSignatures {
		b = appendSignature(b, &c.ConstructSignatures[i])
	}
	b = appendU32(b, uint32(len(c.Props)))
	for _, p := range c.Props {
		b = appendProperty(b, p)
	}
	b = appendIndexSignature(b, c.StringIndex)
	b = appendIndexSignature(b, c.NumberIndex)
	b = appendU32(b, uint32(c.Decl))
	return string(b)
}

func templateKey(spans []TemplateSpan) string {
	b := make([]byte, 0, 8*len(spans))
	for _, s := range spans {
		b = appendU32(b, uint32(s.Text))
		b = appendU32(b, uint32(s.Type))
	}
	return string(b)
}
