package diagfmt

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"typecore/internal/diag"
	"typecore/internal/source"
	"typecore/internal/types"
)

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color       bool
	ShowReasons bool
}

var (
	errorColor = color.New(color.FgRed, color.Bold)
	warnColor  = color.New(color.FgYellow, color.Bold)
	infoColor  = color.New(color.FgCyan)
	codeColor  = color.New(color.Bold)
)

// Pretty formats diagnostics in human-readable form, one per line:
// <SEV> <CODE>: <message>, followed by indented reason lines when
// ShowReasons is set.
func Pretty(w io.Writer, bag *diag.Bag, p *Printer, opts PrettyOpts) {
	restore := color.NoColor
	color.NoColor = !opts.Color
	defer func() { color.NoColor = restore }()

	for _, d := range bag.Items() {
		fmt.Fprintf(w, "%s %s: %s\n",
			severityLabel(d.Severity),
			codeColor.Sprint(d.Code.String()),
			summaryMessage(d, p))
		if !opts.ShowReasons {
			continue
		}
		for _, r := range d.Reasons {
			fmt.Fprintf(w, "  %s\n", ReasonMessage(r, p))
		}
	}
}

func severityLabel(s diag.Severity) string {
	switch s {
	case diag.SevError:
		return errorColor.Sprint("error")
	case diag.SevWarning:
		return warnColor.Sprint("warning")
	default:
		return infoColor.Sprint("info")
	}
}

// summaryMessage picks the leading reason as the headline, falling
// back to the bare code when no reasons were collected.
func summaryMessage(d diag.Diagnostic, p *Printer) string {
	if len(d.Reasons) > 0 {
		return ReasonMessage(d.Reasons[0], p)
	}
	return codeText(d.Code)
}

// ReasonMessage renders one structured failure reason.
func ReasonMessage(r diag.Reason, p *Printer) string {
	src := p.TypeString(types.TypeID(r.Source))
	dst := p.TypeString(types.TypeID(r.Target))
	switch r.Kind {
	case diag.ReasonTypeMismatch:
		return fmt.Sprintf("type %s is not assignable to type %s", src, dst)
	case diag.ReasonPropertyMissing:
		return fmt.Sprintf("property %q is missing in type %s but required in type %s", p.atomText(r.Name), src, dst)
	case diag.ReasonPropertyMismatch:
		return fmt.Sprintf("types of property %q are incompatible between %s and %s", p.atomText(r.Name), src, dst)
	case diag.ReasonParamCount:
		return fmt.Sprintf("parameter counts of %s and %s do not match", src, dst)
	case diag.ReasonParamType:
		return fmt.Sprintf("a parameter of %s is incompatible with %s", src, dst)
	case diag.ReasonReturnType:
		return fmt.Sprintf("return type of %s is not assignable to return type of %s", src, dst)
	case diag.ReasonNoOverload:
		return fmt.Sprintf("no call signature of %s accepts %s", dst, src)
	case diag.ReasonRecursionLimit:
		return fmt.Sprintf("comparing %s and %s is excessively deep and possibly infinite", src, dst)
	default:
		return fmt.Sprintf("%s is incompatible with %s", src, dst)
	}
}

func (p *Printer) atomText(name uint32) string {
	if s, ok := p.In.Atoms().Lookup(source.Atom(name)); ok {
		return s
	}
	return fmt.Sprintf("atom#%d", name)
}

func codeText(c diag.Code) string {
	switch c {
	case diag.TypeMismatch:
		return "type is not assignable"
	case diag.PropertyMissing:
		return "property is missing"
	case diag.ArgumentTypeMismatch:
		return "argument type mismatch"
	case diag.TooFewArguments:
		return "too few arguments"
	case diag.TooManyArguments:
		return "too many arguments"
	case diag.NoOverloadMatch:
		return "no overload matches this call"
	case diag.InstantiationTooDeep:
		return "type instantiation is excessively deep"
	case diag.ObjectIsUnknown:
		return "object is of type unknown"
	default:
		return "diagnostic"
	}
}
