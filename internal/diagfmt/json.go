package diagfmt

import (
	"encoding/json"
	"io"

	"typecore/internal/diag"
)

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	IncludeReasons bool
	// Max truncates the output, not the bag. Zero means no limit.
	Max int
}

type jsonDiagnostic struct {
	Severity string       `json:"severity"`
	Code     string       `json:"code"`
	Message  string       `json:"message"`
	Reasons  []jsonReason `json:"reasons,omitempty"`
}

type jsonReason struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Source  uint32 `json:"source"`
	Target  uint32 `json:"target"`
}

// JSON writes the bag as one indented JSON array.
func JSON(w io.Writer, bag *diag.Bag, p *Printer, opts JSONOpts) error {
	items := bag.Items()
	if opts.Max > 0 && len(items) > opts.Max {
		items = items[:opts.Max]
	}
	out := make([]jsonDiagnostic, 0, len(items))
	for _, d := range items {
		jd := jsonDiagnostic{
			Severity: severityName(d.Severity),
			Code:     d.Code.String(),
			Message:  summaryMessage(d, p),
		}
		if opts.IncludeReasons {
			for _, r := range d.Reasons {
				jd.Reasons = append(jd.Reasons, jsonReason{
					Kind:    reasonKindName(r.Kind),
					Message: ReasonMessage(r, p),
					Source:  r.Source,
					Target:  r.Target,
				})
			}
		}
		out = append(out, jd)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func severityName(s diag.Severity) string {
	switch s {
	case diag.SevError:
		return "error"
	case diag.SevWarning:
		return "warning"
	default:
		return "info"
	}
}

func reasonKindName(k diag.ReasonKind) string {
	switch k {
	case diag.ReasonTypeMismatch:
		return "type-mismatch"
	case diag.ReasonPropertyMissing:
		return "property-missing"
	case diag.ReasonPropertyMismatch:
		return "property-mismatch"
	case diag.ReasonParamCount:
		return "param-count"
	case diag.ReasonParamType:
		return "param-type"
	case diag.ReasonReturnType:
		return "return-type"
	case diag.ReasonNoOverload:
		return "no-overload"
	case diag.ReasonRecursionLimit:
		return "recursion-limit"
	default:
		return "unknown"
	}
}
