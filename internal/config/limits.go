// Package config centralizes the tuning constants of the type core:
// recursion depths, operation budgets and expansion bounds. The
// values are engineering trade-offs, not correctness contracts; what
// is a contract is that every recursive algorithm checks one of these
// bounds and fails closed instead of diverging.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Limits bounds every potentially unbounded algorithm in the core.
type Limits struct {
	// SubtypeDepth caps the recursion depth of one subtype check.
	SubtypeDepth uint32 `toml:"subtype_depth"`
	// SubtypeOps caps the total pair checks of one subtype query.
	SubtypeOps uint32 `toml:"subtype_ops"`
	// EvalDepth caps evaluator recursion through deferred operators.
	EvalDepth uint32 `toml:"eval_depth"`
	// InstantiationDepth caps generic substitution recursion.
	InstantiationDepth uint32 `toml:"instantiation_depth"`
	// TemplateExpansionBound caps the Cartesian product size when a
	// template literal is expanded to a union of string literals.
	// Larger templates stay unexpanded and are matched structurally.
	TemplateExpansionBound int `toml:"template_expansion_bound"`
}

// Strictness carries the compatibility flags the checker honors.
type Strictness struct {
	// StrictFunctionTypes checks function parameters contravariantly;
	// off, parameters are bivariant.
	StrictFunctionTypes bool `toml:"strict_function_types"`
	// StrictNullChecks keeps null/undefined out of other types.
	StrictNullChecks bool `toml:"strict_null_checks"`
	// AllowVoidReturn lets any return type satisfy a void target.
	AllowVoidReturn bool `toml:"allow_void_return"`
}

// Profile is the full tuning profile for one session.
type Profile struct {
	Limits     Limits     `toml:"limits"`
	Strictness Strictness `toml:"strictness"`
}

// DefaultLimits returns the bounds used when no profile overrides
// them.
func DefaultLimits() Limits {
	return Limits{
		SubtypeDepth:           100,
		SubtypeOps:             100_000,
		EvalDepth:              50,
		InstantiationDepth:     50,
		TemplateExpansionBound: 64,
	}
}

// DefaultStrictness returns the strict-mode defaults.
func DefaultStrictness() Strictness {
	return Strictness{
		StrictFunctionTypes: true,
		StrictNullChecks:    true,
		AllowVoidReturn:     true,
	}
}

// DefaultProfile combines the default limits and strictness.
func DefaultProfile() Profile {
	return Profile{Limits: DefaultLimits(), Strictness: DefaultStrictness()}
}

// Load reads a TOML profile, filling anything unset from the
// defaults. A missing file is not an error: the defaults apply.
func Load(path string) (Profile, error) {
	profile := DefaultProfile()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return profile, nil
		}
		return profile, fmt.Errorf("%s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &profile); err != nil {
		return DefaultProfile(), fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	profile.Limits.normalize()
	return profile, nil
}

// normalize clamps zero or negative bounds back to the defaults so a
// partial profile cannot disable a guard.
func (l *Limits) normalize() {
	def := DefaultLimits()
	if l.SubtypeDepth == 0 {
		l.SubtypeDepth = def.SubtypeDepth
	}
	if l.SubtypeOps == 0 {
		l.SubtypeOps = def.SubtypeOps
	}
	if l.EvalDepth == 0 {
		l.EvalDepth = def.EvalDepth
	}
	if l.InstantiationDepth == 0 {
		l.InstantiationDepth = def.InstantiationDepth
	}
	if l.TemplateExpansionBound <= 0 {
		l.TemplateExpansionBound = def.TemplateExpansionBound
	}
}
