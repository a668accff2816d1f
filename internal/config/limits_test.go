package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	p, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("missing profile must not error: %v", err)
	}
	if p.Limits != DefaultLimits() {
		t.Fatalf("missing profile must fall back to default limits")
	}
}

func TestLoadOverridesAndClamps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "typecore.toml")
	body := `
[limits]
subtype_depth = 10
template_expansion_bound = 0

[strictness]
strict_function_types = false
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write profile: %v", err)
	}
	p, err := Load(path)
	if err != nil {
		t.Fatalf("load profile: %v", err)
	}
	if p.Limits.SubtypeDepth != 10 {
		t.Fatalf("subtype depth = %d, want 10", p.Limits.SubtypeDepth)
	}
	if p.Limits.TemplateExpansionBound != DefaultLimits().TemplateExpansionBound {
		t.Fatalf("zero expansion bound must clamp to the default")
	}
	if p.Limits.SubtypeOps != DefaultLimits().SubtypeOps {
		t.Fatalf("unset fields must keep defaults")
	}
	if p.Strictness.StrictFunctionTypes {
		t.Fatalf("strictness override must apply")
	}
}

func TestLoadBadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "typecore.toml")
	if err := os.WriteFile(path, []byte("limits = nonsense"), 0o644); err != nil {
		t.Fatalf("write profile: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("malformed profile must error")
	}
}
