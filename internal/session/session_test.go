package session

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"typecore/internal/config"
	"typecore/internal/diag"
	"typecore/internal/symbols"
	"typecore/internal/types"
)

func TestNewWiresExtends(t *testing.T) {
	s := New(config.DefaultProfile(), nil, 0)

	// string extends string ? true : false must reduce through the
	// wired checker instead of staying deferred.
	got := s.Eval.Evaluate(s.Types.ConditionalType(types.Conditional{
		Check:   types.String,
		Extends: types.String,
		True:    types.True,
		False:   types.False,
	}))
	if got != types.True {
		t.Fatalf("conditional did not reduce to true, got %d", got)
	}
}

func TestPreludeRunsPerSession(t *testing.T) {
	prelude := func(s *Session) {
		box := s.Decls.New(symbols.DeclTypeAlias, s.Atoms.Intern("Box"))
		s.Defs.Bind(box, s.Types.Object([]types.Property{
			{Name: s.Atoms.Intern("value"), Type: types.String},
		}))
	}

	a := New(config.DefaultProfile(), prelude, 0)
	b := New(config.DefaultProfile(), prelude, 0)
	if a.Defs.Len() != 1 || b.Defs.Len() != 1 {
		t.Fatalf("prelude must populate every session")
	}

	// Each session resolves against its private store.
	got, ok := a.Defs.Resolve(symbols.DeclID(1))
	if !ok || a.Types.Kind(got) != types.KindObject {
		t.Fatalf("prelude declaration did not resolve to an object")
	}
}

func TestReportAssignable(t *testing.T) {
	s := New(config.DefaultProfile(), nil, 4)

	if !s.ReportAssignable(types.String, types.String) {
		t.Fatalf("identity must hold")
	}
	if s.Bag.Len() != 0 {
		t.Fatalf("passing checks must not record diagnostics")
	}

	missing := s.Types.Object([]types.Property{
		{Name: s.Atoms.Intern("name"), Type: types.String},
	})
	if s.ReportAssignable(s.Types.Object(nil), missing) {
		t.Fatalf("missing property must fail")
	}
	if !s.Bag.HasErrors() {
		t.Fatalf("failure must be recorded as an error")
	}
	if got := s.Bag.Items()[0].Code; got != diag.PropertyMissing {
		t.Fatalf("code = %v, want %v", got, diag.PropertyMissing)
	}
}

func TestCheckAllRunsEveryUnit(t *testing.T) {
	var ran atomic.Int32
	units := make([]Unit, 8)
	for i := range units {
		units[i] = Unit{
			Name: fmt.Sprintf("unit-%d", i),
			Run: func(_ context.Context, s *Session) error {
				ran.Add(1)
				s.ReportAssignable(types.Number, types.String)
				return nil
			},
		}
	}

	results, err := CheckAll(context.Background(), config.DefaultProfile(), nil, units, Options{Jobs: 3, MaxDiagnostics: 4})
	if err != nil {
		t.Fatalf("CheckAll: %v", err)
	}
	if ran.Load() != 8 {
		t.Fatalf("ran %d units, want 8", ran.Load())
	}
	for i, res := range results {
		if res.Name != units[i].Name {
			t.Fatalf("result %d landed under name %q", i, res.Name)
		}
		if !res.Bag.HasErrors() {
			t.Fatalf("unit %q lost its diagnostics", res.Name)
		}
	}
}

func TestCheckAllReusesDiskCache(t *testing.T) {
	cache := OpenDiskCacheAt(t.TempDir())
	var ran atomic.Int32
	units := []Unit{{
		Name:  "mod",
		Input: []byte("declare const x: number; const y: string = x;"),
		Run: func(_ context.Context, s *Session) error {
			ran.Add(1)
			s.ReportAssignable(types.Number, types.String)
			return nil
		},
	}}
	opts := Options{Jobs: 1, MaxDiagnostics: 4, Cache: cache}

	first, err := CheckAll(context.Background(), config.DefaultProfile(), nil, units, opts)
	if err != nil {
		t.Fatalf("first CheckAll: %v", err)
	}
	if ran.Load() != 1 {
		t.Fatalf("cold run must execute the unit")
	}

	second, err := CheckAll(context.Background(), config.DefaultProfile(), nil, units, opts)
	if err != nil {
		t.Fatalf("second CheckAll: %v", err)
	}
	if ran.Load() != 1 {
		t.Fatalf("warm run must restore from the cache, ran %d times", ran.Load())
	}
	if second[0].Name != "mod" || !second[0].Bag.HasErrors() {
		t.Fatalf("restored result lost its diagnostics")
	}
	if first[0].Bag.Len() != second[0].Bag.Len() {
		t.Fatalf("restored bag has %d diagnostics, want %d", second[0].Bag.Len(), first[0].Bag.Len())
	}

	// A changed input is a different key and must re-check.
	units[0].Input = []byte("declare const x: number; const y: string = `${x}`;")
	if _, err := CheckAll(context.Background(), config.DefaultProfile(), nil, units, opts); err != nil {
		t.Fatalf("third CheckAll: %v", err)
	}
	if ran.Load() != 2 {
		t.Fatalf("changed input must miss the cache, ran %d times", ran.Load())
	}
}

func TestCheckAllPropagatesUnitError(t *testing.T) {
	boom := errors.New("boom")
	units := []Unit{
		{Name: "ok", Run: func(context.Context, *Session) error { return nil }},
		{Name: "bad", Run: func(context.Context, *Session) error { return boom }},
	}
	_, err := CheckAll(context.Background(), config.DefaultProfile(), nil, units, Options{Jobs: 1})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
}

func TestCheckAllEmpty(t *testing.T) {
	results, err := CheckAll(context.Background(), config.DefaultProfile(), nil, nil, Options{})
	if err != nil || results != nil {
		t.Fatalf("empty batch: results=%v err=%v", results, err)
	}
}
