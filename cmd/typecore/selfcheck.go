package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"typecore/internal/config"
	"typecore/internal/narrow"
	"typecore/internal/session"
	"typecore/internal/symbols"
	"typecore/internal/types"
)

var (
	selfcheckJobs     int
	selfcheckCacheDir string
)

func init() {
	selfcheckCmd.Flags().IntVar(&selfcheckJobs, "jobs", 0, "parallel units (0 = GOMAXPROCS)")
	selfcheckCmd.Flags().StringVar(&selfcheckCacheDir, "cache-dir", "", "reuse unit outcomes from this directory")
}

// selfcheckCmd drives the whole pipeline once: sessions, evaluation,
// subtype queries and narrowing, in parallel units. A failure means a
// broken build, not bad user input.
var selfcheckCmd = &cobra.Command{
	Use:   "selfcheck",
	Short: "Run the built-in sanity suite",
	RunE: func(cmd *cobra.Command, args []string) error {
		tracer, cleanup, err := setupTracing(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		path, err := cmd.Root().PersistentFlags().GetString("config")
		if err != nil {
			return fmt.Errorf("failed to get config flag: %w", err)
		}
		profile := config.DefaultProfile()
		if path != "" {
			profile, err = config.Load(path)
			if err != nil {
				return err
			}
		}

		maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
		if err != nil {
			return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
		}

		var cache *session.DiskCache
		if selfcheckCacheDir != "" {
			cache = session.OpenDiskCacheAt(selfcheckCacheDir)
		}

		units := selfcheckUnits()
		results, err := session.CheckAll(cmd.Context(), profile, nil, units, session.Options{
			Jobs:           selfcheckJobs,
			MaxDiagnostics: maxDiagnostics,
			Tracer:         tracer,
			Cache:          cache,
		})
		if err != nil {
			return err
		}

		for _, res := range results {
			if res.Bag.HasErrors() {
				return fmt.Errorf("selfcheck unit %q reported unexpected errors", res.Name)
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "selfcheck: %d units ok\n", len(results))
		return nil
	},
}

func selfcheckUnits() []session.Unit {
	units := []session.Unit{
		{Name: "lattice", Run: checkLattice},
		{Name: "evaluator", Run: checkEvaluator},
		{Name: "recursion", Run: checkRecursion},
		{Name: "narrowing", Run: checkNarrowing},
	}
	// Scenarios are fixed per binary, so the name doubles as the
	// cache key input.
	for i := range units {
		units[i].Input = []byte(units[i].Name)
	}
	return units
}

func checkLattice(_ context.Context, s *session.Session) error {
	if !s.Assignable(types.Never, types.String) {
		return fmt.Errorf("never must fit string")
	}
	if s.Assignable(types.String, types.Never) {
		return fmt.Errorf("string must not fit never")
	}
	lit := s.Types.StringLiteral("on")
	if !s.Assignable(lit, types.String) {
		return fmt.Errorf("literal widening broke")
	}
	return nil
}

func checkEvaluator(_ context.Context, s *session.Session) error {
	obj := s.Types.Object([]types.Property{
		{Name: s.Atoms.Intern("id"), Type: types.Number},
		{Name: s.Atoms.Intern("name"), Type: types.String},
	})
	keys := s.Eval.Evaluate(s.Types.KeyOf(obj))
	want := s.Types.Union2(s.Types.StringLiteral("id"), s.Types.StringLiteral("name"))
	if keys != want {
		return fmt.Errorf("keyof produced %d, want %d", keys, want)
	}
	return nil
}

func checkRecursion(_ context.Context, s *session.Session) error {
	bind := func(name string) types.TypeID {
		decl := s.Decls.New(symbols.DeclTypeAlias, s.Atoms.Intern(name))
		lazy := s.Types.Lazy(decl)
		s.Defs.Bind(decl, s.Types.Object([]types.Property{
			{Name: s.Atoms.Intern("head"), Type: types.Number},
			{Name: s.Atoms.Intern("tail"), Type: s.Types.Union2(lazy, types.Null)},
		}))
		return lazy
	}
	a, b := bind("ListA"), bind("ListB")
	if !s.Assignable(a, b) {
		return fmt.Errorf("isomorphic recursive types must be compatible")
	}
	return nil
}

func checkNarrowing(_ context.Context, s *session.Session) error {
	u := s.Types.Union2(types.String, types.Number)
	got := s.Narrow.ByTypeof(u, narrow.TagString, true)
	if got != types.String {
		return fmt.Errorf("typeof narrowing produced %d", got)
	}
	return nil
}
