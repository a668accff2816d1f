package session

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"typecore/internal/config"
	"typecore/internal/diag"
	"typecore/internal/trace"
)

// Unit is one independent checking task. Run receives a session
// private to this unit and reports findings into its bag; an error
// return aborts the whole batch. Input, when set, keys the unit in
// the disk cache; a nil Input opts the unit out of caching.
type Unit struct {
	Name  string
	Input []byte
	Run   func(ctx context.Context, s *Session) error
}

// Result pairs a unit with the diagnostics its session collected.
type Result struct {
	Name string
	Bag  *diag.Bag
}

// Options tunes a CheckAll batch.
type Options struct {
	// Jobs caps concurrent units; <= 0 means GOMAXPROCS.
	Jobs int
	// MaxDiagnostics caps each unit's bag.
	MaxDiagnostics int
	// Tracer receives session and unit spans; nil disables tracing.
	Tracer trace.Tracer
	// Cache, when non-nil, lets units with an Input skip re-checking:
	// a hit restores the cached diagnostics, a checked miss is stored.
	Cache *DiskCache
}

// CheckAll checks independent units in parallel, one fresh session
// per unit. Results land at the unit's index, so no mutex guards
// them. The first unit error cancels the rest via the group context.
func CheckAll(ctx context.Context, profile config.Profile, prelude Prelude, units []Unit, opts Options) ([]Result, error) {
	tr := opts.Tracer
	if tr == nil {
		tr = trace.Nop
	}
	done := trace.Span(tr, trace.ScopeSession, "check-all")
	defer done()

	if len(units) == 0 {
		return nil, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	results := make([]Result, len(units))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(units)))

	for i, unit := range units {
		g.Go(func(i int, unit Unit) func() error {
			return func() error {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}

				endUnit := trace.Span(tr, trace.ScopeUnit, unit.Name)
				defer endUnit()

				var key Digest
				cached := opts.Cache != nil && unit.Input != nil
				if cached {
					key = HashUnit(unit.Name, unit.Input)
					var payload UnitPayload
					hit, err := opts.Cache.Get(key, &payload)
					if err != nil {
						trace.Point(tr, trace.ScopeUnit, unit.Name, err.Error())
					}
					if hit {
						trace.Point(tr, trace.ScopeUnit, unit.Name, "cache hit")
						results[i] = payload.Restore(opts.MaxDiagnostics)
						return nil
					}
				}

				s := New(profile, prelude, opts.MaxDiagnostics)
				if err := unit.Run(gctx, s); err != nil {
					trace.Point(tr, trace.ScopeUnit, unit.Name, err.Error())
					return err
				}

				results[i] = Result{Name: unit.Name, Bag: s.Bag}
				if cached {
					if err := opts.Cache.Put(key, NewUnitPayload(results[i])); err != nil {
						trace.Point(tr, trace.ScopeUnit, unit.Name, err.Error())
					}
				}
				return nil
			}
		}(i, unit))
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
