// Package preflight implements the package-prerequisite check that spec §4.3
// step 2 runs before a flow spawns any task: for each declared package
// dependency, probe "command -v <name>" and fail fast if the host is
// missing a tool the flow will need.
//
// The original spawns one probe per name and funnels results through an
// unbounded channel; this package keeps that "run every probe concurrently,
// collect every result" shape but expresses the fan-out/fan-in with
// golang.org/x/sync/errgroup instead of a hand-rolled channel, grounded on
// the teacher's own use of errgroup for concurrent container-prerequisite
// checks in prerequisites.go.
package preflight

import (
	"context"
	"errors"
	"fmt"
	"os/exec"

	"golang.org/x/sync/errgroup"

	"github.com/itwasneo/runer/internal/runerr"
)

// Check probes every name in names concurrently and returns a joined error
// naming every missing dependency, or nil if all are present. Unlike a bare
// errgroup.Wait(), every probe runs to completion before Check returns: a
// missing tool must not short-circuit discovery of the others, since the
// whole point is to surface every missing host tool in one report.
func Check(ctx context.Context, names []string) error {
	g, ctx := errgroup.WithContext(context.WithoutCancel(ctx))
	missing := make([]error, len(names))

	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			if !probe(ctx, name) {
				missing[i] = runerr.MissingDependency(name)
			}
			return nil
		})
	}
	_ = g.Wait() // probes never return an error themselves; failures live in `missing`

	var errs []error
	for _, err := range missing {
		if err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("package preflight: %w", errors.Join(errs...))
}

// probe shells out to "command -v <name>" since "command" is a shell
// builtin, not an executable on PATH.
func probe(ctx context.Context, name string) bool {
	cmd := exec.CommandContext(ctx, "sh", "-c", fmt.Sprintf("command -v %q", name))
	return cmd.Run() == nil
}
