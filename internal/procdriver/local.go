package procdriver

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/itwasneo/runer/internal/runerr"
	runemodel "github.com/itwasneo/runer/internal/rune"
)

// runLocalStep runs a single CommandStep to completion, synchronously. Only
// ExecLocal is implemented; an ExecContainer step is reserved and always
// fails with ErrUnsupported, per spec §3's execution-environment-tag note.
func runLocalStep(ctx context.Context, step runemodel.CommandStep) error {
	if step.Env.Kind != runemodel.ExecLocal {
		return fmt.Errorf("%w: command step targeting %s", runerr.ErrUnsupported, step.Env.Kind)
	}
	cmd := exec.CommandContext(ctx, "sh", "-c", step.Command)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%w: step %q: %v: %s", runerr.ErrIO, step.Command, err, out)
	}
	return nil
}

// runLocalSteps runs each step in order, stopping at the first failure.
func runLocalSteps(ctx context.Context, steps []runemodel.CommandStep) error {
	for _, step := range steps {
		if err := runLocalStep(ctx, step); err != nil {
			return err
		}
	}
	return nil
}
