package engine

import (
	"context"
	"fmt"

	"github.com/itwasneo/runer/internal/handle"
	"github.com/itwasneo/runer/internal/procdriver"
	"github.com/itwasneo/runer/internal/registry"
	"github.com/itwasneo/runer/internal/runerr"
	runemodel "github.com/itwasneo/runer/internal/rune"
	"github.com/itwasneo/runer/internal/runestate"
	"github.com/itwasneo/runer/internal/telemetry"
)

// result is the message a task runner publishes exactly once, whether its
// spawn step succeeded, failed, or never happened because its parent was
// blocked (spec §4.2 step 3). handle is never nil: a dispatch that never
// ran still publishes handle.Failed() so descendants waiting on this task
// id observe a terminal status instead of hanging on an id that would
// otherwise never appear in the registry.
type result struct {
	taskID int
	h      *handle.Handle
	err    error // non-nil whenever h reports failure for a reason worth surfacing
}

// runTask implements the per-runner state machine Waiting -> Dispatching ->
// Publishing -> Done (spec §4.2). It never panics on a missing blueprint or
// bad variant — those are reported as errors, not defensive panics, per
// Design Note 4 in spec §9.
func runTask(ctx context.Context, publish chan<- result, task runemodel.Task, state *runestate.State, driver procdriver.Driver) {
	ctx, span := telemetry.StartTask(ctx, task.ID, task.Job.String())
	defer span.End()

	var h *handle.Handle
	var err error

	if task.Depends != nil {
		err = waitForParent(ctx, state.Handles, *task.Depends)
	}
	if err == nil {
		h, err = dispatch(ctx, task, state, driver)
	}
	if err != nil {
		h = handle.Failed()
	}

	// publish is buffered to one slot per task, so this send never blocks.
	publish <- result{taskID: task.ID, h: h, err: err}
}

// waitForParent blocks Dispatching until task.depends reaches terminated-
// with-success. Blocking is expressed as a one-shot broadcast on the
// registry (internal/registry.WaitForHandle) rather than the original's 5ms
// polling loop (spec §9, Design Note 1).
func waitForParent(ctx context.Context, reg *registry.Registry, parentID int) error {
	parent, err := reg.WaitForHandle(ctx, parentID)
	if err != nil {
		return err
	}
	success, err := parent.Wait(ctx)
	if err != nil {
		return err
	}
	if !success {
		return fmt.Errorf("%w: parent task %d did not finish successfully", runerr.ErrInvalid, parentID)
	}
	return nil
}

// dispatch matches (task.type, task.job) against the table in spec §4.2
// step 2 and invokes the corresponding subprocess-driver operation.
func dispatch(ctx context.Context, task runemodel.Task, state *runestate.State, driver procdriver.Driver) (*handle.Handle, error) {
	switch {
	case task.Type == runemodel.TaskBlueprint && task.Job == runemodel.JobImage:
		bp, ok := state.Blueprints[task.Name]
		if !ok {
			return nil, runerr.BlueprintNotFound(task.Name)
		}
		if bp.Image == nil {
			return nil, fmt.Errorf("%w: task %d job image has no image variant", runerr.ErrVariantMissing, task.ID)
		}
		return driver.BuildImage(ctx, bp.Image)

	case task.Type == runemodel.TaskBlueprint && task.Job == runemodel.JobContainer:
		bp, ok := state.Blueprints[task.Name]
		if !ok {
			return nil, runerr.BlueprintNotFound(task.Name)
		}
		if bp.Container == nil {
			return nil, fmt.Errorf("%w: task %d job container has no container variant", runerr.ErrVariantMissing, task.ID)
		}
		return driver.RunContainer(ctx, bp.Container)

	case task.Type == runemodel.TaskBlueprint && task.Job == runemodel.JobShell:
		bp, ok := state.Blueprints[task.Name]
		if !ok {
			return nil, runerr.BlueprintNotFound(task.Name)
		}
		if bp.Shell == nil {
			return nil, fmt.Errorf("%w: task %d job shell has no shell variant", runerr.ErrVariantMissing, task.ID)
		}
		return driver.RunShell(ctx, bp.Shell)

	case task.Type == runemodel.TaskBlueprint && task.Job == runemodel.JobSet:
		return nil, fmt.Errorf("%w: task %d blueprint+set", runerr.ErrUnsupported, task.ID)

	case task.Type == runemodel.TaskEnv && task.Job == runemodel.JobSet:
		env, ok := state.Env[task.Name]
		if !ok {
			return nil, runerr.EnvBundleNotFound(task.Name)
		}
		return driver.ApplyEnv(ctx, env)

	default:
		return nil, fmt.Errorf("%w: task %d has type/job combination %s/%s", runerr.ErrInvalid, task.ID, task.Type, task.Job)
	}
}
