// Package engine is the Flow Execution Engine: fan out one task runner per
// task, fan in their published handles into the shared registry, then drain
// every handle to terminal status (spec §2/§4.3).
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/itwasneo/runer/internal/preflight"
	"github.com/itwasneo/runer/internal/runerr"
	"github.com/itwasneo/runer/internal/runestate"
	"github.com/itwasneo/runer/internal/telemetry"

	"github.com/itwasneo/runer/internal/procdriver"
)

// ExecuteFlow runs state.Flows[flowIndex] to completion against driver.
// Structural checks the spec requires before fan-out (cycle detection,
// reference validation) are the caller's responsibility via
// internal/rune.ValidateFlow — this hot path stays free of them, per
// Design Note 4 in spec §9.
func ExecuteFlow(ctx context.Context, state *runestate.State, flowIndex int, driver procdriver.Driver) error {
	if flowIndex < 0 || flowIndex >= len(state.Flows) {
		return fmt.Errorf("%w: index %d", runerr.ErrNoSuchFlow, flowIndex)
	}
	flow := state.Flows[flowIndex]
	if len(flow.Tasks) == 0 {
		return fmt.Errorf("%w: flow %q", runerr.ErrEmptyFlow, flow.Name)
	}

	ctx, span := telemetry.StartFlow(ctx, flow.Name, flowIndex)
	defer span.End()

	if err := preflight.Check(ctx, flow.PkgDependencies); err != nil {
		return err
	}

	publish := make(chan result, len(flow.Tasks))
	for _, task := range flow.Tasks {
		go runTask(ctx, publish, task, state, driver)
	}

	// Fan in: exactly len(flow.Tasks) messages are guaranteed, one per
	// runner (spec §4.3 step 4's fixed-count termination argument).
	dispatchErrs := make(map[int]error, len(flow.Tasks))
	for i := 0; i < len(flow.Tasks); i++ {
		res := <-publish
		if err := state.Handles.Insert(res.taskID, res.h); err != nil {
			dispatchErrs[res.taskID] = err
			continue
		}
		if res.err != nil {
			dispatchErrs[res.taskID] = res.err
		}
	}

	// Drain: await every stored handle to terminal status. The registry
	// is never written to again past this point; Get holds the lock only
	// for the lookup, and each handle is awaited outside it (Design Note 2).
	var taskErrs []error
	for _, task := range flow.Tasks {
		h, ok := state.Handles.Get(task.ID)
		if !ok {
			continue
		}
		success, err := h.Wait(ctx)
		if err != nil {
			slog.Error("task exited", "flow", flow.Name, "task", task.ID, "error", err)
			taskErrs = append(taskErrs, runerr.WaitFailure(task.ID, err))
			continue
		}
		if !success {
			cause := dispatchErrs[task.ID]
			if cause == nil {
				cause = errors.New("process exited with non-success status")
			}
			slog.Error("task exited", "flow", flow.Name, "task", task.ID, "success", false, "cause", cause)
			taskErrs = append(taskErrs, runerr.TaskFailure(task.ID, cause))
			continue
		}
		slog.Info("task exited", "flow", flow.Name, "task", task.ID, "success", true)
	}

	if len(taskErrs) > 0 {
		return runerr.FlowFailed(taskErrs...)
	}
	return nil
}
