// Package runerr defines the engine's error taxonomy as sentinel errors so
// callers can classify failures with errors.Is instead of type-switching.
package runerr

import (
	"errors"
	"fmt"
)

var (
	// ErrParse marks a rune file that failed structural (yaml) decoding.
	ErrParse = errors.New("parse error")

	// ErrNoSuchFlow marks a flow index outside the rune's flow list.
	ErrNoSuchFlow = errors.New("no such flow")

	// ErrEmptyFlow marks a flow with zero tasks.
	ErrEmptyFlow = errors.New("flow has no tasks")

	// ErrCyclicDependency marks a depends chain that revisits a task.
	ErrCyclicDependency = errors.New("cyclic dependency")

	// ErrMissingDependency marks a failed host package preflight probe.
	ErrMissingDependency = errors.New("missing package dependency")

	// ErrBlueprintNotFound marks a task naming a blueprint absent from the rune.
	ErrBlueprintNotFound = errors.New("blueprint not found")

	// ErrEnvBundleNotFound marks a task naming an env bundle absent from the rune.
	ErrEnvBundleNotFound = errors.New("env bundle not found")

	// ErrVariantMissing marks a blueprint missing the variant its task.job requires.
	ErrVariantMissing = errors.New("blueprint variant missing")

	// ErrInvalid marks malformed but structurally-typed input (empty
	// entrypoint, empty healthcheck command, a depends id absent from the
	// flow, ...).
	ErrInvalid = errors.New("invalid")

	// ErrUnsupported marks a reserved combination (Blueprint+Set,
	// Container-tagged execution environments).
	ErrUnsupported = errors.New("unsupported")

	// ErrIO marks a subprocess spawn or wait failure.
	ErrIO = errors.New("io error")

	// ErrWaitFailure marks a handle whose terminal status could not be determined.
	ErrWaitFailure = errors.New("wait failure")

	// ErrFlowFailed aggregates one or more per-task failures. Individual
	// task errors are joined alongside it with errors.Join, so errors.Is
	// against a specific task error still succeeds.
	ErrFlowFailed = errors.New("flow failed")

	// ErrDuplicateHandle marks an attempt to insert a second handle for a task id.
	ErrDuplicateHandle = errors.New("duplicate handle")
)

// MissingDependency builds an ErrMissingDependency for the named host package.
func MissingDependency(name string) error {
	return fmt.Errorf("%w: %s", ErrMissingDependency, name)
}

// BlueprintNotFound builds an ErrBlueprintNotFound for the named blueprint.
func BlueprintNotFound(name string) error {
	return fmt.Errorf("%w: %s", ErrBlueprintNotFound, name)
}

// EnvBundleNotFound builds an ErrEnvBundleNotFound for the named env bundle.
func EnvBundleNotFound(name string) error {
	return fmt.Errorf("%w: %s", ErrEnvBundleNotFound, name)
}

// WaitFailure builds an ErrWaitFailure for the given task id, wrapping cause.
func WaitFailure(taskID int, cause error) error {
	return fmt.Errorf("%w: task %d: %w", ErrWaitFailure, taskID, cause)
}

// TaskFailure wraps a per-task failure with its task id, for inclusion in an
// aggregate FlowFailed error. Its message deliberately names the task so a
// caller inspecting FlowFailed.Error() can identify which task failed
// without unwrapping.
func TaskFailure(taskID int, cause error) error {
	return fmt.Errorf("task %d: %w", taskID, cause)
}

// FlowFailed joins ErrFlowFailed with every per-task failure collected
// during a flow run, mirroring the diagnostic-check aggregation style the
// rest of this codebase uses (errors.Join over a slice of causes).
func FlowFailed(taskErrs ...error) error {
	joined := make([]error, 0, len(taskErrs)+1)
	joined = append(joined, ErrFlowFailed)
	joined = append(joined, taskErrs...)
	return errors.Join(joined...)
}
