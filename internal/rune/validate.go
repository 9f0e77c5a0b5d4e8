package rune

import (
	"fmt"

	"github.com/itwasneo/runer/internal/runerr"
)

// ValidateFlow runs every structural check spec §3/§4.3/§9 requires before a
// flow is allowed to fan out: task id uniqueness, depends references,
// (type, job) consistency, blueprint/env bundle existence, and cycle
// detection. It never spawns anything.
func ValidateFlow(r *Rune, flow *Flow) error {
	if len(flow.Tasks) == 0 {
		return runerr.ErrEmptyFlow
	}

	byID := make(map[int]*Task, len(flow.Tasks))
	for i := range flow.Tasks {
		t := &flow.Tasks[i]
		if _, dup := byID[t.ID]; dup {
			return fmt.Errorf("%w: duplicate task id %d", runerr.ErrInvalid, t.ID)
		}
		byID[t.ID] = t
	}

	for _, t := range flow.Tasks {
		if t.Depends != nil {
			if _, ok := byID[*t.Depends]; !ok {
				return fmt.Errorf("%w: task %d depends on unknown task id %d", runerr.ErrInvalid, t.ID, *t.Depends)
			}
		}
		if err := validateJobConsistency(t); err != nil {
			return err
		}
		if err := validateReference(r, t); err != nil {
			return err
		}
	}

	for _, t := range flow.Tasks {
		if err := checkAcyclic(t, byID); err != nil {
			return err
		}
	}

	return nil
}

// validateJobConsistency enforces spec §3's (task.type, task.job) table.
func validateJobConsistency(t Task) error {
	switch t.Type {
	case TaskBlueprint:
		switch t.Job {
		case JobImage, JobContainer, JobShell:
			return nil
		case JobSet:
			return fmt.Errorf("%w: blueprint task %d: job 'set' on a blueprint", runerr.ErrUnsupported, t.ID)
		default:
			return fmt.Errorf("%w: task %d: unrecognized job", runerr.ErrInvalid, t.ID)
		}
	case TaskEnv:
		if t.Job == JobSet {
			return nil
		}
		return fmt.Errorf("%w: env task %d: job %q is invalid for an env task", runerr.ErrInvalid, t.ID, t.Job)
	default:
		return fmt.Errorf("%w: task %d: unrecognized type", runerr.ErrInvalid, t.ID)
	}
}

// validateReference ensures a task's Name resolves to an entity in the rune.
func validateReference(r *Rune, t Task) error {
	switch t.Type {
	case TaskBlueprint:
		if _, ok := r.Blueprints[t.Name]; !ok {
			return runerr.BlueprintNotFound(t.Name)
		}
	case TaskEnv:
		if _, ok := r.Env[t.Name]; !ok {
			return runerr.EnvBundleNotFound(t.Name)
		}
	}
	return nil
}

// checkAcyclic walks a task's depends chain, rejecting on revisit. A simple
// parent-chain walk is sufficient because the schema allows at most one
// parent per task, so dependency graphs are forests when acyclic.
func checkAcyclic(start Task, byID map[int]*Task) error {
	visited := map[int]bool{start.ID: true}
	cur := start
	for cur.Depends != nil {
		parentID := *cur.Depends
		if visited[parentID] {
			return fmt.Errorf("%w: task %d", runerr.ErrCyclicDependency, start.ID)
		}
		visited[parentID] = true
		parent, ok := byID[parentID]
		if !ok {
			// Already reported by the depends-reference check above; stop
			// walking rather than panicking on a nil dereference.
			return nil
		}
		cur = *parent
	}
	return nil
}

// VariantFor returns the blueprint variant a given job requires, or an
// ErrVariantMissing/ErrUnsupported error if it isn't populated or isn't
// implemented.
func (b Blueprint) VariantFor(job JobType) (any, error) {
	switch job {
	case JobImage:
		if b.Image == nil {
			return nil, fmt.Errorf("%w: image", runerr.ErrVariantMissing)
		}
		return b.Image, nil
	case JobContainer:
		if b.Container == nil {
			return nil, fmt.Errorf("%w: container", runerr.ErrVariantMissing)
		}
		return b.Container, nil
	case JobShell:
		if b.Shell == nil {
			return nil, fmt.Errorf("%w: shell", runerr.ErrVariantMissing)
		}
		return b.Shell, nil
	default:
		return nil, fmt.Errorf("%w: job %v on a blueprint", runerr.ErrUnsupported, job)
	}
}
