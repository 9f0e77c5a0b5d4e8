package main

import (
	"fmt"
	"log/slog"

	runemodel "github.com/itwasneo/runer/internal/rune"
)

// ValidateCmd runs structural validation only, without spawning anything,
// grounded on original_source/src/engine/extractor.rs's analyze_fragments
// summary and on prerequisites.go's diagnostic-check reporting style.
type ValidateCmd struct {
	File string `default:".runer" placeholder:"<path>" help:"path to the rune file"`
}

func (c *ValidateCmd) Run(rctx *Context) error {
	r, err := runemodel.Load(c.File)
	if err != nil {
		return err
	}

	slog.Info("validate: fragment counts",
		"blueprints", len(r.Blueprints),
		"env", len(r.Env),
		"flows", len(r.Flows))

	var failures []error
	for i := range r.Flows {
		if err := runemodel.ValidateFlow(r, &r.Flows[i]); err != nil {
			slog.Error("validate: flow failed", "flow", r.Flows[i].Name, "error", err)
			failures = append(failures, fmt.Errorf("flow %q: %w", r.Flows[i].Name, err))
		} else {
			slog.Info("validate: flow ok", "flow", r.Flows[i].Name, "tasks", len(r.Flows[i].Tasks))
		}
	}

	if len(failures) > 0 {
		return fmt.Errorf("%d flow(s) failed validation: %w", len(failures), failures[0])
	}
	return nil
}
