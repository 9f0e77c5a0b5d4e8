package main

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/itwasneo/runer/internal/engine"
	"github.com/itwasneo/runer/internal/procdriver"
	runemodel "github.com/itwasneo/runer/internal/rune"
	"github.com/itwasneo/runer/internal/runestate"
)

// RunCmd loads, validates, and executes a flow. It runs the rune's first
// flow by default (spec.md §6); --flow is a SPEC_FULL addition, grounded on
// original_source/src/main.rs's support for selecting among named flows.
type RunCmd struct {
	File   string `default:".runer" placeholder:"<path>" help:"path to the rune file"`
	Flow   string `default:"" placeholder:"<name-or-index>" help:"flow to run (defaults to the first flow)"`
	TTY    bool   `help:"allocate a pseudo-terminal for shell jobs"`
	Engine string `default:"" placeholder:"<bin>" help:"container-engine binary name, overrides the global --engine"`
}

func (c *RunCmd) Run(rctx *Context) error {
	r, err := runemodel.Load(c.File)
	if err != nil {
		return err
	}

	flowIndex, flow, err := resolveFlow(r, c.Flow)
	if err != nil {
		return err
	}

	if err := runemodel.ValidateFlow(r, flow); err != nil {
		return err
	}

	state := runestate.FromRune(r)

	cfg := procdriver.DefaultConfig()
	if c.Engine != "" {
		cfg.Engine = c.Engine
	} else if rctx.Engine != "" {
		cfg.Engine = rctx.Engine
	}
	cfg.TTY = c.TTY

	driver := procdriver.New(cfg)

	slog.Info("run", "file", c.File, "flow", flow.Name, "tasks", len(flow.Tasks))
	if err := engine.ExecuteFlow(context.Background(), state, flowIndex, driver); err != nil {
		slog.Error("run failed", "flow", flow.Name, "error", err)
		return err
	}
	slog.Info("run succeeded", "flow", flow.Name)
	return nil
}

// resolveFlow maps the --flow flag to an index: empty selects the first
// flow, a parseable integer selects by position, anything else is looked
// up by Flow.Name.
func resolveFlow(r *runemodel.Rune, spec string) (int, *runemodel.Flow, error) {
	if len(r.Flows) == 0 {
		return 0, nil, fmt.Errorf("rune declares no flows")
	}
	if spec == "" {
		return 0, &r.Flows[0], nil
	}
	if idx, err := strconv.Atoi(spec); err == nil {
		if idx < 0 || idx >= len(r.Flows) {
			return 0, nil, fmt.Errorf("no such flow index %d", idx)
		}
		return idx, &r.Flows[idx], nil
	}
	for i := range r.Flows {
		if r.Flows[i].Name == spec {
			return i, &r.Flows[i], nil
		}
	}
	return 0, nil, fmt.Errorf("no such flow %q", spec)
}
