package procdriver

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/itwasneo/runer/internal/handle"
	"github.com/itwasneo/runer/internal/runerr"
	runemodel "github.com/itwasneo/runer/internal/rune"
)

// RunContainer spawns a detached container for a Container blueprint and
// returns a handle wrapping the engine's run invocation, so draining the
// flow waits on the "docker run" process itself, not the containerized
// workload (matching the original's fire-and-forget container_ops.go run).
func (d *driver) RunContainer(ctx context.Context, c *runemodel.Container) (*handle.Handle, error) {
	if c == nil {
		return nil, fmt.Errorf("%w: nil container blueprint", runerr.ErrInvalid)
	}

	if err := d.ensureImagePresent(ctx, c.Image); err != nil {
		// ensureImagePresent already tags its error as ErrInvalid (a
		// malformed reference) or ErrIO (a pull/registry failure); re-
		// wrapping here would collapse both into ErrIO.
		return nil, err
	}

	args, err := runContainerArgs(d.cfg, c)
	if err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, d.cfg.Engine, args...)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: starting container %q: %v", runerr.ErrIO, c.Name, err)
	}
	return handle.FromCmd(cmd), nil
}

// runContainerArgs synthesises the run subcommand's argument list per spec
// §4.1: detach flag, --name, one --env per pair, one -p if ports present,
// one -v per volume, --entrypoint plus argument tokens if present, the
// healthcheck flags, the configured network name, and the image reference
// as the final positional argument. Pulled out of RunContainer so the
// synthesis itself can be asserted on directly without shelling out.
func runContainerArgs(cfg Config, c *runemodel.Container) ([]string, error) {
	args := []string{"run", "-d", "--name", c.Name}

	for _, pair := range c.Env {
		args = append(args, "--env", fmt.Sprintf("%s=%s", pair.Key, pair.Value))
	}

	if c.Ports != nil {
		args = append(args, "-p", fmt.Sprintf("%s:%s", c.Ports.Host, c.Ports.Container))
	}

	for _, v := range c.Volumes {
		args = append(args, "-v", fmt.Sprintf("%s:%s", v.Host, v.Container))
	}

	if c.Entrypoint != nil {
		if len(c.Entrypoint) == 0 {
			return nil, fmt.Errorf("%w: empty entrypoint", runerr.ErrInvalid)
		}
		args = append(args, "--entrypoint", c.Entrypoint[0])
		args = append(args, c.Entrypoint[1:]...)
	}

	if c.Health != nil {
		if c.Health.Command.Env.Kind != runemodel.ExecLocal {
			return nil, fmt.Errorf("%w: healthcheck targeting %s", runerr.ErrUnsupported, c.Health.Command.Env.Kind)
		}
		if c.Health.Command.Command == "" {
			return nil, fmt.Errorf("%w: empty healthcheck command", runerr.ErrInvalid)
		}
		args = append(args, "--health-cmd", c.Health.Command.Command)
		if c.Health.Interval != "" {
			args = append(args, "--health-interval", c.Health.Interval)
		}
		if c.Health.Retries != nil {
			args = append(args, "--health-retries", fmt.Sprintf("%d", *c.Health.Retries))
		}
	}

	if cfg.NetworkName != "" {
		args = append(args, fmt.Sprintf("--net=%s", cfg.NetworkName))
	}

	args = append(args, c.Image)
	return args, nil
}
