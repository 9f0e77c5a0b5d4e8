package procdriver

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/creack/pty"

	"github.com/itwasneo/runer/internal/handle"
	"github.com/itwasneo/runer/internal/runerr"
	runemodel "github.com/itwasneo/runer/internal/rune"
)

// RunShell applies a Shell blueprint's env pairs to the process environment,
// then spawns its commands joined with && as a single "sh -c" invocation.
// When Config.TTY is set the child gets a pseudo-terminal instead of
// inherited stdio, grounded on containers.go's interactive-session handling.
func (d *driver) RunShell(ctx context.Context, s *runemodel.Shell) (*handle.Handle, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: nil shell blueprint", runerr.ErrInvalid)
	}
	if len(s.Commands) == 0 {
		return nil, fmt.Errorf("%w: shell blueprint has no commands", runerr.ErrInvalid)
	}

	if err := applyEnvPairs(s.Env); err != nil {
		return nil, fmt.Errorf("%w: applying shell env: %v", runerr.ErrIO, err)
	}

	cmd := exec.CommandContext(ctx, "sh", "-c", strings.Join(s.Commands, " && "))

	if d.cfg.TTY {
		ptmx, err := pty.Start(cmd)
		if err != nil {
			return nil, fmt.Errorf("%w: allocating pty: %v", runerr.ErrIO, err)
		}
		out := d.cfg.Output
		if out == nil {
			out = io.Discard
		}
		go io.Copy(out, ptmx)
		return handle.FromCmd(cmd), nil
	}

	cmd.Stdin, cmd.Stdout, cmd.Stderr = os.Stdin, os.Stdout, os.Stderr
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: starting shell: %v", runerr.ErrIO, err)
	}
	return handle.FromCmd(cmd), nil
}

// ApplyEnv sets a named env bundle's pairs into the process environment and
// returns immediately: there is no subprocess to wait on, so this is the
// other half of Design Note 3's dummy-echo avoidance.
func (d *driver) ApplyEnv(ctx context.Context, env runemodel.EnvBundle) (*handle.Handle, error) {
	if err := applyEnvPairs(env); err != nil {
		return nil, fmt.Errorf("%w: applying env bundle: %v", runerr.ErrIO, err)
	}
	return handle.AlreadyFinished(), nil
}
