// Package procdriver is the subprocess driver (spec §4.1): it spawns the OS
// processes a flow needs (image builds, container runs, shell scripts,
// environment mutation) and returns a uniform *handle.Handle for each,
// grounded on the teacher's applecontainer ContainerSvc/ImagesSvc idiom of
// a thin struct wrapping os/exec invocations of one external binary.
package procdriver

import (
	"context"
	"io"
	"os"

	"github.com/itwasneo/runer/internal/handle"
	runemodel "github.com/itwasneo/runer/internal/rune"
)

// Driver is the interface internal/engine dispatches against. Extracting it
// lets engine tests run against a fake driver instead of shelling out,
// mirroring container_ops.go's ContainerOps/ImageOps split between a real
// appleContainerOps and a test double.
type Driver interface {
	BuildImage(ctx context.Context, img *runemodel.Image) (*handle.Handle, error)
	RunContainer(ctx context.Context, c *runemodel.Container) (*handle.Handle, error)
	RunShell(ctx context.Context, s *runemodel.Shell) (*handle.Handle, error)
	ApplyEnv(ctx context.Context, env runemodel.EnvBundle) (*handle.Handle, error)
}

// Config parameterizes the container-engine invocation. The original hard-
// codes "docker" and "--net=last_default"; SPEC_FULL (Design Note 3 in
// spec §9) makes both configurable.
type Config struct {
	// Engine is the container-engine binary name: "docker", "podman",
	// "container", ...
	Engine string
	// NetworkName, when non-empty, is appended to every container run as
	// --net=<name>. Empty disables the flag entirely.
	NetworkName string
	// TTY allocates a pseudo-terminal for Shell jobs and copies its
	// output to Output, instead of letting the child inherit stdio
	// directly.
	TTY bool
	// Output receives copied command output when TTY is set. Defaults to
	// io.Discard.
	Output io.Writer
}

// DefaultConfig returns the driver's out-of-the-box settings.
func DefaultConfig() Config {
	return Config{
		Engine:      "docker",
		NetworkName: "runer_default",
	}
}

type driver struct {
	cfg Config
	// listImages is a seam over localImages so tests can fake the
	// engine's image store without shelling out, mirroring the
	// ContainerOps/ImageOps interface-and-fake split container_ops.go
	// uses for its own tests.
	listImages func(ctx context.Context, engine string) ([]localImageEntry, error)
}

// New returns a Driver that shells out to cfg.Engine.
func New(cfg Config) Driver {
	if cfg.Engine == "" {
		cfg.Engine = "docker"
	}
	if cfg.Output == nil {
		cfg.Output = io.Discard
	}
	return &driver{cfg: cfg, listImages: localImages}
}

// applyEnvPairs sets each pair into the calling process's environment
// table. Both Apply-env tasks and a Shell blueprint's own env pairs go
// through this, matching the original's std::env::set_var call applying
// process-wide (inherited by every subsequently spawned child).
func applyEnvPairs(env runemodel.EnvBundle) error {
	for _, pair := range env {
		if err := os.Setenv(pair.Key, pair.Value); err != nil {
			return err
		}
	}
	return nil
}
