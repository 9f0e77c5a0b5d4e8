package procdriver

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/itwasneo/runer/internal/handle"
	"github.com/itwasneo/runer/internal/runerr"
	runemodel "github.com/itwasneo/runer/internal/rune"
)

// BuildImage runs an Image blueprint's pre steps, the engine build
// invocation, then its post steps, all synchronously, and returns an
// already-finished handle (spec §9 Design Note 3: no dummy echo process).
//
// The build invocation is: build subcommand, the blueprint's Options
// appended verbatim, -t <tag>, one --build-arg="<value>" per declared
// build-arg, and the context path as the final positional argument.
func (d *driver) BuildImage(ctx context.Context, img *runemodel.Image) (*handle.Handle, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: nil image blueprint", runerr.ErrInvalid)
	}

	if err := runLocalSteps(ctx, img.Pre); err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, d.cfg.Engine, buildImageArgs(img)...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("%w: image build %q: %v: %s", runerr.ErrIO, img.Tag, err, out)
	}

	if err := runLocalSteps(ctx, img.Post); err != nil {
		return nil, err
	}

	return handle.AlreadyFinished(), nil
}

// buildImageArgs synthesises the build subcommand's argument list: build
// subcommand, the blueprint's Options appended verbatim, -t <tag>, one
// --build-arg="<value>" per declared build-arg, and the context path as the
// final positional argument. Pulled out of BuildImage so the synthesis
// itself can be asserted on directly without shelling out.
func buildImageArgs(img *runemodel.Image) []string {
	args := []string{"build"}
	args = append(args, img.Options...)
	args = append(args, "-t", img.Tag)
	for _, arg := range img.BuildArgs {
		args = append(args, fmt.Sprintf("--build-arg=%q", arg))
	}
	args = append(args, img.Context)
	return args
}
