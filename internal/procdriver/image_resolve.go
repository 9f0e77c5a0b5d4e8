package procdriver

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"

	"github.com/google/go-containerregistry/pkg/name"
	"github.com/google/go-containerregistry/pkg/v1/remote"

	"github.com/itwasneo/runer/internal/runerr"
)

// localImageEntry is the subset of one `<engine> image list --format json`
// entry this driver needs, trimmed from applecontainer/types.ImageEntry
// (the rest of that struct describes manifest/digest detail this driver
// never reads).
type localImageEntry struct {
	Reference string `json:"reference"`
}

// localImages lists every image reference the engine already has pulled,
// grounded on applecontainer/images.go's ImagesSvc.List: shell out with
// --format json and decode straight into a struct instead of scraping
// human-readable table output.
func localImages(ctx context.Context, engine string) ([]localImageEntry, error) {
	out, err := exec.CommandContext(ctx, engine, "image", "list", "--format", "json").Output()
	if err != nil {
		return nil, err
	}
	var entries []localImageEntry
	if err := json.Unmarshal(out, &entries); err != nil {
		return nil, fmt.Errorf("parsing %q image list: %w", engine, err)
	}
	return entries, nil
}

// ensureImagePresent makes sure ref is available to the local engine before
// a container run references it, grounded on boxer.go's EnsureImage/
// pullImage pair: check locally first, and only reach out to the registry
// (and then shell a pull) when the engine doesn't already have it.
//
// ref is parsed with go-containerregistry's name package so a malformed
// reference is rejected before any subprocess runs; the local-presence
// check still goes through the configured engine binary, since the
// engine's own image store is what RunContainer ultimately reads from.
//
// A parse failure and a pull/registry failure belong to different error
// kinds (a malformed reference is ErrInvalid; a pull failure is ErrIO per
// SPEC_FULL.md), so each is wrapped here rather than left for the caller to
// guess which branch produced the error.
func (d *driver) ensureImagePresent(ctx context.Context, ref string) error {
	parsed, err := name.ParseReference(ref, name.WeakValidation)
	if err != nil {
		return fmt.Errorf("%w: invalid image reference %q: %v", runerr.ErrInvalid, ref, err)
	}

	if entries, err := d.listImages(ctx, d.cfg.Engine); err == nil {
		for _, e := range entries {
			if e.Reference == parsed.String() || e.Reference == ref {
				return nil
			}
		}
	}

	if _, err := remote.Head(parsed); err != nil {
		return fmt.Errorf("%w: image %q not found locally or in remote registry: %v", runerr.ErrIO, ref, err)
	}

	pull := exec.CommandContext(ctx, d.cfg.Engine, "pull", parsed.String())
	if out, err := pull.CombinedOutput(); err != nil {
		return fmt.Errorf("%w: pulling %q: %v: %s", runerr.ErrIO, ref, err, out)
	}
	return nil
}
