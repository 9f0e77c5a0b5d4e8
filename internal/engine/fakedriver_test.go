package engine

import (
	"context"
	"os"
	"sync"

	"github.com/itwasneo/runer/internal/handle"
	runemodel "github.com/itwasneo/runer/internal/rune"
)

// fakeDriver is the fake subprocess driver spec §8 calls for: it never
// shells out to a real container engine, so these tests assert the
// engine's own concurrency and dependency rules, not a docker install.
type fakeDriver struct {
	mu  sync.Mutex
	log []string
}

func (f *fakeDriver) BuildImage(ctx context.Context, img *runemodel.Image) (*handle.Handle, error) {
	return handle.AlreadyFinished(), nil
}

func (f *fakeDriver) RunContainer(ctx context.Context, c *runemodel.Container) (*handle.Handle, error) {
	return handle.AlreadyFinished(), nil
}

// RunShell records each command in spawn order and fails the handle if any
// command is the literal string "false", simulating a non-zero exit without
// touching a real shell.
func (f *fakeDriver) RunShell(ctx context.Context, s *runemodel.Shell) (*handle.Handle, error) {
	f.mu.Lock()
	success := true
	for _, c := range s.Commands {
		f.log = append(f.log, c)
		if c == "false" {
			success = false
		}
	}
	f.mu.Unlock()
	return handle.Finished(success), nil
}

func (f *fakeDriver) ApplyEnv(ctx context.Context, env runemodel.EnvBundle) (*handle.Handle, error) {
	for _, pair := range env {
		if err := os.Setenv(pair.Key, pair.Value); err != nil {
			return nil, err
		}
	}
	return handle.AlreadyFinished(), nil
}

func (f *fakeDriver) spawnLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.log))
	copy(out, f.log)
	return out
}
