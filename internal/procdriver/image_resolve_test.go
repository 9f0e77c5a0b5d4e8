package procdriver

import (
	"context"
	"errors"
	"testing"

	"github.com/itwasneo/runer/internal/runerr"
)

func TestEnsureImagePresent_MalformedReferenceIsInvalid(t *testing.T) {
	d := &driver{
		cfg: testConfig(),
		listImages: func(ctx context.Context, engine string) ([]localImageEntry, error) {
			return nil, nil
		},
	}
	err := d.ensureImagePresent(context.Background(), "UPPER CASE NOT A REF")
	if !errors.Is(err, runerr.ErrInvalid) {
		t.Fatalf("expected ErrInvalid for a malformed reference, got %v", err)
	}
	if errors.Is(err, runerr.ErrIO) {
		t.Fatalf("a parse failure must not also classify as ErrIO, got %v", err)
	}
}

func TestEnsureImagePresent_LocallyPresentSkipsRemote(t *testing.T) {
	d := &driver{
		cfg: testConfig(),
		listImages: func(ctx context.Context, engine string) ([]localImageEntry, error) {
			return []localImageEntry{{Reference: "example.com/app:latest"}}, nil
		},
	}
	if err := d.ensureImagePresent(context.Background(), "example.com/app:latest"); err != nil {
		t.Fatalf("expected no error when the image is already present locally, got %v", err)
	}
}

func TestEnsureImagePresent_RemoteLookupFailureIsIO(t *testing.T) {
	d := &driver{
		cfg: testConfig(),
		listImages: func(ctx context.Context, engine string) ([]localImageEntry, error) {
			return nil, nil
		},
	}
	// A well-formed reference to a registry that will never resolve: the
	// remote.Head lookup fails, which is an Io-kind error, not Invalid.
	err := d.ensureImagePresent(context.Background(), "definitely-not-a-real-registry.invalid/app:latest")
	if !errors.Is(err, runerr.ErrIO) {
		t.Fatalf("expected ErrIO for a remote lookup failure, got %v", err)
	}
	if errors.Is(err, runerr.ErrInvalid) {
		t.Fatalf("a pull/registry failure must not also classify as ErrInvalid, got %v", err)
	}
}
