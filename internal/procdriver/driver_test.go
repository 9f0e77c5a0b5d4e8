package procdriver

import (
	"context"
	"os"
	"slices"
	"strings"
	"testing"
	"time"

	runemodel "github.com/itwasneo/runer/internal/rune"
)

func testConfig() Config {
	return Config{Engine: "true"} // ignores every arg, always exits 0
}

func TestBuildImage_RunsPreAndPostSteps(t *testing.T) {
	d := New(testConfig())
	img := &runemodel.Image{
		Context:   ".",
		Tag:       "example:latest",
		Options:   []string{"--pull"},
		BuildArgs: []string{"FOO=bar"},
		Pre:       []runemodel.CommandStep{{Env: runemodel.ExecEnv{Kind: runemodel.ExecLocal}, Command: "true"}},
		Post:      []runemodel.CommandStep{{Env: runemodel.ExecEnv{Kind: runemodel.ExecLocal}, Command: "true"}},
	}
	h, err := d.BuildImage(context.Background(), img)
	if err != nil {
		t.Fatalf("BuildImage: %v", err)
	}
	success, waitErr := h.Wait(context.Background())
	if waitErr != nil || !success {
		t.Fatalf("expected immediate success, got success=%v err=%v", success, waitErr)
	}
}

func TestBuildImage_PreStepFailureShortCircuits(t *testing.T) {
	d := New(testConfig())
	img := &runemodel.Image{
		Context: ".",
		Tag:     "example:latest",
		Pre:     []runemodel.CommandStep{{Env: runemodel.ExecEnv{Kind: runemodel.ExecLocal}, Command: "false"}},
	}
	if _, err := d.BuildImage(context.Background(), img); err == nil {
		t.Fatal("expected pre-step failure to abort the build")
	}
}

func TestBuildImage_ContainerStepUnsupported(t *testing.T) {
	d := New(testConfig())
	img := &runemodel.Image{
		Context: ".",
		Tag:     "example:latest",
		Pre:     []runemodel.CommandStep{{Env: runemodel.ExecEnv{Kind: runemodel.ExecContainer, Name: "builder"}, Command: "true"}},
	}
	if _, err := d.BuildImage(context.Background(), img); err == nil {
		t.Fatal("expected container-targeted pre-step to be unsupported")
	}
}

func TestRunContainer_AssemblesHandle(t *testing.T) {
	d := &driver{
		cfg: testConfig(),
		listImages: func(ctx context.Context, engine string) ([]localImageEntry, error) {
			return []localImageEntry{{Reference: "example:latest"}}, nil
		},
	}
	retries := uint(3)
	c := &runemodel.Container{
		Name:  "svc",
		Image: "example:latest",
		Env:   runemodel.EnvBundle{{Key: "A", Value: "1"}},
		Ports: &runemodel.PortPair{Host: "8080", Container: "80"},
		Health: &runemodel.HealthCheck{
			Command: runemodel.CommandStep{Env: runemodel.ExecEnv{Kind: runemodel.ExecLocal}, Command: "true"},
			Retries: &retries,
		},
	}
	h, err := d.RunContainer(context.Background(), c)
	if err != nil {
		t.Fatalf("RunContainer: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	success, waitErr := h.Wait(ctx)
	if waitErr != nil || !success {
		t.Fatalf("expected success, got success=%v err=%v", success, waitErr)
	}
}

func TestRunShell_JoinsCommandsAndAppliesEnv(t *testing.T) {
	d := New(testConfig())
	s := &runemodel.Shell{
		Commands: []string{"true", "true"},
		Env:      runemodel.EnvBundle{{Key: "RUNER_TEST_SHELL_VAR", Value: "set"}},
	}
	h, err := d.RunShell(context.Background(), s)
	if err != nil {
		t.Fatalf("RunShell: %v", err)
	}
	success, waitErr := h.Wait(context.Background())
	if waitErr != nil || !success {
		t.Fatalf("expected success, got success=%v err=%v", success, waitErr)
	}
	if got := os.Getenv("RUNER_TEST_SHELL_VAR"); got != "set" {
		t.Fatalf("expected RUNER_TEST_SHELL_VAR=set after RunShell, got %q", got)
	}
}

func TestBuildImageArgs_AssemblesFlags(t *testing.T) {
	img := &runemodel.Image{
		Context:   "./ctx",
		Tag:       "example:latest",
		Options:   []string{"--pull", "--no-cache"},
		BuildArgs: []string{"FOO=bar", "BAZ=qux"},
	}
	got := buildImageArgs(img)
	want := []string{
		"build", "--pull", "--no-cache",
		"-t", "example:latest",
		`--build-arg="FOO=bar"`, `--build-arg="BAZ=qux"`,
		"./ctx",
	}
	if !slices.Equal(got, want) {
		t.Fatalf("buildImageArgs mismatch:\n got:  %v\n want: %v", got, want)
	}
}

func TestRunContainerArgs_AssemblesFlags(t *testing.T) {
	retries := uint(3)
	c := &runemodel.Container{
		Name:  "svc",
		Image: "example:latest",
		Env:   runemodel.EnvBundle{{Key: "A", Value: "1"}, {Key: "B", Value: "2"}},
		Ports: &runemodel.PortPair{Host: "8080", Container: "80"},
		Volumes: []runemodel.VolumePair{
			{Host: "/data", Container: "/var/data"},
		},
		Entrypoint: []string{"/bin/app", "--serve"},
		Health: &runemodel.HealthCheck{
			Command:  runemodel.CommandStep{Env: runemodel.ExecEnv{Kind: runemodel.ExecLocal}, Command: "curl -f localhost/health"},
			Interval: "5s",
			Retries:  &retries,
		},
	}
	cfg := Config{Engine: "docker", NetworkName: "runer_default"}

	got, err := runContainerArgs(cfg, c)
	if err != nil {
		t.Fatalf("runContainerArgs: %v", err)
	}
	want := []string{
		"run", "-d", "--name", "svc",
		"--env", "A=1", "--env", "B=2",
		"-p", "8080:80",
		"-v", "/data:/var/data",
		"--entrypoint", "/bin/app", "--serve",
		"--health-cmd", "curl -f localhost/health",
		"--health-interval", "5s",
		"--health-retries", "3",
		"--net=runer_default",
		"example:latest",
	}
	if !slices.Equal(got, want) {
		t.Fatalf("runContainerArgs mismatch:\n got:  %v\n want: %v", got, want)
	}
}

func TestRunContainerArgs_EmptyEntrypointInvalid(t *testing.T) {
	c := &runemodel.Container{Name: "svc", Image: "example:latest", Entrypoint: []string{}}
	if _, err := runContainerArgs(testConfig(), c); err == nil {
		t.Fatal("expected empty entrypoint to be invalid")
	}
}

func TestRunContainerArgs_EmptyHealthcheckCommandInvalid(t *testing.T) {
	c := &runemodel.Container{
		Name:   "svc",
		Image:  "example:latest",
		Health: &runemodel.HealthCheck{Command: runemodel.CommandStep{Env: runemodel.ExecEnv{Kind: runemodel.ExecLocal}, Command: ""}},
	}
	if _, err := runContainerArgs(testConfig(), c); err == nil {
		t.Fatal("expected empty healthcheck command to be invalid")
	}
}

func TestRunContainerArgs_ContainerHealthcheckUnsupported(t *testing.T) {
	c := &runemodel.Container{
		Name:  "svc",
		Image: "example:latest",
		Health: &runemodel.HealthCheck{
			Command: runemodel.CommandStep{Env: runemodel.ExecEnv{Kind: runemodel.ExecContainer, Name: "sidecar"}, Command: "true"},
		},
	}
	if _, err := runContainerArgs(testConfig(), c); err == nil {
		t.Fatal("expected container-targeted healthcheck to be unsupported")
	}
}

func TestRunContainerArgs_OmitsNetFlagWhenUnset(t *testing.T) {
	c := &runemodel.Container{Name: "svc", Image: "example:latest"}
	got, err := runContainerArgs(Config{Engine: "docker"}, c)
	if err != nil {
		t.Fatalf("runContainerArgs: %v", err)
	}
	for _, a := range got {
		if strings.HasPrefix(a, "--net") {
			t.Fatalf("expected no --net flag, got %v", got)
		}
	}
}

func TestApplyEnv_ReturnsAlreadyFinished(t *testing.T) {
	d := New(testConfig())
	h, err := d.ApplyEnv(context.Background(), runemodel.EnvBundle{{Key: "RUNER_TEST_APPLY", Value: "v"}})
	if err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}
	success, done, waitErr := h.TryStatus()
	if !done || !success || waitErr != nil {
		t.Fatalf("expected immediately-done success, got success=%v done=%v err=%v", success, done, waitErr)
	}
}
