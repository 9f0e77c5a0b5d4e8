// Package rune holds the declarative document model an operator authors: a
// Rune names reusable blueprints, env bundles, and flows of tasks. This
// package only builds and validates the in-memory model; it never spawns a
// process — that is internal/procdriver and internal/engine's job.
package rune

import "fmt"

// EnvPair is a single (key, value) environment variable declaration. A slice
// of EnvPair preserves declaration order, unlike a bare map.
type EnvPair struct {
	Key   string
	Value string
}

// EnvBundle is an ordered sequence of environment variable pairs.
type EnvBundle []EnvPair

// ExecKind distinguishes where a command string in a (tag, command) pair
// should execute.
type ExecKind int

const (
	// ExecLocal runs the command on the host. The only implemented kind.
	ExecLocal ExecKind = iota
	// ExecContainer names a running container the command should run
	// inside. Reserved: every operation that receives one fails with
	// ErrUnsupported.
	ExecContainer
)

func (k ExecKind) String() string {
	switch k {
	case ExecLocal:
		return "Local"
	case ExecContainer:
		return "Container"
	default:
		return fmt.Sprintf("ExecKind(%d)", int(k))
	}
}

// ExecEnv is the tagged execution-environment value from spec §3/§9: either
// the literal Local, or a named Container variant.
type ExecEnv struct {
	Kind ExecKind
	Name string // only meaningful when Kind == ExecContainer
}

// CommandStep is a (execution-environment, shell-command) pair, used for
// Image pre/post steps and for a HealthCheck's command.
type CommandStep struct {
	Env     ExecEnv
	Command string
}

// PortPair is a (host, container) port mapping.
type PortPair struct {
	Host      string
	Container string
}

// VolumePair is a (host, container) volume mount mapping.
type VolumePair struct {
	Host      string
	Container string
}

// HealthCheck describes a container healthcheck.
type HealthCheck struct {
	Command  CommandStep
	Interval string // optional; empty means unset
	Retries  *uint
}

// Image is a container image build recipe.
type Image struct {
	Context   string
	Tag       string
	Options   []string
	BuildArgs []string
	Pre       []CommandStep
	Post      []CommandStep
}

// Container is a container run recipe.
type Container struct {
	Name       string
	Image      string
	Ports      *PortPair
	Env        EnvBundle
	Volumes    []VolumePair
	Entrypoint []string
	Health     *HealthCheck
}

// Shell is an ordered list of shell commands run as one invocation joined
// with logical-and, plus env applied before execution.
type Shell struct {
	Commands []string
	Env      EnvBundle
}

// Blueprint is a named recipe. Exactly one of Image, Container, Shell should
// be populated for any task that references it, depending on the task's job.
type Blueprint struct {
	Env       EnvBundle
	Image     *Image
	Container *Container
	Shell     *Shell
}

// TaskType names which collection a Task's Name key indexes into.
type TaskType int

const (
	TaskBlueprint TaskType = iota
	TaskEnv
)

func (t TaskType) String() string {
	switch t {
	case TaskBlueprint:
		return "Blueprint"
	case TaskEnv:
		return "Env"
	default:
		return fmt.Sprintf("TaskType(%d)", int(t))
	}
}

// JobType names which Blueprint variant (or Env operation) a Task dispatches to.
type JobType int

const (
	JobContainer JobType = iota
	JobImage
	JobShell
	JobSet
)

func (j JobType) String() string {
	switch j {
	case JobContainer:
		return "container"
	case JobImage:
		return "image"
	case JobShell:
		return "shell"
	case JobSet:
		return "set"
	default:
		return fmt.Sprintf("JobType(%d)", int(j))
	}
}

// Task is a single scheduled unit within a Flow.
type Task struct {
	ID      int
	Type    TaskType
	Name    string
	Job     JobType
	Depends *int // id of a task in the same flow, or nil
}

// Flow is an ordered, non-empty collection of tasks forming a unit of execution.
type Flow struct {
	Name            string
	Tasks           []Task
	PkgDependencies []string
}

// Rune is the root aggregate: independent, optional collections of
// blueprints, env bundles, and flows.
type Rune struct {
	Blueprints map[string]Blueprint
	Env        map[string]EnvBundle
	Flows      []Flow
}
