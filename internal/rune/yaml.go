package rune

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// wireRune mirrors Rune with yaml struct tags; decoding into this type
// first (rather than tagging Rune itself) keeps the domain model free of
// serialization concerns, following the separation the teacher's own
// options package draws between wire flags and domain structs.
type wireRune struct {
	Blueprints map[string]wireBlueprint `yaml:"blueprints"`
	Env        map[string]EnvBundle     `yaml:"env"`
	Flows      []wireFlow               `yaml:"flows"`
}

type wireBlueprint struct {
	Env       EnvBundle      `yaml:"env"`
	Image     *wireImage     `yaml:"image"`
	Container *wireContainer `yaml:"container"`
	Shell     *wireShell     `yaml:"shell"`
}

type wireImage struct {
	Context   string        `yaml:"context"`
	Tag       string        `yaml:"tag"`
	Options   []string      `yaml:"options"`
	BuildArgs []string      `yaml:"build_args"`
	Pre       []CommandStep `yaml:"pre"`
	Post      []CommandStep `yaml:"post"`
}

type wireContainer struct {
	Name       string         `yaml:"name"`
	Image      string         `yaml:"image"`
	Ports      *PortPair      `yaml:"ports"`
	Env        EnvBundle      `yaml:"env"`
	Volumes    []VolumePair   `yaml:"volumes"`
	Entrypoint []string       `yaml:"entrypoint"`
	Health     *wireHealthChk `yaml:"healthcheck"`
}

type wireHealthChk struct {
	Command  CommandStep `yaml:"command"`
	Interval string      `yaml:"interval"`
	Retries  *uint       `yaml:"retries"`
}

type wireShell struct {
	Commands []string  `yaml:"commands"`
	Env      EnvBundle `yaml:"env"`
}

type wireFlow struct {
	Name            string     `yaml:"name"`
	Tasks           []wireTask `yaml:"tasks"`
	PkgDependencies []string   `yaml:"pkg_dependencies"`
}

type wireTask struct {
	ID      int      `yaml:"id"`
	Type    TaskType `yaml:"type"`
	Name    string   `yaml:"name"`
	Job     JobType  `yaml:"job"`
	Depends *int     `yaml:"depends"`
}

// UnmarshalYAML implements the tagged-enum decode for TaskType: the literal
// tokens Blueprint or Env, matching spec §6.
func (t *TaskType) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	switch s {
	case "Blueprint":
		*t = TaskBlueprint
	case "Env":
		*t = TaskEnv
	default:
		return fmt.Errorf("task type: expected Blueprint or Env, got %q", s)
	}
	return nil
}

// UnmarshalYAML implements the tagged-enum decode for JobType: the
// lower-case tokens container, image, shell, set, matching spec §6.
func (j *JobType) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	switch s {
	case "container":
		*j = JobContainer
	case "image":
		*j = JobImage
	case "shell":
		*j = JobShell
	case "set":
		*j = JobSet
	default:
		return fmt.Errorf("task job: expected one of container, image, shell, set, got %q", s)
	}
	return nil
}

// UnmarshalYAML implements the tagged-enum decode for ExecEnv: the scalar
// literal Local, or a single-key mapping {container: <name>}.
func (e *ExecEnv) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}
		if s != "Local" {
			return fmt.Errorf("execution environment: expected Local, got %q", s)
		}
		*e = ExecEnv{Kind: ExecLocal}
		return nil
	}
	if node.Kind == yaml.MappingNode {
		// node.Decode does not inherit the outer decoder's KnownFields
		// setting, so unknown keys are rejected here by hand.
		for i := 0; i+1 < len(node.Content); i += 2 {
			if key := node.Content[i].Value; key != "container" {
				return fmt.Errorf("execution environment: unknown field %q", key)
			}
		}
		var m struct {
			Container string `yaml:"container"`
		}
		if err := node.Decode(&m); err != nil {
			return err
		}
		*e = ExecEnv{Kind: ExecContainer, Name: m.Container}
		return nil
	}
	return fmt.Errorf("execution environment: expected scalar Local or a container mapping")
}

// UnmarshalYAML decodes a CommandStep from a two-element sequence
// [execution-environment, command-string].
func (c *CommandStep) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode || len(node.Content) != 2 {
		return fmt.Errorf("command step: expected a 2-element sequence [env, command]")
	}
	if err := node.Content[0].Decode(&c.Env); err != nil {
		return err
	}
	return node.Content[1].Decode(&c.Command)
}

// UnmarshalYAML decodes a PortPair from a two-element sequence [host, container].
func (p *PortPair) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode || len(node.Content) != 2 {
		return fmt.Errorf("port pair: expected a 2-element sequence [host, container]")
	}
	if err := node.Content[0].Decode(&p.Host); err != nil {
		return err
	}
	return node.Content[1].Decode(&p.Container)
}

// UnmarshalYAML decodes a VolumePair from a two-element sequence [host, container].
func (v *VolumePair) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode || len(node.Content) != 2 {
		return fmt.Errorf("volume pair: expected a 2-element sequence [host, container]")
	}
	if err := node.Content[0].Decode(&v.Host); err != nil {
		return err
	}
	return node.Content[1].Decode(&v.Container)
}

// UnmarshalYAML decodes an EnvBundle from a sequence of 2-element
// [key, value] sequences, preserving declaration order.
func (b *EnvBundle) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		return fmt.Errorf("env bundle: expected a sequence of [key, value] pairs")
	}
	out := make(EnvBundle, 0, len(node.Content))
	for _, item := range node.Content {
		if item.Kind != yaml.SequenceNode || len(item.Content) != 2 {
			return fmt.Errorf("env bundle: each entry must be a 2-element [key, value] sequence")
		}
		var pair EnvPair
		if err := item.Content[0].Decode(&pair.Key); err != nil {
			return err
		}
		if err := item.Content[1].Decode(&pair.Value); err != nil {
			return err
		}
		out = append(out, pair)
	}
	*b = out
	return nil
}

func fromWireImage(w *wireImage) *Image {
	if w == nil {
		return nil
	}
	return &Image{
		Context:   w.Context,
		Tag:       w.Tag,
		Options:   w.Options,
		BuildArgs: w.BuildArgs,
		Pre:       w.Pre,
		Post:      w.Post,
	}
}

func fromWireContainer(w *wireContainer) *Container {
	if w == nil {
		return nil
	}
	return &Container{
		Name:       w.Name,
		Image:      w.Image,
		Ports:      w.Ports,
		Env:        w.Env,
		Volumes:    w.Volumes,
		Entrypoint: w.Entrypoint,
		Health:     fromWireHealthChk(w.Health),
	}
}

func fromWireHealthChk(w *wireHealthChk) *HealthCheck {
	if w == nil {
		return nil
	}
	return &HealthCheck{
		Command:  w.Command,
		Interval: w.Interval,
		Retries:  w.Retries,
	}
}

func fromWireShell(w *wireShell) *Shell {
	if w == nil {
		return nil
	}
	return &Shell{Commands: w.Commands, Env: w.Env}
}

func fromWireBlueprint(w wireBlueprint) Blueprint {
	return Blueprint{
		Env:       w.Env,
		Image:     fromWireImage(w.Image),
		Container: fromWireContainer(w.Container),
		Shell:     fromWireShell(w.Shell),
	}
}

func fromWireTask(w wireTask) Task {
	return Task{ID: w.ID, Type: w.Type, Name: w.Name, Job: w.Job, Depends: w.Depends}
}

func fromWireFlow(w wireFlow) Flow {
	tasks := make([]Task, len(w.Tasks))
	for i, t := range w.Tasks {
		tasks[i] = fromWireTask(t)
	}
	return Flow{Name: w.Name, Tasks: tasks, PkgDependencies: w.PkgDependencies}
}

func fromWireRune(w wireRune) *Rune {
	blueprints := make(map[string]Blueprint, len(w.Blueprints))
	for name, b := range w.Blueprints {
		blueprints[name] = fromWireBlueprint(b)
	}
	flows := make([]Flow, len(w.Flows))
	for i, f := range w.Flows {
		flows[i] = fromWireFlow(f)
	}
	return &Rune{Blueprints: blueprints, Env: w.Env, Flows: flows}
}
