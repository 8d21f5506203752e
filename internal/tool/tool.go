// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tool locates and runs the external pandoc converter, either as a
// local binary or inside a container runtime.
package tool

import (
	"bytes"
	"fmt"
	"io"
	"os/exec"
)

const (
	binPandoc = "pandoc"
	binDocker = "docker"
	binPodman = "podman"

	// DefaultImage is the container image used when pandoc is not on PATH.
	DefaultImage = "pandoc/core:latest"
)

// Tool runs the converter with the given arguments, piping the document
// bytes through stdin and stdout.
type Tool interface {
	// Name identifies the tool for diagnostics ("pandoc", "docker", "podman").
	Name() string

	// Available reports whether the tool responds to a probe command.
	Available() bool

	// Run executes the converter with args, wiring stdin and stdout.
	Run(args []string, stdin io.Reader, stdout io.Writer) error
}

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	RunSilent(name string, args ...string) error
	RunPiped(name string, args []string, stdin io.Reader, stdout io.Writer) error
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) RunSilent(name string, args ...string) error {
	return exec.Command(name, args...).Run()
}

func (o *osExecutor) RunPiped(name string, args []string, stdin io.Reader, stdout io.Writer) error {
	cmd := exec.Command(name, args...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := bytes.TrimSpace(stderr.Bytes()); len(msg) > 0 {
			return fmt.Errorf("%w: %s", err, msg)
		}
		return err
	}
	return nil
}

// localTool runs the pandoc binary found on PATH.
type localTool struct {
	bin  string
	exec executor
}

func (l *localTool) Name() string { return l.bin }

func (l *localTool) Available() bool {
	if _, err := l.exec.LookPath(l.bin); err != nil {
		return false
	}
	return l.exec.RunSilent(l.bin, "--version") == nil
}

func (l *localTool) Run(args []string, stdin io.Reader, stdout io.Writer) error {
	if err := l.exec.RunPiped(l.bin, args, stdin, stdout); err != nil {
		return fmt.Errorf("running %s: %w", l.bin, err)
	}
	return nil
}

// containerTool runs the pandoc image under docker or podman. Both
// runtimes share the same logic; they differ only in binary name and the
// subcommand used to check image existence.
type containerTool struct {
	bin           string
	image         string
	imageCheckCmd []string // e.g. ["image", "inspect"] for docker
	exec          executor
}

func (c *containerTool) Name() string { return c.bin }

func (c *containerTool) Available() bool {
	if _, err := c.exec.LookPath(c.bin); err != nil {
		return false
	}
	return c.exec.RunSilent(c.bin, "info") == nil
}

func (c *containerTool) imageExists() error {
	args := make([]string, 0, len(c.imageCheckCmd)+1)
	args = append(args, c.imageCheckCmd...)
	args = append(args, c.image)

	if err := c.exec.RunSilent(c.bin, args...); err != nil {
		return fmt.Errorf("image %s not found in %s: %w", c.image, c.bin, err)
	}
	return nil
}

func (c *containerTool) Run(args []string, stdin io.Reader, stdout io.Writer) error {
	full := append([]string{"run", "--rm", "-i", c.image}, args...)
	if err := c.exec.RunPiped(c.bin, full, stdin, stdout); err != nil {
		return fmt.Errorf("running %s container %s: %w", c.bin, c.image, err)
	}
	return nil
}

func newLocalTool(exec executor) *localTool {
	return &localTool{bin: binPandoc, exec: exec}
}

func newDockerTool(image string, exec executor) *containerTool {
	return &containerTool{
		bin:           binDocker,
		image:         image,
		imageCheckCmd: []string{"image", "inspect"},
		exec:          exec,
	}
}

func newPodmanTool(image string, exec executor) *containerTool {
	return &containerTool{
		bin:           binPodman,
		image:         image,
		imageCheckCmd: []string{"image", "exists"},
		exec:          exec,
	}
}

var defaultExec = &osExecutor{}

// Detect returns the first usable converter tool: the local pandoc binary,
// then the pandoc image under docker, then podman. An empty image selects
// DefaultImage.
func Detect(image string) (Tool, error) {
	return detect(image, defaultExec)
}

func detect(image string, exec executor) (Tool, error) {
	if image == "" {
		image = DefaultImage
	}

	local := newLocalTool(exec)
	if local.Available() {
		return local, nil
	}

	for _, ct := range []*containerTool{newDockerTool(image, exec), newPodmanTool(image, exec)} {
		if !ct.Available() {
			continue
		}
		if err := ct.imageExists(); err != nil {
			continue
		}
		return ct, nil
	}

	return nil, fmt.Errorf(
		"no converter available: %s not on PATH and image %s not found under %s or %s",
		binPandoc, image, binDocker, binPodman,
	)
}
