// Package runner abstracts external process invocation so callers can be
// tested without spawning real commands.
package runner

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Command describes a single external process invocation.
type Command struct {
	Name string
	Args []string

	// Dir is the working directory; empty means the current directory.
	Dir string

	// Env entries are appended to the parent environment.
	Env []string

	// Stdin, when set, is wired to the process standard input.
	Stdin io.Reader
}

func (c Command) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// Runner executes external commands.
type Runner interface {
	// Run executes the command, streaming its output to the operator.
	Run(ctx context.Context, cmd Command) error

	// Output executes the command and returns its combined output.
	Output(ctx context.Context, cmd Command) (string, error)
}

// New returns a Runner backed by os/exec.
func New() Runner {
	return &execRunner{}
}

type execRunner struct{}

func (r *execRunner) Run(ctx context.Context, cmd Command) error {
	log.Debugf("running: %s", cmd)

	c := r.build(ctx, cmd)
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr

	if err := c.Run(); err != nil {
		return fmt.Errorf("%s: %w", cmd.Name, err)
	}
	return nil
}

func (r *execRunner) Output(ctx context.Context, cmd Command) (string, error) {
	log.Debugf("running: %s", cmd)

	var buf bytes.Buffer
	c := r.build(ctx, cmd)
	c.Stdout = &buf
	c.Stderr = &buf

	if err := c.Run(); err != nil {
		return buf.String(), fmt.Errorf("%s: %w", cmd.Name, err)
	}
	return buf.String(), nil
}

func (r *execRunner) build(ctx context.Context, cmd Command) *exec.Cmd {
	// #nosec G204 -- command names and arguments come from internal callers,
	// never from remote input.
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	if len(cmd.Env) > 0 {
		c.Env = append(os.Environ(), cmd.Env...)
	}
	c.Stdin = cmd.Stdin
	return c
}

// LookPath reports whether a binary is available in PATH.
// Declared as a variable so tests can stub tool discovery.
var LookPath = func(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
