package runner

import (
	"context"
	"io"
)

// Fake is a Runner that records invocations instead of executing them.
// Intended for tests in this module and kept out of _test.go files so
// other packages can share it.
type Fake struct {
	// Commands holds every command passed to Run or Output, in order.
	Commands []Command

	// Err, when set, is returned from every invocation.
	Err error

	// ErrFor maps a command name to an error returned for that command only.
	ErrFor map[string]error

	// Outputs maps a command name to the output Output returns for it.
	Outputs map[string]string

	// Stdins holds the stdin contents captured per invocation, empty string
	// when no stdin was supplied.
	Stdins []string
}

// Run records the command.
func (f *Fake) Run(_ context.Context, cmd Command) error {
	f.record(cmd)
	return f.errFor(cmd.Name)
}

// Output records the command and returns the configured output.
func (f *Fake) Output(_ context.Context, cmd Command) (string, error) {
	f.record(cmd)
	return f.Outputs[cmd.Name], f.errFor(cmd.Name)
}

// Names returns the command names recorded so far.
func (f *Fake) Names() []string {
	names := make([]string, 0, len(f.Commands))
	for _, c := range f.Commands {
		names = append(names, c.Name)
	}
	return names
}

func (f *Fake) record(cmd Command) {
	f.Commands = append(f.Commands, cmd)

	stdin := ""
	if cmd.Stdin != nil {
		if b, err := io.ReadAll(cmd.Stdin); err == nil {
			stdin = string(b)
		}
	}
	f.Stdins = append(f.Stdins, stdin)
}

func (f *Fake) errFor(name string) error {
	if err, ok := f.ErrFor[name]; ok {
		return err
	}
	return f.Err
}
