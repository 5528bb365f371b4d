package env

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/gardleopard/kubernetes-on-arm/internal/util/runner"
)

// Hook is one optional extension point. A nil hook is a no-op.
type Hook func(ctx context.Context, r runner.Runner) error

// Hooks is the capability set an entry may implement. Both slots are
// optional; dispatch skips what an entry does not define.
type Hooks struct {
	PreInstall  Hook
	PostInstall Hook
}

// Run invokes the named slot when defined.
func (h Hooks) Run(ctx context.Context, slot string, r runner.Runner) error {
	var hook Hook
	switch slot {
	case "pre-install":
		hook = h.PreInstall
	case "post-install":
		hook = h.PostInstall
	default:
		return fmt.Errorf("unknown hook slot %q", slot)
	}

	if hook == nil {
		return nil
	}
	if err := hook(ctx, r); err != nil {
		return fmt.Errorf("%s hook: %w", slot, err)
	}
	return nil
}

// Entry is one installable board or OS.
type Entry struct {
	Name  string
	Hooks Hooks
}

// Registry validates board/OS names and resolves their hooks.
type Registry struct {
	boards map[string]Entry
	oses   map[string]Entry
}

// NewRegistry returns the registry of supported boards and OSes.
func NewRegistry() *Registry {
	return &Registry{
		boards: index(supportedBoards()),
		oses:   index(supportedOSes()),
	}
}

// Board resolves a board by name.
func (r *Registry) Board(name string) (Entry, error) {
	e, ok := r.boards[name]
	if !ok {
		return Entry{}, fmt.Errorf("unsupported board %q (available: %s)",
			name, strings.Join(r.BoardNames(), ", "))
	}
	return e, nil
}

// OS resolves an operating system by name.
func (r *Registry) OS(name string) (Entry, error) {
	e, ok := r.oses[name]
	if !ok {
		return Entry{}, fmt.Errorf("unsupported os %q (available: %s)",
			name, strings.Join(r.OSNames(), ", "))
	}
	return e, nil
}

// Validate checks both halves of a profile against the registry.
func (r *Registry) Validate(p *Profile) error {
	if _, err := r.Board(p.Board); err != nil {
		return err
	}
	if _, err := r.OS(p.OS); err != nil {
		return err
	}
	return nil
}

// BoardNames returns the supported board names, sorted.
func (r *Registry) BoardNames() []string {
	return names(r.boards)
}

// OSNames returns the supported OS names, sorted.
func (r *Registry) OSNames() []string {
	return names(r.oses)
}

func index(entries []Entry) map[string]Entry {
	m := make(map[string]Entry, len(entries))
	for _, e := range entries {
		m[e.Name] = e
	}
	return m
}

func names(m map[string]Entry) []string {
	out := make([]string, 0, len(m))
	for name := range m {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
