package env

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
	log "github.com/sirupsen/logrus"
)

// promptProfile asks the operator to pick a board and OS. Factory variable
// so tests can resolve without a terminal.
var promptProfile = func(ctx context.Context, reg *Registry) (*Profile, error) {
	p := &Profile{}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Board").
				Description("The single-board computer this node runs on").
				Options(huh.NewOptions(reg.BoardNames()...)...).
				Value(&p.Board),
			huh.NewSelect[string]().
				Title("Operating System").
				Description("The distribution installed on this node").
				Options(huh.NewOptions(reg.OSNames()...)...).
				Value(&p.OS),
		).Title("Machine Profile"),
	)

	if err := form.RunWithContext(ctx); err != nil {
		return nil, fmt.Errorf("machine profile prompt: %w", err)
	}
	return p, nil
}

// isInteractive reports whether stdin is a terminal we may prompt on.
var isInteractive = func() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
}

// Resolve determines the machine profile, in order of precedence:
// explicit values (from BOARD/OS env or flags), the persisted profile, and
// finally an interactive prompt. The result is validated against the
// registry and persisted unconditionally once known.
func Resolve(ctx context.Context, reg *Registry, path, board, osName string) (*Profile, error) {
	p, err := resolveUnvalidated(ctx, reg, path, board, osName)
	if err != nil {
		return nil, err
	}

	if err := reg.Validate(p); err != nil {
		return nil, err
	}
	if err := p.Save(path); err != nil {
		return nil, err
	}
	return p, nil
}

func resolveUnvalidated(ctx context.Context, reg *Registry, path, board, osName string) (*Profile, error) {
	if board != "" && osName != "" {
		return &Profile{Board: board, OS: osName}, nil
	}

	persisted, err := LoadProfile(path)
	if err != nil {
		return nil, err
	}
	if persisted != nil {
		// Explicit values override the persisted half they name.
		if board != "" {
			persisted.Board = board
		}
		if osName != "" {
			persisted.OS = osName
		}
		return persisted, nil
	}

	if board != "" || osName != "" {
		return nil, fmt.Errorf("both BOARD and OS must be set when no profile is persisted (got BOARD=%q OS=%q)", board, osName)
	}

	if !isInteractive() {
		return nil, fmt.Errorf("no machine profile at %s and not running on a terminal; set BOARD and OS", path)
	}

	log.Info("no machine profile found, asking")
	return promptProfile(ctx, reg)
}
