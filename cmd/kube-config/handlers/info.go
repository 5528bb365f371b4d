package handlers

import (
	"context"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/gardleopard/kubernetes-on-arm/internal/node"
	"github.com/gardleopard/kubernetes-on-arm/internal/status"
)

// infoOut is where the report is written. Variable so tests can capture it.
var infoOut io.Writer = os.Stdout

// styledOutput reports whether stdout is a terminal worth styling.
var styledOutput = func() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// Info handles the info command. It gathers whatever the node will tell
// about itself and prints it; fields that cannot be determined are left
// out rather than failing the command.
func Info(ctx context.Context, build status.BuildInfo) error {
	runtime, err := newInspector()
	if err != nil {
		// No runtime, no role. Everything else still reports.
		runtime = offlineRuntime{err: err}
	}

	report := status.NewReporter(newRunner(), runtime, build).Gather(ctx)
	status.Render(infoOut, report, styledOutput())
	return nil
}

// offlineRuntime stands in when the container runtime is unreachable.
type offlineRuntime struct {
	err error
}

func (o offlineRuntime) Role(context.Context) (node.Role, error) { return node.RoleNone, o.err }

func (o offlineRuntime) ServerVersion(context.Context) string { return "" }
