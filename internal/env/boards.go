package env

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/gardleopard/kubernetes-on-arm/internal/util/runner"
)

// bootCmdlinePath is the kernel command line on Raspberry Pi images.
// Variable so tests can redirect it.
var bootCmdlinePath = "/boot/cmdline.txt"

// cgroupParams must be on the kernel command line for the kubelet to place
// containers in memory and cpuset cgroups on Raspberry Pi kernels.
var cgroupParams = []string{
	"cgroup_enable=cpuset",
	"cgroup_enable=memory",
	"cgroup_memory=1",
}

func supportedBoards() []Entry {
	raspberry := Hooks{PostInstall: enableCgroupBootParams}

	return []Entry{
		{Name: "rpi", Hooks: raspberry},
		{Name: "rpi-2", Hooks: raspberry},
		{Name: "rpi-3", Hooks: raspberry},
		{Name: "banana-pro"},
		{Name: "cubietruck"},
		{Name: "generic"},
	}
}

// enableCgroupBootParams appends the missing cgroup parameters to the
// single-line kernel command line. Idempotent.
func enableCgroupBootParams(_ context.Context, _ runner.Runner) error {
	data, err := os.ReadFile(bootCmdlinePath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", bootCmdlinePath, err)
	}

	line, changed := ensureBootParams(string(data), cgroupParams)
	if !changed {
		return nil
	}
	if err := os.WriteFile(bootCmdlinePath, []byte(line), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", bootCmdlinePath, err)
	}
	return nil
}

// ensureBootParams adds each missing param to the first line of cmdline,
// preserving the trailing newline if one was present.
func ensureBootParams(cmdline string, params []string) (string, bool) {
	trailingNewline := strings.HasSuffix(cmdline, "\n")
	line := strings.TrimRight(cmdline, "\n")

	have := make(map[string]bool)
	for _, tok := range strings.Fields(line) {
		have[tok] = true
	}

	changed := false
	for _, p := range params {
		if !have[p] {
			line += " " + p
			changed = true
		}
	}

	if trailingNewline {
		line += "\n"
	}
	return line, changed
}
