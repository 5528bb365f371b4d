package install

import (
	"fmt"
	"os"
	"strings"
)

// storage driver flags recognized on the docker daemon invocation. Both the
// short and long spellings are normalized away before the desired flag is
// appended, in one deterministic pass.
const (
	shortDriverFlag = "-s"
	longDriverFlag  = "--storage-driver"
)

// PatchUnitStorageDriver rewrites the ExecStart= line of a docker service
// unit so it specifies exactly one --storage-driver=<driver> flag. Every
// pre-existing driver flag, in any spelling, is dropped first. All other
// lines are returned untouched. The second result reports whether the
// content changed.
func PatchUnitStorageDriver(unit, driver string) (string, bool) {
	lines := strings.Split(unit, "\n")
	changed := false

	for i, line := range lines {
		if !strings.HasPrefix(strings.TrimSpace(line), "ExecStart=") {
			continue
		}
		patched := patchExecStart(line, driver)
		if patched != line {
			lines[i] = patched
			changed = true
		}
	}

	return strings.Join(lines, "\n"), changed
}

func patchExecStart(line, driver string) string {
	prefix := line[:strings.Index(line, "ExecStart=")+len("ExecStart=")]
	fields := strings.Fields(line[len(prefix):])

	out := make([]string, 0, len(fields)+1)
	skipNext := false
	for _, f := range fields {
		switch {
		case skipNext:
			skipNext = false
		case f == shortDriverFlag || f == longDriverFlag:
			// Flag with the value as the next token.
			skipNext = true
		case strings.HasPrefix(f, shortDriverFlag+"=") || strings.HasPrefix(f, longDriverFlag+"="):
			// Flag with an inline value.
		default:
			out = append(out, f)
		}
	}
	out = append(out, longDriverFlag+"="+driver)

	return prefix + strings.Join(out, " ")
}

// ensureStorageDriver patches the service unit on disk and reloads docker
// when anything changed.
func (i *Installer) ensureStorageDriver(driver string) (bool, error) {
	data, err := os.ReadFile(i.paths.DockerUnit)
	if err != nil {
		return false, fmt.Errorf("reading docker unit: %w", err)
	}

	patched, changed := PatchUnitStorageDriver(string(data), driver)
	if !changed {
		return false, nil
	}

	if err := os.WriteFile(i.paths.DockerUnit, []byte(patched), 0o644); err != nil {
		return false, fmt.Errorf("writing docker unit: %w", err)
	}
	return true, nil
}
