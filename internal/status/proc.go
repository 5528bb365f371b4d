package status

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// procRoot is /proc, variable so tests can fabricate a process table.
var procRoot = "/proc"

// clockTicksPerSecond is the kernel USER_HZ value; fixed at 100 on every
// Linux architecture this tool supports.
const clockTicksPerSecond = 100

// pidOf returns the pid of the first process whose comm matches name, or 0
// when none does.
func pidOf(name string) int {
	entries, err := os.ReadDir(procRoot)
	if err != nil {
		return 0
	}

	for _, e := range entries {
		pid, err := strconv.Atoi(e.Name())
		if err != nil {
			continue
		}
		comm, err := os.ReadFile(filepath.Join(procRoot, e.Name(), "comm"))
		if err != nil {
			continue
		}
		if strings.TrimSpace(string(comm)) == name {
			return pid
		}
	}
	return 0
}

// cpuMinutes returns the accumulated user+system CPU time of pid in whole
// minutes, from the process accounting fields of /proc/<pid>/stat.
func cpuMinutes(pid int) (int, error) {
	data, err := os.ReadFile(filepath.Join(procRoot, strconv.Itoa(pid), "stat"))
	if err != nil {
		return 0, err
	}

	// The comm field is parenthesized and may contain spaces; fields are
	// counted after the closing parenthesis. utime and stime are the 14th
	// and 15th stat fields, i.e. index 11 and 12 past the comm.
	idx := strings.LastIndexByte(string(data), ')')
	if idx < 0 {
		return 0, fmt.Errorf("malformed stat for pid %d", pid)
	}
	fields := strings.Fields(string(data[idx+1:]))
	if len(fields) < 13 {
		return 0, fmt.Errorf("malformed stat for pid %d", pid)
	}

	utime, err := strconv.ParseUint(fields[11], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing utime for pid %d: %w", pid, err)
	}
	stime, err := strconv.ParseUint(fields[12], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing stime for pid %d: %w", pid, err)
	}

	return int((utime + stime) / clockTicksPerSecond / 60), nil
}

// processCPUMinutes resolves the CPU minutes for a named process,
// best-effort: a missing process yields ("", false).
func processCPUMinutes(name string) (string, bool) {
	pid := pidOf(name)
	if pid == 0 {
		return "", false
	}
	minutes, err := cpuMinutes(pid)
	if err != nil {
		return "", false
	}
	return strconv.Itoa(minutes) + " min", true
}
