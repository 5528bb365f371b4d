// Package status gathers read-only diagnostics about the local node:
// hardware, component versions, and the CPU time the cluster processes
// have burned. Every field is best-effort; a missing tool or process
// leaves its field empty instead of failing the report.
package status

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/gardleopard/kubernetes-on-arm/internal/config"
	"github.com/gardleopard/kubernetes-on-arm/internal/node"
	"github.com/gardleopard/kubernetes-on-arm/internal/util/runner"
)

// BuildInfo carries the metadata stamped into the binary at build time.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// Report is the aggregated node status.
type Report struct {
	Build BuildInfo

	Architecture string
	Kernel       string
	Cores        string
	MaxClock     string
	MemoryUsed   string
	MemoryFree   string
	DiskUsed     string
	DiskFree     string

	// ImageBuild is the content of the optional image build metadata file.
	ImageBuild string

	SystemdVersion string
	DockerVersion  string
	KubectlVersion string
	ServerVersion  string

	Role node.Role

	// ProcessCPU maps a cluster process name to its accumulated CPU time.
	// Only present for processes that are actually running.
	ProcessCPU map[string]string
}

// RuntimeInfo is the slice of the container runtime the reporter needs.
type RuntimeInfo interface {
	Role(ctx context.Context) (node.Role, error)
	ServerVersion(ctx context.Context) string
}

// Reporter gathers a Report.
type Reporter struct {
	runner  runner.Runner
	runtime RuntimeInfo
	build   BuildInfo

	// introspection roots, variables for tests
	meminfoPath string
	cpuinfoPath string
	maxFreqPath string
	diskPath    string
	metaDir     string
}

// NewReporter wires a reporter against the real system.
func NewReporter(r runner.Runner, runtime RuntimeInfo, build BuildInfo) *Reporter {
	return &Reporter{
		runner:      r,
		runtime:     runtime,
		build:       build,
		meminfoPath: "/proc/meminfo",
		cpuinfoPath: "/proc/cpuinfo",
		maxFreqPath: "/sys/devices/system/cpu/cpu0/cpufreq/cpuinfo_max_freq",
		diskPath:    "/",
		metaDir:     config.DataDir,
	}
}

// Gather collects every field. It never returns an error: silence is the
// failure mode of a diagnostics report.
func (r *Reporter) Gather(ctx context.Context) *Report {
	report := &Report{Build: r.build, ProcessCPU: map[string]string{}}

	r.gatherHardware(report)
	report.ImageBuild = BuildMetadataFile(r.metaDir)
	r.gatherVersions(ctx, report)
	r.gatherClusterProcesses(ctx, report)

	return report
}

func (r *Reporter) gatherHardware(report *Report) {
	var uts unix.Utsname
	if err := unix.Uname(&uts); err == nil {
		report.Architecture = unixString(uts.Machine[:])
		report.Kernel = unixString(uts.Release[:])
	}

	report.Cores = r.coreCount()
	report.MaxClock = r.maxClock()
	report.MemoryUsed, report.MemoryFree = r.memory()
	report.DiskUsed, report.DiskFree = r.disk()
}

func (r *Reporter) gatherVersions(ctx context.Context, report *Report) {
	if out, err := r.runner.Output(ctx, runner.Command{Name: "systemctl", Args: []string{"--version"}}); err == nil {
		report.SystemdVersion = firstLine(out)
	}

	report.DockerVersion = r.runtime.ServerVersion(ctx)

	if out, err := r.runner.Output(ctx, runner.Command{
		Name: "kubectl", Args: []string{"version", "--client"},
	}); err == nil {
		report.KubectlVersion = versionLine(out, "Client Version:")
	}

	// Server version answers only when a cluster is reachable; kubectl
	// exits nonzero otherwise, so the field stays empty.
	if out, err := r.runner.Output(ctx, runner.Command{
		Name: "kubectl", Args: []string{"version"},
	}); err == nil {
		report.ServerVersion = versionLine(out, "Server Version:")
	}
}

// versionLine extracts the value of the labeled line from kubectl version
// output, e.g. "Client Version: v1.29.3".
func versionLine(out, label string) string {
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, label) {
			return strings.TrimSpace(strings.TrimPrefix(line, label))
		}
	}
	return ""
}

// Cluster process names whose CPU accounting is reported. The master set
// is only consulted when the node classifies as master.
var (
	nodeProcesses   = []string{"kubelet", "kube-proxy"}
	masterProcesses = []string{"kube-apiserver", "kube-controller-manager", "kube-scheduler"}
)

func (r *Reporter) gatherClusterProcesses(ctx context.Context, report *Report) {
	role, err := r.runtime.Role(ctx)
	if err != nil {
		return
	}
	report.Role = role
	if !role.Active() {
		return
	}

	names := nodeProcesses
	if role == node.RoleMaster {
		names = append(append([]string{}, nodeProcesses...), masterProcesses...)
	}
	for _, name := range names {
		if minutes, ok := processCPUMinutes(name); ok {
			report.ProcessCPU[name] = minutes
		}
	}
}

func (r *Reporter) coreCount() string {
	data, err := os.ReadFile(r.cpuinfoPath)
	if err != nil {
		return ""
	}
	count := 0
	for _, line := range strings.Split(string(data), "\n") {
		if strings.HasPrefix(line, "processor") {
			count++
		}
	}
	if count == 0 {
		return ""
	}
	return strconv.Itoa(count)
}

func (r *Reporter) maxClock() string {
	data, err := os.ReadFile(r.maxFreqPath)
	if err != nil {
		return ""
	}
	khz, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%d MHz", khz/1000)
}

func (r *Reporter) memory() (used, free string) {
	f, err := os.Open(r.meminfoPath)
	if err != nil {
		return "", ""
	}
	defer func() { _ = f.Close() }()

	var totalKiB, availableKiB int
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 {
			continue
		}
		switch fields[0] {
		case "MemTotal:":
			totalKiB, _ = strconv.Atoi(fields[1])
		case "MemAvailable:":
			availableKiB, _ = strconv.Atoi(fields[1])
		}
	}
	if totalKiB == 0 {
		return "", ""
	}
	return mib(totalKiB - availableKiB), mib(availableKiB)
}

func (r *Reporter) disk() (used, free string) {
	var st unix.Statfs_t
	if err := unix.Statfs(r.diskPath, &st); err != nil {
		return "", ""
	}

	// #nosec G115 -- block counts fit comfortably in int64 here
	total := int64(st.Blocks) * st.Bsize
	available := int64(st.Bavail) * st.Bsize
	return gib(total - available), gib(available)
}

func mib(kib int) string {
	return fmt.Sprintf("%d MiB", kib/1024)
}

func gib(b int64) string {
	return fmt.Sprintf("%.1f GiB", float64(b)/(1<<30))
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return strings.TrimSpace(line)
}

func unixString(b []byte) string {
	if i := strings.IndexByte(string(b), 0); i >= 0 {
		return string(b[:i])
	}
	return string(b)
}

// BuildMetadataFile reads an optional metadata file written at image build
// time, returning its trimmed content or empty.
func BuildMetadataFile(dir string) string {
	data, err := os.ReadFile(filepath.Join(dir, "build-info"))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
