package status

import (
	"fmt"
	"io"
	"sort"

	"github.com/charmbracelet/lipgloss"
)

var (
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#3b82f6"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280")).Width(18)
	valueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#f9fafb"))
)

// Render writes the report. Styled output for terminals, plain key/value
// lines otherwise; empty fields are omitted either way.
func Render(w io.Writer, r *Report, styled bool) {
	section(w, "Node", styled)
	row(w, "Role", r.Role.String(), styled)
	row(w, "Architecture", r.Architecture, styled)
	row(w, "Kernel", r.Kernel, styled)
	row(w, "Cores", r.Cores, styled)
	row(w, "Max clock", r.MaxClock, styled)
	row(w, "Memory used", r.MemoryUsed, styled)
	row(w, "Memory free", r.MemoryFree, styled)
	row(w, "Disk used", r.DiskUsed, styled)
	row(w, "Disk free", r.DiskFree, styled)

	section(w, "Versions", styled)
	row(w, "kube-config", buildLine(r.Build), styled)
	row(w, "Image build", r.ImageBuild, styled)
	row(w, "systemd", r.SystemdVersion, styled)
	row(w, "docker", r.DockerVersion, styled)
	row(w, "kubectl", r.KubectlVersion, styled)
	row(w, "cluster", r.ServerVersion, styled)

	if len(r.ProcessCPU) > 0 {
		section(w, "Cluster CPU time", styled)
		names := make([]string, 0, len(r.ProcessCPU))
		for name := range r.ProcessCPU {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			row(w, name, r.ProcessCPU[name], styled)
		}
	}
}

func buildLine(b BuildInfo) string {
	if b.Version == "" {
		return ""
	}
	return fmt.Sprintf("%s (%s, %s)", b.Version, b.Commit, b.Date)
}

func section(w io.Writer, title string, styled bool) {
	if styled {
		fmt.Fprintln(w, sectionStyle.Render(title))
		return
	}
	fmt.Fprintf(w, "[%s]\n", title)
}

func row(w io.Writer, label, value string, styled bool) {
	if value == "" {
		return
	}
	if styled {
		fmt.Fprintf(w, "%s %s\n", labelStyle.Render(label), valueStyle.Render(value))
		return
	}
	fmt.Fprintf(w, "%s: %s\n", label, value)
}
