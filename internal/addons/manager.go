// Package addons manages optional Kubernetes manifest bundles against a
// running cluster. Manifests live as <name>.yaml files in the addon
// directory; applying one substitutes the image version placeholder and
// pipes the result to kubectl.
package addons

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/gardleopard/kubernetes-on-arm/internal/node"
	"github.com/gardleopard/kubernetes-on-arm/internal/util/runner"
)

// versionPlaceholder is replaced with the pinned addon image version in
// every manifest before submission.
const versionPlaceholder = "VERSION"

// ErrNodeInactive rejects addon operations while no cluster component runs
// on this node.
var ErrNodeInactive = errors.New("this node is not running a cluster; enable it first")

// Manager applies and removes addons.
type Manager struct {
	dir       string
	version   string
	inspector node.Inspector
	runner    runner.Runner
}

// NewManager returns a manager reading manifests from dir and stamping
// them with the given image version.
func NewManager(dir, version string, inspector node.Inspector, r runner.Runner) *Manager {
	return &Manager{dir: dir, version: version, inspector: inspector, runner: r}
}

// Apply creates every named addon. Names without a manifest are warned
// about and skipped; one bad name never aborts the batch.
func (m *Manager) Apply(ctx context.Context, names ...string) error {
	return m.submit(ctx, "create", names)
}

// Remove deletes every named addon with the same batch semantics as Apply.
func (m *Manager) Remove(ctx context.Context, names ...string) error {
	return m.submit(ctx, "delete", names)
}

func (m *Manager) submit(ctx context.Context, action string, names []string) error {
	// Liveness is checked once per batch, not per addon.
	role, err := m.inspector.Role(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNodeInactive, err)
	}
	if !role.Active() {
		return ErrNodeInactive
	}

	var failed []string
	for _, name := range names {
		if err := m.submitOne(ctx, action, name); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				log.Warnf("no manifest for addon %q in %s, skipping", name, m.dir)
				continue
			}
			// kubectl failures also skip-and-continue so the rest of the
			// batch still gets submitted.
			log.Warnf("addon %q: %v", name, err)
			failed = append(failed, name)
		}
	}

	if len(failed) > 0 {
		return fmt.Errorf("addon %s failed for: %s", action, strings.Join(failed, ", "))
	}
	return nil
}

func (m *Manager) submitOne(ctx context.Context, action, name string) error {
	manifest, err := m.render(name)
	if err != nil {
		return err
	}

	log.Infof("%s addon %s", action, name)
	if err := m.runner.Run(ctx, runner.Command{
		Name:  "kubectl",
		Args:  []string{action, "-f", "-"},
		Stdin: strings.NewReader(manifest),
	}); err != nil {
		return fmt.Errorf("kubectl %s: %w", action, err)
	}
	return nil
}

// render loads the manifest for name, substitutes the version placeholder
// and checks the result still parses as YAML before it goes anywhere near
// the cluster.
func (m *Manager) render(name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(m.dir, name+".yaml"))
	if err != nil {
		return "", err
	}

	manifest := strings.ReplaceAll(string(data), versionPlaceholder, m.version)
	if err := validateYAML(manifest); err != nil {
		return "", fmt.Errorf("manifest for %s: %w", name, err)
	}
	return manifest, nil
}

// validateYAML decodes every document in a multi-document manifest.
func validateYAML(manifest string) error {
	dec := yaml.NewDecoder(strings.NewReader(manifest))
	for {
		var doc any
		if err := dec.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("invalid yaml: %w", err)
		}
	}
}
