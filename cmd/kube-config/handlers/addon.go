package handlers

import (
	"context"
	"fmt"

	"github.com/gardleopard/kubernetes-on-arm/internal/addons"
	"github.com/gardleopard/kubernetes-on-arm/internal/config"
	"github.com/gardleopard/kubernetes-on-arm/internal/node"
	"github.com/gardleopard/kubernetes-on-arm/internal/util/runner"
)

// newAddonManager creates the addon manager.
// Factory variable - can be replaced in tests.
var newAddonManager = func(version string, inspector node.Inspector, r runner.Runner) *addons.Manager {
	return addons.NewManager(config.AddonDir, version, inspector, r)
}

// EnableAddons handles the enable-addon command for one or more addons.
func EnableAddons(ctx context.Context, names []string) error {
	m, err := addonManager()
	if err != nil {
		return err
	}
	return m.Apply(ctx, names...)
}

// DisableAddons handles the disable-addon command for one or more addons.
func DisableAddons(ctx context.Context, names []string) error {
	m, err := addonManager()
	if err != nil {
		return err
	}
	return m.Remove(ctx, names...)
}

func addonManager() (*addons.Manager, error) {
	versions, err := loadVersions()
	if err != nil {
		return nil, err
	}
	inspector, err := newInspector()
	if err != nil {
		return nil, fmt.Errorf("connecting to container runtime: %w", err)
	}
	return newAddonManager(versions.AddonVersion(), inspector, newRunner()), nil
}
